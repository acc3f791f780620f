package evaluator

import (
	"context"

	"github.com/funvibe/braid/internal/token"
)

// ListForm is a parsed `( … )` application form.
type ListForm struct {
	Elements []Object
	Ctx      token.SourceContext
}

func (l *ListForm) Type() ObjectType { return LIST_FORM_OBJ }
func (l *ListForm) Inspect() string {
	r := &renderer{ctx: context.Background()}
	r.write("(")
	for i, el := range l.Elements {
		if i > 0 {
			r.write(" ")
		}
		r.render(el)
	}
	r.write(")")
	return r.b.String()
}
func (l *ListForm) Hash() uint32 {
	h := uint32(3)
	for _, el := range l.Elements {
		h = 31*h + el.Hash()
	}
	return h
}

// Splat marks an element for in-place expansion into its enclosing
// container or argument list.
type Splat struct {
	Expr Object
	Ctx  token.SourceContext
}

func (s *Splat) Type() ObjectType { return SPLAT_OBJ }
func (s *Splat) Inspect() string  { return "@" + s.Expr.Inspect() }
func (s *Splat) Hash() uint32     { return 17 * s.Expr.Hash() }
