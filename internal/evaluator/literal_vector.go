package evaluator

import (
	"context"
	"sync"

	"github.com/funvibe/braid/internal/token"
)

// VectorLiteral is a `[ … ]` form. It holds its parse tree and produces
// a fresh vector on every evaluation, expanding splats in place.
type VectorLiteral struct {
	Elements []Object
	Ctx      token.SourceContext

	srcOnce sync.Once
	srcText string
}

func (vl *VectorLiteral) Type() ObjectType { return VECTOR_LITERAL_OBJ }

// Inspect caches its rendering: the parse tree never changes.
func (vl *VectorLiteral) Inspect() string {
	vl.srcOnce.Do(func() {
		r := &renderer{ctx: context.Background()}
		r.write("[")
		for i, el := range vl.Elements {
			if i > 0 {
				r.write(" ")
			}
			r.render(el)
		}
		r.write("]")
		vl.srcText = r.b.String()
	})
	return vl.srcText
}

func (vl *VectorLiteral) Hash() uint32 {
	h := uint32(5)
	for _, el := range vl.Elements {
		h = 31*h + el.Hash()
	}
	return h
}

func (vl *VectorLiteral) Context() token.SourceContext { return vl.Ctx }

// Value evaluates the held parse tree left to right into a new vector.
func (vl *VectorLiteral) Value(e *Evaluator) Object {
	elems, _, err := e.EvaluateArgs(vl.Elements)
	if err != nil {
		return err
	}
	return NewVector(elems)
}

// Invoke builds the vector, then applies the vector calling convention.
func (vl *VectorLiteral) Invoke(e *Evaluator, args []Object) Object {
	v := vl.Value(e)
	if isError(v) {
		return v
	}
	return v.(*Vector).Invoke(e, args)
}
