package evaluator

import (
	"context"
	"sync"

	"github.com/funvibe/braid/internal/token"
)

// HashSetLiteral is a `#{ … }` form. Evaluation accumulates elements
// uniquely under the shared equality predicate; splats contribute each
// element of an enumerable (strings stay whole) and nil splats
// contribute nothing.
type HashSetLiteral struct {
	Elements []Object
	Ctx      token.SourceContext

	srcOnce sync.Once
	srcText string
}

func (hl *HashSetLiteral) Type() ObjectType { return HASHSET_LITERAL_OBJ }

func (hl *HashSetLiteral) Inspect() string {
	hl.srcOnce.Do(func() {
		r := &renderer{ctx: context.Background()}
		r.write("#{")
		for i, el := range hl.Elements {
			if i > 0 {
				r.write(" ")
			}
			r.render(el)
		}
		r.write("}")
		hl.srcText = r.b.String()
	})
	return hl.srcText
}

func (hl *HashSetLiteral) Hash() uint32 {
	h := uint32(19)
	for _, el := range hl.Elements {
		h = 31*h + el.Hash()
	}
	return h
}

func (hl *HashSetLiteral) Context() token.SourceContext { return hl.Ctx }

func (hl *HashSetLiteral) Value(e *Evaluator) Object {
	set := NewHashSet()
	for _, el := range hl.Elements {
		if sp, ok := el.(*Splat); ok {
			v := e.Eval(sp.Expr)
			if isError(v) {
				return v
			}
			switch x := v.(type) {
			case *Nil:
			case *Vector:
				for _, it := range x.Elements {
					set.Add(it)
				}
			case *HashSet:
				x.Each(func(it Object) bool {
					set.Add(it)
					return true
				})
			case *Dict:
				x.Each(func(key, value Object) bool {
					set.Add(NewVector([]Object{key, value}))
					return true
				})
			default:
				set.Add(v)
			}
			continue
		}
		v := e.Eval(el)
		if isError(v) {
			return v
		}
		set.Add(v)
	}
	return set
}

// Invoke builds the set, then applies the set calling convention.
func (hl *HashSetLiteral) Invoke(e *Evaluator, args []Object) Object {
	s := hl.Value(e)
	if isError(s) {
		return s
	}
	return s.(*HashSet).Invoke(e, args)
}
