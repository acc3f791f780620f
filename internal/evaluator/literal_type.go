package evaluator

import (
	"strings"
	"sync"

	"github.com/funvibe/braid/internal/token"
)

// TypeLiteral is `^Name` or `^Name?`: deferred resolution of a named
// type. The trailing `?` selects soft coercion; its absence selects
// strict. Resolution happens at most once and never changes afterwards.
type TypeLiteral struct {
	TypeName string // name without the `^` sigil or trailing `?`
	Strict   bool
	Ctx      token.SourceContext

	once     sync.Once
	resolved *TypeObject
}

// NewTypeLiteral parses the sigil-stripped name, honouring a trailing `?`.
func NewTypeLiteral(name string, ctx token.SourceContext) *TypeLiteral {
	strict := !strings.HasSuffix(name, "?")
	return &TypeLiteral{
		TypeName: strings.TrimSuffix(name, "?"),
		Strict:   strict,
		Ctx:      ctx,
	}
}

func (t *TypeLiteral) Type() ObjectType { return TYPE_LITERAL_OBJ }
func (t *TypeLiteral) Inspect() string {
	if t.Strict {
		return "^" + t.TypeName
	}
	return "^" + t.TypeName + "?"
}
func (t *TypeLiteral) Hash() uint32                 { return hashString(strings.ToLower(t.TypeName)) }
func (t *TypeLiteral) Context() token.SourceContext { return t.Ctx }

// resolve memoises the registry lookup. sync.Once runs the lookup exactly
// once, so concurrent first uses share one result.
func (t *TypeLiteral) resolve(e *Evaluator) (*TypeObject, *Error) {
	t.once.Do(func() {
		if to, ok := e.Runtime.Types.Resolve(t.TypeName); ok {
			if t.Strict {
				t.resolved = to
			} else {
				soft := *to
				soft.Soft = true
				t.resolved = &soft
			}
		}
	})
	if t.resolved == nil {
		return nil, newErrorAt(ErrUnresolvedType, t.Ctx, "unresolved type: %s", t.TypeName)
	}
	return t.resolved, nil
}

// Value evaluates to the resolved type object.
func (t *TypeLiteral) Value(e *Evaluator) Object {
	to, err := t.resolve(e)
	if err != nil {
		return err
	}
	return to
}

// Invoke: zero arguments yields the type object, one argument casts per
// the literal's mode, more is an arity error.
func (t *TypeLiteral) Invoke(e *Evaluator, args []Object) Object {
	to, rerr := t.resolve(e)
	if rerr != nil {
		return rerr
	}
	switch len(args) {
	case 0:
		return to
	case 1:
		result := e.Cast(args[0], to)
		if err, ok := result.(*Error); ok && err.Ctx.Line == 0 {
			err.Ctx = t.Ctx
		}
		return result
	default:
		return newErrorAt(ErrArityMismatch, t.Ctx, "^%s takes at most 1 argument, got %d", t.TypeName, len(args))
	}
}

// Test is the pattern-test protocol used by match expressions: it
// reports whether value matches this type and the coerced value when it
// does. Soft mode probes through TryConvert instead of raising.
func (t *TypeLiteral) Test(e *Evaluator, value Object) (bool, Object) {
	to, rerr := t.resolve(e)
	if rerr != nil {
		return false, nil
	}

	if t.Strict {
		if _, isNil := value.(*Nil); isNil {
			if to.IsListType || to.IsAny {
				return true, NIL
			}
			return false, nil
		}
		if to.IsAny {
			return true, value
		}
		if to.IsListType {
			_, ok := value.(*Vector)
			return ok, value
		}
		hv := toHost(value)
		if hv == nil {
			return false, nil
		}
		if assignableToHost(hv, to) {
			return true, value
		}
		return false, nil
	}

	coerced, ok := e.TryConvert(value, to)
	if !ok {
		return false, nil
	}
	return true, coerced
}
