package evaluator

import (
	"reflect"

	"github.com/funvibe/braid/internal/token"
)

// StaticPropertyLiteral is a pre-resolved property binding: the search
// that MemberLiteral does at call time already happened at construction,
// so invocation goes straight to the property handle.
type StaticPropertyLiteral struct {
	Text     string
	Property *HostProperty
	Owner    *TypeObject
	Ctx      token.SourceContext
}

func (sp *StaticPropertyLiteral) Type() ObjectType             { return STATIC_PROP_OBJ }
func (sp *StaticPropertyLiteral) Inspect() string              { return sp.Text }
func (sp *StaticPropertyLiteral) Hash() uint32                 { return hashString(sp.Text) }
func (sp *StaticPropertyLiteral) Context() token.SourceContext { return sp.Ctx }

// A pre-resolved binding evaluates to itself; it is a first-class
// accessor until invoked.
func (sp *StaticPropertyLiteral) Value(e *Evaluator) Object { return sp }

// Invoke: one argument reads the property off the receiver, two write
// and return the receiver for pipelining.
func (sp *StaticPropertyLiteral) Invoke(e *Evaluator, args []Object) Object {
	switch len(args) {
	case 1:
		return sp.Property.Get(e, args[0])
	case 2:
		if sp.Property.Set == nil {
			return newErrorAt(ErrType, sp.Ctx, "property %s is read-only", sp.Property.Name)
		}
		if result := sp.Property.Set(e, args[0], args[1]); isError(result) {
			return result
		}
		return args[0]
	default:
		return newErrorAt(ErrArityMismatch, sp.Ctx, "%s takes 1 or 2 arguments, got %d", sp.Text, len(args))
	}
}

// StaticMethodLiteral is a pre-resolved method binding on an owning type.
type StaticMethodLiteral struct {
	Text   string
	Method reflect.Method
	Owner  *TypeObject
	Ctx    token.SourceContext
}

func (sm *StaticMethodLiteral) Type() ObjectType             { return STATIC_METHOD_OBJ }
func (sm *StaticMethodLiteral) Inspect() string              { return sm.Text }
func (sm *StaticMethodLiteral) Hash() uint32                 { return hashString(sm.Text) }
func (sm *StaticMethodLiteral) Context() token.SourceContext { return sm.Ctx }

// Value produces the bound callable.
func (sm *StaticMethodLiteral) Value(e *Evaluator) Object { return sm }

func (sm *StaticMethodLiteral) Invoke(e *Evaluator, args []Object) Object {
	if len(args) == 0 {
		return newErrorAt(ErrArityMismatch, sm.Ctx, "%s needs a receiver", sm.Text)
	}
	recvValue := reflect.ValueOf(toHost(args[0]))
	result, _ := e.callHostMethod(recvValue, sm.Method, args[1:], sm.Ctx)
	return result
}

// ResolveStaticProperty pre-binds a `.Type/member` form whose property
// the registry already knows. The parser tries this before falling back
// to a call-time MemberLiteral.
func ResolveStaticProperty(rt *Runtime, typeName, member string, ctx token.SourceContext) (*StaticPropertyLiteral, bool) {
	owner, ok := rt.Types.Resolve(typeName)
	if !ok {
		return nil, false
	}
	p, ok := rt.Types.Property(owner.Name, member)
	if !ok {
		return nil, false
	}
	return &StaticPropertyLiteral{
		Text:     "." + typeName + "/" + member,
		Property: p,
		Owner:    owner,
		Ctx:      ctx,
	}, true
}

// ResolveStaticMethod pre-binds a `.Type/member` form to a host method
// by name. Arity is unknown at read time, so the name picks the method;
// Go types do not overload, making the first match the only one.
func ResolveStaticMethod(rt *Runtime, typeName, member string, ctx token.SourceContext) (*StaticMethodLiteral, bool) {
	owner, ok := rt.Types.Resolve(typeName)
	if !ok || owner.GoType == nil {
		return nil, false
	}
	candidates := methodCandidates(owner.GoType, member)
	if owner.GoType.Kind() != reflect.Ptr {
		candidates = append(candidates, methodCandidates(reflect.PtrTo(owner.GoType), member)...)
	}
	if len(candidates) == 0 {
		return nil, false
	}
	return &StaticMethodLiteral{
		Text:   "." + typeName + "/" + member,
		Method: candidates[0],
		Owner:  owner,
		Ctx:    ctx,
	}, true
}
