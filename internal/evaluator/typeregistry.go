package evaluator

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// TypeObject is a resolved type: either a braid primitive type or a
// registered host Go type. Soft marks a type object produced by a `^T?`
// literal, which casts through host coercion instead of assignability.
type TypeObject struct {
	Name       string
	GoType     reflect.Type // nil for the pseudo-types list and any
	Soft       bool
	IsListType bool // the empty-list type; nil passes its strict cast
	IsAny      bool
}

func (t *TypeObject) Type() ObjectType { return TYPE_OBJ }
func (t *TypeObject) Inspect() string  { return "^" + t.Name }
func (t *TypeObject) Hash() uint32     { return hashString(strings.ToLower(t.Name)) }

// Invoke casts its argument per the mode the type object was produced
// with. With no arguments the type object is its own value.
func (t *TypeObject) Invoke(e *Evaluator, args []Object) Object {
	switch len(args) {
	case 0:
		return t
	case 1:
		return e.Cast(args[0], t)
	default:
		return newError(ErrArityMismatch, "type %s takes at most 1 argument, got %d", t.Name, len(args))
	}
}

// HostProperty is a get/set pair registered for a host or primitive type.
// Properties resolve before fields and methods in member dispatch.
type HostProperty struct {
	Name string
	Get  func(e *Evaluator, recv Object) Object
	Set  func(e *Evaluator, recv Object, val Object) Object // nil for read-only
}

// TypeRegistry resolves textual type names to type objects and carries
// per-type property tables. Lookup is case-insensitive. Resolution
// results never change once produced.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]*TypeObject
	props map[string]map[string]*HostProperty // braid type name -> property name -> prop
}

func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{
		types: make(map[string]*TypeObject),
		props: make(map[string]map[string]*HostProperty),
	}

	r.register(&TypeObject{Name: "int", GoType: reflect.TypeOf(int64(0))})
	r.register(&TypeObject{Name: "float", GoType: reflect.TypeOf(float64(0))})
	r.register(&TypeObject{Name: "bool", GoType: reflect.TypeOf(false)})
	r.register(&TypeObject{Name: "string", GoType: reflect.TypeOf("")})
	r.register(&TypeObject{Name: "char", GoType: reflect.TypeOf(rune(0))})
	r.register(&TypeObject{Name: "symbol", GoType: reflect.TypeOf(&Symbol{})})
	r.register(&TypeObject{Name: "keyword", GoType: reflect.TypeOf(&Keyword{})})
	r.register(&TypeObject{Name: "vector", GoType: reflect.TypeOf(&Vector{})})
	r.register(&TypeObject{Name: "dict", GoType: reflect.TypeOf(&Dict{})})
	r.register(&TypeObject{Name: "set", GoType: reflect.TypeOf(&HashSet{})})
	r.register(&TypeObject{Name: "regex", GoType: reflect.TypeOf(&regexp.Regexp{})})
	r.register(&TypeObject{Name: "list", IsListType: true})
	r.register(&TypeObject{Name: "any", IsAny: true})

	// Host types available out of the box.
	r.RegisterHostType("uuid", reflect.TypeOf(uuid.UUID{}))

	return r
}

func (r *TypeRegistry) register(t *TypeObject) {
	r.types[strings.ToLower(t.Name)] = t
}

// RegisterHostType exposes a Go type to braid code under name.
func (r *TypeRegistry) RegisterHostType(name string, t reflect.Type) *TypeObject {
	r.mu.Lock()
	defer r.mu.Unlock()
	to := &TypeObject{Name: name, GoType: t}
	r.register(to)
	return to
}

// Resolve looks a type name up; the boolean reports whether it exists.
func (r *TypeRegistry) Resolve(name string) (*TypeObject, bool) {
	r.mu.RLock()
	t, ok := r.types[strings.ToLower(name)]
	r.mu.RUnlock()
	return t, ok
}

// RegisterProperty attaches a property to a braid type name.
func (r *TypeRegistry) RegisterProperty(typeName string, p *HostProperty) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(typeName)
	if r.props[key] == nil {
		r.props[key] = make(map[string]*HostProperty)
	}
	r.props[key][strings.ToLower(p.Name)] = p
}

// Property resolves a property by type name and member name.
func (r *TypeRegistry) Property(typeName, member string) (*HostProperty, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.props[strings.ToLower(typeName)][strings.ToLower(member)]
	return p, ok
}

// propertyNames lists the properties registered for a type name.
func (r *TypeRegistry) propertyNames(typeName string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for _, p := range r.props[strings.ToLower(typeName)] {
		names = append(names, p.Name)
	}
	return names
}
