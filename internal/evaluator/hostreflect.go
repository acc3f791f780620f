package evaluator

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/funvibe/braid/internal/token"
)

func assignableToHost(hv interface{}, to *TypeObject) bool {
	if to.GoType == nil {
		return false
	}
	t := reflect.TypeOf(hv)
	return t != nil && t.AssignableTo(to.GoType)
}

type dispatchKind int

const (
	dispatchProperty dispatchKind = iota
	dispatchField
	dispatchMethod
	dispatchBraidMethod
)

// dispatchRecord memoises the outcome of one member search: which of
// property, field or method to use and how to reach it. Reflection
// lookups are the hot path; records are cached by (type, member, arity).
type dispatchRecord struct {
	kind        dispatchKind
	prop        *HostProperty
	fieldIndex  []int
	method      reflect.Method
	onMetaclass bool
	braid       Invokable
}

type dispatchKey struct {
	goType  reflect.Type
	typeKey string
	member  string
	arity   int
	static  bool
}

type dispatchCache struct {
	mu      sync.RWMutex
	records map[dispatchKey]*dispatchRecord
}

func newDispatchCache() *dispatchCache {
	return &dispatchCache{records: make(map[dispatchKey]*dispatchRecord)}
}

func (c *dispatchCache) get(key dispatchKey) (*dispatchRecord, bool) {
	c.mu.RLock()
	rec, ok := c.records[key]
	c.mu.RUnlock()
	return rec, ok
}

func (c *dispatchCache) put(key dispatchKey, rec *dispatchRecord) {
	c.mu.Lock()
	c.records[key] = rec
	c.mu.Unlock()
}

// findField locates an exported struct field case-insensitively,
// dereferencing pointer types first.
func findField(t reflect.Type, member string) ([]int, bool) {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, false
	}
	f, ok := t.FieldByNameFunc(func(name string) bool {
		return strings.EqualFold(name, member)
	})
	if !ok || f.PkgPath != "" {
		return nil, false
	}
	return f.Index, true
}

// findMethod locates a method case-insensitively on a type's method set,
// including the pointer method set. Among same-named candidates an exact
// argument-type signature wins; a name+arity match is the fallback.
func findMethod(t reflect.Type, member string, args []Object) (reflect.Method, bool) {
	if t == nil {
		return reflect.Method{}, false
	}
	candidates := methodCandidates(t, member)
	if t.Kind() != reflect.Ptr {
		candidates = append(candidates, methodCandidates(reflect.PtrTo(t), member)...)
	}
	if len(candidates) == 0 {
		return reflect.Method{}, false
	}

	// Exact signature pass.
	for _, m := range candidates {
		if methodSignatureMatches(m, args) {
			return m, true
		}
	}
	// Arity pass.
	for _, m := range candidates {
		if methodArityMatches(m, len(args)) {
			return m, true
		}
	}
	return reflect.Method{}, false
}

func methodCandidates(t reflect.Type, member string) []reflect.Method {
	var out []reflect.Method
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if m.PkgPath == "" && strings.EqualFold(m.Name, member) {
			out = append(out, m)
		}
	}
	return out
}

func methodArityMatches(m reflect.Method, n int) bool {
	// Parameter 0 is the receiver.
	params := m.Type.NumIn() - 1
	if m.Type.IsVariadic() {
		return n >= params-1
	}
	return n == params
}

func methodSignatureMatches(m reflect.Method, args []Object) bool {
	if !methodArityMatches(m, len(args)) {
		return false
	}
	if m.Type.IsVariadic() {
		return false
	}
	for i, arg := range args {
		pt := m.Type.In(i + 1)
		hv := toHost(arg)
		if hv == nil {
			if pt.Kind() != reflect.Ptr && pt.Kind() != reflect.Interface {
				return false
			}
			continue
		}
		if !reflect.TypeOf(hv).AssignableTo(pt) {
			return false
		}
	}
	return true
}

// byRefSlot records a by-reference output captured during a method call
// so the caller's binding can be written after the call returns.
type byRefSlot struct {
	argIndex int
	temp     reflect.Value
}

// callHostMethod invokes a reflective method, coercing each positional
// argument to its parameter type. Pointer parameters become addressable
// temporaries whose post-call values are reported back for by-reference
// capture. Panics from the reflective call surface as host invocation
// errors with their inner cause unwrapped.
func (e *Evaluator) callHostMethod(recvValue reflect.Value, m reflect.Method, args []Object, ctx token.SourceContext) (result Object, byRefs []byRefSlot) {
	mt := m.Type

	recv := recvValue
	if want := mt.In(0); want.Kind() == reflect.Ptr && recv.Kind() != reflect.Ptr {
		ptr := reflect.New(recv.Type())
		ptr.Elem().Set(recv)
		recv = ptr
	} else if want.Kind() != reflect.Ptr && recv.Kind() == reflect.Ptr {
		recv = recv.Elem()
	}

	in := make([]reflect.Value, 0, len(args)+1)
	in = append(in, recv)
	for i, arg := range args {
		var pt reflect.Type
		if mt.IsVariadic() && i+1 >= mt.NumIn()-1 {
			pt = mt.In(mt.NumIn() - 1).Elem()
		} else {
			pt = mt.In(i + 1)
		}

		if pt.Kind() == reflect.Ptr {
			hv := toHost(arg)
			if hv != nil && reflect.TypeOf(hv).AssignableTo(pt) {
				in = append(in, reflect.ValueOf(hv))
				continue
			}
			temp := reflect.New(pt.Elem())
			if hv != nil {
				coerced, cerr := e.coerceToGo(arg, pt.Elem())
				if cerr != nil {
					return cerr, nil
				}
				temp.Elem().Set(coerced)
			}
			byRefs = append(byRefs, byRefSlot{argIndex: i, temp: temp})
			in = append(in, temp)
			continue
		}

		coerced, cerr := e.coerceToGo(arg, pt)
		if cerr != nil {
			return cerr, nil
		}
		in = append(in, coerced)
	}

	var out []reflect.Value
	var panicked interface{}
	func() {
		defer func() { panicked = recover() }()
		if m.Func.IsValid() {
			out = m.Func.Call(in)
		} else {
			out = in[0].MethodByName(m.Name).Call(in[1:])
		}
	}()
	if panicked != nil {
		if err, ok := panicked.(error); ok {
			return hostError(ctx, err), nil
		}
		return newErrorAt(ErrHostInvocation, ctx, "%s panicked: %v", m.Name, panicked), nil
	}

	// A trailing error return raises; remaining results unwrap.
	values := out
	if n := len(values); n > 0 && values[n-1].Type() == reflect.TypeOf((*error)(nil)).Elem() {
		if !values[n-1].IsNil() {
			return hostError(ctx, values[n-1].Interface().(error)), nil
		}
		values = values[:n-1]
	}
	switch len(values) {
	case 0:
		return NIL, byRefs
	case 1:
		return fromHost(values[0].Interface()), byRefs
	default:
		elems := make([]Object, len(values))
		for i, v := range values {
			elems[i] = fromHost(v.Interface())
		}
		return NewVector(elems), byRefs
	}
}

// coerceToGo converts a braid value into a reflect value of type pt.
func (e *Evaluator) coerceToGo(arg Object, pt reflect.Type) (reflect.Value, *Error) {
	hv := toHost(arg)
	if hv == nil {
		return reflect.Zero(pt), nil
	}
	rv := reflect.ValueOf(hv)
	if rv.Type().AssignableTo(pt) {
		return rv, nil
	}
	if pt.Kind() == reflect.Interface && rv.Type().Implements(pt) {
		return rv, nil
	}

	switch pt.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt64(arg)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n).Convert(pt), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toInt64(arg)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n).Convert(pt), nil
	case reflect.Float32, reflect.Float64:
		f, err := toFloat64(arg)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(f).Convert(pt), nil
	case reflect.String:
		return reflect.ValueOf(strObject(arg)), nil
	case reflect.Bool:
		return reflect.ValueOf(e.IsTrue(arg)), nil
	}

	if rv.Type().ConvertibleTo(pt) {
		return rv.Convert(pt), nil
	}
	return reflect.Value{}, newError(ErrType, "cannot pass %s as %s", typeName(arg), pt)
}

// memberAlternatives enumerates the member names that do exist on a
// type, so a miss can report what the caller might have meant. Members
// reachable only through the type's metaclass carry the (S) prefix.
func (e *Evaluator) memberAlternatives(goType reflect.Type, typeKey string) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}

	for _, n := range e.Runtime.Types.propertyNames(typeKey) {
		add(n)
	}
	if goType != nil {
		st := goType
		for st.Kind() == reflect.Ptr {
			st = st.Elem()
		}
		if st.Kind() == reflect.Struct {
			for i := 0; i < st.NumField(); i++ {
				if f := st.Field(i); f.PkgPath == "" {
					add(f.Name)
				}
			}
		}
		for i := 0; i < goType.NumMethod(); i++ {
			if m := goType.Method(i); m.PkgPath == "" {
				add(m.Name)
			}
		}
		if goType.Kind() != reflect.Ptr {
			pt := reflect.PtrTo(goType)
			for i := 0; i < pt.NumMethod(); i++ {
				if m := pt.Method(i); m.PkgPath == "" {
					add(m.Name)
				}
			}
		}
		// Metaclass members are static from the caller's point of view.
		meta := reflect.TypeOf(goType)
		for i := 0; i < meta.NumMethod(); i++ {
			if m := meta.Method(i); m.PkgPath == "" {
				add("(S)" + m.Name)
			}
		}
	}
	for _, n := range e.Runtime.methodNames(typeKey) {
		add(n)
	}
	sort.Strings(names)
	return names
}
