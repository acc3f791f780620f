package evaluator

import "fmt"

// Function is a user lambda: parameter symbols, a body of forms, and the
// frame it closed over.
type Function struct {
	Name   string
	Params []*Symbol
	Body   []Object
	Env    *Frame
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	if f.Name != "" {
		return fmt.Sprintf("<fn %s/%d>", f.Name, len(f.Params))
	}
	return fmt.Sprintf("<fn/%d>", len(f.Params))
}
func (f *Function) Hash() uint32 { return hashString(fmt.Sprintf("%p", f)) }

// Clone produces a copy of the template bound to env. Function literals
// call this on every evaluation so each produced callable closes over
// the active lexical environment.
func (f *Function) Clone(env *Frame) *Function {
	clone := *f
	clone.Env = env
	return &clone
}

func (f *Function) Invoke(e *Evaluator, args []Object) Object {
	if len(args) != len(f.Params) {
		return newError(ErrArityMismatch, "%s expects %d arguments, got %d", f.Inspect(), len(f.Params), len(args))
	}
	fr := NewFrame(f.Env)
	if len(f.Params) > 0 {
		fr.Arguments = NewVector(args)
	}
	fr.Caller = e.Frame
	fr.Name = f.Name
	for i, p := range f.Params {
		fr.SetLocal(p, args[i])
	}

	prev := e.Frame
	e.Frame = fr
	defer func() { e.Frame = prev }()

	var result Object = NIL
	for _, form := range f.Body {
		result = e.Eval(form)
		if isError(result) {
			return result
		}
	}
	return result
}

// BuiltinFn is the signature of native functions.
type BuiltinFn func(e *Evaluator, args ...Object) Object

// Builtin wraps a native function.
type Builtin struct {
	Name string
	Fn   BuiltinFn
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "<builtin " + b.Name + ">" }
func (b *Builtin) Hash() uint32     { return hashString(b.Name) }

func (b *Builtin) Invoke(e *Evaluator, args []Object) Object {
	return b.Fn(e, args...)
}
