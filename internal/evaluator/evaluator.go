package evaluator

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/funvibe/braid/internal/token"
)

// maxEvalDepth bounds recursive evaluation to fail before the Go stack does.
const maxEvalDepth = 10000

type Evaluator struct {
	// Context carries cooperative cancellation; container iteration and
	// stringification poll it.
	Context context.Context

	Out io.Writer

	// Runtime holds the interners, the type registry and the user
	// method map shared by every frame of this interpreter.
	Runtime *Runtime

	// Frame is the current activation record.
	Frame *Frame

	// ExpandString is the string-interpolation collaborator used by
	// expandable string literals.
	ExpandString func(e *Evaluator, raw string, ctx token.SourceContext) Object

	// dispatch memoises member-dispatch records per call site.
	dispatch *dispatchCache

	evalDepth int
}

func New() *Evaluator {
	return NewWithRuntime(NewRuntime())
}

// NewWithRuntime builds an evaluator over an existing runtime so tests
// and embedders can share or isolate interner state deliberately.
func NewWithRuntime(rt *Runtime) *Evaluator {
	e := &Evaluator{
		Context:      context.Background(),
		Out:          os.Stdout,
		Runtime:      rt,
		Frame:        NewFrame(nil),
		ExpandString: expandStringDefault,
		dispatch:     newDispatchCache(),
	}
	RegisterBuiltins(e, e.Frame)
	return e
}

// PushFrame enters a new activation record below the current one.
func (e *Evaluator) PushFrame(args *Vector, name string) *Frame {
	fr := NewFrame(e.Frame)
	fr.Arguments = args
	fr.Caller = e.Frame
	fr.Name = name
	e.Frame = fr
	return fr
}

// PopFrame leaves the current activation record.
func (e *Evaluator) PopFrame() {
	if e.Frame != nil && e.Frame.Parent != nil {
		e.Frame = e.Frame.Parent
	}
}

// Eval reduces a parsed form to a value in the current frame. Literals
// project through Value; symbols resolve as variables; lists apply.
func (e *Evaluator) Eval(expr Object) Object {
	e.evalDepth++
	defer func() { e.evalDepth-- }()
	if e.evalDepth > maxEvalDepth {
		return newError(ErrType, "evaluation nested too deeply")
	}
	if err := e.Context.Err(); err != nil {
		return newError(ErrType, "evaluation cancelled: %v", err)
	}

	switch v := expr.(type) {
	case *ListForm:
		return e.evalList(v)
	case *Symbol:
		if obj, ok := e.Frame.GetVariable(v); ok {
			return obj
		}
		return newError(ErrUnboundSymbol, "unbound symbol: %s", v.Name)
	case Literal:
		return v.Value(e)
	default:
		return expr
	}
}

func (e *Evaluator) evalList(form *ListForm) Object {
	if len(form.Elements) == 0 {
		return NIL
	}

	head := form.Elements[0]
	tail := form.Elements[1:]

	if sym, ok := head.(*Symbol); ok {
		if result, handled := e.evalSpecialForm(sym, tail, form.Ctx); handled {
			return result
		}
	}

	// A literal in function position is invoked, not projected.
	if ml, ok := head.(*MemberLiteral); ok {
		args, _, err := e.EvaluateArgs(tail)
		if err != nil {
			return err
		}
		return ml.invokeWithSources(e, args, tail)
	}
	if inv, ok := head.(Invokable); ok {
		if _, isLit := head.(Literal); isLit {
			args, _, err := e.EvaluateArgs(tail)
			if err != nil {
				return err
			}
			return inv.Invoke(e, args)
		}
	}

	fn := e.Eval(head)
	if isError(fn) {
		return fn
	}
	inv, ok := fn.(Invokable)
	if !ok {
		return newErrorAt(ErrType, form.Ctx, "%s is not callable", typeName(fn))
	}
	args, _, err := e.EvaluateArgs(tail)
	if err != nil {
		return err
	}
	if ml, ok := fn.(*MemberLiteral); ok {
		return ml.invokeWithSources(e, args, tail)
	}
	return inv.Invoke(e, args)
}

func (e *Evaluator) evalSpecialForm(sym *Symbol, tail []Object, ctx token.SourceContext) (Object, bool) {
	switch strings.ToLower(sym.Name) {
	case "quote":
		if len(tail) != 1 {
			return newErrorAt(ErrArityMismatch, ctx, "quote takes 1 argument, got %d", len(tail)), true
		}
		return tail[0], true

	case "if":
		if len(tail) < 2 || len(tail) > 3 {
			return newErrorAt(ErrArityMismatch, ctx, "if takes 2 or 3 arguments, got %d", len(tail)), true
		}
		cond := e.Eval(tail[0])
		if isError(cond) {
			return cond, true
		}
		if e.IsTrue(cond) {
			return e.Eval(tail[1]), true
		}
		if len(tail) == 3 {
			return e.Eval(tail[2]), true
		}
		return NIL, true

	case "do":
		var result Object = NIL
		for _, form := range tail {
			result = e.Eval(form)
			if isError(result) {
				return result, true
			}
		}
		return result, true

	case "let":
		if len(tail) != 2 {
			return newErrorAt(ErrArityMismatch, ctx, "let takes a symbol and a value, got %d forms", len(tail)), true
		}
		name, ok := tail[0].(*Symbol)
		if !ok {
			return newErrorAt(ErrType, ctx, "let binds a symbol, got %s", typeName(tail[0])), true
		}
		val := e.Eval(tail[1])
		if isError(val) {
			return val, true
		}
		e.Frame.SetLocal(name, val)
		return val, true

	case "def":
		if len(tail) != 2 {
			return newErrorAt(ErrArityMismatch, ctx, "def takes a symbol and a value, got %d forms", len(tail)), true
		}
		name, ok := tail[0].(*Symbol)
		if !ok {
			return newErrorAt(ErrType, ctx, "def binds a symbol, got %s", typeName(tail[0])), true
		}
		val := e.Eval(tail[1])
		if isError(val) {
			return val, true
		}
		root := e.Frame
		for root.Parent != nil {
			root = root.Parent
		}
		root.SetLocal(name, val)
		return val, true

	case "set!":
		if len(tail) != 2 {
			return newErrorAt(ErrArityMismatch, ctx, "set! takes a place and a value, got %d forms", len(tail)), true
		}
		val := e.Eval(tail[1])
		if isError(val) {
			return val, true
		}
		switch place := tail[0].(type) {
		case *Symbol:
			if !e.Frame.Update(place, val) {
				return newErrorAt(ErrUnboundSymbol, ctx, "set!: unbound symbol %s", place.Name), true
			}
			return val, true
		case *ArgIndexLiteral:
			return place.Set(e, val), true
		}
		return newErrorAt(ErrType, ctx, "set! rebinds a symbol or %%N, got %s", typeName(tail[0])), true
	}

	return nil, false
}

// EvaluateArgs reduces an argument list, expanding splats in place and
// collecting `:name:`-style named parameters into their own map.
func (e *Evaluator) EvaluateArgs(list []Object) ([]Object, map[*Keyword]Object, *Error) {
	positional := make([]Object, 0, len(list))
	var named map[*Keyword]Object

	for i := 0; i < len(list); i++ {
		el := list[i]

		if kw, ok := el.(*Keyword); ok && kw.RequiresArgument {
			if i+1 >= len(list) {
				return nil, nil, newError(ErrArityMismatch, "named parameter %s: requires a value", kw.Text)
			}
			val := e.Eval(list[i+1])
			if err, ok := val.(*Error); ok {
				return nil, nil, err
			}
			if named == nil {
				named = make(map[*Keyword]Object)
			}
			named[kw] = val
			i++
			continue
		}

		if sp, ok := el.(*Splat); ok {
			val := e.Eval(sp.Expr)
			if err, ok := val.(*Error); ok {
				return nil, nil, err
			}
			positional = appendSplat(positional, val)
			continue
		}

		val := e.Eval(el)
		if err, ok := val.(*Error); ok {
			return nil, nil, err
		}
		positional = append(positional, val)
	}
	return positional, named, nil
}

// appendSplat expands a splatted value into out. Enumerables contribute
// their elements, nil contributes nothing, anything else contributes
// itself. Strings are deliberately not enumerated.
func appendSplat(out []Object, val Object) []Object {
	switch v := val.(type) {
	case *Nil:
		return out
	case *Vector:
		return append(out, v.Elements...)
	case *HashSet:
		v.Each(func(it Object) bool {
			out = append(out, it)
			return true
		})
		return out
	case *Dict:
		v.Each(func(key, value Object) bool {
			out = append(out, key, value)
			return true
		})
		return out
	default:
		return append(out, val)
	}
}

// IsTrue is the shared truthiness predicate: nil, false, zero, the empty
// string and empty containers are false.
func (e *Evaluator) IsTrue(obj Object) bool {
	switch v := obj.(type) {
	case *Nil:
		return false
	case *Boolean:
		return v.Value
	case *Integer:
		return v.Value != 0
	case *Float:
		return v.Value != 0
	case *String:
		return v.Value != ""
	case *Vector:
		return len(v.Elements) > 0
	case *Dict:
		return v.Len() > 0
	case *HashSet:
		return v.Len() > 0
	case *Error:
		return false
	default:
		return true
	}
}
