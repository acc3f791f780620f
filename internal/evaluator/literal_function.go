package evaluator

import (
	"github.com/funvibe/braid/internal/token"
)

// FunctionLiteral wraps a lambda template. Every evaluation clones the
// template against the current frame so the produced callable closes
// over the active lexical environment.
type FunctionLiteral struct {
	Template *Function
	HelpText string
	Ctx      token.SourceContext
}

func (fl *FunctionLiteral) Type() ObjectType             { return FUNCTION_LITERAL_OBJ }
func (fl *FunctionLiteral) Inspect() string              { return fl.Template.Inspect() }
func (fl *FunctionLiteral) Hash() uint32                 { return fl.Template.Hash() }
func (fl *FunctionLiteral) Context() token.SourceContext { return fl.Ctx }

func (fl *FunctionLiteral) Value(e *Evaluator) Object {
	fn := fl.Template.Clone(e.Frame)
	if fl.HelpText != "" {
		e.Runtime.SetHelp(fn, fl.HelpText)
	}
	return fn
}

// Invoke covers the immediate-call form `((fn [x] …) arg)`.
func (fl *FunctionLiteral) Invoke(e *Evaluator, args []Object) Object {
	fn := fl.Value(e)
	if isError(fn) {
		return fn
	}
	return fn.(*Function).Invoke(e, args)
}
