package evaluator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/funvibe/braid/internal/token"
)

type ErrorKind string

const (
	ErrUnresolvedType     ErrorKind = "UnresolvedType"
	ErrStrictCastFailure  ErrorKind = "StrictCastFailure"
	ErrSoftCastFailure    ErrorKind = "SoftCastFailure"
	ErrMissingMember      ErrorKind = "MissingMember"
	ErrArityMismatch      ErrorKind = "ArityMismatch"
	ErrBadIndex           ErrorKind = "BadIndex"
	ErrArgIndexOutOfRange ErrorKind = "ArgIndexOutOfRange"
	ErrDuplicateKey       ErrorKind = "DuplicateKey"
	ErrOddDictionary      ErrorKind = "OddDictionaryLiteral"
	ErrHostInvocation     ErrorKind = "HostInvocationError"
	ErrType               ErrorKind = "TypeError"
	ErrUnboundSymbol      ErrorKind = "UnboundSymbol"
	ErrParse              ErrorKind = "ParseError"
	ErrUser               ErrorKind = "UserError"
)

// Error is the evaluator's error value. It flows through evaluation like
// any other object and is checked with isError.
type Error struct {
	Kind         ErrorKind
	Message      string
	Ctx          token.SourceContext
	Alternatives []string // MissingMember: member names that do exist
	Wrapped      error    // HostInvocationError: unwrapped inner cause
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	var b strings.Builder
	b.WriteString("ERROR")
	if e.Kind != "" {
		b.WriteString(" [" + string(e.Kind) + "]")
	}
	if e.Ctx.Line > 0 {
		b.WriteString(" at " + e.Ctx.Location())
	}
	b.WriteString(": " + e.Message)
	if len(e.Alternatives) > 0 {
		b.WriteString("; did you mean one of: " + strings.Join(e.Alternatives, ", "))
	}
	return b.String()
}
func (e *Error) Hash() uint32 { return hashString(e.Message) }

func (e *Error) Error() string { return e.Inspect() }
func (e *Error) Unwrap() error { return e.Wrapped }

func newError(kind ErrorKind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

func newErrorAt(kind ErrorKind, ctx token.SourceContext, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...), Ctx: ctx}
}

// hostError wraps an error escaping a reflective call, unwrapping any
// chained wrapper errors first so the report names the root cause.
func hostError(ctx token.SourceContext, err error) *Error {
	root := err
	for {
		inner := errors.Unwrap(root)
		if inner == nil {
			break
		}
		root = inner
	}
	return &Error{
		Kind:    ErrHostInvocation,
		Message: root.Error(),
		Ctx:     ctx,
		Wrapped: err,
	}
}

func isError(obj Object) bool {
	if obj == nil {
		return false
	}
	return obj.Type() == ERROR_OBJ
}
