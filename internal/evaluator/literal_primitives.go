package evaluator

import (
	"strconv"
	"strings"

	"github.com/funvibe/braid/internal/token"
)

// ValueLiteral boxes a constant produced by the parser. The boxed value
// is the one mutable slot of the literal hierarchy.
type ValueLiteral struct {
	Val Object
	Ctx token.SourceContext
}

func (v *ValueLiteral) Type() ObjectType             { return VALUE_LITERAL_OBJ }
func (v *ValueLiteral) Inspect() string              { return v.Val.Inspect() }
func (v *ValueLiteral) Hash() uint32                 { return v.Val.Hash() }
func (v *ValueLiteral) Context() token.SourceContext { return v.Ctx }
func (v *ValueLiteral) Value(e *Evaluator) Object    { return v.Val }

// ArgIndexLiteral is `%N`: it reads and writes slot N of the nearest
// enclosing frame that has a bound argument vector.
type ArgIndexLiteral struct {
	Index int
	Ctx   token.SourceContext
}

func (a *ArgIndexLiteral) Type() ObjectType             { return ARG_INDEX_LITERAL_OBJ }
func (a *ArgIndexLiteral) Inspect() string              { return "%" + strconv.Itoa(a.Index) }
func (a *ArgIndexLiteral) Hash() uint32                 { return uint32(a.Index) }
func (a *ArgIndexLiteral) Context() token.SourceContext { return a.Ctx }

func (a *ArgIndexLiteral) Value(e *Evaluator) Object {
	fr := e.Frame.NearestArguments()
	if fr == nil {
		return newErrorAt(ErrArgIndexOutOfRange, a.Ctx, "%%%d: no argument frame in scope", a.Index)
	}
	if a.Index >= len(fr.Arguments.Elements) {
		return newErrorAt(ErrArgIndexOutOfRange, a.Ctx, "%%%d: frame has %d arguments", a.Index, len(fr.Arguments.Elements))
	}
	return fr.Arguments.Elements[a.Index]
}

// Set writes through to the owning frame's argument vector.
func (a *ArgIndexLiteral) Set(e *Evaluator, val Object) Object {
	fr := e.Frame.NearestArguments()
	if fr == nil {
		return newErrorAt(ErrArgIndexOutOfRange, a.Ctx, "%%%d: no argument frame in scope", a.Index)
	}
	if a.Index >= len(fr.Arguments.Elements) {
		return newErrorAt(ErrArgIndexOutOfRange, a.Ctx, "%%%d: frame has %d arguments", a.Index, len(fr.Arguments.Elements))
	}
	fr.Arguments.Elements[a.Index] = val
	return val
}

// ExpandableStringLiteral is a `$"…"` template; its value is produced by
// the evaluator's string-interpolation collaborator.
type ExpandableStringLiteral struct {
	Raw string
	Ctx token.SourceContext
}

func (s *ExpandableStringLiteral) Type() ObjectType             { return EXPANDABLE_STRING_OBJ }
func (s *ExpandableStringLiteral) Inspect() string              { return "$" + (&String{Value: s.Raw}).Inspect() }
func (s *ExpandableStringLiteral) Hash() uint32                 { return hashString(s.Raw) }
func (s *ExpandableStringLiteral) Context() token.SourceContext { return s.Ctx }

func (s *ExpandableStringLiteral) Value(e *Evaluator) Object {
	if e.ExpandString == nil {
		return &String{Value: s.Raw}
	}
	return e.ExpandString(e, s.Raw, s.Ctx)
}

// expandStringDefault substitutes $name with the symbol's binding. It is
// the minimal interpolation the front end ships with; embedders replace
// it with a richer collaborator.
func expandStringDefault(e *Evaluator, raw string, ctx token.SourceContext) Object {
	var out strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '$' || i+1 >= len(raw) {
			out.WriteByte(raw[i])
			continue
		}
		j := i + 1
		for j < len(raw) && (isWordByte(raw[j]) || raw[j] == '-') {
			j++
		}
		if j == i+1 {
			out.WriteByte(raw[i])
			continue
		}
		sym := e.Runtime.Symbols.Intern(raw[i+1 : j])
		if val, ok := e.Frame.GetVariable(sym); ok {
			out.WriteString(strObject(val))
		}
		i = j - 1
	}
	return &String{Value: out.String()}
}

func isWordByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}
