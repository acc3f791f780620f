package evaluator

import (
	"testing"

	"github.com/funvibe/braid/internal/token"
)

func typeLit(name string) *TypeLiteral {
	return NewTypeLiteral(name, token.SourceContext{Line: 1})
}

func TestTypeLiteralModes(t *testing.T) {
	if !typeLit("int").Strict {
		t.Error("^int must be strict")
	}
	if typeLit("int?").Strict {
		t.Error("^int? must be soft")
	}
}

func TestTypeLiteralResolvesOnce(t *testing.T) {
	e := New()
	tl := typeLit("int")
	first := tl.Value(e)
	second := tl.Value(e)
	if first != second {
		t.Error("resolution must be memoised to one object")
	}
}

func TestUnresolvedType(t *testing.T) {
	e := New()
	got := typeLit("nosuchtype").Value(e)
	err, ok := got.(*Error)
	if !ok || err.Kind != ErrUnresolvedType {
		t.Fatalf("got %s, want UnresolvedType error", got.Inspect())
	}
}

func TestStrictCast(t *testing.T) {
	e := New()
	tests := []struct {
		name    string
		typ     string
		arg     Object
		want    Object
		wantErr bool
	}{
		{"int passes int", "int", &Integer{Value: 7}, &Integer{Value: 7}, false},
		{"int rejects string", "int", &String{Value: "7"}, nil, true},
		{"int rejects nil", "int", NIL, nil, true},
		{"list accepts nil", "list", NIL, NIL, false},
		{"any accepts nil", "any", NIL, NIL, false},
		{"string from symbol", "string", nil, nil, false}, // filled below
		{"string rejects int", "string", &Integer{Value: 7}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arg := tt.arg
			want := tt.want
			if tt.name == "string from symbol" {
				sym := e.Runtime.Symbols.Intern("hello")
				arg = sym
				want = &String{Value: "hello"}
			}
			got := typeLit(tt.typ).Invoke(e, []Object{arg})
			if tt.wantErr {
				err, ok := got.(*Error)
				if !ok || err.Kind != ErrStrictCastFailure {
					t.Fatalf("got %s, want StrictCastFailure", got.Inspect())
				}
				return
			}
			if !ObjectsEqual(got, want) {
				t.Errorf("got %s, want %s", got.Inspect(), want.Inspect())
			}
		})
	}
}

func TestStrictCastKeywordAndMemberToString(t *testing.T) {
	e := New()
	kw := e.Runtime.Keywords.Intern(":flag")
	got := typeLit("string").Invoke(e, []Object{kw})
	if s, ok := got.(*String); !ok || s.Value != "flag" {
		t.Errorf("keyword to string = %s, want \"flag\"", got.Inspect())
	}

	ml := NewMemberLiteral(".ToUpper", token.SourceContext{})
	got = typeLit("string").Invoke(e, []Object{ml})
	if s, ok := got.(*String); !ok || s.Value != ".ToUpper" {
		t.Errorf("member to string = %s, want \".ToUpper\"", got.Inspect())
	}
}

func TestSoftCast(t *testing.T) {
	e := New()
	tests := []struct {
		name string
		typ  string
		arg  Object
		want Object
	}{
		{"string to int", "int?", &String{Value: "42"}, &Integer{Value: 42}},
		{"nil to int is zero", "int?", NIL, &Integer{Value: 0}},
		{"float to int truncates", "int?", &Float{Value: 3.9}, &Integer{Value: 3}},
		{"int to string", "string?", &Integer{Value: 5}, &String{Value: "5"}},
		{"int to float", "float?", &Integer{Value: 2}, &Float{Value: 2}},
		{"zero is false", "bool?", &Integer{Value: 0}, FALSE},
		{"nonempty string is true", "bool?", &String{Value: "x"}, TRUE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := typeLit(tt.typ).Invoke(e, []Object{tt.arg})
			if !ObjectsEqual(got, tt.want) {
				t.Errorf("got %s, want %s", got.Inspect(), tt.want.Inspect())
			}
		})
	}
}

func TestSoftCastFailure(t *testing.T) {
	e := New()
	got := typeLit("int?").Invoke(e, []Object{&String{Value: "not a number"}})
	err, ok := got.(*Error)
	if !ok || err.Kind != ErrSoftCastFailure {
		t.Fatalf("got %s, want SoftCastFailure", got.Inspect())
	}
}

// A one-element vector does not unwrap through a soft cast; it converts
// like any other value or fails.
func TestSoftCastDoesNotUnwrapSingletonVector(t *testing.T) {
	e := New()
	v := NewVector([]Object{&Integer{Value: 7}})
	got := typeLit("int?").Invoke(e, []Object{v})
	if err, ok := got.(*Error); !ok || err.Kind != ErrSoftCastFailure {
		t.Fatalf("got %s, want SoftCastFailure", got.Inspect())
	}
}

func TestSoftCastRegex(t *testing.T) {
	e := New()
	got := typeLit("regex?").Invoke(e, []Object{&String{Value: "ab+c"}})
	h, ok := got.(*HostObject)
	if !ok {
		t.Fatalf("got %s, want host regexp", got.Inspect())
	}
	re := h.Value.(interface{ MatchString(string) bool })
	if !re.MatchString("xAB+++C") && !re.MatchString("abbc") {
		t.Error("regex must match case-insensitively")
	}
	if !re.MatchString("ABBC") {
		t.Error("regex must be case-insensitive")
	}
}

func TestTypeLiteralArity(t *testing.T) {
	e := New()
	tl := typeLit("int")

	if got := tl.Invoke(e, nil); got.Type() != TYPE_OBJ {
		t.Errorf("zero args must yield the type object, got %s", got.Inspect())
	}
	got := tl.Invoke(e, []Object{NIL, NIL})
	if err, ok := got.(*Error); !ok || err.Kind != ErrArityMismatch {
		t.Errorf("two args must be an arity error, got %s", got.Inspect())
	}
}

func TestPatternTest(t *testing.T) {
	e := New()
	tests := []struct {
		name        string
		typ         string
		arg         Object
		wantMatch   bool
		wantCoerced Object
	}{
		{"strict int matches int", "int", &Integer{Value: 3}, true, &Integer{Value: 3}},
		{"strict int rejects string", "int", &String{Value: "3"}, false, nil},
		{"strict rejects nil", "int", NIL, false, nil},
		{"list matches nil", "list", NIL, true, NIL},
		{"soft int coerces string", "int?", &String{Value: "3"}, true, &Integer{Value: 3}},
		{"soft int rejects garbage", "int?", &String{Value: "x"}, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, coerced := typeLit(tt.typ).Test(e, tt.arg)
			if matched != tt.wantMatch {
				t.Fatalf("matched = %v, want %v", matched, tt.wantMatch)
			}
			if matched && !ObjectsEqual(coerced, tt.wantCoerced) {
				t.Errorf("coerced = %s, want %s", coerced.Inspect(), tt.wantCoerced.Inspect())
			}
		})
	}
}
