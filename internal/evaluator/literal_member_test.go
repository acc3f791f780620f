package evaluator

import (
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/funvibe/braid/internal/token"
)

func member(raw string) *MemberLiteral {
	return NewMemberLiteral(raw, token.SourceContext{Line: 1})
}

func TestMemberLiteralParsing(t *testing.T) {
	ml := member(".?uuid/NewString")
	if !ml.Quiet || ml.StaticType != "uuid" || ml.Member != "NewString" {
		t.Errorf("parsed %+v", ml)
	}
	if ml.Text() != ".?uuid/NewString" {
		t.Errorf("Text() = %q", ml.Text())
	}
}

func TestBraidMethodDispatchOnString(t *testing.T) {
	e := New()
	tests := []struct {
		member string
		args   []Object
		want   string
	}{
		{".ToUpper", []Object{&String{Value: "hello"}}, "HELLO"},
		{".ToLower", []Object{&String{Value: "HELLO"}}, "hello"},
		{".Trim", []Object{&String{Value: "  x  "}}, "x"},
		{".Replace", []Object{&String{Value: "aba"}, &String{Value: "a"}, &String{Value: "c"}}, "cbc"},
		{".Substring", []Object{&String{Value: "hello"}, &Integer{Value: 1}, &Integer{Value: 3}}, "ell"},
	}
	for _, tt := range tests {
		t.Run(tt.member, func(t *testing.T) {
			got := member(tt.member).Invoke(e, tt.args)
			s, ok := got.(*String)
			if !ok {
				t.Fatalf("got %s", got.Inspect())
			}
			if s.Value != tt.want {
				t.Errorf("got %q, want %q", s.Value, tt.want)
			}
		})
	}
}

func TestMemberDispatchIsCaseInsensitive(t *testing.T) {
	e := New()
	got := member(".toupper").Invoke(e, []Object{&String{Value: "hi"}})
	if s, ok := got.(*String); !ok || s.Value != "HI" {
		t.Errorf("got %s, want \"HI\"", got.Inspect())
	}
}

func TestPropertyDispatch(t *testing.T) {
	e := New()
	got := member(".Length").Invoke(e, []Object{&String{Value: "héllo"}})
	if n, ok := got.(*Integer); !ok || n.Value != 5 {
		t.Errorf("Length = %s, want 5", got.Inspect())
	}

	got = member(".Count").Invoke(e, []Object{NewVector([]Object{NIL, NIL})})
	if n, ok := got.(*Integer); !ok || n.Value != 2 {
		t.Errorf("Count = %s, want 2", got.Inspect())
	}
}

func TestHostMethodDispatch(t *testing.T) {
	e := New()
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	recv := &HostObject{Value: id}

	got := member(".String").Invoke(e, []Object{recv})
	if s, ok := got.(*String); !ok || s.Value != "6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Fatalf(".String = %s", got.Inspect())
	}

	got = member(".Version").Invoke(e, []Object{recv})
	if _, ok := got.(*HostObject); !ok {
		// uuid.Version is a named byte type; fromHost wraps named types
		// as host objects, and a plain integer is accepted as well.
		if _, ok := got.(*Integer); !ok {
			t.Fatalf(".Version = %s", got.Inspect())
		}
	}
}

type testAccount struct {
	Name    string
	Balance int64
}

func (a *testAccount) Deposit(amount int64) int64 {
	a.Balance += amount
	return a.Balance
}

func (a *testAccount) Describe() string {
	return a.Name
}

// Withdraw reports success and captures the new balance through its
// out-parameter.
func (a *testAccount) Withdraw(amount int64, newBalance *int64) bool {
	if amount > a.Balance {
		return false
	}
	a.Balance -= amount
	*newBalance = a.Balance
	return true
}

func TestHostFieldDispatch(t *testing.T) {
	e := New()
	acct := &testAccount{Name: "ada", Balance: 10}
	recv := &HostObject{Value: acct}

	got := member(".Name").Invoke(e, []Object{recv})
	if s, ok := got.(*String); !ok || s.Value != "ada" {
		t.Fatalf(".Name = %s", got.Inspect())
	}

	// Field write returns the receiver for pipelining.
	got = member(".Balance").Invoke(e, []Object{recv, &Integer{Value: 50}})
	if got != Object(recv) {
		t.Fatalf("field set must return the receiver, got %s", got.Inspect())
	}
	if acct.Balance != 50 {
		t.Errorf("balance = %d, want 50", acct.Balance)
	}
}

func TestHostMethodWithCoercion(t *testing.T) {
	e := New()
	acct := &testAccount{Balance: 1}
	recv := &HostObject{Value: acct}

	// The string argument coerces to the int64 parameter.
	got := member(".Deposit").Invoke(e, []Object{recv, &String{Value: "9"}})
	if n, ok := got.(*Integer); !ok || n.Value != 10 {
		t.Fatalf(".Deposit = %s, want 10", got.Inspect())
	}
}

func TestByReferenceCapture(t *testing.T) {
	e := New()
	acct := &testAccount{Balance: 100}
	recv := &HostObject{Value: acct}
	out := e.Runtime.Symbols.Intern("remaining")
	e.Frame.SetLocal(out, NIL)

	ml := member(".Withdraw")
	srcs := []Object{e.Runtime.Symbols.Intern("acct"), &ValueLiteral{Val: &Integer{Value: 30}}, out}
	got := ml.invokeWithSources(e, []Object{recv, &Integer{Value: 30}, NIL}, srcs)

	if b, ok := got.(*Boolean); !ok || !b.Value {
		t.Fatalf(".Withdraw = %s, want true", got.Inspect())
	}
	bound, ok := e.Frame.GetVariable(out)
	if !ok {
		t.Fatal("out symbol lost its binding")
	}
	if n, ok := bound.(*Integer); !ok || n.Value != 70 {
		t.Errorf("captured out value = %s, want 70", bound.Inspect())
	}
}

func TestByRefWithoutSymbolSourceLeavesBindingsAlone(t *testing.T) {
	e := New()
	acct := &testAccount{Balance: 100}
	recv := &HostObject{Value: acct}

	got := member(".Withdraw").Invoke(e, []Object{recv, &Integer{Value: 30}, NIL})
	if b, ok := got.(*Boolean); !ok || !b.Value {
		t.Fatalf(".Withdraw = %s, want true", got.Inspect())
	}
}

func TestQuietMemberOnNil(t *testing.T) {
	e := New()
	if got := member(".?foo").Invoke(e, []Object{NIL}); got != Object(NIL) {
		t.Errorf(".?foo on nil = %s, want nil", got.Inspect())
	}
	got := member(".foo").Invoke(e, []Object{NIL})
	if !isError(got) {
		t.Error(".foo on nil must error")
	}
}

func TestQuietMissingMember(t *testing.T) {
	e := New()
	if got := member(".?nonsense").Invoke(e, []Object{&String{Value: "x"}}); got != Object(NIL) {
		t.Errorf(".?nonsense = %s, want nil", got.Inspect())
	}
}

func TestMissingMemberListsAlternatives(t *testing.T) {
	e := New()
	got := member(".Bogus").Invoke(e, []Object{&String{Value: "x"}})
	err, ok := got.(*Error)
	if !ok || err.Kind != ErrMissingMember {
		t.Fatalf("got %s, want MissingMember", got.Inspect())
	}
	found := false
	for _, alt := range err.Alternatives {
		if alt == "ToUpper" {
			found = true
		}
	}
	if !found {
		t.Errorf("alternatives %v must include ToUpper", err.Alternatives)
	}
}

func TestStaticFormDispatch(t *testing.T) {
	e := New()
	// .uuid/String resolves uuid statically; the argument is a uuid
	// instance, so it dispatches on that instance with the type pinned.
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	got := member(".uuid/String").Invoke(e, []Object{&HostObject{Value: id}})
	_ = got
	if isError(got) {
		t.Fatalf(".uuid/String = %s", got.Inspect())
	}
}

func TestStaticBraidMethodDispatch(t *testing.T) {
	e := New()
	got := member(".uuid/NewString").Invoke(e, nil)
	s, ok := got.(*String)
	if !ok {
		t.Fatalf(".uuid/NewString = %s, want string", got.Inspect())
	}
	if len(s.Value) != 36 {
		t.Errorf("uuid string %q has length %d, want 36", s.Value, len(s.Value))
	}

	got = member(".uuid/Parse").Invoke(e, []Object{&String{Value: "6ba7b810-9dad-11d1-80b4-00c04fd430c8"}})
	if _, ok := got.(*HostObject); !ok {
		t.Fatalf(".uuid/Parse = %s, want host uuid", got.Inspect())
	}

	got = member(".uuid/Parse").Invoke(e, []Object{&String{Value: "not a uuid"}})
	if err, ok := got.(*Error); !ok || err.Kind != ErrHostInvocation {
		t.Errorf("bad parse = %s, want HostInvocationError", got.Inspect())
	}
}

func TestMetaclassDispatch(t *testing.T) {
	e := New()
	to, _ := e.Runtime.Types.Resolve("uuid")

	// A type receiver answers for its own reflective surface.
	got := member(".Name").Invoke(e, []Object{to})
	if s, ok := got.(*String); !ok || s.Value != "UUID" {
		t.Fatalf(".Name on type = %s, want \"UUID\"", got.Inspect())
	}

	got = member(".NumMethod").Invoke(e, []Object{to})
	if _, ok := got.(*Integer); !ok {
		t.Fatalf(".NumMethod on type = %s", got.Inspect())
	}
}

func TestMemberNeedsReceiver(t *testing.T) {
	e := New()
	got := member(".ToUpper").Invoke(e, nil)
	if err, ok := got.(*Error); !ok || err.Kind != ErrArityMismatch {
		t.Errorf("got %s, want ArityMismatch", got.Inspect())
	}
}

func TestDispatchCacheIsReused(t *testing.T) {
	e := New()
	arg := []Object{&String{Value: "abc"}}
	first := member(".ToUpper").Invoke(e, arg)
	second := member(".ToUpper").Invoke(e, arg)
	if !ObjectsEqual(first, second) {
		t.Error("cached dispatch must produce the same result")
	}

	key := dispatchKey{
		goType:  reflect.TypeOf(""),
		typeKey: "string",
		member:  strings.ToLower("ToUpper"),
		arity:   0,
	}
	if _, ok := e.dispatch.get(key); !ok {
		t.Error("dispatch record must be cached after first use")
	}
}

func TestUserBraidMethod(t *testing.T) {
	e := New()
	sym := e.Runtime.Symbols.Intern("Shout")
	e.Runtime.DefMethod("int", sym, &Builtin{Name: "Shout", Fn: func(e *Evaluator, args ...Object) Object {
		n := args[0].(*Integer)
		return &String{Value: strings.Repeat("!", int(n.Value))}
	}})

	got := member(".Shout").Invoke(e, []Object{&Integer{Value: 3}})
	if s, ok := got.(*String); !ok || s.Value != "!!!" {
		t.Errorf(".Shout = %s, want \"!!!\"", got.Inspect())
	}
}
