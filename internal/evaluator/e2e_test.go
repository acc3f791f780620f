package evaluator_test

import (
	"context"
	"strings"
	"testing"

	"github.com/funvibe/braid/internal/evaluator"
	"github.com/funvibe/braid/internal/parser"
)

// run evaluates braid source and returns the value of the last form.
func run(t *testing.T, e *evaluator.Evaluator, src string) evaluator.Object {
	t.Helper()
	forms, err := parser.ParseString(src, e.Runtime)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	var result evaluator.Object = evaluator.NIL
	for _, form := range forms {
		result = e.Eval(form)
	}
	return result
}

func TestEndToEndScenarios(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`((^int?) "42")`, "42"},
		{`(^int? "42")`, "42"},
		{`(.ToUpper "hello")`, `"HELLO"`},
		{`([1 2 3] -1)`, "3"},
		{`({:a 1 :b 2} :b)`, "2"},
		{`(#{1 2 3} 2)`, "true"},
		{`(#{1 2 3} 4)`, "false"},
		{`(do (let d {:a 1}) (d :a 99) (d :a))`, "99"},
		{`(:b {:a 1 :b 5})`, "5"},
		{`(+ 1 2 3)`, "6"},
		{`(if (> 2 1) "yes" "no")`, `"yes"`},
		{`((fn [x y] (+ x y)) 3 4)`, "7"},
		{`((fn [x] (* %0 2)) 21)`, "42"},
		{`(do (let xs [1 2]) [0 @xs 3])`, "[0 1 2 3]"},
		{`(str "a" 1 :k)`, `"a1k"`},
		{`(count #{1 1 2})`, "2"},
		{`'x`, "x"},
		{`(.Length "hello")`, "5"},
		{`(.Join [1 2 3] "-")`, `"1-2-3"`},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e := evaluator.New()
			got := run(t, e, tt.src)
			if got.Inspect() != tt.want {
				t.Errorf("%s = %s, want %s", tt.src, got.Inspect(), tt.want)
			}
		})
	}
}

func TestQuietMemberEndToEnd(t *testing.T) {
	e := evaluator.New()
	if got := run(t, e, `(.?foo nil)`); got != evaluator.Object(evaluator.NIL) {
		t.Errorf("(.?foo nil) = %s, want nil", got.Inspect())
	}
	if got := run(t, e, `(.foo nil)`); !strings.Contains(got.Inspect(), "ERROR") {
		t.Errorf("(.foo nil) = %s, want error", got.Inspect())
	}
}

func TestClosureCapturesEnvironment(t *testing.T) {
	e := evaluator.New()
	got := run(t, e, `
		(def make-adder (fn [n] (fn [m] (+ n m))))
		(let add5 (make-adder 5))
		(add5 3)`)
	if got.Inspect() != "8" {
		t.Errorf("closure result = %s, want 8", got.Inspect())
	}
}

// Each evaluation of a function literal clones the template against the
// frame evaluating it, so two closures do not share state.
func TestFunctionLiteralClonesPerEvaluation(t *testing.T) {
	e := evaluator.New()
	got := run(t, e, `
		(def make-id (fn [n] (fn [] n)))
		(let a (make-id 1))
		(let b (make-id 2))
		(+ (a) (b))`)
	if got.Inspect() != "3" {
		t.Errorf("got %s, want 3", got.Inspect())
	}
}

func TestArgIndexThroughNestedLambda(t *testing.T) {
	e := evaluator.New()
	// The inner lambda has no parameters, hence no argument vector; %0
	// walks out to the enclosing call's frame.
	got := run(t, e, `((fn [x] ((fn [] %0))) 42)`)
	if got.Inspect() != "42" {
		t.Errorf("got %s, want 42", got.Inspect())
	}
}

func TestExpandableString(t *testing.T) {
	e := evaluator.New()
	got := run(t, e, `(do (let name "ada") $"hello $name")`)
	if got.Inspect() != `"hello ada"` {
		t.Errorf("got %s, want \"hello ada\"", got.Inspect())
	}
}

func TestHelpAttachedThroughSideTable(t *testing.T) {
	e := evaluator.New()
	got := run(t, e, `
		(def add (fn add [a b] "adds two numbers" (+ a b)))
		(help add)`)
	if got.Inspect() != `"adds two numbers"` {
		t.Errorf("help = %s", got.Inspect())
	}
}

func TestUserErrorPassesThrough(t *testing.T) {
	e := evaluator.New()
	got := run(t, e, `(error "boom")`)
	err, ok := got.(*evaluator.Error)
	if !ok {
		t.Fatalf("got %s, want error", got.Inspect())
	}
	if err.Kind != evaluator.ErrUser || err.Message != "boom" {
		t.Errorf("err = %s", err.Inspect())
	}
}

func TestSetBangOnArgIndex(t *testing.T) {
	e := evaluator.New()
	got := run(t, e, `((fn [x] (do (set! %0 10) x)) 1)`)
	// x was bound at entry; %0 rewrites the argument vector slot, not
	// the local binding.
	if got.Inspect() != "1" {
		t.Errorf("x = %s, want 1", got.Inspect())
	}
	got = run(t, e, `((fn [x] (do (set! %0 10) %0)) 1)`)
	if got.Inspect() != "10" {
		t.Errorf("%%0 = %s, want 10", got.Inspect())
	}
}

func TestCancellationStopsEvaluation(t *testing.T) {
	e := evaluator.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e.Context = ctx

	got := run(t, e, `(+ 1 2)`)
	if !strings.Contains(got.Inspect(), "cancelled") {
		t.Errorf("got %s, want cancellation error", got.Inspect())
	}
}

func TestCancelledStringOfTruncates(t *testing.T) {
	e := evaluator.New()
	v := run(t, e, `[1 2 3]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e.Context = ctx
	out := e.StringOf(v)
	if !strings.Contains(out, "...") {
		t.Errorf("cancelled rendering = %q, want truncation marker", out)
	}
}

func TestGensymIsUnique(t *testing.T) {
	e := evaluator.New()
	a := run(t, e, `(gensym "tmp")`)
	b := run(t, e, `(gensym "tmp")`)
	if evaluator.ObjectsEqual(a, b) {
		t.Error("gensym must mint distinct symbols")
	}
}

func TestStaticLiteralsEndToEnd(t *testing.T) {
	e := evaluator.New()
	if got := run(t, e, `(.string/Length "abc")`); got.Inspect() != "3" {
		t.Errorf("(.string/Length \"abc\") = %s, want 3", got.Inspect())
	}

	got := run(t, e, `(.uuid/String (.uuid/New))`)
	s, ok := got.(*evaluator.String)
	if !ok {
		t.Fatalf("(.uuid/String (.uuid/New)) = %s, want string", got.Inspect())
	}
	if len(s.Value) != 36 {
		t.Errorf("uuid string %q has length %d, want 36", s.Value, len(s.Value))
	}

	// A pre-resolved binding is a first-class value.
	got = run(t, e, `(do (let len .string/Length) (len "hello"))`)
	if got.Inspect() != "5" {
		t.Errorf("bound accessor = %s, want 5", got.Inspect())
	}
}

func TestUuidBuiltinSupportsMemberDispatch(t *testing.T) {
	e := evaluator.New()
	got := run(t, e, `(.String (uuid))`)
	s, ok := got.(*evaluator.String)
	if !ok {
		t.Fatalf("got %s, want string", got.Inspect())
	}
	if len(s.Value) != 36 {
		t.Errorf("uuid string %q has length %d, want 36", s.Value, len(s.Value))
	}
}
