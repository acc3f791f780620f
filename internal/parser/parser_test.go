package parser

import (
	"strings"
	"testing"

	"github.com/funvibe/braid/internal/evaluator"
)

func parse(t *testing.T, src string) []evaluator.Object {
	t.Helper()
	forms, err := ParseString(src, evaluator.NewRuntime())
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return forms
}

func TestParseAtoms(t *testing.T) {
	forms := parse(t, `42 2.5 "hi" :key ^int? .ToUpper %3 sym true nil`)
	wantTypes := []evaluator.ObjectType{
		evaluator.VALUE_LITERAL_OBJ,
		evaluator.VALUE_LITERAL_OBJ,
		evaluator.VALUE_LITERAL_OBJ,
		evaluator.KEYWORD_OBJ,
		evaluator.TYPE_LITERAL_OBJ,
		evaluator.MEMBER_LITERAL_OBJ,
		evaluator.ARG_INDEX_LITERAL_OBJ,
		evaluator.SYMBOL_OBJ,
		evaluator.VALUE_LITERAL_OBJ,
		evaluator.VALUE_LITERAL_OBJ,
	}
	if len(forms) != len(wantTypes) {
		t.Fatalf("got %d forms, want %d", len(forms), len(wantTypes))
	}
	for i, form := range forms {
		if form.Type() != wantTypes[i] {
			t.Errorf("form %d: type = %s, want %s", i, form.Type(), wantTypes[i])
		}
	}
}

func TestParseTypeLiteralModes(t *testing.T) {
	forms := parse(t, `^int ^int?`)
	strict := forms[0].(*evaluator.TypeLiteral)
	soft := forms[1].(*evaluator.TypeLiteral)
	if !strict.Strict {
		t.Error("^int should be strict")
	}
	if soft.Strict {
		t.Error("^int? should be soft")
	}
	if strict.TypeName != "int" || soft.TypeName != "int" {
		t.Errorf("type names = %q, %q, want int", strict.TypeName, soft.TypeName)
	}
}

func TestParseMemberLiteralForms(t *testing.T) {
	tests := []struct {
		input      string
		member     string
		staticType string
		quiet      bool
	}{
		{".ToUpper", "ToUpper", "", false},
		{".?address", "address", "", true},
		{".uuid/NewString", "NewString", "uuid", false},
		{".?uuid/NewString", "NewString", "uuid", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ml := parse(t, tt.input)[0].(*evaluator.MemberLiteral)
			if ml.Member != tt.member {
				t.Errorf("member = %q, want %q", ml.Member, tt.member)
			}
			if ml.StaticType != tt.staticType {
				t.Errorf("static type = %q, want %q", ml.StaticType, tt.staticType)
			}
			if ml.Quiet != tt.quiet {
				t.Errorf("quiet = %v, want %v", ml.Quiet, tt.quiet)
			}
		})
	}
}

// `.Type/member` forms the registry can answer at read time pre-resolve
// into static literals; everything else stays call-time dispatch.
func TestStaticFormsPreResolve(t *testing.T) {
	tests := []struct {
		input string
		want  evaluator.ObjectType
	}{
		{".string/Length", evaluator.STATIC_PROP_OBJ},
		{".uuid/String", evaluator.STATIC_METHOD_OBJ},
		{".uuid/NewString", evaluator.MEMBER_LITERAL_OBJ}, // user method map, call-time
		{".?string/Length", evaluator.MEMBER_LITERAL_OBJ}, // quiet stays call-time
		{".nosuchtype/Member", evaluator.MEMBER_LITERAL_OBJ},
		{".ToUpper", evaluator.MEMBER_LITERAL_OBJ},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			form := parse(t, tt.input)[0]
			if form.Type() != tt.want {
				t.Errorf("type = %s, want %s", form.Type(), tt.want)
			}
		})
	}
}

func TestPreResolvedPropertyKeepsContext(t *testing.T) {
	sp := parse(t, "\n .string/Length")[0].(*evaluator.StaticPropertyLiteral)
	if sp.Ctx.Line != 2 {
		t.Errorf("line = %d, want 2", sp.Ctx.Line)
	}
	if sp.Text != ".string/Length" {
		t.Errorf("text = %q", sp.Text)
	}
}

func TestDuplicateLiteralKeysRejected(t *testing.T) {
	_, err := ParseString(`{:a 1 :a 2}`, evaluator.NewRuntime())
	if err == nil {
		t.Fatal("expected duplicate key error")
	}
	if !strings.Contains(err.Error(), "duplicate key") {
		t.Errorf("error = %v, want duplicate key message", err)
	}
}

func TestDuplicateKeysAcrossCaseRejected(t *testing.T) {
	// Keywords intern case-insensitively, so :A and :a collide.
	_, err := ParseString(`{:A 1 :a 2}`, evaluator.NewRuntime())
	if err == nil {
		t.Fatal("expected duplicate key error")
	}
}

func TestSplattedKeyEscapesDuplicateCheck(t *testing.T) {
	// The structural check only covers literal non-splat keys; a splat
	// defeats it and resolves last-writer-wins at runtime instead.
	if _, err := ParseString(`{:a 1 @m}`, evaluator.NewRuntime()); err != nil {
		t.Fatalf("splat form should parse: %v", err)
	}
}

func TestDistinctKeysParse(t *testing.T) {
	if _, err := ParseString(`{:a 1 :b 2 "a" 3}`, evaluator.NewRuntime()); err != nil {
		t.Fatalf("distinct keys should parse: %v", err)
	}
}

func TestParseFunctionLiteral(t *testing.T) {
	fl := parse(t, `(fn add [a b] "adds two numbers" (+ a b))`)[0].(*evaluator.FunctionLiteral)
	if fl.Template.Name != "add" {
		t.Errorf("name = %q, want add", fl.Template.Name)
	}
	if len(fl.Template.Params) != 2 {
		t.Fatalf("params = %d, want 2", len(fl.Template.Params))
	}
	if fl.HelpText != "adds two numbers" {
		t.Errorf("help = %q", fl.HelpText)
	}
	if len(fl.Template.Body) != 1 {
		t.Errorf("body forms = %d, want 1", len(fl.Template.Body))
	}
}

func TestDocStringAloneIsBody(t *testing.T) {
	fl := parse(t, `(fn [] "just a value")`)[0].(*evaluator.FunctionLiteral)
	if fl.HelpText != "" {
		t.Errorf("lone string must stay the body, got help %q", fl.HelpText)
	}
	if len(fl.Template.Body) != 1 {
		t.Errorf("body forms = %d, want 1", len(fl.Template.Body))
	}
}

func TestQuoteShorthand(t *testing.T) {
	form := parse(t, `'x`)[0].(*evaluator.ListForm)
	if len(form.Elements) != 2 {
		t.Fatalf("quote form has %d elements, want 2", len(form.Elements))
	}
	head := form.Elements[0].(*evaluator.Symbol)
	if head.Name != "quote" {
		t.Errorf("head = %q, want quote", head.Name)
	}
}

func TestUnterminatedForms(t *testing.T) {
	for _, src := range []string{`(foo`, `[1 2`, `{:a 1`, `#{1`} {
		t.Run(src, func(t *testing.T) {
			if _, err := ParseString(src, evaluator.NewRuntime()); err == nil {
				t.Errorf("expected error for %q", src)
			}
		})
	}
}

func TestSourceContextOnLiterals(t *testing.T) {
	forms := parse(t, "\n  [1 2]")
	vl := forms[0].(*evaluator.VectorLiteral)
	if vl.Ctx.Line != 2 {
		t.Errorf("line = %d, want 2", vl.Ctx.Line)
	}
	if vl.Ctx.Column != 3 {
		t.Errorf("column = %d, want 3", vl.Ctx.Column)
	}
}
