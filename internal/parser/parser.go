package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/braid/internal/evaluator"
	"github.com/funvibe/braid/internal/lexer"
	"github.com/funvibe/braid/internal/token"
)

// Parser reads tokens into literal objects. The forms it produces are
// the evaluator's input: lists, literals and interned atoms.
type Parser struct {
	l   *lexer.Lexer
	rt  *evaluator.Runtime
	cur token.Token
	// function tracks the name of the enclosing lambda so source
	// contexts can report it.
	function string
}

func New(l *lexer.Lexer, rt *evaluator.Runtime) *Parser {
	p := &Parser{l: l, rt: rt}
	p.next()
	return p
}

// ParseString is the convenience entry for one source string.
func ParseString(src string, rt *evaluator.Runtime) ([]evaluator.Object, error) {
	return New(lexer.New(src), rt).ParseProgram()
}

func (p *Parser) next() {
	p.cur = p.l.NextToken()
}

func (p *Parser) errorf(tok token.Token, format string, a ...interface{}) error {
	return fmt.Errorf("%s: %s", tok.Context().Location(), fmt.Sprintf(format, a...))
}

// ParseProgram reads forms until end of input.
func (p *Parser) ParseProgram() ([]evaluator.Object, error) {
	var forms []evaluator.Object
	for p.cur.Type != token.EOF {
		form, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

func (p *Parser) ctx(tok token.Token) token.SourceContext {
	ctx := tok.Context()
	ctx.Function = p.function
	return ctx
}

func (p *Parser) parseForm() (evaluator.Object, error) {
	tok := p.cur
	switch tok.Type {
	case token.LPAREN:
		return p.parseList(tok)
	case token.LBRACKET:
		elems, err := p.parseUntil(token.RBRACKET, tok)
		if err != nil {
			return nil, err
		}
		return &evaluator.VectorLiteral{Elements: elems, Ctx: p.ctx(tok)}, nil
	case token.LBRACE:
		elems, err := p.parseUntil(token.RBRACE, tok)
		if err != nil {
			return nil, err
		}
		dl := &evaluator.DictionaryLiteral{Elements: elems, Ctx: p.ctx(tok)}
		if derr := dl.CheckDuplicateKeys(); derr != nil {
			return nil, fmt.Errorf("%s: %s", derr.Ctx.Location(), derr.Message)
		}
		return dl, nil
	case token.HASHSET:
		elems, err := p.parseUntil(token.RBRACE, tok)
		if err != nil {
			return nil, err
		}
		return &evaluator.HashSetLiteral{Elements: elems, Ctx: p.ctx(tok)}, nil
	case token.SPLAT:
		p.next()
		expr, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		return &evaluator.Splat{Expr: expr, Ctx: p.ctx(tok)}, nil
	case token.QUOTE:
		p.next()
		expr, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		quote := p.rt.Symbols.Intern("quote")
		return &evaluator.ListForm{Elements: []evaluator.Object{quote, expr}, Ctx: p.ctx(tok)}, nil
	case token.INT:
		p.next()
		n, err := strconv.ParseInt(tok.Literal, 0, 64)
		if err != nil {
			return nil, p.errorf(tok, "bad integer literal %q", tok.Lexeme)
		}
		return &evaluator.ValueLiteral{Val: &evaluator.Integer{Value: n}, Ctx: p.ctx(tok)}, nil
	case token.FLOAT:
		p.next()
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.errorf(tok, "bad float literal %q", tok.Lexeme)
		}
		return &evaluator.ValueLiteral{Val: &evaluator.Float{Value: f}, Ctx: p.ctx(tok)}, nil
	case token.STRING:
		p.next()
		return &evaluator.ValueLiteral{Val: &evaluator.String{Value: tok.Literal}, Ctx: p.ctx(tok)}, nil
	case token.EXSTRING:
		p.next()
		return &evaluator.ExpandableStringLiteral{Raw: tok.Literal, Ctx: p.ctx(tok)}, nil
	case token.KEYWORD:
		p.next()
		return p.rt.Keywords.Intern(tok.Literal), nil
	case token.TYPE:
		p.next()
		return evaluator.NewTypeLiteral(tok.Literal, p.ctx(tok)), nil
	case token.MEMBER:
		p.next()
		return p.memberForm(tok), nil
	case token.ARGINDEX:
		p.next()
		n, err := strconv.Atoi(tok.Literal)
		if err != nil || n < 0 {
			return nil, p.errorf(tok, "bad argument index %q", tok.Lexeme)
		}
		return &evaluator.ArgIndexLiteral{Index: n, Ctx: p.ctx(tok)}, nil
	case token.SYMBOL:
		p.next()
		switch tok.Literal {
		case "true":
			return &evaluator.ValueLiteral{Val: evaluator.TRUE, Ctx: p.ctx(tok)}, nil
		case "false":
			return &evaluator.ValueLiteral{Val: evaluator.FALSE, Ctx: p.ctx(tok)}, nil
		case "nil":
			return &evaluator.ValueLiteral{Val: evaluator.NIL, Ctx: p.ctx(tok)}, nil
		}
		return p.rt.Symbols.Intern(tok.Literal), nil
	case token.ILLEGAL:
		return nil, p.errorf(tok, "%s: %q", tok.Literal, tok.Lexeme)
	default:
		return nil, p.errorf(tok, "unexpected %s", tok.Type)
	}
}

// memberForm reads a leading-dot token. A `.Type/member` form whose
// property or host method the registry already knows pre-resolves at
// read time; everything else, including quiet forms (their nil and
// missing-member handling is a call-time concern) and members that only
// exist in the user method map, stays a MemberLiteral resolved at call
// time.
func (p *Parser) memberForm(tok token.Token) evaluator.Object {
	ml := evaluator.NewMemberLiteral(tok.Lexeme, p.ctx(tok))
	if ml.StaticType == "" || ml.Quiet {
		return ml
	}
	if sp, ok := evaluator.ResolveStaticProperty(p.rt, ml.StaticType, ml.Member, ml.Ctx); ok {
		return sp
	}
	if sm, ok := evaluator.ResolveStaticMethod(p.rt, ml.StaticType, ml.Member, ml.Ctx); ok {
		return sm
	}
	return ml
}

func (p *Parser) parseUntil(end token.TokenType, open token.Token) ([]evaluator.Object, error) {
	p.next() // consume opener
	var elems []evaluator.Object
	for {
		switch p.cur.Type {
		case end:
			p.next()
			return elems, nil
		case token.EOF:
			return nil, p.errorf(open, "unterminated %s form", open.Lexeme)
		}
		form, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		elems = append(elems, form)
	}
}

// parseList reads a `( … )` form. Lambda forms become function literals
// at read time; everything else stays a plain application form.
func (p *Parser) parseList(open token.Token) (evaluator.Object, error) {
	p.next() // consume '('
	var elems []evaluator.Object
	isFn := false
	prevFunction := p.function
	for {
		switch p.cur.Type {
		case token.RPAREN:
			p.next()
			p.function = prevFunction
			if isFn {
				return p.buildFunctionLiteral(elems[1:], open)
			}
			return &evaluator.ListForm{Elements: elems, Ctx: p.ctx(open)}, nil
		case token.EOF:
			p.function = prevFunction
			return nil, p.errorf(open, "unterminated ( form")
		}
		form, err := p.parseForm()
		if err != nil {
			p.function = prevFunction
			return nil, err
		}
		elems = append(elems, form)

		if len(elems) == 1 {
			if sym, ok := form.(*evaluator.Symbol); ok && strings.EqualFold(sym.Name, "fn") {
				isFn = true
				if p.cur.Type == token.SYMBOL {
					p.function = p.cur.Literal
				}
			}
		}
	}
}

// buildFunctionLiteral shapes `(fn name? [params] doc? body…)` into a
// function literal. A leading string with more body behind it is the
// doc string, attached through the help side-table on evaluation.
func (p *Parser) buildFunctionLiteral(rest []evaluator.Object, open token.Token) (evaluator.Object, error) {
	name := ""
	if len(rest) > 0 {
		if sym, ok := rest[0].(*evaluator.Symbol); ok {
			name = sym.Name
			rest = rest[1:]
		}
	}
	if len(rest) == 0 {
		return nil, p.errorf(open, "fn needs a parameter vector")
	}
	paramsVec, ok := rest[0].(*evaluator.VectorLiteral)
	if !ok {
		return nil, p.errorf(open, "fn parameters must be a vector")
	}
	params := make([]*evaluator.Symbol, 0, len(paramsVec.Elements))
	for _, el := range paramsVec.Elements {
		sym, ok := el.(*evaluator.Symbol)
		if !ok {
			return nil, p.errorf(open, "fn parameters must be symbols")
		}
		params = append(params, sym)
	}
	body := rest[1:]

	help := ""
	if len(body) > 1 {
		if vl, ok := body[0].(*evaluator.ValueLiteral); ok {
			if s, ok := vl.Val.(*evaluator.String); ok {
				help = s.Value
				body = body[1:]
			}
		}
	}

	return &evaluator.FunctionLiteral{
		Template: &evaluator.Function{Name: name, Params: params, Body: body},
		HelpText: help,
		Ctx:      p.ctx(open),
	}, nil
}
