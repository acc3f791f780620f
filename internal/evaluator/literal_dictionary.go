package evaluator

import (
	"context"
	"sync"

	"github.com/funvibe/braid/internal/token"
)

// DictionaryLiteral is a `{ k v … }` form: a flat list of alternating
// keys and values, possibly containing splats. Duplicate literal keys
// among the non-splat elements are rejected at parse time; duplicates a
// splat introduces at runtime silently win last-writer.
type DictionaryLiteral struct {
	Elements []Object
	Ctx      token.SourceContext

	srcOnce sync.Once
	srcText string
}

func (dl *DictionaryLiteral) Type() ObjectType { return DICT_LITERAL_OBJ }

func (dl *DictionaryLiteral) Inspect() string {
	dl.srcOnce.Do(func() {
		r := &renderer{ctx: context.Background()}
		r.write("{")
		for i, el := range dl.Elements {
			if i > 0 {
				r.write(" ")
			}
			r.render(el)
		}
		r.write("}")
		dl.srcText = r.b.String()
	})
	return dl.srcText
}

func (dl *DictionaryLiteral) Hash() uint32 {
	h := uint32(11)
	for _, el := range dl.Elements {
		h = 31*h + el.Hash()
	}
	return h
}

func (dl *DictionaryLiteral) Context() token.SourceContext { return dl.Ctx }

// CheckDuplicateKeys is the structural parse-time check: literal keys at
// even non-splat positions must be unique. It runs before any element is
// evaluated; splats defeat it by design.
func (dl *DictionaryLiteral) CheckDuplicateKeys() *Error {
	seen := NewHashSet()
	pos := 0
	for _, el := range dl.Elements {
		if _, ok := el.(*Splat); ok {
			// A splat contributes an unknown number of pairs; positions
			// after it stay key/value aligned per the source.
			continue
		}
		if pos%2 == 0 && isLiteralKey(el) {
			key := literalKey(el)
			if seen.Contains(key) {
				return newErrorAt(ErrDuplicateKey, dl.Ctx, "duplicate key %s in dictionary literal", key.Inspect())
			}
			seen.Add(key)
		}
		pos++
	}
	return nil
}

func isLiteralKey(el Object) bool {
	switch el.(type) {
	case *Keyword, *String, *Integer, *Float, *Boolean, *Char:
		return true
	case *ValueLiteral:
		return true
	}
	return false
}

func literalKey(el Object) Object {
	if vl, ok := el.(*ValueLiteral); ok {
		return vl.Val
	}
	return el
}

// Value evaluates pairs left to right into a fresh dictionary. Splat
// elements contribute their contents: a dictionary, an even-length
// vector read as alternating key/value, or a vector of two-element
// pair vectors.
func (dl *DictionaryLiteral) Value(e *Evaluator) Object {
	d := NewDict()
	var pending Object
	havePending := false

	flushPair := func(val Object) {
		d.Set(pending, val)
		havePending = false
	}

	for _, el := range dl.Elements {
		if sp, ok := el.(*Splat); ok {
			if havePending {
				return newErrorAt(ErrOddDictionary, dl.Ctx, "dictionary literal: key %s has no value before splat", pending.Inspect())
			}
			v := e.Eval(sp.Expr)
			if isError(v) {
				return v
			}
			if err := spliceIntoDict(d, v); err != nil {
				err.Ctx = dl.Ctx
				return err
			}
			continue
		}

		v := e.Eval(el)
		if isError(v) {
			return v
		}
		if havePending {
			flushPair(v)
		} else {
			pending = v
			havePending = true
		}
	}

	if havePending {
		return newErrorAt(ErrOddDictionary, dl.Ctx, "dictionary literal has an odd number of elements")
	}
	return d
}

// spliceIntoDict merges a splatted value into d. Later writers win.
func spliceIntoDict(d *Dict, v Object) *Error {
	switch x := v.(type) {
	case *Nil:
		return nil
	case *Dict:
		x.Each(func(key, value Object) bool {
			d.Set(key, value)
			return true
		})
		return nil
	case *Vector:
		// A vector of pair vectors, or a flat alternating list.
		if len(x.Elements) > 0 {
			allPairs := true
			for _, el := range x.Elements {
				p, ok := el.(*Vector)
				if !ok || len(p.Elements) != 2 {
					allPairs = false
					break
				}
			}
			if allPairs {
				for _, el := range x.Elements {
					p := el.(*Vector)
					d.Set(p.Elements[0], p.Elements[1])
				}
				return nil
			}
		}
		if len(x.Elements)%2 != 0 {
			return newError(ErrOddDictionary, "splatted list of %d elements cannot form pairs", len(x.Elements))
		}
		for i := 0; i+1 < len(x.Elements); i += 2 {
			d.Set(x.Elements[i], x.Elements[i+1])
		}
		return nil
	default:
		return newError(ErrType, "cannot splice %s into a dictionary literal", typeName(v))
	}
}

// Invoke builds the dictionary, then applies the dictionary calling
// convention.
func (dl *DictionaryLiteral) Invoke(e *Evaluator, args []Object) Object {
	d := dl.Value(e)
	if isError(d) {
		return d
	}
	return d.(*Dict).Invoke(e, args)
}
