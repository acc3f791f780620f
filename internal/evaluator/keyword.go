package evaluator

import (
	"strings"
	"sync"
)

// Keyword is an interned `:name` literal. Keywords act as dictionary
// accessors when invoked.
type Keyword struct {
	Text string // ':' plus the base name; a trailing colon is not kept
	Name string // base name: raw minus leading ':' and optional trailing ':'
	// RequiresArgument is set for the `:name:` form, which marks a named
	// parameter that must be followed by a value.
	RequiresArgument bool

	id uint32
}

func (k *Keyword) Type() ObjectType { return KEYWORD_OBJ }
func (k *Keyword) Inspect() string  { return k.Text }
func (k *Keyword) Hash() uint32     { return k.id }
func (k *Keyword) ID() uint32       { return k.id }

// Invoke: with a dictionary argument the keyword reads itself out of the
// mapping; with two arguments it writes and returns the mapping so
// pipelines can keep threading it.
func (k *Keyword) Invoke(e *Evaluator, args []Object) Object {
	switch len(args) {
	case 1:
		d, ok := args[0].(*Dict)
		if !ok {
			return newError(ErrType, "keyword %s expects a dictionary, got %s", k.Text, typeName(args[0]))
		}
		if v, ok := d.Get(k); ok {
			return v
		}
		return NIL
	case 2:
		d, ok := args[0].(*Dict)
		if !ok {
			return newError(ErrType, "keyword %s expects a dictionary, got %s", k.Text, typeName(args[0]))
		}
		d.Set(k, args[1])
		return d
	default:
		return newError(ErrArityMismatch, "keyword %s takes 1 or 2 arguments, got %d", k.Text, len(args))
	}
}

// KeywordTable interns keywords. The shared lock around insertion makes
// identical keyword text produced from multiple threads yield one object.
type KeywordTable struct {
	mu       sync.Mutex
	keywords map[string]*Keyword
	nextID   uint32
}

func NewKeywordTable() *KeywordTable {
	return &KeywordTable{keywords: make(map[string]*Keyword)}
}

// Intern canonicalises a keyword by its raw text. The leading colon is
// optional in the input; the trailing colon selects the named-parameter
// form but does not change keyword identity.
func (t *KeywordTable) Intern(text string) *Keyword {
	raw := text
	if !strings.HasPrefix(raw, ":") {
		raw = ":" + raw
	}
	name := strings.TrimPrefix(raw, ":")
	requiresArg := strings.HasSuffix(name, ":")
	name = strings.TrimSuffix(name, ":")

	key := strings.ToLower(name)
	t.mu.Lock()
	defer t.mu.Unlock()
	k, ok := t.keywords[key]
	if !ok {
		t.nextID++
		k = &Keyword{Text: ":" + name, Name: name, id: t.nextID}
		t.keywords[key] = k
	}
	if requiresArg {
		// The `:name:` occurrence shares the identity of `:name`; only
		// the named-parameter flag differs.
		flagged := *k
		flagged.RequiresArgument = true
		return &flagged
	}
	return k
}
