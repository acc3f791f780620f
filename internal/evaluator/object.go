package evaluator

import (
	"hash/fnv"

	"github.com/funvibe/braid/internal/token"
)

type ObjectType string

const (
	NIL_OBJ      = "NIL"
	BOOLEAN_OBJ  = "BOOLEAN"
	INTEGER_OBJ  = "INTEGER"
	FLOAT_OBJ    = "FLOAT"
	STRING_OBJ   = "STRING"
	CHAR_OBJ     = "CHAR"
	SYMBOL_OBJ   = "SYMBOL"
	KEYWORD_OBJ  = "KEYWORD"
	VECTOR_OBJ   = "VECTOR"
	DICT_OBJ     = "DICT"
	HASHSET_OBJ  = "HASHSET"
	FUNCTION_OBJ = "FUNCTION"
	BUILTIN_OBJ  = "BUILTIN"
	TYPE_OBJ      = "TYPE"
	HOST_OBJ      = "HOST"
	ERROR_OBJ     = "ERROR"
	LIST_FORM_OBJ = "LIST_FORM"
	SPLAT_OBJ     = "SPLAT"

	VALUE_LITERAL_OBJ     = "VALUE_LITERAL"
	ARG_INDEX_LITERAL_OBJ = "ARG_INDEX_LITERAL"
	EXPANDABLE_STRING_OBJ = "EXPANDABLE_STRING"
	TYPE_LITERAL_OBJ      = "TYPE_LITERAL"
	MEMBER_LITERAL_OBJ    = "MEMBER_LITERAL"
	STATIC_PROP_OBJ       = "STATIC_PROPERTY"
	STATIC_METHOD_OBJ     = "STATIC_METHOD"
	VECTOR_LITERAL_OBJ    = "VECTOR_LITERAL"
	DICT_LITERAL_OBJ      = "DICT_LITERAL"
	HASHSET_LITERAL_OBJ   = "HASHSET_LITERAL"
	FUNCTION_LITERAL_OBJ  = "FUNCTION_LITERAL"
)

type Object interface {
	Type() ObjectType
	Inspect() string
	Hash() uint32
}

// Invokable is anything that can stand in function position.
type Invokable interface {
	Object
	Invoke(e *Evaluator, args []Object) Object
}

// Literal is an AST node that is simultaneously a first-class runtime
// value. Value projects it into the current call frame; Context reports
// where it was parsed from.
type Literal interface {
	Object
	Context() token.SourceContext
	Value(e *Evaluator) Object
}

// Helper for hashing strings
func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
