package evaluator

import (
	"reflect"
	"strings"
)

// ObjectsEqual is the shared equality predicate used by sets, dictionary
// keys and pattern tests.
func ObjectsEqual(a, b Object) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	switch x := a.(type) {
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *Boolean:
		y, ok := b.(*Boolean)
		return ok && x.Value == y.Value
	case *Integer:
		switch y := b.(type) {
		case *Integer:
			return x.Value == y.Value
		case *Float:
			return float64(x.Value) == y.Value
		}
		return false
	case *Float:
		switch y := b.(type) {
		case *Float:
			return x.Value == y.Value
		case *Integer:
			return x.Value == float64(y.Value)
		}
		return false
	case *String:
		y, ok := b.(*String)
		return ok && x.Value == y.Value
	case *Char:
		y, ok := b.(*Char)
		return ok && x.Value == y.Value
	case *Symbol:
		y, ok := b.(*Symbol)
		return ok && x.ID() == y.ID()
	case *Keyword:
		// Keywords are equal iff they share an id; the text tiebreak is
		// case-insensitive and only matters for foreign keyword objects.
		y, ok := b.(*Keyword)
		if !ok {
			return false
		}
		if x.ID() == y.ID() {
			return true
		}
		return strings.EqualFold(x.Name, y.Name)
	case *ArgIndexLiteral:
		y, ok := b.(*ArgIndexLiteral)
		return ok && x.Index == y.Index
	case *TypeObject:
		y, ok := b.(*TypeObject)
		return ok && strings.EqualFold(x.Name, y.Name)
	case *Vector:
		y, ok := b.(*Vector)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !ObjectsEqual(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case *HostObject:
		y, ok := b.(*HostObject)
		return ok && reflect.DeepEqual(x.Value, y.Value)
	}
	return false
}
