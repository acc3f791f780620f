package evaluator

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// typeName reports the braid type name of a value, the key the user
// method map and member dispatch work with.
func typeName(obj Object) string {
	switch v := obj.(type) {
	case *Nil:
		return "nil"
	case *Boolean:
		return "bool"
	case *Integer:
		return "int"
	case *Float:
		return "float"
	case *String:
		return "string"
	case *Char:
		return "char"
	case *Symbol:
		return "symbol"
	case *Keyword:
		return "keyword"
	case *Vector:
		return "vector"
	case *Dict:
		return "dict"
	case *HashSet:
		return "set"
	case *TypeObject:
		return "type"
	case *Function:
		return "function"
	case *Builtin:
		return "builtin"
	case *Error:
		return "error"
	case *HostObject:
		t := reflect.TypeOf(v.Value)
		if t == nil {
			return "nil"
		}
		for t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		if t.Name() != "" {
			return strings.ToLower(t.Name())
		}
		return strings.ToLower(t.String())
	default:
		return strings.ToLower(string(obj.Type()))
	}
}

// toHost unwraps a braid value into the Go value reflection sees.
// Containers and callables pass through as themselves.
func toHost(obj Object) interface{} {
	switch v := obj.(type) {
	case *Nil:
		return nil
	case *Boolean:
		return v.Value
	case *Integer:
		return v.Value
	case *Float:
		return v.Value
	case *String:
		return v.Value
	case *Char:
		return v.Value
	case *HostObject:
		return v.Value
	case *TypeObject:
		if v.GoType != nil {
			return v.GoType
		}
		return v
	default:
		return obj
	}
}

// fromHost wraps a Go value coming back from reflection.
func fromHost(v interface{}) Object {
	if v == nil {
		return NIL
	}
	if obj, ok := v.(Object); ok {
		return obj
	}
	switch x := v.(type) {
	case bool:
		return nativeBool(x)
	case int:
		return &Integer{Value: int64(x)}
	case int8:
		return &Integer{Value: int64(x)}
	case int16:
		return &Integer{Value: int64(x)}
	case int32:
		return &Integer{Value: int64(x)}
	case int64:
		return &Integer{Value: x}
	case uint:
		return &Integer{Value: int64(x)}
	case uint8:
		return &Integer{Value: int64(x)}
	case uint16:
		return &Integer{Value: int64(x)}
	case uint32:
		return &Integer{Value: int64(x)}
	case uint64:
		return &Integer{Value: int64(x)}
	case float32:
		return &Float{Value: float64(x)}
	case float64:
		return &Float{Value: x}
	case string:
		return &String{Value: x}
	case []Object:
		return NewVector(x)
	case error:
		return &HostObject{Value: x}
	default:
		return &HostObject{Value: v}
	}
}

// strObject renders a value the way string conversion sees it: strings
// uncooked, symbols and keywords by name, everything else inspected.
func strObject(obj Object) string {
	switch v := obj.(type) {
	case *String:
		return v.Value
	case *Symbol:
		return v.Name
	case *Keyword:
		return v.Name
	case *Char:
		return string(v.Value)
	case *MemberLiteral:
		return v.Text()
	default:
		return obj.Inspect()
	}
}

// Cast applies a type object to a value per the mode it carries.
func (e *Evaluator) Cast(v Object, t *TypeObject) Object {
	if t.Soft {
		return e.softCast(v, t)
	}
	return e.strictCast(v, t)
}

// strictCast: nil passes only for the empty-list type; an assignable
// runtime type passes unchanged; a handful of explicit string
// conversions are legal; everything else fails.
func (e *Evaluator) strictCast(v Object, t *TypeObject) Object {
	if _, isNil := v.(*Nil); isNil {
		if t.IsListType || t.IsAny {
			return NIL
		}
		return newError(ErrStrictCastFailure, "cannot cast nil to ^%s", t.Name)
	}
	if t.IsAny {
		return v
	}
	if t.IsListType {
		if vec, ok := v.(*Vector); ok {
			return vec
		}
		return newError(ErrStrictCastFailure, "cannot cast %s to ^%s", typeName(v), t.Name)
	}

	hv := toHost(v)
	if hv != nil && reflect.TypeOf(hv).AssignableTo(t.GoType) {
		return v
	}

	if t.GoType.Kind() == reflect.String {
		switch x := v.(type) {
		case *Symbol:
			return &String{Value: x.Name}
		case *Keyword:
			return &String{Value: x.Name}
		case *MemberLiteral:
			return &String{Value: x.Text()}
		}
	}

	return newError(ErrStrictCastFailure, "cannot cast %s to ^%s", typeName(v), t.Name)
}

// softCast: booleans go through truthiness, regexes are built
// case-insensitively, everything else goes through host coercion.
func (e *Evaluator) softCast(v Object, t *TypeObject) Object {
	if t.GoType != nil {
		switch {
		case t.GoType.Kind() == reflect.Bool:
			return nativeBool(e.IsTrue(v))
		case t.GoType == reflect.TypeOf(&regexp.Regexp{}):
			pattern := strObject(v)
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				return newError(ErrSoftCastFailure, "cannot build regex from %q: %v", pattern, err)
			}
			return &HostObject{Value: re}
		}
	}
	out, cerr := e.Convert(v, t)
	if cerr != nil {
		return &Error{Kind: ErrSoftCastFailure, Message: cerr.Message, Ctx: cerr.Ctx}
	}
	return out
}

// Convert coerces a value to a type object's representation. It is the
// host coercion primitive soft casts and pattern tests delegate to.
func (e *Evaluator) Convert(v Object, t *TypeObject) (Object, *Error) {
	if t.IsAny {
		return v, nil
	}
	if t.IsListType {
		if _, isNil := v.(*Nil); isNil {
			return NIL, nil
		}
		if vec, ok := v.(*Vector); ok {
			return vec, nil
		}
		return nil, newError(ErrSoftCastFailure, "cannot convert %s to ^list", typeName(v))
	}

	hv := toHost(v)
	if hv != nil && reflect.TypeOf(hv).AssignableTo(t.GoType) {
		return v, nil
	}

	switch t.GoType.Kind() {
	case reflect.Int64:
		n, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		return &Integer{Value: n}, nil
	case reflect.Float64:
		f, err := toFloat64(v)
		if err != nil {
			return nil, err
		}
		return &Float{Value: f}, nil
	case reflect.String:
		return &String{Value: strObject(v)}, nil
	case reflect.Bool:
		return nativeBool(e.IsTrue(v)), nil
	case reflect.Int32: // char
		switch x := v.(type) {
		case *Char:
			return x, nil
		case *Integer:
			return &Char{Value: rune(x.Value)}, nil
		case *String:
			r := []rune(x.Value)
			if len(r) == 1 {
				return &Char{Value: r[0]}, nil
			}
		}
		return nil, newError(ErrSoftCastFailure, "cannot convert %s to ^char", typeName(v))
	}

	// Host types: a reflect-level conversion when Go allows one.
	if hv != nil {
		rv := reflect.ValueOf(hv)
		if rv.Type().ConvertibleTo(t.GoType) {
			return fromHost(rv.Convert(t.GoType).Interface()), nil
		}
	}
	return nil, newError(ErrSoftCastFailure, "cannot convert %s to ^%s", typeName(v), t.Name)
}

// TryConvert is the non-raising probe used by pattern tests.
func (e *Evaluator) TryConvert(v Object, t *TypeObject) (Object, bool) {
	out, err := e.Convert(v, t)
	if err != nil {
		return nil, false
	}
	return out, true
}

func toInt64(v Object) (int64, *Error) {
	switch x := v.(type) {
	case *Integer:
		return x.Value, nil
	case *Float:
		return int64(x.Value), nil
	case *Boolean:
		if x.Value {
			return 1, nil
		}
		return 0, nil
	case *Char:
		return int64(x.Value), nil
	case *String:
		n, err := strconv.ParseInt(strings.TrimSpace(x.Value), 0, 64)
		if err != nil {
			return 0, newError(ErrSoftCastFailure, "cannot convert %q to ^int", x.Value)
		}
		return n, nil
	case *Nil:
		return 0, nil
	}
	return 0, newError(ErrSoftCastFailure, "cannot convert %s to ^int", typeName(v))
}

func toFloat64(v Object) (float64, *Error) {
	switch x := v.(type) {
	case *Integer:
		return float64(x.Value), nil
	case *Float:
		return x.Value, nil
	case *String:
		f, err := strconv.ParseFloat(strings.TrimSpace(x.Value), 64)
		if err != nil {
			return 0, newError(ErrSoftCastFailure, "cannot convert %q to ^float", x.Value)
		}
		return f, nil
	case *Nil:
		return 0, nil
	}
	return 0, newError(ErrSoftCastFailure, "cannot convert %s to ^float", typeName(v))
}

// toIndex coerces an argument into an integer index.
func (e *Evaluator) toIndex(v Object) (int64, Object) {
	n, err := toInt64(v)
	if err != nil {
		return 0, newError(ErrBadIndex, "index must be an integer, got %s", typeName(v))
	}
	return n, nil
}
