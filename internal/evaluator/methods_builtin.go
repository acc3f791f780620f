package evaluator

import (
	"strings"

	"github.com/google/uuid"
)

// registerStringMethods installs the braid-method surface of strings.
// Go's string type has no methods of its own, so the whole surface
// lives in the user method map and resolves through the same dispatch
// step user-defined methods do.
func registerStringMethods(rt *Runtime) {
	def := func(name string, fn BuiltinFn) {
		rt.DefMethod("string", rt.Symbols.Intern(name), &Builtin{Name: name, Fn: fn})
	}

	recv := func(args []Object) (string, *Error) {
		if len(args) == 0 {
			return "", newError(ErrArityMismatch, "string method needs a receiver")
		}
		s, ok := args[0].(*String)
		if !ok {
			return "", newError(ErrType, "receiver is %s, not string", typeName(args[0]))
		}
		return s.Value, nil
	}

	def("ToUpper", func(e *Evaluator, args ...Object) Object {
		s, err := recv(args)
		if err != nil {
			return err
		}
		return &String{Value: strings.ToUpper(s)}
	})
	def("ToLower", func(e *Evaluator, args ...Object) Object {
		s, err := recv(args)
		if err != nil {
			return err
		}
		return &String{Value: strings.ToLower(s)}
	})
	def("Trim", func(e *Evaluator, args ...Object) Object {
		s, err := recv(args)
		if err != nil {
			return err
		}
		return &String{Value: strings.TrimSpace(s)}
	})
	def("Contains", func(e *Evaluator, args ...Object) Object {
		s, err := recv(args)
		if err != nil {
			return err
		}
		if len(args) != 2 {
			return newError(ErrArityMismatch, "Contains takes a substring")
		}
		return nativeBool(strings.Contains(s, strObject(args[1])))
	})
	def("StartsWith", func(e *Evaluator, args ...Object) Object {
		s, err := recv(args)
		if err != nil {
			return err
		}
		if len(args) != 2 {
			return newError(ErrArityMismatch, "StartsWith takes a prefix")
		}
		return nativeBool(strings.HasPrefix(s, strObject(args[1])))
	})
	def("EndsWith", func(e *Evaluator, args ...Object) Object {
		s, err := recv(args)
		if err != nil {
			return err
		}
		if len(args) != 2 {
			return newError(ErrArityMismatch, "EndsWith takes a suffix")
		}
		return nativeBool(strings.HasSuffix(s, strObject(args[1])))
	})
	def("IndexOf", func(e *Evaluator, args ...Object) Object {
		s, err := recv(args)
		if err != nil {
			return err
		}
		if len(args) != 2 {
			return newError(ErrArityMismatch, "IndexOf takes a substring")
		}
		return &Integer{Value: int64(strings.Index(s, strObject(args[1])))}
	})
	def("Split", func(e *Evaluator, args ...Object) Object {
		s, err := recv(args)
		if err != nil {
			return err
		}
		sep := " "
		if len(args) > 1 {
			sep = strObject(args[1])
		}
		parts := strings.Split(s, sep)
		elems := make([]Object, len(parts))
		for i, p := range parts {
			elems[i] = &String{Value: p}
		}
		return NewVector(elems)
	})
	def("Replace", func(e *Evaluator, args ...Object) Object {
		s, err := recv(args)
		if err != nil {
			return err
		}
		if len(args) != 3 {
			return newError(ErrArityMismatch, "Replace takes old and new substrings")
		}
		return &String{Value: strings.ReplaceAll(s, strObject(args[1]), strObject(args[2]))}
	})
	def("Substring", func(e *Evaluator, args ...Object) Object {
		s, err := recv(args)
		if err != nil {
			return err
		}
		if len(args) < 2 || len(args) > 3 {
			return newError(ErrArityMismatch, "Substring takes a start and an optional length")
		}
		runes := []rune(s)
		start, berr := toInt64(args[1])
		if berr != nil {
			return berr
		}
		if start < 0 || start > int64(len(runes)) {
			return newError(ErrBadIndex, "Substring start %d out of range for length %d", start, len(runes))
		}
		end := int64(len(runes))
		if len(args) == 3 {
			n, berr := toInt64(args[2])
			if berr != nil {
				return berr
			}
			end = start + n
			if end > int64(len(runes)) {
				end = int64(len(runes))
			}
		}
		return &String{Value: string(runes[start:end])}
	})

	rt.Types.RegisterProperty("string", &HostProperty{
		Name: "Length",
		Get: func(e *Evaluator, recv Object) Object {
			s, ok := recv.(*String)
			if !ok {
				return newError(ErrType, "Length: receiver is %s, not string", typeName(recv))
			}
			return &Integer{Value: int64(len([]rune(s.Value)))}
		},
	})
}

// registerCollectionMethods installs the braid-method surface of the
// container types.
func registerCollectionMethods(rt *Runtime) {
	countProp := func(typeName string) {
		rt.Types.RegisterProperty(typeName, &HostProperty{
			Name: "Count",
			Get: func(e *Evaluator, recv Object) Object {
				switch v := recv.(type) {
				case *Vector:
					return &Integer{Value: int64(v.Len())}
				case *Dict:
					return &Integer{Value: int64(v.Len())}
				case *HashSet:
					return &Integer{Value: int64(v.Len())}
				}
				return &Integer{Value: 0}
			},
		})
	}
	countProp("vector")
	countProp("dict")
	countProp("set")

	rt.DefMethod("vector", rt.Symbols.Intern("Reverse"), &Builtin{Name: "Reverse", Fn: func(e *Evaluator, args ...Object) Object {
		v, ok := args[0].(*Vector)
		if !ok {
			return newError(ErrType, "Reverse: receiver is %s, not vector", typeName(args[0]))
		}
		out := make([]Object, v.Len())
		for i, el := range v.Elements {
			out[v.Len()-1-i] = el
		}
		return NewVector(out)
	}})

	rt.DefMethod("vector", rt.Symbols.Intern("Join"), &Builtin{Name: "Join", Fn: func(e *Evaluator, args ...Object) Object {
		v, ok := args[0].(*Vector)
		if !ok {
			return newError(ErrType, "Join: receiver is %s, not vector", typeName(args[0]))
		}
		sep := ""
		if len(args) > 1 {
			sep = strObject(args[1])
		}
		parts := make([]string, v.Len())
		for i, el := range v.Elements {
			parts[i] = strObject(el)
		}
		return &String{Value: strings.Join(parts, sep)}
	}})

	rt.DefMethod("dict", rt.Symbols.Intern("Keys"), &Builtin{Name: "Keys", Fn: func(e *Evaluator, args ...Object) Object {
		d, ok := args[0].(*Dict)
		if !ok {
			return newError(ErrType, "Keys: receiver is %s, not dict", typeName(args[0]))
		}
		var keys []Object
		d.Each(func(key, value Object) bool {
			keys = append(keys, key)
			return true
		})
		return NewVector(keys)
	}})

	rt.DefMethod("dict", rt.Symbols.Intern("Values"), &Builtin{Name: "Values", Fn: func(e *Evaluator, args ...Object) Object {
		d, ok := args[0].(*Dict)
		if !ok {
			return newError(ErrType, "Values: receiver is %s, not dict", typeName(args[0]))
		}
		var vals []Object
		d.Each(func(key, value Object) bool {
			vals = append(vals, value)
			return true
		})
		return NewVector(vals)
	}})

	registerDictContainsKey(rt)
}

// registerUuidMethods gives the uuid host type its constructor surface:
// `.uuid/New`, `.uuid/NewString` and `.uuid/Parse` dispatch through the
// type receiver the way user-defined static methods do.
func registerUuidMethods(rt *Runtime) {
	rt.DefMethod("uuid", rt.Symbols.Intern("New"), &Builtin{Name: "New", Fn: func(e *Evaluator, args ...Object) Object {
		return &HostObject{Value: uuid.New()}
	}})
	rt.DefMethod("uuid", rt.Symbols.Intern("NewString"), &Builtin{Name: "NewString", Fn: func(e *Evaluator, args ...Object) Object {
		return &String{Value: uuid.NewString()}
	}})
	rt.DefMethod("uuid", rt.Symbols.Intern("Parse"), &Builtin{Name: "Parse", Fn: func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return newError(ErrArityMismatch, "Parse takes a uuid string")
		}
		id, err := uuid.Parse(strObject(args[1]))
		if err != nil {
			return &Error{Kind: ErrHostInvocation, Message: err.Error(), Wrapped: err}
		}
		return &HostObject{Value: id}
	}})
}

func registerDictContainsKey(rt *Runtime) {
	rt.DefMethod("dict", rt.Symbols.Intern("ContainsKey"), &Builtin{Name: "ContainsKey", Fn: func(e *Evaluator, args ...Object) Object {
		d, ok := args[0].(*Dict)
		if !ok {
			return newError(ErrType, "ContainsKey: receiver is %s, not dict", typeName(args[0]))
		}
		if len(args) != 2 {
			return newError(ErrArityMismatch, "ContainsKey takes a key")
		}
		_, found := d.Get(args[1])
		return nativeBool(found)
	}})
}
