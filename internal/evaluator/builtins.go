package evaluator

import (
	"fmt"

	"github.com/google/uuid"
)

// RegisterBuiltins binds the core native functions into a frame.
func RegisterBuiltins(e *Evaluator, fr *Frame) {
	for name, fn := range builtinTable() {
		fr.SetLocal(e.Runtime.Symbols.Intern(name), &Builtin{Name: name, Fn: fn})
	}
}

func builtinTable() map[string]BuiltinFn {
	return map[string]BuiltinFn{
		"print": func(e *Evaluator, args ...Object) Object {
			for i, a := range args {
				if i > 0 {
					fmt.Fprint(e.Out, " ")
				}
				fmt.Fprint(e.Out, strObject(a))
			}
			return NIL
		},
		"println": func(e *Evaluator, args ...Object) Object {
			for i, a := range args {
				if i > 0 {
					fmt.Fprint(e.Out, " ")
				}
				fmt.Fprint(e.Out, strObject(a))
			}
			fmt.Fprintln(e.Out)
			return NIL
		},
		"str": func(e *Evaluator, args ...Object) Object {
			out := ""
			for _, a := range args {
				out += strObject(a)
			}
			return &String{Value: out}
		},
		"type-of": func(e *Evaluator, args ...Object) Object {
			if len(args) != 1 {
				return newError(ErrArityMismatch, "type-of takes 1 argument, got %d", len(args))
			}
			if to, ok := e.Runtime.Types.Resolve(typeName(args[0])); ok {
				return to
			}
			return &String{Value: typeName(args[0])}
		},
		"count": func(e *Evaluator, args ...Object) Object {
			if len(args) != 1 {
				return newError(ErrArityMismatch, "count takes 1 argument, got %d", len(args))
			}
			switch v := args[0].(type) {
			case *Nil:
				return &Integer{Value: 0}
			case *String:
				return &Integer{Value: int64(len([]rune(v.Value)))}
			case *Vector:
				return &Integer{Value: int64(v.Len())}
			case *Dict:
				return &Integer{Value: int64(v.Len())}
			case *HashSet:
				return &Integer{Value: int64(v.Len())}
			}
			return newError(ErrType, "count: %s is not countable", typeName(args[0]))
		},
		"first": func(e *Evaluator, args ...Object) Object {
			if len(args) != 1 {
				return newError(ErrArityMismatch, "first takes 1 argument, got %d", len(args))
			}
			if v, ok := args[0].(*Vector); ok && v.Len() > 0 {
				return v.Elements[0]
			}
			return NIL
		},
		"rest": func(e *Evaluator, args ...Object) Object {
			if len(args) != 1 {
				return newError(ErrArityMismatch, "rest takes 1 argument, got %d", len(args))
			}
			if v, ok := args[0].(*Vector); ok && v.Len() > 1 {
				rest := make([]Object, v.Len()-1)
				copy(rest, v.Elements[1:])
				return NewVector(rest)
			}
			return NewVector(nil)
		},
		"not": func(e *Evaluator, args ...Object) Object {
			if len(args) != 1 {
				return newError(ErrArityMismatch, "not takes 1 argument, got %d", len(args))
			}
			return nativeBool(!e.IsTrue(args[0]))
		},
		"error": func(e *Evaluator, args ...Object) Object {
			msg := "error"
			if len(args) > 0 {
				msg = strObject(args[0])
			}
			return &Error{Kind: ErrUser, Message: msg}
		},
		"help": func(e *Evaluator, args ...Object) Object {
			if len(args) != 1 {
				return newError(ErrArityMismatch, "help takes 1 argument, got %d", len(args))
			}
			if text, ok := e.Runtime.Help(args[0]); ok {
				return &String{Value: text}
			}
			return NIL
		},
		// gensym mints a unique symbol; the uniqueness source is a v4
		// uuid so symbols stay unique across isolated runtimes.
		"gensym": func(e *Evaluator, args ...Object) Object {
			prefix := "g"
			if len(args) > 0 {
				prefix = strObject(args[0])
			}
			return e.Runtime.Symbols.Intern(prefix + "-" + uuid.NewString())
		},
		"uuid": func(e *Evaluator, args ...Object) Object {
			if len(args) != 0 {
				return newError(ErrArityMismatch, "uuid takes no arguments, got %d", len(args))
			}
			return &HostObject{Value: uuid.New()}
		},
		"+": arith("+"),
		"-": arith("-"),
		"*": arith("*"),
		"/": arith("/"),
		"=": func(e *Evaluator, args ...Object) Object {
			if len(args) != 2 {
				return newError(ErrArityMismatch, "= takes 2 arguments, got %d", len(args))
			}
			return nativeBool(ObjectsEqual(args[0], args[1]))
		},
		"<":  compare("<"),
		">":  compare(">"),
		"<=": compare("<="),
		">=": compare(">="),
	}
}

func arith(op string) BuiltinFn {
	return func(e *Evaluator, args ...Object) Object {
		if len(args) == 0 {
			return newError(ErrArityMismatch, "%s needs at least 1 argument", op)
		}
		// Floats are contagious.
		isFloat := false
		for _, a := range args {
			switch a.(type) {
			case *Float:
				isFloat = true
			case *Integer:
			default:
				if op == "+" {
					if _, ok := a.(*String); ok {
						return concat(args)
					}
				}
				return newError(ErrType, "%s: %s is not a number", op, typeName(a))
			}
		}
		if isFloat {
			acc, _ := toFloat64(args[0])
			for _, a := range args[1:] {
				v, _ := toFloat64(a)
				switch op {
				case "+":
					acc += v
				case "-":
					acc -= v
				case "*":
					acc *= v
				case "/":
					if v == 0 {
						return newError(ErrType, "division by zero")
					}
					acc /= v
				}
			}
			return &Float{Value: acc}
		}
		acc, _ := toInt64(args[0])
		for _, a := range args[1:] {
			v, _ := toInt64(a)
			switch op {
			case "+":
				acc += v
			case "-":
				acc -= v
			case "*":
				acc *= v
			case "/":
				if v == 0 {
					return newError(ErrType, "division by zero")
				}
				acc /= v
			}
		}
		return &Integer{Value: acc}
	}
}

func concat(args []Object) Object {
	out := ""
	for _, a := range args {
		out += strObject(a)
	}
	return &String{Value: out}
}

func compare(op string) BuiltinFn {
	return func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return newError(ErrArityMismatch, "%s takes 2 arguments, got %d", op, len(args))
		}
		a, erra := toFloat64(args[0])
		b, errb := toFloat64(args[1])
		if erra != nil || errb != nil {
			x, okx := args[0].(*String)
			y, oky := args[1].(*String)
			if okx && oky {
				return nativeBool(compareOrdered(op, x.Value, y.Value))
			}
			return newError(ErrType, "%s: cannot compare %s and %s", op, typeName(args[0]), typeName(args[1]))
		}
		return nativeBool(compareOrdered(op, a, b))
	}
}

func compareOrdered[T float64 | string](op string, a, b T) bool {
	switch op {
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	}
	return false
}
