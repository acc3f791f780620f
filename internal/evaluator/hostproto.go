package evaluator

import (
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/funvibe/braid/internal/token"
)

// protoMessage unwraps a protobuf message receiver, the one host
// reflection-wrapper kind whose members are described by descriptors
// rather than Go reflection.
func protoMessage(obj Object) (proto.Message, bool) {
	h, ok := obj.(*HostObject)
	if !ok {
		return nil, false
	}
	msg, ok := h.Value.(proto.Message)
	return msg, ok
}

// invokeProtoMember dispatches a member access on a protobuf message
// through its descriptor: one argument reads the named field, two
// arguments write it and return the receiver.
func (e *Evaluator) invokeProtoMember(msg proto.Message, member string, args []Object, quiet bool, ctx token.SourceContext) Object {
	m := msg.ProtoReflect()
	fd := findProtoField(m.Descriptor(), member)
	if fd == nil {
		if quiet {
			return NIL
		}
		fields := m.Descriptor().Fields()
		alts := make([]string, 0, fields.Len())
		for i := 0; i < fields.Len(); i++ {
			alts = append(alts, string(fields.Get(i).Name()))
		}
		return &Error{
			Kind:         ErrMissingMember,
			Message:      "no field " + member + " on message " + string(m.Descriptor().FullName()),
			Ctx:          ctx,
			Alternatives: alts,
		}
	}

	switch len(args) {
	case 1:
		return fromProtoValue(m.Get(fd), fd)
	case 2:
		pv, err := toProtoValue(args[1], fd, ctx)
		if err != nil {
			return err
		}
		m.Set(fd, pv)
		return args[0]
	default:
		return newErrorAt(ErrArityMismatch, ctx, ".%s on a message takes 1 or 2 arguments, got %d", member, len(args))
	}
}

func findProtoField(d protoreflect.MessageDescriptor, member string) protoreflect.FieldDescriptor {
	fields := d.Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		if strings.EqualFold(string(fd.Name()), member) || strings.EqualFold(fd.JSONName(), member) {
			return fd
		}
	}
	return nil
}

func fromProtoValue(v protoreflect.Value, fd protoreflect.FieldDescriptor) Object {
	if fd.IsList() {
		list := v.List()
		elems := make([]Object, list.Len())
		for i := 0; i < list.Len(); i++ {
			elems[i] = fromProtoScalar(list.Get(i), fd)
		}
		return NewVector(elems)
	}
	return fromProtoScalar(v, fd)
}

func fromProtoScalar(v protoreflect.Value, fd protoreflect.FieldDescriptor) Object {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return nativeBool(v.Bool())
	case protoreflect.StringKind:
		return &String{Value: v.String()}
	case protoreflect.Int32Kind, protoreflect.Int64Kind,
		protoreflect.Sint32Kind, protoreflect.Sint64Kind,
		protoreflect.Sfixed32Kind, protoreflect.Sfixed64Kind:
		return &Integer{Value: v.Int()}
	case protoreflect.Uint32Kind, protoreflect.Uint64Kind,
		protoreflect.Fixed32Kind, protoreflect.Fixed64Kind:
		return &Integer{Value: int64(v.Uint())}
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		return &Float{Value: v.Float()}
	case protoreflect.MessageKind:
		return &HostObject{Value: v.Message().Interface()}
	default:
		return &HostObject{Value: v.Interface()}
	}
}

func toProtoValue(obj Object, fd protoreflect.FieldDescriptor, ctx token.SourceContext) (protoreflect.Value, *Error) {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		if b, ok := obj.(*Boolean); ok {
			return protoreflect.ValueOfBool(b.Value), nil
		}
	case protoreflect.StringKind:
		return protoreflect.ValueOfString(strObject(obj)), nil
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		if n, err := toInt64(obj); err == nil {
			return protoreflect.ValueOfInt32(int32(n)), nil
		}
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		if n, err := toInt64(obj); err == nil {
			return protoreflect.ValueOfInt64(n), nil
		}
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		if n, err := toInt64(obj); err == nil {
			return protoreflect.ValueOfUint32(uint32(n)), nil
		}
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		if n, err := toInt64(obj); err == nil {
			return protoreflect.ValueOfUint64(uint64(n)), nil
		}
	case protoreflect.FloatKind:
		if f, err := toFloat64(obj); err == nil {
			return protoreflect.ValueOfFloat32(float32(f)), nil
		}
	case protoreflect.DoubleKind:
		if f, err := toFloat64(obj); err == nil {
			return protoreflect.ValueOfFloat64(f), nil
		}
	case protoreflect.MessageKind:
		if msg, ok := protoMessage(obj); ok {
			return protoreflect.ValueOfMessage(msg.ProtoReflect()), nil
		}
	}
	return protoreflect.Value{}, newErrorAt(ErrType, ctx, "cannot store %s in %s field %s", typeName(obj), fd.Kind(), fd.Name())
}
