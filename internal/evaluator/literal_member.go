package evaluator

import (
	"reflect"
	"strings"

	"github.com/funvibe/braid/internal/token"
)

// MemberLiteral is the `.member` form: instance or static member access
// resolved at call time. A leading `?` selects quiet mode, in which nil
// receivers and missing members yield nil instead of raising. The static
// form names its type explicitly: `.Type/Member`.
type MemberLiteral struct {
	Raw        string // leading-dot token text
	StaticType string // empty for instance form
	Member     string
	Quiet      bool
	Ctx        token.SourceContext
}

// NewMemberLiteral parses a leading-dot token such as `.ToUpper`,
// `.?address` or `.uuid/NewString`.
func NewMemberLiteral(raw string, ctx token.SourceContext) *MemberLiteral {
	body := strings.TrimPrefix(raw, ".")
	quiet := strings.HasPrefix(body, "?")
	body = strings.TrimPrefix(body, "?")
	staticType := ""
	if slash := strings.Index(body, "/"); slash >= 0 {
		staticType = body[:slash]
		body = body[slash+1:]
	}
	return &MemberLiteral{Raw: raw, StaticType: staticType, Member: body, Quiet: quiet, Ctx: ctx}
}

func (ml *MemberLiteral) Type() ObjectType             { return MEMBER_LITERAL_OBJ }
func (ml *MemberLiteral) Inspect() string              { return ml.Raw }
func (ml *MemberLiteral) Hash() uint32                 { return hashString(strings.ToLower(ml.Raw)) }
func (ml *MemberLiteral) Context() token.SourceContext { return ml.Ctx }

// Text is the textual form string casts see.
func (ml *MemberLiteral) Text() string { return ml.Raw }

// A member literal evaluates to itself; it only does work when invoked.
func (ml *MemberLiteral) Value(e *Evaluator) Object { return ml }

func (ml *MemberLiteral) Invoke(e *Evaluator, args []Object) Object {
	return ml.invokeWithSources(e, args, nil)
}

// invokeWithSources runs the dispatch algorithm. srcs, when present,
// holds the unevaluated argument expressions so by-reference outputs can
// be written back into caller bindings for symbol-shaped arguments.
func (ml *MemberLiteral) invokeWithSources(e *Evaluator, args []Object, srcs []Object) Object {
	// A protobuf message receiver bypasses Go reflection entirely; a
	// message in a later argument position does not.
	for _, a := range args {
		if _, ok := protoMessage(a); ok {
			if msg, ok := protoMessage(args[0]); ok {
				return e.invokeProtoMember(msg, ml.Member, args, ml.Quiet, ml.Ctx)
			}
			break
		}
	}

	// The argument vector is mutated during by-ref handling; work on a
	// copy.
	local := make([]Object, len(args))
	copy(local, args)

	var (
		goType   reflect.Type
		typeKey  string
		recv     Object
		isStatic bool
	)
	srcOffset := 1 // methodArgs[i] came from srcs[i+srcOffset]

	if ml.StaticType != "" {
		to, ok := e.Runtime.Types.Resolve(ml.StaticType)
		if !ok {
			return newErrorAt(ErrUnresolvedType, ml.Ctx, "unresolved type: %s", ml.StaticType)
		}
		goType = to.GoType
		typeKey = to.Name
		if len(local) > 0 && assignableToHost(toHost(local[0]), to) {
			// The first argument already is an instance of the named
			// type; dispatch on it with the type pinned.
			recv = local[0]
		} else {
			recv = to
			isStatic = true
			local = append([]Object{to}, local...)
			srcOffset = 0
		}
	} else {
		if len(local) == 0 {
			return newErrorAt(ErrArityMismatch, ml.Ctx, "%s needs a receiver", ml.Raw)
		}
		recv = local[0]
		switch r := recv.(type) {
		case *Nil:
			if ml.Quiet {
				return NIL
			}
			return newErrorAt(ErrType, ml.Ctx, "%s: member access on nil", ml.Raw)
		case *TypeObject:
			goType = r.GoType
			typeKey = r.Name
			isStatic = true
		default:
			goType = reflect.TypeOf(toHost(recv))
			typeKey = typeName(recv)
		}
	}
	memberArgs := local[1:]

	rec := ml.resolveCached(e, goType, typeKey, isStatic, memberArgs)
	if rec == nil {
		if ml.Quiet {
			return NIL
		}
		return &Error{
			Kind:         ErrMissingMember,
			Message:      "no member " + ml.Member + " on " + typeKey,
			Ctx:          ml.Ctx,
			Alternatives: e.memberAlternatives(goType, typeKey),
		}
	}

	switch rec.kind {
	case dispatchProperty:
		return ml.invokeProperty(e, rec.prop, recv, isStatic, memberArgs)
	case dispatchField:
		return ml.invokeField(e, rec.fieldIndex, recv, memberArgs)
	case dispatchMethod:
		return ml.invokeMethod(e, rec, recv, goType, memberArgs, srcs, srcOffset)
	case dispatchBraidMethod:
		return rec.braid.Invoke(e, local)
	}
	return newErrorAt(ErrMissingMember, ml.Ctx, "no member %s on %s", ml.Member, typeKey)
}

// resolveCached consults the dispatch cache before searching: property,
// then field, then method, then the receiver type's metaclass, then the
// user method map. A cached method record is revalidated against the
// actual arguments before reuse.
func (ml *MemberLiteral) resolveCached(e *Evaluator, goType reflect.Type, typeKey string, isStatic bool, args []Object) *dispatchRecord {
	key := dispatchKey{goType: goType, typeKey: strings.ToLower(typeKey), member: strings.ToLower(ml.Member), arity: len(args), static: isStatic}
	if rec, ok := e.dispatch.get(key); ok {
		if rec == nil {
			return nil
		}
		if rec.kind != dispatchMethod {
			return rec
		}
		if methodSignatureMatches(rec.method, args) || methodArityMatches(rec.method, len(args)) {
			return rec
		}
	}
	rec := ml.resolve(e, goType, typeKey, isStatic, args)
	e.dispatch.put(key, rec)
	return rec
}

func (ml *MemberLiteral) resolve(e *Evaluator, goType reflect.Type, typeKey string, isStatic bool, args []Object) *dispatchRecord {
	if p, ok := e.Runtime.Types.Property(typeKey, ml.Member); ok {
		return &dispatchRecord{kind: dispatchProperty, prop: p}
	}
	if !isStatic {
		// Instance members only bind to instance receivers.
		if idx, ok := findField(goType, ml.Member); ok {
			return &dispatchRecord{kind: dispatchField, fieldIndex: idx}
		}
		if m, ok := findMethod(goType, ml.Member, args); ok {
			return &dispatchRecord{kind: dispatchMethod, method: m}
		}
	}
	// A type receiver searches its metaclass instead, so type objects
	// answer for their own reflective surface (Name, Kind, NumMethod...).
	if isStatic && goType != nil {
		if m, ok := findMethod(reflect.TypeOf(goType), ml.Member, args); ok {
			return &dispatchRecord{kind: dispatchMethod, method: m, onMetaclass: true}
		}
	}
	if fn, ok := e.Runtime.GetMethod(typeKey, e.Runtime.Symbols.Intern(ml.Member)); ok {
		return &dispatchRecord{kind: dispatchBraidMethod, braid: fn}
	}
	return nil
}

// invokeProperty: a bare access reads; extra arguments write and return
// the receiver so pipelines keep threading it. Static writes see a nil
// instance.
func (ml *MemberLiteral) invokeProperty(e *Evaluator, p *HostProperty, recv Object, isStatic bool, args []Object) Object {
	if len(args) > 0 {
		if p.Set == nil {
			return newErrorAt(ErrType, ml.Ctx, "property %s is read-only", p.Name)
		}
		instance := recv
		if isStatic {
			instance = NIL
		}
		if result := p.Set(e, instance, args[0]); isError(result) {
			return result
		}
		return recv
	}
	return p.Get(e, recv)
}

// invokeField: read yields the field value; write requires a pointer
// receiver and returns the receiver.
func (ml *MemberLiteral) invokeField(e *Evaluator, index []int, recv Object, args []Object) Object {
	rv := reflect.ValueOf(toHost(recv))
	base := rv
	for base.Kind() == reflect.Ptr {
		base = base.Elem()
	}
	if base.Kind() != reflect.Struct {
		return newErrorAt(ErrType, ml.Ctx, "%s: %s has no fields", ml.Raw, typeName(recv))
	}

	if len(args) > 0 {
		if rv.Kind() != reflect.Ptr {
			return newErrorAt(ErrType, ml.Ctx, "cannot set field %s on a value receiver", ml.Member)
		}
		field := base.FieldByIndex(index)
		coerced, cerr := e.coerceToGo(args[0], field.Type())
		if cerr != nil {
			return cerr
		}
		field.Set(coerced)
		return recv
	}
	return fromHost(base.FieldByIndex(index).Interface())
}

func (ml *MemberLiteral) invokeMethod(e *Evaluator, rec *dispatchRecord, recv Object, goType reflect.Type, args []Object, srcs []Object, srcOffset int) Object {
	var recvValue reflect.Value
	if rec.onMetaclass {
		recvValue = reflect.ValueOf(goType)
	} else {
		recvValue = reflect.ValueOf(toHost(recv))
	}

	result, byRefs := e.callHostMethod(recvValue, rec.method, args, ml.Ctx)
	if isError(result) {
		return result
	}

	// By-reference outputs write back into the caller's binding when the
	// source expression was a symbol.
	for _, slot := range byRefs {
		srcIdx := slot.argIndex + srcOffset
		if srcs == nil || srcIdx >= len(srcs) {
			continue
		}
		sym, ok := srcs[srcIdx].(*Symbol)
		if !ok {
			continue
		}
		val := fromHost(slot.temp.Elem().Interface())
		if !e.Frame.Update(sym, val) {
			e.Frame.SetLocal(sym, val)
		}
	}
	return result
}
