package evaluator

import (
	"fmt"
	"reflect"
)

// HostObject wraps a Go value for use in braid. Member dispatch reaches
// its fields and methods via reflection.
type HostObject struct {
	Value interface{}
}

func (h *HostObject) Type() ObjectType { return HOST_OBJ }

func (h *HostObject) Inspect() string {
	return fmt.Sprintf("<host %T %+v>", h.Value, h.Value)
}

func (h *HostObject) Hash() uint32 {
	// Best effort hash
	if h.Value == nil {
		return 0
	}
	val := reflect.ValueOf(h.Value)
	switch val.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Chan, reflect.Func, reflect.Map, reflect.Slice:
		return uint32(val.Pointer())
	default:
		return hashString(fmt.Sprintf("%v", h.Value))
	}
}
