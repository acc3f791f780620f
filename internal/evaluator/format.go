package evaluator

import (
	"context"
	"strings"
)

// inspectLimit caps the rendered length of container values. Cyclic or
// huge graphs truncate deterministically with the ellipsis marker.
const inspectLimit = 1000

const truncationMarker = "..."

type renderer struct {
	ctx context.Context
	b   strings.Builder
	// stopped flips once the budget is spent or the context is
	// cancelled; further writes are dropped.
	stopped bool
}

func (r *renderer) write(s string) {
	if r.stopped {
		return
	}
	if r.ctx != nil && r.ctx.Err() != nil {
		r.stopped = true
		r.b.WriteString(truncationMarker)
		return
	}
	if r.b.Len()+len(s) > inspectLimit {
		r.stopped = true
		r.b.WriteString(truncationMarker)
		return
	}
	r.b.WriteString(s)
}

func (r *renderer) render(obj Object) {
	if r.stopped {
		return
	}
	switch v := obj.(type) {
	case *Vector:
		r.write("[")
		for i, el := range v.Elements {
			if i > 0 {
				r.write(" ")
			}
			r.render(el)
		}
		r.write("]")
	case *Dict:
		r.write("{")
		first := true
		v.Each(func(key, value Object) bool {
			if !first {
				r.write(" ")
			}
			first = false
			r.render(key)
			r.write(" ")
			r.render(value)
			return !r.stopped
		})
		r.write("}")
	case *HashSet:
		r.write("#{")
		first := true
		v.Each(func(it Object) bool {
			if !first {
				r.write(" ")
			}
			first = false
			r.render(it)
			return !r.stopped
		})
		r.write("}")
	default:
		r.write(obj.Inspect())
	}
}

// inspect renders a value, polling ctx at container iteration so a
// cancelled interpreter stops producing output cleanly.
func inspect(ctx context.Context, obj Object) string {
	r := &renderer{ctx: ctx}
	r.render(obj)
	return r.b.String()
}

// StringOf renders a value under the evaluator's cancellation context.
func (e *Evaluator) StringOf(obj Object) string {
	return inspect(e.Context, obj)
}
