package evaluator

import (
	"strings"
	"sync"
)

type methodKey struct {
	typeName string // lower-cased braid type name
	symbolID uint32
}

// Runtime holds the process-wide tables of one interpreter: interners,
// the host type registry, the user method map and the help side-table.
// Tests build isolated runtimes; the REPL uses one per process.
type Runtime struct {
	Symbols  *SymbolTable
	Keywords *KeywordTable
	Types    *TypeRegistry

	methodsMu sync.RWMutex
	methods   map[methodKey]Invokable

	helpMu sync.RWMutex
	help   map[Object]string
}

func NewRuntime() *Runtime {
	rt := &Runtime{
		Symbols:  NewSymbolTable(),
		Keywords: NewKeywordTable(),
		Types:    NewTypeRegistry(),
		methods:  make(map[methodKey]Invokable),
		help:     make(map[Object]string),
	}
	registerStringMethods(rt)
	registerCollectionMethods(rt)
	registerUuidMethods(rt)
	return rt
}

// DefMethod registers a user "Braid method": a callable attached to a
// type name and selector, consulted after host reflection misses.
func (rt *Runtime) DefMethod(typeName string, sym *Symbol, fn Invokable) {
	rt.methodsMu.Lock()
	rt.methods[methodKey{strings.ToLower(typeName), sym.ID()}] = fn
	rt.methodsMu.Unlock()
}

// GetMethod looks a Braid method up by type name and selector.
func (rt *Runtime) GetMethod(typeName string, sym *Symbol) (Invokable, bool) {
	rt.methodsMu.RLock()
	fn, ok := rt.methods[methodKey{strings.ToLower(typeName), sym.ID()}]
	rt.methodsMu.RUnlock()
	return fn, ok
}

// methodNames lists the selectors registered for a type name.
func (rt *Runtime) methodNames(typeName string) []string {
	rt.methodsMu.RLock()
	defer rt.methodsMu.RUnlock()
	var names []string
	for key, fn := range rt.methods {
		if key.typeName != strings.ToLower(typeName) {
			continue
		}
		if b, ok := fn.(*Builtin); ok {
			names = append(names, b.Name)
		}
	}
	return names
}

// SetHelp attaches help text to a callable through the side-table.
func (rt *Runtime) SetHelp(obj Object, text string) {
	rt.helpMu.Lock()
	rt.help[obj] = text
	rt.helpMu.Unlock()
}

// Help retrieves attached help text.
func (rt *Runtime) Help(obj Object) (string, bool) {
	rt.helpMu.RLock()
	text, ok := rt.help[obj]
	rt.helpMu.RUnlock()
	return text, ok
}
