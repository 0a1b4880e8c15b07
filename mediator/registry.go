package mediator

import (
	"context"
	"reflect"
	"sync"
)

type invokeFunc func(ctx context.Context, msg any) (any, error)

// handlerKey identifies a handler within the set of one message type.
// id is non-zero only for function handlers, which share a single Go type.
type handlerKey struct {
	typ reflect.Type
	id  uint64
}

func (k handlerKey) String() string { return typeName(k.typ) }

type entry struct {
	key    handlerKey
	invoke invokeFunc
}

// registry maps message types to sets of handler entries. It is append-only.
type registry struct {
	mu      sync.RWMutex
	entries map[reflect.Type]map[handlerKey]entry
}

func newRegistry() *registry {
	return &registry{entries: make(map[reflect.Type]map[handlerKey]entry)}
}

// add inserts e into the set for msgType. It reports false when the handler was already
// registered, in which case the existing entry is kept.
func (r *registry) add(msgType reflect.Type, e entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.entries[msgType]
	if !ok {
		set = make(map[handlerKey]entry, 1)
		r.entries[msgType] = set
	}

	if _, exists := set[e.key]; exists {
		return false
	}

	set[e.key] = e

	return true
}

// lookup returns a snapshot of the handlers registered for msgType, in no particular order.
func (r *registry) lookup(msgType reflect.Type) []entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.entries[msgType]
	if len(set) == 0 {
		return nil
	}

	out := make([]entry, 0, len(set))
	for _, e := range set {
		out = append(out, e)
	}

	return out
}

// pick returns one handler registered for msgType. Which one is unspecified.
func (r *registry) pick(msgType reflect.Type) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries[msgType] {
		return e, true
	}

	return entry{}, false
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if name := t.Name(); name != "" {
		return name
	}

	return t.String()
}
