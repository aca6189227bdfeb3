package sigslot

import (
	"reflect"
	"strings"

	"github.com/nfrund/sigslot/catalog"
)

// signalKey is the comparable identity of a declared signal: the declared
// name plus the payload type token captured at construction. Two keys built
// separately for the same declaration compare equal, so lookups never depend
// on which Signal value performed them.
type signalKey struct {
	name string
	typ  reflect.Type
}

// slotKey identifies a declared slot the same way.
type slotKey struct {
	name string
	typ  reflect.Type
}

// Signal names an event with payload type T. Values are declared once at
// package level with NewSignal and passed by value; they are comparable and
// carry no per-emitter state. The same Signal can be fired by any number of
// emitters; identity of a live connection is always (emitter, signal).
type Signal[T any] struct {
	key signalKey
}

// Slot names a receiver callback with payload type T. Like signals, slots are
// declared once at package level and bound to a concrete handler per receiver
// with Bind.
type Slot[T any] struct {
	key slotKey
}

// SignalRef is the non-generic view of a Signal, used by queries, the
// catalog and tooling that handle signals of mixed payload types.
type SignalRef interface {
	// Name returns the declared signal name.
	Name() string

	// PayloadType returns the payload type token captured at declaration.
	PayloadType() reflect.Type

	ref() signalKey
}

// NewSignal declares a signal with the given dotted name and registers it
// with the default catalog. The payload type is captured from T, so every
// later Connect and Emit for this signal is checked by the compiler.
//
// Declarations usually live in package-level vars and therefore run at init
// time; an invalid or duplicate name is a configuration error that should
// stop startup, so NewSignal panics instead of returning an error.
func NewSignal[T any](name string, description string) Signal[T] {
	typ := reflect.TypeOf((*T)(nil)).Elem()

	cfg := catalog.Config{
		Name:        name,
		Owner:       ownerFromName(name),
		Description: description,
		Payload:     typ.String(),
		Metadata: map[string]any{
			"payload_type": typ.String(),
			"typed":        true,
		},
	}
	catalog.Default().MustRegister(catalog.NewDeclaration(cfg))

	return Signal[T]{key: signalKey{name: name, typ: typ}}
}

// NewSlot declares a slot with the given name. Slot names are scoped to the
// receivers that bind them and are not registered with the catalog; the only
// requirement is that the name is non-empty.
func NewSlot[T any](name string) Slot[T] {
	if name == "" {
		panic("slot name cannot be empty")
	}
	return Slot[T]{key: slotKey{name: name, typ: reflect.TypeOf((*T)(nil)).Elem()}}
}

// ownerFromName derives the owning component from a dotted signal name,
// e.g. "room.message.posted" -> "room".
func ownerFromName(name string) string {
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return ""
}

// Name returns the declared signal name.
func (s Signal[T]) Name() string { return s.key.name }

// PayloadType returns the payload type token captured at declaration.
func (s Signal[T]) PayloadType() reflect.Type { return s.key.typ }

// String returns the signal name for easy debugging.
func (s Signal[T]) String() string { return s.key.name }

func (s Signal[T]) ref() signalKey { return s.key }

// Name returns the declared slot name.
func (s Slot[T]) Name() string { return s.key.name }

// String returns the slot name for easy debugging.
func (s Slot[T]) String() string { return s.key.name }

// Compile-time interface compliance check
var _ SignalRef = Signal[int]{}
