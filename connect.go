package sigslot

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Bind registers fn as the handler for slot on n. A slot must be bound
// before any connection targets it. Binding the same slot again replaces the
// handler; connections already routed to the slot dispatch to the new
// handler from then on.
func Bind[T any](n *Node, slot Slot[T], fn func(T)) {
	if fn == nil {
		panic(fmt.Sprintf("nil handler for slot %s", slot.key.name))
	}
	n.init()
	n.slots[slot.key] = func(v any) { fn(v.(T)) }
	slog.Debug("Bound slot", "slot", slot.key.name, "node", n.id)
}

// Connect routes emissions of the emitter's signal to the receiver's slot.
// The shared payload type T is what makes the pair compatible; mismatched
// pairs do not compile. Connecting the same triple again creates a second,
// independent connection that fires separately; Connect never deduplicates.
// A node may connect a signal to one of its own slots.
//
// The returned Connection releases exactly this one edge. Connect panics if
// the receiver has not bound the slot, since the connection could never
// deliver anything.
func Connect[T any](emitter *Node, sig Signal[T], receiver *Node, slot Slot[T]) *Connection {
	if _, ok := receiver.slots[slot.key]; !ok {
		panic(fmt.Sprintf("slot %s is not bound on the receiver; call Bind before Connect", slot.key.name))
	}

	b := &binding{
		id:       uuid.NewString(),
		signal:   sig.key,
		receiver: receiver,
		slot:     slot.key,
	}
	emitter.insertBinding(b)
	receiver.addInbound(emitter)

	slog.Debug("Connected signal",
		"signal", sig.key.name,
		"emitter", emitter.id,
		"receiver", receiver.id,
		"slot", slot.key.name,
		"connection", b.id)

	return &Connection{emitter: emitter, b: b}
}

// Connection is the release capability for a single signal-to-slot edge. It
// removes only the edge it was returned for, never a duplicate of it.
type Connection struct {
	emitter *Node
	b       *binding
}

// ID returns the connection's unique identifier.
func (c *Connection) ID() string { return c.b.id }

// Emitter returns the node whose signal the connection routes.
func (c *Connection) Emitter() *Node { return c.emitter }

// Receiver returns the node whose slot the connection targets.
func (c *Connection) Receiver() *Node { return c.b.receiver }

// Released reports whether the connection has been torn down, by Release or
// by any of the disconnect operations.
func (c *Connection) Released() bool { return c.b.released }

// Release removes the connection and, if it was the last one between the
// pair, the receiver's back-reference to the emitter. Releasing twice is a
// no-op.
func (c *Connection) Release() {
	if c.b.released {
		return
	}
	c.emitter.removeBinding(c.b)
	settleInbound(c.emitter, c.b.receiver)
	slog.Debug("Released connection", "connection", c.b.id, "signal", c.b.signal.name)
}

// Disconnect removes one connection matching (signal, receiver, slot), the
// oldest if duplicates exist. A no-op when no such connection exists.
func Disconnect[T any](emitter *Node, sig Signal[T], receiver *Node, slot Slot[T]) {
	b := emitter.findBinding(sig.key, receiver, slot.key)
	if b == nil {
		return
	}
	emitter.removeBinding(b)
	settleInbound(emitter, receiver)

	slog.Debug("Disconnected slot",
		"signal", sig.key.name,
		"emitter", emitter.id,
		"receiver", receiver.id,
		"slot", slot.key.name)
}

// DisconnectReceiver removes every connection from the emitter's signal to
// the receiver, whichever slots they target. A no-op when none exist.
func DisconnectReceiver[T any](emitter *Node, sig Signal[T], receiver *Node) {
	if emitter.removeReceiverBindings(sig.key, receiver) == 0 {
		return
	}
	settleInbound(emitter, receiver)

	slog.Debug("Disconnected receiver",
		"signal", sig.key.name,
		"emitter", emitter.id,
		"receiver", receiver.id)
}

// DisconnectSignal removes the signal's entire registry entry, every
// receiver and slot included. Receivers still connected through another of
// the emitter's signals keep their back-reference. A no-op when the signal
// has no connections.
func DisconnectSignal[T any](emitter *Node, sig Signal[T]) {
	receivers := emitter.removeSignal(sig.key)
	if len(receivers) == 0 {
		return
	}
	for _, r := range receivers {
		settleInbound(emitter, r)
	}

	slog.Debug("Disconnected signal",
		"signal", sig.key.name,
		"emitter", emitter.id,
		"receivers", len(receivers))
}

// DisconnectAll removes every connection the emitter's signals hold. Every
// receiver touched drops its back-reference to the emitter; the registry is
// empty afterwards, so no re-check is needed. A no-op when the emitter has
// no connections.
func DisconnectAll(emitter *Node) {
	receivers := emitter.removeAllSignals()
	if len(receivers) == 0 {
		return
	}
	for _, r := range receivers {
		r.removeInbound(emitter)
	}

	slog.Debug("Disconnected all signals",
		"emitter", emitter.id,
		"receivers", len(receivers))
}

// settleInbound drops the receiver's back-reference to the emitter once no
// binding between the pair remains, keeping the cross-consistency invariant:
// a back-reference exists iff at least one live binding does.
func settleInbound(emitter, receiver *Node) {
	if !emitter.connectedTo(receiver) {
		receiver.removeInbound(emitter)
	}
}
