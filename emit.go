package sigslot

import (
	"log/slog"
	"slices"
)

// Emit synchronously delivers payload to every slot currently connected to
// the emitter's signal, in connection order, and returns once the last
// handler has. A signal with no connections emits to nobody.
//
// Emit is meant to be called by the embedding type on itself, from the
// goroutine that owns the node's connected component.
//
// The connection list is snapshotted on entry: a handler may connect,
// disconnect, or destroy nodes mid-emission. Connections released during the
// emission are skipped when their turn comes; connections added during it
// first fire on the next Emit.
func Emit[T any](n *Node, sig Signal[T], payload T) {
	list, ok := n.signals[sig.key]
	if !ok {
		return
	}

	slog.Debug("Emitting signal",
		"signal", sig.key.name,
		"emitter", n.id,
		"bindings", len(list))

	for _, b := range slices.Clone(list) {
		if b.released {
			continue
		}
		// Dispatch through the receiver's live slot table, so re-binding a
		// slot takes effect for connections that already existed. A live
		// binding always has its slot bound; teardown releases the binding
		// before the table is cleared.
		b.receiver.slots[b.slot](payload)
	}
}
