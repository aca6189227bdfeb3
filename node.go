package sigslot

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// binding is one live connection edge. It is owned by the emitter's registry
// and identifies "slot S of receiver R, connected to one of my signals".
// Duplicate connections produce independent bindings that only differ by ID.
type binding struct {
	id       string
	signal   signalKey
	receiver *Node
	slot     slotKey
	released bool
}

// matches reports whether the binding targets the given receiver and slot.
func (b *binding) matches(r *Node, slot slotKey) bool {
	return b.receiver == r && b.slot == slot
}

// Node is a participant in a signal graph. Embed it in any struct that emits
// or receives signals; the zero value is ready to use. Every Node is both
// emitter-capable and receiver-capable.
//
// As an emitter it owns the connection registry: an ordered slot-binding list
// per connected signal. As a receiver it owns the slot table of handlers
// registered with Bind, plus the back-reference index of emitters it is
// currently connected to, which drives teardown without a global scan.
//
// A Node must not be copied after first use, and a connected component of
// the graph must be confined to a single goroutine (see the package
// documentation).
type Node struct {
	id      string
	signals map[signalKey][]*binding
	slots   map[slotKey]func(any)
	inbound map[*Node]struct{}
}

// init allocates the node's maps and identity on first write. Read paths
// never call it, so querying or tearing down a never-connected node leaves
// the zero value untouched.
func (n *Node) init() {
	if n.id == "" {
		n.id = uuid.NewString()
	}
	if n.signals == nil {
		n.signals = make(map[signalKey][]*binding)
	}
	if n.slots == nil {
		n.slots = make(map[slotKey]func(any))
	}
	if n.inbound == nil {
		n.inbound = make(map[*Node]struct{})
	}
}

// ID returns the node's stable unique identifier, assigning one on first
// use. IDs order receiver listings and label log output; they carry no other
// meaning.
func (n *Node) ID() string {
	if n.id == "" {
		n.id = uuid.NewString()
	}
	return n.id
}

// insertBinding appends b to the registry entry for its signal, creating the
// entry on the first connection. Append order is emit order.
func (n *Node) insertBinding(b *binding) {
	n.init()
	n.signals[b.signal] = append(n.signals[b.signal], b)
}

// findBinding returns the first live binding for (signal, receiver, slot),
// or nil if no such connection exists.
func (n *Node) findBinding(sig signalKey, r *Node, slot slotKey) *binding {
	for _, b := range n.signals[sig] {
		if b.matches(r, slot) {
			return b
		}
	}
	return nil
}

// removeBinding removes exactly b from its signal's entry, erasing the entry
// once its list is empty. The binding is marked released so that an emit
// already in flight skips it.
func (n *Node) removeBinding(b *binding) {
	b.released = true
	list := n.signals[b.signal]
	i := slices.Index(list, b)
	if i < 0 {
		return
	}
	list = slices.Delete(list, i, i+1)
	if len(list) == 0 {
		delete(n.signals, b.signal)
	} else {
		n.signals[b.signal] = list
	}
}

// removeReceiverBindings removes every binding to r under one signal and
// reports how many were removed.
func (n *Node) removeReceiverBindings(sig signalKey, r *Node) int {
	list, ok := n.signals[sig]
	if !ok {
		return 0
	}
	kept := list[:0]
	removed := 0
	for _, b := range list {
		if b.receiver == r {
			b.released = true
			removed++
			continue
		}
		kept = append(kept, b)
	}
	if len(kept) == 0 {
		delete(n.signals, sig)
	} else {
		n.signals[sig] = kept
	}
	return removed
}

// removeSignal erases a signal's whole entry and returns the receivers that
// had at least one binding under it.
func (n *Node) removeSignal(sig signalKey) []*Node {
	list, ok := n.signals[sig]
	if !ok {
		return nil
	}
	touched := make(map[*Node]struct{})
	for _, b := range list {
		b.released = true
		touched[b.receiver] = struct{}{}
	}
	delete(n.signals, sig)
	receivers := make([]*Node, 0, len(touched))
	for r := range touched {
		receivers = append(receivers, r)
	}
	return receivers
}

// removeAllSignals clears the registry and returns every receiver touched.
func (n *Node) removeAllSignals() []*Node {
	if len(n.signals) == 0 {
		return nil
	}
	touched := make(map[*Node]struct{})
	for _, list := range n.signals {
		for _, b := range list {
			b.released = true
			touched[b.receiver] = struct{}{}
		}
	}
	n.signals = nil
	receivers := make([]*Node, 0, len(touched))
	for r := range touched {
		receivers = append(receivers, r)
	}
	return receivers
}

// dropReceiver removes every binding to r across all of n's signals, erasing
// entries that become empty. It is the narrow capability a dying receiver
// uses to ask its emitters to forget it; n mutates only its own registry.
func (n *Node) dropReceiver(r *Node) {
	for sig := range n.signals {
		n.removeReceiverBindings(sig, r)
	}
}

// connectedTo reports whether any signal of n still has a binding to r.
func (n *Node) connectedTo(r *Node) bool {
	for _, list := range n.signals {
		for _, b := range list {
			if b.receiver == r {
				return true
			}
		}
	}
	return false
}

// addInbound records e in the back-reference index; a no-op if already
// present, so the index stays a set regardless of how many bindings the pair
// shares.
func (n *Node) addInbound(e *Node) {
	n.init()
	n.inbound[e] = struct{}{}
}

// removeInbound drops e from the back-reference index.
func (n *Node) removeInbound(e *Node) {
	delete(n.inbound, e)
}

// IsSignalRegistered reports whether the signal currently has at least one
// binding in n's registry.
func (n *Node) IsSignalRegistered(sig SignalRef) bool {
	_, ok := n.signals[sig.ref()]
	return ok
}

// IsConnectedTo reports whether any signal of n has a binding to the given
// receiver.
func (n *Node) IsConnectedTo(receiver *Node) bool {
	return n.connectedTo(receiver)
}

// Receivers returns the distinct receivers bound to one signal of n, sorted
// by node ID. The order carries no meaning beyond being stable.
func (n *Node) Receivers(sig SignalRef) []*Node {
	var receivers []*Node
	for _, b := range n.signals[sig.ref()] {
		receivers = append(receivers, b.receiver)
	}
	return sortedUnique(receivers)
}

// AllReceivers returns the distinct receivers bound to any signal of n,
// sorted by node ID.
func (n *Node) AllReceivers() []*Node {
	var receivers []*Node
	for _, list := range n.signals {
		for _, b := range list {
			receivers = append(receivers, b.receiver)
		}
	}
	return sortedUnique(receivers)
}

// Emitters returns the distinct emitters n is currently connected to as a
// receiver, sorted by node ID.
func (n *Node) Emitters() []*Node {
	emitters := make([]*Node, 0, len(n.inbound))
	for e := range n.inbound {
		emitters = append(emitters, e)
	}
	return sortedUnique(emitters)
}

// Destroy removes the node from the graph in both directions: first every
// connection it emits, then every connection it receives, then its own
// bookkeeping. Afterwards the node is empty; reusing it starts a fresh life
// in the graph. Destroying a never-connected node is a no-op.
func (n *Node) Destroy() {
	DisconnectAll(n)

	for e := range n.inbound {
		e.dropReceiver(n)
	}
	n.signals = nil
	n.inbound = nil
	n.slots = nil

	slog.Debug("Destroyed node", "node", n.id)
}

// sortedUnique sorts nodes by ID and removes duplicates in place.
func sortedUnique(nodes []*Node) []*Node {
	slices.SortFunc(nodes, func(a, b *Node) int {
		return strings.Compare(a.ID(), b.ID())
	})
	return slices.CompactFunc(nodes, func(a, b *Node) bool {
		return a == b
	})
}
