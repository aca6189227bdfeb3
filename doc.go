// Package sigslot implements a synchronous, in-process signal/slot system:
// objects declare named signals, other objects bind callback slots to them,
// and firing a signal invokes every bound slot before returning.
//
// The building block is the Node, which is designed to be embedded in any
// struct that wants to take part in the graph. Every Node is both
// emitter-capable and receiver-capable; there is no separate listener kind.
//
// Signals and slots are declared once at package level and carry their
// payload type, so mismatched connections are rejected by the compiler:
//
//	type Message struct {
//		Author string `json:"author"`
//		Body   string `json:"body"`
//	}
//
//	var (
//		SignalMessagePosted = sigslot.NewSignal[Message]("room.message.posted", "A member posted a message")
//		SlotOnMessage       = sigslot.NewSlot[Message]("member.on.message")
//	)
//
// A receiver binds its handler to the slot once, usually in its constructor,
// and is then free to connect to any number of emitters:
//
//	type Member struct {
//		sigslot.Node
//	}
//
//	func NewMember() *Member {
//		m := &Member{}
//		sigslot.Bind(&m.Node, SlotOnMessage, m.onMessage)
//		return m
//	}
//
//	sigslot.Connect(&room.Node, SignalMessagePosted, &member.Node, SlotOnMessage)
//
// The emitter fires the signal on itself; delivery is synchronous and in
// connection order:
//
//	sigslot.Emit(&room.Node, SignalMessagePosted, Message{Author: "ada", Body: "hi"})
//
// Emit is a capability of the embedding type: by convention only the object
// that declares a signal fires it, the way a method would only be called on
// its own receiver.
//
// Connections are removed either through the Connection handle returned by
// Connect, or through the Disconnect family, which tears down progressively
// wider slices of the graph (one binding, one receiver, one signal, one
// emitter). Destroy removes a node from the graph entirely, in both
// directions: everything it emits and everything it receives. No binding
// survives the destruction of either of its endpoints.
//
// A signal graph is not safe for concurrent use. All connect, disconnect,
// emit and destroy calls for a connected component must happen on a single
// goroutine; callers that need delivery across goroutine boundaries can use
// the bridge package, whose Run pump keeps emission confined to its owner.
//
// Every NewSignal declaration is also registered with the catalog package,
// which gives tooling a process-wide view of the signal namespace.
package sigslot
