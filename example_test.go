package sigslot_test

import (
	"fmt"

	"github.com/nfrund/sigslot"
)

type chatMessage struct {
	From string
	Text string
}

var (
	sigMessagePosted = sigslot.NewSignal[chatMessage]("room.message.posted", "A message was accepted into a room")

	slotShowMessage = sigslot.NewSlot[chatMessage]("show_message")
)

// room broadcasts accepted messages to its members.
type room struct {
	sigslot.Node
}

func (r *room) Post(from, text string) {
	sigslot.Emit(&r.Node, sigMessagePosted, chatMessage{From: from, Text: text})
}

// member prints every message its room broadcasts.
type member struct {
	sigslot.Node
	name string
}

func newMember(name string) *member {
	m := &member{name: name}
	sigslot.Bind(&m.Node, slotShowMessage, func(msg chatMessage) {
		fmt.Printf("[%s] %s: %s\n", m.name, msg.From, msg.Text)
	})
	return m
}

func Example() {
	lobby := &room{}
	ada := newMember("ada")
	ben := newMember("ben")

	sigslot.Connect(&lobby.Node, sigMessagePosted, &ada.Node, slotShowMessage)
	sigslot.Connect(&lobby.Node, sigMessagePosted, &ben.Node, slotShowMessage)

	lobby.Post("ada", "hello")

	// Leaving the room is just destroying the node; the lobby forgets ben.
	ben.Node.Destroy()
	lobby.Post("ada", "anyone here?")

	// Output:
	// [ada] ada: hello
	// [ben] ada: hello
	// [ada] ada: anyone here?
}
