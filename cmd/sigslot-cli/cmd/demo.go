package cmd

import (
	"fmt"

	"github.com/nfrund/sigslot"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Demo domain: one chat room broadcasting posted messages to its members.

type chatMessage struct {
	Sender string
	Body   string
}

var (
	messagePosted = sigslot.NewSignal[chatMessage]("chat.message.posted", "A message was posted to the room.")
	showMessage   = sigslot.NewSlot[chatMessage]("show_message")
)

type chatRoom struct {
	sigslot.Node
	name string
}

func newChatRoom(do.Injector) (*chatRoom, error) {
	return &chatRoom{name: "lobby"}, nil
}

func (r *chatRoom) post(sender, body string) {
	fmt.Printf("%s posts: %q\n", sender, body)
	sigslot.Emit(&r.Node, messagePosted, chatMessage{Sender: sender, Body: body})
}

type chatMember struct {
	sigslot.Node
	name string
}

// newMember returns a provider that builds a member and connects it to the
// room resolved from the injector.
func newMember(name string) func(do.Injector) (*chatMember, error) {
	return func(i do.Injector) (*chatMember, error) {
		member := &chatMember{name: name}
		room := do.MustInvoke[*chatRoom](i)

		sigslot.Bind(&member.Node, showMessage, func(m chatMessage) {
			fmt.Printf("  [%s] %s: %s\n", member.name, m.Sender, m.Body)
		})
		sigslot.Connect(&room.Node, messagePosted, &member.Node, showMessage)
		return member, nil
	}
}

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a small chat-room demonstration graph",
	Long: `Runs a demonstration signal/slot graph: a chat room emits posted messages to
its connected members, members step out by disconnecting, and one member
destroys itself from inside its own handler while a delivery is in flight.

The graph is assembled with dependency injection so each member's provider
resolves the room and connects to it during construction.`,
	Run: demoHandler,
}

func demoHandler(cmd *cobra.Command, args []string) {
	injector := do.New()
	do.Provide(injector, newChatRoom)
	do.ProvideNamed(injector, "member.ada", newMember("ada"))
	do.ProvideNamed(injector, "member.ben", newMember("ben"))
	do.ProvideNamed(injector, "member.cy", newMember("cy"))

	room := do.MustInvoke[*chatRoom](injector)
	do.MustInvokeNamed[*chatMember](injector, "member.ada")
	ben := do.MustInvokeNamed[*chatMember](injector, "member.ben")
	cy := do.MustInvokeNamed[*chatMember](injector, "member.cy")

	// One more member that leaves from inside its own handler.
	eve := &chatMember{name: "eve"}
	sigslot.Bind(&eve.Node, showMessage, func(m chatMessage) {
		fmt.Printf("  [%s] %s: %s (and leaves immediately)\n", eve.name, m.Sender, m.Body)
		eve.Destroy()
	})
	sigslot.Connect(&room.Node, messagePosted, &eve.Node, showMessage)

	fmt.Printf("Room %q opens with %d members\n\n", room.name, len(room.AllReceivers()))
	room.post("ada", "hello everyone")

	fmt.Printf("\n%s steps out (disconnect)\n", ben.name)
	sigslot.DisconnectReceiver(&room.Node, messagePosted, &ben.Node)
	room.post("cy", "bye ben")

	fmt.Printf("\n%s logs off for good (destroy)\n", cy.name)
	cy.Destroy()
	room.post("ada", "just us now")

	fmt.Printf("\nRoom still emitting: %v, members left: %d\n",
		room.IsSignalRegistered(messagePosted), len(room.AllReceivers()))

	room.Destroy()
	fmt.Printf("Room closed, members left: %d\n", len(room.AllReceivers()))
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
