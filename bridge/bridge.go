// Package bridge connects a signal graph to a message bus. It is the opt-in
// boundary layer: signals stay plain Go values inside the graph, and only
// cross the bridge as bytes, encoded by caller-supplied codecs.
//
// An Outlet forwards emissions of selected signals onto bus topics. An Inlet
// re-emits bus messages as signals from its own node; its Run loop is the
// single goroutine that owns that node's connected component, so graph
// confinement holds even though the bus itself is concurrent.
package bridge

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/nfrund/sigslot"
)

const (
	// Metadata keys carried on every bridged message.
	metaKeySignal = "signal"
	metaKeySource = "source_node"
)

// pendingBuffer is the number of decoded emissions an Inlet queues while its
// Run loop is busy.
const pendingBuffer = 64

// Bus wraps a watermill publisher/subscriber pair. The default transport is
// watermill's in-memory GoChannel.
type Bus struct {
	pub    message.Publisher
	sub    message.Subscriber
	logger watermill.LoggerAdapter
}

// NewBus initializes an in-memory bus.
func NewBus() *Bus {
	logger := watermill.NewStdLogger(false, false)
	// GoChannel is a simple in-memory pub/sub implementation.
	goChannel := gochannel.NewGoChannel(
		gochannel.Config{},
		logger,
	)

	return &Bus{
		pub:    goChannel,
		sub:    goChannel,
		logger: logger,
	}
}

// NewTracedBus initializes an in-memory bus whose publish side records
// OpenTelemetry spans. Pair it with SetupOTel.
func NewTracedBus(tracer trace.Tracer) *Bus {
	bus := NewBus()
	bus.pub = NewTracedPublisher(bus.pub, tracer)
	return bus
}

// Close shuts the bus down. Subscriptions end and their message channels
// close.
func (b *Bus) Close() error {
	return b.sub.Close()
}

// Outlet forwards signal emissions onto bus topics. It owns one receiver
// node that joins each forwarded source's connected component, so Forward
// must be called from the goroutine owning that component.
type Outlet struct {
	bus  *Bus
	node sigslot.Node
}

// NewOutlet creates an outlet publishing to the given bus.
func NewOutlet(bus *Bus) *Outlet {
	return &Outlet{bus: bus}
}

// Forward connects the source's signal to a fresh slot on the outlet's node
// and publishes every emission to the topic, encoded by enc. Emissions that
// fail to encode or publish are logged and dropped; the graph never sees a
// bus error.
func Forward[T any](o *Outlet, src *sigslot.Node, sig sigslot.Signal[T], topic string, enc func(T) ([]byte, error)) *Feed {
	// One slot per feed: a shared name would make later feeds replace
	// earlier handlers in the outlet's slot table.
	slot := sigslot.NewSlot[T]("bridge.forward." + uuid.NewString())

	sigslot.Bind(&o.node, slot, func(v T) {
		data, err := enc(v)
		if err != nil {
			slog.Error("Failed to encode emission", "signal", sig.Name(), "topic", topic, "error", err)
			return
		}

		msg := message.NewMessage(watermill.NewUUID(), data)
		msg.Metadata.Set(metaKeySignal, sig.Name())
		msg.Metadata.Set(metaKeySource, src.ID())

		if err := o.bus.pub.Publish(topic, msg); err != nil {
			slog.Error("Failed to publish emission", "signal", sig.Name(), "topic", topic, "error", err)
		}
	})

	conn := sigslot.Connect(src, sig, &o.node, slot)
	slog.Debug("Forwarding signal", "signal", sig.Name(), "topic", topic, "source", src.ID())

	return &Feed{conn: conn, topic: topic}
}

// Node returns the outlet's receiver node. Sources report it among their
// receivers while a feed is live.
func (o *Outlet) Node() *sigslot.Node {
	return &o.node
}

// Close disconnects every feed at once by destroying the outlet's node.
func (o *Outlet) Close() {
	o.node.Destroy()
}

// Feed is one forwarded signal-to-topic route.
type Feed struct {
	conn  *sigslot.Connection
	topic string
}

// Topic returns the bus topic the feed publishes to.
func (f *Feed) Topic() string { return f.topic }

// Stop disconnects the feed from its source signal. Stopping twice is a
// no-op.
func (f *Feed) Stop() {
	f.conn.Release()
}

// Inlet re-emits bus messages as signals from its own emitter node. Wire
// receivers to Node() before calling Run; Run's goroutine then owns the
// node's connected component.
type Inlet struct {
	bus     *Bus
	node    sigslot.Node
	pending chan func()
}

// NewInlet creates an inlet subscribed to the given bus.
func NewInlet(bus *Bus) *Inlet {
	return &Inlet{
		bus:     bus,
		pending: make(chan func(), pendingBuffer),
	}
}

// Node returns the inlet's emitter node, the connection point for receivers
// of delivered signals.
func (i *Inlet) Node() *sigslot.Node {
	return &i.node
}

// Deliver subscribes to the topic and re-emits each message as sig once the
// Run loop picks it up. Messages that fail to decode are logged, nacked and
// dropped.
func Deliver[T any](ctx context.Context, i *Inlet, sig sigslot.Signal[T], topic string, dec func([]byte) (T, error)) error {
	messages, err := i.bus.sub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			v, err := dec(msg.Payload)
			if err != nil {
				slog.Error("Failed to decode message", "topic", topic, "msg_id", msg.UUID, "error", err)
				msg.Nack()
				continue
			}

			select {
			case i.pending <- func() { sigslot.Emit(&i.node, sig, v) }:
				msg.Ack()
			case <-ctx.Done():
				msg.Nack()
				return
			}
		}
		slog.Debug("Delivery message loop ended", "topic", topic, "signal", sig.Name())
	}()

	slog.Debug("Delivering topic", "topic", topic, "signal", sig.Name())
	return nil
}

// Run executes delivered emissions one at a time until the context is
// canceled. It must be the only goroutine touching the inlet's connected
// component once it starts.
func (i *Inlet) Run(ctx context.Context) error {
	slog.Info("Inlet running", "node", i.node.ID())
	for {
		select {
		case fire := <-i.pending:
			fire()
		case <-ctx.Done():
			slog.Info("Inlet stopped", "node", i.node.ID())
			return ctx.Err()
		}
	}
}

// EncodeJSON is a ready-made encoder for feeds carrying JSON payloads.
func EncodeJSON[T any](v T) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeJSON is the matching decoder for Deliver.
func DecodeJSON[T any](data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}
