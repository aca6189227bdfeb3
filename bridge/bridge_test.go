package bridge_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/sigslot"
	"github.com/nfrund/sigslot/bridge"
)

type meterSample struct {
	Meter string `json:"meter"`
	Value int    `json:"value"`
}

var (
	sigMeterSample = sigslot.NewSignal[meterSample]("meter.sample", "A meter produced a sample")

	slotMirrorSample = sigslot.NewSlot[meterSample]("mirror_sample")
)

// startInlet wires a receiving node to the inlet, subscribes it to the topic
// and starts its run loop. Received samples arrive on the returned channel.
func startInlet(t *testing.T, ctx context.Context, bus *bridge.Bus, topic string) <-chan meterSample {
	t.Helper()

	inlet := bridge.NewInlet(bus)
	received := make(chan meterSample, 4)

	rc := &sigslot.Node{}
	sigslot.Bind(rc, slotMirrorSample, func(s meterSample) { received <- s })
	sigslot.Connect(inlet.Node(), sigMeterSample, rc, slotMirrorSample)

	err := bridge.Deliver(ctx, inlet, sigMeterSample, topic, bridge.DecodeJSON[meterSample])
	require.NoError(t, err, "Deliver should subscribe cleanly")

	go func() { _ = inlet.Run(ctx) }()

	return received
}

func awaitSample(t *testing.T, received <-chan meterSample) meterSample {
	t.Helper()

	select {
	case got := <-received:
		return got
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a bridged emission")
		return meterSample{}
	}
}

func TestBridgeRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := bridge.NewBus()
	defer bus.Close()

	received := startInlet(t, ctx, bus, "meter.samples")

	outlet := bridge.NewOutlet(bus)
	src := &sigslot.Node{}
	feed := bridge.Forward(outlet, src, sigMeterSample, "meter.samples", bridge.EncodeJSON[meterSample])
	assert.Equal(t, "meter.samples", feed.Topic(), "Feed should report its topic")

	sigslot.Emit(src, sigMeterSample, meterSample{Meter: "m1", Value: 7})

	got := awaitSample(t, received)
	assert.Equal(t, meterSample{Meter: "m1", Value: 7}, got, "The payload should cross the bridge unchanged")
}

func TestFeedStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := bridge.NewBus()
	defer bus.Close()

	received := startInlet(t, ctx, bus, "meter.samples")

	outlet := bridge.NewOutlet(bus)
	src := &sigslot.Node{}
	feed := bridge.Forward(outlet, src, sigMeterSample, "meter.samples", bridge.EncodeJSON[meterSample])

	feed.Stop()
	sigslot.Emit(src, sigMeterSample, meterSample{Meter: "m1", Value: 1})

	// A fresh feed acts as the positive control: only the sample emitted
	// after it may arrive.
	bridge.Forward(outlet, src, sigMeterSample, "meter.samples", bridge.EncodeJSON[meterSample])
	sigslot.Emit(src, sigMeterSample, meterSample{Meter: "m1", Value: 2})

	got := awaitSample(t, received)
	assert.Equal(t, 2, got.Value, "No sample emitted after Stop should have been forwarded")
}

func TestOutletClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := bridge.NewBus()
	defer bus.Close()

	received := startInlet(t, ctx, bus, "meter.samples")

	outlet := bridge.NewOutlet(bus)
	first := &sigslot.Node{}
	second := &sigslot.Node{}
	bridge.Forward(outlet, first, sigMeterSample, "meter.samples", bridge.EncodeJSON[meterSample])
	bridge.Forward(outlet, second, sigMeterSample, "meter.samples", bridge.EncodeJSON[meterSample])

	outlet.Close()
	sigslot.Emit(first, sigMeterSample, meterSample{Meter: "m1", Value: 1})
	sigslot.Emit(second, sigMeterSample, meterSample{Meter: "m2", Value: 1})

	assert.Empty(t, first.AllReceivers(), "Closing the outlet should disconnect its feeds")
	assert.Empty(t, second.AllReceivers(), "Closing the outlet should disconnect every source")

	replacement := bridge.NewOutlet(bus)
	bridge.Forward(replacement, first, sigMeterSample, "meter.samples", bridge.EncodeJSON[meterSample])
	sigslot.Emit(first, sigMeterSample, meterSample{Meter: "m1", Value: 9})

	got := awaitSample(t, received)
	assert.Equal(t, 9, got.Value, "Only the replacement outlet's sample should arrive")
}

func TestForwardEncodeFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := bridge.NewBus()
	defer bus.Close()

	received := startInlet(t, ctx, bus, "meter.samples")

	enc := func(s meterSample) ([]byte, error) {
		if s.Value < 0 {
			return nil, errors.New("negative sample")
		}
		return json.Marshal(s)
	}

	outlet := bridge.NewOutlet(bus)
	src := &sigslot.Node{}
	bridge.Forward(outlet, src, sigMeterSample, "meter.samples", enc)

	sigslot.Emit(src, sigMeterSample, meterSample{Meter: "m1", Value: -1})
	sigslot.Emit(src, sigMeterSample, meterSample{Meter: "m1", Value: 3})

	got := awaitSample(t, received)
	assert.Equal(t, 3, got.Value, "The unencodable sample should be dropped, not published")
	assert.True(t, src.IsConnectedTo(outlet.Node()), "An encode failure should not tear down the feed")
}

func TestTracedBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Disabled config yields a no-op tracer; the traced path must still
	// deliver.
	tracer, cleanup, err := bridge.SetupOTel(ctx, bridge.TracingConfig{Enabled: false})
	require.NoError(t, err)
	defer cleanup()

	bus := bridge.NewTracedBus(tracer)
	defer bus.Close()

	received := startInlet(t, ctx, bus, "meter.samples")

	outlet := bridge.NewOutlet(bus)
	src := &sigslot.Node{}
	bridge.Forward(outlet, src, sigMeterSample, "meter.samples", bridge.EncodeJSON[meterSample])

	sigslot.Emit(src, sigMeterSample, meterSample{Meter: "m1", Value: 5})

	got := awaitSample(t, received)
	assert.Equal(t, 5, got.Value, "Tracing must not interfere with delivery")
}

func TestSetupOTel(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled tracing", func(t *testing.T) {
		tracer, cleanup, err := bridge.SetupOTel(ctx, bridge.TracingConfig{Enabled: false})
		require.NoError(t, err)
		require.NotNil(t, tracer)
		require.NotNil(t, cleanup)

		_, span := tracer.Start(ctx, "test")
		span.End()

		cleanup()
	})

	t.Run("enabled tracing constructs without contacting the collector", func(t *testing.T) {
		config := bridge.TracingConfig{
			Enabled:     true,
			ServiceName: "test-service",
			ZipkinURL:   "http://invalid-url:9411/api/v2/spans",
		}
		tracer, cleanup, err := bridge.SetupOTel(ctx, config)
		require.NoError(t, err)
		require.NotNil(t, tracer)
		require.NotNil(t, cleanup)

		cleanup()
	})
}

func TestLoadTracingConfigFromEnv(t *testing.T) {
	t.Run("defaults when unset", func(t *testing.T) {
		config := bridge.LoadTracingConfigFromEnv()
		assert.False(t, config.Enabled, "Tracing should default to disabled")
		assert.Equal(t, "sigslot-bridge", config.ServiceName, "Service name should default")
	})

	t.Run("reads the environment", func(t *testing.T) {
		t.Setenv("SIGSLOT_TRACING_ENABLED", "true")
		t.Setenv("SIGSLOT_TRACING_SERVICE_NAME", "graph-under-test")
		t.Setenv("SIGSLOT_TRACING_ZIPKIN_URL", "http://zipkin:9411/api/v2/spans")

		config := bridge.LoadTracingConfigFromEnv()
		assert.True(t, config.Enabled, "Enabled flag should be read")
		assert.Equal(t, "graph-under-test", config.ServiceName, "Service name should be read")
		assert.Equal(t, "http://zipkin:9411/api/v2/spans", config.ZipkinURL, "Zipkin URL should be read")
	})
}
