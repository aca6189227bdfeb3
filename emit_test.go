package sigslot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nfrund/sigslot"
)

type sensorReading struct {
	Sensor string
	Value  int
}

var (
	sigReading = sigslot.NewSignal[sensorReading]("sensor.reading", "A sensor produced a reading")
	sigAlert   = sigslot.NewSignal[sensorReading]("sensor.alert", "A reading crossed its threshold")

	slotRecordReading = sigslot.NewSlot[sensorReading]("record_reading")
)

// tap binds the recording slot and appends each delivery to a shared journal.
func tap(journal *[]string, name string) *sigslot.Node {
	n := &sigslot.Node{}
	sigslot.Bind(n, slotRecordReading, func(sensorReading) {
		*journal = append(*journal, name)
	})
	return n
}

func TestEmit(t *testing.T) {
	t.Run("Fan-out invokes each receiver once in connection order", func(t *testing.T) {
		var journal []string
		em := &sigslot.Node{}

		sigslot.Connect(em, sigReading, tap(&journal, "first"), slotRecordReading)
		sigslot.Connect(em, sigReading, tap(&journal, "second"), slotRecordReading)
		sigslot.Connect(em, sigReading, tap(&journal, "third"), slotRecordReading)

		sigslot.Emit(em, sigReading, sensorReading{Sensor: "boiler", Value: 40})

		assert.Equal(t, []string{"first", "second", "third"}, journal,
			"Slots should run exactly once each, in connection order")
	})

	t.Run("Emitting an unconnected signal is a no-op", func(t *testing.T) {
		em := &sigslot.Node{}
		assert.NotPanics(t, func() {
			sigslot.Emit(em, sigReading, sensorReading{Sensor: "boiler", Value: 40})
		}, "Emit with no connections should return silently")
	})

	t.Run("Signals are dispatched independently", func(t *testing.T) {
		var journal []string
		em := &sigslot.Node{}
		rc := tap(&journal, "reading")

		sigslot.Connect(em, sigReading, rc, slotRecordReading)

		sigslot.Emit(em, sigAlert, sensorReading{Sensor: "boiler", Value: 99})
		assert.Empty(t, journal, "A different signal of the same emitter should not deliver")

		sigslot.Emit(em, sigReading, sensorReading{Sensor: "boiler", Value: 40})
		assert.Equal(t, []string{"reading"}, journal, "The connected signal should deliver")
	})

	t.Run("Payload values arrive unchanged", func(t *testing.T) {
		em := &sigslot.Node{}
		rc := &sigslot.Node{}

		var got []sensorReading
		sigslot.Bind(rc, slotRecordReading, func(r sensorReading) { got = append(got, r) })
		sigslot.Connect(em, sigReading, rc, slotRecordReading)
		sigslot.Connect(em, sigReading, rc, slotRecordReading)

		sent := sensorReading{Sensor: "intake", Value: 42}
		sigslot.Emit(em, sigReading, sent)

		assert.Equal(t, []sensorReading{sent, sent}, got,
			"Every bound slot should receive the literal payload values")
	})
}

func TestEmitReentrancy(t *testing.T) {
	t.Run("Disconnecting a later receiver mid-emit skips it", func(t *testing.T) {
		var journal []string
		em := &sigslot.Node{}

		saboteur := &sigslot.Node{}
		victim := tap(&journal, "victim")
		sigslot.Bind(saboteur, slotRecordReading, func(sensorReading) {
			journal = append(journal, "saboteur")
			sigslot.Disconnect(em, sigReading, victim, slotRecordReading)
		})

		sigslot.Connect(em, sigReading, saboteur, slotRecordReading)
		sigslot.Connect(em, sigReading, victim, slotRecordReading)

		sigslot.Emit(em, sigReading, sensorReading{Sensor: "boiler", Value: 40})

		assert.Equal(t, []string{"saboteur"}, journal,
			"A connection released during the emission should not fire")
	})

	t.Run("Connections added mid-emit first fire on the next emit", func(t *testing.T) {
		var journal []string
		em := &sigslot.Node{}

		late := tap(&journal, "late")
		joiner := &sigslot.Node{}
		sigslot.Bind(joiner, slotRecordReading, func(sensorReading) {
			journal = append(journal, "joiner")
			if !em.IsConnectedTo(late) {
				sigslot.Connect(em, sigReading, late, slotRecordReading)
			}
		})

		sigslot.Connect(em, sigReading, joiner, slotRecordReading)

		sigslot.Emit(em, sigReading, sensorReading{Sensor: "boiler", Value: 40})
		assert.Equal(t, []string{"joiner"}, journal,
			"A connection added during the emission should not fire in the same round")

		sigslot.Emit(em, sigReading, sensorReading{Sensor: "boiler", Value: 41})
		assert.Equal(t, []string{"joiner", "joiner", "late"}, journal,
			"The added connection should fire on the next emit")
	})

	t.Run("Destroying a later receiver mid-emit skips it", func(t *testing.T) {
		var journal []string
		em := &sigslot.Node{}

		victim := tap(&journal, "victim")
		destroyer := &sigslot.Node{}
		sigslot.Bind(destroyer, slotRecordReading, func(sensorReading) {
			journal = append(journal, "destroyer")
			victim.Destroy()
		})

		sigslot.Connect(em, sigReading, destroyer, slotRecordReading)
		sigslot.Connect(em, sigReading, victim, slotRecordReading)

		sigslot.Emit(em, sigReading, sensorReading{Sensor: "boiler", Value: 40})

		assert.Equal(t, []string{"destroyer"}, journal,
			"A receiver destroyed during the emission should not fire")
		assert.False(t, em.IsConnectedTo(victim), "The destroyed receiver should be gone from the registry")
	})

	t.Run("A handler may emit another signal inline", func(t *testing.T) {
		var journal []string
		em := &sigslot.Node{}

		alerted := tap(&journal, "alerted")
		monitor := &sigslot.Node{}
		sigslot.Bind(monitor, slotRecordReading, func(r sensorReading) {
			journal = append(journal, "monitor")
			if r.Value > 90 {
				sigslot.Emit(em, sigAlert, r)
			}
		})

		sigslot.Connect(em, sigReading, monitor, slotRecordReading)
		sigslot.Connect(em, sigAlert, alerted, slotRecordReading)

		sigslot.Emit(em, sigReading, sensorReading{Sensor: "boiler", Value: 99})

		assert.Equal(t, []string{"monitor", "alerted"}, journal,
			"The nested emission should complete before the outer emit returns")
	})

	t.Run("A receiver destroying itself mid-handler completes the emission", func(t *testing.T) {
		var journal []string
		em := &sigslot.Node{}

		ephemeral := &sigslot.Node{}
		sigslot.Bind(ephemeral, slotRecordReading, func(sensorReading) {
			journal = append(journal, "ephemeral")
			ephemeral.Destroy()
		})
		after := tap(&journal, "after")

		sigslot.Connect(em, sigReading, ephemeral, slotRecordReading)
		sigslot.Connect(em, sigReading, after, slotRecordReading)

		sigslot.Emit(em, sigReading, sensorReading{Sensor: "boiler", Value: 40})
		sigslot.Emit(em, sigReading, sensorReading{Sensor: "boiler", Value: 41})

		assert.Equal(t, []string{"ephemeral", "after", "after"}, journal,
			"Self-destruction should fire once and later receivers should be unaffected")
	})
}
