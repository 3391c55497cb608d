package aloha

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelRegisterNodeBuildsSymmetricNeighbors(t *testing.T) {
	s := NewScheduler()
	c := NewChannel(100, false, s)

	c.RegisterNode("a", PlanarPoint(0, 0))
	c.RegisterNode("b", PlanarPoint(50, 0))
	c.RegisterNode("c", PlanarPoint(500, 0))

	assert.ElementsMatch(t, []NodeID{"b"}, c.Neighbors("a"))
	assert.ElementsMatch(t, []NodeID{"a"}, c.Neighbors("b"))
	assert.Empty(t, c.Neighbors("c"))
}

func TestChannelRegisterNodePanicsOnDuplicateID(t *testing.T) {
	s := NewScheduler()
	c := NewChannel(100, false, s)
	c.RegisterNode("a", PlanarPoint(0, 0))
	assert.Panics(t, func() { c.RegisterNode("a", PlanarPoint(1, 1)) })
}

func TestChannelNeighborsOfUnregisteredNodeIsEmpty(t *testing.T) {
	s := NewScheduler()
	c := NewChannel(100, false, s)
	assert.Empty(t, c.Neighbors("ghost"))
}

func TestChannelStartTransmissionSchedulesStartRXForEveryNeighborWithPropagationDelay(t *testing.T) {
	s := NewScheduler()
	c := NewChannel(3e8, false, s) // range must exceed the separation for rx to be a neighbor
	c.RegisterNode("tx", PlanarPoint(0, 0))
	c.RegisterNode("rx", PlanarPoint(299792458, 0)) // exactly 1 light-second away

	pkt := NewPacket(1, 10, 1000)
	c.StartTransmission(0, "tx", pkt)

	var d recordingDispatcher
	s.Run(2, &d)

	assert.Len(t, d.fired, 1)
	ev := d.fired[0]
	assert.Equal(t, StartRX, ev.Kind)
	assert.Equal(t, NodeID("rx"), ev.Destination)
	assert.Equal(t, NodeID("tx"), ev.Source)
	assert.InDelta(t, 1.0, ev.Time, 1e-9)
	assert.Equal(t, 1.0, ev.Packet.CorrectReceptionProbability)
	assert.NotSame(t, pkt, ev.Packet)
}

func TestChannelStartTransmissionDoesNotScheduleForTheTransmitterItself(t *testing.T) {
	s := NewScheduler()
	c := NewChannel(1000, false, s)
	c.RegisterNode("solo", PlanarPoint(0, 0))

	c.StartTransmission(0, "solo", NewPacket(1, 1, 1000))

	var d recordingDispatcher
	s.Run(10, &d)
	assert.Empty(t, d.fired)
}

func TestChannelRealisticPropagationSetsReceptionProbabilityByDistance(t *testing.T) {
	s := NewScheduler()
	rangeMeters := 1000.0
	c := NewChannel(rangeMeters, true, s)
	c.RegisterNode("tx", PlanarPoint(0, 0))
	c.RegisterNode("rx", PlanarPoint(500, 0)) // half of range

	c.StartTransmission(0, "tx", NewPacket(1, 1, 1000))

	var d recordingDispatcher
	s.Run(1, &d)

	assert.Len(t, d.fired, 1)
	want := 1 - cubeRoot(0.5)
	assert.InDelta(t, want, d.fired[0].Packet.CorrectReceptionProbability, 1e-12)
}

func cubeRoot(x float64) float64 {
	if x < 0 {
		return -cubeRoot(-x)
	}
	// simple Newton's method, independent of math.Cbrt, to cross-check it.
	if x == 0 {
		return 0
	}
	g := x
	for i := 0; i < 100; i++ {
		g = g - (g*g*g-x)/(3*g*g)
	}
	return g
}
