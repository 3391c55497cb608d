package aloha

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// speedOfLight is c in m/s, used to convert node separation into
// propagation delay (section 4.2).
const speedOfLight = 299792458.0

// Channel registers nodes, maintains a symmetric neighbor relation keyed
// by Euclidean range, and delivers START_RX copies of a transmitted
// packet to every neighbor with the appropriate propagation delay and
// (optionally) a distance-dependent reception probability.
type Channel struct {
	rangeMeters          float64
	realisticPropagation bool

	order     []NodeID // registration order, kept for deterministic neighbor iteration
	positions map[NodeID]r2.Point
	neighbors map[NodeID][]NodeID

	scheduler *Scheduler
}

// NewChannel returns a Channel with the given neighbor cutoff radius. If
// realistic is true, reception succeeds probabilistically per
// section 3/9 instead of deterministically for every in-range neighbor.
func NewChannel(rangeMeters float64, realistic bool, scheduler *Scheduler) *Channel {
	return &Channel{
		rangeMeters:          rangeMeters,
		realisticPropagation: realistic,
		positions:            make(map[NodeID]r2.Point),
		neighbors:            make(map[NodeID][]NodeID),
		scheduler:            scheduler,
	}
}

// RegisterNode adds n at position pos and updates neighbor sets: every
// already-registered node within rangeMeters becomes a mutual neighbor of
// n. Neighbor iteration order is the order nodes were registered in,
// which is what makes replay deterministic per section 5.
func (c *Channel) RegisterNode(n NodeID, pos r2.Point) {
	if _, exists := c.positions[n]; exists {
		panic(invariantViolation{reason: fmt.Sprintf("node %s registered twice with the channel", n)})
	}
	c.positions[n] = pos
	for _, m := range c.order {
		if distance(pos, c.positions[m]) < c.rangeMeters {
			c.neighbors[n] = append(c.neighbors[n], m)
			c.neighbors[m] = append(c.neighbors[m], n)
		}
	}
	c.order = append(c.order, n)
}

// Neighbors returns n's neighbor set in registration order. The returned
// slice must not be mutated by the caller.
func (c *Channel) Neighbors(n NodeID) []NodeID {
	return c.neighbors[n]
}

// StartTransmission schedules a START_RX event, carrying an independent
// copy of pkt, for every neighbor of source. Each copy's propagation delay
// is distance/c; under the realistic model each copy's
// CorrectReceptionProbability is additionally overwritten per the
// 1 - (distance/range)^(1/3) formula section 3/9 defines (preserved as-is,
// not "corrected" to a standard path-loss model).
func (c *Channel) StartTransmission(now float64, source NodeID, pkt *Packet) {
	for _, r := range c.Neighbors(source) {
		d := distance(c.positions[source], c.positions[r])
		delay := d / speedOfLight

		cp := pkt.clone()
		if c.realisticPropagation {
			cp.CorrectReceptionProbability = 1 - math.Cbrt(d/c.rangeMeters)
		}

		c.scheduler.Schedule(&Event{
			Time:        now + delay,
			Kind:        StartRX,
			Destination: r,
			Source:      source,
			Packet:      cp,
		})
	}
}
