package aloha

import (
	"math/rand"

	"github.com/golang/geo/r2"
)

// Simulation is the per-run context design note 9 requires: scheduler,
// channel, node set, logger, and RNG all live here and nowhere else, so
// a caller can freely construct many independent Simulations (e.g. for a
// multi-seed sweep, out of scope here) without any shared mutable state.
type Simulation struct {
	scheduler *Scheduler
	channel   *Channel
	logger    *EventLogger
	rng       *rand.Rand
	packetIDs packetIDAllocator

	nodes map[NodeID]*Node
	order []NodeID // registration order, for deterministic iteration
}

// NewSimulation builds an empty simulation: a fresh scheduler, a channel
// with the given neighbor range, an RNG seeded deterministically from
// seed, and a packet-id allocator owned by this run alone. Nodes are added
// with AddNode.
func NewSimulation(seed int64, rangeMeters float64, realisticPropagation bool, logger *EventLogger) *Simulation {
	scheduler := NewScheduler()
	return &Simulation{
		scheduler: scheduler,
		channel:   NewChannel(rangeMeters, realisticPropagation, scheduler),
		logger:    logger,
		rng:       rand.New(rand.NewSource(seed)),
		nodes:     make(map[NodeID]*Node),
	}
}

// AddNode registers a node at position pos and returns it. Registration
// order determines the channel's neighbor-iteration order (section 5's
// determinism contract).
func (s *Simulation) AddNode(cfg NodeConfig, pos PlanarPosition) *Node {
	if _, exists := s.nodes[cfg.ID]; exists {
		panic(invariantViolation{reason: "node " + string(cfg.ID) + " added twice"})
	}
	n := NewNode(cfg, s.scheduler, s.channel, s.logger, s.rng, &s.packetIDs)
	s.nodes[cfg.ID] = n
	s.order = append(s.order, cfg.ID)
	s.channel.RegisterNode(cfg.ID, pos.point())
	return n
}

// Node returns the node registered under id, or nil.
func (s *Simulation) Node(id NodeID) *Node {
	return s.nodes[id]
}

// Channel exposes the simulation's channel, mainly for tests that want to
// inspect neighbor sets directly.
func (s *Simulation) Channel() *Channel {
	return s.channel
}

// Now returns the simulation's current virtual clock.
func (s *Simulation) Now() float64 {
	return s.scheduler.Now()
}

// Dispatch implements Dispatcher by routing to the event's destination
// node. An event addressed to an unregistered node is an invariant
// violation, not a silently dropped event.
func (s *Simulation) Dispatch(now float64, ev *Event) {
	n, ok := s.nodes[ev.Destination]
	if !ok {
		panic(invariantViolation{reason: "event " + ev.Kind.String() + " addressed to unregistered node " + string(ev.Destination)})
	}
	n.Dispatch(now, ev)
}

// Run seeds every registered node's first PACKET_ARRIVAL at time zero,
// then runs the scheduler to horizon. It recovers exactly one
// InvariantViolation (section 7's "abort the simulation with a
// diagnostic"), returning it as an error instead of crashing the whole
// process, so the caller (cmd/aloha-sim, or a test) can decide what to do.
func (s *Simulation) Run(horizon float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			iv, ok := r.(invariantViolation)
			if !ok {
				panic(r)
			}
			err = &InvariantViolation{Node: iv.node, State: iv.state, Event: iv.event, Reason: iv.reason}
		}
	}()

	for _, id := range s.order {
		s.scheduler.Schedule(&Event{Time: 0, Kind: PacketArrival, Destination: id})
	}
	s.scheduler.Run(horizon, s)
	return nil
}

// PlanarPosition is a node's position as given in a topology: either
// already planar meters, or geodetic and convertible via GeodeticToPlanar.
// Keeping this as a small value type (rather than exposing r2.Point
// everywhere) is what lets Config stay a plain, YAML-friendly struct.
type PlanarPosition struct {
	X, Y float64
}

func (p PlanarPosition) point() r2.Point {
	return PlanarPoint(p.X, p.Y)
}
