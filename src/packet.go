package aloha

import "fmt"

// PacketState is the mutable reception state of a Packet, per section 3.
// RECEIVED, CORRUPTED, and CORRUPTED_BY_CHANNEL are sticky terminal states.
type PacketState int

const (
	Pending PacketState = iota
	Receiving
	Received
	Corrupted
	CorruptedByChannel
)

func (s PacketState) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Receiving:
		return "RECEIVING"
	case Received:
		return "RECEIVED"
	case Corrupted:
		return "CORRUPTED"
	case CorruptedByChannel:
		return "CORRUPTED_BY_CHANNEL"
	default:
		return "UNKNOWN"
	}
}

func (s PacketState) terminal() bool {
	return s == Received || s == Corrupted || s == CorruptedByChannel
}

// PacketID uniquely identifies a Packet within the Simulation that issued
// it.
type PacketID uint64

// packetIDAllocator hands out increasing PacketIDs for a single
// Simulation's run. It is owned by that Simulation (not a package-level
// variable) so that two Simulations constructed side by side — e.g. a
// multi-seed sweep run concurrently — allocate from independent id
// streams instead of interleaving through shared mutable state (section 5,
// section 9 design notes).
type packetIDAllocator struct {
	next PacketID
}

func (a *packetIDAllocator) allocate() PacketID {
	a.next++
	return a.next
}

// Packet is the unit of transmission. Duration is derived once at creation
// from SizeBytes and the owning node's datarate and never changes; State
// is the only field later handlers mutate.
type Packet struct {
	ID                          PacketID
	SizeBytes                   int
	Duration                    float64
	State                       PacketState
	CorrectReceptionProbability float64
}

// NewPacket creates a PENDING packet of the given id and size for a node
// transmitting at datarate bits/sec. CorrectReceptionProbability defaults
// to 1 (disk model); Channel.StartTransmission overwrites it per-receiver
// under the realistic model.
func NewPacket(id PacketID, sizeBytes int, datarate float64) *Packet {
	if sizeBytes <= 0 {
		panic("aloha: packet size must be positive")
	}
	return &Packet{
		ID:                          id,
		SizeBytes:                   sizeBytes,
		Duration:                    float64(sizeBytes) * 8 / datarate,
		State:                       Pending,
		CorrectReceptionProbability: 1,
	}
}

// clone returns an independent copy of p, so that each neighbor's
// reception outcome can diverge without one receiver's mutation leaking
// into another's (or into the transmitter's own record of what it sent).
func (p *Packet) clone() *Packet {
	cp := *p
	return &cp
}

// setState moves p to s. Terminal states are sticky: re-asserting the same
// terminal state is a harmless no-op (a packet already marked CORRUPTED by
// one collision can be hit by further overlapping arrivals before its
// END_RX fires), but attempting to move a terminal packet to a *different*
// state is the invariant violation section 3 forbids.
func (p *Packet) setState(s PacketState) {
	if p.State.terminal() {
		if p.State == s {
			return
		}
		panic(invariantViolation{
			reason: fmt.Sprintf("packet %d already terminal at %s, cannot move to %s", p.ID, p.State, s),
		})
	}
	p.State = s
}
