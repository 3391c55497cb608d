package aloha

// Package-level event kinds. Each is dispatched to exactly one node; RX
// events additionally carry the transmitter as Source.
type EventKind int

const (
	PacketArrival EventKind = iota
	StartRX
	EndRX
	EndTX
	EndProc
	RXTimeout
	EndSensing
	WTTimeout
)

func (k EventKind) String() string {
	switch k {
	case PacketArrival:
		return "PACKET_ARRIVAL"
	case StartRX:
		return "START_RX"
	case EndRX:
		return "END_RX"
	case EndTX:
		return "END_TX"
	case EndProc:
		return "END_PROC"
	case RXTimeout:
		return "RX_TIMEOUT"
	case EndSensing:
		return "END_SENSING"
	case WTTimeout:
		return "WT_TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// Event is a timestamped record in the scheduler's queue. Once enqueued its
// Time is immutable; the only way to stop it firing is Scheduler.Cancel.
type Event struct {
	Time        float64
	Kind        EventKind
	Destination NodeID
	Source      NodeID // transmitter, for RX events; zero value otherwise
	Packet      *Packet

	seq       uint64 // insertion-order tiebreaker, assigned by Scheduler.Schedule
	cancelled bool
}

// Handle is an opaque reference to a previously scheduled Event, suitable
// for Scheduler.Cancel. The zero Handle refers to no event.
type Handle struct {
	ev *Event
}

// Valid reports whether h refers to a real scheduled event that has not
// been cancelled. Firing does not invalidate a Handle; holders reset their
// copy to the zero Handle when its event fires.
func (h Handle) Valid() bool {
	return h.ev != nil && !h.ev.cancelled
}
