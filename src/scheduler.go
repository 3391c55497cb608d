package aloha

import "container/heap"

// Dispatcher is implemented by whatever owns a NodeID's state machine.
// Scheduler.Run calls Dispatch synchronously for every popped event; the
// handler is free to schedule or cancel further events, including on
// itself, before returning.
type Dispatcher interface {
	Dispatch(now float64, ev *Event)
}

// eventHeap is a min-heap ordered by (Time, seq), grounded on the same
// shape used by doublezero's liveness scheduler: a slice-backed
// container/heap.Interface plus a monotonic sequence counter for stable
// tie-breaking. No example repo ships a ready-made event-time priority
// queue library, so this is the one place the standard library's
// container/heap is used directly rather than a third-party dependency.
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) { *h = append(*h, x.(*Event)) }

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return ev
}

// Scheduler is the single-threaded event queue and virtual clock described
// in section 4.1. It is not safe for concurrent use; a simulation run owns
// exactly one Scheduler.
type Scheduler struct {
	pq   eventHeap
	seq  uint64
	clock float64
}

// NewScheduler returns an empty scheduler with its clock at time zero.
func NewScheduler() *Scheduler {
	s := &Scheduler{}
	heap.Init(&s.pq)
	return s
}

// Now returns the scheduler's current simulated time.
func (s *Scheduler) Now() float64 {
	return s.clock
}

// Schedule inserts ev into the queue and returns a Handle that can later be
// passed to Cancel. Ties on Time are broken by insertion order.
func (s *Scheduler) Schedule(ev *Event) Handle {
	s.seq++
	ev.seq = s.seq
	heap.Push(&s.pq, ev)
	return Handle{ev: ev}
}

// Cancel marks h's event as cancelled. A cancelled event is skipped, not
// removed, when it reaches the front of the queue — this is the
// tombstone-on-pop strategy design note 9 calls out, and it keeps Cancel
// O(log n) without a secondary index. Cancelling an already-fired or
// already-cancelled handle, or the zero Handle, is a programming error.
func (s *Scheduler) Cancel(h Handle) {
	if h.ev == nil {
		panic("aloha: cancel of zero Handle")
	}
	if h.ev.cancelled {
		panic("aloha: cancel of already-cancelled event")
	}
	h.ev.cancelled = true
}

// Len reports how many events (including tombstoned ones not yet popped)
// remain in the queue.
func (s *Scheduler) Len() int {
	return s.pq.Len()
}

// Run pops events in (Time, seq) order, advances the clock to each fired
// event's time, and dispatches it, until the queue empties or the clock
// reaches horizon. Dispatch is synchronous and re-entrant: d.Dispatch may
// call Schedule/Cancel before returning.
func (s *Scheduler) Run(horizon float64, d Dispatcher) {
	for s.pq.Len() > 0 {
		ev := s.pq[0]
		if ev.cancelled {
			heap.Pop(&s.pq)
			continue
		}
		if ev.Time >= horizon {
			s.clock = horizon
			return
		}
		heap.Pop(&s.pq)
		s.clock = ev.Time
		d.Dispatch(s.clock, ev)
	}
}
