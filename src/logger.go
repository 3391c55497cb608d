package aloha

import (
	"encoding/csv"
	"fmt"
	"io"
)

// TrafficEvent is one of the CSV log's event kinds, per section 6. The
// trailing underscore on the packet-outcome constants avoids colliding
// with the PacketState constants of the same name.
type TrafficEvent int

const (
	Generated TrafficEvent = iota
	QueueDropped
	Received_
	Corrupted_
	CorruptedByChannel_
	State
)

func (e TrafficEvent) String() string {
	switch e {
	case Generated:
		return "GENERATED"
	case QueueDropped:
		return "QUEUE_DROPPED"
	case Received_:
		return "RECEIVED"
	case Corrupted_:
		return "CORRUPTED"
	case CorruptedByChannel_:
		return "CORRUPTED_BY_CHANNEL"
	case State:
		return "STATE"
	default:
		return "UNKNOWN"
	}
}

// EventLogger appends one CSV record per significant simulation event to
// a line-oriented sink, per section 6's `time,src,dst,event,size` format.
// The header row is the file's first line, with nothing ahead of it —
// the downstream aggregation tool (out of scope) depends on that. Written
// to synchronously: the engine is single-threaded, so there's no
// buffering/flushing race to manage.
type EventLogger struct {
	w *csv.Writer
}

// NewEventLogger wraps w and writes the column header.
func NewEventLogger(w io.Writer) (*EventLogger, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "src", "dst", "event", "size"}); err != nil {
		return nil, err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return &EventLogger{w: cw}, nil
}

func (l *EventLogger) write(record []string) {
	if err := l.w.Write(record); err != nil {
		panic(invariantViolation{reason: fmt.Sprintf("writing event log record: %v", err)})
	}
	l.w.Flush()
}

// LogTraffic appends a GENERATED/QUEUE_DROPPED/RECEIVED/CORRUPTED/
// CORRUPTED_BY_CHANNEL record. Arrival records pass src == dst == node;
// reception records pass src = transmitter, dst = receiver.
func (l *EventLogger) LogTraffic(now float64, src, dst NodeID, event TrafficEvent, sizeBytes int) {
	l.write([]string{
		formatTime(now),
		string(src),
		string(dst),
		event.String(),
		fmt.Sprintf("%d", sizeBytes),
	})
}

// LogState appends a STATE record marking that node id changed state at
// time now. Per section 6 the fixed CSV schema carries no further detail
// (size is 0 for STATE records); the destination state is accepted but not
// recorded anywhere, keeping the compatibility-contract CSV minimal.
func (l *EventLogger) LogState(now float64, id NodeID, _ NodeState) {
	l.write([]string{
		formatTime(now),
		string(id),
		string(id),
		State.String(),
		"0",
	})
}

func formatTime(t float64) string {
	return fmt.Sprintf("%.9f", t)
}
