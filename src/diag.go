package aloha

import (
	"fmt"
	"io"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

// runStartFormat mirrors the timestamp format the teacher's tq.go builds
// with lestrrat-go/strftime for its transmit-queue debug traces; here it
// timestamps the operational log's run-start banner instead.
const runStartFormat = "%Y-%m-%d %H:%M:%S"

// Diag is the engine's operational/diagnostic logger, kept deliberately
// separate from EventLogger's CSV compatibility contract: this is for
// humans watching a run, not for the offline aggregation tool. Section 7
// routes configuration errors and invariant-violation aborts through it.
type Diag struct {
	log *charmlog.Logger
}

// NewDiag returns a Diag writing leveled, timestamped lines to w.
func NewDiag(w io.Writer) *Diag {
	return &Diag{log: charmlog.NewWithOptions(w, charmlog.Options{
		Prefix:          "aloha-sim",
		ReportTimestamp: true,
	})}
}

// RunStarted logs the run-lifecycle banner: seed, horizon, and a
// human-formatted wall-clock start time.
func (d *Diag) RunStarted(seed int64, horizon float64, at time.Time) {
	fmtr, err := strftime.New(runStartFormat)
	stamp := at.Format(time.RFC3339)
	if err == nil {
		stamp = fmtr.FormatString(at)
	}
	d.log.Info("starting run", "seed", seed, "horizon_s", horizon, "started_at", stamp)
}

// RunFinished logs normal completion.
func (d *Diag) RunFinished(finalClock float64, reason string) {
	d.log.Info("run finished", "clock_s", finalClock, "reason", reason)
}

// ConfigError logs a fatal configuration problem. The CLI driver maps
// this to a nonzero exit code per section 6; it never enters the
// scheduling loop, per section 7.
func (d *Diag) ConfigError(err error) {
	d.log.Error("configuration error", "err", err)
}

// InvariantViolation logs a fatal engine bug per section 7: the
// simulation aborts, identifying the offending node, state, and event.
func (d *Diag) InvariantViolation(err *InvariantViolation) {
	d.log.Error("invariant violation, aborting run", "node", err.Node, "state", err.State, "event", err.Event, "reason", err.Reason)
}

func (d *Diag) Warnf(format string, args ...any) {
	d.log.Warn(fmt.Sprintf(format, args...))
}
