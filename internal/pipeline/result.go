package pipeline

import (
	"time"

	"github.com/joseph-ayodele/quotes-importer/constants"
)

// UnitResult is the outcome of one import unit.
type UnitResult struct {
	Source    string
	Format    string // constants.PDF | constants.TXT | constants.SNAPSHOT
	QuoteID   *int64
	Status    constants.UnitStatus
	Records   int // records handed to the gateway
	Persisted int
	Failed    int
	Dropped   int // invalid log entries skipped while loading
	Err       error
	Duration  time.Duration
}

// OK reports whether every record of the unit was persisted.
func (r UnitResult) OK() bool {
	return r.Status == constants.UnitImported
}

// ErrString is Err as text, or "" when nil.
func (r UnitResult) ErrString() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
