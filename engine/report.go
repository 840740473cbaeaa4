package engine

import (
	"sync/atomic"
	"time"

	"github.com/eddmann/c3/c3mg"
)

// Report carries the state of an ongoing search: it is handed to the Reporter
// once per completed iteration and consulted by the Stopper between nodes.
type Report struct {
	Depth uint8
	Ply   uint8
	Nodes uint64

	// Best line and score of the last completed iteration; HasPV is false
	// until the first iteration completes.
	PV    []c3mg.Move
	Score int32
	HasPV bool

	TTUsage    uint64
	TTCapacity uint64

	StartedAt time.Time
}

// Elapsed returns wall time since the search started.
func (r *Report) Elapsed() time.Duration { return time.Since(r.StartedAt) }

// MovesUntilMate returns the number of plies until mate when the score is a
// mate score, and ok=false otherwise.
func (r *Report) MovesUntilMate() (uint8, bool) {
	if !r.HasPV {
		return 0, false
	}

	absScore := abs32(r.Score)
	if absScore < MateThreshold || absScore > MateScore {
		return 0, false
	}

	return uint8(MateScore - absScore), true
}

// Reporter receives one Report per completed search iteration.
// Implementations may serialise UCI info lines, collect metrics in tests, or
// discard. Send is called synchronously from the searcher.
type Reporter interface {
	Send(report *Report)
}

// NullReporter discards all reports.
type NullReporter struct{}

func (NullReporter) Send(*Report) {}

// Limits bounds a search. Depth < 0 means no depth limit; zero Nodes or
// MoveTime mean no node or time limit.
type Limits struct {
	Depth    int
	Nodes    uint64
	MoveTime time.Duration
}

// NoLimits returns limits that let the search run until stopped.
func NoLimits() Limits { return Limits{Depth: -1} }

// stopperNodesMask amortises stop checks: the time and node thresholds are
// only re-examined every 256th node.
const stopperNodesMask = 0xFF

// Stopper decides when the search must unwind. It wraps an optional shared
// atomic stop flag plus the node and elapsed-time thresholds; the depth limit
// is enforced by the iterative-deepening loop itself.
type Stopper struct {
	signal *atomic.Bool

	elapsed    time.Duration
	hasElapsed bool
	nodes      uint64
	hasNodes   bool

	// Once any condition fires the stopper stays fired, so the whole tree
	// unwinds instead of resuming between polls.
	stopped bool
}

// NewStopper wraps an external stop flag, which may be nil.
func NewStopper(signal *atomic.Bool) *Stopper {
	return &Stopper{signal: signal}
}

// AtElapsed sets the wall-time budget.
func (s *Stopper) AtElapsed(d time.Duration) {
	s.elapsed = d
	s.hasElapsed = true
}

// AtNodes sets the node cap.
func (s *Stopper) AtNodes(n uint64) {
	s.nodes = n
	s.hasNodes = true
}

// ShouldStop reports whether the search must unwind. The external flag is
// observed immediately; the thresholds only every 256th node.
func (s *Stopper) ShouldStop(report *Report) bool {
	if s.stopped {
		return true
	}

	if s.signal != nil && s.signal.Load() {
		s.stopped = true
		return true
	}

	if report.Nodes&stopperNodesMask != 0 {
		return false
	}

	if s.hasElapsed && report.Elapsed() > s.elapsed {
		s.stopped = true
		return true
	}

	if s.hasNodes && report.Nodes > s.nodes {
		s.stopped = true
		return true
	}

	return false
}
