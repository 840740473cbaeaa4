// Package tablebase holds the Syzygy endgame tablebase collaborator: the
// UCI-configurable probing parameters, the WDL/DTZ result types, and a
// swappable probing interface. The decoding backend itself is external; the
// default instance reports itself unavailable so the engine searches as
// normal when no tablebases are configured.
package tablebase

import (
	"math/bits"
	"sync"
	"sync/atomic"

	"github.com/eddmann/c3/c3mg"
)

// =============================================================================
// Configuration (set via UCI options)
// =============================================================================

var (
	probeDepth    atomic.Uint32
	use50MoveRule atomic.Bool
	probeLimit    atomic.Uint32

	pathMu sync.Mutex
	path   string
)

func init() {
	probeDepth.Store(1)
	use50MoveRule.Store(true)
	probeLimit.Store(6)
}

// SetPath stores the directory holding Syzygy files.
func SetPath(p string) {
	pathMu.Lock()
	defer pathMu.Unlock()
	path = p
}

// Path returns the configured tablebase directory.
func Path() string {
	pathMu.Lock()
	defer pathMu.Unlock()
	return path
}

// SetProbeDepth sets the minimum remaining depth before probing mid-search.
func SetProbeDepth(depth uint8) { probeDepth.Store(uint32(depth)) }

// ProbeDepth returns the minimum remaining depth before probing.
func ProbeDepth() uint8 { return uint8(probeDepth.Load()) }

// SetUse50MoveRule controls whether evaluations account for the 50-move rule.
func SetUse50MoveRule(enabled bool) { use50MoveRule.Store(enabled) }

// Use50MoveRule reports whether the 50-move rule is considered.
func Use50MoveRule() bool { return use50MoveRule.Load() }

// SetProbeLimit sets the maximum piece count for probing (0..7).
func SetProbeLimit(limit uint8) { probeLimit.Store(uint32(limit)) }

// ProbeLimit returns the maximum piece count for probing.
func ProbeLimit() uint8 { return uint8(probeLimit.Load()) }

// =============================================================================
// Results
// =============================================================================

// WdlResult is the game-theoretic outcome from the side to move's
// perspective, including the 50-move rule edge cases.
type WdlResult int8

const (
	Loss        WdlResult = -2 // opponent wins with best play
	BlessedLoss WdlResult = -1 // losing but saved by the 50-move rule
	Draw        WdlResult = 0
	CursedWin   WdlResult = 1 // winning but claimable as a draw (50-move rule)
	Win         WdlResult = 2
)

// Centipawns converts a WDL outcome to a search score.
func (w WdlResult) Centipawns() int32 {
	switch w {
	case Win:
		return 10_000
	case CursedWin:
		return 50
	case BlessedLoss:
		return -50
	case Loss:
		return -10_000
	default:
		return 0
	}
}

// DtzResult pairs the outcome with the distance to the next zeroing move
// (capture or pawn push), negative when losing.
type DtzResult struct {
	Wdl WdlResult
	Dtz int16
}

// IsValid reports whether the probe produced a usable result.
func (d DtzResult) IsValid() bool { return d.Dtz != 0 || d.Wdl == Draw }

// RootMove is a legal root move annotated with its DTZ result, used to pick
// the move that wins fastest or holds the draw.
type RootMove struct {
	Move c3mg.Move
	Dtz  DtzResult
}

// =============================================================================
// Probing interface
// =============================================================================

// Tablebase abstracts the probing backend so tests can substitute one and
// builds without a decoder still link.
type Tablebase interface {
	// Init points the tablebase at a directory of Syzygy files and reports
	// whether any were found.
	Init(path string) bool

	// Free releases all tablebase resources.
	Free()

	// IsAvailable reports whether probing can succeed at all.
	IsAvailable() bool

	// MaxPieces returns the largest piece count the loaded files cover.
	MaxPieces() uint8

	// ProbeWDL looks up the outcome for a position; ok=false when the
	// position cannot be probed.
	ProbeWDL(b *c3mg.Board) (WdlResult, bool)

	// ProbeDTZ looks up the distance-to-zeroing result for a position.
	ProbeDTZ(b *c3mg.Board) (DtzResult, bool)

	// ProbeRoot ranks the legal root moves by DTZ, best first.
	ProbeRoot(b *c3mg.Board, legalMoves []c3mg.Move) ([]RootMove, bool)
}

// unavailableTablebase is the default backend: never available, all probes
// miss.
type unavailableTablebase struct{}

func (unavailableTablebase) Init(string) bool { return false }
func (unavailableTablebase) Free()            {}
func (unavailableTablebase) IsAvailable() bool {
	return false
}
func (unavailableTablebase) MaxPieces() uint8 { return 0 }
func (unavailableTablebase) ProbeWDL(*c3mg.Board) (WdlResult, bool) {
	return Draw, false
}
func (unavailableTablebase) ProbeDTZ(*c3mg.Board) (DtzResult, bool) {
	return DtzResult{}, false
}
func (unavailableTablebase) ProbeRoot(*c3mg.Board, []c3mg.Move) ([]RootMove, bool) {
	return nil, false
}

var (
	instanceMu sync.Mutex
	instance   Tablebase = unavailableTablebase{}
)

// Get returns the global tablebase instance.
func Get() Tablebase {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	return instance
}

// Set swaps in a custom tablebase instance (for tests).
func Set(tb Tablebase) {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	instance = tb
}

// Reset restores the default (unavailable) tablebase.
func Reset() {
	Set(unavailableTablebase{})
}

// =============================================================================
// Utilities
// =============================================================================

// CountPieces returns the total number of pieces on the board.
func CountPieces(b *c3mg.Board) uint8 {
	return uint8(bits.OnesCount64(b.AllOccupancy()))
}

// IsProbeable reports whether the position can exist in a tablebase: no
// castling rights and few enough pieces.
func IsProbeable(b *c3mg.Board) bool {
	if b.CastlingRights() != 0 {
		return false
	}
	return CountPieces(b) <= ProbeLimit()
}

// ShouldProbe reports whether the searcher should probe at this node, gating
// on probeability and the configured minimum remaining depth.
func ShouldProbe(b *c3mg.Board, remainingDepth uint8) bool {
	if !IsProbeable(b) {
		return false
	}
	return remainingDepth >= ProbeDepth()
}
