package engine

import (
	"strings"

	"golang.org/x/exp/constraints"

	"github.com/eddmann/c3/c3mg"
)

// PVLine holds a principal variation: the best line of play found so far.
type PVLine struct {
	Moves []c3mg.Move
}

// Clear truncates the line.
func (pv *PVLine) Clear() { pv.Moves = pv.Moves[:0] }

// Update sets the line to the given move followed by the child's line.
func (pv *PVLine) Update(move c3mg.Move, child PVLine) {
	pv.Moves = append(pv.Moves[:0], move)
	pv.Moves = append(pv.Moves, child.Moves...)
}

// Clone returns an independent copy of the line.
func (pv PVLine) Clone() PVLine {
	moves := make([]c3mg.Move, len(pv.Moves))
	copy(moves, pv.Moves)
	return PVLine{Moves: moves}
}

// BestMove returns the first move of the line, or ok=false when empty.
func (pv PVLine) BestMove() (c3mg.Move, bool) {
	if len(pv.Moves) == 0 {
		return 0, false
	}
	return pv.Moves[0], true
}

// String renders the line in long-algebraic notation.
func (pv PVLine) String() string {
	parts := make([]string, len(pv.Moves))
	for i, move := range pv.Moves {
		parts[i] = move.String()
	}
	return strings.Join(parts, " ")
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp[T constraints.Ordered](v, low, high T) T {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// hasNonPawnMaterial reports whether a side has any piece besides pawns and
// the king. Null-move pruning is skipped in pawn-only endgames where zugzwang
// makes "passing" misleading.
func hasNonPawnMaterial(b *c3mg.Board, c c3mg.Color) bool {
	bbs := b.Bitboards(c)
	return bbs.Knights|bbs.Bishops|bbs.Rooks|bbs.Queens != 0
}
