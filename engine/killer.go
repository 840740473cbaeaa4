package engine

import (
	"github.com/eddmann/c3/c3mg"
)

// KillerTable tracks two quiet refutation moves per ply. A quiet move that
// caused a beta cutoff at one node often refutes sibling nodes at the same
// ply too, so it is tried before the remaining quiet moves.
type KillerTable struct {
	moves [MaxDepth + 1][2]c3mg.Move
}

// Insert records a cutoff move for the ply. If the move already sits in slot
// 0 nothing changes; otherwise slot 0 shifts into slot 1 and the new move
// takes slot 0, so the most recent killer is tried first.
func (k *KillerTable) Insert(ply uint8, move c3mg.Move) {
	if !move.Matches(k.moves[ply][0]) {
		k.moves[ply][1] = k.moves[ply][0]
		k.moves[ply][0] = move
	}
}

// Probe returns the killer in the given slot (0 or 1) for the ply, or the
// zero move when the slot is empty.
func (k *KillerTable) Probe(ply uint8, slot int) c3mg.Move {
	return k.moves[ply][slot]
}

// Clear empties the killer table.
func (k *KillerTable) Clear() {
	for ply := 0; ply <= MaxDepth; ply++ {
		k.moves[ply][0] = 0
		k.moves[ply][1] = 0
	}
}
