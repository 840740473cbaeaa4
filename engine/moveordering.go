package engine

import (
	"slices"

	"github.com/eddmann/c3/c3mg"
)

// Piece values in centipawns, indexed by the dense piece index. Kings carry
// no material value.
var pieceValues = [12]int32{
	100, 300, 350, 500, 900, 0, // White: P, N, B, R, Q, K
	100, 300, 350, 500, 900, 0, // Black: P, N, B, R, Q, K
}

// capturePriority scores a capture by MVV-LVA: high-value victims taken by
// low-value attackers first. The result is negated so ascending sort puts the
// best captures at the front; promotions get a small preference over quiets.
func capturePriority(m c3mg.Move) int32 {
	if captured := m.CapturedPiece(); captured != c3mg.NoPiece {
		victimValue := pieceValues[captured.Index()]
		attackerValue := pieceValues[m.MovedPiece().Index()]
		return -(victimValue*100 - attackerValue)
	}

	if m.IsPromotion() {
		return -1
	}

	return 0
}

// orderMoves sorts a move list for the main search. Priority: captures by
// MVV-LVA, promotions, killer slot 0, killer slot 1, then the remaining quiet
// moves. The sort is stable so quiets keep generator order. The TT move is
// handled by the searcher before the generator is consulted and is not
// scored here.
func orderMoves(moves []c3mg.Move, killers *KillerTable, ply uint8) {
	killer1 := killers.Probe(ply, 0)
	killer2 := killers.Probe(ply, 1)

	score := func(m c3mg.Move) int32 {
		if m.IsCapture() {
			return capturePriority(m)
		}
		if m.IsPromotion() {
			return 1
		}
		if killer1 != 0 && m.Matches(killer1) {
			return 2
		}
		if killer2 != 0 && m.Matches(killer2) {
			return 3
		}
		return 4
	}

	slices.SortStableFunc(moves, func(a, b c3mg.Move) int {
		return int(score(a) - score(b))
	})
}

// orderQuiescenceMoves sorts noisy moves by MVV-LVA. A promotion counts its
// promoted piece as the attacker, and a plain promotion's "victim" falls back
// to a pawn so pushes sort below real captures of bigger game.
func orderQuiescenceMoves(moves []c3mg.Move) {
	score := func(m c3mg.Move) int32 {
		victim := m.CapturedPiece()
		if victim == c3mg.NoPiece {
			victim = c3mg.PieceFromType(m.MovedPiece().Color(), c3mg.PieceTypePawn)
		}
		attacker := m.MovedPiece()
		if promo := m.PromotionPiece(); promo != c3mg.NoPiece {
			attacker = promo
		}
		return -(pieceValues[victim.Index()]*100 - pieceValues[attacker.Index()])
	}

	slices.SortStableFunc(moves, func(a, b c3mg.Move) int {
		return int(score(a) - score(b))
	})
}
