package engine

import (
	"sync/atomic"
	"time"

	"github.com/eddmann/c3/c3mg"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
// Scores are centipawns from the side to move's perspective. Mate scores
// encode distance to mate: mate in N plies scores MateScore - N, so faster
// mates win comparisons. Any score at or beyond MateThreshold is a forced
// mate rather than a material advantage.
const (
	MateScore     int32 = 10_000
	MateThreshold int32 = MateScore - 255
	DrawScore     int32 = 0

	MaxDepth = 255
)

// Aspiration window parameters: from depth 4 the search opens with a narrow
// window around the previous iteration's score, doubling the failed side on
// each re-search and collapsing to the full window after too many retries.
const (
	aspirationMinDepth     = 4
	aspirationInitialDelta = 25
	aspirationMaxRetries   = 3
)

// Futility margins per remaining depth. At depth <= 2, quiet moves whose
// static eval plus margin cannot reach alpha are skipped.
var futilityMargins = [3]int32{0, 100, 300}

const futilityDepth = 2

// Result is the outcome of a finished search: the last completed iteration's
// depth, score and line, plus node count and TT fill in permille.
type Result struct {
	Depth    uint8
	Score    int32
	PV       []c3mg.Move
	Nodes    uint64
	Hashfull uint32
}

// BestMove returns the first PV move, or ok=false when no iteration
// completed.
func (r Result) BestMove() (c3mg.Move, bool) {
	if len(r.PV) == 0 {
		return 0, false
	}
	return r.PV[0], true
}

// Search runs an iterative-deepening search over a fresh transposition
// table. The stop flag may be nil.
func Search(b *c3mg.Board, limits Limits, reporter Reporter, stop *atomic.Bool) Result {
	return SearchWithTable(b, limits, reporter, NewTransTable(), stop)
}

// SearchWithTable is Search with a caller-owned transposition table, letting
// a front-end persist the table across searches and clear it on new games.
func SearchWithTable(b *c3mg.Board, limits Limits, reporter Reporter, tt *TransTable, stop *atomic.Bool) Result {
	stopper := NewStopper(stop)
	if limits.Nodes > 0 {
		stopper.AtNodes(limits.Nodes)
	}
	if limits.MoveTime > 0 {
		stopper.AtElapsed(limits.MoveTime)
	}

	killers := &KillerTable{}
	report := &Report{StartedAt: time.Now()}

	maxDepth := MaxDepth
	if limits.Depth >= 0 {
		maxDepth = limits.Depth
	}

	var lastScore int32
	var bestPV []c3mg.Move
	var bestDepth uint8

	for depth := 1; depth <= maxDepth; depth++ {
		var pv PVLine

		doAspiration := depth >= aspirationMinDepth && abs32(lastScore) < MateThreshold

		deltaLow := int32(aspirationInitialDelta)
		deltaHigh := int32(aspirationInitialDelta)

		alpha, beta := -MateScore, MateScore
		if doAspiration {
			alpha = clamp(lastScore-deltaLow, -MateScore, MateScore)
			beta = clamp(lastScore+deltaHigh, -MateScore, MateScore)
		}

		var finalScore int32
		retries := 0
		usingFullWindow := !doAspiration

		for {
			score := alphabeta(b, uint8(depth), alpha, beta, &pv, tt, killers, report, stopper)

			// Accept the result when it lies strictly inside the window,
			// when the stopper fired, or when already on the full window
			// (nothing left to widen).
			if (score > alpha && score < beta) || stopper.ShouldStop(report) || usingFullWindow {
				finalScore = score
				break
			}

			retries++
			if retries > aspirationMaxRetries {
				alpha, beta = -MateScore, MateScore
				usingFullWindow = true
				continue
			}

			if score <= alpha {
				deltaLow *= 2
				alpha = clamp(lastScore-deltaLow, -MateScore, MateScore)
			} else if score >= beta {
				deltaHigh *= 2
				beta = clamp(lastScore+deltaHigh, -MateScore, MateScore)
			}
		}

		// A stopped iteration is partial; the previous iteration's line is
		// the answer.
		if stopper.ShouldStop(report) {
			break
		}

		sanitisedPV, sanitisedScore := sanitisePV(b, pv.Moves, finalScore)

		lastScore = sanitisedScore
		bestPV = sanitisedPV
		bestDepth = uint8(depth)

		report.Depth = uint8(depth)
		report.PV = sanitisedPV
		report.Score = sanitisedScore
		report.HasPV = true
		report.TTUsage = tt.Usage()
		report.TTCapacity = tt.Capacity()
		reporter.Send(report)
	}

	return Result{
		Depth:    bestDepth,
		Score:    lastScore,
		PV:       bestPV,
		Nodes:    report.Nodes,
		Hashfull: tt.Hashfull(),
	}
}

// sanitisePV replays the line on a clone of the position; if any prefix runs
// into a fifty-move or repetition draw, the line is truncated there and the
// score becomes the draw score. This keeps a winning eval from being reported
// when the best line actually peters out into a draw.
func sanitisePV(b *c3mg.Board, moves []c3mg.Move, score int32) ([]c3mg.Move, int32) {
	pos := b.Clone()

	for i, move := range moves {
		pos.MakeMove(move)

		if pos.IsFiftyMoveDraw() || pos.IsRepetitionDraw(0) {
			return moves[:i+1], DrawScore
		}
	}

	return moves, score
}

// =============================================================================
// ALPHA-BETA SEARCH WITH NEGAMAX
// =============================================================================
// alpha is the best score the side to move is already guaranteed, beta the
// best the opponent will allow. A move scoring >= beta cuts off: the opponent
// will never permit this position. Negamax always maximises, negating the
// score and swapping the window at each recursion.
func alphabeta(b *c3mg.Board, depth uint8, alpha, beta int32, pv *PVLine,
	tt *TransTable, killers *KillerTable, report *Report, stopper *Stopper) int32 {

	if stopper.ShouldStop(report) {
		return 0
	}

	if b.IsFiftyMoveDraw() || b.IsRepetitionDraw(int(report.Ply)) {
		return DrawScore
	}

	colourToMove := b.SideToMove()

	if depth == 0 {
		if !b.InCheck(colourToMove) {
			return quiescence(b, alpha, beta, report)
		}
		// Check extension: never stand still while in check.
		depth = 1
	}

	var ttMove c3mg.Move

	// TRANSPOSITION TABLE PROBE
	// An entry searched at least as deep as this node may settle it
	// immediately; a shallower entry still contributes its move for
	// ordering. The root never takes the shortcut: it must always produce
	// a line, even when the table already knows the score.
	if entry, ok := tt.Probe(b.Hash()); ok {
		if entry.Depth >= depth && report.Ply > 0 {
			ttScore := evalOut(entry.Score, report.Ply)

			switch entry.Bound {
			case ExactBound:
				return ttScore
			case LowerBound:
				if ttScore >= beta {
					return beta
				}
			case UpperBound:
				if ttScore <= alpha {
					return alpha
				}
			}
		}

		ttMove = entry.Move
	}

	report.Nodes++

	inCheck := b.InCheck(colourToMove)

	// NULL-MOVE PRUNING
	// If passing the turn still beats beta, the position is almost
	// certainly winning and the node can be cut. Skipped when in check,
	// at shallow depth, and in pawn-only endgames (zugzwang).
	if depth >= 3 && !inCheck && hasNonPawnMaterial(b, colourToMove) {
		b.MakeNullMove()
		report.Ply++

		r := uint8(2)
		if depth > 6 {
			r = 3
		}
		var scratch PVLine
		nullScore := -alphabeta(b, depth-r-1, -beta, -beta+1, &scratch, tt, killers, report, stopper)

		report.Ply--
		b.UnmakeNullMove()

		if nullScore >= beta {
			tt.Store(b.Hash(), depth, evalIn(nullScore, report.Ply), LowerBound, 0)
			return beta
		}
	}

	hasSearchedOne := false
	ttBound := UpperBound

	// Try the TT move before the generator is even consulted; it was the
	// best move last time this position was searched.
	if ttMove != 0 {
		b.MakeMove(ttMove)
		report.Ply++

		var childPV PVLine
		score := -alphabeta(b, depth-1, -beta, -alpha, &childPV, tt, killers, report, stopper)

		report.Ply--
		b.UnmakeMove(ttMove)

		if score >= beta {
			tt.Store(b.Hash(), depth, evalIn(score, report.Ply), LowerBound, ttMove)
			return beta
		}

		if score > alpha {
			alpha = score
			ttBound = ExactBound
			pv.Update(ttMove, childPV)
		}

		hasSearchedOne = true
	}

	// Static evaluation for futility pruning, computed lazily at the first
	// pruning opportunity.
	var staticEval int32
	staticEvalKnown := false

	moves := b.GeneratePseudoMoves()
	orderMoves(moves, killers, report.Ply)

	for _, move := range moves {
		if ttMove != 0 && move.Matches(ttMove) {
			continue
		}

		// FUTILITY PRUNING
		// At shallow depth, a quiet move whose best case cannot reach
		// alpha is not worth searching. Never prunes the first move, so
		// a node with only hopeless moves still distinguishes itself
		// from stalemate. The parent's static eval is computed once,
		// lazily, at the first pruning opportunity.
		futile := hasSearchedOne && depth <= futilityDepth && !inCheck &&
			!move.IsCapture() && !move.IsPromotion()
		if futile && !staticEvalKnown {
			staticEval = Evaluate(b)
			staticEvalKnown = true
		}

		b.MakeMove(move)

		if b.InCheck(colourToMove) {
			b.UnmakeMove(move)
			continue
		}

		if futile && staticEval+futilityMargins[depth] <= alpha {
			b.UnmakeMove(move)
			continue
		}

		report.Ply++

		var childPV PVLine
		var score int32

		// PRINCIPAL-VARIATION SEARCH
		// After the first move, probe with a zero-width window; only a
		// surprising improvement warrants the full-window re-search.
		if hasSearchedOne {
			var zeroWindowPV PVLine
			score = -alphabeta(b, depth-1, -alpha-1, -alpha, &zeroWindowPV, tt, killers, report, stopper)

			if score > alpha && score < beta {
				score = -alphabeta(b, depth-1, -beta, -alpha, &childPV, tt, killers, report, stopper)
			}
		} else {
			score = -alphabeta(b, depth-1, -beta, -alpha, &childPV, tt, killers, report, stopper)
		}

		report.Ply--
		b.UnmakeMove(move)

		if score >= beta {
			// A quiet cutoff move becomes a killer for this ply.
			if !move.IsCapture() && !move.IsPromotion() {
				killers.Insert(report.Ply, move)
			}

			tt.Store(b.Hash(), depth, evalIn(score, report.Ply), LowerBound, move)
			return beta
		}

		if score > alpha {
			alpha = score
			ttBound = ExactBound
			ttMove = move
			pv.Update(move, childPV)
		}

		hasSearchedOne = true
	}

	// No legal move was searched: mate if in check, stalemate otherwise.
	if !hasSearchedOne {
		if inCheck {
			return -MateScore + int32(report.Ply)
		}
		return DrawScore
	}

	// A stopped search unwinds with junk scores; keep them out of a table
	// that outlives this search.
	if !stopper.ShouldStop(report) {
		tt.Store(b.Hash(), depth, evalIn(alpha, report.Ply), ttBound, ttMove)
	}

	return alpha
}

// =============================================================================
// QUIESCENCE SEARCH
// =============================================================================
// Evaluating at the horizon mid-trade misjudges the position. Quiescence
// keeps searching captures and promotions until the position is quiet, with
// the static eval as the stand-pat floor (the side to move may always decline
// to capture).
func quiescence(b *c3mg.Board, alpha, beta int32, report *Report) int32 {
	report.Nodes++

	standPat := Evaluate(b)

	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	colourToMove := b.SideToMove()

	moves := b.GenerateNoisyMoves()
	orderQuiescenceMoves(moves)

	for _, move := range moves {
		b.MakeMove(move)

		if b.InCheck(colourToMove) {
			b.UnmakeMove(move)
			continue
		}

		score := -quiescence(b, -beta, -alpha, report)

		b.UnmakeMove(move)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}
