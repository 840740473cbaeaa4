package engine

import (
	"math/bits"

	"github.com/eddmann/c3/c3mg"
)

// Static evaluation: material balance plus piece-square bonuses plus a
// phase-scaled king-safety term, returned from the side to move's
// perspective. Search depth does the rest of the work.

// =============================================================================
// PIECE-SQUARE TABLES
// =============================================================================
// Each table gives a centipawn bonus/penalty per square, written from White's
// perspective with rank 8 on the first row (the visual board layout). Black
// uses the vertically mirrored values.
var pieceSquareBase = [6][64]int32{
	// PAWN: advancement pays, centre pawns control key squares, and the
	// unmoved d2/e2 block is discouraged.
	{
		0, 0, 0, 0, 0, 0, 0, 0,
		60, 60, 60, 60, 70, 60, 60, 60,
		40, 40, 40, 50, 60, 40, 40, 40,
		20, 20, 20, 40, 50, 20, 20, 20,
		5, 5, 15, 30, 40, 10, 5, 5,
		5, 5, 10, 20, 30, 5, 5, 5,
		5, 5, 5, -30, -30, 5, 5, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	// KNIGHT: strong in the centre, dim on the rim.
	{
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, -5, -5, -5, -5, -5, -5, -10,
		-10, -5, 15, 15, 15, 15, -5, -10,
		-10, -5, 15, 15, 15, 15, -5, -10,
		-10, -5, 15, 15, 15, 15, -5, -10,
		-10, -5, 10, 15, 15, 15, -5, -10,
		-10, -5, -5, -5, -5, -5, -5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	// BISHOP: long diagonals, avoid the edges.
	{
		-20, 0, 0, 0, 0, 0, 0, -20,
		-15, 0, 0, 0, 0, 0, 0, -15,
		-10, 0, 0, 5, 5, 0, 0, -10,
		-10, 10, 10, 30, 30, 10, 10, -10,
		5, 5, 10, 25, 25, 10, 5, 5,
		5, 5, 5, 10, 10, 5, 5, 5,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	// ROOK: seventh rank and central files.
	{
		0, 0, 0, 0, 0, 0, 0, 0,
		15, 15, 15, 20, 20, 15, 15, 15,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 10, 10, 10, 0, 0,
	},
	// QUEEN: centre control without early development.
	{
		-30, -20, -10, -10, -10, -10, -20, -30,
		-20, -10, -5, -5, -5, -5, -10, -20,
		-10, -5, 10, 10, 10, 10, -5, -10,
		-10, -5, 10, 20, 20, 10, -5, -10,
		-10, -5, 10, 20, 20, 10, -5, -10,
		-10, -5, -5, -5, -5, -5, -5, -10,
		-20, -10, -5, -5, -5, -5, -10, -20,
		-30, -20, -10, -10, -10, -10, -20, -30,
	},
	// KING: stay castled in the middlegame, keep out of the centre.
	{
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 20, 20, 0, 0, 0,
		0, 0, 0, 20, 20, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, -10, -10, 0, 0, 0,
		0, 0, 20, -10, -10, 0, 20, 0,
	},
}

// rankFlipTable maps a square index to the base-table row/column for each
// colour: White flips vertically (the base tables are written rank 8 first),
// Black reads them as-is.
var rankFlipTable = [2][64]int{
	// White
	{
		56, 57, 58, 59, 60, 61, 62, 63,
		48, 49, 50, 51, 52, 53, 54, 55,
		40, 41, 42, 43, 44, 45, 46, 47,
		32, 33, 34, 35, 36, 37, 38, 39,
		24, 25, 26, 27, 28, 29, 30, 31,
		16, 17, 18, 19, 20, 21, 22, 23,
		8, 9, 10, 11, 12, 13, 14, 15,
		0, 1, 2, 3, 4, 5, 6, 7,
	},
	// Black
	{
		0, 1, 2, 3, 4, 5, 6, 7,
		8, 9, 10, 11, 12, 13, 14, 15,
		16, 17, 18, 19, 20, 21, 22, 23,
		24, 25, 26, 27, 28, 29, 30, 31,
		32, 33, 34, 35, 36, 37, 38, 39,
		40, 41, 42, 43, 44, 45, 46, 47,
		48, 49, 50, 51, 52, 53, 54, 55,
		56, 57, 58, 59, 60, 61, 62, 63,
	},
}

// pieceSquareTables holds the final 12x64 tables, one per concrete piece.
var pieceSquareTables [12][64]int32

func init() {
	for pi := 0; pi < 12; pi++ {
		colourIndex := pi / 6
		basePiece := pi % 6
		for sq := 0; sq < 64; sq++ {
			pieceSquareTables[pi][sq] = pieceSquareBase[basePiece][rankFlipTable[colourIndex][sq]]
		}
	}
}

// =============================================================================
// GAME PHASE
// =============================================================================
// Phase scales king safety: critical in the middlegame (~256), irrelevant in
// the endgame (~0). Derived from remaining non-pawn material.
const (
	phaseKnight = 1
	phaseBishop = 1
	phaseRook   = 2
	phaseQueen  = 4
	phaseTotal  = 4*phaseKnight + 4*phaseBishop + 4*phaseRook + 2*phaseQueen
)

func gamePhase(b *c3mg.Board) int32 {
	white := b.Bitboards(c3mg.White)
	black := b.Bitboards(c3mg.Black)

	phase := phaseKnight*(bits.OnesCount64(white.Knights)+bits.OnesCount64(black.Knights)) +
		phaseBishop*(bits.OnesCount64(white.Bishops)+bits.OnesCount64(black.Bishops)) +
		phaseRook*(bits.OnesCount64(white.Rooks)+bits.OnesCount64(black.Rooks)) +
		phaseQueen*(bits.OnesCount64(white.Queens)+bits.OnesCount64(black.Queens))

	// Normalise to 0-256 (256 = full middlegame)
	return int32((phase*256 + phaseTotal/2) / phaseTotal)
}

// =============================================================================
// KING SAFETY
// =============================================================================

// Pawn shield bonuses for shield pawns on the first, second and third rank in
// front of the king.
var pawnShieldBonus = [3]int32{12, 8, 4}

// Penalties for missing critical shield pawns; the f-pawn guards the key
// diagonals around a castled king.
const (
	missingFPawnPenalty int32 = -25
	missingGPawnPenalty int32 = -15
	missingHPawnPenalty int32 = -8
)

const (
	openFilePenalty     int32 = -20
	semiOpenFilePenalty int32 = -10
)

// Attack weights per piece type threatening the king zone (pawns and kings
// handled elsewhere).
var attackWeights = [7]int32{0, 0, 2, 2, 3, 5, 0}

// Tropism weights per piece type, penalising proximity to the king.
var tropismWeights = [7]int32{0, 0, 1, 1, 2, 3, 0}

// Safety divisor applied when the enemy has no queen.
const noQueenSafetyDivisor int32 = 4

// shieldFiles returns the king's file and neighbours, -1 when off board.
func shieldFiles(kingSq c3mg.Square) [3]int {
	file := kingSq.File()
	files := [3]int{-1, file, -1}
	if file > 0 {
		files[0] = file - 1
	}
	if file < 7 {
		files[2] = file + 1
	}
	return files
}

func evalPawnShield(c c3mg.Color, kingSq c3mg.Square, b *c3mg.Board) int32 {
	ownPawns := b.PieceBitboard(c3mg.PieceFromType(c, c3mg.PieceTypePawn))
	files := shieldFiles(kingSq)

	baseRank, direction := 1, 1
	if c == c3mg.Black {
		baseRank, direction = 6, -1
	}
	kingside := kingSq.File() >= 4

	var score int32

	for _, file := range files {
		if file < 0 {
			continue
		}

		foundPawn := false
		for rankOffset := 0; rankOffset < 3 && !foundPawn; rankOffset++ {
			rank := baseRank + direction*rankOffset
			if rank < 0 || rank > 7 {
				continue
			}
			if ownPawns&(1<<uint(c3mg.SquareFromFileRank(file, rank))) != 0 {
				score += pawnShieldBonus[rankOffset]
				foundPawn = true
			}
		}

		if !foundPawn {
			if kingside {
				switch file {
				case 5:
					score += missingFPawnPenalty
				case 6:
					score += missingGPawnPenalty
				case 7:
					score += missingHPawnPenalty
				}
			} else {
				// Queenside mirror: c-pawn plays the f-pawn's role.
				switch file {
				case 2:
					score += missingFPawnPenalty
				case 1:
					score += missingGPawnPenalty
				case 0:
					score += missingHPawnPenalty
				}
			}
		}
	}

	return score
}

func evalOpenFiles(c c3mg.Color, kingSq c3mg.Square, b *c3mg.Board) int32 {
	ownPawns := b.PieceBitboard(c3mg.PieceFromType(c, c3mg.PieceTypePawn))
	enemyPawns := b.PieceBitboard(c3mg.PieceFromType(c.Opponent(), c3mg.PieceTypePawn))

	var score int32

	for _, file := range shieldFiles(kingSq) {
		if file < 0 {
			continue
		}

		fileMask := c3mg.FileMask(file)
		hasOwnPawn := ownPawns&fileMask != 0
		hasEnemyPawn := enemyPawns&fileMask != 0

		if !hasOwnPawn && !hasEnemyPawn {
			score += openFilePenalty
		} else if !hasOwnPawn && hasEnemyPawn {
			score += semiOpenFilePenalty
		}
	}

	return score
}

func manhattanDistance(a, b c3mg.Square) int {
	fd := a.File() - b.File()
	if fd < 0 {
		fd = -fd
	}
	rd := a.Rank() - b.Rank()
	if rd < 0 {
		rd = -rd
	}
	return fd + rd
}

func chebyshevDistance(a, b c3mg.Square) int {
	fd := a.File() - b.File()
	if fd < 0 {
		fd = -fd
	}
	rd := a.Rank() - b.Rank()
	if rd < 0 {
		rd = -rd
	}
	if fd > rd {
		return fd
	}
	return rd
}

// evalAttackZone penalises enemy pieces close enough to threaten the king
// zone, scaling with attacker count so swarms hurt disproportionately.
func evalAttackZone(c c3mg.Color, kingSq c3mg.Square, b *c3mg.Board) int32 {
	enemy := b.Bitboards(c.Opponent())

	var attackerCount, attackWeight int32

	countZone := func(pieces uint64, pt c3mg.PieceType, maxDist int) {
		for pieces != 0 {
			sq := popLSBEval(&pieces)
			if chebyshevDistance(sq, kingSq) <= maxDist {
				attackerCount++
				attackWeight += attackWeights[pt]
			}
		}
	}

	countZone(enemy.Knights, c3mg.PieceTypeKnight, 2)
	countZone(enemy.Bishops, c3mg.PieceTypeBishop, 3)
	countZone(enemy.Rooks, c3mg.PieceTypeRook, 3)
	countZone(enemy.Queens, c3mg.PieceTypeQueen, 4)

	if attackerCount == 0 {
		return 0
	}

	return -attackWeight * attackerCount * 3
}

// evalTropism penalises enemy pieces simply for being near the king.
func evalTropism(c c3mg.Color, kingSq c3mg.Square, b *c3mg.Board) int32 {
	enemy := b.Bitboards(c.Opponent())

	var score int32

	walk := func(pieces uint64, pt c3mg.PieceType) {
		for pieces != 0 {
			sq := popLSBEval(&pieces)
			dist := manhattanDistance(sq, kingSq)
			score -= tropismWeights[pt] * int32(14-dist) / 2
		}
	}

	walk(enemy.Knights, c3mg.PieceTypeKnight)
	walk(enemy.Bishops, c3mg.PieceTypeBishop)
	walk(enemy.Rooks, c3mg.PieceTypeRook)
	walk(enemy.Queens, c3mg.PieceTypeQueen)

	return score
}

func evalKingSafety(c c3mg.Color, b *c3mg.Board) int32 {
	kingSq := b.KingSquare(c)
	phase := gamePhase(b)
	enemyHasQueen := b.PieceBitboard(c3mg.PieceFromType(c.Opponent(), c3mg.PieceTypeQueen)) != 0

	score := evalPawnShield(c, kingSq, b) +
		evalOpenFiles(c, kingSq, b) +
		evalAttackZone(c, kingSq, b) +
		evalTropism(c, kingSq, b)

	// Full weight in the middlegame, fading out towards the endgame.
	score = score * phase / 256

	if !enemyHasQueen {
		score /= noQueenSafetyDivisor
	}

	return score
}

// =============================================================================
// MAIN EVALUATION
// =============================================================================

func evalMaterial(c c3mg.Color, b *c3mg.Board) int32 {
	var total int32
	for pt := c3mg.PieceTypePawn; pt <= c3mg.PieceTypeKing; pt++ {
		piece := c3mg.PieceFromType(c, pt)
		total += pieceValues[piece.Index()] * int32(b.Count(piece))
	}
	return total
}

func evalPSQT(c c3mg.Color, b *c3mg.Board) int32 {
	var total int32
	for pt := c3mg.PieceTypePawn; pt <= c3mg.PieceTypeKing; pt++ {
		piece := c3mg.PieceFromType(c, pt)
		pieceBB := b.PieceBitboard(piece)
		for pieceBB != 0 {
			sq := popLSBEval(&pieceBB)
			total += pieceSquareTables[piece.Index()][sq]
		}
	}
	return total
}

// Evaluate scores the position in centipawns from the side to move's
// perspective: positive is good for the player whose turn it is.
func Evaluate(b *c3mg.Board) int32 {
	material := evalMaterial(c3mg.White, b) - evalMaterial(c3mg.Black, b)
	psqt := evalPSQT(c3mg.White, b) - evalPSQT(c3mg.Black, b)
	kingSafety := evalKingSafety(c3mg.White, b) - evalKingSafety(c3mg.Black, b)

	score := material + psqt + kingSafety

	if b.SideToMove() == c3mg.Black {
		return -score
	}
	return score
}

func popLSBEval(mask *uint64) c3mg.Square {
	sq := c3mg.Square(bits.TrailingZeros64(*mask))
	*mask &= *mask - 1
	return sq
}
