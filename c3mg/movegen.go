package c3mg

// Precomputed attack masks for knights and kings from each square.
var knightMoves [64]uint64
var kingMoves [64]uint64

// Pawn attack masks: pawnAttacks[color][sq] gives the two diagonal capture
// squares for a pawn of 'color' on 'sq'. Pushes depend on occupancy and are
// computed on demand.
var pawnAttacks [2][64]uint64

// pawnStartRanks holds the double-push home rank per side.
var pawnStartRanks = [2]int{1, 6}

// Squares between king and rook that must be empty for castling, and the
// square the king transits (which must not be attacked).
const (
	whiteKingCastlePath  uint64 = 1<<5 | 1<<6           // f1, g1
	whiteQueenCastlePath uint64 = 1<<1 | 1<<2 | 1<<3    // b1, c1, d1
	blackKingCastlePath  uint64 = 1<<61 | 1<<62         // f8, g8
	blackQueenCastlePath uint64 = 1<<57 | 1<<58 | 1<<59 // b8, c8, d8
)

func init() {
	initAttackTables()
}

// initAttackTables precomputes attack bitboards for knights, kings, and pawn
// captures. Wrap-around is prevented by masking edge files before shifting.
func initAttackTables() {
	for sq := 0; sq < 64; sq++ {
		sqBB := uint64(1) << uint(sq)

		// Knight moves
		knightMoves[sq] = ((sqBB &^ bitboardFileA &^ bitboardFileB) << 6) |
			((sqBB &^ bitboardFileG &^ bitboardFileH) << 10) |
			((sqBB &^ bitboardFileA) << 15) |
			((sqBB &^ bitboardFileH) << 17) |
			((sqBB &^ bitboardFileG &^ bitboardFileH) >> 6) |
			((sqBB &^ bitboardFileA &^ bitboardFileB) >> 10) |
			((sqBB &^ bitboardFileH) >> 15) |
			((sqBB &^ bitboardFileA) >> 17)

		// King moves
		kingMoves[sq] = ((sqBB &^ bitboardFileH) << 1) |
			((sqBB &^ bitboardFileA) >> 1) |
			(sqBB << 8) | (sqBB >> 8) |
			((sqBB &^ bitboardFileA) << 7) |
			((sqBB &^ bitboardFileH) << 9) |
			((sqBB &^ bitboardFileH) >> 7) |
			((sqBB &^ bitboardFileA) >> 9)

		// Pawn attacks
		pawnAttacks[White][sq] = ((sqBB &^ bitboardFileA) << 7) | ((sqBB &^ bitboardFileH) << 9)
		pawnAttacks[Black][sq] = ((sqBB &^ bitboardFileH) >> 7) | ((sqBB &^ bitboardFileA) >> 9)
	}
}

// AttacksFor returns the attack set of a concrete piece standing on the given
// square. For pawns only the capture squares intersected with enemy occupancy
// are returned.
func (b *Board) AttacksFor(p Piece, sq Square) uint64 {
	switch p.Type() {
	case PieceTypePawn:
		return pawnAttacks[p.Color()][sq] & b.occupancy[p.Color().Opponent()]
	case PieceTypeKnight:
		return knightMoves[sq]
	case PieceTypeBishop:
		return BishopAttacks(sq, b.AllOccupancy())
	case PieceTypeRook:
		return RookAttacks(sq, b.AllOccupancy())
	case PieceTypeQueen:
		return QueenAttacks(sq, b.AllOccupancy())
	case PieceTypeKing:
		return kingMoves[sq]
	}
	return 0
}

// AttackersOf returns all pieces of the given color that attack a square,
// using the reverse-lookup trick: compute each piece kind's attack set as if
// that piece stood on the square, and intersect with the attacker's pieces.
func (b *Board) AttackersOf(sq Square, by Color) uint64 {
	ci := int(by)
	occ := b.AllOccupancy()

	bishopMask := BishopAttacks(sq, occ)
	rookMask := RookAttacks(sq, occ)

	return (pawnAttacks[by.Opponent()][sq] & b.pawns[ci]) |
		(knightMoves[sq] & b.knights[ci]) |
		(bishopMask & b.bishops[ci]) |
		(rookMask & b.rooks[ci]) |
		((bishopMask | rookMask) & b.queens[ci]) |
		(kingMoves[sq] & b.kings[ci])
}

// IsAttacked reports whether any piece of the given color attacks the square.
func (b *Board) IsAttacked(sq Square, by Color) bool {
	return b.AttackersOf(sq, by) != 0
}

// InCheck reports whether the given side's king is attacked.
func (b *Board) InCheck(c Color) bool {
	return b.IsAttacked(b.KingSquare(c), c.Opponent())
}

// EnPassantSources returns the mover's pawns that could capture to the given
// en-passant square: the opponent-side pawn-attack table at the square,
// intersected with the mover's pawns.
func (b *Board) EnPassantSources(epSquare Square, mover Color) uint64 {
	return pawnAttacks[mover.Opponent()][epSquare] & b.pawns[int(mover)]
}

// pawnAdvances returns the single (and, from the home rank, double) push
// squares available to a pawn, which require the path to be empty.
func (b *Board) pawnAdvances(sq Square, c Color) uint64 {
	occ := b.AllOccupancy()

	oneAhead := sq.Advance(c)
	if occ&bb(oneAhead) != 0 {
		return 0
	}
	if sq.Rank() != pawnStartRanks[c] {
		return bb(oneAhead)
	}

	twoAhead := oneAhead.Advance(c)
	if occ&bb(twoAhead) != 0 {
		return bb(oneAhead)
	}
	return bb(oneAhead) | bb(twoAhead)
}

// castlingMoves returns the king destination squares for the castling moves
// currently available: the right must be held, the squares between king and
// rook empty, the king not in check, and the square the king transits not
// attacked. Landing on an attacked square is caught by the caller's
// post-make legality filter.
func (b *Board) castlingMoves(c Color) uint64 {
	var moves uint64
	occ := b.AllOccupancy()

	if c == White {
		if b.castlingRights.Has(CastlingWhiteK) && occ&whiteKingCastlePath == 0 &&
			!b.IsAttacked(5, Black) { // f1
			moves |= bb(6) // g1
		}
		if b.castlingRights.Has(CastlingWhiteQ) && occ&whiteQueenCastlePath == 0 &&
			!b.IsAttacked(3, Black) { // d1
			moves |= bb(2) // c1
		}
	} else {
		if b.castlingRights.Has(CastlingBlackK) && occ&blackKingCastlePath == 0 &&
			!b.IsAttacked(61, White) { // f8
			moves |= bb(62) // g8
		}
		if b.castlingRights.Has(CastlingBlackQ) && occ&blackQueenCastlePath == 0 &&
			!b.IsAttacked(59, White) { // d8
			moves |= bb(58) // c8
		}
	}

	if moves != 0 && !b.InCheck(c) {
		return moves
	}
	return 0
}

// appendMoves expands destination bitboards into concrete moves, turning each
// pawn move onto the back rank into four promotions.
func (b *Board) appendMoves(moves []Move, piece Piece, from Square, toSquares uint64) []Move {
	for toSquares != 0 {
		to := popLSB(&toSquares)
		captured := b.pieces[int(to)]

		if piece.Type() == PieceTypePawn && to.IsBackRank() {
			for pt := PieceTypeKnight; pt <= PieceTypeQueen; pt++ {
				moves = append(moves, NewMove(from, to, piece, captured, PieceFromType(piece.Color(), pt), FlagNone))
			}
			continue
		}

		flag := uint8(FlagNone)
		if piece.Type() == PieceTypeKing && fileDiff(from, to) > 1 {
			flag = FlagCastle
		}
		moves = append(moves, NewMove(from, to, piece, captured, NoPiece, flag))
	}
	return moves
}

// appendEnPassantMoves adds the en-passant captures onto the board's current
// en-passant square, if any.
func (b *Board) appendEnPassantMoves(moves []Move) []Move {
	if b.enPassantSquare == NoSquare {
		return moves
	}
	mover := b.sideToMove
	fromSquares := b.EnPassantSources(b.enPassantSquare, mover)
	for fromSquares != 0 {
		from := popLSB(&fromSquares)
		moves = append(moves, NewMove(
			from, b.enPassantSquare,
			PieceFromType(mover, PieceTypePawn),
			PieceFromType(mover.Opponent(), PieceTypePawn),
			NoPiece, FlagEnPassant))
	}
	return moves
}

// GeneratePseudoMoves emits every move following piece-movement rules for the
// side to move: quiet moves, captures, double pushes, promotions, castling
// and en passant. Moves that leave the mover's own king attacked are NOT
// filtered here; callers make the move, test InCheck, and discard.
func (b *Board) GeneratePseudoMoves() []Move {
	moves := make([]Move, 0, 64)
	us := b.sideToMove
	notOwn := ^b.occupancy[int(us)]

	for pt := PieceTypePawn; pt <= PieceTypeKing; pt++ {
		piece := PieceFromType(us, pt)
		pieceBB := b.PieceBitboard(piece)

		for pieceBB != 0 {
			from := popLSB(&pieceBB)

			toSquares := b.AttacksFor(piece, from) & notOwn
			if pt == PieceTypePawn {
				toSquares |= b.pawnAdvances(from, us)
			} else if pt == PieceTypeKing {
				toSquares |= b.castlingMoves(us)
			}

			moves = b.appendMoves(moves, piece, from, toSquares)
		}
	}

	return b.appendEnPassantMoves(moves)
}

// GenerateNoisyMoves emits only captures, en passant, and promotions. Used by
// quiescence search.
func (b *Board) GenerateNoisyMoves() []Move {
	moves := make([]Move, 0, 32)
	us := b.sideToMove
	capturesMask := b.occupancy[int(us.Opponent())]

	for pt := PieceTypePawn; pt <= PieceTypeKing; pt++ {
		piece := PieceFromType(us, pt)
		pieceBB := b.PieceBitboard(piece)

		for pieceBB != 0 {
			from := popLSB(&pieceBB)

			toSquares := b.AttacksFor(piece, from) & capturesMask
			if pt == PieceTypePawn {
				toSquares |= b.pawnAdvances(from, us) & backRanks
			}

			moves = b.appendMoves(moves, piece, from, toSquares)
		}
	}

	return b.appendEnPassantMoves(moves)
}

// GenerateLegalMoves filters the pseudo-legal moves down to those that do not
// leave the mover's own king attacked.
func (b *Board) GenerateLegalMoves() []Move {
	pseudo := b.GeneratePseudoMoves()
	legal := pseudo[:0]
	mover := b.sideToMove
	for _, m := range pseudo {
		b.MakeMove(m)
		if !b.InCheck(mover) {
			legal = append(legal, m)
		}
		b.UnmakeMove(m)
	}
	return legal
}

// HasLegalMoves reports whether the side to move has any legal moves.
func (b *Board) HasLegalMoves() bool {
	mover := b.sideToMove
	for _, m := range b.GeneratePseudoMoves() {
		b.MakeMove(m)
		legal := !b.InCheck(mover)
		b.UnmakeMove(m)
		if legal {
			return true
		}
	}
	return false
}

// Perft counts leaf nodes at the given depth by recursively making every
// pseudo-legal move and discarding those that leave the own king in check.
// The gold-standard oracle for move generation correctness.
func Perft(b *Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	var nodes uint64
	mover := b.sideToMove

	for _, m := range b.GeneratePseudoMoves() {
		b.MakeMove(m)
		if !b.InCheck(mover) {
			nodes += Perft(b, depth-1)
		}
		b.UnmakeMove(m)
	}

	return nodes
}

// PerftDivide returns the per-root-move leaf counts at the given depth.
func PerftDivide(b *Board, depth int) map[Move]uint64 {
	result := make(map[Move]uint64)
	if depth == 0 {
		return result
	}
	mover := b.sideToMove
	for _, m := range b.GeneratePseudoMoves() {
		b.MakeMove(m)
		if !b.InCheck(mover) {
			result[m] = Perft(b, depth-1)
		}
		b.UnmakeMove(m)
	}
	return result
}

func fileDiff(a, c Square) int {
	d := a.File() - c.File()
	if d < 0 {
		return -d
	}
	return d
}

func rankDiff(a, c Square) int {
	d := a.Rank() - c.Rank()
	if d < 0 {
		return -d
	}
	return d
}
