package c3mg

// MakeMove applies a move to the board, updating the Zobrist key
// incrementally by XORing old contributions out and new ones in. The move is
// assumed pseudo-legal; no king-safety check happens here. Callers make the
// move, test InCheck for the mover, and unmake if it fails.
func (b *Board) MakeMove(m Move) {
	// Save state that cannot be derived from the move alone.
	b.history = append(b.history, HistoryEntry{
		castlingRights:  b.castlingRights,
		enPassantSquare: b.enPassantSquare,
		halfmoveClock:   b.halfmoveClock,
		key:             b.zobristKey,
	})
	prevCastling := b.castlingRights

	// The old en-passant file leaves the key only if it was ever in it,
	// which is the case exactly when a pawn could capture to the square.
	if b.enPassantSquare != NoSquare &&
		b.EnPassantSources(b.enPassantSquare, b.sideToMove) != 0 {
		b.zobristKey ^= zobristEnPassant[b.enPassantSquare.File()]
	}

	b.enPassantSquare = NoSquare
	b.halfmoveClock++

	if capSq, ok := m.CaptureSquare(); ok {
		b.halfmoveClock = 0
		b.removePiece(capSq)
		b.zobristKey ^= zobristPieceSquare[m.CapturedPiece().Index()][capSq]
	}

	piece := m.MovedPiece()
	from, to := m.From(), m.To()

	if piece.Type() == PieceTypePawn {
		b.halfmoveClock = 0

		if rankDiff(from, to) == 2 {
			ep := from.Advance(b.sideToMove)
			b.enPassantSquare = ep

			if b.EnPassantSources(ep, b.sideToMove.Opponent()) != 0 {
				b.zobristKey ^= zobristEnPassant[ep.File()]
			}
		}
	}

	if piece.Type() == PieceTypeKing {
		b.castlingRights.RemoveForColour(b.sideToMove)

		if m.IsCastling() {
			rookPiece := PieceFromType(b.sideToMove, PieceTypeRook)
			rank := to.Rank()

			var rookFrom, rookTo Square
			if to.File() == 2 { // c1 / c8
				rookFrom, rookTo = SquareFromFileRank(0, rank), SquareFromFileRank(3, rank)
			} else { // g1 / g8
				rookFrom, rookTo = SquareFromFileRank(7, rank), SquareFromFileRank(5, rank)
			}

			b.putPiece(rookPiece, rookTo)
			b.removePiece(rookFrom)
			b.zobristKey ^= zobristPieceSquare[rookPiece.Index()][rookTo]
			b.zobristKey ^= zobristPieceSquare[rookPiece.Index()][rookFrom]
		}
	}

	// Corner squares carry castling rights; moving from or to one (the
	// latter handles rook captures) strips the corresponding right.
	if from.IsCorner() {
		b.castlingRights.RemoveForCornerSquare(from)
	}
	if to.IsCorner() {
		b.castlingRights.RemoveForCornerSquare(to)
	}

	b.zobristKey ^= zobristCastle[int(b.castlingRights)]
	b.zobristKey ^= zobristCastle[int(prevCastling)]

	toPiece := piece
	if promo := m.PromotionPiece(); promo != NoPiece {
		toPiece = promo
	}
	b.putPiece(toPiece, to)
	b.removePiece(from)

	b.zobristKey ^= zobristPieceSquare[toPiece.Index()][to]
	b.zobristKey ^= zobristPieceSquare[piece.Index()][from]

	if b.sideToMove == Black {
		b.fullmoveNumber++
	}

	b.sideToMove = b.sideToMove.Opponent()
	b.zobristKey ^= zobristSide
}

// UnmakeMove undoes a previously made move, restoring the exact prior state.
// The key is restored from the history entry rather than recomputed.
func (b *Board) UnmakeMove(m Move) {
	n := len(b.history)
	entry := b.history[n-1]
	b.history = b.history[:n-1]

	b.castlingRights = entry.castlingRights
	b.enPassantSquare = entry.enPassantSquare
	b.halfmoveClock = entry.halfmoveClock
	b.zobristKey = entry.key

	piece := m.MovedPiece()
	from, to := m.From(), m.To()

	if m.IsCastling() {
		rookPiece := PieceFromType(piece.Color(), PieceTypeRook)
		rank := to.Rank()

		var rookFrom, rookTo Square
		if to.File() == 2 {
			rookFrom, rookTo = SquareFromFileRank(3, rank), SquareFromFileRank(0, rank)
		} else {
			rookFrom, rookTo = SquareFromFileRank(5, rank), SquareFromFileRank(7, rank)
		}

		b.putPiece(rookPiece, rookTo)
		b.removePiece(rookFrom)
	}

	b.removePiece(to)
	b.putPiece(piece, from)

	if capSq, ok := m.CaptureSquare(); ok {
		b.putPiece(m.CapturedPiece(), capSq)
	}

	b.sideToMove = b.sideToMove.Opponent()

	if b.sideToMove == Black {
		b.fullmoveNumber--
	}
}

// MakeNullMove passes the turn without moving a piece: history is pushed, the
// en-passant square cleared (XORing its file out when capturable), clocks
// advanced, and the side flipped. Used only by null-move pruning.
func (b *Board) MakeNullMove() {
	b.history = append(b.history, HistoryEntry{
		castlingRights:  b.castlingRights,
		enPassantSquare: b.enPassantSquare,
		halfmoveClock:   b.halfmoveClock,
		key:             b.zobristKey,
	})

	if b.enPassantSquare != NoSquare &&
		b.EnPassantSources(b.enPassantSquare, b.sideToMove) != 0 {
		b.zobristKey ^= zobristEnPassant[b.enPassantSquare.File()]
	}

	b.enPassantSquare = NoSquare
	b.halfmoveClock++

	if b.sideToMove == Black {
		b.fullmoveNumber++
	}

	b.sideToMove = b.sideToMove.Opponent()
	b.zobristKey ^= zobristSide
}

// UnmakeNullMove restores the board to the state prior to MakeNullMove.
func (b *Board) UnmakeNullMove() {
	n := len(b.history)
	entry := b.history[n-1]
	b.history = b.history[:n-1]

	b.castlingRights = entry.castlingRights
	b.enPassantSquare = entry.enPassantSquare
	b.halfmoveClock = entry.halfmoveClock
	b.zobristKey = entry.key

	b.sideToMove = b.sideToMove.Opponent()

	if b.sideToMove == Black {
		b.fullmoveNumber--
	}
}

// IsRepetitionDraw walks backwards over the history stack looking for earlier
// positions with the same key. Only entries at odd distances (same side to
// move) and distance >= 3 qualify. Within the current search window
// (distance < searchPly) a single match is a draw, which keeps the searcher
// from cycling; outside it two matches are required for a true threefold.
func (b *Board) IsRepetitionDraw(searchPly int) bool {
	counter := 0
	limit := b.halfmoveClock
	if len(b.history) < limit {
		limit = len(b.history)
	}

	for distance := 3; distance < limit; distance++ {
		if distance%2 == 0 {
			continue
		}

		entry := b.history[len(b.history)-1-distance]
		if entry.key != b.zobristKey {
			continue
		}

		if distance < searchPly {
			return true
		}

		counter++
		if counter == 2 {
			return true
		}
	}

	return false
}
