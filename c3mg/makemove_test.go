package c3mg

import "testing"

// snapshot captures every externally visible field for bit-identity checks.
type snapshot struct {
	fen         string
	key         uint64
	historySize int
	halfmove    int
	fullmove    int
}

func snap(b *Board) snapshot {
	return snapshot{
		fen:         b.ToFEN(),
		key:         b.Hash(),
		historySize: b.HistorySize(),
		halfmove:    b.HalfmoveClock(),
		fullmove:    b.FullmoveNumber(),
	}
}

func TestMakeUnmakeRestoresPosition(t *testing.T) {
	fens := []string{
		FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"k7/8/8/3pP3/8/8/8/7K w - d6 0 2",
		"1n5k/P7/8/8/8/8/8/7K w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	}

	for _, fen := range fens {
		board, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q) failed: %v", fen, err)
		}

		before := snap(board)
		for _, move := range board.GeneratePseudoMoves() {
			board.MakeMove(move)

			if board.Hash() != board.ComputeZobrist() {
				t.Fatalf("%q: key drifted after make %s", fen, move)
			}
			if !board.Validate() {
				t.Fatalf("%q: board desynced after make %s", fen, move)
			}

			board.UnmakeMove(move)

			if after := snap(board); after != before {
				t.Fatalf("%q: make/unmake %s not identity:\nbefore %+v\nafter  %+v", fen, move, before, after)
			}
		}
	}
}

func TestMakeMoveKeyStaysIncremental(t *testing.T) {
	// Replay a game featuring castling, captures and a double push,
	// verifying the incremental key against a full recompute at every ply.
	board, err := ParseFEN(FENStartPos)
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	line := []string{
		"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "g8f6",
		"e1g1", "f6e4", "f1e1", "e4d6", "f3e5", "f8e7",
		"b5f1", "d6f5", "e5f3", "e8g8",
	}

	for _, text := range line {
		move := findMoveByString(t, board, text)
		board.MakeMove(move)

		if board.Hash() != board.ComputeZobrist() {
			t.Fatalf("key drifted after %s", text)
		}
		if !board.Validate() {
			t.Fatalf("board desynced after %s", text)
		}
	}
}

func TestMakeMoveCastlingMovesRook(t *testing.T) {
	board, err := ParseFEN("r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	move := findMoveByString(t, board, "e1g1")
	if !move.IsCastling() {
		t.Fatalf("e1g1 should be flagged castling")
	}
	board.MakeMove(move)

	if board.PieceAt(5) != WhiteRook { // f1
		t.Fatalf("rook not on f1 after O-O, got %v", board.PieceAt(5))
	}
	if board.PieceAt(7) != NoPiece { // h1
		t.Fatalf("h1 should be empty after O-O")
	}
	if board.CastlingRights().Has(CastlingWhiteK) || board.CastlingRights().Has(CastlingWhiteQ) {
		t.Fatalf("white castling rights should be gone")
	}

	board.UnmakeMove(move)
	if board.PieceAt(7) != WhiteRook || board.PieceAt(4) != WhiteKing {
		t.Fatalf("unmake did not restore king and rook")
	}
	if !board.CastlingRights().Has(CastlingWhiteK | CastlingWhiteQ) {
		t.Fatalf("unmake did not restore castling rights")
	}
}

func TestMakeMoveEnPassantCapture(t *testing.T) {
	board, err := ParseFEN("k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	move := findMoveByString(t, board, "e5d6")
	if !move.IsEnPassant() {
		t.Fatalf("e5d6 should be en passant")
	}

	capSq, ok := move.CaptureSquare()
	if !ok || capSq != 35 { // d5
		t.Fatalf("en passant capture square: got %v want d5", capSq)
	}

	board.MakeMove(move)
	if board.PieceAt(35) != NoPiece {
		t.Fatalf("captured pawn still on d5")
	}
	if board.PieceAt(43) != WhitePawn { // d6
		t.Fatalf("pawn not on d6 after en passant")
	}

	board.UnmakeMove(move)
	if board.PieceAt(35) != BlackPawn || board.PieceAt(36) != WhitePawn {
		t.Fatalf("unmake did not restore en passant capture")
	}
}

func TestMakeMovePromotion(t *testing.T) {
	board, err := ParseFEN("1n5k/P7/8/8/8/8/8/7K w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	// a7b8q captures the knight and promotes.
	move := findMoveByString(t, board, "a7b8q")
	board.MakeMove(move)

	if board.PieceAt(57) != WhiteQueen {
		t.Fatalf("b8 should hold a white queen, got %v", board.PieceAt(57))
	}
	if board.Count(WhitePawn) != 0 {
		t.Fatalf("pawn should be gone after promotion")
	}

	board.UnmakeMove(move)
	if board.PieceAt(48) != WhitePawn || board.PieceAt(57) != BlackKnight {
		t.Fatalf("unmake did not undo the promotion")
	}
}

func TestRookCaptureStripsCastlingRights(t *testing.T) {
	board, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	// Ra1xa8 takes black's queenside rook: both a-side rights must go.
	move := findMoveByString(t, board, "a1a8")
	board.MakeMove(move)

	rights := board.CastlingRights()
	if rights.Has(CastlingWhiteQ) {
		t.Fatalf("white queenside right should be gone after rook left a1")
	}
	if rights.Has(CastlingBlackQ) {
		t.Fatalf("black queenside right should be gone after a8 rook was captured")
	}
	if !rights.Has(CastlingWhiteK) || !rights.Has(CastlingBlackK) {
		t.Fatalf("kingside rights should survive")
	}
}

func TestNullMoveRoundTrip(t *testing.T) {
	board, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	before := snap(board)

	board.MakeNullMove()
	if board.SideToMove() != Black {
		t.Fatalf("null move should flip the side")
	}
	if board.Hash() != board.ComputeZobrist() {
		t.Fatalf("key drifted after null move")
	}
	if board.EnPassantSquare() != NoSquare {
		t.Fatalf("null move should clear the en passant square")
	}

	board.UnmakeNullMove()
	if after := snap(board); after != before {
		t.Fatalf("null move round trip not identity:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestFullmoveCounter(t *testing.T) {
	board, err := ParseFEN(FENStartPos)
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	e2e4 := findMoveByString(t, board, "e2e4")
	board.MakeMove(e2e4)
	if board.FullmoveNumber() != 1 {
		t.Fatalf("fullmove after white's move: got %d want 1", board.FullmoveNumber())
	}

	e7e5 := findMoveByString(t, board, "e7e5")
	board.MakeMove(e7e5)
	if board.FullmoveNumber() != 2 {
		t.Fatalf("fullmove after black's move: got %d want 2", board.FullmoveNumber())
	}

	board.UnmakeMove(e7e5)
	if board.FullmoveNumber() != 1 {
		t.Fatalf("fullmove after unmake: got %d want 1", board.FullmoveNumber())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	board, err := ParseFEN(FENStartPos)
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	board.MakeMove(findMoveByString(t, board, "e2e4"))

	clone := board.Clone()
	before := snap(board)

	if Perft(clone, 3) == 0 {
		t.Fatalf("perft on clone returned 0")
	}
	clone.MakeMove(findMoveByString(t, clone, "e7e5"))

	if after := snap(board); after != before {
		t.Fatalf("mutating the clone changed the original")
	}
}

// findMoveByString resolves long-algebraic text against the legal moves.
func findMoveByString(t *testing.T, b *Board, text string) Move {
	t.Helper()
	for _, move := range b.GenerateLegalMoves() {
		if move.String() == text {
			return move
		}
	}
	t.Fatalf("move %s not found in %s", text, b.ToFEN())
	return 0
}
