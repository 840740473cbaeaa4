package c3mg

import "testing"

// shuffle bounces both knights out and back; each round trip returns to the
// same position with four more plies on the clock.
func shuffleKnights(t *testing.T, b *Board, rounds int) {
	t.Helper()
	for i := 0; i < rounds; i++ {
		for _, text := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
			b.MakeMove(findMoveByString(t, b, text))
		}
	}
}

func TestRepetitionOutsideSearchNeedsThreefold(t *testing.T) {
	board, err := ParseFEN(FENStartPos)
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	// One return to the start position: twofold only.
	shuffleKnights(t, board, 1)
	if board.IsRepetitionDraw(0) {
		t.Fatalf("twofold should not be a draw outside the search window")
	}

	// Second return: true threefold.
	shuffleKnights(t, board, 1)
	if !board.IsRepetitionDraw(0) {
		t.Fatalf("threefold should be a draw")
	}
}

func TestRepetitionInsideSearchWindowIsImmediate(t *testing.T) {
	board, err := ParseFEN(FENStartPos)
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	// A single repetition counts as a draw when it happened within the
	// current search (prevents the searcher from cycling).
	shuffleKnights(t, board, 1)
	if !board.IsRepetitionDraw(8) {
		t.Fatalf("single repetition inside the search window should be a draw")
	}
	if board.IsRepetitionDraw(3) {
		t.Fatalf("the match at distance 3 lies outside a 3-ply search window")
	}
}

func TestRepetitionResetByPawnMove(t *testing.T) {
	board, err := ParseFEN(FENStartPos)
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	shuffleKnights(t, board, 2)
	if !board.IsRepetitionDraw(0) {
		t.Fatalf("precondition: threefold reached")
	}

	// A pawn move zeroes the halfmove clock, killing older repetitions.
	board.MakeMove(findMoveByString(t, board, "e2e4"))
	if board.IsRepetitionDraw(0) {
		t.Fatalf("pawn move should reset repetition tracking")
	}
}

func TestFiftyMoveDraw(t *testing.T) {
	board, err := ParseFEN("8/8/8/8/8/3k4/8/R3K3 w - - 100 50")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	if !board.IsFiftyMoveDraw() {
		t.Fatalf("halfmove clock 100 is a fifty-move draw")
	}

	fresh, err := ParseFEN("8/8/8/8/8/3k4/8/R3K3 w - - 99 50")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	if fresh.IsFiftyMoveDraw() {
		t.Fatalf("halfmove clock 99 is not yet a draw")
	}
}
