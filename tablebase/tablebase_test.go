package tablebase

import (
	"testing"

	"github.com/eddmann/c3/c3mg"
)

func TestConfigRoundTrip(t *testing.T) {
	t.Cleanup(func() {
		SetPath("")
		SetProbeDepth(1)
		SetUse50MoveRule(true)
		SetProbeLimit(6)
	})

	SetPath("/data/syzygy")
	if Path() != "/data/syzygy" {
		t.Fatalf("path: got %q", Path())
	}

	SetProbeDepth(4)
	if ProbeDepth() != 4 {
		t.Fatalf("probe depth: got %d", ProbeDepth())
	}

	SetUse50MoveRule(false)
	if Use50MoveRule() {
		t.Fatalf("50-move rule should be off")
	}

	SetProbeLimit(7)
	if ProbeLimit() != 7 {
		t.Fatalf("probe limit: got %d", ProbeLimit())
	}
}

func TestWdlCentipawns(t *testing.T) {
	cases := map[WdlResult]int32{
		Win:         10_000,
		CursedWin:   50,
		Draw:        0,
		BlessedLoss: -50,
		Loss:        -10_000,
	}
	for wdl, want := range cases {
		if got := wdl.Centipawns(); got != want {
			t.Fatalf("%d: got %d want %d", wdl, got, want)
		}
	}
}

func TestIsProbeable(t *testing.T) {
	t.Cleanup(func() { SetProbeLimit(6) })
	SetProbeLimit(6)

	endgame, err := c3mg.ParseFEN("8/8/8/8/8/3k4/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	if !IsProbeable(endgame) {
		t.Fatalf("three-man position without castling should be probeable")
	}
	if CountPieces(endgame) != 3 {
		t.Fatalf("piece count: got %d want 3", CountPieces(endgame))
	}

	castling, err := c3mg.ParseFEN("8/8/8/8/8/3k4/8/R3K3 w Q - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	if IsProbeable(castling) {
		t.Fatalf("castling rights make a position unprobeable")
	}

	full, err := c3mg.ParseFEN(c3mg.FENStartPos)
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	if IsProbeable(full) {
		t.Fatalf("32 pieces exceed the probe limit")
	}
}

func TestShouldProbeHonoursDepth(t *testing.T) {
	t.Cleanup(func() { SetProbeDepth(1) })
	SetProbeDepth(3)

	endgame, err := c3mg.ParseFEN("8/8/8/8/8/3k4/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	if ShouldProbe(endgame, 2) {
		t.Fatalf("remaining depth below the threshold must not probe")
	}
	if !ShouldProbe(endgame, 3) {
		t.Fatalf("remaining depth at the threshold should probe")
	}
}

func TestDefaultTablebaseIsUnavailable(t *testing.T) {
	tb := Get()

	if tb.IsAvailable() {
		t.Fatalf("default tablebase should be unavailable")
	}
	if tb.Init("/nowhere") {
		t.Fatalf("default tablebase cannot initialise")
	}

	endgame, err := c3mg.ParseFEN("8/8/8/8/8/3k4/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	if _, ok := tb.ProbeWDL(endgame); ok {
		t.Fatalf("default tablebase must miss on WDL probes")
	}
	if _, ok := tb.ProbeDTZ(endgame); ok {
		t.Fatalf("default tablebase must miss on DTZ probes")
	}
}

func TestSwappableInstance(t *testing.T) {
	t.Cleanup(Reset)

	Set(fakeTablebase{})
	if !Get().IsAvailable() {
		t.Fatalf("swapped instance should be used")
	}

	Reset()
	if Get().IsAvailable() {
		t.Fatalf("reset should restore the unavailable default")
	}
}

type fakeTablebase struct{}

func (fakeTablebase) Init(string) bool  { return true }
func (fakeTablebase) Free()             {}
func (fakeTablebase) IsAvailable() bool { return true }
func (fakeTablebase) MaxPieces() uint8  { return 6 }
func (fakeTablebase) ProbeWDL(*c3mg.Board) (WdlResult, bool) {
	return Draw, true
}
func (fakeTablebase) ProbeDTZ(*c3mg.Board) (DtzResult, bool) {
	return DtzResult{Wdl: Draw}, true
}
func (fakeTablebase) ProbeRoot(*c3mg.Board, []c3mg.Move) ([]RootMove, bool) {
	return nil, false
}
