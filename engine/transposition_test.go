package engine

import (
	"testing"

	"github.com/eddmann/c3/c3mg"
)

func newSmallTable(t *testing.T) *TransTable {
	t.Helper()
	if err := SetTTSizeMB(1); err != nil {
		t.Fatalf("SetTTSizeMB failed: %v", err)
	}
	t.Cleanup(func() { _ = SetTTSizeMB(TTDefaultSizeMB) })
	return NewTransTable()
}

func TestTransTableStoreProbeRoundTrip(t *testing.T) {
	tt := newSmallTable(t)

	move := c3mg.NewMove(12, 28, c3mg.WhitePawn, c3mg.NoPiece, c3mg.NoPiece, c3mg.FlagNone)
	tt.Store(0xDEADBEEF, 7, 123, ExactBound, move)

	entry, ok := tt.Probe(0xDEADBEEF)
	if !ok {
		t.Fatalf("probe missed a stored key")
	}
	if entry.Key != 0xDEADBEEF || entry.Depth != 7 || entry.Score != 123 ||
		entry.Bound != ExactBound || entry.Move != move {
		t.Fatalf("entry fields mangled: %+v", entry)
	}

	if _, ok := tt.Probe(0xCAFEBABE); ok {
		t.Fatalf("probe hit an unknown key")
	}
}

func TestTransTableDeeperIsBetterReplacement(t *testing.T) {
	tt := newSmallTable(t)

	// Two keys mapping to the same slot: same low bits.
	keyA := uint64(0x1000000000000001)
	keyB := keyA + tt.Capacity()

	tt.Store(keyA, 9, 50, ExactBound, 0)
	tt.Store(keyB, 3, -20, LowerBound, 0)

	if entry, ok := tt.Probe(keyA); !ok || entry.Depth != 9 {
		t.Fatalf("shallower write should not evict the deeper entry")
	}
	if _, ok := tt.Probe(keyB); ok {
		t.Fatalf("keyB should have been rejected")
	}

	tt.Store(keyB, 9, -20, LowerBound, 0)
	if entry, ok := tt.Probe(keyB); !ok || entry.Score != -20 {
		t.Fatalf("equal depth should replace")
	}
}

func TestTransTableUsageAndClear(t *testing.T) {
	tt := newSmallTable(t)

	if tt.Usage() != 0 {
		t.Fatalf("fresh table should be empty")
	}

	tt.Store(0x11, 1, 0, ExactBound, 0)
	tt.Store(0x12, 1, 0, ExactBound, 0)
	if tt.Usage() != 2 {
		t.Fatalf("usage: got %d want 2", tt.Usage())
	}

	// Overwriting an occupied slot does not grow usage.
	tt.Store(0x11+tt.Capacity(), 5, 0, ExactBound, 0)
	if tt.Usage() != 2 {
		t.Fatalf("usage after replacement: got %d want 2", tt.Usage())
	}

	tt.Clear()
	if tt.Usage() != 0 {
		t.Fatalf("usage after clear: got %d", tt.Usage())
	}
	if _, ok := tt.Probe(0x12); ok {
		t.Fatalf("clear should drop all entries")
	}
}

func TestTransTableCapacityIsPowerOfTwo(t *testing.T) {
	tt := newSmallTable(t)
	if tt.Capacity() == 0 || tt.Capacity()&(tt.Capacity()-1) != 0 {
		t.Fatalf("capacity %d is not a power of two", tt.Capacity())
	}
}

func TestSetTTSizeMBBounds(t *testing.T) {
	if err := SetTTSizeMB(0); err == nil {
		t.Fatalf("size 0 should be rejected")
	}
	if err := SetTTSizeMB(4097); err == nil {
		t.Fatalf("size 4097 should be rejected")
	}
	if err := SetTTSizeMB(1); err != nil {
		t.Fatalf("size 1 should be accepted: %v", err)
	}
	if err := SetTTSizeMB(4096); err != nil {
		t.Fatalf("size 4096 should be accepted: %v", err)
	}
	_ = SetTTSizeMB(TTDefaultSizeMB)
}

func TestMateScoreNormalisationRoundTrip(t *testing.T) {
	// eval_out(eval_in(s, p), p) == s for every ply and non-mate magnitude,
	// and for mate scores below the cap.
	scores := []int32{0, 1, -1, 400, -400, MateThreshold - 1, -(MateThreshold - 1),
		MateScore - 300, -(MateScore - 300), MateScore - 30, -(MateScore - 30)}

	for ply := 0; ply <= 255; ply++ {
		p := uint8(ply)
		for _, s := range scores {
			if got := evalOut(evalIn(s, p), p); got != s {
				t.Fatalf("ply %d score %d: round trip gave %d", ply, s, got)
			}
		}
	}
}

func TestMateScoreNormalisationShifts(t *testing.T) {
	mate := MateScore - 4 // mate in 4 plies from the root

	if got := evalIn(mate, 6); got != mate+6 {
		t.Fatalf("mate store adjust: got %d want %d", got, mate+6)
	}
	if got := evalIn(-mate, 6); got != -mate-6 {
		t.Fatalf("mated store adjust: got %d want %d", got, -mate-6)
	}
	if got := evalIn(250, 6); got != 250 {
		t.Fatalf("non-mate scores must pass through, got %d", got)
	}
}
