package uci

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/eddmann/c3/engine"
)

// Reporter serialises search reports as UCI "info" lines and remembers the
// latest best move for the final "bestmove" line. The output mutex is shared
// with the command loop so info lines never interleave with replies.
type Reporter struct {
	out io.Writer
	mu  *sync.Mutex

	bestMove    UCIMove
	hasBestMove bool
}

// NewReporter wraps an output stream; mu may be nil when no other writer
// shares the stream.
func NewReporter(out io.Writer, mu *sync.Mutex) *Reporter {
	return &Reporter{out: out, mu: mu}
}

// Send writes one info line for a completed iteration.
func (r *Reporter) Send(report *engine.Report) {
	elapsedMS := report.Elapsed().Milliseconds()
	safeElapsed := elapsedMS
	if safeElapsed < 1 {
		safeElapsed = 1
	}
	nps := report.Nodes * 1000 / uint64(safeElapsed)

	var hashfull uint64
	if report.TTCapacity > 0 {
		hashfull = report.TTUsage * 1000 / report.TTCapacity
	}

	info := []string{
		fmt.Sprintf("depth %d", report.Depth),
		fmt.Sprintf("nodes %d", report.Nodes),
		fmt.Sprintf("nps %d", nps),
		fmt.Sprintf("hashfull %d", hashfull),
		fmt.Sprintf("time %d", elapsedMS),
	}

	if report.HasPV {
		info = append(info, scoreString(report))

		if len(report.PV) > 0 {
			parts := make([]string, len(report.PV))
			for i, move := range report.PV {
				parts[i] = FromMove(move).String()
			}
			info = append(info, "pv "+strings.Join(parts, " "))

			r.bestMove = FromMove(report.PV[0])
			r.hasBestMove = true
		}
	}

	line := "info " + strings.Join(info, " ")

	if r.mu != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	fmt.Fprintln(r.out, line)
}

// BestMove returns the first move of the last reported PV.
func (r *Reporter) BestMove() (UCIMove, bool) {
	return r.bestMove, r.hasBestMove
}

// scoreString renders "score cp X" or, for mate scores, "score mate ±N" with
// N in full moves (ceil of plies to mate / 2).
func scoreString(report *engine.Report) string {
	if pliesToMate, ok := report.MovesUntilMate(); ok {
		movesToMate := (int(pliesToMate) + 1) / 2
		if report.Score < 0 {
			movesToMate = -movesToMate
		}
		return fmt.Sprintf("score mate %d", movesToMate)
	}
	return fmt.Sprintf("score cp %d", report.Score)
}
