package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eddmann/c3/c3mg"
	"github.com/eddmann/c3/engine"
	"github.com/eddmann/c3/tablebase"
)

// searchHandle tracks the one in-flight search worker. The stop flag is
// shared with the worker; Stop sets it and waits for the worker to emit its
// bestmove and exit.
type searchHandle struct {
	stop *atomic.Bool
	done chan struct{}
}

func (h *searchHandle) Stop() {
	if h.stop == nil {
		return
	}
	h.stop.Store(true)
	<-h.done
	h.stop = nil
	h.done = nil
}

// Run drives the UCI session: the reader stays on the calling goroutine and
// each "go" command spawns a dedicated search worker that owns a copy of the
// position. Returns when "quit" arrives or the input reaches EOF.
func Run(in io.Reader, out io.Writer) {
	board := c3mg.StartPos()
	tt := engine.NewTransTable()
	var handle searchHandle
	var outMu sync.Mutex

	writeLine := func(format string, args ...any) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintf(out, format+"\n", args...)
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			writeLine("error: %v", err)
			continue
		}

		switch cmd.Type {
		case CommandInit:
			writeLine("id name %s", EngineName)
			writeLine("id author %s", EngineAuthor)
			writeLine("option name Hash type spin default %d min %d max %d",
				engine.TTDefaultSizeMB, engine.TTMinSizeMB, engine.TTMaxSizeMB)
			writeLine("option name SyzygyPath type string default <empty>")
			writeLine("option name SyzygyProbeDepth type spin default 1 min 1 max 100")
			writeLine("option name Syzygy50MoveRule type check default true")
			writeLine("option name SyzygyProbeLimit type spin default 6 min 0 max 7")
			writeLine("uciok")

		case CommandIsReady:
			writeLine("readyok")

		case CommandNewGame:
			handle.Stop()
			board = c3mg.StartPos()
			tt.Clear()

		case CommandPrintBoard, CommandPrintFen:
			writeLine("%s", board.ToFEN())

		case CommandEval:
			writeLine("eval: %d", engine.Evaluate(board))

		case CommandZobrist:
			writeLine("zobrist: %#018x", board.Hash())

		case CommandPerft:
			copied := board.Clone()
			started := time.Now()
			nodes := c3mg.Perft(copied, cmd.PerftDepth)
			elapsed := time.Since(started).Milliseconds()
			if elapsed < 1 {
				elapsed = 1
			}

			writeLine("")
			writeLine("nodes: %d", nodes)
			writeLine("time: %d ms", elapsed)
			writeLine("nps: %d", nodes*1000/uint64(elapsed))
			writeLine("")

		case CommandDoMove:
			move, err := ToEngineMove(*cmd.Move, board)
			if err != nil {
				writeLine("error: %v", err)
				continue
			}
			board.MakeMove(move)

		case CommandPosition:
			handle.Stop()
			newBoard, err := ApplyPositionCommand(cmd.Position)
			if err != nil {
				writeLine("error: %v", err)
				continue
			}
			board = newBoard

		case CommandGo:
			handle.Stop()

			limits := goLimits(cmd.Go, board.SideToMove())

			stop := &atomic.Bool{}
			done := make(chan struct{})
			searchBoard := board.Clone()

			go func() {
				defer close(done)

				reporter := NewReporter(out, &outMu)
				engine.SearchWithTable(searchBoard, limits, reporter, tt, stop)

				outMu.Lock()
				defer outMu.Unlock()
				if best, ok := reporter.BestMove(); ok {
					fmt.Fprintf(out, "bestmove %s\n", best)
				} else {
					fmt.Fprintln(out, "bestmove (none)")
				}
			}()

			handle.stop = stop
			handle.done = done

		case CommandSetOption:
			if err := applyOption(cmd.Option, &handle, &tt); err != nil {
				writeLine("error: %v", err)
			}

		case CommandStop:
			handle.Stop()

		case CommandQuit:
			handle.Stop()
			return
		}
	}

	handle.Stop()
}

// goLimits translates go parameters into engine limits. An explicit movetime
// wins; otherwise the mover's clock and increment are converted into a
// budget.
func goLimits(params *GoParams, mover c3mg.Color) engine.Limits {
	limits := engine.Limits{Depth: params.Depth, Nodes: params.Nodes}

	if params.Infinite {
		return limits
	}

	if params.MoveTime > 0 {
		limits.MoveTime = params.MoveTime
		return limits
	}

	timeLeft, increment := params.WTime, params.WInc
	hasClock := params.HasWTime
	if mover == c3mg.Black {
		timeLeft, increment = params.BTime, params.BInc
		hasClock = params.HasBTime
	}

	if hasClock {
		allocated := CalculateAllocatedTime(timeLeft, increment)
		if allocated < time.Millisecond {
			allocated = time.Millisecond
		}
		limits.MoveTime = allocated
	}

	return limits
}

// applyOption executes a validated setoption command. The Hash option
// recreates the table, which is only safe between searches.
func applyOption(option *Option, handle *searchHandle, tt **engine.TransTable) error {
	switch option.Name {
	case "hash":
		sizeMB, err := strconv.ParseUint(option.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("could not parse value for 'hash' option")
		}
		handle.Stop()
		if err := engine.SetTTSizeMB(sizeMB); err != nil {
			return err
		}
		*tt = engine.NewTransTable()
	case "syzygypath":
		tablebase.SetPath(option.Value)
		tablebase.Get().Init(option.Value)
	case "syzygyprobedepth":
		depth, err := strconv.Atoi(option.Value)
		if err != nil {
			return fmt.Errorf("could not parse value for 'syzygyprobedepth' option")
		}
		tablebase.SetProbeDepth(uint8(depth))
	case "syzygy50moverule":
		tablebase.SetUse50MoveRule(option.Value == "true")
	case "syzygyprobelimit":
		limit, err := strconv.Atoi(option.Value)
		if err != nil {
			return fmt.Errorf("could not parse value for 'syzygyprobelimit' option")
		}
		tablebase.SetProbeLimit(uint8(limit))
	}
	return nil
}
