package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dylhunn/dragontoothmg"

	"github.com/eddmann/c3/c3mg"
)

func main() {
	fen := flag.String("fen", c3mg.FENStartPos, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	compare := flag.Bool("compare", false, "Cross-check node counts against dragontoothmg")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	board, err := c3mg.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ParseFEN error: %v\n", err)
		os.Exit(2)
	}

	if *divide {
		div := c3mg.PerftDivide(board, *depth)
		type kv struct {
			m c3mg.Move
			n uint64
		}
		arr := make([]kv, 0, len(div))
		var sum uint64
		for m, n := range div {
			arr = append(arr, kv{m, n})
			sum += n
		}
		// Sort moves for stable output
		sort.Slice(arr, func(i, j int) bool { return arr[i].m.String() < arr[j].m.String() })
		for _, x := range arr {
			fmt.Printf("%s: %d\n", x.m.String(), x.n)
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	start := time.Now()
	nodes := c3mg.Perft(board, *depth)
	elapsed := time.Since(start)
	nps := float64(nodes) / elapsed.Seconds()

	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, nodes, elapsed, nps)

	if *compare {
		reference := dragontoothmg.ParseFen(*fen)
		refNodes := referencePerft(&reference, *depth)
		if refNodes == nodes {
			fmt.Printf("reference agrees: %d\n", refNodes)
		} else {
			fmt.Printf("MISMATCH: reference counts %d\n", refNodes)
			os.Exit(1)
		}
	}
}

// referencePerft walks dragontoothmg's legal move generator to the same
// depth, giving an independent node count to diff against.
func referencePerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var nodes uint64
	for _, move := range b.GenerateLegalMoves() {
		unapply := b.Apply(move)
		nodes += referencePerft(b, depth-1)
		unapply()
	}
	return nodes
}
