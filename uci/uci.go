// Package uci implements the UCI protocol front-end: command parsing, the
// stdio loop with its search worker, and the info-line reporter. The engine
// core executes; this package only translates.
package uci

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/eddmann/c3/c3mg"
)

// Engine identity, advertised on the "uci" handshake.
const (
	EngineName   = "c3"
	EngineAuthor = "Edd Mann"
)

// CommandType discriminates parsed UCI commands.
type CommandType uint8

const (
	CommandInit CommandType = iota
	CommandIsReady
	CommandNewGame
	CommandPrintBoard
	CommandPrintFen
	CommandEval
	CommandZobrist
	CommandPerft
	CommandDoMove
	CommandPosition
	CommandGo
	CommandSetOption
	CommandStop
	CommandQuit
)

// UCIMove is a move in wire format: from/to squares plus an optional
// promotion piece. Castling is the king's two-square move; en passant is the
// pawn's diagonal move.
type UCIMove struct {
	From      c3mg.Square
	To        c3mg.Square
	Promotion c3mg.Piece
}

// PositionCommand carries a validated FEN plus the moves to apply on top.
type PositionCommand struct {
	FEN   string
	Moves []UCIMove
}

// GoParams carries the search limits from a "go" command. Depth is -1 when
// absent; zero durations mean the field was absent.
type GoParams struct {
	Depth    int
	Nodes    uint64
	MoveTime time.Duration
	WTime    time.Duration
	BTime    time.Duration
	WInc     time.Duration
	BInc     time.Duration
	HasWTime bool
	HasBTime bool
	Infinite bool
}

// Option is a parsed "setoption" command with a lowercased name.
type Option struct {
	Name  string
	Value string
}

// Command is one parsed UCI command.
type Command struct {
	Type       CommandType
	Position   *PositionCommand
	Go         *GoParams
	Option     *Option
	PerftDepth int
	Move       *UCIMove
}

// ParseUCIMove parses long-algebraic move text: 4 characters
// [a-h][1-8][a-h][1-8] plus an optional promotion character n|b|r|q
// (case-insensitive).
func ParseUCIMove(str string) (UCIMove, error) {
	if len(str) != 4 && len(str) != 5 {
		return UCIMove{}, fmt.Errorf("invalid UCI move: %s", str)
	}

	from, okFrom := c3mg.ParseSquare(str[0:2])
	to, okTo := c3mg.ParseSquare(str[2:4])
	if !okFrom || !okTo {
		return UCIMove{}, fmt.Errorf("invalid UCI move: %s", str)
	}

	promotion := c3mg.NoPiece
	if len(str) == 5 {
		// The promotion piece's colour follows from the target rank.
		colour := c3mg.White
		if to.Rank() == 0 {
			colour = c3mg.Black
		}

		switch str[4] | 0x20 {
		case 'n':
			promotion = c3mg.PieceFromType(colour, c3mg.PieceTypeKnight)
		case 'b':
			promotion = c3mg.PieceFromType(colour, c3mg.PieceTypeBishop)
		case 'r':
			promotion = c3mg.PieceFromType(colour, c3mg.PieceTypeRook)
		case 'q':
			promotion = c3mg.PieceFromType(colour, c3mg.PieceTypeQueen)
		default:
			return UCIMove{}, fmt.Errorf("invalid promotion in move: %s", str)
		}
	}

	return UCIMove{From: from, To: to, Promotion: promotion}, nil
}

// String renders the move back to wire format.
func (m UCIMove) String() string {
	out := m.From.String() + m.To.String()
	if m.Promotion != c3mg.NoPiece {
		switch m.Promotion.Type() {
		case c3mg.PieceTypeKnight:
			out += "n"
		case c3mg.PieceTypeBishop:
			out += "b"
		case c3mg.PieceTypeRook:
			out += "r"
		case c3mg.PieceTypeQueen:
			out += "q"
		}
	}
	return out
}

// FromMove converts an engine move to wire format.
func FromMove(m c3mg.Move) UCIMove {
	return UCIMove{From: m.From(), To: m.To(), Promotion: m.PromotionPiece()}
}

// ParseCommand parses one line of UCI input.
func ParseCommand(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	head, args := parts[0], parts[1:]

	switch head {
	case "uci":
		return Command{Type: CommandInit}, nil
	case "isready":
		return Command{Type: CommandIsReady}, nil
	case "ucinewgame":
		return Command{Type: CommandNewGame}, nil
	case "printboard":
		return Command{Type: CommandPrintBoard}, nil
	case "printfen":
		return Command{Type: CommandPrintFen}, nil
	case "eval":
		return Command{Type: CommandEval}, nil
	case "zobrist":
		return Command{Type: CommandZobrist}, nil
	case "perft":
		if len(args) == 0 {
			return Command{}, fmt.Errorf("missing depth")
		}
		depth, err := parseBoundedInt("depth", args[0], 0, 255)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: CommandPerft, PerftDepth: depth}, nil
	case "domove":
		if len(args) == 0 {
			return Command{}, fmt.Errorf("missing move")
		}
		move, err := ParseUCIMove(args[0])
		if err != nil {
			return Command{}, err
		}
		return Command{Type: CommandDoMove, Move: &move}, nil
	case "position":
		position, err := parsePosition(args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: CommandPosition, Position: position}, nil
	case "go":
		goParams, err := parseGo(args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: CommandGo, Go: goParams}, nil
	case "setoption":
		option, err := parseSetOption(args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: CommandSetOption, Option: option}, nil
	case "stop":
		return Command{Type: CommandStop}, nil
	case "quit":
		return Command{Type: CommandQuit}, nil
	default:
		return Command{}, fmt.Errorf("unknown command '%s'", head)
	}
}

func parseBoundedInt(attr, value string, low, high int) (int, error) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < low || parsed > high {
		return 0, fmt.Errorf("invalid value for '%s' attribute", attr)
	}
	return parsed, nil
}

func parseDuration(attr, value string) (time.Duration, error) {
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for '%s' attribute", attr)
	}
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func parsePosition(args []string) (*PositionCommand, error) {
	const (
		tokenNone = iota
		tokenFen
		tokenMove
	)

	token := tokenNone
	var fenParts []string
	var moves []UCIMove

	for _, arg := range args {
		switch arg {
		case "fen":
			token = tokenFen
			continue
		case "moves":
			token = tokenMove
			continue
		case "startpos":
			fenParts = strings.Fields(c3mg.FENStartPos)
			continue
		}

		switch token {
		case tokenFen:
			fenParts = append(fenParts, arg)
		case tokenMove:
			move, err := ParseUCIMove(arg)
			if err != nil {
				return nil, err
			}
			moves = append(moves, move)
		}
	}

	if len(fenParts) == 0 {
		return nil, fmt.Errorf("missing FEN in position command")
	}

	fen := strings.Join(fenParts, " ")
	if _, err := c3mg.ParseFEN(fen); err != nil {
		return nil, err
	}

	return &PositionCommand{FEN: fen, Moves: moves}, nil
}

func parseGo(args []string) (*GoParams, error) {
	params := &GoParams{Depth: -1}

	for i := 0; i < len(args); {
		attr := args[i]

		if attr == "infinite" {
			params.Infinite = true
			return params, nil
		}

		if i+1 >= len(args) {
			return nil, fmt.Errorf("missing value for '%s' attribute", attr)
		}
		value := args[i+1]

		switch attr {
		case "depth":
			depth, err := parseBoundedInt(attr, value, 0, 255)
			if err != nil {
				return nil, err
			}
			params.Depth = depth
		case "nodes":
			nodes, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid value for 'nodes' attribute")
			}
			params.Nodes = nodes
		case "movetime":
			d, err := parseDuration(attr, value)
			if err != nil {
				return nil, err
			}
			params.MoveTime = d
		case "wtime":
			d, err := parseDuration(attr, value)
			if err != nil {
				return nil, err
			}
			params.WTime = d
			params.HasWTime = true
		case "btime":
			d, err := parseDuration(attr, value)
			if err != nil {
				return nil, err
			}
			params.BTime = d
			params.HasBTime = true
		case "winc":
			d, err := parseDuration(attr, value)
			if err != nil {
				return nil, err
			}
			params.WInc = d
		case "binc":
			d, err := parseDuration(attr, value)
			if err != nil {
				return nil, err
			}
			params.BInc = d
		default:
			return nil, fmt.Errorf("unknown attribute '%s'", attr)
		}

		i += 2
	}

	return params, nil
}

func parseSetOption(args []string) (*Option, error) {
	if len(args) == 0 || args[0] != "name" {
		return nil, fmt.Errorf("missing option name")
	}

	var nameParts, valueParts []string
	inValue := false

	for _, arg := range args[1:] {
		if arg == "value" && !inValue {
			inValue = true
			continue
		}
		if inValue {
			valueParts = append(valueParts, arg)
		} else {
			nameParts = append(nameParts, arg)
		}
	}

	name := strings.ToLower(strings.Join(nameParts, " "))
	if name == "" {
		return nil, fmt.Errorf("missing option name")
	}

	value := strings.Join(valueParts, " ")

	switch name {
	case "hash":
		if value == "" {
			return nil, fmt.Errorf("missing value for 'hash' option")
		}
		if _, err := parseBoundedInt("hash", value, 1, 4096); err != nil {
			return nil, fmt.Errorf("invalid value for 'hash' option")
		}
		value = strings.ToLower(value)
	case "syzygypath":
		// Paths keep their case; empty is allowed.
	case "syzygyprobedepth":
		if _, err := parseBoundedInt("syzygyprobedepth", value, 1, 100); err != nil {
			return nil, fmt.Errorf("invalid value for 'syzygyprobedepth' option")
		}
	case "syzygy50moverule":
		lowered := strings.ToLower(value)
		if lowered != "true" && lowered != "false" {
			return nil, fmt.Errorf("invalid value for 'syzygy50moverule' option")
		}
		value = lowered
	case "syzygyprobelimit":
		if _, err := parseBoundedInt("syzygyprobelimit", value, 0, 7); err != nil {
			return nil, fmt.Errorf("invalid value for 'syzygyprobelimit' option")
		}
	default:
		return nil, fmt.Errorf("unknown option '%s'", name)
	}

	return &Option{Name: name, Value: value}, nil
}

// ToEngineMove resolves a wire move against the current position, filling in
// the moved and captured pieces and the en-passant flag, and verifying the
// move is actually legal.
func ToEngineMove(uciMove UCIMove, b *c3mg.Board) (c3mg.Move, error) {
	piece := b.PieceAt(uciMove.From)
	if piece == c3mg.NoPiece {
		return 0, fmt.Errorf("no piece at %s", uciMove.From)
	}

	isEnPassant := piece.Type() == c3mg.PieceTypePawn &&
		b.EnPassantSquare() != c3mg.NoSquare && uciMove.To == b.EnPassantSquare()

	captured := b.PieceAt(uciMove.To)
	flag := uint8(c3mg.FlagNone)
	if isEnPassant {
		captured = c3mg.PieceFromType(piece.Color().Opponent(), c3mg.PieceTypePawn)
		flag = c3mg.FlagEnPassant
	} else if piece.Type() == c3mg.PieceTypeKing && fileDistance(uciMove.From, uciMove.To) > 1 {
		flag = c3mg.FlagCastle
	}

	move := c3mg.NewMove(uciMove.From, uciMove.To, piece, captured, uciMove.Promotion, flag)

	mover := b.SideToMove()
	if piece.Color() != mover {
		return 0, fmt.Errorf("not %s's piece: %s", sideName(mover), uciMove)
	}

	for _, candidate := range b.GeneratePseudoMoves() {
		if !candidate.Matches(move) {
			continue
		}
		b.MakeMove(candidate)
		legal := !b.InCheck(mover)
		b.UnmakeMove(candidate)
		if legal {
			return candidate, nil
		}
	}

	return 0, fmt.Errorf("illegal move: %s", uciMove)
}

// ApplyPositionCommand rebuilds a board from the command's FEN and moves.
// Any failure leaves the caller's state untouched.
func ApplyPositionCommand(command *PositionCommand) (*c3mg.Board, error) {
	board, err := c3mg.ParseFEN(command.FEN)
	if err != nil {
		return nil, err
	}

	for _, uciMove := range command.Moves {
		move, err := ToEngineMove(uciMove, board)
		if err != nil {
			return nil, err
		}
		board.MakeMove(move)
	}

	return board, nil
}

func fileDistance(a, b c3mg.Square) int {
	d := a.File() - b.File()
	if d < 0 {
		return -d
	}
	return d
}

func sideName(c c3mg.Color) string {
	if c == c3mg.White {
		return "white"
	}
	return "black"
}
