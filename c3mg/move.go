package c3mg

// Move encodes a chess move in a 32-bit value.
type Move uint32

// Bitfield layout within Move (from LSB to MSB)
const (
	moveFromShift    = 0  // 6 bits
	moveToShift      = 6  // 6 bits
	movePieceShift   = 12 // 4 bits
	moveCaptureShift = 16 // 4 bits
	movePromoteShift = 20 // 4 bits
	moveFlagShift    = 24 // 2 bits
)

// Move flags
const (
	FlagNone      = 0
	FlagCastle    = 1
	FlagEnPassant = 2
	// (Promotion is indicated by a non-zero promotion piece)
)

// moveCaptureMask covers the captured-piece bits, which Matches ignores.
const moveCaptureMask Move = 0xF << moveCaptureShift

// NewMove constructs a Move value from components.
func NewMove(from, to Square, piece, captured, promotion Piece, flag uint8) Move {
	m := uint32(from&0x3F) |
		(uint32(to&0x3F) << moveToShift) |
		(uint32(piece&0xF) << movePieceShift) |
		(uint32(captured&0xF) << moveCaptureShift) |
		(uint32(promotion&0xF) << movePromoteShift) |
		(uint32(flag&0x3) << moveFlagShift)
	return Move(m)
}

// From returns the source square of the move.
func (m Move) From() Square { return Square((uint32(m) >> moveFromShift) & 0x3F) }

// To returns the destination square of the move.
func (m Move) To() Square { return Square((uint32(m) >> moveToShift) & 0x3F) }

// MovedPiece returns the piece code that is moved.
func (m Move) MovedPiece() Piece { return Piece((uint32(m) >> movePieceShift) & 0xF) }

// CapturedPiece returns the piece code that was captured (or NoPiece if none).
func (m Move) CapturedPiece() Piece { return Piece((uint32(m) >> moveCaptureShift) & 0xF) }

// PromotionPiece returns the promotion piece code (or NoPiece if not a promotion).
func (m Move) PromotionPiece() Piece { return Piece((uint32(m) >> movePromoteShift) & 0xF) }

// Flags returns the special move flags.
func (m Move) Flags() uint8 { return uint8((uint32(m) >> moveFlagShift) & 0x3) }

// IsCapture reports whether the move captures a piece (including en passant).
func (m Move) IsCapture() bool { return m.CapturedPiece() != NoPiece }

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool { return m.PromotionPiece() != NoPiece }

// IsEnPassant reports whether the move is an en-passant capture.
func (m Move) IsEnPassant() bool { return m.Flags() == FlagEnPassant }

// IsCastling reports whether the move is a castling king move.
func (m Move) IsCastling() bool { return m.Flags() == FlagCastle }

// CaptureSquare returns the square the captured piece stood on. This equals
// the destination except for en passant, where the victim pawn sits one rank
// behind the destination from the mover's perspective.
func (m Move) CaptureSquare() (Square, bool) {
	if !m.IsCapture() {
		return NoSquare, false
	}
	if m.IsEnPassant() {
		return m.To().Advance(m.CapturedPiece().Color()), true
	}
	return m.To(), true
}

// Matches compares two moves by piece, from, to, promotion and en-passant
// flag, ignoring the captured piece (captures are reconstructed by the
// generator). This is the equality used for TT-move matching, killer-slot
// deduplication and PV legality checks.
func (m Move) Matches(o Move) bool {
	return m&^moveCaptureMask == o&^moveCaptureMask
}

// String produces the long-algebraic representation of the move
// (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	str := m.From().String() + m.To().String()
	if promo := m.PromotionPiece(); promo != NoPiece {
		str += string([]byte{pieceChar(promo) | 0x20}) // force lower case
	}
	return str
}
