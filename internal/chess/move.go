package chess

// Move is a packed 16-bit value: from-square (6 bits), to-square (6
// bits), flags (4 bits). It is deliberately not self-describing enough to
// unmake itself -- the position's history stack carries the irreversible
// data (captured piece, castling rights, EP square, halfmove clock, key)
// needed for that (§3).
type Move uint16

// NoMove is the reserved null-move sentinel. from==to never occurs in a
// real move, so the zero value is safe to reuse.
const NoMove Move = 0

const (
	FlagQuiet = iota
	FlagDoublePawnPush
	FlagCastleKingSide
	FlagCastleQueenSide
	FlagCapture
	FlagEnPassant
	_
	_
	FlagPromoKnight
	FlagPromoBishop
	FlagPromoRook
	FlagPromoQueen
	FlagPromoCaptureKnight
	FlagPromoCaptureBishop
	FlagPromoCaptureRook
	FlagPromoCaptureQueen
)

func NewMove(from, to Square, flag int) Move {
	return Move(from) | Move(to)<<6 | Move(flag)<<12
}

func (m Move) From() Square { return Square(m & 0x3F) }
func (m Move) To() Square   { return Square((m >> 6) & 0x3F) }
func (m Move) Flag() int    { return int(m >> 12) }

func (m Move) IsCapture() bool {
	f := m.Flag()
	return f == FlagCapture || f == FlagEnPassant || f >= FlagPromoCaptureKnight
}

func (m Move) IsEnPassant() bool { return m.Flag() == FlagEnPassant }

func (m Move) IsCastle() bool {
	f := m.Flag()
	return f == FlagCastleKingSide || f == FlagCastleQueenSide
}

func (m Move) IsPromotion() bool {
	f := m.Flag()
	return f >= FlagPromoKnight && f != FlagCapture && f != FlagEnPassant &&
		(f == FlagPromoKnight || f == FlagPromoBishop || f == FlagPromoRook || f == FlagPromoQueen ||
			f >= FlagPromoCaptureKnight)
}

// PromotionPiece returns the promoted-to piece type, or NoPieceType if m
// is not a promotion.
func (m Move) PromotionPiece() PieceType {
	switch m.Flag() {
	case FlagPromoKnight, FlagPromoCaptureKnight:
		return Knight
	case FlagPromoBishop, FlagPromoCaptureBishop:
		return Bishop
	case FlagPromoRook, FlagPromoCaptureRook:
		return Rook
	case FlagPromoQueen, FlagPromoCaptureQueen:
		return Queen
	default:
		return NoPieceType
	}
}

func (m Move) IsDoublePawnPush() bool { return m.Flag() == FlagDoublePawnPush }

func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	switch m.PromotionPiece() {
	case Knight:
		s += "n"
	case Bishop:
		s += "b"
	case Rook:
		s += "r"
	case Queen:
		s += "q"
	}
	return s
}
