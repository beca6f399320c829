package chess

// Move generation is staged: captures (including en-passant and
// promotion-captures) first, then quiets (including castles and quiet
// promotions), matching move-ordering's ability to cut off before quiets
// are ever generated (§4.1, §4.4). When the side to move is in check,
// GenerateEvasions is used instead.

// GenerateCaptures appends all pseudo-legal captures, en-passant
// captures and promotion-captures to moves and returns the extended
// slice.
func GenerateCaptures(p *Position, moves []Move) []Move {
	us, them := p.Side, p.Side.Opposite()
	enemy := p.ColorBB[them]

	moves = genPawnCaptures(p, us, moves)

	for pt := Knight; pt <= King; pt++ {
		for b := p.Pieces[us][pt]; b != 0; b &= b - 1 {
			from := Square(FirstOne(b))
			atk := pieceAttacks(pt, from, p.AllBB) & enemy
			for t := atk; t != 0; t &= t - 1 {
				moves = append(moves, NewMove(from, Square(FirstOne(t)), FlagCapture))
			}
		}
	}
	return moves
}

// GenerateQuiets appends all pseudo-legal non-capturing moves, including
// castles and quiet promotions.
func GenerateQuiets(p *Position, moves []Move) []Move {
	us := p.Side
	empty := ^p.AllBB

	moves = genPawnQuiets(p, us, moves)

	for pt := Knight; pt <= King; pt++ {
		for b := p.Pieces[us][pt]; b != 0; b &= b - 1 {
			from := Square(FirstOne(b))
			atk := pieceAttacks(pt, from, p.AllBB) & empty
			for t := atk; t != 0; t &= t - 1 {
				moves = append(moves, NewMove(from, Square(FirstOne(t)), FlagQuiet))
			}
		}
	}

	moves = genCastles(p, us, moves)
	return moves
}

func pieceAttacks(pt PieceType, from Square, occ Bitboard) Bitboard {
	switch pt {
	case Knight:
		return KnightAttacks[from]
	case Bishop:
		return BishopAttacks(from, occ)
	case Rook:
		return RookAttacks(from, occ)
	case Queen:
		return QueenAttacks(from, occ)
	case King:
		return KingAttacks[from]
	default:
		return 0
	}
}

var promoFlags = [4]int{FlagPromoKnight, FlagPromoBishop, FlagPromoRook, FlagPromoQueen}
var promoCaptureFlags = [4]int{FlagPromoCaptureKnight, FlagPromoCaptureBishop, FlagPromoCaptureRook, FlagPromoCaptureQueen}

func genPawnCaptures(p *Position, us Color, moves []Move) []Move {
	them := us.Opposite()
	pawns := p.Pieces[us][Pawn]
	enemy := p.ColorBB[them]
	promoRank := RankMask[promotionRank(us)]

	var attacksLeft, attacksRight Bitboard
	if us == White {
		attacksLeft = UpLeft(pawns) & enemy
		attacksRight = UpRight(pawns) & enemy
	} else {
		attacksLeft = DownLeft(pawns) & enemy
		attacksRight = DownRight(pawns) & enemy
	}

	pawnCapDelta := 9
	if us == Black {
		pawnCapDelta = -7
	}
	for b := attacksRight; b != 0; b &= b - 1 {
		to := Square(FirstOne(b))
		from := to - Square(pawnCapDelta)
		moves = appendPawnMoves(moves, from, to, promoRank, true)
	}
	pawnCapDelta2 := 7
	if us == Black {
		pawnCapDelta2 = -9
	}
	for b := attacksLeft; b != 0; b &= b - 1 {
		to := Square(FirstOne(b))
		from := to - Square(pawnCapDelta2)
		moves = appendPawnMoves(moves, from, to, promoRank, true)
	}

	if p.EpSquare != NoSquare {
		epAttackers := PawnAttacks(p.EpSquare, them) & pawns
		for b := epAttackers; b != 0; b &= b - 1 {
			from := Square(FirstOne(b))
			moves = append(moves, NewMove(from, p.EpSquare, FlagEnPassant))
		}
	}
	return moves
}

func genPawnQuiets(p *Position, us Color, moves []Move) []Move {
	pawns := p.Pieces[us][Pawn]
	empty := ^p.AllBB
	promoRank := RankMask[promotionRank(us)]

	var singlePush, doublePush Bitboard
	if us == White {
		singlePush = Up(pawns) & empty
		doublePush = Up(singlePush&RankMask[Rank3]) & empty
	} else {
		singlePush = Down(pawns) & empty
		doublePush = Down(singlePush&RankMask[Rank6]) & empty
	}

	pushDelta := Square(8)
	if us == Black {
		pushDelta = -8
	}
	for b := singlePush; b != 0; b &= b - 1 {
		to := Square(FirstOne(b))
		from := to - pushDelta
		moves = appendPawnMoves(moves, from, to, promoRank, false)
	}
	for b := doublePush; b != 0; b &= b - 1 {
		to := Square(FirstOne(b))
		from := to - 2*pushDelta
		moves = append(moves, NewMove(from, to, FlagDoublePawnPush))
	}
	return moves
}

func appendPawnMoves(moves []Move, from, to Square, promoRank Bitboard, capture bool) []Move {
	if squareMask[to]&promoRank != 0 {
		flags := promoFlags
		if capture {
			flags = promoCaptureFlags
		}
		for _, f := range flags {
			moves = append(moves, NewMove(from, to, f))
		}
		return moves
	}
	flag := FlagQuiet
	if capture {
		flag = FlagCapture
	}
	return append(moves, NewMove(from, to, flag))
}

func promotionRank(side Color) int {
	if side == White {
		return Rank8
	}
	return Rank1
}

func genCastles(p *Position, us Color, moves []Move) []Move {
	if p.Checkers != 0 {
		return moves
	}
	them := us.Opposite()
	if us == White {
		if p.CastleRights&WhiteKingSide != 0 &&
			p.AllBB&((squareMask[SquareF1])|squareMask[SquareG1]) == 0 &&
			!p.IsSquareAttackedBy(SquareE1, them) && !p.IsSquareAttackedBy(SquareF1, them) && !p.IsSquareAttackedBy(SquareG1, them) {
			moves = append(moves, NewMove(SquareE1, SquareG1, FlagCastleKingSide))
		}
		if p.CastleRights&WhiteQueenSide != 0 &&
			p.AllBB&(squareMask[SquareD1]|squareMask[SquareC1]|squareMask[SquareB1]) == 0 &&
			!p.IsSquareAttackedBy(SquareE1, them) && !p.IsSquareAttackedBy(SquareD1, them) && !p.IsSquareAttackedBy(SquareC1, them) {
			moves = append(moves, NewMove(SquareE1, SquareC1, FlagCastleQueenSide))
		}
	} else {
		if p.CastleRights&BlackKingSide != 0 &&
			p.AllBB&(squareMask[SquareF8]|squareMask[SquareG8]) == 0 &&
			!p.IsSquareAttackedBy(SquareE8, them) && !p.IsSquareAttackedBy(SquareF8, them) && !p.IsSquareAttackedBy(SquareG8, them) {
			moves = append(moves, NewMove(SquareE8, SquareG8, FlagCastleKingSide))
		}
		if p.CastleRights&BlackQueenSide != 0 &&
			p.AllBB&(squareMask[SquareD8]|squareMask[SquareC8]|squareMask[SquareB8]) == 0 &&
			!p.IsSquareAttackedBy(SquareE8, them) && !p.IsSquareAttackedBy(SquareD8, them) && !p.IsSquareAttackedBy(SquareC8, them) {
			moves = append(moves, NewMove(SquareE8, SquareC8, FlagCastleQueenSide))
		}
	}
	return moves
}

// GenerateEvasions appends pseudo-legal check evasions: king moves, and
// (against a single checker) captures of the checker or blocks of a
// sliding check. Against double check only king moves are emitted (§4.1).
func GenerateEvasions(p *Position, moves []Move) []Move {
	us, them := p.Side, p.Side.Opposite()
	king := p.KingSquare(us)

	occWithoutKing := p.AllBB &^ squareMask[king]
	safe := ^p.ColorBB[us]
	for t := KingAttacks[king] & safe; t != 0; t &= t - 1 {
		to := Square(FirstOne(t))
		if !p.isAttackedByWithOcc(to, them, occWithoutKing) {
			flag := FlagQuiet
			if p.ColorBB[them]&squareMask[to] != 0 {
				flag = FlagCapture
			}
			moves = append(moves, NewMove(king, to, flag))
		}
	}

	if MoreThanOne(p.Checkers) {
		return moves // double check: king moves only
	}

	checkerSq := Square(FirstOne(p.Checkers))
	target := squareMask[checkerSq] | BetweenBB(king, checkerSq)

	var all []Move
	all = GenerateCaptures(p, all)
	all = GenerateQuiets(p, all)
	for _, m := range all {
		if m.From() == king {
			continue // king moves already handled above
		}
		if m.IsEnPassant() {
			capturedSq := m.To()
			if us == White {
				capturedSq -= 8
			} else {
				capturedSq += 8
			}
			if capturedSq == checkerSq {
				moves = append(moves, m)
			}
			continue
		}
		if squareMask[m.To()]&target != 0 {
			moves = append(moves, m)
		}
	}
	return moves
}

func (p *Position) isAttackedByWithOcc(sq Square, side Color, occ Bitboard) bool {
	if PawnAttacks(sq, side.Opposite())&p.Pieces[side][Pawn] != 0 {
		return true
	}
	if KnightAttacks[sq]&p.Pieces[side][Knight] != 0 {
		return true
	}
	if KingAttacks[sq]&p.Pieces[side][King] != 0 {
		return true
	}
	if BishopAttacks(sq, occ)&(p.Pieces[side][Bishop]|p.Pieces[side][Queen]) != 0 {
		return true
	}
	if RookAttacks(sq, occ)&(p.Pieces[side][Rook]|p.Pieces[side][Queen]) != 0 {
		return true
	}
	return false
}

// FilterLegal trims a pseudo-legal move list down to moves that do not
// leave the mover's own king in check (§4.1). King moves and en-passant
// captures are always re-verified directly; other moves are skipped
// quickly unless the mover is pinned.
func FilterLegal(p *Position, moves []Move) []Move {
	us := p.Side
	king := p.KingSquare(us)
	pinned := p.PinnedPieces(us)

	out := moves[:0]
	for _, m := range moves {
		from := m.From()
		needsCheck := from == king || m.IsEnPassant() || pinned&squareMask[from] != 0
		if !needsCheck {
			out = append(out, m)
			continue
		}
		if p.moveIsLegal(m) {
			out = append(out, m)
		}
	}
	return out
}

// moveIsLegal makes m, checks king safety, then unmakes it. Used only for
// the minority of moves FilterLegal cannot resolve from pin data alone.
func (p *Position) moveIsLegal(m Move) bool {
	p.MakeMove(m)
	us := p.Side.Opposite()
	legal := !p.IsSquareAttackedBy(p.KingSquare(us), p.Side)
	p.UnmakeMove()
	return legal
}

// GenerateLegalMoves returns every legal move in the position, staged
// captures-then-quiets when not in check, or the evasion set when in
// check.
func GenerateLegalMoves(p *Position) []Move {
	var pseudo []Move
	if p.IsCheck() {
		pseudo = GenerateEvasions(p, pseudo)
	} else {
		pseudo = GenerateCaptures(p, pseudo)
		pseudo = GenerateQuiets(p, pseudo)
	}
	return FilterLegal(p, pseudo)
}
