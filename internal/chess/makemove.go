package chess

// MakeMove mutates the position in place, pushing the irreversible state
// needed to reverse it onto the history stack. The caller is responsible
// for only passing legal moves (§4.1 failure semantics: generators never
// fail, make on an illegal move is a programmer error).
func (p *Position) MakeMove(m Move) {
	us, them := p.Side, p.Side.Opposite()
	from, to := m.From(), m.To()
	movingPiece, _ := p.PieceAt(from)

	undo := undoInfo{
		move:          m,
		movingPiece:   movingPiece,
		capturedPiece: NoPieceType,
		castleRights:  p.CastleRights,
		epSquare:      p.EpSquare,
		halfmoveClock: p.HalfmoveClock,
		key:           p.Key,
		pawnKey:       p.PawnKey,
		checkers:      p.Checkers,
	}

	if p.EpSquare != NoSquare {
		p.Key ^= enPassantKey[p.EpSquare.File()]
	}
	p.EpSquare = NoSquare

	switch {
	case m.IsEnPassant():
		capSq := to
		if us == White {
			capSq -= 8
		} else {
			capSq += 8
		}
		undo.capturedPiece = Pawn
		p.removePiece(Pawn, them, capSq)
		p.movePiece(Pawn, us, from, to)
	case m.IsCapture():
		capturedPiece, _ := p.PieceAt(to)
		undo.capturedPiece = capturedPiece
		p.removePiece(capturedPiece, them, to)
		p.movePiece(movingPiece, us, from, to)
	default:
		p.movePiece(movingPiece, us, from, to)
	}

	if promo := m.PromotionPiece(); promo != NoPieceType {
		p.removePiece(Pawn, us, to)
		p.addPiece(promo, us, to)
	}

	if m.IsCastle() {
		var rookFrom, rookTo Square
		switch m.Flag() {
		case FlagCastleKingSide:
			if us == White {
				rookFrom, rookTo = SquareH1, SquareF1
			} else {
				rookFrom, rookTo = SquareH8, SquareF8
			}
		case FlagCastleQueenSide:
			if us == White {
				rookFrom, rookTo = SquareA1, SquareD1
			} else {
				rookFrom, rookTo = SquareA8, SquareD8
			}
		}
		p.movePiece(Rook, us, rookFrom, rookTo)
	}

	if m.IsDoublePawnPush() {
		epSq := (from + to) / 2
		p.EpSquare = epSq
		p.Key ^= enPassantKey[epSq.File()]
	}

	p.Key ^= castlingKey[p.CastleRights]
	p.CastleRights &= castleRightsMask[from] & castleRightsMask[to]
	p.Key ^= castlingKey[p.CastleRights]

	if movingPiece == Pawn || undo.capturedPiece != NoPieceType {
		p.HalfmoveClock = 0
	} else {
		p.HalfmoveClock++
	}
	if us == Black {
		p.FullmoveNumber++
	}

	p.Side = them
	p.Key ^= sideToMoveKey

	p.Checkers = p.computeCheckers()
	p.history = append(p.history, undo)
}

// UnmakeMove reverses the most recent MakeMove call.
func (p *Position) UnmakeMove() {
	n := len(p.history)
	undo := p.history[n-1]
	p.history = p.history[:n-1]

	them := p.Side // side that just moved is the opposite of p.Side now
	us := them.Opposite()
	m := undo.move
	from, to := m.From(), m.To()

	p.Side = us
	if us == Black {
		p.FullmoveNumber--
	}

	if promo := m.PromotionPiece(); promo != NoPieceType {
		p.removePiece(promo, us, to)
		p.addPiece(Pawn, us, to)
	}

	if m.IsCastle() {
		var rookFrom, rookTo Square
		switch m.Flag() {
		case FlagCastleKingSide:
			if us == White {
				rookFrom, rookTo = SquareH1, SquareF1
			} else {
				rookFrom, rookTo = SquareH8, SquareF8
			}
		case FlagCastleQueenSide:
			if us == White {
				rookFrom, rookTo = SquareA1, SquareD1
			} else {
				rookFrom, rookTo = SquareA8, SquareD8
			}
		}
		p.movePiece(Rook, us, rookTo, rookFrom)
	}

	movingPiece := undo.movingPiece
	if m.IsEnPassant() {
		p.movePiece(Pawn, us, to, from)
		capSq := to
		if us == White {
			capSq -= 8
		} else {
			capSq += 8
		}
		p.addPiece(Pawn, them, capSq)
	} else if m.IsCapture() {
		p.movePiece(movingPiece, us, to, from)
		p.addPiece(undo.capturedPiece, them, to)
	} else {
		p.movePiece(movingPiece, us, to, from)
	}

	p.CastleRights = undo.castleRights
	p.EpSquare = undo.epSquare
	p.HalfmoveClock = undo.halfmoveClock
	p.Key = undo.key
	p.PawnKey = undo.pawnKey
	p.Checkers = undo.checkers
}

// MakeNullMove passes the turn without moving a piece, used by the
// search's null-move pruning heuristic.
func (p *Position) MakeNullMove() {
	undo := undoInfo{
		move:          NoMove,
		castleRights:  p.CastleRights,
		epSquare:      p.EpSquare,
		halfmoveClock: p.HalfmoveClock,
		key:           p.Key,
		pawnKey:       p.PawnKey,
		checkers:      p.Checkers,
	}
	if p.EpSquare != NoSquare {
		p.Key ^= enPassantKey[p.EpSquare.File()]
		p.EpSquare = NoSquare
	}
	p.Side = p.Side.Opposite()
	p.Key ^= sideToMoveKey
	p.HalfmoveClock++
	p.Checkers = 0
	p.history = append(p.history, undo)
}

// UnmakeNullMove reverses MakeNullMove.
func (p *Position) UnmakeNullMove() {
	n := len(p.history)
	undo := p.history[n-1]
	p.history = p.history[:n-1]

	p.Side = p.Side.Opposite()
	p.CastleRights = undo.castleRights
	p.EpSquare = undo.epSquare
	p.HalfmoveClock = undo.halfmoveClock
	p.Key = undo.key
	p.PawnKey = undo.pawnKey
	p.Checkers = undo.checkers
}

// LastMove reports the most recently made move, or NoMove if none. Used
// by search extensions (recapture detection) and by IsDiscoveredCheck.
func (p *Position) LastMove() Move {
	if len(p.history) == 0 {
		return NoMove
	}
	return p.history[len(p.history)-1].move
}

// ComputeKeyFromScratch recomputes the Zobrist key by full enumeration,
// used by property tests to validate the incrementally maintained key
// (§8 P2).
func (p *Position) ComputeKeyFromScratch() uint64 {
	var key uint64
	if p.Side == Black {
		key ^= sideToMoveKey
	}
	key ^= castlingKey[p.CastleRights]
	if p.EpSquare != NoSquare {
		key ^= enPassantKey[p.EpSquare.File()]
	}
	for sq := Square(0); sq < 64; sq++ {
		pt, side := p.PieceAt(sq)
		if pt != NoPieceType {
			key ^= PieceSquareKey(pt, side, sq)
		}
	}
	return key
}
