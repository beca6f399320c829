package chess

// IsInsufficientMaterial reports the recognized dead positions: bare
// kings, king+minor vs king, and king+bishop vs king+bishop with
// same-colored bishops.
func (p *Position) IsInsufficientMaterial() bool {
	if p.Pieces[White][Pawn] != 0 || p.Pieces[Black][Pawn] != 0 {
		return false
	}
	if p.Pieces[White][Rook] != 0 || p.Pieces[Black][Rook] != 0 ||
		p.Pieces[White][Queen] != 0 || p.Pieces[Black][Queen] != 0 {
		return false
	}
	whiteMinors := PopCount(p.Pieces[White][Knight] | p.Pieces[White][Bishop])
	blackMinors := PopCount(p.Pieces[Black][Knight] | p.Pieces[Black][Bishop])
	if whiteMinors == 0 && blackMinors == 0 {
		return true
	}
	if whiteMinors+blackMinors == 1 {
		return true
	}
	if whiteMinors == 1 && blackMinors == 1 &&
		p.Pieces[White][Bishop] != 0 && p.Pieces[Black][Bishop] != 0 {
		wSq := Square(FirstOne(p.Pieces[White][Bishop]))
		bSq := Square(FirstOne(p.Pieces[Black][Bishop]))
		return (wSq.File()+wSq.Rank())%2 == (bSq.File()+bSq.Rank())%2
	}
	return false
}

// IsRepetition reports whether the current position's key has occurred
// earlier within the irreversible-move window (bounded by the halfmove
// clock), scanning stepping by two plies since a repeat can only occur
// with the same side to move. atLeast controls whether one or two prior
// occurrences are required -- the search treats a single in-tree
// repetition as a draw to avoid chasing or steering into one, while the
// root-level 50-move/threefold check wants the standard rule of three.
func (p *Position) IsRepetition(atLeast int) bool {
	n := len(p.history)
	limit := p.HalfmoveClock
	if limit > n {
		limit = n
	}
	count := 0
	for i := 4; i <= limit; i += 2 {
		if p.history[n-i].key == p.Key {
			count++
			if count >= atLeast {
				return true
			}
		}
	}
	return false
}

// IsDraw reports the position-only draw conditions: 50-move rule,
// insufficient material and threefold repetition (§4.1). It does not
// know about the search's in-tree single-repetition shortcut; callers
// that want that behavior use IsRepetition(1) directly.
func (p *Position) IsDraw() bool {
	if p.HalfmoveClock >= 100 {
		return true
	}
	if p.IsInsufficientMaterial() {
		return true
	}
	return p.IsRepetition(2)
}
