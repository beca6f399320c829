package eval

import "chessengine/internal/chess"

// knownWin mirrors the original engine's KNOWN_WIN floor (eval.h:
// KNOWN_WIN = PIECE_VALUES[EG][PAWNS] * 75): once material alone
// recognizes an easy technical win, the score should dominate the
// ordinary tapered blend long before search would otherwise discover
// the mate net.
var knownWin = pieceValue[chess.Pawn].End() * 75

// hasDecisiveMaterial reports whether count alone (king aside) carries
// enough material to force mate against a bare king: a queen, a rook,
// or two minors including at least one bishop (KBBvK/KBNvK). A bare
// knight pair (KNNvK) cannot force mate and is excluded.
func hasDecisiveMaterial(count [7]int) bool {
	if count[chess.Queen] > 0 || count[chess.Rook] > 0 {
		return true
	}
	return count[chess.Knight]+count[chess.Bishop] >= 2 && count[chess.Bishop] >= 1
}

// isBareKing reports whether count holds nothing but a king.
func isBareKing(count [7]int) bool {
	for pt := chess.Pawn; pt <= chess.Queen; pt++ {
		if count[pt] != 0 {
			return false
		}
	}
	return true
}

// knownEndgameScore recognizes KX-vs-K endings with decisive,
// pawnless material and returns a formulaic score (from White's
// perspective) that rewards the winning side for driving the lone
// king toward the edge -- or, for the KBN mate, the specific corner
// the bishop controls -- and for bringing its own king closer, per
// §4.2. Grounded on eval.h's scoreSimpleKnownWin/scoreCornerDistance
// shape; ok is false when no recognized ending applies and the caller
// should fall back to the ordinary tapered evaluation.
func (e *Evaluator) knownEndgameScore(p *chess.Position) (score int, ok bool) {
	white, black := e.pieceCount[chess.White], e.pieceCount[chess.Black]
	if white[chess.Pawn] != 0 || black[chess.Pawn] != 0 {
		return 0, false
	}

	var winner, loser chess.Color
	switch {
	case hasDecisiveMaterial(white) && isBareKing(black):
		winner, loser = chess.White, chess.Black
	case hasDecisiveMaterial(black) && isBareKing(white):
		winner, loser = chess.Black, chess.White
	default:
		return 0, false
	}

	winnerCount := e.pieceCount[winner]
	winnerKing, loserKing := e.kingSquare[winner], e.kingSquare[loser]

	result := knownWin
	for pt := chess.Knight; pt <= chess.Queen; pt++ {
		result += pieceValue[pt].End() * winnerCount[pt]
	}

	if winnerCount[chess.Bishop] == 1 && winnerCount[chess.Knight] == 1 &&
		winnerCount[chess.Rook] == 0 && winnerCount[chess.Queen] == 0 {
		bishopSq := chess.Square(chess.FirstOne(p.Pieces[winner][chess.Bishop]))
		result += cornerDistanceScore(loserKing, isDarkSquare(bishopSq))
	} else {
		result += edgeDistanceScore(loserKing)
	}
	result += (14 - chess.SquareDistance(winnerKing, loserKing)) * 4

	if winner == chess.Black {
		result = -result
	}
	return result, true
}

// edgeDistanceScore rewards squares near any edge: 0 at the four
// center squares, maximal on a corner.
func edgeDistanceScore(sq chess.Square) int {
	file, rank := sq.File(), sq.Rank()
	edge := min(file, 7-file) + min(rank, 7-rank)
	return (6 - edge) * 10
}

// matingCorners are the board's four corner squares.
var matingCorners = [4]chess.Square{chess.SquareA1, chess.SquareH1, chess.SquareA8, chess.SquareH8}

// cornerDistanceScore rewards driving sq toward the nearer of the two
// corners matching darkCorner -- a bishop-and-knight mate can only be
// forced in the corner the bishop attacks.
func cornerDistanceScore(sq chess.Square, darkCorner bool) int {
	best := 14
	for _, c := range matingCorners {
		if isDarkSquare(c) != darkCorner {
			continue
		}
		if d := chess.SquareDistance(sq, c); d < best {
			best = d
		}
	}
	return (7 - best) * 10
}
