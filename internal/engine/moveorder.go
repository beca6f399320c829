package engine

import (
	"sort"

	"chessengine/internal/chess"
)

// Scores assigned to move-ordering tiers, high to low, grounded on the
// teacher's NoteMoves (engine/moveorderservice.go) but split into the
// winning/losing-capture tiers §4.4 asks for explicitly (the teacher
// folds that split into quiescence-only SEE pruning; the ranked list
// here needs it at the ordering stage too).
const (
	scoreHashMove       = 1 << 20
	scoreWinningCapture = 1 << 19
	scoreKiller         = 1 << 18
	scoreQuietBase      = 1 << 10
	// scoreLosingCapture sits below every quiet move's score range
	// ([0, scoreQuietBase]), so §4.4's "quiets before losing captures"
	// order holds regardless of how large the MVV/LVA tiebreak below
	// gets added on top.
	scoreLosingCapture = -(1 << 20)
)

// pieceValueMVVLVA weights victims heavily and attackers lightly so that
// sorting by (victim, -attacker) falls out of a single subtraction.
var pieceValueMVVLVA = [7]int{0, 100, 320, 330, 500, 900, 20000}

// MoveOrderer holds the history heuristic table for one search worker.
// History is per-worker under Lazy SMP (§5: "History, killers, and the
// move-ordering state are per-worker"), unlike the shared transposition
// table.
type MoveOrderer struct {
	histSuccess [2][7][64]int
	histTry     [2][7][64]int
}

func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

func (mo *MoveOrderer) Clear() {
	mo.histSuccess = [2][7][64]int{}
	mo.histTry = [2][7][64]int{}
}

// UpdateHistory rewards the cutoff move and penalizes the quiet moves
// that were tried and failed before it, ported from the teacher's
// UpdateHistory. Scores are clipped to keep the ratio well-behaved
// across a long game.
func (mo *MoveOrderer) UpdateHistory(side chess.Color, movingPiece chess.PieceType, bestMove chess.Move, quietsSearched []quietMove, depth int) {
	mo.bump(side, movingPiece, bestMove, depth)
	for _, q := range quietsSearched {
		if q.move == bestMove {
			continue
		}
		idx := &mo.histTry[side][q.piece][q.move.To()]
		*idx += depth
		mo.clip(side, q.piece, q.move.To())
	}
}

func (mo *MoveOrderer) bump(side chess.Color, piece chess.PieceType, move chess.Move, depth int) {
	to := move.To()
	mo.histSuccess[side][piece][to] += depth
	mo.histTry[side][piece][to] += depth
	mo.clip(side, piece, to)
}

func (mo *MoveOrderer) clip(side chess.Color, piece chess.PieceType, to chess.Square) {
	const cap = 1 << 15
	if mo.histTry[side][piece][to] > cap {
		mo.histSuccess[side][piece][to] >>= 1
		mo.histTry[side][piece][to] >>= 1
	}
}

func (mo *MoveOrderer) historyScore(side chess.Color, piece chess.PieceType, to chess.Square) int {
	try := mo.histTry[side][piece][to]
	if try == 0 {
		return 0
	}
	return scoreQuietBase * mo.histSuccess[side][piece][to] / try
}

// quietMove pairs a quiet move with the piece that made it, since the
// history table is indexed by moving piece, not just from/to.
type quietMove struct {
	move  chess.Move
	piece chess.PieceType
}

// scoredMove is a move plus its ordering key, sorted descending.
type scoredMove struct {
	move  chess.Move
	score int
}

// OrderMoves ranks moves at a node per §4.4: TT move first, then
// winning/equal captures by MVV/LVA (promotions to queen counted as
// winning captures), then the two killer moves, then quiets by history,
// then losing captures last.
func (mo *MoveOrderer) OrderMoves(p *chess.Position, moves []chess.Move, hashMove chess.Move, killers [2]chess.Move) []chess.Move {
	scored := make([]scoredMove, len(moves))
	side := p.Side
	for i, m := range moves {
		scored[i] = scoredMove{move: m, score: mo.scoreMove(p, m, hashMove, killers, side)}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	out := make([]chess.Move, len(moves))
	for i, s := range scored {
		out[i] = s.move
	}
	return out
}

func (mo *MoveOrderer) scoreMove(p *chess.Position, m chess.Move, hashMove chess.Move, killers [2]chess.Move, side chess.Color) int {
	if m == hashMove {
		return scoreHashMove
	}
	if m.IsCapture() {
		victim, _ := p.PieceAt(m.To())
		if m.IsEnPassant() {
			victim = chess.Pawn
		}
		gain := pieceValueMVVLVA[victim]
		if promo := m.PromotionPiece(); promo != chess.NoPieceType {
			gain += pieceValueMVVLVA[promo] - pieceValueMVVLVA[chess.Pawn]
		}
		see := chess.StaticExchangeEval(p, m)
		mover, _ := p.PieceAt(m.From())
		base := gain*8 - pieceValueMVVLVA[mover]/64
		if see >= 0 {
			return scoreWinningCapture + base
		}
		return scoreLosingCapture + base
	}
	if promo := m.PromotionPiece(); promo == chess.Queen {
		return scoreWinningCapture + pieceValueMVVLVA[chess.Queen]*8
	}
	if m == killers[0] {
		return scoreKiller + 1
	}
	if m == killers[1] {
		return scoreKiller
	}
	mover, _ := p.PieceAt(m.From())
	return mo.historyScore(side, mover, m.To())
}
