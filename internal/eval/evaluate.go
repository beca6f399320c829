package eval

import "chessengine/internal/chess"

// Evaluator holds the pawn-king evaluation cache and scratch state used
// while scoring a position. It is not safe for concurrent use; each
// search worker (goroutine) owns its own Evaluator, mirroring the
// teacher's per-thread EvaluationService instances under Lazy SMP.
type Evaluator struct {
	pawnKingTable []pawnKingEntry

	occupied      chess.Bitboard
	passedPawns   chess.Bitboard
	pawnAttacks   [2]chess.Bitboard
	mobilityArea  [2]chess.Bitboard
	kingArea      [2]chess.Bitboard
	kingSquare    [2]chess.Square
	pieceCount    [2][7]int
	kingAtkPower  [2]int
	kingAtkCount  [2]int
}

type pawnKingEntry struct {
	valid       bool
	whitePawns  chess.Bitboard
	blackPawns  chess.Bitboard
	whiteKing   chess.Square
	blackKing   chess.Square
	eval        Score
	passedPawns chess.Bitboard
}

// pawnKingTableBits sizes the pawn-king cache at 2^16 entries, matching
// the teacher's table size.
const pawnKingTableBits = 16

// NewEvaluator constructs an Evaluator with a fresh pawn-king cache.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		pawnKingTable: make([]pawnKingEntry, 1<<pawnKingTableBits),
	}
}

// Evaluate returns a centipawn score from the perspective of the side to
// move: positive means p.Side stands better.
func (e *Evaluator) Evaluate(p *chess.Position) int {
	e.init(p)

	if known, ok := e.knownEndgameScore(p); ok {
		if p.Side == chess.Black {
			known = -known
		}
		return known + tempo
	}

	var score Score
	score += e.pawnKingScore(p)
	score += e.pieceScore(p, chess.White) - e.pieceScore(p, chess.Black)
	score += e.kingSafetyScore(p, chess.White) - e.kingSafetyScore(p, chess.Black)
	score += e.passedPawnScore(p, chess.White) - e.passedPawnScore(p, chess.Black)
	score += e.threatScore(p, chess.White) - e.threatScore(p, chess.Black)
	score += e.materialScore(p)

	phase := e.gamePhase()
	scaleFactor := e.endgameScaleFactor(p, score)

	result := (score.Middle()*phase + score.End()*(256-phase)*scaleFactor/128) / 256

	if p.Side == chess.Black {
		result = -result
	}
	return result + tempo
}

// FeatureTrace re-runs the evaluation and returns each term's
// contribution separately, for debugging.
type FeatureTrace struct {
	PawnKing   Score
	Pieces     Score
	KingSafety Score
	Passed     Score
	Threats    Score
	Material   Score
	Phase      int
	Total      int
}

func (e *Evaluator) Trace(p *chess.Position) FeatureTrace {
	e.init(p)
	var t FeatureTrace
	t.PawnKing = e.pawnKingScore(p)
	t.Pieces = e.pieceScore(p, chess.White) - e.pieceScore(p, chess.Black)
	t.KingSafety = e.kingSafetyScore(p, chess.White) - e.kingSafetyScore(p, chess.Black)
	t.Passed = e.passedPawnScore(p, chess.White) - e.passedPawnScore(p, chess.Black)
	t.Threats = e.threatScore(p, chess.White) - e.threatScore(p, chess.Black)
	t.Material = e.materialScore(p)
	t.Phase = e.gamePhase()
	t.Total = e.Evaluate(p)
	return t
}

func (e *Evaluator) init(p *chess.Position) {
	e.occupied = p.AllBB
	e.passedPawns = 0
	e.kingAtkPower[chess.White] = -30
	e.kingAtkPower[chess.Black] = -30
	e.kingAtkCount[chess.White] = 0
	e.kingAtkCount[chess.Black] = 0

	for pt := chess.Pawn; pt <= chess.King; pt++ {
		e.pieceCount[chess.White][pt] = chess.PopCount(p.Pieces[chess.White][pt])
		e.pieceCount[chess.Black][pt] = chess.PopCount(p.Pieces[chess.Black][pt])
	}

	e.kingSquare[chess.White] = p.KingSquare(chess.White)
	e.kingSquare[chess.Black] = p.KingSquare(chess.Black)

	e.pawnAttacks[chess.White] = chess.AllWhitePawnAttacks(p.Pieces[chess.White][chess.Pawn])
	e.pawnAttacks[chess.Black] = chess.AllBlackPawnAttacks(p.Pieces[chess.Black][chess.Pawn])

	e.mobilityArea[chess.White] = ^(e.pawnAttacks[chess.Black] |
		p.Pieces[chess.White][chess.Pawn]&(chess.Rank2Mask|chess.Down(e.occupied)))
	e.mobilityArea[chess.Black] = ^(e.pawnAttacks[chess.White] |
		p.Pieces[chess.Black][chess.Pawn]&(chess.Rank7Mask|chess.Up(e.occupied)))

	e.kingArea[chess.White] = chess.KingAttacks[e.kingSquare[chess.White]]
	e.kingArea[chess.Black] = chess.KingAttacks[e.kingSquare[chess.Black]]
}

func (e *Evaluator) materialScore(p *chess.Position) Score {
	var score Score
	for pt := chess.Pawn; pt <= chess.Queen; pt++ {
		score += pieceValue[pt] * Score(e.pieceCount[chess.White][pt]-e.pieceCount[chess.Black][pt])
	}
	if e.pieceCount[chess.White][chess.Bishop] >= 2 {
		score += S(bishopPair, bishopPair)
	}
	if e.pieceCount[chess.Black][chess.Bishop] >= 2 {
		score -= S(bishopPair, bishopPair)
	}
	return score
}

func (e *Evaluator) gamePhase() int {
	phase := 4*(e.pieceCount[chess.White][chess.Queen]+e.pieceCount[chess.Black][chess.Queen]) +
		2*(e.pieceCount[chess.White][chess.Rook]+e.pieceCount[chess.Black][chess.Rook]) +
		1*(e.pieceCount[chess.White][chess.Knight]+e.pieceCount[chess.Black][chess.Knight]+
			e.pieceCount[chess.White][chess.Bishop]+e.pieceCount[chess.Black][chess.Bishop])
	if phase > 24 {
		phase = 24
	}
	return (phase*256 + 12) / 24
}

// endgameScaleFactor down-weights the endgame score in known drawish
// material configurations (opposite-colored bishops, few pawns).
func (e *Evaluator) endgameScaleFactor(p *chess.Position, score Score) int {
	strong := chess.White
	if score.End() < 0 {
		strong = chess.Black
	}
	strongPawns := e.pieceCount[strong][chess.Pawn]
	x := 8 - strongPawns
	scale := 128 - x*x
	if scale < 0 {
		scale = 0
	}

	if e.pieceCount[chess.White][chess.Bishop] == 1 && e.pieceCount[chess.Black][chess.Bishop] == 1 &&
		chess.PopCount(p.Pieces[chess.White][chess.Bishop]|p.Pieces[chess.Black][chess.Bishop]) == 2 {
		whiteBishopSq := chess.Square(chess.FirstOne(p.Pieces[chess.White][chess.Bishop]))
		blackBishopSq := chess.Square(chess.FirstOne(p.Pieces[chess.Black][chess.Bishop]))
		if isDarkSquare(whiteBishopSq) != isDarkSquare(blackBishopSq) {
			whiteMinor := chess.PopCount(p.ColorBB[chess.White] &^ (p.Pieces[chess.White][chess.Pawn] | p.Pieces[chess.White][chess.King]))
			blackMinor := chess.PopCount(p.ColorBB[chess.Black] &^ (p.Pieces[chess.Black][chess.Pawn] | p.Pieces[chess.Black][chess.King]))
			if whiteMinor == blackMinor && whiteMinor <= 2 {
				if whiteMinor == 1 {
					scale = min(scale, 64)
				} else {
					scale = min(scale, 96)
				}
			}
		}
	}
	return scale
}

func isDarkSquare(sq chess.Square) bool {
	return (sq.File()+sq.Rank())%2 == 0
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
