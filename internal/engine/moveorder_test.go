package engine

import (
	"testing"

	"chessengine/internal/chess"
)

func TestOrderMovesPutsHashMoveFirst(t *testing.T) {
	p, err := chess.NewPositionFromFEN(chess.InitialPositionFEN)
	if err != nil {
		t.Fatalf("bad FEN: %v", err)
	}
	moves := chess.GenerateLegalMoves(p)
	hashMove := moves[len(moves)-1]

	mo := NewMoveOrderer()
	ordered := mo.OrderMoves(p, moves, hashMove, [2]chess.Move{})
	if ordered[0] != hashMove {
		t.Fatalf("hash move %v not ordered first, got %v", hashMove, ordered[0])
	}
}

func TestOrderMovesRanksWinningCaptureAboveLosing(t *testing.T) {
	// White rook can take a defended pawn (losing) or an undefended
	// pawn (winning); the winning capture must sort first.
	p, err := chess.NewPositionFromFEN("4k3/8/2p5/3p4/3R3p/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("bad FEN: %v", err)
	}
	moves := chess.GenerateCaptures(p, nil)
	moves = chess.FilterLegal(p, moves)
	if len(moves) < 2 {
		t.Fatalf("test position expected at least two legal captures, got %d", len(moves))
	}

	mo := NewMoveOrderer()
	ordered := mo.OrderMoves(p, moves, chess.NoMove, [2]chess.Move{})
	best := ordered[0]
	if chess.StaticExchangeEval(p, best) < 0 {
		t.Fatalf("top-ranked capture %v has a losing SEE value", best)
	}
}

func TestOrderMovesRanksQuietsAboveLosingCapture(t *testing.T) {
	// White rook takes a pawn defended by a knight (losing exchange);
	// a quiet king move is also available and must outrank it (§4.4).
	p, err := chess.NewPositionFromFEN("4k3/8/8/8/2n5/8/3p4/3RK3 w - - 0 1")
	if err != nil {
		t.Fatalf("bad FEN: %v", err)
	}
	moves := chess.GenerateLegalMoves(p)

	var losingCapture, quiet chess.Move
	for _, m := range moves {
		if m.IsCapture() {
			if chess.StaticExchangeEval(p, m) < 0 {
				losingCapture = m
			}
			continue
		}
		quiet = m
	}
	if losingCapture == chess.NoMove || quiet == chess.NoMove {
		t.Fatalf("test position expected both a losing capture and a quiet move among %v", moves)
	}

	mo := NewMoveOrderer()
	ordered := mo.OrderMoves(p, moves, chess.NoMove, [2]chess.Move{})
	var losingIdx, quietIdx int
	for i, m := range ordered {
		if m == losingCapture {
			losingIdx = i
		}
		if m == quiet {
			quietIdx = i
		}
	}
	if losingIdx < quietIdx {
		t.Fatalf("losing capture %v ranked above quiet move %v", losingCapture, quiet)
	}
}

func TestUpdateHistoryRewardsCutoffMove(t *testing.T) {
	mo := NewMoveOrderer()
	m := chess.NewMove(chess.SquareE2, chess.SquareE4, chess.FlagDoublePawnPush)
	other := chess.NewMove(chess.SquareD2, chess.SquareD4, chess.FlagDoublePawnPush)

	mo.UpdateHistory(chess.White, chess.Pawn, m, []quietMove{{move: other, piece: chess.Pawn}}, 4)

	if got := mo.historyScore(chess.White, chess.Pawn, m.To()); got <= 0 {
		t.Fatalf("expected a positive history score for the cutoff move, got %d", got)
	}
}

func TestClearResetsHistory(t *testing.T) {
	mo := NewMoveOrderer()
	m := chess.NewMove(chess.SquareE2, chess.SquareE4, chess.FlagDoublePawnPush)
	mo.UpdateHistory(chess.White, chess.Pawn, m, nil, 4)
	mo.Clear()
	if got := mo.historyScore(chess.White, chess.Pawn, m.To()); got != 0 {
		t.Fatalf("expected history score to reset to 0 after Clear, got %d", got)
	}
}
