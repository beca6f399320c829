package eval

import (
	"testing"

	"chessengine/internal/chess"
)

func TestKnownEndgameScoreRecognizesKRvK(t *testing.T) {
	p, err := chess.NewPositionFromFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatalf("bad FEN: %v", err)
	}
	e := NewEvaluator()
	e.init(p)
	score, ok := e.knownEndgameScore(p)
	if !ok {
		t.Fatal("expected KRvK to be recognized as a known win")
	}
	if score < knownWin {
		t.Fatalf("expected score at least KNOWN_WIN (%d), got %d", knownWin, score)
	}
}

func TestKnownEndgameScoreDrivesLoserKingToEdge(t *testing.T) {
	e := NewEvaluator()

	center, err := chess.NewPositionFromFEN("8/8/3k4/8/3K4/8/8/R7 w - - 0 1")
	if err != nil {
		t.Fatalf("bad FEN: %v", err)
	}
	e.init(center)
	centerScore, ok := e.knownEndgameScore(center)
	if !ok {
		t.Fatal("expected KRvK to be recognized")
	}

	edge, err := chess.NewPositionFromFEN("k7/8/8/8/3K4/8/8/R7 w - - 0 1")
	if err != nil {
		t.Fatalf("bad FEN: %v", err)
	}
	e.init(edge)
	edgeScore, ok := e.knownEndgameScore(edge)
	if !ok {
		t.Fatal("expected KRvK to be recognized")
	}

	if edgeScore <= centerScore {
		t.Fatalf("expected cornered loser king (%d) to score higher for the winner than a centralized one (%d)", edgeScore, centerScore)
	}
}

func TestKnownEndgameScoreIgnoresPawnPositions(t *testing.T) {
	p, err := chess.NewPositionFromFEN("4k3/8/8/8/8/8/4P3/R3K3 w - - 0 1")
	if err != nil {
		t.Fatalf("bad FEN: %v", err)
	}
	e := NewEvaluator()
	e.init(p)
	if _, ok := e.knownEndgameScore(p); ok {
		t.Fatal("expected a pawn on the board to disable the known-win override")
	}
}

func TestKnownEndgameScoreIgnoresBareKnightPair(t *testing.T) {
	// KNNvK cannot force mate and must fall back to ordinary evaluation.
	p, err := chess.NewPositionFromFEN("4k3/8/8/8/8/8/8/NN2K3 w - - 0 1")
	if err != nil {
		t.Fatalf("bad FEN: %v", err)
	}
	e := NewEvaluator()
	e.init(p)
	if _, ok := e.knownEndgameScore(p); ok {
		t.Fatal("expected KNNvK not to be recognized as a forced win")
	}
}

func TestKnownEndgameScoreNegativeWhenBlackWins(t *testing.T) {
	p, err := chess.NewPositionFromFEN("r3k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("bad FEN: %v", err)
	}
	e := NewEvaluator()
	e.init(p)
	score, ok := e.knownEndgameScore(p)
	if !ok {
		t.Fatal("expected KRvK (Black to win) to be recognized")
	}
	if score >= 0 {
		t.Fatalf("expected a negative (Black-favoring) score, got %d", score)
	}
}
