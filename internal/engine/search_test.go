package engine

import (
	"testing"

	"chessengine/internal/chess"
)

func newTestWorker(t *testing.T, fen string) *Worker {
	t.Helper()
	p, err := chess.NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("bad FEN %q: %v", fen, err)
	}
	tt := NewTranspositionTable(1)
	tt.NewSearch()
	stop := &StopSignal{}
	tm := NewTimeManager(Limits{Depth: 0}, p.Side == chess.White, stop)
	t.Cleanup(tm.Close)
	return NewWorker(p, tt, tm, nil, 0)
}

// TestFindsMateInOne is a search-scenario check grounded on spec §8's
// end-to-end mate scenarios: a classic back-rank mate should be found
// and reported as a mate score at shallow depth.
func TestFindsMateInOne(t *testing.T) {
	// Black king boxed in by its own f7/g7/h7 pawns; Rd1-d8 is mate.
	w := newTestWorker(t, "6k1/5ppp/8/8/8/8/6PP/3R2K1 w - - 0 1")
	line := w.IterativeDeepen(4, nil)
	if !IsMateScore(line.Score) || MateDistance(line.Score) <= 0 {
		t.Fatalf("expected a positive mate score, got %d (mate distance %d)", line.Score, MateDistance(line.Score))
	}
}

// TestMateScoreSignIsStable is property P7's mate-sign clause: once a
// forced mate is found, its sign (winning vs. losing) must not flip
// across iterations, even though the exact distance may change with
// aspiration re-searches.
func TestMateScoreSignIsStable(t *testing.T) {
	w := newTestWorker(t, "6k1/5ppp/8/8/8/8/6PP/3R2K1 w - - 0 1")
	var lastSign int
	seenMate := false
	line := w.IterativeDeepen(6, func(l PVLine) {
		if IsMateScore(l.Score) {
			sign := 1
			if l.Score < 0 {
				sign = -1
			}
			if seenMate && sign != lastSign {
				t.Fatalf("mate score sign flipped across iterations: had %d, now %d", lastSign, l.Score)
			}
			lastSign = sign
			seenMate = true
		}
	})
	if !seenMate {
		t.Fatal("expected at least one iteration to report a mate score")
	}
	if !IsMateScore(line.Score) {
		t.Fatalf("expected final line to report a mate score, got %d", line.Score)
	}
}

// TestIterativeDeepenReturnsLegalMoveOnSingleReplyPosition confirms the
// single-legal-move shortcut in IterativeDeepen matches a real search's
// own conclusion.
func TestIterativeDeepenReturnsLegalMoveOnSingleReplyPosition(t *testing.T) {
	// Black king in check from the rook, only one legal reply (Kb8).
	w := newTestWorker(t, "k7/8/2K5/8/8/8/8/R7 b - - 0 1")
	legal := chess.GenerateLegalMoves(w.Pos)
	if len(legal) != 1 {
		t.Fatalf("test position expected to have exactly one legal move, got %d", len(legal))
	}
	line := w.IterativeDeepen(4, nil)
	if line.Move != legal[0] {
		t.Fatalf("IterativeDeepen returned %v, want the only legal move %v", line.Move, legal[0])
	}
}

func TestQuiescenceDoesNotHangOnQuietPosition(t *testing.T) {
	w := newTestWorker(t, chess.InitialPositionFEN)
	score := w.quiescence(-Infinite, Infinite, 0, 0)
	if score < -1000 || score > 1000 {
		t.Fatalf("quiescence on a quiet balanced position returned an unreasonable score %d", score)
	}
}
