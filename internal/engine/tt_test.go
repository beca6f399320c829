package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"chessengine/internal/chess"
)

// probeResult snapshots everything Probe reports, so two probes of the
// same key can be compared for observational equivalence with go-cmp
// rather than a hand-rolled multi-field ==.
type probeResult struct {
	Depth, Score int
	Bound        Bound
	Move         chess.Move
	Ok           bool
}

func probe(tt *TranspositionTable, key uint64) probeResult {
	depth, score, bound, move, ok := tt.Probe(key)
	return probeResult{depth, score, bound, move, ok}
}

// TestStoreProbeIdempotent is property P5: storing the same entry twice
// leaves the table observationally identical to storing it once, and a
// Store immediately followed by a Probe of the same key returns exactly
// what was stored.
func TestStoreProbeIdempotent(t *testing.T) {
	tt := NewTranspositionTable(1)
	const key = 0x0123456789abcdef
	move := chess.NewMove(chess.SquareE2, chess.SquareE4, chess.FlagDoublePawnPush)
	tt.Store(key, 7, 150, BoundExact, move)

	first := probe(tt, key)
	if !first.Ok {
		t.Fatal("expected a hit for the key just stored")
	}
	if first.Depth != 7 || first.Score != 150 || first.Bound != BoundExact {
		t.Fatalf("unexpected stored entry: %+v", first)
	}

	tt.Store(key, 7, 150, BoundExact, move)
	second := probe(tt, key)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("re-storing an identical entry changed the probe result (-first +second):\n%s", diff)
	}
}

// TestProbeMissForUnstoredKey confirms an empty table reports a miss
// rather than a zero-valued false hit.
func TestProbeMissForUnstoredKey(t *testing.T) {
	tt := NewTranspositionTable(1)
	if _, _, _, _, ok := tt.Probe(0xdeadbeef); ok {
		t.Fatal("expected a miss on an empty table")
	}
}

// TestNewSearchPreservesEntries confirms NewSearch only advances the
// generation counter and does not erase existing entries (§3).
func TestNewSearchPreservesEntries(t *testing.T) {
	tt := NewTranspositionTable(1)
	const key = 0x1
	tt.Store(key, 3, 10, BoundExact, chess.NoMove)
	tt.NewSearch()

	before := probe(tt, key)
	if !before.Ok {
		t.Fatal("expected entry to survive NewSearch")
	}
}

// TestClearErasesEntries confirms Clear resets the whole table, unlike
// NewSearch.
func TestClearErasesEntries(t *testing.T) {
	tt := NewTranspositionTable(1)
	const key = 0x2
	tt.Store(key, 3, 10, BoundExact, chess.NoMove)
	tt.Clear()

	if _, _, _, _, ok := tt.Probe(key); ok {
		t.Fatal("expected Clear to erase all entries")
	}
}

func TestNewTranspositionTableSafeDowngrades(t *testing.T) {
	// A pathologically large request should downgrade rather than panic.
	tt, actual := NewTranspositionTableSafe(1 << 30)
	if tt == nil {
		t.Fatal("expected a non-nil table even after downgrading")
	}
	if actual < 1 {
		t.Fatalf("expected a positive downgraded size, got %d", actual)
	}
}
