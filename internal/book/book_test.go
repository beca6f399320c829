package book

import (
	"encoding/binary"
	"testing"

	"github.com/dgraph-io/badger/v4"

	"chessengine/internal/chess"
)

// writeTestBook seeds a badger database at dir with a single record
// mapping key to the packed encoding of moves, then closes it so a
// subsequent read-only Open sees committed data.
func writeTestBook(t *testing.T, dir string, key uint64, moves []chess.Move) {
	t.Helper()
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("failed to open scratch badger db: %v", err)
	}
	defer db.Close()

	raw := make([]byte, 2*len(moves))
	for i, m := range moves {
		binary.LittleEndian.PutUint16(raw[2*i:], uint16(m))
	}
	err = db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyBytes(key), raw)
	})
	if err != nil {
		t.Fatalf("failed to seed scratch badger db: %v", err)
	}
}

func TestProbeReturnsSeededMove(t *testing.T) {
	dir := t.TempDir()
	root, err := chess.NewPositionFromFEN(chess.InitialPositionFEN)
	if err != nil {
		t.Fatalf("bad FEN: %v", err)
	}
	e2e4 := findLegalMove(t, root, "e2e4")
	writeTestBook(t, dir, root.Key, []chess.Move{e2e4})

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	moves, ok := store.Probe(root)
	if !ok {
		t.Fatal("expected a book hit for the seeded key")
	}
	if len(moves) != 1 || moves[0] != e2e4 {
		t.Fatalf("expected [%v], got %v", e2e4, moves)
	}
}

func TestProbeMissesUnseededPosition(t *testing.T) {
	dir := t.TempDir()
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("failed to open scratch badger db: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("failed to close scratch badger db: %v", err)
	}

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	root, _ := chess.NewPositionFromFEN(chess.InitialPositionFEN)
	if _, ok := store.Probe(root); ok {
		t.Fatal("expected a miss on an empty book")
	}
}

func TestProbeFiltersOutIllegalCandidates(t *testing.T) {
	dir := t.TempDir()
	root, err := chess.NewPositionFromFEN(chess.InitialPositionFEN)
	if err != nil {
		t.Fatalf("bad FEN: %v", err)
	}
	// A move that is not among the position's legal moves (e2 to e5 in
	// one hop) should never surface even if it was somehow recorded.
	bogus := chess.NewMove(chess.SquareE2, chess.SquareE5, chess.FlagQuiet)
	writeTestBook(t, dir, root.Key, []chess.Move{bogus})

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if _, ok := store.Probe(root); ok {
		t.Fatal("expected the illegal candidate to be filtered out")
	}
}

func TestProbeOnNilStoreMisses(t *testing.T) {
	var store *Store
	root, _ := chess.NewPositionFromFEN(chess.InitialPositionFEN)
	if _, ok := store.Probe(root); ok {
		t.Fatal("expected a nil *Store to always miss")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("expected Close on a nil *Store to be a no-op, got %v", err)
	}
}

func findLegalMove(t *testing.T, p *chess.Position, lan string) chess.Move {
	t.Helper()
	m, ok := chess.ParseMove(p, lan)
	if !ok {
		t.Fatalf("move %q not legal in %s", lan, p.FEN())
	}
	return m
}
