// Package book implements a read-only opening book keyed by Zobrist
// position key, backed by an embedded badger key-value store. The book
// is loaded once at startup and never written to during a game (§5:
// "the opening book ... [is] read-only after initialization").
package book

import (
	"encoding/binary"

	"github.com/dgraph-io/badger/v4"

	"chessengine/internal/chess"
)

// Store wraps a read-only badger database mapping a position's Zobrist
// key to a list of recommended replies, each stored as its packed
// 16-bit encoding. Grounded on the teacher-pack's badger usage in
// hailam-chessplay's internal/storage/storage.go (DefaultOptions,
// View/Update transaction shape), adapted from an arbitrary preferences
// store to a fixed binary record format keyed by an 8-byte big-endian
// Zobrist key.
type Store struct {
	db *badger.DB
}

// Open opens the book at path read-only. A book is optional collaborator
// infrastructure (§1); a missing or unreadable book is not a startup
// failure, callers should fall back to searching from move one.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.ReadOnly = true
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (b *Store) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func keyBytes(key uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], key)
	return buf[:]
}

// Probe looks up the book entry for a position's Zobrist key and
// returns the moves it recommends, filtered down to those still legal
// in p (a book built from a different move-ordering convention could
// otherwise hand back a move that no longer parses). Returns ok=false
// on a cache miss, a corrupt record, or when the book itself is nil.
func (b *Store) Probe(p *chess.Position) (moves []chess.Move, ok bool) {
	if b == nil || b.db == nil {
		return nil, false
	}
	var raw []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyBytes(p.Key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			raw = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil || len(raw)%2 != 0 {
		return nil, false
	}

	legal := chess.GenerateLegalMoves(p)
	for i := 0; i+1 < len(raw); i += 2 {
		candidate := chess.Move(binary.LittleEndian.Uint16(raw[i : i+2]))
		for _, m := range legal {
			if m == candidate {
				moves = append(moves, m)
				break
			}
		}
	}
	return moves, len(moves) > 0
}
