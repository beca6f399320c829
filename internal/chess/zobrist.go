package chess

import "math/rand"

// Zobrist hashing: the position key is the XOR of independent random
// words for each (piece, color, square), side to move, castling rights
// and en-passant file (§3 I2).
var (
	sideToMoveKey  uint64
	enPassantKey   [8]uint64
	castlingKey    [16]uint64
	pieceSquareKey [2][7][64]uint64
)

func PieceSquareKey(pt PieceType, c Color, sq Square) uint64 {
	return pieceSquareKey[c][pt][sq]
}

func init() {
	// Fixed seed: a reproducible key table is required so that a
	// position's Zobrist key is stable across process runs, which the
	// transposition table's aging scheme and search tests both depend on.
	var r = rand.New(rand.NewSource(0x5CB4A17))

	sideToMoveKey = r.Uint64()
	for i := range enPassantKey {
		enPassantKey[i] = r.Uint64()
	}
	for c := 0; c < 2; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := 0; sq < 64; sq++ {
				pieceSquareKey[c][pt][sq] = r.Uint64()
			}
		}
	}

	var castleBit [4]uint64
	for i := range castleBit {
		castleBit[i] = r.Uint64()
	}
	for i := range castlingKey {
		for j := 0; j < 4; j++ {
			if i&(1<<uint(j)) != 0 {
				castlingKey[i] ^= castleBit[j]
			}
		}
	}
}
