package chess

import "math/bits"

// Bitboard is a 64-bit set of squares; bit i set means square i is a
// member of the subject set.
type Bitboard = uint64

const (
	FileAMask Bitboard = 0x0101010101010101 << iota
	FileBMask
	FileCMask
	FileDMask
	FileEMask
	FileFMask
	FileGMask
	FileHMask
)

var FileMask = [8]Bitboard{
	FileAMask, FileBMask, FileCMask, FileDMask, FileEMask, FileFMask, FileGMask, FileHMask,
}

const (
	Rank1Mask Bitboard = 0xFF << (8 * iota)
	Rank2Mask
	Rank3Mask
	Rank4Mask
	Rank5Mask
	Rank6Mask
	Rank7Mask
	Rank8Mask
)

var RankMask = [8]Bitboard{
	Rank1Mask, Rank2Mask, Rank3Mask, Rank4Mask, Rank5Mask, Rank6Mask, Rank7Mask, Rank8Mask,
}

// PopCount returns the number of set bits (population count).
func PopCount(b Bitboard) int {
	return bits.OnesCount64(b)
}

// FirstOne returns the index of the least significant set bit (bit-scan
// forward). The caller must ensure b != 0.
func FirstOne(b Bitboard) int {
	return bits.TrailingZeros64(b)
}

// MoreThanOne reports whether b has two or more bits set.
func MoreThanOne(b Bitboard) bool {
	return b != 0 && (b&(b-1)) != 0
}

func SquareBB(sq Square) Bitboard {
	return squareMask[sq]
}

var squareMask [64]Bitboard

func Up(b Bitboard) Bitboard    { return b << 8 }
func Down(b Bitboard) Bitboard  { return b >> 8 }
func Right(b Bitboard) Bitboard { return (b &^ FileHMask) << 1 }
func Left(b Bitboard) Bitboard  { return (b &^ FileAMask) >> 1 }

func UpRight(b Bitboard) Bitboard   { return Up(Right(b)) }
func UpLeft(b Bitboard) Bitboard    { return Up(Left(b)) }
func DownRight(b Bitboard) Bitboard { return Down(Right(b)) }
func DownLeft(b Bitboard) Bitboard  { return Down(Left(b)) }

func UpFill(gen Bitboard) Bitboard {
	gen |= gen << 8
	gen |= gen << 16
	gen |= gen << 32
	return gen
}

func DownFill(gen Bitboard) Bitboard {
	gen |= gen >> 8
	gen |= gen >> 16
	gen |= gen >> 32
	return gen
}

func FileFill(gen Bitboard) Bitboard {
	return UpFill(gen) | DownFill(gen)
}

func AllWhitePawnAttacks(b Bitboard) Bitboard {
	return ((b &^ FileAMask) << 7) | ((b &^ FileHMask) << 9)
}

func AllBlackPawnAttacks(b Bitboard) Bitboard {
	return ((b &^ FileAMask) >> 9) | ((b &^ FileHMask) >> 7)
}

var (
	whitePawnAttacks, blackPawnAttacks [64]Bitboard
	KnightAttacks, KingAttacks         [64]Bitboard
	betweenMask, lineMask              [64][64]Bitboard
	squareDistance                     [64][64]int
)

func PawnAttacks(sq Square, side Color) Bitboard {
	if side == White {
		return whitePawnAttacks[sq]
	}
	return blackPawnAttacks[sq]
}

// BetweenBB returns the squares strictly between s1 and s2 on the ray
// connecting them (0 if they are not aligned).
func BetweenBB(s1, s2 Square) Bitboard {
	return betweenMask[s1][s2]
}

// LineBB returns the full line (rank, file or diagonal) through s1 and
// s2, or 0 if they are not aligned.
func LineBB(s1, s2 Square) Bitboard {
	return lineMask[s1][s2]
}

func SquareDistance(s1, s2 Square) int {
	return squareDistance[s1][s2]
}

// https://www.chessprogramming.org/Magic_Bitboards
func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	return bishopAttacks[sq][((bishopMask[sq]&occ)*bishopMagic[sq])>>bishopShift]
}

func RookAttacks(sq Square, occ Bitboard) Bitboard {
	return rookAttacks[sq][((rookMask[sq]&occ)*rookMagic[sq])>>rookShift]
}

func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return BishopAttacks(sq, occ) | RookAttacks(sq, occ)
}

const (
	bishopShift = 55
	rookShift   = 52
)

var (
	rookAttacks   [64][1 << 12]Bitboard
	bishopAttacks [64][1 << 9]Bitboard
)

// occupancySubset enumerates the index-th subset of the bits of mask, in
// the same order magic multiplication expects.
func occupancySubset(mask Bitboard, index int) Bitboard {
	var result Bitboard
	for i, remaining := 0, mask; remaining != 0; i++ {
		lsb := remaining & (-remaining)
		remaining &= remaining - 1
		if index&(1<<uint(i)) != 0 {
			result |= lsb
		}
	}
	return result
}

func slidingAttacks(sq Square, occ Bitboard, dirs []func(Bitboard) Bitboard) Bitboard {
	var result Bitboard
	from := squareMask[sq]
	for _, step := range dirs {
		for x := step(from); x != 0; x = step(x) {
			result |= x
			if x&occ != 0 {
				break
			}
		}
	}
	return result
}

var rookDirs = [...]func(Bitboard) Bitboard{Up, Right, Down, Left}
var bishopDirs = [...]func(Bitboard) Bitboard{UpRight, UpLeft, DownRight, DownLeft}

func init() {
	for sq := Square(0); sq < 64; sq++ {
		b := Bitboard(1) << uint(sq)
		squareMask[sq] = b

		whitePawnAttacks[sq] = Up(Left(b) | Right(b))
		blackPawnAttacks[sq] = Down(Left(b) | Right(b))

		KnightAttacks[sq] = Right(UpRight(b)) | Up(UpRight(b)) |
			Up(UpLeft(b)) | Left(UpLeft(b)) |
			Left(DownLeft(b)) | Down(DownLeft(b)) |
			Down(DownRight(b)) | Right(DownRight(b))

		KingAttacks[sq] = UpRight(b) | Up(b) | UpLeft(b) | Left(b) |
			DownLeft(b) | Down(b) | DownRight(b) | Right(b)
	}

	for sq := Square(0); sq < 64; sq++ {
		mask := rookMask[sq]
		count := 1 << uint(PopCount(mask))
		for i := 0; i < count; i++ {
			occ := occupancySubset(mask, i)
			attacks := slidingAttacks(sq, occ, rookDirs[:])
			rookAttacks[sq][((mask&occ)*rookMagic[sq])>>rookShift] = attacks
		}

		mask = bishopMask[sq]
		count = 1 << uint(PopCount(mask))
		for i := 0; i < count; i++ {
			occ := occupancySubset(mask, i)
			attacks := slidingAttacks(sq, occ, bishopDirs[:])
			bishopAttacks[sq][((mask&occ)*bishopMagic[sq])>>bishopShift] = attacks
		}
	}

	for s1 := Square(0); s1 < 64; s1++ {
		for s2 := Square(0); s2 < 64; s2++ {
			squareDistance[s1][s2] = max(abs(s1.File()-s2.File()), abs(s1.Rank()-s2.Rank()))
			if s1 == s2 {
				continue
			}
			if QueenAttacks(s1, 0)&squareMask[s2] != 0 {
				delta := (int(s2) - int(s1)) / squareDistance[s1][s2]
				for s := int(s1) + delta; s != int(s2); s += delta {
					betweenMask[s1][s2] |= squareMask[s]
				}
				line := squareMask[s1] | squareMask[s2]
				for s := int(s1) + delta; s >= 0 && s < 64 && onBoardStep(s-delta, delta); s += delta {
					line |= squareMask[s]
				}
				for s := int(s1) - delta; s >= 0 && s < 64 && onBoardStep(s+delta, delta); s -= delta {
					line |= squareMask[s]
				}
				lineMask[s1][s2] = line
			}
		}
	}
}

// onBoardStep reports whether stepping by delta from square s stays on the
// board (does not wrap across a file edge).
func onBoardStep(s, delta int) bool {
	if s < 0 || s > 63 {
		return false
	}
	next := s + delta
	if next < 0 || next > 63 {
		return false
	}
	fileDelta := abs((next & 7) - (s & 7))
	rankDelta := abs((next >> 3) - (s >> 3))
	return fileDelta <= 1 && rankDelta <= 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
