// Package eval implements the tapered, hand-crafted static evaluator:
// material, piece-square tables, mobility, king safety, pawn structure
// and passed-pawn scoring, blended between middlegame and endgame by
// game phase.
package eval

import "fmt"

// Score packs a middlegame and an endgame sub-score into a single
// int32: middlegame in the high 16 bits, endgame in the low 16 bits.
// Adding two Scores adds both halves in one instruction, which is why
// nearly every evaluation term below is expressed as a single S(mg, eg)
// constant rather than two parallel accumulators (grounded on the
// packed-accumulator technique the teacher's Weiss-derived evaluator
// uses for the same reason).
type Score int32

// S builds a packed Score from its middlegame and endgame components.
func S(mg, eg int) Score {
	return Score((uint32(int16(mg)) << 16)) + Score(int16(eg))
}

// Middle returns the middlegame component.
func (s Score) Middle() int {
	return int(int16(uint32(s+0x8000) >> 16))
}

// End returns the endgame component.
func (s Score) End() int {
	return int(int16(s))
}

func (s Score) String() string {
	return fmt.Sprintf("Score(%d, %d)", s.Middle(), s.End())
}
