package chess

import "strings"

// ParseMove resolves a long-algebraic-notation string (e.g. "e2e4",
// "e7e8q") against the legal moves available in p, grounded on the
// teacher's MakeMoveLAN (common/move.go): find the legal move whose own
// LAN string matches, rather than parsing move semantics independently,
// so illegal or ambiguous input is rejected by construction.
func ParseMove(p *Position, lan string) (Move, bool) {
	for _, m := range GenerateLegalMoves(p) {
		if strings.EqualFold(m.String(), lan) {
			return m, true
		}
	}
	return NoMove, false
}
