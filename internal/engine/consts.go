package engine

// Score bounds and special values, grounded on the teacher's
// engine/searchservice.go constant block (valueInfinity, valueMate,
// maxHeight) but renamed to Go export style.
const (
	Infinite = 30000
	// MateValue is MATE_SCORE from §4.5: mate in n plies scores
	// MateValue-n for the side delivering it.
	MateValue = 29000
	DrawValue = 0

	// MaxHeight bounds recursion depth (search-stack ply array size)
	// and the point beyond which the search returns a static score
	// rather than recursing further, per §4.5's height-based bounds.
	MaxHeight = 127

	MateInMaxHeight  = MateValue - MaxHeight
	MatedInMaxHeight = -MateInMaxHeight
)

// MateIn and MatedIn compute the score for delivering, or suffering,
// mate in the given number of plies from the current node (height).
func MateIn(height int) int  { return MateValue - height }
func MatedIn(height int) int { return -MateValue + height }

// IsMateScore reports whether score represents a forced mate found at
// or below MaxHeight, used by UCI to print "score mate N" instead of
// "score cp N" and by search termination (§4.5's mate-score stability
// requirement, P7).
func IsMateScore(score int) bool {
	return score >= MateInMaxHeight || score <= MatedInMaxHeight
}

// MateDistance converts a mate score into the "mate in N" ply count UCI
// reports (positive: this side mates; negative: this side is mated).
func MateDistance(score int) int {
	if score > 0 {
		return (MateValue - score + 1) / 2
	}
	return -((MateValue + score + 1) / 2)
}
