package board

// Verdict is the arbiter's ruling on a navigation attempt.
type Verdict int

const (
	// VerdictRejected marks a malformed attempt: target out of bounds or
	// not adjacent. No state may change, including the turn.
	VerdictRejected Verdict = iota
	// VerdictMoved means the step is legal against ground truth.
	VerdictMoved
	// VerdictBlocked means a real wall separates the two cells.
	VerdictBlocked
)

func (v Verdict) String() string {
	switch v {
	case VerdictMoved:
		return "moved"
	case VerdictBlocked:
		return "blocked"
	default:
		return "rejected"
	}
}

// CandidateMoves lists the neighbors of cur not blocked by any wall the
// mover has discovered so far. Knowledge-limited: an undiscovered wall is
// invisible here, so the result may overstate what Arbitrate will allow.
// Client affordance only, never authoritative.
func CandidateMoves(cur Position, knownWalls []Wall) []Position {
	out := make([]Position, 0, 4)
	for _, n := range Neighbors(cur) {
		if !WallBetween(knownWalls, cur, n) {
			out = append(out, n)
		}
	}
	return out
}

// Arbitrate rules on a step from cur to target against the true wall set
// of the maze being explored. This is the sole authority on move legality;
// it never consults the mover's fog-of-war knowledge.
func Arbitrate(cur, target Position, groundTruthWalls []Wall) Verdict {
	if !target.InBounds() || !cur.Adjacent(target) {
		return VerdictRejected
	}
	if WallBetween(groundTruthWalls, cur, target) {
		return VerdictBlocked
	}
	return VerdictMoved
}
