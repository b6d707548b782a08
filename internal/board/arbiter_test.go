package board

import "testing"

func TestCandidateMovesReflectKnowledgeOnly(t *testing.T) {
	cur := Position{X: 5, Y: 5}
	truth := []Wall{{From: cur, To: Position{X: 5, Y: 6}}}

	// nothing discovered yet: all four neighbors look open, even the one a
	// real wall blocks
	open := CandidateMoves(cur, nil)
	if len(open) != 4 {
		t.Fatalf("expected 4 candidates with empty knowledge, got %d", len(open))
	}

	// once the wall is spotted the candidate disappears
	known := CandidateMoves(cur, truth)
	if len(known) != 3 {
		t.Fatalf("expected 3 candidates after discovery, got %d", len(known))
	}
	for _, m := range known {
		if m == (Position{X: 5, Y: 6}) {
			t.Fatalf("known wall still offered as candidate")
		}
	}
}

func TestCandidateMovesAtCorner(t *testing.T) {
	got := CandidateMoves(Position{X: 0, Y: 0}, nil)
	if len(got) != 2 {
		t.Fatalf("corner should have 2 candidates, got %d", len(got))
	}
}

func TestArbitrateMoved(t *testing.T) {
	// no wall recorded between (1,4) and (0,4)
	v := Arbitrate(Position{X: 1, Y: 4}, Position{X: 0, Y: 4}, nil)
	if v != VerdictMoved {
		t.Fatalf("expected moved, got %v", v)
	}
}

func TestArbitrateBlocked(t *testing.T) {
	truth := []Wall{{From: Position{X: 5, Y: 5}, To: Position{X: 5, Y: 6}}}
	v := Arbitrate(Position{X: 5, Y: 5}, Position{X: 5, Y: 6}, truth)
	if v != VerdictBlocked {
		t.Fatalf("expected blocked, got %v", v)
	}
	// reversed orientation in the stored wall must block as well
	rev := []Wall{{From: Position{X: 5, Y: 6}, To: Position{X: 5, Y: 5}}}
	if v := Arbitrate(Position{X: 5, Y: 5}, Position{X: 5, Y: 6}, rev); v != VerdictBlocked {
		t.Fatalf("reversed wall not honored, got %v", v)
	}
}

func TestArbitrateRejected(t *testing.T) {
	cur := Position{X: 0, Y: 0}
	if v := Arbitrate(cur, Position{X: -1, Y: 0}, nil); v != VerdictRejected {
		t.Fatalf("out-of-bounds target: got %v", v)
	}
	if v := Arbitrate(cur, Position{X: 2, Y: 0}, nil); v != VerdictRejected {
		t.Fatalf("non-adjacent target: got %v", v)
	}
	if v := Arbitrate(cur, Position{X: 1, Y: 1}, nil); v != VerdictRejected {
		t.Fatalf("diagonal target: got %v", v)
	}
}
