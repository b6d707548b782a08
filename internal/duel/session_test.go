package duel

import (
	"errors"
	"testing"

	"github.com/kapu/maze-duel-go/internal/board"
)

func pos(x, y int) *board.Position { return &board.Position{X: x, Y: y} }

// newPlayingSession builds a session in the playing stage. Player one
// authored a maze with exit (9,9) and a wall between (5,5) and (5,6);
// player two authored exit (0,4). Entrances are (0,0) and (1,4), so p1
// explores from (1,4) and p2 from (0,0).
func newPlayingSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession("g1", "duel", "p1", "Alice")
	if changed, err := s.Join("p2", "Bob"); err != nil || !changed {
		t.Fatalf("join: changed=%v err=%v", changed, err)
	}
	p1Walls := []board.Wall{{From: board.Position{X: 5, Y: 5}, To: board.Position{X: 5, Y: 6}}}
	started, err := s.SubmitMaze("p1", pos(0, 0), pos(9, 9), p1Walls)
	if err != nil || started {
		t.Fatalf("first submit: started=%v err=%v", started, err)
	}
	started, err = s.SubmitMaze("p2", pos(1, 4), pos(0, 4), nil)
	if err != nil || !started {
		t.Fatalf("second submit: started=%v err=%v", started, err)
	}
	return s
}

func TestJoinLifecycle(t *testing.T) {
	s := NewSession("g1", "duel", "p1", "Alice")
	if s.Stage != StageWaiting {
		t.Fatalf("new session stage = %s", s.Stage)
	}

	// creator re-joining is idempotent
	changed, err := s.Join("p1", "Alice")
	if err != nil || changed {
		t.Fatalf("creator re-join: changed=%v err=%v", changed, err)
	}

	changed, err = s.Join("p2", "")
	if err != nil || !changed {
		t.Fatalf("second join: changed=%v err=%v", changed, err)
	}
	if s.Stage != StageSetup {
		t.Fatalf("stage after second join = %s", s.Stage)
	}
	if s.Player2.Name == "" {
		t.Fatalf("joiner without a name should get a generated one")
	}

	// participant re-join stays idempotent
	if changed, err := s.Join("p2", ""); err != nil || changed {
		t.Fatalf("participant re-join: changed=%v err=%v", changed, err)
	}

	if _, err := s.Join("p3", "Carol"); !errors.Is(err, ErrSessionFull) {
		t.Fatalf("third join: got %v, want ErrSessionFull", err)
	}
}

func TestStartSeedsExplorers(t *testing.T) {
	s := newPlayingSession(t)
	if s.Stage != StagePlaying {
		t.Fatalf("stage = %s", s.Stage)
	}
	if s.CurrentTurnPlayerID != "p1" {
		t.Fatalf("first turn = %q, want p1", s.CurrentTurnPlayerID)
	}
	// p1 starts at p2's entrance, and the seed is the first visited cell
	if got := *s.Player1.Board.PlayerPosition; got != (board.Position{X: 1, Y: 4}) {
		t.Fatalf("p1 seeded at %v", got)
	}
	if len(s.Player1.Board.VisitedCells) != 1 || s.Player1.Board.VisitedCells[0] != (board.Position{X: 1, Y: 4}) {
		t.Fatalf("p1 visited = %v", s.Player1.Board.VisitedCells)
	}
	if got := *s.Player2.Board.PlayerPosition; got != (board.Position{X: 0, Y: 0}) {
		t.Fatalf("p2 seeded at %v", got)
	}
}

func TestSubmitRejectsBadLayout(t *testing.T) {
	s := NewSession("g1", "duel", "p1", "Alice")
	if _, err := s.SubmitMaze("p1", pos(0, 0), nil, nil); !errors.Is(err, board.ErrMissingEndpoint) {
		t.Fatalf("missing exit: got %v", err)
	}
	if s.Player1.Ready {
		t.Fatalf("rejected submit must not mark player ready")
	}
	if _, err := s.SubmitMaze("ghost", pos(0, 0), pos(9, 9), nil); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("stranger submit: got %v", err)
	}
}

func TestMoveKeepsTurnAndWinsOnExit(t *testing.T) {
	s := newPlayingSession(t)

	// p1 explores p2's maze from (1,4); p2's exit is (0,4) with no wall
	// between, so one step wins
	v, err := s.Move("p1", board.Position{X: 0, Y: 4})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if v != board.VerdictMoved {
		t.Fatalf("verdict = %v", v)
	}
	if s.Stage != StageFinished || s.WinnerID != "p1" {
		t.Fatalf("stage=%s winner=%q", s.Stage, s.WinnerID)
	}
	if s.CurrentTurnPlayerID != "p1" {
		t.Fatalf("turn must not change on a successful move")
	}
}

func TestMoveBlockedPassesTurnAndSpotsWall(t *testing.T) {
	s := newPlayingSession(t)

	// walk p1 off the exit path so the match keeps going
	if v, err := s.Move("p1", board.Position{X: 2, Y: 4}); err != nil || v != board.VerdictMoved {
		t.Fatalf("setup move: v=%v err=%v", v, err)
	}
	if s.CurrentTurnPlayerID != "p1" {
		t.Fatalf("turn flipped on a successful move")
	}

	// p2 explores p1's maze; walk from (0,0) to (5,5) then hit the wall
	s.CurrentTurnPlayerID = "p2"
	path := []board.Position{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 4, Y: 0}, {X: 5, Y: 0},
		{X: 5, Y: 1}, {X: 5, Y: 2}, {X: 5, Y: 3}, {X: 5, Y: 4}, {X: 5, Y: 5}}
	for _, p := range path {
		if v, err := s.Move("p2", p); err != nil || v != board.VerdictMoved {
			t.Fatalf("walk to %v: v=%v err=%v", p, v, err)
		}
	}

	v, err := s.Move("p2", board.Position{X: 5, Y: 6})
	if err != nil {
		t.Fatalf("blocked move: %v", err)
	}
	if v != board.VerdictBlocked {
		t.Fatalf("verdict = %v", v)
	}
	spotted := s.Player2.Board.SpottedWalls
	if len(spotted) != 1 || !spotted[0].Equal(board.Wall{From: board.Position{X: 5, Y: 5}, To: board.Position{X: 5, Y: 6}}) {
		t.Fatalf("spotted walls = %v", spotted)
	}
	if s.CurrentTurnPlayerID != "p1" {
		t.Fatalf("turn must pass to the opponent on a collision")
	}
	// position unchanged on a collision
	if got := *s.Player2.Board.PlayerPosition; got != (board.Position{X: 5, Y: 5}) {
		t.Fatalf("collision moved the player to %v", got)
	}
}

func TestSpottedWallsStaySubsetOfTruth(t *testing.T) {
	s := newPlayingSession(t)
	truth := s.Player1.Board.Walls // p2 explores p1's maze

	s.CurrentTurnPlayerID = "p2"
	attempts := []board.Position{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}
	prev := 0
	for _, target := range attempts {
		_, _ = s.Move("p2", target)
		s.CurrentTurnPlayerID = "p2" // force repeated attempts regardless of verdict
		if got := len(s.Player2.Board.SpottedWalls); got < prev {
			t.Fatalf("spotted walls shrank: %d -> %d", prev, got)
		}
		prev = len(s.Player2.Board.SpottedWalls)
		for _, w := range s.Player2.Board.SpottedWalls {
			if !board.WallBetween(truth, w.From, w.To) {
				t.Fatalf("spotted wall %v not in ground truth", w)
			}
		}
	}
}

func TestMoveDroppedCommands(t *testing.T) {
	s := newPlayingSession(t)

	// out of turn: no mutation, turn untouched
	if _, err := s.Move("p2", board.Position{X: 1, Y: 0}); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("out-of-turn move: got %v", err)
	}
	if s.CurrentTurnPlayerID != "p1" {
		t.Fatalf("rejected command flipped the turn")
	}

	// malformed target: rejected, nothing changes
	before := len(s.Player1.Board.SpottedWalls)
	v, err := s.Move("p1", board.Position{X: 7, Y: 7})
	if !errors.Is(err, ErrMalformedMove) || v != board.VerdictRejected {
		t.Fatalf("teleport move: v=%v err=%v", v, err)
	}
	if len(s.Player1.Board.SpottedWalls) != before {
		t.Fatalf("malformed move recorded a phantom wall")
	}
	if s.CurrentTurnPlayerID != "p1" {
		t.Fatalf("malformed move flipped the turn")
	}
}

func TestFinishedSessionIsImmutable(t *testing.T) {
	s := newPlayingSession(t)
	if _, err := s.Move("p1", board.Position{X: 0, Y: 4}); err != nil {
		t.Fatalf("winning move: %v", err)
	}

	if _, err := s.Move("p1", board.Position{X: 1, Y: 4}); !errors.Is(err, ErrWrongStage) {
		t.Fatalf("move after finish: got %v", err)
	}
	if _, err := s.SubmitMaze("p2", pos(0, 0), pos(9, 9), nil); !errors.Is(err, ErrWrongStage) {
		t.Fatalf("submit after finish: got %v", err)
	}
	outcome, err := s.Leave("p2")
	if err != nil || outcome != LeaveNoop {
		t.Fatalf("leave after finish: outcome=%v err=%v", outcome, err)
	}
	if s.WinnerID != "p1" {
		t.Fatalf("finished session mutated: winner=%q", s.WinnerID)
	}
}

func TestLeaveOutcomes(t *testing.T) {
	waiting := NewSession("g1", "duel", "p1", "Alice")
	if outcome, err := waiting.Leave("p1"); err != nil || outcome != LeaveDelete {
		t.Fatalf("waiting leave: outcome=%v err=%v", outcome, err)
	}

	setup := NewSession("g2", "duel", "p1", "Alice")
	_, _ = setup.Join("p2", "Bob")
	if outcome, err := setup.Leave("p2"); err != nil || outcome != LeaveDelete {
		t.Fatalf("setup leave: outcome=%v err=%v", outcome, err)
	}

	playing := newPlayingSession(t)
	outcome, err := playing.Leave("p2")
	if err != nil || outcome != LeaveForfeit {
		t.Fatalf("playing leave: outcome=%v err=%v", outcome, err)
	}
	if playing.Stage != StageFinished || playing.WinnerID != "p1" {
		t.Fatalf("forfeit: stage=%s winner=%q", playing.Stage, playing.WinnerID)
	}

	if _, err := playing.Leave("ghost"); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("stranger leave: got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := newPlayingSession(t)
	cp := s.Clone()
	cp.Player1.Board.VisitedCells = append(cp.Player1.Board.VisitedCells, board.Position{X: 9, Y: 9})
	cp.Player1.Board.PlayerPosition.X = 7
	if len(s.Player1.Board.VisitedCells) != 1 {
		t.Fatalf("clone shares visited cells with the original")
	}
	if s.Player1.Board.PlayerPosition.X == 7 {
		t.Fatalf("clone shares position pointer with the original")
	}
}
