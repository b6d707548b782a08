package duel

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/kapu/maze-duel-go/internal/board"
)

var (
	// ErrNotFound is surfaced to the caller: the session id is unknown.
	ErrNotFound = errors.New("session not found")
	// ErrSessionFull is surfaced distinctly so the client can redirect.
	ErrSessionFull = errors.New("session already has two players")
	// ErrNotParticipant and the stage/turn errors mark commands from stale
	// clients; the gateway drops them without mutation or broadcast.
	ErrNotParticipant = errors.New("player is not in this session")
	ErrWrongStage     = errors.New("command not valid in current stage")
	ErrOutOfTurn      = errors.New("not this player's turn")
	// ErrMalformedMove is surfaced: the target violates grid geometry.
	ErrMalformedMove = errors.New("move target out of bounds or not adjacent")
)

// LeaveOutcome tells the caller how a leave command resolved.
type LeaveOutcome int

const (
	// LeaveNoop: session already finished, nothing changed.
	LeaveNoop LeaveOutcome = iota
	// LeaveDelete: session was still forming; it leaves no residue.
	LeaveDelete
	// LeaveForfeit: match was live; the remaining player wins.
	LeaveForfeit
)

// NewSession creates a waiting session with the creator in slot one.
func NewSession(id, name, creatorID, creatorName string) *Session {
	now := time.Now()
	return &Session{
		ID:   id,
		Name: name,
		Player1: &Player{
			ID:    creatorID,
			Name:  creatorName,
			Board: board.NewBoard(),
		},
		Stage:     StageWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) participant(playerID string) *Player {
	if s.Player1 != nil && s.Player1.ID == playerID {
		return s.Player1
	}
	if s.Player2 != nil && s.Player2.ID == playerID {
		return s.Player2
	}
	return nil
}

func (s *Session) opponentOf(playerID string) *Player {
	if s.Player1 != nil && s.Player1.ID == playerID {
		return s.Player2
	}
	if s.Player2 != nil && s.Player2.ID == playerID {
		return s.Player1
	}
	return nil
}

// Join seats playerID in slot two. Re-joins by an existing participant are
// idempotent no-ops (changed=false); a third identity gets ErrSessionFull.
// A joiner without a name is assigned a generated one.
func (s *Session) Join(playerID, name string) (changed bool, err error) {
	if s.participant(playerID) != nil {
		return false, nil
	}
	if s.Player2 != nil {
		return false, ErrSessionFull
	}
	if name == "" {
		name = fmt.Sprintf("Player%d", rand.Intn(9000)+1000)
	}
	s.Player2 = &Player{
		ID:    playerID,
		Name:  name,
		Board: board.NewBoard(),
	}
	s.Stage = StageSetup
	s.UpdatedAt = time.Now()
	return true, nil
}

// SubmitMaze stores a player's authored maze and marks them ready. The
// moment the second player becomes ready the match starts. started reports
// whether this submission fired the transition to playing.
func (s *Session) SubmitMaze(playerID string, entrance, exit *board.Position, walls []board.Wall) (started bool, err error) {
	p := s.participant(playerID)
	if p == nil {
		return false, ErrNotParticipant
	}
	if s.Stage != StageWaiting && s.Stage != StageSetup {
		return false, ErrWrongStage
	}
	if err := board.ValidateLayout(entrance, exit, walls); err != nil {
		return false, err
	}

	p.Board.Entrance = entrance
	p.Board.Exit = exit
	p.Board.Walls = append([]board.Wall(nil), walls...)
	p.Ready = true
	s.UpdatedAt = time.Now()

	if s.Player1 != nil && s.Player1.Ready && s.Player2 != nil && s.Player2.Ready {
		s.start()
		return true, nil
	}
	return false, nil
}

// start seeds each explorer at the opponent's entrance and hands the first
// turn to player one unconditionally.
func (s *Session) start() {
	seed := func(explorer, author *Player) {
		pos := *author.Board.Entrance
		explorer.Board.PlayerPosition = &pos
		explorer.Board.VisitedCells = append(explorer.Board.VisitedCells, pos)
	}
	seed(s.Player1, s.Player2)
	seed(s.Player2, s.Player1)
	s.Stage = StagePlaying
	s.CurrentTurnPlayerID = s.Player1.ID
}

// Move arbitrates one navigation attempt against the opponent's true walls
// and applies the verdict: a successful step keeps the turn (and wins on
// the opponent's exit), a collision records the wall and passes the turn,
// and a malformed target changes nothing at all.
func (s *Session) Move(playerID string, target board.Position) (board.Verdict, error) {
	if s.Stage != StagePlaying {
		return board.VerdictRejected, ErrWrongStage
	}
	if s.CurrentTurnPlayerID != playerID {
		return board.VerdictRejected, ErrOutOfTurn
	}
	mover := s.participant(playerID)
	opp := s.opponentOf(playerID)
	if mover == nil || opp == nil || mover.Board.PlayerPosition == nil {
		return board.VerdictRejected, ErrNotParticipant
	}

	cur := *mover.Board.PlayerPosition
	verdict := board.Arbitrate(cur, target, opp.Board.Walls)
	switch verdict {
	case board.VerdictMoved:
		pos := target
		mover.Board.PlayerPosition = &pos
		mover.Board.VisitedCells = append(mover.Board.VisitedCells, target)
		if opp.Board.Exit != nil && target == *opp.Board.Exit {
			s.Stage = StageFinished
			s.WinnerID = playerID
		}
	case board.VerdictBlocked:
		mover.Board.SpottedWalls = append(mover.Board.SpottedWalls, board.Wall{From: cur, To: target})
		s.CurrentTurnPlayerID = opp.ID
	case board.VerdictRejected:
		return verdict, ErrMalformedMove
	}
	s.UpdatedAt = time.Now()
	return verdict, nil
}

// Leave resolves a participant's departure by stage: a forming session is
// deleted outright, a live one finishes with the remaining player as
// winner, a finished one is left alone.
func (s *Session) Leave(playerID string) (LeaveOutcome, error) {
	p := s.participant(playerID)
	if p == nil {
		return LeaveNoop, ErrNotParticipant
	}
	switch s.Stage {
	case StageWaiting, StageSetup:
		return LeaveDelete, nil
	case StagePlaying:
		if opp := s.opponentOf(playerID); opp != nil {
			s.WinnerID = opp.ID
		}
		s.Stage = StageFinished
		s.UpdatedAt = time.Now()
		return LeaveForfeit, nil
	default:
		return LeaveNoop, nil
	}
}
