package duel

import (
	"time"

	"github.com/kapu/maze-duel-go/internal/board"
)

// Stage is a session lifecycle state. Values are wire-visible.
type Stage string

const (
	StageWaiting  Stage = "waiting"
	StageSetup    Stage = "setup"
	StagePlaying  Stage = "playing"
	StageFinished Stage = "finished"
)

// Player is one participant slot of a session.
type Player struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Board *board.Board `json:"board"`
	Ready bool         `json:"ready"`
}

// Session is one maze duel from creation to finish or abandonment. The
// whole struct is the snapshot pushed to clients; there are no deltas.
type Session struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Player1             *Player   `json:"player1"`
	Player2             *Player   `json:"player2"`
	Stage               Stage     `json:"stage"`
	CurrentTurnPlayerID string    `json:"currentTurnPlayerId,omitempty"`
	WinnerID            string    `json:"winnerId,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Clone deep-copies the session so stores can hand out snapshots without
// aliasing live state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Player1 = clonePlayer(s.Player1)
	cp.Player2 = clonePlayer(s.Player2)
	return &cp
}

func clonePlayer(p *Player) *Player {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Board != nil {
		b := *p.Board
		b.Entrance = clonePos(p.Board.Entrance)
		b.Exit = clonePos(p.Board.Exit)
		b.PlayerPosition = clonePos(p.Board.PlayerPosition)
		b.Walls = append([]board.Wall(nil), p.Board.Walls...)
		b.VisitedCells = append([]board.Position(nil), p.Board.VisitedCells...)
		b.SpottedWalls = append([]board.Wall(nil), p.Board.SpottedWalls...)
		cp.Board = &b
	}
	return &cp
}

func clonePos(p *board.Position) *board.Position {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
