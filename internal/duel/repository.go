package duel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
)

// Finish reasons recorded with archived results.
const (
	FinishReasonExit    = "exit"
	FinishReasonForfeit = "forfeit"
)

var ErrDuplicateResult = errors.New("duel result already recorded")

// Repository archives finished duels in Postgres. Live sessions never pass
// through here; the archive is write-once history, not session recovery.
type Repository struct {
	db *sql.DB
}

// NewRepository opens a Postgres connection from databaseURL. An empty URL
// returns (nil, nil) so the caller can wire the archive conditionally.
func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, nil
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveResult inserts one row per finished session; replays of the same
// session id are ignored.
func (r *Repository) SaveResult(ctx context.Context, s *Session, reason string) error {
	if r == nil || r.db == nil || s == nil {
		return nil
	}
	if s.Stage != StageFinished {
		return nil
	}

	var winnerName, loserID, loserName string
	var winnerVisited, loserVisited int
	for _, p := range []*Player{s.Player1, s.Player2} {
		if p == nil {
			continue
		}
		if p.ID == s.WinnerID {
			winnerName = p.Name
			winnerVisited = len(p.Board.VisitedCells)
		} else {
			loserID = p.ID
			loserName = p.Name
			loserVisited = len(p.Board.VisitedCells)
		}
	}

	const query = `
		INSERT INTO duel_results (
			session_id,
			session_name,
			winner_id,
			winner_name,
			loser_id,
			loser_name,
			finish_reason,
			winner_cells_visited,
			loser_cells_visited,
			started_at,
			finished_at,
			duration_ms
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (session_id) DO NOTHING
		RETURNING id`

	var id sql.NullInt64
	err := r.db.QueryRowContext(
		ctx,
		query,
		s.ID,
		s.Name,
		s.WinnerID,
		winnerName,
		loserID,
		loserName,
		reason,
		winnerVisited,
		loserVisited,
		s.CreatedAt,
		s.UpdatedAt,
		s.UpdatedAt.Sub(s.CreatedAt).Milliseconds(),
	).Scan(&id)
	if err == sql.ErrNoRows || (err == nil && !id.Valid) {
		return ErrDuplicateResult
	}
	if err != nil {
		return fmt.Errorf("insert duel result: %w", err)
	}
	return nil
}
