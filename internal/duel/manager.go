package duel

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kapu/maze-duel-go/internal/board"
	"github.com/kapu/maze-duel-go/internal/obslog"
)

// Manager owns the session table. Every command runs the full
// read-validate-mutate-persist cycle under an exclusive per-session lock,
// so two intents against the same id never interleave. Different sessions
// share no mutable state and proceed concurrently.
type Manager struct {
	store Store
	repo  *Repository
	locks sync.Map // session id -> *sync.Mutex
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// AttachRepository wires an optional archive for finished duels.
func (m *Manager) AttachRepository(r *Repository) {
	m.repo = r
}

func (m *Manager) lockFor(id string) *sync.Mutex {
	mu, _ := m.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Create registers a new waiting session with the creator in slot one.
func (m *Manager) Create(ctx context.Context, name, creatorID, creatorName string) (*Session, error) {
	s := NewSession(uuid.NewString(), name, creatorID, creatorName)
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	obslog.L().Info("duel_create",
		zap.String("session_id", s.ID),
		zap.String("session_name", s.Name),
		zap.String("creator_id", creatorID),
	)
	return s, nil
}

// List returns the lobby snapshot.
func (m *Manager) List(ctx context.Context) ([]*Session, error) {
	return m.store.List(ctx)
}

// Get returns the session or ErrNotFound.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	s, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNotFound
	}
	return s, nil
}

// Join seats playerID in the session. changed reports whether the lobby
// view is affected (a genuinely new second player).
func (m *Manager) Join(ctx context.Context, id, playerID, playerName string) (*Session, bool, error) {
	mu := m.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	s, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if s == nil {
		return nil, false, ErrNotFound
	}
	changed, err := s.Join(playerID, playerName)
	if err != nil {
		return nil, false, err
	}
	if changed {
		if err := m.store.Save(ctx, s); err != nil {
			return nil, false, err
		}
		obslog.L().Info("duel_join",
			zap.String("session_id", s.ID),
			zap.String("player_id", playerID),
			zap.String("stage", string(s.Stage)),
		)
	}
	return s, changed, nil
}

// SubmitMaze stores a player's authored maze; when the second player
// becomes ready this also starts the match. started mirrors the session
// transition for the caller's broadcast decision.
func (m *Manager) SubmitMaze(ctx context.Context, id, playerID string, entrance, exit *board.Position, walls []board.Wall) (*Session, bool, error) {
	mu := m.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	s, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if s == nil {
		return nil, false, ErrNotFound
	}
	started, err := s.SubmitMaze(playerID, entrance, exit, walls)
	if err != nil {
		return nil, false, err
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, false, err
	}
	obslog.L().Info("duel_submit",
		zap.String("session_id", s.ID),
		zap.String("player_id", playerID),
		zap.Int("walls", len(walls)),
		zap.Bool("started", started),
	)
	return s, started, nil
}

// Move arbitrates one navigation attempt.
func (m *Manager) Move(ctx context.Context, id, playerID string, target board.Position) (*Session, board.Verdict, error) {
	mu := m.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	s, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, board.VerdictRejected, err
	}
	if s == nil {
		return nil, board.VerdictRejected, ErrNotFound
	}
	verdict, err := s.Move(playerID, target)
	if err != nil {
		return nil, verdict, err
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, verdict, err
	}
	obslog.L().Info("duel_move",
		zap.String("session_id", s.ID),
		zap.String("player_id", playerID),
		zap.Int("x", target.X),
		zap.Int("y", target.Y),
		zap.String("verdict", verdict.String()),
		zap.String("stage", string(s.Stage)),
	)
	if s.Stage == StageFinished {
		m.archive(ctx, s, FinishReasonExit)
	}
	return s, verdict, nil
}

// Leave resolves a departure: forming sessions are deleted, live ones end
// as a forfeit win for the opponent, finished ones are untouched.
func (m *Manager) Leave(ctx context.Context, id, playerID string) (*Session, LeaveOutcome, error) {
	mu := m.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	s, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, LeaveNoop, err
	}
	if s == nil {
		return nil, LeaveNoop, ErrNotFound
	}
	outcome, err := s.Leave(playerID)
	if err != nil {
		return nil, LeaveNoop, err
	}
	switch outcome {
	case LeaveDelete:
		if err := m.store.Delete(ctx, id); err != nil {
			return nil, outcome, err
		}
		m.locks.Delete(id)
	case LeaveForfeit:
		if err := m.store.Save(ctx, s); err != nil {
			return nil, outcome, err
		}
		m.archive(ctx, s, FinishReasonForfeit)
	}
	obslog.L().Info("duel_leave",
		zap.String("session_id", id),
		zap.String("player_id", playerID),
		zap.Int("outcome", int(outcome)),
	)
	return s, outcome, nil
}

// archive records a finished duel in the optional repository. Failures are
// logged and never fail the command.
func (m *Manager) archive(ctx context.Context, s *Session, reason string) {
	if m.repo == nil {
		return
	}
	if err := m.repo.SaveResult(ctx, s, reason); err != nil {
		obslog.L().Error("duel_result_persist_error",
			zap.String("session_id", s.ID),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return
	}
	obslog.L().Info("duel_result_persist",
		zap.String("session_id", s.ID),
		zap.String("winner_id", s.WinnerID),
		zap.String("reason", reason),
	)
}
