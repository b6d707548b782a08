package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kapu/maze-duel-go/internal/board"
	"github.com/kapu/maze-duel-go/internal/duel"
	"github.com/kapu/maze-duel-go/internal/hub"
	"github.com/kapu/maze-duel-go/internal/obslog"
	"github.com/kapu/maze-duel-go/pkg/dueldto"
)

func (s *Server) dispatch(ctx context.Context, c *hub.Client, env dueldto.Envelope) {
	switch env.Event {
	case dueldto.EventListSessions:
		s.handleList(ctx, c)
	case dueldto.EventCreateSession:
		s.handleCreate(ctx, c, env.Data)
	case dueldto.EventJoinSession:
		s.handleJoin(ctx, c, env.Data)
	case dueldto.EventSubmitMaze:
		s.handleSubmit(ctx, c, env.Data)
	case dueldto.EventMakeMove:
		s.handleMove(ctx, c, env.Data)
	case dueldto.EventLeaveSession:
		s.handleLeave(ctx, c, env.Data)
	case dueldto.EventSendChat:
		s.handleChat(c, env.Data)
	default:
		obslog.L().Debug("ws_unknown_event", zap.String("event", env.Event))
	}
}

func decode[T any](raw json.RawMessage) (T, bool) {
	var req T
	if err := json.Unmarshal(raw, &req); err != nil {
		obslog.L().Debug("ws_bad_payload", zap.Error(err))
		return req, false
	}
	return req, true
}

func (s *Server) handleList(ctx context.Context, c *hub.Client) {
	list, err := s.mgr.List(ctx)
	if err != nil {
		obslog.L().Error("lobby_list_error", zap.Error(err))
		return
	}
	s.sendTo(c, dueldto.EventSessionsList, list)
}

func (s *Server) handleCreate(ctx context.Context, c *hub.Client, raw json.RawMessage) {
	req, ok := decode[dueldto.CreateSessionRequest](raw)
	if !ok || req.CreatorID == "" {
		return
	}
	sess, err := s.mgr.Create(ctx, req.SessionName, req.CreatorID, req.CreatorName)
	if err != nil {
		obslog.L().Error("duel_create_error", zap.Error(err))
		return
	}
	s.hub.Subscribe(sess.ID, c)
	s.sendTo(c, dueldto.EventSessionCreated, sess)
	s.broadcastLobby(ctx)
}

func (s *Server) handleJoin(ctx context.Context, c *hub.Client, raw json.RawMessage) {
	req, ok := decode[dueldto.JoinSessionRequest](raw)
	if !ok || req.SessionID == "" || req.PlayerID == "" {
		return
	}
	sess, changed, err := s.mgr.Join(ctx, req.SessionID, req.PlayerID, req.PlayerName)
	switch {
	case errors.Is(err, duel.ErrNotFound):
		s.sendTo(c, dueldto.EventSessionNotFound, nil)
		return
	case errors.Is(err, duel.ErrSessionFull):
		s.sendTo(c, dueldto.EventSessionFull, nil)
		return
	case err != nil:
		obslog.L().Error("duel_join_error", zap.String("session_id", req.SessionID), zap.Error(err))
		return
	}
	s.hub.Subscribe(sess.ID, c)
	if changed {
		s.broadcastLobby(ctx)
	}
	// the snapshot always goes out, even on an idempotent re-join
	s.broadcastSession(sess.ID, dueldto.EventSessionUpdate, sess)
}

func (s *Server) handleSubmit(ctx context.Context, c *hub.Client, raw json.RawMessage) {
	req, ok := decode[dueldto.SubmitMazeRequest](raw)
	if !ok || req.SessionID == "" || req.PlayerID == "" {
		return
	}
	sess, _, err := s.mgr.SubmitMaze(ctx, req.SessionID, req.PlayerID,
		toPositionPtr(req.Board.Entrance),
		toPositionPtr(req.Board.Exit),
		toWalls(req.Board.Walls),
	)
	switch {
	case errors.Is(err, duel.ErrNotFound):
		s.sendTo(c, dueldto.EventSessionNotFound, nil)
		return
	case isLayoutError(err):
		s.sendTo(c, dueldto.EventError, dueldto.ErrorNotice{Message: err.Error()})
		return
	case err != nil:
		// stale client (wrong stage, not a participant): drop silently
		obslog.L().Debug("duel_submit_dropped", zap.String("session_id", req.SessionID), zap.Error(err))
		return
	}
	s.broadcastSession(sess.ID, dueldto.EventSessionUpdate, sess)
}

func (s *Server) handleMove(ctx context.Context, c *hub.Client, raw json.RawMessage) {
	req, ok := decode[dueldto.MakeMoveRequest](raw)
	if !ok || req.SessionID == "" || req.PlayerID == "" {
		return
	}
	sess, _, err := s.mgr.Move(ctx, req.SessionID, req.PlayerID, toPosition(req.Target))
	switch {
	case errors.Is(err, duel.ErrNotFound):
		s.sendTo(c, dueldto.EventSessionNotFound, nil)
		return
	case errors.Is(err, duel.ErrMalformedMove):
		s.sendTo(c, dueldto.EventError, dueldto.ErrorNotice{Message: err.Error()})
		return
	case err != nil:
		obslog.L().Debug("duel_move_dropped", zap.String("session_id", req.SessionID), zap.Error(err))
		return
	}
	s.broadcastSession(sess.ID, dueldto.EventSessionUpdate, sess)
}

func (s *Server) handleLeave(ctx context.Context, c *hub.Client, raw json.RawMessage) {
	req, ok := decode[dueldto.LeaveSessionRequest](raw)
	if !ok || req.SessionID == "" || req.PlayerID == "" {
		return
	}
	sess, outcome, err := s.mgr.Leave(ctx, req.SessionID, req.PlayerID)
	if err != nil {
		obslog.L().Debug("duel_leave_dropped", zap.String("session_id", req.SessionID), zap.Error(err))
		return
	}
	s.hub.Unsubscribe(req.SessionID, c)
	switch outcome {
	case duel.LeaveDelete:
		s.broadcastLobby(ctx)
	case duel.LeaveForfeit:
		s.broadcastSession(sess.ID, dueldto.EventSessionUpdate, sess)
	}
}

func (s *Server) handleChat(c *hub.Client, raw json.RawMessage) {
	req, ok := decode[dueldto.SendChatRequest](raw)
	if !ok || req.SessionID == "" {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		return
	}
	msg := dueldto.ChatMessage{
		ID:         uuid.NewString(),
		GameID:     req.SessionID,
		PlayerID:   req.PlayerID,
		PlayerName: req.PlayerName,
		Text:       req.Text,
		Timestamp:  time.Now().UnixMilli(),
	}
	s.broadcastSession(req.SessionID, dueldto.EventChatMessage, msg)
}

func isLayoutError(err error) bool {
	return errors.Is(err, board.ErrMissingEndpoint) ||
		errors.Is(err, board.ErrPositionOutOfBounds) ||
		errors.Is(err, board.ErrEndpointsCollide) ||
		errors.Is(err, board.ErrInvalidWall)
}

func toPosition(p dueldto.Position) board.Position {
	return board.Position{X: p.X, Y: p.Y}
}

func toPositionPtr(p *dueldto.Position) *board.Position {
	if p == nil {
		return nil
	}
	bp := toPosition(*p)
	return &bp
}

func toWalls(ws []dueldto.Wall) []board.Wall {
	out := make([]board.Wall, 0, len(ws))
	for _, w := range ws {
		out = append(out, board.Wall{From: toPosition(w.From), To: toPosition(w.To)})
	}
	return out
}
