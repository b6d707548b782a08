// Package gateway is the real-time transport adapter: it accepts WebSocket
// connections, decodes client intents into engine commands, and pushes full
// session snapshots back out.
package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/kapu/maze-duel-go/internal/duel"
	"github.com/kapu/maze-duel-go/internal/hub"
	"github.com/kapu/maze-duel-go/internal/obslog"
	"github.com/kapu/maze-duel-go/pkg/dueldto"
)

const (
	outQueueSize = 64
	writeTimeout = 10 * time.Second
)

type Server struct {
	hub     *hub.Hub
	mgr     *duel.Manager
	origins []string
}

// New wires the transport to the engine. origins is passed to the
// handshake origin check; empty means same-origin only.
func New(h *hub.Hub, mgr *duel.Manager, origins []string) *Server {
	return &Server{hub: h, mgr: mgr, origins: origins}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
		OriginPatterns:  s.origins,
	})
	if err != nil {
		obslog.L().Warn("ws_accept_failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "connection torn down")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := &hub.Client{
		ID:   uuid.NewString(),
		Out:  make(chan dueldto.Envelope, outQueueSize),
		Kick: cancel,
	}
	s.hub.Register(client)
	defer s.hub.Unregister(client)
	obslog.L().Info("ws_connect", zap.String("conn_id", client.ID))

	go s.writePump(ctx, conn, client)

	for {
		var env dueldto.Envelope
		if err := wsjson.Read(ctx, conn, &env); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				obslog.L().Info("ws_disconnect", zap.String("conn_id", client.ID))
			} else {
				obslog.L().Warn("ws_read_error", zap.String("conn_id", client.ID), zap.Error(err))
			}
			return
		}
		s.dispatch(ctx, client, env)
	}
}

// writePump drains the client's outbound queue. A write failure tears the
// connection down; the read loop then exits through its context.
func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, c *hub.Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-c.Out:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, conn, env)
			cancel()
			if err != nil {
				if c.Kick != nil {
					c.Kick()
				}
				return
			}
		}
	}
}

// sendTo queues a frame for one client only.
func (s *Server) sendTo(c *hub.Client, event string, payload any) {
	env, err := dueldto.NewEnvelope(event, payload)
	if err != nil {
		obslog.L().Error("ws_encode_error", zap.String("event", event), zap.Error(err))
		return
	}
	if !c.Send(env) && c.Kick != nil {
		c.Kick()
	}
}

func (s *Server) broadcastAll(event string, payload any) {
	env, err := dueldto.NewEnvelope(event, payload)
	if err != nil {
		obslog.L().Error("ws_encode_error", zap.String("event", event), zap.Error(err))
		return
	}
	s.hub.BroadcastAll(env)
}

func (s *Server) broadcastSession(sessionID, event string, payload any) {
	env, err := dueldto.NewEnvelope(event, payload)
	if err != nil {
		obslog.L().Error("ws_encode_error", zap.String("event", event), zap.Error(err))
		return
	}
	s.hub.BroadcastSession(sessionID, env)
}

// broadcastLobby pushes the current session list to every connected client.
func (s *Server) broadcastLobby(ctx context.Context) {
	list, err := s.mgr.List(ctx)
	if err != nil {
		obslog.L().Error("lobby_list_error", zap.Error(err))
		return
	}
	s.broadcastAll(dueldto.EventSessionsList, list)
}
