package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/golf-bot/internal/observability/attr"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a board to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Clients only send control frames
	maxMessageSize = 512
)

// HandleLiveLeaderboard upgrades to a websocket and streams the board for a
// round: once on connect and again after every change. Each connection owns
// its own watch, which is cancelled when the client goes away.
func (h *Handlers) HandleLiveLeaderboard(w http.ResponseWriter, r *http.Request) {
	roundID := chi.URLParam(r, "roundID")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	boards, err := h.leaderboard.Watch(ctx, roundID, viewerFrom(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.logger.WarnContext(ctx, "WebSocket upgrade failed", attr.RoundID(roundID), attr.Error(err))
		return
	}
	defer conn.Close()

	h.logger.InfoContext(ctx, "Live leaderboard connected", attr.RoundID(roundID))
	defer h.logger.InfoContext(ctx, "Live leaderboard disconnected", attr.RoundID(roundID))

	go readPump(conn, cancel)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case board, ok := <-boards:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(board); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client frames and cancels the watch once the peer is gone.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
