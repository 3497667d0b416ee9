package handlers

import (
	"net/http"
	"time"

	"github.com/AnshRaj112/promisu-backend/internal/logger"
	"github.com/gorilla/websocket"
)

const (
	wsPongWait   = 90 * time.Second
	wsPingPeriod = 60 * time.Second
	wsWriteWait  = 10 * time.Second
)

// recordUpgrader is the shared upgrader for record feed connections.
var recordUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS for WebSocket is handled at the HTTP layer already.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn sets a write deadline on every event.
type wsConn struct {
	*websocket.Conn
}

func (c wsConn) WriteJSON(v interface{}) error {
	_ = c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.Conn.WriteJSON(v)
}

// RecordsWebSocket streams the user's record events.
// Authentication is done via the session token (Authorization: Bearer <token>),
// or the token query parameter for browser WebSocket clients.
func (h *Handler) RecordsWebSocket(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		writeFailure(w, http.StatusUnauthorized, "missing session token")
		return
	}

	sess, err := h.Auth.Resolve(r.Context(), token)
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "invalid session token")
		return
	}

	conn, err := recordUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	unregister := h.Hub.Register(sess.UserID, wsConn{conn})
	defer unregister()
	logger.Debug("record feed opened", "user_id", sess.UserID)

	done := make(chan struct{})
	defer close(done)
	go h.keepAlive(sess.UserID.String(), conn, done)

	conn.SetReadLimit(4 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// The feed is server to client only; reads just drive the pong handler.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			logger.Debug("record feed closed", "user_id", sess.UserID, "error", err)
			return
		}
	}
}

func (h *Handler) keepAlive(userID string, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			// WriteControl may be called concurrently with other writes.
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				logger.Debug("record feed ping failed", "user_id", userID, "error", err)
				return
			}
		}
	}
}
