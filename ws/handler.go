package ws

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"inkwell_backend/internal/logger"
	"inkwell_backend/internal/middleware"
	"inkwell_backend/pkg/apperrors"
)

type WebSocketHandler struct {
	Manager  *WebSocketManager
	sessions middleware.SessionVerifier
	upgrader websocket.Upgrader
}

// NewWebSocketHandler accepts browser connections from allowedOrigins ("*" for any).
// Requests without an Origin header (non-browser clients) are always accepted.
func NewWebSocketHandler(manager *WebSocketManager, sessions middleware.SessionVerifier, allowedOrigins []string) *WebSocketHandler {
	allowAll := slices.Contains(allowedOrigins, "*")
	return &WebSocketHandler{
		Manager:  manager,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowAll || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ServeWS upgrades an authenticated request. Browsers cannot set headers on a websocket
// handshake, so the session token may also come as ?token=.
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	token := middleware.BearerToken(c)
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Session token required"))
		return
	}
	userID, err := h.sessions.VerifySession(token)
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrSessionInvalid)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "WebSocket upgrade error", err)
		return
	}

	client := &Client{
		UserID:  userID,
		Conn:    conn,
		Send:    make(chan []byte, sendBuffer),
		Manager: h.Manager,
	}
	if !h.Manager.join(client) {
		conn.Close()
		return
	}

	go client.readPump()
	go client.writePump()
}
