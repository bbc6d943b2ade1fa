package ws

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell_backend/internal/models"
)

type tokenTable map[string]uint

func (t tokenTable) VerifySession(token string) (uint, error) {
	if id, ok := t[token]; ok {
		return id, nil
	}
	return 0, errors.New("invalid")
}

func newServer(t *testing.T) (*WebSocketManager, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	manager := NewWebSocketManager()
	go manager.Run(ctx)

	r := gin.New()
	r.GET("/ws", NewWebSocketHandler(manager, tokenTable{"alice": 1, "bob": 2}, []string{"*"}).ServeWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return manager, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestServeWS_RejectsMissingOrBadToken(t *testing.T) {
	_, url := newServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"?token=mallory", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPushNotification_ReachesEveryConnectionOfTheUser(t *testing.T) {
	manager, url := newServer(t)

	first, _, err := websocket.DefaultDialer.Dial(url+"?token=alice", nil)
	require.NoError(t, err)
	defer first.Close()

	header := http.Header{"Authorization": []string{"Bearer alice"}}
	second, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer second.Close()

	require.Eventually(t, func() bool { return manager.GetClientCount() == 2 }, time.Second, 10*time.Millisecond)
	assert.True(t, manager.IsClientConnected(1))
	assert.False(t, manager.IsClientConnected(2))

	manager.PushNotification(1, &models.Notification{ID: 9, BlogID: 3, UserID: 1})
	manager.PushNotification(2, &models.Notification{ID: 10, BlogID: 3, UserID: 2})

	for _, conn := range []*websocket.Conn{first, second} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var event struct {
			Type string              `json:"type"`
			Data models.Notification `json:"data"`
		}
		require.NoError(t, json.Unmarshal(data, &event))
		assert.Equal(t, EventNotification, event.Type)
		assert.Equal(t, uint(9), event.Data.ID)
		assert.Equal(t, uint(3), event.Data.BlogID)
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	manager, url := newServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token=bob", nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return manager.IsClientConnected(2) }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return !manager.IsClientConnected(2) }, 2*time.Second, 10*time.Millisecond)
}
