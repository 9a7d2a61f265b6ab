package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.ServeWS(conn, r.URL.Query().Get("user"), r.URL.Query().Get("session"))
	}))
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	return dialSession(t, server, userID, "")
}

func dialSession(t *testing.T, server *httptest.Server, userID, sessionID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?user=" + userID + "&session=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_PublishOnlyToOwner(t *testing.T) {
	hub := NewHub()
	server := newTestServer(t, hub)

	ana := dial(t, server, "ana")
	bob := dial(t, server, "bob")

	require.Eventually(t, func() bool {
		return hub.ConnectionCount("ana") == 1 && hub.ConnectionCount("bob") == 1
	}, time.Second, 10*time.Millisecond)

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	hub.Publish(domain.AuthEvent{Type: domain.AuthEventSignedOut, UserID: "ana", At: at})

	var event domain.AuthEvent
	_ = ana.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, ana.ReadJSON(&event))
	assert.Equal(t, domain.AuthEventSignedOut, event.Type)
	assert.Equal(t, "ana", event.UserID)
	assert.True(t, at.Equal(event.At))

	_ = bob.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := bob.ReadMessage()
	assert.Error(t, err)
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	hub := NewHub()
	server := newTestServer(t, hub)

	first := dial(t, server, "ana")
	_ = dial(t, server, "ana")

	require.Eventually(t, func() bool { return hub.ConnectionCount("ana") == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, first.Close())

	assert.Eventually(t, func() bool { return hub.ConnectionCount("ana") == 1 }, time.Second, 10*time.Millisecond)
}

func TestHub_SignedOutClosesRevokedSession(t *testing.T) {
	hub := NewHub()
	server := newTestServer(t, hub)

	revoked := dialSession(t, server, "ana", "s1")
	other := dialSession(t, server, "ana", "s2")

	require.Eventually(t, func() bool { return hub.ConnectionCount("ana") == 2 }, time.Second, 10*time.Millisecond)

	hub.Publish(domain.AuthEvent{Type: domain.AuthEventSignedOut, UserID: "ana", SessionID: "s1", At: time.Now()})

	// as duas recebem o evento
	for _, conn := range []*websocket.Conn{revoked, other} {
		var event domain.AuthEvent
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		require.NoError(t, conn.ReadJSON(&event))
		assert.Equal(t, domain.AuthEventSignedOut, event.Type)
	}

	// a sessão revogada é fechada em seguida
	_ = revoked.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := revoked.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "esperado fechamento normal, recebido %v", err)
	assert.Eventually(t, func() bool { return hub.ConnectionCount("ana") == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(domain.AuthEvent{Type: domain.AuthEventUserUpdated, UserID: "ana", At: time.Now()})

	var event domain.AuthEvent
	_ = other.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, other.ReadJSON(&event))
	assert.Equal(t, domain.AuthEventUserUpdated, event.Type)
}
