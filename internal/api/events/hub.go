package events

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 16
)

type connection struct {
	userID    string
	sessionID string
	conn      *websocket.Conn
	send      chan []byte
}

// Hub distribui os eventos de sessão para as conexões abertas do usuário.
// Um usuário pode ter várias conexões (uma por dispositivo ou aba).
type Hub struct {
	mu          sync.RWMutex
	connections map[string]map[*connection]struct{}
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]map[*connection]struct{}),
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.connections[c.userID]
	if !ok {
		conns = make(map[*connection]struct{})
		h.connections[c.userID] = conns
	}
	conns[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.connections[c.userID]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}

	delete(conns, c)
	close(c.send)
	if len(conns) == 0 {
		delete(h.connections, c.userID)
	}
}

// Publish envia o evento para todas as conexões do usuário. Conexões lentas perdem o evento.
// Num SIGNED_OUT as conexões da sessão revogada recebem o evento e depois são fechadas.
func (h *Hub) Publish(event domain.AuthEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).Error("Erro ao serializar evento de sessão")
		return
	}

	h.mu.RLock()
	for c := range h.connections[event.UserID] {
		select {
		case c.send <- data:
		default:
			logrus.WithField("user_id", event.UserID).Warn("Conexão lenta, evento de sessão descartado")
		}
	}
	h.mu.RUnlock()

	if event.Type == domain.AuthEventSignedOut && event.SessionID != "" {
		h.CloseSession(event.UserID, event.SessionID)
	}
}

// CloseSession fecha as conexões abertas com o token da sessão informada
func (h *Hub) CloseSession(userID, sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.connections[userID]
	closed := 0
	for c := range conns {
		if c.sessionID != sessionID {
			continue
		}
		delete(conns, c)
		close(c.send)
		closed++
	}
	if len(conns) == 0 {
		delete(h.connections, userID)
	}

	if closed > 0 {
		logrus.WithFields(logrus.Fields{"user_id": userID, "closed": closed}).Info("Conexões de sessão revogada encerradas")
	}
	return closed
}

// ConnectionCount retorna o número de conexões abertas do usuário
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID])
}

// ServeWS registra a conexão da sessão e bloqueia até o cliente desconectar
func (h *Hub) ServeWS(conn *websocket.Conn, userID, sessionID string) {
	c := &connection{
		userID:    userID,
		sessionID: sessionID,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
	}

	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

// Close encerra todas as conexões
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, conns := range h.connections {
		for c := range conns {
			close(c.send)
		}
		delete(h.connections, userID)
	}
}

// readPump só consome pongs e frames de controle. O fluxo é unidirecional.
func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("user_id", c.userID).Warn("Conexão de eventos encerrada inesperadamente")
			}
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
