package alerts

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"pill-dispenser/internal/platform/logger"

	ws "github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	clientBuf  = 16
)

// Hub reparte cada alerta a los navegadores conectados en /ws/alerts.
// Un cliente lento pierde mensajes en vez de frenar al monitor.
type Hub struct {
	mu       sync.Mutex
	clients  map[*wsClient]struct{}
	upgrader ws.Upgrader
	log      logger.Logger
}

type wsClient struct {
	conn *ws.Conn
	send chan []byte
}

func NewHub(log logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients: make(map[*wsClient]struct{}),
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// La UI corre en otro origen.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log.With(map[string]any{"component": "alerts-hub"}),
	}
}

func (h *Hub) Publish(a Alert) {
	b, err := json.Marshal(toAlertResponse(a))
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			h.log.Warn("dropping alert for slow websocket client", map[string]any{"alert_id": a.ID})
		}
	}
}

// Clients es la cantidad de conexiones abiertas.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS hace el upgrade y mantiene la conexión hasta que el cliente cierra.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade ya respondió con el error HTTP.
		h.log.Warn("websocket upgrade failed", map[string]any{"err": err})
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, clientBuf)}
	h.register(c)

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// readLoop solo drena (la UI no manda nada) y detecta el cierre.
func (h *Hub) readLoop(c *wsClient) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if !ws.IsCloseError(err, ws.CloseNormalClosure, ws.CloseGoingAway, ws.CloseAbnormalClosure) {
				h.log.Debug("websocket read error", map[string]any{"err": err})
			}
			return
		}
	}
}

func (h *Hub) writeLoop(c *wsClient) {
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
				_ = c.conn.WriteMessage(ws.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(ws.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(ws.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
