package realtime

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

// Client is one websocket connection bound to a fixed room set.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID
	rooms  []string
	send   chan []byte
	once   chan struct{}
	log    *zap.Logger
}

func NewClient(hub *Hub, conn *websocket.Conn, cc *ConnectionContext, log *zap.Logger) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: cc.UserID,
		rooms:  cc.Rooms,
		send:   make(chan []byte, sendBuffer),
		once:   make(chan struct{}),
		log:    log.With(zap.String("user_id", cc.UserID.String())),
	}
}

// Send queues a payload without blocking. A client whose buffer is full is
// disconnected rather than allowed to stall the broadcast path; it resyncs
// state on reconnect.
func (c *Client) Send(payload []byte) {
	select {
	case c.send <- payload:
	default:
		c.log.Warn("Client send buffer full, dropping connection")
		c.close()
	}
}

func (c *Client) close() {
	select {
	case <-c.once:
	default:
		close(c.once)
	}
}

// Run starts the read and write pumps and blocks until the connection dies.
func (c *Client) Run() {
	c.hub.Register(c)
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	go c.writePump()
	c.readPump()
}

// readPump drains and discards inbound frames. The socket is push-only;
// its real job here is detecting the close.
func (c *Client) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("Client read error", zap.Error(err))
			}
			c.close()
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.once:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
