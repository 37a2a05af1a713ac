/*
Package wsocket
File: hub.go
Description:
    Adapts a broadcast.Fabric subscription onto a gorilla/websocket
    connection. Generalizes the teacher's Client/ServeWs/readPump/writePump
    split (internal/api/hub.go) from a single shared Hub.Broadcast channel
    to a per-connection Fabric subscription filtered by the caller's
    requested topics.
*/
package wsocket

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/everforgeworks/frontier-core/internal/broadcast"
	"github.com/everforgeworks/frontier-core/internal/telemetrylog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one subscribed websocket connection.
type Client struct {
	fabric *broadcast.Fabric
	conn   *websocket.Conn
	token  broadcast.Token
	recv   <-chan broadcast.Envelope
	log    zerolog.Logger
}

// ServeWs upgrades r to a websocket and subscribes the connection to the
// fabric, filtered by the comma-separated "topics" query parameter (every
// topic, if omitted).
func ServeWs(fabric *broadcast.Fabric, w http.ResponseWriter, r *http.Request) {
	log := telemetrylog.Component("wsocket")
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	var topics []string
	if raw := r.URL.Query().Get("topics"); raw != "" {
		topics = strings.Split(raw, ",")
	}
	token, recv := fabric.Subscribe(topics)

	c := &Client{fabric: fabric, conn: conn, token: token, recv: recv, log: log}
	go c.writePump()
	go c.readPump()
}

// readPump only drains and discards inbound frames -- this is a read-only
// feed -- but it still owns the connection's read deadline/pong handling
// and is what notices the peer went away.
func (c *Client) readPump() {
	defer func() {
		c.fabric.Unsubscribe(c.token)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("websocket closed unexpectedly")
			}
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
		case env, ok := <-c.recv:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			payload, err := json.Marshal(env)
			if err != nil {
				c.log.Error().Err(err).Msg("marshal envelope failed")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
