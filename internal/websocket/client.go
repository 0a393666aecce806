package websocket

import (
	"time"

	"markov-qa-be/internal/entity"
	"markov-qa-be/internal/pkg/logger"
	"markov-qa-be/internal/service"

	"github.com/gofiber/websocket/v2"
)

const (
	sendBuffer = 16

	defaultMaxMessageSize = 16 * 1024 * 1024
	defaultPongWait       = 60 * time.Second
	defaultWriteWait      = 10 * time.Second
)

// Limits bounds a single connection.
type Limits struct {
	MaxMessageSize int64
	PongWait       time.Duration
	WriteWait      time.Duration
}

// withDefaults replaces unset or non-positive values, so the ping ticker always gets a positive period.
func (l Limits) withDefaults() Limits {
	if l.MaxMessageSize <= 0 {
		l.MaxMessageSize = defaultMaxMessageSize
	}
	if l.PongWait <= 0 {
		l.PongWait = defaultPongWait
	}
	if l.WriteWait <= 0 {
		l.WriteWait = defaultWriteWait
	}
	return l
}

func (l Limits) pingPeriod() time.Duration {
	return (l.PongWait * 9) / 10
}

// Client is the middleman between one websocket connection and its conversation.
type Client struct {
	conn      *websocket.Conn
	conv      *entity.Conversation
	responder service.IResponderService
	logger    logger.ILogger
	limits    Limits

	// Buffered channel of outbound replies, closed by readPump.
	send chan string
	// Closed when writePump exits.
	done chan struct{}
}

// readPump runs the conversation loop: receive, respond, queue. Replies
// leave in the order the questions arrived.
func (c *Client) readPump() {
	defer close(c.send)

	c.conn.SetReadLimit(c.limits.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.limits.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.limits.PongWait))
		return nil
	})

	for {
		messageType, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("WebSocket", "Unexpected close", map[string]interface{}{"conversation_id": c.conv.Id, "error": err.Error()})
			}
			return
		}

		if messageType != websocket.TextMessage {
			c.logger.Warn("WebSocket", "Ignoring non-text frame", map[string]interface{}{"conversation_id": c.conv.Id, "type": messageType})
			continue
		}

		reply, err := c.responder.Respond(c.conv, string(payload))
		if err != nil {
			c.logger.Error("WebSocket", "Failed to build reply", map[string]interface{}{"conversation_id": c.conv.Id, "error": err})
			return
		}

		c.logger.Debug("WebSocket", "Reply queued", map[string]interface{}{
			"conversation_id": c.conv.Id,
			"state":           reply.State,
			"matched":         reply.Matched,
		})

		select {
		case c.send <- reply.Text:
		case <-c.done:
			return
		}
	}
}

// writePump sends queued replies and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.limits.pingPeriod())
	defer func() {
		ticker.Stop()
		c.conn.Close()
		close(c.done)
	}()

	for {
		select {
		case text, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.limits.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
				c.logger.Warn("WebSocket", "Write failed", map[string]interface{}{"conversation_id": c.conv.Id, "error": err.Error()})
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.limits.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Warn("WebSocket", "Ping failed", map[string]interface{}{"conversation_id": c.conv.Id, "error": err.Error()})
				return
			}
		}
	}
}
