package websocket

import (
	"markov-qa-be/internal/entity"
	"markov-qa-be/internal/pkg/logger"
	"markov-qa-be/internal/service"

	"github.com/gofiber/websocket/v2"
)

// ServeConversation drives one conversation until the peer goes away.
// It blocks the handler goroutine, as fiber's websocket middleware expects.
func ServeConversation(conn *websocket.Conn, conv *entity.Conversation, responder service.IResponderService, log logger.ILogger, limits Limits) {
	client := &Client{
		conn:      conn,
		conv:      conv,
		responder: responder,
		logger:    log,
		limits:    limits.withDefaults(),
		send:      make(chan string, sendBuffer),
		done:      make(chan struct{}),
	}

	go client.writePump()
	client.readPump()
	<-client.done
}
