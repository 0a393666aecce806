package handler

import (
	"markov-qa-be/internal/constant"
	"markov-qa-be/internal/pkg/logger"
	"markov-qa-be/internal/pkg/serverutils"
	"markov-qa-be/internal/repository/memory"
	"markov-qa-be/internal/service"
	internalWS "markov-qa-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type ResponderHandler struct {
	service       service.IResponderService
	conversations *memory.ConversationRepository
	limits        internalWS.Limits
	logger        logger.ILogger
}

func NewResponderHandler(svc service.IResponderService, repo *memory.ConversationRepository, limits internalWS.Limits, log logger.ILogger) *ResponderHandler {
	return &ResponderHandler{
		service:       svc,
		conversations: repo,
		limits:        limits,
		logger:        log,
	}
}

// ServeWs upgrades the request and runs one conversation on it.
func (h *ResponderHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		conv := h.service.NewConversation(conn.RemoteAddr().String())
		h.conversations.Save(conv)
		defer h.conversations.Delete(conv.Id.String())

		h.logger.Info("ResponderHandler", "Conversation started", map[string]interface{}{
			"conversation_id": conv.Id,
			"remote_addr":     conv.RemoteAddr,
		})

		internalWS.ServeConversation(conn, conv, h.service, h.logger, h.limits)

		h.logger.Info("ResponderHandler", "Conversation ended", map[string]interface{}{
			"conversation_id": conv.Id,
			"messages":        conv.MessageCount,
			"last_state":      conv.State,
		})
	})(c)
}

func (h *ResponderHandler) ActiveConversations(c *fiber.Ctx) error {
	return c.JSON(serverutils.SuccessResponse("active conversations", fiber.Map{
		"active": h.conversations.Count(),
	}))
}

func (h *ResponderHandler) Questions(c *fiber.Ctx) error {
	return c.JSON(serverutils.SuccessResponse("known questions", h.service.Questions()))
}

func (h *ResponderHandler) Health(c *fiber.Ctx) error {
	return c.JSON(serverutils.SuccessResponse("ok", fiber.Map{"status": "up"}))
}

// RegisterRoutes mounts the socket on the root app and the JSON endpoints under /api.
func (h *ResponderHandler) RegisterRoutes(app fiber.Router) {
	app.Get(constant.ResponderWebSocketPath, h.ServeWs)

	api := app.Group("/api")
	api.Get("/health", h.Health)
	api.Get("/knowledge", h.Questions)
	api.Get("/conversations/active", h.ActiveConversations)
}
