package bootstrap

import (
	"markov-qa-be/internal/config"
	"markov-qa-be/internal/handler"
	"markov-qa-be/internal/pkg/logger"
	"markov-qa-be/internal/repository/memory"
	"markov-qa-be/internal/service"
	internalWS "markov-qa-be/internal/websocket"
	"markov-qa-be/pkg/knowledge"
	"markov-qa-be/pkg/markov"
)

type Container struct {
	Logger   logger.ILogger
	WsLogger logger.ILogger

	ResponderService service.IResponderService
	Conversations    *memory.ConversationRepository
	ResponderHandler *handler.ResponderHandler
}

func NewContainer(cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	wsLogger := logger.NewIsolatedLogger(cfg.Responder.WsLogFilePath)

	return NewContainerWith(cfg, sysLogger, wsLogger, markov.DefaultSampler())
}

// NewContainerWith lets tests inject in-memory loggers and a deterministic sampler.
func NewContainerWith(cfg *config.Config, sysLogger, wsLogger logger.ILogger, sampler markov.Sampler) *Container {
	chain := markov.MustDefaultChain(sampler)
	kb := knowledge.Default()

	responderService := service.NewResponderService(chain, kb)
	conversations := memory.NewConversationRepository()

	limits := internalWS.Limits{
		MaxMessageSize: int64(cfg.Responder.MaxMessageSize),
		PongWait:       cfg.Responder.PongWait,
		WriteWait:      cfg.Responder.WriteWait,
	}
	responderHandler := handler.NewResponderHandler(responderService, conversations, limits, wsLogger)

	sysLogger.Info("Bootstrap", "Responder wired", map[string]interface{}{
		"knowledge_entries": kb.Len(),
		"states":            markov.States(),
	})

	return &Container{
		Logger:           sysLogger,
		WsLogger:         wsLogger,
		ResponderService: responderService,
		Conversations:    conversations,
		ResponderHandler: responderHandler,
	}
}
