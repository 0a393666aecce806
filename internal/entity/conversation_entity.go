package entity

import (
	"time"

	"markov-qa-be/pkg/markov"

	"github.com/google/uuid"
)

// Conversation is the in-memory state of one open channel.
// It is owned by the channel's read loop and never persisted.
type Conversation struct {
	Id           uuid.UUID
	State        markov.State
	MessageCount int
	RemoteAddr   string
	StartedAt    time.Time
	LastActiveAt time.Time
}
