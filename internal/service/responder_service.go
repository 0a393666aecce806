package service

import (
	"fmt"
	"time"

	"markov-qa-be/internal/constant"
	"markov-qa-be/internal/entity"
	"markov-qa-be/pkg/knowledge"
	"markov-qa-be/pkg/markov"

	"github.com/google/uuid"
)

type IResponderService interface {
	NewConversation(remoteAddr string) *entity.Conversation
	Respond(conv *entity.Conversation, message string) (Reply, error)
	Questions() []string
}

// Reply is what the responder sends back for one inbound message.
type Reply struct {
	Text    string
	State   markov.State
	Matched bool
}

type responderService struct {
	chain     *markov.Chain
	knowledge *knowledge.Base
}

func NewResponderService(chain *markov.Chain, kb *knowledge.Base) IResponderService {
	return &responderService{
		chain:     chain,
		knowledge: kb,
	}
}

func (s *responderService) NewConversation(remoteAddr string) *entity.Conversation {
	now := time.Now()
	return &entity.Conversation{
		Id:           uuid.New(),
		State:        markov.StateGreeting,
		RemoteAddr:   remoteAddr,
		StartedAt:    now,
		LastActiveAt: now,
	}
}

// Respond advances the conversation one step and builds the reply for the sampled state.
// On error the conversation state is left untouched.
func (s *responderService) Respond(conv *entity.Conversation, message string) (Reply, error) {
	next, err := s.chain.Next(conv.State)
	if err != nil {
		return Reply{}, fmt.Errorf("advance conversation %s: %w", conv.Id, err)
	}

	reply := Reply{State: next}
	switch next {
	case markov.StateGreeting:
		reply.Text = constant.ResponderGreetingText
	case markov.StateAnswer:
		if answer, ok := s.knowledge.Lookup(message); ok {
			reply.Text = answer
			reply.Matched = true
		} else {
			reply.Text = constant.ResponderFallbackText
		}
	case markov.StateClarify:
		reply.Text = constant.ResponderClarifyText
	}

	conv.State = next
	conv.MessageCount++
	conv.LastActiveAt = time.Now()

	return reply, nil
}

func (s *responderService) Questions() []string {
	return s.knowledge.Questions()
}
