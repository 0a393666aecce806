package markov

import (
	"errors"
	"fmt"
)

// State is the conversation state that decides which kind of reply is sent.
type State string

const (
	StateGreeting State = "greeting"
	StateAnswer   State = "answer"
	StateClarify  State = "clarify"
)

var ErrUnknownState = errors.New("unknown conversation state")

// States returns every defined state in declaration order.
func States() []State {
	return []State{StateGreeting, StateAnswer, StateClarify}
}

func (s State) Valid() bool {
	switch s {
	case StateGreeting, StateAnswer, StateClarify:
		return true
	}
	return false
}

func (s State) String() string {
	return string(s)
}

// ParseState converts a raw string into a State.
func ParseState(raw string) (State, error) {
	s := State(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownState, raw)
	}
	return s, nil
}
