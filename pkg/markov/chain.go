package markov

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Transitions maps a state to its ordered list of candidate next states.
// Repeating a candidate raises its weight.
type Transitions map[State][]State

// DefaultTransitions returns a fresh copy of the built-in table.
// Every list holds each target exactly once, so the walk is uniform.
func DefaultTransitions() Transitions {
	return Transitions{
		StateGreeting: {StateGreeting, StateAnswer, StateClarify},
		StateAnswer:   {StateAnswer, StateClarify, StateGreeting},
		StateClarify:  {StateClarify, StateAnswer, StateGreeting},
	}
}

// Sampler yields a uniform integer in [0, n).
type Sampler interface {
	IntN(n int) int
}

type globalSampler struct{}

func (globalSampler) IntN(n int) int { return rand.IntN(n) }

// DefaultSampler uses the math/rand/v2 top-level source, which is safe for concurrent use.
func DefaultSampler() Sampler { return globalSampler{} }

var ErrInvalidTable = errors.New("invalid transition table")

// Chain advances a conversation state by sampling from a fixed table.
type Chain struct {
	table   Transitions
	sampler Sampler
}

// NewChain validates and copies the table. A nil sampler falls back to DefaultSampler.
func NewChain(table Transitions, sampler Sampler) (*Chain, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrInvalidTable)
	}

	copied := make(Transitions, len(table))
	for from, candidates := range table {
		if !from.Valid() {
			return nil, fmt.Errorf("%w: source %q", ErrInvalidTable, from)
		}
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w: %q has no candidates", ErrInvalidTable, from)
		}
		for _, to := range candidates {
			if !to.Valid() {
				return nil, fmt.Errorf("%w: %q -> %q", ErrInvalidTable, from, to)
			}
		}
		copied[from] = append([]State(nil), candidates...)
	}

	if sampler == nil {
		sampler = DefaultSampler()
	}

	return &Chain{table: copied, sampler: sampler}, nil
}

// MustDefaultChain builds the chain over DefaultTransitions. It panics only if the built-in table is broken.
func MustDefaultChain(sampler Sampler) *Chain {
	c, err := NewChain(DefaultTransitions(), sampler)
	if err != nil {
		panic(err)
	}
	return c
}

// Next picks the following state uniformly from the candidates of current.
func (c *Chain) Next(current State) (State, error) {
	candidates, ok := c.table[current]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownState, current)
	}
	return candidates[c.sampler.IntN(len(candidates))], nil
}

// Candidates returns a copy of the candidate list for a state.
func (c *Chain) Candidates(current State) []State {
	return append([]State(nil), c.table[current]...)
}

// Probabilities reports the effective transition probability of each target from current.
func (c *Chain) Probabilities(current State) map[State]float64 {
	candidates := c.table[current]
	if len(candidates) == 0 {
		return nil
	}
	out := make(map[State]float64, len(candidates))
	for _, s := range candidates {
		out[s] += 1 / float64(len(candidates))
	}
	return out
}
