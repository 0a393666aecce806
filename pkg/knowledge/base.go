package knowledge

import "sort"

// Entry is a single fixed question/answer pair.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Base is an immutable exact-match lookup table.
// Keys are matched verbatim: no trimming, no case folding.
type Base struct {
	answers map[string]string
}

func New(entries []Entry) *Base {
	answers := make(map[string]string, len(entries))
	for _, e := range entries {
		answers[e.Question] = e.Answer
	}
	return &Base{answers: answers}
}

// DefaultEntries returns the built-in knowledge set.
func DefaultEntries() []Entry {
	return []Entry{
		{Question: "What is the capital of France?", Answer: "The capital of France is Paris."},
		{Question: "Who invented the telephone?", Answer: "Alexander Graham Bell invented the telephone."},
		{Question: "What is the largest planet in our solar system?", Answer: "Jupiter is the largest planet in our solar system."},
		{Question: "When was the Declaration of Independence signed?", Answer: "The Declaration of Independence was signed in 1776."},
		{Question: "What is the tallest mountain in the world?", Answer: "Mount Everest is the tallest mountain in the world."},
	}
}

func Default() *Base {
	return New(DefaultEntries())
}

func (b *Base) Lookup(question string) (string, bool) {
	answer, ok := b.answers[question]
	return answer, ok
}

func (b *Base) Len() int {
	return len(b.answers)
}

// Questions lists known questions sorted alphabetically.
func (b *Base) Questions() []string {
	out := make([]string, 0, len(b.answers))
	for q := range b.answers {
		out = append(out, q)
	}
	sort.Strings(out)
	return out
}
