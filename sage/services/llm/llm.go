package llm

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer is the opaque text-completion service. It may fail outright or
// return text that is not the expected contract; callers interpret the text
// defensively.
type Completer interface {
	Complete(ctx context.Context, model string, messages []Message) (string, error)
}
