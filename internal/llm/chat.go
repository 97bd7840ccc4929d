// Package llm provides the streaming chat used by the chat command. It sits
// beside the tool path and is never used to answer query-ollama calls.
package llm

import (
	"context"
	"fmt"
	"iter"

	"github.com/isaacphi/mcp-ollama-link/internal/domain"
	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

var errStopped = errors.New("stream stopped by consumer")

type ChatOptions struct {
	BaseURL     string
	Model       string
	Temperature float64
}

// Chat streams assistant replies for an in-memory message history
type Chat struct {
	llm  llms.Model
	opts ChatOptions
}

func NewChat(opts ChatOptions) (*Chat, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(opts.BaseURL),
		ollama.WithModel(opts.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return NewChatWithModel(llm, opts), nil
}

// NewChatWithModel wraps an already constructed model
func NewChatWithModel(llm llms.Model, opts ChatOptions) *Chat {
	return &Chat{llm: llm, opts: opts}
}

func (c *Chat) Model() string {
	return c.opts.Model
}

func buildMessageHistory(messages []domain.Message) []llms.MessageContent {
	var history []llms.MessageContent
	for _, msg := range messages {
		var role llms.ChatMessageType
		switch msg.Role {
		case domain.RoleAssistant:
			role = llms.ChatMessageTypeAI
		case domain.RoleSystem:
			role = llms.ChatMessageTypeSystem
		default:
			role = llms.ChatMessageTypeHuman
		}
		history = append(history, llms.TextParts(role, msg.Content))
	}
	return history
}

// Stream returns the reply to history as a sequence of text fragments.
// Nothing is sent until the sequence is ranged over, and every range starts
// a fresh request. Breaking out of the loop cancels the request.
func (c *Chat) Stream(ctx context.Context, history []domain.Message) iter.Seq2[string, error] {
	msgs := buildMessageHistory(history)

	return func(yield func(string, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		stopped := false
		opts := []llms.CallOption{
			llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
				if len(chunk) == 0 {
					return nil
				}
				if !yield(string(chunk), nil) {
					stopped = true
					return errStopped
				}
				return nil
			}),
		}
		if c.opts.Temperature > 0 {
			opts = append(opts, llms.WithTemperature(c.opts.Temperature))
		}

		_, err := c.llm.GenerateContent(ctx, msgs, opts...)
		if err != nil && !stopped {
			yield("", fmt.Errorf("streaming chat failed: %w", err))
		}
	}
}

// Collect drains a stream into the full reply text
func Collect(seq iter.Seq2[string, error]) (string, error) {
	var out []byte
	for chunk, err := range seq {
		if err != nil {
			return string(out), err
		}
		out = append(out, chunk...)
	}
	return string(out), nil
}
