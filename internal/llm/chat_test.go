package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/isaacphi/mcp-ollama-link/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel replays fixed chunks through the streaming callback
type fakeModel struct {
	chunks   []string
	err      error
	calls    int
	messages []llms.MessageContent
	stopErr  error
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	f.messages = messages

	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	var full string
	for _, chunk := range f.chunks {
		if opts.StreamingFunc != nil {
			if err := opts.StreamingFunc(ctx, []byte(chunk)); err != nil {
				f.stopErr = err
				return nil, err
			}
		}
		full += chunk
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: full}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestStreamIsLazyAndRestartable(t *testing.T) {
	model := &fakeModel{chunks: []string{"Hel", "", "lo"}}
	chat := NewChatWithModel(model, ChatOptions{Model: "llama2"})

	seq := chat.Stream(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}})
	assert.Equal(t, 0, model.calls, "nothing is sent before ranging")

	first, err := Collect(seq)
	require.NoError(t, err)
	second, err := Collect(seq)
	require.NoError(t, err)

	assert.Equal(t, "Hello", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, model.calls)
}

func TestStreamEarlyStop(t *testing.T) {
	model := &fakeModel{chunks: []string{"a", "b", "c"}}
	chat := NewChatWithModel(model, ChatOptions{})

	var got []string
	for chunk, err := range chat.Stream(context.Background(), nil) {
		require.NoError(t, err)
		got = append(got, chunk)
		if len(got) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"a", "b"}, got)
	assert.ErrorIs(t, model.stopErr, errStopped)
}

func TestStreamError(t *testing.T) {
	model := &fakeModel{chunks: []string{"partial"}, err: errors.New("connection reset")}
	chat := NewChatWithModel(model, ChatOptions{})

	text, err := Collect(chat.Stream(context.Background(), nil))
	require.Error(t, err)
	assert.Equal(t, "partial", text)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestBuildMessageHistory(t *testing.T) {
	history := buildMessageHistory([]domain.Message{
		{Role: domain.RoleSystem, Content: "be brief"},
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "hello"},
	})

	require.Len(t, history, 3)
	assert.Equal(t, llms.ChatMessageTypeSystem, history[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, history[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, history[2].Role)
	assert.Equal(t, llms.TextContent{Text: "hello"}, history[2].Parts[0])
}

// optionRecorder keeps the call options of the last request
type optionRecorder struct {
	fakeModel
	opts llms.CallOptions
}

func (r *optionRecorder) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	r.opts = llms.CallOptions{}
	for _, opt := range options {
		opt(&r.opts)
	}
	return r.fakeModel.GenerateContent(ctx, messages, options...)
}

func TestStreamTemperature(t *testing.T) {
	model := &optionRecorder{fakeModel: fakeModel{chunks: []string{"ok"}}}

	_, err := Collect(NewChatWithModel(model, ChatOptions{Temperature: 0.3}).Stream(context.Background(), nil))
	require.NoError(t, err)
	assert.InDelta(t, 0.3, model.opts.Temperature, 1e-9)

	_, err = Collect(NewChatWithModel(model, ChatOptions{}).Stream(context.Background(), nil))
	require.NoError(t, err)
	assert.Zero(t, model.opts.Temperature, "zero leaves the model default alone")
}
