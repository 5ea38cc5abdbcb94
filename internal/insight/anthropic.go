package insight

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel is the Anthropic model used when none is configured.
const DefaultModel = "claude-opus-4-6"

const maxTokens = 1024

// Anthropic is a Completer backed by the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
	model  string
}

// NewAnthropic creates a client for apiKey. baseURL may be empty.
func NewAnthropic(apiKey, model, baseURL string, opts ...option.RequestOption) (*Anthropic, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Anthropic{client: anthropic.NewClient(opts...), model: model}, nil
}

func (a *Anthropic) params(system, prompt string) anthropic.MessageNewParams {
	p := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		p.System = []anthropic.TextBlockParam{{Text: system}}
	}
	return p
}

// Complete implements Completer.
func (a *Anthropic) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := a.client.Messages.New(ctx, a.params("", prompt))
	if err != nil {
		return "", apiError(err)
	}
	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// Stream sends prompt with an optional system prompt and writes text deltas
// to w as they arrive.
func (a *Anthropic) Stream(ctx context.Context, system, prompt string, w io.Writer) error {
	stream := a.client.Messages.NewStreaming(ctx, a.params(system, prompt))
	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(w, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	if err := stream.Err(); err != nil {
		return apiError(err)
	}
	return nil
}

func apiError(err error) error {
	s := err.Error()
	if strings.Contains(s, "401") || strings.Contains(s, "authentication") {
		return fmt.Errorf("API authentication failed, check your API key: %w", err)
	}
	return fmt.Errorf("anthropic: %w", err)
}
