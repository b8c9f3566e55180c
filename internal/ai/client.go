// Package ai wraps the OpenAI chat-completions API for journal analysis:
// daily summaries, task extraction, insight annotation, next-day
// suggestions, and weekly reviews. Malformed model output degrades to
// neutral defaults instead of failing the pipeline.
package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/journalbackend/internal/config"
)

const (
	DefaultBaseURL         = "https://api.openai.com/v1"
	MaxRetries             = 3
	DefaultChatHTTPTimeout = 75 * time.Second
)

// Processor issues chat-completion calls configured for journal analysis.
type Processor struct {
	cfg        config.Config
	httpClient *http.Client
}

func NewProcessor(cfg config.Config) (*Processor, error) {
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		return nil, fmt.Errorf("ai processor config incomplete: OPENAI_API_KEY is required")
	}
	return &Processor{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: DefaultChatHTTPTimeout},
	}, nil
}

// call sends one system+user exchange and returns the raw completion text.
func (p *Processor) call(ctx context.Context, system, user string, temperature float64) (string, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(p.cfg.OpenAIBaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := openaigo.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(strings.TrimSpace(p.cfg.OpenAIAPIKey)),
		option.WithHTTPClient(p.httpClient),
		option.WithMaxRetries(MaxRetries),
		option.WithRequestTimeout(DefaultChatHTTPTimeout),
	)

	params := openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(p.cfg.Model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(system),
			openaigo.UserMessage(user),
		},
		Temperature: openaigo.Float(temperature),
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// extractJSONFromText strips code fences and surrounding prose so a JSON
// body embedded in a chatty completion still parses.
func extractJSONFromText(s string) string {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "```") {
		rest := strings.TrimSpace(strings.TrimPrefix(raw, "```"))
		if i := strings.Index(rest, "\n"); i >= 0 {
			rest = rest[i+1:]
		}
		if j := strings.LastIndex(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		raw = strings.TrimSpace(rest)
	}
	if !(strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "[")) {
		if i := strings.Index(raw, "{"); i >= 0 {
			if j := strings.LastIndex(raw, "}"); j > i {
				return strings.TrimSpace(raw[i : j+1])
			}
		}
	}
	return raw
}
