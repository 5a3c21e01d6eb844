// Package backend implements the optional reasoning backend over any
// OpenAI-compatible chat completions endpoint, Ollama included. Its output is
// narration only: the draft type cannot carry commands, and the planner and
// interpreter verify everything they take from it.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/doeshing/sysq/internal/domain"
	"github.com/doeshing/sysq/internal/ports"
)

const systemPrompt = `You are a Linux system assistant. You will be given a user's question,
its classified intent, and a telemetry summary of the machine. Reply with a short
narration (2-3 sentences) that could accompany the answer. Do NOT include shell
commands. Optionally start with one line "PREFER: tool1, tool2" naming which of
the standard diagnostic tools you would consult first.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
	Stream    bool          `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type OpenAIBackend struct {
	endpoint   string
	model      string
	authEnvVar string
	maxTokens  int
	client     *http.Client
}

var _ ports.ReasoningBackend = (*OpenAIBackend)(nil)

// New builds a backend from settings, or returns nil when no endpoint is
// configured. A nil backend is the fully supported offline mode.
func New(settings domain.BackendSettings) *OpenAIBackend {
	if settings.Endpoint == "" {
		return nil
	}
	timeout := domain.DefaultBackendTimeout
	if settings.TimeoutSeconds > 0 {
		timeout = time.Duration(settings.TimeoutSeconds) * time.Second
	}
	return &OpenAIBackend{
		endpoint:   strings.TrimRight(settings.Endpoint, "/"),
		model:      settings.ModelID,
		authEnvVar: settings.AuthEnvVar,
		maxTokens:  settings.MaxTokens,
		client:     &http.Client{Timeout: timeout},
	}
}

func (b *OpenAIBackend) Name() string {
	return fmt.Sprintf("openai-compatible (%s)", b.model)
}

func (b *OpenAIBackend) Draft(ctx context.Context, intent domain.Intent, telemetrySummary string) (domain.BackendDraft, error) {
	userPrompt := fmt.Sprintf("Question: %s\nIntent: goal=%s domain=%s\nSystem: %s",
		intent.Query, intent.Goal, intent.Domain, telemetrySummary)

	payload, err := json.Marshal(chatCompletionRequest{
		Model: b.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens: b.maxTokens,
	})
	if err != nil {
		return domain.BackendDraft{}, fmt.Errorf("marshal backend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return domain.BackendDraft{}, fmt.Errorf("build backend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if b.authEnvVar != "" {
		if key := os.Getenv(b.authEnvVar); key != "" {
			req.Header.Set("Authorization", "Bearer "+key)
		}
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return domain.BackendDraft{}, fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.BackendDraft{}, fmt.Errorf("read backend response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.BackendDraft{}, fmt.Errorf("backend returned status %d: %s", resp.StatusCode, firstLine(string(body)))
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return domain.BackendDraft{}, fmt.Errorf("decode backend response: %w", err)
	}
	if parsed.Error != nil {
		return domain.BackendDraft{}, fmt.Errorf("backend error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return domain.BackendDraft{}, fmt.Errorf("backend returned no choices")
	}

	narrative, tools := parseDraftContent(parsed.Choices[0].Message.Content)
	return domain.NewBackendDraft(narrative, tools), nil
}

// parseDraftContent splits an optional leading "PREFER: a, b" line from the
// narration body. Anything else the model emits stays narration.
func parseDraftContent(content string) (string, []string) {
	var tools []string
	var narrative []string
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, "PREFER:"); ok && len(tools) == 0 {
			for _, tool := range strings.Split(rest, ",") {
				if t := strings.TrimSpace(tool); t != "" {
					tools = append(tools, t)
				}
			}
			continue
		}
		if trimmed != "" {
			narrative = append(narrative, trimmed)
		}
	}
	return strings.Join(narrative, " "), tools
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
