package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/xiaot623/agentrouter/domain"
)

// DefaultChatTimeout bounds one chat exchange. Remote agents can be slow.
const DefaultChatTimeout = 2 * time.Minute

// ChatAgent answers with a single chat-style request/response exchange.
type ChatAgent struct {
	card       domain.AgentCard
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewChatAgent creates a chat agent from its card and model id.
func NewChatAgent(card domain.AgentCard, model string, timeout time.Duration, logger *slog.Logger) *ChatAgent {
	if timeout <= 0 {
		timeout = DefaultChatTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatAgent{
		card:       card,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (a *ChatAgent) Name() string           { return a.card.Name }
func (a *ChatAgent) Kind() domain.AgentKind { return domain.AgentKindChat }
func (a *ChatAgent) Card() domain.AgentCard { return a.card }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Ask sends the query as a single chat message. Any failure is surfaced as
// the literal answer text.
func (a *ChatAgent) Ask(ctx context.Context, query string) string {
	payload := chatRequest{
		Model:       a.model,
		Messages:    []chatMessage{{Role: "user", Content: query}},
		Temperature: 0,
		Stream:      false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("Error calling remote API: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.card.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Sprintf("Error calling remote API: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error("chat agent request failed", "agent", a.card.Name, "error", err)
		return fmt.Sprintf("Error calling remote API: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Sprintf("Error calling remote API: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("API Error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err == nil &&
		len(parsed.Choices) > 0 && parsed.Choices[0].Message.Content != "" {
		return parsed.Choices[0].Message.Content
	}

	// Unexpected shape: hand back the raw body rather than guessing.
	return string(respBody)
}
