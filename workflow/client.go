// Package workflow implements the client side of the streaming workflow
// invocation protocol: it drives a remote, stateful, multi-round workflow API
// to completion and renders the accumulated output as canonical text.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/xiaot623/agentrouter/domain"
	"github.com/xiaot623/agentrouter/transcript"
)

const (
	// DefaultTimeout bounds one streaming round. Workflows may run long
	// server-side computations, so this is generous.
	DefaultTimeout = 2 * time.Minute

	// DefaultMaxEvents caps the number of events consumed per round. The
	// remote stream is untrusted and may be unbounded or buggy.
	DefaultMaxEvents = 1000

	// maxRounds is fixed by design: round one without input, and at most
	// one more round to inject the original query as user input.
	maxRounds = 2
)

// ErrNoEndpoint is returned when the invoke endpoint is not configured.
var ErrNoEndpoint = errors.New("workflow invoke endpoint is not configured")

// ErrEmptyQuery is returned for blank queries.
var ErrEmptyQuery = errors.New("query must not be empty")

// Client invokes workflow agents. It holds no per-query state and is safe for
// concurrent use; every invocation gets its own interpreter.
type Client struct {
	httpClient *http.Client
	maxEvents  int
	logger     *slog.Logger
}

// NewClient creates a workflow client. Zero values select the defaults.
func NewClient(timeout time.Duration, maxEvents int, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		maxEvents:  maxEvents,
		logger:     logger,
	}
}

// Invoke drives one user query against a workflow endpoint and returns the
// rendered transcript. Remote failures never surface as errors: they are
// recorded as fragments and the function still returns renderable text. The
// error return covers only fatal misconfiguration.
func (c *Client) Invoke(ctx context.Context, workflowID, invokeEndpoint, query string) (string, error) {
	if invokeEndpoint == "" {
		return "", ErrNoEndpoint
	}
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	it := &interpreter{
		query:      query,
		firstRound: true,
		logger:     c.logger,
	}

	// The original-query injection is a bounded loop, not recursion: at
	// most two rounds ever run.
	var input domain.QueryInput
	for round := 1; round <= maxRounds; round++ {
		injected := c.runRound(ctx, it, workflowID, invokeEndpoint, input)
		if !injected {
			break
		}
		input = it.inject
		it.inject = nil
		it.firstRound = false
	}

	if len(it.fragments) == 0 {
		it.append(domain.FragmentSystem, msgNoContent)
	}
	return transcript.Render(it.fragments), nil
}

// runRound performs one streaming HTTP exchange and feeds every decoded event
// to the interpreter, up to the event cap. It reports whether the interpreter
// requested a second round.
func (c *Client) runRound(ctx context.Context, it *interpreter, workflowID, endpoint string, input domain.QueryInput) bool {
	payload := domain.InvokePayload{
		WorkflowID: workflowID,
		Stream:     true,
		SessionID:  it.sessionID,
		Input:      input,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		it.append(domain.FragmentError, fmt.Sprintf("workflow request failed: %v", err))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		it.append(domain.FragmentError, fmt.Sprintf("workflow request failed: %v", err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("workflow request failed", "endpoint", endpoint, "error", err)
		it.append(domain.FragmentError, fmt.Sprintf("workflow request failed: %v", err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("workflow request rejected", "endpoint", endpoint, "status", resp.StatusCode)
		it.append(domain.FragmentError, fmt.Sprintf("workflow request failed with status %d", resp.StatusCode))
		return false
	}

	var (
		count     int
		injecting bool
	)
	err = decodeStream(resp.Body, c.logger, func(env domain.StreamEnvelope) bool {
		count++
		if count > c.maxEvents {
			c.logger.Warn("event cap exceeded, forcing termination", "cap", c.maxEvents)
			it.append(domain.FragmentSystem, msgEventCapReached)
			return false
		}
		switch it.apply(env) {
		case actionTerminate:
			return false
		case actionInjectInput:
			injecting = true
			return false
		}
		return true
	})
	if err != nil {
		it.append(domain.FragmentError, fmt.Sprintf("workflow stream read failed: %v", err))
		return false
	}
	return injecting
}
