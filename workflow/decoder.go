package workflow

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/xiaot623/agentrouter/domain"
)

const dataPrefix = "data: "

// decodeStream reads a line-oriented server-push stream and calls fn for each
// decoded event, in arrival order. Lines without the `data: ` prefix are
// ignored; a line whose JSON payload fails to decode is logged and skipped
// without aborting the stream. fn returns false to stop consuming.
func decodeStream(r io.Reader, logger *slog.Logger, fn func(domain.StreamEnvelope) bool) error {
	scanner := bufio.NewScanner(r)
	// Terminal node outputs can carry large messages; the default token
	// limit is too small for them.
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		payload := line[len(dataPrefix):]

		var env domain.StreamEnvelope
		if err := json.Unmarshal([]byte(payload), &env); err != nil {
			logger.Warn("skipping malformed stream event", "error", err, "payload", payload)
			continue
		}
		if !fn(env) {
			return nil
		}
	}
	return scanner.Err()
}
