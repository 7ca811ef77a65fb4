package workflow

import (
	"strings"
	"testing"

	"github.com/xiaot623/agentrouter/domain"
)

func TestDecodeStreamFiltersAndRecovers(t *testing.T) {
	input := strings.Join([]string{
		`: comment line`,
		``,
		`data: {"session_id":"s1","data":{"event":"output_msg","status":"end"}}`,
		`data: {not json`,
		`event: ping`,
		`data: {"event":"close","status":"end"}`,
	}, "\n")

	var got []domain.StreamEnvelope
	err := decodeStream(strings.NewReader(input), testLogger(), func(env domain.StreamEnvelope) bool {
		got = append(got, env)
		return true
	})
	if err != nil {
		t.Fatalf("decodeStream failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(got), got)
	}
	if got[0].SessionID != "s1" || got[0].Event.Type != domain.EventOutputMsg {
		t.Fatalf("unexpected first event: %+v", got[0])
	}
	// Bare event objects without an envelope are accepted at top level.
	if got[1].Event.Type != domain.EventClose {
		t.Fatalf("unexpected second event: %+v", got[1])
	}
}

func TestDecodeStreamStopsWhenTold(t *testing.T) {
	input := strings.Join([]string{
		`data: {"event":"output_msg","status":"end"}`,
		`data: {"event":"output_msg","status":"end"}`,
		`data: {"event":"output_msg","status":"end"}`,
	}, "\n")

	var count int
	err := decodeStream(strings.NewReader(input), testLogger(), func(domain.StreamEnvelope) bool {
		count++
		return count < 2
	})
	if err != nil {
		t.Fatalf("decodeStream failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected consumption to stop after 2 events, got %d", count)
	}
}

func TestDecodeStreamLargePayload(t *testing.T) {
	big := strings.Repeat("x", 200*1024)
	input := `data: {"event":"output_msg","status":"end","output_schema":{"message":"` + big + `"}}`

	var got domain.StreamEnvelope
	err := decodeStream(strings.NewReader(input), testLogger(), func(env domain.StreamEnvelope) bool {
		got = env
		return true
	})
	if err != nil {
		t.Fatalf("decodeStream failed: %v", err)
	}
	if len(got.Event.OutputSchema.Message.Text) != len(big) {
		t.Fatalf("large payload truncated: got %d bytes", len(got.Event.OutputSchema.Message.Text))
	}
}
