package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamEnvelopeShapes(t *testing.T) {
	t.Run("wrapped envelope", func(t *testing.T) {
		var env StreamEnvelope
		err := json.Unmarshal([]byte(`{"session_id":"s1","data":{"event":"output_msg","status":"end","output_schema":{"message":"hi"}}}`), &env)
		assert.NoError(t, err)
		assert.Equal(t, "s1", env.SessionID)
		assert.Equal(t, EventOutputMsg, env.Event.Type)
		assert.Equal(t, "hi", env.Event.OutputSchema.Message.Text)
	})

	t.Run("bare event", func(t *testing.T) {
		var env StreamEnvelope
		err := json.Unmarshal([]byte(`{"event":"close","status":"end"}`), &env)
		assert.NoError(t, err)
		assert.Empty(t, env.SessionID)
		assert.Equal(t, EventClose, env.Event.Type)
	})

	t.Run("null data falls back to top level", func(t *testing.T) {
		var env StreamEnvelope
		err := json.Unmarshal([]byte(`{"session_id":"s2","data":null,"event":"end","status":"end"}`), &env)
		assert.NoError(t, err)
		assert.Equal(t, "s2", env.SessionID)
		assert.Equal(t, EventEnd, env.Event.Type)
	})
}

func TestMessageTextUnion(t *testing.T) {
	var m MessageText
	assert.NoError(t, json.Unmarshal([]byte(`"plain"`), &m))
	assert.Equal(t, "plain", m.Text)
	assert.Nil(t, m.List)

	assert.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &m))
	assert.Equal(t, []string{"a", "b"}, m.List)
	assert.Empty(t, m.Text)

	assert.Error(t, json.Unmarshal([]byte(`42`), &m))
}

func TestInvokePayloadOmitsEmptyFields(t *testing.T) {
	raw, err := json.Marshal(InvokePayload{WorkflowID: "wf-1", Stream: true})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"workflow_id":"wf-1","stream":true}`, string(raw))

	raw, err = json.Marshal(InvokePayload{
		WorkflowID: "wf-1",
		Stream:     true,
		SessionID:  "s1",
		Input:      QueryInput{"n1": {"user_input": "q"}},
	})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"workflow_id":"wf-1","stream":true,"session_id":"s1","input":{"n1":{"user_input":"q"}}}`, string(raw))
}

func TestKindFromCategory(t *testing.T) {
	assert.Equal(t, AgentKindWorkflow, KindFromCategory("workflow"))
	assert.Equal(t, AgentKindChat, KindFromCategory("assistant"))
	assert.Equal(t, AgentKindChat, KindFromCategory(""))
}
