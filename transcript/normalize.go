package transcript

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xiaot623/agentrouter/domain"
)

// Legacy markers from earlier output formats that the normalizer still
// understands.
const (
	legacyStream        = "[STREAM]"
	legacyModelAnswer   = "[model answer]:"
	legacySystemOutput  = "[system output]:"
	legacyAutoInput     = "[auto input]:"
	legacyAwaitingInput = "[awaiting input]"
	legacyDebugEvent    = "[DEBUG] event:"

	legacyWorkflowEnded  = "workflow ended:"
	legacyChooseQuestion = "please choose a question"
)

var numberedLine = regexp.MustCompile(`^\d+\.\s+`)

// Normalize produces a stable human-readable rendition of workflow output.
// Canonical text and non-empty free text pass through unchanged; empty input
// and structured objects go through full line-by-line extraction. The result
// is never empty.
func Normalize(v any) string {
	switch value := v.(type) {
	case nil:
		return NoContentSentinel
	case string:
		if hasCanonicalMarkers(value) {
			return value
		}
		if strings.TrimSpace(value) != "" {
			return value
		}
		return Assemble(ExtractResult(value))
	default:
		raw, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Sprintf("failed to normalize output: %v", err)
		}
		return Assemble(ExtractResult(string(raw)))
	}
}

func hasCanonicalMarkers(s string) bool {
	return strings.Contains(s, TagSystem) ||
		strings.Contains(s, TagAIAnswer) ||
		strings.Contains(s, TagUserInput) ||
		strings.Contains(s, HeadingConversation) ||
		strings.Contains(s, HeadingFinalResult)
}

// extraction holds the per-call state of the line classifier.
type extraction struct {
	messages       []string
	questions      []string
	finalResult    []string
	inFinalSection bool
}

// rule is one (pattern, classifier) entry. Rules run top to bottom; the first
// one that consumes the line wins.
type rule func(line string, st *extraction) bool

// extractRules is evaluated in order, with classifyFallback as the terminal
// default. New legacy formats get a new entry here, not new control flow.
var extractRules = []rule{
	classifyTagged(TagUserInput, TagUserInput),
	classifyTagged(TagAIAnswer, TagAIAnswer),
	classifyTagged(TagSystem, TagSystem),
	classifyFinalHeading,
	classifySkippedHeading,
	classifyNumberedQuestion,
	classifyTagged(TagError, TagError),
	classifySuccessMark,
	classifyFailureMark,
	classifyLegacy(legacyStream, TagAIAnswer),
	classifyLegacy(legacyModelAnswer, TagAIAnswer),
	classifyLegacySystemOutput,
	classifyDebugEvent,
	classifyLegacy(legacyAutoInput, TagUserInput),
	classifyAwaitingInput,
}

// ExtractResult runs the rule table over every line of text and rebuilds the
// categorized result.
func ExtractResult(text string) domain.NormalizedResult {
	st := &extraction{}
lines:
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		for _, r := range extractRules {
			if r(line, st) {
				continue lines
			}
		}
		classifyFallback(line, st)
	}

	res := domain.NormalizedResult{
		Messages:  st.messages,
		Questions: st.questions,
	}
	switch {
	case len(st.finalResult) > 0:
		res.FinalResult = strings.Join(st.finalResult, "\n")
	case len(st.messages) > 0:
		// Best effort: the last collected message, stripped of its tag.
		res.FinalResult = stripTag(st.messages[len(st.messages)-1])
	}
	return res
}

// Assemble serializes a normalized result: conversation record, then
// questions, then the final result. Empty results yield the sentinel.
func Assemble(res domain.NormalizedResult) string {
	var parts []string
	if len(res.Messages) > 0 {
		parts = append(parts, HeadingConversation)
		parts = append(parts, res.Messages...)
	}
	if len(res.Questions) > 0 {
		parts = append(parts, "\n"+HeadingQuestions)
		parts = append(parts, res.Questions...)
	}
	if res.FinalResult != "" {
		parts = append(parts, fmt.Sprintf("\n%s\n%s", HeadingFinalResult, res.FinalResult))
	}
	if len(parts) == 0 {
		return NoContentSentinel
	}
	return strings.Join(parts, "\n")
}

// classifyTagged matches a current-format tag and re-emits the line under the
// given tag.
func classifyTagged(marker, tag string) rule {
	return func(line string, st *extraction) bool {
		idx := strings.Index(line, marker)
		if idx < 0 {
			return false
		}
		msg := strings.TrimSpace(line[idx+len(marker):])
		if msg != "" {
			st.messages = append(st.messages, tag+" "+msg)
		}
		return true
	}
}

func classifyFinalHeading(line string, st *extraction) bool {
	if !strings.Contains(line, HeadingFinalResult) {
		return false
	}
	st.inFinalSection = true
	return true
}

func classifySkippedHeading(line string, st *extraction) bool {
	return strings.Contains(line, HeadingQuestions) ||
		strings.Contains(line, HeadingConversation)
}

func classifyNumberedQuestion(line string, st *extraction) bool {
	if !numberedLine.MatchString(line) {
		return false
	}
	st.questions = append(st.questions, line)
	return true
}

// classifySuccessMark handles bare "✅ ..." lines. Tagged error lines were
// consumed by an earlier rule.
func classifySuccessMark(line string, st *extraction) bool {
	idx := strings.Index(line, TagSuccess)
	if idx < 0 {
		return false
	}
	msg := strings.TrimSpace(line[idx+len(TagSuccess):])
	if msg != "" {
		st.messages = append(st.messages, TagSuccess+" "+msg)
	}
	return true
}

func classifyFailureMark(line string, st *extraction) bool {
	idx := strings.Index(line, TagFailure)
	if idx < 0 {
		return false
	}
	msg := strings.TrimSpace(line[idx+len(TagFailure):])
	if msg != "" {
		st.messages = append(st.messages, TagFailure+" "+msg)
	}
	return true
}

func classifyLegacy(marker, tag string) rule {
	return func(line string, st *extraction) bool {
		idx := strings.Index(line, marker)
		if idx < 0 {
			return false
		}
		msg := strings.TrimSpace(line[idx+len(marker):])
		if msg != "" {
			st.messages = append(st.messages, tag+" "+msg)
		}
		return true
	}
}

// classifyLegacySystemOutput handles "[system output]:" lines, including the
// embedded end-of-workflow marker and the guide-question heading.
func classifyLegacySystemOutput(line string, st *extraction) bool {
	idx := strings.Index(line, legacySystemOutput)
	if idx < 0 {
		return false
	}
	msg := strings.TrimSpace(line[idx+len(legacySystemOutput):])
	if msg == "" {
		return true
	}
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, legacyChooseQuestion):
		// Guide-question heading, the numbered lines that follow carry
		// the content.
	case strings.HasPrefix(lower, legacyWorkflowEnded):
		st.finalResult = append(st.finalResult, strings.TrimSpace(msg[len(legacyWorkflowEnded):]))
	default:
		st.messages = append(st.messages, TagSystem+" "+msg)
	}
	return true
}

// classifyDebugEvent parses legacy debug-dump lines carrying a repr-style
// event payload. The payload is coerced into strict JSON (quote and literal
// substitution) before decoding; lines that still fail to parse are dropped,
// matching the legacy behavior.
func classifyDebugEvent(line string, st *extraction) bool {
	idx := strings.Index(line, legacyDebugEvent)
	if idx < 0 {
		return false
	}
	raw := strings.TrimSpace(line[idx+len(legacyDebugEvent):])
	raw = strings.ReplaceAll(raw, "'", `"`)
	raw = strings.ReplaceAll(raw, "None", "null")
	raw = strings.ReplaceAll(raw, "True", "true")
	raw = strings.ReplaceAll(raw, "False", "false")

	var env domain.StreamEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return true
	}
	ev := env.Event
	switch ev.Type {
	case domain.EventGuideWord:
		if msg := outputMessage(ev); msg != "" {
			st.messages = append(st.messages, TagSystem+" "+msg)
		}
	case domain.EventOutputMsg:
		if msg := outputMessage(ev); msg != "" {
			st.messages = append(st.messages, TagAIAnswer+" "+msg)
		}
	case domain.EventGuideQuestion:
		if ev.OutputSchema != nil {
			n := 0
			for _, q := range ev.OutputSchema.Message.List {
				if q == "" {
					continue
				}
				n++
				st.questions = append(st.questions, fmt.Sprintf("%d. %s", n, q))
			}
		}
	case domain.EventClose:
		if msg := outputMessage(ev); msg != "" {
			st.finalResult = append(st.finalResult, msg)
		}
	}
	return true
}

func classifyAwaitingInput(line string, st *extraction) bool {
	if !strings.Contains(line, legacyAwaitingInput) || !strings.Contains(line, ":") {
		return false
	}
	_, after, _ := strings.Cut(line, ":")
	if msg := strings.TrimSpace(after); msg != "" {
		st.messages = append(st.messages, TagUserInput+" "+msg)
	}
	return true
}

// classifyFallback is the terminal default: any remaining non-empty line that
// is not structural is kept as an AI answer. This is a known heuristic, not a
// guaranteed classification; stray structural text may be misfiled as
// conversation, which matches the legacy behavior.
func classifyFallback(line string, st *extraction) {
	if strings.HasPrefix(line, "[") || strings.HasPrefix(line, "##") {
		return
	}
	if st.inFinalSection {
		st.finalResult = append(st.finalResult, line)
		return
	}
	st.messages = append(st.messages, TagAIAnswer+" "+line)
}

func outputMessage(ev domain.WorkflowEvent) string {
	if ev.OutputSchema == nil {
		return ""
	}
	return strings.TrimSpace(ev.OutputSchema.Message.Text)
}

// stripTag removes a known category tag prefix from a collected message line.
func stripTag(line string) string {
	for _, tag := range []string{TagUserInput, TagAIAnswer, TagSystem, TagError, TagFailure, TagSuccess} {
		if strings.HasPrefix(line, tag) {
			return strings.TrimSpace(line[len(tag):])
		}
	}
	return line
}
