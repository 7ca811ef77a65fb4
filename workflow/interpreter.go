package workflow

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/xiaot623/agentrouter/domain"
)

// action is the interpreter's verdict for one event.
type action int

const (
	// actionContinue keeps consuming the current round.
	actionContinue action = iota
	// actionTerminate stops the round and the whole invocation.
	actionTerminate
	// actionInjectInput stops the round and requests a second round with
	// the prepared query input.
	actionInjectInput
)

// Messages for the synthesized system fragments.
const (
	msgNoContent        = "The workflow completed without producing any content."
	msgEventCapReached  = "too many workflow events, stream terminated."
	msgEarlyTermination = "the workflow finished its main task but asked for further interaction; it was ended automatically."
	msgUnknownError     = "unknown error"
)

// bracketImageLink matches [label](url.ext) references to image files, with
// an optional leading bang so pre-existing image markdown is left as is.
var bracketImageLink = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)\s]+\.(?:png|jpg|jpeg|gif|webp))\)`)

// interpreter owns the per-invocation state: the captured session id, the
// ordered fragment buffer, and the pending round-two input. One interpreter
// serves exactly one query and is never shared.
type interpreter struct {
	query  string
	logger *slog.Logger

	// firstRound is true until the original query has been injected.
	firstRound bool

	sessionID string
	fragments []domain.Fragment
	inject    domain.QueryInput
}

// handlers maps event types to their effect. Unlisted types fall through to
// handleUnknown.
var handlers = map[string]func(*interpreter, domain.WorkflowEvent) action{
	domain.EventGuideWord:           (*interpreter).handleGuideWord,
	domain.EventOutputMsg:           (*interpreter).handleOutput,
	domain.EventOutputWithInputMsg:  (*interpreter).handleOutput,
	domain.EventOutputWithChooseMsg: (*interpreter).handleOutput,
	domain.EventStreamMsg:           (*interpreter).handleOutput,
	domain.EventGuideQuestion:       (*interpreter).handleGuideQuestion,
	domain.EventInput:               (*interpreter).handleInput,
	domain.EventClose:               (*interpreter).handleClose,
	domain.EventEnd:                 (*interpreter).handleEnd,
	domain.EventError:               (*interpreter).handleError,
	domain.EventSuccess:             (*interpreter).handleSuccess,
	domain.EventFailure:             (*interpreter).handleFailure,
	"start":                         (*interpreter).handleObservability,
	"progress":                      (*interpreter).handleObservability,
	"status":                        (*interpreter).handleObservability,
	"debug":                         (*interpreter).handleObservability,
	"warning":                       (*interpreter).handleObservability,
	"info":                          (*interpreter).handleObservability,
}

// apply consumes one decoded event: captures the session id, filters partial
// updates, and dispatches on the event type.
func (it *interpreter) apply(env domain.StreamEnvelope) action {
	if env.SessionID != "" {
		it.sessionID = env.SessionID
	}

	ev := env.Event
	if !it.shouldRender(ev) {
		it.logger.Debug("skipping partial event", "event", ev.Type, "status", ev.Status)
		return actionContinue
	}

	h, ok := handlers[ev.Type]
	if !ok {
		return it.handleUnknown(ev)
	}
	return h(it, ev)
}

// shouldRender implements the core filtering rule: only terminal node outputs
// are user-meaningful, except stream messages and anything carrying image
// evidence, which must not be dropped even mid-stream.
func (it *interpreter) shouldRender(ev domain.WorkflowEvent) bool {
	if ev.Status == domain.StatusEnd || ev.Type == domain.EventStreamMsg {
		return true
	}
	return hasImageEvidence(ev)
}

func hasImageEvidence(ev domain.WorkflowEvent) bool {
	if ev.OutputSchema == nil {
		return false
	}
	if len(ev.OutputSchema.Files) > 0 {
		return true
	}
	msg := ev.OutputSchema.Message.Text
	if strings.Contains(msg, "![") && strings.Contains(msg, "](") {
		return true
	}
	return bracketImageLink.MatchString(msg)
}

func (it *interpreter) append(kind domain.FragmentKind, message string) {
	it.fragments = append(it.fragments, domain.Fragment{Kind: kind, Message: message})
}

func (it *interpreter) handleGuideWord(ev domain.WorkflowEvent) action {
	if msg := outputMessage(ev); msg != "" {
		it.append(domain.FragmentSystem, msg)
	}
	return actionContinue
}

// handleOutput renders the output event family: one image fragment per file
// entry, then the message with embedded image links normalized to image
// markdown.
func (it *interpreter) handleOutput(ev domain.WorkflowEvent) action {
	if ev.OutputSchema != nil {
		for _, f := range ev.OutputSchema.Files {
			if f.URL == "" {
				continue
			}
			label := f.Name
			if label == "" {
				label = "image"
			}
			it.append(domain.FragmentImage, fmt.Sprintf("![%s](%s)", label, f.URL))
		}
	}

	msg := outputMessage(ev)
	if msg == "" && ev.Type == domain.EventStreamMsg {
		// Some workflows put stream text at the top level.
		msg = strings.TrimSpace(ev.Message)
	}
	if msg != "" {
		it.append(domain.FragmentAIAnswer, rewriteImageLinks(msg))
	}
	return actionContinue
}

func (it *interpreter) handleGuideQuestion(ev domain.WorkflowEvent) action {
	if ev.OutputSchema == nil {
		return actionContinue
	}
	list := ev.OutputSchema.Message.List
	if len(list) == 0 || (len(list) == 1 && list[0] == "") {
		return actionContinue
	}
	it.fragments = append(it.fragments, domain.Fragment{
		Kind:      domain.FragmentQuestionList,
		Questions: list,
	})
	return actionContinue
}

// handleInput decides whether the workflow's interactive request can be
// satisfied by injecting the original query, and otherwise winds the session
// down.
func (it *interpreter) handleInput(ev domain.WorkflowEvent) action {
	if ev.Status != domain.StatusEnd {
		return actionContinue
	}
	if ev.InputSchema == nil || len(ev.InputSchema.Value) == 0 {
		// No usable input field: nothing more to contribute.
		return actionTerminate
	}

	field := ev.InputSchema.Value[0]
	if field.Key != domain.InputKeyUserInput {
		it.logger.Info("unsupported input field, ending workflow", "key", field.Key)
		return actionTerminate
	}

	if ev.NodeID == "" {
		it.append(domain.FragmentError, "input event did not carry a node_id")
		return actionTerminate
	}

	if it.firstRound && it.query != "" {
		it.append(domain.FragmentUserInput, it.query)
		it.inject = domain.QueryInput{ev.NodeID: {field.Key: it.query}}
		return actionInjectInput
	}

	// The query was already injected once; there is no further interactive
	// capability. Force a fresh session for any future query, but keep
	// consuming this round: later events may still carry the real answer.
	it.sessionID = ""
	if len(it.fragments) == 0 {
		it.append(domain.FragmentSystem, msgEarlyTermination)
	}
	return actionContinue
}

func (it *interpreter) handleClose(ev domain.WorkflowEvent) action {
	if msg := outputMessage(ev); msg != "" {
		it.append(domain.FragmentFinalResult, msg)
	}
	return actionTerminate
}

func (it *interpreter) handleEnd(ev domain.WorkflowEvent) action {
	return actionTerminate
}

func (it *interpreter) handleError(ev domain.WorkflowEvent) action {
	msg := strings.TrimSpace(ev.Message)
	if msg == "" {
		msg = outputMessage(ev)
	}
	if msg == "" {
		msg = msgUnknownError
	}
	it.append(domain.FragmentError, msg)
	return actionTerminate
}

func (it *interpreter) handleSuccess(ev domain.WorkflowEvent) action {
	if msg := eventMessage(ev); msg != "" {
		it.append(domain.FragmentSuccess, msg)
	}
	return actionContinue
}

func (it *interpreter) handleFailure(ev domain.WorkflowEvent) action {
	if msg := eventMessage(ev); msg != "" {
		it.append(domain.FragmentFailure, msg)
	}
	return actionContinue
}

func (it *interpreter) handleObservability(ev domain.WorkflowEvent) action {
	if msg := eventMessage(ev); msg != "" {
		it.logger.Debug("workflow progress", "event", ev.Type, "message", msg)
	}
	return actionContinue
}

// handleUnknown is the best-effort branch for unrecognized event types: keep
// any nested message visible as a system notice.
func (it *interpreter) handleUnknown(ev domain.WorkflowEvent) action {
	it.logger.Warn("unsupported workflow event type", "event", ev.Type)
	if msg := outputMessage(ev); msg != "" {
		it.append(domain.FragmentSystem, msg)
	} else if msg := strings.TrimSpace(ev.Message); msg != "" {
		it.append(domain.FragmentSystem, msg)
	}
	return actionContinue
}

// rewriteImageLinks normalizes [label](url.ext) references to image files
// into image markdown. Pre-existing ![...](...) syntax is preserved.
func rewriteImageLinks(msg string) string {
	return bracketImageLink.ReplaceAllString(msg, "![$2]($3)")
}

func outputMessage(ev domain.WorkflowEvent) string {
	if ev.OutputSchema == nil {
		return ""
	}
	return strings.TrimSpace(ev.OutputSchema.Message.Text)
}

func eventMessage(ev domain.WorkflowEvent) string {
	if msg := strings.TrimSpace(ev.Message); msg != "" {
		return msg
	}
	return outputMessage(ev)
}
