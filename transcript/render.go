// Package transcript serializes categorized workflow output to its canonical
// textual form and reconstructs that structure from arbitrary textual dumps.
package transcript

import (
	"fmt"
	"strings"

	"github.com/xiaot623/agentrouter/domain"
)

// Canonical category tags. One tag per fragment kind; the normalizer keys on
// the same markers.
const (
	TagUserInput = "📝 User input:"
	TagAIAnswer  = "🤖 AI answer:"
	TagSystem    = "💬 System:"
	TagSuccess   = "✅"
	TagFailure   = "❌"
	TagError     = "❌ Error:"

	HeadingConversation = "## Conversation record"
	HeadingQuestions    = "## Suggested questions"
	HeadingFinalResult  = "## Final result"
)

// NoContentSentinel is returned by the normalizer when nothing could be
// extracted. Callers never receive an empty string.
const NoContentSentinel = "No message content found."

// Render serializes the fragment sequence to canonical text. Rendering is
// total: every fragment kind has exactly one rule and no fragment is dropped.
func Render(fragments []domain.Fragment) string {
	var b strings.Builder
	for _, f := range fragments {
		b.WriteString(renderFragment(f))
	}
	return strings.TrimSpace(b.String())
}

func renderFragment(f domain.Fragment) string {
	switch f.Kind {
	case domain.FragmentUserInput:
		return fmt.Sprintf("%s %s\n", TagUserInput, f.Message)
	case domain.FragmentAIAnswer:
		return fmt.Sprintf("%s %s\n", TagAIAnswer, f.Message)
	case domain.FragmentSystem:
		return fmt.Sprintf("%s %s\n", TagSystem, f.Message)
	case domain.FragmentImage:
		// The interpreter stores the complete image markdown in Message.
		return f.Message + "\n"
	case domain.FragmentSuccess:
		return fmt.Sprintf("%s %s\n", TagSuccess, f.Message)
	case domain.FragmentFailure:
		return fmt.Sprintf("%s %s\n", TagFailure, f.Message)
	case domain.FragmentError:
		return fmt.Sprintf("%s %s\n", TagError, f.Message)
	case domain.FragmentQuestionList:
		var b strings.Builder
		b.WriteString(HeadingQuestions + "\n")
		for i, q := range f.Questions {
			if q == "" {
				continue
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, q)
		}
		return b.String()
	case domain.FragmentFinalResult:
		return fmt.Sprintf("%s\n%s\n", HeadingFinalResult, f.Message)
	}
	// Unknown kinds cannot occur through the interpreter; keep the line
	// visible rather than dropping it.
	return fmt.Sprintf("%s %s\n", TagSystem, f.Message)
}

// Classify rebuilds the categorized structure directly from fragments,
// bypassing the text round trip. Used to cross-check the normalizer.
func Classify(fragments []domain.Fragment) domain.NormalizedResult {
	var res domain.NormalizedResult
	for _, f := range fragments {
		if f.Message == "" && f.Kind != domain.FragmentQuestionList {
			continue
		}
		switch f.Kind {
		case domain.FragmentUserInput:
			res.Messages = append(res.Messages, TagUserInput+" "+f.Message)
		case domain.FragmentAIAnswer:
			res.Messages = append(res.Messages, TagAIAnswer+" "+f.Message)
		case domain.FragmentSystem:
			res.Messages = append(res.Messages, TagSystem+" "+f.Message)
		case domain.FragmentImage:
			res.Messages = append(res.Messages, TagAIAnswer+" "+f.Message)
		case domain.FragmentSuccess:
			res.Messages = append(res.Messages, TagSuccess+" "+f.Message)
		case domain.FragmentFailure:
			res.Messages = append(res.Messages, TagFailure+" "+f.Message)
		case domain.FragmentError:
			res.Messages = append(res.Messages, TagError+" "+f.Message)
		case domain.FragmentQuestionList:
			for i, q := range f.Questions {
				if q == "" {
					continue
				}
				res.Questions = append(res.Questions, fmt.Sprintf("%d. %s", i+1, q))
			}
		case domain.FragmentFinalResult:
			res.FinalResult = f.Message
		}
	}
	if res.FinalResult == "" && len(res.Messages) > 0 {
		res.FinalResult = stripTag(res.Messages[len(res.Messages)-1])
	}
	return res
}
