package transcript

import (
	"reflect"
	"strings"
	"testing"

	"github.com/xiaot623/agentrouter/domain"
)

func TestRenderIsTotal(t *testing.T) {
	fragments := []domain.Fragment{
		{Kind: domain.FragmentUserInput, Message: "hello"},
		{Kind: domain.FragmentAIAnswer, Message: "answer"},
		{Kind: domain.FragmentSystem, Message: "note"},
		{Kind: domain.FragmentImage, Message: "![image](http://x/a.png)"},
		{Kind: domain.FragmentSuccess, Message: "saved"},
		{Kind: domain.FragmentFailure, Message: "rejected"},
		{Kind: domain.FragmentError, Message: "boom"},
		{Kind: domain.FragmentQuestionList, Questions: []string{"q1", "q2"}},
		{Kind: domain.FragmentFinalResult, Message: "done"},
	}

	out := Render(fragments)
	for _, want := range []string{
		"📝 User input: hello",
		"🤖 AI answer: answer",
		"💬 System: note",
		"![image](http://x/a.png)",
		"✅ saved",
		"❌ rejected",
		"❌ Error: boom",
		"## Suggested questions\n1. q1\n2. q2",
		"## Final result\ndone",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered transcript missing %q:\n%s", want, out)
		}
	}
}

func TestRenderQuestionNumberingSkipsEmpty(t *testing.T) {
	out := Render([]domain.Fragment{
		{Kind: domain.FragmentQuestionList, Questions: []string{"first", "", "third"}},
	})
	if strings.Contains(out, "2. ") {
		t.Fatalf("empty question must not be numbered:\n%s", out)
	}
	if !strings.Contains(out, "1. first") || !strings.Contains(out, "3. third") {
		t.Fatalf("unexpected numbering:\n%s", out)
	}
}

func TestRenderEmpty(t *testing.T) {
	if out := Render(nil); out != "" {
		t.Fatalf("empty fragment list must render to empty text, got %q", out)
	}
}

// The extractor applied to rendered text must reconstruct the same structure
// Classify builds directly from the fragments.
func TestExtractMatchesClassify(t *testing.T) {
	cases := [][]domain.Fragment{
		{
			{Kind: domain.FragmentUserInput, Message: "hello"},
			{Kind: domain.FragmentAIAnswer, Message: "answer"},
			{Kind: domain.FragmentSystem, Message: "note"},
			{Kind: domain.FragmentSuccess, Message: "saved"},
			{Kind: domain.FragmentQuestionList, Questions: []string{"q1", "q2"}},
			{Kind: domain.FragmentFinalResult, Message: "done"},
		},
		{
			{Kind: domain.FragmentImage, Message: "![image](http://x/a.png)"},
			{Kind: domain.FragmentAIAnswer, Message: "with picture"},
		},
		{
			{Kind: domain.FragmentError, Message: "boom"},
		},
		{
			{Kind: domain.FragmentFailure, Message: "node failed"},
			{Kind: domain.FragmentAIAnswer, Message: "partial answer"},
		},
	}

	for i, fragments := range cases {
		fromText := ExtractResult(Render(fragments))
		direct := Classify(fragments)
		if !reflect.DeepEqual(fromText, direct) {
			t.Errorf("case %d: extract/classify mismatch\nfrom text: %+v\ndirect:    %+v", i, fromText, direct)
		}
	}
}

func TestClassifyFinalFallback(t *testing.T) {
	res := Classify([]domain.Fragment{
		{Kind: domain.FragmentAIAnswer, Message: "the conclusion"},
	})
	if res.FinalResult != "the conclusion" {
		t.Fatalf("final fallback must strip the tag, got %q", res.FinalResult)
	}
}
