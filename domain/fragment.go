// Package domain defines the core domain models for the agent router.
package domain

// FragmentKind categorizes one renderable unit of workflow output.
type FragmentKind string

const (
	FragmentUserInput    FragmentKind = "user_input"
	FragmentAIAnswer     FragmentKind = "ai_answer"
	FragmentSystem       FragmentKind = "system"
	FragmentImage        FragmentKind = "image"
	FragmentSuccess      FragmentKind = "success"
	FragmentFailure      FragmentKind = "failure"
	FragmentError        FragmentKind = "error"
	FragmentQuestionList FragmentKind = "question_list"
	FragmentFinalResult  FragmentKind = "final_result"
)

// Fragment is one categorized piece of rendered workflow output. The ordered
// fragment sequence accumulated during an invocation is the observable result
// of one query.
type Fragment struct {
	Kind    FragmentKind
	Message string
	// Questions is set only for FragmentQuestionList.
	Questions []string
}

// NormalizedResult is the categorized structure rebuilt from a fragment
// sequence or from raw text. It is always rebuilt wholesale, never mutated.
type NormalizedResult struct {
	// Messages holds the tagged conversation lines in arrival order.
	Messages []string
	// Questions holds numbered follow-up question lines.
	Questions []string
	// FinalResult is the selected final answer, empty when none was found.
	FinalResult string
}
