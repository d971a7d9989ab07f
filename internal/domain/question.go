package domain

import (
	"fmt"
	"strings"
)

// Question is a single multiple-choice quiz item. Once a batch passes
// ValidateQuestionBatch the questions are treated as immutable.
type Question struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Validate checks the structural invariants of a single question:
// at least two unique options and a correct answer that is a verbatim
// member of the options.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.QuestionText) == "" {
		return NewError(CodeValidation, "question text is required", nil)
	}
	if len(q.Options) < 2 {
		return NewError(CodeValidation, "a question needs at least two options", nil)
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if _, dup := seen[opt]; dup {
			return NewError(CodeValidation, fmt.Sprintf("duplicate option %q", opt), nil)
		}
		seen[opt] = struct{}{}
	}
	if _, ok := seen[q.CorrectAnswer]; !ok {
		return NewError(CodeValidation,
			fmt.Sprintf("correct answer %q is not one of the options", q.CorrectAnswer), nil)
	}
	return nil
}

// ValidateQuestionBatch accepts a generated quiz only as a whole: the count
// must match the request exactly and every question must be valid. A single
// bad question rejects the entire batch.
func ValidateQuestionBatch(questions []Question, requested int) error {
	if len(questions) != requested {
		return NewError(CodeValidation,
			fmt.Sprintf("expected %d questions, got %d", requested, len(questions)), nil)
	}
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return NewError(CodeValidation, fmt.Sprintf("question %d: %v", i+1, err), nil)
		}
	}
	return nil
}
