package domain

import (
	"strings"
	"time"
)

// SessionState enumerates the quiz session lifecycle.
type SessionState string

const (
	StateNoQuiz SessionState = "no_quiz"
	StateActive SessionState = "active"
	StateGraded SessionState = "graded"
)

// ScoreTier is the presentational severity band of a graded score.
type ScoreTier string

const (
	TierSuccess ScoreTier = "success"
	TierWarning ScoreTier = "warning"
	TierFailure ScoreTier = "failure"
)

// QuestionFeedback is the per-question review shown after grading.
type QuestionFeedback struct {
	Index         int    `json:"index"`
	QuestionText  string `json:"question_text"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation"`
}

// GradingResult is the derived outcome of an Active -> Graded transition.
type GradingResult struct {
	Score        int                `json:"score"`
	Total        int                `json:"total"`
	ScorePercent float64            `json:"score_percent"`
	Tier         ScoreTier          `json:"tier"`
	Feedback     []QuestionFeedback `json:"feedback"`
	Incorrect    []Question         `json:"-"`
}

// QuizSession holds the single live quiz. It is a plain state machine:
// callers drive it sequentially and own any locking.
type QuizSession struct {
	ID        string
	Topic     string
	Questions []Question
	Answers   map[int]string
	State     SessionState
	Result    *GradingResult
	StartedAt time.Time
}

// NewQuizSession creates an Active session from a validated question batch.
func NewQuizSession(id, topic string, questions []Question) (*QuizSession, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, NewInvalidInputError("a quiz topic is required")
	}
	if len(questions) == 0 {
		return nil, NewInvalidInputError("a quiz needs at least one question")
	}
	return &QuizSession{
		ID:        id,
		Topic:     topic,
		Questions: questions,
		Answers:   make(map[int]string),
		State:     StateActive,
		StartedAt: time.Now(),
	}, nil
}

// Grade applies the Active -> Graded transition. Answers may be partial;
// a missing answer is always counted incorrect. Comparison trims surrounding
// whitespace but stays case-sensitive.
func (s *QuizSession) Grade(answers map[int]string) (*GradingResult, error) {
	if s.State != StateActive {
		return nil, NewNoActiveQuizError()
	}
	// Validate every index before recording anything: a rejected submission
	// must leave the session untouched.
	for i := range answers {
		if i < 0 || i >= len(s.Questions) {
			return nil, NewInvalidInputError("answer index out of range")
		}
	}
	for i, a := range answers {
		s.Answers[i] = a
	}

	result := &GradingResult{Total: len(s.Questions)}
	for i, q := range s.Questions {
		user := s.Answers[i]
		correct := strings.TrimSpace(user) == strings.TrimSpace(q.CorrectAnswer)
		if correct {
			result.Score++
		} else {
			result.Incorrect = append(result.Incorrect, q)
		}
		result.Feedback = append(result.Feedback, QuestionFeedback{
			Index:         i,
			QuestionText:  q.QuestionText,
			UserAnswer:    user,
			CorrectAnswer: q.CorrectAnswer,
			Correct:       correct,
			Explanation:   q.Explanation,
		})
	}
	if result.Total > 0 {
		result.ScorePercent = float64(result.Score) / float64(result.Total)
	}
	result.Tier = TierFor(result.ScorePercent)

	s.State = StateGraded
	s.Result = result
	return result, nil
}

// TierFor maps a score fraction to its severity band.
func TierFor(scorePercent float64) ScoreTier {
	switch {
	case scorePercent >= 0.9:
		return TierSuccess
	case scorePercent >= 0.5:
		return TierWarning
	default:
		return TierFailure
	}
}
