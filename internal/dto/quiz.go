package dto

// TopicQuizRequest asks for a quiz generated from a bare topic name.
// @Description Request body for generating a quiz by topic
type TopicQuizRequest struct {
	Topic        string `json:"topic"`
	NumQuestions int    `json:"num_questions"`
	Purpose      string `json:"purpose"`
}

// SyllabusTopicsRequest asks for quiz topics extracted from syllabus text.
type SyllabusTopicsRequest struct {
	SyllabusText string `json:"syllabus_text"`
}

// SyllabusTopicsResponse lists the extracted topics.
type SyllabusTopicsResponse struct {
	Topics []string `json:"topics"`
}

// SubmitAnswersRequest carries the user's chosen options keyed by question
// index. Indices without an entry are graded as unanswered.
type SubmitAnswersRequest struct {
	Answers map[int]string `json:"answers"`
}

// QuestionView is a question as shown while a quiz is active: the correct
// answer and explanation are withheld until grading.
type QuestionView struct {
	Index        int      `json:"index"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
}

// QuizSessionResponse describes the live quiz session.
type QuizSessionResponse struct {
	SessionID string         `json:"session_id"`
	Topic     string         `json:"topic"`
	State     string         `json:"state"`
	Questions []QuestionView `json:"questions"`
}

// QuestionFeedbackView is the post-grading review of one question.
type QuestionFeedbackView struct {
	Index         int    `json:"index"`
	QuestionText  string `json:"question_text"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation"`
}

// LearningStepView is one step of the three-step learning path.
type LearningStepView struct {
	StepTitle     string `json:"step_title"`
	StepDetails   string `json:"step_details"`
	StepRationale string `json:"step_rationale"`
}

// StudyPlanItemView is one recommended study action with its derived
// search link.
type StudyPlanItemView struct {
	SubTopic      string `json:"sub_topic"`
	StudyStrategy string `json:"study_strategy"`
	ResourceLink  string `json:"resource_link"`
}

// RemediationResponse bundles the personalized plan for missed questions.
type RemediationResponse struct {
	LearningPath []LearningStepView  `json:"learning_path"`
	StudyPlan    []StudyPlanItemView `json:"study_plan"`
}

// GradedQuizResponse is the result of submitting answers.
type GradedQuizResponse struct {
	SessionID    string                 `json:"session_id"`
	Topic        string                 `json:"topic"`
	State        string                 `json:"state"`
	Score        int                    `json:"score"`
	Total        int                    `json:"total"`
	ScorePercent float64                `json:"score_percent"`
	Tier         string                 `json:"tier"`
	Feedback     []QuestionFeedbackView `json:"feedback"`
	Remediation  *RemediationResponse   `json:"remediation,omitempty"`
}

// ErrorResponse represents an error in the API response.
type ErrorResponse struct {
	Error string `json:"error"`
}
