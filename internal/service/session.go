package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"padhai-karo/internal/domain"
	"padhai-karo/internal/dto"
	"padhai-karo/internal/extract"
	"padhai-karo/internal/logger"
	"padhai-karo/internal/util"

	"go.uber.org/zap"
)

// Question count bounds of the interactive quiz forms.
const (
	MinQuestions = 5
	MaxQuestions = 20
)

// SessionService owns the single live quiz session and drives its
// NoQuiz -> Active -> Graded -> NoQuiz lifecycle. The usage model is
// strictly sequential, but the HTTP server is not, so access to the
// session is mutex-guarded.
type SessionService interface {
	StartTopicQuiz(ctx context.Context, req *dto.TopicQuizRequest) (*dto.QuizSessionResponse, error)
	StartDocumentQuiz(ctx context.Context, filename, mimeType string, data []byte, numQuestions int) (*dto.QuizSessionResponse, error)
	Current() (*dto.QuizSessionResponse, *dto.GradedQuizResponse, error)
	SubmitAnswers(ctx context.Context, req *dto.SubmitAnswersRequest) (*dto.GradedQuizResponse, error)
	Reset() error
}

type sessionService struct {
	mu          sync.Mutex
	session     *domain.QuizSession
	graded      *dto.GradedQuizResponse
	generator   QuizGenerationService
	remediation RemediationService
}

// NewSessionService creates a SessionService in the NoQuiz state.
func NewSessionService(generator QuizGenerationService, remediation RemediationService) SessionService {
	return &sessionService{
		generator:   generator,
		remediation: remediation,
	}
}

// StartTopicQuiz generates a quiz for a topic and activates it as the live
// session.
func (s *sessionService) StartTopicQuiz(ctx context.Context, req *dto.TopicQuizRequest) (*dto.QuizSessionResponse, error) {
	if err := validateCount(req.NumQuestions); err != nil {
		return nil, err
	}

	if err := s.rejectActive(); err != nil {
		return nil, err
	}

	questions, err := s.generator.GenerateFromTopic(ctx, req.Topic, req.NumQuestions, req.Purpose)
	if err != nil {
		return nil, err
	}
	return s.activate(req.Topic, questions)
}

// StartDocumentQuiz extracts text from an uploaded document and generates a
// quiz from it. The session topic records the source file name.
func (s *sessionService) StartDocumentQuiz(ctx context.Context, filename, mimeType string, data []byte, numQuestions int) (*dto.QuizSessionResponse, error) {
	if err := validateCount(numQuestions); err != nil {
		return nil, err
	}
	if err := s.rejectActive(); err != nil {
		return nil, err
	}

	text, err := extract.ExtractText(filename, mimeType, data)
	if err != nil {
		logger.Get().Warn("Document extraction failed",
			zap.String("filename", filename),
			zap.Error(err))
		return nil, domain.NewExtractionFailedError(filename, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewExtractionFailedError(filename,
			fmt.Errorf("no text could be extracted"))
	}

	questions, err := s.generator.GenerateFromContext(ctx, text, numQuestions)
	if err != nil {
		return nil, err
	}
	return s.activate("Document: "+filename, questions)
}

// rejectActive fails fast before an expensive generation when a quiz is
// already in progress.
func (s *sessionService) rejectActive() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil && s.session.State == domain.StateActive {
		return domain.NewQuizAlreadyActiveError()
	}
	return nil
}

func (s *sessionService) activate(topic string, questions []domain.Question) (*dto.QuizSessionResponse, error) {
	session, err := domain.NewQuizSession(util.NewULID(), topic, questions)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil && s.session.State == domain.StateActive {
		return nil, domain.NewQuizAlreadyActiveError()
	}
	s.session = session
	s.graded = nil

	logger.Get().Info("Quiz session started",
		zap.String("session_id", session.ID),
		zap.String("topic", session.Topic),
		zap.Int("questions", len(session.Questions)))
	return sessionView(session), nil
}

// Current returns the active session view or, after grading, the stored
// graded result. Redisplays never regenerate remediation.
func (s *sessionService) Current() (*dto.QuizSessionResponse, *dto.GradedQuizResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, nil, domain.NewNoActiveQuizError()
	}
	if s.session.State == domain.StateGraded {
		return nil, s.graded, nil
	}
	return sessionView(s.session), nil, nil
}

// SubmitAnswers grades the live session. Partial submissions are allowed;
// missing answers count as incorrect. If any question was missed, one
// remediation cycle runs as part of this transition and its result is stored
// on the graded response.
func (s *sessionService) SubmitAnswers(ctx context.Context, req *dto.SubmitAnswersRequest) (*dto.GradedQuizResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.session
	if session == nil {
		return nil, domain.NewNoActiveQuizError()
	}

	result, err := session.Grade(req.Answers)
	if err != nil {
		return nil, err
	}

	graded := gradedView(session, result)

	if len(result.Incorrect) > 0 {
		bundle, remErr := s.remediation.Generate(ctx, session.Topic, result.Incorrect)
		if remErr != nil {
			// A failed plan never blocks the grade; the result simply ships
			// without remediation and a fresh submit is the user's retry.
			logger.Get().Warn("Remediation generation failed",
				zap.String("session_id", session.ID),
				zap.Error(remErr))
		} else {
			graded.Remediation = remediationView(bundle)
		}
	}

	s.graded = graded

	logger.Get().Info("Quiz graded",
		zap.String("session_id", session.ID),
		zap.Int("score", result.Score),
		zap.Int("total", result.Total),
		zap.String("tier", string(result.Tier)))
	return graded, nil
}

// Reset clears the whole session: topic, questions, answers and the stored
// graded result.
func (s *sessionService) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return domain.NewNoActiveQuizError()
	}
	logger.Get().Info("Quiz session reset", zap.String("session_id", s.session.ID))
	s.session = nil
	s.graded = nil
	return nil
}

func validateCount(n int) error {
	if n < MinQuestions || n > MaxQuestions {
		return domain.NewInvalidInputError(
			fmt.Sprintf("num_questions must be between %d and %d", MinQuestions, MaxQuestions))
	}
	return nil
}

func sessionView(session *domain.QuizSession) *dto.QuizSessionResponse {
	questions := make([]dto.QuestionView, 0, len(session.Questions))
	for i, q := range session.Questions {
		questions = append(questions, dto.QuestionView{
			Index:        i,
			QuestionText: q.QuestionText,
			Options:      q.Options,
		})
	}
	return &dto.QuizSessionResponse{
		SessionID: session.ID,
		Topic:     session.Topic,
		State:     string(session.State),
		Questions: questions,
	}
}

func gradedView(session *domain.QuizSession, result *domain.GradingResult) *dto.GradedQuizResponse {
	feedback := make([]dto.QuestionFeedbackView, 0, len(result.Feedback))
	for _, f := range result.Feedback {
		feedback = append(feedback, dto.QuestionFeedbackView(f))
	}
	return &dto.GradedQuizResponse{
		SessionID:    session.ID,
		Topic:        session.Topic,
		State:        string(session.State),
		Score:        result.Score,
		Total:        result.Total,
		ScorePercent: result.ScorePercent,
		Tier:         string(result.Tier),
		Feedback:     feedback,
	}
}

func remediationView(bundle *domain.RemediationBundle) *dto.RemediationResponse {
	resp := &dto.RemediationResponse{}
	for _, step := range bundle.LearningPath {
		resp.LearningPath = append(resp.LearningPath, dto.LearningStepView(step))
	}
	for _, item := range bundle.StudyPlan {
		resp.StudyPlan = append(resp.StudyPlan, dto.StudyPlanItemView{
			SubTopic:      item.SubTopic,
			StudyStrategy: item.StudyStrategy,
			ResourceLink:  item.ResourceLink,
		})
	}
	return resp
}
