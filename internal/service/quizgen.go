package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"padhai-karo/internal/domain"
	"padhai-karo/internal/llmjson"
	"padhai-karo/internal/logger"

	"go.uber.org/zap"
)

// maxPromptContext bounds how much extracted document text is embedded in a
// generation prompt.
const maxPromptContext = 24000

// QuizGenerationService builds task prompts, invokes the completion backend
// and validates the returned JSON into typed domain values. Every failure is
// converted to a DomainError at this boundary; nothing partially validated
// escapes.
type QuizGenerationService interface {
	GenerateFromTopic(ctx context.Context, topic string, numQuestions int, purpose string) ([]domain.Question, error)
	GenerateFromContext(ctx context.Context, material string, numQuestions int) ([]domain.Question, error)
	ExtractTopics(ctx context.Context, syllabusText string) ([]string, error)
}

type quizGenerationService struct {
	client domain.CompletionClient
}

// NewQuizGenerationService creates a QuizGenerationService backed by the
// given completion client.
func NewQuizGenerationService(client domain.CompletionClient) QuizGenerationService {
	return &quizGenerationService{client: client}
}

const topicQuizPrompt = `You are an expert quiz creator for engineering students. Your task is to create a multiple-choice quiz on the topic of "%s".
The quiz must contain exactly %d questions tailored for a student preparing for a "%s".

Rules for generation:
1. The output MUST be a single, valid JSON array and nothing else.
2. Each object must contain exactly these keys: "question_text", "options", "correct_answer", "explanation".
3. "options" must be an array of at least four distinct strings, and "correct_answer" must be one of them, copied verbatim.
4. Randomize the position of the correct answer within the options so it does not favor any position.

Generate the quiz now.`

const contextQuizPrompt = `You are an expert quiz creator for engineering students. Your task is to create a multiple-choice quiz based strictly on the study material below.
The quiz must contain exactly %d questions that can be answered from the material alone.

Rules for generation:
1. The output MUST be a single, valid JSON array and nothing else.
2. Each object must contain exactly these keys: "question_text", "options", "correct_answer", "explanation".
3. "options" must be an array of at least four distinct strings, and "correct_answer" must be one of them, copied verbatim.
4. Randomize the position of the correct answer within the options so it does not favor any position.

Study material:
%s

Generate the quiz now.`

const topicExtractionPrompt = `You are a helpful academic assistant. Analyze the following course syllabus and extract the distinct topics a student could be quizzed on.

Rules for generation:
1. The output MUST be a single, valid JSON object with one key: "topics".
2. The value of "topics" must be an array of short topic name strings.

Syllabus:
%s`

// GenerateFromTopic generates a quiz for a bare topic name.
func (s *quizGenerationService) GenerateFromTopic(ctx context.Context, topic string, numQuestions int, purpose string) ([]domain.Question, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, domain.NewInvalidInputError("a topic is required")
	}
	if purpose == "" {
		purpose = "Quick Review"
	}
	prompt := fmt.Sprintf(topicQuizPrompt, topic, numQuestions, purpose)
	return s.generateQuiz(ctx, prompt, numQuestions)
}

// GenerateFromContext generates a quiz from extracted document text.
func (s *quizGenerationService) GenerateFromContext(ctx context.Context, material string, numQuestions int) ([]domain.Question, error) {
	material = strings.TrimSpace(material)
	if material == "" {
		return nil, domain.NewInvalidInputError("study material is empty")
	}
	if len(material) > maxPromptContext {
		material = material[:maxPromptContext]
	}
	prompt := fmt.Sprintf(contextQuizPrompt, numQuestions, material)
	return s.generateQuiz(ctx, prompt, numQuestions)
}

func (s *quizGenerationService) generateQuiz(ctx context.Context, prompt string, numQuestions int) ([]domain.Question, error) {
	raw, err := s.client.Complete(ctx, prompt)
	if err != nil {
		return nil, domain.NewLLMServiceError(err)
	}

	payload, err := llmjson.ExtractArray(raw)
	if err != nil {
		logger.Get().Error("No JSON array found in quiz completion",
			zap.Error(err),
			zap.String("raw_response", raw))
		return nil, domain.NewGenerationFailedError("quiz", err)
	}

	var questions []domain.Question
	if err := json.Unmarshal([]byte(payload), &questions); err != nil {
		logger.Get().Error("Failed to unmarshal quiz JSON",
			zap.Error(err),
			zap.String("extracted_json", payload))
		return nil, domain.NewGenerationFailedError("quiz", err)
	}

	// The batch is accepted or rejected as a whole; a wrong count or a
	// single invalid question discards everything.
	if err := domain.ValidateQuestionBatch(questions, numQuestions); err != nil {
		logger.Get().Warn("Generated quiz rejected by validation",
			zap.Error(err),
			zap.Int("requested", numQuestions),
			zap.Int("received", len(questions)))
		return nil, domain.NewGenerationFailedError("quiz", err)
	}
	return questions, nil
}

// ExtractTopics asks the backend to list quizzable topics from syllabus text.
func (s *quizGenerationService) ExtractTopics(ctx context.Context, syllabusText string) ([]string, error) {
	syllabusText = strings.TrimSpace(syllabusText)
	if syllabusText == "" {
		return nil, domain.NewInvalidInputError("syllabus text is required")
	}
	if len(syllabusText) > maxPromptContext {
		syllabusText = syllabusText[:maxPromptContext]
	}

	raw, err := s.client.Complete(ctx, fmt.Sprintf(topicExtractionPrompt, syllabusText))
	if err != nil {
		return nil, domain.NewLLMServiceError(err)
	}

	payload, err := llmjson.ExtractObject(raw)
	if err != nil {
		return nil, domain.NewGenerationFailedError("topics", err)
	}

	var parsed struct {
		Topics []string `json:"topics"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		logger.Get().Error("Failed to unmarshal topics JSON",
			zap.Error(err),
			zap.String("extracted_json", payload))
		return nil, domain.NewGenerationFailedError("topics", err)
	}
	if len(parsed.Topics) == 0 {
		return nil, domain.NewGenerationFailedError("topics",
			fmt.Errorf("response contained no topics"))
	}

	topics := make([]string, 0, len(parsed.Topics))
	for _, t := range parsed.Topics {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	if len(topics) == 0 {
		return nil, domain.NewGenerationFailedError("topics",
			fmt.Errorf("response contained only blank topics"))
	}
	return topics, nil
}
