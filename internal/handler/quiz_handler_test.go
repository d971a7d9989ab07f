package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"padhai-karo/internal/domain"
	"padhai-karo/internal/dto"
	"padhai-karo/internal/middleware"
	"padhai-karo/internal/report"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionService struct {
	session *dto.QuizSessionResponse
	graded  *dto.GradedQuizResponse
	err     error
}

func (f *fakeSessionService) StartTopicQuiz(context.Context, *dto.TopicQuizRequest) (*dto.QuizSessionResponse, error) {
	return f.session, f.err
}

func (f *fakeSessionService) StartDocumentQuiz(context.Context, string, string, []byte, int) (*dto.QuizSessionResponse, error) {
	return f.session, f.err
}

func (f *fakeSessionService) Current() (*dto.QuizSessionResponse, *dto.GradedQuizResponse, error) {
	return f.session, f.graded, f.err
}

func (f *fakeSessionService) SubmitAnswers(context.Context, *dto.SubmitAnswersRequest) (*dto.GradedQuizResponse, error) {
	return f.graded, f.err
}

func (f *fakeSessionService) Reset() error { return f.err }

type fakeGenerationService struct {
	topics []string
	err    error
}

func (f *fakeGenerationService) GenerateFromTopic(context.Context, string, int, string) ([]domain.Question, error) {
	return nil, f.err
}

func (f *fakeGenerationService) GenerateFromContext(context.Context, string, int) ([]domain.Question, error) {
	return nil, f.err
}

func (f *fakeGenerationService) ExtractTopics(context.Context, string) ([]string, error) {
	return f.topics, f.err
}

func newTestApp(sessions *fakeSessionService, generator *fakeGenerationService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	quiz := NewQuizHandler(sessions, generator)
	api := app.Group("/api")
	api.Post("/quiz/topic", quiz.StartTopicQuiz)
	api.Get("/quiz", quiz.GetCurrent)
	api.Post("/quiz/answers", quiz.SubmitAnswers)
	api.Post("/quiz/reset", quiz.Reset)
	api.Post("/syllabus/topics", quiz.ExtractTopics)
	return app
}

func TestStartTopicQuizHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		sessions := &fakeSessionService{session: &dto.QuizSessionResponse{
			SessionID: "01H", Topic: "DBMS", State: "active",
		}}
		app := newTestApp(sessions, &fakeGenerationService{})

		body, _ := json.Marshal(dto.TopicQuizRequest{Topic: "DBMS", NumQuestions: 5})
		req := httptest.NewRequest("POST", "/api/quiz/topic", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var got dto.QuizSessionResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "DBMS", got.Topic)
	})

	t.Run("ConflictWhenQuizActive", func(t *testing.T) {
		sessions := &fakeSessionService{err: domain.NewQuizAlreadyActiveError()}
		app := newTestApp(sessions, &fakeGenerationService{})

		body, _ := json.Marshal(dto.TopicQuizRequest{Topic: "DBMS", NumQuestions: 5})
		req := httptest.NewRequest("POST", "/api/quiz/topic", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

		var got middleware.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, string(domain.CodeQuizAlreadyActive), got.Code)
	})
}

func TestGetCurrentHandler(t *testing.T) {
	t.Run("NoQuizIs404", func(t *testing.T) {
		sessions := &fakeSessionService{err: domain.NewNoActiveQuizError()}
		app := newTestApp(sessions, &fakeGenerationService{})

		resp, err := app.Test(httptest.NewRequest("GET", "/api/quiz", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("GradedResultWinsOverSessionView", func(t *testing.T) {
		sessions := &fakeSessionService{
			session: &dto.QuizSessionResponse{SessionID: "01H"},
			graded:  &dto.GradedQuizResponse{SessionID: "01H", Score: 4, Total: 5, Tier: "warning"},
		}
		app := newTestApp(sessions, &fakeGenerationService{})

		resp, err := app.Test(httptest.NewRequest("GET", "/api/quiz", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var got dto.GradedQuizResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, 4, got.Score)
	})
}

func TestResetHandler(t *testing.T) {
	app := newTestApp(&fakeSessionService{}, &fakeGenerationService{})
	resp, err := app.Test(httptest.NewRequest("POST", "/api/quiz/reset", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestExtractTopicsHandler(t *testing.T) {
	app := newTestApp(&fakeSessionService{}, &fakeGenerationService{topics: []string{"Normalization", "Transactions"}})

	body, _ := json.Marshal(dto.SyllabusTopicsRequest{SyllabusText: "Unit 1 ..."})
	req := httptest.NewRequest("POST", "/api/syllabus/topics", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got dto.SyllabusTopicsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, []string{"Normalization", "Transactions"}, got.Topics)
}

func TestBankReportHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	bank := NewBankHandler(nil, report.NewRenderer("Generated and created by Padhai Karo"))
	app.Post("/api/bank/report", bank.Report)

	t.Run("ReturnsPDFAttachment", func(t *testing.T) {
		body, _ := json.Marshal(dto.BankReportRequest{
			Subject: "DBMS",
			Modules: []dto.ModuleBankView{{
				Name: "Relational Model",
				Questions: []dto.BankEntryView{
					{QuestionText: "Define a candidate key.", RepetitionCount: 2, Importance: "High"},
				},
			}},
		})
		req := httptest.NewRequest("POST", "/api/bank/report", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

		pdfBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF-")))
	})

	t.Run("EmptyBankIsRejected", func(t *testing.T) {
		body, _ := json.Marshal(dto.BankReportRequest{Subject: "DBMS"})
		req := httptest.NewRequest("POST", "/api/bank/report", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	})
}
