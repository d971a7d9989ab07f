package handler

import (
	"io"
	"strconv"

	"padhai-karo/internal/domain"
	"padhai-karo/internal/dto"
	"padhai-karo/internal/logger"
	"padhai-karo/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz session HTTP requests
type QuizHandler struct {
	sessions  service.SessionService
	generator service.QuizGenerationService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(sessions service.SessionService, generator service.QuizGenerationService) *QuizHandler {
	return &QuizHandler{
		sessions:  sessions,
		generator: generator,
	}
}

// StartTopicQuiz godoc
// @Summary Start a quiz on a topic
// @Description Generates a multiple-choice quiz for a topic and activates it
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.TopicQuizRequest true "Topic Quiz Request"
// @Success 201 {object} dto.QuizSessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /quiz/topic [post]
func (h *QuizHandler) StartTopicQuiz(c *fiber.Ctx) error {
	var req dto.TopicQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	resp, err := h.sessions.StartTopicQuiz(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// StartDocumentQuiz godoc
// @Summary Start a quiz from an uploaded document
// @Description Extracts text from a PDF, DOCX, PPTX or plain-text upload and generates a quiz from it
// @Tags quiz
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Study material"
// @Param num_questions formData int true "Question count"
// @Success 201 {object} dto.QuizSessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /quiz/document [post]
func (h *QuizHandler) StartDocumentQuiz(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domain.NewInvalidInputError("a study material file is required")
	}
	numQuestions, err := strconv.Atoi(c.FormValue("num_questions"))
	if err != nil {
		return domain.NewInvalidInputError("num_questions must be an integer")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.NewInternalError("failed to open upload", err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return domain.NewInternalError("failed to read upload", err)
	}

	resp, err := h.sessions.StartDocumentQuiz(c.Context(),
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data, numQuestions)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetCurrent godoc
// @Summary Get the current quiz
// @Description Returns the active quiz or, after submission, the graded result
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.QuizSessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz [get]
func (h *QuizHandler) GetCurrent(c *fiber.Ctx) error {
	active, graded, err := h.sessions.Current()
	if err != nil {
		return err
	}
	if graded != nil {
		return c.JSON(graded)
	}
	return c.JSON(active)
}

// SubmitAnswers godoc
// @Summary Submit answers for grading
// @Description Grades the active quiz; unanswered questions count as incorrect
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.SubmitAnswersRequest true "Chosen options by question index"
// @Success 200 {object} dto.GradedQuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/answers [post]
func (h *QuizHandler) SubmitAnswers(c *fiber.Ctx) error {
	var req dto.SubmitAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	resp, err := h.sessions.SubmitAnswers(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Reset godoc
// @Summary Reset the quiz session
// @Description Clears the current quiz, its answers and any stored result
// @Tags quiz
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/reset [post]
func (h *QuizHandler) Reset(c *fiber.Ctx) error {
	if err := h.sessions.Reset(); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExtractTopics godoc
// @Summary Extract quiz topics from a syllabus
// @Description Lists the quizzable topics found in syllabus text
// @Tags syllabus
// @Accept json
// @Produce json
// @Param request body dto.SyllabusTopicsRequest true "Syllabus text"
// @Success 200 {object} dto.SyllabusTopicsResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /syllabus/topics [post]
func (h *QuizHandler) ExtractTopics(c *fiber.Ctx) error {
	var req dto.SyllabusTopicsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	topics, err := h.generator.ExtractTopics(c.Context(), req.SyllabusText)
	if err != nil {
		logger.Get().Error("Topic extraction failed", zap.Error(err))
		return err
	}
	return c.JSON(dto.SyllabusTopicsResponse{Topics: topics})
}
