package handler

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts every API route on the app.
func RegisterRoutes(app *fiber.App, quiz *QuizHandler, bank *BankHandler, health *HealthHandler) {
	app.Get("/healthz", health.Check)

	api := app.Group("/api")

	api.Post("/quiz/topic", quiz.StartTopicQuiz)
	api.Post("/quiz/document", quiz.StartDocumentQuiz)
	api.Get("/quiz", quiz.GetCurrent)
	api.Post("/quiz/answers", quiz.SubmitAnswers)
	api.Post("/quiz/reset", quiz.Reset)
	api.Post("/syllabus/topics", quiz.ExtractTopics)

	api.Post("/bank", bank.Generate)
	api.Post("/bank/report", bank.Report)
}
