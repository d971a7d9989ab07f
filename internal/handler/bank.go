package handler

import (
	"fmt"
	"io"
	"mime/multipart"

	"padhai-karo/internal/domain"
	"padhai-karo/internal/dto"
	"padhai-karo/internal/extract"
	"padhai-karo/internal/logger"
	"padhai-karo/internal/report"
	"padhai-karo/internal/service"
	"padhai-karo/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BankHandler handles question-bank HTTP requests
type BankHandler struct {
	banks    service.BankService
	renderer *report.Renderer
}

// NewBankHandler creates a new BankHandler instance
func NewBankHandler(banks service.BankService, renderer *report.Renderer) *BankHandler {
	return &BankHandler{
		banks:    banks,
		renderer: renderer,
	}
}

// Generate godoc
// @Summary Generate a module-wise question bank
// @Description Aggregates 4 to 6 past-year papers into a per-module question bank sorted by importance and repetition
// @Tags bank
// @Accept multipart/form-data
// @Produce json
// @Param subject formData string true "Subject name"
// @Param syllabus_text formData string false "Syllabus text (or upload syllabus_file)"
// @Param syllabus_file formData file false "Syllabus document"
// @Param objectives formData string false "Course objectives"
// @Param pyq_files formData file true "Past-year question papers (4 to 6)"
// @Success 200 {object} dto.QuestionBankResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /bank [post]
func (h *BankHandler) Generate(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return domain.NewInvalidInputError("a multipart form is required")
	}

	subject := c.FormValue("subject")
	objectives := c.FormValue("objectives")

	syllabusText := c.FormValue("syllabus_text")
	if syllabusText == "" {
		if headers := form.File["syllabus_file"]; len(headers) > 0 {
			pf, err := readUpload(headers[0])
			if err != nil {
				return err
			}
			syllabusText = extractSyllabus(pf)
		}
	}

	files := make([]service.PYQFile, 0, len(form.File["pyq_files"]))
	for _, header := range form.File["pyq_files"] {
		pf, err := readUpload(header)
		if err != nil {
			return err
		}
		files = append(files, pf)
	}

	resp, err := h.banks.Generate(c.Context(), subject, syllabusText, objectives, files)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Report godoc
// @Summary Export a question bank as PDF
// @Description Renders a previously generated bank into a paginated PDF report
// @Tags bank
// @Accept json
// @Produce application/pdf
// @Param request body dto.BankReportRequest true "Subject and bank modules"
// @Success 200 {file} binary
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /bank/report [post]
func (h *BankHandler) Report(c *fiber.Ctx) error {
	var req dto.BankReportRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if req.Subject == "" {
		return domain.NewInvalidInputError("a subject is required")
	}

	bank := &domain.QuestionBank{}
	for _, m := range req.Modules {
		module := domain.ModuleBank{Name: m.Name}
		for _, q := range m.Questions {
			module.Entries = append(module.Entries,
				domain.NormalizeEntry(q.QuestionText, q.RepetitionCount, q.Importance))
		}
		bank.Modules = append(bank.Modules, module)
	}
	bank.Sort()

	pdfBytes, err := h.renderer.Render(req.Subject, bank)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="question_bank_%s.pdf"`, util.NewULID()))
	return c.Send(pdfBytes)
}

// extractSyllabus degrades extraction failures to empty text; the service
// reports the missing syllabus with its own validation error.
func extractSyllabus(pf service.PYQFile) string {
	text, err := extract.ExtractText(pf.Filename, pf.MIMEType, pf.Data)
	if err != nil {
		logger.Get().Warn("Syllabus extraction failed",
			zap.String("filename", pf.Filename),
			zap.Error(err))
		return ""
	}
	return text
}

func readUpload(header *multipart.FileHeader) (service.PYQFile, error) {
	file, err := header.Open()
	if err != nil {
		return service.PYQFile{}, domain.NewInternalError("failed to open upload", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return service.PYQFile{}, domain.NewInternalError("failed to read upload", err)
	}
	return service.PYQFile{
		Filename: header.Filename,
		MIMEType: header.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}
