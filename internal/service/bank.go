package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"padhai-karo/internal/domain"
	"padhai-karo/internal/dto"
	"padhai-karo/internal/extract"
	"padhai-karo/internal/llmjson"
	"padhai-karo/internal/logger"

	"go.uber.org/zap"
)

// Bounds on how many past-exam files one bank generation accepts.
const (
	MinPYQFiles = 4
	MaxPYQFiles = 6
)

// maxCorpusLength bounds how much concatenated past-exam text is embedded in
// the aggregation prompt.
const maxCorpusLength = 48000

// PYQFile is one uploaded past-year question paper.
type PYQFile struct {
	Filename string
	MIMEType string
	Data     []byte
}

// BankService aggregates past-exam papers into a module-wise question bank.
type BankService interface {
	Generate(ctx context.Context, subject, syllabusText, objectives string, files []PYQFile) (*dto.QuestionBankResponse, error)
}

type bankService struct {
	client domain.CompletionClient
}

// NewBankService creates a BankService backed by the given completion client.
func NewBankService(client domain.CompletionClient) BankService {
	return &bankService{client: client}
}

const bankPrompt = `You are an expert exam analyst. You are given the syllabus of the subject "%s" and the text of several past-year question papers. Group every question under the syllabus module it belongs to and count how often each question (or a close paraphrase) repeats across the papers.

Rules for generation:
1. The output MUST be a single, valid JSON object and nothing else.
2. Each key is a module name taken from the syllabus, in syllabus order.
3. Each value is an array of objects with exactly these keys: "question_text", "repetition_count", "importance".
4. "repetition_count" is the number of papers the question appears in. "importance" is "High" for questions that repeat or map to stated objectives, otherwise "Normal".

Syllabus:
%s
%s
Past-year question papers:
%s`

// Generate extracts text from every uploaded paper, builds the aggregation
// prompt and parses the result into a sorted bank. Files that yield no text
// are skipped with a warning; the generation fails only when every file is
// unreadable.
func (s *bankService) Generate(ctx context.Context, subject, syllabusText, objectives string, files []PYQFile) (*dto.QuestionBankResponse, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, domain.NewInvalidInputError("a subject is required")
	}
	if strings.TrimSpace(syllabusText) == "" {
		return nil, domain.NewInvalidInputError("syllabus text is required")
	}
	if len(files) < MinPYQFiles || len(files) > MaxPYQFiles {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("between %d and %d question papers are required", MinPYQFiles, MaxPYQFiles))
	}

	corpus := s.buildCorpus(files)
	if corpus == "" {
		return nil, domain.NewExtractionFailedError("question papers",
			fmt.Errorf("no text could be extracted from any uploaded paper"))
	}
	if len(corpus) > maxCorpusLength {
		corpus = corpus[:maxCorpusLength]
	}

	objectivesSection := ""
	if objectives = strings.TrimSpace(objectives); objectives != "" {
		objectivesSection = "\nCourse objectives:\n" + objectives + "\n"
	}

	prompt := fmt.Sprintf(bankPrompt, subject, syllabusText, objectivesSection, corpus)
	raw, err := s.client.Complete(ctx, prompt)
	if err != nil {
		return nil, domain.NewLLMServiceError(err)
	}

	payload, err := llmjson.ExtractObject(raw)
	if err != nil {
		logger.Get().Error("No JSON object found in bank completion",
			zap.Error(err),
			zap.String("raw_response", raw))
		return nil, domain.NewGenerationFailedError("question bank", err)
	}

	bank, err := parseBank(payload)
	if err != nil {
		logger.Get().Error("Failed to parse question bank JSON",
			zap.Error(err),
			zap.String("extracted_json", payload))
		return nil, domain.NewGenerationFailedError("question bank", err)
	}
	bank.Sort()

	logger.Get().Info("Question bank generated",
		zap.String("subject", subject),
		zap.Int("modules", len(bank.Modules)),
		zap.Int("questions", bank.TotalQuestions()))
	return bankView(subject, bank), nil
}

func (s *bankService) buildCorpus(files []PYQFile) string {
	var b strings.Builder
	for _, f := range files {
		text, err := extract.ExtractText(f.Filename, f.MIMEType, f.Data)
		if err != nil || strings.TrimSpace(text) == "" {
			logger.Get().Warn("Skipping unreadable question paper",
				zap.String("filename", f.Filename),
				zap.Error(err))
			continue
		}
		fmt.Fprintf(&b, "--- Paper: %s ---\n%s\n\n", f.Filename, text)
	}
	return strings.TrimSpace(b.String())
}

// rawBankEntry tolerates the loose typing generators produce: a
// repetition_count that arrives as a JSON string still parses.
type rawBankEntry struct {
	QuestionText    string      `json:"question_text"`
	RepetitionCount flexibleInt `json:"repetition_count"`
	Importance      string      `json:"importance"`
}

type flexibleInt int

func (f *flexibleInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		v, ferr := strconv.ParseFloat(string(data), 64)
		if ferr != nil {
			return fmt.Errorf("repetition_count %q is not numeric", data)
		}
		n = int(v)
	}
	*f = flexibleInt(n)
	return nil
}

// parseBank walks the top-level object token by token so the module order the
// generator chose survives; unmarshalling into a map would lose it.
func parseBank(payload string) (*domain.QuestionBank, error) {
	dec := json.NewDecoder(strings.NewReader(payload))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object, got %v", tok)
	}

	bank := &domain.QuestionBank{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected a module name, got %v", keyTok)
		}

		var rawEntries []rawBankEntry
		if err := dec.Decode(&rawEntries); err != nil {
			return nil, fmt.Errorf("module %q: %w", name, err)
		}

		module := domain.ModuleBank{Name: strings.TrimSpace(name)}
		for _, e := range rawEntries {
			entry := domain.NormalizeEntry(e.QuestionText, int(e.RepetitionCount), e.Importance)
			if entry.QuestionText == "" {
				continue
			}
			module.Entries = append(module.Entries, entry)
		}
		if len(module.Entries) > 0 {
			bank.Modules = append(bank.Modules, module)
		}
	}

	if len(bank.Modules) == 0 {
		return nil, fmt.Errorf("response contained no modules with questions")
	}
	return bank, nil
}

func bankView(subject string, bank *domain.QuestionBank) *dto.QuestionBankResponse {
	resp := &dto.QuestionBankResponse{Subject: subject}
	for _, m := range bank.Modules {
		view := dto.ModuleBankView{Name: m.Name}
		for _, e := range m.Entries {
			view.Questions = append(view.Questions, dto.BankEntryView{
				QuestionText:    e.QuestionText,
				RepetitionCount: e.RepetitionCount,
				Importance:      string(e.Importance),
			})
		}
		resp.Modules = append(resp.Modules, view)
	}
	return resp
}
