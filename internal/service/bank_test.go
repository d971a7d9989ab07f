package service

import (
	"context"
	"testing"

	"padhai-karo/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bankJSON = `{
  "Module 1: Relational Model": [
    {"question_text": "Define a candidate key.", "repetition_count": 1, "importance": "Normal"},
    {"question_text": "Explain 3NF with an example.", "repetition_count": "4", "importance": "high"},
    {"question_text": "  ", "repetition_count": 2, "importance": "High"}
  ],
  "Module 2: Transactions": [
    {"question_text": "State the ACID properties.", "repetition_count": 3, "importance": "Normal"},
    {"question_text": "What is a deadlock?", "repetition_count": -1, "importance": "unknown"}
  ]
}`

func fourPapers() []PYQFile {
	papers := make([]PYQFile, 0, 4)
	names := []string{"2021.txt", "2022.txt", "2023.txt", "2024.txt"}
	for _, name := range names {
		papers = append(papers, PYQFile{
			Filename: name,
			MIMEType: "text/plain",
			Data:     []byte("Q1. Define a candidate key. Q2. State the ACID properties."),
		})
	}
	return papers
}

func TestBankGenerate(t *testing.T) {
	t.Run("ParsesNormalizesAndSorts", func(t *testing.T) {
		client := &fakeCompletionClient{respond: func(string) (string, error) {
			return "Here is the analysis you asked for:\n```json\n" + bankJSON + "\n```", nil
		}}
		svc := NewBankService(client)

		resp, err := svc.Generate(context.Background(), "DBMS", "Module 1... Module 2...", "", fourPapers())
		require.NoError(t, err)
		assert.Equal(t, "DBMS", resp.Subject)
		require.Len(t, resp.Modules, 2)

		// Module order follows the generator's object order.
		assert.Equal(t, "Module 1: Relational Model", resp.Modules[0].Name)
		assert.Equal(t, "Module 2: Transactions", resp.Modules[1].Name)

		// Blank questions are dropped; stringly counts parse; "high" maps to High
		// and sorts first.
		first := resp.Modules[0].Questions
		require.Len(t, first, 2)
		assert.Equal(t, "Explain 3NF with an example.", first[0].QuestionText)
		assert.Equal(t, 4, first[0].RepetitionCount)
		assert.Equal(t, "High", first[0].Importance)

		// Negative counts clamp to zero, unknown importance becomes Normal.
		second := resp.Modules[1].Questions
		require.Len(t, second, 2)
		assert.Equal(t, "What is a deadlock?", second[1].QuestionText)
		assert.Equal(t, 0, second[1].RepetitionCount)
		assert.Equal(t, "Normal", second[1].Importance)
	})

	t.Run("FileCountBounds", func(t *testing.T) {
		svc := NewBankService(&fakeCompletionClient{respond: func(string) (string, error) { return bankJSON, nil }})
		_, err := svc.Generate(context.Background(), "DBMS", "syllabus", "", fourPapers()[:3])
		require.Error(t, err)
		assert.Equal(t, domain.CodeInvalidInput, err.(*domain.DomainError).Code)

		seven := append(fourPapers(), fourPapers()[:3]...)
		_, err = svc.Generate(context.Background(), "DBMS", "syllabus", "", seven)
		require.Error(t, err)
	})

	t.Run("AllPapersUnreadable", func(t *testing.T) {
		svc := NewBankService(&fakeCompletionClient{respond: func(string) (string, error) { return bankJSON, nil }})
		unreadable := make([]PYQFile, 4)
		for i := range unreadable {
			unreadable[i] = PYQFile{Filename: "bad.bin", Data: []byte{0x00, 0x01, 0x02}}
		}
		_, err := svc.Generate(context.Background(), "DBMS", "syllabus", "", unreadable)
		require.Error(t, err)
		assert.Equal(t, domain.CodeExtractionFailed, err.(*domain.DomainError).Code)
	})

	t.Run("MissingSubjectOrSyllabus", func(t *testing.T) {
		svc := NewBankService(&fakeCompletionClient{respond: func(string) (string, error) { return bankJSON, nil }})
		_, err := svc.Generate(context.Background(), " ", "syllabus", "", fourPapers())
		require.Error(t, err)
		_, err = svc.Generate(context.Background(), "DBMS", " ", "", fourPapers())
		require.Error(t, err)
	})

	t.Run("NonObjectResponse", func(t *testing.T) {
		svc := NewBankService(&fakeCompletionClient{respond: func(string) (string, error) { return "no json here", nil }})
		_, err := svc.Generate(context.Background(), "DBMS", "syllabus", "", fourPapers())
		require.Error(t, err)
		assert.Equal(t, domain.CodeGenerationFailed, err.(*domain.DomainError).Code)
	})
}

func TestParseBank(t *testing.T) {
	t.Run("EmptyObject", func(t *testing.T) {
		_, err := parseBank(`{}`)
		assert.Error(t, err)
	})

	t.Run("ModuleOrderSurvivesManyModules", func(t *testing.T) {
		payload := `{
		  "Zeta": [{"question_text": "z", "repetition_count": 1, "importance": "Normal"}],
		  "Alpha": [{"question_text": "a", "repetition_count": 1, "importance": "Normal"}],
		  "Mid": [{"question_text": "m", "repetition_count": 1, "importance": "Normal"}]
		}`
		bank, err := parseBank(payload)
		require.NoError(t, err)
		require.Len(t, bank.Modules, 3)
		assert.Equal(t, "Zeta", bank.Modules[0].Name)
		assert.Equal(t, "Alpha", bank.Modules[1].Name)
		assert.Equal(t, "Mid", bank.Modules[2].Name)
	})
}
