package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"padhai-karo/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallBank() *domain.QuestionBank {
	return &domain.QuestionBank{Modules: []domain.ModuleBank{
		{Name: "Relational Model", Entries: []domain.BankEntry{
			{QuestionText: "Explain 3NF with an example.", RepetitionCount: 4, Importance: domain.ImportanceHigh},
			{QuestionText: "Define a candidate key.", RepetitionCount: 1, Importance: domain.ImportanceNormal},
		}},
		{Name: "Transactions", Entries: []domain.BankEntry{
			{QuestionText: "State the ACID properties.", RepetitionCount: 3, Importance: domain.ImportanceNormal},
		}},
	}}
}

func bigBank(entriesPerModule int) *domain.QuestionBank {
	bank := &domain.QuestionBank{}
	for m := 0; m < 4; m++ {
		module := domain.ModuleBank{Name: fmt.Sprintf("Module subject area %d", m+1)}
		for i := 0; i < entriesPerModule; i++ {
			module.Entries = append(module.Entries, domain.BankEntry{
				QuestionText:    fmt.Sprintf("Describe concept %d in detail, covering its definition, its motivation and one worked example from past examinations.", i+1),
				RepetitionCount: i % 5,
				Importance:      domain.ImportanceNormal,
			})
		}
		bank.Modules = append(bank.Modules, module)
	}
	return bank
}

// pdfPageCount reads the /Count entry of the page tree.
func pdfPageCount(t *testing.T, data []byte) int {
	t.Helper()
	idx := bytes.LastIndex(data, []byte("/Count "))
	require.NotEqual(t, -1, idx, "no page tree found in output")
	idx += len("/Count ")
	end := idx
	for end < len(data) && data[end] >= '0' && data[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(string(data[idx:end]))
	require.NoError(t, err)
	return n
}

func TestRenderEmptyBankFails(t *testing.T) {
	r := NewRenderer("Generated and created by Padhai Karo")

	_, err := r.Render("DBMS", &domain.QuestionBank{})
	require.Error(t, err)
	assert.Equal(t, domain.CodeRenderFailed, err.(*domain.DomainError).Code)

	_, err = r.Render("DBMS", nil)
	require.Error(t, err)
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer("Generated and created by Padhai Karo")
	r.now = func() time.Time { return time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC) }

	out, err := r.Render("DBMS", smallBank())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	// Cover page plus one content page.
	assert.Equal(t, 2, pdfPageCount(t, out))
}

func TestRenderPaginatesLongBanks(t *testing.T) {
	r := NewRenderer("Generated and created by Padhai Karo")
	out, err := r.Render("Operating Systems", bigBank(25))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pdfPageCount(t, out), 3)
}

func TestLayoutFooterStampedOnEveryPage(t *testing.T) {
	// The layout pass must never emit footer text; footers belong to the
	// replay pass once the total is known.
	l := newLayout()
	l.coverPage("DBMS", "Generated and created by Padhai Karo", time.Now())
	l.modulePages(bigBank(25))
	pages := l.finish()
	require.Greater(t, len(pages), 2)
	for _, cmds := range pages {
		for _, c := range cmds {
			assert.NotContains(t, c.text, "Page ")
			assert.Less(t, c.y, bodyBottom+lineHeight)
		}
	}
}

func TestLayoutCoverIsOwnPage(t *testing.T) {
	l := newLayout()
	l.coverPage("DBMS", "Generated and created by Padhai Karo", time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC))
	l.modulePages(smallBank())
	pages := l.finish()
	require.GreaterOrEqual(t, len(pages), 2)

	var coverText []string
	for _, c := range pages[0] {
		coverText = append(coverText, c.text)
	}
	assert.Contains(t, coverText, "Module-wise Question Bank")
	assert.Contains(t, coverText, "Subject: DBMS")
	assert.Contains(t, coverText, "Generated on: January 5, 2026")
	assert.Contains(t, coverText, "Generated and created by Padhai Karo")
}

func TestLayoutRepetitionSuffixOnEveryEntry(t *testing.T) {
	l := newLayout()
	l.modulePages(&domain.QuestionBank{Modules: []domain.ModuleBank{{
		Name: "Relational Model",
		Entries: []domain.BankEntry{
			{QuestionText: "Define a candidate key.", RepetitionCount: 0, Importance: domain.ImportanceNormal},
			{QuestionText: "Explain 3NF.", RepetitionCount: 2, Importance: domain.ImportanceHigh},
		},
	}}})
	pages := l.finish()
	require.Len(t, pages, 1)

	var lines []string
	for _, c := range pages[0] {
		lines = append(lines, c.text)
	}
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "(repeated 0 times)")
	assert.Contains(t, joined, "(repeated 2 times)")
}
