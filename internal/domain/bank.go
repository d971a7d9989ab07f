package domain

import (
	"sort"
	"strings"
)

// Importance flags the exam-relevance priority of a bank entry.
type Importance string

const (
	ImportanceHigh   Importance = "High"
	ImportanceNormal Importance = "Normal"
)

// BankEntry is one normalized question inside a module question bank.
// Entries are never mutated after normalization.
type BankEntry struct {
	QuestionText    string     `json:"question_text"`
	RepetitionCount int        `json:"repetition_count"`
	Importance      Importance `json:"importance"`
}

// ModuleBank is one syllabus module with its ordered questions.
type ModuleBank struct {
	Name    string      `json:"name"`
	Entries []BankEntry `json:"entries"`
}

// QuestionBank preserves the module order the generator returned.
type QuestionBank struct {
	Modules []ModuleBank `json:"modules"`
}

// NormalizeEntry coerces whatever the generator returned into a canonical
// entry: trimmed text, non-negative repetition count, High or Normal
// importance (anything unrecognized is Normal).
func NormalizeEntry(text string, repetition int, importance string) BankEntry {
	if repetition < 0 {
		repetition = 0
	}
	imp := ImportanceNormal
	if strings.EqualFold(strings.TrimSpace(importance), string(ImportanceHigh)) {
		imp = ImportanceHigh
	}
	return BankEntry{
		QuestionText:    strings.TrimSpace(text),
		RepetitionCount: repetition,
		Importance:      imp,
	}
}

// SortEntries orders entries for display and export: High importance before
// Normal, then repetition count descending. The sort is stable so ties keep
// their input order.
func SortEntries(entries []BankEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		hi := entries[i].Importance == ImportanceHigh
		hj := entries[j].Importance == ImportanceHigh
		if hi != hj {
			return hi
		}
		return entries[i].RepetitionCount > entries[j].RepetitionCount
	})
}

// Sort orders every module's entries in place.
func (b *QuestionBank) Sort() {
	for i := range b.Modules {
		SortEntries(b.Modules[i].Entries)
	}
}

// TotalQuestions counts entries across all modules.
func (b *QuestionBank) TotalQuestions() int {
	n := 0
	for _, m := range b.Modules {
		n += len(m.Entries)
	}
	return n
}
