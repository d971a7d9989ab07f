package dto

// BankEntryView is one normalized, sorted question of a module bank.
type BankEntryView struct {
	QuestionText    string `json:"question_text"`
	RepetitionCount int    `json:"repetition_count"`
	Importance      string `json:"importance"`
}

// ModuleBankView is one syllabus module with its questions in display order.
type ModuleBankView struct {
	Name      string          `json:"name"`
	Questions []BankEntryView `json:"questions"`
}

// QuestionBankResponse is the module-wise question bank for a subject.
type QuestionBankResponse struct {
	Subject string           `json:"subject"`
	Modules []ModuleBankView `json:"modules"`
}

// BankReportRequest asks for a PDF rendering of a previously generated bank.
type BankReportRequest struct {
	Subject string           `json:"subject"`
	Modules []ModuleBankView `json:"modules"`
}
