package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// LearningStep is one step of the fixed three-step learning path.
type LearningStep struct {
	StepTitle     string `json:"step_title"`
	StepDetails   string `json:"step_details"`
	StepRationale string `json:"step_rationale"`
}

// StudyPlanItem is one recommended study action. ResourceLink is derived by
// this system from the generator's search query, never taken verbatim.
type StudyPlanItem struct {
	SubTopic      string `json:"sub_topic"`
	StudyStrategy string `json:"study_strategy"`
	SearchQuery   string `json:"google_search_query"`
	ResourceLink  string `json:"resource_link"`
}

// RemediationBundle is the personalized plan generated for the incorrectly
// answered questions of one graded quiz. Bundles are read-only once built.
type RemediationBundle struct {
	LearningPath []LearningStep  `json:"learning_path"`
	StudyPlan    []StudyPlanItem `json:"study_plan"`
}

// RemediationKey derives the memoization key for a remediation request.
// The incorrect-question identifiers are sorted before hashing so that the
// key is insensitive to the order the questions were missed in.
func RemediationKey(topic string, incorrect []Question) string {
	texts := make([]string, 0, len(incorrect))
	for _, q := range incorrect {
		texts = append(texts, strings.TrimSpace(q.QuestionText))
	}
	sort.Strings(texts)

	h := sha256.New()
	h.Write([]byte(strings.TrimSpace(topic)))
	for _, t := range texts {
		h.Write([]byte{0})
		h.Write([]byte(t))
	}
	return hex.EncodeToString(h.Sum(nil))
}
