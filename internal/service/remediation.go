package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"padhai-karo/internal/cache"
	"padhai-karo/internal/domain"
	"padhai-karo/internal/llmjson"
	"padhai-karo/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const remediationCacheExpiration = 24 * time.Hour

// RemediationService generates the personalized learning path and study plan
// for a set of incorrectly answered questions. Results are memoized on an
// order-insensitive key of (topic, incorrect question texts): regrading the
// same mistakes never triggers a second upstream call.
type RemediationService interface {
	Generate(ctx context.Context, topic string, incorrect []domain.Question) (*domain.RemediationBundle, error)
}

type remediationService struct {
	client domain.CompletionClient
	cache  domain.Cache
	group  singleflight.Group
}

// NewRemediationService creates a RemediationService. The cache may be nil,
// which disables memoization but not generation.
func NewRemediationService(client domain.CompletionClient, memoCache domain.Cache) RemediationService {
	return &remediationService{client: client, cache: memoCache}
}

const learningPathPrompt = `You are a helpful academic tutor. A student is struggling with the topic of "%s" and made mistakes on the following questions:
%s

Design a recovery plan with exactly 3 ordered steps the student should take, from revisiting fundamentals to re-testing themselves.

Rules for generation:
1. The output MUST be a single, valid JSON object with one key: "learning_path".
2. The value must be a list of exactly 3 objects, each containing "step_title", "step_details" and "step_rationale".

Generate the learning path now.`

const studyPlanPrompt = `You are a helpful academic tutor. A student is struggling with the topic of "%s" and made mistakes on the following questions:
%s

Based on these specific mistakes, recommend 3 to 4 targeted sub-topics to study. For each sub-topic, explain how to study it and give a web search query that would surface good material.

Rules for generation:
1. The output MUST be a single, valid JSON object with one key: "study_plan".
2. The value must be a list of objects, each containing "sub_topic", "study_strategy" and "google_search_query".

Generate the study plan now.`

// Generate returns the remediation bundle for the given mistakes, from cache
// when an identical request was answered before.
func (s *remediationService) Generate(ctx context.Context, topic string, incorrect []domain.Question) (*domain.RemediationBundle, error) {
	if len(incorrect) == 0 {
		return nil, domain.NewInvalidInputError("no incorrect questions to remediate")
	}

	key := cache.GenerateCacheKey("remediation", "bundle", domain.RemediationKey(topic, incorrect))

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			var bundle domain.RemediationBundle
			if errUnmarshal := json.Unmarshal([]byte(cached), &bundle); errUnmarshal == nil {
				logger.Get().Info("RemediationService: cache hit", zap.String("key", key))
				return &bundle, nil
			}
			logger.Get().Warn("RemediationService: discarding unreadable cache entry",
				zap.String("key", key))
		} else if err != domain.ErrCacheMiss {
			logger.Get().Error("RemediationService: cache read failed", zap.Error(err), zap.String("key", key))
		}
	}

	// Concurrent identical requests share one upstream generation.
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		bundle, err := s.generate(ctx, topic, incorrect)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if payload, errMarshal := json.Marshal(bundle); errMarshal == nil {
				if errSet := s.cache.Set(ctx, key, string(payload), remediationCacheExpiration); errSet != nil {
					logger.Get().Error("RemediationService: cache write failed",
						zap.Error(errSet), zap.String("key", key))
				}
			}
		}
		return bundle, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.RemediationBundle), nil
}

func (s *remediationService) generate(ctx context.Context, topic string, incorrect []domain.Question) (*domain.RemediationBundle, error) {
	mistakes := formatMistakes(incorrect)

	path, err := s.generateLearningPath(ctx, topic, mistakes)
	if err != nil {
		return nil, err
	}
	plan, err := s.generateStudyPlan(ctx, topic, mistakes)
	if err != nil {
		return nil, err
	}
	return &domain.RemediationBundle{LearningPath: path, StudyPlan: plan}, nil
}

func (s *remediationService) generateLearningPath(ctx context.Context, topic, mistakes string) ([]domain.LearningStep, error) {
	raw, err := s.client.Complete(ctx, fmt.Sprintf(learningPathPrompt, topic, mistakes))
	if err != nil {
		return nil, domain.NewLLMServiceError(err)
	}
	payload, err := llmjson.ExtractObject(raw)
	if err != nil {
		return nil, domain.NewGenerationFailedError("learning path", err)
	}

	var parsed struct {
		LearningPath []domain.LearningStep `json:"learning_path"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		logger.Get().Error("Failed to unmarshal learning path JSON",
			zap.Error(err), zap.String("extracted_json", payload))
		return nil, domain.NewGenerationFailedError("learning path", err)
	}
	if len(parsed.LearningPath) != 3 {
		return nil, domain.NewGenerationFailedError("learning path",
			fmt.Errorf("expected 3 steps, got %d", len(parsed.LearningPath)))
	}
	return parsed.LearningPath, nil
}

func (s *remediationService) generateStudyPlan(ctx context.Context, topic, mistakes string) ([]domain.StudyPlanItem, error) {
	raw, err := s.client.Complete(ctx, fmt.Sprintf(studyPlanPrompt, topic, mistakes))
	if err != nil {
		return nil, domain.NewLLMServiceError(err)
	}
	payload, err := llmjson.ExtractObject(raw)
	if err != nil {
		return nil, domain.NewGenerationFailedError("study plan", err)
	}

	var parsed struct {
		StudyPlan []domain.StudyPlanItem `json:"study_plan"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		logger.Get().Error("Failed to unmarshal study plan JSON",
			zap.Error(err), zap.String("extracted_json", payload))
		return nil, domain.NewGenerationFailedError("study plan", err)
	}
	if len(parsed.StudyPlan) == 0 {
		return nil, domain.NewGenerationFailedError("study plan",
			fmt.Errorf("response contained no study plan items"))
	}

	for i := range parsed.StudyPlan {
		item := &parsed.StudyPlan[i]
		item.SubTopic = strings.TrimSpace(item.SubTopic)
		item.SearchQuery = strings.TrimSpace(item.SearchQuery)
		if item.SearchQuery != "" {
			item.ResourceLink = "https://www.google.com/search?q=" + url.QueryEscape(item.SearchQuery)
		}
	}
	return parsed.StudyPlan, nil
}

// formatMistakes renders the missed questions as prompt bullet lines.
func formatMistakes(incorrect []domain.Question) string {
	var b strings.Builder
	for _, q := range incorrect {
		b.WriteString(fmt.Sprintf("- %s (Correct Answer: %s)\n", q.QuestionText, q.CorrectAnswer))
	}
	return b.String()
}
