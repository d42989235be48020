// internal/knowledge/extraction/extractor.go

// Package extraction converts raw source records into normalized, deduplicated
// and relevance-scored knowledge items. Extraction is idempotent: unchanged
// source data yields identical item ids and dedup outcomes on every pass.
package extraction

import (
	"context"
	"strings"
	"sync"
	"time"

	"knowledge-engine/internal/common/logger"
	"knowledge-engine/internal/common/metrics"
	"knowledge-engine/internal/knowledge/vocabulary"
	"knowledge-engine/internal/models"
	"knowledge-engine/internal/sources"

	"github.com/google/uuid"
)

// Fixed confidences per extraction rule.
const (
	confidenceDeclaredSkill = 0.9
	confidencePreference    = 0.8
	confidenceQAResponse    = 0.8
	confidenceSurveyInsight = 0.7
	confidenceMinedSkill    = 0.6
	confidenceProgressNote  = 0.5
	confidenceStatusInsight = 0.4

	minSurveyAnswerLen = 10
	minStatusFieldLen  = 20
)

// itemNamespace seeds deterministic item ids (uuid v5 over source|record|token).
var itemNamespace = uuid.MustParse("7f2d1c4e-9a3b-4f60-8c15-2b6f0a9d4e71")

// Extractor runs the four source-specific extraction routines and merges
// their output into one deduplicated, scored item set.
type Extractor struct {
	config   *Config
	profiles sources.ProfileSource
	qa       sources.QASource
	surveys  sources.SurveySource
	notes    sources.StatusNoteSource
	vocab    *vocabulary.Vocabulary
	logger   logger.Logger
	now      func() time.Time
}

func NewExtractor(
	config *Config,
	profiles sources.ProfileSource,
	qa sources.QASource,
	surveys sources.SurveySource,
	notes sources.StatusNoteSource,
	vocab *vocabulary.Vocabulary,
	log logger.Logger,
) *Extractor {
	if config == nil {
		config = DefaultConfig()
	}
	return &Extractor{
		config:   config,
		profiles: profiles,
		qa:       qa,
		surveys:  surveys,
		notes:    notes,
		vocab:    vocab,
		logger:   log.WithFields(map[string]interface{}{"component": "extractor"}),
		now:      time.Now,
	}
}

type sourceOutput struct {
	items     []models.KnowledgeItem
	processed int
}

// ExtractAll runs all four extraction routines concurrently and joins their
// results. A failing source contributes zero items; extraction itself never
// fails, so downstream consumers always receive a valid (possibly empty)
// result.
func (e *Extractor) ExtractAll(ctx context.Context) *models.ExtractionResult {
	start := e.now()

	runs := []struct {
		source models.KnowledgeSource
		fn     func(context.Context) ([]models.KnowledgeItem, int, error)
	}{
		{models.SourceProfile, e.extractFromProfiles},
		{models.SourceQAResponse, e.extractFromQA},
		{models.SourceSurveyResponse, e.extractFromSurveys},
		{models.SourceStatusNote, e.extractFromStatusNotes},
	}

	// Outputs land in fixed slots so the merge order is deterministic
	// regardless of goroutine scheduling.
	outputs := make([]sourceOutput, len(runs))

	var wg sync.WaitGroup
	for i, run := range runs {
		wg.Add(1)
		go func(slot int, source models.KnowledgeSource, fn func(context.Context) ([]models.KnowledgeItem, int, error)) {
			defer wg.Done()
			items, processed, err := fn(ctx)
			if err != nil {
				metrics.ExtractionSourceErrors.WithLabelValues(string(source)).Inc()
				e.logger.Warn("source extraction failed, contributing no items", map[string]interface{}{
					"source": string(source),
					"error":  err.Error(),
				})
				return
			}
			outputs[slot] = sourceOutput{items: items, processed: processed}
			metrics.ExtractionItems.WithLabelValues(string(source)).Add(float64(len(items)))
		}(i, run.source, run.fn)
	}
	wg.Wait()

	var all []models.KnowledgeItem
	totalProcessed := 0
	for _, out := range outputs {
		all = append(all, out.items...)
		totalProcessed += out.processed
	}

	deduped := dedupe(all)
	e.enhanceRelevance(deduped)

	elapsed := e.now().Sub(start)
	metrics.ExtractionRuns.Inc()
	metrics.ExtractionDuration.Observe(elapsed.Seconds())

	e.logger.Info("extraction completed", map[string]interface{}{
		"totalProcessed": totalProcessed,
		"rawItems":       len(all),
		"newItems":       len(deduped),
		"durationMs":     elapsed.Milliseconds(),
	})

	return &models.ExtractionResult{
		Items:            deduped,
		TotalProcessed:   totalProcessed,
		NewItemsFound:    len(deduped),
		ProcessingTimeMs: elapsed.Milliseconds(),
	}
}

// extractFromProfiles yields one skill item per declared expertise entry plus
// at most one preference item each for work style and communication style.
func (e *Extractor) extractFromProfiles(ctx context.Context) ([]models.KnowledgeItem, int, error) {
	records, err := e.profiles.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	var items []models.KnowledgeItem
	for _, rec := range records {
		if rec.UserID == "" {
			e.warnMalformed(models.SourceProfile, rec.ID, "missing user id")
			continue
		}

		for _, expertise := range rec.Expertise {
			expertise = strings.TrimSpace(expertise)
			if expertise == "" {
				continue
			}
			items = append(items, models.KnowledgeItem{
				ID:         itemID(models.SourceProfile, rec.ID, "skill", expertise),
				Kind:       models.KindSkill,
				Content:    expertise,
				Source:     models.SourceProfile,
				UserID:     rec.UserID,
				UserName:   rec.UserName,
				Confidence: confidenceDeclaredSkill,
				Tags:       uniqueTags(strings.ToLower(expertise)),
				CreatedAt:  rec.UpdatedAt,
			})
		}

		if rec.WorkStyle != "" {
			items = append(items, models.KnowledgeItem{
				ID:         itemID(models.SourceProfile, rec.ID, "work-style"),
				Kind:       models.KindPreference,
				Content:    rec.WorkStyle,
				Source:     models.SourceProfile,
				UserID:     rec.UserID,
				UserName:   rec.UserName,
				Confidence: confidencePreference,
				Tags:       uniqueTags("work-style"),
				CreatedAt:  rec.UpdatedAt,
			})
		}

		if rec.CommunicationStyle != "" {
			items = append(items, models.KnowledgeItem{
				ID:         itemID(models.SourceProfile, rec.ID, "communication-style"),
				Kind:       models.KindPreference,
				Content:    rec.CommunicationStyle,
				Source:     models.SourceProfile,
				UserID:     rec.UserID,
				UserName:   rec.UserName,
				Confidence: confidencePreference,
				Tags:       uniqueTags("communication-style"),
				CreatedAt:  rec.UpdatedAt,
			})
		}
	}
	return items, len(records), nil
}

// extractFromQA yields one item per response, typed by the question's
// category and carrying the full question+answer text, plus one mined skill
// item per tool keyword found in the answer.
func (e *Extractor) extractFromQA(ctx context.Context) ([]models.KnowledgeItem, int, error) {
	records, err := e.qa.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	var items []models.KnowledgeItem
	for _, rec := range records {
		if rec.UserID == "" || rec.Question == "" || rec.Answer == "" {
			e.warnMalformed(models.SourceQAResponse, rec.ID, "missing user id, question or answer")
			continue
		}

		tags := append(e.vocab.MatchSkills(rec.Answer), e.vocab.MatchTopics(rec.Answer)...)
		if cat := strings.ToLower(strings.TrimSpace(rec.Category)); cat != "" {
			tags = append(tags, cat)
		}

		items = append(items, models.KnowledgeItem{
			ID:         itemID(models.SourceQAResponse, rec.ID),
			Kind:       kindForCategory(rec.Category),
			Content:    "Q: " + rec.Question + "\nA: " + rec.Answer,
			Source:     models.SourceQAResponse,
			UserID:     rec.UserID,
			UserName:   rec.UserName,
			Confidence: confidenceQAResponse,
			Tags:       uniqueTags(tags...),
			CreatedAt:  rec.CreatedAt,
		})

		for _, token := range e.vocab.MatchSkills(rec.Answer) {
			items = append(items, models.KnowledgeItem{
				ID:         itemID(models.SourceQAResponse, rec.ID, "skill", token),
				Kind:       models.KindSkill,
				Content:    token,
				Source:     models.SourceQAResponse,
				UserID:     rec.UserID,
				UserName:   rec.UserName,
				Confidence: confidenceMinedSkill,
				Tags:       uniqueTags(token),
				CreatedAt:  rec.CreatedAt,
			})
		}
	}
	return items, len(records), nil
}

// extractFromSurveys yields one insight per free-text answer longer than the
// minimum length. Choice, rating and boolean answers carry no free-text
// signal worth indexing and are skipped.
func (e *Extractor) extractFromSurveys(ctx context.Context) ([]models.KnowledgeItem, int, error) {
	records, err := e.surveys.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	var items []models.KnowledgeItem
	for _, rec := range records {
		if rec.UserID == "" {
			e.warnMalformed(models.SourceSurveyResponse, rec.ID, "missing user id")
			continue
		}
		if rec.AnswerType != models.SurveyAnswerText {
			continue
		}
		if len(rec.AnswerText) <= minSurveyAnswerLen {
			continue
		}

		tags := append(e.vocab.MatchSkills(rec.AnswerText), e.vocab.MatchTopics(rec.AnswerText)...)
		items = append(items, models.KnowledgeItem{
			ID:         itemID(models.SourceSurveyResponse, rec.ID),
			Kind:       models.KindInsight,
			Content:    rec.AnswerText,
			Source:     models.SourceSurveyResponse,
			UserID:     rec.UserID,
			UserName:   rec.UserName,
			Confidence: confidenceSurveyInsight,
			Tags:       uniqueTags(tags...),
			CreatedAt:  rec.CreatedAt,
		})
	}
	return items, len(records), nil
}

// extractFromStatusNotes yields one experience item per long-enough progress
// field (with mined skill items, at lower confidence than Q&A) and one
// insight per long-enough notes field.
func (e *Extractor) extractFromStatusNotes(ctx context.Context) ([]models.KnowledgeItem, int, error) {
	records, err := e.notes.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	var items []models.KnowledgeItem
	for _, rec := range records {
		if rec.UserID == "" {
			e.warnMalformed(models.SourceStatusNote, rec.ID, "missing user id")
			continue
		}

		if len(rec.Progress) > minStatusFieldLen {
			tags := append(e.vocab.MatchSkills(rec.Progress), e.vocab.MatchTopics(rec.Progress)...)
			items = append(items, models.KnowledgeItem{
				ID:         itemID(models.SourceStatusNote, rec.ID, "progress"),
				Kind:       models.KindExperience,
				Content:    rec.Progress,
				Source:     models.SourceStatusNote,
				UserID:     rec.UserID,
				UserName:   rec.UserName,
				Confidence: confidenceProgressNote,
				Tags:       uniqueTags(tags...),
				CreatedAt:  rec.CreatedAt,
			})

			for _, token := range e.vocab.MatchSkills(rec.Progress) {
				items = append(items, models.KnowledgeItem{
					ID:         itemID(models.SourceStatusNote, rec.ID, "skill", token),
					Kind:       models.KindSkill,
					Content:    token,
					Source:     models.SourceStatusNote,
					UserID:     rec.UserID,
					UserName:   rec.UserName,
					Confidence: confidenceProgressNote,
					Tags:       uniqueTags(token),
					CreatedAt:  rec.CreatedAt,
				})
			}
		}

		if len(rec.Notes) > minStatusFieldLen {
			tags := append(e.vocab.MatchSkills(rec.Notes), e.vocab.MatchTopics(rec.Notes)...)
			items = append(items, models.KnowledgeItem{
				ID:         itemID(models.SourceStatusNote, rec.ID, "notes"),
				Kind:       models.KindInsight,
				Content:    rec.Notes,
				Source:     models.SourceStatusNote,
				UserID:     rec.UserID,
				UserName:   rec.UserName,
				Confidence: confidenceStatusInsight,
				Tags:       uniqueTags(tags...),
				CreatedAt:  rec.CreatedAt,
			})
		}
	}
	return items, len(records), nil
}

// enhanceRelevance recomputes each item's relevance score as a pure function
// of confidence and age. Applied after deduplication, no side effects.
func (e *Extractor) enhanceRelevance(items []models.KnowledgeItem) {
	now := e.now()
	for i := range items {
		ageDays := now.Sub(items[i].CreatedAt).Hours() / 24
		recency := 1 - ageDays/e.config.RecencyHorizonDays
		if recency < 0 {
			recency = 0
		}
		items[i].RelevanceScore = items[i].Confidence*e.config.ConfidenceWeight + recency*e.config.RecencyWeight
	}
}

func (e *Extractor) warnMalformed(source models.KnowledgeSource, recordID, reason string) {
	e.logger.Warn("skipping malformed record", map[string]interface{}{
		"source":   string(source),
		"recordId": recordID,
		"reason":   reason,
	})
}

// dedupe drops later duplicates of (userId, kind, content[:50]); the first
// occurrence wins.
func dedupe(items []models.KnowledgeItem) []models.KnowledgeItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]models.KnowledgeItem, 0, len(items))
	for _, item := range items {
		key := dedupKey(&item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

func dedupKey(item *models.KnowledgeItem) string {
	prefix := item.Content
	if len(prefix) > 50 {
		prefix = prefix[:50]
	}
	return item.UserID + "|" + string(item.Kind) + "|" + prefix
}

// itemID derives a stable id from source + record id (+ token for sub-items).
func itemID(source models.KnowledgeSource, recordID string, token ...string) string {
	parts := append([]string{string(source), recordID}, token...)
	return uuid.NewSHA1(itemNamespace, []byte(strings.Join(parts, "|"))).String()
}

func kindForCategory(category string) models.KnowledgeKind {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "experience", "project", "retrospective":
		return models.KindExperience
	case "tip", "tips", "advice", "howto":
		return models.KindTip
	default:
		return models.KindInsight
	}
}

// uniqueTags lowercases, trims and deduplicates tags, preserving first-seen order.
func uniqueTags(tags ...string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
