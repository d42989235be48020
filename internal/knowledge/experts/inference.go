// internal/knowledge/experts/inference.go

// Package experts promotes users to suggested experts for a skill once enough
// independent evidence accumulates across sources.
package experts

import (
	"sort"
	"strings"

	"knowledge-engine/internal/common/logger"
	"knowledge-engine/internal/knowledge/vocabulary"
	"knowledge-engine/internal/models"
)

const (
	// DefaultEvidenceThreshold is the minimum number of independent items
	// backing a (user, skill) pair before it becomes a suggestion.
	DefaultEvidenceThreshold = 2

	// DefaultMaxSuggestions bounds the suggestion list.
	DefaultMaxSuggestions = 5
)

// Inference aggregates per-user, per-skill evidence into ranked expert
// suggestions for a query.
type Inference struct {
	vocab             *vocabulary.Vocabulary
	evidenceThreshold int
	maxSuggestions    int
	logger            logger.Logger
}

func NewInference(vocab *vocabulary.Vocabulary, evidenceThreshold, maxSuggestions int, log logger.Logger) *Inference {
	if evidenceThreshold <= 0 {
		evidenceThreshold = DefaultEvidenceThreshold
	}
	if maxSuggestions <= 0 {
		maxSuggestions = DefaultMaxSuggestions
	}
	return &Inference{
		vocab:             vocab,
		evidenceThreshold: evidenceThreshold,
		maxSuggestions:    maxSuggestions,
		logger:            log.WithFields(map[string]interface{}{"component": "expert-inference"}),
	}
}

// Suggest scans the item set for expert evidence relevant to the query. An
// item contributes to (user, skill) when its own kind is skill (its content
// names the skill) or one of its tags matches a skill keyword found in the
// query. Confidence is the maximum across the evidence, never an average, so
// one strong signal is not diluted by weaker mentions. Pairs below the
// evidence threshold are dropped; the rest rank by confidence*evidenceCount
// descending, ties toward more recent activity, truncated to the configured
// maximum.
func (inf *Inference) Suggest(items []models.KnowledgeItem, query string) []models.ExpertSuggestion {
	queryKeywords := make(map[string]struct{})
	for _, kw := range inf.vocab.MatchSkills(query) {
		queryKeywords[kw] = struct{}{}
	}

	type key struct {
		userID string
		skill  string
	}

	groups := make(map[key]*models.ExpertSuggestion)
	var order []key

	record := func(item *models.KnowledgeItem, skill string) {
		k := key{userID: item.UserID, skill: skill}
		g, ok := groups[k]
		if !ok {
			g = &models.ExpertSuggestion{
				UserID:   item.UserID,
				UserName: item.UserName,
				Skill:    skill,
			}
			groups[k] = g
			order = append(order, k)
		}
		g.EvidenceCount++
		if item.Confidence > g.Confidence {
			g.Confidence = item.Confidence
		}
		if item.CreatedAt.After(g.LastActivity) {
			g.LastActivity = item.CreatedAt
		}
	}

	for i := range items {
		item := &items[i]
		if item.UserID == "" {
			continue
		}

		// One item contributes at most once per skill name.
		contributed := make(map[string]struct{})

		if item.Kind == models.KindSkill {
			skill := strings.ToLower(strings.TrimSpace(item.Content))
			if skill != "" {
				record(item, skill)
				contributed[skill] = struct{}{}
			}
		}

		for _, tag := range item.Tags {
			if _, ok := queryKeywords[tag]; !ok {
				continue
			}
			if _, done := contributed[tag]; done {
				continue
			}
			record(item, tag)
			contributed[tag] = struct{}{}
		}
	}

	suggestions := make([]models.ExpertSuggestion, 0, len(order))
	for _, k := range order {
		g := groups[k]
		if g.EvidenceCount < inf.evidenceThreshold {
			continue
		}
		suggestions = append(suggestions, *g)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		si := suggestions[i].Confidence * float64(suggestions[i].EvidenceCount)
		sj := suggestions[j].Confidence * float64(suggestions[j].EvidenceCount)
		if si != sj {
			return si > sj
		}
		return suggestions[i].LastActivity.After(suggestions[j].LastActivity)
	})

	if len(suggestions) > inf.maxSuggestions {
		suggestions = suggestions[:inf.maxSuggestions]
	}

	inf.logger.Debug("expert inference completed", map[string]interface{}{
		"pairs":       len(order),
		"suggestions": len(suggestions),
	})
	return suggestions
}
