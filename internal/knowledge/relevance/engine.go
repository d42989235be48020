// internal/knowledge/relevance/engine.go

// Package relevance ranks knowledge items against a free-text query.
package relevance

import (
	"sort"
	"strings"

	"knowledge-engine/internal/models"
)

// Scoring weights. Content hits dominate, tag hits accumulate per tag, and
// kind affinity is a light nudge. The raw score is multiplied by item
// confidence so weak items never outrank strong ones on keyword luck alone.
const (
	contentMatchWeight = 3.0
	tagMatchWeight     = 2.0
	kindAffinityWeight = 1.0
)

// kindKeywords maps item kinds to query words signalling affinity for that
// kind.
var kindKeywords = map[models.KnowledgeKind][]string{
	models.KindSkill:      {"skill", "skills", "expert", "expertise", "knows", "good at"},
	models.KindExperience: {"experience", "experienced", "worked on", "has done", "project"},
	models.KindTip:        {"tip", "tips", "advice", "how do", "how to", "best way"},
}

// Engine scores and ranks items for a query.
type Engine struct {
	maxItems int
}

func NewEngine(maxItems int) *Engine {
	if maxItems <= 0 {
		maxItems = 10
	}
	return &Engine{maxItems: maxItems}
}

type scoredItem struct {
	item  models.KnowledgeItem
	score float64
}

// FindRelated returns the items relevant to the query, best first, truncated
// to the engine's limit. Zero-score items are excluded entirely, not ranked
// last: a query with no lexical or tag overlap yields no result for that
// item, which is what downstream gap detection keys on. Ties break toward
// the newer item.
func (e *Engine) FindRelated(items []models.KnowledgeItem, query string) []models.KnowledgeItem {
	queryLower := strings.ToLower(query)

	scored := make([]scoredItem, 0, len(items))
	for _, item := range items {
		score := Score(&item, queryLower)
		if score <= 0 {
			continue
		}
		item.RelevanceScore = score
		scored = append(scored, scoredItem{item: item, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].item.CreatedAt.After(scored[j].item.CreatedAt)
	})

	if len(scored) > e.maxItems {
		scored = scored[:e.maxItems]
	}

	out := make([]models.KnowledgeItem, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.item)
	}
	return out
}

// Score computes query relevance for one item against a lowercased query:
// a content hit when the content contains the whole query, a tag hit per tag
// overlapping the query in either direction, and a kind affinity bonus, all
// scaled by the item's confidence.
func Score(item *models.KnowledgeItem, queryLower string) float64 {
	if strings.TrimSpace(queryLower) == "" {
		return 0
	}
	raw := 0.0

	if strings.Contains(strings.ToLower(item.Content), queryLower) {
		raw += contentMatchWeight
	}

	for _, tag := range item.Tags {
		if tag == "" {
			continue
		}
		if strings.Contains(queryLower, tag) || strings.Contains(tag, queryLower) {
			raw += tagMatchWeight
		}
	}

	for _, kw := range kindKeywords[item.Kind] {
		if strings.Contains(queryLower, kw) {
			raw += kindAffinityWeight
			break
		}
	}

	return raw * item.Confidence
}
