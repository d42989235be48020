// internal/knowledge/contextbuilder/intent.go
package contextbuilder

import (
	"regexp"
	"strings"

	"knowledge-engine/internal/models"
)

// Confidence heuristic constants. Base plus length, intent and keyword
// bumps, capped at 1.0. Tunable heuristics, not invariants.
const (
	confidenceBase           = 0.5
	confidenceLengthBump     = 0.1
	confidenceKeywordBump    = 0.05
	confidenceUserInquiry    = 0.2
	confidenceSkillSearch    = 0.2
	confidenceKnowledgeReq   = 0.15
	confidenceGeneralQuery   = 0.0
	shortQueryThresholdChars = 10
	longQueryThresholdChars  = 20
)

// Ordered intent patterns; the first class with a match wins.
var (
	userInquiryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)what (does|do) \w+ know`),
		regexp.MustCompile(`(?i)tell me about \w+`),
		regexp.MustCompile(`(?i)\w+'s (expertise|skills|experience|strengths)`),
		regexp.MustCompile(`(?i)what (is|are) \w+ (good at|working on)`),
	}
	skillSearchPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)who (knows|uses|understands|works with)`),
		regexp.MustCompile(`(?i)who (has|have) experience`),
		regexp.MustCompile(`(?i)(find|looking for) (people|someone|anyone)`),
		regexp.MustCompile(`(?i)(anyone|anybody) (know|familiar|experienced)`),
		regexp.MustCompile(`(?i)expert(s)? (in|on|with|for)`),
	}
	knowledgeRequestPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)how (do|does|can|should|would) (i|we|you|one)`),
		regexp.MustCompile(`(?i)how to `),
		regexp.MustCompile(`(?i)(best|recommended) (way|practice|approach)`),
		regexp.MustCompile(`(?i)(guide|walkthrough|steps) (to|for)`),
	}
)

var querySuggestions = map[models.QueryType][]string{
	models.QueryUserInquiry: {
		"Ask about a specific skill to narrow the answer",
	},
	models.QuerySkillSearch: {
		"Name the exact tool or technology you need help with",
	},
	models.QueryKnowledgeRequest: {
		"Ask who has hands-on experience with this topic",
	},
	models.QueryGeneralQuestion: {
		"Try asking about a person, a skill, or a how-to",
	},
}

// classifyIntent runs the ordered pattern checks and returns the first
// matching query type.
func classifyIntent(query string) models.QueryType {
	for _, re := range userInquiryPatterns {
		if re.MatchString(query) {
			return models.QueryUserInquiry
		}
	}
	for _, re := range skillSearchPatterns {
		if re.MatchString(query) {
			return models.QuerySkillSearch
		}
	}
	for _, re := range knowledgeRequestPatterns {
		if re.MatchString(query) {
			return models.QueryKnowledgeRequest
		}
	}
	return models.QueryGeneralQuestion
}

func intentBump(queryType models.QueryType) float64 {
	switch queryType {
	case models.QueryUserInquiry:
		return confidenceUserInquiry
	case models.QuerySkillSearch:
		return confidenceSkillSearch
	case models.QueryKnowledgeRequest:
		return confidenceKnowledgeReq
	default:
		return confidenceGeneralQuery
	}
}

// classificationConfidence estimates how sure the classifier is: longer
// queries and recognized vocabulary keywords both raise it.
func (b *Builder) classificationConfidence(query string, queryType models.QueryType) float64 {
	confidence := confidenceBase

	trimmed := strings.TrimSpace(query)
	if len(trimmed) > shortQueryThresholdChars {
		confidence += confidenceLengthBump
	}
	if len(trimmed) > longQueryThresholdChars {
		confidence += confidenceLengthBump
	}

	confidence += intentBump(queryType)

	keywords := len(b.vocab.MatchSkills(query)) + len(b.vocab.MatchTopics(query))
	confidence += float64(keywords) * confidenceKeywordBump

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
