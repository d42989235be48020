// internal/knowledge/vocabulary/vocabulary.go

// Package vocabulary holds the fixed skill and topic keyword lists used for
// tagging, graph node classification, and query-token extraction. The lists
// are data, not control flow: deployments extend them through configuration
// without touching any scoring logic.
package vocabulary

import (
	"sort"
	"strings"
)

// Base skill/tool keywords. Lowercase; matching is case-insensitive.
var defaultSkills = []string{
	"golang", "python", "java", "javascript", "typescript", "rust",
	"react", "vue", "angular", "node.js", "graphql", "rest",
	"docker", "kubernetes", "terraform", "ansible", "helm",
	"aws", "gcp", "azure", "linux",
	"postgresql", "postgres", "mysql", "mongodb", "redis", "elasticsearch",
	"kafka", "rabbitmq", "grpc",
	"ci/cd", "jenkins", "github actions", "gitlab",
	"prometheus", "grafana", "datadog",
	"machine learning", "data analysis", "sql", "spark",
	"figma", "ux design", "accessibility",
}

// Base topic keywords for the mentioned-edge side of the graph.
var defaultTopics = []string{
	"architecture", "testing", "deployment", "security", "performance",
	"monitoring", "observability", "documentation", "onboarding",
	"code review", "refactoring", "debugging", "incident response",
	"agile", "planning", "mentoring", "hiring", "migration",
	"api design", "databases", "infrastructure", "frontend", "backend",
}

// Vocabulary answers membership and token-extraction questions over the
// skill and topic keyword sets.
type Vocabulary struct {
	skills    map[string]struct{}
	topics    map[string]struct{}
	skillList []string
	topicList []string
}

// New builds a vocabulary from the defaults plus any configured extensions.
// Extension entries are normalized to lowercase and deduplicated.
func New(extraSkills, extraTopics []string) *Vocabulary {
	v := &Vocabulary{
		skills: make(map[string]struct{}),
		topics: make(map[string]struct{}),
	}
	for _, s := range defaultSkills {
		v.addSkill(s)
	}
	for _, s := range extraSkills {
		v.addSkill(s)
	}
	for _, t := range defaultTopics {
		v.addTopic(t)
	}
	for _, t := range extraTopics {
		v.addTopic(t)
	}
	sort.Strings(v.skillList)
	sort.Strings(v.topicList)
	return v
}

func (v *Vocabulary) addSkill(s string) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return
	}
	if _, ok := v.skills[s]; ok {
		return
	}
	v.skills[s] = struct{}{}
	v.skillList = append(v.skillList, s)
}

func (v *Vocabulary) addTopic(t string) {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return
	}
	if _, ok := v.topics[t]; ok {
		return
	}
	v.topics[t] = struct{}{}
	v.topicList = append(v.topicList, t)
}

// IsSkill reports whether the tag is a known skill keyword.
func (v *Vocabulary) IsSkill(tag string) bool {
	_, ok := v.skills[strings.ToLower(tag)]
	return ok
}

// IsTopic reports whether the tag is a known topic keyword.
func (v *Vocabulary) IsTopic(tag string) bool {
	_, ok := v.topics[strings.ToLower(tag)]
	return ok
}

// MatchSkills returns every skill keyword contained in the text,
// case-insensitive substring match, in deterministic (sorted) order.
func (v *Vocabulary) MatchSkills(text string) []string {
	return matchKeywords(text, v.skillList)
}

// MatchTopics returns every topic keyword contained in the text.
func (v *Vocabulary) MatchTopics(text string) []string {
	return matchKeywords(text, v.topicList)
}

func matchKeywords(text string, keywords []string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}
