// internal/models/context.go
package models

// QueryType is the classified intent of a free-text question.
type QueryType string

const (
	QueryUserInquiry      QueryType = "user_inquiry"
	QuerySkillSearch      QueryType = "skill_search"
	QueryKnowledgeRequest QueryType = "knowledge_request"
	QueryGeneralQuestion  QueryType = "general_question"
)

// GapType names a detected knowledge gap condition.
type GapType string

const (
	GapInsufficientInformation GapType = "insufficient_information"
	GapPossiblyOutdated        GapType = "possibly_outdated"
	GapTooFewContributors      GapType = "too_few_contributors"
)

// KnowledgeGap flags a query condition where retrieval returned no, stale,
// or narrowly-sourced results.
type KnowledgeGap struct {
	Type        GapType `json:"type"`
	Description string  `json:"description"`
}

// UserContext carries the requesting user's declared profile facts.
type UserContext struct {
	UserID             string   `json:"userId"`
	UserName           string   `json:"userName"`
	Department         string   `json:"department,omitempty"`
	Role               string   `json:"role,omitempty"`
	Expertise          []string `json:"expertise"`
	WorkStyle          string   `json:"workStyle,omitempty"`
	CommunicationStyle string   `json:"communicationStyle,omitempty"`
}

// SkillCount is an organization-wide skill with its mention count.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// OrganizationContext is the organization-wide summary.
type OrganizationContext struct {
	TotalUsers     int             `json:"totalUsers"`
	ActiveProfiles int             `json:"activeProfiles"`
	Departments    []string        `json:"departments"`
	TopSkills      []SkillCount    `json:"topSkills"`
	Trends         []TopicTrend    `json:"trends"`
	Graph          *KnowledgeGraph `json:"graph,omitempty"`
}

// RelatedUser is a person connected to the query through their items.
type RelatedUser struct {
	UserID       string   `json:"userId"`
	UserName     string   `json:"userName"`
	Relevance    float64  `json:"relevance"`
	CommonSkills []string `json:"commonSkills"`
}

// KnowledgeContext carries the ranked retrieval results for a query.
type KnowledgeContext struct {
	RelevantItems    []KnowledgeItem    `json:"relevantItems"`
	RelatedUsers     []RelatedUser      `json:"relatedUsers"`
	SuggestedExperts []ExpertSuggestion `json:"suggestedExperts"`
	Gaps             []KnowledgeGap     `json:"gaps"`
}

// ConversationContext is the classified intent of the current query.
type ConversationContext struct {
	QueryType   QueryType `json:"queryType"`
	Confidence  float64   `json:"confidence"`
	Suggestions []string  `json:"suggestions,omitempty"`
}

// AIContext is the full bundle handed to the downstream answer generator.
/// It has no lifecycle of its own: constructed fresh per query, then discarded.
type AIContext struct {
	User         UserContext         `json:"user"`
	Organization OrganizationContext `json:"organization"`
	Knowledge    KnowledgeContext    `json:"knowledge"`
	Conversation ConversationContext `json:"conversation"`
}
