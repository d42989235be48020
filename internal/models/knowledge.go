// internal/models/knowledge.go
package models

import "time"

// KnowledgeKind classifies what sort of fact a knowledge item carries.
type KnowledgeKind string

const (
	KindSkill      KnowledgeKind = "skill"
	KindExperience KnowledgeKind = "experience"
	KindTip        KnowledgeKind = "tip"
	KindInsight    KnowledgeKind = "insight"
	KindPreference KnowledgeKind = "preference"
)

// KnowledgeSource identifies which adapter produced an item.
type KnowledgeSource string

const (
	SourceProfile        KnowledgeSource = "profile"
	SourceQAResponse     KnowledgeSource = "qa_response"
	SourceSurveyResponse KnowledgeSource = "survey_response"
	SourceStatusNote     KnowledgeSource = "status_note"
)

// KnowledgeItem is one normalized, attributed fact extracted from a source record.
// IDs are derived deterministically from source + record id (+ token for
// sub-items) so repeated extraction runs are idempotent.
type KnowledgeItem struct {
	ID             string          `json:"id"`
	Kind           KnowledgeKind   `json:"kind"`
	Content        string          `json:"content"`
	Source         KnowledgeSource `json:"source"`
	UserID         string          `json:"userId"`
	UserName       string          `json:"userName"`
	Confidence     float64         `json:"confidence"`
	Tags           []string        `json:"tags"`
	CreatedAt      time.Time       `json:"createdAt"`
	RelevanceScore float64         `json:"relevanceScore"`
}

// HasTag reports whether the item carries the given (lowercased) tag.
func (k *KnowledgeItem) HasTag(tag string) bool {
	for _, t := range k.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ExtractionResult summarizes one extraction pass over all sources.
type ExtractionResult struct {
	Items            []KnowledgeItem `json:"items"`
	TotalProcessed   int             `json:"totalProcessed"`
	NewItemsFound    int             `json:"newItemsFound"`
	ProcessingTimeMs int64           `json:"processingTimeMs"`
}

// NodeType is the type of a knowledge graph node.
type NodeType string

const (
	NodeUser  NodeType = "user"
	NodeSkill NodeType = "skill"
	NodeTopic NodeType = "topic"
)

// EdgeType is the type of a knowledge graph edge.
type EdgeType string

const (
	EdgeHasSkill  EdgeType = "has_skill"
	EdgeMentioned EdgeType = "mentioned"
)

// GraphNode is one node in the derived knowledge graph.
type GraphNode struct {
	ID         string                 `json:"id"`
	Type       NodeType               `json:"type"`
	Label      string                 `json:"label"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// GraphEdge links a user node to a skill or topic node. Parallel edges are
// kept as-is so mention frequency stays recoverable by counting.
type GraphEdge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   EdgeType `json:"type"`
	Weight float64  `json:"weight"`
}

// KnowledgeGraph is a plain derived value, rebuilt every query cycle.
type KnowledgeGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// NodeByID returns the node with the given id, if present.
func (g *KnowledgeGraph) NodeByID(id string) (GraphNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return GraphNode{}, false
}

// ExpertSuggestion is a derived aggregate promoting a user to suggested
// expert for a skill once enough evidence accumulates.
type ExpertSuggestion struct {
	UserID        string    `json:"userId"`
	UserName      string    `json:"userName"`
	Skill         string    `json:"skill"`
	Confidence    float64   `json:"confidence"`
	EvidenceCount int       `json:"evidenceCount"`
	LastActivity  time.Time `json:"lastActivity"`
}

// TrendDirection classifies a topic's trajectory over the trailing windows.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// TopicTrend is one tag's activity over the last two 30-day windows.
type TopicTrend struct {
	Topic     string         `json:"topic"`
	Frequency int            `json:"frequency"`
	Trend     TrendDirection `json:"trend"`
}
