// internal/knowledge/graph/builder.go

// Package graph derives the user/skill/topic graph from extracted knowledge
// items. The graph is a plain value rebuilt on demand, never persisted.
package graph

import (
	"knowledge-engine/internal/common/logger"
	"knowledge-engine/internal/knowledge/vocabulary"
	"knowledge-engine/internal/models"
)

// Builder assembles a knowledge graph from the roster and an item set.
type Builder struct {
	vocab  *vocabulary.Vocabulary
	logger logger.Logger
}

func NewBuilder(vocab *vocabulary.Vocabulary, log logger.Logger) *Builder {
	return &Builder{
		vocab:  vocab,
		logger: log.WithFields(map[string]interface{}{"component": "graph-builder"}),
	}
}

// Build creates one user node per roster entry (isolated nodes are valid for
// never-active users) plus any item owner missing from the roster, one node
// per distinct skill or topic tag seen, and one edge per item/tag pair.
/// Parallel edges are intentional: mention frequency stays recoverable by
// counting them. Tags outside both vocabularies are ignored here but stay on
// the items for query matching.
func (b *Builder) Build(items []models.KnowledgeItem, users []models.User) *models.KnowledgeGraph {
	g := &models.KnowledgeGraph{}
	nodeIndex := make(map[string]int)

	addNode := func(node models.GraphNode) {
		if _, ok := nodeIndex[node.ID]; ok {
			return
		}
		nodeIndex[node.ID] = len(g.Nodes)
		g.Nodes = append(g.Nodes, node)
	}

	for _, u := range users {
		if u.ID == "" {
			continue
		}
		props := map[string]interface{}{}
		if u.Department != "" {
			props["department"] = u.Department
		}
		if u.Role != "" {
			props["role"] = u.Role
		}
		addNode(models.GraphNode{
			ID:         UserNodeID(u.ID),
			Type:       models.NodeUser,
			Label:      u.Name,
			Properties: props,
		})
	}

	// Tag mention counts are tallied over the raw item set, before any edge
	// creation, so ignored tags never inflate counts.
	mentionCounts := make(map[string]int)
	for _, item := range items {
		for _, tag := range item.Tags {
			if b.vocab.IsSkill(tag) || b.vocab.IsTopic(tag) {
				mentionCounts[tag]++
			}
		}
	}

	for _, item := range items {
		if item.UserID == "" {
			continue
		}
		userNode := UserNodeID(item.UserID)
		addNode(models.GraphNode{
			ID:    userNode,
			Type:  models.NodeUser,
			Label: item.UserName,
		})

		for _, tag := range item.Tags {
			switch {
			case b.vocab.IsSkill(tag):
				addNode(models.GraphNode{
					ID:         SkillNodeID(tag),
					Type:       models.NodeSkill,
					Label:      tag,
					Properties: map[string]interface{}{"mentionCount": mentionCounts[tag]},
				})
				g.Edges = append(g.Edges, models.GraphEdge{
					Source: userNode,
					Target: SkillNodeID(tag),
					Type:   models.EdgeHasSkill,
					Weight: item.Confidence,
				})
			case b.vocab.IsTopic(tag):
				addNode(models.GraphNode{
					ID:         TopicNodeID(tag),
					Type:       models.NodeTopic,
					Label:      tag,
					Properties: map[string]interface{}{"mentionCount": mentionCounts[tag]},
				})
				g.Edges = append(g.Edges, models.GraphEdge{
					Source: userNode,
					Target: TopicNodeID(tag),
					Type:   models.EdgeMentioned,
					Weight: item.Confidence,
				})
			}
		}
	}

	b.logger.Debug("graph built", map[string]interface{}{
		"nodes": len(g.Nodes),
		"edges": len(g.Edges),
	})
	return g
}

// UserNodeID returns the graph node id for a user.
func UserNodeID(userID string) string { return "user:" + userID }

// SkillNodeID returns the graph node id for a skill tag.
func SkillNodeID(tag string) string { return "skill:" + tag }

// TopicNodeID returns the graph node id for a topic tag.
func TopicNodeID(tag string) string { return "topic:" + tag }
