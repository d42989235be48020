// internal/knowledge/contextbuilder/builder.go

// Package contextbuilder orchestrates extraction, graph building, expert
// inference, relevance ranking and trend calculation into one bounded
// AIContext for the downstream answer generator.
package contextbuilder

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "knowledge-engine/internal/common/errors"
	"knowledge-engine/internal/common/logger"
	"knowledge-engine/internal/common/metrics"
	"knowledge-engine/internal/knowledge/experts"
	"knowledge-engine/internal/knowledge/extraction"
	"knowledge-engine/internal/knowledge/graph"
	"knowledge-engine/internal/knowledge/relevance"
	"knowledge-engine/internal/knowledge/trends"
	"knowledge-engine/internal/knowledge/vocabulary"
	"knowledge-engine/internal/models"
	"knowledge-engine/internal/sources"
)

const (
	// DefaultMaxRelatedUsers bounds the related-user list.
	DefaultMaxRelatedUsers = 5

	// DefaultMaxTopSkills bounds the organization skill summary.
	DefaultMaxTopSkills = 10

	// tooFewContributorsMin is the distinct-user floor for a broad result set.
	tooFewContributorsMin = 3

	// tooFewContributorsItems is the result size above which contributor
	// breadth is checked.
	tooFewContributorsItems = 5

	// staleMonths is the age beyond which an item counts as stale for gap
	// detection.
	staleMonths = 6
)

// Config bounds the assembled context.
type Config struct {
	MaxRelatedUsers int
	MaxTopSkills    int
}

func DefaultConfig() *Config {
	return &Config{
		MaxRelatedUsers: DefaultMaxRelatedUsers,
		MaxTopSkills:    DefaultMaxTopSkills,
	}
}

// Builder assembles AIContexts. Every collaborator is an explicit dependency
// so the whole pipeline runs against fixture data in tests.
type Builder struct {
	config    *Config
	extractor *extraction.Extractor
	graph     *graph.Builder
	experts   *experts.Inference
	relevance *relevance.Engine
	trends    *trends.Calculator
	profiles  sources.ProfileSource
	roster    sources.RosterProvider
	vocab     *vocabulary.Vocabulary
	logger    logger.Logger
	now       func() time.Time
}

func NewBuilder(
	config *Config,
	extractor *extraction.Extractor,
	graphBuilder *graph.Builder,
	expertInference *experts.Inference,
	relevanceEngine *relevance.Engine,
	trendCalculator *trends.Calculator,
	profiles sources.ProfileSource,
	roster sources.RosterProvider,
	vocab *vocabulary.Vocabulary,
	log logger.Logger,
) *Builder {
	if config == nil {
		config = DefaultConfig()
	}
	return &Builder{
		config:    config,
		extractor: extractor,
		graph:     graphBuilder,
		experts:   expertInference,
		relevance: relevanceEngine,
		trends:    trendCalculator,
		profiles:  profiles,
		roster:    roster,
		vocab:     vocab,
		logger:    log.WithFields(map[string]interface{}{"component": "context-builder"}),
		now:       time.Now,
	}
}

// BuildContext assembles the full context for one query. The only fatal
// condition is a missing user id; every sub-computation degrades to an
// empty or default value on failure so the caller always receives a usable
// (possibly sparse) context.
func (b *Builder) BuildContext(ctx context.Context, userID, query string) (*models.AIContext, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.NewInvalidUserIDError(userID)
	}

	result := b.extractor.ExtractAll(ctx)
	items := result.Items

	roster := b.listRoster(ctx)

	aiCtx := &models.AIContext{}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		defer b.recoverSubCall("user-context")
		aiCtx.User = b.buildUserContext(ctx, userID, roster)
	}()

	go func() {
		defer wg.Done()
		defer b.recoverSubCall("organization-context")
		aiCtx.Organization = b.buildOrganizationContext(ctx, items, roster)
	}()

	go func() {
		defer wg.Done()
		defer b.recoverSubCall("knowledge-context")
		aiCtx.Knowledge = b.buildKnowledgeContext(items, query)
	}()

	go func() {
		defer wg.Done()
		defer b.recoverSubCall("conversation-context")
		aiCtx.Conversation = b.buildConversationContext(query)
	}()

	wg.Wait()

	metrics.ContextBuilds.WithLabelValues(string(aiCtx.Conversation.QueryType)).Inc()
	b.logger.Info("context assembled", map[string]interface{}{
		"userId":        userID,
		"queryType":     string(aiCtx.Conversation.QueryType),
		"relevantItems": len(aiCtx.Knowledge.RelevantItems),
		"experts":       len(aiCtx.Knowledge.SuggestedExperts),
		"gaps":          len(aiCtx.Knowledge.Gaps),
	})
	return aiCtx, nil
}

func (b *Builder) recoverSubCall(name string) {
	if r := recover(); r != nil {
		b.logger.Error("context sub-call panicked, using defaults", map[string]interface{}{
			"subCall": name,
			"panic":   r,
		})
	}
}

func (b *Builder) listRoster(ctx context.Context) []models.User {
	users, err := b.roster.ListAllUsers(ctx)
	if err != nil {
		b.logger.Warn("roster lookup failed, continuing without roster", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return users
}

func (b *Builder) buildUserContext(ctx context.Context, userID string, roster []models.User) models.UserContext {
	uc := models.UserContext{UserID: userID, Expertise: []string{}}

	for _, u := range roster {
		if u.ID == userID {
			uc.UserName = u.Name
			uc.Department = u.Department
			uc.Role = u.Role
			break
		}
	}

	profiles, err := b.profiles.ListByUser(ctx, userID)
	if err != nil {
		b.logger.Warn("profile lookup failed, returning roster facts only", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
		return uc
	}
	if len(profiles) == 0 {
		return uc
	}

	p := profiles[0]
	if uc.UserName == "" {
		uc.UserName = p.UserName
	}
	uc.Expertise = append(uc.Expertise, p.Expertise...)
	uc.WorkStyle = p.WorkStyle
	uc.CommunicationStyle = p.CommunicationStyle
	return uc
}

func (b *Builder) buildOrganizationContext(ctx context.Context, items []models.KnowledgeItem, roster []models.User) models.OrganizationContext {
	oc := models.OrganizationContext{
		TotalUsers:  len(roster),
		Departments: distinctDepartments(roster),
		TopSkills:   topSkills(items, b.config.MaxTopSkills),
		Trends:      b.trends.Calculate(items),
	}

	if profiles, err := b.profiles.ListAll(ctx); err == nil {
		for _, p := range profiles {
			if p.Active {
				oc.ActiveProfiles++
			}
		}
	} else {
		b.logger.Warn("profile listing failed, active count omitted", map[string]interface{}{
			"error": err.Error(),
		})
	}

	oc.Graph = b.graph.Build(items, roster)
	return oc
}

func (b *Builder) buildKnowledgeContext(items []models.KnowledgeItem, query string) models.KnowledgeContext {
	relevant := b.relevance.FindRelated(items, query)
	return models.KnowledgeContext{
		RelevantItems:    relevant,
		RelatedUsers:     b.relatedUsers(relevant),
		SuggestedExperts: b.experts.Suggest(items, query),
		Gaps:             b.detectGaps(relevant),
	}
}

func (b *Builder) buildConversationContext(query string) models.ConversationContext {
	queryType := classifyIntent(query)
	return models.ConversationContext{
		QueryType:   queryType,
		Confidence:  b.classificationConfidence(query, queryType),
		Suggestions: querySuggestions[queryType],
	}
}

// detectGaps flags empty, stale, or narrowly-sourced result sets.
func (b *Builder) detectGaps(relevant []models.KnowledgeItem) []models.KnowledgeGap {
	var gaps []models.KnowledgeGap

	if len(relevant) == 0 {
		return append(gaps, models.KnowledgeGap{
			Type:        models.GapInsufficientInformation,
			Description: "no knowledge items matched the query",
		})
	}

	staleCutoff := b.now().AddDate(0, -staleMonths, 0)
	fresh := 0
	users := make(map[string]struct{})
	for _, item := range relevant {
		if item.CreatedAt.After(staleCutoff) {
			fresh++
		}
		users[item.UserID] = struct{}{}
	}

	if fresh*2 < len(relevant) {
		gaps = append(gaps, models.KnowledgeGap{
			Type:        models.GapPossiblyOutdated,
			Description: "fewer than half of the matching items are from the last six months",
		})
	}

	if len(relevant) > tooFewContributorsItems && len(users) < tooFewContributorsMin {
		gaps = append(gaps, models.KnowledgeGap{
			Type:        models.GapTooFewContributors,
			Description: "the matching items come from fewer than three people",
		})
	}
	return gaps
}

// relatedUsers ranks the people behind the result set by their summed item
// relevance, carrying their distinct skill items as common skills.
func (b *Builder) relatedUsers(relevant []models.KnowledgeItem) []models.RelatedUser {
	type entry struct {
		user   models.RelatedUser
		skills map[string]struct{}
	}

	byUser := make(map[string]*entry)
	var order []string

	for _, item := range relevant {
		if item.UserID == "" {
			continue
		}
		e, ok := byUser[item.UserID]
		if !ok {
			e = &entry{
				user:   models.RelatedUser{UserID: item.UserID, UserName: item.UserName},
				skills: make(map[string]struct{}),
			}
			byUser[item.UserID] = e
			order = append(order, item.UserID)
		}
		e.user.Relevance += item.RelevanceScore
		if item.Kind == models.KindSkill {
			e.skills[strings.ToLower(item.Content)] = struct{}{}
		}
	}

	related := make([]models.RelatedUser, 0, len(order))
	for _, id := range order {
		e := byUser[id]
		for s := range e.skills {
			e.user.CommonSkills = append(e.user.CommonSkills, s)
		}
		sort.Strings(e.user.CommonSkills)
		related = append(related, e.user)
	}

	sort.SliceStable(related, func(i, j int) bool {
		if related[i].Relevance != related[j].Relevance {
			return related[i].Relevance > related[j].Relevance
		}
		return related[i].UserID < related[j].UserID
	})

	if len(related) > b.config.MaxRelatedUsers {
		related = related[:b.config.MaxRelatedUsers]
	}
	return related
}

func distinctDepartments(roster []models.User) []string {
	seen := make(map[string]struct{})
	var departments []string
	for _, u := range roster {
		if u.Department == "" {
			continue
		}
		if _, ok := seen[u.Department]; ok {
			continue
		}
		seen[u.Department] = struct{}{}
		departments = append(departments, u.Department)
	}
	sort.Strings(departments)
	return departments
}

func topSkills(items []models.KnowledgeItem, limit int) []models.SkillCount {
	counts := make(map[string]int)
	for _, item := range items {
		if item.Kind != models.KindSkill {
			continue
		}
		skill := strings.ToLower(strings.TrimSpace(item.Content))
		if skill == "" {
			continue
		}
		counts[skill]++
	}

	skills := make([]models.SkillCount, 0, len(counts))
	for skill, count := range counts {
		skills = append(skills, models.SkillCount{Skill: skill, Count: count})
	}
	sort.Slice(skills, func(i, j int) bool {
		if skills[i].Count != skills[j].Count {
			return skills[i].Count > skills[j].Count
		}
		return skills[i].Skill < skills[j].Skill
	})

	if len(skills) > limit {
		skills = skills[:limit]
	}
	return skills
}
