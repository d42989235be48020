// internal/knowledge/contextbuilder/builder_test.go
package contextbuilder

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "knowledge-engine/internal/common/errors"
	"knowledge-engine/internal/common/logger"
	"knowledge-engine/internal/knowledge/experts"
	"knowledge-engine/internal/knowledge/extraction"
	"knowledge-engine/internal/knowledge/graph"
	"knowledge-engine/internal/knowledge/relevance"
	"knowledge-engine/internal/knowledge/trends"
	"knowledge-engine/internal/knowledge/vocabulary"
	"knowledge-engine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixtureSources struct {
	users       []models.User
	profiles    []models.ProfileRecord
	qa          []models.QARecord
	surveys     []models.SurveyRecord
	notes       []models.StatusNoteRecord
	profilesErr error
	rosterErr   error
}

func (f *fixtureSources) ListAllUsers(ctx context.Context) ([]models.User, error) {
	return f.users, f.rosterErr
}

func (f *fixtureSources) ListAll(ctx context.Context) ([]models.ProfileRecord, error) {
	return f.profiles, f.profilesErr
}

func (f *fixtureSources) ListByUser(ctx context.Context, userID string) ([]models.ProfileRecord, error) {
	if f.profilesErr != nil {
		return nil, f.profilesErr
	}
	var out []models.ProfileRecord
	for _, p := range f.profiles {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fixtureQA struct{ f *fixtureSources }

func (q fixtureQA) ListAll(ctx context.Context) ([]models.QARecord, error) { return q.f.qa, nil }
func (q fixtureQA) ListByUser(ctx context.Context, userID string) ([]models.QARecord, error) {
	return q.f.qa, nil
}

type fixtureSurveys struct{ f *fixtureSources }

func (q fixtureSurveys) ListAll(ctx context.Context) ([]models.SurveyRecord, error) {
	return q.f.surveys, nil
}
func (q fixtureSurveys) ListByUser(ctx context.Context, userID string) ([]models.SurveyRecord, error) {
	return q.f.surveys, nil
}

type fixtureNotes struct{ f *fixtureSources }

func (q fixtureNotes) ListAll(ctx context.Context) ([]models.StatusNoteRecord, error) {
	return q.f.notes, nil
}
func (q fixtureNotes) ListByUser(ctx context.Context, userID string) ([]models.StatusNoteRecord, error) {
	return q.f.notes, nil
}

func newTestBuilder(t *testing.T, f *fixtureSources) *Builder {
	t.Helper()
	log := logger.NewTestLogger(t)
	vocab := vocabulary.New(nil, nil)
	extractor := extraction.NewExtractor(
		extraction.DefaultConfig(), f, fixtureQA{f}, fixtureSurveys{f}, fixtureNotes{f}, vocab, log)
	return NewBuilder(
		DefaultConfig(),
		extractor,
		graph.NewBuilder(vocab, log),
		experts.NewInference(vocab, 2, 5, log),
		relevance.NewEngine(10),
		trends.NewCalculator(30, 1.5, 3, 10),
		f,
		f,
		vocab,
		log,
	)
}

func TestBuildContext_MissingUserIDFails(t *testing.T) {
	b := newTestBuilder(t, &fixtureSources{})

	for _, userID := range []string{"", "   "} {
		_, err := b.BuildContext(context.Background(), userID, "anything")
		require.Error(t, err)

		var stdErr *apperrors.StandardError
		require.True(t, errors.As(err, &stdErr))
		assert.Equal(t, apperrors.ErrCodeInvalidUserID, stdErr.Code)
	}
}

func TestBuildContext_DockerScenario(t *testing.T) {
	now := time.Now()
	f := &fixtureSources{
		users: []models.User{
			{ID: "alice", Name: "Alice", Department: "Platform"},
			{ID: "bob", Name: "Bob", Department: "Product"},
		},
		profiles: []models.ProfileRecord{
			{ID: "p1", UserID: "alice", UserName: "Alice", Expertise: []string{"React"},
				Active: true, UpdatedAt: now},
		},
		surveys: []models.SurveyRecord{
			{ID: "s1", UserID: "alice", UserName: "Alice", AnswerType: models.SurveyAnswerText,
				AnswerText: "Docker has been great for local development", CreatedAt: now},
		},
	}

	b := newTestBuilder(t, f)

	aiCtx, err := b.BuildContext(context.Background(), "bob", "Who knows Docker?")
	require.NoError(t, err)

	// The survey insight is tagged docker, so retrieval finds it.
	require.NotEmpty(t, aiCtx.Knowledge.RelevantItems)
	assert.Greater(t, aiCtx.Knowledge.RelevantItems[0].RelevanceScore, 0.0)
	assert.Equal(t, "alice", aiCtx.Knowledge.RelevantItems[0].UserID)

	// Single piece of docker evidence stays below the promotion threshold.
	assert.Empty(t, aiCtx.Knowledge.SuggestedExperts)

	// A second docker-tagged item pushes Alice over the threshold.
	f.surveys = append(f.surveys, models.SurveyRecord{
		ID: "s2", UserID: "alice", UserName: "Alice", AnswerType: models.SurveyAnswerText,
		AnswerText: "We moved the whole CI pipeline onto docker last sprint", CreatedAt: now,
	})

	aiCtx, err = b.BuildContext(context.Background(), "bob", "Who knows Docker?")
	require.NoError(t, err)
	require.Len(t, aiCtx.Knowledge.SuggestedExperts, 1)
	assert.Equal(t, "alice", aiCtx.Knowledge.SuggestedExperts[0].UserID)
	assert.Equal(t, "docker", aiCtx.Knowledge.SuggestedExperts[0].Skill)
	assert.Equal(t, 2, aiCtx.Knowledge.SuggestedExperts[0].EvidenceCount)

	// Intent and organization summary come along.
	assert.Equal(t, models.QuerySkillSearch, aiCtx.Conversation.QueryType)
	assert.Equal(t, 2, aiCtx.Organization.TotalUsers)
	assert.Equal(t, 1, aiCtx.Organization.ActiveProfiles)
	assert.Equal(t, []string{"Platform", "Product"}, aiCtx.Organization.Departments)
	require.NotNil(t, aiCtx.Organization.Graph)
	_, ok := aiCtx.Organization.Graph.NodeByID("skill:docker")
	assert.True(t, ok)
}

func TestBuildContext_UserContextFromProfileAndRoster(t *testing.T) {
	now := time.Now()
	f := &fixtureSources{
		users: []models.User{{ID: "alice", Name: "Alice", Department: "Platform", Role: "Engineer"}},
		profiles: []models.ProfileRecord{
			{ID: "p1", UserID: "alice", UserName: "Alice", Expertise: []string{"golang", "docker"},
				WorkStyle: "deep work", CommunicationStyle: "async", Active: true, UpdatedAt: now},
		},
	}

	aiCtx, err := newTestBuilder(t, f).BuildContext(context.Background(), "alice", "what is new?")
	require.NoError(t, err)

	assert.Equal(t, "alice", aiCtx.User.UserID)
	assert.Equal(t, "Alice", aiCtx.User.UserName)
	assert.Equal(t, "Platform", aiCtx.User.Department)
	assert.Equal(t, "Engineer", aiCtx.User.Role)
	assert.Equal(t, []string{"golang", "docker"}, aiCtx.User.Expertise)
	assert.Equal(t, "deep work", aiCtx.User.WorkStyle)
	assert.Equal(t, "async", aiCtx.User.CommunicationStyle)
}

func TestBuildContext_DegradesOnSourceFailures(t *testing.T) {
	f := &fixtureSources{
		profilesErr: errors.New("db down"),
		rosterErr:   errors.New("db down"),
	}

	aiCtx, err := newTestBuilder(t, f).BuildContext(context.Background(), "alice", "Who knows Docker?")
	require.NoError(t, err)

	assert.Equal(t, "alice", aiCtx.User.UserID)
	assert.Empty(t, aiCtx.User.Expertise)
	assert.Zero(t, aiCtx.Organization.TotalUsers)
	assert.Empty(t, aiCtx.Knowledge.RelevantItems)

	// Zero results always flag an information gap.
	require.NotEmpty(t, aiCtx.Knowledge.Gaps)
	assert.Equal(t, models.GapInsufficientInformation, aiCtx.Knowledge.Gaps[0].Type)
}

func TestClassifyIntent_OrderedPatterns(t *testing.T) {
	cases := []struct {
		query string
		want  models.QueryType
	}{
		{"What does Alice know about Kafka?", models.QueryUserInquiry},
		{"Tell me about Bob", models.QueryUserInquiry},
		{"Who knows Docker?", models.QuerySkillSearch},
		{"Anyone familiar with Terraform?", models.QuerySkillSearch},
		{"experts in postgresql", models.QuerySkillSearch},
		{"How do I set up the staging cluster?", models.QueryKnowledgeRequest},
		{"best way to run migrations", models.QueryKnowledgeRequest},
		{"status update please", models.QueryGeneralQuestion},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, classifyIntent(tc.query), "query: %s", tc.query)
	}
}

func TestClassificationConfidence(t *testing.T) {
	b := newTestBuilder(t, &fixtureSources{})

	// Short general question: base only.
	assert.InDelta(t, 0.5, b.classificationConfidence("status?", models.QueryGeneralQuestion), 1e-9)

	// "Who knows Docker?" is 16 chars (+0.1), skill search (+0.2), one
	// keyword (+0.05).
	assert.InDelta(t, 0.85, b.classificationConfidence("Who knows Docker?", models.QuerySkillSearch), 1e-9)

	// Confidence never exceeds 1.0.
	long := "Who knows docker kubernetes terraform ansible postgresql redis kafka?"
	assert.Equal(t, 1.0, b.classificationConfidence(long, models.QuerySkillSearch))
}

func TestDetectGaps_Stale(t *testing.T) {
	b := newTestBuilder(t, &fixtureSources{})
	b.now = func() time.Time { return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) }

	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	fresh := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	gaps := b.detectGaps([]models.KnowledgeItem{
		{UserID: "a", CreatedAt: old},
		{UserID: "b", CreatedAt: old},
		{UserID: "c", CreatedAt: fresh},
	})

	require.Len(t, gaps, 1)
	assert.Equal(t, models.GapPossiblyOutdated, gaps[0].Type)
}

func TestDetectGaps_TooFewContributors(t *testing.T) {
	b := newTestBuilder(t, &fixtureSources{})
	now := time.Now()

	var items []models.KnowledgeItem
	for i := 0; i < 6; i++ {
		items = append(items, models.KnowledgeItem{UserID: "solo", CreatedAt: now})
	}

	gaps := b.detectGaps(items)
	require.Len(t, gaps, 1)
	assert.Equal(t, models.GapTooFewContributors, gaps[0].Type)
}

func TestDetectGaps_NoGapOnHealthyResults(t *testing.T) {
	b := newTestBuilder(t, &fixtureSources{})
	now := time.Now()

	gaps := b.detectGaps([]models.KnowledgeItem{
		{UserID: "a", CreatedAt: now},
		{UserID: "b", CreatedAt: now},
		{UserID: "c", CreatedAt: now},
	})
	assert.Empty(t, gaps)
}

func TestRelatedUsers_RankedBySummedRelevance(t *testing.T) {
	b := newTestBuilder(t, &fixtureSources{})

	relevant := []models.KnowledgeItem{
		{UserID: "alice", UserName: "Alice", Kind: models.KindSkill, Content: "docker", RelevanceScore: 2.0},
		{UserID: "alice", UserName: "Alice", Kind: models.KindInsight, RelevanceScore: 1.5},
		{UserID: "bob", UserName: "Bob", Kind: models.KindSkill, Content: "kubernetes", RelevanceScore: 3.0},
	}

	related := b.relatedUsers(relevant)

	require.Len(t, related, 2)
	assert.Equal(t, "alice", related[0].UserID)
	assert.InDelta(t, 3.5, related[0].Relevance, 1e-9)
	assert.Equal(t, []string{"docker"}, related[0].CommonSkills)
	assert.Equal(t, "bob", related[1].UserID)
	assert.Equal(t, []string{"kubernetes"}, related[1].CommonSkills)
}

func TestRelatedUsers_Truncated(t *testing.T) {
	b := newTestBuilder(t, &fixtureSources{})

	var relevant []models.KnowledgeItem
	for _, id := range []string{"u1", "u2", "u3", "u4", "u5", "u6"} {
		relevant = append(relevant, models.KnowledgeItem{
			UserID: id, UserName: id, RelevanceScore: 1.0,
		})
	}

	assert.Len(t, b.relatedUsers(relevant), 5)
}
