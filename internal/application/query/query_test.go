package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsprint/skillsprint-backend/internal/domain/behavior"
	"github.com/skillsprint/skillsprint-backend/internal/domain/learner"
	"github.com/skillsprint/skillsprint-backend/internal/domain/quiz"
	"github.com/skillsprint/skillsprint-backend/internal/domain/resource"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"
)

// ──────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeCache struct {
	entries map[string][]resource.Resource
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]resource.Resource)}
}

func cacheKey(skillID int64, subskill string) string {
	return subskill + "@" + string(rune(skillID))
}

func (c *fakeCache) GetResources(_ context.Context, skillID int64, subskill string) ([]resource.Resource, bool) {
	list, ok := c.entries[cacheKey(skillID, subskill)]
	return list, ok
}

func (c *fakeCache) PutResources(_ context.Context, skillID int64, subskill string, list []resource.Resource) {
	c.entries[cacheKey(skillID, subskill)] = list
	c.puts++
}

func (c *fakeCache) InvalidateResources(_ context.Context, skillID int64, subskill string) {
	delete(c.entries, cacheKey(skillID, subskill))
}

type fakeSupplier struct {
	results []resource.Resource
	calls   int
}

func (s *fakeSupplier) Search(_ context.Context, _ string, _ int) []resource.Resource {
	s.calls++
	return s.results
}

type fakeLearnerRepo struct {
	learners map[shared.LearnerID]*learner.Learner
}

func (r *fakeLearnerRepo) Create(_ context.Context, l *learner.Learner) error {
	r.learners[l.ID] = l
	return nil
}

func (r *fakeLearnerRepo) GetByID(_ context.Context, id shared.LearnerID) (*learner.Learner, error) {
	l, ok := r.learners[id]
	if !ok {
		return nil, shared.ErrLearnerNotFound
	}
	return l, nil
}

func (r *fakeLearnerRepo) GetByEmail(_ context.Context, _ string) (*learner.Learner, error) {
	return nil, shared.ErrLearnerNotFound
}

func (r *fakeLearnerRepo) Update(_ context.Context, l *learner.Learner) error {
	r.learners[l.ID] = l
	return nil
}

func (r *fakeLearnerRepo) ListIDs(_ context.Context, exclude shared.LearnerID) ([]shared.LearnerID, error) {
	ids := make([]shared.LearnerID, 0, len(r.learners))
	for id := range r.learners {
		if id != exclude {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeSkillRepo struct {
	skills map[shared.SkillID]*skill.Skill
}

func (r *fakeSkillRepo) GetByID(_ context.Context, id shared.SkillID) (*skill.Skill, error) {
	s, ok := r.skills[id]
	if !ok {
		return nil, shared.ErrSkillNotFound
	}
	return s, nil
}

func (r *fakeSkillRepo) GetByIDs(_ context.Context, ids []shared.SkillID) ([]*skill.Skill, error) {
	found := make([]*skill.Skill, 0, len(ids))
	for _, id := range ids {
		if s, ok := r.skills[id]; ok {
			found = append(found, s)
		}
	}
	return found, nil
}

func (r *fakeSkillRepo) List(_ context.Context) ([]*skill.Skill, error) {
	all := make([]*skill.Skill, 0, len(r.skills))
	for _, s := range r.skills {
		all = append(all, s)
	}
	return all, nil
}

func (r *fakeSkillRepo) ListByParent(_ context.Context, _ shared.SkillID) ([]*skill.Skill, error) {
	return nil, nil
}

func (r *fakeSkillRepo) Create(_ context.Context, s *skill.Skill) error {
	r.skills[s.ID] = s
	return nil
}

type fakeProgressRepo struct {
	byLearner map[shared.LearnerID][]*skill.Progress
}

func (r *fakeProgressRepo) Get(_ context.Context, learnerID shared.LearnerID, skillID shared.SkillID) (*skill.Progress, error) {
	for _, p := range r.byLearner[learnerID] {
		if p.SkillID == skillID {
			return p, nil
		}
	}
	return nil, shared.ErrProgressNotFound
}

func (r *fakeProgressRepo) ListByLearner(_ context.Context, learnerID shared.LearnerID) ([]*skill.Progress, error) {
	return r.byLearner[learnerID], nil
}

func (r *fakeProgressRepo) Create(_ context.Context, p *skill.Progress) error {
	r.byLearner[p.LearnerID] = append(r.byLearner[p.LearnerID], p)
	return nil
}

func (r *fakeProgressRepo) Update(_ context.Context, _ *skill.Progress) error {
	return nil
}

func (r *fakeProgressRepo) CountLearnersBySkill(_ context.Context) (map[shared.SkillID]int, error) {
	counts := make(map[shared.SkillID]int)
	for _, list := range r.byLearner {
		for _, p := range list {
			counts[p.SkillID]++
		}
	}
	return counts, nil
}

type fakeQuizRepo struct {
	attempts []*quiz.Attempt
}

func (r *fakeQuizRepo) Append(_ context.Context, a *quiz.Attempt) error {
	r.attempts = append(r.attempts, a)
	return nil
}

func (r *fakeQuizRepo) ListRecentByLearner(_ context.Context, learnerID shared.LearnerID, limit int) ([]*quiz.Attempt, error) {
	list := make([]*quiz.Attempt, 0)
	for i := len(r.attempts) - 1; i >= 0 && len(list) < limit; i-- {
		if r.attempts[i].LearnerID == learnerID {
			list = append(list, r.attempts[i])
		}
	}
	return list, nil
}

func (r *fakeQuizRepo) ListRecentBySkill(_ context.Context, learnerID shared.LearnerID, skillID shared.SkillID, limit int) ([]*quiz.Attempt, error) {
	list := make([]*quiz.Attempt, 0)
	for i := len(r.attempts) - 1; i >= 0 && len(list) < limit; i-- {
		if r.attempts[i].LearnerID == learnerID && r.attempts[i].SkillID == skillID {
			list = append(list, r.attempts[i])
		}
	}
	return list, nil
}

type fakeBehaviorRepo struct {
	events []*behavior.Event
}

func (r *fakeBehaviorRepo) Append(_ context.Context, e *behavior.Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *fakeBehaviorRepo) ListRecent(_ context.Context, learnerID shared.LearnerID, limit int) ([]*behavior.Event, error) {
	list := make([]*behavior.Event, 0)
	for i := len(r.events) - 1; i >= 0 && len(list) < limit; i-- {
		if r.events[i].LearnerID == learnerID {
			list = append(list, r.events[i])
		}
	}
	return list, nil
}

type fakeXPRepo struct {
	transactions []*learner.XPTransaction
}

func (r *fakeXPRepo) Append(_ context.Context, tx *learner.XPTransaction) error {
	r.transactions = append(r.transactions, tx)
	return nil
}

func (r *fakeXPRepo) ListRecent(_ context.Context, _ shared.LearnerID, limit int) ([]*learner.XPTransaction, error) {
	if len(r.transactions) > limit {
		return r.transactions[:limit], nil
	}
	return r.transactions, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

const (
	aliceID = shared.LearnerID("11111111-1111-1111-1111-111111111111")
	bobID   = shared.LearnerID("22222222-2222-2222-2222-222222222222")
)

func dsaSkill() *skill.Skill {
	return &skill.Skill{
		ID:         shared.SkillID(1),
		Name:       "Arrays",
		Subskills:  []string{"Traversal", "Sorting"},
		Difficulty: shared.DifficultyBeginner,
		CreatedAt:  time.Now().UTC(),
	}
}

func progressFor(t *testing.T, learnerID shared.LearnerID, skillID shared.SkillID, percent float64) *skill.Progress {
	t.Helper()
	p, err := skill.NewProgress(learnerID, skillID)
	require.NoError(t, err)
	p.ProgressPercentage = shared.Percentage(percent)
	p.Completed = percent >= 100
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Subskill resources
// ──────────────────────────────────────────────────────────────────────────────

func TestGetSubskillResources_CacheHitSkipsSupplier(t *testing.T) {
	cache := newFakeCache()
	cached := []resource.Resource{{
		Title:        "Cached doc",
		URL:          "https://developer.mozilla.org/cached",
		Type:         resource.TypeDocumentation,
		QualityScore: 90,
	}}
	cache.PutResources(context.Background(), 1, "Arrays", cached)
	supplier := &fakeSupplier{}

	h := NewGetSubskillResourcesHandler(cache, supplier, nil, nil, GetSubskillResourcesHandlerConfig{})

	result, err := h.Handle(context.Background(), GetSubskillResourcesQuery{
		SkillID:      shared.SkillID(1),
		SubskillName: "Arrays",
	})
	require.NoError(t, err)

	assert.True(t, result.FromCache)
	assert.Equal(t, cached, result.Resources)
	assert.Zero(t, supplier.calls)
}

func TestGetSubskillResources_AssemblesAndCaches(t *testing.T) {
	cache := newFakeCache()
	supplier := &fakeSupplier{results: []resource.Resource{{
		Title:        "Advanced array algorithm implementation deep dive",
		URL:          "https://example.org/arrays-advanced",
		Type:         resource.TypeArticle,
		QualityScore: 95,
	}}}

	h := NewGetSubskillResourcesHandler(cache, supplier, nil, nil, GetSubskillResourcesHandlerConfig{})

	result, err := h.Handle(context.Background(), GetSubskillResourcesQuery{
		SkillID:      shared.SkillID(1),
		SubskillName: "Arrays",
		MaxCount:     5,
	})
	require.NoError(t, err)

	assert.False(t, result.FromCache)
	assert.Equal(t, 1, supplier.calls)
	assert.NotEmpty(t, result.Resources)
	assert.LessOrEqual(t, len(result.Resources), 5)
	assert.Equal(t, 1, cache.puts)

	seen := make(map[string]struct{})
	for _, r := range result.Resources {
		_, dup := seen[r.NormalizedURL()]
		assert.False(t, dup, "duplicate URL %s", r.URL)
		seen[r.NormalizedURL()] = struct{}{}
	}
}

func TestGetSubskillResources_MetricsOnRequest(t *testing.T) {
	h := NewGetSubskillResourcesHandler(nil, nil, nil, nil, GetSubskillResourcesHandlerConfig{})

	result, err := h.Handle(context.Background(), GetSubskillResourcesQuery{
		SkillID:        shared.SkillID(1),
		SubskillName:   "Arrays",
		IncludeMetrics: true,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Metrics)
	assert.Equal(t, len(result.Resources), result.Metrics.TotalResources)
}

func TestGetSubskillResources_ValidatesInput(t *testing.T) {
	h := NewGetSubskillResourcesHandler(nil, nil, nil, nil, GetSubskillResourcesHandlerConfig{})

	_, err := h.Handle(context.Background(), GetSubskillResourcesQuery{SubskillName: "Arrays"})
	assert.Error(t, err)

	_, err = h.Handle(context.Background(), GetSubskillResourcesQuery{SkillID: shared.SkillID(1)})
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recommendations
// ──────────────────────────────────────────────────────────────────────────────

func TestGetRecommendations_ColdStartUsesPopularity(t *testing.T) {
	learners := &fakeLearnerRepo{learners: map[shared.LearnerID]*learner.Learner{
		aliceID: {ID: aliceID},
		bobID:   {ID: bobID},
	}}
	skills := &fakeSkillRepo{skills: map[shared.SkillID]*skill.Skill{
		1: dsaSkill(),
	}}
	progress := &fakeProgressRepo{byLearner: map[shared.LearnerID][]*skill.Progress{
		bobID: {progressFor(t, bobID, shared.SkillID(1), 40)},
	}}

	h := NewGetRecommendationsHandler(learners, skills, progress, nil, nil)

	result, err := h.Handle(context.Background(), GetRecommendationsQuery{LearnerID: aliceID})
	require.NoError(t, err)

	require.NotEmpty(t, result.Recommendations)
	assert.Equal(t, shared.SkillID(1), result.Recommendations[0].SkillID)
	assert.Contains(t, result.Recommendations[0].Reason, "Popular choice")
	assert.Equal(t, 1, result.ComparedLearners)
}

func TestGetRecommendations_ValidatesLearnerID(t *testing.T) {
	h := NewGetRecommendationsHandler(
		&fakeLearnerRepo{learners: map[shared.LearnerID]*learner.Learner{}},
		&fakeSkillRepo{skills: map[shared.SkillID]*skill.Skill{}},
		&fakeProgressRepo{byLearner: map[shared.LearnerID][]*skill.Progress{}},
		nil, nil,
	)

	_, err := h.Handle(context.Background(), GetRecommendationsQuery{})
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Behavior profile
// ──────────────────────────────────────────────────────────────────────────────

func TestGetBehaviorProfile_EmptyHistoryGetsDefaults(t *testing.T) {
	h := NewGetBehaviorProfileHandler(
		&fakeBehaviorRepo{},
		&fakeQuizRepo{},
		&fakeProgressRepo{byLearner: map[shared.LearnerID][]*skill.Progress{}},
		&fakeSkillRepo{skills: map[shared.SkillID]*skill.Skill{}},
		nil, nil,
	)

	result, err := h.Handle(context.Background(), GetBehaviorProfileQuery{LearnerID: aliceID})
	require.NoError(t, err)

	assert.Equal(t, behavior.DefaultProfile(), result.Profile)
	assert.Zero(t, result.EventsAnalyzed)
}

func TestGetBehaviorProfile_ResolvesSkillNames(t *testing.T) {
	quizRepo := &fakeQuizRepo{}
	for i := 0; i < 3; i++ {
		attempt, err := quiz.NewAttempt(quiz.NewAttemptParams{
			ID:        "a",
			LearnerID: aliceID,
			SkillID:   shared.SkillID(1),
			Questions: []quiz.Question{
				{Prompt: "Q", Options: []string{"a", "b"}, CorrectIndex: 0},
				{Prompt: "Q2", Options: []string{"a", "b"}, CorrectIndex: 0},
			},
			Answers: []int{1, 1}, // consistently failing
		})
		require.NoError(t, err)
		quizRepo.attempts = append(quizRepo.attempts, attempt)
	}

	h := NewGetBehaviorProfileHandler(
		&fakeBehaviorRepo{},
		quizRepo,
		&fakeProgressRepo{byLearner: map[shared.LearnerID][]*skill.Progress{}},
		&fakeSkillRepo{skills: map[shared.SkillID]*skill.Skill{1: dsaSkill()}},
		nil, nil,
	)

	result, err := h.Handle(context.Background(), GetBehaviorProfileQuery{LearnerID: aliceID})
	require.NoError(t, err)
	assert.Contains(t, result.Profile.StrugglingTopics, "Arrays")
}

// ──────────────────────────────────────────────────────────────────────────────
// Difficulty adjustment
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustDifficulty_NoHistoryIsBeginner(t *testing.T) {
	h := NewAdjustDifficultyHandler(
		&fakeQuizRepo{},
		&fakeSkillRepo{skills: map[shared.SkillID]*skill.Skill{1: dsaSkill()}},
		&fakeProgressRepo{byLearner: map[shared.LearnerID][]*skill.Progress{}},
		nil, nil,
	)

	result, err := h.Handle(context.Background(), AdjustDifficultyQuery{
		LearnerID: aliceID,
		SkillID:   shared.SkillID(1),
	})
	require.NoError(t, err)

	assert.Equal(t, shared.DifficultyBeginner, result.Adjustment.DifficultyLevel)
	assert.Empty(t, result.Adjustment.Adjustments)
	assert.Zero(t, result.AttemptsAnalyzed)
}

func TestAdjustDifficulty_MissingProgressIsNotAnError(t *testing.T) {
	quizRepo := &fakeQuizRepo{}
	attempt, err := quiz.NewAttempt(quiz.NewAttemptParams{
		ID:        "a",
		LearnerID: aliceID,
		SkillID:   shared.SkillID(1),
		Questions: []quiz.Question{{Prompt: "Q", Options: []string{"a", "b"}, CorrectIndex: 0}},
		Answers:   []int{0},
	})
	require.NoError(t, err)
	quizRepo.attempts = append(quizRepo.attempts, attempt)

	h := NewAdjustDifficultyHandler(
		quizRepo,
		&fakeSkillRepo{skills: map[shared.SkillID]*skill.Skill{1: dsaSkill()}},
		&fakeProgressRepo{byLearner: map[shared.LearnerID][]*skill.Progress{}},
		nil, nil,
	)

	result, err := h.Handle(context.Background(), AdjustDifficultyQuery{
		LearnerID: aliceID,
		SkillID:   shared.SkillID(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.AttemptsAnalyzed)
	assert.InDelta(t, 0.0, result.Adjustment.CompletionRate, 0.001)
}

// ──────────────────────────────────────────────────────────────────────────────
// Quiz generation
// ──────────────────────────────────────────────────────────────────────────────

func TestGetQuiz_ExplicitDifficulty(t *testing.T) {
	h := NewGetQuizHandler(&fakeSkillRepo{skills: map[shared.SkillID]*skill.Skill{1: dsaSkill()}}, nil, nil)

	result, err := h.Handle(context.Background(), GetQuizQuery{
		LearnerID:  aliceID,
		SkillID:    shared.SkillID(1),
		Difficulty: shared.DifficultyIntermediate,
	})
	require.NoError(t, err)

	assert.Equal(t, shared.DifficultyIntermediate, result.Difficulty)
	assert.False(t, result.Adaptive)
	assert.Len(t, result.Questions, 5)
}

func TestGetQuiz_AdaptiveDefaultsToBeginner(t *testing.T) {
	skills := &fakeSkillRepo{skills: map[shared.SkillID]*skill.Skill{1: dsaSkill()}}
	difficulty := NewAdjustDifficultyHandler(
		&fakeQuizRepo{},
		skills,
		&fakeProgressRepo{byLearner: map[shared.LearnerID][]*skill.Progress{}},
		nil, nil,
	)
	h := NewGetQuizHandler(skills, difficulty, nil)

	result, err := h.Handle(context.Background(), GetQuizQuery{
		LearnerID: aliceID,
		SkillID:   shared.SkillID(1),
	})
	require.NoError(t, err)

	assert.True(t, result.Adaptive)
	assert.Equal(t, shared.DifficultyBeginner, result.Difficulty)
	assert.NotEmpty(t, result.Questions)
}

// ──────────────────────────────────────────────────────────────────────────────
// Learning path
// ──────────────────────────────────────────────────────────────────────────────

func pathHandler(t *testing.T, behaviorRepo *fakeBehaviorRepo, progress *fakeProgressRepo) *GetLearningPathHandler {
	t.Helper()
	skills := &fakeSkillRepo{skills: map[shared.SkillID]*skill.Skill{1: dsaSkill()}}
	profile := NewGetBehaviorProfileHandler(behaviorRepo, &fakeQuizRepo{}, progress, skills, nil, nil)
	return NewGetLearningPathHandler(skills, progress, profile, nil, nil)
}

func TestGetLearningPath_ColdStartBuildsDefaultPlan(t *testing.T) {
	h := pathHandler(t, &fakeBehaviorRepo{}, &fakeProgressRepo{byLearner: map[shared.LearnerID][]*skill.Progress{}})

	result, err := h.Handle(context.Background(), GetLearningPathQuery{
		LearnerID: aliceID,
		SkillID:   shared.SkillID(1),
	})
	require.NoError(t, err)

	assert.Equal(t, "Arrays", result.SkillName)
	assert.Equal(t, shared.DifficultyBeginner, result.LearnerLevel)
	assert.Equal(t, behavior.PaceMedium, result.LearningPace)
	assert.Equal(t, "1 weeks (16 hours)", result.EstimatedCompletion)
	assert.Equal(t, []string{"Standard pacing"}, result.AdaptiveFeatures)

	require.Len(t, result.Subskills, 2)
	assert.Equal(t, "Traversal", result.Subskills[0].Name)
	assert.Equal(t, 1, result.Subskills[0].Order)
	assert.Equal(t, 2, result.Subskills[1].Order)
	for _, step := range result.Subskills {
		assert.False(t, step.Completed)
		assert.True(t, step.QuizEnabled)
		assert.Equal(t, 8, step.EstimatedHours)
		assert.Equal(t, shared.DifficultyBeginner, step.Difficulty)
	}

	require.Len(t, result.Milestones, 2)
	assert.Equal(t, "Traversal", result.Milestones[0].Subskill)
	assert.Equal(t, "Sorting", result.Milestones[1].Subskill)
	for _, m := range result.Milestones {
		assert.False(t, m.Reached)
	}
}

func TestGetLearningPath_CompletedSubskillDisablesQuiz(t *testing.T) {
	p := progressFor(t, aliceID, shared.SkillID(1), 50)
	p.CompletedSubskills = []string{"Traversal"}
	progress := &fakeProgressRepo{byLearner: map[shared.LearnerID][]*skill.Progress{
		aliceID: {p},
	}}
	h := pathHandler(t, &fakeBehaviorRepo{}, progress)

	result, err := h.Handle(context.Background(), GetLearningPathQuery{
		LearnerID: aliceID,
		SkillID:   shared.SkillID(1),
	})
	require.NoError(t, err)

	require.Len(t, result.Subskills, 2)
	assert.True(t, result.Subskills[0].Completed)
	assert.False(t, result.Subskills[0].QuizEnabled)
	assert.False(t, result.Subskills[1].Completed)
	assert.True(t, result.Subskills[1].QuizEnabled)

	require.Len(t, result.Milestones, 2)
	assert.True(t, result.Milestones[0].Reached)
	assert.False(t, result.Milestones[1].Reached)
}

func TestGetLearningPath_SlowPaceExtendsEstimate(t *testing.T) {
	base := time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC)
	behaviorRepo := &fakeBehaviorRepo{}
	for day := 0; day <= 60; day += 30 {
		behaviorRepo.events = append(behaviorRepo.events, &behavior.Event{
			LearnerID:  aliceID,
			Action:     behavior.ActionViewResource,
			OccurredAt: base.AddDate(0, 0, day),
		})
	}
	h := pathHandler(t, behaviorRepo, &fakeProgressRepo{byLearner: map[shared.LearnerID][]*skill.Progress{}})

	result, err := h.Handle(context.Background(), GetLearningPathQuery{
		LearnerID: aliceID,
		SkillID:   shared.SkillID(1),
	})
	require.NoError(t, err)

	assert.Equal(t, behavior.PaceSlow, result.LearningPace)
	assert.Equal(t, "2 weeks (24 hours)", result.EstimatedCompletion)
	assert.Equal(t, 12, result.Subskills[0].EstimatedHours)
	assert.Contains(t, result.AdaptiveFeatures, "Extended schedule with extra review time")
}

func TestGetLearningPath_StepsCarrySelectedResources(t *testing.T) {
	skills := &fakeSkillRepo{skills: map[shared.SkillID]*skill.Skill{1: dsaSkill()}}
	progress := &fakeProgressRepo{byLearner: map[shared.LearnerID][]*skill.Progress{}}
	profile := NewGetBehaviorProfileHandler(&fakeBehaviorRepo{}, &fakeQuizRepo{}, progress, skills, nil, nil)
	supplier := &fakeSupplier{results: []resource.Resource{{
		Title:        "Traversal patterns explained",
		URL:          "https://example.org/traversal",
		Type:         resource.TypeArticle,
		QualityScore: 95,
	}}}
	resources := NewGetSubskillResourcesHandler(nil, supplier, nil, nil, GetSubskillResourcesHandlerConfig{})
	h := NewGetLearningPathHandler(skills, progress, profile, resources, nil)

	result, err := h.Handle(context.Background(), GetLearningPathQuery{
		LearnerID:            aliceID,
		SkillID:              shared.SkillID(1),
		ResourcesPerSubskill: 2,
	})
	require.NoError(t, err)

	require.Len(t, result.Subskills, 2)
	for _, step := range result.Subskills {
		assert.NotEmpty(t, step.Resources)
		assert.LessOrEqual(t, len(step.Resources), 2)
	}
	assert.Equal(t, 2, supplier.calls)
}

func TestGetLearningPath_UnknownSkillFails(t *testing.T) {
	h := pathHandler(t, &fakeBehaviorRepo{}, &fakeProgressRepo{byLearner: map[shared.LearnerID][]*skill.Progress{}})

	_, err := h.Handle(context.Background(), GetLearningPathQuery{
		LearnerID: aliceID,
		SkillID:   shared.SkillID(99),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrSkillNotFound)
}

func TestGetLearningPath_ValidatesInput(t *testing.T) {
	h := pathHandler(t, &fakeBehaviorRepo{}, &fakeProgressRepo{byLearner: map[shared.LearnerID][]*skill.Progress{}})

	_, err := h.Handle(context.Background(), GetLearningPathQuery{SkillID: shared.SkillID(1)})
	assert.Error(t, err)

	_, err = h.Handle(context.Background(), GetLearningPathQuery{LearnerID: aliceID})
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestGetDashboard_AggregatesLearnerState(t *testing.T) {
	l, err := learner.NewLearner(learner.NewLearnerParams{
		ID:           aliceID,
		Email:        "alice@example.com",
		PasswordHash: "hash",
		DisplayName:  "Alice",
	})
	require.NoError(t, err)
	require.NoError(t, l.AwardXP(150))

	learners := &fakeLearnerRepo{learners: map[shared.LearnerID]*learner.Learner{aliceID: l}}
	progress := &fakeProgressRepo{byLearner: map[shared.LearnerID][]*skill.Progress{
		aliceID: {progressFor(t, aliceID, shared.SkillID(1), 50)},
	}}
	skills := &fakeSkillRepo{skills: map[shared.SkillID]*skill.Skill{1: dsaSkill()}}
	xp := &fakeXPRepo{transactions: []*learner.XPTransaction{{
		LearnerID:   aliceID,
		Amount:      150,
		Type:        learner.XPTransactionQuiz,
		Description: "Quiz: 3/3 correct",
		CreatedAt:   time.Now().UTC(),
	}}}

	h := NewGetDashboardHandler(learners, progress, skills, xp, nil)

	result, err := h.Handle(context.Background(), GetDashboardQuery{LearnerID: aliceID})
	require.NoError(t, err)

	assert.Equal(t, "Alice", result.DisplayName)
	assert.Equal(t, 150, result.TotalXP)
	require.Len(t, result.Skills, 1)
	assert.Equal(t, "Arrays", result.Skills[0].SkillName)
	assert.Equal(t, 50.0, result.Skills[0].ProgressPercentage)
	require.Len(t, result.RecentXP, 1)
	assert.Equal(t, string(learner.XPTransactionQuiz), result.RecentXP[0].Type)

	// 150 XP crosses the 100 XP achievement bar.
	require.NotEmpty(t, result.Achievements)
	assert.Equal(t, "first_steps", result.Achievements[0].Code)
}
