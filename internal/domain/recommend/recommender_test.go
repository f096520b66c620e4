package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"
)

func progressRow(skillID int64, pct float64, completed bool) *skill.Progress {
	return &skill.Progress{
		SkillID:            shared.SkillID(skillID),
		ProgressPercentage: shared.Percentage(pct),
		Completed:          completed,
	}
}

func testSkills() map[shared.SkillID]*skill.Skill {
	return map[shared.SkillID]*skill.Skill{
		1: {ID: 1, Name: "Python", Description: "Core language"},
		2: {ID: 2, Name: "SQL", Description: "Query fundamentals"},
		3: {ID: 3, Name: "Docker", Description: "Containers"},
	}
}

func TestCosine_Symmetry(t *testing.T) {
	u := Vector{0, 0.8, 1.0}
	v := Vector{0, 0.6, 0, 1.0}

	assert.InDelta(t, Cosine(u, v), Cosine(v, u), 1e-12)
}

func TestCosine_ZeroVectorIsZeroNotError(t *testing.T) {
	zero := Vector{0, 0, 0}
	v := Vector{0, 0.5, 1.0}

	assert.Equal(t, 0.0, Cosine(zero, v))
	assert.Equal(t, 0.0, Cosine(v, zero))
	assert.Equal(t, 0.0, Cosine(Vector{}, Vector{}))
}

func TestCosine_IdenticalVectors(t *testing.T) {
	v := Vector{0, 0.8, 1.0, 0.3}
	assert.InDelta(t, 1.0, Cosine(v, v), 1e-12)
}

func TestCosine_ShorterVectorPadded(t *testing.T) {
	short := Vector{0, 1.0}
	long := Vector{0, 1.0, 0, 0}

	assert.InDelta(t, 1.0, Cosine(short, long), 1e-12)
}

func TestBuildVector_SparseByMaxSkillID(t *testing.T) {
	v := BuildVector([]*skill.Progress{
		progressRow(1, 80, false),
		progressRow(3, 100, true),
	})

	require.Len(t, v, 4)
	assert.Equal(t, 0.0, v[0])
	assert.InDelta(t, 0.8, v[1], 1e-12)
	assert.Equal(t, 0.0, v[2])
	assert.InDelta(t, 1.0, v[3], 1e-12)
}

func TestBuildVector_Empty(t *testing.T) {
	assert.Empty(t, BuildVector(nil))
}

func TestRecommender_SurfacesSimilarUsersCompletedSkills(t *testing.T) {
	// The two overlap on skill 1 only, which keeps their cosine
	// similarity near 0.32. Use a threshold below that to exercise
	// the collaborative path.
	r := NewRecommender(Config{SimilarityThreshold: 0.3, MaxSimilarUsers: 10})

	target := []*skill.Progress{
		progressRow(1, 80, false),
		progressRow(2, 100, true),
	}
	others := []LearnerProgress{
		{LearnerID: "4f3c1d4e-8a2b-4c5d-9e6f-0a1b2c3d4e5f", Progress: []*skill.Progress{
			progressRow(1, 60, false),
			progressRow(3, 100, true),
		}},
	}

	got := r.Recommend(target, others, testSkills(), 5)

	require.Len(t, got, 1)
	assert.Equal(t, shared.SkillID(3), got[0].SkillID)
	assert.Equal(t, "Docker", got[0].Title)
	assert.Positive(t, got[0].Score)
	assert.Equal(t, "Users with similar learning patterns completed this skill", got[0].Reason)
}

func TestRecommender_StartedSkillsNeverRecommended(t *testing.T) {
	r := NewRecommender(Config{SimilarityThreshold: 0.1, MaxSimilarUsers: 10})

	target := []*skill.Progress{progressRow(1, 50, false)}
	others := []LearnerProgress{
		{LearnerID: "4f3c1d4e-8a2b-4c5d-9e6f-0a1b2c3d4e5f", Progress: []*skill.Progress{
			progressRow(1, 100, true),
		}},
	}

	// The only completed candidate is skill 1, already started by the target.
	got := r.Recommend(target, others, testSkills(), 5)
	assert.Empty(t, got)
}

func TestRecommender_ColdStartFallsBackToPopularity(t *testing.T) {
	r := NewRecommender(DefaultConfig())

	// Target has no progress rows, so no similar users exist.
	others := []LearnerProgress{
		{LearnerID: "11111111-1111-4111-8111-111111111111", Progress: []*skill.Progress{
			progressRow(1, 40, false),
			progressRow(2, 90, false),
		}},
		{LearnerID: "22222222-2222-4222-8222-222222222222", Progress: []*skill.Progress{
			progressRow(2, 10, false),
		}},
		{LearnerID: "33333333-3333-4333-8333-333333333333", Progress: []*skill.Progress{
			progressRow(2, 70, false),
			progressRow(3, 5, false),
		}},
	}

	got := r.Recommend(nil, others, testSkills(), 2)

	require.Len(t, got, 2)
	assert.Equal(t, shared.SkillID(2), got[0].SkillID)
	assert.Equal(t, "Popular choice among learners (3 users)", got[0].Reason)
	assert.Equal(t, 3.0, got[0].Score)
	// Skills 1 and 3 tie at one user each; the lower id wins.
	assert.Equal(t, shared.SkillID(1), got[1].SkillID)
}

func TestRecommender_LimitRespected(t *testing.T) {
	r := NewRecommender(DefaultConfig())

	others := []LearnerProgress{
		{LearnerID: "11111111-1111-4111-8111-111111111111", Progress: []*skill.Progress{
			progressRow(1, 40, false),
			progressRow(2, 90, false),
			progressRow(3, 30, false),
		}},
	}

	got := r.Recommend(nil, others, testSkills(), 1)
	assert.Len(t, got, 1)

	assert.Empty(t, r.Recommend(nil, others, testSkills(), 0))
}

func TestRecommender_AccumulatesAcrossSimilarUsers(t *testing.T) {
	r := NewRecommender(Config{SimilarityThreshold: 0.5, MaxSimilarUsers: 10})

	target := []*skill.Progress{progressRow(1, 100, true)}
	others := []LearnerProgress{
		{LearnerID: "11111111-1111-4111-8111-111111111111", Progress: []*skill.Progress{
			progressRow(1, 100, true),
			progressRow(2, 100, true),
		}},
		{LearnerID: "22222222-2222-4222-8222-222222222222", Progress: []*skill.Progress{
			progressRow(1, 100, true),
			progressRow(3, 100, true),
			progressRow(2, 100, true),
		}},
	}

	got := r.Recommend(target, others, testSkills(), 5)

	require.NotEmpty(t, got)
	// Skill 2 is completed by both similar users, so it accumulates
	// the larger total and ranks first.
	assert.Equal(t, shared.SkillID(2), got[0].SkillID)
	assert.Greater(t, got[0].Score, got[1].Score)
}
