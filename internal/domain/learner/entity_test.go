package learner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
)

const testLearnerID = shared.LearnerID("4f3c1d4e-8a2b-4c5d-9e6f-0a1b2c3d4e5f")

func newTestLearner(t *testing.T) *Learner {
	t.Helper()
	l, err := NewLearner(NewLearnerParams{
		ID:           testLearnerID,
		Email:        "dana@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		DisplayName:  "Dana",
	})
	require.NoError(t, err)
	return l
}

func TestNewLearner_Validation(t *testing.T) {
	base := NewLearnerParams{
		ID:           testLearnerID,
		Email:        "dana@example.com",
		PasswordHash: "hash",
		DisplayName:  "Dana",
	}

	bad := base
	bad.ID = "not-a-uuid"
	_, err := NewLearner(bad)
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	bad = base
	bad.Email = "nope"
	_, err = NewLearner(bad)
	assert.ErrorIs(t, err, shared.ErrInvalidEmail)

	bad = base
	bad.DisplayName = "x"
	_, err = NewLearner(bad)
	assert.ErrorIs(t, err, ErrInvalidDisplayName)

	bad = base
	bad.PasswordHash = ""
	_, err = NewLearner(bad)
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	l, err := NewLearner(base)
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", l.Email)
	assert.Zero(t, l.TotalXP)
	assert.Zero(t, l.CurrentStreak)
}

func TestLearner_StreakLifecycle(t *testing.T) {
	l := newTestLearner(t)
	day := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	// First ever activity starts the streak.
	update := l.RegisterActivity(day)
	assert.Equal(t, 1, update.CurrentStreak)
	assert.False(t, update.Extended)

	// Second activity the same day changes nothing.
	update = l.RegisterActivity(day.Add(6 * time.Hour))
	assert.Equal(t, 1, update.CurrentStreak)
	assert.False(t, update.Extended)

	// Next-day activity extends.
	update = l.RegisterActivity(day.AddDate(0, 0, 1))
	assert.Equal(t, 2, update.CurrentStreak)
	assert.True(t, update.Extended)

	update = l.RegisterActivity(day.AddDate(0, 0, 2))
	assert.Equal(t, 3, update.CurrentStreak)

	// Skipping a day resets to one but keeps the record.
	update = l.RegisterActivity(day.AddDate(0, 0, 5))
	assert.Equal(t, 1, update.CurrentStreak)
	assert.True(t, update.Reset)
	assert.Equal(t, 3, update.LongestStreak)
}

func TestLearner_StreakNeverExceedsLongest(t *testing.T) {
	l := newTestLearner(t)
	day := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// Mix of consecutive runs and gaps.
	offsets := []int{0, 1, 2, 3, 7, 8, 20, 21, 22, 23, 24, 40}
	for _, off := range offsets {
		l.RegisterActivity(day.AddDate(0, 0, off))
		assert.LessOrEqual(t, l.CurrentStreak, l.LongestStreak)
	}
	assert.Equal(t, 5, l.LongestStreak)
	assert.Equal(t, 1, l.CurrentStreak)
}

func TestLearner_AwardXP(t *testing.T) {
	l := newTestLearner(t)

	require.NoError(t, l.AwardXP(XPStartSkill))
	assert.Equal(t, shared.XP(50), l.TotalXP)

	assert.ErrorIs(t, l.AwardXP(-1), ErrNegativeXPAward)
	assert.Equal(t, shared.XP(50), l.TotalXP)
}

func TestSubskillCompletionXP(t *testing.T) {
	// Base ten points plus twice the 1-5 difficulty rating.
	assert.Equal(t, 12, SubskillCompletionXP(1))
	assert.Equal(t, 16, SubskillCompletionXP(3))
	assert.Equal(t, 20, SubskillCompletionXP(5))

	// Out-of-range ratings fall back to the base award.
	assert.Equal(t, 10, SubskillCompletionXP(0))
	assert.Equal(t, 10, SubskillCompletionXP(9))
}

func TestLearner_LevelFromXP(t *testing.T) {
	l := newTestLearner(t)

	assert.Equal(t, shared.Level(0), l.Level())

	require.NoError(t, l.AwardXP(2500))
	assert.Equal(t, shared.Level(2), l.Level())
}

func TestLearner_Achievements(t *testing.T) {
	l := newTestLearner(t)
	assert.Empty(t, l.Achievements())

	require.NoError(t, l.AwardXP(1200))
	l.CurrentStreak = 7
	l.LongestStreak = 7

	ids := make([]string, 0)
	for _, a := range l.Achievements() {
		ids = append(ids, a.Code)
	}
	assert.Contains(t, ids, "first_steps")
	assert.Contains(t, ids, "level_up")
	assert.Contains(t, ids, "week_streak")
	assert.NotContains(t, ids, "month_streak")
}
