package behavior

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skillsprint/skillsprint-backend/internal/domain/quiz"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"
)

func viewEvent(resourceType string, at time.Time) *Event {
	return &Event{
		Action:     ActionViewResource,
		Metadata:   map[string]string{MetadataResourceType: resourceType},
		OccurredAt: at,
	}
}

func TestAnalyzer_ColdStartReturnsDefaultProfile(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())

	got := a.Analyze(nil, nil, nil, nil)

	assert.Equal(t, DefaultProfile(), got)
	assert.Equal(t, StyleBalanced, got.LearningStyle)
	assert.Equal(t, shared.DifficultyBeginner, got.PreferredDifficulty)
	assert.Equal(t, FrequencyMedium, got.Engagement.SessionFrequency)
	assert.Equal(t, []int{19, 20, 21}, got.Engagement.PeakHours)
	assert.Equal(t, PaceMedium, got.LearningPace)
	assert.Equal(t, 30, got.AverageSessionTime)
	assert.Zero(t, got.CompletionRate)
}

func TestAnalyzer_AverageSessionTimeFromDailySpans(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())
	day1 := time.Date(2026, 8, 19, 19, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 20, 20, 0, 0, 0, time.UTC)

	// Day one spans 40 minutes, day two spans 20: mean is 30.
	events := []*Event{
		viewEvent("video", day1),
		viewEvent("article", day1.Add(40*time.Minute)),
		viewEvent("video", day2),
		viewEvent("video", day2.Add(20*time.Minute)),
	}

	got := a.Analyze(events, nil, nil, nil)
	assert.Equal(t, 30, got.AverageSessionTime)
}

func TestAnalyzer_SingleEventDaysFallBackToDefaultSessionTime(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())
	base := time.Date(2026, 8, 10, 19, 0, 0, 0, time.UTC)

	events := []*Event{
		viewEvent("video", base),
		viewEvent("video", base.AddDate(0, 0, 1)),
	}

	got := a.Analyze(events, nil, nil, nil)
	assert.Equal(t, defaultSessionMinutes, got.AverageSessionTime)
}

func TestAnalyzer_FrequentProgressingLearnerIsFastPace(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())
	base := time.Date(2026, 8, 10, 19, 0, 0, 0, time.UTC)

	events := make([]*Event, 0, 10)
	for day := 0; day < 10; day++ {
		events = append(events, viewEvent("video", base.AddDate(0, 0, day)))
	}
	progress := []*skill.Progress{
		{SkillID: 1, ProgressPercentage: 80},
		{SkillID: 2, ProgressPercentage: 60},
	}

	got := a.Analyze(events, nil, progress, nil)
	assert.Equal(t, PaceFast, got.LearningPace)
}

func TestAnalyzer_SparseActivityIsSlowPace(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())
	base := time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC)

	events := []*Event{
		viewEvent("video", base),
		viewEvent("video", base.AddDate(0, 0, 30)),
		viewEvent("video", base.AddDate(0, 0, 60)),
	}
	progress := []*skill.Progress{
		{SkillID: 1, ProgressPercentage: 90},
	}

	got := a.Analyze(events, nil, progress, nil)
	assert.Equal(t, PaceSlow, got.LearningPace)
}

func TestAnalyzer_VideoHeavyHistoryIsVisual(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())
	now := time.Date(2026, 8, 20, 20, 0, 0, 0, time.UTC)

	events := []*Event{
		viewEvent("video", now),
		viewEvent("video", now),
		viewEvent("video", now),
		viewEvent("article", now),
	}

	got := a.Analyze(events, nil, nil, nil)
	assert.Equal(t, StyleVisual, got.LearningStyle)
}

func TestAnalyzer_CodeHeavyHistoryIsHandsOn(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())
	now := time.Date(2026, 8, 20, 20, 0, 0, 0, time.UTC)

	// github needs only a 40% share, unlike video and article.
	events := []*Event{
		viewEvent("github", now),
		viewEvent("github", now),
		viewEvent("video", now),
		viewEvent("article", now),
	}

	got := a.Analyze(events, nil, nil, nil)
	assert.Equal(t, StyleHandsOn, got.LearningStyle)
}

func TestAnalyzer_MixedHistoryIsBalanced(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())
	now := time.Date(2026, 8, 20, 20, 0, 0, 0, time.UTC)

	events := []*Event{
		viewEvent("video", now),
		viewEvent("article", now),
		viewEvent("documentation", now),
	}

	got := a.Analyze(events, nil, nil, nil)
	assert.Equal(t, StyleBalanced, got.LearningStyle)
}

func TestAnalyzer_DailyActivityIsHighFrequency(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())
	base := time.Date(2026, 8, 10, 19, 0, 0, 0, time.UTC)

	events := make([]*Event, 0, 10)
	for day := 0; day < 10; day++ {
		events = append(events, viewEvent("video", base.AddDate(0, 0, day)))
	}

	got := a.Analyze(events, nil, nil, nil)
	assert.Equal(t, FrequencyHigh, got.Engagement.SessionFrequency)
	assert.Equal(t, 10, got.Engagement.TotalSessions)
}

func TestAnalyzer_SparseActivityIsLowFrequency(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())
	base := time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC)

	// Three active days across a 60 day span.
	events := []*Event{
		viewEvent("video", base),
		viewEvent("video", base.AddDate(0, 0, 30)),
		viewEvent("video", base.AddDate(0, 0, 60)),
	}

	got := a.Analyze(events, nil, nil, nil)
	assert.Equal(t, FrequencyLow, got.Engagement.SessionFrequency)
}

func TestAnalyzer_PeakHoursSortedAndCapped(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	events := []*Event{
		viewEvent("video", day.Add(21*time.Hour)),
		viewEvent("video", day.Add(21*time.Hour)),
		viewEvent("video", day.Add(21*time.Hour)),
		viewEvent("video", day.Add(9*time.Hour)),
		viewEvent("video", day.Add(9*time.Hour)),
		viewEvent("video", day.Add(14*time.Hour)),
		viewEvent("video", day.Add(14*time.Hour)),
		viewEvent("video", day.Add(7*time.Hour)),
	}

	got := a.Analyze(events, nil, nil, nil)
	assert.Equal(t, []int{9, 14, 21}, got.Engagement.PeakHours)
}

func TestAnalyzer_CompletionRateIsMeanOfProgress(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())

	progress := []*skill.Progress{
		{SkillID: 1, ProgressPercentage: 100},
		{SkillID: 2, ProgressPercentage: 50},
		{SkillID: 3, ProgressPercentage: 0},
	}

	got := a.Analyze(nil, nil, progress, nil)
	assert.InDelta(t, 0.5, got.CompletionRate, 0.001)
}

func TestAnalyzer_StrugglingAndStrengthTopics(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())

	attempts := []*quiz.Attempt{
		{SkillID: 1, Score: 4, TotalQuestions: 10},
		{SkillID: 2, Score: 9, TotalQuestions: 10},
		{SkillID: 3, Score: 6, TotalQuestions: 10},
	}
	names := map[shared.SkillID]string{1: "Python", 2: "SQL", 3: "Docker"}

	got := a.Analyze(nil, attempts, nil, names)

	assert.Equal(t, []string{"Python"}, got.StrugglingTopics)
	assert.Equal(t, []string{"SQL"}, got.Strengths)
}

func TestAnalyzer_PreferredDifficultyFromComfortZone(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())

	// Intermediate questions land in the 60-80% comfort zone,
	// advanced ones do not.
	attempts := []*quiz.Attempt{
		{
			SkillID:        1,
			Score:          7,
			TotalQuestions: 10,
			Questions:      []quiz.Question{{Difficulty: shared.DifficultyIntermediate}},
		},
		{
			SkillID:        1,
			Score:          3,
			TotalQuestions: 10,
			Questions:      []quiz.Question{{Difficulty: shared.DifficultyAdvanced}},
		},
	}

	got := a.Analyze(nil, attempts, nil, nil)
	assert.Equal(t, shared.DifficultyIntermediate, got.PreferredDifficulty)
}

func TestAnalyzer_OnlyRecentEventsConsidered(t *testing.T) {
	cfg := DefaultAnalyzerConfig()
	cfg.RecentEvents = 3
	a := NewAnalyzer(cfg)
	now := time.Date(2026, 8, 20, 20, 0, 0, 0, time.UTC)

	// Newest-first: three videos, then a long article tail that
	// must fall outside the window.
	events := []*Event{
		viewEvent("video", now),
		viewEvent("video", now),
		viewEvent("video", now),
		viewEvent("article", now),
		viewEvent("article", now),
		viewEvent("article", now),
		viewEvent("article", now),
	}

	got := a.Analyze(events, nil, nil, nil)
	assert.Equal(t, StyleVisual, got.LearningStyle)
}
