package behavior

import (
	"sort"
	"time"

	"github.com/skillsprint/skillsprint-backend/internal/domain/quiz"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEARNING STYLES / SESSION FREQUENCY
// ══════════════════════════════════════════════════════════════════════════════

// LearningStyle определяет предпочитаемый стиль обучения.
type LearningStyle string

const (
	StyleVisual   LearningStyle = "visual"
	StyleReading  LearningStyle = "reading"
	StyleHandsOn  LearningStyle = "hands-on"
	StyleBalanced LearningStyle = "balanced"
)

// SessionFrequency определяет классификацию частоты занятий.
type SessionFrequency string

const (
	FrequencyHigh   SessionFrequency = "high"
	FrequencyMedium SessionFrequency = "medium"
	FrequencyLow    SessionFrequency = "low"
)

// LearningPace определяет скорость прохождения материала.
type LearningPace string

const (
	PaceSlow   LearningPace = "slow"
	PaceMedium LearningPace = "medium"
	PaceFast   LearningPace = "fast"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE
// ══════════════════════════════════════════════════════════════════════════════

// EngagementPatterns описывает, когда и как часто занимается ученик.
type EngagementPatterns struct {
	// PeakHours - часы суток с наибольшей активностью (UTC), отсортированы.
	PeakHours []int `json:"peak_hours"`

	// SessionFrequency - high / medium / low по доле активных дней.
	SessionFrequency SessionFrequency `json:"session_frequency"`

	// TotalSessions - число различных активных дней.
	TotalSessions int `json:"total_sessions"`

	// DaysActive - длина наблюдаемого интервала в днях.
	DaysActive int `json:"days_active"`
}

// Profile - агрегированный портрет учебного поведения.
type Profile struct {
	LearningStyle       LearningStyle      `json:"learning_style"`
	PreferredDifficulty shared.Difficulty  `json:"preferred_difficulty"`
	Engagement          EngagementPatterns `json:"engagement_patterns"`

	// LearningPace - slow / medium / fast по частоте занятий и прогрессу.
	LearningPace LearningPace `json:"learning_pace"`

	// AverageSessionTime - средняя длительность занятия в минутах.
	AverageSessionTime int `json:"average_session_time"`

	// CompletionRate - средний прогресс по навыкам, доля [0, 1].
	CompletionRate float64 `json:"completion_rate"`

	// StrugglingTopics - навыки с результатом квизов ниже порога.
	StrugglingTopics []string `json:"struggling_topics"`

	// Strengths - навыки с результатом квизов выше порога.
	Strengths []string `json:"strengths"`

	// RecommendedAdjustments - текстовые рекомендации по профилю.
	RecommendedAdjustments []string `json:"recommended_adjustments"`
}

// DefaultProfile возвращает профиль для нового ученика без истории.
// Холодный старт - штатный случай, а не ошибка: каждый ученик
// всегда получает пригодный профиль.
func DefaultProfile() Profile {
	return Profile{
		LearningStyle:       StyleBalanced,
		PreferredDifficulty: shared.DifficultyBeginner,
		Engagement: EngagementPatterns{
			PeakHours:        []int{19, 20, 21},
			SessionFrequency: FrequencyMedium,
		},
		LearningPace:       PaceMedium,
		AverageSessionTime: defaultSessionMinutes,
		CompletionRate:     0.0,
		StrugglingTopics:   []string{},
		Strengths:          []string{},
		RecommendedAdjustments: []string{
			"Start with beginner-level content",
			"Maintain regular learning schedule",
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ANALYZER
// ══════════════════════════════════════════════════════════════════════════════

// AnalyzerConfig задаёт параметры анализа поведения.
type AnalyzerConfig struct {
	// RecentEvents - сколько последних событий учитывать.
	RecentEvents int

	// VideoStyleRatio - доля видео, после которой стиль считается visual.
	VideoStyleRatio float64

	// ArticleStyleRatio - доля статей для стиля reading.
	ArticleStyleRatio float64

	// CodeStyleRatio - доля github-ресурсов для стиля hands-on.
	CodeStyleRatio float64

	// ComfortLow, ComfortHigh - диапазон среднего результата квизов,
	// в котором уровень сложности считается комфортным.
	ComfortLow  float64
	ComfortHigh float64

	// TopicCutoff - порог результата квиза для слабых/сильных тем.
	TopicCutoff float64

	// HighFrequency, MediumFrequency - пороги доли активных дней.
	HighFrequency   float64
	MediumFrequency float64

	// PeakHourCount - сколько часов пиковой активности возвращать.
	PeakHourCount int
}

// DefaultAnalyzerConfig возвращает параметры по умолчанию.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		RecentEvents:      100,
		VideoStyleRatio:   0.5,
		ArticleStyleRatio: 0.5,
		CodeStyleRatio:    0.4,
		ComfortLow:        0.6,
		ComfortHigh:       0.8,
		TopicCutoff:       0.6,
		HighFrequency:     0.5,
		MediumFrequency:   0.2,
		PeakHourCount:     3,
	}
}

// Analyzer строит профиль поведения из журнала событий,
// попыток квизов и прогресса по навыкам.
type Analyzer struct {
	cfg AnalyzerConfig
}

// NewAnalyzer создаёт анализатор с заданной конфигурацией.
func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	if cfg.RecentEvents <= 0 {
		cfg = DefaultAnalyzerConfig()
	}
	return &Analyzer{cfg: cfg}
}

// Analyze агрегирует историю ученика в профиль поведения.
// events ожидаются новыми первыми; skillNames отображает ID навыка в название.
// При полностью пустой истории возвращается DefaultProfile.
func (a *Analyzer) Analyze(
	events []*Event,
	attempts []*quiz.Attempt,
	progress []*skill.Progress,
	skillNames map[shared.SkillID]string,
) Profile {
	if len(events) == 0 && len(attempts) == 0 && len(progress) == 0 {
		return DefaultProfile()
	}

	if len(events) > a.cfg.RecentEvents {
		events = events[:a.cfg.RecentEvents]
	}

	p := Profile{
		LearningStyle:       a.learningStyle(events),
		PreferredDifficulty: a.difficultyPreference(attempts),
		Engagement:          a.engagementPatterns(events),
		AverageSessionTime:  averageSessionMinutes(events),
		CompletionRate:      completionRate(progress),
		StrugglingTopics:    a.topicsBelow(attempts, skillNames),
		Strengths:           a.topicsAbove(attempts, skillNames),
	}
	p.LearningPace = learningPace(p.Engagement.SessionFrequency, p.CompletionRate)
	p.RecommendedAdjustments = a.recommendations(p)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Стиль обучения
// ──────────────────────────────────────────────────────────────────────────────

func (a *Analyzer) learningStyle(events []*Event) LearningStyle {
	if len(events) == 0 {
		return StyleBalanced
	}

	counts := make(map[string]int)
	total := 0
	for _, e := range events {
		if e.Action != ActionViewResource {
			continue
		}
		rt := e.ResourceType()
		if rt == "" {
			continue
		}
		counts[rt]++
		total++
	}
	if total == 0 {
		return StyleBalanced
	}

	videoRatio := float64(counts["video"]) / float64(total)
	articleRatio := float64(counts["article"]) / float64(total)
	codeRatio := float64(counts["github"]) / float64(total)

	switch {
	case videoRatio > a.cfg.VideoStyleRatio:
		return StyleVisual
	case articleRatio > a.cfg.ArticleStyleRatio:
		return StyleReading
	case codeRatio > a.cfg.CodeStyleRatio:
		return StyleHandsOn
	default:
		return StyleBalanced
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Предпочитаемая сложность
// ──────────────────────────────────────────────────────────────────────────────

// difficultyPreference ищет уровень сложности, на котором средний результат
// попадает в комфортный диапазон. Порядок проверки фиксирован от простого
// к сложному, чтобы результат был детерминированным.
func (a *Analyzer) difficultyPreference(attempts []*quiz.Attempt) shared.Difficulty {
	if len(attempts) == 0 {
		return shared.DifficultyBeginner
	}

	scores := make(map[shared.Difficulty][]float64)
	for _, att := range attempts {
		ratio := att.Ratio()
		for _, q := range att.Questions {
			d := q.Difficulty
			if !d.IsValid() {
				d = shared.DifficultyIntermediate
			}
			scores[d] = append(scores[d], ratio)
		}
	}

	order := []shared.Difficulty{
		shared.DifficultyBeginner,
		shared.DifficultyIntermediate,
		shared.DifficultyAdvanced,
	}
	for _, d := range order {
		vals := scores[d]
		if len(vals) == 0 {
			continue
		}
		avg := mean(vals)
		if avg >= a.cfg.ComfortLow && avg <= a.cfg.ComfortHigh {
			return d
		}
	}
	return shared.DifficultyBeginner
}

// ──────────────────────────────────────────────────────────────────────────────
// Паттерны вовлечённости
// ──────────────────────────────────────────────────────────────────────────────

func (a *Analyzer) engagementPatterns(events []*Event) EngagementPatterns {
	if len(events) == 0 {
		return EngagementPatterns{
			PeakHours:        []int{},
			SessionFrequency: FrequencyLow,
		}
	}

	hourCounts := make(map[int]int)
	days := make(map[string]struct{})
	var minDay, maxDay string
	for _, e := range events {
		ts := e.OccurredAt.UTC()
		hourCounts[ts.Hour()]++
		day := ts.Format("2006-01-02")
		days[day] = struct{}{}
		if minDay == "" || day < minDay {
			minDay = day
		}
		if day > maxDay {
			maxDay = day
		}
	}

	uniqueDays := len(days)
	span := 1
	if uniqueDays > 1 {
		first, _ := parseDay(minDay)
		last, _ := parseDay(maxDay)
		span = int(last.Sub(first).Hours() / 24)
		if span < 1 {
			span = 1
		}
	}

	ratio := float64(uniqueDays) / float64(span)
	freq := FrequencyLow
	switch {
	case ratio > a.cfg.HighFrequency:
		freq = FrequencyHigh
	case ratio > a.cfg.MediumFrequency:
		freq = FrequencyMedium
	}

	return EngagementPatterns{
		PeakHours:        peakHours(hourCounts, a.cfg.PeakHourCount),
		SessionFrequency: freq,
		TotalSessions:    uniqueDays,
		DaysActive:       span,
	}
}

// peakHours возвращает часы с наибольшей активностью,
// отсортированные по возрастанию часа.
func peakHours(counts map[int]int, n int) []int {
	type hourCount struct {
		hour  int
		count int
	}
	hcs := make([]hourCount, 0, len(counts))
	for h, c := range counts {
		hcs = append(hcs, hourCount{hour: h, count: c})
	}
	sort.Slice(hcs, func(i, j int) bool {
		if hcs[i].count != hcs[j].count {
			return hcs[i].count > hcs[j].count
		}
		return hcs[i].hour < hcs[j].hour
	})
	if len(hcs) > n {
		hcs = hcs[:n]
	}
	hours := make([]int, 0, len(hcs))
	for _, hc := range hcs {
		hours = append(hours, hc.hour)
	}
	sort.Ints(hours)
	return hours
}

// ──────────────────────────────────────────────────────────────────────────────
// Темп и длительность занятий
// ──────────────────────────────────────────────────────────────────────────────

// defaultSessionMinutes используется, когда по событиям нельзя
// измерить длительность занятий (одиночные события в каждом дне).
const defaultSessionMinutes = 30

// learningPace выводит темп из частоты занятий и доли завершённого:
// частые занятия с ощутимым прогрессом - fast, редкие занятия
// или почти нулевой прогресс - slow, иначе medium.
func learningPace(freq SessionFrequency, completionRate float64) LearningPace {
	switch {
	case freq == FrequencyHigh && completionRate >= 0.5:
		return PaceFast
	case freq == FrequencyLow || completionRate < 0.2:
		return PaceSlow
	default:
		return PaceMedium
	}
}

// averageSessionMinutes считает среднюю длительность занятия:
// занятие - все события одного календарного дня (UTC), длительность -
// интервал между первым и последним событием дня. Дни с единственным
// событием не дают измерения и не учитываются.
func averageSessionMinutes(events []*Event) int {
	type daySpan struct {
		first time.Time
		last  time.Time
	}
	days := make(map[string]*daySpan)
	for _, e := range events {
		ts := e.OccurredAt.UTC()
		day := ts.Format("2006-01-02")
		span, ok := days[day]
		if !ok {
			days[day] = &daySpan{first: ts, last: ts}
			continue
		}
		if ts.Before(span.first) {
			span.first = ts
		}
		if ts.After(span.last) {
			span.last = ts
		}
	}

	var totalMinutes float64
	measured := 0
	for _, span := range days {
		minutes := span.last.Sub(span.first).Minutes()
		if minutes <= 0 {
			continue
		}
		totalMinutes += minutes
		measured++
	}
	if measured == 0 {
		return defaultSessionMinutes
	}
	avg := int(totalMinutes / float64(measured))
	if avg < 1 {
		avg = 1
	}
	return avg
}

// ──────────────────────────────────────────────────────────────────────────────
// Прогресс и темы
// ──────────────────────────────────────────────────────────────────────────────

func completionRate(progress []*skill.Progress) float64 {
	if len(progress) == 0 {
		return 0.0
	}
	var total float64
	for _, p := range progress {
		total += p.ProgressPercentage.Ratio()
	}
	return total / float64(len(progress))
}

func (a *Analyzer) topicsBelow(attempts []*quiz.Attempt, names map[shared.SkillID]string) []string {
	return a.topics(attempts, names, func(ratio float64) bool {
		return ratio < a.cfg.TopicCutoff
	})
}

func (a *Analyzer) topicsAbove(attempts []*quiz.Attempt, names map[shared.SkillID]string) []string {
	return a.topics(attempts, names, func(ratio float64) bool {
		return ratio > a.cfg.TopicCutoff
	})
}

func (a *Analyzer) topics(
	attempts []*quiz.Attempt,
	names map[shared.SkillID]string,
	match func(float64) bool,
) []string {
	seen := make(map[string]struct{})
	topics := []string{}
	for _, att := range attempts {
		if !match(att.Ratio()) {
			continue
		}
		name, ok := names[att.SkillID]
		if !ok || name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		topics = append(topics, name)
	}
	sort.Strings(topics)
	return topics
}

// ──────────────────────────────────────────────────────────────────────────────
// Рекомендации
// ──────────────────────────────────────────────────────────────────────────────

func (a *Analyzer) recommendations(p Profile) []string {
	recs := []string{}

	if p.CompletionRate < 0.3 {
		recs = append(recs, "Focus on completing started skills before adding new ones")
	}
	if p.Engagement.SessionFrequency == FrequencyLow {
		recs = append(recs, "Maintain regular learning schedule")
	}
	if len(p.StrugglingTopics) > 0 {
		recs = append(recs, "Revisit fundamentals in struggling topics")
	}
	if len(recs) == 0 {
		recs = append(recs, "Keep up the current learning pace")
	}
	return recs
}

func parseDay(day string) (time.Time, error) {
	return time.Parse("2006-01-02", day)
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0.0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
