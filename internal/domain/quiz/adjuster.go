package quiz

import (
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADAPTIVE DIFFICULTY ADJUSTER
// Классифицирует текущий уровень сложности ученика по тренду последних
// результатов квизов и доле завершённых поднавыков, и выдаёт список
// рекомендованных корректировок.
//
// Без истории квизов подстройка невозможна: возвращается beginner с пустым
// списком корректировок. Это штатное терминальное состояние, не ошибка.
// ══════════════════════════════════════════════════════════════════════════════

// Наборы корректировок. Ветви взаимоисключающие: срабатывает первая подошедшая.
var (
	// reduceAdjustments - ученик стабильно не справляется.
	reduceAdjustments = []string{
		"Reduce quiz difficulty",
		"Add more foundational resources",
		"Increase practice exercises",
		"Suggest review of previous topics",
	}

	// challengeAdjustments - ученик стабильно справляется с запасом.
	challengeAdjustments = []string{
		"Increase challenge level",
		"Add advanced topics",
		"Suggest projects or real-world applications",
		"Introduce time-based challenges",
	}

	// engagementAdjustments - результаты в норме, но прогресс буксует.
	engagementAdjustments = []string{
		"Break down complex topics into smaller steps",
		"Add more interactive elements",
		"Provide additional motivation and encouragement",
	}
)

// SubskillState описывает состояние одного отслеживаемого поднавыка.
type SubskillState struct {
	// Name - имя поднавыка.
	Name string

	// Completed - завершён ли поднавык.
	Completed bool
}

// AdjusterConfig содержит пороги классификации.
type AdjusterConfig struct {
	// RecentAttempts - сколько последних попыток учитывать.
	RecentAttempts int

	// LowScore - порог "не справляется".
	LowScore float64

	// HighScore - порог "справляется с запасом".
	HighScore float64

	// LowCompletion - порог буксующего прогресса.
	LowCompletion float64
}

// DefaultAdjusterConfig возвращает пороги по умолчанию.
func DefaultAdjusterConfig() AdjusterConfig {
	return AdjusterConfig{
		RecentAttempts: 5,
		LowScore:       0.6,
		HighScore:      0.8,
		LowCompletion:  0.5,
	}
}

// Result описывает результат подстройки сложности.
type Result struct {
	// DifficultyLevel - классифицированный уровень.
	DifficultyLevel shared.Difficulty `json:"difficulty_level"`

	// AverageScore - средний результат последних попыток (0-1).
	AverageScore float64 `json:"average_score"`

	// ScoreTrend - направление тренда: среднее поздней половины минус
	// среднее ранней (0 при менее чем двух точках).
	ScoreTrend float64 `json:"score_trend"`

	// CompletionRate - доля завершённых поднавыков (0-1).
	CompletionRate float64 `json:"completion_rate"`

	// Adjustments - рекомендованные корректировки.
	Adjustments []string `json:"adjustments"`
}

// Adjuster выполняет динамическую подстройку сложности.
type Adjuster struct {
	cfg AdjusterConfig
}

// NewAdjuster создаёт Adjuster.
func NewAdjuster(cfg AdjusterConfig) *Adjuster {
	return &Adjuster{cfg: cfg}
}

// Adjust классифицирует уровень сложности и выдаёт корректировки.
// attempts - попытки ученика по навыку, новые первыми (как отдаёт хранилище);
// subskills - отслеживаемые поднавыки навыка.
func (a *Adjuster) Adjust(attempts []*Attempt, subskills []SubskillState) Result {
	if len(attempts) == 0 {
		return Result{
			DifficultyLevel: shared.DifficultyBeginner,
			Adjustments:     []string{},
		}
	}

	recent := attempts
	if len(recent) > a.cfg.RecentAttempts {
		recent = recent[:a.cfg.RecentAttempts]
	}

	// Хронологический порядок для расчёта тренда.
	ratios := make([]float64, len(recent))
	for i, attempt := range recent {
		ratios[len(recent)-1-i] = attempt.Ratio()
	}

	avg := mean(ratios)
	trend := scoreTrend(ratios)

	completionRate := 0.0
	if len(subskills) > 0 {
		completed := 0
		for _, sub := range subskills {
			if sub.Completed {
				completed++
			}
		}
		completionRate = float64(completed) / float64(len(subskills))
	}

	adjustments := []string{}
	switch {
	case avg < a.cfg.LowScore && trend < 0:
		adjustments = append(adjustments, reduceAdjustments...)
	case avg > a.cfg.HighScore && trend > 0:
		adjustments = append(adjustments, challengeAdjustments...)
	case completionRate < a.cfg.LowCompletion:
		adjustments = append(adjustments, engagementAdjustments...)
	}

	return Result{
		DifficultyLevel: a.classify(avg, trend),
		AverageScore:    avg,
		ScoreTrend:      trend,
		CompletionRate:  completionRate,
		Adjustments:     adjustments,
	}
}

// classify определяет уровень сложности по среднему результату и тренду.
func (a *Adjuster) classify(avg, trend float64) shared.Difficulty {
	switch {
	case avg > a.cfg.HighScore && trend >= 0:
		return shared.DifficultyAdvanced
	case avg >= a.cfg.LowScore:
		return shared.DifficultyIntermediate
	default:
		return shared.DifficultyBeginner
	}
}

// scoreTrend возвращает среднее поздней половины минус среднее ранней.
// При менее чем двух точках тренд не определён и равен 0.
func scoreTrend(chronological []float64) float64 {
	if len(chronological) < 2 {
		return 0
	}
	mid := len(chronological) / 2
	return mean(chronological[mid:]) - mean(chronological[:mid])
}

// mean возвращает среднее арифметическое (0 для пустого среза).
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
