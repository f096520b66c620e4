package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skillsprint/skillsprint-backend/internal/domain/behavior"
	"github.com/skillsprint/skillsprint-backend/internal/domain/resource"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"
	"github.com/skillsprint/skillsprint-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEARNING PATH QUERY
// Строит персональный план освоения навыка: поднавыки с подстроенной
// сложностью и ресурсами, контрольные точки, оценка срока завершения.
// План выводится из профиля поведения; пустая история даёт план
// по профилю по умолчанию.
// ══════════════════════════════════════════════════════════════════════════════

// GetLearningPathQuery содержит параметры запроса учебного плана.
type GetLearningPathQuery struct {
	// LearnerID - для кого строится план.
	LearnerID shared.LearnerID

	// SkillID - навык, по которому строится план.
	SkillID shared.SkillID

	// ResourcesPerSubskill - сколько ресурсов включать в каждый
	// поднавык (по умолчанию 3, максимум 8).
	ResourcesPerSubskill int
}

// Validate проверяет корректность параметров запроса.
func (q *GetLearningPathQuery) Validate() error {
	if q.LearnerID.IsEmpty() {
		return errors.New("learner_id is required")
	}
	if !q.SkillID.IsValid() {
		return errors.New("skill_id must be positive")
	}
	if q.ResourcesPerSubskill < 0 {
		return errors.New("resources_per_subskill cannot be negative")
	}
	if q.ResourcesPerSubskill == 0 {
		q.ResourcesPerSubskill = 3
	}
	if q.ResourcesPerSubskill > 8 {
		q.ResourcesPerSubskill = 8
	}
	return nil
}

// PathSubskill - шаг учебного плана.
type PathSubskill struct {
	// Name - имя поднавыка.
	Name string `json:"name"`

	// Order - порядковый номер шага, с единицы.
	Order int `json:"order"`

	// Completed - поднавык уже завершён.
	Completed bool `json:"completed"`

	// Difficulty - сложность шага с учётом профиля и позиции в плане.
	Difficulty shared.Difficulty `json:"difficulty"`

	// EstimatedHours - оценка времени на шаг с учётом темпа.
	EstimatedHours int `json:"estimated_hours"`

	// Resources - подобранные ресурсы шага.
	Resources []resource.Resource `json:"resources"`

	// QuizEnabled - по шагу доступен квиз (выключается после завершения).
	QuizEnabled bool `json:"quiz_enabled"`
}

// PathMilestone - контрольная точка плана по доле завершённых поднавыков.
type PathMilestone struct {
	// Name - человекочитаемое название контрольной точки.
	Name string `json:"name"`

	// Percent - порог прогресса, к которому точка привязана.
	Percent int `json:"percent"`

	// Subskill - поднавык, завершение которого пересекает порог.
	Subskill string `json:"subskill"`

	// Reached - порог уже достигнут.
	Reached bool `json:"reached"`
}

// GetLearningPathResult содержит персональный учебный план.
type GetLearningPathResult struct {
	// LearnerID - для кого построен план.
	LearnerID shared.LearnerID `json:"learner_id"`

	// SkillID - навык из запроса.
	SkillID shared.SkillID `json:"skill_id"`

	// SkillName - название навыка.
	SkillName string `json:"skill_name"`

	// LearnerLevel - предпочитаемая сложность из профиля.
	LearnerLevel shared.Difficulty `json:"learner_level"`

	// LearningPace - темп из профиля, определяет оценки времени.
	LearningPace behavior.LearningPace `json:"learning_pace"`

	// EstimatedCompletion - оценка срока, например "4 weeks (40 hours)".
	EstimatedCompletion string `json:"estimated_completion"`

	// Subskills - шаги плана в порядке прохождения.
	Subskills []PathSubskill `json:"subskills"`

	// Milestones - контрольные точки по прогрессу.
	Milestones []PathMilestone `json:"milestones"`

	// AdaptiveFeatures - включённые адаптации по профилю.
	AdaptiveFeatures []string `json:"adaptive_features"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetLearningPathHandler обрабатывает запросы учебного плана.
// Составной обработчик: профиль поведения и подбор ресурсов
// делегируются соответствующим запросам.
type GetLearningPathHandler struct {
	skillRepo    skill.Repository
	progressRepo skill.ProgressRepository
	profile      *GetBehaviorProfileHandler
	resources    *GetSubskillResourcesHandler
	logger       *logger.Logger
}

// NewGetLearningPathHandler создаёт новый обработчик учебного плана.
// resources может быть nil: тогда шаги плана идут без ресурсов.
func NewGetLearningPathHandler(
	skillRepo skill.Repository,
	progressRepo skill.ProgressRepository,
	profile *GetBehaviorProfileHandler,
	resources *GetSubskillResourcesHandler,
	log *logger.Logger,
) *GetLearningPathHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetLearningPathHandler{
		skillRepo:    skillRepo,
		progressRepo: progressRepo,
		profile:      profile,
		resources:    resources,
		logger:       log.With(logger.Component("get_learning_path")),
	}
}

// Handle выполняет запрос учебного плана.
// Отсутствие прогресса по навыку не ошибка: план строится с нуля.
func (h *GetLearningPathHandler) Handle(ctx context.Context, q GetLearningPathQuery) (*GetLearningPathResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_learning_path: validation failed: %w", err)
	}

	s, err := h.skillRepo.GetByID(ctx, q.SkillID)
	if err != nil {
		return nil, fmt.Errorf("get_learning_path: failed to load skill: %w", err)
	}

	progress, err := h.progressRepo.Get(ctx, q.LearnerID, q.SkillID)
	if err != nil && !errors.Is(err, shared.ErrProgressNotFound) {
		return nil, fmt.Errorf("get_learning_path: failed to load progress: %w", err)
	}

	profileRes, err := h.profile.Handle(ctx, GetBehaviorProfileQuery{LearnerID: q.LearnerID})
	if err != nil {
		return nil, fmt.Errorf("get_learning_path: failed to build profile: %w", err)
	}
	profile := profileRes.Profile

	subskills := h.buildSubskills(ctx, q, s, progress, profile)

	h.logger.Debug("learning path built",
		logger.LearnerID(q.LearnerID.String()),
		logger.SkillID(q.SkillID.Int64()),
		logger.Int("subskills", len(subskills)),
		logger.String("pace", string(profile.LearningPace)),
	)

	return &GetLearningPathResult{
		LearnerID:           q.LearnerID,
		SkillID:             q.SkillID,
		SkillName:           s.Name,
		LearnerLevel:        profile.PreferredDifficulty,
		LearningPace:        profile.LearningPace,
		EstimatedCompletion: estimateCompletion(len(s.Subskills), profile.LearningPace),
		Subskills:           subskills,
		Milestones:          buildMilestones(s.Subskills, progress),
		AdaptiveFeatures:    adaptiveFeatures(profile),
		GeneratedAt:         time.Now().UTC(),
	}, nil
}

// buildSubskills собирает шаги плана в порядке, заданном навыком.
func (h *GetLearningPathHandler) buildSubskills(
	ctx context.Context,
	q GetLearningPathQuery,
	s *skill.Skill,
	progress *skill.Progress,
	profile behavior.Profile,
) []PathSubskill {
	steps := make([]PathSubskill, 0, len(s.Subskills))
	for i, name := range s.Subskills {
		completed := progress != nil && progress.HasCompletedSubskill(name)
		steps = append(steps, PathSubskill{
			Name:           name,
			Order:          i + 1,
			Completed:      completed,
			Difficulty:     stepDifficulty(profile.PreferredDifficulty, i, len(s.Subskills)),
			EstimatedHours: stepHours(profile.LearningPace),
			Resources:      h.stepResources(ctx, q, name),
			QuizEnabled:    !completed,
		})
	}
	return steps
}

// stepResources подбирает ресурсы шага через запрос ресурсов поднавыка.
// Сбой подбора не ломает план: шаг остаётся без ресурсов.
func (h *GetLearningPathHandler) stepResources(ctx context.Context, q GetLearningPathQuery, subskill string) []resource.Resource {
	if h.resources == nil {
		return []resource.Resource{}
	}
	res, err := h.resources.Handle(ctx, GetSubskillResourcesQuery{
		SkillID:      q.SkillID,
		SubskillName: subskill,
		MaxCount:     q.ResourcesPerSubskill,
	})
	if err != nil {
		h.logger.Warn("step resources unavailable",
			logger.SkillID(q.SkillID.Int64()),
			logger.Subskill(subskill),
			logger.Err(err),
		)
		return []resource.Resource{}
	}
	return res.Resources
}

// ──────────────────────────────────────────────────────────────────────────────
// Оценки времени
// ──────────────────────────────────────────────────────────────────────────────

// baseHoursPerSubskill - базовая оценка одного поднавыка в часах.
// defaultSkillHours применяется к навыку без объявленных поднавыков.
const (
	baseHoursPerSubskill = 8
	defaultSkillHours    = 40
	hoursPerWeek         = 10
)

// paceMultiplier возвращает коэффициент времени для темпа.
func paceMultiplier(pace behavior.LearningPace) float64 {
	switch pace {
	case behavior.PaceSlow:
		return 1.5
	case behavior.PaceFast:
		return 0.7
	default:
		return 1.0
	}
}

// estimateCompletion оценивает срок освоения навыка целиком:
// база 8 часов на поднавык (40 на навык без поднавыков), коэффициент
// темпа, неделя равна 10 часам занятий, минимум одна неделя.
func estimateCompletion(subskillCount int, pace behavior.LearningPace) string {
	baseHours := subskillCount * baseHoursPerSubskill
	if subskillCount == 0 {
		baseHours = defaultSkillHours
	}
	totalHours := int(float64(baseHours) * paceMultiplier(pace))
	weeks := totalHours / hoursPerWeek
	if weeks < 1 {
		weeks = 1
	}
	return fmt.Sprintf("%d weeks (%d hours)", weeks, totalHours)
}

// stepHours оценивает время одного шага с учётом темпа.
func stepHours(pace behavior.LearningPace) int {
	hours := int(float64(baseHoursPerSubskill) * paceMultiplier(pace))
	if hours < 1 {
		hours = 1
	}
	return hours
}

// ──────────────────────────────────────────────────────────────────────────────
// Сложность шагов
// ──────────────────────────────────────────────────────────────────────────────

// stepDifficulty подстраивает сложность шага под его позицию в плане:
// первая треть на ступень проще предпочитаемого уровня, последняя
// треть на ступень сложнее, середина на предпочитаемом уровне.
func stepDifficulty(preferred shared.Difficulty, index, total int) shared.Difficulty {
	if !preferred.IsValid() {
		preferred = shared.DifficultyBeginner
	}
	if total < 3 {
		return preferred
	}
	switch {
	case index < total/3:
		return easier(preferred)
	case index >= total-total/3:
		return harder(preferred)
	default:
		return preferred
	}
}

func easier(d shared.Difficulty) shared.Difficulty {
	switch d {
	case shared.DifficultyAdvanced:
		return shared.DifficultyIntermediate
	default:
		return shared.DifficultyBeginner
	}
}

func harder(d shared.Difficulty) shared.Difficulty {
	switch d {
	case shared.DifficultyBeginner:
		return shared.DifficultyIntermediate
	default:
		return shared.DifficultyAdvanced
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Контрольные точки и адаптации
// ──────────────────────────────────────────────────────────────────────────────

// milestoneThresholds - пороги прогресса контрольных точек.
var milestoneThresholds = []int{25, 50, 75, 100}

// buildMilestones привязывает пороги прогресса к поднавыкам:
// точка порога N% указывает на поднавык, завершение которого
// доводит долю завершённого до N%.
func buildMilestones(subskills []string, progress *skill.Progress) []PathMilestone {
	if len(subskills) == 0 {
		return []PathMilestone{}
	}

	current := 0.0
	if progress != nil {
		current = progress.ProgressPercentage.Float64()
	}

	milestones := make([]PathMilestone, 0, len(milestoneThresholds))
	seen := make(map[int]struct{})
	for _, threshold := range milestoneThresholds {
		// Первый поднавык, доводящий накопленную долю до порога.
		idx := (threshold*len(subskills) + 99) / 100
		if idx > len(subskills) {
			idx = len(subskills)
		}
		if idx < 1 {
			idx = 1
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		milestones = append(milestones, PathMilestone{
			Name:     fmt.Sprintf("%d%% of the skill", threshold),
			Percent:  threshold,
			Subskill: subskills[idx-1],
			Reached:  current >= float64(threshold),
		})
	}
	return milestones
}

// adaptiveFeatures перечисляет адаптации, выведенные из профиля.
func adaptiveFeatures(p behavior.Profile) []string {
	features := []string{}

	switch p.LearningStyle {
	case behavior.StyleVisual:
		features = append(features, "Video resources ranked first")
	case behavior.StyleReading:
		features = append(features, "Articles and documentation ranked first")
	case behavior.StyleHandsOn:
		features = append(features, "Practice repositories ranked first")
	}

	switch p.LearningPace {
	case behavior.PaceFast:
		features = append(features, "Condensed schedule for a fast pace")
	case behavior.PaceSlow:
		features = append(features, "Extended schedule with extra review time")
	}

	if len(p.StrugglingTopics) > 0 {
		features = append(features, "Review checkpoints for struggling topics")
	}
	if p.Engagement.SessionFrequency == behavior.FrequencyLow {
		features = append(features, "Short sessions sized to irregular practice")
	}
	if len(features) == 0 {
		features = append(features, "Standard pacing")
	}
	return features
}
