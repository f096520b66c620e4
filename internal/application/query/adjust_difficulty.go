package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skillsprint/skillsprint-backend/internal/domain/quiz"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"
	"github.com/skillsprint/skillsprint-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADJUST DIFFICULTY QUERY
// Подбирает уровень сложности квизов по истории попыток и прогрессу
// по поднавыкам. Без истории - beginner без корректировок.
// ══════════════════════════════════════════════════════════════════════════════

// AdjustDifficultyQuery содержит параметры запроса подстройки сложности.
type AdjustDifficultyQuery struct {
	// LearnerID - чья история анализируется.
	LearnerID shared.LearnerID

	// SkillID - навык, для которого подбирается сложность.
	SkillID shared.SkillID
}

// Validate проверяет корректность параметров запроса.
func (q *AdjustDifficultyQuery) Validate() error {
	if q.LearnerID.IsEmpty() {
		return errors.New("learner_id is required")
	}
	if !q.SkillID.IsValid() {
		return errors.New("skill_id must be positive")
	}
	return nil
}

// AdjustDifficultyResult содержит подобранный уровень сложности.
type AdjustDifficultyResult struct {
	// LearnerID - чья история анализировалась.
	LearnerID shared.LearnerID `json:"learner_id"`

	// SkillID - навык из запроса.
	SkillID shared.SkillID `json:"skill_id"`

	// Adjustment - уровень, метрики и корректировки.
	Adjustment quiz.Result `json:"adjustment"`

	// AttemptsAnalyzed - сколько попыток участвовало в анализе.
	AttemptsAnalyzed int `json:"attempts_analyzed"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// AdjustDifficultyHandler обрабатывает запросы подстройки сложности.
type AdjustDifficultyHandler struct {
	quizRepo     quiz.Repository
	skillRepo    skill.Repository
	progressRepo skill.ProgressRepository
	adjuster     *quiz.Adjuster
	logger       *logger.Logger

	attemptLimit int
}

// NewAdjustDifficultyHandler создаёт новый обработчик подстройки сложности.
func NewAdjustDifficultyHandler(
	quizRepo quiz.Repository,
	skillRepo skill.Repository,
	progressRepo skill.ProgressRepository,
	adjuster *quiz.Adjuster,
	log *logger.Logger,
) *AdjustDifficultyHandler {
	if adjuster == nil {
		adjuster = quiz.NewAdjuster(quiz.DefaultAdjusterConfig())
	}
	if log == nil {
		log = logger.Default()
	}
	return &AdjustDifficultyHandler{
		quizRepo:     quizRepo,
		skillRepo:    skillRepo,
		progressRepo: progressRepo,
		adjuster:     adjuster,
		logger:       log.With(logger.Component("adjust_difficulty")),
		attemptLimit: quiz.DefaultAdjusterConfig().RecentAttempts,
	}
}

// Handle выполняет запрос подстройки сложности.
// Отсутствие прогресса по навыку не ошибка: поднавыки тогда не учитываются.
func (h *AdjustDifficultyHandler) Handle(ctx context.Context, q AdjustDifficultyQuery) (*AdjustDifficultyResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("adjust_difficulty: validation failed: %w", err)
	}

	attempts, err := h.quizRepo.ListRecentBySkill(ctx, q.LearnerID, q.SkillID, h.attemptLimit)
	if err != nil {
		return nil, fmt.Errorf("adjust_difficulty: failed to list attempts: %w", err)
	}

	subskills, err := h.subskillStates(ctx, q.LearnerID, q.SkillID)
	if err != nil {
		return nil, fmt.Errorf("adjust_difficulty: failed to build subskill states: %w", err)
	}

	adjustment := h.adjuster.Adjust(attempts, subskills)

	h.logger.Debug("difficulty adjusted",
		logger.LearnerID(q.LearnerID.String()),
		logger.SkillID(q.SkillID.Int64()),
		logger.String("difficulty", adjustment.DifficultyLevel.String()),
	)

	return &AdjustDifficultyResult{
		LearnerID:        q.LearnerID,
		SkillID:          q.SkillID,
		Adjustment:       adjustment,
		AttemptsAnalyzed: len(attempts),
		GeneratedAt:      time.Now().UTC(),
	}, nil
}

// subskillStates сопоставляет поднавыки навыка с отметками завершения.
func (h *AdjustDifficultyHandler) subskillStates(
	ctx context.Context,
	learnerID shared.LearnerID,
	skillID shared.SkillID,
) ([]quiz.SubskillState, error) {
	s, err := h.skillRepo.GetByID(ctx, skillID)
	if err != nil {
		if errors.Is(err, shared.ErrSkillNotFound) {
			return nil, nil
		}
		return nil, err
	}

	progress, err := h.progressRepo.Get(ctx, learnerID, skillID)
	if err != nil && !errors.Is(err, shared.ErrProgressNotFound) {
		return nil, err
	}

	states := make([]quiz.SubskillState, 0, len(s.Subskills))
	for _, name := range s.Subskills {
		completed := progress != nil && progress.HasCompletedSubskill(name)
		states = append(states, quiz.SubskillState{
			Name:      name,
			Completed: completed,
		})
	}
	return states, nil
}
