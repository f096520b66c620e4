package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skillsprint/skillsprint-backend/internal/domain/learner"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"
	"github.com/skillsprint/skillsprint-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DASHBOARD QUERY
// Сводка для главного экрана: XP, уровень, серии, достижения,
// навыки в работе и последние начисления XP.
// ══════════════════════════════════════════════════════════════════════════════

// GetDashboardQuery содержит параметры запроса сводки.
type GetDashboardQuery struct {
	// LearnerID - чья сводка запрашивается.
	LearnerID shared.LearnerID

	// XPHistoryLimit - сколько последних начислений возвращать (по умолчанию 10).
	XPHistoryLimit int
}

// Validate проверяет корректность параметров запроса.
func (q *GetDashboardQuery) Validate() error {
	if q.LearnerID.IsEmpty() {
		return errors.New("learner_id is required")
	}
	if q.XPHistoryLimit < 0 {
		return errors.New("xp_history_limit cannot be negative")
	}
	if q.XPHistoryLimit == 0 {
		q.XPHistoryLimit = 10
	}
	if q.XPHistoryLimit > 50 {
		q.XPHistoryLimit = 50
	}
	return nil
}

// SkillProgressDTO - прогресс по одному навыку для сводки.
type SkillProgressDTO struct {
	// SkillID - идентификатор навыка.
	SkillID shared.SkillID `json:"skill_id"`

	// SkillName - название навыка.
	SkillName string `json:"skill_name"`

	// ProgressPercentage - процент выполнения (0-100).
	ProgressPercentage float64 `json:"progress_percentage"`

	// Completed - навык завершён целиком.
	Completed bool `json:"completed"`

	// CompletedSubskills - сколько поднавыков завершено.
	CompletedSubskills int `json:"completed_subskills"`

	// AverageQuizScore - средний результат квизов (0-1).
	AverageQuizScore float64 `json:"average_quiz_score"`
}

// XPTransactionDTO - одно начисление XP для сводки.
type XPTransactionDTO struct {
	// Amount - размер начисления.
	Amount int `json:"amount"`

	// Type - причина начисления.
	Type string `json:"type"`

	// Description - человекочитаемое описание.
	Description string `json:"description"`

	// CreatedAt - когда начислено.
	CreatedAt time.Time `json:"created_at"`
}

// GetDashboardResult содержит сводку ученика.
type GetDashboardResult struct {
	// LearnerID - чья сводка.
	LearnerID shared.LearnerID `json:"learner_id"`

	// DisplayName - отображаемое имя.
	DisplayName string `json:"display_name"`

	// TotalXP - накопленный XP.
	TotalXP int `json:"total_xp"`

	// Level - текущий уровень.
	Level int `json:"level"`

	// XPToNextLevel - сколько XP осталось до следующего уровня.
	XPToNextLevel int `json:"xp_to_next_level"`

	// CurrentStreak - текущая серия дней активности.
	CurrentStreak int `json:"current_streak"`

	// LongestStreak - лучшая серия дней активности.
	LongestStreak int `json:"longest_streak"`

	// Achievements - заработанные достижения.
	Achievements []learner.Achievement `json:"achievements"`

	// Skills - прогресс по начатым навыкам.
	Skills []SkillProgressDTO `json:"skills"`

	// CompletedSkills - сколько навыков завершено целиком.
	CompletedSkills int `json:"completed_skills"`

	// RecentXP - последние начисления XP, новые первыми.
	RecentXP []XPTransactionDTO `json:"recent_xp"`

	// GeneratedAt - время генерации сводки.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetDashboardHandler обрабатывает запросы сводки.
type GetDashboardHandler struct {
	learnerRepo  learner.Repository
	progressRepo skill.ProgressRepository
	skillRepo    skill.Repository
	xpRepo       learner.XPTransactionRepository
	logger       *logger.Logger
}

// NewGetDashboardHandler создаёт новый обработчик сводки.
func NewGetDashboardHandler(
	learnerRepo learner.Repository,
	progressRepo skill.ProgressRepository,
	skillRepo skill.Repository,
	xpRepo learner.XPTransactionRepository,
	log *logger.Logger,
) *GetDashboardHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetDashboardHandler{
		learnerRepo:  learnerRepo,
		progressRepo: progressRepo,
		skillRepo:    skillRepo,
		xpRepo:       xpRepo,
		logger:       log.With(logger.Component("get_dashboard")),
	}
}

// Handle выполняет запрос сводки.
func (h *GetDashboardHandler) Handle(ctx context.Context, q GetDashboardQuery) (*GetDashboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_dashboard: validation failed: %w", err)
	}

	l, err := h.learnerRepo.GetByID(ctx, q.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("get_dashboard: failed to get learner: %w", err)
	}

	progress, err := h.progressRepo.ListByLearner(ctx, q.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("get_dashboard: failed to list progress: %w", err)
	}

	skills, completedSkills, err := h.progressDTOs(ctx, progress)
	if err != nil {
		return nil, fmt.Errorf("get_dashboard: failed to resolve skills: %w", err)
	}

	transactions, err := h.xpRepo.ListRecent(ctx, q.LearnerID, q.XPHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("get_dashboard: failed to list xp history: %w", err)
	}
	recentXP := make([]XPTransactionDTO, 0, len(transactions))
	for _, tx := range transactions {
		recentXP = append(recentXP, XPTransactionDTO{
			Amount:      tx.Amount,
			Type:        string(tx.Type),
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt,
		})
	}

	return &GetDashboardResult{
		LearnerID:       l.ID,
		DisplayName:     l.DisplayName,
		TotalXP:         l.TotalXP.Int(),
		Level:           l.Level().Int(),
		XPToNextLevel:   l.TotalXP.ProgressToNextLevel(),
		CurrentStreak:   l.CurrentStreak,
		LongestStreak:   l.LongestStreak,
		Achievements:    l.Achievements(),
		Skills:          skills,
		CompletedSkills: completedSkills,
		RecentXP:        recentXP,
		GeneratedAt:     time.Now().UTC(),
	}, nil
}

// progressDTOs обогащает прогресс названиями навыков.
func (h *GetDashboardHandler) progressDTOs(
	ctx context.Context,
	progress []*skill.Progress,
) ([]SkillProgressDTO, int, error) {
	if len(progress) == 0 {
		return []SkillProgressDTO{}, 0, nil
	}

	ids := make([]shared.SkillID, 0, len(progress))
	for _, p := range progress {
		ids = append(ids, p.SkillID)
	}
	found, err := h.skillRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	names := make(map[shared.SkillID]string, len(found))
	for _, s := range found {
		names[s.ID] = s.Name
	}

	dtos := make([]SkillProgressDTO, 0, len(progress))
	completed := 0
	for _, p := range progress {
		if p.Completed {
			completed++
		}
		dtos = append(dtos, SkillProgressDTO{
			SkillID:            p.SkillID,
			SkillName:          names[p.SkillID],
			ProgressPercentage: p.ProgressPercentage.Float64(),
			Completed:          p.Completed,
			CompletedSubskills: len(p.CompletedSubskills),
			AverageQuizScore:   p.AverageQuizScore,
		})
	}
	return dtos, completed, nil
}
