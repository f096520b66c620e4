package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skillsprint/skillsprint-backend/internal/domain/learner"
	"github.com/skillsprint/skillsprint-backend/internal/domain/recommend"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"
	"github.com/skillsprint/skillsprint-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET RECOMMENDATIONS QUERY
// Коллаборативные рекомендации навыков: сходство прогресса с другими
// учениками, при холодном старте - популярные навыки.
// ══════════════════════════════════════════════════════════════════════════════

// GetRecommendationsQuery содержит параметры запроса рекомендаций.
type GetRecommendationsQuery struct {
	// LearnerID - для кого строятся рекомендации.
	LearnerID shared.LearnerID

	// Limit - количество рекомендаций (по умолчанию 5, максимум 20).
	Limit int
}

// Validate проверяет корректность параметров запроса.
func (q *GetRecommendationsQuery) Validate() error {
	if q.LearnerID.IsEmpty() {
		return errors.New("learner_id is required")
	}
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = 5
	}
	if q.Limit > 20 {
		q.Limit = 20
	}
	return nil
}

// GetRecommendationsResult содержит результат запроса рекомендаций.
type GetRecommendationsResult struct {
	// LearnerID - для кого строились рекомендации.
	LearnerID shared.LearnerID `json:"learner_id"`

	// Recommendations - рекомендации, лучшие первыми.
	Recommendations []recommend.Recommendation `json:"recommendations"`

	// ComparedLearners - сколько чужих профилей участвовало в сравнении.
	ComparedLearners int `json:"compared_learners"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetRecommendationsHandler обрабатывает запросы рекомендаций.
type GetRecommendationsHandler struct {
	learnerRepo  learner.Repository
	skillRepo    skill.Repository
	progressRepo skill.ProgressRepository
	recommender  *recommend.Recommender
	logger       *logger.Logger
}

// NewGetRecommendationsHandler создаёт новый обработчик рекомендаций.
func NewGetRecommendationsHandler(
	learnerRepo learner.Repository,
	skillRepo skill.Repository,
	progressRepo skill.ProgressRepository,
	recommender *recommend.Recommender,
	log *logger.Logger,
) *GetRecommendationsHandler {
	if recommender == nil {
		recommender = recommend.NewRecommender(recommend.DefaultConfig())
	}
	if log == nil {
		log = logger.Default()
	}
	return &GetRecommendationsHandler{
		learnerRepo:  learnerRepo,
		skillRepo:    skillRepo,
		progressRepo: progressRepo,
		recommender:  recommender,
		logger:       log.With(logger.Component("get_recommendations")),
	}
}

// Handle выполняет запрос рекомендаций.
func (h *GetRecommendationsHandler) Handle(ctx context.Context, q GetRecommendationsQuery) (*GetRecommendationsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_recommendations: validation failed: %w", err)
	}

	target, err := h.progressRepo.ListByLearner(ctx, q.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("get_recommendations: failed to get progress: %w", err)
	}

	otherIDs, err := h.learnerRepo.ListIDs(ctx, q.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("get_recommendations: failed to list learners: %w", err)
	}

	others := make([]recommend.LearnerProgress, 0, len(otherIDs))
	for _, id := range otherIDs {
		progress, err := h.progressRepo.ListByLearner(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get_recommendations: failed to get progress of %s: %w", id, err)
		}
		if len(progress) == 0 {
			continue
		}
		others = append(others, recommend.LearnerProgress{
			LearnerID: id,
			Progress:  progress,
		})
	}

	allSkills, err := h.skillRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_recommendations: failed to list skills: %w", err)
	}
	skills := make(map[shared.SkillID]*skill.Skill, len(allSkills))
	for _, s := range allSkills {
		skills[s.ID] = s
	}

	recommendations := h.recommender.Recommend(target, others, skills, q.Limit)

	h.logger.Debug("recommendations built",
		logger.LearnerID(q.LearnerID.String()),
		logger.Int("compared_learners", len(others)),
		logger.Int("recommendations", len(recommendations)),
	)

	return &GetRecommendationsResult{
		LearnerID:        q.LearnerID,
		Recommendations:  recommendations,
		ComparedLearners: len(others),
		GeneratedAt:      time.Now().UTC(),
	}, nil
}
