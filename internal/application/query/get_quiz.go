package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skillsprint/skillsprint-backend/internal/domain/quiz"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"
	"github.com/skillsprint/skillsprint-backend/internal/infrastructure/catalog"
	"github.com/skillsprint/skillsprint-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET QUIZ QUERY
// Выдаёт квиз по навыку из статических банков вопросов. Уровень
// сложности либо задан явно, либо подбирается адаптивно по истории.
// ══════════════════════════════════════════════════════════════════════════════

// GetQuizQuery содержит параметры запроса квиза.
type GetQuizQuery struct {
	// LearnerID - кому выдаётся квиз.
	LearnerID shared.LearnerID

	// SkillID - навык, по которому выдаётся квиз.
	SkillID shared.SkillID

	// Difficulty - явный уровень сложности (пустой = подобрать адаптивно).
	Difficulty shared.Difficulty

	// QuestionCount - количество вопросов (по умолчанию 5, максимум 20).
	QuestionCount int
}

// Validate проверяет корректность параметров запроса.
func (q *GetQuizQuery) Validate() error {
	if q.LearnerID.IsEmpty() {
		return errors.New("learner_id is required")
	}
	if !q.SkillID.IsValid() {
		return errors.New("skill_id must be positive")
	}
	if q.Difficulty != "" && !q.Difficulty.IsValid() {
		return fmt.Errorf("unknown difficulty: %s", q.Difficulty)
	}
	if q.QuestionCount < 0 {
		return errors.New("question_count cannot be negative")
	}
	if q.QuestionCount == 0 {
		q.QuestionCount = 5
	}
	if q.QuestionCount > 20 {
		q.QuestionCount = 20
	}
	return nil
}

// GetQuizResult содержит выданный квиз.
type GetQuizResult struct {
	// SkillID - навык из запроса.
	SkillID shared.SkillID `json:"skill_id"`

	// SkillName - название навыка (тема вопросов).
	SkillName string `json:"skill_name"`

	// Difficulty - уровень, на котором выдан квиз.
	Difficulty shared.Difficulty `json:"difficulty"`

	// Adaptive - уровень подобран по истории, а не задан явно.
	Adaptive bool `json:"adaptive"`

	// Questions - вопросы квиза в порядке выдачи.
	Questions []quiz.Question `json:"questions"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetQuizHandler обрабатывает запросы квизов.
type GetQuizHandler struct {
	skillRepo  skill.Repository
	difficulty *AdjustDifficultyHandler
	logger     *logger.Logger
}

// NewGetQuizHandler создаёт новый обработчик квизов.
// difficulty может быть nil: тогда без явного уровня выдаётся beginner.
func NewGetQuizHandler(
	skillRepo skill.Repository,
	difficulty *AdjustDifficultyHandler,
	log *logger.Logger,
) *GetQuizHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetQuizHandler{
		skillRepo:  skillRepo,
		difficulty: difficulty,
		logger:     log.With(logger.Component("get_quiz")),
	}
}

// Handle выполняет запрос квиза.
func (h *GetQuizHandler) Handle(ctx context.Context, q GetQuizQuery) (*GetQuizResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_quiz: validation failed: %w", err)
	}

	s, err := h.skillRepo.GetByID(ctx, q.SkillID)
	if err != nil {
		return nil, fmt.Errorf("get_quiz: failed to get skill: %w", err)
	}

	difficulty := q.Difficulty
	adaptive := false
	if difficulty == "" {
		difficulty = shared.DifficultyBeginner
		if h.difficulty != nil {
			adjusted, err := h.difficulty.Handle(ctx, AdjustDifficultyQuery{
				LearnerID: q.LearnerID,
				SkillID:   q.SkillID,
			})
			if err != nil {
				return nil, fmt.Errorf("get_quiz: failed to adjust difficulty: %w", err)
			}
			difficulty = adjusted.Adjustment.DifficultyLevel
			adaptive = true
		}
	}

	questions := catalog.QuizQuestions(s.Name, difficulty, q.QuestionCount)

	h.logger.Debug("quiz generated",
		logger.LearnerID(q.LearnerID.String()),
		logger.SkillID(q.SkillID.Int64()),
		logger.String("difficulty", difficulty.String()),
		logger.Int("questions", len(questions)),
	)

	return &GetQuizResult{
		SkillID:     q.SkillID,
		SkillName:   s.Name,
		Difficulty:  difficulty,
		Adaptive:    adaptive,
		Questions:   questions,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
