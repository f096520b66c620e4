package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skillsprint/skillsprint-backend/internal/domain/behavior"
	"github.com/skillsprint/skillsprint-backend/internal/domain/quiz"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"
	"github.com/skillsprint/skillsprint-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET BEHAVIOR PROFILE QUERY
// Строит профиль учебного поведения из журнала событий, попыток квизов
// и прогресса. Пустая история - штатный случай: возвращается профиль
// по умолчанию, никогда не ошибка.
// ══════════════════════════════════════════════════════════════════════════════

// GetBehaviorProfileQuery содержит параметры запроса профиля.
type GetBehaviorProfileQuery struct {
	// LearnerID - чьё поведение анализируется.
	LearnerID shared.LearnerID

	// EventLimit - сколько последних событий загружать (по умолчанию 100).
	EventLimit int

	// AttemptLimit - сколько последних попыток квизов загружать (по умолчанию 20).
	AttemptLimit int
}

// Validate проверяет корректность параметров запроса.
func (q *GetBehaviorProfileQuery) Validate() error {
	if q.LearnerID.IsEmpty() {
		return errors.New("learner_id is required")
	}
	if q.EventLimit < 0 || q.AttemptLimit < 0 {
		return errors.New("limits cannot be negative")
	}
	if q.EventLimit == 0 {
		q.EventLimit = 100
	}
	if q.AttemptLimit == 0 {
		q.AttemptLimit = 20
	}
	return nil
}

// GetBehaviorProfileResult содержит профиль поведения.
type GetBehaviorProfileResult struct {
	// LearnerID - чьё поведение анализировалось.
	LearnerID shared.LearnerID `json:"learner_id"`

	// Profile - агрегированный профиль.
	Profile behavior.Profile `json:"profile"`

	// EventsAnalyzed - сколько событий участвовало в анализе.
	EventsAnalyzed int `json:"events_analyzed"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetBehaviorProfileHandler обрабатывает запросы профиля поведения.
type GetBehaviorProfileHandler struct {
	behaviorRepo behavior.Repository
	quizRepo     quiz.Repository
	progressRepo skill.ProgressRepository
	skillRepo    skill.Repository
	analyzer     *behavior.Analyzer
	logger       *logger.Logger
}

// NewGetBehaviorProfileHandler создаёт новый обработчик профиля.
func NewGetBehaviorProfileHandler(
	behaviorRepo behavior.Repository,
	quizRepo quiz.Repository,
	progressRepo skill.ProgressRepository,
	skillRepo skill.Repository,
	analyzer *behavior.Analyzer,
	log *logger.Logger,
) *GetBehaviorProfileHandler {
	if analyzer == nil {
		analyzer = behavior.NewAnalyzer(behavior.DefaultAnalyzerConfig())
	}
	if log == nil {
		log = logger.Default()
	}
	return &GetBehaviorProfileHandler{
		behaviorRepo: behaviorRepo,
		quizRepo:     quizRepo,
		progressRepo: progressRepo,
		skillRepo:    skillRepo,
		analyzer:     analyzer,
		logger:       log.With(logger.Component("get_behavior_profile")),
	}
}

// Handle выполняет запрос профиля поведения.
func (h *GetBehaviorProfileHandler) Handle(ctx context.Context, q GetBehaviorProfileQuery) (*GetBehaviorProfileResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_behavior_profile: validation failed: %w", err)
	}

	events, err := h.behaviorRepo.ListRecent(ctx, q.LearnerID, q.EventLimit)
	if err != nil {
		return nil, fmt.Errorf("get_behavior_profile: failed to list events: %w", err)
	}

	attempts, err := h.quizRepo.ListRecentByLearner(ctx, q.LearnerID, q.AttemptLimit)
	if err != nil {
		return nil, fmt.Errorf("get_behavior_profile: failed to list attempts: %w", err)
	}

	progress, err := h.progressRepo.ListByLearner(ctx, q.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("get_behavior_profile: failed to list progress: %w", err)
	}

	skillNames, err := h.skillNamesFor(ctx, attempts, progress)
	if err != nil {
		return nil, fmt.Errorf("get_behavior_profile: failed to resolve skill names: %w", err)
	}

	profile := h.analyzer.Analyze(events, attempts, progress, skillNames)

	h.logger.Debug("behavior profile built",
		logger.LearnerID(q.LearnerID.String()),
		logger.Int("events", len(events)),
		logger.Int("attempts", len(attempts)),
	)

	return &GetBehaviorProfileResult{
		LearnerID:      q.LearnerID,
		Profile:        profile,
		EventsAnalyzed: len(events),
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

// skillNamesFor загружает названия навыков, встречающихся в истории.
func (h *GetBehaviorProfileHandler) skillNamesFor(
	ctx context.Context,
	attempts []*quiz.Attempt,
	progress []*skill.Progress,
) (map[shared.SkillID]string, error) {
	seen := make(map[shared.SkillID]struct{})
	ids := make([]shared.SkillID, 0, len(attempts)+len(progress))
	for _, a := range attempts {
		if _, ok := seen[a.SkillID]; !ok {
			seen[a.SkillID] = struct{}{}
			ids = append(ids, a.SkillID)
		}
	}
	for _, p := range progress {
		if _, ok := seen[p.SkillID]; !ok {
			seen[p.SkillID] = struct{}{}
			ids = append(ids, p.SkillID)
		}
	}
	if len(ids) == 0 {
		return map[shared.SkillID]string{}, nil
	}

	skills, err := h.skillRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[shared.SkillID]string, len(skills))
	for _, s := range skills {
		names[s.ID] = s.Name
	}
	return names, nil
}
