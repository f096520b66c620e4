package skill

import (
	"context"

	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Чтения возвращают пустые коллекции (не ошибки), если строк нет.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции над каталогом навыков.
type Repository interface {
	// GetByID возвращает навык по ID.
	// Возвращает shared.ErrSkillNotFound, если навык не найден.
	GetByID(ctx context.Context, id shared.SkillID) (*Skill, error)

	// GetByIDs возвращает навыки по списку ID (отсутствующие пропускаются).
	GetByIDs(ctx context.Context, ids []shared.SkillID) ([]*Skill, error)

	// List возвращает все навыки каталога.
	List(ctx context.Context) ([]*Skill, error)

	// ListByParent возвращает дочерние навыки.
	ListByParent(ctx context.Context, parentID shared.SkillID) ([]*Skill, error)

	// Create добавляет навык в каталог.
	Create(ctx context.Context, s *Skill) error
}

// ProgressRepository определяет операции над прогрессом учеников.
type ProgressRepository interface {
	// Get возвращает прогресс пары (ученик, навык).
	// Возвращает shared.ErrProgressNotFound, если изучение не начато.
	Get(ctx context.Context, learnerID shared.LearnerID, skillID shared.SkillID) (*Progress, error)

	// ListByLearner возвращает весь прогресс ученика.
	ListByLearner(ctx context.Context, learnerID shared.LearnerID) ([]*Progress, error)

	// Create создаёт прогресс на начало изучения.
	// Возвращает shared.ErrSkillStarted, если изучение уже начато.
	Create(ctx context.Context, p *Progress) error

	// Update сохраняет изменённый прогресс.
	Update(ctx context.Context, p *Progress) error

	// CountLearnersBySkill возвращает количество учеников с прогрессом
	// по каждому навыку. Используется для popularity fallback рекомендателя.
	CountLearnersBySkill(ctx context.Context) (map[shared.SkillID]int, error)
}
