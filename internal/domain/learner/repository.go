package learner

import (
	"context"

	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Контракты для работы с хранилищем. Реализации - в infrastructure/persistence.
// Чтения возвращают пустые коллекции (не ошибки), если строк нет.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции над учениками.
type Repository interface {
	// Create создаёт нового ученика.
	// Возвращает shared.ErrLearnerAlreadyExists, если email уже занят.
	Create(ctx context.Context, l *Learner) error

	// GetByID возвращает ученика по внутреннему ID.
	// Возвращает shared.ErrLearnerNotFound, если ученик не найден.
	GetByID(ctx context.Context, id shared.LearnerID) (*Learner, error)

	// GetByEmail возвращает ученика по email.
	// Возвращает shared.ErrLearnerNotFound, если ученик не найден.
	GetByEmail(ctx context.Context, email string) (*Learner, error)

	// Update сохраняет изменённое состояние ученика (XP, серии, last activity).
	// Возвращает shared.ErrLearnerNotFound, если ученик не найден.
	Update(ctx context.Context, l *Learner) error

	// ListIDs возвращает ID всех учеников кроме указанного.
	// Используется коллаборативным рекомендателем.
	ListIDs(ctx context.Context, exclude shared.LearnerID) ([]shared.LearnerID, error)
}

// XPTransactionRepository определяет операции над историей XP.
type XPTransactionRepository interface {
	// Append добавляет запись о начислении (append-only).
	Append(ctx context.Context, tx *XPTransaction) error

	// ListRecent возвращает последние начисления ученика, новые первыми.
	ListRecent(ctx context.Context, learnerID shared.LearnerID, limit int) ([]*XPTransaction, error)
}
