package quiz

import (
	"context"

	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
)

// Repository определяет операции над попытками квизов (append-only).
// Чтения возвращают пустые коллекции (не ошибки), если строк нет.
type Repository interface {
	// Append сохраняет завершённую попытку.
	Append(ctx context.Context, a *Attempt) error

	// ListRecentByLearner возвращает последние попытки ученика
	// по всем навыкам, новые первыми.
	ListRecentByLearner(ctx context.Context, learnerID shared.LearnerID, limit int) ([]*Attempt, error)

	// ListRecentBySkill возвращает последние попытки ученика
	// по одному навыку, новые первыми.
	ListRecentBySkill(ctx context.Context, learnerID shared.LearnerID, skillID shared.SkillID, limit int) ([]*Attempt, error)
}
