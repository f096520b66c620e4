// Package behavior содержит журнал действий ученика (append-only)
// и анализатор учебного поведения.
package behavior

import (
	"context"
	"time"

	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACTION TYPES
// ══════════════════════════════════════════════════════════════════════════════

// ActionType определяет тип действия ученика.
type ActionType string

const (
	// ActionViewResource - открыл учебный ресурс.
	ActionViewResource ActionType = "view_resource"
	// ActionStartSkill - начал изучение навыка.
	ActionStartSkill ActionType = "start_skill"
	// ActionCompleteSubskill - завершил поднавык.
	ActionCompleteSubskill ActionType = "complete_subskill"
	// ActionUncompleteSubskill - снял отметку завершения.
	ActionUncompleteSubskill ActionType = "uncomplete_subskill"
	// ActionCompleteQuiz - завершил квиз.
	ActionCompleteQuiz ActionType = "complete_quiz"
)

// IsValid проверяет корректность типа действия.
func (a ActionType) IsValid() bool {
	switch a {
	case ActionViewResource, ActionStartSkill, ActionCompleteSubskill,
		ActionUncompleteSubskill, ActionCompleteQuiz:
		return true
	default:
		return false
	}
}

// MetadataResourceType - ключ метаданных с типом просмотренного ресурса.
const MetadataResourceType = "resource_type"

// ══════════════════════════════════════════════════════════════════════════════
// EVENT
// Запись журнала. Никогда не обновляется и не удаляется - единственный
// вход анализа поведения и подстройки сложности.
// ══════════════════════════════════════════════════════════════════════════════

// Event представляет одно действие ученика.
type Event struct {
	// ID - идентификатор записи (UUID).
	ID string

	// LearnerID - кто совершил действие.
	LearnerID shared.LearnerID

	// Action - тип действия.
	Action ActionType

	// SkillID - связанный навык (nil, если не применимо).
	SkillID *shared.SkillID

	// SubskillName - связанный поднавык (пустая строка, если не применимо).
	SubskillName string

	// ResourceURL - связанный ресурс (пустая строка, если не применимо).
	ResourceURL string

	// Metadata - произвольные дополнительные данные.
	Metadata map[string]string

	// OccurredAt - когда произошло действие.
	OccurredAt time.Time
}

// ResourceType возвращает тип ресурса из метаданных (пустая строка, если нет).
func (e Event) ResourceType() string {
	if e.Metadata == nil {
		return ""
	}
	return e.Metadata[MetadataResourceType]
}

// Repository определяет операции над журналом (append-only).
// Чтения возвращают пустые коллекции (не ошибки), если строк нет.
type Repository interface {
	// Append добавляет запись в журнал.
	Append(ctx context.Context, e *Event) error

	// ListRecent возвращает последние действия ученика, новые первыми.
	ListRecent(ctx context.Context, learnerID shared.LearnerID, limit int) ([]*Event, error)
}
