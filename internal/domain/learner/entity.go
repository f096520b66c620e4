// Package learner содержит доменную модель ученика SkillSprint.
// Это ядро геймификации - XP, уровни, серии активности. Внешних зависимостей нет.
package learner

import (
	"errors"
	"strings"
	"time"

	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidDisplayName - некорректное отображаемое имя.
	ErrInvalidDisplayName = errors.New("display name must be 2-50 characters")

	// ErrNegativeXPAward - попытка начислить отрицательный XP.
	ErrNegativeXPAward = errors.New("xp award cannot be negative")
)

// ══════════════════════════════════════════════════════════════════════════════
// XP AWARDS
// Размеры начислений XP за действия ученика.
// ══════════════════════════════════════════════════════════════════════════════

const (
	// XPStartSkill - начисление за начало изучения нового навыка.
	XPStartSkill = 50

	// XPCompleteSubskill - базовое начисление за завершение поднавыка.
	XPCompleteSubskill = 10

	// XPSkillCompletionBonus - бонус за завершение навыка целиком.
	XPSkillCompletionBonus = 100

	// XPDifficultyBonusMultiplier - множитель бонуса за оценку сложности (1-5).
	XPDifficultyBonusMultiplier = 2
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: LEARNER
// ══════════════════════════════════════════════════════════════════════════════

// Learner представляет ученика платформы.
type Learner struct {
	// ID - внутренний идентификатор (UUID).
	ID shared.LearnerID

	// Email - адрес для входа (уникальный).
	Email string

	// PasswordHash - bcrypt-хеш пароля.
	PasswordHash string

	// DisplayName - отображаемое имя.
	DisplayName string

	// TotalXP - накопленный XP.
	TotalXP shared.XP

	// CurrentStreak - текущая серия дней активности.
	CurrentStreak int

	// LongestStreak - лучшая серия дней активности.
	// Инвариант: CurrentStreak <= LongestStreak после любого обновления.
	LongestStreak int

	// LastActivityAt - время последней учебной активности (nil, если её не было).
	LastActivityAt *time.Time

	// CreatedAt - когда создан аккаунт.
	CreatedAt time.Time

	// UpdatedAt - когда последний раз обновлялся.
	UpdatedAt time.Time
}

// NewLearnerParams параметры для создания ученика.
type NewLearnerParams struct {
	ID           shared.LearnerID
	Email        string
	PasswordHash string
	DisplayName  string
}

// NewLearner создаёт нового ученика с нулевым прогрессом.
func NewLearner(params NewLearnerParams) (*Learner, error) {
	if !params.ID.IsValid() {
		return nil, shared.ErrInvalidID
	}

	email := strings.ToLower(strings.TrimSpace(params.Email))
	if !strings.Contains(email, "@") || len(email) < 5 {
		return nil, shared.ErrInvalidEmail
	}

	name := strings.TrimSpace(params.DisplayName)
	if len(name) < 2 || len(name) > 50 {
		return nil, ErrInvalidDisplayName
	}

	if params.PasswordHash == "" {
		return nil, shared.ErrEmptyValue
	}

	now := time.Now().UTC()

	return &Learner{
		ID:            params.ID,
		Email:         email,
		PasswordHash:  params.PasswordHash,
		DisplayName:   name,
		TotalXP:       0,
		CurrentStreak: 0,
		LongestStreak: 0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Level возвращает текущий уровень ученика.
func (l *Learner) Level() shared.Level {
	return l.TotalXP.Level()
}

// AwardXP начисляет XP ученику.
func (l *Learner) AwardXP(amount int) error {
	if amount < 0 {
		return ErrNegativeXPAward
	}
	l.TotalXP = l.TotalXP.Add(amount)
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STREAK
// Серия дней активности. Обновляется при каждом учебном действии:
// - активность в тот же день не меняет серию;
// - активность на следующий день увеличивает серию;
// - пропуск дня сбрасывает серию на 1;
// - первая активность начинает серию с 1.
// ══════════════════════════════════════════════════════════════════════════════

// StreakUpdate описывает результат обновления серии.
type StreakUpdate struct {
	// CurrentStreak - серия после обновления.
	CurrentStreak int

	// LongestStreak - лучшая серия после обновления.
	LongestStreak int

	// Extended - серия была продлена этим действием.
	Extended bool

	// Reset - серия была сброшена этим действием.
	Reset bool
}

// RegisterActivity регистрирует учебную активность и обновляет серию.
func (l *Learner) RegisterActivity(now time.Time) StreakUpdate {
	update := StreakUpdate{}

	switch {
	case l.LastActivityAt == nil:
		// Первая активность.
		l.CurrentStreak = 1
	case timeutil.SameDay(*l.LastActivityAt, now):
		// Уже были активны сегодня, серия не меняется.
	case timeutil.IsPreviousDay(*l.LastActivityAt, now):
		// Были активны вчера, продлеваем серию.
		l.CurrentStreak++
		update.Extended = true
	default:
		// Пропущен хотя бы один день, серия начинается заново.
		l.CurrentStreak = 1
		update.Reset = true
	}

	if l.CurrentStreak > l.LongestStreak {
		l.LongestStreak = l.CurrentStreak
	}

	activityAt := now.UTC()
	l.LastActivityAt = &activityAt
	l.UpdatedAt = activityAt

	update.CurrentStreak = l.CurrentStreak
	update.LongestStreak = l.LongestStreak
	return update
}

// ══════════════════════════════════════════════════════════════════════════════
// XP TRANSACTIONS
// История начислений XP (append-only).
// ══════════════════════════════════════════════════════════════════════════════

// XPTransactionType определяет причину начисления XP.
type XPTransactionType string

const (
	// XPTransactionStartSkill - начало изучения навыка.
	XPTransactionStartSkill XPTransactionType = "start_skill"

	// XPTransactionCompleteSubskill - завершение поднавыка.
	XPTransactionCompleteSubskill XPTransactionType = "complete_subskill"

	// XPTransactionSkillBonus - бонус за завершение навыка.
	XPTransactionSkillBonus XPTransactionType = "skill_completion_bonus"

	// XPTransactionQuiz - прохождение квиза.
	XPTransactionQuiz XPTransactionType = "complete_quiz"
)

// IsValid проверяет корректность типа транзакции.
func (t XPTransactionType) IsValid() bool {
	switch t {
	case XPTransactionStartSkill, XPTransactionCompleteSubskill,
		XPTransactionSkillBonus, XPTransactionQuiz:
		return true
	default:
		return false
	}
}

// XPTransaction представляет одно начисление XP.
type XPTransaction struct {
	// ID - идентификатор транзакции (UUID).
	ID string

	// LearnerID - кому начислено.
	LearnerID shared.LearnerID

	// Amount - размер начисления.
	Amount int

	// Type - причина начисления.
	Type XPTransactionType

	// Description - человекочитаемое описание.
	Description string

	// CreatedAt - когда начислено.
	CreatedAt time.Time
}

// SubskillCompletionXP вычисляет XP за завершение поднавыка.
// difficultyRating - субъективная оценка сложности учеником (1-5, 0 = не указана).
func SubskillCompletionXP(difficultyRating int) int {
	xp := XPCompleteSubskill
	if difficultyRating >= 1 && difficultyRating <= 5 {
		xp += difficultyRating * XPDifficultyBonusMultiplier
	}
	return xp
}

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENTS
// Достижения вычисляются из состояния ученика, отдельного хранилища нет.
// ══════════════════════════════════════════════════════════════════════════════

// Achievement представляет заработанное достижение.
type Achievement struct {
	// Code - машинный код достижения.
	Code string

	// Title - название для отображения.
	Title string

	// Description - описание условия.
	Description string
}

// Achievements возвращает достижения, заработанные учеником.
func (l *Learner) Achievements() []Achievement {
	earned := make([]Achievement, 0, 4)

	if l.TotalXP >= 100 {
		earned = append(earned, Achievement{
			Code:        "first_steps",
			Title:       "First Steps",
			Description: "Earn 100 XP",
		})
	}
	if l.TotalXP >= 1000 {
		earned = append(earned, Achievement{
			Code:        "level_up",
			Title:       "Level Up",
			Description: "Earn 1000 XP",
		})
	}
	if l.LongestStreak >= 7 {
		earned = append(earned, Achievement{
			Code:        "week_streak",
			Title:       "Week Warrior",
			Description: "Learn 7 days in a row",
		})
	}
	if l.LongestStreak >= 30 {
		earned = append(earned, Achievement{
			Code:        "month_streak",
			Title:       "Marathon Learner",
			Description: "Learn 30 days in a row",
		})
	}

	return earned
}
