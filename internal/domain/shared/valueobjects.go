package shared

import (
	"fmt"
	"regexp"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// IDENTIFIERS
// ══════════════════════════════════════════════════════════════════════════════

// LearnerID представляет уникальный идентификатор ученика (UUID).
type LearnerID string

var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid проверяет, что ID является корректным UUID.
func (l LearnerID) IsValid() bool {
	return uuidRegex.MatchString(string(l))
}

// String возвращает строковое представление ID.
func (l LearnerID) String() string {
	return string(l)
}

// IsEmpty проверяет, что ID пустой.
func (l LearnerID) IsEmpty() bool {
	return l == ""
}

// NewLearnerID создаёт LearnerID из строки с валидацией.
func NewLearnerID(id string) (LearnerID, error) {
	lid := LearnerID(id)
	if !lid.IsValid() {
		return "", fmt.Errorf("%w: %q is not a valid learner ID", ErrInvalidID, id)
	}
	return lid, nil
}

// SkillID представляет идентификатор навыка.
// Каталог навыков небольшой, поэтому ID - плотные целые числа.
type SkillID int64

// IsValid проверяет, что SkillID положительный.
func (s SkillID) IsValid() bool {
	return s > 0
}

// Int64 возвращает числовое представление ID.
func (s SkillID) Int64() int64 {
	return int64(s)
}

// NewSkillID создаёт SkillID с валидацией.
func NewSkillID(id int64) (SkillID, error) {
	sid := SkillID(id)
	if !sid.IsValid() {
		return 0, fmt.Errorf("%w: skill ID must be positive, got %d", ErrInvalidID, id)
	}
	return sid, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// EXPERIENCE POINTS
// ══════════════════════════════════════════════════════════════════════════════

// XP представляет очки опыта ученика.
type XP int

// XPPerLevel - количество XP на один уровень.
const XPPerLevel = 1000

// IsValid проверяет, что XP неотрицательный.
func (x XP) IsValid() bool {
	return x >= 0
}

// Int возвращает числовое представление.
func (x XP) Int() int {
	return int(x)
}

// Add складывает XP, не допуская отрицательного результата.
func (x XP) Add(amount int) XP {
	result := int(x) + amount
	if result < 0 {
		return 0
	}
	return XP(result)
}

// Level вычисляет уровень на основе XP.
func (x XP) Level() Level {
	if x < 0 {
		return 0
	}
	return Level(int(x) / XPPerLevel)
}

// ProgressToNextLevel возвращает процент прогресса до следующего уровня (0-100).
func (x XP) ProgressToNextLevel() int {
	if x < 0 {
		return 0
	}
	return int(x) % XPPerLevel * 100 / XPPerLevel
}

// Level представляет уровень ученика, вычисляемый из XP.
type Level int

// IsValid проверяет, что уровень неотрицательный.
func (l Level) IsValid() bool {
	return l >= 0
}

// Int возвращает числовое представление.
func (l Level) Int() int {
	return int(l)
}

// RequiredXP возвращает XP, необходимый для достижения уровня.
func (l Level) RequiredXP() int {
	return int(l) * XPPerLevel
}

// ══════════════════════════════════════════════════════════════════════════════
// DIFFICULTY
// ══════════════════════════════════════════════════════════════════════════════

// Difficulty определяет уровень сложности контента.
// Используется и для подбора вопросов квиза, и для рекомендаций контента.
type Difficulty string

const (
	// DifficultyBeginner - начальный уровень.
	DifficultyBeginner Difficulty = "beginner"
	// DifficultyIntermediate - средний уровень.
	DifficultyIntermediate Difficulty = "intermediate"
	// DifficultyAdvanced - продвинутый уровень.
	DifficultyAdvanced Difficulty = "advanced"
)

// IsValid проверяет, что сложность корректна.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление.
func (d Difficulty) String() string {
	return string(d)
}

// ParseDifficulty разбирает строку в Difficulty.
// Неизвестные значения приводятся к beginner.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyIntermediate:
		return DifficultyIntermediate
	case DifficultyAdvanced:
		return DifficultyAdvanced
	default:
		return DifficultyBeginner
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PERCENTAGE
// ══════════════════════════════════════════════════════════════════════════════

// Percentage представляет процент выполнения (0-100).
type Percentage float64

// IsValid проверяет, что процент в диапазоне [0, 100].
func (p Percentage) IsValid() bool {
	return p >= 0 && p <= 100
}

// Clamp приводит значение к диапазону [0, 100].
func (p Percentage) Clamp() Percentage {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Float64 возвращает числовое представление.
func (p Percentage) Float64() float64 {
	return float64(p)
}

// Ratio возвращает долю в диапазоне [0, 1].
func (p Percentage) Ratio() float64 {
	return float64(p.Clamp()) / 100
}
