// Package skill содержит доменную модель навыков и прогресса по ним.
// Навык - это дерево через указатель на родителя; поднавыки - упорядоченный
// список имён (строк), а не самостоятельные сущности.
package skill

import (
	"errors"
	"strings"
	"time"

	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrUnknownSubskill - поднавык не входит в список навыка.
	ErrUnknownSubskill = errors.New("subskill does not belong to this skill")

	// ErrEmptySkillName - пустое название навыка.
	ErrEmptySkillName = errors.New("skill name cannot be empty")
)

// ══════════════════════════════════════════════════════════════════════════════
// SKILL
// ══════════════════════════════════════════════════════════════════════════════

// Skill представляет навык в каталоге.
type Skill struct {
	// ID - идентификатор навыка.
	ID shared.SkillID

	// Name - название навыка.
	Name string

	// Description - описание.
	Description string

	// ParentID - родительский навык (nil для корневых).
	ParentID *shared.SkillID

	// Subskills - упорядоченный список имён поднавыков.
	// Уникальность имён доменом не гарантируется.
	Subskills []string

	// Difficulty - базовый уровень сложности навыка.
	Difficulty shared.Difficulty

	// EstimatedHours - оценка времени на освоение.
	EstimatedHours int

	// CreatedAt - когда добавлен в каталог.
	CreatedAt time.Time
}

// HasSubskill проверяет, входит ли поднавык в список навыка.
func (s *Skill) HasSubskill(name string) bool {
	for _, sub := range s.Subskills {
		if strings.EqualFold(sub, name) {
			return true
		}
	}
	return false
}

// SubskillCount возвращает количество поднавыков.
func (s *Skill) SubskillCount() int {
	return len(s.Subskills)
}

// ══════════════════════════════════════════════════════════════════════════════
// SKILL PROGRESS
// Одна строка на пару (ученик, навык). Создаётся на "start learning",
// обновляется при завершении поднавыков и квизах.
// ══════════════════════════════════════════════════════════════════════════════

// Progress представляет прогресс ученика по одному навыку.
type Progress struct {
	// LearnerID - чей прогресс.
	LearnerID shared.LearnerID

	// SkillID - какой навык.
	SkillID shared.SkillID

	// ProgressPercentage - процент выполнения (0-100).
	ProgressPercentage shared.Percentage

	// Completed - навык завершён целиком.
	Completed bool

	// CompletedSubskills - имена завершённых поднавыков.
	CompletedSubskills []string

	// AverageQuizScore - средний результат квизов по навыку (0-1), 0 если квизов не было.
	AverageQuizScore float64

	// QuizCount - количество пройденных квизов (для инкрементального среднего).
	QuizCount int

	// StartedAt - когда начато изучение.
	StartedAt time.Time

	// UpdatedAt - когда последний раз обновлялся.
	UpdatedAt time.Time
}

// NewProgress создаёт прогресс на начало изучения навыка.
func NewProgress(learnerID shared.LearnerID, skillID shared.SkillID) (*Progress, error) {
	if learnerID.IsEmpty() {
		return nil, shared.ErrInvalidID
	}
	if !skillID.IsValid() {
		return nil, shared.ErrInvalidSkillID
	}

	now := time.Now().UTC()
	return &Progress{
		LearnerID:          learnerID,
		SkillID:            skillID,
		ProgressPercentage: 0,
		Completed:          false,
		CompletedSubskills: make([]string, 0),
		StartedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// HasCompletedSubskill проверяет, завершён ли поднавык.
func (p *Progress) HasCompletedSubskill(name string) bool {
	for _, sub := range p.CompletedSubskills {
		if strings.EqualFold(sub, name) {
			return true
		}
	}
	return false
}

// CompleteSubskill отмечает поднавык завершённым и пересчитывает процент.
// Возвращает true, если поднавык был завершён впервые.
func (p *Progress) CompleteSubskill(s *Skill, name string) (bool, error) {
	if !s.HasSubskill(name) {
		return false, ErrUnknownSubskill
	}
	if p.HasCompletedSubskill(name) {
		return false, nil
	}

	p.CompletedSubskills = append(p.CompletedSubskills, name)
	p.recalculate(s)
	return true, nil
}

// UncompleteSubskill снимает отметку завершения с поднавыка.
func (p *Progress) UncompleteSubskill(s *Skill, name string) {
	kept := p.CompletedSubskills[:0]
	for _, sub := range p.CompletedSubskills {
		if !strings.EqualFold(sub, name) {
			kept = append(kept, sub)
		}
	}
	p.CompletedSubskills = kept
	p.recalculate(s)
}

// recalculate пересчитывает процент выполнения и флаг завершения.
func (p *Progress) recalculate(s *Skill) {
	total := s.SubskillCount()
	if total == 0 {
		p.ProgressPercentage = 0
		p.Completed = false
	} else {
		pct := shared.Percentage(float64(len(p.CompletedSubskills)) / float64(total) * 100)
		p.ProgressPercentage = pct.Clamp()
		p.Completed = len(p.CompletedSubskills) >= total
	}
	p.UpdatedAt = time.Now().UTC()
}

// RecordQuizScore обновляет средний результат квизов инкрементально.
// score - доля правильных ответов (0-1).
func (p *Progress) RecordQuizScore(score float64) {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	p.AverageQuizScore = (p.AverageQuizScore*float64(p.QuizCount) + score) / float64(p.QuizCount+1)
	p.QuizCount++
	p.UpdatedAt = time.Now().UTC()
}
