// Package quiz содержит доменную модель квизов и динамическую подстройку
// сложности по истории результатов.
package quiz

import (
	"time"

	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// QUESTIONS
// ══════════════════════════════════════════════════════════════════════════════

// Question представляет один вопрос квиза.
type Question struct {
	// Prompt - текст вопроса.
	Prompt string `json:"prompt"`

	// Options - варианты ответа.
	Options []string `json:"options"`

	// CorrectIndex - индекс правильного варианта.
	CorrectIndex int `json:"correct_index"`

	// Topic - тема вопроса (имя навыка или поднавыка).
	Topic string `json:"topic"`

	// Difficulty - уровень сложности вопроса.
	Difficulty shared.Difficulty `json:"difficulty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// QUIZ ATTEMPT
// Попытка прохождения квиза (append-only). Питает подстройку сложности
// и средний результат по навыку.
// ══════════════════════════════════════════════════════════════════════════════

// Attempt представляет одну попытку прохождения квиза.
type Attempt struct {
	// ID - идентификатор попытки (UUID).
	ID string

	// LearnerID - кто проходил.
	LearnerID shared.LearnerID

	// SkillID - по какому навыку.
	SkillID shared.SkillID

	// Difficulty - сложность, на которой подан квиз.
	Difficulty shared.Difficulty

	// Questions - поданный набор вопросов.
	Questions []Question

	// Answers - индексы ответов ученика (параллельно Questions, -1 = пропуск).
	Answers []int

	// Score - количество правильных ответов.
	Score int

	// TotalQuestions - всего вопросов.
	TotalQuestions int

	// TimeTakenSeconds - затраченное время.
	TimeTakenSeconds int

	// CompletedAt - когда завершена попытка.
	CompletedAt time.Time
}

// NewAttemptParams параметры для создания попытки.
type NewAttemptParams struct {
	ID               string
	LearnerID        shared.LearnerID
	SkillID          shared.SkillID
	Difficulty       shared.Difficulty
	Questions        []Question
	Answers          []int
	TimeTakenSeconds int
}

// NewAttempt создаёт попытку и подсчитывает результат по ответам.
func NewAttempt(params NewAttemptParams) (*Attempt, error) {
	if len(params.Questions) == 0 {
		return nil, shared.ErrInvalidAttempt
	}
	if params.LearnerID.IsEmpty() {
		return nil, shared.ErrInvalidID
	}
	if !params.SkillID.IsValid() {
		return nil, shared.ErrInvalidSkillID
	}

	score := 0
	for i, q := range params.Questions {
		if i < len(params.Answers) && params.Answers[i] == q.CorrectIndex {
			score++
		}
	}

	return &Attempt{
		ID:               params.ID,
		LearnerID:        params.LearnerID,
		SkillID:          params.SkillID,
		Difficulty:       params.Difficulty,
		Questions:        params.Questions,
		Answers:          params.Answers,
		Score:            score,
		TotalQuestions:   len(params.Questions),
		TimeTakenSeconds: params.TimeTakenSeconds,
		CompletedAt:      time.Now().UTC(),
	}, nil
}

// Ratio возвращает долю правильных ответов (0-1).
func (a *Attempt) Ratio() float64 {
	if a.TotalQuestions == 0 {
		return 0
	}
	return float64(a.Score) / float64(a.TotalQuestions)
}

// Passed возвращает true, если попытка засчитана как успешная.
func (a *Attempt) Passed() bool {
	return a.Ratio() >= 0.6
}
