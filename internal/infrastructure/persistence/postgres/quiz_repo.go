package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skillsprint/skillsprint-backend/internal/domain/quiz"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// QUIZ ATTEMPT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// QuizRepository implements quiz.Repository for PostgreSQL.
// Attempts are append-only; they feed difficulty adjustment and the
// per-skill quiz average.
type QuizRepository struct {
	conn *Connection
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(conn *Connection) *QuizRepository {
	return &QuizRepository{conn: conn}
}

const attemptColumns = `id, learner_id, skill_id, difficulty, questions, answers,
		   score, total_questions, time_taken_seconds, completed_at`

// Append saves a completed attempt.
func (r *QuizRepository) Append(ctx context.Context, a *quiz.Attempt) error {
	query := `
		INSERT INTO quiz_attempts (
			id, learner_id, skill_id, difficulty, questions, answers,
			score, total_questions, time_taken_seconds, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	questionsJSON, err := json.Marshal(a.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}
	answersJSON, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	_, err = r.conn.Exec(ctx, query,
		a.ID,
		string(a.LearnerID),
		int64(a.SkillID),
		string(a.Difficulty),
		questionsJSON,
		answersJSON,
		a.Score,
		a.TotalQuestions,
		a.TimeTakenSeconds,
		a.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append quiz attempt: %w", err)
	}

	return nil
}

// ListRecentByLearner returns the learner's latest attempts across all skills,
// newest first.
func (r *QuizRepository) ListRecentByLearner(ctx context.Context, learnerID shared.LearnerID, limit int) ([]*quiz.Attempt, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM quiz_attempts
		WHERE learner_id = $1
		ORDER BY completed_at DESC
		LIMIT $2
	`, attemptColumns)

	rows, err := r.conn.Query(ctx, query, string(learnerID), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz attempts: %w", err)
	}
	defer rows.Close()

	return scanAttempts(rows)
}

// ListRecentBySkill returns the learner's latest attempts on one skill,
// newest first.
func (r *QuizRepository) ListRecentBySkill(ctx context.Context, learnerID shared.LearnerID, skillID shared.SkillID, limit int) ([]*quiz.Attempt, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM quiz_attempts
		WHERE learner_id = $1 AND skill_id = $2
		ORDER BY completed_at DESC
		LIMIT $3
	`, attemptColumns)

	rows, err := r.conn.Query(ctx, query, string(learnerID), int64(skillID), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz attempts by skill: %w", err)
	}
	defer rows.Close()

	return scanAttempts(rows)
}

// scanAttempts scans attempt rows into domain entities.
func scanAttempts(rows pgx.Rows) ([]*quiz.Attempt, error) {
	attempts := make([]*quiz.Attempt, 0)

	for rows.Next() {
		var (
			a             quiz.Attempt
			lid           string
			skillID       int64
			difficulty    string
			questionsJSON []byte
			answersJSON   []byte
		)

		err := rows.Scan(
			&a.ID,
			&lid,
			&skillID,
			&difficulty,
			&questionsJSON,
			&answersJSON,
			&a.Score,
			&a.TotalQuestions,
			&a.TimeTakenSeconds,
			&a.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz attempt: %w", err)
		}

		a.LearnerID = shared.LearnerID(lid)
		a.SkillID = shared.SkillID(skillID)
		a.Difficulty = shared.Difficulty(difficulty)
		if len(questionsJSON) > 0 {
			if err := json.Unmarshal(questionsJSON, &a.Questions); err != nil {
				return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
			}
		}
		if len(answersJSON) > 0 {
			if err := json.Unmarshal(answersJSON, &a.Answers); err != nil {
				return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
			}
		}

		attempts = append(attempts, &a)
	}

	return attempts, rows.Err()
}
