package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProgressRepository implements skill.ProgressRepository for PostgreSQL.
type ProgressRepository struct {
	conn *Connection
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(conn *Connection) *ProgressRepository {
	return &ProgressRepository{conn: conn}
}

const progressColumns = `learner_id, skill_id, progress_percentage, completed,
		   completed_subskills, average_quiz_score, quiz_count, started_at, updated_at`

// Get returns the progress for a (learner, skill) pair.
func (r *ProgressRepository) Get(ctx context.Context, learnerID shared.LearnerID, skillID shared.SkillID) (*skill.Progress, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM skill_progress
		WHERE learner_id = $1 AND skill_id = $2
	`, progressColumns)

	row := r.conn.QueryRow(ctx, query, string(learnerID), int64(skillID))
	return scanProgress(row)
}

// ListByLearner returns all progress records for a learner.
func (r *ProgressRepository) ListByLearner(ctx context.Context, learnerID shared.LearnerID) ([]*skill.Progress, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM skill_progress
		WHERE learner_id = $1
		ORDER BY skill_id
	`, progressColumns)

	rows, err := r.conn.Query(ctx, query, string(learnerID))
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	records := make([]*skill.Progress, 0)
	for rows.Next() {
		p, err := scanProgressRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, p)
	}

	return records, rows.Err()
}

// Create creates a progress record at the start of a skill.
func (r *ProgressRepository) Create(ctx context.Context, p *skill.Progress) error {
	query := `
		INSERT INTO skill_progress (
			learner_id, skill_id, progress_percentage, completed,
			completed_subskills, average_quiz_score, quiz_count, started_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	subskillsJSON, err := json.Marshal(p.CompletedSubskills)
	if err != nil {
		return fmt.Errorf("failed to marshal completed subskills: %w", err)
	}

	_, err = r.conn.Exec(ctx, query,
		string(p.LearnerID),
		int64(p.SkillID),
		float64(p.ProgressPercentage),
		p.Completed,
		subskillsJSON,
		p.AverageQuizScore,
		p.QuizCount,
		p.StartedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrSkillStarted
		}
		return fmt.Errorf("failed to create progress: %w", err)
	}

	return nil
}

// Update saves a modified progress record.
func (r *ProgressRepository) Update(ctx context.Context, p *skill.Progress) error {
	query := `
		UPDATE skill_progress SET
			progress_percentage = $1,
			completed = $2,
			completed_subskills = $3,
			average_quiz_score = $4,
			quiz_count = $5,
			updated_at = $6
		WHERE learner_id = $7 AND skill_id = $8
	`

	subskillsJSON, err := json.Marshal(p.CompletedSubskills)
	if err != nil {
		return fmt.Errorf("failed to marshal completed subskills: %w", err)
	}

	result, err := r.conn.Exec(ctx, query,
		float64(p.ProgressPercentage),
		p.Completed,
		subskillsJSON,
		p.AverageQuizScore,
		p.QuizCount,
		time.Now().UTC(),
		string(p.LearnerID),
		int64(p.SkillID),
	)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrProgressNotFound
	}

	return nil
}

// CountLearnersBySkill returns the number of distinct learners with progress
// on each skill. Skills nobody started are absent from the map.
func (r *ProgressRepository) CountLearnersBySkill(ctx context.Context) (map[shared.SkillID]int, error) {
	query := `
		SELECT skill_id, COUNT(DISTINCT learner_id)
		FROM skill_progress
		GROUP BY skill_id
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count learners by skill: %w", err)
	}
	defer rows.Close()

	counts := make(map[shared.SkillID]int)
	for rows.Next() {
		var skillID int64
		var count int
		if err := rows.Scan(&skillID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan skill count: %w", err)
		}
		counts[shared.SkillID(skillID)] = count
	}

	return counts, rows.Err()
}

// scanProgress scans a single progress row.
func scanProgress(row pgx.Row) (*skill.Progress, error) {
	p, err := scanProgressFrom(row.Scan)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProgressNotFound
		}
		return nil, err
	}
	return p, nil
}

// scanProgressRow scans a progress row from a result set.
func scanProgressRow(rows pgx.Rows) (*skill.Progress, error) {
	return scanProgressFrom(rows.Scan)
}

func scanProgressFrom(scan func(dest ...interface{}) error) (*skill.Progress, error) {
	var (
		p             skill.Progress
		learnerID     string
		skillID       int64
		percentage    float64
		subskillsJSON []byte
	)

	err := scan(
		&learnerID,
		&skillID,
		&percentage,
		&p.Completed,
		&subskillsJSON,
		&p.AverageQuizScore,
		&p.QuizCount,
		&p.StartedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan progress: %w", err)
	}

	p.LearnerID = shared.LearnerID(learnerID)
	p.SkillID = shared.SkillID(skillID)
	p.ProgressPercentage = shared.Percentage(percentage)
	if len(subskillsJSON) > 0 {
		if err := json.Unmarshal(subskillsJSON, &p.CompletedSubskills); err != nil {
			return nil, fmt.Errorf("failed to unmarshal completed subskills: %w", err)
		}
	}

	return &p, nil
}
