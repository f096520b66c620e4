package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// SKILL REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SkillRepository implements skill.Repository for PostgreSQL.
type SkillRepository struct {
	conn *Connection
}

// NewSkillRepository creates a new SkillRepository.
func NewSkillRepository(conn *Connection) *SkillRepository {
	return &SkillRepository{conn: conn}
}

const skillColumns = `id, name, description, parent_id, subskills, difficulty, estimated_hours, created_at`

// GetByID returns a skill by ID.
func (r *SkillRepository) GetByID(ctx context.Context, id shared.SkillID) (*skill.Skill, error) {
	query := fmt.Sprintf(`SELECT %s FROM skills WHERE id = $1`, skillColumns)

	rows, err := r.conn.Query(ctx, query, int64(id))
	if err != nil {
		return nil, fmt.Errorf("failed to query skill: %w", err)
	}
	defer rows.Close()

	skills, err := scanSkills(rows)
	if err != nil {
		return nil, err
	}
	if len(skills) == 0 {
		return nil, shared.ErrSkillNotFound
	}
	return skills[0], nil
}

// GetByIDs returns skills by a list of IDs. Missing IDs are skipped.
func (r *SkillRepository) GetByIDs(ctx context.Context, ids []shared.SkillID) ([]*skill.Skill, error) {
	if len(ids) == 0 {
		return []*skill.Skill{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = int64(id)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM skills WHERE id IN (%s) ORDER BY id`,
		skillColumns,
		strings.Join(placeholders, ", "),
	)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %w", err)
	}
	defer rows.Close()

	return scanSkills(rows)
}

// List returns all catalog skills ordered by ID.
func (r *SkillRepository) List(ctx context.Context) ([]*skill.Skill, error) {
	query := fmt.Sprintf(`SELECT %s FROM skills ORDER BY id`, skillColumns)

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	return scanSkills(rows)
}

// ListByParent returns the child skills of a parent.
func (r *SkillRepository) ListByParent(ctx context.Context, parentID shared.SkillID) ([]*skill.Skill, error) {
	query := fmt.Sprintf(`SELECT %s FROM skills WHERE parent_id = $1 ORDER BY id`, skillColumns)

	rows, err := r.conn.Query(ctx, query, int64(parentID))
	if err != nil {
		return nil, fmt.Errorf("failed to list child skills: %w", err)
	}
	defer rows.Close()

	return scanSkills(rows)
}

// Create adds a skill to the catalog.
func (r *SkillRepository) Create(ctx context.Context, s *skill.Skill) error {
	query := `
		INSERT INTO skills (id, name, description, parent_id, subskills, difficulty, estimated_hours, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	subskillsJSON, err := json.Marshal(s.Subskills)
	if err != nil {
		return fmt.Errorf("failed to marshal subskills: %w", err)
	}

	var parentID interface{}
	if s.ParentID != nil {
		parentID = int64(*s.ParentID)
	}

	_, err = r.conn.Exec(ctx, query,
		int64(s.ID),
		s.Name,
		s.Description,
		parentID,
		subskillsJSON,
		string(s.Difficulty),
		s.EstimatedHours,
		s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create skill: %w", err)
	}

	return nil
}

// scanSkills scans skill rows into domain entities.
func scanSkills(rows pgx.Rows) ([]*skill.Skill, error) {
	skills := make([]*skill.Skill, 0)

	for rows.Next() {
		var (
			s             skill.Skill
			id            int64
			parentID      *int64
			subskillsJSON []byte
			difficulty    string
		)

		err := rows.Scan(
			&id,
			&s.Name,
			&s.Description,
			&parentID,
			&subskillsJSON,
			&difficulty,
			&s.EstimatedHours,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}

		s.ID = shared.SkillID(id)
		if parentID != nil {
			pid := shared.SkillID(*parentID)
			s.ParentID = &pid
		}
		if len(subskillsJSON) > 0 {
			if err := json.Unmarshal(subskillsJSON, &s.Subskills); err != nil {
				return nil, fmt.Errorf("failed to unmarshal subskills: %w", err)
			}
		}
		s.Difficulty = shared.Difficulty(difficulty)

		skills = append(skills, &s)
	}

	return skills, rows.Err()
}
