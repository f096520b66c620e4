package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skillsprint/skillsprint-backend/internal/domain/behavior"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// BEHAVIOR EVENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// BehaviorRepository implements behavior.Repository for PostgreSQL.
// The journal is append-only; events are never updated or deleted.
type BehaviorRepository struct {
	conn *Connection
}

// NewBehaviorRepository creates a new BehaviorRepository.
func NewBehaviorRepository(conn *Connection) *BehaviorRepository {
	return &BehaviorRepository{conn: conn}
}

// Append adds an event to the journal.
func (r *BehaviorRepository) Append(ctx context.Context, e *behavior.Event) error {
	query := `
		INSERT INTO behavior_events (
			id, learner_id, action, skill_id, subskill_name, resource_url, metadata, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	metadataJSON, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal event metadata: %w", err)
	}

	var skillID interface{}
	if e.SkillID != nil {
		skillID = int64(*e.SkillID)
	}

	_, err = r.conn.Exec(ctx, query,
		e.ID,
		string(e.LearnerID),
		string(e.Action),
		skillID,
		e.SubskillName,
		e.ResourceURL,
		metadataJSON,
		e.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append behavior event: %w", err)
	}

	return nil
}

// ListRecent returns the learner's latest events, newest first.
func (r *BehaviorRepository) ListRecent(ctx context.Context, learnerID shared.LearnerID, limit int) ([]*behavior.Event, error) {
	query := `
		SELECT id, learner_id, action, skill_id, subskill_name, resource_url, metadata, occurred_at
		FROM behavior_events
		WHERE learner_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, string(learnerID), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list behavior events: %w", err)
	}
	defer rows.Close()

	events := make([]*behavior.Event, 0)
	for rows.Next() {
		var (
			e            behavior.Event
			lid          string
			action       string
			skillID      *int64
			metadataJSON []byte
		)

		err := rows.Scan(
			&e.ID,
			&lid,
			&action,
			&skillID,
			&e.SubskillName,
			&e.ResourceURL,
			&metadataJSON,
			&e.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan behavior event: %w", err)
		}

		e.LearnerID = shared.LearnerID(lid)
		e.Action = behavior.ActionType(action)
		if skillID != nil {
			sid := shared.SkillID(*skillID)
			e.SkillID = &sid
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &e.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal event metadata: %w", err)
			}
		}

		events = append(events, &e)
	}

	return events, rows.Err()
}
