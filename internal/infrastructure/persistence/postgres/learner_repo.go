package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/skillsprint/skillsprint-backend/internal/domain/learner"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEARNER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// LearnerRepository implements learner.Repository for PostgreSQL.
type LearnerRepository struct {
	conn *Connection
}

// NewLearnerRepository creates a new LearnerRepository.
func NewLearnerRepository(conn *Connection) *LearnerRepository {
	return &LearnerRepository{conn: conn}
}

// Create creates a new learner.
func (r *LearnerRepository) Create(ctx context.Context, l *learner.Learner) error {
	query := `
		INSERT INTO learners (
			id, email, password_hash, display_name, total_xp,
			current_streak, longest_streak, last_activity_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.conn.Exec(ctx, query,
		string(l.ID),
		l.Email,
		l.PasswordHash,
		l.DisplayName,
		int(l.TotalXP),
		l.CurrentStreak,
		l.LongestStreak,
		l.LastActivityAt,
		l.CreatedAt,
		l.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrLearnerAlreadyExists
		}
		return fmt.Errorf("failed to create learner: %w", err)
	}

	return nil
}

// GetByID returns a learner by internal ID.
func (r *LearnerRepository) GetByID(ctx context.Context, id shared.LearnerID) (*learner.Learner, error) {
	query := `
		SELECT id, email, password_hash, display_name, total_xp,
			   current_streak, longest_streak, last_activity_at, created_at, updated_at
		FROM learners
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, string(id))
	return r.scanLearner(row)
}

// GetByEmail returns a learner by email.
func (r *LearnerRepository) GetByEmail(ctx context.Context, email string) (*learner.Learner, error) {
	query := `
		SELECT id, email, password_hash, display_name, total_xp,
			   current_streak, longest_streak, last_activity_at, created_at, updated_at
		FROM learners
		WHERE email = $1
	`

	row := r.conn.QueryRow(ctx, query, email)
	return r.scanLearner(row)
}

// Update saves the mutable learner state (XP, streaks, last activity).
func (r *LearnerRepository) Update(ctx context.Context, l *learner.Learner) error {
	query := `
		UPDATE learners SET
			email = $1,
			password_hash = $2,
			display_name = $3,
			total_xp = $4,
			current_streak = $5,
			longest_streak = $6,
			last_activity_at = $7,
			updated_at = $8
		WHERE id = $9
	`

	result, err := r.conn.Exec(ctx, query,
		l.Email,
		l.PasswordHash,
		l.DisplayName,
		int(l.TotalXP),
		l.CurrentStreak,
		l.LongestStreak,
		l.LastActivityAt,
		time.Now().UTC(),
		string(l.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to update learner: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrLearnerNotFound
	}

	return nil
}

// ListIDs returns the IDs of all learners except the given one.
func (r *LearnerRepository) ListIDs(ctx context.Context, exclude shared.LearnerID) ([]shared.LearnerID, error) {
	query := `SELECT id FROM learners WHERE id <> $1 ORDER BY created_at`

	rows, err := r.conn.Query(ctx, query, string(exclude))
	if err != nil {
		return nil, fmt.Errorf("failed to list learner ids: %w", err)
	}
	defer rows.Close()

	ids := make([]shared.LearnerID, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan learner id: %w", err)
		}
		ids = append(ids, shared.LearnerID(id))
	}

	return ids, rows.Err()
}

// scanLearner scans a single learner row.
func (r *LearnerRepository) scanLearner(row pgx.Row) (*learner.Learner, error) {
	var (
		l              learner.Learner
		id             string
		totalXP        int
		lastActivityAt *time.Time
	)

	err := row.Scan(
		&id,
		&l.Email,
		&l.PasswordHash,
		&l.DisplayName,
		&totalXP,
		&l.CurrentStreak,
		&l.LongestStreak,
		&lastActivityAt,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrLearnerNotFound
		}
		return nil, fmt.Errorf("failed to scan learner: %w", err)
	}

	l.ID = shared.LearnerID(id)
	l.TotalXP = shared.XP(totalXP)
	l.LastActivityAt = lastActivityAt

	return &l, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// XP TRANSACTION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// XPTransactionRepository implements learner.XPTransactionRepository for PostgreSQL.
type XPTransactionRepository struct {
	conn *Connection
}

// NewXPTransactionRepository creates a new XPTransactionRepository.
func NewXPTransactionRepository(conn *Connection) *XPTransactionRepository {
	return &XPTransactionRepository{conn: conn}
}

// Append adds an XP ledger entry.
func (r *XPTransactionRepository) Append(ctx context.Context, tx *learner.XPTransaction) error {
	query := `
		INSERT INTO xp_transactions (id, learner_id, amount, type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.conn.Exec(ctx, query,
		tx.ID,
		string(tx.LearnerID),
		tx.Amount,
		string(tx.Type),
		tx.Description,
		tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append xp transaction: %w", err)
	}

	return nil
}

// ListRecent returns the learner's latest XP grants, newest first.
func (r *XPTransactionRepository) ListRecent(ctx context.Context, learnerID shared.LearnerID, limit int) ([]*learner.XPTransaction, error) {
	query := `
		SELECT id, learner_id, amount, type, description, created_at
		FROM xp_transactions
		WHERE learner_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, string(learnerID), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list xp transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]*learner.XPTransaction, 0)
	for rows.Next() {
		var (
			tx     learner.XPTransaction
			lid    string
			txType string
		)
		if err := rows.Scan(&tx.ID, &lid, &tx.Amount, &txType, &tx.Description, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan xp transaction: %w", err)
		}
		tx.LearnerID = shared.LearnerID(lid)
		tx.Type = learner.XPTransactionType(txType)
		txs = append(txs, &tx)
	}

	return txs, rows.Err()
}
