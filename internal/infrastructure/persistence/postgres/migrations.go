package postgres

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations in order.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_learners",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_skills_and_progress",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_behavior_and_quizzes",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Migration 001: learners and the XP ledger
// ─────────────────────────────────────────────────────────────────────────────

const migration001Up = `
CREATE TABLE IF NOT EXISTS learners (
    id UUID PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    display_name TEXT NOT NULL,
    total_xp INTEGER NOT NULL DEFAULT 0,
    current_streak INTEGER NOT NULL DEFAULT 0,
    longest_streak INTEGER NOT NULL DEFAULT 0,
    last_activity_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_learners_email ON learners (email);

CREATE TABLE IF NOT EXISTS xp_transactions (
    id UUID PRIMARY KEY,
    learner_id UUID NOT NULL REFERENCES learners (id) ON DELETE CASCADE,
    amount INTEGER NOT NULL,
    type TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_xp_transactions_learner
    ON xp_transactions (learner_id, created_at DESC);
`

const migration001Down = `
DROP TABLE IF EXISTS xp_transactions;
DROP TABLE IF EXISTS learners;
`

// ─────────────────────────────────────────────────────────────────────────────
// Migration 002: skill catalog and per-learner progress
// ─────────────────────────────────────────────────────────────────────────────

const migration002Up = `
CREATE TABLE IF NOT EXISTS skills (
    id BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    parent_id BIGINT REFERENCES skills (id),
    subskills JSONB NOT NULL DEFAULT '[]',
    difficulty TEXT NOT NULL DEFAULT 'beginner',
    estimated_hours INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_skills_parent ON skills (parent_id);

CREATE TABLE IF NOT EXISTS skill_progress (
    learner_id UUID NOT NULL REFERENCES learners (id) ON DELETE CASCADE,
    skill_id BIGINT NOT NULL REFERENCES skills (id),
    progress_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    completed_subskills JSONB NOT NULL DEFAULT '[]',
    average_quiz_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    quiz_count INTEGER NOT NULL DEFAULT 0,
    started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (learner_id, skill_id)
);

CREATE INDEX IF NOT EXISTS idx_skill_progress_skill ON skill_progress (skill_id);
`

const migration002Down = `
DROP TABLE IF EXISTS skill_progress;
DROP TABLE IF EXISTS skills;
`

// ─────────────────────────────────────────────────────────────────────────────
// Migration 003: behavior event journal and quiz attempts
// ─────────────────────────────────────────────────────────────────────────────

const migration003Up = `
CREATE TABLE IF NOT EXISTS behavior_events (
    id UUID PRIMARY KEY,
    learner_id UUID NOT NULL REFERENCES learners (id) ON DELETE CASCADE,
    action TEXT NOT NULL,
    skill_id BIGINT,
    subskill_name TEXT NOT NULL DEFAULT '',
    resource_url TEXT NOT NULL DEFAULT '',
    metadata JSONB NOT NULL DEFAULT '{}',
    occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_behavior_events_learner
    ON behavior_events (learner_id, occurred_at DESC);

CREATE TABLE IF NOT EXISTS quiz_attempts (
    id UUID PRIMARY KEY,
    learner_id UUID NOT NULL REFERENCES learners (id) ON DELETE CASCADE,
    skill_id BIGINT NOT NULL REFERENCES skills (id),
    difficulty TEXT NOT NULL,
    questions JSONB NOT NULL DEFAULT '[]',
    answers JSONB NOT NULL DEFAULT '[]',
    score INTEGER NOT NULL DEFAULT 0,
    total_questions INTEGER NOT NULL DEFAULT 0,
    time_taken_seconds INTEGER NOT NULL DEFAULT 0,
    completed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_quiz_attempts_learner
    ON quiz_attempts (learner_id, completed_at DESC);
CREATE INDEX IF NOT EXISTS idx_quiz_attempts_skill
    ON quiz_attempts (learner_id, skill_id, completed_at DESC);
`

const migration003Down = `
DROP TABLE IF EXISTS quiz_attempts;
DROP TABLE IF EXISTS behavior_events;
`
