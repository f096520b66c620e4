package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skillsprint/skillsprint-backend/internal/domain/behavior"
	"github.com/skillsprint/skillsprint-backend/internal/domain/learner"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"
	"github.com/skillsprint/skillsprint-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// START SKILL COMMAND
// Begins learning a skill: creates the progress record, awards the
// start-skill XP, logs the behavior event and advances the streak.
// ══════════════════════════════════════════════════════════════════════════════

// StartSkillCommand contains the data to start learning a skill.
type StartSkillCommand struct {
	// LearnerID is the internal ID of the learner.
	LearnerID shared.LearnerID

	// SkillID is the skill to start.
	SkillID shared.SkillID

	// Timestamp is when the action occurred (defaults to now if zero).
	Timestamp time.Time
}

// Validate validates the command.
func (c StartSkillCommand) Validate() error {
	if c.LearnerID.IsEmpty() {
		return errors.New("start_skill: learner_id is required")
	}
	if !c.SkillID.IsValid() {
		return errors.New("start_skill: skill_id must be positive")
	}
	return nil
}

// StartSkillResult contains the result of starting a skill.
type StartSkillResult struct {
	// SkillID is the skill that was started.
	SkillID shared.SkillID

	// SkillName is the catalog name of the skill.
	SkillName string

	// XPAwarded is the XP granted for starting.
	XPAwarded int

	// TotalXP is the learner's XP after the award.
	TotalXP shared.XP

	// Streak is the streak state after registering the activity.
	Streak learner.StreakUpdate

	// StartedAt is when the progress record was created.
	StartedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// StartSkillHandler handles the StartSkillCommand.
type StartSkillHandler struct {
	learnerRepo  learner.Repository
	skillRepo    skill.Repository
	progressRepo skill.ProgressRepository
	xpRepo       learner.XPTransactionRepository
	behaviorRepo behavior.Repository
	logger       *logger.Logger
}

// NewStartSkillHandler creates a new StartSkillHandler.
func NewStartSkillHandler(
	learnerRepo learner.Repository,
	skillRepo skill.Repository,
	progressRepo skill.ProgressRepository,
	xpRepo learner.XPTransactionRepository,
	behaviorRepo behavior.Repository,
	log *logger.Logger,
) *StartSkillHandler {
	if log == nil {
		log = logger.Default()
	}
	return &StartSkillHandler{
		learnerRepo:  learnerRepo,
		skillRepo:    skillRepo,
		progressRepo: progressRepo,
		xpRepo:       xpRepo,
		behaviorRepo: behaviorRepo,
		logger:       log.With(logger.Component("start_skill")),
	}
}

// Handle executes the start skill command.
func (h *StartSkillHandler) Handle(ctx context.Context, cmd StartSkillCommand) (*StartSkillResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("start_skill: validation failed: %w", err)
	}

	timestamp := cmd.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	l, err := h.learnerRepo.GetByID(ctx, cmd.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("start_skill: failed to get learner: %w", err)
	}

	s, err := h.skillRepo.GetByID(ctx, cmd.SkillID)
	if err != nil {
		return nil, fmt.Errorf("start_skill: failed to get skill: %w", err)
	}

	progress, err := skill.NewProgress(cmd.LearnerID, cmd.SkillID)
	if err != nil {
		return nil, fmt.Errorf("start_skill: %w", err)
	}
	if err := h.progressRepo.Create(ctx, progress); err != nil {
		// shared.ErrSkillStarted passes through for the 409 mapping.
		return nil, fmt.Errorf("start_skill: failed to create progress: %w", err)
	}

	if err := l.AwardXP(learner.XPStartSkill); err != nil {
		return nil, fmt.Errorf("start_skill: failed to award xp: %w", err)
	}
	streak := l.RegisterActivity(timestamp)

	if err := h.learnerRepo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("start_skill: failed to update learner: %w", err)
	}

	xpTx := &learner.XPTransaction{
		ID:          uuid.NewString(),
		LearnerID:   cmd.LearnerID,
		Amount:      learner.XPStartSkill,
		Type:        learner.XPTransactionStartSkill,
		Description: fmt.Sprintf("Started learning %s", s.Name),
		CreatedAt:   timestamp,
	}
	if err := h.xpRepo.Append(ctx, xpTx); err != nil {
		h.logger.Warn("failed to append xp transaction",
			logger.LearnerID(cmd.LearnerID.String()), logger.Err(err))
	}

	skillID := cmd.SkillID
	event := &behavior.Event{
		ID:         uuid.NewString(),
		LearnerID:  cmd.LearnerID,
		Action:     behavior.ActionStartSkill,
		SkillID:    &skillID,
		OccurredAt: timestamp,
	}
	if err := h.behaviorRepo.Append(ctx, event); err != nil {
		h.logger.Warn("failed to append behavior event",
			logger.LearnerID(cmd.LearnerID.String()), logger.Err(err))
	}

	h.logger.Info("skill started",
		logger.LearnerID(cmd.LearnerID.String()),
		logger.SkillID(cmd.SkillID.Int64()),
		logger.XPAmount(learner.XPStartSkill),
	)

	return &StartSkillResult{
		SkillID:   cmd.SkillID,
		SkillName: s.Name,
		XPAwarded: learner.XPStartSkill,
		TotalXP:   l.TotalXP,
		Streak:    streak,
		StartedAt: progress.StartedAt,
	}, nil
}
