package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillsprint/skillsprint-backend/internal/domain/behavior"
	"github.com/skillsprint/skillsprint-backend/internal/domain/learner"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"
	"github.com/skillsprint/skillsprint-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE SUBSKILL COMMAND
// Marks a subskill as completed: recomputes progress, awards XP with the
// difficulty bonus, grants the completion bonus when the whole skill is
// done, logs the behavior event and advances the streak.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteSubskillCommand contains the data to complete a subskill.
type CompleteSubskillCommand struct {
	// LearnerID is the internal ID of the learner.
	LearnerID shared.LearnerID

	// SkillID is the skill the subskill belongs to.
	SkillID shared.SkillID

	// SubskillName is the subskill being completed.
	SubskillName string

	// DifficultyRating is the learner's subjective difficulty (1-5, 0 = not given).
	// Feeds the XP bonus.
	DifficultyRating int

	// Timestamp is when the action occurred (defaults to now if zero).
	Timestamp time.Time
}

// Validate validates the command.
func (c CompleteSubskillCommand) Validate() error {
	if c.LearnerID.IsEmpty() {
		return errors.New("complete_subskill: learner_id is required")
	}
	if !c.SkillID.IsValid() {
		return errors.New("complete_subskill: skill_id must be positive")
	}
	if strings.TrimSpace(c.SubskillName) == "" {
		return errors.New("complete_subskill: subskill_name is required")
	}
	if c.DifficultyRating < 0 || c.DifficultyRating > 5 {
		return errors.New("complete_subskill: difficulty_rating must be between 0 and 5")
	}
	return nil
}

// CompleteSubskillResult contains the result of completing a subskill.
type CompleteSubskillResult struct {
	// SkillID is the skill the subskill belongs to.
	SkillID shared.SkillID

	// SubskillName is the completed subskill.
	SubskillName string

	// AlreadyCompleted is true when the subskill was completed before.
	// No XP is awarded in that case.
	AlreadyCompleted bool

	// XPAwarded is the XP granted, completion bonus included.
	XPAwarded int

	// TotalXP is the learner's XP after the award.
	TotalXP shared.XP

	// SkillCompleted is true when this completion finished the whole skill.
	SkillCompleted bool

	// ProgressPercentage is the skill progress after the completion.
	ProgressPercentage shared.Percentage

	// Streak is the streak state after registering the activity.
	Streak learner.StreakUpdate
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// CompleteSubskillHandler handles the CompleteSubskillCommand.
type CompleteSubskillHandler struct {
	learnerRepo  learner.Repository
	skillRepo    skill.Repository
	progressRepo skill.ProgressRepository
	xpRepo       learner.XPTransactionRepository
	behaviorRepo behavior.Repository
	logger       *logger.Logger
}

// NewCompleteSubskillHandler creates a new CompleteSubskillHandler.
func NewCompleteSubskillHandler(
	learnerRepo learner.Repository,
	skillRepo skill.Repository,
	progressRepo skill.ProgressRepository,
	xpRepo learner.XPTransactionRepository,
	behaviorRepo behavior.Repository,
	log *logger.Logger,
) *CompleteSubskillHandler {
	if log == nil {
		log = logger.Default()
	}
	return &CompleteSubskillHandler{
		learnerRepo:  learnerRepo,
		skillRepo:    skillRepo,
		progressRepo: progressRepo,
		xpRepo:       xpRepo,
		behaviorRepo: behaviorRepo,
		logger:       log.With(logger.Component("complete_subskill")),
	}
}

// Handle executes the complete subskill command.
// Repeating a completion is a no-op: progress stays as is and no XP is awarded.
func (h *CompleteSubskillHandler) Handle(ctx context.Context, cmd CompleteSubskillCommand) (*CompleteSubskillResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("complete_subskill: validation failed: %w", err)
	}

	timestamp := cmd.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	l, err := h.learnerRepo.GetByID(ctx, cmd.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("complete_subskill: failed to get learner: %w", err)
	}

	s, err := h.skillRepo.GetByID(ctx, cmd.SkillID)
	if err != nil {
		return nil, fmt.Errorf("complete_subskill: failed to get skill: %w", err)
	}

	progress, err := h.progressRepo.Get(ctx, cmd.LearnerID, cmd.SkillID)
	if err != nil {
		return nil, fmt.Errorf("complete_subskill: failed to get progress: %w", err)
	}

	first, err := progress.CompleteSubskill(s, cmd.SubskillName)
	if err != nil {
		return nil, fmt.Errorf("complete_subskill: %w", err)
	}

	result := &CompleteSubskillResult{
		SkillID:            cmd.SkillID,
		SubskillName:       cmd.SubskillName,
		AlreadyCompleted:   !first,
		SkillCompleted:     progress.Completed,
		ProgressPercentage: progress.ProgressPercentage,
		TotalXP:            l.TotalXP,
	}
	if !first {
		return result, nil
	}

	if err := h.progressRepo.Update(ctx, progress); err != nil {
		return nil, fmt.Errorf("complete_subskill: failed to update progress: %w", err)
	}

	xp := learner.SubskillCompletionXP(cmd.DifficultyRating)
	if err := l.AwardXP(xp); err != nil {
		return nil, fmt.Errorf("complete_subskill: failed to award xp: %w", err)
	}
	h.appendXP(ctx, &learner.XPTransaction{
		ID:          uuid.NewString(),
		LearnerID:   cmd.LearnerID,
		Amount:      xp,
		Type:        learner.XPTransactionCompleteSubskill,
		Description: fmt.Sprintf("Completed %s in %s", cmd.SubskillName, s.Name),
		CreatedAt:   timestamp,
	})

	if progress.Completed {
		if err := l.AwardXP(learner.XPSkillCompletionBonus); err != nil {
			return nil, fmt.Errorf("complete_subskill: failed to award completion bonus: %w", err)
		}
		xp += learner.XPSkillCompletionBonus
		h.appendXP(ctx, &learner.XPTransaction{
			ID:          uuid.NewString(),
			LearnerID:   cmd.LearnerID,
			Amount:      learner.XPSkillCompletionBonus,
			Type:        learner.XPTransactionSkillBonus,
			Description: fmt.Sprintf("Completed all of %s", s.Name),
			CreatedAt:   timestamp,
		})
	}

	streak := l.RegisterActivity(timestamp)
	if err := h.learnerRepo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("complete_subskill: failed to update learner: %w", err)
	}

	skillID := cmd.SkillID
	event := &behavior.Event{
		ID:           uuid.NewString(),
		LearnerID:    cmd.LearnerID,
		Action:       behavior.ActionCompleteSubskill,
		SkillID:      &skillID,
		SubskillName: cmd.SubskillName,
		OccurredAt:   timestamp,
	}
	if err := h.behaviorRepo.Append(ctx, event); err != nil {
		h.logger.Warn("failed to append behavior event",
			logger.LearnerID(cmd.LearnerID.String()), logger.Err(err))
	}

	h.logger.Info("subskill completed",
		logger.LearnerID(cmd.LearnerID.String()),
		logger.SkillID(cmd.SkillID.Int64()),
		logger.Subskill(cmd.SubskillName),
		logger.XPAmount(xp),
		logger.Bool("skill_completed", progress.Completed),
	)

	result.XPAwarded = xp
	result.TotalXP = l.TotalXP
	result.SkillCompleted = progress.Completed
	result.ProgressPercentage = progress.ProgressPercentage
	result.Streak = streak
	return result, nil
}

func (h *CompleteSubskillHandler) appendXP(ctx context.Context, tx *learner.XPTransaction) {
	if err := h.xpRepo.Append(ctx, tx); err != nil {
		h.logger.Warn("failed to append xp transaction",
			logger.LearnerID(tx.LearnerID.String()), logger.Err(err))
	}
}
