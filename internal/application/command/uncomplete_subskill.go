package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillsprint/skillsprint-backend/internal/domain/behavior"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"
	"github.com/skillsprint/skillsprint-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNCOMPLETE SUBSKILL COMMAND
// Removes a completion mark and recomputes progress. XP already awarded
// for the completion is kept; the log stays append-only.
// ══════════════════════════════════════════════════════════════════════════════

// UncompleteSubskillCommand contains the data to undo a subskill completion.
type UncompleteSubskillCommand struct {
	// LearnerID is the internal ID of the learner.
	LearnerID shared.LearnerID

	// SkillID is the skill the subskill belongs to.
	SkillID shared.SkillID

	// SubskillName is the subskill to unmark.
	SubskillName string

	// Timestamp is when the action occurred (defaults to now if zero).
	Timestamp time.Time
}

// Validate validates the command.
func (c UncompleteSubskillCommand) Validate() error {
	if c.LearnerID.IsEmpty() {
		return errors.New("uncomplete_subskill: learner_id is required")
	}
	if !c.SkillID.IsValid() {
		return errors.New("uncomplete_subskill: skill_id must be positive")
	}
	if strings.TrimSpace(c.SubskillName) == "" {
		return errors.New("uncomplete_subskill: subskill_name is required")
	}
	return nil
}

// UncompleteSubskillResult contains the state after the undo.
type UncompleteSubskillResult struct {
	// SkillID is the skill the subskill belongs to.
	SkillID shared.SkillID

	// SubskillName is the unmarked subskill.
	SubskillName string

	// ProgressPercentage is the skill progress after the undo.
	ProgressPercentage shared.Percentage

	// SkillCompleted is the completion flag after the undo (always false
	// when the subskill was actually unmarked).
	SkillCompleted bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// UncompleteSubskillHandler handles the UncompleteSubskillCommand.
type UncompleteSubskillHandler struct {
	skillRepo    skill.Repository
	progressRepo skill.ProgressRepository
	behaviorRepo behavior.Repository
	logger       *logger.Logger
}

// NewUncompleteSubskillHandler creates a new UncompleteSubskillHandler.
func NewUncompleteSubskillHandler(
	skillRepo skill.Repository,
	progressRepo skill.ProgressRepository,
	behaviorRepo behavior.Repository,
	log *logger.Logger,
) *UncompleteSubskillHandler {
	if log == nil {
		log = logger.Default()
	}
	return &UncompleteSubskillHandler{
		skillRepo:    skillRepo,
		progressRepo: progressRepo,
		behaviorRepo: behaviorRepo,
		logger:       log.With(logger.Component("uncomplete_subskill")),
	}
}

// Handle executes the uncomplete subskill command.
func (h *UncompleteSubskillHandler) Handle(ctx context.Context, cmd UncompleteSubskillCommand) (*UncompleteSubskillResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("uncomplete_subskill: validation failed: %w", err)
	}

	timestamp := cmd.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	s, err := h.skillRepo.GetByID(ctx, cmd.SkillID)
	if err != nil {
		return nil, fmt.Errorf("uncomplete_subskill: failed to get skill: %w", err)
	}

	progress, err := h.progressRepo.Get(ctx, cmd.LearnerID, cmd.SkillID)
	if err != nil {
		return nil, fmt.Errorf("uncomplete_subskill: failed to get progress: %w", err)
	}

	progress.UncompleteSubskill(s, cmd.SubskillName)
	if err := h.progressRepo.Update(ctx, progress); err != nil {
		return nil, fmt.Errorf("uncomplete_subskill: failed to update progress: %w", err)
	}

	skillID := cmd.SkillID
	event := &behavior.Event{
		ID:           uuid.NewString(),
		LearnerID:    cmd.LearnerID,
		Action:       behavior.ActionUncompleteSubskill,
		SkillID:      &skillID,
		SubskillName: cmd.SubskillName,
		OccurredAt:   timestamp,
	}
	if err := h.behaviorRepo.Append(ctx, event); err != nil {
		h.logger.Warn("failed to append behavior event",
			logger.LearnerID(cmd.LearnerID.String()), logger.Err(err))
	}

	return &UncompleteSubskillResult{
		SkillID:            cmd.SkillID,
		SubskillName:       cmd.SubskillName,
		ProgressPercentage: progress.ProgressPercentage,
		SkillCompleted:     progress.Completed,
	}, nil
}
