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
	"github.com/skillsprint/skillsprint-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// TRACK INTERACTION COMMAND
// Appends a record to the behavior log. The log is the single input of the
// behavior analyzer, so every learning surface reports through this command.
// ══════════════════════════════════════════════════════════════════════════════

// TrackInteractionCommand contains the data of one learner action.
type TrackInteractionCommand struct {
	// LearnerID is the internal ID of the learner.
	LearnerID shared.LearnerID

	// Action is the behavior action type.
	Action behavior.ActionType

	// SkillID is the related skill (nil when not applicable).
	SkillID *shared.SkillID

	// SubskillName is the related subskill (empty when not applicable).
	SubskillName string

	// ResourceURL is the related resource (empty when not applicable).
	ResourceURL string

	// ResourceType is the type of the viewed resource, stored in metadata.
	// Feeds the learning-style classification.
	ResourceType string

	// Metadata contains additional action-specific data.
	Metadata map[string]string

	// Timestamp is when the action occurred (defaults to now if zero).
	Timestamp time.Time
}

// Validate validates the command.
func (c TrackInteractionCommand) Validate() error {
	if c.LearnerID.IsEmpty() {
		return errors.New("track_interaction: learner_id is required")
	}
	if !c.Action.IsValid() {
		return fmt.Errorf("track_interaction: unknown action type: %s", c.Action)
	}
	if c.Action == behavior.ActionViewResource && c.ResourceURL == "" {
		return errors.New("track_interaction: resource_url is required for view_resource")
	}
	if c.SkillID != nil && !c.SkillID.IsValid() {
		return errors.New("track_interaction: skill_id must be positive")
	}
	return nil
}

// TrackInteractionResult contains the result of tracking an interaction.
type TrackInteractionResult struct {
	// EventID is the ID of the appended log record.
	EventID string

	// Streak is the streak state after registering the activity.
	Streak learner.StreakUpdate

	// RecordedAt is when the action was recorded.
	RecordedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// TrackInteractionHandler handles the TrackInteractionCommand.
type TrackInteractionHandler struct {
	learnerRepo  learner.Repository
	behaviorRepo behavior.Repository
	logger       *logger.Logger
}

// NewTrackInteractionHandler creates a new TrackInteractionHandler.
func NewTrackInteractionHandler(
	learnerRepo learner.Repository,
	behaviorRepo behavior.Repository,
	log *logger.Logger,
) *TrackInteractionHandler {
	if log == nil {
		log = logger.Default()
	}
	return &TrackInteractionHandler{
		learnerRepo:  learnerRepo,
		behaviorRepo: behaviorRepo,
		logger:       log.With(logger.Component("track_interaction")),
	}
}

// Handle executes the track interaction command.
func (h *TrackInteractionHandler) Handle(ctx context.Context, cmd TrackInteractionCommand) (*TrackInteractionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("track_interaction: validation failed: %w", err)
	}

	timestamp := cmd.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	l, err := h.learnerRepo.GetByID(ctx, cmd.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("track_interaction: failed to get learner: %w", err)
	}

	metadata := make(map[string]string, len(cmd.Metadata)+1)
	for k, v := range cmd.Metadata {
		metadata[k] = v
	}
	if cmd.ResourceType != "" {
		metadata[behavior.MetadataResourceType] = cmd.ResourceType
	}

	event := &behavior.Event{
		ID:           uuid.NewString(),
		LearnerID:    cmd.LearnerID,
		Action:       cmd.Action,
		SkillID:      cmd.SkillID,
		SubskillName: cmd.SubskillName,
		ResourceURL:  cmd.ResourceURL,
		Metadata:     metadata,
		OccurredAt:   timestamp,
	}
	if err := h.behaviorRepo.Append(ctx, event); err != nil {
		return nil, fmt.Errorf("track_interaction: failed to append event: %w", err)
	}

	streak := l.RegisterActivity(timestamp)
	if err := h.learnerRepo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("track_interaction: failed to update learner: %w", err)
	}

	h.logger.Debug("interaction tracked",
		logger.LearnerID(cmd.LearnerID.String()),
		logger.String("action", string(cmd.Action)),
	)

	return &TrackInteractionResult{
		EventID:    event.ID,
		Streak:     streak,
		RecordedAt: timestamp,
	}, nil
}
