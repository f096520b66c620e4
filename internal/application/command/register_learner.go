// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillsprint/skillsprint-backend/internal/domain/learner"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER LEARNER COMMAND
// Creates a new learner account with a bcrypt password hash.
// ══════════════════════════════════════════════════════════════════════════════

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// RegisterLearnerCommand contains the data to register a learner.
type RegisterLearnerCommand struct {
	// Email is the login email (unique, lowercased on save).
	Email string

	// Password is the plaintext password. Never stored.
	Password string

	// DisplayName is the name shown on dashboards and leaderboards.
	DisplayName string
}

// Validate validates the command.
func (c RegisterLearnerCommand) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return errors.New("register_learner: email is required")
	}
	if len(c.Password) < MinPasswordLength {
		return fmt.Errorf("register_learner: password must be at least %d characters", MinPasswordLength)
	}
	if strings.TrimSpace(c.DisplayName) == "" {
		return errors.New("register_learner: display_name is required")
	}
	return nil
}

// RegisterLearnerResult contains the result of a registration.
type RegisterLearnerResult struct {
	// LearnerID is the ID of the new learner.
	LearnerID shared.LearnerID

	// Email is the normalized login email.
	Email string

	// DisplayName is the display name after trimming.
	DisplayName string
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RegisterLearnerHandler handles the RegisterLearnerCommand.
type RegisterLearnerHandler struct {
	learnerRepo learner.Repository
	logger      *logger.Logger

	bcryptCost int
}

// RegisterLearnerHandlerConfig contains configuration for the handler.
type RegisterLearnerHandlerConfig struct {
	BcryptCost int
}

// DefaultRegisterLearnerHandlerConfig returns default configuration.
func DefaultRegisterLearnerHandlerConfig() RegisterLearnerHandlerConfig {
	return RegisterLearnerHandlerConfig{
		BcryptCost: bcrypt.DefaultCost,
	}
}

// NewRegisterLearnerHandler creates a new RegisterLearnerHandler.
func NewRegisterLearnerHandler(
	learnerRepo learner.Repository,
	log *logger.Logger,
	config RegisterLearnerHandlerConfig,
) *RegisterLearnerHandler {
	if config.BcryptCost == 0 {
		config = DefaultRegisterLearnerHandlerConfig()
	}
	if log == nil {
		log = logger.Default()
	}

	return &RegisterLearnerHandler{
		learnerRepo: learnerRepo,
		logger:      log.With(logger.Component("register_learner")),
		bcryptCost:  config.BcryptCost,
	}
}

// Handle executes the register learner command.
func (h *RegisterLearnerHandler) Handle(ctx context.Context, cmd RegisterLearnerCommand) (*RegisterLearnerResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("register_learner: validation failed: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), h.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register_learner: failed to hash password: %w", err)
	}

	l, err := learner.NewLearner(learner.NewLearnerParams{
		ID:           shared.LearnerID(uuid.NewString()),
		Email:        cmd.Email,
		PasswordHash: string(hash),
		DisplayName:  cmd.DisplayName,
	})
	if err != nil {
		return nil, fmt.Errorf("register_learner: %w", err)
	}

	if err := h.learnerRepo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("register_learner: failed to create learner: %w", err)
	}

	h.logger.Info("learner registered",
		logger.LearnerID(l.ID.String()),
		logger.Email(l.Email),
	)

	return &RegisterLearnerResult{
		LearnerID:   l.ID,
		Email:       l.Email,
		DisplayName: l.DisplayName,
	}, nil
}
