package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/skillsprint/skillsprint-backend/internal/domain/learner"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATE LEARNER COMMAND
// Verifies email/password credentials. Token issuance belongs to the
// HTTP auth layer; this command only proves identity.
// ══════════════════════════════════════════════════════════════════════════════

// AuthenticateLearnerCommand contains login credentials.
type AuthenticateLearnerCommand struct {
	// Email is the login email.
	Email string

	// Password is the plaintext password to verify.
	Password string
}

// Validate validates the command.
func (c AuthenticateLearnerCommand) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return errors.New("authenticate_learner: email is required")
	}
	if c.Password == "" {
		return errors.New("authenticate_learner: password is required")
	}
	return nil
}

// AuthenticateLearnerResult contains the result of a successful login.
type AuthenticateLearnerResult struct {
	// LearnerID is the ID of the authenticated learner.
	LearnerID shared.LearnerID

	// Email is the normalized login email.
	Email string

	// DisplayName is the learner's display name.
	DisplayName string
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// AuthenticateLearnerHandler handles the AuthenticateLearnerCommand.
type AuthenticateLearnerHandler struct {
	learnerRepo learner.Repository
	logger      *logger.Logger
}

// NewAuthenticateLearnerHandler creates a new AuthenticateLearnerHandler.
func NewAuthenticateLearnerHandler(learnerRepo learner.Repository, log *logger.Logger) *AuthenticateLearnerHandler {
	if log == nil {
		log = logger.Default()
	}
	return &AuthenticateLearnerHandler{
		learnerRepo: learnerRepo,
		logger:      log.With(logger.Component("authenticate_learner")),
	}
}

// Handle executes the authenticate learner command.
// An unknown email and a wrong password both map to shared.ErrInvalidCredentials
// so the response does not reveal which accounts exist.
func (h *AuthenticateLearnerHandler) Handle(ctx context.Context, cmd AuthenticateLearnerCommand) (*AuthenticateLearnerResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("authenticate_learner: validation failed: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	l, err := h.learnerRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrLearnerNotFound) {
			return nil, fmt.Errorf("authenticate_learner: %w", shared.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("authenticate_learner: failed to get learner: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(l.PasswordHash), []byte(cmd.Password)); err != nil {
		h.logger.Warn("login rejected", logger.Email(email))
		return nil, fmt.Errorf("authenticate_learner: %w", shared.ErrInvalidCredentials)
	}

	return &AuthenticateLearnerResult{
		LearnerID:   l.ID,
		Email:       l.Email,
		DisplayName: l.DisplayName,
	}, nil
}
