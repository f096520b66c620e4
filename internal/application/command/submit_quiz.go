package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skillsprint/skillsprint-backend/internal/domain/behavior"
	"github.com/skillsprint/skillsprint-backend/internal/domain/learner"
	"github.com/skillsprint/skillsprint-backend/internal/domain/quiz"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"
	"github.com/skillsprint/skillsprint-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT QUIZ COMMAND
// Grades a finished quiz, stores the attempt, awards XP, updates the
// skill's average quiz score and advances the streak. The stored attempt
// feeds the adaptive difficulty adjuster.
// ══════════════════════════════════════════════════════════════════════════════

// XP rules for graded quizzes.
const (
	// XPPerCorrectAnswer - XP for each correct answer.
	XPPerCorrectAnswer = 10

	// XPPerfectScoreBonus - extra XP when every answer is correct.
	XPPerfectScoreBonus = 20

	// ExpectedSecondsPerQuestion - pace used for the speed bonus.
	ExpectedSecondsPerQuestion = 120

	// SpeedBonusDivisor - seconds saved per 1 XP of speed bonus.
	SpeedBonusDivisor = 30

	// MaxSpeedBonus - cap on the speed bonus.
	MaxSpeedBonus = 10
)

// SubmitQuizCommand contains a finished quiz to grade.
type SubmitQuizCommand struct {
	// LearnerID is the internal ID of the learner.
	LearnerID shared.LearnerID

	// SkillID is the skill the quiz covered.
	SkillID shared.SkillID

	// Difficulty is the tier the quiz was served at.
	Difficulty shared.Difficulty

	// Questions are the questions as served.
	Questions []quiz.Question

	// Answers are the learner's chosen option indexes, aligned with Questions.
	Answers []int

	// TimeTakenSeconds is how long the quiz took.
	TimeTakenSeconds int

	// Timestamp is when the quiz was submitted (defaults to now if zero).
	Timestamp time.Time
}

// Validate validates the command.
func (c SubmitQuizCommand) Validate() error {
	if c.LearnerID.IsEmpty() {
		return errors.New("submit_quiz: learner_id is required")
	}
	if !c.SkillID.IsValid() {
		return errors.New("submit_quiz: skill_id must be positive")
	}
	if len(c.Questions) == 0 {
		return errors.New("submit_quiz: questions are required")
	}
	if len(c.Answers) > len(c.Questions) {
		return errors.New("submit_quiz: more answers than questions")
	}
	if c.TimeTakenSeconds < 0 {
		return errors.New("submit_quiz: time_taken_seconds cannot be negative")
	}
	return nil
}

// SubmitQuizResult contains the graded quiz.
type SubmitQuizResult struct {
	// AttemptID is the ID of the stored attempt.
	AttemptID string

	// Score is the number of correct answers.
	Score int

	// TotalQuestions is the number of questions served.
	TotalQuestions int

	// Passed is true when the ratio reached the passing bar.
	Passed bool

	// XPAwarded is the XP granted, bonuses included.
	XPAwarded int

	// TotalXP is the learner's XP after the award.
	TotalXP shared.XP

	// AverageQuizScore is the skill's running average after this attempt.
	AverageQuizScore float64

	// Streak is the streak state after registering the activity.
	Streak learner.StreakUpdate
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// SubmitQuizHandler handles the SubmitQuizCommand.
type SubmitQuizHandler struct {
	learnerRepo  learner.Repository
	progressRepo skill.ProgressRepository
	quizRepo     quiz.Repository
	xpRepo       learner.XPTransactionRepository
	behaviorRepo behavior.Repository
	logger       *logger.Logger
}

// NewSubmitQuizHandler creates a new SubmitQuizHandler.
func NewSubmitQuizHandler(
	learnerRepo learner.Repository,
	progressRepo skill.ProgressRepository,
	quizRepo quiz.Repository,
	xpRepo learner.XPTransactionRepository,
	behaviorRepo behavior.Repository,
	log *logger.Logger,
) *SubmitQuizHandler {
	if log == nil {
		log = logger.Default()
	}
	return &SubmitQuizHandler{
		learnerRepo:  learnerRepo,
		progressRepo: progressRepo,
		quizRepo:     quizRepo,
		xpRepo:       xpRepo,
		behaviorRepo: behaviorRepo,
		logger:       log.With(logger.Component("submit_quiz")),
	}
}

// Handle executes the submit quiz command.
func (h *SubmitQuizHandler) Handle(ctx context.Context, cmd SubmitQuizCommand) (*SubmitQuizResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("submit_quiz: validation failed: %w", err)
	}

	timestamp := cmd.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	l, err := h.learnerRepo.GetByID(ctx, cmd.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("submit_quiz: failed to get learner: %w", err)
	}

	progress, err := h.progressRepo.Get(ctx, cmd.LearnerID, cmd.SkillID)
	if err != nil {
		return nil, fmt.Errorf("submit_quiz: failed to get progress: %w", err)
	}

	attempt, err := quiz.NewAttempt(quiz.NewAttemptParams{
		ID:               uuid.NewString(),
		LearnerID:        cmd.LearnerID,
		SkillID:          cmd.SkillID,
		Difficulty:       cmd.Difficulty,
		Questions:        cmd.Questions,
		Answers:          cmd.Answers,
		TimeTakenSeconds: cmd.TimeTakenSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("submit_quiz: %w", err)
	}
	if err := h.quizRepo.Append(ctx, attempt); err != nil {
		return nil, fmt.Errorf("submit_quiz: failed to append attempt: %w", err)
	}

	progress.RecordQuizScore(attempt.Ratio())
	if err := h.progressRepo.Update(ctx, progress); err != nil {
		return nil, fmt.Errorf("submit_quiz: failed to update progress: %w", err)
	}

	xp := QuizXP(attempt.Score, attempt.TotalQuestions, attempt.TimeTakenSeconds)
	if err := l.AwardXP(xp); err != nil {
		return nil, fmt.Errorf("submit_quiz: failed to award xp: %w", err)
	}
	streak := l.RegisterActivity(timestamp)
	if err := h.learnerRepo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("submit_quiz: failed to update learner: %w", err)
	}

	xpTx := &learner.XPTransaction{
		ID:          uuid.NewString(),
		LearnerID:   cmd.LearnerID,
		Amount:      xp,
		Type:        learner.XPTransactionQuiz,
		Description: fmt.Sprintf("Quiz: %d/%d correct", attempt.Score, attempt.TotalQuestions),
		CreatedAt:   timestamp,
	}
	if err := h.xpRepo.Append(ctx, xpTx); err != nil {
		h.logger.Warn("failed to append xp transaction",
			logger.LearnerID(cmd.LearnerID.String()), logger.Err(err))
	}

	skillID := cmd.SkillID
	event := &behavior.Event{
		ID:        uuid.NewString(),
		LearnerID: cmd.LearnerID,
		Action:    behavior.ActionCompleteQuiz,
		SkillID:   &skillID,
		Metadata: map[string]string{
			"score": fmt.Sprintf("%d/%d", attempt.Score, attempt.TotalQuestions),
		},
		OccurredAt: timestamp,
	}
	if err := h.behaviorRepo.Append(ctx, event); err != nil {
		h.logger.Warn("failed to append behavior event",
			logger.LearnerID(cmd.LearnerID.String()), logger.Err(err))
	}

	h.logger.Info("quiz submitted",
		logger.LearnerID(cmd.LearnerID.String()),
		logger.SkillID(cmd.SkillID.Int64()),
		logger.QuizScore(attempt.Ratio()),
		logger.XPAmount(xp),
	)

	return &SubmitQuizResult{
		AttemptID:        attempt.ID,
		Score:            attempt.Score,
		TotalQuestions:   attempt.TotalQuestions,
		Passed:           attempt.Passed(),
		XPAwarded:        xp,
		TotalXP:          l.TotalXP,
		AverageQuizScore: progress.AverageQuizScore,
		Streak:           streak,
	}, nil
}

// QuizXP computes the XP for a graded quiz: 10 per correct answer,
// +20 for a perfect score, plus a speed bonus of 1 XP per 30 seconds
// saved against a 2-minute-per-question pace, capped at 10.
func QuizXP(score, totalQuestions, timeTakenSeconds int) int {
	xp := score * XPPerCorrectAnswer

	if totalQuestions > 0 && score == totalQuestions {
		xp += XPPerfectScoreBonus
	}

	expected := totalQuestions * ExpectedSecondsPerQuestion
	if timeTakenSeconds < expected {
		bonus := (expected - timeTakenSeconds) / SpeedBonusDivisor
		if bonus > MaxSpeedBonus {
			bonus = MaxSpeedBonus
		}
		xp += bonus
	}

	return xp
}
