package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillsprint/skillsprint-backend/internal/domain/behavior"
	"github.com/skillsprint/skillsprint-backend/internal/domain/learner"
	"github.com/skillsprint/skillsprint-backend/internal/domain/quiz"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"
)

// ──────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ──────────────────────────────────────────────────────────────────────────────

type memLearnerRepo struct {
	byID    map[shared.LearnerID]*learner.Learner
	byEmail map[string]*learner.Learner
}

func newMemLearnerRepo() *memLearnerRepo {
	return &memLearnerRepo{
		byID:    make(map[shared.LearnerID]*learner.Learner),
		byEmail: make(map[string]*learner.Learner),
	}
}

func (r *memLearnerRepo) Create(_ context.Context, l *learner.Learner) error {
	if _, ok := r.byEmail[l.Email]; ok {
		return shared.ErrLearnerAlreadyExists
	}
	r.byID[l.ID] = l
	r.byEmail[l.Email] = l
	return nil
}

func (r *memLearnerRepo) GetByID(_ context.Context, id shared.LearnerID) (*learner.Learner, error) {
	l, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrLearnerNotFound
	}
	return l, nil
}

func (r *memLearnerRepo) GetByEmail(_ context.Context, email string) (*learner.Learner, error) {
	l, ok := r.byEmail[email]
	if !ok {
		return nil, shared.ErrLearnerNotFound
	}
	return l, nil
}

func (r *memLearnerRepo) Update(_ context.Context, l *learner.Learner) error {
	if _, ok := r.byID[l.ID]; !ok {
		return shared.ErrLearnerNotFound
	}
	r.byID[l.ID] = l
	return nil
}

func (r *memLearnerRepo) ListIDs(_ context.Context, exclude shared.LearnerID) ([]shared.LearnerID, error) {
	ids := make([]shared.LearnerID, 0, len(r.byID))
	for id := range r.byID {
		if id != exclude {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type memSkillRepo struct {
	skills map[shared.SkillID]*skill.Skill
}

func newMemSkillRepo(skills ...*skill.Skill) *memSkillRepo {
	r := &memSkillRepo{skills: make(map[shared.SkillID]*skill.Skill)}
	for _, s := range skills {
		r.skills[s.ID] = s
	}
	return r
}

func (r *memSkillRepo) GetByID(_ context.Context, id shared.SkillID) (*skill.Skill, error) {
	s, ok := r.skills[id]
	if !ok {
		return nil, shared.ErrSkillNotFound
	}
	return s, nil
}

func (r *memSkillRepo) GetByIDs(_ context.Context, ids []shared.SkillID) ([]*skill.Skill, error) {
	found := make([]*skill.Skill, 0, len(ids))
	for _, id := range ids {
		if s, ok := r.skills[id]; ok {
			found = append(found, s)
		}
	}
	return found, nil
}

func (r *memSkillRepo) List(_ context.Context) ([]*skill.Skill, error) {
	all := make([]*skill.Skill, 0, len(r.skills))
	for _, s := range r.skills {
		all = append(all, s)
	}
	return all, nil
}

func (r *memSkillRepo) ListByParent(_ context.Context, parentID shared.SkillID) ([]*skill.Skill, error) {
	children := make([]*skill.Skill, 0)
	for _, s := range r.skills {
		if s.ParentID != nil && *s.ParentID == parentID {
			children = append(children, s)
		}
	}
	return children, nil
}

func (r *memSkillRepo) Create(_ context.Context, s *skill.Skill) error {
	r.skills[s.ID] = s
	return nil
}

type progressKey struct {
	learnerID shared.LearnerID
	skillID   shared.SkillID
}

type memProgressRepo struct {
	progress map[progressKey]*skill.Progress
}

func newMemProgressRepo() *memProgressRepo {
	return &memProgressRepo{progress: make(map[progressKey]*skill.Progress)}
}

func (r *memProgressRepo) Get(_ context.Context, learnerID shared.LearnerID, skillID shared.SkillID) (*skill.Progress, error) {
	p, ok := r.progress[progressKey{learnerID, skillID}]
	if !ok {
		return nil, shared.ErrProgressNotFound
	}
	return p, nil
}

func (r *memProgressRepo) ListByLearner(_ context.Context, learnerID shared.LearnerID) ([]*skill.Progress, error) {
	list := make([]*skill.Progress, 0)
	for k, p := range r.progress {
		if k.learnerID == learnerID {
			list = append(list, p)
		}
	}
	return list, nil
}

func (r *memProgressRepo) Create(_ context.Context, p *skill.Progress) error {
	key := progressKey{p.LearnerID, p.SkillID}
	if _, ok := r.progress[key]; ok {
		return shared.ErrSkillStarted
	}
	r.progress[key] = p
	return nil
}

func (r *memProgressRepo) Update(_ context.Context, p *skill.Progress) error {
	r.progress[progressKey{p.LearnerID, p.SkillID}] = p
	return nil
}

func (r *memProgressRepo) CountLearnersBySkill(_ context.Context) (map[shared.SkillID]int, error) {
	counts := make(map[shared.SkillID]int)
	for k := range r.progress {
		counts[k.skillID]++
	}
	return counts, nil
}

type memXPRepo struct {
	transactions []*learner.XPTransaction
}

func (r *memXPRepo) Append(_ context.Context, tx *learner.XPTransaction) error {
	r.transactions = append(r.transactions, tx)
	return nil
}

func (r *memXPRepo) ListRecent(_ context.Context, learnerID shared.LearnerID, limit int) ([]*learner.XPTransaction, error) {
	list := make([]*learner.XPTransaction, 0)
	for i := len(r.transactions) - 1; i >= 0 && len(list) < limit; i-- {
		if r.transactions[i].LearnerID == learnerID {
			list = append(list, r.transactions[i])
		}
	}
	return list, nil
}

type memBehaviorRepo struct {
	events []*behavior.Event
}

func (r *memBehaviorRepo) Append(_ context.Context, e *behavior.Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *memBehaviorRepo) ListRecent(_ context.Context, learnerID shared.LearnerID, limit int) ([]*behavior.Event, error) {
	list := make([]*behavior.Event, 0)
	for i := len(r.events) - 1; i >= 0 && len(list) < limit; i-- {
		if r.events[i].LearnerID == learnerID {
			list = append(list, r.events[i])
		}
	}
	return list, nil
}

type memQuizRepo struct {
	attempts []*quiz.Attempt
}

func (r *memQuizRepo) Append(_ context.Context, a *quiz.Attempt) error {
	r.attempts = append(r.attempts, a)
	return nil
}

func (r *memQuizRepo) ListRecentByLearner(_ context.Context, learnerID shared.LearnerID, limit int) ([]*quiz.Attempt, error) {
	list := make([]*quiz.Attempt, 0)
	for i := len(r.attempts) - 1; i >= 0 && len(list) < limit; i-- {
		if r.attempts[i].LearnerID == learnerID {
			list = append(list, r.attempts[i])
		}
	}
	return list, nil
}

func (r *memQuizRepo) ListRecentBySkill(_ context.Context, learnerID shared.LearnerID, skillID shared.SkillID, limit int) ([]*quiz.Attempt, error) {
	list := make([]*quiz.Attempt, 0)
	for i := len(r.attempts) - 1; i >= 0 && len(list) < limit; i-- {
		if r.attempts[i].LearnerID == learnerID && r.attempts[i].SkillID == skillID {
			list = append(list, r.attempts[i])
		}
	}
	return list, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

const testLearnerID = shared.LearnerID("11111111-1111-1111-1111-111111111111")

func seedLearner(t *testing.T, repo *memLearnerRepo) *learner.Learner {
	t.Helper()
	l, err := learner.NewLearner(learner.NewLearnerParams{
		ID:           testLearnerID,
		Email:        "alice@example.com",
		PasswordHash: "$2a$04$notarealhashnotarealhashno",
		DisplayName:  "Alice",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), l))
	return l
}

func goSkill() *skill.Skill {
	return &skill.Skill{
		ID:          shared.SkillID(1),
		Name:        "Go",
		Description: "The Go programming language",
		Subskills:   []string{"Syntax", "Concurrency", "Testing"},
		Difficulty:  shared.DifficultyBeginner,
		CreatedAt:   time.Now().UTC(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Register / authenticate
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterLearner_CreatesAccount(t *testing.T) {
	repo := newMemLearnerRepo()
	h := NewRegisterLearnerHandler(repo, nil, RegisterLearnerHandlerConfig{BcryptCost: bcrypt.MinCost})

	result, err := h.Handle(context.Background(), RegisterLearnerCommand{
		Email:       "Bob@Example.com",
		Password:    "hunter2hunter2",
		DisplayName: "Bob",
	})
	require.NoError(t, err)

	assert.Equal(t, "bob@example.com", result.Email)
	assert.NotEmpty(t, result.LearnerID)

	stored, err := repo.GetByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2hunter2")))
}

func TestRegisterLearner_DuplicateEmail(t *testing.T) {
	repo := newMemLearnerRepo()
	h := NewRegisterLearnerHandler(repo, nil, RegisterLearnerHandlerConfig{BcryptCost: bcrypt.MinCost})

	cmd := RegisterLearnerCommand{Email: "bob@example.com", Password: "hunter2hunter2", DisplayName: "Bob"}
	_, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)

	_, err = h.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, shared.ErrLearnerAlreadyExists)
}

func TestRegisterLearner_ShortPasswordRejected(t *testing.T) {
	h := NewRegisterLearnerHandler(newMemLearnerRepo(), nil, RegisterLearnerHandlerConfig{BcryptCost: bcrypt.MinCost})

	_, err := h.Handle(context.Background(), RegisterLearnerCommand{
		Email:       "bob@example.com",
		Password:    "short",
		DisplayName: "Bob",
	})
	assert.Error(t, err)
}

func TestAuthenticateLearner_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	repo := newMemLearnerRepo()
	reg := NewRegisterLearnerHandler(repo, nil, RegisterLearnerHandlerConfig{BcryptCost: bcrypt.MinCost})
	_, err := reg.Handle(context.Background(), RegisterLearnerCommand{
		Email:       "bob@example.com",
		Password:    "hunter2hunter2",
		DisplayName: "Bob",
	})
	require.NoError(t, err)

	h := NewAuthenticateLearnerHandler(repo, nil)

	_, err = h.Handle(context.Background(), AuthenticateLearnerCommand{Email: "bob@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = h.Handle(context.Background(), AuthenticateLearnerCommand{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateLearner_Success(t *testing.T) {
	repo := newMemLearnerRepo()
	reg := NewRegisterLearnerHandler(repo, nil, RegisterLearnerHandlerConfig{BcryptCost: bcrypt.MinCost})
	_, err := reg.Handle(context.Background(), RegisterLearnerCommand{
		Email:       "bob@example.com",
		Password:    "hunter2hunter2",
		DisplayName: "Bob",
	})
	require.NoError(t, err)

	h := NewAuthenticateLearnerHandler(repo, nil)
	result, err := h.Handle(context.Background(), AuthenticateLearnerCommand{
		Email:    "  BOB@example.com ",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", result.Email)
	assert.Equal(t, "Bob", result.DisplayName)
}

// ──────────────────────────────────────────────────────────────────────────────
// Start skill
// ──────────────────────────────────────────────────────────────────────────────

func newStartSkillHandler(learnerRepo *memLearnerRepo, skillRepo *memSkillRepo) (*StartSkillHandler, *memProgressRepo, *memXPRepo, *memBehaviorRepo) {
	progressRepo := newMemProgressRepo()
	xpRepo := &memXPRepo{}
	behaviorRepo := &memBehaviorRepo{}
	h := NewStartSkillHandler(learnerRepo, skillRepo, progressRepo, xpRepo, behaviorRepo, nil)
	return h, progressRepo, xpRepo, behaviorRepo
}

func TestStartSkill_AwardsXPAndLogsEvent(t *testing.T) {
	learnerRepo := newMemLearnerRepo()
	seedLearner(t, learnerRepo)
	h, progressRepo, xpRepo, behaviorRepo := newStartSkillHandler(learnerRepo, newMemSkillRepo(goSkill()))

	result, err := h.Handle(context.Background(), StartSkillCommand{
		LearnerID: testLearnerID,
		SkillID:   shared.SkillID(1),
	})
	require.NoError(t, err)

	assert.Equal(t, learner.XPStartSkill, result.XPAwarded)
	assert.Equal(t, shared.XP(learner.XPStartSkill), result.TotalXP)
	assert.Equal(t, 1, result.Streak.CurrentStreak)
	assert.Equal(t, "Go", result.SkillName)

	_, err = progressRepo.Get(context.Background(), testLearnerID, shared.SkillID(1))
	assert.NoError(t, err)

	require.Len(t, xpRepo.transactions, 1)
	assert.Equal(t, learner.XPTransactionStartSkill, xpRepo.transactions[0].Type)

	require.Len(t, behaviorRepo.events, 1)
	assert.Equal(t, behavior.ActionStartSkill, behaviorRepo.events[0].Action)
}

func TestStartSkill_AlreadyStarted(t *testing.T) {
	learnerRepo := newMemLearnerRepo()
	seedLearner(t, learnerRepo)
	h, _, _, _ := newStartSkillHandler(learnerRepo, newMemSkillRepo(goSkill()))

	cmd := StartSkillCommand{LearnerID: testLearnerID, SkillID: shared.SkillID(1)}
	_, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)

	_, err = h.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, shared.ErrSkillStarted)
}

func TestStartSkill_UnknownSkill(t *testing.T) {
	learnerRepo := newMemLearnerRepo()
	seedLearner(t, learnerRepo)
	h, _, _, _ := newStartSkillHandler(learnerRepo, newMemSkillRepo())

	_, err := h.Handle(context.Background(), StartSkillCommand{LearnerID: testLearnerID, SkillID: shared.SkillID(99)})
	assert.ErrorIs(t, err, shared.ErrSkillNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Complete subskill
// ──────────────────────────────────────────────────────────────────────────────

func completeSubskillSetup(t *testing.T) (*CompleteSubskillHandler, *memLearnerRepo, *memXPRepo) {
	t.Helper()
	learnerRepo := newMemLearnerRepo()
	seedLearner(t, learnerRepo)
	skillRepo := newMemSkillRepo(goSkill())
	progressRepo := newMemProgressRepo()
	xpRepo := &memXPRepo{}
	behaviorRepo := &memBehaviorRepo{}

	p, err := skill.NewProgress(testLearnerID, shared.SkillID(1))
	require.NoError(t, err)
	require.NoError(t, progressRepo.Create(context.Background(), p))

	return NewCompleteSubskillHandler(learnerRepo, skillRepo, progressRepo, xpRepo, behaviorRepo, nil), learnerRepo, xpRepo
}

func TestCompleteSubskill_AwardsBaseAndDifficultyBonus(t *testing.T) {
	h, _, xpRepo := completeSubskillSetup(t)

	result, err := h.Handle(context.Background(), CompleteSubskillCommand{
		LearnerID:        testLearnerID,
		SkillID:          shared.SkillID(1),
		SubskillName:     "Syntax",
		DifficultyRating: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, 16, result.XPAwarded) // 10 base + 3*2 bonus
	assert.False(t, result.AlreadyCompleted)
	assert.False(t, result.SkillCompleted)
	assert.InDelta(t, 100.0/3.0, result.ProgressPercentage.Float64(), 0.01)
	require.Len(t, xpRepo.transactions, 1)
}

func TestCompleteSubskill_RepeatIsNoOp(t *testing.T) {
	h, _, xpRepo := completeSubskillSetup(t)

	cmd := CompleteSubskillCommand{
		LearnerID:    testLearnerID,
		SkillID:      shared.SkillID(1),
		SubskillName: "Syntax",
	}
	_, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)

	result, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, result.AlreadyCompleted)
	assert.Zero(t, result.XPAwarded)
	assert.Len(t, xpRepo.transactions, 1)
}

func TestCompleteSubskill_LastSubskillGrantsCompletionBonus(t *testing.T) {
	h, learnerRepo, xpRepo := completeSubskillSetup(t)

	for _, name := range []string{"Syntax", "Concurrency"} {
		_, err := h.Handle(context.Background(), CompleteSubskillCommand{
			LearnerID:    testLearnerID,
			SkillID:      shared.SkillID(1),
			SubskillName: name,
		})
		require.NoError(t, err)
	}

	result, err := h.Handle(context.Background(), CompleteSubskillCommand{
		LearnerID:    testLearnerID,
		SkillID:      shared.SkillID(1),
		SubskillName: "Testing",
	})
	require.NoError(t, err)

	assert.True(t, result.SkillCompleted)
	assert.Equal(t, learner.XPCompleteSubskill+learner.XPSkillCompletionBonus, result.XPAwarded)
	assert.Equal(t, 100.0, result.ProgressPercentage.Float64())

	l, err := learnerRepo.GetByID(context.Background(), testLearnerID)
	require.NoError(t, err)
	assert.Equal(t, 3*learner.XPCompleteSubskill+learner.XPSkillCompletionBonus, l.TotalXP.Int())

	// Base transactions for three subskills plus the completion bonus.
	assert.Len(t, xpRepo.transactions, 4)
}

func TestCompleteSubskill_UnknownSubskill(t *testing.T) {
	h, _, _ := completeSubskillSetup(t)

	_, err := h.Handle(context.Background(), CompleteSubskillCommand{
		LearnerID:    testLearnerID,
		SkillID:      shared.SkillID(1),
		SubskillName: "Macros",
	})
	assert.ErrorIs(t, err, skill.ErrUnknownSubskill)
}

// ──────────────────────────────────────────────────────────────────────────────
// Track interaction
// ──────────────────────────────────────────────────────────────────────────────

func TestTrackInteraction_AppendsEventWithResourceType(t *testing.T) {
	learnerRepo := newMemLearnerRepo()
	seedLearner(t, learnerRepo)
	behaviorRepo := &memBehaviorRepo{}
	h := NewTrackInteractionHandler(learnerRepo, behaviorRepo, nil)

	skillID := shared.SkillID(1)
	result, err := h.Handle(context.Background(), TrackInteractionCommand{
		LearnerID:    testLearnerID,
		Action:       behavior.ActionViewResource,
		SkillID:      &skillID,
		ResourceURL:  "https://go.dev/doc/",
		ResourceType: "documentation",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.EventID)
	assert.Equal(t, 1, result.Streak.CurrentStreak)

	require.Len(t, behaviorRepo.events, 1)
	assert.Equal(t, "documentation", behaviorRepo.events[0].ResourceType())
}

func TestTrackInteraction_RejectsUnknownAction(t *testing.T) {
	h := NewTrackInteractionHandler(newMemLearnerRepo(), &memBehaviorRepo{}, nil)

	_, err := h.Handle(context.Background(), TrackInteractionCommand{
		LearnerID: testLearnerID,
		Action:    behavior.ActionType("teleport"),
	})
	assert.Error(t, err)
}

func TestTrackInteraction_ViewResourceRequiresURL(t *testing.T) {
	h := NewTrackInteractionHandler(newMemLearnerRepo(), &memBehaviorRepo{}, nil)

	_, err := h.Handle(context.Background(), TrackInteractionCommand{
		LearnerID: testLearnerID,
		Action:    behavior.ActionViewResource,
	})
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Submit quiz
// ──────────────────────────────────────────────────────────────────────────────

func submitQuizSetup(t *testing.T) (*SubmitQuizHandler, *memLearnerRepo, *memProgressRepo, *memQuizRepo) {
	t.Helper()
	learnerRepo := newMemLearnerRepo()
	seedLearner(t, learnerRepo)
	progressRepo := newMemProgressRepo()
	quizRepo := &memQuizRepo{}

	p, err := skill.NewProgress(testLearnerID, shared.SkillID(1))
	require.NoError(t, err)
	require.NoError(t, progressRepo.Create(context.Background(), p))

	h := NewSubmitQuizHandler(learnerRepo, progressRepo, quizRepo, &memXPRepo{}, &memBehaviorRepo{}, nil)
	return h, learnerRepo, progressRepo, quizRepo
}

func threeQuestions() []quiz.Question {
	return []quiz.Question{
		{Prompt: "Q1", Options: []string{"a", "b"}, CorrectIndex: 0, Topic: "Go", Difficulty: shared.DifficultyBeginner},
		{Prompt: "Q2", Options: []string{"a", "b"}, CorrectIndex: 1, Topic: "Go", Difficulty: shared.DifficultyBeginner},
		{Prompt: "Q3", Options: []string{"a", "b"}, CorrectIndex: 0, Topic: "Go", Difficulty: shared.DifficultyBeginner},
	}
}

func TestSubmitQuiz_GradesAndUpdatesAverage(t *testing.T) {
	h, _, progressRepo, quizRepo := submitQuizSetup(t)

	result, err := h.Handle(context.Background(), SubmitQuizCommand{
		LearnerID:        testLearnerID,
		SkillID:          shared.SkillID(1),
		Difficulty:       shared.DifficultyBeginner,
		Questions:        threeQuestions(),
		Answers:          []int{0, 1, 1},
		TimeTakenSeconds: 400,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 3, result.TotalQuestions)
	assert.True(t, result.Passed)
	assert.InDelta(t, 2.0/3.0, result.AverageQuizScore, 0.001)
	require.Len(t, quizRepo.attempts, 1)

	p, err := progressRepo.Get(context.Background(), testLearnerID, shared.SkillID(1))
	require.NoError(t, err)
	assert.Equal(t, 1, p.QuizCount)
}

func TestSubmitQuiz_RequiresStartedSkill(t *testing.T) {
	learnerRepo := newMemLearnerRepo()
	seedLearner(t, learnerRepo)
	h := NewSubmitQuizHandler(learnerRepo, newMemProgressRepo(), &memQuizRepo{}, &memXPRepo{}, &memBehaviorRepo{}, nil)

	_, err := h.Handle(context.Background(), SubmitQuizCommand{
		LearnerID:  testLearnerID,
		SkillID:    shared.SkillID(1),
		Difficulty: shared.DifficultyBeginner,
		Questions:  threeQuestions(),
		Answers:    []int{0, 1, 0},
	})
	assert.ErrorIs(t, err, shared.ErrProgressNotFound)
}

func TestQuizXP(t *testing.T) {
	tests := []struct {
		name      string
		score     int
		total     int
		timeTaken int
		want      int
	}{
		{"two of three, slow", 2, 3, 400, 20},
		{"perfect adds bonus", 3, 3, 360, 50},                 // 30 + 20 perfect
		{"speed bonus capped", 3, 3, 0, 60},                   // 30 + 20 + capped 10
		{"partial speed bonus", 2, 3, 300, 22},                // 20 + (360-300)/30
		{"zero correct still gets speed bonus", 0, 3, 60, 10}, // capped
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuizXP(tt.score, tt.total, tt.timeTaken))
		})
	}
}
