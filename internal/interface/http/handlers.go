package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/skillsprint/skillsprint-backend/internal/application/command"
	"github.com/skillsprint/skillsprint-backend/internal/application/query"
	"github.com/skillsprint/skillsprint-backend/internal/domain/behavior"
	"github.com/skillsprint/skillsprint-backend/internal/domain/learner"
	"github.com/skillsprint/skillsprint-backend/internal/domain/quiz"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Endpoint not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "skillsprint-backend",
		"status":  "ok",
		"uptime":  s.Uptime().String(),
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{}
	healthy := true

	if s.deps.Database != nil {
		if err := s.deps.Database.Ping(r.Context()); err != nil {
			components["database"] = "unreachable"
			healthy = false
		} else {
			components["database"] = "ok"
		}
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Ping(r.Context()); err != nil {
			// Cache is an optimization, not a dependency the API dies without.
			components["cache"] = "unreachable"
		} else {
			components["cache"] = "ok"
		}
	}

	status := "healthy"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]interface{}{
		"status":     status,
		"components": components,
		"uptime":     s.Uptime().String(),
	})
}

// handleReady handles GET /ready
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Database != nil {
		if err := s.deps.Database.Ping(r.Context()); err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "not_ready", "Database is unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles GET /live
func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	LearnerID   string `json:"learner_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Token       string `json:"token"`
}

// handleRegister handles POST /api/v1/auth/register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if s.deps.RegisterLearnerHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Registration handler not configured")
		return
	}
	if s.auth == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Authentication is not configured")
		return
	}

	var req registerRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	cmd := command.RegisterLearnerCommand{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	}
	if err := cmd.Validate(); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_request", "Invalid registration request", err.Error())
		return
	}

	result, err := s.deps.RegisterLearnerHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err, "Failed to register learner")
		return
	}

	token, err := s.auth.Issue(result.LearnerID)
	if err != nil {
		s.logger.Error("failed to issue token", logger.Err(err), logger.LearnerID(result.LearnerID.String()))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		LearnerID:   result.LearnerID.String(),
		Email:       result.Email,
		DisplayName: result.DisplayName,
		Token:       token,
	})
}

// handleLogin handles POST /api/v1/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.deps.AuthenticateLearnerHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Login handler not configured")
		return
	}
	if s.auth == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Authentication is not configured")
		return
	}

	var req loginRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	cmd := command.AuthenticateLearnerCommand{
		Email:    req.Email,
		Password: req.Password,
	}
	if err := cmd.Validate(); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_request", "Invalid login request", err.Error())
		return
	}

	result, err := s.deps.AuthenticateLearnerHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err, "Failed to authenticate learner")
		return
	}

	token, err := s.auth.Issue(result.LearnerID)
	if err != nil {
		s.logger.Error("failed to issue token", logger.Err(err), logger.LearnerID(result.LearnerID.String()))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		LearnerID:   result.LearnerID.String(),
		Email:       result.Email,
		DisplayName: result.DisplayName,
		Token:       token,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SKILL PROGRESS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type streakDTO struct {
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
	Extended      bool `json:"extended"`
	Reset         bool `json:"reset"`
}

func toStreakDTO(u learner.StreakUpdate) streakDTO {
	return streakDTO{
		CurrentStreak: u.CurrentStreak,
		LongestStreak: u.LongestStreak,
		Extended:      u.Extended,
		Reset:         u.Reset,
	}
}

type startSkillResponse struct {
	SkillID   int64     `json:"skill_id"`
	SkillName string    `json:"skill_name"`
	XPAwarded int       `json:"xp_awarded"`
	TotalXP   int       `json:"total_xp"`
	Streak    streakDTO `json:"streak"`
	StartedAt time.Time `json:"started_at"`
}

// handleStartSkill handles POST /api/v1/me/skills/{skill_id}/start
func (s *Server) handleStartSkill(w http.ResponseWriter, r *http.Request) {
	if s.deps.StartSkillHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Start skill handler not configured")
		return
	}

	skillID, ok := pathSkillID(w, r)
	if !ok {
		return
	}

	cmd := command.StartSkillCommand{
		LearnerID: learnerIDFromContext(r.Context()),
		SkillID:   skillID,
	}

	result, err := s.deps.StartSkillHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err, "Failed to start skill")
		return
	}

	writeJSON(w, http.StatusCreated, startSkillResponse{
		SkillID:   result.SkillID.Int64(),
		SkillName: result.SkillName,
		XPAwarded: result.XPAwarded,
		TotalXP:   result.TotalXP.Int(),
		Streak:    toStreakDTO(result.Streak),
		StartedAt: result.StartedAt,
	})
}

type completeSubskillRequest struct {
	DifficultyRating int `json:"difficulty_rating"`
}

type completeSubskillResponse struct {
	SkillID            int64     `json:"skill_id"`
	SubskillName       string    `json:"subskill_name"`
	AlreadyCompleted   bool      `json:"already_completed"`
	XPAwarded          int       `json:"xp_awarded"`
	TotalXP            int       `json:"total_xp"`
	SkillCompleted     bool      `json:"skill_completed"`
	ProgressPercentage float64   `json:"progress_percentage"`
	Streak             streakDTO `json:"streak"`
}

// handleCompleteSubskill handles POST /api/v1/me/skills/{skill_id}/subskills/{subskill}/complete
func (s *Server) handleCompleteSubskill(w http.ResponseWriter, r *http.Request) {
	if s.deps.CompleteSubskillHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Complete subskill handler not configured")
		return
	}

	skillID, ok := pathSkillID(w, r)
	if !ok {
		return
	}

	// Body is optional: the difficulty rating defaults to "not given".
	var req completeSubskillRequest
	if r.ContentLength != 0 {
		if !s.decodeJSON(w, r, &req) {
			return
		}
	}

	cmd := command.CompleteSubskillCommand{
		LearnerID:        learnerIDFromContext(r.Context()),
		SkillID:          skillID,
		SubskillName:     r.PathValue("subskill"),
		DifficultyRating: req.DifficultyRating,
	}
	if err := cmd.Validate(); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_request", "Invalid completion request", err.Error())
		return
	}

	result, err := s.deps.CompleteSubskillHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err, "Failed to complete subskill")
		return
	}

	writeJSON(w, http.StatusOK, completeSubskillResponse{
		SkillID:            result.SkillID.Int64(),
		SubskillName:       result.SubskillName,
		AlreadyCompleted:   result.AlreadyCompleted,
		XPAwarded:          result.XPAwarded,
		TotalXP:            result.TotalXP.Int(),
		SkillCompleted:     result.SkillCompleted,
		ProgressPercentage: result.ProgressPercentage.Float64(),
		Streak:             toStreakDTO(result.Streak),
	})
}

type uncompleteSubskillResponse struct {
	SkillID            int64   `json:"skill_id"`
	SubskillName       string  `json:"subskill_name"`
	ProgressPercentage float64 `json:"progress_percentage"`
	SkillCompleted     bool    `json:"skill_completed"`
}

// handleUncompleteSubskill handles DELETE /api/v1/me/skills/{skill_id}/subskills/{subskill}/complete
func (s *Server) handleUncompleteSubskill(w http.ResponseWriter, r *http.Request) {
	if s.deps.UncompleteSubskillHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Uncomplete subskill handler not configured")
		return
	}

	skillID, ok := pathSkillID(w, r)
	if !ok {
		return
	}

	cmd := command.UncompleteSubskillCommand{
		LearnerID:    learnerIDFromContext(r.Context()),
		SkillID:      skillID,
		SubskillName: r.PathValue("subskill"),
	}

	result, err := s.deps.UncompleteSubskillHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err, "Failed to uncomplete subskill")
		return
	}

	writeJSON(w, http.StatusOK, uncompleteSubskillResponse{
		SkillID:            result.SkillID.Int64(),
		SubskillName:       result.SubskillName,
		ProgressPercentage: result.ProgressPercentage.Float64(),
		SkillCompleted:     result.SkillCompleted,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// EVENT TRACKING HANDLER
// ══════════════════════════════════════════════════════════════════════════════

type trackEventRequest struct {
	Action       string            `json:"action"`
	SkillID      *int64            `json:"skill_id,omitempty"`
	SubskillName string            `json:"subskill_name,omitempty"`
	ResourceURL  string            `json:"resource_url,omitempty"`
	ResourceType string            `json:"resource_type,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type trackEventResponse struct {
	EventID    string    `json:"event_id"`
	Streak     streakDTO `json:"streak"`
	RecordedAt time.Time `json:"recorded_at"`
}

// handleTrackInteraction handles POST /api/v1/me/events
func (s *Server) handleTrackInteraction(w http.ResponseWriter, r *http.Request) {
	if s.deps.TrackInteractionHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Event tracking handler not configured")
		return
	}

	var req trackEventRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	var skillID *shared.SkillID
	if req.SkillID != nil {
		id := shared.SkillID(*req.SkillID)
		skillID = &id
	}

	cmd := command.TrackInteractionCommand{
		LearnerID:    learnerIDFromContext(r.Context()),
		Action:       behavior.ActionType(req.Action),
		SkillID:      skillID,
		SubskillName: req.SubskillName,
		ResourceURL:  req.ResourceURL,
		ResourceType: req.ResourceType,
		Metadata:     req.Metadata,
	}
	if err := cmd.Validate(); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_request", "Invalid event", err.Error())
		return
	}

	result, err := s.deps.TrackInteractionHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err, "Failed to record event")
		return
	}

	writeJSON(w, http.StatusCreated, trackEventResponse{
		EventID:    result.EventID,
		Streak:     toStreakDTO(result.Streak),
		RecordedAt: result.RecordedAt,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// QUIZ HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetQuiz handles GET /api/v1/me/skills/{skill_id}/quiz
func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetQuizHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Quiz handler not configured")
		return
	}

	skillID, ok := pathSkillID(w, r)
	if !ok {
		return
	}

	// Empty difficulty means "pick adaptively".
	var difficulty shared.Difficulty
	if raw := getQueryParam(r, "difficulty", ""); raw != "" {
		difficulty = shared.ParseDifficulty(raw)
	}

	q := query.GetQuizQuery{
		LearnerID:     learnerIDFromContext(r.Context()),
		SkillID:       skillID,
		Difficulty:    difficulty,
		QuestionCount: getQueryParamInt(r, "count", 0),
	}

	result, err := s.deps.GetQuizHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err, "Failed to generate quiz")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type submitQuizRequest struct {
	Difficulty       string          `json:"difficulty"`
	Questions        []quiz.Question `json:"questions"`
	Answers          []int           `json:"answers"`
	TimeTakenSeconds int             `json:"time_taken_seconds"`
}

type submitQuizResponse struct {
	AttemptID        string    `json:"attempt_id"`
	Score            int       `json:"score"`
	TotalQuestions   int       `json:"total_questions"`
	Passed           bool      `json:"passed"`
	XPAwarded        int       `json:"xp_awarded"`
	TotalXP          int       `json:"total_xp"`
	AverageQuizScore float64   `json:"average_quiz_score"`
	Streak           streakDTO `json:"streak"`
}

// handleSubmitQuiz handles POST /api/v1/me/skills/{skill_id}/quiz
func (s *Server) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	if s.deps.SubmitQuizHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Quiz submission handler not configured")
		return
	}

	skillID, ok := pathSkillID(w, r)
	if !ok {
		return
	}

	var req submitQuizRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	cmd := command.SubmitQuizCommand{
		LearnerID:        learnerIDFromContext(r.Context()),
		SkillID:          skillID,
		Difficulty:       shared.ParseDifficulty(req.Difficulty),
		Questions:        req.Questions,
		Answers:          req.Answers,
		TimeTakenSeconds: req.TimeTakenSeconds,
	}
	if err := cmd.Validate(); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_request", "Invalid quiz submission", err.Error())
		return
	}

	result, err := s.deps.SubmitQuizHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err, "Failed to grade quiz")
		return
	}

	writeJSON(w, http.StatusOK, submitQuizResponse{
		AttemptID:        result.AttemptID,
		Score:            result.Score,
		TotalQuestions:   result.TotalQuestions,
		Passed:           result.Passed,
		XPAwarded:        result.XPAwarded,
		TotalXP:          result.TotalXP.Int(),
		AverageQuizScore: result.AverageQuizScore,
		Streak:           toStreakDTO(result.Streak),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// RESOURCE HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// handleGetResources handles GET /api/v1/skills/{skill_id}/subskills/{subskill}/resources
func (s *Server) handleGetResources(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetSubskillResourcesHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Resource handler not configured")
		return
	}

	skillID, ok := pathSkillID(w, r)
	if !ok {
		return
	}

	q := query.GetSubskillResourcesQuery{
		SkillID:        skillID,
		SubskillName:   r.PathValue("subskill"),
		MaxCount:       getQueryParamInt(r, "limit", 0),
		IncludeMetrics: getQueryParamBool(r, "include_metrics"),
		BypassCache:    getQueryParamBool(r, "fresh"),
	}

	result, err := s.deps.GetSubskillResourcesHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err, "Failed to curate resources")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// ANALYTICS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetRecommendations handles GET /api/v1/me/recommendations
func (s *Server) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetRecommendationsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Recommendations handler not configured")
		return
	}

	q := query.GetRecommendationsQuery{
		LearnerID: learnerIDFromContext(r.Context()),
		Limit:     getQueryParamInt(r, "limit", 0),
	}

	result, err := s.deps.GetRecommendationsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err, "Failed to build recommendations")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetBehaviorProfile handles GET /api/v1/me/profile
func (s *Server) handleGetBehaviorProfile(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetBehaviorProfileHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Profile handler not configured")
		return
	}

	q := query.GetBehaviorProfileQuery{
		LearnerID:    learnerIDFromContext(r.Context()),
		EventLimit:   getQueryParamInt(r, "event_limit", 0),
		AttemptLimit: getQueryParamInt(r, "attempt_limit", 0),
	}

	result, err := s.deps.GetBehaviorProfileHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err, "Failed to analyze behavior")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleAdjustDifficulty handles GET /api/v1/me/skills/{skill_id}/difficulty
func (s *Server) handleAdjustDifficulty(w http.ResponseWriter, r *http.Request) {
	if s.deps.AdjustDifficultyHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Difficulty handler not configured")
		return
	}

	skillID, ok := pathSkillID(w, r)
	if !ok {
		return
	}

	q := query.AdjustDifficultyQuery{
		LearnerID: learnerIDFromContext(r.Context()),
		SkillID:   skillID,
	}

	result, err := s.deps.AdjustDifficultyHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err, "Failed to adjust difficulty")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetLearningPath handles GET /api/v1/me/skills/{skill_id}/path
func (s *Server) handleGetLearningPath(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetLearningPathHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Learning path handler not configured")
		return
	}

	skillID, ok := pathSkillID(w, r)
	if !ok {
		return
	}

	q := query.GetLearningPathQuery{
		LearnerID:            learnerIDFromContext(r.Context()),
		SkillID:              skillID,
		ResourcesPerSubskill: getQueryParamInt(r, "resources_per_subskill", 0),
	}

	result, err := s.deps.GetLearningPathHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err, "Failed to build learning path")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetDashboard handles GET /api/v1/me/dashboard
func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetDashboardHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Dashboard handler not configured")
		return
	}

	q := query.GetDashboardQuery{
		LearnerID:      learnerIDFromContext(r.Context()),
		XPHistoryLimit: getQueryParamInt(r, "xp_history", 0),
	}

	result, err := s.deps.GetDashboardHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err, "Failed to build dashboard")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

const maxBodyBytes = 1 << 20 // 1 MB

// decodeJSON decodes the request body into dst. Writes a 400 and returns
// false when the body is not valid JSON.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON", err.Error())
		return false
	}
	return true
}

// pathSkillID parses the {skill_id} path segment. Writes a 400 and returns
// false when the segment is not a positive integer.
func pathSkillID(w http.ResponseWriter, r *http.Request) (shared.SkillID, bool) {
	raw := r.PathValue("skill_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "skill_id must be a positive integer")
		return 0, false
	}
	return shared.SkillID(id), true
}
