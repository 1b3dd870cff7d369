package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"talentprep/internal/model"
	"talentprep/internal/service"
)

// QuestionsHandler handles interview question generation endpoints
type QuestionsHandler struct {
	generator *service.GeneratorService
}

// NewQuestionsHandler creates a new questions handler
func NewQuestionsHandler(generator *service.GeneratorService) *QuestionsHandler {
	return &QuestionsHandler{generator: generator}
}

// Generate handles POST /v1/questions/generate
func (h *QuestionsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req model.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, &req, "invalid request body", started)
		return
	}

	resp, err := h.generator.GenerateQuestions(r.Context(), &req)
	if err != nil {
		writeFailure(w, statusFor(err), &req, err.Error(), started)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// statusFor maps the orchestration error taxonomy onto HTTP codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrMissingTalentID), errors.Is(err, service.ErrInvalidCategory):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrTalentNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrBudgetExceeded):
		return http.StatusRequestTimeout
	}

	var ge *service.GenerationError
	if errors.As(err, &ge) {
		switch {
		case ge.RateLimited:
			return http.StatusServiceUnavailable
		case ge.TimedOut:
			return http.StatusRequestTimeout
		}
	}
	return http.StatusInternalServerError
}

// writeFailure keeps failure payloads shaped like successes: callers
// always get elapsed time and a request id alongside the error string.
func writeFailure(w http.ResponseWriter, status int, req *model.GenerateRequest, message string, started time.Time) {
	writeJSON(w, status, &model.QuestionSetResponse{
		Success:     false,
		Error:       message,
		RequestID:   uuid.New().String(),
		TalentID:    req.TalentID,
		Category:    req.Category,
		GeneratedAt: time.Now().UTC(),
		ElapsedMS:   time.Since(started).Milliseconds(),
	})
}
