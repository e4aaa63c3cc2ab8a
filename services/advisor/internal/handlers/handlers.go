package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diagnosis/jobiq-care/pkg/logger"
	"github.com/diagnosis/jobiq-care/services/advisor/internal/service"
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	advisor service.AdvisorService
}

func New(advisor service.AdvisorService) *Handlers {
	return &Handlers{advisor: advisor}
}

type AnalyzeCVRequest struct {
	Text string `json:"text"`
}

type QuestionRequest struct {
	CVData map[string]any `json:"cvData"`
}

type ResultRequest struct {
	CVData  map[string]any `json:"cvData"`
	Answers []any          `json:"answers"`
}

func (h *Handlers) Mount(r chi.Router) {
	r.Post("/analyze_cv", h.AnalyzeCV)
	r.Post("/generate_questions", h.GenerateQuestions)
	r.Post("/generate_result", h.GenerateResult)
}

func (h *Handlers) AnalyzeCV(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeCVRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.advisor.AnalyzeCV(r.Context(), req.Text)
	h.respond(w, r, res, err)
}

func (h *Handlers) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req QuestionRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.advisor.GenerateQuestions(r.Context(), req.CVData)
	h.respond(w, r, res, err)
}

func (h *Handlers) GenerateResult(w http.ResponseWriter, r *http.Request) {
	var req ResultRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.advisor.GenerateResult(r.Context(), req.CVData, req.Answers)
	h.respond(w, r, res, err)
}

func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, res service.Result, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, res)
	case errors.Is(err, service.ErrEmptyCV):
		writeError(w, http.StatusBadRequest, "No CV text provided", "INVALID_INPUT")
	case errors.Is(err, service.ErrMissingInput):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_INPUT")
	case errors.Is(err, service.ErrProvider):
		writeError(w, http.StatusInternalServerError, "AI provider request failed", "AI_PROVIDER_ERROR")
	default:
		logger.ErrorContext(r.Context(), "Unhandled error", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, message, code string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
		"code":  code,
	})
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return false
	}
	return true
}
