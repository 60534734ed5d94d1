package handler

import (
	"log/slog"
	"net/http"

	"inflecto-api/internal/model"
	"inflecto-api/internal/service"

	"github.com/gorilla/mux"
)

// AssessmentHandler handles assessment record endpoints
type AssessmentHandler struct {
	assessmentSvc *service.AssessmentService
	reportSvc     *service.ReportService
	logger        *slog.Logger
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentSvc *service.AssessmentService, reportSvc *service.ReportService, logger *slog.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		assessmentSvc: assessmentSvc,
		reportSvc:     reportSvc,
		logger:        logger,
	}
}

// CreateAssessmentRequest is the request body for creating an assessment
type CreateAssessmentRequest struct {
	Name        string        `json:"name" validate:"required"`
	Email       string        `json:"email" validate:"required,email"`
	CompanyName string        `json:"company_name"`
	Role        string        `json:"role"`
	Persona     model.Persona `json:"persona" validate:"required"`
}

// SaveAnswersRequest is the request body for appending answers
type SaveAnswersRequest struct {
	Answers []AnswerItem `json:"answers" validate:"required,min=1,dive"`
}

// AnswerItem is one submitted answer
type AnswerItem struct {
	QuestionID string          `json:"question_id" validate:"required"`
	Answer     model.RawAnswer `json:"answer"`
}

// FinalizeRequest carries the client-computed score, used only when the
// socket session did not record one
type FinalizeRequest struct {
	Score *float64 `json:"score"`
}

// SendReportRequest optionally overrides the recipient
type SendReportRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

// FinalizeResponse acknowledges a finalized assessment
type FinalizeResponse struct {
	ID           string             `json:"id"`
	Score        float64            `json:"score"`
	Stage        model.Stage        `json:"stage"`
	ReportStatus model.ReportStatus `json:"report_status"`
}

// Create handles POST /api/ai/assessment
func (h *AssessmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAssessmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	a, err := h.assessmentSvc.Create(r.Context(), service.CreateAssessmentInput{
		Name:        req.Name,
		Email:       req.Email,
		CompanyName: req.CompanyName,
		Role:        req.Role,
		Persona:     req.Persona,
	})
	if err != nil {
		h.logError("create assessment", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": a.ID})
}

// Get handles GET /api/ai/assessment/{id}
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.assessmentSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.logError("get assessment", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// SaveAnswers handles POST /api/ai/assessment/{id}/answer
func (h *AssessmentHandler) SaveAnswers(w http.ResponseWriter, r *http.Request) {
	var req SaveAnswersRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	answers := make([]service.AnswerInput, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, service.AnswerInput{QuestionID: a.QuestionID, Answer: a.Answer})
	}

	id := mux.Vars(r)["id"]
	if err := h.assessmentSvc.SaveAnswers(r.Context(), id, answers); err != nil {
		h.logError("save answers", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "saved": len(answers)})
}

// Finalize handles POST /api/ai/assessment/{id}/finalize
func (h *AssessmentHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	var req FinalizeRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.assessmentSvc.Finalize(r.Context(), mux.Vars(r)["id"], service.FinalizeInput{Score: req.Score})
	if err != nil {
		h.logError("finalize assessment", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, FinalizeResponse{
		ID:           a.ID,
		Score:        a.Result.Score,
		Stage:        a.Result.Stage,
		ReportStatus: a.ReportStatus,
	})
}

// SendReport handles POST /api/ai/assessment/{id}/send-report
func (h *AssessmentHandler) SendReport(w http.ResponseWriter, r *http.Request) {
	var req SendReportRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	a, err := h.reportSvc.SendReport(r.Context(), mux.Vars(r)["id"], req.Email)
	if err != nil {
		h.logError("send report", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Report sent successfully",
		"emailed_at": a.EmailedAt,
	})
}

func (h *AssessmentHandler) logError(op string, err error) {
	h.logger.Warn(op+" failed", "error", err)
}
