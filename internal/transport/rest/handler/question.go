package handler

import (
	"net/http"

	"inflecto-api/internal/assessment"
	"inflecto-api/internal/catalog"
	"inflecto-api/internal/model"
)

// QuestionHandler exposes the question catalog over REST
type QuestionHandler struct {
	catalog *catalog.Catalog
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(c *catalog.Catalog) *QuestionHandler {
	return &QuestionHandler{catalog: c}
}

// QuestionsResponse lists the questions a session for persona would ask
type QuestionsResponse struct {
	Persona   model.Persona             `json:"persona"`
	Total     int                       `json:"total"`
	Questions []assessment.QuestionView `json:"questions"`
}

// List handles GET /api/ai/questions?persona=
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	persona := model.Persona(r.URL.Query().Get("persona"))
	if !h.catalog.Has(persona) {
		writeError(w, http.StatusBadRequest, "Invalid or missing persona")
		return
	}

	questions := h.catalog.QuestionsFor(persona)
	if len(questions) > assessment.QuestionLimit {
		questions = questions[:assessment.QuestionLimit]
	}
	views := make([]assessment.QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, assessment.QuestionView{
			ID:      q.ID,
			Text:    q.Text,
			Type:    q.Type,
			Options: q.Options,
			Scoring: q.Scoring,
		})
	}

	writeJSON(w, http.StatusOK, QuestionsResponse{
		Persona:   persona,
		Total:     len(views),
		Questions: views,
	})
}
