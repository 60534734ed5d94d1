package handler

import (
	"log/slog"
	"net/http"

	"inflecto-api/internal/model"
	"inflecto-api/internal/service"
)

// ContactHandler handles contact-form endpoints
type ContactHandler struct {
	contactSvc *service.ContactService
	logger     *slog.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactSvc *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{contactSvc: contactSvc, logger: logger}
}

// CreateContactRequest is the contact-form body. Service comes first so
// an unknown service is the error reported.
type CreateContactRequest struct {
	Service     string `json:"service" validate:"service"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
}

// Create handles POST /api/contact
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	c := &model.Contact{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Service:     req.Service,
		Message:     req.Message,
	}
	if err := h.contactSvc.Create(r.Context(), c); err != nil {
		h.logger.Error("create contact failed", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Contact record added successfully",
		"data":    c,
	})
}

// List handles GET /api/contact
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contactSvc.List(r.Context())
	if err != nil {
		h.logger.Error("list contacts failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// DeleteAll handles DELETE /api/contact
func (h *ContactHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if _, err := h.contactSvc.DeleteAll(r.Context()); err != nil {
		h.logger.Error("delete contacts failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "All contacts deleted successfully."})
}
