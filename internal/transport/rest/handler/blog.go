package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"inflecto-api/internal/model"
	"inflecto-api/internal/service"

	"github.com/gorilla/mux"
)

// BlogHandler handles blog endpoints
type BlogHandler struct {
	blogSvc *service.BlogService
	logger  *slog.Logger
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(blogSvc *service.BlogService, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{blogSvc: blogSvc, logger: logger}
}

// keywordList accepts a JSON array or a comma separated string
type keywordList []string

func (k *keywordList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*k = nil
		return nil
	case data[0] == '[':
		var vs []string
		if err := json.Unmarshal(data, &vs); err != nil {
			return err
		}
		*k = vs
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*k = out
	return nil
}

// pointList accepts a JSON array or a string holding one. A string that is
// not a JSON array yields no points.
type pointList []any

func (p *pointList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
		if len(data) == 0 {
			*p = nil
			return nil
		}
	}

	var vs []any
	if err := json.Unmarshal(data, &vs); err != nil {
		*p = nil
		return nil
	}
	*p = vs
	return nil
}

// CreateBlogRequest is the blog post body
type CreateBlogRequest struct {
	Title       string      `json:"blog_title"`
	Author      string      `json:"author"`
	Category    string      `json:"category"`
	Keywords    keywordList `json:"blog_keywords"`
	Description string      `json:"blog_description"`
	Points      pointList   `json:"blog_points"`
	TitleImage  string      `json:"title_image"`
	Images      []string    `json:"images"`
}

// Create handles POST /api/blogs
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBlogRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.blogSvc.Create(r.Context(), &model.Blog{
		Title:       req.Title,
		Author:      strings.TrimSpace(req.Author),
		Category:    strings.TrimSpace(req.Category),
		Keywords:    req.Keywords,
		Description: req.Description,
		Points:      req.Points,
		TitleImage:  req.TitleImage,
		Images:      req.Images,
	})
	if errors.Is(err, service.ErrMissingField) {
		writeError(w, http.StatusBadRequest, "blog_title and blog_description are required")
		return
	}
	if err != nil {
		h.logger.Error("create blog failed", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Blog created successfully",
		"data":    view,
	})
}

// List handles GET /api/blogs
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.blogSvc.List(r.Context())
	if err != nil {
		h.logger.Error("list blogs failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blogs)
}

// Get handles GET /api/blogs/{id}
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	blog, err := h.blogSvc.Get(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}
	if err != nil {
		h.logger.Error("get blog failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}
