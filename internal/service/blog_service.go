package service

import (
	"context"
	"strings"

	"inflecto-api/internal/model"
	"inflecto-api/internal/repository"
)

// BlogService manages blog posts
type BlogService struct {
	blogRepo repository.BlogRepo
}

// NewBlogService creates a new blog service
func NewBlogService(blogRepo repository.BlogRepo) *BlogService {
	return &BlogService{blogRepo: blogRepo}
}

// Create stores a post. Title and description are required.
func (s *BlogService) Create(ctx context.Context, b *model.Blog) (model.BlogView, error) {
	b.Title = strings.TrimSpace(b.Title)
	b.Description = strings.TrimSpace(b.Description)
	if b.Title == "" || b.Description == "" {
		return model.BlogView{}, ErrMissingField
	}
	if err := s.blogRepo.Create(ctx, b); err != nil {
		return model.BlogView{}, err
	}
	return b.View(), nil
}

func (s *BlogService) List(ctx context.Context) ([]model.BlogView, error) {
	blogs, err := s.blogRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]model.BlogView, 0, len(blogs))
	for _, b := range blogs {
		views = append(views, b.View())
	}
	return views, nil
}

func (s *BlogService) Get(ctx context.Context, id string) (model.BlogView, error) {
	b, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		return model.BlogView{}, err
	}
	if b == nil {
		return model.BlogView{}, ErrNotFound
	}
	return b.View(), nil
}
