package service

import (
	"context"
	"strings"

	"inflecto-api/internal/model"
	"inflecto-api/internal/repository"
)

// ContactService stores contact-form submissions
type ContactService struct {
	contactRepo repository.ContactRepo
}

// NewContactService creates a new contact service
func NewContactService(contactRepo repository.ContactRepo) *ContactService {
	return &ContactService{contactRepo: contactRepo}
}

func (s *ContactService) Create(ctx context.Context, c *model.Contact) error {
	if !model.IsService(c.Service) {
		return ErrInvalidService
	}
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Email) == "" {
		return ErrMissingField
	}
	return s.contactRepo.Create(ctx, c)
}

func (s *ContactService) List(ctx context.Context) ([]*model.Contact, error) {
	return s.contactRepo.List(ctx)
}

// DeleteAll removes every submission and returns how many were deleted
func (s *ContactService) DeleteAll(ctx context.Context) (int64, error) {
	return s.contactRepo.DeleteAll(ctx)
}
