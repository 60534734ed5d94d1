package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"inflecto-api/internal/assessment"
	"inflecto-api/internal/cache"
	"inflecto-api/internal/model"
	"inflecto-api/internal/repository"

	"github.com/google/uuid"
)

// CreateAssessmentInput holds the respondent details
type CreateAssessmentInput struct {
	Name        string
	Email       string
	CompanyName string
	Role        string
	Persona     model.Persona
}

// AnswerInput is one answer submitted over REST
type AnswerInput struct {
	QuestionID string
	Answer     model.RawAnswer
}

// FinalizeInput carries the client's view of the result. It is only used
// when no server-computed result is cached.
type FinalizeInput struct {
	Score *float64
}

// AssessmentService manages assessment records around the live socket flow
type AssessmentService struct {
	assessmentRepo repository.AssessmentRepo
	results        cache.ResultCache
	reports        *ReportService
	catalog        PersonaCatalog
	reportTimeout  time.Duration
	logger         *slog.Logger
	wg             sync.WaitGroup
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(
	assessmentRepo repository.AssessmentRepo,
	results cache.ResultCache,
	reports *ReportService,
	catalog PersonaCatalog,
	reportTimeout time.Duration,
	logger *slog.Logger,
) *AssessmentService {
	return &AssessmentService{
		assessmentRepo: assessmentRepo,
		results:        results,
		reports:        reports,
		catalog:        catalog,
		reportTimeout:  reportTimeout,
		logger:         logger,
	}
}

// Create stores a new assessment. Its id is what clients pass as
// assessmentId when starting a socket session.
func (s *AssessmentService) Create(ctx context.Context, in CreateAssessmentInput) (*model.Assessment, error) {
	if !s.catalog.Has(in.Persona) {
		return nil, ErrInvalidPersona
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, ErrMissingField
	}

	a := &model.Assessment{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		CompanyName: strings.TrimSpace(in.CompanyName),
		Role:        in.Role,
		Persona:     in.Persona,
	}
	if err := s.assessmentRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}
	return a, nil
}

func (s *AssessmentService) Get(ctx context.Context, id string) (*model.Assessment, error) {
	a, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// SaveAnswers appends answers to an assessment
func (s *AssessmentService) SaveAnswers(ctx context.Context, id string, answers []AnswerInput) error {
	now := time.Now().UTC()
	stored := make([]model.StoredAnswer, 0, len(answers))
	for _, a := range answers {
		if a.QuestionID == "" {
			return ErrMissingField
		}
		stored = append(stored, model.StoredAnswer{
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
			AnsweredAt: now,
		})
	}

	ok, err := s.assessmentRepo.AppendAnswers(ctx, id, stored)
	if err != nil {
		return fmt.Errorf("save answers: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// RecordResult caches the result a socket session computed for id
func (s *AssessmentService) RecordResult(ctx context.Context, id string, result model.Result) error {
	return s.results.Set(ctx, id, result)
}

// Finalize fixes the assessment's result and starts report generation in
// the background. A result computed by the socket session takes precedence
// over the client-supplied score.
func (s *AssessmentService) Finalize(ctx context.Context, id string, in FinalizeInput) (*model.Assessment, error) {
	a, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}

	result, err := s.resolveResult(ctx, id, in)
	if err != nil {
		return nil, err
	}

	ok, err := s.assessmentRepo.SaveResult(ctx, id, result)
	if err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	a.Result = &result
	a.ReportStatus = model.ReportPending

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		rctx, cancel := context.WithTimeout(context.Background(), s.reportTimeout)
		defer cancel()
		_, _ = s.reports.Generate(rctx, id)
	}()

	return a, nil
}

func (s *AssessmentService) resolveResult(ctx context.Context, id string, in FinalizeInput) (model.Result, error) {
	cached, err := s.results.Get(ctx, id)
	if err != nil {
		s.logger.Warn("result cache unavailable, using client score", "assessment_id", id, "error", err)
	}
	if cached != nil {
		if err := s.results.Delete(ctx, id); err != nil {
			s.logger.Warn("failed to clear cached result", "assessment_id", id, "error", err)
		}
		return *cached, nil
	}

	if in.Score == nil || math.IsNaN(*in.Score) || *in.Score < 0 || *in.Score > 100 {
		return model.Result{}, ErrInvalidScore
	}
	score := math.Round(*in.Score*10) / 10
	return model.Result{Score: score, Stage: assessment.StageFor(score)}, nil
}

// Wait blocks until background report generation has finished
func (s *AssessmentService) Wait() {
	s.wg.Wait()
}
