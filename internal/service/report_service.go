package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"inflecto-api/internal/mail"
	"inflecto-api/internal/model"
	"inflecto-api/internal/repository"
)

// PersonaCatalog is the read-only view of the question catalog services need
type PersonaCatalog interface {
	Has(persona model.Persona) bool
	Label(persona model.Persona) string
	QuestionsFor(persona model.Persona) []model.Question
}

// ReportService generates and delivers assessment reports
type ReportService struct {
	assessmentRepo repository.AssessmentRepo
	narrator       Narrator
	mailer         mail.Mailer
	catalog        PersonaCatalog
	logger         *slog.Logger
}

// NewReportService creates a new report service
func NewReportService(
	assessmentRepo repository.AssessmentRepo,
	narrator Narrator,
	mailer mail.Mailer,
	catalog PersonaCatalog,
	logger *slog.Logger,
) *ReportService {
	return &ReportService{
		assessmentRepo: assessmentRepo,
		narrator:       narrator,
		mailer:         mailer,
		catalog:        catalog,
		logger:         logger,
	}
}

// Generate writes the report for a scored assessment and stores it. On
// failure the assessment's report status becomes failed.
func (s *ReportService) Generate(ctx context.Context, id string) (*model.Report, error) {
	report, err := s.generate(ctx, id)
	if err != nil {
		s.logger.Error("report generation failed", "assessment_id", id, "error", err)
		if serr := s.assessmentRepo.SetReportStatus(ctx, id, model.ReportFailed, err.Error()); serr != nil {
			s.logger.Error("failed to mark report failed", "assessment_id", id, "error", serr)
		}
		return nil, err
	}
	s.logger.Info("report ready", "assessment_id", id, "generated_by", report.GeneratedBy)
	return report, nil
}

func (s *ReportService) generate(ctx context.Context, id string) (*model.Report, error) {
	a, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load assessment: %w", err)
	}
	if a == nil {
		return nil, ErrNotFound
	}

	report, err := s.narrator.Narrate(ctx, NarrativeInput{
		Assessment:   a,
		PersonaLabel: s.catalog.Label(a.Persona),
		Questions:    s.catalog.QuestionsFor(a.Persona),
	})
	if err != nil {
		return nil, fmt.Errorf("narrate: %w", err)
	}

	readyAt := time.Now().UTC()
	report.ReadyAt = &readyAt
	if err := s.assessmentRepo.SaveReport(ctx, id, report); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	return report, nil
}

// SendReport emails a ready report. An empty recipient means the address
// the assessment was created with.
func (s *ReportService) SendReport(ctx context.Context, id, to string) (*model.Assessment, error) {
	a, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	if a.ReportStatus != model.ReportReady || a.Report == nil {
		return nil, ErrReportNotReady
	}
	if to == "" {
		to = a.Email
	}

	err = s.mailer.SendReport(ctx, mail.ReportEmail{
		To:           to,
		CompanyName:  a.CompanyName,
		PersonaLabel: s.catalog.Label(a.Persona),
		Report:       a.Report,
	})
	if err != nil {
		return nil, fmt.Errorf("send report: %w", err)
	}

	now := time.Now().UTC()
	if err := s.assessmentRepo.MarkEmailed(ctx, id, now); err != nil {
		s.logger.Warn("report sent but not marked emailed", "assessment_id", id, "error", err)
	}
	a.EmailedAt = &now
	return a, nil
}
