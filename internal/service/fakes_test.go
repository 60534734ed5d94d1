package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"inflecto-api/internal/cache"
	"inflecto-api/internal/catalog"
	"inflecto-api/internal/config"
	"inflecto-api/internal/logging"
	"inflecto-api/internal/mail"
	"inflecto-api/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeAssessmentRepo struct {
	mu   sync.Mutex
	data map[string]*model.Assessment
	err  error
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{data: map[string]*model.Assessment{}}
}

func (r *fakeAssessmentRepo) Create(_ context.Context, a *model.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	a.ReportStatus = model.ReportNotStarted
	cp := *a
	r.data[a.ID] = &cp
	return nil
}

func (r *fakeAssessmentRepo) GetByID(_ context.Context, id string) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.data[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssessmentRepo) AppendAnswers(_ context.Context, id string, answers []model.StoredAnswer) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok {
		return false, nil
	}
	a.Answers = append(a.Answers, answers...)
	return true, nil
}

func (r *fakeAssessmentRepo) SaveResult(_ context.Context, id string, result model.Result) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok {
		return false, nil
	}
	a.Result = &result
	a.ReportStatus = model.ReportPending
	return true, nil
}

func (r *fakeAssessmentRepo) SetReportStatus(_ context.Context, id string, status model.ReportStatus, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.data[id]; ok {
		a.ReportStatus = status
		a.ReportError = reason
	}
	return nil
}

func (r *fakeAssessmentRepo) SaveReport(_ context.Context, id string, report *model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.data[id]; ok {
		a.Report = report
		a.ReportStatus = model.ReportReady
	}
	return nil
}

func (r *fakeAssessmentRepo) MarkEmailed(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.data[id]; ok {
		a.EmailedAt = &at
	}
	return nil
}

type fakeMailer struct {
	sent []mail.ReportEmail
	err  error
}

func (m *fakeMailer) SendReport(_ context.Context, msg mail.ReportEmail) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type failingNarrator struct{}

func (failingNarrator) Narrate(context.Context, NarrativeInput) (*model.Report, error) {
	return nil, errors.New("boom")
}

type fakeGenerator struct {
	reply  string
	err    error
	prompt string
}

func (g *fakeGenerator) GenerateJSON(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.reply, g.err
}

func (g *fakeGenerator) Close() error { return nil }

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load()
	require.NoError(t, err)
	return c
}

func testResultCache(t *testing.T) (cache.ResultCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewResultCache(client, time.Hour), mr
}

func templateNarrator(t *testing.T) *NarratorService {
	t.Helper()
	n, err := NewNarratorService(context.Background(), config.AIConfig{}, logging.NewNop())
	require.NoError(t, err)
	n.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	return n
}
