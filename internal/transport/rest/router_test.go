package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"inflecto-api/internal/assessment"
	"inflecto-api/internal/cache"
	"inflecto-api/internal/catalog"
	"inflecto-api/internal/config"
	"inflecto-api/internal/logging"
	"inflecto-api/internal/mail"
	"inflecto-api/internal/model"
	"inflecto-api/internal/service"
	"inflecto-api/internal/transport/ws"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAssessments struct {
	mu   sync.Mutex
	data map[string]model.Assessment
}

func (m *memAssessments) Create(_ context.Context, a *model.Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ReportStatus = model.ReportNotStarted
	a.Answers = []model.StoredAnswer{}
	m.data[a.ID] = *a
	return nil
}

func (m *memAssessments) GetByID(_ context.Context, id string) (*model.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.data[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *memAssessments) update(id string, fn func(a *model.Assessment)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.data[id]
	if !ok {
		return false
	}
	fn(&a)
	m.data[id] = a
	return true
}

func (m *memAssessments) AppendAnswers(_ context.Context, id string, answers []model.StoredAnswer) (bool, error) {
	return m.update(id, func(a *model.Assessment) { a.Answers = append(a.Answers, answers...) }), nil
}

func (m *memAssessments) SaveResult(_ context.Context, id string, result model.Result) (bool, error) {
	return m.update(id, func(a *model.Assessment) {
		a.Result = &result
		a.ReportStatus = model.ReportPending
	}), nil
}

func (m *memAssessments) SetReportStatus(_ context.Context, id string, status model.ReportStatus, reason string) error {
	m.update(id, func(a *model.Assessment) { a.ReportStatus, a.ReportError = status, reason })
	return nil
}

func (m *memAssessments) SaveReport(_ context.Context, id string, report *model.Report) error {
	m.update(id, func(a *model.Assessment) { a.Report, a.ReportStatus = report, model.ReportReady })
	return nil
}

func (m *memAssessments) MarkEmailed(_ context.Context, id string, at time.Time) error {
	m.update(id, func(a *model.Assessment) { a.EmailedAt = &at })
	return nil
}

type memContacts struct{ items []*model.Contact }

func (m *memContacts) Create(_ context.Context, c *model.Contact) error {
	c.ID = "c" + string(rune('0'+len(m.items)))
	m.items = append([]*model.Contact{c}, m.items...)
	return nil
}

func (m *memContacts) List(context.Context) ([]*model.Contact, error) {
	return append([]*model.Contact{}, m.items...), nil
}

func (m *memContacts) DeleteAll(context.Context) (int64, error) {
	n := len(m.items)
	m.items = nil
	return int64(n), nil
}

type memBlogs struct{ items map[string]*model.Blog }

func (m *memBlogs) Create(_ context.Context, b *model.Blog) error {
	b.ID = "65f0c0ffee0000000000000" + string(rune('0'+len(m.items)))
	b.CreatedAt = time.Now().UTC()
	m.items[b.ID] = b
	return nil
}

func (m *memBlogs) List(context.Context) ([]*model.Blog, error) {
	out := []*model.Blog{}
	for _, b := range m.items {
		out = append(out, b)
	}
	return out, nil
}

func (m *memBlogs) GetByID(_ context.Context, id string) (*model.Blog, error) {
	return m.items[id], nil
}

type testAPI struct {
	srv         *httptest.Server
	assessments *service.AssessmentService
}

func newTestAPI(t *testing.T) testAPI {
	t.Helper()
	logger := logging.NewNop()
	cat, err := catalog.Load()
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	narrator, err := service.NewNarratorService(context.Background(), config.AIConfig{}, logger)
	require.NoError(t, err)

	repo := &memAssessments{data: map[string]model.Assessment{}}
	reports := service.NewReportService(repo, narrator, mail.NewLogMailer(logger), cat, logger)
	assessments := service.NewAssessmentService(repo, cache.NewResultCache(rdb, time.Hour), reports, cat, time.Second, logger)

	hub := ws.NewHub()
	t.Cleanup(hub.Stop)
	wsHandler := ws.NewHandler(hub, assessment.NewMachine(cat), assessments, nil, logger, ws.Options{CloseGrace: 10 * time.Millisecond})

	router := NewRouter(&Container{
		Catalog:           cat,
		AssessmentService: assessments,
		ReportService:     reports,
		ContactService:    service.NewContactService(&memContacts{}),
		BlogService:       service.NewBlogService(&memBlogs{items: map[string]*model.Blog{}}),
		WSHandler:         wsHandler,
		CORS:              config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET, POST", AllowedHeaders: "Content-Type"},
		Logger:            logger,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return testAPI{srv: srv, assessments: assessments}
}

func (a testAPI) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	status, raw := a.doRaw(t, method, path, body)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return status, out
}

func (a testAPI) doRaw(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, a.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestQuestions(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do(t, "GET", "/api/ai/questions?persona=c_suite", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "c_suite", body["persona"])
	assert.Equal(t, 5.0, body["total"])
	qs := body["questions"].([]any)
	require.Len(t, qs, 5)
	assert.Equal(t, "cs_strategy", qs[0].(map[string]any)["id"])
	assert.NotContains(t, qs[0], "score_map")

	for _, path := range []string{"/api/ai/questions", "/api/ai/questions?persona=ceo"} {
		status, body = api.do(t, "GET", path, "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Invalid or missing persona", body["error"])
	}
}

func TestAssessmentLifecycle(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do(t, "POST", "/api/ai/assessment", `{"name":"Jane","email":"jane@acme.test","company_name":"Acme","persona":"practitioner"}`)
	require.Equal(t, http.StatusCreated, status)
	id := body["id"].(string)

	status, _ = api.do(t, "POST", "/api/ai/assessment/"+id+"/answer", `{"answers":[{"question_id":"pr_usage","answer":"Every day"},{"question_id":"pr_tools","answer":["Coding"]}]}`)
	require.Equal(t, http.StatusOK, status)

	status, body = api.do(t, "POST", "/api/ai/assessment/"+id+"/send-report", "")
	assert.Equal(t, http.StatusConflict, status)

	status, body = api.do(t, "POST", "/api/ai/assessment/"+id+"/finalize", `{"score":76}`)
	require.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, 76.0, body["score"])
	assert.Equal(t, "AI-Mature", body["stage"])
	assert.Equal(t, "pending", body["report_status"])

	api.assessments.Wait()

	status, body = api.do(t, "GET", "/api/ai/assessment/"+id, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["report_status"])
	assert.Len(t, body["answers"], 2)
	report := body["report"].(map[string]any)
	assert.Equal(t, "AI Readiness Report for Acme", report["title"])

	status, body = api.do(t, "POST", "/api/ai/assessment/"+id+"/send-report", `{"email":"boss@acme.test"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.NotNil(t, body["emailed_at"])
}

func TestAssessmentValidation(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"missing name", `{"email":"a@b.c","persona":"manager"}`, http.StatusBadRequest},
		{"bad email", `{"name":"A","email":"nope","persona":"manager"}`, http.StatusBadRequest},
		{"unknown persona", `{"name":"A","email":"a@b.c","persona":"ceo"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := api.do(t, "POST", "/api/ai/assessment", tt.body)
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, body["error"])
		})
	}

	status, _ := api.do(t, "GET", "/api/ai/assessment/missing", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = api.do(t, "POST", "/api/ai/assessment/missing/answer", `{"answers":[{"question_id":"q","answer":"a"}]}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = api.do(t, "POST", "/api/ai/assessment/missing/finalize", `{"score":10}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSocketResultIsUsedOnFinalize(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do(t, "POST", "/api/ai/assessment", `{"name":"Jane","email":"jane@acme.test","persona":"practitioner"}`)
	require.Equal(t, http.StatusCreated, status)
	id := body["id"].(string)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(api.srv.URL, "http")+"/ws/ai-readiness", nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "start", "persona": "practitioner", "assessmentId": id}))
	for _, answer := range []any{"Every day", "Usually self-service", []string{"Consumer tools used informally"}, []string{}, "Mentoring"} {
		require.NoError(t, conn.WriteJSON(map[string]any{"type": "answer", "answer": answer}))
	}

	var msg map[string]any
	for msg["type"] != "complete" {
		msg = nil
		require.NoError(t, conn.ReadJSON(&msg))
	}
	assert.Equal(t, 56.7, msg["score"])

	// The client claims a perfect score; the server keeps its own.
	status, body = api.do(t, "POST", "/api/ai/assessment/"+id+"/finalize", `{"score":100}`)
	require.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, 56.7, body["score"])
	assert.Equal(t, "Developing", body["stage"])
	api.assessments.Wait()
}

func TestContact(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do(t, "POST", "/api/contact", `{"name":"Jo","email":"jo@x.io","service":"Gardening"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid service value.", body["error"])

	status, body = api.do(t, "POST", "/api/contact", `{"email":"jo@x.io","service":"DAI Labs"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "name is required", body["error"])

	status, body = api.do(t, "POST", "/api/contact", `{"name":"Jo","email":"jo@x.io","phone_number":"123","service":"DAI Labs","message":"hi"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Contact record added successfully", body["message"])
	assert.Equal(t, "DAI Labs", body["data"].(map[string]any)["service"])

	status, raw := api.doRaw(t, "GET", "/api/contact", "")
	require.Equal(t, http.StatusOK, status)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list, 1)

	status, body = api.do(t, "DELETE", "/api/contact", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "All contacts deleted successfully.", body["message"])
}

func TestBlogs(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do(t, "POST", "/api/blogs", `{"blog_title":"T"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "blog_title and blog_description are required", body["error"])

	status, body = api.do(t, "POST", "/api/blogs", `{"blog_title":"AI 101","blog_description":"Intro","blog_keywords":"ai, ml, ,llm","blog_points":"[{\"heading\":\"One\"}]"}`)
	require.Equal(t, http.StatusCreated, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, []any{"ai", "ml", "llm"}, data["tags"])
	assert.Equal(t, []any{map[string]any{"heading": "One"}}, data["points"])
	assert.Equal(t, model.DefaultBlogAuthor, data["author"])
	assert.Equal(t, model.DefaultBlogCategory, data["category"])
	id := data["id"].(string)

	status, body = api.do(t, "GET", "/api/blogs/"+id, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "AI 101", body["title"])

	status, body = api.do(t, "GET", "/api/blogs/nope", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Blog not found", body["error"])

	status, raw := api.doRaw(t, "GET", "/api/blogs", "")
	require.Equal(t, http.StatusOK, status)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list, 1)
}

func TestOperationalEndpoints(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do(t, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, raw := api.doRaw(t, "GET", "/swagger/doc.json", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "/api/ai/questions")

	req, _ := http.NewRequest("OPTIONS", api.srv.URL+"/api/contact", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	// No metrics handler configured.
	status, _ = api.doRaw(t, "GET", "/metrics", "")
	assert.Equal(t, http.StatusNotFound, status)
}
