package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"inflecto-api/internal/config"
	"inflecto-api/internal/model"

	"github.com/google/generative-ai-go/genai"
	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/api/option"
)

//go:embed report_schema.json
var reportSchemaJSON []byte

// GeneratedByTemplate marks reports written without the LLM
const GeneratedByTemplate = "template"

// NarrativeInput is everything the narrator may use to describe a result
type NarrativeInput struct {
	Assessment   *model.Assessment
	PersonaLabel string
	Questions    []model.Question
}

// Narrator turns a scored assessment into a readable report
type Narrator interface {
	Narrate(ctx context.Context, in NarrativeInput) (*model.Report, error)
}

// generator produces a JSON document for a prompt
type generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	Close() error
}

// narrative is the part of a report the LLM is allowed to write
type narrative struct {
	Interpretation       string   `json:"interpretation"`
	KeyObservations      []string `json:"key_observations"`
	AreasOfOpportunity   []string `json:"areas_of_opportunity"`
	RecommendedNextSteps []string `json:"recommended_next_steps"`
	ThankYou             string   `json:"thank_you"`
	CTA                  string   `json:"cta"`
}

// NarratorService writes reports with Gemini, falling back to a
// deterministic template whenever the model is unavailable or misbehaves
type NarratorService struct {
	config config.AIConfig
	gen    generator
	schema *gojsonschema.Schema
	logger *slog.Logger
	now    func() time.Time
}

// NewNarratorService creates a narrator. Without an API key every report
// comes from the template.
func NewNarratorService(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (*NarratorService, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(reportSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("load report schema: %w", err)
	}

	s := &NarratorService{
		config: cfg,
		schema: schema,
		logger: logger,
		now:    time.Now,
	}
	if cfg.IsEnabled() {
		gen, err := newGeminiGenerator(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s.gen = gen
	}
	return s, nil
}

// Close releases the LLM client
func (s *NarratorService) Close() error {
	if s.gen != nil {
		return s.gen.Close()
	}
	return nil
}

// Narrate never fails on LLM problems; it only errors on missing input
func (s *NarratorService) Narrate(ctx context.Context, in NarrativeInput) (*model.Report, error) {
	a := in.Assessment
	if a == nil || a.Result == nil {
		return nil, fmt.Errorf("narrate: assessment has no result")
	}

	n, generatedBy := s.mockNarrative(in), GeneratedByTemplate
	if s.gen != nil {
		if got, err := s.generate(ctx, in); err != nil {
			s.logger.Warn("report narration fell back to template", "assessment_id", a.ID, "error", err)
		} else {
			n, generatedBy = *got, s.config.Model
		}
	}

	return &model.Report{
		Title: fmt.Sprintf("AI Readiness Report for %s", a.CompanyName),
		Date:  s.now().UTC().Format("2006-01-02"),
		ScoreSection: model.ScoreSection{
			Score:          a.Result.Score,
			Stage:          a.Result.Stage,
			Interpretation: n.Interpretation,
		},
		KeyObservations:      n.KeyObservations,
		AreasOfOpportunity:   n.AreasOfOpportunity,
		RecommendedNextSteps: n.RecommendedNextSteps,
		ThankYou:             n.ThankYou,
		CTA:                  n.CTA,
		GeneratedBy:          generatedBy,
	}, nil
}

func (s *NarratorService) generate(ctx context.Context, in NarrativeInput) (*narrative, error) {
	timeout := time.Duration(s.config.TimeoutMS) * time.Millisecond
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	text, err := s.gen.GenerateJSON(ctx, buildReportPrompt(in))
	if err != nil {
		return nil, err
	}
	return s.parseNarrative(text)
}

// parseNarrative validates raw model output against the report schema
func (s *NarratorService) parseNarrative(text string) (*narrative, error) {
	text = cleanJSONBlock(text)

	res, err := s.schema.Validate(gojsonschema.NewStringLoader(text))
	if err != nil {
		return nil, fmt.Errorf("decode narrative: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("narrative does not match schema: %s", strings.Join(msgs, "; "))
	}

	var n narrative
	if err := json.Unmarshal([]byte(text), &n); err != nil {
		return nil, fmt.Errorf("decode narrative: %w", err)
	}
	return &n, nil
}

func buildReportPrompt(in NarrativeInput) string {
	a := in.Assessment
	byID := make(map[string]model.Question, len(in.Questions))
	for _, q := range in.Questions {
		byID[q.ID] = q
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an AI adoption consultant writing a short readiness report.\n")
	fmt.Fprintf(&b, "Company: %s\nRespondent role: %s\n", a.CompanyName, in.PersonaLabel)
	fmt.Fprintf(&b, "Readiness score: %.1f/100 (stage: %s)\n\nAnswers:\n", a.Result.Score, a.Result.Stage)
	for _, ans := range a.Answers {
		text := ans.QuestionID
		if q, ok := byID[ans.QuestionID]; ok {
			text = q.Text
		}
		fmt.Fprintf(&b, "- %s: %s\n", text, strings.Join(ans.Answer.Values, ", "))
	}
	b.WriteString(`
Respond with a single JSON object with these keys:
"interpretation" (one paragraph explaining the stage),
"key_observations", "areas_of_opportunity", "recommended_next_steps" (arrays of 2-5 short sentences),
"thank_you" (one sentence), "cta" (one sentence inviting a follow-up conversation).
Do not restate the score as a different number.`)
	return b.String()
}

var stageInterpretations = map[model.Stage]string{
	model.StageEarly:        "Your organisation is at the start of its AI journey. Foundations such as data access, ownership and a clear use-case pipeline are not yet in place.",
	model.StageDeveloping:   "Your organisation has begun experimenting with AI. Early initiatives exist, but they are not yet connected to a shared strategy or measured consistently.",
	model.StageTransforming: "Your organisation is actively scaling AI. Several use cases deliver value and the next step is to industrialise delivery and governance.",
	model.StageMature:       "Your organisation treats AI as a core capability. Strategy, data and governance are aligned and AI is embedded across functions.",
}

var stageSteps = map[model.Stage][]string{
	model.StageEarly: {
		"Nominate an executive sponsor for AI.",
		"Identify two or three low-risk use cases with measurable outcomes.",
		"Audit the data sources those use cases depend on.",
	},
	model.StageDeveloping: {
		"Consolidate running pilots into a single portfolio with shared success metrics.",
		"Agree a lightweight AI governance policy.",
		"Invest in data quality for the highest-value domains.",
	},
	model.StageTransforming: {
		"Build a reusable platform for deploying and monitoring models.",
		"Expand AI literacy programmes beyond the core team.",
		"Formalise risk and compliance reviews for AI systems.",
	},
	model.StageMature: {
		"Explore AI-first products and business models.",
		"Benchmark your practices against industry leaders.",
		"Share internal playbooks to keep adoption consistent as you grow.",
	},
}

// mockNarrative writes a deterministic narrative from the stage and answers
func (s *NarratorService) mockNarrative(in NarrativeInput) narrative {
	a := in.Assessment
	stage := a.Result.Stage

	observations := []string{
		fmt.Sprintf("The assessment was completed from the perspective of a %s.", in.PersonaLabel),
		fmt.Sprintf("%s scored %.1f out of 100, placing it in the %s stage.", a.CompanyName, a.Result.Score, stage),
	}
	if n := len(a.Answers); n > 0 {
		observations = append(observations, fmt.Sprintf("%d questions were answered.", n))
	}

	opportunities := []string{"Linking AI initiatives directly to business outcomes."}
	switch stage {
	case model.StageEarly, model.StageDeveloping:
		opportunities = append(opportunities, "Building a reliable and accessible data foundation.")
	default:
		opportunities = append(opportunities, "Scaling proven use cases across more teams.")
	}

	return narrative{
		Interpretation:       stageInterpretations[stage],
		KeyObservations:      observations,
		AreasOfOpportunity:   opportunities,
		RecommendedNextSteps: append([]string(nil), stageSteps[stage]...),
		ThankYou:             fmt.Sprintf("Thank you, %s, for taking the AI readiness assessment.", a.Name),
		CTA:                  "Book a conversation with Inflecto to turn these findings into a roadmap.",
	}
}

// geminiGenerator calls Gemini in JSON mode
type geminiGenerator struct {
	client *genai.Client
	model  string
}

func newGeminiGenerator(ctx context.Context, cfg config.AIConfig) (*geminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &geminiGenerator{client: client, model: cfg.Model}, nil
}

func (g *geminiGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(0.3)
	m.ResponseMIMEType = "application/json"

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

func (g *geminiGenerator) Close() error {
	return g.client.Close()
}

// cleanJSONBlock strips a markdown code fence around a JSON reply
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
