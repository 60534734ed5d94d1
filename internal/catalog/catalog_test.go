package catalog

import (
	"errors"
	"testing"

	"inflecto-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []model.Persona{
		model.PersonaCSuite,
		model.PersonaManager,
		model.PersonaPractitioner,
	}, c.Personas())

	for _, p := range c.Personas() {
		qs := c.QuestionsFor(p)
		require.GreaterOrEqual(t, len(qs), 5, "persona %s", p)

		// Scoring questions always precede non-scoring ones.
		seenPlain := false
		for _, q := range qs {
			if !q.Scoring {
				seenPlain = true
				assert.Nil(t, q.ScoreMap, "%s must not carry a score map", q.ID)
				continue
			}
			assert.False(t, seenPlain, "%s: scoring question after non-scoring", q.ID)
			require.NotEmpty(t, q.ScoreMap, q.ID)
			for _, opt := range q.Options {
				pts, ok := q.ScoreMap[opt]
				require.True(t, ok, "%s: option %q not scored", q.ID, opt)
				assert.GreaterOrEqual(t, pts, MinPoints)
				assert.LessOrEqual(t, pts, MaxPoints)
			}
		}
	}
}

func TestLoad_PractitionerShape(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	qs := c.QuestionsFor(model.PersonaPractitioner)
	var scoring int
	for _, q := range qs[:5] {
		if q.Scoring {
			scoring++
		}
	}
	assert.Equal(t, 3, scoring)
	assert.Equal(t, "pr_usage", qs[0].ID)
	assert.Equal(t, "Practitioner / Contributor / Analyst", c.Label(model.PersonaPractitioner))
}

func TestQuestionsFor_UnknownPersona(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	qs := c.QuestionsFor("ceo")
	assert.NotNil(t, qs)
	assert.Empty(t, qs)
	assert.False(t, c.Has("ceo"))
	assert.Equal(t, "ceo", c.Label("ceo"))
}

func TestQuestionsFor_ReturnsCopy(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	qs := c.QuestionsFor(model.PersonaManager)
	qs[0] = model.Question{ID: "mutated"}

	assert.Equal(t, "mg_usecases", c.QuestionsFor(model.PersonaManager)[0].ID)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "points outside scale",
			doc: `
p:
  scoring:
    - id: q1
      question: Q
      type: single
      options:
        - label: a
          points: 5
`,
		},
		{
			name: "scoring question without options",
			doc: `
p:
  scoring:
    - id: q1
      question: Q
      type: single
`,
		},
		{
			name: "duplicate option",
			doc: `
p:
  scoring:
    - id: q1
      question: Q
      type: single
      options:
        - label: a
          points: 1
        - label: a
          points: 2
`,
		},
		{
			name: "duplicate id across subsets",
			doc: `
p:
  scoring:
    - id: q1
      question: Q
      type: single
      options:
        - label: a
          points: 1
  non_scoring:
    - id: q1
      question: Again
      type: single
`,
		},
		{
			name: "unknown type",
			doc: `
p:
  non_scoring:
    - id: q1
      question: Q
      type: ranking
`,
		},
		{
			name: "not a mapping",
			doc:  `- just a list`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCatalog), "got %v", err)
		})
	}
}

func TestParse_OrderAndDefaults(t *testing.T) {
	c, err := Parse([]byte(`
zeta:
  non_scoring:
    - id: n1
      question: Free
      type: multi
alpha:
  label: Alpha team
  scoring:
    - id: s1
      question: Scored
      type: single
      options:
        - label: low
          points: 1
        - label: high
          points: 4
  non_scoring:
    - id: n2
      question: Context
      type: single
      options: [x, y]
`))
	require.NoError(t, err)

	assert.Equal(t, []model.Persona{"zeta", "alpha"}, c.Personas())
	assert.Equal(t, "zeta", c.Label("zeta"))

	alpha := c.QuestionsFor("alpha")
	require.Len(t, alpha, 2)
	assert.Equal(t, []string{"low", "high"}, alpha[0].Options)
	assert.Equal(t, map[string]int{"low": 1, "high": 4}, alpha[0].ScoreMap)
	assert.True(t, alpha[0].Scoring)
	assert.False(t, alpha[1].Scoring)

	zeta := c.QuestionsFor("zeta")
	require.Len(t, zeta, 1)
	assert.Equal(t, []string{}, zeta[0].Options)
}
