// Package catalog holds the static per-persona question bank. The catalog is
// parsed once at startup and is read-only afterwards, so it can be shared by
// every connection without locking.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"inflecto-api/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var source []byte

// Point scale every scoring option must fall in. The score normalisation in
// the assessment package assumes exactly this range.
const (
	MinPoints = 1
	MaxPoints = 4
)

// ErrInvalidCatalog wraps every validation failure returned by Parse
var ErrInvalidCatalog = errors.New("invalid question catalog")

type sourceOption struct {
	Label  string `yaml:"label"`
	Points int    `yaml:"points"`
}

type sourceScoring struct {
	ID       string             `yaml:"id"`
	Question string             `yaml:"question"`
	Type     model.QuestionType `yaml:"type"`
	Options  []sourceOption     `yaml:"options"`
}

type sourcePlain struct {
	ID       string             `yaml:"id"`
	Question string             `yaml:"question"`
	Type     model.QuestionType `yaml:"type"`
	Options  []string           `yaml:"options"`
}

type sourcePersona struct {
	Label      string          `yaml:"label"`
	Scoring    []sourceScoring `yaml:"scoring"`
	NonScoring []sourcePlain   `yaml:"non_scoring"`
}

type persona struct {
	label     string
	questions []model.Question
}

// Catalog maps persona keys to their ordered questions
type Catalog struct {
	personas map[model.Persona]*persona
	order    []model.Persona
}

// Load parses the embedded question catalog
func Load() (*Catalog, error) {
	return Parse(source)
}

// Parse builds a catalog from YAML. Personas keep document order; within a
// persona scoring questions come first, then non-scoring ones.
func Parse(data []byte) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidCatalog)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must map persona keys to questions", ErrInvalidCatalog)
	}

	c := &Catalog{personas: make(map[model.Persona]*persona)}
	var errs []error
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := model.Persona(root.Content[i].Value)

		var src sourcePersona
		if err := root.Content[i+1].Decode(&src); err != nil {
			errs = append(errs, fmt.Errorf("%w: persona %s: %v", ErrInvalidCatalog, key, err))
			continue
		}
		if _, dup := c.personas[key]; dup {
			errs = append(errs, fmt.Errorf("%w: persona %s defined twice", ErrInvalidCatalog, key))
			continue
		}

		p, err := build(key, src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c.personas[key] = p
		c.order = append(c.order, key)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

func build(key model.Persona, src sourcePersona) (*persona, error) {
	var errs []error
	fail := func(id, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s/%s: %s", ErrInvalidCatalog, key, id, fmt.Sprintf(format, args...)))
	}

	p := &persona{label: src.Label}
	if p.label == "" {
		p.label = string(key)
	}
	seen := make(map[string]bool)

	for _, sq := range src.Scoring {
		if sq.ID == "" || seen[sq.ID] {
			fail(sq.ID, "missing or duplicate id")
			continue
		}
		seen[sq.ID] = true
		if !sq.Type.Valid() {
			fail(sq.ID, "unknown type %q", sq.Type)
		}
		if len(sq.Options) == 0 {
			fail(sq.ID, "scoring question has no scored options")
			continue
		}

		q := model.Question{
			ID:       sq.ID,
			Text:     sq.Question,
			Type:     sq.Type,
			Scoring:  true,
			Options:  make([]string, 0, len(sq.Options)),
			ScoreMap: make(map[string]int, len(sq.Options)),
		}
		for _, o := range sq.Options {
			if _, dup := q.ScoreMap[o.Label]; dup || o.Label == "" {
				fail(sq.ID, "empty or duplicate option %q", o.Label)
				continue
			}
			if o.Points < MinPoints || o.Points > MaxPoints {
				fail(sq.ID, "option %q scores %d, outside %d-%d", o.Label, o.Points, MinPoints, MaxPoints)
			}
			q.Options = append(q.Options, o.Label)
			q.ScoreMap[o.Label] = o.Points
		}
		p.questions = append(p.questions, q)
	}

	for _, nq := range src.NonScoring {
		if nq.ID == "" || seen[nq.ID] {
			fail(nq.ID, "missing or duplicate id")
			continue
		}
		seen[nq.ID] = true
		if !nq.Type.Valid() {
			fail(nq.ID, "unknown type %q", nq.Type)
		}
		options := nq.Options
		if options == nil {
			options = []string{}
		}
		p.questions = append(p.questions, model.Question{
			ID:      nq.ID,
			Text:    nq.Question,
			Type:    nq.Type,
			Options: options,
		})
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return p, nil
}

// QuestionsFor returns the persona's scoring questions followed by its
// non-scoring questions. An unknown persona yields an empty slice.
func (c *Catalog) QuestionsFor(key model.Persona) []model.Question {
	p, ok := c.personas[key]
	if !ok {
		return []model.Question{}
	}
	out := make([]model.Question, len(p.questions))
	copy(out, p.questions)
	return out
}

// Has reports whether key names a persona in the catalog
func (c *Catalog) Has(key model.Persona) bool {
	_, ok := c.personas[key]
	return ok
}

// Label returns the display label for a persona, or the key itself
func (c *Catalog) Label(key model.Persona) string {
	if p, ok := c.personas[key]; ok {
		return p.label
	}
	return string(key)
}

// Personas lists persona keys in catalog order
func (c *Catalog) Personas() []model.Persona {
	out := make([]model.Persona, len(c.order))
	copy(out, c.order)
	return out
}
