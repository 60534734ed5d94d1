package model

// Persona is a role-based questionnaire variant
type Persona string

const (
	PersonaCSuite       Persona = "c_suite"
	PersonaManager      Persona = "manager"
	PersonaPractitioner Persona = "practitioner"
)

// QuestionType defines how many options a respondent may pick
type QuestionType string

const (
	QuestionTypeSingle QuestionType = "single" // Exactly one option
	QuestionTypeMulti  QuestionType = "multi"  // Any number of options
)

// Valid reports whether t is a known question type
func (t QuestionType) Valid() bool {
	return t == QuestionTypeSingle || t == QuestionTypeMulti
}

// Question is a catalog question. Questions are loaded once and shared
// read-only between sessions, so nothing may mutate one after load.
type Question struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Type     QuestionType   `json:"type"`
	Scoring  bool           `json:"scoring"`
	Options  []string       `json:"options"`
	ScoreMap map[string]int `json:"score_map,omitempty"` // Scoring questions only, option -> points
}

// Points returns the points for option and whether the option is scored
func (q *Question) Points(option string) (int, bool) {
	if !q.Scoring || q.ScoreMap == nil {
		return 0, false
	}
	p, ok := q.ScoreMap[option]
	return p, ok
}
