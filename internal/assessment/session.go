// Package assessment implements the readiness questionnaire as a pure state
// machine. A Session is advanced by Machine.Transition, which returns the new
// session together with the protocol messages to emit; nothing in this
// package performs I/O.
package assessment

import "inflecto-api/internal/model"

// QuestionLimit is the number of questions asked per session
const QuestionLimit = 5

// State is the lifecycle state of a session
type State int

const (
	StateUnstarted State = iota
	StateInProgress
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateInProgress:
		return "in_progress"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Session is the per-connection questionnaire state
type Session struct {
	State        State
	Persona      model.Persona
	AssessmentID *string
	Selected     []model.Question
	Cursor       int
	Answers      []model.AnswerRecord
}

// Total is the number of selected questions
func (s Session) Total() int {
	return len(s.Selected)
}

// Current returns the question awaiting an answer
func (s Session) Current() (model.Question, bool) {
	if s.State != StateInProgress || s.Cursor >= len(s.Selected) {
		return model.Question{}, false
	}
	return s.Selected[s.Cursor], true
}

// CloseReason asks the transport to end the connection
type CloseReason string

const (
	CloseNone        CloseReason = ""
	CloseComplete    CloseReason = "complete"     // After a grace period
	CloseNoQuestions CloseReason = "no-questions" // Right after pending messages
)

// Output is everything a transition asks the transport to do
type Output struct {
	Messages []Message
	Close    CloseReason
	Result   *model.Result // Set when the session completed with a score
}

// QuestionSource resolves a persona to its ordered questions
type QuestionSource interface {
	QuestionsFor(persona model.Persona) []model.Question
}

// Machine applies events to sessions
type Machine struct {
	questions      QuestionSource
	exposeScoreMap bool
}

// Option configures a Machine
type Option func(*Machine)

// WithScoreMaps includes score maps in question messages
func WithScoreMaps(expose bool) Option {
	return func(m *Machine) {
		m.exposeScoreMap = expose
	}
}

// NewMachine creates a machine drawing questions from src
func NewMachine(src QuestionSource, opts ...Option) *Machine {
	m := &Machine{questions: src}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Transition applies ev to s. Events that are not valid in the current
// state leave the session untouched and produce no output.
func (m *Machine) Transition(s Session, ev Event) (Session, Output) {
	switch {
	case s.State == StateComplete:
		return s, Output{}
	case ev.Type == EventStart:
		return m.start(ev)
	case ev.Type == EventAnswer && s.State == StateInProgress && s.Cursor < s.Total():
		return m.answer(s, ev)
	default:
		return s, Output{}
	}
}

func (m *Machine) start(ev Event) (Session, Output) {
	selected := m.questions.QuestionsFor(ev.Persona)
	if len(selected) > QuestionLimit {
		selected = selected[:QuestionLimit]
	}

	s := Session{
		State:        StateInProgress,
		Persona:      ev.Persona,
		AssessmentID: ev.AssessmentID,
		Selected:     selected,
	}
	out := Output{
		Messages: []Message{AckMessage{Type: MsgAck, Persona: ev.Persona, Total: len(selected)}},
	}

	if len(selected) == 0 {
		s.State = StateComplete
		out.Messages = append(out.Messages, NewError(ErrTextNoQuestions))
		out.Close = CloseNoQuestions
		return s, out
	}

	out.Messages = append(out.Messages, m.question(s))
	return s, out
}

func (m *Machine) answer(s Session, ev Event) (Session, Output) {
	q := s.Selected[s.Cursor]

	answers := make([]model.AnswerRecord, len(s.Answers), len(s.Answers)+1)
	copy(answers, s.Answers)
	s.Answers = append(answers, model.AnswerRecord{
		QuestionID: q.ID,
		Answer:     ev.Answer,
		Scoring:    q.Scoring,
	})
	s.Cursor++

	if s.Cursor < s.Total() {
		return s, Output{Messages: []Message{m.question(s)}}
	}

	s.State = StateComplete
	result := Score(s.Selected, s.Answers)
	return s, Output{
		Messages: []Message{CompleteMessage{
			Type:         MsgComplete,
			AssessmentID: s.AssessmentID,
			Score:        result.Score,
			Stage:        result.Stage,
			Answered:     len(s.Answers),
			Total:        s.Total(),
		}},
		Close:  CloseComplete,
		Result: &result,
	}
}

func (m *Machine) question(s Session) QuestionMessage {
	q := s.Selected[s.Cursor]
	view := QuestionView{
		ID:      q.ID,
		Text:    q.Text,
		Type:    q.Type,
		Options: q.Options,
		Scoring: q.Scoring,
	}
	if m.exposeScoreMap && q.Scoring {
		view.ScoreMap = q.ScoreMap
	}
	return QuestionMessage{
		Type:     MsgQuestion,
		Question: view,
		Index:    s.Cursor + 1,
		Total:    s.Total(),
	}
}
