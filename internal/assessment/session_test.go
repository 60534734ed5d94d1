package assessment

import (
	"testing"

	"inflecto-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBank map[model.Persona][]model.Question

func (b fakeBank) QuestionsFor(p model.Persona) []model.Question {
	return append([]model.Question(nil), b[p]...)
}

func newBank() fakeBank {
	return fakeBank{
		"practitioner": {
			scored("s1", scale), scored("s2", scale), scored("s3", scale),
			plain("n1"), plain("n2"), plain("n3"),
		},
		"tiny": {scored("only", map[string]int{"a": 4, "b": 4})},
	}
}

func strPtr(s string) *string { return &s }

func start(persona string) Event {
	return Event{Type: EventStart, Persona: model.Persona(persona)}
}

func answer(v string) Event {
	return Event{Type: EventAnswer, Answer: model.SingleAnswer(v)}
}

func TestTransition_StartSelectsFirstFive(t *testing.T) {
	m := NewMachine(newBank())

	s, out := m.Transition(Session{}, start("practitioner"))

	assert.Equal(t, StateInProgress, s.State)
	require.Len(t, s.Selected, QuestionLimit)
	assert.Equal(t, []string{"s1", "s2", "s3", "n1", "n2"}, ids(s.Selected))
	assert.Equal(t, 0, s.Cursor)
	assert.Equal(t, CloseNone, out.Close)

	require.Len(t, out.Messages, 2)
	assert.Equal(t, AckMessage{Type: MsgAck, Persona: "practitioner", Total: 5}, out.Messages[0])

	q, ok := out.Messages[1].(QuestionMessage)
	require.True(t, ok)
	assert.Equal(t, "s1", q.Question.ID)
	assert.Equal(t, 1, q.Index)
	assert.Equal(t, 5, q.Total)
	assert.True(t, q.Question.Scoring)
	assert.Nil(t, q.Question.ScoreMap)
}

func TestTransition_FullFlow(t *testing.T) {
	m := NewMachine(newBank())
	s, _ := m.Transition(Session{}, Event{Type: EventStart, Persona: "practitioner", AssessmentID: strPtr("abc-123")})

	var out Output
	for i, v := range []string{"d", "c", "b"} {
		s, out = m.Transition(s, answer(v))
		require.Len(t, out.Messages, 1)
		q := out.Messages[0].(QuestionMessage)
		assert.Equal(t, i+2, q.Index)
	}
	s, out = m.Transition(s, answer("x"))
	require.Len(t, out.Messages, 1)

	s, out = m.Transition(s, Event{Type: EventAnswer, Answer: model.MultiAnswer("x", "y")})
	assert.Equal(t, StateComplete, s.State)
	assert.Equal(t, CloseComplete, out.Close)
	require.NotNil(t, out.Result)
	assert.Equal(t, model.Result{Score: 56.7, Stage: model.StageDeveloping}, *out.Result)

	require.Len(t, out.Messages, 1)
	done, ok := out.Messages[0].(CompleteMessage)
	require.True(t, ok)
	require.NotNil(t, done.AssessmentID)
	assert.Equal(t, "abc-123", *done.AssessmentID)
	assert.Equal(t, 56.7, done.Score)
	assert.Equal(t, model.StageDeveloping, done.Stage)
	assert.Equal(t, 5, done.Answered)
	assert.Equal(t, 5, done.Total)

	assert.Equal(t, []model.AnswerRecord{
		{QuestionID: "s1", Answer: model.SingleAnswer("d"), Scoring: true},
		{QuestionID: "s2", Answer: model.SingleAnswer("c"), Scoring: true},
		{QuestionID: "s3", Answer: model.SingleAnswer("b"), Scoring: true},
		{QuestionID: "n1", Answer: model.SingleAnswer("x"), Scoring: false},
		{QuestionID: "n2", Answer: model.MultiAnswer("x", "y"), Scoring: false},
	}, s.Answers)
}

func TestTransition_AnswersAfterCompletionAreIgnored(t *testing.T) {
	m := NewMachine(newBank())
	s, _ := m.Transition(Session{}, start("tiny"))
	s, out := m.Transition(s, answer("a"))
	require.Equal(t, CloseComplete, out.Close)

	after, out := m.Transition(s, answer("b"))
	assert.Empty(t, out.Messages)
	assert.Equal(t, CloseNone, out.Close)
	assert.Equal(t, s, after)

	// Restarting a finished session is not allowed either.
	after, out = m.Transition(s, start("practitioner"))
	assert.Empty(t, out.Messages)
	assert.Equal(t, s, after)
}

func TestTransition_IgnoresEventsBeforeStart(t *testing.T) {
	m := NewMachine(newBank())

	for _, ev := range []Event{answer("a"), {Type: "ping"}, {}} {
		s, out := m.Transition(Session{}, ev)
		assert.Equal(t, Session{}, s)
		assert.Empty(t, out.Messages)
	}
}

func TestTransition_UnknownPersona(t *testing.T) {
	m := NewMachine(newBank())

	for _, persona := range []string{"ceo", ""} {
		s, out := m.Transition(Session{}, start(persona))

		assert.Equal(t, StateComplete, s.State)
		assert.Equal(t, CloseNoQuestions, out.Close)
		assert.Nil(t, out.Result)
		require.Len(t, out.Messages, 2)
		assert.Equal(t, AckMessage{Type: MsgAck, Persona: model.Persona(persona), Total: 0}, out.Messages[0])
		assert.Equal(t, NewError(ErrTextNoQuestions), out.Messages[1])

		_, out = m.Transition(s, answer("a"))
		assert.Empty(t, out.Messages)
	}
}

func TestTransition_RestartWhileInProgress(t *testing.T) {
	m := NewMachine(newBank())
	s, _ := m.Transition(Session{}, start("practitioner"))
	s, _ = m.Transition(s, answer("d"))
	require.Equal(t, 1, s.Cursor)

	s, out := m.Transition(s, start("tiny"))
	assert.Equal(t, model.Persona("tiny"), s.Persona)
	assert.Equal(t, 0, s.Cursor)
	assert.Empty(t, s.Answers)
	require.Len(t, out.Messages, 2)
	assert.Equal(t, AckMessage{Type: MsgAck, Persona: "tiny", Total: 1}, out.Messages[0])
}

func TestTransition_DoesNotAliasPreviousSession(t *testing.T) {
	m := NewMachine(newBank())
	s0, _ := m.Transition(Session{}, start("practitioner"))
	s1, _ := m.Transition(s0, answer("a"))
	s2a, _ := m.Transition(s1, answer("b"))
	s2b, _ := m.Transition(s1, answer("c"))

	assert.Empty(t, s0.Answers)
	require.Len(t, s1.Answers, 1)
	assert.Equal(t, model.SingleAnswer("b"), s2a.Answers[1].Answer)
	assert.Equal(t, model.SingleAnswer("c"), s2b.Answers[1].Answer)
}

func TestTransition_ExposeScoreMaps(t *testing.T) {
	m := NewMachine(newBank(), WithScoreMaps(true))
	_, out := m.Transition(Session{}, start("tiny"))

	q := out.Messages[1].(QuestionMessage)
	assert.Equal(t, map[string]int{"a": 4, "b": 4}, q.Question.ScoreMap)
}

func TestTransition_ShortPersonaUsesAllQuestions(t *testing.T) {
	m := NewMachine(newBank())
	s, out := m.Transition(Session{}, start("tiny"))

	assert.Equal(t, 1, s.Total())
	assert.Equal(t, AckMessage{Type: MsgAck, Persona: "tiny", Total: 1}, out.Messages[0])

	s, out = m.Transition(s, answer("b"))
	done := out.Messages[0].(CompleteMessage)
	assert.Nil(t, done.AssessmentID)
	assert.Equal(t, 1, done.Answered)
	assert.LessOrEqual(t, done.Answered, done.Total)
	assert.Equal(t, StageFor(done.Score), done.Stage)
	assert.Equal(t, StateComplete, s.State)
}

func ids(qs []model.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}
