package assessment

import (
	"testing"

	"inflecto-api/internal/model"

	"github.com/stretchr/testify/assert"
)

func scored(id string, points map[string]int) model.Question {
	opts := make([]string, 0, len(points))
	for k := range points {
		opts = append(opts, k)
	}
	return model.Question{ID: id, Type: model.QuestionTypeSingle, Scoring: true, Options: opts, ScoreMap: points}
}

func plain(id string) model.Question {
	return model.Question{ID: id, Type: model.QuestionTypeSingle, Options: []string{"x", "y"}}
}

func record(id string, a model.RawAnswer) model.AnswerRecord {
	return model.AnswerRecord{QuestionID: id, Answer: a}
}

var scale = map[string]int{"a": 1, "b": 2, "c": 3, "d": 4}

func TestScore_PractitionerExample(t *testing.T) {
	selected := []model.Question{
		scored("s1", scale), scored("s2", scale), scored("s3", scale),
		plain("n1"), plain("n2"),
	}
	answers := []model.AnswerRecord{
		record("s1", model.SingleAnswer("d")),
		record("s2", model.SingleAnswer("c")),
		record("s3", model.SingleAnswer("b")),
		record("n1", model.SingleAnswer("x")),
		record("n2", model.MultiAnswer("x", "y")),
	}

	got := Score(selected, answers)
	assert.Equal(t, 56.7, got.Score)
	assert.Equal(t, model.StageDeveloping, got.Stage)
}

func TestScore_UniformScales(t *testing.T) {
	allFour := scored("q", map[string]int{"a": 4, "b": 4, "c": 4})
	allOne := scored("q", map[string]int{"a": 1, "b": 1, "c": 1})

	for _, opt := range []string{"a", "b", "c"} {
		top := Score([]model.Question{allFour}, []model.AnswerRecord{record("q", model.SingleAnswer(opt))})
		assert.Equal(t, 85.0, top.Score, "option %s", opt)
		assert.Equal(t, model.StageMature, top.Stage)

		bottom := Score([]model.Question{allOne}, []model.AnswerRecord{record("q", model.SingleAnswer(opt))})
		assert.Equal(t, 0.0, bottom.Score, "option %s", opt)
		assert.Equal(t, model.StageEarly, bottom.Stage)
	}
}

func TestScore_MultiSelectUsesFirstChoice(t *testing.T) {
	q := []model.Question{scored("q", scale)}

	multi := Score(q, []model.AnswerRecord{record("q", model.MultiAnswer("b", "d"))})
	single := Score(q, []model.AnswerRecord{record("q", model.SingleAnswer("b"))})

	assert.Equal(t, single, multi)
}

func TestScore_MissingAndUnknownAnswersScoreZero(t *testing.T) {
	selected := []model.Question{scored("s1", scale), scored("s2", scale), scored("s3", scale), scored("s4", scale)}
	answers := []model.AnswerRecord{
		record("s1", model.SingleAnswer("d")),
		record("s2", model.SingleAnswer("")),
		record("s3", model.SingleAnswer("not-an-option")),
		// s4 unanswered
	}

	// raw = 4/4 = 1 -> 0
	got := Score(selected, answers)
	assert.Equal(t, 0.0, got.Score)
}

func TestScore_EmptyMultiSelectScoresZero(t *testing.T) {
	q := []model.Question{scored("q", scale)}
	got := Score(q, []model.AnswerRecord{record("q", model.MultiAnswer())})
	assert.Equal(t, 0.0, got.Score)
}

func TestScore_NoScoringQuestions(t *testing.T) {
	got := Score([]model.Question{plain("n1")}, []model.AnswerRecord{record("n1", model.SingleAnswer("x"))})
	assert.Equal(t, 0.0, got.Score)
	assert.Equal(t, model.StageEarly, got.Stage)
}

func TestScore_FirstRecordedAnswerWins(t *testing.T) {
	q := []model.Question{scored("q", scale)}
	got := Score(q, []model.AnswerRecord{
		record("q", model.SingleAnswer("d")),
		record("q", model.SingleAnswer("a")),
	})
	assert.Equal(t, 85.0, got.Score)
}

func TestScore_OutOfRangePointsAreClamped(t *testing.T) {
	q := []model.Question{scored("q", map[string]int{"huge": 10, "neg": -3})}

	high := Score(q, []model.AnswerRecord{record("q", model.SingleAnswer("huge"))})
	assert.Equal(t, 100.0, high.Score)

	low := Score(q, []model.AnswerRecord{record("q", model.SingleAnswer("neg"))})
	assert.Equal(t, 0.0, low.Score)
}

func TestStageFor_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  model.Stage
	}{
		{0, model.StageEarly},
		{40, model.StageEarly},
		{40.1, model.StageDeveloping},
		{60, model.StageDeveloping},
		{60.1, model.StageTransforming},
		{75, model.StageTransforming},
		{75.1, model.StageMature},
		{100, model.StageMature},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StageFor(tt.score), "score %v", tt.score)
	}
}
