package assessment

import (
	"math"

	"inflecto-api/internal/model"
)

// Score maps a session's selected questions and collected answers to a
// normalized 0-100 readiness score and its stage.
//
// Each scoring question contributes the points of its answer; a missing or
// empty answer, or one the score map does not know, contributes 0. Only the
// first option of a multi-select answer is scored. The mean is rescaled from
// the 1-4 point scale onto 0-85 and clamped to [0, 100].
func Score(selected []model.Question, answers []model.AnswerRecord) model.Result {
	byQuestion := make(map[string]model.RawAnswer, len(answers))
	for _, a := range answers {
		if _, seen := byQuestion[a.QuestionID]; !seen {
			byQuestion[a.QuestionID] = a.Answer
		}
	}

	var total, count int
	for i := range selected {
		q := &selected[i]
		if !q.Scoring {
			continue
		}
		count++

		ans, ok := byQuestion[q.ID]
		if !ok {
			continue
		}
		key, ok := ans.Key()
		if !ok {
			continue
		}
		if pts, ok := q.Points(key); ok {
			total += pts
		}
	}

	raw := 0.0
	if count > 0 {
		raw = float64(total) / float64(count)
	}
	normalized := clamp((raw-1)/3*85, 0, 100)
	score := math.Round(normalized*10) / 10

	return model.Result{Score: score, Stage: StageFor(score)}
}

// StageFor buckets a normalized score. Bucket boundaries belong to the lower stage.
func StageFor(score float64) model.Stage {
	switch {
	case score <= 40:
		return model.StageEarly
	case score <= 60:
		return model.StageDeveloping
	case score <= 75:
		return model.StageTransforming
	default:
		return model.StageMature
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
