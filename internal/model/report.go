package model

import "time"

// ScoreSection summarises the score inside a report
type ScoreSection struct {
	Score          float64 `json:"score" bson:"score"`
	Stage          Stage   `json:"stage" bson:"stage"`
	Interpretation string  `json:"interpretation" bson:"interpretation"`
}

// Report is the narrative readiness report sent to the respondent
type Report struct {
	Title                string       `json:"title" bson:"title"`
	Date                 string       `json:"date" bson:"date"`
	ScoreSection         ScoreSection `json:"score_section" bson:"scoreSection"`
	KeyObservations      []string     `json:"key_observations" bson:"keyObservations"`
	AreasOfOpportunity   []string     `json:"areas_of_opportunity" bson:"areasOfOpportunity"`
	RecommendedNextSteps []string     `json:"recommended_next_steps" bson:"recommendedNextSteps"`
	ThankYou             string       `json:"thank_you" bson:"thankYou"`
	CTA                  string       `json:"cta" bson:"cta"`
	GeneratedBy          string       `json:"generated_by,omitempty" bson:"generatedBy,omitempty"` // model name or "template"
	ReadyAt              *time.Time   `json:"ready_at,omitempty" bson:"readyAt,omitempty"`
}
