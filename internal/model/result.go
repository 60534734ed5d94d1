package model

// Stage is a readiness-maturity label bucketed from the normalized score
type Stage string

const (
	StageEarly        Stage = "Early-Stage AI"
	StageDeveloping   Stage = "Developing"
	StageTransforming Stage = "Transforming"
	StageMature       Stage = "AI-Mature"
)

// Result is the outcome of scoring a completed session
type Result struct {
	Score float64 `json:"score" bson:"score"` // 0-100, one decimal
	Stage Stage   `json:"stage" bson:"stage"`
}
