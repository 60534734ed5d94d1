package model

import "time"

// ReportStatus tracks asynchronous report generation
type ReportStatus string

const (
	ReportNotStarted ReportStatus = "not_started"
	ReportPending    ReportStatus = "pending"
	ReportReady      ReportStatus = "ready"
	ReportFailed     ReportStatus = "failed"
)

// StoredAnswer is an answer submitted through the REST flow
type StoredAnswer struct {
	QuestionID string    `json:"question_id" bson:"questionId"`
	Answer     RawAnswer `json:"answer" bson:"answer"`
	AnsweredAt time.Time `json:"answered_at" bson:"answeredAt"`
}

// Assessment is a persisted readiness assessment. Its ID is the opaque
// correlation token clients send as assessmentId on the socket.
type Assessment struct {
	ID           string         `json:"id" bson:"_id"`
	Name         string         `json:"name" bson:"name"`
	Email        string         `json:"email" bson:"email"`
	CompanyName  string         `json:"company_name" bson:"companyName"`
	Role         string         `json:"role,omitempty" bson:"role,omitempty"`
	Persona      Persona        `json:"persona" bson:"persona"`
	Answers      []StoredAnswer `json:"answers" bson:"answers"`
	Result       *Result        `json:"result,omitempty" bson:"result,omitempty"`
	ReportStatus ReportStatus   `json:"report_status" bson:"reportStatus"`
	Report       *Report        `json:"report,omitempty" bson:"report,omitempty"`
	ReportError  string         `json:"report_error,omitempty" bson:"reportError,omitempty"`
	EmailedAt    *time.Time     `json:"emailed_at,omitempty" bson:"emailedAt,omitempty"`
	CreatedAt    time.Time      `json:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time      `json:"updated_at" bson:"updatedAt"`
}
