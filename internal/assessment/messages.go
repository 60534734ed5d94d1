package assessment

import "inflecto-api/internal/model"

// EventType names an inbound client event
type EventType string

const (
	EventStart  EventType = "start"
	EventAnswer EventType = "answer"
)

// Event is an inbound client event after decoding
type Event struct {
	Type         EventType
	Persona      model.Persona
	AssessmentID *string         // Opaque correlation id, start only
	Answer       model.RawAnswer // Answer only
}

// MessageType names an outbound message
type MessageType string

const (
	MsgAck      MessageType = "ack"
	MsgQuestion MessageType = "question"
	MsgComplete MessageType = "complete"
	MsgError    MessageType = "error"
)

// Message is an outbound protocol message, serialised as JSON as-is
type Message interface {
	MessageType() MessageType
}

// AckMessage confirms a start event
type AckMessage struct {
	Type    MessageType   `json:"type"`
	Persona model.Persona `json:"persona"`
	Total   int           `json:"total"`
}

func (AckMessage) MessageType() MessageType { return MsgAck }

// QuestionView is a question as the client sees it
type QuestionView struct {
	ID       string             `json:"id"`
	Text     string             `json:"text"`
	Type     model.QuestionType `json:"type"`
	Options  []string           `json:"options"`
	Scoring  bool               `json:"scoring"`
	ScoreMap map[string]int     `json:"score_map,omitempty"`
}

// QuestionMessage carries the question at Index (1-based)
type QuestionMessage struct {
	Type     MessageType  `json:"type"`
	Question QuestionView `json:"question"`
	Index    int          `json:"index"`
	Total    int          `json:"total"`
}

func (QuestionMessage) MessageType() MessageType { return MsgQuestion }

// CompleteMessage reports the final score
type CompleteMessage struct {
	Type         MessageType `json:"type"`
	AssessmentID *string     `json:"assessment_id"`
	Score        float64     `json:"score"`
	Stage        model.Stage `json:"stage"`
	Answered     int         `json:"answered"`
	Total        int         `json:"total"`
}

func (CompleteMessage) MessageType() MessageType { return MsgComplete }

// ErrorMessage reports a protocol or configuration error
type ErrorMessage struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

func (ErrorMessage) MessageType() MessageType { return MsgError }

// Error message texts
const (
	ErrTextNoQuestions   = "No questions found for persona."
	ErrTextInvalidFormat = "Invalid message format."
)

// NewError builds an error message
func NewError(text string) ErrorMessage {
	return ErrorMessage{Type: MsgError, Message: text}
}
