package model

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrInvalidAnswer is returned when an answer is neither a string nor a list of strings
var ErrInvalidAnswer = errors.New("answer must be a string or a list of strings")

// RawAnswer is an answer exactly as the client sent it: a single string,
// a list of strings (multi-select), or nothing at all.
type RawAnswer struct {
	Values []string `json:"-" bson:"values"`
	Multi  bool     `json:"-" bson:"multi"`
}

// SingleAnswer builds a single-choice answer
func SingleAnswer(v string) RawAnswer {
	return RawAnswer{Values: []string{v}}
}

// MultiAnswer builds a multi-select answer
func MultiAnswer(vs ...string) RawAnswer {
	return RawAnswer{Values: vs, Multi: true}
}

// Empty reports whether the answer carries nothing that can be scored
func (a RawAnswer) Empty() bool {
	return len(a.Values) == 0 || (!a.Multi && a.Values[0] == "")
}

// Key returns the value used for score lookup. Multi-select answers only
// contribute their first selection.
func (a RawAnswer) Key() (string, bool) {
	if a.Empty() {
		return "", false
	}
	return a.Values[0], true
}

// UnmarshalJSON accepts a string, an array of strings or null
func (a *RawAnswer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = RawAnswer{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = SingleAnswer(s)
		return nil
	case '[':
		var vs []string
		if err := json.Unmarshal(data, &vs); err != nil {
			return ErrInvalidAnswer
		}
		*a = MultiAnswer(vs...)
		return nil
	default:
		return ErrInvalidAnswer
	}
}

// MarshalJSON writes the answer back in the shape it arrived in
func (a RawAnswer) MarshalJSON() ([]byte, error) {
	if a.Multi {
		if a.Values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.Values)
	}
	if len(a.Values) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(a.Values[0])
}

// AnswerRecord is one collected answer in a session
type AnswerRecord struct {
	QuestionID string    `json:"questionId" bson:"questionId"`
	Answer     RawAnswer `json:"answer" bson:"answer"`
	Scoring    bool      `json:"scoring" bson:"scoring"`
}
