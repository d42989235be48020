// internal/models/records.go
package models

import "time"

// User is one roster entry. Department and role are optional.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role,omitempty"`
}

// ProfileRecord is a user's self-declared profile.
type ProfileRecord struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	UserName           string    `json:"userName"`
	Expertise          []string  `json:"expertise"`
	WorkStyle          string    `json:"workStyle,omitempty"`
	CommunicationStyle string    `json:"communicationStyle,omitempty"`
	Active             bool      `json:"active"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// QARecord is one answered question from the internal Q&A rounds.
type QARecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// SurveyAnswerType distinguishes free-text answers from structured ones.
type SurveyAnswerType string

const (
	SurveyAnswerText    SurveyAnswerType = "text"
	SurveyAnswerChoice  SurveyAnswerType = "choice"
	SurveyAnswerRating  SurveyAnswerType = "rating"
	SurveyAnswerBoolean SurveyAnswerType = "boolean"
)

// SurveyRecord is one answer from a periodic survey.
type SurveyRecord struct {
	ID         string           `json:"id"`
	UserID     string           `json:"userId"`
	UserName   string           `json:"userName"`
	Question   string           `json:"question"`
	AnswerType SurveyAnswerType `json:"answerType"`
	AnswerText string           `json:"answerText"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// StatusNoteRecord is a free-text status update (progress + notes fields).
type StatusNoteRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Progress  string    `json:"progress"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}
