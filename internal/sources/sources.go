// internal/sources/sources.go

// Package sources holds the read-only adapters the engine consumes: four
// record providers and the roster provider. The engine never writes back
// to these stores.
package sources

import (
	"context"

	"knowledge-engine/internal/models"
)

// ProfileSource provides declared user profiles.
type ProfileSource interface {
	ListAll(ctx context.Context) ([]models.ProfileRecord, error)
	ListByUser(ctx context.Context, userID string) ([]models.ProfileRecord, error)
}

// QASource provides answered Q&A rounds.
type QASource interface {
	ListAll(ctx context.Context) ([]models.QARecord, error)
	ListByUser(ctx context.Context, userID string) ([]models.QARecord, error)
}

// SurveySource provides survey answers.
type SurveySource interface {
	ListAll(ctx context.Context) ([]models.SurveyRecord, error)
	ListByUser(ctx context.Context, userID string) ([]models.SurveyRecord, error)
}

// StatusNoteSource provides free-text status notes.
type StatusNoteSource interface {
	ListAll(ctx context.Context) ([]models.StatusNoteRecord, error)
	ListByUser(ctx context.Context, userID string) ([]models.StatusNoteRecord, error)
}

// RosterProvider provides the full user roster.
type RosterProvider interface {
	ListAllUsers(ctx context.Context) ([]models.User, error)
}
