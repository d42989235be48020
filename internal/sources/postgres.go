// internal/sources/postgres.go
package sources

import (
	"context"
	"database/sql"

	"knowledge-engine/internal/models"

	"github.com/lib/pq"
)

// ProfileStore reads declared profiles from PostgreSQL.
type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

const profileColumns = `id, user_id, user_name, expertise, work_style, communication_style, active, updated_at`

func (s *ProfileStore) ListAll(ctx context.Context) ([]models.ProfileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY user_id, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func (s *ProfileStore) ListByUser(ctx context.Context, userID string) ([]models.ProfileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func scanProfiles(rows *sql.Rows) ([]models.ProfileRecord, error) {
	var records []models.ProfileRecord
	for rows.Next() {
		var r models.ProfileRecord
		var workStyle, commStyle sql.NullString
		err := rows.Scan(&r.ID, &r.UserID, &r.UserName, pq.Array(&r.Expertise),
			&workStyle, &commStyle, &r.Active, &r.UpdatedAt)
		if err != nil {
			return nil, err
		}
		r.WorkStyle = workStyle.String
		r.CommunicationStyle = commStyle.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// QAStore reads answered questions from PostgreSQL.
type QAStore struct {
	db *sql.DB
}

func NewQAStore(db *sql.DB) *QAStore {
	return &QAStore{db: db}
}

const qaColumns = `id, user_id, user_name, question, answer, category, created_at`

func (s *QAStore) ListAll(ctx context.Context) ([]models.QARecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+qaColumns+` FROM qa_responses ORDER BY user_id, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQARecords(rows)
}

func (s *QAStore) ListByUser(ctx context.Context, userID string) ([]models.QARecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+qaColumns+` FROM qa_responses WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQARecords(rows)
}

func scanQARecords(rows *sql.Rows) ([]models.QARecord, error) {
	var records []models.QARecord
	for rows.Next() {
		var r models.QARecord
		var category sql.NullString
		err := rows.Scan(&r.ID, &r.UserID, &r.UserName, &r.Question, &r.Answer,
			&category, &r.CreatedAt)
		if err != nil {
			return nil, err
		}
		r.Category = category.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// SurveyStore reads survey answers from PostgreSQL.
type SurveyStore struct {
	db *sql.DB
}

func NewSurveyStore(db *sql.DB) *SurveyStore {
	return &SurveyStore{db: db}
}

const surveyColumns = `id, user_id, user_name, question, answer_type, answer_text, created_at`

func (s *SurveyStore) ListAll(ctx context.Context) ([]models.SurveyRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+surveyColumns+` FROM survey_responses ORDER BY user_id, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSurveyRecords(rows)
}

func (s *SurveyStore) ListByUser(ctx context.Context, userID string) ([]models.SurveyRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+surveyColumns+` FROM survey_responses WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSurveyRecords(rows)
}

func scanSurveyRecords(rows *sql.Rows) ([]models.SurveyRecord, error) {
	var records []models.SurveyRecord
	for rows.Next() {
		var r models.SurveyRecord
		var answerType string
		var answerText sql.NullString
		err := rows.Scan(&r.ID, &r.UserID, &r.UserName, &r.Question, &answerType,
			&answerText, &r.CreatedAt)
		if err != nil {
			return nil, err
		}
		r.AnswerType = models.SurveyAnswerType(answerType)
		r.AnswerText = answerText.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// RosterStore reads the user roster from PostgreSQL.
type RosterStore struct {
	db *sql.DB
}

func NewRosterStore(db *sql.DB) *RosterStore {
	return &RosterStore{db: db}
}

func (s *RosterStore) ListAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, department, role FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		var department, role sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &department, &role); err != nil {
			return nil, err
		}
		u.Department = department.String
		u.Role = role.String
		users = append(users, u)
	}
	return users, rows.Err()
}
