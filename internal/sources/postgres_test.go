// internal/sources/postgres_test.go
package sources

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileStore_ListAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	updated := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "user_name", "expertise", "work_style", "communication_style", "active", "updated_at",
	}).
		AddRow("p1", "alice", "Alice", pq.Array([]string{"docker", "golang"}), "deep work", "async", true, updated).
		AddRow("p2", "bob", "Bob", pq.Array([]string{}), nil, nil, false, updated)

	mock.ExpectQuery(`SELECT (.+) FROM profiles ORDER BY user_id, id`).WillReturnRows(rows)

	records, err := NewProfileStore(db).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "alice", records[0].UserID)
	assert.Equal(t, []string{"docker", "golang"}, records[0].Expertise)
	assert.Equal(t, "deep work", records[0].WorkStyle)
	assert.Equal(t, "async", records[0].CommunicationStyle)
	assert.True(t, records[0].Active)

	// Null optional columns come back empty, not failing the scan.
	assert.Empty(t, records[1].WorkStyle)
	assert.Empty(t, records[1].CommunicationStyle)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileStore_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	updated := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "user_name", "expertise", "work_style", "communication_style", "active", "updated_at",
	}).AddRow("p1", "alice", "Alice", pq.Array([]string{"docker"}), nil, nil, true, updated)

	mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE user_id = \$1 ORDER BY id`).
		WithArgs("alice").
		WillReturnRows(rows)

	records, err := NewProfileStore(db).ListByUser(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQAStore_ListAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "user_name", "question", "answer", "category", "created_at",
	}).
		AddRow("q1", "alice", "Alice", "Containers?", "We use docker.", "tips", created).
		AddRow("q2", "bob", "Bob", "Testing?", "Table tests.", nil, created)

	mock.ExpectQuery(`SELECT (.+) FROM qa_responses ORDER BY user_id, id`).WillReturnRows(rows)

	records, err := NewQAStore(db).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "tips", records[0].Category)
	assert.Empty(t, records[1].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSurveyStore_ListAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "user_name", "question", "answer_type", "answer_text", "created_at",
	}).
		AddRow("s1", "alice", "Alice", "Feedback?", "text", "More onboarding docs please", created).
		AddRow("s2", "bob", "Bob", "Rating?", "rating", nil, created)

	mock.ExpectQuery(`SELECT (.+) FROM survey_responses ORDER BY user_id, id`).WillReturnRows(rows)

	records, err := NewSurveyStore(db).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "text", string(records[0].AnswerType))
	assert.Equal(t, "More onboarding docs please", records[0].AnswerText)
	assert.Empty(t, records[1].AnswerText)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterStore_ListAllUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "department", "role"}).
		AddRow("alice", "Alice", "Platform", "Engineer").
		AddRow("bob", "Bob", nil, nil)

	mock.ExpectQuery(`SELECT id, name, department, role FROM users ORDER BY id`).WillReturnRows(rows)

	users, err := NewRosterStore(db).ListAllUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Platform", users[0].Department)
	assert.Empty(t, users[1].Department)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQAStore_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM qa_responses`).WillReturnError(assert.AnError)

	_, err = NewQAStore(db).ListAll(context.Background())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
