package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/visitor-pass-service/internal/model"
)

func TestVisitorCreatePopulatesIDAndTimestamps(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	phone := "+1-555-0100"
	mock.ExpectExec(`INSERT INTO visitors`).
		WithArgs("Dana Visitor", "dana@example.com", &phone, nil).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(`SELECT created_at, updated_at FROM visitors WHERE id = \?`).
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	repo := NewVisitorRepo(db)
	v := &model.Visitor{Name: "Dana Visitor", Email: "dana@example.com", Phone: &phone}
	require.NoError(t, repo.Create(context.Background(), v))

	assert.Equal(t, uint64(11), v.ID)
	assert.Equal(t, now, v.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVisitorGetByIDMapsNulls(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "phone", "company", "created_at", "updated_at"}).
		AddRow(11, "Dana Visitor", "dana@example.com", nil, nil, now, now)
	mock.ExpectQuery(`SELECT id, name, email, phone, company`).
		WithArgs(uint64(11)).WillReturnRows(rows)

	v, err := NewVisitorRepo(db).GetByID(context.Background(), 11)
	require.NoError(t, err)
	assert.Nil(t, v.Phone)
	assert.Nil(t, v.Company)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVisitorGetByIDMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, email, phone, company`).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewVisitorRepo(db).GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrVisitorNotFound)
}

func TestVisitorDeleteMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM visitors WHERE id = \?`).
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewVisitorRepo(db).Delete(context.Background(), 99)
	assert.ErrorIs(t, err, ErrVisitorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentListFilterUpperCasesStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "visitor_id", "v_name", "host_id", "h_name",
		"purpose", "scheduled_at", "status", "created_at", "updated_at",
	}).AddRow(5, 1, "Dana", 2, "Sam", nil, now, model.AppointmentScheduled, now, now)
	mock.ExpectQuery(`WHERE a\.status = \?`).
		WithArgs("SCHEDULED").
		WillReturnRows(rows)

	out, err := NewAppointmentRepo(db).List(context.Background(), "scheduled")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Dana", out[0].VisitorName)
	require.NoError(t, mock.ExpectationsWereMet())
}
