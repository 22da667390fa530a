package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/visitor-pass-service/internal/model"
)

// AppointmentRepo provides CRUD operations for appointments.
type AppointmentRepo struct {
	db *sql.DB
}

// NewAppointmentRepo returns a new AppointmentRepo bound to the
// given database.
func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{db: db} }

// AppointmentDetail is an appointment expanded with visitor and host
// names for list screens.
type AppointmentDetail struct {
	ID          uint64    `json:"id"`
	VisitorID   uint64    `json:"visitorId"`
	VisitorName string    `json:"visitorName"`
	HostID      uint64    `json:"hostId"`
	HostName    string    `json:"hostName"`
	Purpose     *string   `json:"purpose,omitempty"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Create inserts an appointment and populates the generated ID and
// timestamps on the model.
func (r *AppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	const q = `INSERT INTO appointments (visitor_id, host_id, purpose, scheduled_at, status)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.VisitorID, a.HostID, a.Purpose, a.ScheduledAt, a.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM appointments WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, a.ID).Scan(&a.CreatedAt, &a.UpdatedAt)
}

// GetByID returns an appointment with joined names or
// ErrAppointmentNotFound.
func (r *AppointmentRepo) GetByID(ctx context.Context, id uint64) (*AppointmentDetail, error) {
	const q = `SELECT a.id, a.visitor_id, v.name, a.host_id, h.name,
	                  a.purpose, a.scheduled_at, a.status, a.created_at, a.updated_at
	           FROM appointments a
	           JOIN visitors v ON v.id = a.visitor_id
	           JOIN hosts h ON h.id = a.host_id
	           WHERE a.id = ?`
	det, err := scanAppointment(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	return det, err
}

// List returns appointments, soonest first, optionally filtered by
// status (matched case-insensitively).
func (r *AppointmentRepo) List(ctx context.Context, status string) ([]AppointmentDetail, error) {
	q := `SELECT a.id, a.visitor_id, v.name, a.host_id, h.name,
	             a.purpose, a.scheduled_at, a.status, a.created_at, a.updated_at
	      FROM appointments a
	      JOIN visitors v ON v.id = a.visitor_id
	      JOIN hosts h ON h.id = a.host_id`
	args := []interface{}{}
	if status != "" {
		q += ` WHERE a.status = ?`
		args = append(args, strings.ToUpper(strings.TrimSpace(status)))
	}
	q += ` ORDER BY a.scheduled_at, a.id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AppointmentDetail{}
	for rows.Next() {
		det, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *det)
	}
	return out, rows.Err()
}

// UpdateStatus transitions an appointment to the given status.
// Returns ErrAppointmentNotFound when no row matches.
func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id uint64, status string) (*AppointmentDetail, error) {
	const q = `UPDATE appointments SET status = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, strings.ToUpper(status), id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes an appointment. Returns ErrAppointmentNotFound when
// no row matches.
func (r *AppointmentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func scanAppointment(row rowScanner) (*AppointmentDetail, error) {
	var det AppointmentDetail
	var purpose sql.NullString
	err := row.Scan(&det.ID, &det.VisitorID, &det.VisitorName, &det.HostID, &det.HostName,
		&purpose, &det.ScheduledAt, &det.Status, &det.CreatedAt, &det.UpdatedAt)
	if err != nil {
		return nil, err
	}
	det.Purpose = nullableString(purpose)
	return &det, nil
}
