package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/visitor-pass-service/internal/model"
	"github.com/iliyamo/visitor-pass-service/internal/occupancy"
)

// PassRepo provides CRUD operations for passes plus the projections
// needed by the live-occupancy endpoint and the QR backfill job.
// All timestamp columns are stored in UTC.
type PassRepo struct {
	db *sql.DB
}

// NewPassRepo returns a new PassRepo bound to the given database.
func NewPassRepo(db *sql.DB) *PassRepo { return &PassRepo{db: db} }

// VisitorSummary carries the visitor fields joined into pass
// responses.
type VisitorSummary struct {
	ID      uint64  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
}

// HostSummary carries the host fields joined into pass responses.
type HostSummary struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AppointmentSummary carries the appointment fields joined into pass
// responses when the pass references one.
type AppointmentSummary struct {
	ID          uint64    `json:"id"`
	Purpose     *string   `json:"purpose,omitempty"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Status      string    `json:"status"`
}

// PassDetail is a pass expanded with visitor, host and appointment
// summaries. It is what list and get endpoints return.
type PassDetail struct {
	ID               uint64              `json:"id"`
	PassNumber       string              `json:"passNumber"`
	QRData           string              `json:"qrData"`
	QRImage          *string             `json:"qrImage"`
	ImageStatus      string              `json:"imageStatus"`
	ValidFrom        *time.Time          `json:"validFrom"`
	ValidTo          *time.Time          `json:"validTo"`
	ExpectedExitTime *time.Time          `json:"expectedExitTime,omitempty"`
	EntryTime        *time.Time          `json:"entryTime,omitempty"`
	Building         *string             `json:"building,omitempty"`
	Purpose          *string             `json:"purpose,omitempty"`
	Status           string              `json:"status"`
	CreatedBy        uint64              `json:"createdBy"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
	Visitor          VisitorSummary      `json:"visitor"`
	Host             HostSummary         `json:"host"`
	Appointment      *AppointmentSummary `json:"appointment"`
}

// PassFilter restricts List output. Nil/empty fields are skipped.
// CreatedBy is set by the handler for non-admin callers to enforce
// row-level visibility.
type PassFilter struct {
	VisitorID *uint64
	HostID    *uint64
	Status    string
	CreatedBy *uint64
}

// PassUpdate holds the caller-mutable pass fields. Only non-nil
// fields are written; everything else on the row is untouched. The
// allow-list is deliberate: pass_number, qr_data, qr_image and
// created_by are not representable here.
type PassUpdate struct {
	Status           *string
	ValidFrom        *time.Time
	ValidTo          *time.Time
	ExpectedExitTime *time.Time
	EntryTime        *time.Time
	Building         *string
	Purpose          *string
	AppointmentID    *uint64
}

// PendingImage identifies a pass stuck in the PENDING image state,
// with the payload needed to re-encode it.
type PendingImage struct {
	ID     uint64
	QRData string
}

// detailColumns is the SELECT list shared by GetByID and List.
const detailColumns = `p.id, p.pass_number, p.qr_data, p.qr_image, p.image_status,
       p.valid_from, p.valid_to, p.expected_exit_time, p.entry_time,
       p.building, p.purpose, p.status, p.created_by, p.created_at, p.updated_at,
       v.id, v.name, v.email, v.phone, v.company,
       h.id, h.name, h.email,
       a.id, a.purpose, a.scheduled_at, a.status`

const detailJoins = ` FROM passes p
       JOIN visitors v ON v.id = p.visitor_id
       JOIN hosts h ON h.id = p.host_id
       LEFT JOIN appointments a ON a.id = p.appointment_id`

// Create inserts a new pass row and populates the generated ID and
// timestamps on the given model. This is phase one of issuance: the
// row starts with image_status PENDING and no QR image.
func (r *PassRepo) Create(ctx context.Context, p *model.Pass) error {
	const q = `INSERT INTO passes
	       (pass_number, visitor_id, host_id, appointment_id, qr_data,
	        image_status, valid_from, valid_to, expected_exit_time,
	        building, purpose, status, created_by)
	       VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		p.PassNumber, p.VisitorID, p.HostID, p.AppointmentID, p.QRData,
		model.ImageStatusPending, p.ValidFrom, p.ValidTo, p.ExpectedExitTime,
		p.Building, p.Purpose, p.Status, p.CreatedBy,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	p.ImageStatus = model.ImageStatusPending

	// Query back timestamps populated by the database defaults.
	const sel = `SELECT created_at, updated_at FROM passes WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// AttachQRImage stores the encoded image and promotes the pass to
// the COMPLETE image state. This is phase two of issuance and the
// backfill path after a crash between the phases.
func (r *PassRepo) AttachQRImage(ctx context.Context, id uint64, image string) error {
	const q = `UPDATE passes SET qr_image = ?, image_status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, image, model.ImageStatusComplete, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPassNotFound
	}
	return nil
}

// GetByID loads a single pass with its visitor, host and appointment
// summaries. Returns ErrPassNotFound when no row matches.
func (r *PassRepo) GetByID(ctx context.Context, id uint64) (*PassDetail, error) {
	q := `SELECT ` + detailColumns + detailJoins + ` WHERE p.id = ?`
	det, err := scanDetail(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrPassNotFound
	}
	return det, err
}

// QRImage returns only the stored image for a pass. The pointer is
// nil while the pass is still in the PENDING image state. Returns
// ErrPassNotFound when no row matches.
func (r *PassRepo) QRImage(ctx context.Context, id uint64) (*string, error) {
	const q = `SELECT qr_image FROM passes WHERE id = ?`
	var img sql.NullString
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&img); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPassNotFound
		}
		return nil, err
	}
	if !img.Valid {
		return nil, nil
	}
	return &img.String, nil
}

// List returns passes matching the filter, newest first. Status
// matching is upper-cased at this boundary so clients may send
// either case.
func (r *PassRepo) List(ctx context.Context, f PassFilter) ([]PassDetail, error) {
	q := `SELECT ` + detailColumns + detailJoins + ` WHERE 1=1`
	args := make([]interface{}, 0, 4)
	if f.VisitorID != nil {
		q += ` AND p.visitor_id = ?`
		args = append(args, *f.VisitorID)
	}
	if f.HostID != nil {
		q += ` AND p.host_id = ?`
		args = append(args, *f.HostID)
	}
	if f.Status != "" {
		q += ` AND p.status = ?`
		args = append(args, strings.ToUpper(strings.TrimSpace(f.Status)))
	}
	if f.CreatedBy != nil {
		q += ` AND p.created_by = ?`
		args = append(args, *f.CreatedBy)
	}
	q += ` ORDER BY p.created_at DESC, p.id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PassDetail{}
	for rows.Next() {
		det, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *det)
	}
	return out, rows.Err()
}

// Update writes the non-nil fields of upd to the row and returns the
// post-update detail. Returns ErrPassNotFound when no row matches.
func (r *PassRepo) Update(ctx context.Context, id uint64, upd PassUpdate) (*PassDetail, error) {
	sets := make([]string, 0, 8)
	args := make([]interface{}, 0, 9)
	add := func(col string, v interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if upd.Status != nil {
		add("status", strings.ToUpper(*upd.Status))
	}
	if upd.ValidFrom != nil {
		add("valid_from", *upd.ValidFrom)
	}
	if upd.ValidTo != nil {
		add("valid_to", *upd.ValidTo)
	}
	if upd.ExpectedExitTime != nil {
		add("expected_exit_time", *upd.ExpectedExitTime)
	}
	if upd.EntryTime != nil {
		add("entry_time", *upd.EntryTime)
	}
	if upd.Building != nil {
		add("building", *upd.Building)
	}
	if upd.Purpose != nil {
		add("purpose", *upd.Purpose)
	}
	if upd.AppointmentID != nil {
		add("appointment_id", *upd.AppointmentID)
	}
	if len(sets) > 0 {
		q := `UPDATE passes SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
	}
	// GetByID doubles as the existence check: an UPDATE against a
	// missing row affects nothing and the read reports not-found.
	return r.GetByID(ctx, id)
}

// Delete removes a pass and returns its last state. Returns
// ErrPassNotFound when no row matches.
func (r *PassRepo) Delete(ctx context.Context, id uint64) (*PassDetail, error) {
	det, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM passes WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrPassNotFound
	}
	return det, nil
}

// ListActive returns the occupancy projection of every ACTIVE pass.
// Purpose falls back to the appointment purpose when the pass itself
// carries none.
func (r *PassRepo) ListActive(ctx context.Context) ([]occupancy.PassSnapshot, error) {
	const q = `SELECT p.id, v.name, COALESCE(p.purpose, a.purpose, ''),
	                  h.name, COALESCE(p.building, ''),
	                  p.entry_time, p.valid_to, p.expected_exit_time
	           FROM passes p
	           JOIN visitors v ON v.id = p.visitor_id
	           JOIN hosts h ON h.id = p.host_id
	           LEFT JOIN appointments a ON a.id = p.appointment_id
	           WHERE p.status = ?
	           ORDER BY p.created_at, p.id`
	rows, err := r.db.QueryContext(ctx, q, model.PassStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []occupancy.PassSnapshot{}
	for rows.Next() {
		var s occupancy.PassSnapshot
		var entry, validTo, expected sql.NullTime
		if err := rows.Scan(&s.ID, &s.VisitorName, &s.Purpose, &s.HostName,
			&s.Building, &entry, &validTo, &expected); err != nil {
			return nil, err
		}
		s.EntryTime = nullableTime(entry)
		s.ValidTo = nullableTime(validTo)
		s.ExpectedExit = nullableTime(expected)
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListPendingImages returns up to limit passes whose QR image was
// never attached, oldest first, for the backfill job.
func (r *PassRepo) ListPendingImages(ctx context.Context, limit int) ([]PendingImage, error) {
	const q = `SELECT id, qr_data FROM passes
	           WHERE image_status = ? ORDER BY id LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, model.ImageStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PendingImage{}
	for rows.Next() {
		var p PendingImage
		if err := rows.Scan(&p.ID, &p.QRData); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CheckIn records the visitor's entry on an ACTIVE pass that has not
// been used yet. The guarded UPDATE keeps the transition atomic; the
// follow-up read only classifies why it missed.
func (r *PassRepo) CheckIn(ctx context.Context, id uint64, now time.Time) error {
	const q = `UPDATE passes SET entry_time = ?
	           WHERE id = ? AND status = ? AND entry_time IS NULL`
	res, err := r.db.ExecContext(ctx, q, now, id, model.PassStatusActive)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 1 {
		return nil
	}
	return r.classifyTransitionMiss(ctx, id, true)
}

// CheckOut marks a checked-in pass as USED.
func (r *PassRepo) CheckOut(ctx context.Context, id uint64, now time.Time) error {
	const q = `UPDATE passes SET status = ?
	           WHERE id = ? AND status = ? AND entry_time IS NOT NULL`
	res, err := r.db.ExecContext(ctx, q, model.PassStatusUsed, id, model.PassStatusActive)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 1 {
		return nil
	}
	return r.classifyTransitionMiss(ctx, id, false)
}

// classifyTransitionMiss explains why a guarded check-in/out UPDATE
// affected no rows.
func (r *PassRepo) classifyTransitionMiss(ctx context.Context, id uint64, checkIn bool) error {
	var status string
	var entry sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT status, entry_time FROM passes WHERE id = ?`, id).Scan(&status, &entry)
	if err == sql.ErrNoRows {
		return ErrPassNotFound
	}
	if err != nil {
		return err
	}
	if status != model.PassStatusActive {
		return ErrPassNotActive
	}
	if checkIn {
		return ErrAlreadyInside
	}
	return ErrNotCheckedIn
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanDetail.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDetail(row rowScanner) (*PassDetail, error) {
	var det PassDetail
	var qrImage sql.NullString
	var validFrom, validTo, expectedExit, entry sql.NullTime
	var building, purpose sql.NullString
	var vPhone, vCompany sql.NullString
	var aID sql.NullInt64
	var aPurpose sql.NullString
	var aScheduled sql.NullTime
	var aStatus sql.NullString

	err := row.Scan(
		&det.ID, &det.PassNumber, &det.QRData, &qrImage, &det.ImageStatus,
		&validFrom, &validTo, &expectedExit, &entry,
		&building, &purpose, &det.Status, &det.CreatedBy, &det.CreatedAt, &det.UpdatedAt,
		&det.Visitor.ID, &det.Visitor.Name, &det.Visitor.Email, &vPhone, &vCompany,
		&det.Host.ID, &det.Host.Name, &det.Host.Email,
		&aID, &aPurpose, &aScheduled, &aStatus,
	)
	if err != nil {
		return nil, err
	}
	det.QRImage = nullableString(qrImage)
	det.ValidFrom = nullableTime(validFrom)
	det.ValidTo = nullableTime(validTo)
	det.ExpectedExitTime = nullableTime(expectedExit)
	det.EntryTime = nullableTime(entry)
	det.Building = nullableString(building)
	det.Purpose = nullableString(purpose)
	det.Visitor.Phone = nullableString(vPhone)
	det.Visitor.Company = nullableString(vCompany)
	if aID.Valid {
		appt := AppointmentSummary{ID: uint64(aID.Int64)}
		appt.Purpose = nullableString(aPurpose)
		if aScheduled.Valid {
			appt.ScheduledAt = aScheduled.Time
		}
		if aStatus.Valid {
			appt.Status = aStatus.String
		}
		det.Appointment = &appt
	}
	return &det, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
