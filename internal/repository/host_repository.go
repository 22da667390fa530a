package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/visitor-pass-service/internal/model"
)

// HostRepo provides CRUD operations for host profiles.
type HostRepo struct {
	db *sql.DB
}

// NewHostRepo returns a new HostRepo bound to the given database.
func NewHostRepo(db *sql.DB) *HostRepo { return &HostRepo{db: db} }

// Create inserts a host and populates the generated ID and
// timestamps on the model.
func (r *HostRepo) Create(ctx context.Context, h *model.Host) error {
	const q = `INSERT INTO hosts (name, email, department) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.Email, h.Department)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM hosts WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, h.ID).Scan(&h.CreatedAt, &h.UpdatedAt)
}

// GetByID returns a host by ID or ErrHostNotFound.
func (r *HostRepo) GetByID(ctx context.Context, id uint64) (*model.Host, error) {
	const q = `SELECT id, name, email, department, created_at, updated_at
	           FROM hosts WHERE id = ?`
	var h model.Host
	var dept sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&h.ID, &h.Name, &h.Email, &dept, &h.CreatedAt, &h.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrHostNotFound
	}
	if err != nil {
		return nil, err
	}
	h.Department = nullableString(dept)
	return &h, nil
}

// List returns all hosts ordered by name.
func (r *HostRepo) List(ctx context.Context) ([]model.Host, error) {
	const q = `SELECT id, name, email, department, created_at, updated_at
	           FROM hosts ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Host{}
	for rows.Next() {
		var h model.Host
		var dept sql.NullString
		if err := rows.Scan(&h.ID, &h.Name, &h.Email, &dept,
			&h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		h.Department = nullableString(dept)
		out = append(out, h)
	}
	return out, rows.Err()
}

// Update overwrites the mutable host fields and returns the fresh
// row.
func (r *HostRepo) Update(ctx context.Context, id uint64, name, email string, department *string) (*model.Host, error) {
	const q = `UPDATE hosts SET name = ?, email = ?, department = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, name, email, department, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a host. Returns ErrHostNotFound when no row
// matches.
func (r *HostRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hosts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrHostNotFound
	}
	return nil
}
