package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/visitor-pass-service/internal/model"
)

// VisitorRepo provides CRUD operations for visitor profiles.
type VisitorRepo struct {
	db *sql.DB
}

// NewVisitorRepo returns a new VisitorRepo bound to the given
// database.
func NewVisitorRepo(db *sql.DB) *VisitorRepo { return &VisitorRepo{db: db} }

// Create inserts a visitor and populates the generated ID and
// timestamps on the model.
func (r *VisitorRepo) Create(ctx context.Context, v *model.Visitor) error {
	const q = `INSERT INTO visitors (name, email, phone, company) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.Email, v.Phone, v.Company)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM visitors WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, v.ID).Scan(&v.CreatedAt, &v.UpdatedAt)
}

// GetByID returns a visitor by ID or ErrVisitorNotFound.
func (r *VisitorRepo) GetByID(ctx context.Context, id uint64) (*model.Visitor, error) {
	const q = `SELECT id, name, email, phone, company, created_at, updated_at
	           FROM visitors WHERE id = ?`
	var v model.Visitor
	var phone, company sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&v.ID, &v.Name, &v.Email, &phone, &company, &v.CreatedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrVisitorNotFound
	}
	if err != nil {
		return nil, err
	}
	v.Phone = nullableString(phone)
	v.Company = nullableString(company)
	return &v, nil
}

// List returns all visitors, newest first.
func (r *VisitorRepo) List(ctx context.Context) ([]model.Visitor, error) {
	const q = `SELECT id, name, email, phone, company, created_at, updated_at
	           FROM visitors ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Visitor{}
	for rows.Next() {
		var v model.Visitor
		var phone, company sql.NullString
		if err := rows.Scan(&v.ID, &v.Name, &v.Email, &phone, &company,
			&v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		v.Phone = nullableString(phone)
		v.Company = nullableString(company)
		out = append(out, v)
	}
	return out, rows.Err()
}

// Update overwrites the mutable visitor fields and returns the fresh
// row.
func (r *VisitorRepo) Update(ctx context.Context, id uint64, name, email string, phone, company *string) (*model.Visitor, error) {
	const q = `UPDATE visitors SET name = ?, email = ?, phone = ?, company = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, name, email, phone, company, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a visitor. Returns ErrVisitorNotFound when no row
// matches.
func (r *VisitorRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM visitors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVisitorNotFound
	}
	return nil
}
