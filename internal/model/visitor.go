package model

import "time"

// Visitor is a person who may be issued access passes. Rows live in
// the `visitors` table; passes and appointments reference them by ID.
// Unlike the auth models, visitors are served to clients as-is, so
// the struct carries json tags.
type Visitor struct {
	ID        uint64    `json:"id"`                // visitors.id
	Name      string    `json:"name"`              // visitors.name
	Email     string    `json:"email"`             // visitors.email
	Phone     *string   `json:"phone,omitempty"`   // visitors.phone (nullable)
	Company   *string   `json:"company,omitempty"` // visitors.company (nullable)
	CreatedAt time.Time `json:"createdAt"`         // visitors.created_at
	UpdatedAt time.Time `json:"updatedAt"`         // visitors.updated_at
}
