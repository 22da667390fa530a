package model

import "time"

// Host is an employee who receives visitors. Appointments and passes
// reference hosts by ID. Hosts are served to clients as-is, so the
// struct carries json tags.
type Host struct {
	ID         uint64    `json:"id"`                   // hosts.id
	Name       string    `json:"name"`                 // hosts.name
	Email      string    `json:"email"`                // hosts.email
	Department *string   `json:"department,omitempty"` // hosts.department (nullable)
	CreatedAt  time.Time `json:"createdAt"`            // hosts.created_at
	UpdatedAt  time.Time `json:"updatedAt"`            // hosts.updated_at
}
