package model

import "time"

// Appointment status values.
const (
	AppointmentScheduled = "SCHEDULED"
	AppointmentCheckedIn = "CHECKED_IN"
	AppointmentCompleted = "COMPLETED"
	AppointmentCancelled = "CANCELLED"
)

// Appointment links a visitor to a host at a scheduled time. Passes
// may optionally reference an appointment; deleting a pass performs
// no cascading cleanup of the appointment side.
//
// Fields:
//  ID          – primary key identifier.
//  VisitorID   – visitor attending the appointment.
//  HostID      – host being visited.
//  Purpose     – free-text reason for the visit.
//  ScheduledAt – when the appointment is due to start.
//  Status      – SCHEDULED, CHECKED_IN, COMPLETED or CANCELLED.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Appointment struct {
	ID          uint64    // appointments.id
	VisitorID   uint64    // appointments.visitor_id
	HostID      uint64    // appointments.host_id
	Purpose     *string   // appointments.purpose (nullable)
	ScheduledAt time.Time // appointments.scheduled_at
	Status      string    // appointments.status
	CreatedAt   time.Time // appointments.created_at
	UpdatedAt   time.Time // appointments.updated_at
}
