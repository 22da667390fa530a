// Package repository implements the persistence layer over MySQL.
// This file defines sentinel errors shared across repositories so
// handlers can map failure modes to HTTP statuses without string
// matching.
package repository

import "errors"

// ErrPassNotFound is returned when a pass lookup matches no row.
// Handlers translate it into HTTP 404.
var ErrPassNotFound = errors.New("pass not found")

// ErrVisitorNotFound is returned when a visitor lookup matches no
// row.
var ErrVisitorNotFound = errors.New("visitor not found")

// ErrHostNotFound is returned when a host lookup matches no row.
var ErrHostNotFound = errors.New("host not found")

// ErrAppointmentNotFound is returned when an appointment lookup
// matches no row.
var ErrAppointmentNotFound = errors.New("appointment not found")

// ErrEmailExists is returned when registration hits the unique email
// constraint. Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrPassNotActive is returned when a check-in or check-out targets
// a pass that is not in the ACTIVE state. Handlers translate it into
// HTTP 409.
var ErrPassNotActive = errors.New("pass is not active")

// ErrAlreadyInside is returned when a check-in targets a pass whose
// visitor has already entered.
var ErrAlreadyInside = errors.New("visitor already checked in")

// ErrNotCheckedIn is returned when a check-out targets a pass whose
// visitor never checked in.
var ErrNotCheckedIn = errors.New("visitor not checked in")
