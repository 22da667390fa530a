package model

import "time"

// Pass status values. Statuses are stored upper-case in the
// database; the repository upper-cases incoming filter values so
// clients may send either case.
const (
	PassStatusActive  = "ACTIVE"
	PassStatusExpired = "EXPIRED"
	PassStatusRevoked = "REVOKED"
	PassStatusUsed    = "USED"
)

// Image status values for the two-phase issuance flow. A pass row
// is created as PENDING and promoted to COMPLETE once the QR image
// has been encoded and attached.
const (
	ImageStatusPending  = "PENDING"
	ImageStatusComplete = "COMPLETE"
)

// Pass represents a visitor access pass as stored in the `passes`
// table. The pass number and QR payload are fixed at creation; the
// QR image is attached in a second write and ImageStatus tracks
// whether that write has happened yet.
//
// Fields:
//  ID               – primary key identifier.
//  PassNumber       – human-facing unique token, generated at
//                     creation from a timestamp and random suffix.
//  VisitorID        – visitor the pass was issued to.
//  HostID           – host receiving the visitor.
//  AppointmentID    – optional appointment the visit belongs to.
//  QRData           – JSON payload encoded into the QR image.
//  QRImage          – PNG data URI of the encoded QR payload
//                     (nil while ImageStatus is PENDING).
//  ImageStatus      – PENDING or COMPLETE.
//  ValidFrom        – start of the validity window.
//  ValidTo          – end of the validity window; doubles as the
//                     expected exit time for occupancy bucketing.
//  ExpectedExitTime – explicit expected exit, used when ValidTo is
//                     absent.
//  EntryTime        – when the visitor checked in (nil before).
//  Building         – optional location tag; empty groups under
//                     "Unknown" in the occupancy report.
//  Purpose          – free-text purpose of the visit.
//  Status           – ACTIVE, EXPIRED, REVOKED or USED.
//  CreatedBy        – user who issued the pass; non-admin callers
//                     only see their own rows.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Pass struct {
	ID               uint64     // passes.id
	PassNumber       string     // passes.pass_number
	VisitorID        uint64     // passes.visitor_id
	HostID           uint64     // passes.host_id
	AppointmentID    *uint64    // passes.appointment_id (nullable)
	QRData           string     // passes.qr_data
	QRImage          *string    // passes.qr_image (nullable)
	ImageStatus      string     // passes.image_status
	ValidFrom        *time.Time // passes.valid_from (nullable)
	ValidTo          *time.Time // passes.valid_to (nullable)
	ExpectedExitTime *time.Time // passes.expected_exit_time (nullable)
	EntryTime        *time.Time // passes.entry_time (nullable)
	Building         *string    // passes.building (nullable)
	Purpose          *string    // passes.purpose (nullable)
	Status           string     // passes.status
	CreatedBy        uint64     // passes.created_by
	CreatedAt        time.Time  // passes.created_at
	UpdatedAt        time.Time  // passes.updated_at
}
