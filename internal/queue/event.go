// Package queue defines message payloads exchanged over the message broker.
package queue

// PassIssuedEvent is published when a visitor pass is issued. It carries
// enough information for downstream consumers to log, notify reception,
// or feed analytics without querying the primary database.
type PassIssuedEvent struct {
	EventID     string `json:"event_id"`
	PassID      uint64 `json:"pass_id"`
	PassNumber  string `json:"pass_number"`
	VisitorName string `json:"visitor_name"`
	HostName    string `json:"host_name"`
	Building    string `json:"building,omitempty"`
	ValidFrom   string `json:"valid_from,omitempty"`
	ValidTo     string `json:"valid_to,omitempty"`
	IssuedBy    uint64 `json:"issued_by"`
	IssuedAt    string `json:"issued_at"`
}
