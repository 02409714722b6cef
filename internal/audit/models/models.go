// Package models defines the audit trail event.
package models

import "time"

// Event records one admin-driven or security-relevant action. Events are
// append-only: nothing in the application updates or deletes them.
type Event struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Subject   string    `json:"subject"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
