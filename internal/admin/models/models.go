// Package models defines the admin account entity.
package models

import "time"

// Admin is a back-office account. Password hashes never leave the server.
type Admin struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
