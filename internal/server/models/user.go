// Package models holds the persisted entities of CV on the Go.
package models

import "time"

// User is a person identified by their external chat id. Created on first
// contact, never deleted by the service.
type User struct {
	ID           string
	ExternalID   int64
	FirstName    string
	LastName     string
	Username     string
	CreatedAt    time.Time
	LastActiveAt time.Time
}
