package models

import "time"

// Document records one generated PDF: the filename offered to the user and
// the object-storage key the bytes were uploaded under. StorageKey is empty
// when object storage is not configured.
type Document struct {
	ID         string
	UserID     string
	FileName   string
	StorageKey string
	CreatedAt  time.Time
}
