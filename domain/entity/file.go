package entity

import (
	"time"
)

// File is the metadata row kept for every upload.
type File struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Type      string    `json:"type"`
	UserID    string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}
