package entity

import "time"

// Asset is an uploaded image stored under a folder.
type Asset struct {
	ID           string    `json:"id"`
	Folder       string    `json:"folder"`
	OriginalName string    `json:"original_name"`
	StoredPath   string    `json:"stored_path"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
