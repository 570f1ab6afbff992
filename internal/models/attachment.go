package models

import "time"

// Attachment references a file stored outside the application.
type Attachment struct {
	ID          int64     `json:"id" db:"id"`
	QuoteID     int64     `json:"quote_id" db:"quote_id"`
	FileName    string    `json:"file_name" db:"file_name"`
	ContentType string    `json:"content_type" db:"content_type"`
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	URL         string    `json:"url" db:"url"`
	StorageKey  string    `json:"storage_key" db:"storage_key"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
