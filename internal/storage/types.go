package storage

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
)

// ObjectStorage provides an interface for remote object storage operations.
// This interface enables mocking and testing of upload functionality.
type ObjectStorage interface {
	// Upload stores body under objectPath, replacing any existing object.
	Upload(ctx context.Context, objectPath, contentType string, body []byte) error

	// PublicURL returns the public address of objectPath.
	PublicURL(objectPath string) string
}

// MetadataIndex registers uploaded documents in a searchable table.
type MetadataIndex interface {
	// Register inserts a row describing an uploaded document.
	Register(ctx context.Context, doc *DocumentRecord) error
}

// DocumentRecord is the metadata row registered for each uploaded report.
type DocumentRecord struct {
	Name         string    `json:"name"`
	OriginalName string    `json:"original_name"`
	FilePath     string    `json:"file_path"`
	FileURL      string    `json:"file_url"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mime_type"`
	FolderID     string    `json:"folder_id,omitempty"`
	UploadedBy   string    `json:"uploaded_by"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	Category     string    `json:"category"`
	Plant        string    `json:"plant"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// ReportDate is the date parsed from the file name. It is not part of
	// the REST payload; table-based indexes store it as a DATE column.
	ReportDate civil.Date `json:"-"`
}
