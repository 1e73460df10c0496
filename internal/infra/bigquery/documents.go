package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
)

// DocumentRow is a row of the documents table.
type DocumentRow struct {
	DocumentID string `bigquery:"document_id"` // REQUIRED

	Name         string `bigquery:"name"`          // REQUIRED
	OriginalName string `bigquery:"original_name"` // NULLABLE
	FilePath     string `bigquery:"file_path"`     // REQUIRED
	FileURL      string `bigquery:"file_url"`      // NULLABLE
	Size         int64  `bigquery:"size"`          // REQUIRED
	MimeType     string `bigquery:"mime_type"`     // NULLABLE

	FolderID    string   `bigquery:"folder_id"`   // NULLABLE
	UploadedBy  string   `bigquery:"uploaded_by"` // NULLABLE
	Description string   `bigquery:"description"` // NULLABLE
	Tags        []string `bigquery:"tags"`        // REPEATED
	Category    string   `bigquery:"category"`    // NULLABLE
	Plant       string   `bigquery:"plant"`       // NULLABLE

	ReportDate bigquery.NullDate `bigquery:"report_date"` // NULLABLE

	CreatedAt time.Time `bigquery:"created_at"` // REQUIRED
	UpdatedAt time.Time `bigquery:"updated_at"` // REQUIRED
}
