package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"

	"github.com/dvloznov/report-uploader/internal/storage"
)

const documentsTable = "documents"

// InsertDocumentWithClient inserts a single DocumentRow into dataset.table
// using the provided BigQuery client.
func InsertDocumentWithClient(ctx context.Context, client *bigquery.Client, datasetID, tableID string, row *DocumentRow) error {
	inserter := client.Dataset(datasetID).Table(tableID).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("InsertDocument: inserting row: %w", err)
	}
	return nil
}

// NewDocumentRow maps an uploaded document to a table row with a fresh
// document_id.
func NewDocumentRow(doc *storage.DocumentRecord) *DocumentRow {
	return &DocumentRow{
		DocumentID:   uuid.NewString(),
		Name:         doc.Name,
		OriginalName: doc.OriginalName,
		FilePath:     doc.FilePath,
		FileURL:      doc.FileURL,
		Size:         doc.Size,
		MimeType:     doc.MimeType,
		FolderID:     doc.FolderID,
		UploadedBy:   doc.UploadedBy,
		Description:  doc.Description,
		Tags:         doc.Tags,
		Category:     doc.Category,
		Plant:        doc.Plant,
		ReportDate:   bigquery.NullDate{Date: doc.ReportDate, Valid: doc.ReportDate.IsValid()},
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}
