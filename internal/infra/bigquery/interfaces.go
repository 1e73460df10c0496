package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"

	"github.com/dvloznov/report-uploader/internal/storage"
)

// DocumentIndex is the BigQuery implementation of storage.MetadataIndex.
// It holds a shared BigQuery client to avoid creating a new connection for
// each operation.
type DocumentIndex struct {
	client    *bigquery.Client
	datasetID string
	tableID   string
}

// NewDocumentIndex creates a DocumentIndex writing to projectID.datasetID.tableID.
// An empty tableID defaults to "documents".
func NewDocumentIndex(ctx context.Context, projectID, datasetID, tableID string, opts ...option.ClientOption) (*DocumentIndex, error) {
	if projectID == "" || datasetID == "" {
		return nil, fmt.Errorf("NewDocumentIndex: project and dataset are required")
	}
	if tableID == "" {
		tableID = documentsTable
	}

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewDocumentIndex: creating client: %w", err)
	}
	return &DocumentIndex{
		client:    client,
		datasetID: datasetID,
		tableID:   tableID,
	}, nil
}

// Close closes the BigQuery client connection.
func (x *DocumentIndex) Close() error {
	if x.client != nil {
		return x.client.Close()
	}
	return nil
}

// Register inserts a row describing doc.
func (x *DocumentIndex) Register(ctx context.Context, doc *storage.DocumentRecord) error {
	return InsertDocumentWithClient(ctx, x.client, x.datasetID, x.tableID, NewDocumentRow(doc))
}

var _ storage.MetadataIndex = (*DocumentIndex)(nil)
