package publish_test

import (
	"context"

	"github.com/dvloznov/report-uploader/internal/storage"
)

// MockObjectStorage is a mock implementation of storage.ObjectStorage.
type MockObjectStorage struct {
	UploadFunc func(ctx context.Context, objectPath, contentType string, body []byte) error

	Uploads      []string
	ContentTypes []string
}

func (m *MockObjectStorage) Upload(ctx context.Context, objectPath, contentType string, body []byte) error {
	if m.UploadFunc != nil {
		if err := m.UploadFunc(ctx, objectPath, contentType, body); err != nil {
			return err
		}
	}
	m.Uploads = append(m.Uploads, objectPath)
	m.ContentTypes = append(m.ContentTypes, contentType)
	return nil
}

func (m *MockObjectStorage) PublicURL(objectPath string) string {
	return "https://storage.example.com/documents/" + objectPath
}

// MockMetadataIndex is a mock implementation of storage.MetadataIndex.
type MockMetadataIndex struct {
	RegisterFunc func(ctx context.Context, doc *storage.DocumentRecord) error

	Docs []*storage.DocumentRecord
}

func (m *MockMetadataIndex) Register(ctx context.Context, doc *storage.DocumentRecord) error {
	if m.RegisterFunc != nil {
		if err := m.RegisterFunc(ctx, doc); err != nil {
			return err
		}
	}
	m.Docs = append(m.Docs, doc)
	return nil
}
