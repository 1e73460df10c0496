package gcsuploader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	reportstorage "github.com/dvloznov/report-uploader/internal/storage"
)

// UploadTimeout bounds a single object upload.
const UploadTimeout = 2 * time.Minute

// Storage uploads report files to a GCS bucket. It implements
// storage.ObjectStorage.
type Storage struct {
	client *storage.Client
	bucket string
}

// NewStorage creates a GCS client for bucket. Without options it relies on
// Application Default Credentials (gcloud auth application-default login).
func NewStorage(ctx context.Context, bucket string, opts ...option.ClientOption) (*Storage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("NewStorage: bucket is required")
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewStorage: create storage client: %w", err)
	}

	return &Storage{client: client, bucket: bucket}, nil
}

// Close releases the underlying client.
func (s *Storage) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Upload writes body to objectName, replacing any existing object.
func (s *Storage) Upload(ctx context.Context, objectName, contentType string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	obj := s.client.Bucket(s.bucket).Object(objectName)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, bytes.NewReader(body)); err != nil {
		_ = w.Close()
		return fmt.Errorf("Upload: copy file to GCS writer: %w", err)
	}

	// Close finalizes the upload
	if err := w.Close(); err != nil {
		return fmt.Errorf("Upload: finalize upload of %s: %w", objectName, err)
	}

	return nil
}

// PublicURL returns the storage.googleapis.com address of objectName.
func (s *Storage) PublicURL(objectName string) string {
	segments := strings.Split(objectName, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, strings.Join(segments, "/"))
}

var _ reportstorage.ObjectStorage = (*Storage)(nil)
