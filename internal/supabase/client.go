// Package supabase talks to the Supabase storage and REST APIs that hold the
// plant's document library.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dvloznov/report-uploader/internal/storage"
)

const (
	// UploadTimeout bounds a single object upload.
	UploadTimeout = 60 * time.Second
	// RequestTimeout bounds REST calls.
	RequestTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 4096
)

// Config holds the Supabase project settings.
type Config struct {
	URL        string
	ServiceKey string
	Bucket     string
	Table      string

	// HTTPClient is optional; http.DefaultClient is used when nil.
	HTTPClient *http.Client
}

// StatusError is returned when Supabase answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Client uploads objects to a storage bucket and inserts rows through the
// REST API. It implements storage.ObjectStorage and storage.MetadataIndex.
type Client struct {
	baseURL    string
	key        string
	bucket     string
	table      string
	httpClient *http.Client
}

// NewClient validates cfg and returns a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("supabase URL is required")
	}
	if cfg.ServiceKey == "" {
		return nil, errors.New("supabase service key is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("supabase bucket is required")
	}
	if cfg.Table == "" {
		cfg.Table = "documents"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		key:        cfg.ServiceKey,
		bucket:     cfg.Bucket,
		table:      cfg.Table,
		httpClient: httpClient,
	}, nil
}

// Upload stores body at objectPath in the bucket. Existing objects are
// overwritten (x-upsert).
func (c *Client) Upload(ctx context.Context, objectPath, contentType string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, url.PathEscape(c.bucket), escapePath(objectPath))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("Upload: building request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	return c.do(req, "Upload", nil)
}

// PublicURL returns the public download address of objectPath.
func (c *Client) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, url.PathEscape(c.bucket), escapePath(objectPath))
}

// Register inserts doc into the documents table.
func (c *Client) Register(ctx context.Context, doc *storage.DocumentRecord) error {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("Register: encoding document: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, url.PathEscape(c.table))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("Register: building request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	return c.do(req, "Register", nil)
}

// Folder is a row of the folders table.
type Folder struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

// ListFolders returns every folder of the document library.
func (c *Client) ListFolders(ctx context.Context) ([]Folder, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/rest/v1/folders?select=id,name,parent_id", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("ListFolders: building request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Accept", "application/json")

	var folders []Folder
	if err := c.do(req, "ListFolders", &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// Ping confirms the bucket and the documents table are reachable with the
// configured key. Nothing is written.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	endpoints := []struct {
		op  string
		url string
	}{
		{"PingBucket", fmt.Sprintf("%s/storage/v1/bucket/%s", c.baseURL, url.PathEscape(c.bucket))},
		{"PingTable", fmt.Sprintf("%s/rest/v1/%s?select=id&limit=1", c.baseURL, url.PathEscape(c.table))},
	}
	for _, e := range endpoints {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.url, nil)
		if err != nil {
			return fmt.Errorf("%s: building request: %w", e.op, err)
		}
		c.authorize(req)
		req.Header.Set("Accept", "application/json")
		if err := c.do(req, e.op, nil); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("apikey", c.key)
}

// do sends req and decodes a JSON response into out when out is non-nil.
// Only 200 and 201 count as success.
func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: sending request: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}

// escapePath escapes each segment of an object path, keeping the slashes.
func escapePath(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

var (
	_ storage.ObjectStorage = (*Client)(nil)
	_ storage.MetadataIndex = (*Client)(nil)
)
