package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dvloznov/report-uploader/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{URL: srv.URL + "/", ServiceKey: "service-key", Bucket: "documents"})
	require.NoError(t, err)
	return c
}

func TestClient_Upload(t *testing.T) {
	var gotPath, gotUpsert, gotAuth, gotKey, gotType string
	var gotBody []byte

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotUpsert = r.Header.Get("x-upsert")
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"Key":"documents/x"}`))
	})

	err := c.Upload(context.Background(), "RETAMAR/2_INFORMES/PV Informe.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/documents/RETAMAR/2_INFORMES/PV%20Informe.pdf", gotPath)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "service-key", gotKey)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, "%PDF-1.4", string(gotBody))
}

func TestClient_UploadRejectsNon2xx(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"new row violates row-level security policy"}`))
	})

	err := c.Upload(context.Background(), "a/b.pdf", "application/pdf", nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "row-level security")
}

func TestClient_Register(t *testing.T) {
	var got map[string]any
	var prefer, path string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		prefer = r.Header.Get("Prefer")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"1"}]`))
	})

	now := time.Date(2025, time.May, 28, 7, 0, 0, 0, time.UTC)
	err := c.Register(context.Background(), &storage.DocumentRecord{
		Name:         "PV_Informe_Diario_20250527.pdf",
		OriginalName: "PV_Informe_Diario_20250527.pdf",
		FilePath:     "RETAMAR/PV_Informe_Diario_20250527.pdf",
		FileURL:      c.PublicURL("RETAMAR/PV_Informe_Diario_20250527.pdf"),
		Size:         2048,
		MimeType:     "application/pdf",
		FolderID:     "folder-1",
		Tags:         []string{"retamar", "diario"},
		Category:     "informe_diario",
		Plant:        "RETAMAR",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)

	assert.Equal(t, "/rest/v1/documents", path)
	assert.Equal(t, "return=representation", prefer)
	assert.Equal(t, "PV_Informe_Diario_20250527.pdf", got["name"])
	assert.Equal(t, "folder-1", got["folder_id"])
	assert.Equal(t, float64(2048), got["size"])
	assert.Equal(t, []any{"retamar", "diario"}, got["tags"])
	assert.NotContains(t, got, "ReportDate")
	assert.Contains(t, got["file_url"], "/storage/v1/object/public/documents/RETAMAR/")
}

func TestClient_ListFolders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/folders", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"a","name":"RETAMAR","parent_id":null},{"id":"b","name":"Informes diarios","parent_id":"a"}]`))
	})

	folders, err := c.ListFolders(context.Background())
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Nil(t, folders[0].ParentID)
	require.NotNil(t, folders[1].ParentID)
	assert.Equal(t, "a", *folders[1].ParentID)
}

func TestClient_Ping(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		paths = append(paths, r.URL.RequestURI())
		w.Write([]byte(`[]`))
	})

	require.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, []string{"/storage/v1/bucket/documents", "/rest/v1/documents?select=id&limit=1"}, paths)
}

func TestClient_PingReportsUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := c.Ping(context.Background())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "PingBucket", se.Op)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{ServiceKey: "k", Bucket: "b"})
	assert.Error(t, err)
	_, err = NewClient(Config{URL: "https://x.supabase.co", Bucket: "b"})
	assert.Error(t, err)
	_, err = NewClient(Config{URL: "https://x.supabase.co", ServiceKey: "k"})
	assert.Error(t, err)

	c, err := NewClient(Config{URL: "https://x.supabase.co/", ServiceKey: "k", Bucket: "documents"})
	require.NoError(t, err)
	assert.Equal(t, "https://x.supabase.co/storage/v1/object/public/documents/a/b.pdf", c.PublicURL("a/b.pdf"))
}
