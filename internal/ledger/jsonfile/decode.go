package jsonfile

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dvloznov/report-uploader/internal/ledger"
)

// Layouts accepted for uploaded_at. Older uploaders wrote local timestamps
// without a zone, with or without microseconds.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// storedRecord is the on-disk shape of a record. file_date is the field
// older uploaders used for the period key.
type storedRecord struct {
	UploadID    string `json:"upload_id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	PeriodKey   string `json:"period_key"`
	FileDate    string `json:"file_date"`
	Destination string `json:"destination"`
	StoragePath string `json:"storage_path"`
	UploadedAt  string `json:"uploaded_at"`
}

// decodeRecord reads one ledger entry. A timestamp that cannot be parsed is
// left zero; only a value that is not a JSON object fails.
func decodeRecord(raw json.RawMessage) (ledger.Record, error) {
	var sr storedRecord
	if err := json.Unmarshal(raw, &sr); err != nil {
		return ledger.Record{}, fmt.Errorf("decoding record: %w", err)
	}

	rec := ledger.Record{
		UploadID:    sr.UploadID,
		Filename:    sr.Filename,
		Size:        sr.Size,
		PeriodKey:   sr.PeriodKey,
		Destination: sr.Destination,
		StoragePath: sr.StoragePath,
	}
	if rec.PeriodKey == "" {
		rec.PeriodKey = sr.FileDate
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, sr.UploadedAt, time.Local); err == nil {
			rec.UploadedAt = t
			break
		}
	}
	return rec, nil
}
