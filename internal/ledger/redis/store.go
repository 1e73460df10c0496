// Package redis keeps the upload ledger in a Redis hash, one hash per cadence.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dvloznov/report-uploader/internal/ledger"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultConnectTimeout bounds the initial PING.
const DefaultConnectTimeout = 5 * time.Second

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// hashClient is the subset of the go-redis API the store needs.
type hashClient interface {
	HExists(ctx context.Context, key, field string) *goredis.BoolCmd
	HGet(ctx context.Context, key, field string) *goredis.StringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *goredis.IntCmd
}

// Store is a Redis-backed ledger.Store. Every record is a field of a single
// hash whose value is the JSON-encoded ledger.Record.
type Store struct {
	client hashClient
	hash   string
}

// HashName returns the hash key used for a cadence, e.g. reports:uploaded:daily.
func HashName(prefix, cadence string) string {
	if prefix == "" {
		prefix = "reports:uploaded"
	}
	return prefix + ":" + cadence
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, cfg Config) (*goredis.Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, DefaultConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewStore creates a Store writing to the given hash.
func NewStore(client *goredis.Client, hash string) *Store {
	return newStore(client, hash)
}

func newStore(client hashClient, hash string) *Store {
	return &Store{client: client, hash: hash}
}

// IsRecorded implements the ledger.Store interface.
func (s *Store) IsRecorded(ctx context.Context, key ledger.Key) (bool, error) {
	ok, err := s.client.HExists(ctx, s.hash, string(key)).Result()
	if err != nil {
		return false, fmt.Errorf("IsRecorded: HEXISTS %s: %w", s.hash, err)
	}
	return ok, nil
}

// Get implements the ledger.Store interface.
func (s *Store) Get(ctx context.Context, key ledger.Key) (*ledger.Record, error) {
	data, err := s.client.HGet(ctx, s.hash, string(key)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, fmt.Errorf("%w: %s", ledger.ErrNotFound, key)
		}
		return nil, fmt.Errorf("Get: HGET %s: %w", s.hash, err)
	}

	var rec ledger.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("Get: decoding record %s: %w", key, err)
	}
	return &rec, nil
}

// Record implements the ledger.Store interface.
func (s *Store) Record(ctx context.Context, key ledger.Key, rec ledger.Record) error {
	if key == "" {
		return errors.New("ledger key is required")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("Record: encoding record: %w", err)
	}
	if err := s.client.HSet(ctx, s.hash, string(key), string(data)).Err(); err != nil {
		return fmt.Errorf("Record: HSET %s: %w", s.hash, err)
	}
	return nil
}

// Ensure Store implements the ledger.Store interface.
var _ ledger.Store = (*Store)(nil)
