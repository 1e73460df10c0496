package bigquery

import (
	"context"
	"crypto/sha256"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

//go:embed migrations/*.sql
var embedded embed.FS

// migrationPattern matches migration files: 0001_name.sql
var migrationPattern = regexp.MustCompile(`^(\d{4})_(.+)\.sql$`)

// Migration is a single versioned SQL file.
type Migration struct {
	Version  int
	Name     string
	Filename string
	SQL      string
	Checksum string
}

// Render replaces the placeholders of the migration SQL.
func (m Migration) Render(projectID, datasetID, documentsTableID string) string {
	r := strings.NewReplacer(
		"{{PROJECT_ID}}", projectID,
		"{{DATASET_ID}}", datasetID,
		"{{DOCUMENTS_TABLE}}", documentsTableID,
	)
	return r.Replace(m.SQL)
}

// AppliedMigration represents a migration that has already been applied
type AppliedMigration struct {
	Version   int
	Name      string
	AppliedAt time.Time
	Checksum  string
	AppliedBy string
}

// Migrations returns the migrations shipped with the binary, sorted by version.
func Migrations() ([]Migration, error) {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		return nil, fmt.Errorf("Migrations: %w", err)
	}
	return ParseMigrations(sub)
}

// ParseMigrations reads every NNNN_name.sql file at the root of fsys. Files
// with another name are ignored. The checksum is computed before placeholders
// are rendered, so the same migration applied to another dataset keeps its
// checksum.
func ParseMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("ParseMigrations: reading directory: %w", err)
	}

	var migrations []Migration
	seen := make(map[int]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		matches := migrationPattern.FindStringSubmatch(e.Name())
		if matches == nil {
			continue
		}
		version, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("ParseMigrations: version %04d used by %s and %s", version, prev, e.Name())
		}
		seen[version] = e.Name()

		content, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("ParseMigrations: reading %s: %w", e.Name(), err)
		}
		migrations = append(migrations, Migration{
			Version:  version,
			Name:     matches[2],
			Filename: e.Name(),
			SQL:      string(content),
			Checksum: fmt.Sprintf("%x", sha256.Sum256(content)),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// Pending returns the migrations whose version is not in applied.
func Pending(migrations []Migration, applied []AppliedMigration) []Migration {
	done := make(map[int]bool, len(applied))
	for _, am := range applied {
		done[am.Version] = true
	}
	var pending []Migration
	for _, m := range migrations {
		if !done[m.Version] {
			pending = append(pending, m)
		}
	}
	return pending
}

// Migrator applies migrations to a dataset and tracks them in its
// schema_migrations table.
type Migrator struct {
	client           *bigquery.Client
	projectID        string
	datasetID        string
	documentsTableID string
	appliedBy        string
}

// NewMigrator creates a Migrator for projectID.datasetID.
func NewMigrator(ctx context.Context, projectID, datasetID, documentsTableID, appliedBy string, opts ...option.ClientOption) (*Migrator, error) {
	if projectID == "" || datasetID == "" {
		return nil, fmt.Errorf("NewMigrator: project and dataset are required")
	}
	if documentsTableID == "" {
		documentsTableID = documentsTable
	}
	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewMigrator: creating client: %w", err)
	}
	return &Migrator{
		client:           client,
		projectID:        projectID,
		datasetID:        datasetID,
		documentsTableID: documentsTableID,
		appliedBy:        appliedBy,
	}, nil
}

// Close closes the BigQuery client connection.
func (m *Migrator) Close() error {
	return m.client.Close()
}

// Up applies every pending migration in version order and returns how many
// were applied. It stops at the first failure.
func (m *Migrator) Up(ctx context.Context, migrations []Migration, log zerolog.Logger) (int, error) {
	if err := m.ensureSchemaMigrationsTable(ctx); err != nil {
		return 0, err
	}
	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return 0, err
	}
	log.Info().Int("found", len(migrations)).Int("applied", len(applied)).Msg("Loaded migrations")

	count := 0
	for _, mig := range Pending(migrations, applied) {
		log.Info().Str("migration", mig.Filename).Msg("Applying migration")
		if err := m.run(ctx, mig.Render(m.projectID, m.datasetID, m.documentsTableID), nil); err != nil {
			return count, fmt.Errorf("Up: executing %s: %w", mig.Filename, err)
		}
		if err := m.record(ctx, mig); err != nil {
			return count, fmt.Errorf("Up: recording %s: %w", mig.Filename, err)
		}
		count++
	}
	return count, nil
}

func (m *Migrator) table(name string) string {
	return fmt.Sprintf("`%s.%s.%s`", m.projectID, m.datasetID, name)
}

func (m *Migrator) ensureSchemaMigrationsTable(ctx context.Context) error {
	sql := `CREATE TABLE IF NOT EXISTS ` + m.table("schema_migrations") + ` (
		version    INT64 NOT NULL,
		name       STRING NOT NULL,
		applied_at TIMESTAMP NOT NULL,
		checksum   STRING,
		applied_by STRING
	)`
	if err := m.run(ctx, sql, nil); err != nil {
		return fmt.Errorf("ensureSchemaMigrationsTable: %w", err)
	}
	return nil
}

func (m *Migrator) appliedMigrations(ctx context.Context) ([]AppliedMigration, error) {
	q := m.client.Query(`SELECT version, name, applied_at, checksum, applied_by FROM ` +
		m.table("schema_migrations") + ` ORDER BY version ASC`)
	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("appliedMigrations: %w", err)
	}

	var applied []AppliedMigration
	for {
		var row struct {
			Version   int64               `bigquery:"version"`
			Name      string              `bigquery:"name"`
			AppliedAt time.Time           `bigquery:"applied_at"`
			Checksum  bigquery.NullString `bigquery:"checksum"`
			AppliedBy bigquery.NullString `bigquery:"applied_by"`
		}
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("appliedMigrations: iterating results: %w", err)
		}
		applied = append(applied, AppliedMigration{
			Version:   int(row.Version),
			Name:      row.Name,
			AppliedAt: row.AppliedAt,
			Checksum:  row.Checksum.StringVal,
			AppliedBy: row.AppliedBy.StringVal,
		})
	}
	return applied, nil
}

func (m *Migrator) record(ctx context.Context, mig Migration) error {
	sql := `INSERT INTO ` + m.table("schema_migrations") + `
		(version, name, applied_at, checksum, applied_by)
		VALUES (@version, @name, CURRENT_TIMESTAMP(), @checksum, @applied_by)`
	return m.run(ctx, sql, []bigquery.QueryParameter{
		{Name: "version", Value: mig.Version},
		{Name: "name", Value: mig.Name},
		{Name: "checksum", Value: mig.Checksum},
		{Name: "applied_by", Value: m.appliedBy},
	})
}

// run executes a statement and waits for the job to finish.
func (m *Migrator) run(ctx context.Context, sql string, params []bigquery.QueryParameter) error {
	q := m.client.Query(sql)
	q.Parameters = params
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}
	return nil
}
