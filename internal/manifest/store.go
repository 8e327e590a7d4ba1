package manifest

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"newsreel/internal/asset"
)

// schemaVersion is the current manifest schema. The database is run-scoped,
// so a mismatch means the run directory was produced by another build.
const schemaVersion = 1

const schemaSQL = `
CREATE TABLE schema_version (version INTEGER NOT NULL);

CREATE TABLE runs (
    run_id         TEXT PRIMARY KEY,
    query          TEXT NOT NULL,
    created_at     TEXT NOT NULL,
    coverage       REAL NOT NULL,
    total_scenes   INTEGER NOT NULL,
    drop_breakdown TEXT NOT NULL,
    artifact_path  TEXT NOT NULL,
    status         TEXT NOT NULL
);

CREATE TABLE scene_assignments (
    run_id         TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    scene_index    INTEGER NOT NULL,
    scene_text     TEXT NOT NULL,
    identifier     TEXT NOT NULL,
    title          TEXT NOT NULL,
    provider       TEXT NOT NULL,
    locator        TEXT NOT NULL,
    clip_path      TEXT NOT NULL,
    state          TEXT NOT NULL,
    failure_reason TEXT NOT NULL,
    PRIMARY KEY (run_id, scene_index, identifier)
);
`

// Store persists the run manifest in a SQLite database inside the run
// directory. It is run-scoped by construction: one database per run dir.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the manifest database in runDir.
func Open(runDir string) (*Store, error) {
	dbPath := filepath.Join(runDir, "manifest.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return tx.Commit()
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("manifest database has schema version %d, expected %d", version, schemaVersion)
	}
	return nil
}

// Save writes the manifest and its assignments, replacing any previous
// snapshot of the same run.
func (s *Store) Save(ctx context.Context, m *Manifest) error {
	breakdown, err := json.Marshal(m.DropBreakdown)
	if err != nil {
		return fmt.Errorf("marshal drop breakdown: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, query, created_at, coverage, total_scenes, drop_breakdown, artifact_path, status)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(run_id) DO UPDATE SET
             coverage = excluded.coverage,
             total_scenes = excluded.total_scenes,
             drop_breakdown = excluded.drop_breakdown,
             artifact_path = excluded.artifact_path,
             status = excluded.status`,
		m.RunID, m.Query, createdAt.Format(time.RFC3339Nano), m.Coverage, m.TotalScenes,
		string(breakdown), m.ArtifactPath, m.Status,
	); err != nil {
		return fmt.Errorf("upsert run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM scene_assignments WHERE run_id = ?", m.RunID); err != nil {
		return fmt.Errorf("clear assignments: %w", err)
	}

	for _, assignment := range m.Assignments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scene_assignments
             (run_id, scene_index, scene_text, identifier, title, provider, locator, clip_path, state, failure_reason)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.RunID, assignment.SceneIndex, assignment.SceneText,
			assignment.Candidate.Identifier, assignment.Candidate.Title, assignment.Candidate.Provider,
			assignment.Candidate.Locator, assignment.ClipPath, string(assignment.State), assignment.FailureReason,
		); err != nil {
			return fmt.Errorf("insert assignment for scene %d: %w", assignment.SceneIndex, err)
		}
	}

	return tx.Commit()
}

// Load reads the single run stored in the database.
func (s *Store) Load(ctx context.Context) (*Manifest, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT run_id, query, created_at, coverage, total_scenes, drop_breakdown, artifact_path, status FROM runs LIMIT 1")

	var m Manifest
	var createdAt, breakdown string
	if err := row.Scan(&m.RunID, &m.Query, &createdAt, &m.Coverage, &m.TotalScenes, &breakdown, &m.ArtifactPath, &m.Status); err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	m.CreatedAt = parsed
	if err := json.Unmarshal([]byte(breakdown), &m.DropBreakdown); err != nil {
		return nil, fmt.Errorf("parse drop breakdown: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT scene_index, scene_text, identifier, title, provider, locator, clip_path, state, failure_reason
         FROM scene_assignments WHERE run_id = ? ORDER BY scene_index, identifier`, m.RunID)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var assignment SceneAssignment
		var candidate asset.Candidate
		var state string
		if err := rows.Scan(&assignment.SceneIndex, &assignment.SceneText,
			&candidate.Identifier, &candidate.Title, &candidate.Provider, &candidate.Locator,
			&assignment.ClipPath, &state, &assignment.FailureReason); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignment.Candidate = candidate
		assignment.State = ValidationState(state)
		m.Assignments = append(m.Assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return &m, nil
}
