// Package history persists orchestration outcomes in a SQLite database under
// ~/.switchboard/history/.
package history

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/switchboard-sh/switchboard/internal/domain"
	"github.com/switchboard-sh/switchboard/internal/ports"
)

// SQLiteStore implements ports.OutcomeRepository on a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the ~/.switchboard/history/outcomes.db
// database.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreAt(filepath.Join(userHome(), ".switchboard", "history", "outcomes.db"))
}

// NewSQLiteStoreAt creates (or opens) a database at the given path.
func NewSQLiteStoreAt(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS operations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		operation_id TEXT,
		type TEXT,
		strategy TEXT,
		success INTEGER,
		from_cache INTEGER,
		tokens_saved INTEGER,
		duration_ms INTEGER,
		error TEXT
	);`)
	return err
}

// Save implements ports.OutcomeRepository.
func (s *SQLiteStore) Save(rec domain.OutcomeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO operations
		(timestamp, operation_id, type, strategy, success, from_cache, tokens_saved, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp.Format(domain.TimestampFormat),
		rec.OperationID,
		string(rec.Type),
		string(rec.Strategy),
		boolToInt(rec.Success),
		boolToInt(rec.FromCache),
		rec.TokensSaved,
		rec.DurationMS,
		rec.Error,
	)
	return err
}

// Records implements ports.OutcomeRepository. Search matches the operation
// type and error text; newest entries come first.
func (s *SQLiteStore) Records(limit int, search string) ([]domain.OutcomeRecord, error) {
	builder := strings.Builder{}
	builder.WriteString("SELECT timestamp, operation_id, type, strategy, success, from_cache, tokens_saved, duration_ms, error FROM operations")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE type LIKE ? OR error LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC, id DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.OutcomeRecord
	for rows.Next() {
		var rec domain.OutcomeRecord
		var ts, opType, strategy string
		var success, fromCache int
		if err := rows.Scan(&ts, &rec.OperationID, &opType, &strategy, &success, &fromCache, &rec.TokensSaved, &rec.DurationMS, &rec.Error); err != nil {
			return nil, err
		}
		if t, err := time.Parse(domain.TimestampFormat, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Type = domain.OperationType(opType)
		rec.Strategy = domain.Strategy(strategy)
		rec.Success = success == 1
		rec.FromCache = fromCache == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear implements ports.OutcomeRepository.
func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec("DELETE FROM operations")
	return err
}

// ExportJSON writes every outcome to a jsonl file.
func (s *SQLiteStore) ExportJSON(dest string) error {
	records, err := s.Records(0, "")
	if err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.OutcomeRepository = (*SQLiteStore)(nil)
