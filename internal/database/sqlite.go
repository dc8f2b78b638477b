package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leca/dt-user-images/internal/model"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no ledger row matches.
var ErrNotFound = errors.New("upload not found")

// SQLiteDB implements Database backed by SQLite.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) an SQLite database at dsn and runs migrations.
// For in-memory use pass "file::memory:?cache=shared".
func NewSQLiteDB(dsn string) (*SQLiteDB, error) {
	if path := filePath(dsn); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	if !strings.Contains(dsn, "?") {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	} else if !strings.Contains(dsn, "_journal_mode") {
		dsn += "&_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// filePath returns the on-disk path of a plain file DSN, or "" for
// in-memory and URI-style DSNs.
func filePath(dsn string) string {
	if dsn == "" || strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, ":memory:") {
		return ""
	}
	if i := strings.IndexByte(dsn, '?'); i >= 0 {
		dsn = dsn[:i]
	}
	return dsn
}

// Close closes the underlying database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) PutUpload(u *model.Upload) error {
	_, err := s.db.Exec(`
		INSERT INTO uploads (user_id, filename, id, size, content_type, format, width, height, uploaded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, filename) DO UPDATE SET
			id = excluded.id,
			size = excluded.size,
			content_type = excluded.content_type,
			format = excluded.format,
			width = excluded.width,
			height = excluded.height,
			uploaded = excluded.uploaded`,
		u.UserID, u.Filename, u.ID, u.Size, u.ContentType, u.Format, u.Width, u.Height,
		u.Uploaded.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert upload: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetUpload(userID, filename string) (*model.Upload, error) {
	row := s.db.QueryRow(`
		SELECT user_id, filename, id, size, content_type, format, width, height, uploaded
		FROM uploads WHERE user_id = ? AND filename = ?`,
		userID, filename,
	)
	u, err := scanUpload(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (s *SQLiteDB) DeleteUpload(userID, filename string) error {
	res, err := s.db.Exec(`DELETE FROM uploads WHERE user_id = ? AND filename = ?`, userID, filename)
	if err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteDB) Stats(userID string) (*model.Stats, error) {
	st := &model.Stats{}
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(size), 0) FROM uploads WHERE user_id = ?`,
		userID,
	).Scan(&st.Count, &st.Bytes)
	if err != nil {
		return nil, fmt.Errorf("upload stats: %w", err)
	}
	return st, nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanUpload(row scannable) (*model.Upload, error) {
	u := &model.Upload{}
	var uploadedStr string

	err := row.Scan(&u.UserID, &u.Filename, &u.ID, &u.Size, &u.ContentType,
		&u.Format, &u.Width, &u.Height, &uploadedStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan upload: %w", err)
	}
	u.Uploaded, _ = time.Parse(time.RFC3339Nano, uploadedStr)
	return u, nil
}
