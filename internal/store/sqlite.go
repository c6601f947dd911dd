package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/me/folio/internal/logging"
	"github.com/me/folio/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Every pooled connection to ":memory:" would get its own database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logging.Component(logger, "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// --- Users ---

func (s *SQLiteStore) CreateUser(ctx context.Context, u *User) error {
	s.logger.Debug("sql", "op", "insert", "table", "users", "id", u.ID)

	role := u.Role
	if role == "" {
		role = model.RoleAdmin
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, role, password_hash, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, string(role), u.PasswordHash, formatTime(u.CreatedAt),
	)
	return mapWriteErr(err)
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*User, error) {
	s.logger.Debug("sql", "op", "select", "table", "users", "id", id)
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, name, email, role, password_hash, created_at FROM users WHERE id = ?`, id))
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	s.logger.Debug("sql", "op", "select_by_email", "table", "users")
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, name, email, role, password_hash, created_at FROM users WHERE email = ?`, email))
}

func (s *SQLiteStore) scanUser(row scanner) (*User, error) {
	var u User
	var role, createdAt string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Role = model.UserRole(role)
	u.CreatedAt = parseTime(createdAt)
	return &u, nil
}

// --- Dashboard ---

func (s *SQLiteStore) Stats(ctx context.Context) (model.DashboardStats, error) {
	s.logger.Debug("sql", "op", "stats")

	var st model.DashboardStats
	err := s.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM projects),
		(SELECT COUNT(*) FROM blog_posts WHERE status = 'published'),
		(SELECT COUNT(*) FROM blog_posts WHERE status = 'draft'),
		(SELECT COUNT(*) FROM contact_submissions)`,
	).Scan(&st.TotalProjects, &st.TotalPublishedPosts, &st.TotalDraftPosts, &st.TotalContactSubmissions)
	return st, err
}

// --- helpers ---

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func parseTimePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t := parseTime(*s)
	return &t
}

// encodeList marshals a slice, writing nil as [].
func encodeList[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJSON(col, s string, v any) error {
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", col, err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// mapWriteErr turns unique-constraint violations into ErrConflict.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

// checkAffected returns ErrNotFound when an UPDATE or DELETE matched nothing.
func checkAffected(res sql.Result, err error) error {
	if err != nil {
		return mapWriteErr(err)
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

// where accumulates a WHERE clause and its arguments.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

func (w *where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// orderBy resolves a client sort key through an allow-list of columns.
func orderBy(sortBy string, order model.SortOrder, columns map[string]string, def string) string {
	col, ok := columns[sortBy]
	if !ok {
		return def
	}
	dir := "DESC"
	if order == model.SortAsc {
		dir = "ASC"
	}
	return col + " " + dir
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
