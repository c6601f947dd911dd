package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/me/folio/pkg/model"
)

const submissionColumns = `id, name, email, subject, message, is_read, created_at, updated_at`

var submissionSort = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"email":     "email",
	"isRead":    "is_read",
}

func (s *SQLiteStore) CreateSubmission(ctx context.Context, sub *model.ContactSubmission) error {
	s.logger.Debug("sql", "op", "insert", "table", "contact_submissions", "id", sub.ID)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_submissions (`+submissionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Name, sub.Email, sub.Subject, sub.Message, boolInt(sub.IsRead),
		formatTime(sub.CreatedAt), formatTime(sub.UpdatedAt),
	)
	return mapWriteErr(err)
}

func (s *SQLiteStore) ListSubmissions(ctx context.Context, q SubmissionQuery) ([]*model.ContactSubmission, int, error) {
	q.Clamp()
	s.logger.Debug("sql", "op", "list", "table", "contact_submissions", "page", q.Page, "limit", q.Limit)

	var w where
	if q.IsRead != nil {
		w.add("is_read = ?", boolInt(*q.IsRead))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_submissions`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	q.ClampTo(total)

	order := orderBy(q.SortBy, q.SortOrder, submissionSort, "created_at DESC")
	args := append(w.args, q.Limit, q.Offset())
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+submissionColumns+` FROM contact_submissions`+w.sql()+` ORDER BY `+order+`, id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.ContactSubmission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, sub)
	}
	return out, total, rows.Err()
}

func (s *SQLiteStore) SetSubmissionRead(ctx context.Context, id string, isRead bool) (*model.ContactSubmission, error) {
	s.logger.Debug("sql", "op", "update", "table", "contact_submissions", "id", id, "is_read", isRead)

	err := checkAffected(s.db.ExecContext(ctx,
		`UPDATE contact_submissions SET is_read = ?, updated_at = ? WHERE id = ?`,
		boolInt(isRead), formatTime(time.Now()), id))
	if err != nil {
		return nil, err
	}
	return scanSubmission(s.db.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM contact_submissions WHERE id = ?`, id))
}

func (s *SQLiteStore) DeleteSubmission(ctx context.Context, id string) error {
	s.logger.Debug("sql", "op", "delete", "table", "contact_submissions", "id", id)
	return checkAffected(s.db.ExecContext(ctx, `DELETE FROM contact_submissions WHERE id = ?`, id))
}

func scanSubmission(row scanner) (*model.ContactSubmission, error) {
	var sub model.ContactSubmission
	var isRead int
	var createdAt, updatedAt string
	err := row.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Subject, &sub.Message, &isRead, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	sub.IsRead = isRead != 0
	sub.CreatedAt = parseTime(createdAt)
	sub.UpdatedAt = parseTime(updatedAt)
	return &sub, nil
}
