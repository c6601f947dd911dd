package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/me/folio/pkg/model"
)

const projectColumns = `id, title, slug, description, short_summary, technologies, images,
	live_demo_url, source_code_url, role, challenges, status, featured, sort_order,
	published_at, created_at, updated_at`

var projectSort = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"publishedAt": "published_at",
	"title":       "title",
	"order":       "sort_order",
}

func (s *SQLiteStore) CreateProject(ctx context.Context, p *model.Project) error {
	s.logger.Debug("sql", "op", "insert", "table", "projects", "id", p.ID)

	tech, err := encodeList(p.Technologies)
	if err != nil {
		return fmt.Errorf("marshal technologies: %w", err)
	}
	images, err := encodeList(p.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Slug, p.Description, p.ShortSummary, tech, images,
		p.LiveDemoURL, p.SourceCodeURL, p.Role, p.Challenges, string(p.Status),
		boolInt(p.Featured), p.Order, formatTimePtr(p.PublishedAt),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	return mapWriteErr(err)
}

func (s *SQLiteStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	s.logger.Debug("sql", "op", "select", "table", "projects", "id", id)
	return s.scanProject(s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
}

func (s *SQLiteStore) GetProjectBySlug(ctx context.Context, slug string) (*model.Project, error) {
	s.logger.Debug("sql", "op", "select_by_slug", "table", "projects", "slug", slug)
	return s.scanProject(s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE slug = ?`, slug))
}

func (s *SQLiteStore) ListProjects(ctx context.Context, q ProjectQuery) ([]*model.Project, int, error) {
	q.Clamp()
	s.logger.Debug("sql", "op", "list", "table", "projects", "page", q.Page, "limit", q.Limit)

	var w where
	if q.PublishedOnly {
		w.add("status = ?", string(model.StatusPublished))
	} else if q.Status != "" {
		w.add("status = ?", string(q.Status))
	}
	if q.Featured != nil {
		w.add("featured = ?", boolInt(*q.Featured))
	}
	if q.Technology != "" {
		w.add("EXISTS (SELECT 1 FROM json_each(projects.technologies) WHERE json_each.value = ? COLLATE NOCASE)", q.Technology)
	}
	if q.Search != "" {
		pat := likePattern(q.Search)
		w.add(`(title LIKE ? ESCAPE '\' OR short_summary LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`, pat, pat, pat)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	q.ClampTo(total)

	order := orderBy(q.SortBy, q.SortOrder, projectSort, "sort_order ASC, created_at DESC")
	args := append(w.args, q.Limit, q.Offset())
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects`+w.sql()+` ORDER BY `+order+`, id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.Project
	for rows.Next() {
		p, err := s.scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (s *SQLiteStore) UpdateProject(ctx context.Context, p *model.Project) error {
	s.logger.Debug("sql", "op", "update", "table", "projects", "id", p.ID)

	tech, err := encodeList(p.Technologies)
	if err != nil {
		return fmt.Errorf("marshal technologies: %w", err)
	}
	images, err := encodeList(p.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}

	return checkAffected(s.db.ExecContext(ctx,
		`UPDATE projects SET title = ?, slug = ?, description = ?, short_summary = ?,
			technologies = ?, images = ?, live_demo_url = ?, source_code_url = ?, role = ?,
			challenges = ?, status = ?, featured = ?, sort_order = ?, published_at = ?, updated_at = ?
		 WHERE id = ?`,
		p.Title, p.Slug, p.Description, p.ShortSummary, tech, images,
		p.LiveDemoURL, p.SourceCodeURL, p.Role, p.Challenges, string(p.Status),
		boolInt(p.Featured), p.Order, formatTimePtr(p.PublishedAt), formatTime(p.UpdatedAt),
		p.ID,
	))
}

func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	s.logger.Debug("sql", "op", "delete", "table", "projects", "id", id)
	return checkAffected(s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id))
}

func (s *SQLiteStore) scanProject(row scanner) (*model.Project, error) {
	var p model.Project
	var tech, images, status string
	var featured int
	var publishedAt *string
	var createdAt, updatedAt string

	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.ShortSummary, &tech, &images,
		&p.LiveDemoURL, &p.SourceCodeURL, &p.Role, &p.Challenges, &status, &featured, &p.Order,
		&publishedAt, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := decodeJSON("technologies", tech, &p.Technologies); err != nil {
		return nil, err
	}
	if err := decodeJSON("images", images, &p.Images); err != nil {
		return nil, err
	}
	p.Status = model.PublishStatus(status)
	p.Featured = featured != 0
	p.PublishedAt = parseTimePtr(publishedAt)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}
