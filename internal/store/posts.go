package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/me/folio/pkg/model"
)

const postColumns = `p.id, p.title, p.slug, p.content, p.excerpt, p.categories, p.tags,
	p.author_id, COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.role, ''),
	p.status, p.featured_image_url, p.seo_metadata, p.published_at, p.created_at, p.updated_at`

const postFrom = ` FROM blog_posts p LEFT JOIN users u ON u.id = p.author_id`

var postSort = map[string]string{
	"createdAt":   "p.created_at",
	"updatedAt":   "p.updated_at",
	"publishedAt": "p.published_at",
	"title":       "p.title",
}

func (s *SQLiteStore) CreatePost(ctx context.Context, p *model.BlogPost) error {
	s.logger.Debug("sql", "op", "insert", "table", "blog_posts", "id", p.ID)

	cats, tags, seo, err := encodePostJSON(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO blog_posts (id, title, slug, content, excerpt, categories, tags, author_id,
			status, featured_image_url, seo_metadata, published_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Slug, p.Content, p.Excerpt, cats, tags, p.Author.ID,
		string(p.Status), p.FeaturedImageURL, seo, formatTimePtr(p.PublishedAt),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	return mapWriteErr(err)
}

func (s *SQLiteStore) GetPost(ctx context.Context, id string) (*model.BlogPost, error) {
	s.logger.Debug("sql", "op", "select", "table", "blog_posts", "id", id)
	return s.scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+postFrom+` WHERE p.id = ?`, id))
}

func (s *SQLiteStore) GetPostBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	s.logger.Debug("sql", "op", "select_by_slug", "table", "blog_posts", "slug", slug)
	return s.scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+postFrom+` WHERE p.slug = ?`, slug))
}

func (s *SQLiteStore) ListPosts(ctx context.Context, q PostQuery) ([]*model.BlogPost, int, error) {
	q.Clamp()
	s.logger.Debug("sql", "op", "list", "table", "blog_posts", "page", q.Page, "limit", q.Limit)

	var w where
	if q.PublishedOnly {
		w.add("p.status = ?", string(model.StatusPublished))
	} else if q.Status != "" {
		w.add("p.status = ?", string(q.Status))
	}
	if q.Category != "" {
		w.add("EXISTS (SELECT 1 FROM json_each(p.categories) WHERE json_each.value = ? COLLATE NOCASE)", q.Category)
	}
	if q.Tag != "" {
		w.add("EXISTS (SELECT 1 FROM json_each(p.tags) WHERE json_each.value = ? COLLATE NOCASE)", q.Tag)
	}
	if q.Search != "" {
		pat := likePattern(q.Search)
		w.add(`(p.title LIKE ? ESCAPE '\' OR p.excerpt LIKE ? ESCAPE '\' OR p.content LIKE ? ESCAPE '\')`, pat, pat, pat)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_posts p`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	q.ClampTo(total)

	order := orderBy(q.SortBy, q.SortOrder, postSort, "COALESCE(p.published_at, p.created_at) DESC")
	args := append(w.args, q.Limit, q.Offset())
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+postColumns+postFrom+w.sql()+` ORDER BY `+order+`, p.id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.BlogPost
	for rows.Next() {
		p, err := s.scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (s *SQLiteStore) UpdatePost(ctx context.Context, p *model.BlogPost) error {
	s.logger.Debug("sql", "op", "update", "table", "blog_posts", "id", p.ID)

	cats, tags, seo, err := encodePostJSON(p)
	if err != nil {
		return err
	}
	return checkAffected(s.db.ExecContext(ctx,
		`UPDATE blog_posts SET title = ?, slug = ?, content = ?, excerpt = ?, categories = ?, tags = ?,
			status = ?, featured_image_url = ?, seo_metadata = ?, published_at = ?, updated_at = ?
		 WHERE id = ?`,
		p.Title, p.Slug, p.Content, p.Excerpt, cats, tags,
		string(p.Status), p.FeaturedImageURL, seo, formatTimePtr(p.PublishedAt), formatTime(p.UpdatedAt),
		p.ID,
	))
}

func (s *SQLiteStore) DeletePost(ctx context.Context, id string) error {
	s.logger.Debug("sql", "op", "delete", "table", "blog_posts", "id", id)
	return checkAffected(s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id))
}

// ListTags returns the distinct tags of published posts, sorted.
func (s *SQLiteStore) ListTags(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "tags")
}

// ListCategories returns the distinct categories of published posts, sorted.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "categories")
}

func (s *SQLiteStore) distinct(ctx context.Context, column string) ([]string, error) {
	s.logger.Debug("sql", "op", "distinct", "table", "blog_posts", "column", column)

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT j.value FROM blog_posts p, json_each(p.`+column+`) j
		 WHERE p.status = 'published' AND j.value != '' ORDER BY j.value`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func encodePostJSON(p *model.BlogPost) (cats, tags, seo string, err error) {
	if cats, err = encodeList(p.Categories); err != nil {
		return "", "", "", fmt.Errorf("marshal categories: %w", err)
	}
	if tags, err = encodeList(p.Tags); err != nil {
		return "", "", "", fmt.Errorf("marshal tags: %w", err)
	}
	if p.SeoMetadata != nil {
		b, err := json.Marshal(p.SeoMetadata)
		if err != nil {
			return "", "", "", fmt.Errorf("marshal seo metadata: %w", err)
		}
		seo = string(b)
	}
	return cats, tags, seo, nil
}

func (s *SQLiteStore) scanPost(row scanner) (*model.BlogPost, error) {
	var p model.BlogPost
	var cats, tags, role, status, seo string
	var publishedAt *string
	var createdAt, updatedAt string

	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &cats, &tags,
		&p.Author.ID, &p.Author.Name, &p.Author.Email, &role,
		&status, &p.FeaturedImageURL, &seo, &publishedAt, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := decodeJSON("categories", cats, &p.Categories); err != nil {
		return nil, err
	}
	if err := decodeJSON("tags", tags, &p.Tags); err != nil {
		return nil, err
	}
	if seo != "" {
		p.SeoMetadata = &model.SeoMetadata{}
		if err := decodeJSON("seo_metadata", seo, p.SeoMetadata); err != nil {
			return nil, err
		}
	}
	p.Author.Role = model.UserRole(role)
	p.Status = model.PublishStatus(status)
	p.PublishedAt = parseTimePtr(publishedAt)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}
