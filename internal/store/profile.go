package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/me/folio/pkg/model"
)

// profileID is the key of the single profile row.
const profileID = "profile"

func (s *SQLiteStore) GetProfile(ctx context.Context) (*model.Profile, error) {
	s.logger.Debug("sql", "op", "select", "table", "profile")

	var p model.Profile
	var skills, education, work, links string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, title, biography, profile_picture_url, contact_email,
			skills, education, work_experience, social_links, resume_url
		 FROM profile WHERE id = ?`, profileID,
	).Scan(&p.ID, &p.Name, &p.Title, &p.Biography, &p.ProfilePictureURL, &p.ContactEmail,
		&skills, &education, &work, &links, &p.ResumeURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	for _, c := range []struct {
		name string
		raw  string
		dst  any
	}{
		{"skills", skills, &p.Skills},
		{"education", education, &p.Education},
		{"work_experience", work, &p.WorkExperience},
		{"social_links", links, &p.SocialLinks},
	} {
		if err := decodeJSON(c.name, c.raw, c.dst); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

// SaveProfile inserts or replaces the profile. The stored resume URL is
// kept unless p carries a new one.
func (s *SQLiteStore) SaveProfile(ctx context.Context, p *model.Profile) error {
	s.logger.Debug("sql", "op", "upsert", "table", "profile")

	skills, err := encodeList(p.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	education, err := encodeList(p.Education)
	if err != nil {
		return fmt.Errorf("marshal education: %w", err)
	}
	work, err := encodeList(p.WorkExperience)
	if err != nil {
		return fmt.Errorf("marshal work experience: %w", err)
	}
	links, err := encodeList(p.SocialLinks)
	if err != nil {
		return fmt.Errorf("marshal social links: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profile (id, name, title, biography, profile_picture_url, contact_email,
			skills, education, work_experience, social_links, resume_url, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, title = excluded.title, biography = excluded.biography,
			profile_picture_url = excluded.profile_picture_url, contact_email = excluded.contact_email,
			skills = excluded.skills, education = excluded.education,
			work_experience = excluded.work_experience, social_links = excluded.social_links,
			resume_url = CASE WHEN excluded.resume_url != '' THEN excluded.resume_url ELSE profile.resume_url END,
			updated_at = excluded.updated_at`,
		profileID, p.Name, p.Title, p.Biography, p.ProfilePictureURL, p.ContactEmail,
		skills, education, work, links, p.ResumeURL, formatTime(time.Now()),
	)
	if err != nil {
		return err
	}
	p.ID = profileID
	return nil
}

func (s *SQLiteStore) SetResumeURL(ctx context.Context, url string) error {
	s.logger.Debug("sql", "op", "update", "table", "profile", "column", "resume_url")
	return checkAffected(s.db.ExecContext(ctx,
		`UPDATE profile SET resume_url = ?, updated_at = ? WHERE id = ?`,
		url, formatTime(time.Now()), profileID))
}
