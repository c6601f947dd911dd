package model

import (
	"regexp"
	"strings"
	"time"
)

// slugPattern matches lowercase alphanumeric words joined by single hyphens.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ProjectImage is one screenshot of a project.
type ProjectImage struct {
	ID          string `json:"_id,omitempty" yaml:"_id,omitempty"`
	URL         string `json:"url" yaml:"url"`
	AltText     string `json:"altText" yaml:"altText"`
	IsThumbnail bool   `json:"isThumbnail,omitempty" yaml:"isThumbnail"`
}

// Project is a portfolio project as returned by the API.
type Project struct {
	ID            string         `json:"_id"`
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Description   string         `json:"description"`
	ShortSummary  string         `json:"shortSummary"`
	Technologies  []string       `json:"technologies"`
	Images        []ProjectImage `json:"images"`
	LiveDemoURL   string         `json:"liveDemoUrl,omitempty"`
	SourceCodeURL string         `json:"sourceCodeUrl,omitempty"`
	Role          string         `json:"role"`
	Challenges    string         `json:"challenges"`
	Status        PublishStatus  `json:"status"`
	Featured      bool           `json:"featured"`
	Order         int            `json:"order"`
	PublishedAt   *time.Time     `json:"publishedAt,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// ItemID implements Item.
func (p Project) ItemID() string { return p.ID }

// Thumbnail returns the image flagged as thumbnail, falling back to the
// first image. ok is false when the project has no images.
func (p Project) Thumbnail() (img ProjectImage, ok bool) {
	for _, im := range p.Images {
		if im.IsThumbnail {
			return im, true
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0], true
	}
	return ProjectImage{}, false
}

// Input returns the editable fields of p, the starting point of an update.
func (p Project) Input() ProjectInput {
	return ProjectInput{
		Title:         p.Title,
		Slug:          p.Slug,
		Description:   p.Description,
		ShortSummary:  p.ShortSummary,
		Technologies:  append([]string(nil), p.Technologies...),
		Images:        append([]ProjectImage(nil), p.Images...),
		LiveDemoURL:   p.LiveDemoURL,
		SourceCodeURL: p.SourceCodeURL,
		Role:          p.Role,
		Challenges:    p.Challenges,
		Status:        p.Status,
		Featured:      p.Featured,
		Order:         p.Order,
	}
}

// ProjectInput is the body of project create and update requests.
type ProjectInput struct {
	Title         string         `json:"title" yaml:"title"`
	Slug          string         `json:"slug,omitempty" yaml:"slug"`
	Description   string         `json:"description" yaml:"description"`
	ShortSummary  string         `json:"shortSummary" yaml:"shortSummary"`
	Technologies  []string       `json:"technologies" yaml:"technologies"`
	Images        []ProjectImage `json:"images" yaml:"images"`
	LiveDemoURL   string         `json:"liveDemoUrl,omitempty" yaml:"liveDemoUrl"`
	SourceCodeURL string         `json:"sourceCodeUrl,omitempty" yaml:"sourceCodeUrl"`
	Role          string         `json:"role" yaml:"role"`
	Challenges    string         `json:"challenges" yaml:"challenges"`
	Status        PublishStatus  `json:"status" yaml:"status"`
	Featured      bool           `json:"featured" yaml:"featured"`
	Order         int            `json:"order" yaml:"order"`
}

// Validate checks the input against the project form rules.
func (in ProjectInput) Validate() error {
	var v validator
	v.minLen("title", in.Title, 3, "Title must be at least 3 characters long.")
	v.maxLen("title", in.Title, 150, "Title cannot exceed 150 characters.")
	validateSlug(&v, in.Slug)
	if strings.TrimSpace(in.Description) == "" {
		v.add("description", "Description is required.")
	}
	if strings.TrimSpace(in.ShortSummary) == "" {
		v.add("shortSummary", "Short summary is required.")
	}
	v.maxLen("shortSummary", in.ShortSummary, 300, "Short summary cannot exceed 300 characters.")
	if strings.TrimSpace(in.Role) == "" {
		v.add("role", "Role is required.")
	}
	if strings.TrimSpace(in.Challenges) == "" {
		v.add("challenges", "Challenges are required.")
	}
	if !in.Status.Valid() {
		v.add("status", "Invalid status.")
	}
	v.eachMaxLen("technologies", in.Technologies, 50, "Each technology cannot exceed 50 characters.")
	v.optionalURL("liveDemoUrl", in.LiveDemoURL, "Invalid URL format for live demo.")
	v.optionalURL("sourceCodeUrl", in.SourceCodeURL, "Invalid URL format for source code.")
	for _, im := range in.Images {
		if !IsHTTPURL(im.URL) && !strings.HasPrefix(im.URL, "/") {
			v.add("images", "Invalid image URL.")
			break
		}
		if strings.TrimSpace(im.AltText) == "" {
			v.add("images", "Image alt text is required.")
			break
		}
	}
	return v.err("Invalid project")
}

func validateSlug(v *validator, slug string) {
	if slug == "" {
		return
	}
	v.minLen("slug", slug, 3, "Slug must be at least 3 characters long.")
	v.maxLen("slug", slug, 200, "Slug cannot exceed 200 characters.")
	if !slugPattern.MatchString(slug) {
		v.add("slug", "Slug must be lowercase alphanumeric with hyphens.")
	}
}

// ProjectFilter holds the list parameters of the public and admin project
// lists. Category and Featured are honored by the public list; Status,
// Search and sorting by the admin list.
type ProjectFilter struct {
	Page      int           `url:"page,omitempty"`
	Limit     int           `url:"limit,omitempty"`
	Category  string        `url:"category,omitempty"`
	Featured  *bool         `url:"featured,omitempty"`
	Status    PublishStatus `url:"status,omitempty"`
	Search    string        `url:"search,omitempty"`
	SortBy    string        `url:"sortBy,omitempty"`
	SortOrder SortOrder     `url:"sortOrder,omitempty"`
}

// ListOptions returns the clamped pagination part of the filter.
func (f ProjectFilter) ListOptions() ListOptions {
	o := ListOptions{Page: f.Page, Limit: f.Limit}
	o.Clamp()
	return o
}
