package model

import (
	"strings"
	"time"
)

// SeoMetadata holds search-engine and Open Graph overrides for a post.
type SeoMetadata struct {
	SeoTitle       string   `json:"seoTitle,omitempty" yaml:"seoTitle"`
	SeoDescription string   `json:"seoDescription,omitempty" yaml:"seoDescription"`
	SeoKeywords    []string `json:"seoKeywords,omitempty" yaml:"seoKeywords"`
	OgTitle        string   `json:"ogTitle,omitempty" yaml:"ogTitle"`
	OgDescription  string   `json:"ogDescription,omitempty" yaml:"ogDescription"`
	OgImageURL     string   `json:"ogImageUrl,omitempty" yaml:"ogImageUrl"`
}

// BlogPost is a blog post as returned by the API.
type BlogPost struct {
	ID               string        `json:"_id"`
	Title            string        `json:"title"`
	Slug             string        `json:"slug"`
	Content          string        `json:"content"`
	Excerpt          string        `json:"excerpt,omitempty"`
	Categories       []string      `json:"categories"`
	Tags             []string      `json:"tags,omitempty"`
	Author           User          `json:"author"`
	Status           PublishStatus `json:"status"`
	FeaturedImageURL string        `json:"featuredImageUrl,omitempty"`
	PublishedAt      *time.Time    `json:"publishedAt,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
	SeoMetadata      *SeoMetadata  `json:"seoMetadata,omitempty"`
}

// ItemID implements Item.
func (p BlogPost) ItemID() string { return p.ID }

// Summary returns the excerpt, or the first n runes of the content.
func (p BlogPost) Summary(n int) string {
	if p.Excerpt != "" {
		return p.Excerpt
	}
	r := []rune(strings.TrimSpace(p.Content))
	if len(r) <= n {
		return string(r)
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}

// Input returns the editable fields of p.
func (p BlogPost) Input() BlogPostInput {
	in := BlogPostInput{
		Title:            p.Title,
		Slug:             p.Slug,
		Content:          p.Content,
		Excerpt:          p.Excerpt,
		Categories:       append([]string(nil), p.Categories...),
		Tags:             append([]string(nil), p.Tags...),
		Status:           p.Status,
		FeaturedImageURL: p.FeaturedImageURL,
	}
	if p.SeoMetadata != nil {
		seo := *p.SeoMetadata
		seo.SeoKeywords = append([]string(nil), seo.SeoKeywords...)
		in.SeoMetadata = &seo
	}
	return in
}

// BlogPostInput is the body of blog post create and update requests.
type BlogPostInput struct {
	Title            string        `json:"title" yaml:"title"`
	Slug             string        `json:"slug,omitempty" yaml:"slug"`
	Content          string        `json:"content" yaml:"content"`
	Excerpt          string        `json:"excerpt,omitempty" yaml:"excerpt"`
	Categories       []string      `json:"categories" yaml:"categories"`
	Tags             []string      `json:"tags,omitempty" yaml:"tags"`
	Status           PublishStatus `json:"status" yaml:"status"`
	FeaturedImageURL string        `json:"featuredImageUrl,omitempty" yaml:"featuredImageUrl"`
	SeoMetadata      *SeoMetadata  `json:"seoMetadata,omitempty" yaml:"seoMetadata"`
}

// Validate checks the input against the blog post form rules.
func (in BlogPostInput) Validate() error {
	var v validator
	v.minLen("title", in.Title, 3, "Title must be at least 3 characters long.")
	v.maxLen("title", in.Title, 150, "Title cannot exceed 150 characters.")
	validateSlug(&v, in.Slug)
	v.minLen("content", in.Content, 10, "Content must be at least 10 characters long.")
	v.maxLen("excerpt", in.Excerpt, 300, "Excerpt cannot exceed 300 characters.")
	v.eachMaxLen("categories", in.Categories, 50, "Category cannot exceed 50 characters.")
	v.eachMaxLen("tags", in.Tags, 50, "Each tag cannot exceed 50 characters.")
	if !in.Status.Valid() {
		v.add("status", "Invalid status.")
	}
	v.optionalURL("featuredImageUrl", in.FeaturedImageURL, "Invalid URL format for Featured Image.")
	if seo := in.SeoMetadata; seo != nil {
		v.maxLen("seoMetadata.seoTitle", seo.SeoTitle, 100, "SEO Title cannot exceed 100 characters.")
		v.maxLen("seoMetadata.seoDescription", seo.SeoDescription, 200, "SEO Description cannot exceed 200 characters.")
		v.eachMaxLen("seoMetadata.seoKeywords", seo.SeoKeywords, 50, "Each SEO keyword cannot exceed 50 characters.")
		v.maxLen("seoMetadata.ogTitle", seo.OgTitle, 100, "Open Graph Title cannot exceed 100 characters.")
		v.maxLen("seoMetadata.ogDescription", seo.OgDescription, 200, "Open Graph Description cannot exceed 200 characters.")
		v.optionalURL("seoMetadata.ogImageUrl", seo.OgImageURL, "Invalid URL format for Open Graph Image.")
	}
	return v.err("Invalid blog post")
}

// BlogFilter holds the list parameters of the public and admin blog lists.
// Status is honored by the admin list only.
type BlogFilter struct {
	Page      int           `url:"page,omitempty"`
	Limit     int           `url:"limit,omitempty"`
	Category  string        `url:"category,omitempty"`
	Tag       string        `url:"tag,omitempty"`
	Search    string        `url:"search,omitempty"`
	Status    PublishStatus `url:"status,omitempty"`
	SortBy    string        `url:"sortBy,omitempty"`
	SortOrder SortOrder     `url:"sortOrder,omitempty"`
}

// ListOptions returns the clamped pagination part of the filter.
func (f BlogFilter) ListOptions() ListOptions {
	o := ListOptions{Page: f.Page, Limit: f.Limit}
	o.Clamp()
	return o
}
