// Package formfield converts between structured lists and the flat strings
// users type into a single flag or form field.
package formfield

import (
	"regexp"
	"strings"

	"github.com/me/folio/pkg/model"
)

// Parse splits a comma-separated string, trimming entries and dropping
// empty ones. Parse("") returns nil.
func Parse(s string) []string {
	return split(s, ",")
}

// Format joins items with ", ". Format(Parse(Format(x))) == Format(x).
func Format(items []string) string {
	return strings.Join(items, ", ")
}

// ParseLines splits one entry per line, for multi-line fields such as
// work responsibilities.
func ParseLines(s string) []string {
	return split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

// FormatLines joins items one per line.
func FormatLines(items []string) string {
	return strings.Join(items, "\n")
}

func split(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var (
	spaceRun = regexp.MustCompile(`\s+`)
	nonWord  = regexp.MustCompile(`[^a-z0-9_-]+`)
	dashRun  = regexp.MustCompile(`-{2,}`)
)

// Slugify derives a URL slug from a title: lowercased, whitespace turned
// into dashes, everything outside [a-z0-9_-] dropped, dash runs collapsed.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = spaceRun.ReplaceAllString(s, "-")
	s = nonWord.ReplaceAllString(s, "")
	s = dashRun.ReplaceAllString(s, "-")
	return s
}

// ParseSkills reads "Category: a, b; Other: c". A group without a colon
// becomes a category with no items.
func ParseSkills(s string) []model.SkillCategory {
	var out []model.SkillCategory
	for _, group := range strings.Split(s, ";") {
		group = strings.TrimSpace(group)
		if group == "" {
			continue
		}
		name, items, _ := strings.Cut(group, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, model.SkillCategory{Category: name, Items: Parse(items)})
	}
	return out
}

// FormatSkills is the inverse of ParseSkills.
func FormatSkills(cats []model.SkillCategory) string {
	parts := make([]string, 0, len(cats))
	for _, c := range cats {
		parts = append(parts, c.Category+": "+Format(c.Items))
	}
	return strings.Join(parts, "; ")
}
