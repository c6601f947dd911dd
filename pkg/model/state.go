package model

// PublishStatus is the editorial state of a project or blog post.
type PublishStatus string

const (
	StatusDraft     PublishStatus = "draft"
	StatusPublished PublishStatus = "published"
)

// String returns the string representation of the status.
func (s PublishStatus) String() string {
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s PublishStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// ValidStatusTransitions lists the editorial transitions an admin can make.
// Publishing stamps publishedAt; unpublishing keeps the original stamp.
var ValidStatusTransitions = map[PublishStatus][]PublishStatus{
	StatusDraft:     {StatusPublished},
	StatusPublished: {StatusDraft},
}

// CanTransitionTo returns true if moving from the current status to next is
// valid. Staying in the same status is always allowed.
func (s PublishStatus) CanTransitionTo(next PublishStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range ValidStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Theme is the persisted light/dark preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is light or dark.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the opposite theme. Unknown values toggle to dark, matching
// a light default.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
