package model

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError("Invalid blog post",
		FieldError{Field: "title", Message: "Title must be at least 3 characters long."},
		FieldError{Field: "content", Message: "Content must be at least 10 characters long."},
	)
	if got := err.Error(); got != "Title must be at least 3 characters long." {
		t.Errorf("Error() = %q", got)
	}
	if got := err.Field("content"); !strings.HasPrefix(got, "Content") {
		t.Errorf("Field(content) = %q", got)
	}
	if got := err.Field("slug"); got != "" {
		t.Errorf("Field(slug) = %q, want empty", got)
	}

	bare := NewValidationError("Invalid project")
	if bare.Error() != "Invalid project" {
		t.Errorf("Error() without fields = %q", bare.Error())
	}
}

func TestBlogPostInput_Validate(t *testing.T) {
	valid := BlogPostInput{
		Title:   "Hello Go",
		Content: "A long enough body of text.",
		Status:  StatusDraft,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input: %v", err)
	}

	tests := []struct {
		name  string
		edit  func(*BlogPostInput)
		field string
	}{
		{"short title", func(in *BlogPostInput) { in.Title = "Hi" }, "title"},
		{"bad slug", func(in *BlogPostInput) { in.Slug = "Not A Slug" }, "slug"},
		{"short content", func(in *BlogPostInput) { in.Content = "tiny" }, "content"},
		{"long excerpt", func(in *BlogPostInput) { in.Excerpt = strings.Repeat("x", 301) }, "excerpt"},
		{"long tag", func(in *BlogPostInput) { in.Tags = []string{"ok", strings.Repeat("t", 51)} }, "tags[1]"},
		{"bad status", func(in *BlogPostInput) { in.Status = "archived" }, "status"},
		{"bad image url", func(in *BlogPostInput) { in.FeaturedImageURL = "not a url" }, "featuredImageUrl"},
		{"bad og url", func(in *BlogPostInput) { in.SeoMetadata = &SeoMetadata{OgImageURL: "ftp://x"} }, "seoMetadata.ogImageUrl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.edit(&in)
			err := in.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field(tt.field) == "" {
				t.Errorf("expected error on %q, got %+v", tt.field, verr.Fields)
			}
		})
	}
}

func TestProjectInput_Validate(t *testing.T) {
	in := ProjectInput{
		Title:        "Folio",
		Description:  "Portfolio CMS",
		ShortSummary: "CMS",
		Role:         "Author",
		Challenges:   "Ordering",
		Status:       StatusPublished,
		Images:       []ProjectImage{{URL: "https://img.example/a.png", AltText: "screen"}},
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("valid input: %v", err)
	}

	in.Images[0].AltText = ""
	in.SourceCodeURL = "github.com/me/folio"
	err := in.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() = %v, want *ValidationError", err)
	}
	if verr.Field("images") == "" || verr.Field("sourceCodeUrl") == "" {
		t.Errorf("unexpected fields: %+v", verr.Fields)
	}
}

func TestContactMessage_Validate(t *testing.T) {
	ok := ContactMessage{Name: "Ada", Email: "ada@example.com", Message: "Let's build something."}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid message: %v", err)
	}
	bad := ContactMessage{Email: "nope", Message: "short"}
	err := bad.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() = %v", err)
	}
	if len(verr.Fields) != 3 {
		t.Errorf("fields = %+v, want name, email and message", verr.Fields)
	}
}

func TestCredentials_Validate(t *testing.T) {
	if err := (Credentials{Email: "admin@example.com", Password: "pw"}).Validate(); err != nil {
		t.Errorf("valid credentials: %v", err)
	}
	if err := (Credentials{Email: "admin@example.com"}).Validate(); err == nil {
		t.Error("expected error for missing password")
	}
}

func TestProfile_Clean(t *testing.T) {
	p := Profile{
		Skills: []SkillCategory{{Category: "Languages", Items: []string{"Go"}}, {Category: " "}},
		WorkExperience: []WorkExperienceEntry{
			{Company: "Acme", Position: "Dev", StartDate: "2020-01", Responsibilities: []string{"Ship", "  "}},
			{Company: "Half", Position: "", StartDate: "2019-01", Responsibilities: []string{"x"}},
			{Company: "Empty", Position: "Dev", StartDate: "2018-01", Responsibilities: []string{""}},
		},
	}
	p.Clean()
	if len(p.WorkExperience) != 1 || p.WorkExperience[0].Company != "Acme" {
		t.Fatalf("WorkExperience = %+v", p.WorkExperience)
	}
	if got := p.WorkExperience[0].Responsibilities; len(got) != 1 || got[0] != "Ship" {
		t.Errorf("Responsibilities = %q", got)
	}
	if len(p.Skills) != 1 {
		t.Errorf("Skills = %+v", p.Skills)
	}
}
