package store

import (
	"context"
	"errors"
	"time"

	"github.com/me/folio/pkg/model"
)

// Sentinel errors returned by Store implementations.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// User is an account row, including the password hash the API never returns.
type User struct {
	model.User
	PasswordHash string
	CreatedAt    time.Time
}

// ProjectQuery selects a page of projects.
type ProjectQuery struct {
	model.ListOptions
	PublishedOnly bool
	Status        model.PublishStatus
	Featured      *bool
	Technology    string
	Search        string
	SortBy        string
	SortOrder     model.SortOrder
}

// PostQuery selects a page of blog posts.
type PostQuery struct {
	model.ListOptions
	PublishedOnly bool
	Status        model.PublishStatus
	Category      string
	Tag           string
	Search        string
	SortBy        string
	SortOrder     model.SortOrder
}

// SubmissionQuery selects a page of contact submissions.
type SubmissionQuery struct {
	model.ListOptions
	IsRead    *bool
	SortBy    string
	SortOrder model.SortOrder
}

// Store defines the persistence layer of the development server.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// Projects
	CreateProject(ctx context.Context, p *model.Project) error
	GetProject(ctx context.Context, id string) (*model.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*model.Project, error)
	ListProjects(ctx context.Context, q ProjectQuery) ([]*model.Project, int, error)
	UpdateProject(ctx context.Context, p *model.Project) error
	DeleteProject(ctx context.Context, id string) error

	// Blog posts
	CreatePost(ctx context.Context, p *model.BlogPost) error
	GetPost(ctx context.Context, id string) (*model.BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*model.BlogPost, error)
	ListPosts(ctx context.Context, q PostQuery) ([]*model.BlogPost, int, error)
	UpdatePost(ctx context.Context, p *model.BlogPost) error
	DeletePost(ctx context.Context, id string) error
	ListTags(ctx context.Context) ([]string, error)
	ListCategories(ctx context.Context) ([]string, error)

	// Contact submissions
	CreateSubmission(ctx context.Context, s *model.ContactSubmission) error
	ListSubmissions(ctx context.Context, q SubmissionQuery) ([]*model.ContactSubmission, int, error)
	SetSubmissionRead(ctx context.Context, id string, isRead bool) (*model.ContactSubmission, error)
	DeleteSubmission(ctx context.Context, id string) error

	// Profile (singleton)
	GetProfile(ctx context.Context) (*model.Profile, error)
	SaveProfile(ctx context.Context, p *model.Profile) error
	SetResumeURL(ctx context.Context, url string) error

	Stats(ctx context.Context) (model.DashboardStats, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
