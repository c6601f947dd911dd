package service

import (
	"context"

	"github.com/me/folio/internal/resource"
	"github.com/me/folio/pkg/model"
)

// ListPublicPosts returns a page of published posts.
func ListPublicPosts(ctx context.Context, c Caller, f model.BlogFilter) (*model.Page[model.BlogPost], error) {
	var page model.Page[model.BlogPost]
	if err := get(ctx, c, "/blog", f, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPublicPost fetches a published post by slug.
func GetPublicPost(ctx context.Context, c Caller, slug string) (model.BlogPost, error) {
	var p model.BlogPost
	err := get(ctx, c, itemPath("/blog", slug), nil, &p)
	return p, err
}

// ListTags returns the tags in use on published posts.
func ListTags(ctx context.Context, c Caller) ([]string, error) {
	var l model.StringList
	err := get(ctx, c, "/blog/tags", nil, &l)
	return l.Data, err
}

// ListCategories returns the categories in use on published posts.
func ListCategories(ctx context.Context, c Caller) ([]string, error) {
	var l model.StringList
	err := get(ctx, c, "/blog/categories", nil, &l)
	return l.Data, err
}

// ListPosts returns a page of all posts, drafts included.
func ListPosts(ctx context.Context, c Caller, f model.BlogFilter) (*model.Page[model.BlogPost], error) {
	var page model.Page[model.BlogPost]
	if err := get(ctx, c, "/admin/blog/all", f, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func GetPost(ctx context.Context, c Caller, id string) (model.BlogPost, error) {
	var p model.BlogPost
	err := get(ctx, c, itemPath("/admin/blog", id), nil, &p)
	return p, err
}

func CreatePost(ctx context.Context, c Caller, in model.BlogPostInput) (model.BlogPost, error) {
	var p model.BlogPost
	err := send(ctx, c, "POST", "/admin/blog", in, &p)
	return p, err
}

func UpdatePost(ctx context.Context, c Caller, id string, in model.BlogPostInput) (model.BlogPost, error) {
	var p model.BlogPost
	err := send(ctx, c, "PUT", itemPath("/admin/blog", id), in, &p)
	return p, err
}

func DeletePost(ctx context.Context, c Caller, id string) error {
	return send(ctx, c, "DELETE", itemPath("/admin/blog", id), nil, nil)
}

// AdminBlog binds the admin blog endpoints to c.
func AdminBlog(c Caller) resource.Service[model.BlogPost, model.BlogFilter, model.BlogPostInput] {
	return resource.Funcs[model.BlogPost, model.BlogFilter, model.BlogPostInput]{
		ListFunc: func(ctx context.Context, f model.BlogFilter) (*model.Page[model.BlogPost], error) {
			return ListPosts(ctx, c, f)
		},
		GetFunc: func(ctx context.Context, id string) (model.BlogPost, error) {
			return GetPost(ctx, c, id)
		},
		CreateFunc: func(ctx context.Context, in model.BlogPostInput) (model.BlogPost, error) {
			return CreatePost(ctx, c, in)
		},
		UpdateFunc: func(ctx context.Context, id string, in model.BlogPostInput) (model.BlogPost, error) {
			return UpdatePost(ctx, c, id, in)
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			return DeletePost(ctx, c, id)
		},
	}
}

// PublicBlog is the read-only public blog surface; Get takes a slug.
func PublicBlog(c Caller) resource.Service[model.BlogPost, model.BlogFilter, model.BlogPostInput] {
	return resource.Funcs[model.BlogPost, model.BlogFilter, model.BlogPostInput]{
		ListFunc: func(ctx context.Context, f model.BlogFilter) (*model.Page[model.BlogPost], error) {
			return ListPublicPosts(ctx, c, f)
		},
		GetFunc: func(ctx context.Context, slug string) (model.BlogPost, error) {
			return GetPublicPost(ctx, c, slug)
		},
	}
}
