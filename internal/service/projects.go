package service

import (
	"context"

	"github.com/me/folio/internal/resource"
	"github.com/me/folio/pkg/model"
)

// ListPublicProjects returns a page of published projects.
func ListPublicProjects(ctx context.Context, c Caller, f model.ProjectFilter) (*model.Page[model.Project], error) {
	var page model.Page[model.Project]
	if err := get(ctx, c, "/projects", f, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPublicProject fetches a published project by id or slug.
func GetPublicProject(ctx context.Context, c Caller, idOrSlug string) (model.Project, error) {
	var p model.Project
	err := get(ctx, c, itemPath("/projects", idOrSlug), nil, &p)
	return p, err
}

func ListProjects(ctx context.Context, c Caller, f model.ProjectFilter) (*model.Page[model.Project], error) {
	var page model.Page[model.Project]
	if err := get(ctx, c, "/admin/projects", f, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func GetProject(ctx context.Context, c Caller, id string) (model.Project, error) {
	var p model.Project
	err := get(ctx, c, itemPath("/admin/projects", id), nil, &p)
	return p, err
}

func CreateProject(ctx context.Context, c Caller, in model.ProjectInput) (model.Project, error) {
	var p model.Project
	err := send(ctx, c, "POST", "/admin/projects", in, &p)
	return p, err
}

func UpdateProject(ctx context.Context, c Caller, id string, in model.ProjectInput) (model.Project, error) {
	var p model.Project
	err := send(ctx, c, "PUT", itemPath("/admin/projects", id), in, &p)
	return p, err
}

func DeleteProject(ctx context.Context, c Caller, id string) error {
	return send(ctx, c, "DELETE", itemPath("/admin/projects", id), nil, nil)
}

// AdminProjects binds the admin project endpoints to c.
func AdminProjects(c Caller) resource.Service[model.Project, model.ProjectFilter, model.ProjectInput] {
	return resource.Funcs[model.Project, model.ProjectFilter, model.ProjectInput]{
		ListFunc: func(ctx context.Context, f model.ProjectFilter) (*model.Page[model.Project], error) {
			return ListProjects(ctx, c, f)
		},
		GetFunc: func(ctx context.Context, id string) (model.Project, error) {
			return GetProject(ctx, c, id)
		},
		CreateFunc: func(ctx context.Context, in model.ProjectInput) (model.Project, error) {
			return CreateProject(ctx, c, in)
		},
		UpdateFunc: func(ctx context.Context, id string, in model.ProjectInput) (model.Project, error) {
			return UpdateProject(ctx, c, id, in)
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			return DeleteProject(ctx, c, id)
		},
	}
}

// PublicProjects is the read-only public project surface.
func PublicProjects(c Caller) resource.Service[model.Project, model.ProjectFilter, model.ProjectInput] {
	return resource.Funcs[model.Project, model.ProjectFilter, model.ProjectInput]{
		ListFunc: func(ctx context.Context, f model.ProjectFilter) (*model.Page[model.Project], error) {
			return ListPublicProjects(ctx, c, f)
		},
		GetFunc: func(ctx context.Context, id string) (model.Project, error) {
			return GetPublicProject(ctx, c, id)
		},
	}
}
