package service

import (
	"context"

	"github.com/me/folio/internal/resource"
	"github.com/me/folio/pkg/model"
)

// SendContact posts a message from the public contact form.
func SendContact(ctx context.Context, c Caller, msg model.ContactMessage) (model.ContactReceipt, error) {
	var r model.ContactReceipt
	err := send(ctx, c, "POST", "/contact", msg, &r)
	return r, err
}

func ListSubmissions(ctx context.Context, c Caller, f model.ContactFilter) (*model.Page[model.ContactSubmission], error) {
	var page model.Page[model.ContactSubmission]
	if err := get(ctx, c, "/admin/contact-submissions", f, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SetSubmissionRead marks a submission read or unread and returns it.
func SetSubmissionRead(ctx context.Context, c Caller, id string, isRead bool) (model.ContactSubmission, error) {
	var s model.ContactSubmission
	err := send(ctx, c, "PATCH", itemPath("/admin/contact-submissions", id)+"/status",
		model.ContactStatusUpdate{IsRead: isRead}, &s)
	return s, err
}

func DeleteSubmission(ctx context.Context, c Caller, id string) error {
	return send(ctx, c, "DELETE", itemPath("/admin/contact-submissions", id), nil, nil)
}

// AdminContact binds the submission endpoints to c. Update is the status
// change; there is no single-item fetch or create.
func AdminContact(c Caller) resource.Service[model.ContactSubmission, model.ContactFilter, model.ContactStatusUpdate] {
	return resource.Funcs[model.ContactSubmission, model.ContactFilter, model.ContactStatusUpdate]{
		ListFunc: func(ctx context.Context, f model.ContactFilter) (*model.Page[model.ContactSubmission], error) {
			return ListSubmissions(ctx, c, f)
		},
		UpdateFunc: func(ctx context.Context, id string, u model.ContactStatusUpdate) (model.ContactSubmission, error) {
			return SetSubmissionRead(ctx, c, id, u.IsRead)
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			return DeleteSubmission(ctx, c, id)
		},
	}
}
