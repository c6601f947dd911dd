package service

import (
	"context"
	"io"

	"github.com/me/folio/internal/resource"
	"github.com/me/folio/pkg/model"
)

func GetProfile(ctx context.Context, c Caller) (model.Profile, error) {
	var p model.Profile
	err := get(ctx, c, "/profile", nil, &p)
	return p, err
}

func UpdateProfile(ctx context.Context, c Caller, p model.Profile) (model.Profile, error) {
	var out model.Profile
	err := send(ctx, c, "PUT", "/profile", p, &out)
	return out, err
}

// UploadResume sends a resume file as the multipart field "resume".
func UploadResume(ctx context.Context, c Caller, filename string, r io.Reader) (model.ResumeUpload, error) {
	var out model.ResumeUpload
	err := c.Upload(ctx, "/admin/profile/resume/upload", "resume", filename, r, &out)
	return out, err
}

// DashboardStats returns the admin dashboard counts.
func DashboardStats(ctx context.Context, c Caller) (model.DashboardStats, error) {
	var s model.DashboardStats
	err := get(ctx, c, "/admin/dashboard/stats", nil, &s)
	return s, err
}

// NewProfile returns the profile singleton bound to c.
func NewProfile(c Caller, opts ...resource.Option) *resource.Singleton[model.Profile] {
	opts = append([]resource.Option{
		resource.WithName("profile"),
		resource.WithFallbackMessage(resource.KindDetail, "Failed to load profile."),
		resource.WithFallbackMessage(resource.KindSave, "Failed to save profile."),
	}, opts...)
	return resource.NewSingleton(
		func(ctx context.Context) (model.Profile, error) { return GetProfile(ctx, c) },
		func(ctx context.Context, p model.Profile) (model.Profile, error) { return UpdateProfile(ctx, c, p) },
		opts...,
	)
}

// UploadResumeInto uploads a resume through the profile singleton so the
// held profile picks up the new resumeUrl.
func UploadResumeInto(ctx context.Context, c Caller, prof *resource.Singleton[model.Profile], filename string, r io.Reader) (model.ResumeUpload, error) {
	var res model.ResumeUpload
	err := prof.Mutate(ctx, func(ctx context.Context) (func(*model.Profile), error) {
		var err error
		res, err = UploadResume(ctx, c, filename, r)
		if err != nil {
			return nil, err
		}
		return func(p *model.Profile) { p.ResumeURL = res.ResumeURL }, nil
	})
	return res, err
}

// NewDashboard returns the read-only dashboard aggregate bound to c.
func NewDashboard(c Caller, opts ...resource.Option) *resource.Aggregate[model.DashboardStats] {
	opts = append([]resource.Option{
		resource.WithName("dashboard"),
		resource.WithFallbackMessage(resource.KindList, "Failed to load dashboard statistics."),
	}, opts...)
	return resource.NewAggregate(func(ctx context.Context) (model.DashboardStats, error) {
		return DashboardStats(ctx, c)
	}, opts...)
}
