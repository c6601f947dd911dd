package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/me/folio/internal/apiclient"
	"github.com/me/folio/pkg/model"
)

func TestAggregate(t *testing.T) {
	var fail bool
	a := NewAggregate(func(ctx context.Context) (model.DashboardStats, error) {
		if fail {
			return model.DashboardStats{}, &apiclient.Error{Kind: apiclient.KindNetwork, Message: apiclient.MsgNetwork}
		}
		return model.DashboardStats{TotalProjects: 4, TotalPublishedPosts: 2}, nil
	})

	if s := a.State(); s.Status != StatusIdle || s.Data != nil {
		t.Fatalf("initial = %+v", s)
	}
	if _, err := a.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s := a.State(); s.Status != StatusSucceeded || s.Data.TotalProjects != 4 {
		t.Errorf("after fetch = %+v", s)
	}

	fail = true
	_, _ = a.Fetch(context.Background())
	s := a.State()
	if s.Status != StatusFailed || s.Error != apiclient.MsgNetwork {
		t.Errorf("status = %s error = %q", s.Status, s.Error)
	}
	if s.Data == nil || s.Data.TotalProjects != 4 {
		t.Error("failure dropped previous data")
	}

	a.ClearMessages()
	if a.State().Error != "" {
		t.Error("error not cleared")
	}
}

func TestSingleton(t *testing.T) {
	saveErr := error(nil)
	s := NewSingleton(
		func(ctx context.Context) (model.Profile, error) {
			return model.Profile{ID: "p1", Name: "Ada", Title: "Engineer"}, nil
		},
		func(ctx context.Context, p model.Profile) (model.Profile, error) {
			if saveErr != nil {
				return model.Profile{}, saveErr
			}
			p.ID = "p1"
			return p, nil
		},
	)
	ctx := context.Background()

	if _, err := s.Fetch(ctx); err != nil {
		t.Fatal(err)
	}
	if st := s.State(); st.LoadStatus != StatusSucceeded || st.Data.Name != "Ada" {
		t.Fatalf("after fetch = %+v", st)
	}

	saveErr = &apiclient.Error{Kind: apiclient.KindClient, Status: 400, Message: "Name is required"}
	if _, err := s.Save(ctx, model.Profile{Title: "x"}); err == nil {
		t.Fatal("expected error")
	}
	st := s.State()
	if st.SaveStatus != StatusFailed || st.SaveError != "Name is required" || st.Data.Name != "Ada" {
		t.Errorf("after failed save = %+v", st)
	}
	if st.LoadStatus != StatusSucceeded || st.LoadError != "" {
		t.Error("save failure leaked into load state")
	}

	err := s.Mutate(ctx, func(ctx context.Context) (func(*model.Profile), error) {
		return func(p *model.Profile) { p.ResumeURL = "/uploads/cv.pdf" }, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if st := s.State(); st.Data.ResumeURL != "/uploads/cv.pdf" || st.SaveStatus != StatusSucceeded || st.SaveError != "" {
		t.Errorf("after mutate = %+v", st)
	}
}

func TestSingleton_ReadOnly(t *testing.T) {
	s := NewSingleton[model.Profile](func(ctx context.Context) (model.Profile, error) {
		return model.Profile{}, nil
	}, nil)
	_, err := s.Save(context.Background(), model.Profile{})
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v", err)
	}
}
