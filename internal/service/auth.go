package service

import (
	"context"
	"fmt"

	"github.com/me/folio/internal/apiclient"
	"github.com/me/folio/internal/session"
	"github.com/me/folio/pkg/model"
)

// Login exchanges credentials for a token. The request is anonymous so a
// rejected login never ends the current session.
func Login(ctx context.Context, c Caller, creds model.Credentials) (model.AuthResponse, error) {
	var resp model.AuthResponse
	err := c.Do(ctx, apiclient.Request{Method: "POST", Path: "/auth/login", Body: creds, Anonymous: true}, &resp)
	return resp, err
}

// Auth signs the admin in and out of a client and its session.
type Auth struct {
	client  *apiclient.Client
	session *session.Manager
}

// NewAuth returns an Auth over client and sess.
func NewAuth(client *apiclient.Client, sess *session.Manager) *Auth {
	return &Auth{client: client, session: sess}
}

// Login stores the issued token (re-arming the client's 401 handling)
// and remembers the user.
func (a *Auth) Login(ctx context.Context, creds model.Credentials) (model.User, error) {
	resp, err := Login(ctx, a.client, creds)
	if err != nil {
		return model.User{}, err
	}
	if resp.Token == "" {
		return model.User{}, fmt.Errorf("login: server returned no token")
	}
	if err := a.client.SetToken(resp.Token); err != nil {
		return model.User{}, err
	}
	a.session.SetUser(&resp.User)
	return resp.User, nil
}

// Logout forgets the token and user.
func (a *Auth) Logout() error {
	if err := a.client.Logout(); err != nil {
		return err
	}
	a.session.SetUser(nil)
	return nil
}
