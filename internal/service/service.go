// Package service has one typed function per REST operation of the
// portfolio API. The functions hold no state; callers pass the Caller
// (normally an *apiclient.Client) on every call.
package service

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/google/go-querystring/query"

	"github.com/me/folio/internal/apiclient"
)

// Caller is the part of apiclient.Client the service functions use.
type Caller interface {
	Do(ctx context.Context, r apiclient.Request, out any) error
	Upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error
}

// values encodes a filter struct through its `url` tags.
func values(filter any) (url.Values, error) {
	v, err := query.Values(filter)
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}
	return v, nil
}

func get(ctx context.Context, c Caller, path string, filter any, out any) error {
	var q url.Values
	if filter != nil {
		var err error
		if q, err = values(filter); err != nil {
			return err
		}
	}
	return c.Do(ctx, apiclient.Request{Method: "GET", Path: path, Query: q}, out)
}

func send(ctx context.Context, c Caller, method, path string, body, out any) error {
	return c.Do(ctx, apiclient.Request{Method: method, Path: path, Body: body}, out)
}

// itemPath joins a collection path and an escaped id.
func itemPath(base, id string) string {
	return base + "/" + url.PathEscape(id)
}
