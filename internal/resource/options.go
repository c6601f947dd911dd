package resource

import (
	"errors"
	"log/slog"

	"github.com/me/folio/internal/apiclient"
	"github.com/me/folio/internal/logging"
)

// Default messages used when an error carries no user-facing text.
var defaultFallbacks = [numKinds]string{
	KindList:   "Failed to load items.",
	KindDetail: "Failed to load item.",
	KindSave:   "Failed to save item.",
	KindDelete: "Failed to delete item.",
}

type options struct {
	name      string
	logger    *slog.Logger
	message   func(error) string
	fallbacks [numKinds]string
}

func buildOptions(opts []Option) options {
	o := options{
		name:      "resource",
		logger:    logging.Discard(),
		message:   apiclient.Message,
		fallbacks: defaultFallbacks,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logging.Component(o.logger, "resource").With("resource", o.name)
	return o
}

// Option configures an Engine, Aggregate or Singleton.
type Option func(*options)

// WithName labels log lines.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMessageFunc overrides how errors become user-facing text.
func WithMessageFunc(fn func(error) string) Option {
	return func(o *options) {
		if fn != nil {
			o.message = fn
		}
	}
}

// WithFallbackMessage sets the text used for kind when an error has none.
func WithFallbackMessage(kind Kind, msg string) Option {
	return func(o *options) {
		if kind >= 0 && kind < numKinds {
			o.fallbacks[kind] = msg
		}
	}
}

// describe turns err into the string stored on the kind's error field.
// A 401 yields "": the session is over and the redirect is the message.
func (o *options) describe(kind Kind, err error) string {
	if apiclient.IsUnauthorized(err) {
		return ""
	}
	if errors.Is(err, ErrUnsupported) {
		return "This operation is not available."
	}
	if msg := o.message(err); msg != "" {
		return msg
	}
	return o.fallbacks[kind]
}
