package cli

import (
	"errors"
	"fmt"

	"github.com/me/folio/internal/apiclient"
	"github.com/me/folio/internal/config"
	"github.com/me/folio/internal/logging"
	"github.com/me/folio/internal/resource"
	"github.com/me/folio/internal/session"
	"github.com/spf13/cobra"
)

// errSignedOut is reported when an admin call was rejected with 401. The
// engine leaves the message empty in that case; the client has already
// cleared the token.
var errSignedOut = errors.New("not signed in: run 'folio login' first")

// setup resolves configuration and builds the logger, session and API
// client shared by every command. Flags override env and config file.
func setup(cmd *cobra.Command) error {
	c, err := config.LoadClientConfig(flagStateDir)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("api") || c.APIURL == "" {
		c.APIURL = flagAPI
	}
	if flags.Changed("timeout") {
		c.Timeout = flagTimeout
	}
	if flags.Changed("log-level") {
		c.LogLevel = flagLogLevel
	}
	if flags.Changed("log-format") {
		c.LogFormat = flagLogFormat
	}
	if flagDebug {
		c.LogLevel = "debug"
	}
	cfg = c

	stderr := cmd.ErrOrStderr()
	logger = logging.NewLoggerWithWriter(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, stderr)
	sess = session.NewManager(session.NewFileStorage(cfg.StateDir), logger)
	client = apiclient.New(
		apiclient.DefaultConfig().WithBaseURL(cfg.APIURL).WithTimeout(cfg.Timeout),
		sess,
		apiclient.WithLogger(logger),
		apiclient.WithNavigator(apiclient.NavigatorFunc(func() {
			fmt.Fprintln(stderr, "Your session has ended. Run 'folio login' to sign in again.")
		})),
	)
	logger.Debug("client configured", "api", cfg.APIURL, "state_dir", cfg.StateDir, "timeout", cfg.Timeout)
	return nil
}

// engineOpts are the options every engine built by a command shares.
func engineOpts(name string, extra ...resource.Option) []resource.Option {
	return append([]resource.Option{resource.WithName(name), resource.WithLogger(logger)}, extra...)
}

// failed turns an operation error into the command's error, using the
// message the engine recorded for the operation.
func failed(err error, msg string) error {
	if err == nil {
		return nil
	}
	if msg == "" {
		if apiclient.IsUnauthorized(err) {
			return errSignedOut
		}
		msg = apiclient.Message(err)
	}
	return errors.New(msg)
}
