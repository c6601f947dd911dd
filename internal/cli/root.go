package cli

import (
	"log/slog"
	"time"

	"github.com/me/folio/internal/apiclient"
	"github.com/me/folio/internal/config"
	"github.com/me/folio/internal/session"
	"github.com/spf13/cobra"
)

var (
	flagAPI       string
	flagStateDir  string
	flagTimeout   time.Duration
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	cfg    config.ClientConfig
	logger *slog.Logger
	sess   *session.Manager
	client *apiclient.Client
)

// NewRootCmd creates the root cobra command for the folio CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "folio",
		Short: "folio - portfolio site and admin console",
		Long:  "folio browses a portfolio site and manages its projects, blog, contact inbox and profile.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flagAPI, "api", apiclient.DefaultBaseURL, "API base URL (or "+config.EnvAPIURL+" env)")
	pf.StringVar(&flagStateDir, "state-dir", "", "Directory holding state.json and config.yaml (default ~/.folio)")
	pf.DurationVar(&flagTimeout, "timeout", apiclient.DefaultTimeout, "Per-request timeout")
	pf.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	pf.StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newHomeCmd(),
		newAboutCmd(),
		newProjectsCmd(),
		newBlogCmd(),
		newContactCmd(),
		newThemeCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newAdminCmd(),
	)

	return root
}
