package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mattn/go-isatty"
	"github.com/me/folio/internal/apiclient"
	"github.com/me/folio/internal/service"
	"github.com/me/folio/pkg/model"
	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var creds model.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the admin console",
		Long:  "Exchange the admin email and password for a token, kept in the state directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if creds.Email == "" || creds.Password == "" {
				if !isTerminal(cmd.InOrStdin()) {
					return errors.New("--email and --password are required when not running in a terminal")
				}
				if err := prompt(cmd, &creds); err != nil {
					return err
				}
			}
			if err := creds.Validate(); err != nil {
				return err
			}

			u, err := service.NewAuth(client, sess).Login(cmd.Context(), creds)
			if err != nil {
				return errors.New(apiclient.Message(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", u.Name, u.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&creds.Email, "email", "", "Admin email (prompted if omitted)")
	cmd.Flags().StringVar(&creds.Password, "password", "", "Admin password (prompted if omitted)")
	return cmd
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// prompt asks for whichever credential is missing.
func prompt(cmd *cobra.Command, creds *model.Credentials) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	ask := func(label string, dst *string) error {
		if *dst != "" {
			return nil
		}
		fmt.Fprint(cmd.ErrOrStderr(), label)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read %s: %w", strings.TrimSuffix(label, ": "), err)
		}
		*dst = strings.TrimSpace(line)
		return nil
	}
	if err := ask("Email: ", &creds.Email); err != nil {
		return err
	}
	return ask("Password: ", &creds.Password)
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored admin token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := service.NewAuth(client, sess).Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

// tokenClaims mirrors the claims the API puts in admin tokens.
type tokenClaims struct {
	Name  string         `json:"name"`
	Email string         `json:"email"`
	Role  model.UserRole `json:"role"`
	jwt.RegisteredClaims
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show who the stored token belongs to",
		Long:  "Decode the stored token locally. The signature is not checked; the API does that on every admin call.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			tok := sess.Token()
			if tok == "" {
				fmt.Fprintln(out, "Not logged in.")
				return nil
			}

			var claims tokenClaims
			if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
				logger.Debug("decode token", "error", err)
				fmt.Fprintln(out, "Logged in (token details unavailable).")
				return nil
			}

			fmt.Fprintf(out, "%s <%s>\n", orDash(claims.Name), orDash(claims.Email))
			field(out, "Role", string(claims.Role))
			if claims.ExpiresAt != nil {
				exp := claims.ExpiresAt.Time
				if exp.Before(time.Now()) {
					field(out, "Expired", humanize.Time(exp))
				} else {
					field(out, "Expires", humanize.Time(exp))
				}
			}
			return nil
		},
	}
}
