package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/me/folio/internal/apiclient"
	"github.com/me/folio/internal/formfield"
	"github.com/me/folio/internal/resource"
	"github.com/me/folio/internal/service"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the site (requires login)",
	}
	cmd.AddCommand(
		newDashboardCmd(),
		newAdminProfileCmd(),
		newResumeCmd(),
		newAdminProjectsCmd(),
		newAdminBlogCmd(),
		newAdminContactCmd(),
	)
	return cmd
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show site totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dash := service.NewDashboard(client, resource.WithLogger(logger))
			s, err := dash.Fetch(cmd.Context())
			if err != nil {
				return failed(err, dash.State().Error)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-20s  %s\n", "Projects", humanize.Comma(int64(s.TotalProjects)))
			fmt.Fprintf(out, "%-20s  %s\n", "Published posts", humanize.Comma(int64(s.TotalPublishedPosts)))
			fmt.Fprintf(out, "%-20s  %s\n", "Draft posts", humanize.Comma(int64(s.TotalDraftPosts)))
			fmt.Fprintf(out, "%-20s  %s\n", "Messages", humanize.Comma(int64(s.TotalContactSubmissions)))
			return nil
		},
	}
}

func newAdminProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the owner profile",
	}
	cmd.AddCommand(newProfileShowCmd(), newProfileUpdateCmd())
	return cmd
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the profile as stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prof := service.NewProfile(client, resource.WithLogger(logger))
			p, err := prof.Fetch(cmd.Context())
			if err != nil {
				return failed(err, prof.State().LoadError)
			}
			out := cmd.OutOrStdout()
			printProfile(out, p)
			fmt.Fprintln(out)
			field(out, "ID", p.ID)
			return nil
		},
	}
}

func newProfileUpdateCmd() *cobra.Command {
	var (
		file                                    string
		name, title, bio, email, picture, skill string
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Edit the profile, creating it if needed",
		Long: "Edit the profile. --file takes a YAML or JSON document with the profile fields; " +
			"flags are applied on top. Skills use the form \"Languages: Go, SQL; Tools: Git\".",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prof := service.NewProfile(client, resource.WithLogger(logger))
			p, err := prof.Fetch(ctx)
			if err != nil && !apiclient.IsNotFound(err) {
				return failed(err, prof.State().LoadError)
			}

			if file != "" {
				if err := readInput(cmd, file, &p); err != nil {
					return err
				}
			}
			changed := cmd.Flags().Changed
			if changed("name") {
				p.Name = name
			}
			if changed("title") {
				p.Title = title
			}
			if changed("bio") {
				p.Biography = bio
			}
			if changed("email") {
				p.ContactEmail = email
			}
			if changed("picture") {
				p.ProfilePictureURL = picture
			}
			if changed("skills") {
				p.Skills = formfield.ParseSkills(skill)
			}

			p.Clean()
			if err := p.Validate(); err != nil {
				return err
			}
			if _, err := prof.Save(ctx, p); err != nil {
				return failed(err, prof.State().SaveError)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile saved.")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&file, "file", "f", "", "YAML or JSON file with profile fields (- for stdin)")
	f.StringVar(&name, "name", "", "Display name")
	f.StringVar(&title, "title", "", "Headline, e.g. Software Engineer")
	f.StringVar(&bio, "bio", "", "Biography")
	f.StringVar(&email, "email", "", "Public contact email")
	f.StringVar(&picture, "picture", "", "Profile picture URL")
	f.StringVar(&skill, "skills", "", "Skills, \"Category: a, b; Other: c\"")
	return cmd
}

func newResumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Manage the downloadable resume",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a PDF or Word resume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			prof := service.NewProfile(client, resource.WithLogger(logger))
			res, err := service.UploadResumeInto(cmd.Context(), client, prof, args[0], f)
			if err != nil {
				return failed(err, prof.State().SaveError)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, orDash(res.Message))
			field(out, "Resume", siteURL(res.ResumeURL))
			return nil
		},
	})
	return cmd
}

// readInput decodes a YAML or JSON document from path (or stdin for "-")
// over v, leaving fields the document omits untouched.
func readInput(cmd *cobra.Command, path string, v any) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
