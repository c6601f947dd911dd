package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/me/folio/internal/apiclient"
	"github.com/me/folio/internal/formfield"
	"github.com/me/folio/internal/resource"
	"github.com/me/folio/internal/service"
	"github.com/me/folio/pkg/model"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// homeItems is how many featured projects and recent posts home shows.
const homeItems = 3

func newHomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show the site landing page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prof := service.NewProfile(client, resource.WithLogger(logger))
			projects := resource.New(service.PublicProjects(client), engineOpts("projects")...)
			posts := resource.New(service.PublicBlog(client), engineOpts("blog")...)

			featured := true
			var g errgroup.Group
			g.Go(func() error {
				_, err := prof.Fetch(ctx)
				if apiclient.IsNotFound(err) {
					return nil
				}
				return err
			})
			g.Go(func() error {
				return projects.FetchList(ctx, model.ProjectFilter{Featured: &featured, Limit: homeItems})
			})
			g.Go(func() error {
				return posts.FetchList(ctx, model.BlogFilter{Limit: homeItems})
			})
			err := g.Wait()

			out := cmd.OutOrStdout()
			ps := prof.State()
			if ps.Data != nil {
				fmt.Fprintf(out, "%s\n%s\n", ps.Data.Name, ps.Data.Title)
			} else {
				fmt.Fprintln(out, orDash(ps.LoadError))
			}

			fmt.Fprintln(out, "\nFeatured projects")
			if st := projects.State(); st.ListStatus == resource.StatusFailed {
				fmt.Fprintf(out, "  %s\n", st.ListError)
			} else {
				printProjects(out, st.List, false)
			}

			fmt.Fprintln(out, "\nLatest posts")
			if st := posts.State(); st.ListStatus == resource.StatusFailed {
				fmt.Fprintf(out, "  %s\n", st.ListError)
			} else {
				printPosts(out, st.List, false)
			}

			if err != nil {
				return errors.New("some sections could not be loaded")
			}
			return nil
		},
	}
}

func newAboutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Show the owner profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prof := service.NewProfile(client, resource.WithLogger(logger))
			p, err := prof.Fetch(cmd.Context())
			if err != nil {
				return failed(err, prof.State().LoadError)
			}
			printProfile(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func printProfile(w io.Writer, p model.Profile) {
	fmt.Fprintf(w, "%s\n%s\n", p.Name, p.Title)
	if p.Biography != "" {
		fmt.Fprintf(w, "\n%s\n", p.Biography)
	}
	fmt.Fprintln(w)
	field(w, "Email", p.ContactEmail)
	field(w, "Picture", siteURL(p.ProfilePictureURL))
	field(w, "Resume", siteURL(p.ResumeURL))

	if len(p.Skills) > 0 {
		fmt.Fprintln(w, "\nSkills:")
		for _, s := range p.Skills {
			field(w, s.Category, formfield.Format(s.Items))
		}
	}
	if len(p.WorkExperience) > 0 {
		fmt.Fprintln(w, "\nExperience:")
		for _, e := range p.WorkExperience {
			fmt.Fprintf(w, "  %s, %s (%s)\n", e.Position, e.Company, period(e.StartDate, e.EndDate))
			for _, r := range e.Responsibilities {
				fmt.Fprintf(w, "    - %s\n", r)
			}
		}
	}
	if len(p.Education) > 0 {
		fmt.Fprintln(w, "\nEducation:")
		for _, e := range p.Education {
			fmt.Fprintf(w, "  %s in %s, %s (%s)\n", e.Degree, e.FieldOfStudy, e.Institution, period(e.StartDate, e.EndDate))
		}
	}
	if len(p.SocialLinks) > 0 {
		fmt.Fprintln(w, "\nLinks:")
		for _, l := range p.SocialLinks {
			field(w, l.Platform, l.URL)
		}
	}
}

func period(start, end string) string {
	if end == "" {
		end = "present"
	}
	return start + " to " + end
}

func newContactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Get in touch with the site owner",
	}
	cmd.AddCommand(newContactSendCmd())
	return cmd
}

func newContactSendCmd() *cobra.Command {
	var msg model.ContactMessage
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message through the contact form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := msg.Validate(); err != nil {
				return err
			}
			receipt, err := service.SendContact(cmd.Context(), client, msg)
			if err != nil {
				return failed(err, "")
			}
			fmt.Fprintln(cmd.OutOrStdout(), receipt.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&msg.Name, "name", "", "Your name")
	cmd.Flags().StringVar(&msg.Email, "email", "", "Your email address")
	cmd.Flags().StringVar(&msg.Subject, "subject", "", "Subject (optional)")
	cmd.Flags().StringVar(&msg.Message, "message", "", "Message text")
	return cmd
}

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the saved color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintln(out, sess.Theme())
				return nil
			}
			next := model.Theme(args[0])
			if args[0] == "toggle" {
				next = sess.Theme().Toggle()
			}
			if !next.Valid() {
				return fmt.Errorf("unknown theme %q (want light, dark or toggle)", args[0])
			}
			if err := sess.SetTheme(next); err != nil {
				return err
			}
			fmt.Fprintln(out, next)
			return nil
		},
	}
}
