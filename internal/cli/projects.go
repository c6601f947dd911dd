package cli

import (
	"fmt"
	"io"

	"github.com/me/folio/internal/formfield"
	"github.com/me/folio/internal/resource"
	"github.com/me/folio/internal/service"
	"github.com/me/folio/pkg/model"
	"github.com/spf13/cobra"
)

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Browse published projects",
	}
	cmd.AddCommand(newProjectsListCmd(), newProjectsShowCmd())
	return cmd
}

func newProjectsListCmd() *cobra.Command {
	var (
		f        model.ProjectFilter
		featured bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("featured") {
				f.Featured = &featured
			}
			eng := resource.New(service.PublicProjects(client), engineOpts("projects")...)
			err := eng.FetchList(cmd.Context(), f)
			st := eng.State()
			if err != nil {
				return failed(err, st.ListError)
			}
			out := cmd.OutOrStdout()
			printProjects(out, st.List, false)
			pageFooter(out, st.Pagination)
			return nil
		},
	}
	cmd.Flags().IntVar(&f.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&f.Limit, "limit", model.DefaultLimit, "Projects per page")
	cmd.Flags().StringVar(&f.Category, "category", "", "Only projects using this technology")
	cmd.Flags().BoolVar(&featured, "featured", false, "Only featured (or, with =false, non-featured) projects")
	return cmd
}

func newProjectsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id-or-slug>",
		Short: "Show a published project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := resource.New(service.PublicProjects(client), engineOpts("projects")...)
			p, err := eng.FetchDetail(cmd.Context(), args[0])
			if err != nil {
				return failed(err, eng.State().DetailError)
			}
			printProject(cmd.OutOrStdout(), p, false)
			return nil
		},
	}
}

// printProjects renders a project table. The admin view leads with ids and
// shows drafts.
func printProjects(w io.Writer, list []model.Project, admin bool) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No projects found.")
		return
	}
	if admin {
		fmt.Fprintf(w, "%-36s  %-30s  %-9s  %-8s  %s\n", "ID", "TITLE", "STATUS", "FEATURED", "UPDATED")
		fmt.Fprintf(w, "%-36s  %-30s  %-9s  %-8s  %s\n", "--", "-----", "------", "--------", "-------")
		for _, p := range list {
			fmt.Fprintf(w, "%-36s  %-30s  %-9s  %-8s  %s\n",
				p.ID, clip(p.Title, 30), p.Status, yesNo(p.Featured), ago(p.UpdatedAt))
		}
		return
	}
	fmt.Fprintf(w, "%-30s  %-30s  %-30s  %s\n", "SLUG", "TITLE", "TECHNOLOGIES", "PUBLISHED")
	fmt.Fprintf(w, "%-30s  %-30s  %-30s  %s\n", "----", "-----", "------------", "---------")
	for _, p := range list {
		title := p.Title
		if p.Featured {
			title = "* " + title
		}
		fmt.Fprintf(w, "%-30s  %-30s  %-30s  %s\n",
			clip(p.Slug, 30), clip(title, 30), clip(formfield.Format(p.Technologies), 30), agoPtr(p.PublishedAt))
	}
}

func printProject(w io.Writer, p model.Project, admin bool) {
	fmt.Fprintf(w, "%s\n", p.Title)
	if admin {
		field(w, "ID", p.ID)
		field(w, "Status", p.Status.String())
		field(w, "Order", fmt.Sprint(p.Order))
	}
	field(w, "Slug", p.Slug)
	field(w, "Featured", yesNo(p.Featured))
	field(w, "Technologies", formfield.Format(p.Technologies))
	field(w, "Role", p.Role)
	field(w, "Live demo", p.LiveDemoURL)
	field(w, "Source", p.SourceCodeURL)
	if thumb, ok := p.Thumbnail(); ok {
		field(w, "Thumbnail", siteURL(thumb.URL))
	}
	field(w, "Published", agoPtr(p.PublishedAt))
	field(w, "Updated", ago(p.UpdatedAt))

	section(w, "Summary", p.ShortSummary)
	section(w, "Description", p.Description)
	section(w, "Challenges", p.Challenges)
	if len(p.Images) > 0 {
		fmt.Fprintln(w, "\nImages:")
		for _, im := range p.Images {
			fmt.Fprintf(w, "  - %s (%s)\n", siteURL(im.URL), im.AltText)
		}
	}
}

// section prints a titled block of free text.
func section(w io.Writer, title, body string) {
	if body == "" {
		return
	}
	fmt.Fprintf(w, "\n%s:\n%s\n", title, body)
}
