package cli

import (
	"fmt"

	"github.com/me/folio/internal/formfield"
	"github.com/me/folio/internal/resource"
	"github.com/me/folio/internal/service"
	"github.com/me/folio/pkg/model"
	"github.com/spf13/cobra"
)

func newAdminProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects, drafts included",
	}
	cmd.AddCommand(
		newAdminProjectsListCmd(),
		newAdminProjectsShowCmd(),
		newAdminProjectsCreateCmd(),
		newAdminProjectsUpdateCmd(),
		newAdminProjectsDeleteCmd(),
	)
	return cmd
}

func adminProjects() *resource.Engine[model.Project, model.ProjectFilter, model.ProjectInput] {
	return resource.New(service.AdminProjects(client), engineOpts("admin.projects")...)
}

func newAdminProjectsListCmd() *cobra.Command {
	var (
		f      model.ProjectFilter
		status string
		order  string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if f.Status, err = statusFlag(status); err != nil {
				return err
			}
			if f.SortOrder, err = orderFlag(order); err != nil {
				return err
			}
			eng := adminProjects()
			err = eng.FetchList(cmd.Context(), f)
			st := eng.State()
			if err != nil {
				return failed(err, st.ListError)
			}
			out := cmd.OutOrStdout()
			printProjects(out, st.List, true)
			pageFooter(out, st.Pagination)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&f.Page, "page", 1, "Page number")
	fl.IntVar(&f.Limit, "limit", model.DefaultLimit, "Projects per page")
	fl.StringVar(&status, "status", "", "Only draft or published projects")
	fl.StringVar(&f.Search, "search", "", "Search titles and descriptions")
	fl.StringVar(&f.SortBy, "sort-by", "", "Sort field (order, title, createdAt, updatedAt)")
	fl.StringVar(&order, "order", "", "Sort direction (asc, desc)")
	return cmd
}

func newAdminProjectsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := adminProjects()
			p, err := eng.FetchDetail(cmd.Context(), args[0])
			if err != nil {
				return failed(err, eng.State().DetailError)
			}
			printProject(cmd.OutOrStdout(), p, true)
			return nil
		},
	}
}

// projectFlags are the field flags shared by create and update. Only flags
// given on the command line are applied.
type projectFlags struct {
	file         string
	title        string
	slug         string
	description  string
	summary      string
	technologies string
	role         string
	challenges   string
	status       string
	demoURL      string
	sourceURL    string
	featured     bool
	order        int
}

func (pf *projectFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&pf.file, "file", "f", "", "YAML or JSON file with project fields (- for stdin)")
	f.StringVar(&pf.title, "title", "", "Title")
	f.StringVar(&pf.slug, "slug", "", "URL slug (derived from the title when empty)")
	f.StringVar(&pf.description, "description", "", "Full description")
	f.StringVar(&pf.summary, "summary", "", "Short summary shown in lists")
	f.StringVar(&pf.technologies, "technologies", "", "Comma-separated technologies")
	f.StringVar(&pf.role, "role", "", "Your role on the project")
	f.StringVar(&pf.challenges, "challenges", "", "Challenges faced")
	f.StringVar(&pf.status, "status", "", "draft or published")
	f.StringVar(&pf.demoURL, "demo-url", "", "Live demo URL")
	f.StringVar(&pf.sourceURL, "source-url", "", "Source code URL")
	f.BoolVar(&pf.featured, "featured", false, "Feature on the home page")
	f.IntVar(&pf.order, "order", 0, "Display order, lowest first")
}

func (pf *projectFlags) apply(cmd *cobra.Command, in *model.ProjectInput) error {
	if pf.file != "" {
		if err := readInput(cmd, pf.file, in); err != nil {
			return err
		}
	}
	changed := cmd.Flags().Changed
	set := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	set("title", &in.Title, pf.title)
	set("slug", &in.Slug, pf.slug)
	set("description", &in.Description, pf.description)
	set("summary", &in.ShortSummary, pf.summary)
	set("role", &in.Role, pf.role)
	set("challenges", &in.Challenges, pf.challenges)
	set("demo-url", &in.LiveDemoURL, pf.demoURL)
	set("source-url", &in.SourceCodeURL, pf.sourceURL)
	if changed("technologies") {
		in.Technologies = formfield.Parse(pf.technologies)
	}
	if changed("status") {
		in.Status = model.PublishStatus(pf.status)
	}
	if changed("featured") {
		in.Featured = pf.featured
	}
	if changed("order") {
		in.Order = pf.order
	}
	return nil
}

func newAdminProjectsCreateCmd() *cobra.Command {
	var pf projectFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.ProjectInput{Status: model.StatusDraft}
			if err := pf.apply(cmd, &in); err != nil {
				return err
			}
			if err := in.Validate(); err != nil {
				return err
			}
			eng := adminProjects()
			p, err := eng.Create(cmd.Context(), in)
			if err != nil {
				return failed(err, eng.State().SaveError)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %q (%s)\n", p.Title, p.ID)
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func newAdminProjectsUpdateCmd() *cobra.Command {
	var pf projectFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng := adminProjects()
			cur, err := eng.FetchDetail(ctx, args[0])
			if err != nil {
				return failed(err, eng.State().DetailError)
			}
			in := cur.Input()
			if err := pf.apply(cmd, &in); err != nil {
				return err
			}
			if err := in.Validate(); err != nil {
				return err
			}
			p, err := eng.Update(ctx, cur.ID, in)
			if err != nil {
				return failed(err, eng.State().SaveError)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %q (%s)\n", p.Title, p.Status)
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func newAdminProjectsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := adminProjects()
			if err := eng.Delete(cmd.Context(), args[0]); err != nil {
				return failed(err, eng.State().DeleteError)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Project removed.")
			return nil
		},
	}
}

func statusFlag(s string) (model.PublishStatus, error) {
	st := model.PublishStatus(s)
	if s != "" && !st.Valid() {
		return "", fmt.Errorf("unknown status %q (want draft or published)", s)
	}
	return st, nil
}

func orderFlag(s string) (model.SortOrder, error) {
	o := model.SortOrder(s)
	if s != "" && !o.Valid() {
		return "", fmt.Errorf("unknown sort order %q (want asc or desc)", s)
	}
	return o, nil
}
