package cli

import (
	"fmt"

	"github.com/me/folio/internal/formfield"
	"github.com/me/folio/internal/resource"
	"github.com/me/folio/internal/service"
	"github.com/me/folio/pkg/model"
	"github.com/spf13/cobra"
)

func newAdminBlogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blog",
		Short: "Manage blog posts, drafts included",
	}
	cmd.AddCommand(
		newAdminBlogListCmd(),
		newAdminBlogShowCmd(),
		newAdminBlogCreateCmd(),
		newAdminBlogUpdateCmd(),
		newAdminBlogDeleteCmd(),
	)
	return cmd
}

func adminBlog() *resource.Engine[model.BlogPost, model.BlogFilter, model.BlogPostInput] {
	return resource.New(service.AdminBlog(client), engineOpts("admin.blog",
		resource.WithFallbackMessage(resource.KindList, "Failed to fetch blog posts."),
	)...)
}

func newAdminBlogListCmd() *cobra.Command {
	var (
		f      model.BlogFilter
		status string
		order  string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if f.Status, err = statusFlag(status); err != nil {
				return err
			}
			if f.SortOrder, err = orderFlag(order); err != nil {
				return err
			}
			eng := adminBlog()
			err = eng.FetchList(cmd.Context(), f)
			st := eng.State()
			if err != nil {
				return failed(err, st.ListError)
			}
			out := cmd.OutOrStdout()
			printPosts(out, st.List, true)
			pageFooter(out, st.Pagination)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&f.Page, "page", 1, "Page number")
	fl.IntVar(&f.Limit, "limit", model.DefaultLimit, "Posts per page")
	fl.StringVar(&status, "status", "", "Only draft or published posts")
	fl.StringVar(&f.Search, "search", "", "Search titles and content")
	fl.StringVar(&f.Tag, "tag", "", "Only posts with this tag")
	fl.StringVar(&f.Category, "category", "", "Only posts in this category")
	fl.StringVar(&f.SortBy, "sort-by", "", "Sort field (createdAt, updatedAt, publishedAt, title)")
	fl.StringVar(&order, "order", "", "Sort direction (asc, desc)")
	return cmd
}

func newAdminBlogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := adminBlog()
			p, err := eng.FetchDetail(cmd.Context(), args[0])
			if err != nil {
				return failed(err, eng.State().DetailError)
			}
			printPost(cmd.OutOrStdout(), p, true)
			return nil
		},
	}
}

type postFlags struct {
	file       string
	title      string
	slug       string
	content    string
	excerpt    string
	categories string
	tags       string
	status     string
	image      string
}

func (pf *postFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&pf.file, "file", "f", "", "YAML or JSON file with post fields (- for stdin)")
	f.StringVar(&pf.title, "title", "", "Title")
	f.StringVar(&pf.slug, "slug", "", "URL slug (derived from the title when empty)")
	f.StringVar(&pf.content, "content", "", "Post body (Markdown)")
	f.StringVar(&pf.excerpt, "excerpt", "", "Short excerpt for lists")
	f.StringVar(&pf.categories, "categories", "", "Comma-separated categories")
	f.StringVar(&pf.tags, "tags", "", "Comma-separated tags")
	f.StringVar(&pf.status, "status", "", "draft or published")
	f.StringVar(&pf.image, "image", "", "Featured image URL")
}

func (pf *postFlags) apply(cmd *cobra.Command, in *model.BlogPostInput) error {
	if pf.file != "" {
		if err := readInput(cmd, pf.file, in); err != nil {
			return err
		}
	}
	changed := cmd.Flags().Changed
	if changed("title") {
		in.Title = pf.title
	}
	if changed("slug") {
		in.Slug = pf.slug
	}
	if changed("content") {
		in.Content = pf.content
	}
	if changed("excerpt") {
		in.Excerpt = pf.excerpt
	}
	if changed("categories") {
		in.Categories = formfield.Parse(pf.categories)
	}
	if changed("tags") {
		in.Tags = formfield.Parse(pf.tags)
	}
	if changed("status") {
		in.Status = model.PublishStatus(pf.status)
	}
	if changed("image") {
		in.FeaturedImageURL = pf.image
	}
	return nil
}

func newAdminBlogCreateCmd() *cobra.Command {
	var pf postFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Write a new post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.BlogPostInput{Status: model.StatusDraft}
			if err := pf.apply(cmd, &in); err != nil {
				return err
			}
			if err := in.Validate(); err != nil {
				return err
			}
			eng := adminBlog()
			p, err := eng.Create(cmd.Context(), in)
			if err != nil {
				return failed(err, eng.State().SaveError)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created post %q (%s)\n", p.Title, p.ID)
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func newAdminBlogUpdateCmd() *cobra.Command {
	var pf postFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng := adminBlog()
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
			fmt.Fprintf(cmd.OutOrStdout(), "Updated post %q (%s)\n", p.Title, p.Status)
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func newAdminBlogDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := adminBlog()
			if err := eng.Delete(cmd.Context(), args[0]); err != nil {
				return failed(err, eng.State().DeleteError)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Blog post removed.")
			return nil
		},
	}
}
