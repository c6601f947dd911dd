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

func newBlogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blog",
		Short: "Read the blog",
	}
	cmd.AddCommand(newBlogListCmd(), newBlogShowCmd(), newBlogTagsCmd(), newBlogCategoriesCmd())
	return cmd
}

func newBlogListCmd() *cobra.Command {
	var f model.BlogFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := resource.New(service.PublicBlog(client), engineOpts("blog")...)
			err := eng.FetchList(cmd.Context(), f)
			st := eng.State()
			if err != nil {
				return failed(err, st.ListError)
			}
			out := cmd.OutOrStdout()
			printPosts(out, st.List, false)
			pageFooter(out, st.Pagination)
			return nil
		},
	}
	cmd.Flags().IntVar(&f.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&f.Limit, "limit", model.DefaultLimit, "Posts per page")
	cmd.Flags().StringVar(&f.Tag, "tag", "", "Only posts with this tag")
	cmd.Flags().StringVar(&f.Category, "category", "", "Only posts in this category")
	cmd.Flags().StringVar(&f.Search, "search", "", "Search titles and content")
	return cmd
}

func newBlogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Show a published post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := resource.New(service.PublicBlog(client), engineOpts("blog")...)
			p, err := eng.FetchDetail(cmd.Context(), args[0])
			if err != nil {
				return failed(err, eng.State().DetailError)
			}
			printPost(cmd.OutOrStdout(), p, false)
			return nil
		},
	}
}

func newBlogTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List tags used on published posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := service.ListTags(cmd.Context(), client)
			if err != nil {
				return failed(err, "")
			}
			printNames(cmd.OutOrStdout(), tags, "No tags yet.")
			return nil
		},
	}
}

func newBlogCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories used on published posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := service.ListCategories(cmd.Context(), client)
			if err != nil {
				return failed(err, "")
			}
			printNames(cmd.OutOrStdout(), cats, "No categories yet.")
			return nil
		},
	}
}

func printNames(w io.Writer, names []string, empty string) {
	if len(names) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
}

func printPosts(w io.Writer, list []model.BlogPost, admin bool) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No blog posts found.")
		return
	}
	if admin {
		fmt.Fprintf(w, "%-36s  %-30s  %-9s  %-16s  %s\n", "ID", "TITLE", "STATUS", "AUTHOR", "UPDATED")
		fmt.Fprintf(w, "%-36s  %-30s  %-9s  %-16s  %s\n", "--", "-----", "------", "------", "-------")
		for _, p := range list {
			fmt.Fprintf(w, "%-36s  %-30s  %-9s  %-16s  %s\n",
				p.ID, clip(p.Title, 30), p.Status, clip(orDash(p.Author.Name), 16), ago(p.UpdatedAt))
		}
		return
	}
	fmt.Fprintf(w, "%-30s  %-35s  %-20s  %s\n", "SLUG", "TITLE", "CATEGORIES", "PUBLISHED")
	fmt.Fprintf(w, "%-30s  %-35s  %-20s  %s\n", "----", "-----", "----------", "---------")
	for _, p := range list {
		fmt.Fprintf(w, "%-30s  %-35s  %-20s  %s\n",
			clip(p.Slug, 30), clip(p.Title, 35), clip(formfield.Format(p.Categories), 20), agoPtr(p.PublishedAt))
	}
}

func printPost(w io.Writer, p model.BlogPost, admin bool) {
	fmt.Fprintf(w, "%s\n", p.Title)
	if admin {
		field(w, "ID", p.ID)
		field(w, "Status", p.Status.String())
	}
	field(w, "Slug", p.Slug)
	field(w, "Author", p.Author.Name)
	field(w, "Categories", formfield.Format(p.Categories))
	field(w, "Tags", formfield.Format(p.Tags))
	field(w, "Image", siteURL(p.FeaturedImageURL))
	field(w, "Published", agoPtr(p.PublishedAt))
	if admin {
		field(w, "Updated", ago(p.UpdatedAt))
	}

	section(w, "Excerpt", p.Excerpt)
	fmt.Fprintf(w, "\n%s\n", p.Content)

	if seo := p.SeoMetadata; admin && seo != nil {
		fmt.Fprintln(w, "\nSEO:")
		field(w, "Title", seo.SeoTitle)
		field(w, "Description", seo.SeoDescription)
		field(w, "Keywords", formfield.Format(seo.SeoKeywords))
		field(w, "OG title", seo.OgTitle)
		field(w, "OG text", seo.OgDescription)
		field(w, "OG image", seo.OgImageURL)
	}
}
