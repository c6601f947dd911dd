package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/me/folio/internal/resource"
	"github.com/me/folio/internal/service"
	"github.com/me/folio/pkg/model"
	"github.com/spf13/cobra"
)

func newAdminContactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Read contact form submissions",
	}
	cmd.AddCommand(
		newContactListCmd(),
		newContactMarkCmd("read", true),
		newContactMarkCmd("unread", false),
		newContactDeleteCmd(),
	)
	return cmd
}

func adminContact() *resource.Engine[model.ContactSubmission, model.ContactFilter, model.ContactStatusUpdate] {
	return resource.New(service.AdminContact(client), engineOpts("admin.contact",
		resource.WithFallbackMessage(resource.KindList, "Failed to fetch submissions."),
	)...)
}

func newContactListCmd() *cobra.Command {
	var (
		f            model.ContactFilter
		unread, read bool
		full         bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case unread && read:
				return errors.New("--read and --unread are mutually exclusive")
			case unread:
				f.IsRead = new(bool)
			case read:
				isRead := true
				f.IsRead = &isRead
			}
			eng := adminContact()
			err := eng.FetchList(cmd.Context(), f)
			st := eng.State()
			if err != nil {
				return failed(err, st.ListError)
			}
			out := cmd.OutOrStdout()
			printSubmissions(out, st.List, full)
			pageFooter(out, st.Pagination)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&f.Page, "page", 1, "Page number")
	fl.IntVar(&f.Limit, "limit", model.DefaultLimit, "Submissions per page")
	fl.BoolVar(&unread, "unread", false, "Only unread submissions")
	fl.BoolVar(&read, "read", false, "Only read submissions")
	fl.BoolVar(&full, "full", false, "Print whole messages instead of a table")
	return cmd
}

func printSubmissions(w io.Writer, list []model.ContactSubmission, full bool) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No submissions found.")
		return
	}
	if full {
		for i, s := range list {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s <%s>\n", s.Name, s.Email)
			field(w, "ID", s.ID)
			field(w, "Subject", s.Subject)
			field(w, "Read", yesNo(s.IsRead))
			field(w, "Received", ago(s.CreatedAt))
			fmt.Fprintf(w, "\n%s\n", s.Message)
		}
		return
	}
	fmt.Fprintf(w, "%-36s  %-30s  %-25s  %-4s  %s\n", "ID", "FROM", "SUBJECT", "READ", "RECEIVED")
	fmt.Fprintf(w, "%-36s  %-30s  %-25s  %-4s  %s\n", "--", "----", "-------", "----", "--------")
	for _, s := range list {
		from := fmt.Sprintf("%s <%s>", s.Name, s.Email)
		fmt.Fprintf(w, "%-36s  %-30s  %-25s  %-4s  %s\n",
			s.ID, clip(from, 30), clip(orDash(s.Subject), 25), yesNo(s.IsRead), ago(s.CreatedAt))
	}
}

func newContactMarkCmd(use string, isRead bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: "Mark a submission as " + use,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := adminContact()
			s, err := eng.Update(cmd.Context(), args[0], model.ContactStatusUpdate{IsRead: isRead})
			if err != nil {
				return failed(err, eng.State().SaveError)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked message from %s as %s.\n", s.Name, use)
			return nil
		},
	}
}

func newContactDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := adminContact()
			if err := eng.Delete(cmd.Context(), args[0]); err != nil {
				return failed(err, eng.State().DeleteError)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Submission deleted.")
			return nil
		},
	}
}
