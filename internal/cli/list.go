package cli

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/me/folio/pkg/model"
)

// ago renders t relative to now, or "-" for the zero time.
func ago(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func agoPtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return ago(*t)
}

// clip shortens s to n runes so table columns stay aligned.
func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// pageFooter prints the position within a paginated list.
func pageFooter(w io.Writer, p *model.Pagination) {
	if p == nil || p.TotalPages <= 1 {
		return
	}
	fmt.Fprintf(w, "\nPage %d of %d (%s total)", p.Page, p.TotalPages, humanize.Comma(int64(p.Total)))
	if p.HasNext() {
		fmt.Fprintf(w, ", next: --page %d", p.Page+1)
	}
	fmt.Fprintln(w)
}

// siteURL resolves a server-relative path such as /uploads/x.pdf against
// the API origin.
func siteURL(path string) string {
	if path == "" || model.IsHTTPURL(path) {
		return path
	}
	base, err := url.Parse(cfg.APIURL)
	if err != nil {
		return path
	}
	ref, err := url.Parse(path)
	if err != nil {
		return path
	}
	return base.ResolveReference(ref).String()
}

// field prints one aligned "Label: value" line, skipping empty values.
func field(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "  %-14s %s\n", label+":", value)
}
