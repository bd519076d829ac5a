package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/five82/shopkeep/internal/view"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// EscapeHTML escapes ampersands, angle brackets and double quotes.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Links builds hrefs for the interactive parts of the HTML table. Nil funcs
// render "#".
type Links struct {
	Page func(page int) string
	Sort func(key view.SortKey) string
}

func (l Links) page(n int) string {
	if l.Page == nil {
		return "#"
	}
	return l.Page(n)
}

func (l Links) sort(key view.SortKey) string {
	if l.Sort == nil {
		return "#"
	}
	return l.Sort(key)
}

// WriteHTML writes the table and pagination control for p. Every catalog
// supplied value is escaped.
func WriteHTML(w io.Writer, p Page, links Links) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(`<table class="table products" id="productsTable">` + "\n<thead><tr>")
	for _, col := range p.Columns {
		if !col.Sortable {
			fmt.Fprintf(bw, "<th>%s</th>", EscapeHTML(col.Label))
			continue
		}
		fmt.Fprintf(bw, `<th class="sortable" data-key="%s"><a href="%s">%s</a><span class="sort-indicator">%s</span></th>`,
			EscapeHTML(string(col.Key)),
			EscapeHTML(links.sort(col.Key)),
			EscapeHTML(col.Label),
			indicatorText(col.Indicator),
		)
	}
	bw.WriteString("</tr></thead>\n<tbody>\n")

	if len(p.Rows) == 0 {
		fmt.Fprintf(bw, `<tr class="empty"><td colspan="%d">No products</td></tr>`+"\n", len(p.Columns))
	}
	for _, row := range p.Rows {
		class := "hover-desc"
		if row.Unsynced {
			class += " unsynced"
		}
		fmt.Fprintf(bw, `<tr class="%s" data-id="%s" title="%s">`, class, EscapeHTML(row.ID), EscapeHTML(row.Description))
		fmt.Fprintf(bw, "<td>%s</td>", EscapeHTML(row.ID))
		fmt.Fprintf(bw, `<td class="title-cell">%s</td>`, EscapeHTML(row.Title))
		fmt.Fprintf(bw, "<td>%s</td>", EscapeHTML(row.Price))
		fmt.Fprintf(bw, "<td>%s</td>", EscapeHTML(row.Category))
		bw.WriteString("<td>")
		if row.Thumbnail != "" {
			fmt.Fprintf(bw, `<img src="%s" class="thumb" alt="img">`, EscapeHTML(row.Thumbnail))
		}
		bw.WriteString("</td></tr>\n")
	}
	bw.WriteString("</tbody>\n</table>\n")

	bw.WriteString(`<ul class="pagination" id="pagination">`)
	writePageLink(bw, p.Pager.First, links)
	for _, link := range p.Pager.Window {
		writePageLink(bw, link, links)
	}
	writePageLink(bw, p.Pager.Last, links)
	bw.WriteString("</ul>\n")

	return bw.Flush()
}

func writePageLink(w *bufio.Writer, link PageLink, links Links) {
	class := "page-item"
	if link.Active {
		class += " active"
	}
	if link.Disabled {
		class += " disabled"
		fmt.Fprintf(w, `<li class="%s"><span class="page-link">%s</span></li>`, class, EscapeHTML(link.Label))
		return
	}
	fmt.Fprintf(w, `<li class="%s"><a class="page-link" href="%s">%s</a></li>`, class, EscapeHTML(links.page(link.Page)), EscapeHTML(link.Label))
}

func indicatorText(indicator string) string {
	if indicator == "" {
		return ""
	}
	return " " + EscapeHTML(indicator)
}
