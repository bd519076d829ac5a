package render

import (
	"fmt"

	"github.com/five82/shopkeep/internal/catalog"
	"github.com/five82/shopkeep/internal/view"
)

const (
	// WindowSize is the maximum number of page links shown at once.
	WindowSize = 5

	IndicatorAscending  = "▲"
	IndicatorDescending = "▼"

	FirstLabel = "«"
	LastLabel  = "»"
)

// Column describes a table header.
type Column struct {
	Key       view.SortKey
	Label     string
	Sortable  bool
	Indicator string
}

// Row is one product as shown in the table. Text fields are raw; each
// output format escapes them for its own medium.
type Row struct {
	ID          string
	Title       string
	Price       string
	Category    string
	Thumbnail   string
	Description string
	Unsynced    bool
}

// PageLink is one pagination control.
type PageLink struct {
	Label    string
	Page     int
	Active   bool
	Disabled bool
}

// Pager is the pagination control: first, a window of page numbers, last.
type Pager struct {
	First     PageLink
	Window    []PageLink
	Last      PageLink
	Page      int
	PageCount int
}

// Page is everything needed to draw the catalog table.
type Page struct {
	Columns     []Column
	Rows        []Row
	Pager       Pager
	Total       int
	CatalogSize int
	From        int
	To          int
	Search      string
	SortKey     view.SortKey
	SortDir     view.Direction
	PerPage     int
}

// Build projects snap into a Page. unsynced marks products that were only
// updated locally; it may be nil.
func Build(snap view.Snapshot, unsynced map[catalog.ID]bool) Page {
	rows := make([]Row, 0, len(snap.Items))
	for _, p := range snap.Items {
		row := NewRow(p)
		row.Unsynced = unsynced[p.ID]
		rows = append(rows, row)
	}

	from, to := 0, 0
	if len(rows) > 0 {
		from = snap.Offset + 1
		to = snap.Offset + len(rows)
	}

	return Page{
		Columns:     Columns(snap.SortKey, snap.SortDir),
		Rows:        rows,
		Pager:       BuildPager(snap.Page, snap.PageCount),
		Total:       snap.Total,
		CatalogSize: snap.CatalogSize,
		From:        from,
		To:          to,
		Search:      snap.Search,
		SortKey:     snap.SortKey,
		SortDir:     snap.SortDir,
		PerPage:     snap.PerPage,
	}
}

// NewRow converts a product, tolerating every missing optional field.
func NewRow(p catalog.Product) Row {
	return Row{
		ID:          string(p.ID),
		Title:       p.Title,
		Price:       p.Price.String(),
		Category:    p.Category.Label(),
		Thumbnail:   p.Images.First(),
		Description: p.Description,
	}
}

// Columns returns the table headers with the indicator set on the active
// sort column only.
func Columns(active view.SortKey, dir view.Direction) []Column {
	cols := []Column{
		{Key: view.SortID, Label: "ID", Sortable: true},
		{Key: view.SortTitle, Label: "Title", Sortable: true},
		{Key: view.SortPrice, Label: "Price", Sortable: true},
		{Key: view.SortCategory, Label: "Category", Sortable: true},
		{Label: "Image"},
	}
	for i := range cols {
		if cols[i].Sortable && active != view.SortNone && cols[i].Key == active {
			cols[i].Indicator = Indicator(dir)
		}
	}
	return cols
}

// Indicator returns the marker for a sort direction.
func Indicator(dir view.Direction) string {
	if dir == view.Descending {
		return IndicatorDescending
	}
	return IndicatorAscending
}

// BuildPager renders the first/last controls and the page window. Controls
// that would point at the current page from the edges are disabled rather
// than omitted.
func BuildPager(page, pageCount int) Pager {
	if pageCount < 1 {
		pageCount = 1
	}
	page = clamp(page, 1, pageCount)

	start, end := Window(page, pageCount)
	window := make([]PageLink, 0, end-start+1)
	for i := start; i <= end; i++ {
		window = append(window, PageLink{
			Label:  fmt.Sprint(i),
			Page:   i,
			Active: i == page,
		})
	}

	return Pager{
		First:     PageLink{Label: FirstLabel, Page: 1, Disabled: page == 1},
		Window:    window,
		Last:      PageLink{Label: LastLabel, Page: pageCount, Disabled: page == pageCount},
		Page:      page,
		PageCount: pageCount,
	}
}

// Window returns the inclusive range of page numbers to show: at most
// WindowSize pages, centered on page when space allows and clamped to
// [1, pageCount].
func Window(page, pageCount int) (start, end int) {
	if pageCount < 1 {
		pageCount = 1
	}
	page = clamp(page, 1, pageCount)
	start = max(1, page-WindowSize/2)
	end = min(pageCount, start+WindowSize-1)
	if end-start < WindowSize-1 {
		start = max(1, end-WindowSize+1)
	}
	return start, end
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
