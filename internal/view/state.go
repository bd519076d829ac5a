package view

import (
	"sort"
	"strconv"
	"strings"

	"github.com/five82/shopkeep/internal/catalog"
)

// SortKey names a sortable column.
type SortKey string

const (
	SortNone     SortKey = ""
	SortID       SortKey = "id"
	SortTitle    SortKey = "title"
	SortPrice    SortKey = "price"
	SortCategory SortKey = "category"
)

// SortKeys lists the sortable columns in display order.
var SortKeys = []SortKey{SortID, SortTitle, SortPrice, SortCategory}

// ParseSortKey maps user input to a SortKey; unknown input yields SortNone.
func ParseSortKey(s string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range SortKeys {
		if k == key {
			return k
		}
	}
	return SortNone
}

// Direction is +1 for ascending and -1 for descending.
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// ParseDirection maps "desc", "-1" and "-" to Descending and anything else to
// Ascending.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desc", "-1", "-":
		return Descending
	default:
		return Ascending
	}
}

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// DefaultPerPage is used when no positive page size is configured.
const DefaultPerPage = 10

// State holds the catalog and the parameters of the current view.
type State struct {
	products []catalog.Product
	filtered []catalog.Product

	page    int
	perPage int
	search  string
	sortKey SortKey
	sortDir Direction
}

// New returns an empty State with the given page size.
func New(perPage int) *State {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &State{page: 1, perPage: perPage, sortDir: Ascending}
}

// SetProducts replaces the backing catalog and recomputes the view.
func (s *State) SetProducts(products []catalog.Product) {
	s.products = append([]catalog.Product(nil), products...)
	s.Recompute()
}

// SetSearch stores the lowercased, trimmed search text and returns to page 1.
func (s *State) SetSearch(text string) {
	s.search = strings.ToLower(strings.TrimSpace(text))
	s.page = 1
	s.Recompute()
}

// SetSort sets the sort column and direction. SortNone clears sorting.
func (s *State) SetSort(key SortKey, dir Direction) {
	if key == SortNone {
		s.sortKey = SortNone
		s.sortDir = Ascending
		s.Recompute()
		return
	}
	if dir != Descending {
		dir = Ascending
	}
	s.sortKey = key
	s.sortDir = dir
	s.Recompute()
}

// ToggleSort inverts the direction when key is already active and otherwise
// sorts by key ascending.
func (s *State) ToggleSort(key SortKey) {
	if key == SortNone {
		s.SetSort(SortNone, Ascending)
		return
	}
	if s.sortKey == key {
		s.SetSort(key, -s.sortDir)
		return
	}
	s.SetSort(key, Ascending)
}

// SetPage moves to page n if it lies within [1, PageCount] and reports
// whether the request was accepted. Rejected requests change nothing.
func (s *State) SetPage(n int) bool {
	if n < 1 || n > s.PageCount() {
		return false
	}
	s.page = n
	return true
}

// SetPerPage changes the page size and returns to page 1. Non-positive sizes
// are rejected.
func (s *State) SetPerPage(n int) bool {
	if n <= 0 {
		return false
	}
	s.perPage = n
	s.page = 1
	s.Recompute()
	return true
}

// Recompute rebuilds the filtered sequence and clamps the page.
func (s *State) Recompute() {
	s.filtered = Filter(s.products, s.search)
	if s.sortKey != SortNone {
		Sort(s.filtered, s.sortKey, s.sortDir)
	}
	s.clampPage()
}

func (s *State) clampPage() {
	if pages := s.PageCount(); s.page > pages {
		s.page = pages
	}
	if s.page < 1 {
		s.page = 1
	}
}

// Page returns the current 1-indexed page.
func (s *State) Page() int { return s.page }

// PerPage returns the page size.
func (s *State) PerPage() int { return s.perPage }

// Search returns the normalized search text.
func (s *State) Search() string { return s.search }

// SortKey returns the active sort column.
func (s *State) SortKey() SortKey { return s.sortKey }

// SortDir returns the active sort direction.
func (s *State) SortDir() Direction { return s.sortDir }

// Total returns the number of products that match the search.
func (s *State) Total() int { return len(s.filtered) }

// PageCount returns max(1, ceil(Total/PerPage)).
func (s *State) PageCount() int {
	return PageCount(len(s.filtered), s.perPage)
}

// Filtered returns a copy of the filtered, sorted sequence.
func (s *State) Filtered() []catalog.Product {
	return append([]catalog.Product(nil), s.filtered...)
}

// PageItems returns the products on the current page.
func (s *State) PageItems() []catalog.Product {
	start, end := Bounds(s.page, s.perPage, len(s.filtered))
	return append([]catalog.Product(nil), s.filtered[start:end]...)
}

// Snapshot is an immutable copy of what is currently visible.
type Snapshot struct {
	Items       []catalog.Product
	Page        int
	PerPage     int
	PageCount   int
	Total       int
	CatalogSize int
	Offset      int
	Search      string
	SortKey     SortKey
	SortDir     Direction
}

// Snapshot captures the current page for rendering.
func (s *State) Snapshot() Snapshot {
	start, _ := Bounds(s.page, s.perPage, len(s.filtered))
	return Snapshot{
		Items:       s.PageItems(),
		Page:        s.page,
		PerPage:     s.perPage,
		PageCount:   s.PageCount(),
		Total:       len(s.filtered),
		CatalogSize: len(s.products),
		Offset:      start,
		Search:      s.search,
		SortKey:     s.sortKey,
		SortDir:     s.sortDir,
	}
}

// PageCount returns max(1, ceil(total/perPage)).
func PageCount(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// Bounds returns the [start, end) slice bounds of page p, clamped to total.
func Bounds(page, perPage, total int) (start, end int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	start = (page - 1) * perPage
	if start > total {
		start = total
	}
	end = start + perPage
	if end > total {
		end = total
	}
	return start, end
}

// Filter keeps products whose title contains search case-insensitively.
// An empty search keeps everything.
func Filter(products []catalog.Product, search string) []catalog.Product {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if needle == "" || strings.Contains(strings.ToLower(p.Title), needle) {
			out = append(out, p)
		}
	}
	return out
}

// Sort orders products in place by key. The sort is stable so ties keep
// their relative order.
func Sort(products []catalog.Product, key SortKey, dir Direction) {
	if dir != Descending {
		dir = Ascending
	}
	sort.SliceStable(products, func(i, j int) bool {
		return compare(products[i], products[j], key)*int(dir) < 0
	})
}

func compare(a, b catalog.Product, key SortKey) int {
	switch key {
	case SortTitle:
		return compareText(a.Title, b.Title)
	case SortPrice:
		return compareFloat(a.Price.Amount(), b.Price.Amount())
	case SortCategory:
		return compareText(a.Category.Label(), b.Category.Label())
	case SortID:
		return compareID(a.ID, b.ID)
	default:
		return 0
	}
}

func compareText(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareID orders numeric ids numerically and everything else as text.
// Numeric ids sort before textual ones.
func compareID(a, b catalog.ID) int {
	na, errA := strconv.ParseFloat(string(a), 64)
	nb, errB := strconv.ParseFloat(string(b), 64)
	switch {
	case errA == nil && errB == nil:
		return compareFloat(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return compareText(string(a), string(b))
	}
}
