package web

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/five82/shopkeep/internal/view"
)

// Query is the view requested through the URL: ?q=&sort=&dir=&page=&per_page=.
type Query struct {
	Search  string
	Sort    view.SortKey
	Dir     view.Direction
	Page    int
	PerPage int
}

// ParseQuery reads view parameters. Missing or malformed numbers fall back
// to page 1 and defaultPerPage; unknown sort keys mean unsorted.
func ParseQuery(values url.Values, defaultPerPage int) Query {
	q := Query{
		Search:  strings.TrimSpace(values.Get("q")),
		Sort:    view.ParseSortKey(values.Get("sort")),
		Dir:     view.ParseDirection(values.Get("dir")),
		Page:    1,
		PerPage: defaultPerPage,
	}
	if n, err := strconv.Atoi(values.Get("page")); err == nil && n > 0 {
		q.Page = n
	}
	if n, err := strconv.Atoi(values.Get("per_page")); err == nil && n > 0 {
		q.PerPage = n
	}
	if q.Sort == view.SortNone {
		q.Dir = view.Ascending
	}
	return q
}

// Apply configures a view state for q. Out-of-range pages stay on page 1.
func (q Query) Apply(vs *view.State) {
	vs.SetPerPage(q.PerPage)
	vs.SetSearch(q.Search)
	vs.SetSort(q.Sort, q.Dir)
	vs.SetPage(q.Page)
}

// Values encodes q, omitting defaults.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Sort != view.SortNone {
		v.Set("sort", string(q.Sort))
		v.Set("dir", q.Dir.String())
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	return v
}

// Href returns path with q as its query string.
func (q Query) Href(path string) string {
	if enc := q.Values().Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// WithPage returns q on page n.
func (q Query) WithPage(n int) Query {
	q.Page = n
	return q
}

// WithSort returns q sorted by key: re-selecting the active key inverts the
// direction, any other key starts ascending. Sorting returns to page 1.
func (q Query) WithSort(key view.SortKey) Query {
	if q.Sort == key {
		q.Dir = -q.Dir
	} else {
		q.Sort = key
		q.Dir = view.Ascending
	}
	q.Page = 1
	return q
}
