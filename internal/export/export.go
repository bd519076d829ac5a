package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/five82/shopkeep/internal/catalog"
)

const (
	// FileName is the name offered for downloads.
	FileName = "products_page.csv"
	// ContentType is sent with HTTP downloads.
	ContentType = "text/csv; charset=utf-8"
	// ImageSeparator joins image URLs inside the images column.
	ImageSeparator = ";"
)

// Header lists the exported columns.
var Header = []string{"id", "title", "price", "category", "images"}

// Record is one parsed export row.
type Record struct {
	ID       string
	Title    string
	Price    string
	Category string
	Images   []string
}

// NewRecord returns the values exported for p, matching what the table shows.
func NewRecord(p catalog.Product) Record {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, strings.TrimSpace(img))
	}
	return Record{
		ID:       string(p.ID),
		Title:    p.Title,
		Price:    p.Price.String(),
		Category: p.Category.Label(),
		Images:   images,
	}
}

// WritePage writes the header and one line per product. Text columns are
// always quoted; id and price only when they contain a delimiter. Lines are
// joined with "\n" and the output has no trailing newline.
func WritePage(w io.Writer, items []catalog.Product) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(Header, ","))
	for _, p := range items {
		r := NewRecord(p)
		bw.WriteByte('\n')
		bw.WriteString(bareField(r.ID))
		bw.WriteByte(',')
		bw.WriteString(quote(r.Title))
		bw.WriteByte(',')
		bw.WriteString(bareField(r.Price))
		bw.WriteByte(',')
		bw.WriteString(quote(r.Category))
		bw.WriteByte(',')
		bw.WriteString(quote(strings.Join(r.Images, ImageSeparator)))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Page renders items to a string.
func Page(items []catalog.Product) string {
	var b strings.Builder
	_ = WritePage(&b, items)
	return b.String()
}

// Parse reads an export produced by WritePage. A \r\n inside a quoted
// field comes back as \n; WritePage keeps it as written.
func Parse(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(Header)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse csv: missing header")
	}
	for i, col := range Header {
		if rows[0][i] != col {
			return nil, fmt.Errorf("parse csv: unexpected column %q at %d", rows[0][i], i)
		}
	}

	out := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		images := []string{}
		if row[4] != "" {
			images = strings.Split(row[4], ImageSeparator)
		}
		out = append(out, Record{
			ID:       row[0],
			Title:    row[1],
			Price:    row[2],
			Category: row[3],
			Images:   images,
		})
	}
	return out, nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func bareField(s string) string {
	if s == "" || !strings.ContainsAny(s, "\",\r\n") && strings.TrimSpace(s) == s {
		return s
	}
	return quote(s)
}
