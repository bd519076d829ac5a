package catalog

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ID identifies a product. The remote store emits numeric ids while legacy
// sources use strings; both are kept in their canonical text form.
type ID string

// UnmarshalJSON accepts numbers, strings and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits numeric ids as numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsNumeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// IsNumeric reports whether the id is an integer.
func (id ID) IsNumeric() bool {
	_, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil
}

func (id ID) String() string { return string(id) }

// Price is a product price as delivered by the remote store. Missing or
// non-numeric input coerces to zero but the original text is kept so the
// table can show what the server sent.
type Price struct {
	Value float64
	Raw   string
	Valid bool
}

// NewPrice returns a valid price.
func NewPrice(v float64) Price {
	return Price{Value: v, Raw: formatFloat(v), Valid: true}
}

// UnmarshalJSON accepts numbers, numeric strings, null and garbage.
func (p *Price) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*p = Price{}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*p = parsePrice(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		// booleans, objects and arrays are not prices
		p.Raw = string(trimmed)
		return nil
	}
	*p = parsePrice(n.String())
	return nil
}

// MarshalJSON always emits a number.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(formatFloat(p.Amount())), nil
}

// Amount returns the numeric value, zero when invalid.
func (p Price) Amount() float64 {
	if !p.Valid {
		return 0
	}
	return p.Value
}

// String returns the text shown in the table and in exports.
func (p Price) String() string {
	if p.Valid {
		return formatFloat(p.Value)
	}
	return p.Raw
}

func parsePrice(s string) Price {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Price{Raw: s}
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Price{Raw: s}
	}
	return Price{Value: v, Raw: trimmed, Valid: true}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Category is either an embedded {id, name} object or a raw legacy identifier.
type Category struct {
	ID       ID
	Name     string
	Raw      string
	Embedded bool
}

// UnmarshalJSON accepts objects, scalars and null.
func (c *Category) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*c = Category{}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	switch trimmed[0] {
	case '{':
		var obj struct {
			ID   ID     `json:"id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		*c = Category{ID: obj.ID, Name: obj.Name, Embedded: true}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		c.Raw = s
		return nil
	default:
		c.Raw = string(trimmed)
		return nil
	}
}

// MarshalJSON mirrors the shape the category was received in.
func (c Category) MarshalJSON() ([]byte, error) {
	switch {
	case c.Embedded:
		return json.Marshal(struct {
			ID   ID     `json:"id"`
			Name string `json:"name"`
		}{c.ID, c.Name})
	case c.Raw != "":
		if _, err := strconv.ParseFloat(c.Raw, 64); err == nil {
			return []byte(c.Raw), nil
		}
		return json.Marshal(c.Raw)
	default:
		return []byte("null"), nil
	}
}

// Label prefers the embedded name and falls back to the raw value.
func (c Category) Label() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Raw != "" {
		return c.Raw
	}
	return string(c.ID)
}

// Identifier returns the category id used by the edit form.
func (c Category) Identifier() string {
	if c.Embedded {
		return string(c.ID)
	}
	return c.Raw
}

// IsZero reports whether no category is set.
func (c Category) IsZero() bool {
	return !c.Embedded && c.Raw == "" && c.ID == ""
}

// Images is an ordered list of image URLs. Some sources deliver a single
// string (either one URL or a JSON-encoded array); both are accepted.
type Images []string

// UnmarshalJSON accepts arrays, strings and null.
func (im *Images) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*im = nil
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if strings.HasPrefix(s, "[") {
			var nested []string
			if err := json.Unmarshal([]byte(s), &nested); err == nil {
				*im = nested
				return nil
			}
		}
		if s != "" {
			*im = Images{s}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return err
	}
	*im = list
	return nil
}

// First returns the first image URL or "".
func (im Images) First() string {
	if len(im) == 0 {
		return ""
	}
	return strings.TrimSpace(im[0])
}

// Product mirrors a catalog record from the remote store.
type Product struct {
	ID          ID       `json:"id"`
	Title       string   `json:"title"`
	Price       Price    `json:"price"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category"`
	Images      Images   `json:"images"`
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	if p.Images != nil {
		p.Images = append(Images(nil), p.Images...)
	}
	return p
}

// WithPayload overlays the editable fields of pl onto p. It is used when the
// remote store could not confirm a write.
func (p Product) WithPayload(pl Payload) Product {
	out := p.Clone()
	out.Title = pl.Title
	out.Price = NewPrice(pl.Price)
	out.Description = pl.Description
	out.Images = append(Images{}, pl.Images...)
	if pl.CategoryID != nil {
		id := strconv.Itoa(*pl.CategoryID)
		if out.Category.Identifier() != id {
			out.Category = Category{Raw: id}
		}
	}
	return out
}

// Payload is the request body for create and update calls.
type Payload struct {
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	CategoryID  *int     `json:"categoryId,omitempty"`
	Images      []string `json:"images"`
}

// ParsePrice coerces form input to a price. It reads the longest leading
// number, so "12.5 USD" is 12.5; input without one yields 0.
func ParsePrice(s string) float64 {
	p := parsePrice(floatPrefix(strings.TrimSpace(s)))
	return p.Amount()
}

// floatPrefix returns the longest prefix of s that is a decimal number with
// an optional sign, fraction and exponent.
func floatPrefix(s string) string {
	digits := func(i int) int {
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		return i
	}

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intEnd := digits(i)
	end := intEnd
	if end < len(s) && s[end] == '.' {
		if fracEnd := digits(end + 1); fracEnd > end+1 || intEnd > i {
			end = fracEnd
		}
	}
	if end == i {
		return ""
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		j := end + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if expEnd := digits(j); expEnd > j {
			end = expEnd
		}
	}
	return s[:end]
}

// ParseCategoryID parses a category id; invalid input yields nil.
func ParseCategoryID(s string) *int {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	// accept "3.0" and "3abc" the way lenient integer parsing does
	end := 0
	for end < len(trimmed) && (trimmed[end] >= '0' && trimmed[end] <= '9' || end == 0 && trimmed[end] == '-') {
		end++
	}
	n, err := strconv.Atoi(trimmed[:end])
	if err != nil || n == 0 {
		return nil
	}
	return &n
}

// ParseImages splits a comma separated list into trimmed URLs, dropping
// blanks. An empty string yields an empty, non-nil list.
func ParseImages(s string) []string {
	out := []string{}
	if strings.TrimSpace(s) == "" {
		return out
	}
	for _, part := range strings.Split(s, ",") {
		if url := strings.TrimSpace(part); url != "" {
			out = append(out, url)
		}
	}
	return out
}

// JoinImages is the inverse of ParseImages for form population.
func JoinImages(images []string) string {
	return strings.Join(images, ",")
}
