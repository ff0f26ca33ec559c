package books

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Column names used by the queries
const (
	ColTitle  = "title"
	ColAuthor = "author"
	ColPages  = "pages"
	ColGenre  = "genre"
	ColRating = "rating"
	ColDesc   = "desc"
)

// requiredColumns must be present in the dataset header
var requiredColumns = []string{ColTitle, ColAuthor, ColPages, ColGenre, ColRating, ColDesc}

// Book is the projected view returned by the genre search. Rating is nil for unrated books.
type Book struct {
	Title  string   `json:"title"`
	Author string   `json:"author"`
	Pages  int      `json:"pages"`
	Genre  string   `json:"genre"`
	Rating *float64 `json:"rating"`
	Desc   string   `json:"desc"`
}

// columns maps header names to cell positions. Shared by every record of a dataset.
type columns struct {
	names []string
	index map[string]int
}

func newColumns(header []string) *columns {
	c := &columns{
		names: make([]string, len(header)),
		index: make(map[string]int, len(header)),
	}
	for i, h := range header {
		name := strings.TrimSpace(h)
		c.names[i] = name
		if _, dup := c.index[name]; !dup {
			c.index[name] = i
		}
	}
	return c
}

// Record is one raw dataset row with every column of the file.
type Record struct {
	cols   *columns
	values []string
}

// Get returns the raw cell for a column. ok is false for unknown columns and empty cells.
func (r Record) Get(name string) (string, bool) {
	i, ok := r.cols.index[name]
	if !ok || i >= len(r.values) {
		return "", false
	}
	v := r.values[i]
	if v == "" {
		return "", false
	}
	return v, true
}

// Value returns the raw cell for a column, or "" when absent.
func (r Record) Value(name string) string {
	v, _ := r.Get(name)
	return v
}

// Columns returns the header names in file order.
func (r Record) Columns() []string {
	out := make([]string, len(r.cols.names))
	copy(out, r.cols.names)
	return out
}

// Map returns the record as column -> value. Empty cells map to nil.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.cols.names))
	for i, name := range r.cols.names {
		if i < len(r.values) && r.values[i] != "" {
			m[name] = r.values[i]
		} else {
			m[name] = nil
		}
	}
	return m
}

// MarshalJSON encodes the record as an object keyed by column, in header order.
// Empty cells are encoded as null.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.cols.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		if i >= len(r.values) || r.values[i] == "" {
			buf.WriteString("null")
			continue
		}
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Dataset is the in-memory, read-only snapshot of the books file.
type Dataset struct {
	path    string
	cols    *columns
	records []Record
}

// Path returns the file the dataset was loaded from.
func (d *Dataset) Path() string { return d.path }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Header returns the column names in file order.
func (d *Dataset) Header() []string {
	out := make([]string, len(d.cols.names))
	copy(out, d.cols.names)
	return out
}

// Records returns the records in load order. The slice must not be modified.
func (d *Dataset) Records() []Record { return d.records }
