package books

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	// PageWindow is the half-width of the exclusive page-count window
	PageWindow = 20
	// NarrowThreshold is the selection size above which rating narrowing applies
	NarrowThreshold = 100
	// NarrowMinRating is the strict lower bound used when narrowing
	NarrowMinRating = 4.0
	// MaxResults caps the genre search result
	MaxResults = 10
)

// Engine answers book queries against a dataset snapshot.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	dataset func() (*Dataset, error)
}

// NewEngine returns an engine over an already loaded snapshot.
func NewEngine(ds *Dataset) *Engine {
	return &Engine{dataset: func() (*Dataset, error) { return ds, nil }}
}

// NewReloadingEngine returns an engine that reads the file again on every query.
func NewReloadingEngine(cfg LoadConfig) *Engine {
	return &Engine{dataset: func() (*Dataset, error) { return Load(cfg) }}
}

type scored struct {
	rec    Record
	pages  int
	rating float64
	rated  bool
}

// naTokens are the cell values read as a missing number, as pandas does by default.
var naTokens = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true, "N/A": true,
	"NA": true, "NULL": true, "NaN": true, "None": true, "n/a": true, "nan": true, "null": true,
}

// SearchByGenreAndLength returns up to MaxResults books whose genre contains
// genre (case-insensitive) and whose page count lies strictly inside
// (targetPages-PageWindow, targetPages+PageWindow), highest rating first.
//
// Oversized selections are narrowed to ratings above NarrowMinRating when that
// leaves at least one book. Records without a genre never match. Every record
// must have numeric pages and a numeric or missing rating, otherwise the whole
// call fails with ErrCoercion. Unrated books sort after every rated one.
func (e *Engine) SearchByGenreAndLength(genre string, targetPages int) ([]Book, error) {
	ds, err := e.dataset()
	if err != nil {
		return nil, err
	}

	rows, err := coerce(ds)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(genre)
	low, high := targetPages-PageWindow, targetPages+PageWindow

	selected := make([]scored, 0)
	for _, row := range rows {
		g, ok := row.rec.Get(ColGenre)
		if !ok || !strings.Contains(strings.ToLower(g), needle) {
			continue
		}
		if row.pages > low && row.pages < high {
			selected = append(selected, row)
		}
	}

	if len(selected) > NarrowThreshold {
		var top []scored
		for _, row := range selected {
			if row.rated && row.rating > NarrowMinRating {
				top = append(top, row)
			}
		}
		if len(top) > 0 {
			selected = top
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.rated != b.rated {
			return a.rated
		}
		return a.rating > b.rating
	})

	if len(selected) > MaxResults {
		selected = selected[:MaxResults]
	}

	out := make([]Book, 0, len(selected))
	for _, row := range selected {
		b := Book{
			Title:  row.rec.Value(ColTitle),
			Author: row.rec.Value(ColAuthor),
			Pages:  row.pages,
			Genre:  row.rec.Value(ColGenre),
			Desc:   row.rec.Value(ColDesc),
		}
		if row.rated {
			rating := row.rating
			b.Rating = &rating
		}
		out = append(out, b)
	}
	return out, nil
}

// SearchByTitle returns every record whose title contains title, case-insensitive,
// in load order with every column. Records without a title never match.
func (e *Engine) SearchByTitle(title string) ([]Record, error) {
	ds, err := e.dataset()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(title)
	out := make([]Record, 0)
	for _, rec := range ds.records {
		t, ok := rec.Get(ColTitle)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(t), needle) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// coerce converts pages and rating for every record, failing on the first bad cell.
func coerce(ds *Dataset) ([]scored, error) {
	rows := make([]scored, len(ds.records))
	for i, rec := range ds.records {
		pages, err := parsePages(rec.Value(ColPages))
		if err != nil {
			return nil, &CoercionError{Row: i + 1, Column: ColPages, Value: rec.Value(ColPages), Err: err}
		}
		rating, rated, err := parseRating(rec.Value(ColRating))
		if err != nil {
			return nil, &CoercionError{Row: i + 1, Column: ColRating, Value: rec.Value(ColRating), Err: err}
		}
		rows[i] = scored{rec: rec, pages: pages, rating: rating, rated: rated}
	}
	return rows, nil
}

// parsePages accepts integers and finite floats, truncating the latter
// toward zero. A missing value is an error.
func parsePages(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("not a finite number")
	}
	return int(f), nil
}

// parseRating reports rated=false for missing values; other non-numeric text is an error.
func parseRating(raw string) (rating float64, rated bool, err error) {
	s := strings.TrimSpace(raw)
	if naTokens[s] {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(f) {
		return 0, false, nil
	}
	if math.IsInf(f, 0) {
		return 0, false, errors.New("not a finite number")
	}
	return f, true, nil
}
