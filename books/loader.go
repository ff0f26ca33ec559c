package books

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Supported dataset encodings
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadConfig describes where the dataset lives and how to decode it.
type LoadConfig struct {
	// Path of the CSV file (header row, comma separated)
	Path string
	// Encoding is utf-8 (default) or latin-1. Latin-1 is an explicit fallback, never automatic.
	Encoding string
}

// Load reads the whole dataset into memory.
func Load(cfg LoadConfig) (*Dataset, error) {
	data, err := os.ReadFile(cfg.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, cfg.Path)
		}
		return nil, fmt.Errorf("read %s: %w", cfg.Path, err)
	}

	text, err := decode(data, cfg.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDatasetEncoding, cfg.Path, err)
	}

	ds, err := Parse(bytes.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Path, err)
	}
	ds.path = cfg.Path
	return ds, nil
}

// decode returns UTF-8 bytes for the configured encoding.
func decode(data []byte, encoding string) ([]byte, error) {
	switch normalizeEncoding(encoding) {
	case EncodingUTF8:
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return nil, errors.New("invalid utf-8, try latin-1 encoding")
		}
		return data, nil
	case EncodingLatin1:
		return charmap.ISO8859_1.NewDecoder().Bytes(data)
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

func normalizeEncoding(encoding string) string {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1":
		return EncodingLatin1
	}
	return encoding
}

// Parse reads a CSV stream with a header row. Every row must have the header's column count.
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", ErrDatasetParse)
		}
		return nil, fmt.Errorf("%w: %v", ErrDatasetParse, err)
	}

	cols := newColumns(header)
	for _, name := range requiredColumns {
		if _, ok := cols.index[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrDatasetParse, name)
		}
	}

	ds := &Dataset{cols: cols}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatasetParse, err)
		}
		ds.records = append(ds.records, Record{cols: cols, values: row})
	}
	return ds, nil
}
