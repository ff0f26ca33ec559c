package books

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodreadsHeader = "author,bookformat,desc,genre,img,isbn,isbn13,link,pages,rating,reviews,title,totalratings"

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeDataset(t, goodreadsHeader+"\n"+
		`Frank Herbert,Paperback,"Spice, sand and worms",Science Fiction,,0441013597,9780441013593,https://example.org/dune,412,4.2,500,Dune,9000`+"\n"+
		`Jane Austen,Hardcover,Manners,"Romance,Classics",,,,,279,4.3,100,Pride and Prejudice,7000`+"\n")

	ds, err := Load(LoadConfig{Path: path})
	require.NoError(t, err)

	assert.Equal(t, path, ds.Path())
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, strings.Split(goodreadsHeader, ","), ds.Header())

	dune := ds.Records()[0]
	assert.Equal(t, "Dune", dune.Value(ColTitle))
	assert.Equal(t, "Spice, sand and worms", dune.Value(ColDesc))

	_, ok := ds.Records()[1].Get("link")
	assert.False(t, ok, "empty cell reads as null")
	assert.Equal(t, "Romance,Classics", ds.Records()[1].Value(ColGenre))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) LoadConfig
		wantErr error
	}{
		{
			name: "missing_file",
			setup: func(t *testing.T) LoadConfig {
				return LoadConfig{Path: filepath.Join(t.TempDir(), "nope.csv")}
			},
			wantErr: ErrDatasetNotFound,
		},
		{
			name: "not_utf8",
			setup: func(t *testing.T) LoadConfig {
				return LoadConfig{Path: writeDataset(t, goodreadsHeader+"\nJos\xe9,,,,,,,,100,4.0,1,Caf\xe9,1\n")}
			},
			wantErr: ErrDatasetEncoding,
		},
		{
			name: "unknown_encoding",
			setup: func(t *testing.T) LoadConfig {
				return LoadConfig{Path: writeDataset(t, goodreadsHeader+"\n"), Encoding: "ebcdic"}
			},
			wantErr: ErrDatasetEncoding,
		},
		{
			name: "inconsistent_columns",
			setup: func(t *testing.T) LoadConfig {
				return LoadConfig{Path: writeDataset(t, "title,author,pages,genre,rating,desc\nDune,Herbert,412\n")}
			},
			wantErr: ErrDatasetParse,
		},
		{
			name: "missing_required_column",
			setup: func(t *testing.T) LoadConfig {
				return LoadConfig{Path: writeDataset(t, "title,author,pages,genre,desc\nDune,Herbert,412,SF,x\n")}
			},
			wantErr: ErrDatasetParse,
		},
		{
			name: "empty_file",
			setup: func(t *testing.T) LoadConfig {
				return LoadConfig{Path: writeDataset(t, "")}
			},
			wantErr: ErrDatasetParse,
		},
		{
			name: "bad_quoting",
			setup: func(t *testing.T) LoadConfig {
				return LoadConfig{Path: writeDataset(t, "title,author,pages,genre,rating,desc\n\"Dune,Herbert,412,SF,4.2,x\n")}
			},
			wantErr: ErrDatasetParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.setup(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadLatin1Fallback(t *testing.T) {
	path := writeDataset(t, "title,author,pages,genre,rating,desc\nCaf\xe9,Jos\xe9,100,Travel,4.1,x\n")

	_, err := Load(LoadConfig{Path: path})
	require.ErrorIs(t, err, ErrDatasetEncoding)

	ds, err := Load(LoadConfig{Path: path, Encoding: "latin1"})
	require.NoError(t, err)
	assert.Equal(t, "Café", ds.Records()[0].Value(ColTitle))
	assert.Equal(t, "José", ds.Records()[0].Value(ColAuthor))
}

func TestLoadStripsBOM(t *testing.T) {
	path := writeDataset(t, "\xEF\xBB\xBFtitle,author,pages,genre,rating,desc\nDune,Herbert,412,SF,4.2,x\n")

	ds, err := Load(LoadConfig{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "Dune", ds.Records()[0].Value(ColTitle))
}

func TestRecordMarshalJSON(t *testing.T) {
	ds, err := Parse(strings.NewReader("title,author,pages,genre,rating,desc,isbn\n\"Dune \"\"1\"\"\",Herbert,412,SF,4.2,,\n"))
	require.NoError(t, err)

	data, err := json.Marshal(ds.Records()[0])
	require.NoError(t, err)
	assert.Equal(t,
		`{"title":"Dune \"1\"","author":"Herbert","pages":"412","genre":"SF","rating":"4.2","desc":null,"isbn":null}`,
		string(data))

	assert.Equal(t, map[string]any{
		"title": `Dune "1"`, "author": "Herbert", "pages": "412", "genre": "SF",
		"rating": "4.2", "desc": nil, "isbn": nil,
	}, ds.Records()[0].Map())
}
