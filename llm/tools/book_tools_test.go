package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookwise/books"
)

func TestSearchBooksTool(t *testing.T) {
	reg := newTestRegistry(t)

	out, err := reg.CallJSON(context.Background(), SearchBooksToolName,
		json.RawMessage(`{"genre":"science fiction","pg_number":400}`))
	require.NoError(t, err)

	var got []books.Book
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Dune", got[0].Title)
	assert.Equal(t, 412, got[0].Pages)
	assert.JSONEq(t,
		`[{"title":"Dune","author":"Frank Herbert","pages":412,"genre":"Science Fiction","rating":4.2,"desc":"Spice"}]`,
		out)
}

func TestSearchBooksToolNoMatchIsEmptyArray(t *testing.T) {
	reg := newTestRegistry(t)

	out, err := reg.CallJSON(context.Background(), SearchBooksToolName,
		json.RawMessage(`{"genre":"cookbook","pg_number":400}`))
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestSearchBooksToolArguments(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{name: "missing_pg_number", args: `{"genre":"romance"}`},
		{name: "missing_genre", args: `{"pg_number":300}`},
		{name: "string_pg_number", args: `{"genre":"romance","pg_number":"300"}`},
		{name: "fractional_pg_number", args: `{"genre":"romance","pg_number":300.5}`},
		{name: "not_an_object", args: `["romance",300]`},
	}

	reg := newTestRegistry(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.CallJSON(context.Background(), SearchBooksToolName, json.RawMessage(tt.args))
			assert.ErrorIs(t, err, ErrInvalidArguments)
		})
	}
}

func TestSearchBookByTitleTool(t *testing.T) {
	reg := newTestRegistry(t)

	out, err := reg.CallJSON(context.Background(), SearchBookByTitleToolName, json.RawMessage(`{"title":"DUNE"}`))
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Dune", got[0]["title"])
	assert.Equal(t, "Dune Messiah", got[1]["title"])
	assert.Equal(t, "https://example.org/dune", got[0]["link"])
	assert.Nil(t, got[1]["link"])
	assert.Equal(t, "412", got[0]["pages"], "title lookup keeps raw values")
	assert.Len(t, got[0], 13)
}

func TestBookToolsSurfaceEngineErrors(t *testing.T) {
	engine := books.NewReloadingEngine(books.LoadConfig{Path: t.TempDir() + "/missing.csv"})
	reg := NewRegistry()
	require.NoError(t, RegisterBookTools(reg, engine))

	_, err := reg.CallJSON(context.Background(), SearchBooksToolName, json.RawMessage(`{"genre":"x","pg_number":1}`))
	assert.ErrorIs(t, err, books.ErrDatasetNotFound)

	_, err = reg.CallJSON(context.Background(), SearchBookByTitleToolName, json.RawMessage(`{"title":"x"}`))
	assert.ErrorIs(t, err, books.ErrDatasetNotFound)
}
