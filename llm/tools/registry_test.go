package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookwise/books"
)

const testCSV = `author,bookformat,desc,genre,img,isbn,isbn13,link,pages,rating,reviews,title,totalratings
Frank Herbert,Paperback,Spice,Science Fiction,,,,https://example.org/dune,412,4.2,500,Dune,9000
Frank Herbert,Paperback,More spice,Science Fiction,,,,,336,3.9,100,Dune Messiah,4000
Jane Austen,Hardcover,Manners,"Romance,Classics",,,,,279,4.3,100,Pride and Prejudice,7000
`

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	ds, err := books.Parse(strings.NewReader(testCSV))
	require.NoError(t, err)

	reg := NewRegistry()
	require.NoError(t, RegisterBookTools(reg, books.NewEngine(ds)))
	return reg
}

func echoSpec(name string) Spec {
	return Spec{
		Name:   name,
		Schema: json.RawMessage(`{"type":"object","properties":{"q":{"type":"string"}},"required":["q"]}`),
		Handler: func(_ context.Context, args json.RawMessage) (any, error) {
			return string(args), nil
		},
	}
}

func TestRegistryRegister(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{name: "no_name", spec: Spec{Schema: json.RawMessage(`{}`), Handler: echoSpec("x").Handler}},
		{name: "no_handler", spec: Spec{Name: "x", Schema: json.RawMessage(`{}`)}},
		{name: "no_schema", spec: Spec{Name: "x", Handler: echoSpec("x").Handler}},
		{name: "bad_schema", spec: Spec{Name: "x", Schema: json.RawMessage(`{"type":`), Handler: echoSpec("x").Handler}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, NewRegistry().Register(tt.spec))
		})
	}

	reg := NewRegistry()
	require.NoError(t, reg.Register(echoSpec("b")))
	require.NoError(t, reg.Register(echoSpec("a")))
	assert.Error(t, reg.Register(echoSpec("a")), "duplicate name")

	var names []string
	for _, s := range reg.List() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"b", "a"}, names)

	_, ok := reg.Lookup("a")
	assert.True(t, ok)
	_, ok = reg.Lookup("c")
	assert.False(t, ok)
}

func TestRegistryCall(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoSpec("echo")))

	got, err := reg.Call(context.Background(), "echo", json.RawMessage(`{"q":"dune"}`))
	require.NoError(t, err)
	assert.Equal(t, `{"q":"dune"}`, got)

	_, err = reg.Call(context.Background(), "missing", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrUnknownTool)

	_, err = reg.Call(context.Background(), "echo", json.RawMessage(`{"q":3}`))
	assert.ErrorIs(t, err, ErrInvalidArguments)

	_, err = reg.Call(context.Background(), "echo", nil)
	assert.ErrorIs(t, err, ErrInvalidArguments, "empty args validate as {}")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = reg.Call(ctx, "echo", json.RawMessage(`{"q":"dune"}`))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistryCallHandlerError(t *testing.T) {
	boom := errors.New("boom")
	reg := NewRegistry()
	spec := echoSpec("fail")
	spec.Handler = func(context.Context, json.RawMessage) (any, error) { return nil, boom }
	require.NoError(t, reg.Register(spec))

	_, err := reg.CallJSON(context.Background(), "fail", json.RawMessage(`{"q":"x"}`))
	assert.ErrorIs(t, err, boom)
}
