package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEinoTools(t *testing.T) {
	reg := newTestRegistry(t)

	list, err := reg.EinoTools()
	require.NoError(t, err)
	require.Len(t, list, 2)

	info, err := list[0].Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SearchBooksToolName, info.Name)
	assert.Contains(t, info.Desc, "top 10")

	invokable, ok := list[0].(tool.InvokableTool)
	require.True(t, ok)
	out, err := invokable.InvokableRun(context.Background(), `{"genre":"romance","pg_number":280}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Pride and Prejudice")

	_, err = invokable.InvokableRun(context.Background(), `{"genre":"romance"}`)
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestParamsFromSchema(t *testing.T) {
	params, err := paramsFromSchema(searchBooksSchema)
	require.NoError(t, err)

	js, err := params.ToJSONSchema()
	require.NoError(t, err)
	assert.Equal(t, "object", js.Type)
	assert.ElementsMatch(t, []string{"genre", "pg_number"}, js.Required)

	genre, ok := js.Properties.Get("genre")
	require.True(t, ok)
	assert.Equal(t, "string", genre.Type)
	pages, ok := js.Properties.Get("pg_number")
	require.True(t, ok)
	assert.Equal(t, "integer", pages.Type)

	_, err = paramsFromSchema(json.RawMessage(`{"type":"string"}`))
	assert.Error(t, err)
	_, err = paramsFromSchema(json.RawMessage(`{"type":`))
	assert.Error(t, err)
}

func TestErrorHandlerFormatsToolErrors(t *testing.T) {
	assert.Equal(t, "Error: boom", FormatToolError(assertErr("[NodeRunError] failed to invoke tool, err=boom")))
	assert.Equal(t, "Error: plain", FormatToolError(assertErr("plain")))
}

func TestErrorHandlerMiddleware(t *testing.T) {
	wrap := ErrorHandler().Invokable
	failing := func(msg string) compose.InvokableToolEndpoint {
		return func(context.Context, *compose.ToolInput) (*compose.ToolOutput, error) {
			return nil, assertErr(msg)
		}
	}

	out, err := wrap(failing("failed to invoke tool, err=dataset not found"))(context.Background(), &compose.ToolInput{})
	require.NoError(t, err)
	assert.Equal(t, "Error: dataset not found", out.Result)

	_, err = wrap(failing("interrupt signal: need approval"))(context.Background(), &compose.ToolInput{})
	assert.EqualError(t, err, "interrupt signal: need approval")

	ok := func(context.Context, *compose.ToolInput) (*compose.ToolOutput, error) {
		return &compose.ToolOutput{Result: "[]"}, nil
	}
	out, err = wrap(ok)(context.Background(), &compose.ToolInput{})
	require.NoError(t, err)
	assert.Equal(t, "[]", out.Result)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
