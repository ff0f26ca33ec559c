package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForCarriesContextFields(t *testing.T) {
	ctx := WithTool(WithSession(context.Background(), "s-1"), "search_books")

	entry := For(ctx)
	assert.Equal(t, "s-1", entry.Data["session_id"])
	assert.Equal(t, "search_books", entry.Data["tool"])

	assert.Empty(t, For(context.Background()).Data)
}

func TestSetup(t *testing.T) {
	var buf bytes.Buffer
	prevOut, prevLevel := logrus.StandardLogger().Out, logrus.GetLevel()
	t.Cleanup(func() {
		logrus.SetOutput(prevOut)
		logrus.SetLevel(prevLevel)
	})

	require.NoError(t, Setup("debug", &buf))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	Track(WithSession(context.Background(), "s-2"), "lookup")()
	assert.Contains(t, buf.String(), "lookup completed")
	assert.Contains(t, buf.String(), "session_id=s-2")

	assert.Error(t, Setup("loud", nil))
}
