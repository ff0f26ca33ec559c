package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bookPage = `<html><head><title>Dune</title><script>track()</script></head>
<body>
<nav>Home | Browse</nav>
<main>
<h1>Dune</h1>
<p>by <a href="/author/frank">Frank Herbert</a></p>
<p>Set on the desert planet Arrakis.</p>
</main>
<footer>Sign up</footer>
</body></html>`

func pageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/dune":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(bookPage))
		case "/long":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte(strings.Repeat("a", MaxPageChars+10)))
		default:
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("<html><body><main>Page not found</main></body></html>"))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchBookPage(t *testing.T) {
	srv := pageServer(t)

	tests := []struct {
		name     string
		params   FetchBookPageParams
		contains []string
		excludes []string
	}{
		{
			name:     "markdown_default",
			params:   FetchBookPageParams{URL: srv.URL + "/dune"},
			contains: []string{"# Dune", "[Frank Herbert](/author/frank)", "Arrakis", "status=200"},
			excludes: []string{"Browse", "Sign up", "track()"},
		},
		{
			name:     "text",
			params:   FetchBookPageParams{URL: srv.URL + "/dune", Format: "TEXT"},
			contains: []string{"Dune by Frank Herbert Set on the desert planet Arrakis."},
			excludes: []string{"Browse", "#"},
		},
		{
			name:     "not_found_is_partial",
			params:   FetchBookPageParams{URL: srv.URL + "/missing"},
			contains: []string{"[PARTIAL]", "Page not found", "status=404"},
		},
		{
			name:     "truncated",
			params:   FetchBookPageParams{URL: srv.URL + "/long", Format: "text"},
			contains: []string{"[Content truncated to 8000 characters]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := FetchBookPage(context.Background(), tt.params)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestFetchBookPageValidation(t *testing.T) {
	tests := []struct {
		name   string
		params FetchBookPageParams
		want   string
	}{
		{name: "empty_url", params: FetchBookPageParams{}, want: "url parameter is required"},
		{name: "bad_scheme", params: FetchBookPageParams{URL: "ftp://example.org"}, want: "must start with http"},
		{name: "bad_format", params: FetchBookPageParams{URL: "https://example.org", Format: "pdf"}, want: "format must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := FetchBookPage(context.Background(), tt.params)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(out, "[ERROR] "))
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestGetFetchBookPageTool(t *testing.T) {
	info, err := GetFetchBookPageTool().Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FetchBookPageToolName, info.Name)
}
