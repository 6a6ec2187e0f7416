package spell

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageTool_RequestForm(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = map[string]string{
			"text":        r.PostFormValue("text"),
			"language":    r.PostFormValue("language"),
			"enabledOnly": r.PostFormValue("enabledOnly"),
		}
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
		w.Write([]byte(`{"matches":[]}`))
	}))
	defer srv.Close()

	lt := &LanguageTool{Endpoint: srv.URL}
	spans, err := lt.Check(context.Background(), "some text")
	require.NoError(t, err)
	assert.Empty(t, spans)
	assert.Equal(t, map[string]string{
		"text":        "some text",
		"language":    "en-US",
		"enabledOnly": "false",
	}, form)
}

func TestLanguageTool_KeepsOnlyTypos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"matches":[
			{"offset":0,"length":4,"message":"typo","rule":{"category":{"id":"TYPOS"}},"replacements":[{"value":"word"}],"context":{"text":"wrod here"}},
			{"offset":5,"length":4,"message":"style","rule":{"category":{"id":"STYLE"}},"replacements":[{"value":"there"}]}
		]}`))
	}))
	defer srv.Close()

	lt := &LanguageTool{Endpoint: srv.URL}
	spans, err := lt.Check(context.Background(), "wrod here")
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "wrod", spans[0].Word)
	assert.Equal(t, "typo", spans[0].Message)
	assert.Equal(t, []string{"word"}, spans[0].Suggestions)
}

func TestLanguageTool_TruncatesReplacementsToFive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"matches":[
			{"offset":0,"length":4,"rule":{"category":{"id":"TYPOS"}},"replacements":[
				{"value":"a"},{"value":"b"},{"value":"c"},{"value":"d"},{"value":"e"},{"value":"f"},{"value":"g"}
			]}
		]}`))
	}))
	defer srv.Close()

	lt := &LanguageTool{Endpoint: srv.URL}
	spans, err := lt.Check(context.Background(), "wrod")
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, spans[0].Suggestions)
}

func TestLanguageTool_DropsMalformedMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"matches":[
			{"offset":-1,"length":3,"rule":{"category":{"id":"TYPOS"}}},
			{"offset":0,"length":0,"rule":{"category":{"id":"TYPOS"}}},
			{"offset":3,"length":99,"rule":{"category":{"id":"TYPOS"}}},
			{"offset":0,"length":4,"rule":{"category":{"id":"TYPOS"}},"replacements":[{"value":"word"}]}
		]}`))
	}))
	defer srv.Close()

	lt := &LanguageTool{Endpoint: srv.URL}
	spans, err := lt.Check(context.Background(), "wrod here")
	require.NoError(t, err)
	require.Len(t, spans, 1, "malformed entries must be dropped without failing the batch")
	assert.Equal(t, "wrod", spans[0].Word)
}

func TestLanguageTool_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	lt := &LanguageTool{Endpoint: srv.URL}
	_, err := lt.Check(context.Background(), "text")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestLanguageTool_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately, so the address refuses connections

	lt := &LanguageTool{Endpoint: srv.URL}
	_, err := lt.Check(context.Background(), "text")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestLanguageTool_RuneOffsets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"matches":[
			{"offset":6,"length":5,"rule":{"category":{"id":"TYPOS"}},"replacements":[{"value":"world"}]}
		]}`))
	}))
	defer srv.Close()

	lt := &LanguageTool{Endpoint: srv.URL}
	spans, err := lt.Check(context.Background(), "héllo wörld")
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "wörld", spans[0].Word)
}
