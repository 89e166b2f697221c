package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key", "en-US", srv.Client())
	c.baseURL = srv.URL
	return c
}

func TestSearchShow(t *testing.T) {
	var gotQuery, gotKey, gotLanguage string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/tv", r.URL.Path)
		gotQuery = r.URL.Query().Get("query")
		gotKey = r.URL.Query().Get("api_key")
		gotLanguage = r.URL.Query().Get("language")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"id":1396,"name":"Breaking Bad","overview":"A chemistry teacher.","poster_path":"/poster.jpg","backdrop_path":"/backdrop.jpg","first_air_date":"2008-01-20","vote_average":8.9},
			{"id":2,"name":"Second Result"}
		]}`))
	})

	meta, err := c.SearchShow(context.Background(), "Breaking Bad")
	require.NoError(t, err)
	require.NotNil(t, meta)

	assert.Equal(t, "Breaking Bad", gotQuery)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "en-US", gotLanguage)

	assert.Equal(t, int64(1396), meta.ID)
	assert.Equal(t, "Breaking Bad", meta.Name)
	assert.Equal(t, defaultImageBaseURL+"/poster.jpg", meta.PosterURL)
	assert.Equal(t, defaultImageBaseURL+"/backdrop.jpg", meta.BackdropURL)
	assert.Equal(t, 8.9, meta.VoteAverage)
}

func TestSearchShowStripsEpisodeToken(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Write([]byte(`{"results":[]}`))
	})

	_, err := c.SearchShow(context.Background(), "Some Show S02E01 1080p")
	require.NoError(t, err)
	assert.Equal(t, "Some Show", gotQuery)
}

func TestSearchShowNoMatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	})

	meta, err := c.SearchShow(context.Background(), "Nonexistent Show")
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestSearchShowEmptyQuery(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	meta, err := c.SearchShow(context.Background(), "S01E01")
	require.NoError(t, err)
	assert.Nil(t, meta)
	assert.False(t, called, "a name that cleans to empty must not hit the API")
}

func TestSearchShowUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	meta, err := c.SearchShow(context.Background(), "Breaking Bad")
	require.Error(t, err)
	assert.Nil(t, meta)
	assert.Contains(t, err.Error(), "status 401")
}

func TestSearchShowMissingArtwork(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"id":9,"name":"Obscure Show"}]}`))
	})

	meta, err := c.SearchShow(context.Background(), "Obscure Show")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Empty(t, meta.PosterURL)
	assert.Empty(t, meta.BackdropURL)
}

func TestCleanShowName(t *testing.T) {
	tests := map[string]string{
		"Show Name S01E01":       "Show Name",
		"Show Name s2e3 extra":   "Show Name",
		"Plain Show":             "Plain Show",
		"S01E01":                 "",
		"  Padded Show S01E01  ": "Padded Show",
	}
	for in, want := range tests {
		assert.Equal(t, want, CleanShowName(in), "CleanShowName(%q)", in)
	}
}
