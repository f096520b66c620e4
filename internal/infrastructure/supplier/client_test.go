package supplier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsprint/skillsprint-backend/internal/domain/resource"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := DefaultClientConfig(server.URL)
	config.APIKey = "test-key"
	return NewClient(config), server
}

func TestClientSearchReturnsMappedResources(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/resources/search", r.URL.Path)
		assert.Equal(t, "binary trees", r.URL.Query().Get("query"))
		assert.Equal(t, "8", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": [
				{"title": "Tree Traversal Guide", "url": "https://example.com/trees", "description": "BFS and DFS", "type": "article", "score": 80},
				{"title": "Trees on MDN", "url": "https://developer.mozilla.org/trees", "type": "documentation"}
			]
		}`))
	})

	results := client.Search(context.Background(), "binary trees", 8)

	require.Len(t, results, 2)
	assert.Equal(t, "Tree Traversal Guide", results[0].Title)
	assert.Equal(t, resource.TypeArticle, results[0].Type)
	assert.Equal(t, 80, results[0].QualityScore)
	assert.Equal(t, resource.TypeDocumentation, results[1].Type)
	assert.Equal(t, 0, results[1].QualityScore, "unscored results stay at zero for the scorer")
}

func TestClientSearchDropsUnusableResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": [
				{"title": "", "url": "https://example.com/a"},
				{"title": "No URL", "url": ""},
				{"title": "Kept", "url": "https://example.com/kept", "type": "video"}
			]
		}`))
	})

	results := client.Search(context.Background(), "python basics", 5)

	require.Len(t, results, 1)
	assert.Equal(t, "Kept", results[0].Title)
}

func TestClientSearchDegradesToEmptyOnAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code": "NOT_FOUND", "message": "unknown endpoint"}`))
	})

	results := client.Search(context.Background(), "sql", 5)

	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestClientSearchDegradesToEmptyOnEnvelopeFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "error": "index rebuilding"}`))
	})

	results := client.Search(context.Background(), "css styling", 5)

	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestClientSearchWithoutBaseURL(t *testing.T) {
	client := NewClient(ClientConfig{})

	results := client.Search(context.Background(), "anything", 5)

	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestClientIsHealthy(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			_, _ = w.Write([]byte(`{"success": true, "data": {}}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	assert.True(t, client.IsHealthy(context.Background()))
}

func TestMapperClampsScore(t *testing.T) {
	m := NewMapper()

	r, ok := m.ToResource(SearchResultDTO{Title: "T", URL: "https://example.com", Score: 250})
	require.True(t, ok)
	assert.Equal(t, 100, r.QualityScore)

	r, ok = m.ToResource(SearchResultDTO{Title: "T", URL: "https://example.com", Score: -5})
	require.True(t, ok)
	assert.Equal(t, 0, r.QualityScore)
}

func TestMapperUnknownType(t *testing.T) {
	m := NewMapper()

	r, ok := m.ToResource(SearchResultDTO{Title: "T", URL: "https://example.com", Type: "podcast"})
	require.True(t, ok)
	assert.Equal(t, resource.TypeUnknown, r.Type)
}

func TestRateLimiterBurstThenRefusal(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 1.0,
		BurstSize:         2,
		WaitTimeout:       30 * time.Millisecond,
	})
	ctx := context.Background()

	require.NoError(t, rl.Allow(ctx))
	require.NoError(t, rl.Allow(ctx))

	err := rl.Allow(ctx)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestRateLimiterRefills(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 100.0,
		BurstSize:         1,
		WaitTimeout:       time.Second,
	})
	ctx := context.Background()

	require.NoError(t, rl.Allow(ctx))
	// Next token arrives within ~10ms at 100 rps.
	require.NoError(t, rl.Allow(ctx))
}
