package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
)

func TestHTTPGateway_ListRequestShape(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"Title":"a","Hours":50}]`))
	}))
	defer server.Close()

	g := NewHTTPGateway("")
	records, err := g.Fetch(context.Background(), entities.AlertDataSource{
		Kind:       entities.SourceKindList,
		SiteURL:    server.URL,
		ListName:   "Tasks",
		Fields:     []string{"Title", "Hours"},
		Filter:     "Status eq 'Late'",
		MaxRecords: 25,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0]["Title"])

	assert.Equal(t, "/_api/lists/Tasks/items", gotPath)
	assert.Contains(t, gotQuery, "%24select=Title%2CHours")
	assert.Contains(t, gotQuery, "%24top=25")
	assert.Contains(t, gotQuery, "%24filter=")
}

func TestHTTPGateway_WrappedValueResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":[{"Title":"a"},{"Title":"b"}]}`))
	}))
	defer server.Close()

	g := NewHTTPGateway("")
	records, err := g.Fetch(context.Background(), entities.AlertDataSource{
		Kind:     entities.SourceKindList,
		SiteURL:  server.URL,
		ListName: "Tasks",
	})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestHTTPGateway_DirectoryEndpoints(t *testing.T) {
	t.Parallel()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	// Relative endpoint resolves against the gateway base.
	g := NewHTTPGateway(server.URL)
	_, err := g.Fetch(context.Background(), entities.AlertDataSource{
		Kind:     entities.SourceKindDirectory,
		Endpoint: "sync/status",
	})
	require.NoError(t, err)
	assert.Equal(t, "/sync/status", gotPath)

	// Absolute endpoints are used as-is.
	_, err = NewHTTPGateway("").Fetch(context.Background(), entities.AlertDataSource{
		Kind:     entities.SourceKindDirectory,
		Endpoint: server.URL + "/users",
	})
	require.NoError(t, err)
	assert.Equal(t, "/users", gotPath)
}

func TestHTTPGateway_ErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	g := NewHTTPGateway("")
	_, err := g.Fetch(context.Background(), entities.AlertDataSource{
		Kind:     entities.SourceKindList,
		SiteURL:  server.URL,
		ListName: "Tasks",
	})
	assert.ErrorContains(t, err, "status 503")
}

func TestHTTPGateway_MalformedResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	g := NewHTTPGateway("")
	_, err := g.Fetch(context.Background(), entities.AlertDataSource{
		Kind:     entities.SourceKindList,
		SiteURL:  server.URL,
		ListName: "Tasks",
	})
	assert.ErrorContains(t, err, "malformed fetch response")
}

func TestHTTPGateway_ValidationErrors(t *testing.T) {
	t.Parallel()

	g := NewHTTPGateway("")

	_, err := g.Fetch(context.Background(), entities.AlertDataSource{Kind: entities.SourceKindList})
	assert.ErrorContains(t, err, "missing list name")

	_, err = g.Fetch(context.Background(), entities.AlertDataSource{Kind: entities.SourceKindDirectory})
	assert.ErrorContains(t, err, "missing endpoint")

	_, err = g.Fetch(context.Background(), entities.AlertDataSource{Kind: "queue"})
	assert.ErrorContains(t, err, "unknown data source kind")
}
