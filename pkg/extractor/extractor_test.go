package extractor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
)

func TestExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req types.QueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "list deployments in prod", req.Query)

		json.NewEncoder(w).Encode(types.Query{
			ResourceCategory: types.CategoryWorkload,
			ResourceType:     "deployment",
			Action:           "list",
			Namespace:        "prod",
		})
	}))
	defer srv.Close()

	q, err := NewHTTPExtractor(srv.URL).Extract(context.Background(), "list deployments in prod")
	require.NoError(t, err)
	assert.Equal(t, "deployment", q.ResourceType)
	assert.Equal(t, "prod", q.Namespace)
}

func TestExtractDefaultsNamespace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(types.Query{
			ResourceCategory: types.CategoryWorkload,
			ResourceType:     "pod",
			Action:           "count",
		})
	}))
	defer srv.Close()

	q, err := NewHTTPExtractor(srv.URL).Extract(context.Background(), "how many pods")
	require.NoError(t, err)
	assert.Equal(t, "default", q.Namespace)
}

func TestExtractNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPExtractor(srv.URL).Extract(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestExtractBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := NewHTTPExtractor(srv.URL).Extract(context.Background(), "anything")
	require.Error(t, err)
}
