package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/inspect"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/k8s"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
)

type stubExtractor struct {
	query *types.Query
	err   error
}

func (s *stubExtractor) Extract(_ context.Context, _ string) (*types.Query, error) {
	if s.err != nil {
		return nil, s.err
	}
	q := *s.query
	q.Normalize()
	return &q, nil
}

func newTestServer(ext *stubExtractor, ready func() bool, objs ...runtime.Object) *Server {
	cs := fake.NewSimpleClientset(objs...)
	engine := inspect.NewEngine(&k8s.Clients{Clientset: cs, Discovery: cs.Discovery()})
	return NewServer(engine, ext, ready)
}

func TestHandleQuery(t *testing.T) {
	replicas := int32(2)
	srv := newTestServer(
		&stubExtractor{query: &types.Query{
			ResourceCategory: types.CategoryWorkload,
			ResourceType:     "deployment",
			Action:           "count",
		}},
		nil,
		&appsv1.Deployment{
			ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "default"},
			Spec:       appsv1.DeploymentSpec{Replicas: &replicas},
		},
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"query":"how many deployments"}`))
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.QueryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "how many deployments", resp.Query)
	assert.Equal(t, "1", resp.Answer)
}

func TestHandleQueryEmptyBody(t *testing.T) {
	srv := newTestServer(&stubExtractor{}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"query":""}`))
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleQueryExtractorDown(t *testing.T) {
	srv := newTestServer(&stubExtractor{err: errors.New("connection refused")}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"query":"list pods"}`))
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "failed to understand the query", resp["error"])
}

func TestHandleExecute(t *testing.T) {
	srv := newTestServer(&stubExtractor{}, nil)

	body := `{"resource_category":"compute","resource_type":"deployment","action":"list"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/execute", strings.NewReader(body))
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.ExecuteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Unknown Resource Category", resp.Answer)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestHandleQueryMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&stubExtractor{}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/query", nil)
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestReadyz(t *testing.T) {
	ready := false
	srv := newTestServer(&stubExtractor{}, func() bool { return ready })

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	ready = true
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&stubExtractor{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
