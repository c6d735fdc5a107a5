// Package extractor turns natural language questions into structured
// queries by calling the external extraction service. The agent never
// parses language itself; routing starts from the structured result.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
)

// Extractor converts one natural language question into a Query.
type Extractor interface {
	Extract(ctx context.Context, question string) (*types.Query, error)
}

// HTTPExtractor calls an extraction endpoint over HTTP. The endpoint
// accepts {"query": "..."} and answers with the structured query schema.
type HTTPExtractor struct {
	endpoint string
	client   *http.Client
}

// NewHTTPExtractor creates an extractor against the given endpoint.
func NewHTTPExtractor(endpoint string) *HTTPExtractor {
	return &HTTPExtractor{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (e *HTTPExtractor) Extract(ctx context.Context, question string) (*types.Query, error) {
	payload, err := json.Marshal(types.QueryRequest{Query: question})
	if err != nil {
		return nil, fmt.Errorf("encoding extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling extractor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("extractor returned status %d: %s", resp.StatusCode, body)
	}

	var q types.Query
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return nil, fmt.Errorf("decoding extraction response: %w", err)
	}
	q.Normalize()
	return &q, nil
}
