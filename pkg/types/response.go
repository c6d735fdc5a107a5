package types

import "time"

// QueryRequest is the body of POST /query: a raw natural language question.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse echoes the original question together with the plain-text
// answer, mirroring the shape the frontend renders.
type QueryResponse struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

// ExecuteResponse is the body returned by POST /execute, which takes a
// pre-structured Query and skips extraction.
type ExecuteResponse struct {
	Answer    string `json:"answer"`
	Timestamp string `json:"timestamp"`
}

// NewExecuteResponse stamps an answer with the current UTC time.
func NewExecuteResponse(answer string) *ExecuteResponse {
	return &ExecuteResponse{
		Answer:    answer,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
