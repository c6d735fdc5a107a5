package types

import "fmt"

// ProviderError wraps a failed cluster call with enough context to log and
// to classify the failure at the HTTP boundary.
type ProviderError struct {
	Op        string // API verb, e.g. "list", "get"
	Kind      string // resource kind acted on
	Name      string // object name when the call targets one object
	Namespace string
	Err       error
}

func (e *ProviderError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %s %s/%s: %v", e.Op, e.Kind, e.Namespace, e.Name, e.Err)
	}
	if e.Namespace != "" {
		return fmt.Sprintf("%s %s in %s: %v", e.Op, e.Kind, e.Namespace, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError builds a ProviderError for a namespaced call.
func NewProviderError(op, kind, namespace, name string, err error) *ProviderError {
	return &ProviderError{Op: op, Kind: kind, Namespace: namespace, Name: name, Err: err}
}
