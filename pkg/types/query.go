package types

import "strings"

// Resource category constants. Every query names one of these; anything else
// resolves to the fixed "Unknown Resource Category" answer.
const (
	CategoryWorkload      = "workload"
	CategoryServices      = "services"
	CategoryConfigStorage = "config_storage"
	CategoryCluster       = "cluster"
)

// Label is a single key/value label filter. Labels are kept as an ordered
// slice, not a map, so the built selector preserves the extractor's order.
type Label struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// QueryFilters carries every optional filter an action may consume. Unset
// fields are zero values; inspectors declare per action which ones they
// require. Unknown fields in the wire payload are ignored.
type QueryFilters struct {
	Status             string   `json:"status,omitempty"`
	Labels             []Label  `json:"labels,omitempty"`
	Size               string   `json:"size,omitempty"`
	Operator           string   `json:"operator,omitempty"`
	StorageClass       string   `json:"storage_class,omitempty"`
	ReclaimPolicy      string   `json:"reclaim_policy,omitempty"`
	VolumeMode         string   `json:"volume_mode,omitempty"`
	VolumeBindingMode  string   `json:"volume_binding_mode,omitempty"`
	SecretType         string   `json:"secret_type,omitempty"`
	EventType          string   `json:"event_type,omitempty"`
	Reason             string   `json:"reason,omitempty"`
	Count              int      `json:"count,omitempty"`
	ConditionType      string   `json:"condition_type,omitempty"`
	ConditionStatus    string   `json:"condition_status,omitempty"`
	KernelVersion      string   `json:"kernel_version,omitempty"`
	SubjectKind        string   `json:"subject_kind,omitempty"`
	SubjectName        string   `json:"subject_name,omitempty"`
	RoleName           string   `json:"role_name,omitempty"`
	Verbs              []string `json:"verbs,omitempty"`
	Resources          []string `json:"resources,omitempty"`
	Port               int      `json:"port,omitempty"`
	InvolvedObjectKind string   `json:"involved_object_kind,omitempty"`
	InvolvedObjectName string   `json:"involved_object_name,omitempty"`
}

// Query is the normalized intent produced by the extractor. It is consumed
// exactly once per request and never retained.
type Query struct {
	ResourceCategory string       `json:"resource_category"`
	ResourceType     string       `json:"resource_type"`
	Action           string       `json:"action"`
	Namespace        string       `json:"namespace"`
	SpecificName     string       `json:"specific_name,omitempty"`
	Filters          QueryFilters `json:"filters,omitempty"`
}

// Normalize fills schema defaults that the extractor may leave unset.
func (q *Query) Normalize() {
	if q.Namespace == "" {
		q.Namespace = "default"
	}
}

// LabelSelector joins ordered label pairs into the canonical "k=v,k2=v2"
// selector string. An empty slice yields "", which the cluster API treats as
// match-all.
func LabelSelector(labels []Label) string {
	if len(labels) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(labels))
	for _, l := range labels {
		pairs = append(pairs, l.Key+"="+l.Value)
	}
	return strings.Join(pairs, ",")
}

// Selector returns the label selector for the query's label filters.
func (q *Query) Selector() string {
	return LabelSelector(q.Filters.Labels)
}
