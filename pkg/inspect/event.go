package inspect

import (
	"context"
	"fmt"
	"sort"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type eventInspector struct {
	base
}

func (i *eventInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "list_for_object" && q.Filters.InvolvedObjectKind != "" && q.Filters.InvolvedObjectName != "":
		return i.listForObject(ctx, q.Namespace, q.Filters.InvolvedObjectKind, q.Filters.InvolvedObjectName)
	default:
		return format.Unsupported("events")
	}
}

// list filters client side; the apiserver field selectors for reason and
// type would work too, but the filter set here is richer than what field
// selectors can express.
func (i *eventInspector) list(ctx context.Context, q *types.Query) string {
	events, err := i.client.CoreV1().Events(q.Namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error listing events", "list", "Event", q.Namespace, "", err)
	}

	if reason := q.Filters.Reason; reason != "" {
		var lines []string
		for _, e := range events.Items {
			if e.Reason == reason {
				lines = append(lines, eventLineWithObject(e))
			}
		}
		if len(lines) == 0 {
			return fmt.Sprintf("No events found with reason '%s'.", reason)
		}
		return format.Block(fmt.Sprintf("Events with reason '%s':", reason), lines)
	}

	if eventType := q.Filters.EventType; eventType != "" {
		var lines []string
		for _, e := range events.Items {
			if e.Type == eventType {
				lines = append(lines, eventLineWithObject(e))
			}
		}
		if len(lines) == 0 {
			return fmt.Sprintf("No events of type '%s' found.", eventType)
		}
		return format.Block(fmt.Sprintf("Events of type '%s':", eventType), lines)
	}

	if count := q.Filters.Count; count > 0 {
		if len(events.Items) == 0 {
			return format.NoneFound("events")
		}
		items := append([]corev1.Event(nil), events.Items...)
		sort.SliceStable(items, func(a, b int) bool {
			return eventTimestamp(items[a]).After(eventTimestamp(items[b]).Time)
		})
		if count > len(items) {
			count = len(items)
		}
		var lines []string
		for _, e := range items[:count] {
			lines = append(lines, eventLineWithObject(e))
		}
		return format.Block(fmt.Sprintf("Most recent %d events:", count), lines)
	}

	if len(events.Items) == 0 {
		return format.NoneFound("events")
	}
	var lines []string
	for _, e := range events.Items {
		lines = append(lines, fmt.Sprintf("[%s] %s %s: %s",
			format.EventTime(eventTimestamp(e)), e.Type, e.Reason, e.Message))
	}
	return format.Lines(lines)
}

func (i *eventInspector) listForObject(ctx context.Context, namespace, kind, name string) string {
	events, err := i.client.CoreV1().Events(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error listing events for object", "list", "Event", namespace, name, err)
	}

	var lines []string
	for _, e := range events.Items {
		if e.InvolvedObject.Kind == kind && e.InvolvedObject.Name == name {
			lines = append(lines, eventLineWithObject(e))
		}
	}
	if len(lines) == 0 {
		return fmt.Sprintf("No events found for %s '%s'.", kind, name)
	}
	return format.Block(fmt.Sprintf("Events for %s '%s':", kind, name), lines)
}

func eventLineWithObject(e corev1.Event) string {
	return fmt.Sprintf("[%s] %s %s on %s/%s: %s",
		format.EventTime(eventTimestamp(e)), e.Type, e.Reason,
		e.InvolvedObject.Kind, e.InvolvedObject.Name, e.Message)
}

// eventTimestamp picks the most meaningful timestamp an event carries.
// LastTimestamp is empty for events recorded through the events.k8s.io
// API, which populates EventTime instead.
func eventTimestamp(e corev1.Event) metav1.Time {
	if !e.LastTimestamp.IsZero() {
		return e.LastTimestamp
	}
	if !e.EventTime.IsZero() {
		return metav1.Time{Time: e.EventTime.Time}
	}
	return e.CreationTimestamp
}
