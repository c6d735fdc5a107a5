// Package inspect routes structured queries to per-kind inspectors and
// renders plain-text answers. Routing is a three-level table lookup, category
// to resource type to action, and every lookup miss produces a fixed answer
// instead of an error.
package inspect

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"k8s.io/client-go/kubernetes"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/telemetry"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
)

// inspector answers every action for one resource kind. Implementations
// return the unsupported-action sentinel for actions they do not recognize
// and never return an error; provider failures become descriptive text.
type inspector interface {
	Inspect(ctx context.Context, q *types.Query) string
}

type base struct {
	client kubernetes.Interface
}

var providerErrors, _ = otel.Meter(telemetry.ServiceName).Int64Counter(
	"query.provider.errors.total",
	metric.WithDescription("Cluster calls that failed and were answered with error text"),
)

// providerError logs and counts the failed cluster call, then returns msg as
// the answer.
func (b base) providerError(msg, op, kind, namespace, name string, err error) string {
	perr := types.NewProviderError(op, kind, namespace, name, err)
	slog.Error("kubernetes api call failed", "error", perr.Error(), "op", op, "kind", kind)
	providerErrors.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("kind", kind),
	))
	return msg
}
