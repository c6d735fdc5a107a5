package inspect

import (
	"context"
	"fmt"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type deploymentInspector struct {
	base
}

func (i *deploymentInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "count":
		return i.count(ctx, q)
	case q.Action == "status" && q.SpecificName != "":
		return i.status(ctx, q.Namespace, q.SpecificName)
	case q.Action == "creation_time" && q.SpecificName != "":
		return i.creationTime(ctx, q.Namespace, q.SpecificName)
	case q.Action == "exists":
		return i.exists(ctx, q)
	case q.Action == "list":
		status := q.Filters.Status
		if status == "" {
			status = "all"
		}
		return i.list(ctx, q, status)
	default:
		return format.Unsupported("deployment")
	}
}

func (i *deploymentInspector) count(ctx context.Context, q *types.Query) string {
	list, err := i.client.AppsV1().Deployments(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error querying deployment count", "list", "Deployment", q.Namespace, "", err)
	}
	return fmt.Sprintf("%d", len(list.Items))
}

func (i *deploymentInspector) status(ctx context.Context, namespace, name string) string {
	dep, err := i.client.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error querying deployment status", "get", "Deployment", namespace, name, err)
	}
	conditions := dep.Status.Conditions
	if len(conditions) == 0 {
		return fmt.Sprintf("%s has no status conditions.", name)
	}
	last := conditions[len(conditions)-1]
	return fmt.Sprintf("%s is %s: %s", name, last.Type, last.Status)
}

func (i *deploymentInspector) creationTime(ctx context.Context, namespace, name string) string {
	dep, err := i.client.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error querying deployment creation time", "get", "Deployment", namespace, name, err)
	}
	return fmt.Sprintf("%s was created on %s", name, format.CreationTime(dep.CreationTimestamp))
}

func (i *deploymentInspector) exists(ctx context.Context, q *types.Query) string {
	list, err := i.client.AppsV1().Deployments(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error checking deployment existence", "list", "Deployment", q.Namespace, "", err)
	}
	if len(list.Items) > 0 {
		return fmt.Sprintf("Deployment(s) exist in the namespace '%s' with the specified criteria.", q.Namespace)
	}
	return fmt.Sprintf("No deployments found in the namespace '%s' with the specified criteria.", q.Namespace)
}

func (i *deploymentInspector) list(ctx context.Context, q *types.Query, statusFilter string) string {
	list, err := i.client.AppsV1().Deployments(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing deployments", "list", "Deployment", q.Namespace, "", err)
	}
	if len(list.Items) == 0 {
		return format.NoneFound("deployments")
	}

	var filtered []string
	for _, dep := range list.Items {
		available := dep.Status.AvailableReplicas
		var total int32
		if dep.Spec.Replicas != nil {
			total = *dep.Spec.Replicas
		}

		if statusFilter == "active" && available == 0 {
			continue
		}
		if statusFilter == "terminated" && available > 0 {
			continue
		}
		filtered = append(filtered, fmt.Sprintf("%s (Replicas: %d/%d)", dep.Name, available, total))
	}

	if len(filtered) == 0 {
		return fmt.Sprintf("No %s deployments found.", statusFilter)
	}
	return format.Comma(filtered)
}
