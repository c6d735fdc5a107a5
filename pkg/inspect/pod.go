package inspect

import (
	"context"
	"fmt"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type podInspector struct {
	base
}

func (i *podInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "count":
		return i.count(ctx, q)
	case q.Action == "status" && q.SpecificName != "":
		return i.status(ctx, q.Namespace, q.SpecificName)
	case q.Action == "creation_time" && q.SpecificName != "":
		return i.creationTime(ctx, q.Namespace, q.SpecificName)
	case q.Action == "logs" && q.SpecificName != "":
		return i.logs(ctx, q.Namespace, q.SpecificName)
	case q.Action == "list":
		status := q.Filters.Status
		if status == "" {
			status = "all"
		}
		return i.list(ctx, q, status)
	default:
		return format.Unsupported("pod")
	}
}

func restartCount(pod *corev1.Pod) int32 {
	var total int32
	for _, cs := range pod.Status.ContainerStatuses {
		total += cs.RestartCount
	}
	return total
}

func (i *podInspector) count(ctx context.Context, q *types.Query) string {
	list, err := i.client.CoreV1().Pods(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error querying pod count", "list", "Pod", q.Namespace, "", err)
	}
	return fmt.Sprintf("%d", len(list.Items))
}

func (i *podInspector) status(ctx context.Context, namespace, name string) string {
	pod, err := i.client.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error querying pod status", "get", "Pod", namespace, name, err)
	}
	return fmt.Sprintf("%s is %s, Restarts: %d", format.SimpleName(name), pod.Status.Phase, restartCount(pod))
}

func (i *podInspector) creationTime(ctx context.Context, namespace, name string) string {
	pod, err := i.client.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error querying pod creation time", "get", "Pod", namespace, name, err)
	}
	return fmt.Sprintf("%s was created on %s", format.SimpleName(name), format.CreationTime(pod.CreationTimestamp))
}

func (i *podInspector) logs(ctx context.Context, namespace, name string) string {
	raw, err := i.client.CoreV1().Pods(namespace).GetLogs(name, &corev1.PodLogOptions{}).DoRaw(ctx)
	if err != nil {
		return i.providerError("Error querying pod logs", "logs", "Pod", namespace, name, err)
	}
	return string(raw)
}

func (i *podInspector) list(ctx context.Context, q *types.Query, statusFilter string) string {
	list, err := i.client.CoreV1().Pods(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing pods", "list", "Pod", q.Namespace, "", err)
	}
	if len(list.Items) == 0 {
		return format.NoneFound("pods")
	}

	var filtered []string
	for idx := range list.Items {
		pod := &list.Items[idx]
		phase := pod.Status.Phase
		if statusFilter == "running" && phase != corev1.PodRunning {
			continue
		}
		if statusFilter == "terminated" && phase != corev1.PodSucceeded {
			continue
		}
		filtered = append(filtered, fmt.Sprintf("%s (Status: %s, Restarts: %d)",
			format.SimpleName(pod.Name), phase, restartCount(pod)))
	}

	if len(filtered) == 0 {
		return fmt.Sprintf("No %s pods found.", statusFilter)
	}
	return format.Comma(filtered)
}
