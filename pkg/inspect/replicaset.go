package inspect

import (
	"context"
	"fmt"
	"sort"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
)

type replicaSetInspector struct {
	base
}

func (i *replicaSetInspector) Inspect(ctx context.Context, q *types.Query) string {
	if q.Action == "pods" && q.SpecificName != "" {
		return i.podsForDeployment(ctx, q.Namespace, q.SpecificName)
	}
	return format.Unsupported("replicaset")
}

// podsForDeployment follows the Deployment's selector to its newest
// ReplicaSet, then matches pods by the pod-template-hash label.
func (i *replicaSetInspector) podsForDeployment(ctx context.Context, namespace, name string) string {
	dep, err := i.client.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error fetching pods for deployment", "get", "Deployment", namespace, name, err)
	}
	selector := labels.Set(dep.Spec.Selector.MatchLabels).String()

	rsList, err := i.client.AppsV1().ReplicaSets(namespace).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return i.providerError("Error fetching pods for deployment", "list", "ReplicaSet", namespace, "", err)
	}
	if len(rsList.Items) == 0 {
		return fmt.Sprintf("No replica sets found for deployment '%s'.", name)
	}

	newest := rsList.Items[0]
	for _, rs := range rsList.Items[1:] {
		if rs.CreationTimestamp.After(newest.CreationTimestamp.Time) {
			newest = rs
		}
	}
	hash := newest.Labels["pod-template-hash"]
	if hash == "" {
		return "No pod template hash found for the replica set."
	}

	pods, err := i.client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: "pod-template-hash=" + hash,
	})
	if err != nil {
		return i.providerError("Error fetching pods for deployment", "list", "Pod", namespace, "", err)
	}
	if len(pods.Items) == 0 {
		return fmt.Sprintf("No pods found for deployment '%s' with the specified pod template hash.", name)
	}

	return fmt.Sprintf("Pods for deployment '%s': %s", name, format.Comma(uniquePodNames(pods.Items)))
}

// uniquePodNames dedups simplified pod names and sorts them so listings stay
// stable across calls.
func uniquePodNames(pods []corev1.Pod) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, pod := range pods {
		n := format.SimpleName(pod.Name)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
