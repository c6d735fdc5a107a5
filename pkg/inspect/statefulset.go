package inspect

import (
	"context"
	"fmt"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
)

type statefulSetInspector struct {
	base
}

func (i *statefulSetInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "status" && q.SpecificName != "":
		return i.status(ctx, q.Namespace, q.SpecificName)
	case q.Action == "pods" && q.SpecificName != "":
		return i.pods(ctx, q.Namespace, q.SpecificName)
	case q.Action == "volume_claims" && q.SpecificName != "":
		return i.volumeClaims(ctx, q.Namespace, q.SpecificName)
	default:
		return format.Unsupported("statefulset")
	}
}

func (i *statefulSetInspector) list(ctx context.Context, q *types.Query) string {
	list, err := i.client.AppsV1().StatefulSets(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing statefulsets", "list", "StatefulSet", q.Namespace, "", err)
	}
	if len(list.Items) == 0 {
		return format.NoneFound("statefulsets")
	}

	var out []string
	for _, sts := range list.Items {
		var desired int32
		if sts.Spec.Replicas != nil {
			desired = *sts.Spec.Replicas
		}
		out = append(out, fmt.Sprintf("%s (Desired: %d, Ready: %d)", sts.Name, desired, sts.Status.ReadyReplicas))
	}
	return format.Comma(out)
}

func (i *statefulSetInspector) status(ctx context.Context, namespace, name string) string {
	sts, err := i.client.AppsV1().StatefulSets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving statefulset status", "get", "StatefulSet", namespace, name, err)
	}
	var desired int32
	if sts.Spec.Replicas != nil {
		desired = *sts.Spec.Replicas
	}
	return fmt.Sprintf("Status of statefulset '%s': Desired: %d, Current: %d, Ready: %d",
		name, desired, sts.Status.CurrentReplicas, sts.Status.ReadyReplicas)
}

func (i *statefulSetInspector) pods(ctx context.Context, namespace, name string) string {
	sts, err := i.client.AppsV1().StatefulSets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error fetching pods for statefulset", "get", "StatefulSet", namespace, name, err)
	}
	selector := labels.Set(sts.Spec.Selector.MatchLabels).String()

	pods, err := i.client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return i.providerError("Error fetching pods for statefulset", "list", "Pod", namespace, "", err)
	}
	if len(pods.Items) == 0 {
		return fmt.Sprintf("No pods found for statefulset '%s'.", name)
	}
	return fmt.Sprintf("Pods for statefulset '%s': %s", name, format.Comma(uniquePodNames(pods.Items)))
}

func (i *statefulSetInspector) volumeClaims(ctx context.Context, namespace, name string) string {
	sts, err := i.client.AppsV1().StatefulSets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving volume claims for statefulset", "get", "StatefulSet", namespace, name, err)
	}
	if len(sts.Spec.VolumeClaimTemplates) == 0 {
		return fmt.Sprintf("No volume claims found for statefulset '%s'.", name)
	}

	var names []string
	for _, pvc := range sts.Spec.VolumeClaimTemplates {
		names = append(names, pvc.Name)
	}
	return fmt.Sprintf("Volume claims for statefulset '%s': %s", name, format.Comma(names))
}
