package inspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
)

type daemonSetInspector struct {
	base
}

func (i *daemonSetInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "status" && q.SpecificName != "":
		return i.status(ctx, q.Namespace, q.SpecificName)
	case q.Action == "pods" && q.SpecificName != "":
		return i.pods(ctx, q.Namespace, q.SpecificName)
	case q.Action == "node_affinity" && q.SpecificName != "":
		return i.nodeAffinity(ctx, q.Namespace, q.SpecificName)
	default:
		return format.Unsupported("daemonset")
	}
}

func (i *daemonSetInspector) list(ctx context.Context, q *types.Query) string {
	list, err := i.client.AppsV1().DaemonSets(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing daemonsets", "list", "DaemonSet", q.Namespace, "", err)
	}
	if len(list.Items) == 0 {
		return format.NoneFound("daemonsets")
	}

	var out []string
	for _, ds := range list.Items {
		out = append(out, fmt.Sprintf("%s (Desired: %d, Available: %d)",
			ds.Name, ds.Status.DesiredNumberScheduled, ds.Status.NumberAvailable))
	}
	return format.Comma(out)
}

func (i *daemonSetInspector) status(ctx context.Context, namespace, name string) string {
	ds, err := i.client.AppsV1().DaemonSets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving daemonset status", "get", "DaemonSet", namespace, name, err)
	}
	return fmt.Sprintf("Status of daemonset '%s': Desired: %d, Current: %d, Available: %d",
		name, ds.Status.DesiredNumberScheduled, ds.Status.CurrentNumberScheduled, ds.Status.NumberAvailable)
}

func (i *daemonSetInspector) pods(ctx context.Context, namespace, name string) string {
	ds, err := i.client.AppsV1().DaemonSets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error fetching pods for daemonset", "get", "DaemonSet", namespace, name, err)
	}
	selector := labels.Set(ds.Spec.Selector.MatchLabels).String()

	pods, err := i.client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return i.providerError("Error fetching pods for daemonset", "list", "Pod", namespace, "", err)
	}
	if len(pods.Items) == 0 {
		return fmt.Sprintf("No pods found for daemonset '%s'.", name)
	}
	return fmt.Sprintf("Pods for daemonset '%s': %s", name, format.Comma(uniquePodNames(pods.Items)))
}

func (i *daemonSetInspector) nodeAffinity(ctx context.Context, namespace, name string) string {
	ds, err := i.client.AppsV1().DaemonSets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving node affinity for daemonset", "get", "DaemonSet", namespace, name, err)
	}
	spec := ds.Spec.Template.Spec

	if len(spec.NodeSelector) > 0 {
		var pairs []string
		for _, k := range format.SortedKeys(spec.NodeSelector) {
			pairs = append(pairs, fmt.Sprintf("%s=%s", k, spec.NodeSelector[k]))
		}
		return fmt.Sprintf("Node affinity for daemonset '%s': Node Selector: %s", name, strings.Join(pairs, ", "))
	}
	if spec.Affinity != nil {
		return fmt.Sprintf("Node affinity for daemonset '%s': Affinity rules are defined for this DaemonSet.", name)
	}
	return fmt.Sprintf("Node affinity for daemonset '%s': No node affinity or selector defined.", name)
}
