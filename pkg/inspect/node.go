package inspect

import (
	"context"
	"fmt"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type nodeInspector struct {
	base
}

func (i *nodeInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "details" && q.SpecificName != "":
		return i.details(ctx, q.SpecificName)
	case q.Action == "status" && q.SpecificName != "":
		return i.status(ctx, q.SpecificName)
	case q.Action == "pods_on_node" && q.SpecificName != "":
		return i.podsOnNode(ctx, q.SpecificName)
	case q.Action == "taints" && q.SpecificName != "":
		return i.taints(ctx, q.SpecificName)
	case q.Action == "list_ready":
		return i.listReady(ctx)
	case q.Action == "allocatable_resources" && q.SpecificName != "":
		return i.allocatable(ctx, q.SpecificName)
	case q.Action == "annotations" && q.SpecificName != "":
		return i.annotations(ctx, q.SpecificName)
	case q.Action == "list_by_condition" && q.Filters.ConditionType != "" && q.Filters.ConditionStatus != "":
		return i.listByCondition(ctx, q.Filters.ConditionType, q.Filters.ConditionStatus)
	case q.Action == "list_by_kernel_version" && q.Filters.KernelVersion != "":
		return i.listByKernelVersion(ctx, q.Filters.KernelVersion)
	case q.Action == "kubelet_version" && q.SpecificName != "":
		return i.kubeletVersion(ctx, q.SpecificName)
	default:
		return format.Unsupported("node")
	}
}

func (i *nodeInspector) list(ctx context.Context, q *types.Query) string {
	selector := q.Selector()
	list, err := i.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return i.providerError("Error listing nodes", "list", "Node", "", "", err)
	}

	var names []string
	for _, n := range list.Items {
		names = append(names, n.Name)
	}
	if selector != "" {
		if len(names) == 0 {
			return fmt.Sprintf("No nodes found with label '%s'.", selector)
		}
		return format.Block(fmt.Sprintf("Nodes with label '%s':", selector), names)
	}
	if len(names) == 0 {
		return format.NoneFound("nodes")
	}
	return format.Block("Nodes in the cluster:", names)
}

func (i *nodeInspector) details(ctx context.Context, name string) string {
	node, err := i.client.CoreV1().Nodes().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving node details", "get", "Node", "", name, err)
	}

	var conditions []string
	for _, c := range node.Status.Conditions {
		conditions = append(conditions, fmt.Sprintf("    %s: %s", c.Type, c.Status))
	}
	var addresses []string
	for _, a := range node.Status.Addresses {
		addresses = append(addresses, fmt.Sprintf("    %s: %s", a.Type, a.Address))
	}
	var capacity []string
	for _, res := range format.SortedKeys(node.Status.Capacity) {
		cap := node.Status.Capacity[res]
		alloc := node.Status.Allocatable[res]
		capacity = append(capacity, fmt.Sprintf("    %s: %s (allocatable: %s)", res, cap.String(), alloc.String()))
	}
	var labels []string
	for _, kv := range format.KeyValues(node.Labels) {
		labels = append(labels, "    "+kv)
	}
	var taints []string
	for _, t := range node.Spec.Taints {
		taints = append(taints, fmt.Sprintf("    %s: %s=%s", t.Effect, t.Key, t.Value))
	}
	var annotations []string
	for _, kv := range format.KeyValues(node.Annotations) {
		annotations = append(annotations, "    "+kv)
	}

	return fmt.Sprintf("Node '%s' details:\n  Conditions:\n%s\n  Addresses:\n%s\n  Capacity:\n%s\n  Labels:\n%s\n  Taints:\n%s\n  Annotations:\n%s",
		name,
		sectionOrNone(conditions),
		sectionOrNone(addresses),
		sectionOrNone(capacity),
		sectionOrNone(labels),
		sectionOrNone(taints),
		sectionOrNone(annotations))
}

func sectionOrNone(lines []string) string {
	if len(lines) == 0 {
		return "    None"
	}
	return format.Lines(lines)
}

func (i *nodeInspector) status(ctx context.Context, name string) string {
	node, err := i.client.CoreV1().Nodes().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving node status", "get", "Node", "", name, err)
	}
	for _, c := range node.Status.Conditions {
		if c.Type == corev1.NodeReady {
			return fmt.Sprintf("Node '%s' status: Ready=%s", name, c.Status)
		}
	}
	return fmt.Sprintf("Node '%s' status: Unknown", name)
}

func (i *nodeInspector) podsOnNode(ctx context.Context, name string) string {
	pods, err := i.client.CoreV1().Pods(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error retrieving pods on node", "list", "Pod", "", name, err)
	}

	var lines []string
	for _, p := range pods.Items {
		if p.Spec.NodeName == name {
			lines = append(lines, p.Namespace+"/"+p.Name)
		}
	}
	if len(lines) == 0 {
		return fmt.Sprintf("No pods are running on node '%s'.", name)
	}
	return format.Block(fmt.Sprintf("Pods running on node '%s':", name), lines)
}

func (i *nodeInspector) taints(ctx context.Context, name string) string {
	node, err := i.client.CoreV1().Nodes().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving node taints", "get", "Node", "", name, err)
	}
	if len(node.Spec.Taints) == 0 {
		return fmt.Sprintf("No taints on node '%s'.", name)
	}
	var lines []string
	for _, t := range node.Spec.Taints {
		lines = append(lines, fmt.Sprintf("%s: %s=%s", t.Effect, t.Key, t.Value))
	}
	return format.Block(fmt.Sprintf("Taints on node '%s':", name), lines)
}

func (i *nodeInspector) listReady(ctx context.Context) string {
	list, err := i.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error listing ready nodes", "list", "Node", "", "", err)
	}

	var names []string
	for _, n := range list.Items {
		for _, c := range n.Status.Conditions {
			if c.Type == corev1.NodeReady && c.Status == corev1.ConditionTrue {
				names = append(names, n.Name)
				break
			}
		}
	}
	if len(names) == 0 {
		return "No nodes are in Ready state."
	}
	return format.Block("Ready nodes:", names)
}

func (i *nodeInspector) allocatable(ctx context.Context, name string) string {
	node, err := i.client.CoreV1().Nodes().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving allocatable resources", "get", "Node", "", name, err)
	}
	if len(node.Status.Allocatable) == 0 {
		return fmt.Sprintf("No allocatable resources information for node '%s'.", name)
	}
	var lines []string
	for _, res := range format.SortedKeys(node.Status.Allocatable) {
		q := node.Status.Allocatable[res]
		lines = append(lines, fmt.Sprintf("%s: %s", res, q.String()))
	}
	return format.Block(fmt.Sprintf("Allocatable resources on node '%s':", name), lines)
}

func (i *nodeInspector) annotations(ctx context.Context, name string) string {
	node, err := i.client.CoreV1().Nodes().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving node annotations", "get", "Node", "", name, err)
	}
	if len(node.Annotations) == 0 {
		return fmt.Sprintf("No annotations found for node '%s'.", name)
	}
	return format.Block(fmt.Sprintf("Annotations for node '%s':", name), format.KeyValues(node.Annotations))
}

func (i *nodeInspector) listByCondition(ctx context.Context, condType, condStatus string) string {
	list, err := i.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error listing nodes by condition", "list", "Node", "", "", err)
	}

	var names []string
	for _, n := range list.Items {
		for _, c := range n.Status.Conditions {
			if string(c.Type) == condType && string(c.Status) == condStatus {
				names = append(names, n.Name)
				break
			}
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("No nodes found with condition %s=%s.", condType, condStatus)
	}
	return format.Block(fmt.Sprintf("Nodes with condition %s=%s:", condType, condStatus), names)
}

func (i *nodeInspector) listByKernelVersion(ctx context.Context, version string) string {
	list, err := i.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error listing nodes by kernel version", "list", "Node", "", "", err)
	}

	var names []string
	for _, n := range list.Items {
		if n.Status.NodeInfo.KernelVersion == version {
			names = append(names, n.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("No nodes found with kernel version '%s'.", version)
	}
	return format.Block(fmt.Sprintf("Nodes with kernel version '%s':", version), names)
}

func (i *nodeInspector) kubeletVersion(ctx context.Context, name string) string {
	node, err := i.client.CoreV1().Nodes().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving kubelet version", "get", "Node", "", name, err)
	}
	return fmt.Sprintf("Kubelet version on node '%s': %s", name, node.Status.NodeInfo.KubeletVersion)
}
