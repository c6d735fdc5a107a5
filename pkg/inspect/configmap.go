package inspect

import (
	"context"
	"fmt"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/refs"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type configMapInspector struct {
	base
	resolver *refs.Resolver
}

func (i *configMapInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "details" && q.SpecificName != "":
		return i.details(ctx, q.Namespace, q.SpecificName)
	case q.Action == "keys" && q.SpecificName != "":
		return i.keys(ctx, q.Namespace, q.SpecificName)
	case q.Action == "used_by" && q.SpecificName != "":
		return i.usedBy(ctx, q.Namespace, q.SpecificName)
	case q.Action == "annotations" && q.SpecificName != "":
		return i.annotations(ctx, q.Namespace, q.SpecificName)
	case q.Action == "unused":
		return i.unused(ctx, q)
	default:
		return format.Unsupported("configmap")
	}
}

func (i *configMapInspector) list(ctx context.Context, q *types.Query) string {
	list, err := i.client.CoreV1().ConfigMaps(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing configmaps", "list", "ConfigMap", q.Namespace, "", err)
	}
	if len(list.Items) == 0 {
		return format.NoneFound("configmaps")
	}

	var names []string
	for _, cm := range list.Items {
		names = append(names, cm.Name)
	}
	return format.Comma(names)
}

func (i *configMapInspector) details(ctx context.Context, namespace, name string) string {
	cm, err := i.client.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving configmap details", "get", "ConfigMap", namespace, name, err)
	}
	return fmt.Sprintf("ConfigMap '%s' details:\nData:\n%s", name, format.Lines(format.KeyValues(cm.Data)))
}

func (i *configMapInspector) keys(ctx context.Context, namespace, name string) string {
	cm, err := i.client.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving configmap keys", "get", "ConfigMap", namespace, name, err)
	}
	return fmt.Sprintf("ConfigMap '%s' keys: %s", name, format.Comma(format.SortedKeys(cm.Data)))
}

func (i *configMapInspector) usedBy(ctx context.Context, namespace, name string) string {
	snap, err := i.resolver.Scan(ctx, namespace)
	if err != nil {
		return i.providerError("Error finding workloads using configmap", "scan", "ConfigMap", namespace, name, err)
	}
	consumers := snap.ConsumersOf(refs.Target{Kind: refs.KindConfigMap, Name: name})
	if len(consumers) == 0 {
		return fmt.Sprintf("No workloads are using ConfigMap '%s'.", name)
	}

	var lines []string
	for _, c := range consumers {
		lines = append(lines, c.String())
	}
	return format.Block(fmt.Sprintf("Workloads using ConfigMap '%s':", name), lines)
}

func (i *configMapInspector) annotations(ctx context.Context, namespace, name string) string {
	cm, err := i.client.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving configmap annotations", "get", "ConfigMap", namespace, name, err)
	}
	if len(cm.Annotations) == 0 {
		return fmt.Sprintf("ConfigMap '%s' has no annotations.", name)
	}
	return format.Block(fmt.Sprintf("ConfigMap '%s' annotations:", name), format.KeyValues(cm.Annotations))
}

// unused runs a single namespace scan and checks every configmap against it,
// so this answer can never disagree with used_by about the same object.
func (i *configMapInspector) unused(ctx context.Context, q *types.Query) string {
	list, err := i.client.CoreV1().ConfigMaps(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error retrieving unused configmaps", "list", "ConfigMap", q.Namespace, "", err)
	}
	if len(list.Items) == 0 {
		return format.NoneFound("configmaps")
	}

	snap, err := i.resolver.Scan(ctx, q.Namespace)
	if err != nil {
		return i.providerError("Error retrieving unused configmaps", "scan", "ConfigMap", q.Namespace, "", err)
	}

	var unused []string
	for _, cm := range list.Items {
		if len(snap.ConsumersOf(refs.Target{Kind: refs.KindConfigMap, Name: cm.Name})) == 0 {
			unused = append(unused, cm.Name)
		}
	}
	if len(unused) == 0 {
		return "All ConfigMaps are used by workloads."
	}
	return format.Block("Unused ConfigMaps:", unused)
}
