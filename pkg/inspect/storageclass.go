package inspect

import (
	"context"
	"fmt"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type storageClassInspector struct {
	base
}

func (i *storageClassInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "details" && q.SpecificName != "":
		return i.details(ctx, q.SpecificName)
	case q.Action == "provisioner" && q.SpecificName != "":
		return i.provisioner(ctx, q.SpecificName)
	case q.Action == "parameters" && q.SpecificName != "":
		return i.parameters(ctx, q.SpecificName)
	case q.Action == "used_by" && q.SpecificName != "":
		return i.usedBy(ctx, q.SpecificName)
	case q.Action == "annotations" && q.SpecificName != "":
		return i.annotations(ctx, q.SpecificName)
	case q.Action == "default":
		return i.defaultClass(ctx)
	default:
		return format.Unsupported("storage class")
	}
}

func (i *storageClassInspector) list(ctx context.Context, q *types.Query) string {
	list, err := i.client.StorageV1().StorageClasses().List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing storage classes", "list", "StorageClass", "", "", err)
	}

	if policy := q.Filters.ReclaimPolicy; policy != "" {
		var names []string
		for _, sc := range list.Items {
			if sc.ReclaimPolicy != nil && string(*sc.ReclaimPolicy) == policy {
				names = append(names, sc.Name)
			}
		}
		if len(names) == 0 {
			return fmt.Sprintf("No StorageClasses with reclaim policy '%s' found.", policy)
		}
		return format.Block(fmt.Sprintf("StorageClasses with reclaim policy '%s':", policy), names)
	}

	if mode := q.Filters.VolumeBindingMode; mode != "" {
		var names []string
		for _, sc := range list.Items {
			if sc.VolumeBindingMode != nil && string(*sc.VolumeBindingMode) == mode {
				names = append(names, sc.Name)
			}
		}
		if len(names) == 0 {
			return fmt.Sprintf("No StorageClasses with volume binding mode '%s' found.", mode)
		}
		return format.Block(fmt.Sprintf("StorageClasses with volume binding mode '%s':", mode), names)
	}

	if len(list.Items) == 0 {
		return format.NoneFound("storage classes")
	}
	var names []string
	for _, sc := range list.Items {
		names = append(names, sc.Name)
	}
	return format.Comma(names)
}

func (i *storageClassInspector) details(ctx context.Context, name string) string {
	sc, err := i.client.StorageV1().StorageClasses().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving storage class details", "get", "StorageClass", "", name, err)
	}

	params := "    None"
	if len(sc.Parameters) > 0 {
		var lines []string
		for _, kv := range format.KeyValues(sc.Parameters) {
			lines = append(lines, "    "+kv)
		}
		params = format.Lines(lines)
	}
	reclaim := "N/A"
	if sc.ReclaimPolicy != nil {
		reclaim = string(*sc.ReclaimPolicy)
	}
	binding := "N/A"
	if sc.VolumeBindingMode != nil {
		binding = string(*sc.VolumeBindingMode)
	}
	expansion := false
	if sc.AllowVolumeExpansion != nil {
		expansion = *sc.AllowVolumeExpansion
	}
	return fmt.Sprintf("StorageClass '%s' details:\n  Provisioner: %s\n  Parameters:\n%s\n  Reclaim Policy: %s\n  Volume Binding Mode: %s\n  Allow Volume Expansion: %t",
		name, sc.Provisioner, params, reclaim, binding, expansion)
}

func (i *storageClassInspector) provisioner(ctx context.Context, name string) string {
	sc, err := i.client.StorageV1().StorageClasses().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving storage class provisioner", "get", "StorageClass", "", name, err)
	}
	return fmt.Sprintf("StorageClass '%s' uses provisioner: %s", name, sc.Provisioner)
}

func (i *storageClassInspector) parameters(ctx context.Context, name string) string {
	sc, err := i.client.StorageV1().StorageClasses().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving storage class parameters", "get", "StorageClass", "", name, err)
	}
	if len(sc.Parameters) == 0 {
		return fmt.Sprintf("StorageClass '%s' has no parameters.", name)
	}
	return format.Block(fmt.Sprintf("Parameters for StorageClass '%s':", name), format.KeyValues(sc.Parameters))
}

func (i *storageClassInspector) usedBy(ctx context.Context, name string) string {
	pvcs, err := i.client.CoreV1().PersistentVolumeClaims(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error finding PVCs using storage class", "list", "PersistentVolumeClaim", "", name, err)
	}

	var lines []string
	for _, pvc := range pvcs.Items {
		if pvc.Spec.StorageClassName != nil && *pvc.Spec.StorageClassName == name {
			lines = append(lines, pvc.Namespace+"/"+pvc.Name)
		}
	}
	if len(lines) == 0 {
		return fmt.Sprintf("No PVCs are using StorageClass '%s'.", name)
	}
	return format.Block(fmt.Sprintf("PVCs using StorageClass '%s':", name), lines)
}

func (i *storageClassInspector) annotations(ctx context.Context, name string) string {
	sc, err := i.client.StorageV1().StorageClasses().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving storage class annotations", "get", "StorageClass", "", name, err)
	}
	if len(sc.Annotations) == 0 {
		return fmt.Sprintf("StorageClass '%s' has no annotations.", name)
	}
	return format.Block(fmt.Sprintf("StorageClass '%s' annotations:", name), format.KeyValues(sc.Annotations))
}

func (i *storageClassInspector) defaultClass(ctx context.Context) string {
	list, err := i.client.StorageV1().StorageClasses().List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error retrieving default storage class", "list", "StorageClass", "", "", err)
	}
	for _, sc := range list.Items {
		if sc.Annotations["storageclass.kubernetes.io/is-default-class"] == "true" {
			return fmt.Sprintf("Default StorageClass: %s", sc.Name)
		}
	}
	return "No default StorageClass is set."
}
