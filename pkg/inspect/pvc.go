package inspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/quantity"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/refs"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type pvcInspector struct {
	base
	resolver *refs.Resolver
}

func (i *pvcInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "details" && q.SpecificName != "":
		return i.details(ctx, q.Namespace, q.SpecificName)
	case q.Action == "status" && q.SpecificName != "":
		return i.status(ctx, q.Namespace, q.SpecificName)
	case q.Action == "used_by" && q.SpecificName != "":
		return i.usedBy(ctx, q.Namespace, q.SpecificName)
	case q.Action == "storage_class" && q.SpecificName != "":
		return i.storageClass(ctx, q.Namespace, q.SpecificName)
	case q.Action == "capacity" && q.SpecificName != "":
		return i.capacity(ctx, q.Namespace, q.SpecificName)
	case q.Action == "access_modes" && q.SpecificName != "":
		return i.accessModes(ctx, q.Namespace, q.SpecificName)
	case q.Action == "bound_pv" && q.SpecificName != "":
		return i.boundPV(ctx, q.Namespace, q.SpecificName)
	case q.Action == "annotations" && q.SpecificName != "":
		return i.annotations(ctx, q.Namespace, q.SpecificName)
	default:
		return format.Unsupported("persistent volume claim")
	}
}

func (i *pvcInspector) list(ctx context.Context, q *types.Query) string {
	list, err := i.client.CoreV1().PersistentVolumeClaims(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing persistent volume claims", "list", "PersistentVolumeClaim", q.Namespace, "", err)
	}

	if sc := q.Filters.StorageClass; sc != "" {
		var names []string
		for _, pvc := range list.Items {
			if pvc.Spec.StorageClassName != nil && *pvc.Spec.StorageClassName == sc {
				names = append(names, pvc.Name)
			}
		}
		if len(names) == 0 {
			return fmt.Sprintf("No PVCs are using storage class '%s'.", sc)
		}
		return format.Block(fmt.Sprintf("PVCs using storage class '%s':", sc), names)
	}

	if size := q.Filters.Size; size != "" {
		threshold := quantity.ParseBytes(size)
		var lines []string
		for _, pvc := range list.Items {
			cap, ok := pvc.Status.Capacity[corev1.ResourceStorage]
			if !ok {
				continue
			}
			if quantity.ParseBytes(cap.String()) > threshold {
				lines = append(lines, fmt.Sprintf("%s (%s)", pvc.Name, cap.String()))
			}
		}
		if len(lines) == 0 {
			return fmt.Sprintf("No PVCs larger than %s found.", size)
		}
		return format.Block(fmt.Sprintf("PVCs larger than %s:", size), lines)
	}

	if len(list.Items) == 0 {
		return format.NoneFound("persistent volume claims")
	}
	var names []string
	for _, pvc := range list.Items {
		names = append(names, pvc.Name)
	}
	return format.Comma(names)
}

func (i *pvcInspector) details(ctx context.Context, namespace, name string) string {
	pvc, err := i.client.CoreV1().PersistentVolumeClaims(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving PVC details", "get", "PersistentVolumeClaim", namespace, name, err)
	}

	storageClass := "N/A"
	if pvc.Spec.StorageClassName != nil {
		storageClass = *pvc.Spec.StorageClassName
	}
	capacity := "N/A"
	if cap, ok := pvc.Status.Capacity[corev1.ResourceStorage]; ok {
		capacity = cap.String()
	}
	volume := "N/A"
	if pvc.Spec.VolumeName != "" {
		volume = pvc.Spec.VolumeName
	}
	return fmt.Sprintf("PVC '%s' details:\n  Status: %s\n  Storage Class: %s\n  Capacity: %s\n  Access Modes: %s\n  Bound Volume: %s",
		name, pvc.Status.Phase, storageClass, capacity, accessModeList(pvc.Spec.AccessModes), volume)
}

func (i *pvcInspector) status(ctx context.Context, namespace, name string) string {
	pvc, err := i.client.CoreV1().PersistentVolumeClaims(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving PVC status", "get", "PersistentVolumeClaim", namespace, name, err)
	}
	return fmt.Sprintf("PVC '%s' status: %s", name, pvc.Status.Phase)
}

func (i *pvcInspector) usedBy(ctx context.Context, namespace, name string) string {
	snap, err := i.resolver.Scan(ctx, namespace)
	if err != nil {
		return i.providerError("Error finding workloads using PVC", "scan", "PersistentVolumeClaim", namespace, name, err)
	}
	consumers := snap.ConsumersOf(refs.Target{Kind: refs.KindPVC, Name: name})
	if len(consumers) == 0 {
		return fmt.Sprintf("No workloads are using PVC '%s'.", name)
	}

	var lines []string
	for _, c := range consumers {
		lines = append(lines, c.String())
	}
	return format.Block(fmt.Sprintf("Workloads using PVC '%s':", name), lines)
}

func (i *pvcInspector) storageClass(ctx context.Context, namespace, name string) string {
	pvc, err := i.client.CoreV1().PersistentVolumeClaims(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving PVC storage class", "get", "PersistentVolumeClaim", namespace, name, err)
	}
	storageClass := "N/A"
	if pvc.Spec.StorageClassName != nil {
		storageClass = *pvc.Spec.StorageClassName
	}
	return fmt.Sprintf("PVC '%s' uses storage class: %s", name, storageClass)
}

func (i *pvcInspector) capacity(ctx context.Context, namespace, name string) string {
	pvc, err := i.client.CoreV1().PersistentVolumeClaims(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving PVC capacity", "get", "PersistentVolumeClaim", namespace, name, err)
	}
	capacity := "N/A"
	if cap, ok := pvc.Status.Capacity[corev1.ResourceStorage]; ok {
		capacity = cap.String()
	}
	return fmt.Sprintf("PVC '%s' capacity: %s", name, capacity)
}

func (i *pvcInspector) accessModes(ctx context.Context, namespace, name string) string {
	pvc, err := i.client.CoreV1().PersistentVolumeClaims(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving PVC access modes", "get", "PersistentVolumeClaim", namespace, name, err)
	}
	return fmt.Sprintf("PVC '%s' access modes: %s", name, accessModeList(pvc.Spec.AccessModes))
}

func (i *pvcInspector) boundPV(ctx context.Context, namespace, name string) string {
	pvc, err := i.client.CoreV1().PersistentVolumeClaims(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving PVC bound volume", "get", "PersistentVolumeClaim", namespace, name, err)
	}
	volume := "N/A"
	if pvc.Spec.VolumeName != "" {
		volume = pvc.Spec.VolumeName
	}
	return fmt.Sprintf("PVC '%s' is bound to PV: %s", name, volume)
}

func (i *pvcInspector) annotations(ctx context.Context, namespace, name string) string {
	pvc, err := i.client.CoreV1().PersistentVolumeClaims(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving PVC annotations", "get", "PersistentVolumeClaim", namespace, name, err)
	}
	if len(pvc.Annotations) == 0 {
		return fmt.Sprintf("PVC '%s' has no annotations.", name)
	}
	return format.Block(fmt.Sprintf("PVC '%s' annotations:", name), format.KeyValues(pvc.Annotations))
}

func accessModeList(modes []corev1.PersistentVolumeAccessMode) string {
	if len(modes) == 0 {
		return "N/A"
	}
	strs := make([]string, len(modes))
	for idx, m := range modes {
		strs[idx] = string(m)
	}
	return strings.Join(strs, ", ")
}
