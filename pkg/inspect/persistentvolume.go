package inspect

import (
	"context"
	"fmt"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/quantity"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type persistentVolumeInspector struct {
	base
}

func (i *persistentVolumeInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "details" && q.SpecificName != "":
		return i.details(ctx, q.SpecificName)
	case q.Action == "status" && q.SpecificName != "":
		return i.status(ctx, q.SpecificName)
	case q.Action == "list_bound":
		return i.listBound(ctx)
	case q.Action == "access_modes" && q.SpecificName != "":
		return i.accessModes(ctx, q.SpecificName)
	case q.Action == "annotations" && q.SpecificName != "":
		return i.annotations(ctx, q.SpecificName)
	case q.Action == "capacity" && q.SpecificName != "":
		return i.capacity(ctx, q.SpecificName)
	case q.Action == "storage_class" && q.SpecificName != "":
		return i.storageClass(ctx, q.SpecificName)
	case q.Action == "pvc_using_pv" && q.SpecificName != "":
		return i.claimFor(ctx, q.SpecificName)
	default:
		return format.Unsupported("persistent volume")
	}
}

func (i *persistentVolumeInspector) list(ctx context.Context, q *types.Query) string {
	list, err := i.client.CoreV1().PersistentVolumes().List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing persistent volumes", "list", "PersistentVolume", "", "", err)
	}

	if sc := q.Filters.StorageClass; sc != "" {
		var names []string
		for _, pv := range list.Items {
			if pv.Spec.StorageClassName == sc {
				names = append(names, pv.Name)
			}
		}
		if len(names) == 0 {
			return fmt.Sprintf("No PersistentVolumes found using storage class '%s'.", sc)
		}
		return format.Block(fmt.Sprintf("PersistentVolumes using storage class '%s':", sc), names)
	}

	if op, size := q.Filters.Operator, q.Filters.Size; op != "" && size != "" {
		var lines []string
		for _, pv := range list.Items {
			cap, ok := pv.Spec.Capacity[corev1.ResourceStorage]
			if !ok {
				continue
			}
			if quantity.Compare(op, cap.String(), size) {
				lines = append(lines, fmt.Sprintf("%s (%s)", pv.Name, cap.String()))
			}
		}
		if len(lines) == 0 {
			return fmt.Sprintf("No PersistentVolumes found where capacity %s %s.", op, size)
		}
		return format.Block(fmt.Sprintf("PersistentVolumes where capacity %s %s:", op, size), lines)
	}

	if policy := q.Filters.ReclaimPolicy; policy != "" {
		var names []string
		for _, pv := range list.Items {
			if string(pv.Spec.PersistentVolumeReclaimPolicy) == policy {
				names = append(names, pv.Name)
			}
		}
		if len(names) == 0 {
			return fmt.Sprintf("No PersistentVolumes found with reclaim policy '%s'.", policy)
		}
		return format.Block(fmt.Sprintf("PersistentVolumes with reclaim policy '%s':", policy), names)
	}

	if status := q.Filters.Status; status != "" {
		var names []string
		for _, pv := range list.Items {
			if string(pv.Status.Phase) == status {
				names = append(names, pv.Name)
			}
		}
		if len(names) == 0 {
			return fmt.Sprintf("No PersistentVolumes found in status '%s'.", status)
		}
		return format.Block(fmt.Sprintf("PersistentVolumes in status '%s':", status), names)
	}

	if mode := q.Filters.VolumeMode; mode != "" {
		var names []string
		for _, pv := range list.Items {
			if pv.Spec.VolumeMode != nil && string(*pv.Spec.VolumeMode) == mode {
				names = append(names, pv.Name)
			}
		}
		if len(names) == 0 {
			return fmt.Sprintf("No PersistentVolumes found with volume mode '%s'.", mode)
		}
		return format.Block(fmt.Sprintf("PersistentVolumes with volume mode '%s':", mode), names)
	}

	if len(list.Items) == 0 {
		return format.NoneFound("persistent volumes")
	}
	var names []string
	for _, pv := range list.Items {
		names = append(names, pv.Name)
	}
	return format.Block("Persistent Volumes in the cluster:", names)
}

func (i *persistentVolumeInspector) details(ctx context.Context, name string) string {
	pv, err := i.client.CoreV1().PersistentVolumes().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving persistent volume details", "get", "PersistentVolume", "", name, err)
	}

	capacity := "N/A"
	if cap, ok := pv.Spec.Capacity[corev1.ResourceStorage]; ok {
		capacity = cap.String()
	}
	mode := "N/A"
	if pv.Spec.VolumeMode != nil {
		mode = string(*pv.Spec.VolumeMode)
	}
	claim := "N/A"
	if ref := pv.Spec.ClaimRef; ref != nil {
		claim = ref.Namespace + "/" + ref.Name
	}
	return fmt.Sprintf("PersistentVolume '%s' details:\n  Capacity: %s\n  Access Modes: %s\n  Reclaim Policy: %s\n  Status: %s\n  Volume Mode: %s\n  Storage Class: %s\n  Claim: %s",
		name, capacity, accessModeList(pv.Spec.AccessModes), pv.Spec.PersistentVolumeReclaimPolicy,
		pv.Status.Phase, mode, pv.Spec.StorageClassName, claim)
}

func (i *persistentVolumeInspector) status(ctx context.Context, name string) string {
	pv, err := i.client.CoreV1().PersistentVolumes().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving persistent volume status", "get", "PersistentVolume", "", name, err)
	}
	return fmt.Sprintf("PersistentVolume '%s' status: %s", name, pv.Status.Phase)
}

func (i *persistentVolumeInspector) listBound(ctx context.Context) string {
	list, err := i.client.CoreV1().PersistentVolumes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error listing bound persistent volumes", "list", "PersistentVolume", "", "", err)
	}

	var names []string
	for _, pv := range list.Items {
		if pv.Status.Phase == corev1.VolumeBound {
			names = append(names, pv.Name)
		}
	}
	if len(names) == 0 {
		return "No PersistentVolumes are bound to PVCs."
	}
	return format.Block("PersistentVolumes bound to PVCs:", names)
}

func (i *persistentVolumeInspector) accessModes(ctx context.Context, name string) string {
	pv, err := i.client.CoreV1().PersistentVolumes().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving persistent volume access modes", "get", "PersistentVolume", "", name, err)
	}
	return fmt.Sprintf("Access modes for PersistentVolume '%s': %s", name, accessModeList(pv.Spec.AccessModes))
}

func (i *persistentVolumeInspector) annotations(ctx context.Context, name string) string {
	pv, err := i.client.CoreV1().PersistentVolumes().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving persistent volume annotations", "get", "PersistentVolume", "", name, err)
	}
	if len(pv.Annotations) == 0 {
		return fmt.Sprintf("No annotations found for persistent volume '%s'.", name)
	}
	return format.Block(fmt.Sprintf("Annotations for PersistentVolume '%s':", name), format.KeyValues(pv.Annotations))
}

func (i *persistentVolumeInspector) capacity(ctx context.Context, name string) string {
	pv, err := i.client.CoreV1().PersistentVolumes().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving persistent volume capacity", "get", "PersistentVolume", "", name, err)
	}
	capacity := "N/A"
	if cap, ok := pv.Spec.Capacity[corev1.ResourceStorage]; ok {
		capacity = cap.String()
	}
	return fmt.Sprintf("Capacity of PersistentVolume '%s': %s", name, capacity)
}

func (i *persistentVolumeInspector) storageClass(ctx context.Context, name string) string {
	pv, err := i.client.CoreV1().PersistentVolumes().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving persistent volume storage class", "get", "PersistentVolume", "", name, err)
	}
	return fmt.Sprintf("Storage Class of PersistentVolume '%s': %s", name, pv.Spec.StorageClassName)
}

func (i *persistentVolumeInspector) claimFor(ctx context.Context, name string) string {
	pv, err := i.client.CoreV1().PersistentVolumes().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving claim for persistent volume", "get", "PersistentVolume", "", name, err)
	}
	if ref := pv.Spec.ClaimRef; ref != nil {
		return fmt.Sprintf("PersistentVolume '%s' is bound to PVC '%s/%s'", name, ref.Namespace, ref.Name)
	}
	return fmt.Sprintf("PersistentVolume '%s' is not bound to any PVC.", name)
}
