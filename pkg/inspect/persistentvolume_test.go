package inspect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
)

func persistentVolume(name, size, storageClass string, policy corev1.PersistentVolumeReclaimPolicy) *corev1.PersistentVolume {
	return &corev1.PersistentVolume{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Spec: corev1.PersistentVolumeSpec{
			Capacity: corev1.ResourceList{
				corev1.ResourceStorage: resource.MustParse(size),
			},
			StorageClassName:              storageClass,
			PersistentVolumeReclaimPolicy: policy,
		},
	}
}

func TestPersistentVolumeCapacityFilter(t *testing.T) {
	eng := newTestEngine(
		persistentVolume("pv-big", "100Gi", "fast", corev1.PersistentVolumeReclaimRetain),
		persistentVolume("pv-small", "10Gi", "fast", corev1.PersistentVolumeReclaimRetain),
	)
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "pv", Action: "list",
		Filters: types.QueryFilters{Operator: ">", Size: "50Gi"},
	})
	assert.Equal(t, "PersistentVolumes where capacity > 50Gi:\npv-big (100Gi)", got)
}

func TestPersistentVolumeCapacityFilterNoMatch(t *testing.T) {
	eng := newTestEngine(persistentVolume("pv-small", "10Gi", "fast", corev1.PersistentVolumeReclaimRetain))
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "pv", Action: "list",
		Filters: types.QueryFilters{Operator: ">", Size: "50Gi"},
	})
	assert.Equal(t, "No PersistentVolumes found where capacity > 50Gi.", got)
}

func TestPersistentVolumeStorageClassFilterWinsOverSize(t *testing.T) {
	eng := newTestEngine(
		persistentVolume("pv-fast", "100Gi", "fast", corev1.PersistentVolumeReclaimRetain),
		persistentVolume("pv-slow", "100Gi", "slow", corev1.PersistentVolumeReclaimRetain),
	)
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "pv", Action: "list",
		Filters: types.QueryFilters{StorageClass: "fast", Operator: ">", Size: "50Gi"},
	})
	assert.Equal(t, "PersistentVolumes using storage class 'fast':\npv-fast", got)
}

func TestPersistentVolumeReclaimPolicyFilter(t *testing.T) {
	eng := newTestEngine(
		persistentVolume("pv-keep", "10Gi", "fast", corev1.PersistentVolumeReclaimRetain),
		persistentVolume("pv-del", "10Gi", "fast", corev1.PersistentVolumeReclaimDelete),
	)
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "pv", Action: "list",
		Filters: types.QueryFilters{ReclaimPolicy: "Retain"},
	})
	assert.Equal(t, "PersistentVolumes with reclaim policy 'Retain':\npv-keep", got)
}

func TestPersistentVolumeClaimRef(t *testing.T) {
	pv := persistentVolume("pv-bound", "10Gi", "fast", corev1.PersistentVolumeReclaimRetain)
	pv.Spec.ClaimRef = &corev1.ObjectReference{Namespace: "prod", Name: "data"}
	eng := newTestEngine(pv)

	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "pv",
		Action: "pvc_using_pv", SpecificName: "pv-bound",
	})
	assert.Equal(t, "PersistentVolume 'pv-bound' is bound to PVC 'prod/data'", got)
}

// "pv" routes to claims under config_storage and to volumes under cluster.
func TestPVTypeIsCategoryDependent(t *testing.T) {
	sc := "fast"
	eng := newTestEngine(
		persistentVolume("pv-1", "10Gi", "fast", corev1.PersistentVolumeReclaimRetain),
		&corev1.PersistentVolumeClaim{
			ObjectMeta: metav1.ObjectMeta{Name: "data", Namespace: "default"},
			Spec:       corev1.PersistentVolumeClaimSpec{StorageClassName: &sc},
		},
	)

	claims := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryConfigStorage, ResourceType: "pv", Action: "list",
	})
	assert.Equal(t, "data", claims)

	volumes := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "pv", Action: "list",
	})
	assert.Equal(t, "Persistent Volumes in the cluster:\npv-1", volumes)
}

func TestPVCListByStorageClass(t *testing.T) {
	fast, slow := "fast", "slow"
	eng := newTestEngine(
		&corev1.PersistentVolumeClaim{
			ObjectMeta: metav1.ObjectMeta{Name: "data-fast", Namespace: "default"},
			Spec:       corev1.PersistentVolumeClaimSpec{StorageClassName: &fast},
		},
		&corev1.PersistentVolumeClaim{
			ObjectMeta: metav1.ObjectMeta{Name: "data-slow", Namespace: "default"},
			Spec:       corev1.PersistentVolumeClaimSpec{StorageClassName: &slow},
		},
	)
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryConfigStorage, ResourceType: "pv", Action: "list",
		Filters: types.QueryFilters{StorageClass: "fast"},
	})
	assert.Equal(t, "PVCs using storage class 'fast':\ndata-fast", got)
}

func TestPVCListLargerThan(t *testing.T) {
	eng := newTestEngine(
		&corev1.PersistentVolumeClaim{
			ObjectMeta: metav1.ObjectMeta{Name: "big", Namespace: "default"},
			Status: corev1.PersistentVolumeClaimStatus{
				Capacity: corev1.ResourceList{corev1.ResourceStorage: resource.MustParse("20Gi")},
			},
		},
		&corev1.PersistentVolumeClaim{
			ObjectMeta: metav1.ObjectMeta{Name: "small", Namespace: "default"},
			Status: corev1.PersistentVolumeClaimStatus{
				Capacity: corev1.ResourceList{corev1.ResourceStorage: resource.MustParse("1Gi")},
			},
		},
	)
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryConfigStorage, ResourceType: "pv", Action: "list",
		Filters: types.QueryFilters{Size: "5Gi"},
	})
	assert.Equal(t, "PVCs larger than 5Gi:\nbig (20Gi)", got)
}

func TestStorageClassDefault(t *testing.T) {
	eng := newTestEngine(
		&storagev1.StorageClass{
			ObjectMeta: metav1.ObjectMeta{
				Name:        "standard",
				Annotations: map[string]string{"storageclass.kubernetes.io/is-default-class": "true"},
			},
			Provisioner: "kubernetes.io/aws-ebs",
		},
		&storagev1.StorageClass{
			ObjectMeta:  metav1.ObjectMeta{Name: "fast"},
			Provisioner: "ebs.csi.aws.com",
		},
	)
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryConfigStorage, ResourceType: "storage_class", Action: "default",
	})
	assert.Equal(t, "Default StorageClass: standard", got)
}
