package inspect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
)

func deploymentWithConfigMapVolume(name, namespace, configMap string) *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: appsv1.DeploymentSpec{
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					Volumes: []corev1.Volume{{
						Name: "config",
						VolumeSource: corev1.VolumeSource{
							ConfigMap: &corev1.ConfigMapVolumeSource{
								LocalObjectReference: corev1.LocalObjectReference{Name: configMap},
							},
						},
					}},
				},
			},
		},
	}
}

func TestConfigMapUsedBy(t *testing.T) {
	eng := newTestEngine(
		&corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "my-config", Namespace: "default"}},
		deploymentWithConfigMapVolume("my-deployment", "default", "my-config"),
	)
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryConfigStorage, ResourceType: "config_maps",
		Action: "used_by", SpecificName: "my-config",
	})
	assert.Equal(t, "Workloads using ConfigMap 'my-config':\nDeployment/my-deployment", got)
}

func TestConfigMapUsedByNone(t *testing.T) {
	eng := newTestEngine(&corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "orphan", Namespace: "default"}})
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryConfigStorage, ResourceType: "config_maps",
		Action: "used_by", SpecificName: "orphan",
	})
	assert.Equal(t, "No workloads are using ConfigMap 'orphan'.", got)
}

// A configmap must never be reported unused while used_by names a consumer
// for it. Both answers derive from the same scan.
func TestConfigMapUnusedConsistentWithUsedBy(t *testing.T) {
	eng := newTestEngine(
		&corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "my-config", Namespace: "default"}},
		&corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "orphan", Namespace: "default"}},
		deploymentWithConfigMapVolume("my-deployment", "default", "my-config"),
	)

	unused := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryConfigStorage, ResourceType: "config_maps", Action: "unused",
	})
	assert.Equal(t, "Unused ConfigMaps:\norphan", unused)

	usedBy := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryConfigStorage, ResourceType: "config_maps",
		Action: "used_by", SpecificName: "my-config",
	})
	assert.Contains(t, usedBy, "Deployment/my-deployment")
}

func TestConfigMapAllUsed(t *testing.T) {
	eng := newTestEngine(
		&corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "my-config", Namespace: "default"}},
		deploymentWithConfigMapVolume("my-deployment", "default", "my-config"),
	)
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryConfigStorage, ResourceType: "config_maps", Action: "unused",
	})
	assert.Equal(t, "All ConfigMaps are used by workloads.", got)
}

func TestConfigMapKeysAndDetails(t *testing.T) {
	eng := newTestEngine(&corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "app-config", Namespace: "default"},
		Data:       map[string]string{"timeout": "30s", "mode": "fast"},
	})

	keys := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryConfigStorage, ResourceType: "config_maps",
		Action: "keys", SpecificName: "app-config",
	})
	assert.Equal(t, "ConfigMap 'app-config' keys: mode, timeout", keys)

	details := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryConfigStorage, ResourceType: "config_maps",
		Action: "details", SpecificName: "app-config",
	})
	assert.Equal(t, "ConfigMap 'app-config' details:\nData:\nmode: fast\ntimeout: 30s", details)
}

func TestSecretListByType(t *testing.T) {
	eng := newTestEngine(
		&corev1.Secret{ObjectMeta: metav1.ObjectMeta{Name: "tls-cert", Namespace: "default"}, Type: corev1.SecretTypeTLS},
		&corev1.Secret{ObjectMeta: metav1.ObjectMeta{Name: "token", Namespace: "default"}, Type: corev1.SecretTypeOpaque},
	)
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryConfigStorage, ResourceType: "secrets", Action: "list",
		Filters: types.QueryFilters{SecretType: "kubernetes.io/tls"},
	})
	assert.Equal(t, "Secrets of type 'kubernetes.io/tls':\ntls-cert", got)
}

func TestSecretImagePullSecrets(t *testing.T) {
	eng := newTestEngine(&corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "app", Namespace: "default"},
		Spec: corev1.PodSpec{
			ImagePullSecrets: []corev1.LocalObjectReference{{Name: "registry-creds"}},
		},
	})
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryConfigStorage, ResourceType: "secrets", Action: "image_pull_secrets",
	})
	assert.Equal(t, "Secrets used as imagePullSecrets:\nregistry-creds", got)
}

func TestSecretUsedAsEnv(t *testing.T) {
	dep := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: "api", Namespace: "default"},
		Spec: appsv1.DeploymentSpec{
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name: "api",
						EnvFrom: []corev1.EnvFromSource{{
							SecretRef: &corev1.SecretEnvSource{
								LocalObjectReference: corev1.LocalObjectReference{Name: "api-keys"},
							},
						}},
					}},
				},
			},
		},
	}
	eng := newTestEngine(dep)
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryConfigStorage, ResourceType: "secrets", Action: "used_as_env",
	})
	assert.Equal(t, "Workloads using secrets as environment variables:\nDeployment/api", got)
}
