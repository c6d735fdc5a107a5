package refs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func deploymentWith(name string, spec corev1.PodSpec) *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default"},
		Spec: appsv1.DeploymentSpec{
			Template: corev1.PodTemplateSpec{Spec: spec},
		},
	}
}

func TestConsumersOfConfigMapVolume(t *testing.T) {
	dep := deploymentWith("web", corev1.PodSpec{
		Volumes: []corev1.Volume{{
			Name: "cfg",
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{Name: "app-config"},
				},
			},
		}},
	})
	client := fake.NewSimpleClientset(dep)

	snap, err := NewResolver(client).Scan(context.Background(), "default")
	require.NoError(t, err)

	got := snap.ConsumersOf(Target{Kind: KindConfigMap, Name: "app-config"})
	require.Len(t, got, 1)
	assert.Equal(t, "Deployment/web", got[0].String())

	assert.Empty(t, snap.ConsumersOf(Target{Kind: KindConfigMap, Name: "other"}))
}

func TestConsumersOfSecretEnvAndImagePull(t *testing.T) {
	byEnv := deploymentWith("api", corev1.PodSpec{
		Containers: []corev1.Container{{
			Name: "api",
			Env: []corev1.EnvVar{{
				Name: "TOKEN",
				ValueFrom: &corev1.EnvVarSource{
					SecretKeyRef: &corev1.SecretKeySelector{
						LocalObjectReference: corev1.LocalObjectReference{Name: "api-token"},
						Key:                  "token",
					},
				},
			}},
		}},
	})
	byPull := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "puller", Namespace: "default"},
		Spec: corev1.PodSpec{
			ImagePullSecrets: []corev1.LocalObjectReference{{Name: "registry-creds"}},
		},
	}
	client := fake.NewSimpleClientset(byEnv, byPull)

	snap, err := NewResolver(client).Scan(context.Background(), "default")
	require.NoError(t, err)

	got := snap.ConsumersOf(Target{Kind: KindSecret, Name: "api-token"})
	require.Len(t, got, 1)
	assert.Equal(t, "Deployment/api", got[0].String())

	got = snap.ConsumersOf(Target{Kind: KindSecret, Name: "registry-creds"})
	require.Len(t, got, 1)
	assert.Equal(t, "Pod/puller", got[0].String())
}

func TestConsumersOfPVC(t *testing.T) {
	sts := &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{Name: "db", Namespace: "default"},
		Spec: appsv1.StatefulSetSpec{
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					Volumes: []corev1.Volume{{
						Name: "data",
						VolumeSource: corev1.VolumeSource{
							PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
								ClaimName: "db-data",
							},
						},
					}},
				},
			},
		},
	}
	client := fake.NewSimpleClientset(sts)

	snap, err := NewResolver(client).Scan(context.Background(), "default")
	require.NoError(t, err)

	got := snap.ConsumersOf(Target{Kind: KindPVC, Name: "db-data"})
	require.Len(t, got, 1)
	assert.Equal(t, "StatefulSet/db", got[0].String())
}

func TestManagedPodsExcluded(t *testing.T) {
	managed := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "web-abc12",
			Namespace: "default",
			OwnerReferences: []metav1.OwnerReference{{
				Kind: "ReplicaSet", Name: "web-abc", APIVersion: "apps/v1",
			}},
		},
		Spec: corev1.PodSpec{
			Volumes: []corev1.Volume{{
				Name: "cfg",
				VolumeSource: corev1.VolumeSource{
					ConfigMap: &corev1.ConfigMapVolumeSource{
						LocalObjectReference: corev1.LocalObjectReference{Name: "app-config"},
					},
				},
			}},
		},
	}
	client := fake.NewSimpleClientset(managed)

	snap, err := NewResolver(client).Scan(context.Background(), "default")
	require.NoError(t, err)

	assert.Empty(t, snap.ConsumersOf(Target{Kind: KindConfigMap, Name: "app-config"}))
}

func TestConsumersSortedAndDeduplicated(t *testing.T) {
	envFrom := corev1.PodSpec{
		Containers: []corev1.Container{{
			Name: "main",
			EnvFrom: []corev1.EnvFromSource{{
				ConfigMapRef: &corev1.ConfigMapEnvSource{
					LocalObjectReference: corev1.LocalObjectReference{Name: "shared"},
				},
			}},
			Env: []corev1.EnvVar{{
				Name: "ONE",
				ValueFrom: &corev1.EnvVarSource{
					ConfigMapKeyRef: &corev1.ConfigMapKeySelector{
						LocalObjectReference: corev1.LocalObjectReference{Name: "shared"},
						Key:                  "one",
					},
				},
			}},
		}},
	}
	client := fake.NewSimpleClientset(
		deploymentWith("zeta", envFrom),
		deploymentWith("alpha", envFrom),
	)

	snap, err := NewResolver(client).Scan(context.Background(), "default")
	require.NoError(t, err)

	got := snap.ConsumersOf(Target{Kind: KindConfigMap, Name: "shared"})
	require.Len(t, got, 2)
	assert.Equal(t, "Deployment/alpha", got[0].String())
	assert.Equal(t, "Deployment/zeta", got[1].String())
}
