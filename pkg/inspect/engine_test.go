package inspect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/k8s"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
)

func newTestEngine(objs ...runtime.Object) *Engine {
	cs := fake.NewSimpleClientset(objs...)
	return NewEngine(&k8s.Clients{Clientset: cs, Discovery: cs.Discovery()})
}

func int32Ptr(v int32) *int32 { return &v }

func deployment(name, namespace string, replicas, available int32) *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec:       appsv1.DeploymentSpec{Replicas: int32Ptr(replicas)},
		Status:     appsv1.DeploymentStatus{AvailableReplicas: available},
	}
}

func TestExecuteUnknownCategory(t *testing.T) {
	eng := newTestEngine()
	got := eng.Execute(context.Background(), &types.Query{ResourceCategory: "compute", ResourceType: "deployment", Action: "list"})
	assert.Equal(t, format.UnknownCategory, got)
}

func TestExecuteUnknownType(t *testing.T) {
	eng := newTestEngine()
	got := eng.Execute(context.Background(), &types.Query{ResourceCategory: types.CategoryWorkload, ResourceType: "widget", Action: "list"})
	assert.Equal(t, format.UnknownType, got)
}

func TestExecuteUnsupportedAction(t *testing.T) {
	eng := newTestEngine()
	got := eng.Execute(context.Background(), &types.Query{ResourceCategory: types.CategoryWorkload, ResourceType: "deployment", Action: "scale"})
	assert.Equal(t, "Unsupported action or missing required parameters for deployment.", got)
}

func TestExecuteDefaultsNamespace(t *testing.T) {
	eng := newTestEngine(deployment("web", "default", 3, 3))
	got := eng.Execute(context.Background(), &types.Query{ResourceCategory: types.CategoryWorkload, ResourceType: "deployment", Action: "count"})
	assert.Equal(t, "1", got)
}

func TestDeploymentListActiveFilter(t *testing.T) {
	eng := newTestEngine(
		deployment("web", "prod", 3, 3),
		deployment("worker", "prod", 2, 0),
	)
	q := &types.Query{
		ResourceCategory: types.CategoryWorkload,
		ResourceType:     "deployment",
		Action:           "list",
		Namespace:        "prod",
		Filters:          types.QueryFilters{Status: "active"},
	}
	got := eng.Execute(context.Background(), q)
	assert.Equal(t, "web (Replicas: 3/3)", got)
}

func TestDeploymentListNoMatchesForFilter(t *testing.T) {
	eng := newTestEngine(deployment("worker", "prod", 2, 0))
	q := &types.Query{
		ResourceCategory: types.CategoryWorkload,
		ResourceType:     "deployment",
		Action:           "list",
		Namespace:        "prod",
		Filters:          types.QueryFilters{Status: "active"},
	}
	got := eng.Execute(context.Background(), q)
	assert.Equal(t, "No active deployments found.", got)
}

func TestDeploymentExists(t *testing.T) {
	eng := newTestEngine(deployment("web", "prod", 1, 1))

	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryWorkload, ResourceType: "deployment", Action: "exists", Namespace: "prod",
	})
	assert.Equal(t, "Deployment(s) exist in the namespace 'prod' with the specified criteria.", got)

	got = eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryWorkload, ResourceType: "deployment", Action: "exists", Namespace: "staging",
	})
	assert.Equal(t, "No deployments found in the namespace 'staging' with the specified criteria.", got)
}

func TestDeploymentStatusNoConditions(t *testing.T) {
	eng := newTestEngine(deployment("web", "prod", 1, 1))
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryWorkload, ResourceType: "deployment", Action: "status",
		Namespace: "prod", SpecificName: "web",
	})
	assert.Equal(t, "web has no status conditions.", got)
}
