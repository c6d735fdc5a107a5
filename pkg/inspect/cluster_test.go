package inspect

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
)

func readyNode(name string, ready corev1.ConditionStatus) *corev1.Node {
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{{Type: corev1.NodeReady, Status: ready}},
			NodeInfo:   corev1.NodeSystemInfo{KubeletVersion: "v1.31.1", KernelVersion: "6.8.0"},
		},
	}
}

func TestNodeListReady(t *testing.T) {
	eng := newTestEngine(readyNode("node-a", corev1.ConditionTrue), readyNode("node-b", corev1.ConditionFalse))
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "node", Action: "list_ready",
	})
	assert.Equal(t, "Ready nodes:\nnode-a", got)
}

func TestNodePodsOnNode(t *testing.T) {
	eng := newTestEngine(
		readyNode("node-a", corev1.ConditionTrue),
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "prod"},
			Spec:       corev1.PodSpec{NodeName: "node-a"},
		},
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: "db", Namespace: "prod"},
			Spec:       corev1.PodSpec{NodeName: "node-b"},
		},
	)
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "node",
		Action: "pods_on_node", SpecificName: "node-a",
	})
	assert.Equal(t, "Pods running on node 'node-a':\nprod/web", got)
}

func TestNodeKubeletVersion(t *testing.T) {
	eng := newTestEngine(readyNode("node-a", corev1.ConditionTrue))
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "node",
		Action: "kubelet_version", SpecificName: "node-a",
	})
	assert.Equal(t, "Kubelet version on node 'node-a': v1.31.1", got)
}

func TestNodeListByKernelVersion(t *testing.T) {
	eng := newTestEngine(readyNode("node-a", corev1.ConditionTrue))
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "node", Action: "list_by_kernel_version",
		Filters: types.QueryFilters{KernelVersion: "6.8.0"},
	})
	assert.Equal(t, "Nodes with kernel version '6.8.0':\nnode-a", got)
}

func event(name, reason, eventType, message string, age time.Duration) *corev1.Event {
	ts := metav1.NewTime(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC).Add(-age))
	return &corev1.Event{
		ObjectMeta:     metav1.ObjectMeta{Name: name, Namespace: "default"},
		Reason:         reason,
		Type:           eventType,
		Message:        message,
		LastTimestamp:  ts,
		InvolvedObject: corev1.ObjectReference{Kind: "Pod", Name: "web"},
	}
}

func TestEventListByReason(t *testing.T) {
	eng := newTestEngine(
		event("e1", "BackOff", "Warning", "restarting failed container", 0),
		event("e2", "Scheduled", "Normal", "assigned pod", time.Hour),
	)
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "event", Action: "list",
		Filters: types.QueryFilters{Reason: "BackOff"},
	})
	assert.Equal(t, "Events with reason 'BackOff':\n[2026-01-10 12:00:00] Warning BackOff on Pod/web: restarting failed container", got)
}

func TestEventListMostRecent(t *testing.T) {
	eng := newTestEngine(
		event("old", "Scheduled", "Normal", "assigned pod", 2*time.Hour),
		event("new", "Pulled", "Normal", "image pulled", 0),
	)
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "event", Action: "list",
		Filters: types.QueryFilters{Count: 1},
	})
	assert.Equal(t, "Most recent 1 events:\n[2026-01-10 12:00:00] Normal Pulled on Pod/web: image pulled", got)
}

func TestEventListMostRecentNoEvents(t *testing.T) {
	eng := newTestEngine()
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "event", Action: "list",
		Filters: types.QueryFilters{Count: 5},
	})
	assert.Equal(t, "No events found.", got)
}

func TestEventListForObject(t *testing.T) {
	eng := newTestEngine(event("e1", "BackOff", "Warning", "restarting failed container", 0))
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "event", Action: "list_for_object",
		Filters: types.QueryFilters{InvolvedObjectKind: "Pod", InvolvedObjectName: "web"},
	})
	assert.Contains(t, got, "Events for Pod 'web':")
	assert.Contains(t, got, "restarting failed container")
}

func TestEventListForObjectMissingParams(t *testing.T) {
	eng := newTestEngine()
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "event", Action: "list_for_object",
	})
	assert.Equal(t, "Unsupported action or missing required parameters for events.", got)
}

func TestRoleFindByPermission(t *testing.T) {
	eng := newTestEngine(
		&rbacv1.Role{
			ObjectMeta: metav1.ObjectMeta{Name: "pod-reader", Namespace: "default"},
			Rules: []rbacv1.PolicyRule{{
				APIGroups: []string{""},
				Resources: []string{"pods"},
				Verbs:     []string{"get", "list"},
			}},
		},
		&rbacv1.Role{
			ObjectMeta: metav1.ObjectMeta{Name: "secret-admin", Namespace: "default"},
			Rules: []rbacv1.PolicyRule{{
				APIGroups: []string{""},
				Resources: []string{"secrets"},
				Verbs:     []string{"*"},
			}},
		},
	)

	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "role", Action: "find_by_permission",
		Filters: types.QueryFilters{Verbs: []string{"get"}, Resources: []string{"pods"}},
	})
	assert.Equal(t, "Roles with verbs [get] on resources [pods] in namespace 'default':\npod-reader", got)

	// Wildcard verbs cover any requested verb.
	got = eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "role", Action: "find_by_permission",
		Filters: types.QueryFilters{Verbs: []string{"delete"}, Resources: []string{"secrets"}},
	})
	assert.Equal(t, "Roles with verbs [delete] on resources [secrets] in namespace 'default':\nsecret-admin", got)
}

func TestClusterRoleBindingFindBySubject(t *testing.T) {
	eng := newTestEngine(&rbacv1.ClusterRoleBinding{
		ObjectMeta: metav1.ObjectMeta{Name: "admin-binding"},
		RoleRef:    rbacv1.RoleRef{Kind: "ClusterRole", Name: "cluster-admin"},
		Subjects:   []rbacv1.Subject{{Kind: "User", Name: "alice"}},
	})
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "cluster_role_bindings", Action: "find_by_subject",
		Filters: types.QueryFilters{SubjectKind: "user", SubjectName: "alice"},
	})
	assert.Equal(t, "ClusterRoleBindings including user 'alice':\nadmin-binding", got)
}

func TestClusterRoleBindingFindWithoutSubjects(t *testing.T) {
	eng := newTestEngine(
		&rbacv1.ClusterRoleBinding{
			ObjectMeta: metav1.ObjectMeta{Name: "dangling"},
			RoleRef:    rbacv1.RoleRef{Kind: "ClusterRole", Name: "view"},
		},
		&rbacv1.ClusterRoleBinding{
			ObjectMeta: metav1.ObjectMeta{Name: "used"},
			RoleRef:    rbacv1.RoleRef{Kind: "ClusterRole", Name: "edit"},
			Subjects:   []rbacv1.Subject{{Kind: "Group", Name: "devs"}},
		},
	)
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "cluster_role_bindings", Action: "find_without_subjects",
	})
	assert.Equal(t, "ClusterRoleBindings without subjects:\ndangling", got)
}

func TestNamespaceFindTerminating(t *testing.T) {
	eng := newTestEngine(
		&corev1.Namespace{
			ObjectMeta: metav1.ObjectMeta{Name: "doomed"},
			Status:     corev1.NamespaceStatus{Phase: corev1.NamespaceTerminating},
		},
		&corev1.Namespace{
			ObjectMeta: metav1.ObjectMeta{Name: "healthy"},
			Status:     corev1.NamespaceStatus{Phase: corev1.NamespaceActive},
		},
	)
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "namespace", Action: "find_terminating",
	})
	assert.Equal(t, "Namespaces in 'Terminating' state:\ndoomed", got)
}

func TestServiceAccountFindWithoutSecrets(t *testing.T) {
	eng := newTestEngine(
		&corev1.ServiceAccount{
			ObjectMeta: metav1.ObjectMeta{Name: "bare", Namespace: "default"},
		},
		&corev1.ServiceAccount{
			ObjectMeta: metav1.ObjectMeta{Name: "tokened", Namespace: "default"},
			Secrets:    []corev1.ObjectReference{{Name: "tokened-token"}},
		},
	)
	got := eng.Execute(context.Background(), &types.Query{
		ResourceCategory: types.CategoryCluster, ResourceType: "service_account", Action: "find_without_secrets",
	})
	assert.Equal(t, "ServiceAccounts without secrets in namespace 'default':\nbare", got)
}
