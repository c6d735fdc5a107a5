package inspect

import (
	"context"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/k8s"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/refs"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
)

// Engine holds the dispatch tables. Adding a resource kind is a single
// registration in its category's table; no branch inspects another branch.
type Engine struct {
	categories map[string]map[string]inspector
}

// NewEngine wires every inspector against the given cluster clients.
func NewEngine(clients *k8s.Clients) *Engine {
	c := clients.Clientset
	b := base{client: c}
	resolver := refs.NewResolver(c)

	return &Engine{
		categories: map[string]map[string]inspector{
			types.CategoryWorkload: {
				"deployment":  &deploymentInspector{base: b},
				"pod":         &podInspector{base: b},
				"replicaset":  &replicaSetInspector{base: b},
				"statefulset": &statefulSetInspector{base: b},
				"daemonset":   &daemonSetInspector{base: b},
				"job":         &jobInspector{base: b},
				"cronjob":     &cronJobInspector{base: b},
			},
			types.CategoryServices: {
				"service":       &serviceInspector{base: b},
				"ingress":       &ingressInspector{base: b},
				"ingress_class": &ingressClassInspector{base: b},
			},
			types.CategoryConfigStorage: {
				"config_maps":   &configMapInspector{base: b, resolver: resolver},
				"secrets":       &secretInspector{base: b, resolver: resolver},
				"pv":            &pvcInspector{base: b, resolver: resolver},
				"storage_class": &storageClassInspector{base: b},
			},
			types.CategoryCluster: {
				"node":                  &nodeInspector{base: b},
				"namespace":             &namespaceInspector{base: b},
				"event":                 &eventInspector{base: b},
				"pv":                    &persistentVolumeInspector{base: b},
				"role":                  &roleInspector{base: b},
				"role_binding":          &roleBindingInspector{base: b},
				"cluster_role":          &clusterRoleInspector{base: b},
				// Both spellings show up in extractor output.
				"cluster_role_binding":  &clusterRoleBindingInspector{base: b},
				"cluster_role_bindings": &clusterRoleBindingInspector{base: b},
				"service_account":       &serviceAccountInspector{base: b},
				"network_policy":        &networkPolicyInspector{base: b},
			},
		},
	}
}

// Execute routes a query to its inspector and always returns text. Unknown
// categories and types resolve to fixed answers rather than errors.
func (e *Engine) Execute(ctx context.Context, q *types.Query) string {
	q.Normalize()

	kinds, ok := e.categories[q.ResourceCategory]
	if !ok {
		return format.UnknownCategory
	}
	insp, ok := kinds[q.ResourceType]
	if !ok {
		return format.UnknownType
	}
	return insp.Inspect(ctx, q)
}
