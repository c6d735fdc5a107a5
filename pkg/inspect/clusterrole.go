package inspect

import (
	"context"
	"fmt"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type clusterRoleInspector struct {
	base
}

func (i *clusterRoleInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "details" && q.SpecificName != "":
		return i.details(ctx, q.SpecificName)
	case q.Action == "find_by_permission" && len(q.Filters.Verbs) > 0 && len(q.Filters.Resources) > 0:
		return i.findByPermission(ctx, q.Filters.Verbs, q.Filters.Resources)
	case q.Action == "annotations" && q.SpecificName != "":
		return i.annotations(ctx, q.SpecificName)
	default:
		return format.Unsupported("cluster role")
	}
}

func (i *clusterRoleInspector) list(ctx context.Context, q *types.Query) string {
	list, err := i.client.RbacV1().ClusterRoles().List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing cluster roles", "list", "ClusterRole", "", "", err)
	}
	if len(list.Items) == 0 {
		return format.NoneFound("cluster roles")
	}
	var names []string
	for _, cr := range list.Items {
		names = append(names, cr.Name)
	}
	return format.Comma(names)
}

func (i *clusterRoleInspector) details(ctx context.Context, name string) string {
	cr, err := i.client.RbacV1().ClusterRoles().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving cluster role details", "get", "ClusterRole", "", name, err)
	}
	return fmt.Sprintf("ClusterRole '%s':\nRules:\n%s", name, format.Lines(ruleLines(cr.Rules)))
}

func (i *clusterRoleInspector) findByPermission(ctx context.Context, verbs, resources []string) string {
	list, err := i.client.RbacV1().ClusterRoles().List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error finding cluster roles by permission", "list", "ClusterRole", "", "", err)
	}

	var names []string
	for _, cr := range list.Items {
		if rulesGrant(cr.Rules, verbs, resources) {
			names = append(names, cr.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("No ClusterRoles found with verbs %v on resources %v.", verbs, resources)
	}
	return format.Block(fmt.Sprintf("ClusterRoles with verbs %v on resources %v:", verbs, resources), names)
}

func (i *clusterRoleInspector) annotations(ctx context.Context, name string) string {
	cr, err := i.client.RbacV1().ClusterRoles().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving cluster role annotations", "get", "ClusterRole", "", name, err)
	}
	if len(cr.Annotations) == 0 {
		return fmt.Sprintf("ClusterRole '%s' has no annotations.", name)
	}
	return format.Block(fmt.Sprintf("ClusterRole '%s' annotations:", name), format.KeyValues(cr.Annotations))
}
