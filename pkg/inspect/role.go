package inspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type roleInspector struct {
	base
}

func (i *roleInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "details" && q.SpecificName != "":
		return i.details(ctx, q.Namespace, q.SpecificName)
	case q.Action == "find_by_permission" && len(q.Filters.Verbs) > 0 && len(q.Filters.Resources) > 0:
		return i.findByPermission(ctx, q.Namespace, q.Filters.Verbs, q.Filters.Resources)
	case q.Action == "annotations" && q.SpecificName != "":
		return i.annotations(ctx, q.Namespace, q.SpecificName)
	default:
		return format.Unsupported("role")
	}
}

func (i *roleInspector) list(ctx context.Context, q *types.Query) string {
	list, err := i.client.RbacV1().Roles(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing roles", "list", "Role", q.Namespace, "", err)
	}
	if len(list.Items) == 0 {
		return fmt.Sprintf("No roles found in namespace '%s'.", q.Namespace)
	}
	var names []string
	for _, r := range list.Items {
		names = append(names, r.Name)
	}
	return format.Block(fmt.Sprintf("Roles in namespace '%s':", q.Namespace), names)
}

func (i *roleInspector) details(ctx context.Context, namespace, name string) string {
	role, err := i.client.RbacV1().Roles(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving role details", "get", "Role", namespace, name, err)
	}
	return fmt.Sprintf("Role '%s' in namespace '%s':\nRules:\n%s", name, namespace, format.Lines(ruleLines(role.Rules)))
}

func (i *roleInspector) findByPermission(ctx context.Context, namespace string, verbs, resources []string) string {
	list, err := i.client.RbacV1().Roles(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error finding roles by permission", "list", "Role", namespace, "", err)
	}

	var names []string
	for _, r := range list.Items {
		if rulesGrant(r.Rules, verbs, resources) {
			names = append(names, r.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("No Roles found with verbs %v on resources %v in namespace '%s'.", verbs, resources, namespace)
	}
	return format.Block(fmt.Sprintf("Roles with verbs %v on resources %v in namespace '%s':", verbs, resources, namespace), names)
}

func (i *roleInspector) annotations(ctx context.Context, namespace, name string) string {
	role, err := i.client.RbacV1().Roles(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving role annotations", "get", "Role", namespace, name, err)
	}
	if len(role.Annotations) == 0 {
		return fmt.Sprintf("No annotations found for role '%s' in namespace '%s'.", name, namespace)
	}
	return format.Block(fmt.Sprintf("Annotations for role '%s' in namespace '%s':", name, namespace), format.KeyValues(role.Annotations))
}

func ruleLines(rules []rbacv1.PolicyRule) []string {
	if len(rules) == 0 {
		return []string{"  None"}
	}
	var lines []string
	for _, r := range rules {
		lines = append(lines, fmt.Sprintf("  - API Groups: %s", strings.Join(r.APIGroups, ", ")))
		lines = append(lines, fmt.Sprintf("    Resources: %s", strings.Join(r.Resources, ", ")))
		lines = append(lines, fmt.Sprintf("    Verbs: %s", strings.Join(r.Verbs, ", ")))
	}
	return lines
}

// rulesGrant reports whether any single rule covers all requested verbs
// on all requested resources. Wildcards count as covering everything.
func rulesGrant(rules []rbacv1.PolicyRule, verbs, resources []string) bool {
	for _, r := range rules {
		if containsAll(r.Verbs, verbs) && containsAll(r.Resources, resources) {
			return true
		}
	}
	return false
}

func containsAll(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	if _, wildcard := set["*"]; wildcard {
		return true
	}
	for _, w := range want {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}
