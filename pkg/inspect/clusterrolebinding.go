package inspect

import (
	"context"
	"fmt"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type clusterRoleBindingInspector struct {
	base
}

func (i *clusterRoleBindingInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "details" && q.SpecificName != "":
		return i.details(ctx, q.SpecificName)
	case q.Action == "subjects" && q.SpecificName != "":
		return i.subjects(ctx, q.SpecificName)
	case q.Action == "role_ref" && q.SpecificName != "":
		return i.roleRef(ctx, q.SpecificName)
	case q.Action == "find_by_subject" && q.Filters.SubjectKind != "" && q.Filters.SubjectName != "":
		return i.findBySubject(ctx, q.Filters.SubjectKind, q.Filters.SubjectName)
	case q.Action == "find_by_role" && q.Filters.RoleName != "":
		return i.findByRole(ctx, q.Filters.RoleName)
	case q.Action == "annotations" && q.SpecificName != "":
		return i.annotations(ctx, q.SpecificName)
	case q.Action == "find_without_subjects":
		return i.findWithoutSubjects(ctx)
	default:
		return format.Unsupported("cluster role binding")
	}
}

func (i *clusterRoleBindingInspector) list(ctx context.Context, q *types.Query) string {
	list, err := i.client.RbacV1().ClusterRoleBindings().List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing cluster role bindings", "list", "ClusterRoleBinding", "", "", err)
	}
	if len(list.Items) == 0 {
		return format.NoneFound("cluster role bindings")
	}
	var names []string
	for _, crb := range list.Items {
		names = append(names, crb.Name)
	}
	return format.Comma(names)
}

func (i *clusterRoleBindingInspector) details(ctx context.Context, name string) string {
	crb, err := i.client.RbacV1().ClusterRoleBindings().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving cluster role binding details", "get", "ClusterRoleBinding", "", name, err)
	}
	return fmt.Sprintf("ClusterRoleBinding '%s':\n  Role Ref: %s/%s\n  Subjects:\n%s",
		name, crb.RoleRef.Kind, crb.RoleRef.Name, format.Lines(subjectLines(crb.Subjects, "    ")))
}

func (i *clusterRoleBindingInspector) subjects(ctx context.Context, name string) string {
	crb, err := i.client.RbacV1().ClusterRoleBindings().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving cluster role binding subjects", "get", "ClusterRoleBinding", "", name, err)
	}
	if len(crb.Subjects) == 0 {
		return fmt.Sprintf("ClusterRoleBinding '%s' has no subjects.", name)
	}
	return format.Block(fmt.Sprintf("Subjects for ClusterRoleBinding '%s':", name), subjectLines(crb.Subjects, ""))
}

func (i *clusterRoleBindingInspector) roleRef(ctx context.Context, name string) string {
	crb, err := i.client.RbacV1().ClusterRoleBindings().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving cluster role binding role ref", "get", "ClusterRoleBinding", "", name, err)
	}
	return fmt.Sprintf("ClusterRoleBinding '%s' references role: %s/%s", name, crb.RoleRef.Kind, crb.RoleRef.Name)
}

func (i *clusterRoleBindingInspector) findBySubject(ctx context.Context, kind, subjectName string) string {
	list, err := i.client.RbacV1().ClusterRoleBindings().List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error finding cluster role bindings by subject", "list", "ClusterRoleBinding", "", "", err)
	}

	var names []string
	for _, crb := range list.Items {
		if bindingHasSubject(crb.Subjects, kind, subjectName) {
			names = append(names, crb.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("No ClusterRoleBindings found including %s '%s'.", kind, subjectName)
	}
	return format.Block(fmt.Sprintf("ClusterRoleBindings including %s '%s':", kind, subjectName), names)
}

func (i *clusterRoleBindingInspector) findByRole(ctx context.Context, roleName string) string {
	list, err := i.client.RbacV1().ClusterRoleBindings().List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error finding cluster role bindings by role", "list", "ClusterRoleBinding", "", "", err)
	}

	var names []string
	for _, crb := range list.Items {
		if crb.RoleRef.Kind == "ClusterRole" && crb.RoleRef.Name == roleName {
			names = append(names, crb.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("No ClusterRoleBindings found referencing ClusterRole '%s'.", roleName)
	}
	return format.Block(fmt.Sprintf("ClusterRoleBindings referencing ClusterRole '%s':", roleName), names)
}

func (i *clusterRoleBindingInspector) annotations(ctx context.Context, name string) string {
	crb, err := i.client.RbacV1().ClusterRoleBindings().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving cluster role binding annotations", "get", "ClusterRoleBinding", "", name, err)
	}
	if len(crb.Annotations) == 0 {
		return fmt.Sprintf("ClusterRoleBinding '%s' has no annotations.", name)
	}
	return format.Block(fmt.Sprintf("ClusterRoleBinding '%s' annotations:", name), format.KeyValues(crb.Annotations))
}

func (i *clusterRoleBindingInspector) findWithoutSubjects(ctx context.Context) string {
	list, err := i.client.RbacV1().ClusterRoleBindings().List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error finding cluster role bindings without subjects", "list", "ClusterRoleBinding", "", "", err)
	}

	var names []string
	for _, crb := range list.Items {
		if len(crb.Subjects) == 0 {
			names = append(names, crb.Name)
		}
	}
	if len(names) == 0 {
		return "All ClusterRoleBindings have subjects."
	}
	return format.Block("ClusterRoleBindings without subjects:", names)
}
