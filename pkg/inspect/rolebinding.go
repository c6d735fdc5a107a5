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

type roleBindingInspector struct {
	base
}

func (i *roleBindingInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "details" && q.SpecificName != "":
		return i.details(ctx, q.Namespace, q.SpecificName)
	case q.Action == "subjects" && q.SpecificName != "":
		return i.subjects(ctx, q.Namespace, q.SpecificName)
	case q.Action == "role_ref" && q.SpecificName != "":
		return i.roleRef(ctx, q.Namespace, q.SpecificName)
	case q.Action == "find_by_subject" && q.Filters.SubjectKind != "" && q.Filters.SubjectName != "":
		return i.findBySubject(ctx, q.Namespace, q.Filters.SubjectKind, q.Filters.SubjectName)
	case q.Action == "find_by_role" && q.Filters.RoleName != "":
		return i.findByRole(ctx, q.Namespace, q.Filters.RoleName)
	case q.Action == "annotations" && q.SpecificName != "":
		return i.annotations(ctx, q.Namespace, q.SpecificName)
	default:
		return format.Unsupported("role binding")
	}
}

func (i *roleBindingInspector) list(ctx context.Context, q *types.Query) string {
	list, err := i.client.RbacV1().RoleBindings(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing role bindings", "list", "RoleBinding", q.Namespace, "", err)
	}
	if len(list.Items) == 0 {
		return fmt.Sprintf("No role bindings found in namespace '%s'.", q.Namespace)
	}
	var names []string
	for _, rb := range list.Items {
		names = append(names, rb.Name)
	}
	return format.Block(fmt.Sprintf("RoleBindings in namespace '%s':", q.Namespace), names)
}

func (i *roleBindingInspector) details(ctx context.Context, namespace, name string) string {
	rb, err := i.client.RbacV1().RoleBindings(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving role binding details", "get", "RoleBinding", namespace, name, err)
	}
	return fmt.Sprintf("RoleBinding '%s' in namespace '%s':\n  Role Ref: %s/%s\n  Subjects:\n%s",
		name, namespace, rb.RoleRef.Kind, rb.RoleRef.Name, format.Lines(subjectLines(rb.Subjects, "    ")))
}

func (i *roleBindingInspector) subjects(ctx context.Context, namespace, name string) string {
	rb, err := i.client.RbacV1().RoleBindings(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving role binding subjects", "get", "RoleBinding", namespace, name, err)
	}
	if len(rb.Subjects) == 0 {
		return fmt.Sprintf("RoleBinding '%s' has no subjects in namespace '%s'.", name, namespace)
	}
	return format.Block(fmt.Sprintf("Subjects for RoleBinding '%s' in namespace '%s':", name, namespace),
		subjectLines(rb.Subjects, ""))
}

func (i *roleBindingInspector) roleRef(ctx context.Context, namespace, name string) string {
	rb, err := i.client.RbacV1().RoleBindings(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving role binding role ref", "get", "RoleBinding", namespace, name, err)
	}
	return fmt.Sprintf("RoleBinding '%s' references role: %s/%s in namespace '%s'",
		name, rb.RoleRef.Kind, rb.RoleRef.Name, namespace)
}

func (i *roleBindingInspector) findBySubject(ctx context.Context, namespace, kind, subjectName string) string {
	list, err := i.client.RbacV1().RoleBindings(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error finding role bindings by subject", "list", "RoleBinding", namespace, "", err)
	}

	var names []string
	for _, rb := range list.Items {
		if bindingHasSubject(rb.Subjects, kind, subjectName) {
			names = append(names, rb.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("No RoleBindings found including %s '%s' in namespace '%s'.", kind, subjectName, namespace)
	}
	return format.Block(fmt.Sprintf("RoleBindings including %s '%s' in namespace '%s':", kind, subjectName, namespace), names)
}

func (i *roleBindingInspector) findByRole(ctx context.Context, namespace, roleName string) string {
	list, err := i.client.RbacV1().RoleBindings(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error finding role bindings by role", "list", "RoleBinding", namespace, "", err)
	}

	var names []string
	for _, rb := range list.Items {
		if rb.RoleRef.Kind == "Role" && rb.RoleRef.Name == roleName {
			names = append(names, rb.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("No RoleBindings found referencing Role '%s' in namespace '%s'.", roleName, namespace)
	}
	return format.Block(fmt.Sprintf("RoleBindings referencing Role '%s' in namespace '%s':", roleName, namespace), names)
}

func (i *roleBindingInspector) annotations(ctx context.Context, namespace, name string) string {
	rb, err := i.client.RbacV1().RoleBindings(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving role binding annotations", "get", "RoleBinding", namespace, name, err)
	}
	if len(rb.Annotations) == 0 {
		return fmt.Sprintf("No annotations found for role binding '%s' in namespace '%s'.", name, namespace)
	}
	return format.Block(fmt.Sprintf("Annotations for role binding '%s' in namespace '%s':", name, namespace),
		format.KeyValues(rb.Annotations))
}

func subjectLines(subjects []rbacv1.Subject, indent string) []string {
	if len(subjects) == 0 {
		return []string{indent + "None"}
	}
	var lines []string
	for _, s := range subjects {
		ns := s.Namespace
		if ns == "" {
			ns = "N/A"
		}
		lines = append(lines, fmt.Sprintf("%sKind: %s, Name: %s, Namespace: %s", indent, s.Kind, s.Name, ns))
	}
	return lines
}

func bindingHasSubject(subjects []rbacv1.Subject, kind, name string) bool {
	for _, s := range subjects {
		if strings.EqualFold(s.Kind, kind) && s.Name == name {
			return true
		}
	}
	return false
}
