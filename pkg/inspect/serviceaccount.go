package inspect

import (
	"context"
	"fmt"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type serviceAccountInspector struct {
	base
}

func (i *serviceAccountInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "details" && q.SpecificName != "":
		return i.details(ctx, q.Namespace, q.SpecificName)
	case q.Action == "annotations" && q.SpecificName != "":
		return i.annotations(ctx, q.Namespace, q.SpecificName)
	case q.Action == "find_without_secrets":
		return i.findWithoutSecrets(ctx, q.Namespace)
	case q.Action == "list_with_image_pull_secrets":
		return i.listWithImagePullSecrets(ctx, q.Namespace)
	default:
		return format.Unsupported("service account")
	}
}

func (i *serviceAccountInspector) list(ctx context.Context, q *types.Query) string {
	list, err := i.client.CoreV1().ServiceAccounts(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing service accounts", "list", "ServiceAccount", q.Namespace, "", err)
	}
	if len(list.Items) == 0 {
		return fmt.Sprintf("No service accounts found in namespace '%s'.", q.Namespace)
	}
	var names []string
	for _, sa := range list.Items {
		names = append(names, sa.Name)
	}
	return format.Block(fmt.Sprintf("ServiceAccounts in namespace '%s':", q.Namespace), names)
}

func (i *serviceAccountInspector) details(ctx context.Context, namespace, name string) string {
	sa, err := i.client.CoreV1().ServiceAccounts(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving service account details", "get", "ServiceAccount", namespace, name, err)
	}

	secrets := "None"
	if len(sa.Secrets) > 0 {
		var names []string
		for _, s := range sa.Secrets {
			names = append(names, s.Name)
		}
		secrets = format.Comma(names)
	}
	pullSecrets := "None"
	if len(sa.ImagePullSecrets) > 0 {
		pullSecrets = format.Comma(imagePullSecretNames(sa.ImagePullSecrets))
	}
	automount := "N/A"
	if sa.AutomountServiceAccountToken != nil {
		automount = fmt.Sprintf("%t", *sa.AutomountServiceAccountToken)
	}
	return fmt.Sprintf("ServiceAccount '%s' in namespace '%s':\n  Secrets: %s\n  Image Pull Secrets: %s\n  Automount Service Account Token: %s",
		name, namespace, secrets, pullSecrets, automount)
}

func (i *serviceAccountInspector) annotations(ctx context.Context, namespace, name string) string {
	sa, err := i.client.CoreV1().ServiceAccounts(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving service account annotations", "get", "ServiceAccount", namespace, name, err)
	}
	if len(sa.Annotations) == 0 {
		return fmt.Sprintf("No annotations found for service account '%s' in namespace '%s'.", name, namespace)
	}
	return format.Block(fmt.Sprintf("Annotations for service account '%s' in namespace '%s':", name, namespace),
		format.KeyValues(sa.Annotations))
}

func (i *serviceAccountInspector) findWithoutSecrets(ctx context.Context, namespace string) string {
	list, err := i.client.CoreV1().ServiceAccounts(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error finding service accounts without secrets", "list", "ServiceAccount", namespace, "", err)
	}

	var names []string
	for _, sa := range list.Items {
		if len(sa.Secrets) == 0 {
			names = append(names, sa.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("All ServiceAccounts have secrets in namespace '%s'.", namespace)
	}
	return format.Block(fmt.Sprintf("ServiceAccounts without secrets in namespace '%s':", namespace), names)
}

func (i *serviceAccountInspector) listWithImagePullSecrets(ctx context.Context, namespace string) string {
	list, err := i.client.CoreV1().ServiceAccounts(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error listing service accounts with image pull secrets", "list", "ServiceAccount", namespace, "", err)
	}

	var lines []string
	for _, sa := range list.Items {
		if len(sa.ImagePullSecrets) > 0 {
			lines = append(lines, fmt.Sprintf("%s (%s)", sa.Name, format.Comma(imagePullSecretNames(sa.ImagePullSecrets))))
		}
	}
	if len(lines) == 0 {
		return fmt.Sprintf("No ServiceAccounts with image pull secrets found in namespace '%s'.", namespace)
	}
	return format.Block(fmt.Sprintf("ServiceAccounts with image pull secrets in namespace '%s':", namespace), lines)
}

func imagePullSecretNames(refs []corev1.LocalObjectReference) []string {
	names := make([]string, len(refs))
	for idx, r := range refs {
		names[idx] = r.Name
	}
	return names
}
