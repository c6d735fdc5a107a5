package inspect

import (
	"context"
	"fmt"
	"sort"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/refs"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type secretInspector struct {
	base
	resolver *refs.Resolver
}

func (i *secretInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "details" && q.SpecificName != "":
		return i.details(ctx, q.Namespace, q.SpecificName)
	case q.Action == "type" && q.SpecificName != "":
		return i.secretType(ctx, q.Namespace, q.SpecificName)
	case q.Action == "keys" && q.SpecificName != "":
		return i.keys(ctx, q.Namespace, q.SpecificName)
	case q.Action == "used_by" && q.SpecificName != "":
		return i.usedBy(ctx, q.Namespace, q.SpecificName)
	case q.Action == "annotations" && q.SpecificName != "":
		return i.annotations(ctx, q.Namespace, q.SpecificName)
	case q.Action == "unused":
		return i.unused(ctx, q)
	case q.Action == "image_pull_secrets":
		return i.imagePullSecrets(ctx, q.Namespace)
	case q.Action == "used_as_env":
		return i.usedAsEnv(ctx, q.Namespace)
	default:
		return format.Unsupported("secret")
	}
}

func (i *secretInspector) list(ctx context.Context, q *types.Query) string {
	list, err := i.client.CoreV1().Secrets(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing secrets", "list", "Secret", q.Namespace, "", err)
	}

	if q.Filters.SecretType != "" {
		var names []string
		for _, s := range list.Items {
			if string(s.Type) == q.Filters.SecretType {
				names = append(names, s.Name)
			}
		}
		if len(names) == 0 {
			return fmt.Sprintf("No secrets of type '%s' found.", q.Filters.SecretType)
		}
		return format.Block(fmt.Sprintf("Secrets of type '%s':", q.Filters.SecretType), names)
	}

	if len(list.Items) == 0 {
		return format.NoneFound("secrets")
	}
	var names []string
	for _, s := range list.Items {
		names = append(names, s.Name)
	}
	return format.Comma(names)
}

func (i *secretInspector) details(ctx context.Context, namespace, name string) string {
	secret, err := i.client.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving secret details", "get", "Secret", namespace, name, err)
	}
	return fmt.Sprintf("Secret '%s' details:\n  Type: %s\n  Data Keys: %s",
		name, secret.Type, format.Comma(format.SortedKeys(secret.Data)))
}

func (i *secretInspector) secretType(ctx context.Context, namespace, name string) string {
	secret, err := i.client.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving secret type", "get", "Secret", namespace, name, err)
	}
	return fmt.Sprintf("Secret '%s' is of type: %s", name, secret.Type)
}

func (i *secretInspector) keys(ctx context.Context, namespace, name string) string {
	secret, err := i.client.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving secret keys", "get", "Secret", namespace, name, err)
	}
	return fmt.Sprintf("Secret '%s' keys: %s", name, format.Comma(format.SortedKeys(secret.Data)))
}

func (i *secretInspector) usedBy(ctx context.Context, namespace, name string) string {
	snap, err := i.resolver.Scan(ctx, namespace)
	if err != nil {
		return i.providerError("Error finding workloads using secret", "scan", "Secret", namespace, name, err)
	}
	consumers := snap.ConsumersOf(refs.Target{Kind: refs.KindSecret, Name: name})
	if len(consumers) == 0 {
		return fmt.Sprintf("No workloads are using Secret '%s'.", name)
	}

	var lines []string
	for _, c := range consumers {
		lines = append(lines, c.String())
	}
	return format.Block(fmt.Sprintf("Workloads using Secret '%s':", name), lines)
}

func (i *secretInspector) annotations(ctx context.Context, namespace, name string) string {
	secret, err := i.client.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving secret annotations", "get", "Secret", namespace, name, err)
	}
	if len(secret.Annotations) == 0 {
		return fmt.Sprintf("Secret '%s' has no annotations.", name)
	}
	return format.Block(fmt.Sprintf("Secret '%s' annotations:", name), format.KeyValues(secret.Annotations))
}

func (i *secretInspector) unused(ctx context.Context, q *types.Query) string {
	list, err := i.client.CoreV1().Secrets(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error retrieving unused secrets", "list", "Secret", q.Namespace, "", err)
	}
	if len(list.Items) == 0 {
		return format.NoneFound("secrets")
	}

	snap, err := i.resolver.Scan(ctx, q.Namespace)
	if err != nil {
		return i.providerError("Error retrieving unused secrets", "scan", "Secret", q.Namespace, "", err)
	}

	var unused []string
	for _, s := range list.Items {
		if len(snap.ConsumersOf(refs.Target{Kind: refs.KindSecret, Name: s.Name})) == 0 {
			unused = append(unused, s.Name)
		}
	}
	if len(unused) == 0 {
		return "All Secrets are used by workloads."
	}
	return format.Block("Unused Secrets:", unused)
}

func (i *secretInspector) imagePullSecrets(ctx context.Context, namespace string) string {
	pods, err := i.client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error retrieving imagePullSecrets", "list", "Pod", namespace, "", err)
	}

	seen := map[string]struct{}{}
	for _, pod := range pods.Items {
		for _, ref := range pod.Spec.ImagePullSecrets {
			seen[ref.Name] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return "No secrets used as imagePullSecrets."
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return format.Block("Secrets used as imagePullSecrets:", names)
}

func (i *secretInspector) usedAsEnv(ctx context.Context, namespace string) string {
	snap, err := i.resolver.Scan(ctx, namespace)
	if err != nil {
		return i.providerError("Error finding workloads using secrets as env", "scan", "Secret", namespace, "", err)
	}

	var lines []string
	for _, w := range snap.Workloads() {
		if podSpecUsesSecretEnv(w.Spec) {
			lines = append(lines, w.Consumer.String())
		}
	}
	if len(lines) == 0 {
		return "No workloads are using secrets as environment variables."
	}
	return format.Block("Workloads using secrets as environment variables:", lines)
}

func podSpecUsesSecretEnv(spec *corev1.PodSpec) bool {
	containers := append(append([]corev1.Container{}, spec.Containers...), spec.InitContainers...)
	for _, c := range containers {
		for _, envFrom := range c.EnvFrom {
			if envFrom.SecretRef != nil {
				return true
			}
		}
		for _, env := range c.Env {
			if env.ValueFrom != nil && env.ValueFrom.SecretKeyRef != nil {
				return true
			}
		}
	}
	return false
}
