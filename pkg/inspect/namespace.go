package inspect

import (
	"context"
	"fmt"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type namespaceInspector struct {
	base
}

func (i *namespaceInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "details" && q.SpecificName != "":
		return i.details(ctx, q.SpecificName)
	case q.Action == "resources" && q.SpecificName != "":
		return i.resources(ctx, q.SpecificName)
	case q.Action == "status" && q.SpecificName != "":
		return i.status(ctx, q.SpecificName)
	case q.Action == "annotations" && q.SpecificName != "":
		return i.annotations(ctx, q.SpecificName)
	case q.Action == "find_empty":
		return i.findEmpty(ctx)
	case q.Action == "resource_quotas" && q.SpecificName != "":
		return i.resourceQuotas(ctx, q.SpecificName)
	case q.Action == "network_policies" && q.SpecificName != "":
		return i.networkPolicies(ctx, q.SpecificName)
	case q.Action == "events" && q.SpecificName != "":
		return i.events(ctx, q.SpecificName)
	case q.Action == "find_terminating":
		return i.findTerminating(ctx)
	default:
		return format.Unsupported("namespace")
	}
}

func (i *namespaceInspector) list(ctx context.Context, q *types.Query) string {
	selector := q.Selector()
	list, err := i.client.CoreV1().Namespaces().List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return i.providerError("Error listing namespaces", "list", "Namespace", "", "", err)
	}

	var names []string
	for _, ns := range list.Items {
		names = append(names, ns.Name)
	}
	if selector != "" {
		if len(names) == 0 {
			return fmt.Sprintf("No namespaces found with label '%s'.", selector)
		}
		return format.Block(fmt.Sprintf("Namespaces with label '%s':", selector), names)
	}
	if len(names) == 0 {
		return format.NoneFound("namespaces")
	}
	return format.Comma(names)
}

func (i *namespaceInspector) details(ctx context.Context, name string) string {
	ns, err := i.client.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving namespace details", "get", "Namespace", "", name, err)
	}

	var annotations []string
	for _, kv := range format.KeyValues(ns.Annotations) {
		annotations = append(annotations, "    "+kv)
	}
	var labels []string
	for _, kv := range format.KeyValues(ns.Labels) {
		labels = append(labels, "    "+kv)
	}
	return fmt.Sprintf("Namespace '%s' details:\n  Status: %s\n  Annotations:\n%s\n  Labels:\n%s",
		name, ns.Status.Phase, sectionOrNone(annotations), sectionOrNone(labels))
}

func (i *namespaceInspector) resources(ctx context.Context, name string) string {
	pods, err := i.client.CoreV1().Pods(name).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error retrieving namespace resources", "list", "Pod", name, "", err)
	}
	services, err := i.client.CoreV1().Services(name).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error retrieving namespace resources", "list", "Service", name, "", err)
	}
	deployments, err := i.client.AppsV1().Deployments(name).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error retrieving namespace resources", "list", "Deployment", name, "", err)
	}
	statefulSets, err := i.client.AppsV1().StatefulSets(name).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error retrieving namespace resources", "list", "StatefulSet", name, "", err)
	}
	daemonSets, err := i.client.AppsV1().DaemonSets(name).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error retrieving namespace resources", "list", "DaemonSet", name, "", err)
	}
	jobs, err := i.client.BatchV1().Jobs(name).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error retrieving namespace resources", "list", "Job", name, "", err)
	}
	cronJobs, err := i.client.BatchV1().CronJobs(name).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error retrieving namespace resources", "list", "CronJob", name, "", err)
	}
	policies, err := i.client.NetworkingV1().NetworkPolicies(name).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error retrieving namespace resources", "list", "NetworkPolicy", name, "", err)
	}

	return fmt.Sprintf("Resources in namespace '%s':\n  Pods: [%s]\n  Services: [%s]\n  Deployments: [%s]\n  StatefulSets: [%s]\n  DaemonSets: [%s]\n  Jobs: [%s]\n  CronJobs: [%s]\n  NetworkPolicies: [%s]",
		name,
		format.Comma(objectNames(pods.Items)),
		format.Comma(objectNames(services.Items)),
		format.Comma(objectNames(deployments.Items)),
		format.Comma(objectNames(statefulSets.Items)),
		format.Comma(objectNames(daemonSets.Items)),
		format.Comma(objectNames(jobs.Items)),
		format.Comma(objectNames(cronJobs.Items)),
		format.Comma(objectNames(policies.Items)))
}

func objectNames[T any, PT interface {
	*T
	GetName() string
}](items []T) []string {
	out := make([]string, 0, len(items))
	for idx := range items {
		out = append(out, PT(&items[idx]).GetName())
	}
	return out
}

func (i *namespaceInspector) status(ctx context.Context, name string) string {
	ns, err := i.client.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving namespace status", "get", "Namespace", "", name, err)
	}
	return fmt.Sprintf("Namespace '%s' status: %s", name, ns.Status.Phase)
}

func (i *namespaceInspector) annotations(ctx context.Context, name string) string {
	ns, err := i.client.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving namespace annotations", "get", "Namespace", "", name, err)
	}
	if len(ns.Annotations) == 0 {
		return fmt.Sprintf("Namespace '%s' has no annotations.", name)
	}
	return format.Block(fmt.Sprintf("Annotations for namespace '%s':", name), format.KeyValues(ns.Annotations))
}

// findEmpty reports namespaces with no pods, deployments, statefulsets or
// daemonsets.
func (i *namespaceInspector) findEmpty(ctx context.Context) string {
	list, err := i.client.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error finding empty namespaces", "list", "Namespace", "", "", err)
	}

	var empty []string
	for _, ns := range list.Items {
		pods, err := i.client.CoreV1().Pods(ns.Name).List(ctx, metav1.ListOptions{})
		if err != nil {
			return i.providerError("Error finding empty namespaces", "list", "Pod", ns.Name, "", err)
		}
		deployments, err := i.client.AppsV1().Deployments(ns.Name).List(ctx, metav1.ListOptions{})
		if err != nil {
			return i.providerError("Error finding empty namespaces", "list", "Deployment", ns.Name, "", err)
		}
		statefulSets, err := i.client.AppsV1().StatefulSets(ns.Name).List(ctx, metav1.ListOptions{})
		if err != nil {
			return i.providerError("Error finding empty namespaces", "list", "StatefulSet", ns.Name, "", err)
		}
		daemonSets, err := i.client.AppsV1().DaemonSets(ns.Name).List(ctx, metav1.ListOptions{})
		if err != nil {
			return i.providerError("Error finding empty namespaces", "list", "DaemonSet", ns.Name, "", err)
		}
		if len(pods.Items)+len(deployments.Items)+len(statefulSets.Items)+len(daemonSets.Items) == 0 {
			empty = append(empty, ns.Name)
		}
	}
	if len(empty) == 0 {
		return "All namespaces have workloads."
	}
	return format.Block("Empty Namespaces (no workloads):", empty)
}

func (i *namespaceInspector) resourceQuotas(ctx context.Context, name string) string {
	quotas, err := i.client.CoreV1().ResourceQuotas(name).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error retrieving resource quotas", "list", "ResourceQuota", name, "", err)
	}
	if len(quotas.Items) == 0 {
		return fmt.Sprintf("No resource quotas set for namespace '%s'.", name)
	}

	var lines []string
	for _, rq := range quotas.Items {
		lines = append(lines, rq.Name+":")
		for _, res := range format.SortedKeys(rq.Status.Hard) {
			hard := rq.Status.Hard[res]
			used := rq.Status.Used[res]
			lines = append(lines, fmt.Sprintf("  %s: %s used of %s", res, used.String(), hard.String()))
		}
	}
	return format.Block(fmt.Sprintf("Resource Quotas for namespace '%s':", name), lines)
}

func (i *namespaceInspector) networkPolicies(ctx context.Context, name string) string {
	policies, err := i.client.NetworkingV1().NetworkPolicies(name).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error retrieving network policies", "list", "NetworkPolicy", name, "", err)
	}
	if len(policies.Items) == 0 {
		return fmt.Sprintf("No network policies found in namespace '%s'.", name)
	}
	var names []string
	for _, p := range policies.Items {
		names = append(names, p.Name)
	}
	return format.Block(fmt.Sprintf("Network Policies in namespace '%s':", name), names)
}

func (i *namespaceInspector) events(ctx context.Context, name string) string {
	events, err := i.client.CoreV1().Events(name).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error retrieving namespace events", "list", "Event", name, "", err)
	}
	if len(events.Items) == 0 {
		return fmt.Sprintf("No events found in namespace '%s'.", name)
	}
	var lines []string
	for _, e := range events.Items {
		lines = append(lines, fmt.Sprintf("[%s] %s %s on %s/%s: %s",
			format.EventTime(eventTimestamp(e)), e.Type, e.Reason,
			e.InvolvedObject.Kind, e.InvolvedObject.Name, e.Message))
	}
	return format.Block(fmt.Sprintf("Events in namespace '%s':", name), lines)
}

func (i *namespaceInspector) findTerminating(ctx context.Context) string {
	list, err := i.client.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error finding terminating namespaces", "list", "Namespace", "", "", err)
	}

	var names []string
	for _, ns := range list.Items {
		if ns.Status.Phase == corev1.NamespaceTerminating {
			names = append(names, ns.Name)
		}
	}
	if len(names) == 0 {
		return "No namespaces are in 'Terminating' state."
	}
	return format.Block("Namespaces in 'Terminating' state:", names)
}
