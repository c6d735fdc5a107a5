package inspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type serviceInspector struct {
	base
}

func (i *serviceInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "details" && q.SpecificName != "":
		return i.details(ctx, q.Namespace, q.SpecificName)
	case q.Action == "type" && q.SpecificName != "":
		return i.serviceType(ctx, q.Namespace, q.SpecificName)
	case q.Action == "cluster_ip" && q.SpecificName != "":
		return i.clusterIP(ctx, q.Namespace, q.SpecificName)
	case q.Action == "ports" && q.SpecificName != "":
		return i.ports(ctx, q.Namespace, q.SpecificName)
	case q.Action == "selectors" && q.SpecificName != "":
		return i.selectors(ctx, q.Namespace, q.SpecificName)
	case q.Action == "annotations" && q.SpecificName != "":
		return i.annotations(ctx, q.Namespace, q.SpecificName)
	case q.Action == "endpoints" && q.SpecificName != "":
		return i.endpoints(ctx, q.Namespace, q.SpecificName)
	default:
		return format.Unsupported("service")
	}
}

func servicePortLines(ports []corev1.ServicePort) []string {
	var out []string
	for _, p := range ports {
		out = append(out, fmt.Sprintf("Port: %d, Protocol: %s, Target Port: %s", p.Port, p.Protocol, p.TargetPort.String()))
	}
	return out
}

func selectorPairs(selector map[string]string) string {
	var pairs []string
	for _, k := range format.SortedKeys(selector) {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, selector[k]))
	}
	return strings.Join(pairs, ", ")
}

func (i *serviceInspector) list(ctx context.Context, q *types.Query) string {
	list, err := i.client.CoreV1().Services(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing services", "list", "Service", q.Namespace, "", err)
	}
	if len(list.Items) == 0 {
		return format.NoneFound("services")
	}

	var out []string
	for _, svc := range list.Items {
		out = append(out, fmt.Sprintf("%s (Type: %s)", svc.Name, svc.Spec.Type))
	}
	return strings.Join(out, "; ")
}

func (i *serviceInspector) details(ctx context.Context, namespace, name string) string {
	svc, err := i.client.CoreV1().Services(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving service details", "get", "Service", namespace, name, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Service '%s' details:\n", name)
	fmt.Fprintf(&b, "  Type: %s\n", svc.Spec.Type)
	fmt.Fprintf(&b, "  Cluster IP: %s\n", svc.Spec.ClusterIP)
	fmt.Fprintf(&b, "  Ports:\n    %s", strings.Join(servicePortLines(svc.Spec.Ports), "\n    "))
	if len(svc.Spec.Selector) > 0 {
		fmt.Fprintf(&b, "\n  Selectors: %s", selectorPairs(svc.Spec.Selector))
	} else {
		b.WriteString("\n  Selectors: None")
	}
	return b.String()
}

func (i *serviceInspector) serviceType(ctx context.Context, namespace, name string) string {
	svc, err := i.client.CoreV1().Services(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving service type", "get", "Service", namespace, name, err)
	}
	return fmt.Sprintf("Service '%s' is of type: %s", name, svc.Spec.Type)
}

func (i *serviceInspector) clusterIP(ctx context.Context, namespace, name string) string {
	svc, err := i.client.CoreV1().Services(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving cluster IP", "get", "Service", namespace, name, err)
	}
	return fmt.Sprintf("Service '%s' has Cluster IP: %s", name, svc.Spec.ClusterIP)
}

func (i *serviceInspector) ports(ctx context.Context, namespace, name string) string {
	svc, err := i.client.CoreV1().Services(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving service ports", "get", "Service", namespace, name, err)
	}
	lines := servicePortLines(svc.Spec.Ports)
	if len(lines) == 0 {
		return fmt.Sprintf("Service '%s' exposes no ports.", name)
	}
	return format.Block(fmt.Sprintf("Service '%s' ports:", name), lines)
}

func (i *serviceInspector) selectors(ctx context.Context, namespace, name string) string {
	svc, err := i.client.CoreV1().Services(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving service selectors", "get", "Service", namespace, name, err)
	}
	if len(svc.Spec.Selector) == 0 {
		return fmt.Sprintf("Service '%s' has no selectors.", name)
	}
	return fmt.Sprintf("Service '%s' selectors: %s", name, selectorPairs(svc.Spec.Selector))
}

func (i *serviceInspector) annotations(ctx context.Context, namespace, name string) string {
	svc, err := i.client.CoreV1().Services(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving service annotations", "get", "Service", namespace, name, err)
	}
	if len(svc.Annotations) == 0 {
		return fmt.Sprintf("Service '%s' has no annotations.", name)
	}
	return format.Block(fmt.Sprintf("Service '%s' annotations:", name), format.KeyValues(svc.Annotations))
}

func (i *serviceInspector) endpoints(ctx context.Context, namespace, name string) string {
	eps, err := i.client.CoreV1().Endpoints(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving service endpoints", "get", "Endpoints", namespace, name, err)
	}
	if len(eps.Subsets) == 0 {
		return fmt.Sprintf("No endpoints found for service '%s'.", name)
	}

	var lines []string
	for _, subset := range eps.Subsets {
		var addrs, ports []string
		for _, a := range subset.Addresses {
			addrs = append(addrs, a.IP)
		}
		for _, p := range subset.Ports {
			ports = append(ports, fmt.Sprintf("%d", p.Port))
		}
		lines = append(lines, fmt.Sprintf("Addresses: %s, Ports: %s", strings.Join(addrs, ", "), strings.Join(ports, ", ")))
	}
	return format.Block(fmt.Sprintf("Endpoints for service '%s':", name), lines)
}
