package inspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type ingressInspector struct {
	base
}

func (i *ingressInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "details" && q.SpecificName != "":
		return i.details(ctx, q.Namespace, q.SpecificName)
	case q.Action == "backend_services" && q.SpecificName != "":
		return i.backendServices(ctx, q.Namespace, q.SpecificName)
	case q.Action == "hostnames" && q.SpecificName != "":
		return i.hostnames(ctx, q.Namespace, q.SpecificName)
	case q.Action == "tls" && q.SpecificName != "":
		return i.tls(ctx, q.Namespace, q.SpecificName)
	case q.Action == "rules" && q.SpecificName != "":
		return i.rules(ctx, q.Namespace, q.SpecificName)
	case q.Action == "status" && q.SpecificName != "":
		return i.status(ctx, q.Namespace, q.SpecificName)
	case q.Action == "annotations" && q.SpecificName != "":
		return i.annotations(ctx, q.Namespace, q.SpecificName)
	default:
		return format.Unsupported("ingress")
	}
}

func ingressHosts(ing *networkingv1.Ingress) []string {
	if len(ing.Spec.Rules) == 0 {
		return []string{"None"}
	}
	var hosts []string
	for _, rule := range ing.Spec.Rules {
		hosts = append(hosts, rule.Host)
	}
	return hosts
}

func ingressTLSLines(ing *networkingv1.Ingress) []string {
	var lines []string
	for _, tls := range ing.Spec.TLS {
		lines = append(lines, fmt.Sprintf("Hosts: %s, Secret: %s", strings.Join(tls.Hosts, ", "), tls.SecretName))
	}
	return lines
}

func (i *ingressInspector) list(ctx context.Context, q *types.Query) string {
	list, err := i.client.NetworkingV1().Ingresses(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing ingresses", "list", "Ingress", q.Namespace, "", err)
	}
	if len(list.Items) == 0 {
		return format.NoneFound("ingresses")
	}

	var out []string
	for idx := range list.Items {
		ing := &list.Items[idx]
		out = append(out, fmt.Sprintf("%s (Hosts: %s)", ing.Name, strings.Join(ingressHosts(ing), ", ")))
	}
	return format.Comma(out)
}

func (i *ingressInspector) details(ctx context.Context, namespace, name string) string {
	ing, err := i.client.NetworkingV1().Ingresses(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving ingress details", "get", "Ingress", namespace, name, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Ingress '%s' details:\n", name)
	fmt.Fprintf(&b, "  Hosts: %s\n", strings.Join(ingressHosts(ing), ", "))
	tlsLines := ingressTLSLines(ing)
	if len(tlsLines) > 0 {
		fmt.Fprintf(&b, "  TLS: %s\n", strings.Join(tlsLines, "; "))
	} else {
		b.WriteString("  TLS: None\n")
	}
	b.WriteString("  Backend Services:\n")
	for _, rule := range ing.Spec.Rules {
		if rule.HTTP == nil {
			continue
		}
		for _, path := range rule.HTTP.Paths {
			if path.Backend.Service == nil {
				continue
			}
			fmt.Fprintf(&b, "    - Path: %s, Service: %s:%d\n",
				path.Path, path.Backend.Service.Name, path.Backend.Service.Port.Number)
		}
	}
	return b.String()
}

func (i *ingressInspector) backendServices(ctx context.Context, namespace, name string) string {
	ing, err := i.client.NetworkingV1().Ingresses(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving backend services", "get", "Ingress", namespace, name, err)
	}

	var lines []string
	for _, rule := range ing.Spec.Rules {
		if rule.HTTP == nil {
			continue
		}
		for _, path := range rule.HTTP.Paths {
			if path.Backend.Service == nil {
				continue
			}
			lines = append(lines, fmt.Sprintf("Service: %s, Path: %s", path.Backend.Service.Name, path.Path))
		}
	}
	if len(lines) == 0 {
		return fmt.Sprintf("No backend services found for ingress '%s'.", name)
	}
	return format.Lines(lines)
}

func (i *ingressInspector) hostnames(ctx context.Context, namespace, name string) string {
	ing, err := i.client.NetworkingV1().Ingresses(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving ingress hostnames", "get", "Ingress", namespace, name, err)
	}
	return fmt.Sprintf("Ingress '%s' hosts: %s", name, strings.Join(ingressHosts(ing), ", "))
}

func (i *ingressInspector) tls(ctx context.Context, namespace, name string) string {
	ing, err := i.client.NetworkingV1().Ingresses(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving TLS configuration", "get", "Ingress", namespace, name, err)
	}
	lines := ingressTLSLines(ing)
	if len(lines) == 0 {
		return fmt.Sprintf("Ingress '%s' has no TLS configuration.", name)
	}
	return format.Lines(lines)
}

func (i *ingressInspector) rules(ctx context.Context, namespace, name string) string {
	ing, err := i.client.NetworkingV1().Ingresses(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving ingress rules", "get", "Ingress", namespace, name, err)
	}
	if len(ing.Spec.Rules) == 0 {
		return fmt.Sprintf("Ingress '%s' has no rules configured.", name)
	}

	var lines []string
	for _, rule := range ing.Spec.Rules {
		if rule.HTTP == nil {
			continue
		}
		for _, path := range rule.HTTP.Paths {
			if path.Backend.Service == nil {
				continue
			}
			lines = append(lines, fmt.Sprintf("Host: %s, Path: %s, Service: %s:%d",
				rule.Host, path.Path, path.Backend.Service.Name, path.Backend.Service.Port.Number))
		}
	}
	return format.Lines(lines)
}

func (i *ingressInspector) status(ctx context.Context, namespace, name string) string {
	ing, err := i.client.NetworkingV1().Ingresses(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving ingress status", "get", "Ingress", namespace, name, err)
	}
	lb := ing.Status.LoadBalancer.Ingress
	if len(lb) == 0 {
		return fmt.Sprintf("Ingress '%s' has no available addresses.", name)
	}

	var addrs []string
	for _, entry := range lb {
		if entry.IP != "" {
			addrs = append(addrs, entry.IP)
		} else {
			addrs = append(addrs, entry.Hostname)
		}
	}
	return fmt.Sprintf("Ingress '%s' is available at addresses: %s", name, strings.Join(addrs, ", "))
}

func (i *ingressInspector) annotations(ctx context.Context, namespace, name string) string {
	ing, err := i.client.NetworkingV1().Ingresses(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving ingress annotations", "get", "Ingress", namespace, name, err)
	}
	if len(ing.Annotations) == 0 {
		return fmt.Sprintf("Ingress '%s' has no annotations.", name)
	}
	return format.Block(fmt.Sprintf("Ingress '%s' annotations:", name), format.KeyValues(ing.Annotations))
}
