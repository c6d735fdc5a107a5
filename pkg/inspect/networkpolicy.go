package inspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
)

type networkPolicyInspector struct {
	base
}

func (i *networkPolicyInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "details" && q.SpecificName != "":
		return i.details(ctx, q.Namespace, q.SpecificName)
	case q.Action == "pods_affected" && q.SpecificName != "":
		return i.podsAffected(ctx, q.Namespace, q.SpecificName)
	case q.Action == "policies_affecting_pod" && q.SpecificName != "":
		return i.policiesAffectingPod(ctx, q.Namespace, q.SpecificName)
	case q.Action == "list_by_ingress_rule":
		return i.listByIngressRule(ctx, q.Namespace, q.Filters.Port)
	case q.Action == "annotations" && q.SpecificName != "":
		return i.annotations(ctx, q.Namespace, q.SpecificName)
	default:
		return format.Unsupported("network policy")
	}
}

func (i *networkPolicyInspector) list(ctx context.Context, q *types.Query) string {
	list, err := i.client.NetworkingV1().NetworkPolicies(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing network policies", "list", "NetworkPolicy", q.Namespace, "", err)
	}
	if len(list.Items) == 0 {
		return fmt.Sprintf("No network policies found in namespace '%s'.", q.Namespace)
	}
	var names []string
	for _, p := range list.Items {
		names = append(names, p.Name)
	}
	return format.Block(fmt.Sprintf("Network Policies in namespace '%s':", q.Namespace), names)
}

func (i *networkPolicyInspector) details(ctx context.Context, namespace, name string) string {
	policy, err := i.client.NetworkingV1().NetworkPolicies(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving network policy details", "get", "NetworkPolicy", namespace, name, err)
	}

	selector := labels.Set(policy.Spec.PodSelector.MatchLabels).String()
	if selector == "" {
		selector = "<all pods>"
	}
	var policyTypes []string
	for _, t := range policy.Spec.PolicyTypes {
		policyTypes = append(policyTypes, string(t))
	}

	var ingress []string
	for _, rule := range policy.Spec.Ingress {
		ingress = append(ingress, "    - From: "+peerSummary(rule.From)+", Ports: "+portSummary(rule.Ports))
	}
	var egress []string
	for _, rule := range policy.Spec.Egress {
		egress = append(egress, "    - To: "+peerSummary(rule.To)+", Ports: "+portSummary(rule.Ports))
	}

	return fmt.Sprintf("Network Policy '%s' in namespace '%s':\n  Pod Selector: %s\n  Policy Types: %s\n  Ingress Rules:\n%s\n  Egress Rules:\n%s",
		name, namespace, selector, format.Comma(policyTypes), sectionOrNone(ingress), sectionOrNone(egress))
}

func (i *networkPolicyInspector) podsAffected(ctx context.Context, namespace, name string) string {
	policy, err := i.client.NetworkingV1().NetworkPolicies(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving pods affected by network policy", "get", "NetworkPolicy", namespace, name, err)
	}

	selector := labels.Set(policy.Spec.PodSelector.MatchLabels).String()
	pods, err := i.client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return i.providerError("Error retrieving pods affected by network policy", "list", "Pod", namespace, name, err)
	}
	if len(pods.Items) == 0 {
		return fmt.Sprintf("No pods are selected by Network Policy '%s'.", name)
	}
	var names []string
	for _, p := range pods.Items {
		names = append(names, p.Name)
	}
	return format.Block(fmt.Sprintf("Pods affected by Network Policy '%s':", name), names)
}

func (i *networkPolicyInspector) policiesAffectingPod(ctx context.Context, namespace, podName string) string {
	pod, err := i.client.CoreV1().Pods(namespace).Get(ctx, podName, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving network policies affecting pod", "get", "Pod", namespace, podName, err)
	}
	policies, err := i.client.NetworkingV1().NetworkPolicies(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error retrieving network policies affecting pod", "list", "NetworkPolicy", namespace, podName, err)
	}

	podLabels := labels.Set(pod.Labels)
	var names []string
	for _, policy := range policies.Items {
		sel, err := metav1.LabelSelectorAsSelector(&policy.Spec.PodSelector)
		if err != nil {
			continue
		}
		if sel.Matches(podLabels) {
			names = append(names, policy.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("No Network Policies affect Pod '%s' in namespace '%s'.", podName, namespace)
	}
	return format.Block(fmt.Sprintf("Network Policies affecting Pod '%s':", podName), names)
}

func (i *networkPolicyInspector) listByIngressRule(ctx context.Context, namespace string, port int) string {
	list, err := i.client.NetworkingV1().NetworkPolicies(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return i.providerError("Error listing network policies by ingress rule", "list", "NetworkPolicy", namespace, "", err)
	}

	var names []string
	for _, policy := range list.Items {
		if policyHasIngressPort(policy.Spec.Ingress, port) {
			names = append(names, policy.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("No Network Policies found with specified ingress rules in namespace '%s'.", namespace)
	}
	if port > 0 {
		return format.Block(fmt.Sprintf("Network Policies with ingress rules on port %d:", port), names)
	}
	return format.Block("Network Policies with ingress rules:", names)
}

func (i *networkPolicyInspector) annotations(ctx context.Context, namespace, name string) string {
	policy, err := i.client.NetworkingV1().NetworkPolicies(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving network policy annotations", "get", "NetworkPolicy", namespace, name, err)
	}
	if len(policy.Annotations) == 0 {
		return fmt.Sprintf("No annotations found for network policy '%s' in namespace '%s'.", name, namespace)
	}
	return format.Block(fmt.Sprintf("Annotations for network policy '%s' in namespace '%s':", name, namespace),
		format.KeyValues(policy.Annotations))
}

func policyHasIngressPort(rules []networkingv1.NetworkPolicyIngressRule, port int) bool {
	if port <= 0 {
		return len(rules) > 0
	}
	for _, rule := range rules {
		for _, p := range rule.Ports {
			if p.Port != nil && p.Port.IntValue() == port {
				return true
			}
		}
	}
	return false
}

func peerSummary(peers []networkingv1.NetworkPolicyPeer) string {
	if len(peers) == 0 {
		return "<any>"
	}
	var parts []string
	for _, p := range peers {
		switch {
		case p.IPBlock != nil:
			parts = append(parts, "ipBlock "+p.IPBlock.CIDR)
		case p.PodSelector != nil && p.NamespaceSelector != nil:
			parts = append(parts, "pods "+labels.Set(p.PodSelector.MatchLabels).String()+" in namespaces "+labels.Set(p.NamespaceSelector.MatchLabels).String())
		case p.PodSelector != nil:
			parts = append(parts, "pods "+labels.Set(p.PodSelector.MatchLabels).String())
		case p.NamespaceSelector != nil:
			parts = append(parts, "namespaces "+labels.Set(p.NamespaceSelector.MatchLabels).String())
		}
	}
	return strings.Join(parts, "; ")
}

func portSummary(ports []networkingv1.NetworkPolicyPort) string {
	if len(ports) == 0 {
		return "<any>"
	}
	var parts []string
	for _, p := range ports {
		proto := "TCP"
		if p.Protocol != nil {
			proto = string(*p.Protocol)
		}
		if p.Port != nil {
			parts = append(parts, fmt.Sprintf("%s/%s", proto, p.Port.String()))
		} else {
			parts = append(parts, proto)
		}
	}
	return strings.Join(parts, ", ")
}
