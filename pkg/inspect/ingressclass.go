package inspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type ingressClassInspector struct {
	base
}

func (i *ingressClassInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "details" && q.SpecificName != "":
		return i.details(ctx, q.SpecificName)
	case q.Action == "controller" && q.SpecificName != "":
		return i.controller(ctx, q.SpecificName)
	case q.Action == "parameters" && q.SpecificName != "":
		return i.parameters(ctx, q.SpecificName)
	case q.Action == "annotations" && q.SpecificName != "":
		return i.annotations(ctx, q.SpecificName)
	default:
		return format.Unsupported("ingress class")
	}
}

func (i *ingressClassInspector) list(ctx context.Context, q *types.Query) string {
	list, err := i.client.NetworkingV1().IngressClasses().List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing ingress classes", "list", "IngressClass", "", "", err)
	}
	if len(list.Items) == 0 {
		return format.NoneFound("ingress classes")
	}

	var out []string
	for _, ic := range list.Items {
		out = append(out, fmt.Sprintf("%s (Controller: %s)", ic.Name, ic.Spec.Controller))
	}
	return strings.Join(out, "; ")
}

func (i *ingressClassInspector) details(ctx context.Context, name string) string {
	ic, err := i.client.NetworkingV1().IngressClasses().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving ingress class details", "get", "IngressClass", "", name, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Ingress Class '%s' details:\n", name)
	fmt.Fprintf(&b, "  Controller: %s\n", ic.Spec.Controller)
	if p := ic.Spec.Parameters; p != nil {
		group := ""
		if p.APIGroup != nil {
			group = *p.APIGroup
		}
		fmt.Fprintf(&b, "  Parameters: API Group: %s, Kind: %s, Name: %s", group, p.Kind, p.Name)
	} else {
		b.WriteString("  Parameters: None")
	}
	return b.String()
}

func (i *ingressClassInspector) controller(ctx context.Context, name string) string {
	ic, err := i.client.NetworkingV1().IngressClasses().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving ingress class controller", "get", "IngressClass", "", name, err)
	}
	return fmt.Sprintf("Ingress Class '%s' uses controller: %s", name, ic.Spec.Controller)
}

func (i *ingressClassInspector) parameters(ctx context.Context, name string) string {
	ic, err := i.client.NetworkingV1().IngressClasses().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving ingress class parameters", "get", "IngressClass", "", name, err)
	}
	p := ic.Spec.Parameters
	if p == nil {
		return fmt.Sprintf("Ingress Class '%s' has no parameters.", name)
	}
	group := ""
	if p.APIGroup != nil {
		group = *p.APIGroup
	}
	return fmt.Sprintf("Ingress Class '%s' parameters:\n  API Group: %s\n  Kind: %s\n  Name: %s", name, group, p.Kind, p.Name)
}

func (i *ingressClassInspector) annotations(ctx context.Context, name string) string {
	ic, err := i.client.NetworkingV1().IngressClasses().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving ingress class annotations", "get", "IngressClass", "", name, err)
	}
	if len(ic.Annotations) == 0 {
		return fmt.Sprintf("Ingress Class '%s' has no annotations.", name)
	}
	return format.Block(fmt.Sprintf("Ingress Class '%s' annotations:", name), format.KeyValues(ic.Annotations))
}
