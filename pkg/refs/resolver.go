// Package refs resolves which workloads consume a ConfigMap, Secret or
// PersistentVolumeClaim. A single scan of the namespace feeds both the
// "who uses X" and "which X are unused" answers, so the two can never
// disagree about the same cluster state.
package refs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/telemetry"
)

// TargetKind identifies the referenced resource kind.
type TargetKind string

const (
	KindConfigMap TargetKind = "ConfigMap"
	KindSecret    TargetKind = "Secret"
	KindPVC       TargetKind = "PersistentVolumeClaim"
)

// Target names one resource whose consumers should be found.
type Target struct {
	Kind TargetKind
	Name string
}

// Consumer is a workload that references a target.
type Consumer struct {
	Kind string
	Name string
}

func (c Consumer) String() string {
	return c.Kind + "/" + c.Name
}

type workload struct {
	kind string
	name string
	spec corev1.PodSpec
}

// Snapshot holds the pod specs of every workload in a namespace at scan
// time. Bare pods with a controller are excluded so a Deployment and its
// pods do not both show up as consumers.
type Snapshot struct {
	workloads []workload
}

// Resolver scans namespaces and answers reference queries.
type Resolver struct {
	client        kubernetes.Interface
	scanCount     metric.Int64Counter
	scanWorkloads metric.Int64Gauge
}

// NewResolver creates a Resolver backed by the given clientset.
func NewResolver(client kubernetes.Interface) *Resolver {
	meter := otel.Meter(telemetry.ServiceName)

	scanCount, err := meter.Int64Counter(
		"query.refs.scan.count",
		metric.WithDescription("Relationship snapshot scans performed"),
	)
	if err != nil {
		slog.Error("failed to create query.refs.scan.count metric", "error", err)
	}
	scanWorkloads, err := meter.Int64Gauge(
		"query.refs.scan.workloads",
		metric.WithDescription("Workloads captured by the most recent relationship scan"),
	)
	if err != nil {
		slog.Error("failed to create query.refs.scan.workloads metric", "error", err)
	}

	return &Resolver{client: client, scanCount: scanCount, scanWorkloads: scanWorkloads}
}

// Scan lists Deployments, StatefulSets, DaemonSets and unmanaged Pods in
// the namespace concurrently. Any listing failure fails the whole scan;
// a partial snapshot would silently misreport unused resources.
func (r *Resolver) Scan(ctx context.Context, namespace string) (*Snapshot, error) {
	g, ctx := errgroup.WithContext(ctx)
	opts := metav1.ListOptions{}

	var (
		deployments  []workload
		statefulSets []workload
		daemonSets   []workload
		pods         []workload
	)

	g.Go(func() error {
		list, err := r.client.AppsV1().Deployments(namespace).List(ctx, opts)
		if err != nil {
			return fmt.Errorf("listing deployments: %w", err)
		}
		for _, d := range list.Items {
			deployments = append(deployments, workload{kind: "Deployment", name: d.Name, spec: d.Spec.Template.Spec})
		}
		return nil
	})
	g.Go(func() error {
		list, err := r.client.AppsV1().StatefulSets(namespace).List(ctx, opts)
		if err != nil {
			return fmt.Errorf("listing statefulsets: %w", err)
		}
		for _, s := range list.Items {
			statefulSets = append(statefulSets, workload{kind: "StatefulSet", name: s.Name, spec: s.Spec.Template.Spec})
		}
		return nil
	})
	g.Go(func() error {
		list, err := r.client.AppsV1().DaemonSets(namespace).List(ctx, opts)
		if err != nil {
			return fmt.Errorf("listing daemonsets: %w", err)
		}
		for _, d := range list.Items {
			daemonSets = append(daemonSets, workload{kind: "DaemonSet", name: d.Name, spec: d.Spec.Template.Spec})
		}
		return nil
	})
	g.Go(func() error {
		list, err := r.client.CoreV1().Pods(namespace).List(ctx, opts)
		if err != nil {
			return fmt.Errorf("listing pods: %w", err)
		}
		for _, p := range list.Items {
			if len(p.OwnerReferences) > 0 {
				continue
			}
			pods = append(pods, workload{kind: "Pod", name: p.Name, spec: p.Spec})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{}
	snap.workloads = append(snap.workloads, deployments...)
	snap.workloads = append(snap.workloads, statefulSets...)
	snap.workloads = append(snap.workloads, daemonSets...)
	snap.workloads = append(snap.workloads, pods...)

	nsAttr := metric.WithAttributes(attribute.String("namespace", namespace))
	r.scanCount.Add(ctx, 1, nsAttr)
	r.scanWorkloads.Record(ctx, int64(len(snap.workloads)), nsAttr)

	return snap, nil
}

// WorkloadRef pairs a workload identity with the pod spec it runs.
type WorkloadRef struct {
	Consumer Consumer
	Spec     *corev1.PodSpec
}

// Workloads returns every workload captured by the scan, in listing order.
func (s *Snapshot) Workloads() []WorkloadRef {
	out := make([]WorkloadRef, 0, len(s.workloads))
	for idx := range s.workloads {
		w := &s.workloads[idx]
		out = append(out, WorkloadRef{Consumer: Consumer{Kind: w.kind, Name: w.name}, Spec: &w.spec})
	}
	return out
}

// ConsumersOf returns every workload referencing the target, deduplicated
// and sorted by kind then name.
func (s *Snapshot) ConsumersOf(target Target) []Consumer {
	seen := make(map[Consumer]struct{})
	var out []Consumer
	for _, w := range s.workloads {
		if !specUses(&w.spec, target) {
			continue
		}
		c := Consumer{Kind: w.kind, Name: w.name}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// specUses reports whether a pod spec references the target through any
// supported mechanism: volumes, envFrom, per-variable valueFrom, and for
// secrets also imagePullSecrets.
func specUses(spec *corev1.PodSpec, target Target) bool {
	for _, v := range spec.Volumes {
		switch target.Kind {
		case KindConfigMap:
			if v.ConfigMap != nil && v.ConfigMap.Name == target.Name {
				return true
			}
			if v.Projected != nil {
				for _, src := range v.Projected.Sources {
					if src.ConfigMap != nil && src.ConfigMap.Name == target.Name {
						return true
					}
				}
			}
		case KindSecret:
			if v.Secret != nil && v.Secret.SecretName == target.Name {
				return true
			}
			if v.Projected != nil {
				for _, src := range v.Projected.Sources {
					if src.Secret != nil && src.Secret.Name == target.Name {
						return true
					}
				}
			}
		case KindPVC:
			if v.PersistentVolumeClaim != nil && v.PersistentVolumeClaim.ClaimName == target.Name {
				return true
			}
		}
	}

	if target.Kind == KindSecret {
		for _, ref := range spec.ImagePullSecrets {
			if ref.Name == target.Name {
				return true
			}
		}
	}

	if target.Kind == KindPVC {
		return false
	}

	containers := make([]corev1.Container, 0, len(spec.Containers)+len(spec.InitContainers))
	containers = append(containers, spec.Containers...)
	containers = append(containers, spec.InitContainers...)
	for _, c := range containers {
		for _, ef := range c.EnvFrom {
			if target.Kind == KindConfigMap && ef.ConfigMapRef != nil && ef.ConfigMapRef.Name == target.Name {
				return true
			}
			if target.Kind == KindSecret && ef.SecretRef != nil && ef.SecretRef.Name == target.Name {
				return true
			}
		}
		for _, env := range c.Env {
			if env.ValueFrom == nil {
				continue
			}
			if target.Kind == KindConfigMap && env.ValueFrom.ConfigMapKeyRef != nil && env.ValueFrom.ConfigMapKeyRef.Name == target.Name {
				return true
			}
			if target.Kind == KindSecret && env.ValueFrom.SecretKeyRef != nil && env.ValueFrom.SecretKeyRef.Name == target.Name {
				return true
			}
		}
	}
	return false
}
