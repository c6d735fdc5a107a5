package inspect

import (
	"context"
	"fmt"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	batchv1 "k8s.io/api/batch/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
)

type jobInspector struct {
	base
}

func (i *jobInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "status" && q.SpecificName != "":
		return i.status(ctx, q.Namespace, q.SpecificName)
	case q.Action == "last_run" && q.SpecificName != "":
		return i.lastRun(ctx, q.Namespace, q.SpecificName)
	case q.Action == "details" && q.SpecificName != "":
		return i.details(ctx, q.Namespace, q.SpecificName)
	case q.Action == "pods" && q.SpecificName != "":
		return i.pods(ctx, q.Namespace, q.SpecificName)
	default:
		return format.Unsupported("job")
	}
}

func jobPhase(job *batchv1.Job) string {
	switch {
	case job.Status.Active > 0:
		return "Running"
	case job.Status.Succeeded > 0:
		return "Succeeded"
	case job.Status.Failed > 0:
		return "Failed"
	default:
		return "Unknown"
	}
}

func (i *jobInspector) list(ctx context.Context, q *types.Query) string {
	list, err := i.client.BatchV1().Jobs(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing jobs", "list", "Job", q.Namespace, "", err)
	}
	if len(list.Items) == 0 {
		return format.NoneFound("jobs")
	}

	var out []string
	for idx := range list.Items {
		job := &list.Items[idx]
		out = append(out, fmt.Sprintf("%s (Status: %s)", format.SimpleName(job.Name), jobPhase(job)))
	}
	return format.Comma(out)
}

func (i *jobInspector) status(ctx context.Context, namespace, name string) string {
	job, err := i.client.BatchV1().Jobs(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving job status", "get", "Job", namespace, name, err)
	}
	switch {
	case job.Status.Succeeded > 0:
		return "Succeeded"
	case job.Status.Failed > 0:
		return "Failed"
	case job.Status.Active > 0:
		return "Running"
	default:
		return "Unknown"
	}
}

func (i *jobInspector) lastRun(ctx context.Context, namespace, name string) string {
	job, err := i.client.BatchV1().Jobs(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving job execution time", "get", "Job", namespace, name, err)
	}
	if job.Status.CompletionTime != nil {
		return fmt.Sprintf("Last executed on %s", format.CreationTime(*job.Status.CompletionTime))
	}
	if job.Status.StartTime != nil {
		return fmt.Sprintf("Job started on %s, but has not completed yet.", format.CreationTime(*job.Status.StartTime))
	}
	return "No execution time available"
}

func (i *jobInspector) details(ctx context.Context, namespace, name string) string {
	job, err := i.client.BatchV1().Jobs(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving job details", "get", "Job", namespace, name, err)
	}

	start := "Not started"
	if job.Status.StartTime != nil {
		start = format.CreationTime(*job.Status.StartTime)
	}
	completion := "Not completed"
	if job.Status.CompletionTime != nil {
		completion = format.CreationTime(*job.Status.CompletionTime)
	}

	return fmt.Sprintf("Job '%s':\n  Start Time: %s\n  Completion Time: %s\n  Succeeded Completions: %d\n  Active Pods: %d\n  Failed Pods: %d",
		name, start, completion, job.Status.Succeeded, job.Status.Active, job.Status.Failed)
}

func (i *jobInspector) pods(ctx context.Context, namespace, name string) string {
	job, err := i.client.BatchV1().Jobs(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error fetching pods for job", "get", "Job", namespace, name, err)
	}
	if job.Spec.Selector == nil {
		return fmt.Sprintf("No selector found for job '%s'.", name)
	}
	selector := labels.Set(job.Spec.Selector.MatchLabels).String()

	pods, err := i.client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return i.providerError("Error fetching pods for job", "list", "Pod", namespace, "", err)
	}
	if len(pods.Items) == 0 {
		return fmt.Sprintf("No pods found for job '%s'.", name)
	}
	return format.Comma(uniquePodNames(pods.Items))
}
