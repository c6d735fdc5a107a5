package inspect

import (
	"context"
	"fmt"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/format"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
)

type cronJobInspector struct {
	base
}

func (i *cronJobInspector) Inspect(ctx context.Context, q *types.Query) string {
	switch {
	case q.Action == "list":
		return i.list(ctx, q)
	case q.Action == "status" && q.SpecificName != "":
		return i.status(ctx, q.Namespace, q.SpecificName)
	case q.Action == "next_run" && q.SpecificName != "":
		return i.nextRun(ctx, q.Namespace, q.SpecificName)
	case q.Action == "last_run" && q.SpecificName != "":
		return i.lastRun(ctx, q.Namespace, q.SpecificName)
	case q.Action == "pods" && q.SpecificName != "":
		return i.pods(ctx, q.Namespace, q.SpecificName)
	default:
		return format.Unsupported("cronjob")
	}
}

func (i *cronJobInspector) list(ctx context.Context, q *types.Query) string {
	list, err := i.client.BatchV1().CronJobs(q.Namespace).List(ctx, metav1.ListOptions{LabelSelector: q.Selector()})
	if err != nil {
		return i.providerError("Error listing cronjobs", "list", "CronJob", q.Namespace, "", err)
	}
	if len(list.Items) == 0 {
		return format.NoneFound("cronjobs")
	}

	var out []string
	for _, cj := range list.Items {
		out = append(out, fmt.Sprintf("%s (Schedule: %s)", cj.Name, cj.Spec.Schedule))
	}
	return format.Comma(out)
}

func (i *cronJobInspector) status(ctx context.Context, namespace, name string) string {
	cj, err := i.client.BatchV1().CronJobs(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving cronjob status", "get", "CronJob", namespace, name, err)
	}
	if len(cj.Status.Active) > 0 {
		return fmt.Sprintf("Status of cronjob '%s': Active with %d running instance(s).", name, len(cj.Status.Active))
	}
	if cj.Status.LastScheduleTime != nil {
		return fmt.Sprintf("Status of cronjob '%s': Last scheduled at %s", name, format.CreationTime(*cj.Status.LastScheduleTime))
	}
	return fmt.Sprintf("Status of cronjob '%s': Inactive", name)
}

func (i *cronJobInspector) nextRun(ctx context.Context, namespace, name string) string {
	cj, err := i.client.BatchV1().CronJobs(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving next scheduled run for cronjob", "get", "CronJob", namespace, name, err)
	}
	return fmt.Sprintf("Next scheduled run for cronjob '%s': Scheduled to run according to '%s'", name, cj.Spec.Schedule)
}

func (i *cronJobInspector) lastRun(ctx context.Context, namespace, name string) string {
	cj, err := i.client.BatchV1().CronJobs(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error retrieving last scheduled run for cronjob", "get", "CronJob", namespace, name, err)
	}
	if cj.Status.LastScheduleTime != nil {
		return fmt.Sprintf("Last scheduled run for cronjob '%s': %s", name, format.CreationTime(*cj.Status.LastScheduleTime))
	}
	return "No runs found for this CronJob."
}

// pods resolves the most recent Job spawned by the cronjob and lists its
// pods through the job's selector.
func (i *cronJobInspector) pods(ctx context.Context, namespace, name string) string {
	cj, err := i.client.BatchV1().CronJobs(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return i.providerError("Error fetching pods for cronjob", "get", "CronJob", namespace, name, err)
	}

	jobSelector := ""
	if cj.Spec.JobTemplate.Spec.Selector != nil {
		jobSelector = labels.Set(cj.Spec.JobTemplate.Spec.Selector.MatchLabels).String()
	}
	jobs, err := i.client.BatchV1().Jobs(namespace).List(ctx, metav1.ListOptions{LabelSelector: jobSelector})
	if err != nil {
		return i.providerError("Error fetching pods for cronjob", "list", "Job", namespace, "", err)
	}
	if len(jobs.Items) == 0 {
		return fmt.Sprintf("No jobs found for cronjob '%s'.", name)
	}

	recent := jobs.Items[0]
	for _, job := range jobs.Items[1:] {
		if job.Status.StartTime != nil &&
			(recent.Status.StartTime == nil || job.Status.StartTime.After(recent.Status.StartTime.Time)) {
			recent = job
		}
	}
	if recent.Spec.Selector == nil {
		return fmt.Sprintf("No pods found for the most recent job of cronjob '%s'.", name)
	}

	podSelector := labels.Set(recent.Spec.Selector.MatchLabels).String()
	pods, err := i.client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{LabelSelector: podSelector})
	if err != nil {
		return i.providerError("Error fetching pods for cronjob", "list", "Pod", namespace, "", err)
	}
	if len(pods.Items) == 0 {
		return fmt.Sprintf("No pods found for the most recent job of cronjob '%s'.", name)
	}
	return fmt.Sprintf("Pods for cronjob '%s': %s", name, format.Comma(uniquePodNames(pods.Items)))
}
