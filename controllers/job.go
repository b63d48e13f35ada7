package controllers

import (
	"fmt"

	"github.com/lunstb/learn-k8s-sub003/events"
	"github.com/lunstb/learn-k8s-sub003/models"
	"github.com/lunstb/learn-k8s-sub003/store"
)

// SyncJobs runs up to spec.parallelism pods until spec.completions have
// succeeded. Failed pods are counted and replaced until failures exceed the
// backoff limit; past that the Job is terminally failed and creates nothing
// more.
func SyncJobs(st *store.Store, rec *events.Recorder, tick int) {
	for _, job := range st.ListJobs() {
		if job.Metadata.Terminating() {
			continue
		}
		syncJob(st, rec, tick, job)
	}
}

func syncJob(st *store.Store, rec *events.Recorder, tick int, job *models.Job) {
	if job.Status.Phase == "" {
		job.Status.Phase = models.JobRunning
	}

	pods := st.PodsOwnedBy(job.Metadata.UID)
	succeeded, failed := 0, 0
	var active []*models.Pod
	for _, p := range pods {
		switch {
		case p.Metadata.Terminating():
		case p.Status.Phase == models.PodSucceeded:
			succeeded++
		case p.Status.Phase == models.PodFailed:
			failed++
		default:
			active = append(active, p)
		}
	}
	job.Status.Succeeded = succeeded
	job.Status.Failed = failed
	job.Status.Active = len(active)

	if job.Finished() {
		return
	}

	if succeeded >= job.Spec.Completions {
		job.Status.Phase = models.JobComplete
		t := tick
		job.Status.CompletedTick = &t
		for _, p := range active {
			markPodDeleted(p, tick)
		}
		job.Status.Active = 0
		rec.Normal(models.KindJob, job.Metadata.Name, models.ReasonCompleted,
			"%d/%d completions", succeeded, job.Spec.Completions)
		return
	}

	// Terminal backoff: more failures than the limit allows, permanent until
	// external intervention.
	if failed > job.Spec.BackoffLimit {
		job.Status.Phase = models.JobFailed
		for _, p := range active {
			markPodDeleted(p, tick)
		}
		job.Status.Active = 0
		rec.Warning(models.KindJob, job.Metadata.Name, models.ReasonBackoffExceeded,
			"%d pods failed, backoff limit %d", failed, job.Spec.BackoffLimit)
		return
	}

	want := min(job.Spec.Parallelism, job.Spec.Completions-succeeded)
	for len(active) < want {
		pod := newPod(
			fmt.Sprintf("%s-%d", job.Metadata.Name, job.Status.CreatedPods),
			job.Spec.Template,
			ownerRef(models.KindJob, job.Metadata),
			tick,
		)
		pod.Spec.CompletionTicks = job.Spec.CompletionTicks
		pod.Spec.SimulateFailure = job.Status.CreatedPods < job.Spec.FailFirst
		if err := st.AddPod(pod, tick); err != nil {
			rec.Warning(models.KindJob, job.Metadata.Name, models.ReasonCreated,
				"pod creation blocked: %v", err)
			return
		}
		job.Status.CreatedPods++
		active = append(active, pod)
		job.Status.Active = len(active)
		rec.Normal(models.KindJob, job.Metadata.Name, models.ReasonScalingUp,
			"created pod %s", pod.Metadata.Name)
	}
}
