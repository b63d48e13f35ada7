package controllers

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lunstb/learn-k8s-sub003/events"
	"github.com/lunstb/learn-k8s-sub003/models"
	"github.com/lunstb/learn-k8s-sub003/store"
)

// SyncCronJobs creates a Job whenever the schedule fires on the simulated
// clock, unless a previous run is still active and the concurrency policy
// forbids overlap. One tick is one simulated minute, so standard five-field
// expressions resolve exactly.
func SyncCronJobs(st *store.Store, rec *events.Recorder, tick int, now time.Time) {
	for _, cj := range st.ListCronJobs() {
		if cj.Metadata.Terminating() {
			continue
		}
		syncCronJob(st, rec, tick, now, cj)
	}
}

func syncCronJob(st *store.Store, rec *events.Recorder, tick int, now time.Time, cj *models.CronJob) {
	activeJobs := 0
	for _, job := range st.JobsOwnedBy(cj.Metadata.UID) {
		if !job.Metadata.Terminating() && !job.Finished() {
			activeJobs++
		}
	}
	cj.Status.ActiveJobs = activeJobs

	if !scheduleFires(cj.Spec.Schedule, now) {
		return
	}
	if cj.Status.LastScheduleTick != nil && *cj.Status.LastScheduleTick == tick {
		return
	}
	if activeJobs > 0 && cj.Spec.ConcurrencyPolicy != models.ConcurrencyAllow {
		rec.Warning(models.KindCronJob, cj.Metadata.Name, models.ReasonJobTriggered,
			"skipping run, %d job(s) still active", activeJobs)
		return
	}

	job := &models.Job{
		Metadata: models.Metadata{
			Name:     fmt.Sprintf("%s-%d", cj.Metadata.Name, tick),
			Labels:   map[string]string{"cronjob": cj.Metadata.Name},
			OwnerRef: &models.OwnerReference{Kind: models.KindCronJob, Name: cj.Metadata.Name, UID: cj.Metadata.UID},
		},
		Spec: cj.Spec.JobTemplate,
	}
	if err := st.AddJob(job, tick); err != nil {
		rec.Warning(models.KindCronJob, cj.Metadata.Name, models.ReasonCreated,
			"job creation blocked: %v", err)
		return
	}
	t := tick
	cj.Status.LastScheduleTick = &t
	cj.Status.ActiveJobs++
	rec.Normal(models.KindCronJob, cj.Metadata.Name, models.ReasonJobTriggered,
		"created job %s", job.Metadata.Name)
}

// scheduleFires reports whether the expression has an activation in the
// minute ending at now. Invalid expressions are rejected at the mutation
// boundary, so a parse failure here is unreachable.
func scheduleFires(expr string, now time.Time) bool {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return false
	}
	next := sched.Next(now.Add(-time.Minute))
	return !next.After(now)
}
