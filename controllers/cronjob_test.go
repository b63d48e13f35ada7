package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunstb/learn-k8s-sub003/events"
	"github.com/lunstb/learn-k8s-sub003/models"
	"github.com/lunstb/learn-k8s-sub003/store"
)

func addCronJob(t *testing.T, st *store.Store, name, schedule string, policy models.ConcurrencyPolicy) *models.CronJob {
	t.Helper()
	cj := &models.CronJob{
		Metadata: models.Metadata{Name: name},
		Spec: models.CronJobSpec{
			Schedule:          schedule,
			ConcurrencyPolicy: policy,
			JobTemplate: models.JobSpec{
				Completions:     1,
				Parallelism:     1,
				CompletionTicks: 2,
				Template: models.PodTemplate{
					Labels: map[string]string{"job": name},
					Spec:   models.PodSpec{Image: "batch:v1"},
				},
			},
		},
	}
	require.NoError(t, st.AddCronJob(cj, 0))
	return cj
}

func simTime(minute int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(minute) * time.Minute)
}

func TestCronJobFiresOnSchedule(t *testing.T) {
	st := store.New()
	cj := addCronJob(t, st, "report", "*/5 * * * *", models.ConcurrencyForbid)
	rec := events.NewRecorder(nil)

	for tick := 1; tick <= 4; tick++ {
		SyncCronJobs(st, rec, tick, simTime(tick))
	}
	assert.Empty(t, st.JobsOwnedBy(cj.Metadata.UID))

	SyncCronJobs(st, rec, 5, simTime(5))
	jobs := st.JobsOwnedBy(cj.Metadata.UID)
	require.Len(t, jobs, 1)
	assert.Equal(t, "report-5", jobs[0].Metadata.Name)
	require.NotNil(t, cj.Status.LastScheduleTick)
	assert.Equal(t, 5, *cj.Status.LastScheduleTick)
}

func TestCronJobForbidSkipsWhileActive(t *testing.T) {
	st := store.New()
	cj := addCronJob(t, st, "report", "* * * * *", models.ConcurrencyForbid)
	rec := events.NewRecorder(nil)

	SyncCronJobs(st, rec, 1, simTime(1))
	require.Len(t, st.JobsOwnedBy(cj.Metadata.UID), 1)

	// Next minute: the first run is still active, so nothing new.
	SyncCronJobs(st, rec, 2, simTime(2))
	assert.Len(t, st.JobsOwnedBy(cj.Metadata.UID), 1)
	assert.Equal(t, 1, cj.Status.ActiveJobs)

	// The run finishes; the schedule fires again.
	st.JobsOwnedBy(cj.Metadata.UID)[0].Status.Phase = models.JobComplete
	SyncCronJobs(st, rec, 3, simTime(3))
	assert.Len(t, st.JobsOwnedBy(cj.Metadata.UID), 2)
}

func TestCronJobAllowOverlaps(t *testing.T) {
	st := store.New()
	cj := addCronJob(t, st, "report", "* * * * *", models.ConcurrencyAllow)
	rec := events.NewRecorder(nil)

	SyncCronJobs(st, rec, 1, simTime(1))
	SyncCronJobs(st, rec, 2, simTime(2))
	assert.Len(t, st.JobsOwnedBy(cj.Metadata.UID), 2)
}

func TestCronJobDoesNotDoubleFireWithinATick(t *testing.T) {
	st := store.New()
	cj := addCronJob(t, st, "report", "* * * * *", models.ConcurrencyAllow)
	rec := events.NewRecorder(nil)

	SyncCronJobs(st, rec, 1, simTime(1))
	SyncCronJobs(st, rec, 1, simTime(1))
	assert.Len(t, st.JobsOwnedBy(cj.Metadata.UID), 1)
}

func TestScheduleFires(t *testing.T) {
	assert.True(t, scheduleFires("*/5 * * * *", simTime(10)))
	assert.False(t, scheduleFires("*/5 * * * *", simTime(11)))
	assert.True(t, scheduleFires("0 * * * *", simTime(60)))
	assert.False(t, scheduleFires("not a schedule", simTime(0)))
}
