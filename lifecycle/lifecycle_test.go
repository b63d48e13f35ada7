package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunstb/learn-k8s-sub003/events"
	"github.com/lunstb/learn-k8s-sub003/models"
	"github.com/lunstb/learn-k8s-sub003/store"
)

func scheduledPod(t *testing.T, st *store.Store, name string, mutate func(*models.Pod)) *models.Pod {
	t.Helper()
	pod := &models.Pod{
		Metadata: models.Metadata{Name: name},
		Spec:     models.PodSpec{Image: "app:v1", NodeName: "n1"},
		Status:   models.PodStatus{Phase: models.PodPending, SettleStartTick: 0},
	}
	if mutate != nil {
		mutate(pod)
	}
	require.NoError(t, st.AddPod(pod, 0))
	return pod
}

func advanceTo(st *store.Store, tick int, failing FailureFeed) {
	for i := 1; i <= tick; i++ {
		Advance(st, events.NewRecorder(nil), i, failing)
	}
}

func TestSettleDelay(t *testing.T) {
	st := store.New()
	pod := scheduledPod(t, st, "p0", nil)

	advanceTo(st, SettleTicks-1, nil)
	assert.Equal(t, models.PodPending, pod.Status.Phase)

	Advance(st, events.NewRecorder(nil), SettleTicks, nil)
	assert.Equal(t, models.PodRunning, pod.Status.Phase)
	assert.True(t, pod.Status.Ready)
}

func TestUnscheduledPodStaysPending(t *testing.T) {
	st := store.New()
	pod := scheduledPod(t, st, "p0", func(p *models.Pod) { p.Spec.NodeName = "" })

	advanceTo(st, 10, nil)
	assert.Equal(t, models.PodPending, pod.Status.Phase)
}

func TestInitContainersExtendSettle(t *testing.T) {
	st := store.New()
	pod := scheduledPod(t, st, "p0", func(p *models.Pod) {
		p.Spec.InitContainers = []models.Container{{Name: "init-a", Image: "busybox"}, {Name: "init-b", Image: "busybox"}}
	})

	advanceTo(st, SettleTicks+1, nil)
	assert.Equal(t, models.PodPending, pod.Status.Phase)

	Advance(st, events.NewRecorder(nil), SettleTicks+2, nil)
	assert.Equal(t, models.PodRunning, pod.Status.Phase)
}

func TestReadinessFailureOnlyClearsReady(t *testing.T) {
	st := store.New()
	pod := scheduledPod(t, st, "p0", func(p *models.Pod) {
		p.Spec.ReadinessProbe = &models.Probe{Handler: models.ProbeHTTPGet, FailureThreshold: 2}
	})

	advanceTo(st, SettleTicks+1, nil)
	require.Equal(t, models.PodRunning, pod.Status.Phase)
	require.True(t, pod.Status.Ready)

	failing := func(name string, probe ProbeKind) bool { return probe == Readiness }
	Advance(st, events.NewRecorder(nil), SettleTicks+2, failing)
	assert.True(t, pod.Status.Ready, "below threshold, still ready")
	Advance(st, events.NewRecorder(nil), SettleTicks+3, failing)
	assert.False(t, pod.Status.Ready)
	assert.Equal(t, models.PodRunning, pod.Status.Phase, "readiness failure never changes phase")
	assert.Zero(t, pod.Status.RestartCount)

	// Probe recovers: readiness comes back.
	Advance(st, events.NewRecorder(nil), SettleTicks+4, nil)
	assert.True(t, pod.Status.Ready)
}

func TestLivenessFailureRestarts(t *testing.T) {
	st := store.New()
	pod := scheduledPod(t, st, "p0", func(p *models.Pod) {
		p.Spec.LivenessProbe = &models.Probe{Handler: models.ProbeTCPSocket, FailureThreshold: 1}
	})

	advanceTo(st, SettleTicks, nil)
	require.Equal(t, models.PodRunning, pod.Status.Phase)

	failTick := SettleTicks + 1
	Advance(st, events.NewRecorder(nil), failTick, func(string, ProbeKind) bool { return true })
	assert.Equal(t, models.PodPending, pod.Status.Phase, "restart re-settles")
	assert.Equal(t, 1, pod.Status.RestartCount)
	assert.Equal(t, "n1", pod.Spec.NodeName, "restart keeps the node assignment")

	// It settles again and comes back up.
	for i := failTick + 1; i <= failTick+SettleTicks; i++ {
		Advance(st, events.NewRecorder(nil), i, nil)
	}
	assert.Equal(t, models.PodRunning, pod.Status.Phase)
}

func TestStartupProbeGatesOtherProbes(t *testing.T) {
	st := store.New()
	pod := scheduledPod(t, st, "p0", func(p *models.Pod) {
		p.Spec.StartupProbe = &models.Probe{Handler: models.ProbeExec, FailureThreshold: 10}
		p.Spec.LivenessProbe = &models.Probe{Handler: models.ProbeTCPSocket, FailureThreshold: 1}
	})

	// Startup failing: pod runs but is not ready, and the failing liveness
	// probe must not be consulted.
	failing := func(name string, probe ProbeKind) bool { return true }
	advanceTo(st, SettleTicks+3, failing)
	assert.Equal(t, models.PodRunning, pod.Status.Phase)
	assert.False(t, pod.Status.Ready)
	assert.Zero(t, pod.Status.RestartCount)

	// Startup succeeds, then liveness is live.
	Advance(st, events.NewRecorder(nil), SettleTicks+4, nil)
	assert.True(t, pod.Status.StartupPassed)
	assert.True(t, pod.Status.Ready)
}

func TestStartupFailureThresholdRestarts(t *testing.T) {
	st := store.New()
	pod := scheduledPod(t, st, "p0", func(p *models.Pod) {
		p.Spec.StartupProbe = &models.Probe{Handler: models.ProbeExec, FailureThreshold: 2}
	})

	failing := func(name string, probe ProbeKind) bool { return probe == Startup }
	advanceTo(st, SettleTicks+1, failing)
	assert.Equal(t, models.PodRunning, pod.Status.Phase, "below threshold, no restart")
	assert.Equal(t, 1, pod.Status.StartupFailures)

	Advance(st, events.NewRecorder(nil), SettleTicks+2, failing)
	assert.Equal(t, models.PodPending, pod.Status.Phase, "threshold hit, restart re-settles")
	assert.Equal(t, 1, pod.Status.RestartCount)
	assert.Zero(t, pod.Status.StartupFailures)
}

func TestStartupFailureCounterResetsOnSuccess(t *testing.T) {
	st := store.New()
	pod := scheduledPod(t, st, "p0", func(p *models.Pod) {
		p.Spec.StartupProbe = &models.Probe{Handler: models.ProbeExec, FailureThreshold: 2}
	})

	// One failure, then success: the consecutive counter never accumulates.
	failOnce := func(name string, probe ProbeKind) bool { return probe == Startup }
	advanceTo(st, SettleTicks+1, failOnce)
	require.Equal(t, 1, pod.Status.StartupFailures)

	Advance(st, events.NewRecorder(nil), SettleTicks+2, nil)
	assert.True(t, pod.Status.StartupPassed)
	assert.Zero(t, pod.Status.StartupFailures)
	assert.Zero(t, pod.Status.RestartCount)
}

func TestCompletionCountdown(t *testing.T) {
	st := store.New()
	ok := scheduledPod(t, st, "ok", func(p *models.Pod) { p.Spec.CompletionTicks = 3 })
	bad := scheduledPod(t, st, "bad", func(p *models.Pod) {
		p.Spec.CompletionTicks = 3
		p.Spec.SimulateFailure = true
	})

	advanceTo(st, SettleTicks+3, nil)
	assert.Equal(t, models.PodSucceeded, ok.Status.Phase)
	assert.Equal(t, models.PodFailed, bad.Status.Phase)
	assert.False(t, ok.Status.Ready)
}

func TestTerminatingPodsAreLeftAlone(t *testing.T) {
	st := store.New()
	pod := scheduledPod(t, st, "p0", nil)
	tick := 1
	pod.Metadata.DeletionTick = &tick
	pod.Status.Phase = models.PodTerminating

	advanceTo(st, 10, nil)
	assert.Equal(t, models.PodTerminating, pod.Status.Phase)
}
