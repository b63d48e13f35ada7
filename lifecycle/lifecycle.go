// Package lifecycle advances pod health one tick at a time: settling into
// Running, probe evaluation, liveness restarts and run-to-completion pods.
package lifecycle

import (
	"github.com/lunstb/learn-k8s-sub003/events"
	"github.com/lunstb/learn-k8s-sub003/models"
	"github.com/lunstb/learn-k8s-sub003/store"
)

// SettleTicks is how long a scheduled pod stays Pending before it starts,
// plus one extra tick per init container.
const SettleTicks = 2

// Probe failure thresholds and periods default to the usual kubelet values
// when left zero in the spec.
const (
	defaultFailureThreshold = 3
	defaultPeriodTicks      = 1
)

// ProbeKind selects which probe a failure injection targets.
type ProbeKind string

const (
	Startup   ProbeKind = "startup"
	Readiness ProbeKind = "readiness"
	Liveness  ProbeKind = "liveness"
)

// FailureFeed reports whether the named pod's probe is currently failing.
// Probe outcomes are injected by the caller; the state machine only applies
// thresholds and transitions.
type FailureFeed func(podName string, probe ProbeKind) bool

// Advance runs one lifecycle tick over every pod.
func Advance(st *store.Store, rec *events.Recorder, tick int, failing FailureFeed) {
	if failing == nil {
		failing = func(string, ProbeKind) bool { return false }
	}
	for _, pod := range st.ListPods() {
		if pod.Metadata.Terminating() {
			continue
		}
		switch pod.Status.Phase {
		case models.PodPending:
			advancePending(pod, rec, tick)
		case models.PodRunning:
			advanceRunning(pod, rec, tick, failing)
		}
	}
}

func advancePending(pod *models.Pod, rec *events.Recorder, tick int) {
	if pod.Spec.NodeName == "" {
		return // still waiting on the scheduler
	}
	settle := SettleTicks + len(pod.Spec.InitContainers)
	if tick-pod.Status.SettleStartTick < settle {
		return
	}
	pod.Status.Phase = models.PodRunning
	pod.Status.RunningTicks = 0
	pod.Status.Ready = pod.Spec.StartupProbe == nil
	rec.Normal(models.KindPod, pod.Metadata.Name, models.ReasonStarted,
		"running on node %s", pod.Spec.NodeName)
}

func advanceRunning(pod *models.Pod, rec *events.Recorder, tick int, failing FailureFeed) {
	pod.Status.RunningTicks++

	// The startup probe gates everything else: until it succeeds the pod is
	// not ready and readiness/liveness are not evaluated. Hitting the failure
	// threshold restarts the pod, like a liveness breach.
	if pod.Spec.StartupProbe != nil && !pod.Status.StartupPassed {
		if due(pod.Spec.StartupProbe, pod.Status.RunningTicks) {
			if failing(pod.Metadata.Name, Startup) {
				pod.Status.Ready = false
				pod.Status.StartupFailures++
				if pod.Status.StartupFailures >= threshold(pod.Spec.StartupProbe) {
					restart(pod, rec, tick)
				}
				return
			}
			pod.Status.StartupFailures = 0
			pod.Status.StartupPassed = true
			pod.Status.Ready = pod.Spec.ReadinessProbe == nil
		} else {
			return
		}
	}

	if pod.Spec.LivenessProbe != nil && due(pod.Spec.LivenessProbe, pod.Status.RunningTicks) {
		if failing(pod.Metadata.Name, Liveness) {
			pod.Status.LivenessFailures++
			if pod.Status.LivenessFailures >= threshold(pod.Spec.LivenessProbe) {
				restart(pod, rec, tick)
				return
			}
		} else {
			pod.Status.LivenessFailures = 0
		}
	}

	if pod.Spec.ReadinessProbe != nil && due(pod.Spec.ReadinessProbe, pod.Status.RunningTicks) {
		if failing(pod.Metadata.Name, Readiness) {
			pod.Status.ReadinessFailures++
			if pod.Status.ReadinessFailures >= threshold(pod.Spec.ReadinessProbe) && pod.Status.Ready {
				pod.Status.Ready = false
				rec.Warning(models.KindPod, pod.Metadata.Name, models.ReasonUnhealthy,
					"readiness probe failed %d times", pod.Status.ReadinessFailures)
			}
		} else {
			pod.Status.ReadinessFailures = 0
			pod.Status.Ready = true
		}
	}

	// Run-to-completion pods finish after their countdown instead of running
	// indefinitely.
	if pod.Spec.CompletionTicks > 0 && pod.Status.RunningTicks >= pod.Spec.CompletionTicks {
		pod.Status.Ready = false
		if pod.Spec.SimulateFailure {
			pod.Status.Phase = models.PodFailed
			rec.Warning(models.KindPod, pod.Metadata.Name, models.ReasonPodFailed,
				"failed after %d ticks", pod.Status.RunningTicks)
		} else {
			pod.Status.Phase = models.PodSucceeded
			rec.Normal(models.KindPod, pod.Metadata.Name, models.ReasonCompleted,
				"succeeded after %d ticks", pod.Status.RunningTicks)
		}
	}
}

// restart sends the pod back through the settle delay on its node. The node
// assignment is kept; only health resets.
func restart(pod *models.Pod, rec *events.Recorder, tick int) {
	pod.Status.Phase = models.PodPending
	pod.Status.Ready = false
	pod.Status.RestartCount++
	pod.Status.SettleStartTick = tick
	pod.Status.StartupPassed = false
	pod.Status.StartupFailures = 0
	pod.Status.LivenessFailures = 0
	pod.Status.ReadinessFailures = 0
	pod.Status.RunningTicks = 0
	rec.Warning(models.KindPod, pod.Metadata.Name, models.ReasonRestarted,
		"probe failed, restart #%d", pod.Status.RestartCount)
}

// due reports whether the probe fires on this running tick, honoring its
// initial delay and period.
func due(p *models.Probe, runningTicks int) bool {
	if runningTicks < p.InitialDelayTicks {
		return false
	}
	period := p.PeriodTicks
	if period <= 0 {
		period = defaultPeriodTicks
	}
	return (runningTicks-p.InitialDelayTicks)%period == 0
}

func threshold(p *models.Probe) int {
	if p.FailureThreshold > 0 {
		return p.FailureThreshold
	}
	return defaultFailureThreshold
}
