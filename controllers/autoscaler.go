package controllers

import (
	"github.com/lunstb/learn-k8s-sub003/events"
	"github.com/lunstb/learn-k8s-sub003/models"
	"github.com/lunstb/learn-k8s-sub003/store"
)

// MetricsFeed supplies the externally fed CPU utilization sample for a pod,
// in percent. ok is false when no sample has been reported.
type MetricsFeed func(podName string) (percent int, ok bool)

// SyncAutoscalers adjusts each HPA target's replica count from observed
// utilization: desired = ceil(current * utilization / target), clamped to
// [min, max]. At most one adjustment per tick; targets without metric samples
// are left alone.
func SyncAutoscalers(st *store.Store, rec *events.Recorder, tick int, metrics MetricsFeed) {
	for _, hpa := range st.ListHPAs() {
		if hpa.Metadata.Terminating() {
			continue
		}
		syncAutoscaler(st, rec, tick, metrics, hpa)
	}
}

func syncAutoscaler(st *store.Store, rec *events.Recorder, tick int, metrics MetricsFeed, hpa *models.HorizontalPodAutoscaler) {
	if hpa.Status.LastScaleTick != nil && *hpa.Status.LastScaleTick == tick {
		return
	}
	d, ok := st.GetDeployment(hpa.Spec.TargetName)
	if !ok || d.Metadata.Terminating() {
		rec.Warning(models.KindHPA, hpa.Metadata.Name, models.ReasonAutoscaled,
			"target deployment %q not found", hpa.Spec.TargetName)
		return
	}

	samples, total := 0, 0
	for _, pod := range st.PodsMatching(d.Spec.Selector) {
		if !pod.RunningAndReady() {
			continue
		}
		if pct, has := metrics(pod.Metadata.Name); has {
			samples++
			total += pct
		}
	}
	if samples == 0 {
		return // no metrics fed yet, nothing to act on
	}
	utilization := total / samples
	hpa.Status.CurrentCPUPercent = utilization

	current := d.Spec.Replicas
	desired := ceilDiv(current*utilization, hpa.Spec.TargetCPUPercent)
	if desired < hpa.Spec.MinReplicas {
		desired = hpa.Spec.MinReplicas
	}
	if desired > hpa.Spec.MaxReplicas {
		desired = hpa.Spec.MaxReplicas
	}
	hpa.Status.DesiredReplicas = desired

	if desired == current {
		return
	}
	d.Spec.Replicas = desired
	t := tick
	hpa.Status.LastScaleTick = &t
	rec.Normal(models.KindHPA, hpa.Metadata.Name, models.ReasonAutoscaled,
		"scaled %s %d -> %d (utilization %d%%, target %d%%)",
		d.Metadata.Name, current, desired, utilization, hpa.Spec.TargetCPUPercent)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
