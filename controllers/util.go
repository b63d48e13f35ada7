// Package controllers holds the workload controllers. Each Sync function is
// one reconciliation pass: read desired state, compare with owned objects,
// close the gap. Controllers never return errors; stalls become warning
// events and are retried next tick.
package controllers

import (
	"sort"

	"github.com/lunstb/learn-k8s-sub003/models"
	"github.com/lunstb/learn-k8s-sub003/store"
)

// newPod stamps a pod out of a template on behalf of an owner. The pod starts
// Pending and unbound; the scheduler places it.
func newPod(name string, tpl models.PodTemplate, owner models.OwnerReference, tick int) *models.Pod {
	labels := make(map[string]string, len(tpl.Labels))
	for k, v := range tpl.Labels {
		labels[k] = v
	}
	return &models.Pod{
		Metadata: models.Metadata{
			Name:     name,
			Labels:   labels,
			OwnerRef: &owner,
		},
		Spec: tpl.Spec,
		Status: models.PodStatus{
			Phase:           models.PodPending,
			SettleStartTick: tick,
		},
	}
}

// markPodDeleted is phase one of the two-phase delete: tombstone now, the
// engine removes the object at the start of the next tick.
func markPodDeleted(pod *models.Pod, tick int) {
	if pod.Metadata.Terminating() {
		return
	}
	t := tick
	pod.Metadata.DeletionTick = &t
	pod.Status.Phase = models.PodTerminating
	pod.Status.Ready = false
}

// activePods filters to pods that count toward a replica total.
func activePods(pods []*models.Pod) []*models.Pod {
	var out []*models.Pod
	for _, p := range pods {
		if p.Active() {
			out = append(out, p)
		}
	}
	return out
}

func readyCount(pods []*models.Pod) int {
	n := 0
	for _, p := range pods {
		if p.RunningAndReady() {
			n++
		}
	}
	return n
}

// victims orders pods for scale-down: not-ready before ready, and newest
// before oldest among equals, so already-serving capacity is disturbed last.
func victims(pods []*models.Pod) []*models.Pod {
	out := make([]*models.Pod, len(pods))
	copy(out, pods)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].RunningAndReady(), out[j].RunningAndReady()
		if ri != rj {
			return !ri
		}
		return out[i].Metadata.Seq > out[j].Metadata.Seq
	})
	return out
}

func ownerRef(kind models.Kind, m models.Metadata) models.OwnerReference {
	return models.OwnerReference{Kind: kind, Name: m.Name, UID: m.UID}
}

// readyOwnedBy counts ready pods across an owner's pods without relying on a
// status field written last tick.
func readyOwnedBy(st *store.Store, ownerUID string) int {
	return readyCount(st.PodsOwnedBy(ownerUID))
}
