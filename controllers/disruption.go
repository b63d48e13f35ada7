package controllers

import (
	"github.com/lunstb/learn-k8s-sub003/events"
	"github.com/lunstb/learn-k8s-sub003/models"
	"github.com/lunstb/learn-k8s-sub003/store"
)

// SyncPDBs recomputes every budget's view of the pods it protects. The
// expected total counts tombstoned pods until they are collected, so the
// maxUnavailable floor stays fixed while evictions are in flight.
func SyncPDBs(st *store.Store, rec *events.Recorder, tick int) {
	for _, pdb := range st.ListPDBs() {
		if pdb.Metadata.Terminating() {
			continue
		}
		matching := st.PodsMatchingAll(pdb.Spec.Selector)
		healthy := readyCount(matching)
		pdb.Status.ExpectedPods = len(matching)
		pdb.Status.CurrentHealthy = healthy
		allowed := healthy - pdb.DesiredHealthy(len(matching))
		if allowed < 0 {
			allowed = 0
		}
		pdb.Status.DisruptionsAllowed = allowed
	}
}

// CanEvict is the admission check for voluntary eviction: for every budget
// matching the pod, removing it must leave at least desiredHealthy healthy
// pods. Already-tombstoned pods no longer count as healthy but still count
// toward the expected total until they are collected, so a sweep can never
// eat below the budget. The blocking budget is returned for reporting.
func CanEvict(st *store.Store, pod *models.Pod) (blocking *models.PodDisruptionBudget, ok bool) {
	for _, pdb := range st.ListPDBs() {
		if pdb.Metadata.Terminating() || !pdb.Spec.Selector.Matches(pod.Metadata.Labels) {
			continue
		}
		matching := st.PodsMatchingAll(pdb.Spec.Selector)
		healthy := readyCount(matching)
		after := healthy
		if pod.RunningAndReady() {
			after--
		}
		if after < pdb.DesiredHealthy(len(matching)) {
			return pdb, false
		}
	}
	return nil, true
}
