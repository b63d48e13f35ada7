package controllers

import (
	"fmt"

	"github.com/lunstb/learn-k8s-sub003/events"
	"github.com/lunstb/learn-k8s-sub003/models"
	"github.com/lunstb/learn-k8s-sub003/scheduler"
	"github.com/lunstb/learn-k8s-sub003/store"
)

// SyncDaemonSets keeps exactly one pod per eligible node. Eligibility is the
// scheduler's rule (ready, not cordoned, hard taints tolerated); daemon pods
// are bound to their node at creation instead of going through the scheduler.
// Nodes joining or leaving the eligible set trigger creation or removal.
func SyncDaemonSets(st *store.Store, rec *events.Recorder, tick int) {
	for _, ds := range st.ListDaemonSets() {
		if ds.Metadata.Terminating() {
			continue
		}
		syncDaemonSet(st, rec, tick, ds)
	}
}

func syncDaemonSet(st *store.Store, rec *events.Recorder, tick int, ds *models.DaemonSet) {
	eligible := make(map[string]bool)
	for _, node := range st.ListNodes() {
		if scheduler.Eligible(node, ds.Spec.Template.Spec.Tolerations) {
			eligible[node.Metadata.Name] = true
		}
	}

	// Index the live pods by node, removing those on nodes that left the
	// eligible set. Pods are visited in creation order.
	byNode := make(map[string]*models.Pod)
	for _, pod := range st.PodsOwnedBy(ds.Metadata.UID) {
		if !pod.Active() {
			continue
		}
		if !eligible[pod.Spec.NodeName] {
			markPodDeleted(pod, tick)
			rec.Normal(models.KindDaemonSet, ds.Metadata.Name, models.ReasonScalingDown,
				"deleting pod %s, node %s no longer eligible", pod.Metadata.Name, pod.Spec.NodeName)
			continue
		}
		byNode[pod.Spec.NodeName] = pod
	}

	// Create pods on eligible nodes that lack one. Node order is creation
	// order for determinism.
	for _, node := range st.ListNodes() {
		name := node.Metadata.Name
		if !eligible[name] || byNode[name] != nil {
			continue
		}
		if len(st.PodsOnNode(name)) >= node.Spec.Capacity {
			rec.Warning(models.KindDaemonSet, ds.Metadata.Name, models.ReasonFailedScheduling,
				"node %s is at capacity", name)
			continue
		}
		pod := newPod(fmt.Sprintf("%s-%s", ds.Metadata.Name, name), ds.Spec.Template,
			ownerRef(models.KindDaemonSet, ds.Metadata), tick)
		pod.Spec.NodeName = name
		t := tick
		pod.Status.ScheduledTick = &t
		if err := st.AddPod(pod, tick); err != nil {
			rec.Warning(models.KindDaemonSet, ds.Metadata.Name, models.ReasonCreated,
				"pod creation blocked: %v", err)
			continue
		}
		rec.Normal(models.KindDaemonSet, ds.Metadata.Name, models.ReasonScalingUp,
			"created pod %s on node %s", pod.Metadata.Name, name)
	}

	pods := activePods(st.PodsOwnedBy(ds.Metadata.UID))
	ds.Status.DesiredNumberScheduled = len(eligible)
	ds.Status.CurrentNumberScheduled = len(pods)
	ds.Status.NumberReady = readyCount(pods)
}
