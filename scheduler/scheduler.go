// Package scheduler binds pending pods to nodes. Placement is first-fit in
// creation order so a given cluster state always schedules the same way.
package scheduler

import (
	"fmt"

	"github.com/lunstb/learn-k8s-sub003/events"
	"github.com/lunstb/learn-k8s-sub003/models"
	"github.com/lunstb/learn-k8s-sub003/store"
)

// Schedule assigns every unbound, non-terminating pod to the first eligible
// node. A pod that cannot be placed stays Pending, gets a FailedScheduling
// warning and is retried on every subsequent tick.
//
// The node assignment is the one field the scheduler owns on the pod; it is
// written exactly once and never changed afterwards.
func Schedule(st *store.Store, rec *events.Recorder, tick int) {
	nodes := st.ListNodes()

	// allocations starts from the pods already bound and grows as this pass
	// places more, so capacity holds within a single tick too.
	allocations := make(map[string]int, len(nodes))
	for _, n := range nodes {
		allocations[n.Metadata.Name] = len(st.PodsOnNode(n.Metadata.Name))
	}

	for _, pod := range st.ListPods() {
		if pod.Spec.NodeName != "" || pod.Metadata.Terminating() {
			continue
		}
		placed := false
		for _, node := range nodes {
			if !Eligible(node, pod.Spec.Tolerations) {
				continue
			}
			if allocations[node.Metadata.Name] >= node.Spec.Capacity {
				continue
			}
			bind(pod, node, tick)
			allocations[node.Metadata.Name]++
			rec.Normal(models.KindPod, pod.Metadata.Name, models.ReasonScheduled,
				"assigned to node %s", node.Metadata.Name)
			placed = true
			break
		}
		if !placed {
			rec.Warning(models.KindPod, pod.Metadata.Name, models.ReasonFailedScheduling,
				"no eligible node (checked %d)", len(nodes))
		}
	}
}

func bind(pod *models.Pod, node *models.Node, tick int) {
	if pod.Spec.NodeName != "" {
		panic(fmt.Sprintf("scheduler: pod %s already bound to %s", pod.Metadata.Name, pod.Spec.NodeName))
	}
	pod.Spec.NodeName = node.Metadata.Name
	t := tick
	pod.Status.ScheduledTick = &t
}

// Eligible reports whether a node can host pods with the given tolerations:
// it must be ready, not cordoned, and every hard taint (NoSchedule/NoExecute)
// must be tolerated. PreferNoSchedule is soft and never blocks.
//
// The DaemonSet controller uses the same rule to derive its desired node set.
func Eligible(node *models.Node, tolerations []models.Toleration) bool {
	if node.Spec.Unschedulable || !node.Status.Ready || node.Metadata.Terminating() {
		return false
	}
	for _, taint := range node.Spec.Taints {
		if taint.Effect == models.TaintPreferNoSchedule {
			continue
		}
		if !tolerated(taint, tolerations) {
			return false
		}
	}
	return true
}

func tolerated(taint models.Taint, tolerations []models.Toleration) bool {
	for _, t := range tolerations {
		if t.Tolerates(taint) {
			return true
		}
	}
	return false
}
