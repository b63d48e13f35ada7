package controllers

import (
	"fmt"
	"strconv"

	"github.com/lunstb/learn-k8s-sub003/events"
	"github.com/lunstb/learn-k8s-sub003/models"
	"github.com/lunstb/learn-k8s-sub003/store"
)

// SyncStatefulSets maintains pods with stable ordinal identity 0..replicas-1.
// Pod <name>-<i> keeps its identity across recreation; scale-up creates the
// next missing ordinal, scale-down removes the highest ordinal first, one per
// tick. Template changes apply in place: only newly created pods pick them up.
func SyncStatefulSets(st *store.Store, rec *events.Recorder, tick int) {
	for _, ss := range st.ListStatefulSets() {
		if ss.Metadata.Terminating() {
			continue
		}
		syncStatefulSet(st, rec, tick, ss)
	}
}

func syncStatefulSet(st *store.Store, rec *events.Recorder, tick int, ss *models.StatefulSet) {
	byOrdinal := make(map[int]*models.Pod)
	maxOrdinal := -1
	for _, pod := range st.PodsOwnedBy(ss.Metadata.UID) {
		if pod.Metadata.Terminating() {
			continue
		}
		ord, err := strconv.Atoi(pod.Metadata.Labels[models.StatefulSetOrdinalLabel])
		if err != nil {
			panic(fmt.Sprintf("statefulset %s: pod %s has no ordinal", ss.Metadata.Name, pod.Metadata.Name))
		}
		if prev, dup := byOrdinal[ord]; dup {
			panic(fmt.Sprintf("statefulset %s: pods %s and %s claim ordinal %d",
				ss.Metadata.Name, prev.Metadata.Name, pod.Metadata.Name, ord))
		}
		byOrdinal[ord] = pod
		if ord > maxOrdinal {
			maxOrdinal = ord
		}
	}

	// Scale down: highest ordinal first, one per tick.
	if maxOrdinal >= ss.Spec.Replicas {
		pod := byOrdinal[maxOrdinal]
		markPodDeleted(pod, tick)
		rec.Normal(models.KindStatefulSet, ss.Metadata.Name, models.ReasonScalingDown,
			"deleting pod %s (ordinal %d)", pod.Metadata.Name, maxOrdinal)
		delete(byOrdinal, maxOrdinal)
	}

	// Scale up / replace: ensure every ordinal below replicas has a live pod.
	for ord := 0; ord < ss.Spec.Replicas; ord++ {
		pod, exists := byOrdinal[ord]
		if exists {
			// A finished pod is replaced under the same identity: tombstone
			// now, recreate once the name is free.
			if !pod.Active() {
				markPodDeleted(pod, tick)
			}
			continue
		}
		name := fmt.Sprintf("%s-%d", ss.Metadata.Name, ord)
		if _, taken := st.GetPod(name); taken {
			continue // previous incarnation still terminating
		}
		pod = newPod(name, ss.Spec.Template, ownerRef(models.KindStatefulSet, ss.Metadata), tick)
		pod.Metadata.Labels[models.StatefulSetOrdinalLabel] = strconv.Itoa(ord)
		if err := st.AddPod(pod, tick); err != nil {
			rec.Warning(models.KindStatefulSet, ss.Metadata.Name, models.ReasonCreated,
				"pod creation blocked: %v", err)
			continue
		}
		rec.Normal(models.KindStatefulSet, ss.Metadata.Name, models.ReasonScalingUp,
			"created pod %s (ordinal %d)", name, ord)
	}

	pods := activePods(st.PodsOwnedBy(ss.Metadata.UID))
	ss.Status.Replicas = len(pods)
	ss.Status.ReadyReplicas = readyCount(pods)
}
