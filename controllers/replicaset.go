package controllers

import (
	"fmt"

	"github.com/lunstb/learn-k8s-sub003/events"
	"github.com/lunstb/learn-k8s-sub003/models"
	"github.com/lunstb/learn-k8s-sub003/store"
)

// SyncReplicaSets drives each ReplicaSet's owned pod count toward
// spec.replicas: create when short, tombstone the least disruptive victims
// when over.
func SyncReplicaSets(st *store.Store, rec *events.Recorder, tick int) {
	for _, rs := range st.ListReplicaSets() {
		if rs.Metadata.Terminating() {
			continue
		}
		syncReplicaSet(st, rec, tick, rs)
	}
}

func syncReplicaSet(st *store.Store, rec *events.Recorder, tick int, rs *models.ReplicaSet) {
	pods := activePods(st.PodsOwnedBy(rs.Metadata.UID))
	diff := len(pods) - rs.Spec.Replicas

	switch {
	case diff < 0:
		for i := 0; i < -diff; i++ {
			pod := newPod(
				fmt.Sprintf("%s-%d", rs.Metadata.Name, rs.Status.CreatedPods),
				rs.Spec.Template,
				ownerRef(models.KindReplicaSet, rs.Metadata),
				tick,
			)
			// Pods inherit the generation hash so rollout generations stay
			// distinguishable.
			if h := rs.TemplateHash(); h != "" {
				pod.Metadata.Labels[models.PodTemplateHashLabel] = h
			}
			if err := st.AddPod(pod, tick); err != nil {
				rec.Warning(models.KindReplicaSet, rs.Metadata.Name, models.ReasonCreated,
					"pod creation blocked: %v", err)
				continue
			}
			rs.Status.CreatedPods++
			rec.Normal(models.KindReplicaSet, rs.Metadata.Name, models.ReasonScalingUp,
				"created pod %s", pod.Metadata.Name)
		}
	case diff > 0:
		for _, pod := range victims(pods)[:diff] {
			markPodDeleted(pod, tick)
			rec.Normal(models.KindReplicaSet, rs.Metadata.Name, models.ReasonScalingDown,
				"deleting pod %s", pod.Metadata.Name)
		}
	}

	remaining := activePods(st.PodsOwnedBy(rs.Metadata.UID))
	rs.Status.Replicas = len(remaining)
	rs.Status.ReadyReplicas = readyCount(remaining)
}
