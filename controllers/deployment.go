package controllers

import (
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/lunstb/learn-k8s-sub003/events"
	"github.com/lunstb/learn-k8s-sub003/hash"
	"github.com/lunstb/learn-k8s-sub003/models"
	"github.com/lunstb/learn-k8s-sub003/store"
)

// SyncDeployments runs the rolling-update algorithm. Each Deployment owns one
// ReplicaSet per template generation, keyed by template hash; the generation
// matching the current template is scaled toward spec.replicas while the
// others drain to zero, never exceeding desired+maxSurge total pods and never
// dropping below desired-maxUnavailable ready pods.
func SyncDeployments(st *store.Store, rec *events.Recorder, tick int) {
	for _, d := range st.ListDeployments() {
		if d.Metadata.Terminating() {
			continue
		}
		syncDeployment(st, rec, tick, d)
	}
}

func syncDeployment(st *store.Store, rec *events.Recorder, tick int, d *models.Deployment) {
	active := ensureActiveReplicaSet(st, rec, tick, d)
	if active == nil {
		return // creation blocked, retried next tick
	}

	var old []*models.ReplicaSet
	for _, rs := range st.ReplicaSetsOwnedBy(d.Metadata.UID) {
		if rs != active && !rs.Metadata.Terminating() {
			old = append(old, rs)
		}
	}

	desired := d.Spec.Replicas

	// Plain scale-down of the active generation is not a rollout and is not
	// bounded.
	if active.Spec.Replicas > desired {
		rec.Normal(models.KindDeployment, d.Metadata.Name, models.ReasonScalingDown,
			"scaling %s %d -> %d", active.Metadata.Name, active.Spec.Replicas, desired)
		active.Spec.Replicas = desired
	}

	// Scale the active generation up within the surge bound:
	// sum(spec.replicas) <= desired + maxSurge.
	totalSpec := active.Spec.Replicas
	for _, o := range old {
		totalSpec += o.Spec.Replicas
	}
	maxTotal := desired + d.Spec.Strategy.MaxSurge
	if active.Spec.Replicas < desired && totalSpec < maxTotal {
		grow := min(desired-active.Spec.Replicas, maxTotal-totalSpec)
		active.Spec.Replicas += grow
		rec.Normal(models.KindDeployment, d.Metadata.Name, models.ReasonRolloutProgress,
			"scaling %s up to %d", active.Metadata.Name, active.Spec.Replicas)
	}

	// Scale old generations down within the unavailability bound:
	// desired - sum(ready) <= maxUnavailable.
	totalReady := 0
	for _, rs := range st.ReplicaSetsOwnedBy(d.Metadata.UID) {
		totalReady += readyOwnedBy(st, rs.Metadata.UID)
	}
	budget := totalReady - (desired - d.Spec.Strategy.MaxUnavailable)
	for _, o := range old {
		if budget <= 0 {
			break
		}
		cut := min(o.Spec.Replicas, budget)
		if cut <= 0 {
			continue
		}
		o.Spec.Replicas -= cut
		budget -= cut
		rec.Normal(models.KindDeployment, d.Metadata.Name, models.ReasonRolloutProgress,
			"scaling %s down to %d", o.Metadata.Name, o.Spec.Replicas)
	}

	// Drained old generations are pruned; rollout history lives only in the
	// ReplicaSets still present.
	remainingOld := 0
	for _, o := range old {
		if o.Spec.Replicas == 0 && len(activePods(st.PodsOwnedBy(o.Metadata.UID))) == 0 {
			t := tick
			o.Metadata.DeletionTick = &t
			rec.Normal(models.KindDeployment, d.Metadata.Name, models.ReasonScalingDown,
				"removed old replica set %s", o.Metadata.Name)
			continue
		}
		remainingOld++
	}

	// Completion fires on the tick readiness first reaches desired with no
	// old generation left; the pre-update status keeps it from repeating.
	if remainingOld == 0 && readyOwnedBy(st, active.Metadata.UID) == desired &&
		d.Status.ReadyReplicas != desired {
		rec.Normal(models.KindDeployment, d.Metadata.Name, models.ReasonRolloutComplete,
			"rollout complete, %d replicas updated", desired)
	}

	updateDeploymentStatus(st, d, active)
}

// ensureActiveReplicaSet returns the generation whose template equals the
// Deployment's current template, creating it with zero replicas when the
// template changed.
func ensureActiveReplicaSet(st *store.Store, rec *events.Recorder, tick int, d *models.Deployment) *models.ReplicaSet {
	for _, rs := range st.ReplicaSetsOwnedBy(d.Metadata.UID) {
		if rs.Metadata.Terminating() {
			continue
		}
		if cmp.Equal(rs.Spec.Template, d.Spec.Template) {
			return rs
		}
	}

	h := hash.PodTemplate(d.Spec.Template)
	selector := models.Selector{}
	for k, v := range d.Spec.Selector {
		selector[k] = v
	}
	selector[models.PodTemplateHashLabel] = h

	rs := &models.ReplicaSet{
		Metadata: models.Metadata{
			Name:     fmt.Sprintf("%s-%s", d.Metadata.Name, h),
			Labels:   map[string]string{models.PodTemplateHashLabel: h},
			OwnerRef: &models.OwnerReference{Kind: models.KindDeployment, Name: d.Metadata.Name, UID: d.Metadata.UID},
		},
		Spec: models.ReplicaSetSpec{
			Replicas: 0,
			Selector: selector,
			Template: d.Spec.Template,
		},
	}
	if err := st.AddReplicaSet(rs, tick); err != nil {
		rec.Warning(models.KindDeployment, d.Metadata.Name, models.ReasonCreated,
			"replica set creation blocked: %v", err)
		return nil
	}
	rec.Normal(models.KindDeployment, d.Metadata.Name, models.ReasonCreated,
		"created replica set %s for template %s", rs.Metadata.Name, h)
	return rs
}

func updateDeploymentStatus(st *store.Store, d *models.Deployment, active *models.ReplicaSet) {
	total, ready, updated := 0, 0, 0
	for _, rs := range st.ReplicaSetsOwnedBy(d.Metadata.UID) {
		pods := activePods(st.PodsOwnedBy(rs.Metadata.UID))
		total += len(pods)
		r := readyCount(pods)
		ready += r
		if rs == active {
			updated = len(pods)
		}
	}
	d.Status.Replicas = total
	d.Status.ReadyReplicas = ready
	d.Status.AvailableReplicas = ready
	d.Status.UpdatedReplicas = updated
}

// RollbackDeployment replaces the Deployment's template with that of the most
// recently created non-active generation; the regular rolling-update pass
// then runs in reverse.
func RollbackDeployment(st *store.Store, rec *events.Recorder, tick int, name string) error {
	d, ok := st.GetDeployment(name)
	if !ok {
		return fmt.Errorf("deployment %q not found", name)
	}
	var newest *models.ReplicaSet
	for _, rs := range st.ReplicaSetsOwnedBy(d.Metadata.UID) {
		if rs.Metadata.Terminating() || cmp.Equal(rs.Spec.Template, d.Spec.Template) {
			continue
		}
		if newest == nil || rs.Metadata.Seq > newest.Metadata.Seq {
			newest = rs
		}
	}
	if newest == nil {
		return fmt.Errorf("deployment %q has no previous revision to roll back to", name)
	}
	d.Spec.Template = newest.Spec.Template
	rec.Normal(models.KindDeployment, name, models.ReasonRollback,
		"rolled back to template of %s", newest.Metadata.Name)
	return nil
}
