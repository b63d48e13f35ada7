package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunstb/learn-k8s-sub003/events"
	"github.com/lunstb/learn-k8s-sub003/models"
	"github.com/lunstb/learn-k8s-sub003/store"
)

func webTemplate() models.PodTemplate {
	return models.PodTemplate{
		Labels: map[string]string{"app": "web"},
		Spec:   models.PodSpec{Image: "web:v1"},
	}
}

func addReplicaSet(t *testing.T, st *store.Store, name string, replicas int) *models.ReplicaSet {
	t.Helper()
	rs := &models.ReplicaSet{
		Metadata: models.Metadata{Name: name},
		Spec: models.ReplicaSetSpec{
			Replicas: replicas,
			Selector: models.Selector{"app": "web"},
			Template: webTemplate(),
		},
	}
	require.NoError(t, st.AddReplicaSet(rs, 0))
	return rs
}

func markRunning(pods []*models.Pod, ready bool) {
	for _, p := range pods {
		p.Status.Phase = models.PodRunning
		p.Status.Ready = ready
	}
}

func TestReplicaSetScalesUp(t *testing.T) {
	st := store.New()
	rs := addReplicaSet(t, st, "web", 3)

	SyncReplicaSets(st, events.NewRecorder(nil), 1)

	pods := st.PodsOwnedBy(rs.Metadata.UID)
	require.Len(t, pods, 3)
	for _, p := range pods {
		assert.Equal(t, models.PodPending, p.Status.Phase)
		assert.Empty(t, p.Spec.NodeName, "controller must not place pods itself")
		assert.Equal(t, "web", p.Metadata.Labels["app"])
		assert.Equal(t, models.KindReplicaSet, p.Metadata.OwnerRef.Kind)
	}
	assert.Equal(t, 3, rs.Status.Replicas)
	assert.Equal(t, 0, rs.Status.ReadyReplicas)
}

func TestReplicaSetIdempotentAtConvergence(t *testing.T) {
	st := store.New()
	rs := addReplicaSet(t, st, "web", 2)

	rec := events.NewRecorder(nil)
	SyncReplicaSets(st, rec, 1)
	markRunning(st.PodsOwnedBy(rs.Metadata.UID), true)

	for i := 2; i <= 5; i++ {
		SyncReplicaSets(st, rec, i)
	}
	assert.Len(t, st.PodsOwnedBy(rs.Metadata.UID), 2)
	assert.Equal(t, 2, rs.Status.ReadyReplicas)
}

func TestReplicaSetScaleDownPrefersNotReadyThenNewest(t *testing.T) {
	st := store.New()
	rs := addReplicaSet(t, st, "web", 4)

	SyncReplicaSets(st, events.NewRecorder(nil), 1)
	pods := st.PodsOwnedBy(rs.Metadata.UID) // creation order web-0..web-3
	require.Len(t, pods, 4)
	markRunning(pods, true)
	pods[1].Status.Ready = false // web-1 is the only not-ready pod

	rs.Spec.Replicas = 2
	SyncReplicaSets(st, events.NewRecorder(nil), 2)

	var gone []string
	for _, p := range st.PodsOwnedBy(rs.Metadata.UID) {
		if p.Metadata.Terminating() {
			gone = append(gone, p.Metadata.Name)
		}
	}
	assert.ElementsMatch(t, []string{"web-1", "web-3"}, gone,
		"not-ready first, then newest among the ready")
	assert.Equal(t, 2, rs.Status.Replicas)
}

func TestReplicaSetReplacesFinishedPods(t *testing.T) {
	st := store.New()
	rs := addReplicaSet(t, st, "web", 2)

	SyncReplicaSets(st, events.NewRecorder(nil), 1)
	pods := st.PodsOwnedBy(rs.Metadata.UID)
	markRunning(pods, true)
	pods[0].Status.Phase = models.PodFailed
	pods[0].Status.Ready = false

	SyncReplicaSets(st, events.NewRecorder(nil), 2)
	assert.Len(t, activePods(st.PodsOwnedBy(rs.Metadata.UID)), 2,
		"a failed pod no longer counts, a fresh one is created")
}

func TestReplicaSetPodNamesStayUnique(t *testing.T) {
	st := store.New()
	rs := addReplicaSet(t, st, "web", 1)

	rec := events.NewRecorder(nil)
	SyncReplicaSets(st, rec, 1)
	first := st.PodsOwnedBy(rs.Metadata.UID)[0]
	first.Status.Phase = models.PodFailed

	SyncReplicaSets(st, rec, 2)
	names := map[string]bool{}
	for _, p := range st.PodsOwnedBy(rs.Metadata.UID) {
		names[p.Metadata.Name] = true
	}
	assert.Len(t, names, 2, "replacement must not reuse the failed pod's name")
}
