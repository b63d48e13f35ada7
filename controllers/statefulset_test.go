package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunstb/learn-k8s-sub003/events"
	"github.com/lunstb/learn-k8s-sub003/models"
	"github.com/lunstb/learn-k8s-sub003/store"
)

func addStatefulSet(t *testing.T, st *store.Store, name string, replicas int) *models.StatefulSet {
	t.Helper()
	ss := &models.StatefulSet{
		Metadata: models.Metadata{Name: name},
		Spec: models.StatefulSetSpec{
			Replicas: replicas,
			Selector: models.Selector{"app": "db"},
			Template: models.PodTemplate{
				Labels: map[string]string{"app": "db"},
				Spec:   models.PodSpec{Image: "db:v1"},
			},
		},
	}
	require.NoError(t, st.AddStatefulSet(ss, 0))
	return ss
}

func TestStatefulSetCreatesOrdinals(t *testing.T) {
	st := store.New()
	ss := addStatefulSet(t, st, "db", 3)

	SyncStatefulSets(st, events.NewRecorder(nil), 1)

	var names []string
	for _, p := range st.PodsOwnedBy(ss.Metadata.UID) {
		names = append(names, p.Metadata.Name)
	}
	assert.ElementsMatch(t, []string{"db-0", "db-1", "db-2"}, names)
}

func TestStatefulSetScaleDownHighestOrdinalFirstOnePerTick(t *testing.T) {
	st := store.New()
	ss := addStatefulSet(t, st, "db", 3)
	rec := events.NewRecorder(nil)

	SyncStatefulSets(st, rec, 1)
	markRunning(st.PodsOwnedBy(ss.Metadata.UID), true)

	ss.Spec.Replicas = 1
	SyncStatefulSets(st, rec, 2)
	p2, _ := st.GetPod("db-2")
	p1, _ := st.GetPod("db-1")
	assert.True(t, p2.Metadata.Terminating())
	assert.False(t, p1.Metadata.Terminating(), "one ordinal removed per tick")

	st.RemovePod(p2.Metadata.UID)
	SyncStatefulSets(st, rec, 3)
	assert.True(t, p1.Metadata.Terminating())
	p0, _ := st.GetPod("db-0")
	assert.False(t, p0.Metadata.Terminating())
}

func TestStatefulSetRecreatesMissingOrdinalUnderSameIdentity(t *testing.T) {
	st := store.New()
	ss := addStatefulSet(t, st, "db", 3)
	rec := events.NewRecorder(nil)

	SyncStatefulSets(st, rec, 1)
	p1, _ := st.GetPod("db-1")
	st.RemovePod(p1.Metadata.UID) // simulate an external force delete

	SyncStatefulSets(st, rec, 2)
	recreated, ok := st.GetPod("db-1")
	require.True(t, ok)
	assert.Equal(t, "1", recreated.Metadata.Labels[models.StatefulSetOrdinalLabel])
	assert.NotEqual(t, p1.Metadata.UID, recreated.Metadata.UID, "same identity, new incarnation")
	assert.Equal(t, 3, ss.Status.Replicas)
}

func TestStatefulSetReplacesFailedPodAfterNameFrees(t *testing.T) {
	st := store.New()
	ss := addStatefulSet(t, st, "db", 1)
	rec := events.NewRecorder(nil)

	SyncStatefulSets(st, rec, 1)
	p0, _ := st.GetPod("db-0")
	p0.Status.Phase = models.PodFailed

	// Tick 2: the failed incarnation is tombstoned, name still taken.
	SyncStatefulSets(st, rec, 2)
	assert.True(t, p0.Metadata.Terminating())

	// Tick 3: after physical removal the ordinal comes back.
	st.RemovePod(p0.Metadata.UID)
	SyncStatefulSets(st, rec, 3)
	_, ok := st.GetPod("db-0")
	assert.True(t, ok)
	assert.Equal(t, 1, ss.Status.Replicas)
}

func TestStatefulSetDuplicateOrdinalPanics(t *testing.T) {
	st := store.New()
	ss := addStatefulSet(t, st, "db", 2)
	owner := models.OwnerReference{Kind: models.KindStatefulSet, Name: "db", UID: ss.Metadata.UID}

	for _, name := range []string{"db-x", "db-y"} {
		pod := &models.Pod{Metadata: models.Metadata{
			Name:     name,
			Labels:   map[string]string{"app": "db", models.StatefulSetOrdinalLabel: "0"},
			OwnerRef: &owner,
		}}
		require.NoError(t, st.AddPod(pod, 0))
	}

	assert.Panics(t, func() {
		SyncStatefulSets(st, events.NewRecorder(nil), 1)
	})
}
