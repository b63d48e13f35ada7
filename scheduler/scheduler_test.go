package scheduler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunstb/learn-k8s-sub003/events"
	"github.com/lunstb/learn-k8s-sub003/models"
	"github.com/lunstb/learn-k8s-sub003/store"
)

func node(name string, capacity int) *models.Node {
	return &models.Node{
		Metadata: models.Metadata{Name: name},
		Spec:     models.NodeSpec{Capacity: capacity},
		Status:   models.NodeStatus{Ready: true},
	}
}

func pod(name string) *models.Pod {
	return &models.Pod{
		Metadata: models.Metadata{Name: name},
		Spec:     models.PodSpec{Image: "app:v1"},
		Status:   models.PodStatus{Phase: models.PodPending},
	}
}

func TestFirstFitInCreationOrder(t *testing.T) {
	st := store.New()
	require.NoError(t, st.AddNode(node("n1", 2), 0))
	require.NoError(t, st.AddNode(node("n2", 2), 0))
	for i := 0; i < 3; i++ {
		require.NoError(t, st.AddPod(pod(fmt.Sprintf("p%d", i)), 0))
	}

	Schedule(st, events.NewRecorder(nil), 1)

	want := map[string]string{"p0": "n1", "p1": "n1", "p2": "n2"}
	for name, nodeName := range want {
		p, ok := st.GetPod(name)
		require.True(t, ok)
		assert.Equal(t, nodeName, p.Spec.NodeName)
		require.NotNil(t, p.Status.ScheduledTick)
		assert.Equal(t, 1, *p.Status.ScheduledTick)
	}
}

func TestCapacityRespectedWithinOneTick(t *testing.T) {
	st := store.New()
	require.NoError(t, st.AddNode(node("n1", 1), 0))
	require.NoError(t, st.AddPod(pod("p0"), 0))
	require.NoError(t, st.AddPod(pod("p1"), 0))

	rec := events.NewRecorder(nil)
	Schedule(st, rec, 1)

	p0, _ := st.GetPod("p0")
	p1, _ := st.GetPod("p1")
	assert.Equal(t, "n1", p0.Spec.NodeName)
	assert.Empty(t, p1.Spec.NodeName, "second pod must not overflow capacity")

	var reasons []string
	for _, ev := range rec.Events() {
		reasons = append(reasons, ev.Reason)
	}
	assert.Contains(t, reasons, models.ReasonFailedScheduling)
}

func TestUnplacedPodRetriedNextTick(t *testing.T) {
	st := store.New()
	require.NoError(t, st.AddPod(pod("p0"), 0))

	rec := events.NewRecorder(nil)
	Schedule(st, rec, 1) // no nodes at all

	require.NoError(t, st.AddNode(node("n1", 1), 1))
	Schedule(st, rec, 2)

	p0, _ := st.GetPod("p0")
	assert.Equal(t, "n1", p0.Spec.NodeName)
}

func TestCordonedAndNotReadyNodesSkipped(t *testing.T) {
	st := store.New()
	cordoned := node("n1", 5)
	cordoned.Spec.Unschedulable = true
	notReady := node("n2", 5)
	notReady.Status.Ready = false
	require.NoError(t, st.AddNode(cordoned, 0))
	require.NoError(t, st.AddNode(notReady, 0))
	require.NoError(t, st.AddNode(node("n3", 5), 0))
	require.NoError(t, st.AddPod(pod("p0"), 0))

	Schedule(st, events.NewRecorder(nil), 1)

	p0, _ := st.GetPod("p0")
	assert.Equal(t, "n3", p0.Spec.NodeName)
}

func TestTaintsBlockUnlessTolerated(t *testing.T) {
	st := store.New()
	tainted := node("n1", 5)
	tainted.Spec.Taints = []models.Taint{{Key: "dedicated", Value: "infra", Effect: models.TaintNoSchedule}}
	require.NoError(t, st.AddNode(tainted, 0))

	plain := pod("plain")
	tolerant := pod("tolerant")
	tolerant.Spec.Tolerations = []models.Toleration{{Key: "dedicated"}}
	require.NoError(t, st.AddPod(plain, 0))
	require.NoError(t, st.AddPod(tolerant, 0))

	Schedule(st, events.NewRecorder(nil), 1)

	p, _ := st.GetPod("plain")
	assert.Empty(t, p.Spec.NodeName)
	q, _ := st.GetPod("tolerant")
	assert.Equal(t, "n1", q.Spec.NodeName)
}

func TestPreferNoScheduleIsSoft(t *testing.T) {
	st := store.New()
	soft := node("n1", 5)
	soft.Spec.Taints = []models.Taint{{Key: "spot", Effect: models.TaintPreferNoSchedule}}
	require.NoError(t, st.AddNode(soft, 0))
	require.NoError(t, st.AddPod(pod("p0"), 0))

	Schedule(st, events.NewRecorder(nil), 1)

	p, _ := st.GetPod("p0")
	assert.Equal(t, "n1", p.Spec.NodeName)
}

func TestEligible(t *testing.T) {
	n := node("n1", 1)
	assert.True(t, Eligible(n, nil))

	n.Spec.Taints = []models.Taint{{Key: "a", Effect: models.TaintNoExecute}}
	assert.False(t, Eligible(n, nil))
	assert.True(t, Eligible(n, []models.Toleration{{Key: "a"}}))
}
