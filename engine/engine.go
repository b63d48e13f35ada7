// Package engine owns the tick loop. One Tick is one atomic reconciliation
// pass: garbage collection of tombstoned objects, scheduling, lifecycle,
// workload controllers in dependency order, autoscaling, then status
// aggregation. All external mutation happens between ticks; given the same
// input history and tick count the cluster state is identical every run.
package engine

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lunstb/learn-k8s-sub003/controllers"
	"github.com/lunstb/learn-k8s-sub003/events"
	"github.com/lunstb/learn-k8s-sub003/lifecycle"
	"github.com/lunstb/learn-k8s-sub003/models"
	"github.com/lunstb/learn-k8s-sub003/scheduler"
	"github.com/lunstb/learn-k8s-sub003/store"
)

// epoch is tick zero on the simulated clock; each tick advances one minute.
var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type Engine struct {
	st   *store.Store
	rec  *events.Recorder
	tick int

	// cpu holds the externally fed per-pod utilization samples, percent.
	cpu map[string]int

	// failingProbes is the probe failure injection: pod name -> probe kind.
	failingProbes map[string]map[lifecycle.ProbeKind]bool
}

func New(log *logrus.Logger) *Engine {
	return &Engine{
		st:            store.New(),
		rec:           events.NewRecorder(log),
		cpu:           make(map[string]int),
		failingProbes: make(map[string]map[lifecycle.ProbeKind]bool),
	}
}

// Store exposes the cluster state for read-only snapshot queries. Callers
// outside the engine must not mutate through it mid-tick.
func (e *Engine) Store() *store.Store { return e.st }

// Tick returns the number of completed reconciliation passes.
func (e *Engine) Tick() int { return e.tick }

// Events returns the append-only event log.
func (e *Engine) Events() []models.Event { return e.rec.Events() }

// Now is the simulated wall-clock time of the current tick.
func (e *Engine) Now() time.Time { return epoch.Add(time.Duration(e.tick) * time.Minute) }

// Step runs one full reconciliation pass.
func (e *Engine) Step() {
	e.tick++
	e.rec.SetTick(e.tick)

	e.collectGarbage()
	scheduler.Schedule(e.st, e.rec, e.tick)
	lifecycle.Advance(e.st, e.rec, e.tick, e.probeFeed)

	controllers.SyncDeployments(e.st, e.rec, e.tick)
	controllers.SyncReplicaSets(e.st, e.rec, e.tick)
	controllers.SyncStatefulSets(e.st, e.rec, e.tick)
	controllers.SyncDaemonSets(e.st, e.rec, e.tick)
	controllers.SyncCronJobs(e.st, e.rec, e.tick, e.Now())
	controllers.SyncJobs(e.st, e.rec, e.tick)
	controllers.SyncAutoscalers(e.st, e.rec, e.tick, e.metricsFeed)

	e.aggregate()
}

// Run advances n ticks.
func (e *Engine) Run(n int) {
	for i := 0; i < n; i++ {
		e.Step()
	}
}

// SetPodMetrics feeds a CPU utilization sample for a pod, consumed by the
// autoscaler on subsequent ticks.
func (e *Engine) SetPodMetrics(podName string, percent int) {
	e.cpu[podName] = percent
}

func (e *Engine) metricsFeed(podName string) (int, bool) {
	pct, ok := e.cpu[podName]
	return pct, ok
}

// SetProbeFailing injects a probe outcome: while failing is true, the named
// pod's probe of the given kind reports failure every evaluation.
func (e *Engine) SetProbeFailing(podName string, probe lifecycle.ProbeKind, failing bool) {
	m := e.failingProbes[podName]
	if m == nil {
		m = make(map[lifecycle.ProbeKind]bool)
		e.failingProbes[podName] = m
	}
	m[probe] = failing
}

func (e *Engine) probeFeed(podName string, probe lifecycle.ProbeKind) bool {
	return e.failingProbes[podName][probe]
}

// Cordon marks the node unschedulable.
func (e *Engine) Cordon(nodeName string) error {
	node, ok := e.st.GetNode(nodeName)
	if !ok {
		return fmt.Errorf("node %q not found", nodeName)
	}
	if !node.Spec.Unschedulable {
		node.Spec.Unschedulable = true
		e.rec.Normal(models.KindNode, nodeName, models.ReasonCordoned, "node cordoned")
	}
	return nil
}

// Uncordon clears the unschedulable flag.
func (e *Engine) Uncordon(nodeName string) error {
	node, ok := e.st.GetNode(nodeName)
	if !ok {
		return fmt.Errorf("node %q not found", nodeName)
	}
	node.Spec.Unschedulable = false
	return nil
}

// Drain cordons the node and evicts its pods, honoring every matching
// PodDisruptionBudget. A refused eviction is reported and skipped; the rest
// of the pods are still evicted. Already-evicted pods no longer count as
// healthy, so the admission check is safe to repeat.
func (e *Engine) Drain(nodeName string) (evicted, blocked []string, err error) {
	if err := e.Cordon(nodeName); err != nil {
		return nil, nil, err
	}
	for _, pod := range e.st.PodsOnNode(nodeName) {
		if pdb, ok := controllers.CanEvict(e.st, pod); !ok {
			blocked = append(blocked, pod.Metadata.Name)
			e.rec.Warning(models.KindPod, pod.Metadata.Name, models.ReasonEvictionBlocked,
				"eviction blocked by pdb %s", pdb.Metadata.Name)
			continue
		}
		e.markPodDeleted(pod)
		evicted = append(evicted, pod.Metadata.Name)
		e.rec.Normal(models.KindPod, pod.Metadata.Name, models.ReasonEvicted,
			"evicted from node %s", nodeName)
	}
	return evicted, blocked, nil
}

// RollbackDeployment swaps the template back to the newest previous revision.
func (e *Engine) RollbackDeployment(name string) error {
	return controllers.RollbackDeployment(e.st, e.rec, e.tick, name)
}

// Endpoints returns the derived endpoint view for a service.
func (e *Engine) Endpoints(serviceName string) ([]string, error) {
	svc, ok := e.st.GetService(serviceName)
	if !ok {
		return nil, fmt.Errorf("service %q not found", serviceName)
	}
	return svc.Status.Endpoints, nil
}

func (e *Engine) markPodDeleted(pod *models.Pod) {
	if pod.Metadata.Terminating() {
		return
	}
	t := e.tick
	pod.Metadata.DeletionTick = &t
	pod.Status.Phase = models.PodTerminating
	pod.Status.Ready = false
}

func (e *Engine) mark(m *models.Metadata) {
	if m.DeletionTick == nil {
		t := e.tick
		m.DeletionTick = &t
	}
}

// collectGarbage finishes two-phase deletion. Objects tombstoned on an
// earlier tick are physically removed once their dependents are gone, pods
// before ReplicaSets before Deployments; terminating owners first propagate
// the tombstone downward.
func (e *Engine) collectGarbage() {
	st := e.st

	// Propagate tombstones down the ownership graph.
	for _, d := range st.ListDeployments() {
		if d.Metadata.Terminating() {
			for _, rs := range st.ReplicaSetsOwnedBy(d.Metadata.UID) {
				e.mark(&rs.Metadata)
			}
		}
	}
	for _, cj := range st.ListCronJobs() {
		if cj.Metadata.Terminating() {
			for _, job := range st.JobsOwnedBy(cj.Metadata.UID) {
				e.mark(&job.Metadata)
			}
		}
	}
	markOwnedPods := func(uid string) {
		for _, pod := range st.PodsOwnedBy(uid) {
			e.markPodDeleted(pod)
		}
	}
	for _, rs := range st.ListReplicaSets() {
		if rs.Metadata.Terminating() {
			markOwnedPods(rs.Metadata.UID)
		}
	}
	for _, ss := range st.ListStatefulSets() {
		if ss.Metadata.Terminating() {
			markOwnedPods(ss.Metadata.UID)
		}
	}
	for _, ds := range st.ListDaemonSets() {
		if ds.Metadata.Terminating() {
			markOwnedPods(ds.Metadata.UID)
		}
	}
	for _, job := range st.ListJobs() {
		if job.Metadata.Terminating() {
			markOwnedPods(job.Metadata.UID)
		}
	}
	for _, node := range st.ListNodes() {
		if node.Metadata.Terminating() {
			for _, pod := range st.PodsOnNode(node.Metadata.Name) {
				e.markPodDeleted(pod)
			}
		}
	}

	// Physical removal. Only tombstones from earlier ticks are collected so
	// every deletion stays observable as Terminating for one full tick.
	due := func(m *models.Metadata) bool {
		return m.DeletionTick != nil && *m.DeletionTick < e.tick
	}
	for _, pod := range st.ListPods() {
		if due(&pod.Metadata) {
			st.RemovePod(pod.Metadata.UID)
		}
	}
	for _, rs := range st.ListReplicaSets() {
		if due(&rs.Metadata) && st.Dependents(rs.Metadata.UID) == 0 {
			st.RemoveReplicaSet(rs.Metadata.UID)
		}
	}
	for _, ss := range st.ListStatefulSets() {
		if due(&ss.Metadata) && st.Dependents(ss.Metadata.UID) == 0 {
			st.RemoveStatefulSet(ss.Metadata.UID)
		}
	}
	for _, ds := range st.ListDaemonSets() {
		if due(&ds.Metadata) && st.Dependents(ds.Metadata.UID) == 0 {
			st.RemoveDaemonSet(ds.Metadata.UID)
		}
	}
	for _, job := range st.ListJobs() {
		if due(&job.Metadata) && st.Dependents(job.Metadata.UID) == 0 {
			st.RemoveJob(job.Metadata.UID)
		}
	}
	for _, d := range st.ListDeployments() {
		if due(&d.Metadata) && st.Dependents(d.Metadata.UID) == 0 {
			st.RemoveDeployment(d.Metadata.UID)
		}
	}
	for _, cj := range st.ListCronJobs() {
		if due(&cj.Metadata) && st.Dependents(cj.Metadata.UID) == 0 {
			st.RemoveCronJob(cj.Metadata.UID)
		}
	}
	for _, node := range st.ListNodes() {
		if due(&node.Metadata) && len(st.PodsOnNode(node.Metadata.Name)) == 0 {
			st.RemoveNode(node.Metadata.UID)
		}
	}
	for _, svc := range st.ListServices() {
		if due(&svc.Metadata) {
			st.RemoveService(svc.Metadata.UID)
		}
	}
	for _, pdb := range st.ListPDBs() {
		if due(&pdb.Metadata) {
			st.RemovePDB(pdb.Metadata.UID)
		}
	}
	for _, hpa := range st.ListHPAs() {
		if due(&hpa.Metadata) {
			st.RemoveHPA(hpa.Metadata.UID)
		}
	}
}

// aggregate recomputes the derived views: node allocation counts, service
// endpoints and disruption budgets.
func (e *Engine) aggregate() {
	for _, node := range e.st.ListNodes() {
		allocated := len(e.st.PodsOnNode(node.Metadata.Name))
		if allocated > node.Spec.Capacity {
			panic(fmt.Sprintf("node %s: %d pods allocated, capacity %d",
				node.Metadata.Name, allocated, node.Spec.Capacity))
		}
		node.Status.AllocatedPods = allocated
	}

	for _, svc := range e.st.ListServices() {
		endpoints := []string{}
		for _, pod := range e.st.PodsMatching(svc.Spec.Selector) {
			if pod.Status.Phase == models.PodRunning {
				endpoints = append(endpoints, pod.Metadata.Name)
			}
		}
		svc.Status.Endpoints = endpoints
	}

	controllers.SyncPDBs(e.st, e.rec, e.tick)
}
