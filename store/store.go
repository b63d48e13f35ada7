// Package store holds every resource in the simulated cluster. It is the
// single source of truth: typed collections per kind, name uniqueness within
// a kind, creation-order listings and an owner index for cascade deletion.
//
// The store is plain data. It never decides anything; controllers read it and
// write back the fields they own. There is one Store per engine, passed
// explicitly; no package-level state.
package store

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/lunstb/learn-k8s-sub003/models"
)

// collection is one kind's objects, indexed by UID and by name.
type collection[T any] struct {
	byUID  map[string]*T
	byName map[string]string
	meta   func(*T) *models.Metadata
}

func newCollection[T any](meta func(*T) *models.Metadata) collection[T] {
	return collection[T]{
		byUID:  make(map[string]*T),
		byName: make(map[string]string),
		meta:   meta,
	}
}

func (c *collection[T]) get(name string) (*T, bool) {
	uid, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return c.byUID[uid], true
}

// list returns every object in creation order.
func (c *collection[T]) list() []*T {
	out := make([]*T, 0, len(c.byUID))
	for _, obj := range c.byUID {
		out = append(out, obj)
	}
	sort.Slice(out, func(i, j int) bool {
		return c.meta(out[i]).Seq < c.meta(out[j]).Seq
	})
	return out
}

func (c *collection[T]) remove(uid string) {
	obj, ok := c.byUID[uid]
	if !ok {
		return
	}
	delete(c.byName, c.meta(obj).Name)
	delete(c.byUID, uid)
}

type Store struct {
	seq int64

	nodes        collection[models.Node]
	pods         collection[models.Pod]
	replicaSets  collection[models.ReplicaSet]
	deployments  collection[models.Deployment]
	statefulSets collection[models.StatefulSet]
	daemonSets   collection[models.DaemonSet]
	jobs         collection[models.Job]
	cronJobs     collection[models.CronJob]
	autoscalers  collection[models.HorizontalPodAutoscaler]
	budgets      collection[models.PodDisruptionBudget]
	services     collection[models.Service]

	// owners maps an owner UID to the UIDs of its dependents, maintained
	// incrementally on add/remove. The back-pointer on the dependent stays
	// authoritative; this is just the reverse index.
	owners map[string]map[string]models.Kind
}

func New() *Store {
	return &Store{
		nodes:        newCollection(func(o *models.Node) *models.Metadata { return &o.Metadata }),
		pods:         newCollection(func(o *models.Pod) *models.Metadata { return &o.Metadata }),
		replicaSets:  newCollection(func(o *models.ReplicaSet) *models.Metadata { return &o.Metadata }),
		deployments:  newCollection(func(o *models.Deployment) *models.Metadata { return &o.Metadata }),
		statefulSets: newCollection(func(o *models.StatefulSet) *models.Metadata { return &o.Metadata }),
		daemonSets:   newCollection(func(o *models.DaemonSet) *models.Metadata { return &o.Metadata }),
		jobs:         newCollection(func(o *models.Job) *models.Metadata { return &o.Metadata }),
		cronJobs:     newCollection(func(o *models.CronJob) *models.Metadata { return &o.Metadata }),
		autoscalers:  newCollection(func(o *models.HorizontalPodAutoscaler) *models.Metadata { return &o.Metadata }),
		budgets:      newCollection(func(o *models.PodDisruptionBudget) *models.Metadata { return &o.Metadata }),
		services:     newCollection(func(o *models.Service) *models.Metadata { return &o.Metadata }),
		owners:       make(map[string]map[string]models.Kind),
	}
}

// stamp assigns identity and ordering fields at creation time. The UID is
// immutable afterwards.
func (s *Store) stamp(m *models.Metadata, tick int) {
	if m.UID == "" {
		m.UID = uuid.New().String()
	}
	s.seq++
	m.Seq = s.seq
	m.CreatedTick = tick
}

func (s *Store) indexOwner(m *models.Metadata, kind models.Kind) {
	if m.OwnerRef == nil {
		return
	}
	deps := s.owners[m.OwnerRef.UID]
	if deps == nil {
		deps = make(map[string]models.Kind)
		s.owners[m.OwnerRef.UID] = deps
	}
	deps[m.UID] = kind
}

func (s *Store) unindexOwner(m *models.Metadata) {
	if m.OwnerRef == nil {
		return
	}
	deps := s.owners[m.OwnerRef.UID]
	delete(deps, m.UID)
	if len(deps) == 0 {
		delete(s.owners, m.OwnerRef.UID)
	}
}

func add[T any](s *Store, c *collection[T], kind models.Kind, obj *T, tick int) error {
	m := c.meta(obj)
	if m.Name == "" {
		return fmt.Errorf("%s: name is required", kind)
	}
	if _, exists := c.byName[m.Name]; exists {
		return fmt.Errorf("%s %q already exists", kind, m.Name)
	}
	s.stamp(m, tick)
	c.byUID[m.UID] = obj
	c.byName[m.Name] = m.UID
	s.indexOwner(m, kind)
	return nil
}

func remove[T any](s *Store, c *collection[T], uid string) {
	if obj, ok := c.byUID[uid]; ok {
		s.unindexOwner(c.meta(obj))
	}
	c.remove(uid)
}

// --- Nodes ---

func (s *Store) AddNode(n *models.Node, tick int) error { return add(s, &s.nodes, models.KindNode, n, tick) }
func (s *Store) GetNode(name string) (*models.Node, bool) { return s.nodes.get(name) }
func (s *Store) ListNodes() []*models.Node                { return s.nodes.list() }
func (s *Store) RemoveNode(uid string)                    { remove(s, &s.nodes, uid) }

// --- Pods ---

func (s *Store) AddPod(p *models.Pod, tick int) error   { return add(s, &s.pods, models.KindPod, p, tick) }
func (s *Store) GetPod(name string) (*models.Pod, bool) { return s.pods.get(name) }
func (s *Store) ListPods() []*models.Pod                { return s.pods.list() }
func (s *Store) RemovePod(uid string)                   { remove(s, &s.pods, uid) }

// PodsOwnedBy returns the pods whose owner reference is the given UID, in
// creation order.
func (s *Store) PodsOwnedBy(ownerUID string) []*models.Pod {
	var out []*models.Pod
	for uid, kind := range s.owners[ownerUID] {
		if kind != models.KindPod {
			continue
		}
		if p, ok := s.pods.byUID[uid]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Metadata.Seq < out[j].Metadata.Seq })
	return out
}

// PodsOnNode returns the active pods bound to a node, in creation order.
func (s *Store) PodsOnNode(node string) []*models.Pod {
	var out []*models.Pod
	for _, p := range s.pods.list() {
		if p.Spec.NodeName == node && p.Active() {
			out = append(out, p)
		}
	}
	return out
}

// PodsMatching returns the non-terminating pods whose labels satisfy the
// selector, in creation order.
func (s *Store) PodsMatching(sel models.Selector) []*models.Pod {
	var out []*models.Pod
	for _, p := range s.pods.list() {
		if !p.Metadata.Terminating() && sel.Matches(p.Metadata.Labels) {
			out = append(out, p)
		}
	}
	return out
}

// PodsMatchingAll returns every stored pod whose labels satisfy the selector,
// tombstoned ones included, in creation order.
func (s *Store) PodsMatchingAll(sel models.Selector) []*models.Pod {
	var out []*models.Pod
	for _, p := range s.pods.list() {
		if sel.Matches(p.Metadata.Labels) {
			out = append(out, p)
		}
	}
	return out
}

// --- ReplicaSets ---

func (s *Store) AddReplicaSet(rs *models.ReplicaSet, tick int) error {
	return add(s, &s.replicaSets, models.KindReplicaSet, rs, tick)
}
func (s *Store) GetReplicaSet(name string) (*models.ReplicaSet, bool) { return s.replicaSets.get(name) }
func (s *Store) ListReplicaSets() []*models.ReplicaSet                { return s.replicaSets.list() }
func (s *Store) RemoveReplicaSet(uid string)                          { remove(s, &s.replicaSets, uid) }

// ReplicaSetsOwnedBy returns the ReplicaSets owned by the given UID, in
// creation order.
func (s *Store) ReplicaSetsOwnedBy(ownerUID string) []*models.ReplicaSet {
	var out []*models.ReplicaSet
	for uid, kind := range s.owners[ownerUID] {
		if kind != models.KindReplicaSet {
			continue
		}
		if rs, ok := s.replicaSets.byUID[uid]; ok {
			out = append(out, rs)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Metadata.Seq < out[j].Metadata.Seq })
	return out
}

// --- Deployments ---

func (s *Store) AddDeployment(d *models.Deployment, tick int) error {
	return add(s, &s.deployments, models.KindDeployment, d, tick)
}
func (s *Store) GetDeployment(name string) (*models.Deployment, bool) { return s.deployments.get(name) }
func (s *Store) ListDeployments() []*models.Deployment                { return s.deployments.list() }
func (s *Store) RemoveDeployment(uid string)                          { remove(s, &s.deployments, uid) }

// --- StatefulSets ---

func (s *Store) AddStatefulSet(ss *models.StatefulSet, tick int) error {
	return add(s, &s.statefulSets, models.KindStatefulSet, ss, tick)
}
func (s *Store) GetStatefulSet(name string) (*models.StatefulSet, bool) {
	return s.statefulSets.get(name)
}
func (s *Store) ListStatefulSets() []*models.StatefulSet { return s.statefulSets.list() }
func (s *Store) RemoveStatefulSet(uid string)            { remove(s, &s.statefulSets, uid) }

// --- DaemonSets ---

func (s *Store) AddDaemonSet(ds *models.DaemonSet, tick int) error {
	return add(s, &s.daemonSets, models.KindDaemonSet, ds, tick)
}
func (s *Store) GetDaemonSet(name string) (*models.DaemonSet, bool) { return s.daemonSets.get(name) }
func (s *Store) ListDaemonSets() []*models.DaemonSet                { return s.daemonSets.list() }
func (s *Store) RemoveDaemonSet(uid string)                         { remove(s, &s.daemonSets, uid) }

// --- Jobs ---

func (s *Store) AddJob(j *models.Job, tick int) error   { return add(s, &s.jobs, models.KindJob, j, tick) }
func (s *Store) GetJob(name string) (*models.Job, bool) { return s.jobs.get(name) }
func (s *Store) ListJobs() []*models.Job                { return s.jobs.list() }
func (s *Store) RemoveJob(uid string)                   { remove(s, &s.jobs, uid) }

// JobsOwnedBy returns the Jobs owned by the given UID, in creation order.
func (s *Store) JobsOwnedBy(ownerUID string) []*models.Job {
	var out []*models.Job
	for uid, kind := range s.owners[ownerUID] {
		if kind != models.KindJob {
			continue
		}
		if j, ok := s.jobs.byUID[uid]; ok {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Metadata.Seq < out[j].Metadata.Seq })
	return out
}

// --- CronJobs ---

func (s *Store) AddCronJob(cj *models.CronJob, tick int) error {
	return add(s, &s.cronJobs, models.KindCronJob, cj, tick)
}
func (s *Store) GetCronJob(name string) (*models.CronJob, bool) { return s.cronJobs.get(name) }
func (s *Store) ListCronJobs() []*models.CronJob                { return s.cronJobs.list() }
func (s *Store) RemoveCronJob(uid string)                       { remove(s, &s.cronJobs, uid) }

// --- HorizontalPodAutoscalers ---

func (s *Store) AddHPA(h *models.HorizontalPodAutoscaler, tick int) error {
	return add(s, &s.autoscalers, models.KindHPA, h, tick)
}
func (s *Store) GetHPA(name string) (*models.HorizontalPodAutoscaler, bool) {
	return s.autoscalers.get(name)
}
func (s *Store) ListHPAs() []*models.HorizontalPodAutoscaler { return s.autoscalers.list() }
func (s *Store) RemoveHPA(uid string)                        { remove(s, &s.autoscalers, uid) }

// --- PodDisruptionBudgets ---

func (s *Store) AddPDB(pdb *models.PodDisruptionBudget, tick int) error {
	return add(s, &s.budgets, models.KindPDB, pdb, tick)
}
func (s *Store) GetPDB(name string) (*models.PodDisruptionBudget, bool) { return s.budgets.get(name) }
func (s *Store) ListPDBs() []*models.PodDisruptionBudget                { return s.budgets.list() }
func (s *Store) RemovePDB(uid string)                                   { remove(s, &s.budgets, uid) }

// --- Services ---

func (s *Store) AddService(svc *models.Service, tick int) error {
	return add(s, &s.services, models.KindService, svc, tick)
}
func (s *Store) GetService(name string) (*models.Service, bool) { return s.services.get(name) }
func (s *Store) ListServices() []*models.Service                { return s.services.list() }
func (s *Store) RemoveService(uid string)                       { remove(s, &s.services, uid) }

// Dependents reports how many dependents of the given owner are still stored.
func (s *Store) Dependents(ownerUID string) int {
	return len(s.owners[ownerUID])
}
