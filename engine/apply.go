package engine

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/lunstb/learn-k8s-sub003/models"
)

// The Apply methods are the mutation boundary: desired state is validated
// here, synchronously, and rejected input never enters the store. Applying an
// existing name updates that object's spec in place.

func (e *Engine) ApplyNode(n *models.Node) error {
	if n.Spec.Capacity <= 0 {
		return fmt.Errorf("node %q: capacity must be positive", n.Metadata.Name)
	}
	for _, taint := range n.Spec.Taints {
		switch taint.Effect {
		case models.TaintNoSchedule, models.TaintPreferNoSchedule, models.TaintNoExecute:
		default:
			return fmt.Errorf("node %q: unknown taint effect %q", n.Metadata.Name, taint.Effect)
		}
		if taint.Key == "" {
			return fmt.Errorf("node %q: taint key is required", n.Metadata.Name)
		}
	}
	if existing, ok := e.st.GetNode(n.Metadata.Name); ok {
		existing.Spec = n.Spec
		return nil
	}
	n.Status.Ready = true // simulated nodes come up ready
	return e.st.AddNode(n, e.tick)
}

// SetNodeReady flips the node's readiness condition (failure injection).
func (e *Engine) SetNodeReady(name string, ready bool) error {
	node, ok := e.st.GetNode(name)
	if !ok {
		return fmt.Errorf("node %q not found", name)
	}
	node.Status.Ready = ready
	return nil
}

func (e *Engine) ApplyPod(p *models.Pod) error {
	if p.Spec.Image == "" {
		return fmt.Errorf("pod %q: image is required", p.Metadata.Name)
	}
	if _, ok := e.st.GetPod(p.Metadata.Name); ok {
		return fmt.Errorf("pod %q already exists and pod specs are immutable", p.Metadata.Name)
	}
	p.Status = models.PodStatus{Phase: models.PodPending, SettleStartTick: e.tick}
	return e.st.AddPod(p, e.tick)
}

func validateTemplate(tpl models.PodTemplate, sel models.Selector) error {
	if tpl.Spec.Image == "" {
		return fmt.Errorf("template image is required")
	}
	if err := sel.Validate(); err != nil {
		return err
	}
	if !sel.Matches(tpl.Labels) {
		return fmt.Errorf("selector does not match template labels")
	}
	return nil
}

func (e *Engine) ApplyReplicaSet(rs *models.ReplicaSet) error {
	if rs.Spec.Replicas < 0 {
		return fmt.Errorf("replicaset %q: replicas must be >= 0", rs.Metadata.Name)
	}
	if err := validateTemplate(rs.Spec.Template, rs.Spec.Selector); err != nil {
		return fmt.Errorf("replicaset %q: %w", rs.Metadata.Name, err)
	}
	if existing, ok := e.st.GetReplicaSet(rs.Metadata.Name); ok {
		existing.Spec = rs.Spec
		return nil
	}
	return e.st.AddReplicaSet(rs, e.tick)
}

func (e *Engine) ApplyDeployment(d *models.Deployment) error {
	if d.Spec.Replicas < 0 {
		return fmt.Errorf("deployment %q: replicas must be >= 0", d.Metadata.Name)
	}
	if err := validateTemplate(d.Spec.Template, d.Spec.Selector); err != nil {
		return fmt.Errorf("deployment %q: %w", d.Metadata.Name, err)
	}
	s := d.Spec.Strategy
	if s.MaxSurge < 0 || s.MaxUnavailable < 0 {
		return fmt.Errorf("deployment %q: surge and unavailability bounds must be >= 0", d.Metadata.Name)
	}
	if s.MaxSurge == 0 && s.MaxUnavailable == 0 {
		return fmt.Errorf("deployment %q: maxSurge and maxUnavailable cannot both be zero", d.Metadata.Name)
	}
	if existing, ok := e.st.GetDeployment(d.Metadata.Name); ok {
		existing.Spec = d.Spec
		return nil
	}
	return e.st.AddDeployment(d, e.tick)
}

func (e *Engine) ApplyStatefulSet(ss *models.StatefulSet) error {
	if ss.Spec.Replicas < 0 {
		return fmt.Errorf("statefulset %q: replicas must be >= 0", ss.Metadata.Name)
	}
	if err := validateTemplate(ss.Spec.Template, ss.Spec.Selector); err != nil {
		return fmt.Errorf("statefulset %q: %w", ss.Metadata.Name, err)
	}
	if existing, ok := e.st.GetStatefulSet(ss.Metadata.Name); ok {
		existing.Spec = ss.Spec
		return nil
	}
	return e.st.AddStatefulSet(ss, e.tick)
}

func (e *Engine) ApplyDaemonSet(ds *models.DaemonSet) error {
	if err := validateTemplate(ds.Spec.Template, ds.Spec.Selector); err != nil {
		return fmt.Errorf("daemonset %q: %w", ds.Metadata.Name, err)
	}
	if existing, ok := e.st.GetDaemonSet(ds.Metadata.Name); ok {
		existing.Spec = ds.Spec
		return nil
	}
	return e.st.AddDaemonSet(ds, e.tick)
}

func validateJobSpec(spec models.JobSpec) error {
	if spec.Completions <= 0 {
		return fmt.Errorf("completions must be positive")
	}
	if spec.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be positive")
	}
	if spec.BackoffLimit < 0 {
		return fmt.Errorf("backoffLimit must be >= 0")
	}
	if spec.CompletionTicks <= 0 {
		return fmt.Errorf("completionTicks must be positive")
	}
	if spec.Template.Spec.Image == "" {
		return fmt.Errorf("template image is required")
	}
	return nil
}

func (e *Engine) ApplyJob(j *models.Job) error {
	if err := validateJobSpec(j.Spec); err != nil {
		return fmt.Errorf("job %q: %w", j.Metadata.Name, err)
	}
	if existing, ok := e.st.GetJob(j.Metadata.Name); ok {
		existing.Spec = j.Spec
		return nil
	}
	j.Status.Phase = models.JobRunning
	return e.st.AddJob(j, e.tick)
}

func (e *Engine) ApplyCronJob(cj *models.CronJob) error {
	if _, err := cron.ParseStandard(cj.Spec.Schedule); err != nil {
		return fmt.Errorf("cronjob %q: bad schedule: %w", cj.Metadata.Name, err)
	}
	if err := validateJobSpec(cj.Spec.JobTemplate); err != nil {
		return fmt.Errorf("cronjob %q: %w", cj.Metadata.Name, err)
	}
	if cj.Spec.ConcurrencyPolicy == "" {
		cj.Spec.ConcurrencyPolicy = models.ConcurrencyForbid
	}
	if existing, ok := e.st.GetCronJob(cj.Metadata.Name); ok {
		existing.Spec = cj.Spec
		return nil
	}
	return e.st.AddCronJob(cj, e.tick)
}

func (e *Engine) ApplyHPA(h *models.HorizontalPodAutoscaler) error {
	if h.Spec.TargetKind != models.KindDeployment {
		return fmt.Errorf("hpa %q: only Deployment targets are supported", h.Metadata.Name)
	}
	if h.Spec.MinReplicas < 1 || h.Spec.MaxReplicas < h.Spec.MinReplicas {
		return fmt.Errorf("hpa %q: need 1 <= min <= max", h.Metadata.Name)
	}
	if h.Spec.TargetCPUPercent <= 0 {
		return fmt.Errorf("hpa %q: target utilization must be positive", h.Metadata.Name)
	}
	if existing, ok := e.st.GetHPA(h.Metadata.Name); ok {
		existing.Spec = h.Spec
		return nil
	}
	return e.st.AddHPA(h, e.tick)
}

func (e *Engine) ApplyPDB(pdb *models.PodDisruptionBudget) error {
	if err := pdb.Spec.Selector.Validate(); err != nil {
		return fmt.Errorf("pdb %q: %w", pdb.Metadata.Name, err)
	}
	minSet, maxSet := pdb.Spec.MinAvailable != nil, pdb.Spec.MaxUnavailable != nil
	if minSet == maxSet {
		return fmt.Errorf("pdb %q: exactly one of minAvailable or maxUnavailable must be set", pdb.Metadata.Name)
	}
	if minSet && *pdb.Spec.MinAvailable < 0 || maxSet && *pdb.Spec.MaxUnavailable < 0 {
		return fmt.Errorf("pdb %q: budget must be >= 0", pdb.Metadata.Name)
	}
	if existing, ok := e.st.GetPDB(pdb.Metadata.Name); ok {
		existing.Spec = pdb.Spec
		return nil
	}
	return e.st.AddPDB(pdb, e.tick)
}

func (e *Engine) ApplyService(svc *models.Service) error {
	if err := svc.Spec.Selector.Validate(); err != nil {
		return fmt.Errorf("service %q: %w", svc.Metadata.Name, err)
	}
	if svc.Spec.Port <= 0 {
		return fmt.Errorf("service %q: port must be positive", svc.Metadata.Name)
	}
	if existing, ok := e.st.GetService(svc.Metadata.Name); ok {
		existing.Spec = svc.Spec
		return nil
	}
	return e.st.AddService(svc, e.tick)
}

// Delete starts two-phase deletion for the named object: the tombstone is set
// now, physical removal happens on a later tick once dependents are cleared.
func (e *Engine) Delete(kind models.Kind, name string) error {
	m, err := e.lookup(kind, name)
	if err != nil {
		return err
	}
	if kind == models.KindPod {
		pod, _ := e.st.GetPod(name)
		e.markPodDeleted(pod)
	} else {
		e.mark(m)
	}
	e.rec.Normal(kind, name, models.ReasonDeleted, "deletion requested")
	return nil
}

func (e *Engine) lookup(kind models.Kind, name string) (*models.Metadata, error) {
	var (
		m  *models.Metadata
		ok bool
	)
	switch kind {
	case models.KindNode:
		if o, found := e.st.GetNode(name); found {
			m, ok = &o.Metadata, true
		}
	case models.KindPod:
		if o, found := e.st.GetPod(name); found {
			m, ok = &o.Metadata, true
		}
	case models.KindReplicaSet:
		if o, found := e.st.GetReplicaSet(name); found {
			m, ok = &o.Metadata, true
		}
	case models.KindDeployment:
		if o, found := e.st.GetDeployment(name); found {
			m, ok = &o.Metadata, true
		}
	case models.KindStatefulSet:
		if o, found := e.st.GetStatefulSet(name); found {
			m, ok = &o.Metadata, true
		}
	case models.KindDaemonSet:
		if o, found := e.st.GetDaemonSet(name); found {
			m, ok = &o.Metadata, true
		}
	case models.KindJob:
		if o, found := e.st.GetJob(name); found {
			m, ok = &o.Metadata, true
		}
	case models.KindCronJob:
		if o, found := e.st.GetCronJob(name); found {
			m, ok = &o.Metadata, true
		}
	case models.KindHPA:
		if o, found := e.st.GetHPA(name); found {
			m, ok = &o.Metadata, true
		}
	case models.KindPDB:
		if o, found := e.st.GetPDB(name); found {
			m, ok = &o.Metadata, true
		}
	case models.KindService:
		if o, found := e.st.GetService(name); found {
			m, ok = &o.Metadata, true
		}
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	if !ok {
		return nil, fmt.Errorf("%s %q not found", kind, name)
	}
	return m, nil
}
