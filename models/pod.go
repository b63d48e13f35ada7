package models

type PodPhase string

const (
	PodPending     PodPhase = "Pending"
	PodRunning     PodPhase = "Running"
	PodSucceeded   PodPhase = "Succeeded"
	PodFailed      PodPhase = "Failed"
	PodTerminating PodPhase = "Terminating"
)

// Toleration lets a pod be scheduled onto a node carrying a matching taint.
// An empty Value tolerates any value for the key; an empty Effect tolerates
// every effect.
type Toleration struct {
	Key    string      `json:"key" yaml:"key"`
	Value  string      `json:"value,omitempty" yaml:"value,omitempty"`
	Effect TaintEffect `json:"effect,omitempty" yaml:"effect,omitempty"`
}

// Tolerates reports whether this toleration covers the given taint.
func (t Toleration) Tolerates(taint Taint) bool {
	if t.Key != taint.Key {
		return false
	}
	if t.Value != "" && t.Value != taint.Value {
		return false
	}
	if t.Effect != "" && t.Effect != taint.Effect {
		return false
	}
	return true
}

type ProbeHandler string

const (
	ProbeHTTPGet   ProbeHandler = "httpGet"
	ProbeTCPSocket ProbeHandler = "tcpSocket"
	ProbeExec      ProbeHandler = "exec"
)

// Probe is a simulated health check. Ticks stand in for seconds; the probe
// outcome itself is driven by failure injection, the thresholds here decide
// when repeated failures take effect.
type Probe struct {
	Handler           ProbeHandler `json:"handler" yaml:"handler"`
	InitialDelayTicks int          `json:"initialDelayTicks,omitempty" yaml:"initialDelayTicks,omitempty"`
	PeriodTicks       int          `json:"periodTicks,omitempty" yaml:"periodTicks,omitempty"`
	FailureThreshold  int          `json:"failureThreshold,omitempty" yaml:"failureThreshold,omitempty"`
}

type Container struct {
	Name  string `json:"name" yaml:"name"`
	Image string `json:"image" yaml:"image"`
}

type PodSpec struct {
	Image          string       `json:"image" yaml:"image"`
	NodeName       string       `json:"nodeName,omitempty" yaml:"nodeName,omitempty"` // empty until scheduled
	Tolerations    []Toleration `json:"tolerations,omitempty" yaml:"tolerations,omitempty"`
	InitContainers []Container  `json:"initContainers,omitempty" yaml:"initContainers,omitempty"`

	StartupProbe   *Probe `json:"startupProbe,omitempty" yaml:"startupProbe,omitempty"`
	ReadinessProbe *Probe `json:"readinessProbe,omitempty" yaml:"readinessProbe,omitempty"`
	LivenessProbe  *Probe `json:"livenessProbe,omitempty" yaml:"livenessProbe,omitempty"`

	// CompletionTicks > 0 makes the pod a run-to-completion pod (Job pods):
	// after that many Running ticks it transitions to Succeeded, or Failed
	// when SimulateFailure is set. Zero means run forever.
	CompletionTicks int  `json:"completionTicks,omitempty" yaml:"completionTicks,omitempty"`
	SimulateFailure bool `json:"simulateFailure,omitempty" yaml:"simulateFailure,omitempty"`
}

type PodStatus struct {
	Phase        PodPhase `json:"phase" yaml:"phase"`
	Ready        bool     `json:"ready" yaml:"ready"`
	RestartCount int      `json:"restartCount" yaml:"restartCount"`

	// ScheduledTick records when the scheduler bound the pod to a node.
	ScheduledTick *int `json:"scheduledTick,omitempty" yaml:"scheduledTick,omitempty"`

	// SettleStartTick is where the settle countdown is measured from; it is
	// the creation tick, bumped forward on every liveness restart.
	SettleStartTick int `json:"settleStartTick" yaml:"settleStartTick"`

	// StartupPassed is latched once the startup probe succeeds.
	StartupPassed bool `json:"startupPassed,omitempty" yaml:"startupPassed,omitempty"`

	// Consecutive probe failure counters.
	StartupFailures   int `json:"startupFailures,omitempty" yaml:"startupFailures,omitempty"`
	ReadinessFailures int `json:"readinessFailures,omitempty" yaml:"readinessFailures,omitempty"`
	LivenessFailures  int `json:"livenessFailures,omitempty" yaml:"livenessFailures,omitempty"`

	// RunningTicks counts ticks spent Running, used for the completion
	// countdown of run-to-completion pods.
	RunningTicks int `json:"runningTicks,omitempty" yaml:"runningTicks,omitempty"`
}

type Pod struct {
	Metadata Metadata  `json:"metadata" yaml:"metadata"`
	Spec     PodSpec   `json:"spec" yaml:"spec"`
	Status   PodStatus `json:"status" yaml:"status"`
}

// Active reports whether the pod counts toward its controller's replica
// total: not terminating and not finished.
func (p *Pod) Active() bool {
	return !p.Metadata.Terminating() &&
		p.Status.Phase != PodSucceeded && p.Status.Phase != PodFailed
}

// RunningAndReady is the readiness test used for status counts.
func (p *Pod) RunningAndReady() bool {
	return !p.Metadata.Terminating() && p.Status.Phase == PodRunning && p.Status.Ready
}

// PodTemplate describes the pods a workload controller stamps out.
type PodTemplate struct {
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Spec   PodSpec           `json:"spec" yaml:"spec"`
}
