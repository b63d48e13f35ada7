package models

type TaintEffect string

const (
	TaintNoSchedule       TaintEffect = "NoSchedule"
	TaintPreferNoSchedule TaintEffect = "PreferNoSchedule"
	TaintNoExecute        TaintEffect = "NoExecute"
)

type Taint struct {
	Key    string      `json:"key" yaml:"key"`
	Value  string      `json:"value,omitempty" yaml:"value,omitempty"`
	Effect TaintEffect `json:"effect" yaml:"effect"`
}

type NodeSpec struct {
	Capacity      int     `json:"capacity" yaml:"capacity"` // max schedulable pods
	Unschedulable bool    `json:"unschedulable,omitempty" yaml:"unschedulable,omitempty"`
	Taints        []Taint `json:"taints,omitempty" yaml:"taints,omitempty"`
}

type NodeStatus struct {
	Ready bool `json:"ready" yaml:"ready"`

	// AllocatedPods is derived each tick from the pods bound to this node.
	AllocatedPods int `json:"allocatedPods" yaml:"allocatedPods"`
}

type Node struct {
	Metadata Metadata   `json:"metadata" yaml:"metadata"`
	Spec     NodeSpec   `json:"spec" yaml:"spec"`
	Status   NodeStatus `json:"status" yaml:"status"`
}
