package models

// RollingUpdate bounds how far a rollout may stray from the desired count:
// at most desired+maxSurge pods exist, at least desired-maxUnavailable are
// ready, at every point during the update.
type RollingUpdate struct {
	MaxSurge       int `json:"maxSurge" yaml:"maxSurge"`
	MaxUnavailable int `json:"maxUnavailable" yaml:"maxUnavailable"`
}

type DeploymentSpec struct {
	Replicas int           `json:"replicas" yaml:"replicas"`
	Selector Selector      `json:"selector" yaml:"selector"`
	Template PodTemplate   `json:"template" yaml:"template"`
	Strategy RollingUpdate `json:"strategy" yaml:"strategy"`
}

type DeploymentStatus struct {
	Replicas          int `json:"replicas" yaml:"replicas"`
	UpdatedReplicas   int `json:"updatedReplicas" yaml:"updatedReplicas"`
	ReadyReplicas     int `json:"readyReplicas" yaml:"readyReplicas"`
	AvailableReplicas int `json:"availableReplicas" yaml:"availableReplicas"`
}

type Deployment struct {
	Metadata Metadata         `json:"metadata" yaml:"metadata"`
	Spec     DeploymentSpec   `json:"spec" yaml:"spec"`
	Status   DeploymentStatus `json:"status" yaml:"status"`
}
