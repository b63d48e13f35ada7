package models

type DaemonSetSpec struct {
	Selector Selector    `json:"selector" yaml:"selector"`
	Template PodTemplate `json:"template" yaml:"template"`
}

type DaemonSetStatus struct {
	DesiredNumberScheduled int `json:"desiredNumberScheduled" yaml:"desiredNumberScheduled"`
	CurrentNumberScheduled int `json:"currentNumberScheduled" yaml:"currentNumberScheduled"`
	NumberReady            int `json:"numberReady" yaml:"numberReady"`
}

type DaemonSet struct {
	Metadata Metadata        `json:"metadata" yaml:"metadata"`
	Spec     DaemonSetSpec   `json:"spec" yaml:"spec"`
	Status   DaemonSetStatus `json:"status" yaml:"status"`
}
