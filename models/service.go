package models

type ServiceSpec struct {
	Selector Selector `json:"selector" yaml:"selector"`
	Port     int      `json:"port" yaml:"port"`
}

type ServiceStatus struct {
	// Endpoints is a derived view: the names of selector-matching Running
	// pods, recomputed every tick and never stored authoritatively elsewhere.
	Endpoints []string `json:"endpoints" yaml:"endpoints"`
}

type Service struct {
	Metadata Metadata      `json:"metadata" yaml:"metadata"`
	Spec     ServiceSpec   `json:"spec" yaml:"spec"`
	Status   ServiceStatus `json:"status" yaml:"status"`
}
