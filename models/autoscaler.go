package models

type HPASpec struct {
	// Only Deployments can be autoscaled.
	TargetKind Kind   `json:"targetKind" yaml:"targetKind"`
	TargetName string `json:"targetName" yaml:"targetName"`

	MinReplicas      int `json:"minReplicas" yaml:"minReplicas"`
	MaxReplicas      int `json:"maxReplicas" yaml:"maxReplicas"`
	TargetCPUPercent int `json:"targetCPUPercent" yaml:"targetCPUPercent"`
}

type HPAStatus struct {
	CurrentCPUPercent int  `json:"currentCPUPercent" yaml:"currentCPUPercent"`
	DesiredReplicas   int  `json:"desiredReplicas" yaml:"desiredReplicas"`
	LastScaleTick     *int `json:"lastScaleTick,omitempty" yaml:"lastScaleTick,omitempty"`
}

type HorizontalPodAutoscaler struct {
	Metadata Metadata  `json:"metadata" yaml:"metadata"`
	Spec     HPASpec   `json:"spec" yaml:"spec"`
	Status   HPAStatus `json:"status" yaml:"status"`
}
