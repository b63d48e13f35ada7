package models

// StatefulSetOrdinalLabel records a pod's stable ordinal. The pod name is
// <set name>-<ordinal> and survives recreation.
const StatefulSetOrdinalLabel = "statefulset-ordinal"

type StatefulSetSpec struct {
	Replicas int         `json:"replicas" yaml:"replicas"`
	Selector Selector    `json:"selector" yaml:"selector"`
	Template PodTemplate `json:"template" yaml:"template"`
}

type StatefulSetStatus struct {
	Replicas      int `json:"replicas" yaml:"replicas"`
	ReadyReplicas int `json:"readyReplicas" yaml:"readyReplicas"`
}

type StatefulSet struct {
	Metadata Metadata          `json:"metadata" yaml:"metadata"`
	Spec     StatefulSetSpec   `json:"spec" yaml:"spec"`
	Status   StatefulSetStatus `json:"status" yaml:"status"`
}
