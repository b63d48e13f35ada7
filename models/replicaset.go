package models

// PodTemplateHashLabel carries the template hash on a ReplicaSet and on every
// pod it creates, so multiple generations can coexist during a rollout.
const PodTemplateHashLabel = "pod-template-hash"

type ReplicaSetSpec struct {
	Replicas int         `json:"replicas" yaml:"replicas"`
	Selector Selector    `json:"selector" yaml:"selector"`
	Template PodTemplate `json:"template" yaml:"template"`
}

type ReplicaSetStatus struct {
	Replicas      int `json:"replicas" yaml:"replicas"`
	ReadyReplicas int `json:"readyReplicas" yaml:"readyReplicas"`

	// CreatedPods counts every pod ever created by this set, so replacement
	// pods get fresh names deterministically.
	CreatedPods int `json:"createdPods" yaml:"createdPods"`
}

type ReplicaSet struct {
	Metadata Metadata         `json:"metadata" yaml:"metadata"`
	Spec     ReplicaSetSpec   `json:"spec" yaml:"spec"`
	Status   ReplicaSetStatus `json:"status" yaml:"status"`
}

// TemplateHash returns the generation hash stamped on this ReplicaSet.
func (rs *ReplicaSet) TemplateHash() string {
	return rs.Metadata.Labels[PodTemplateHashLabel]
}
