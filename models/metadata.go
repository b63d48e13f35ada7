package models

// Kind names every resource type stored by the cluster.
type Kind string

const (
	KindNode        Kind = "Node"
	KindPod         Kind = "Pod"
	KindReplicaSet  Kind = "ReplicaSet"
	KindDeployment  Kind = "Deployment"
	KindStatefulSet Kind = "StatefulSet"
	KindDaemonSet   Kind = "DaemonSet"
	KindJob         Kind = "Job"
	KindCronJob     Kind = "CronJob"
	KindHPA         Kind = "HorizontalPodAutoscaler"
	KindPDB         Kind = "PodDisruptionBudget"
	KindService     Kind = "Service"
)

// OwnerReference is a non-owning back-pointer to the controller object
// responsible for this object's existence. Used for cascade deletion and
// attribution, never for lifetime.
type OwnerReference struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Name string `json:"name" yaml:"name"`
	UID  string `json:"uid" yaml:"uid"`
}

type Metadata struct {
	Name   string            `json:"name" yaml:"name"`
	UID    string            `json:"uid,omitempty" yaml:"uid,omitempty"`
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`

	OwnerRef *OwnerReference `json:"ownerRef,omitempty" yaml:"ownerRef,omitempty"`

	// CreatedTick and Seq are assigned by the store. Seq is a cluster-wide
	// monotonic counter so listings have a stable creation order even when
	// many objects are created within one tick.
	CreatedTick int   `json:"createdTick" yaml:"createdTick"`
	Seq         int64 `json:"seq" yaml:"seq"`

	// DeletionTick is the tombstone: set when deletion is requested,
	// physical removal happens later once dependents are cleared.
	DeletionTick *int `json:"deletionTick,omitempty" yaml:"deletionTick,omitempty"`
}

// Terminating reports whether the object has been marked for deletion.
func (m *Metadata) Terminating() bool {
	return m.DeletionTick != nil
}

// OwnedBy reports whether the object's owner reference points at the given UID.
func (m *Metadata) OwnedBy(uid string) bool {
	return m.OwnerRef != nil && m.OwnerRef.UID == uid
}
