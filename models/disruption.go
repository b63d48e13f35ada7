package models

// PodDisruptionBudget bounds voluntary evictions of the pods its selector
// matches. Exactly one of MinAvailable or MaxUnavailable must be set.
type PDBSpec struct {
	Selector       Selector `json:"selector" yaml:"selector"`
	MinAvailable   *int     `json:"minAvailable,omitempty" yaml:"minAvailable,omitempty"`
	MaxUnavailable *int     `json:"maxUnavailable,omitempty" yaml:"maxUnavailable,omitempty"`
}

type PDBStatus struct {
	CurrentHealthy     int `json:"currentHealthy" yaml:"currentHealthy"`
	ExpectedPods       int `json:"expectedPods" yaml:"expectedPods"`
	DisruptionsAllowed int `json:"disruptionsAllowed" yaml:"disruptionsAllowed"`
}

type PodDisruptionBudget struct {
	Metadata Metadata  `json:"metadata" yaml:"metadata"`
	Spec     PDBSpec   `json:"spec" yaml:"spec"`
	Status   PDBStatus `json:"status" yaml:"status"`
}

// DesiredHealthy is the floor the budget defends: healthy matching pods may
// not drop below this through voluntary disruption.
func (pdb *PodDisruptionBudget) DesiredHealthy(expected int) int {
	if pdb.Spec.MinAvailable != nil {
		return *pdb.Spec.MinAvailable
	}
	d := expected - *pdb.Spec.MaxUnavailable
	if d < 0 {
		d = 0
	}
	return d
}
