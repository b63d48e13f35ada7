package models

type JobPhase string

const (
	JobRunning  JobPhase = "Running"
	JobComplete JobPhase = "Complete"
	JobFailed   JobPhase = "Failed"
)

type JobSpec struct {
	Completions  int `json:"completions" yaml:"completions"`
	Parallelism  int `json:"parallelism" yaml:"parallelism"`
	BackoffLimit int `json:"backoffLimit" yaml:"backoffLimit"`

	// CompletionTicks is how long each pod runs before finishing.
	CompletionTicks int `json:"completionTicks" yaml:"completionTicks"`

	// FailFirst makes the first N created pods fail instead of succeeding,
	// to exercise the backoff path deterministically.
	FailFirst int `json:"failFirst,omitempty" yaml:"failFirst,omitempty"`

	Template PodTemplate `json:"template" yaml:"template"`
}

type JobStatus struct {
	Active    int      `json:"active" yaml:"active"`
	Succeeded int      `json:"succeeded" yaml:"succeeded"`
	Failed    int      `json:"failed" yaml:"failed"`
	Phase     JobPhase `json:"phase" yaml:"phase"`

	// CreatedPods counts every pod this job has ever stamped out, so pod
	// names stay unique across replacements and FailFirst is bookkept.
	CreatedPods int `json:"createdPods" yaml:"createdPods"`

	// CompletedTick is set once succeeded >= completions.
	CompletedTick *int `json:"completedTick,omitempty" yaml:"completedTick,omitempty"`
}

type Job struct {
	Metadata Metadata  `json:"metadata" yaml:"metadata"`
	Spec     JobSpec   `json:"spec" yaml:"spec"`
	Status   JobStatus `json:"status" yaml:"status"`
}

// Finished reports whether the job reached a terminal phase.
func (j *Job) Finished() bool {
	return j.Status.Phase == JobComplete || j.Status.Phase == JobFailed
}
