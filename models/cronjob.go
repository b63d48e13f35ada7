package models

type ConcurrencyPolicy string

const (
	ConcurrencyAllow  ConcurrencyPolicy = "Allow"
	ConcurrencyForbid ConcurrencyPolicy = "Forbid"
)

type CronJobSpec struct {
	// Schedule is a standard five-field cron expression evaluated against
	// the simulated clock (one tick per minute).
	Schedule          string            `json:"schedule" yaml:"schedule"`
	ConcurrencyPolicy ConcurrencyPolicy `json:"concurrencyPolicy,omitempty" yaml:"concurrencyPolicy,omitempty"`
	JobTemplate       JobSpec           `json:"jobTemplate" yaml:"jobTemplate"`
}

type CronJobStatus struct {
	LastScheduleTick *int `json:"lastScheduleTick,omitempty" yaml:"lastScheduleTick,omitempty"`
	ActiveJobs       int  `json:"activeJobs" yaml:"activeJobs"`
}

type CronJob struct {
	Metadata Metadata      `json:"metadata" yaml:"metadata"`
	Spec     CronJobSpec   `json:"spec" yaml:"spec"`
	Status   CronJobStatus `json:"status" yaml:"status"`
}
