package models

type EventSeverity string

const (
	EventNormal  EventSeverity = "Normal"
	EventWarning EventSeverity = "Warning"
)

// Well-known event reasons.
const (
	ReasonCreated          = "Created"
	ReasonDeleted          = "Deleted"
	ReasonScheduled        = "Scheduled"
	ReasonFailedScheduling = "FailedScheduling"
	ReasonStarted          = "Started"
	ReasonRestarted        = "Restarted"
	ReasonUnhealthy        = "Unhealthy"
	ReasonCompleted        = "Completed"
	ReasonPodFailed        = "PodFailed"
	ReasonScalingUp        = "ScalingUp"
	ReasonScalingDown      = "ScalingDown"
	ReasonRolloutProgress  = "RolloutProgress"
	ReasonRolloutComplete  = "RolloutComplete"
	ReasonRollback         = "Rollback"
	ReasonBackoffExceeded  = "BackoffLimitExceeded"
	ReasonJobTriggered     = "JobTriggered"
	ReasonAutoscaled       = "Autoscaled"
	ReasonEvicted          = "Evicted"
	ReasonEvictionBlocked  = "EvictionBlocked"
	ReasonCordoned         = "Cordoned"
)

// Event is one entry in the append-only cluster event log.
type Event struct {
	Tick     int           `json:"tick" yaml:"tick"`
	Severity EventSeverity `json:"severity" yaml:"severity"`
	Reason   string        `json:"reason" yaml:"reason"`
	Kind     Kind          `json:"kind" yaml:"kind"`
	Name     string        `json:"name" yaml:"name"`
	Message  string        `json:"message" yaml:"message"`
}
