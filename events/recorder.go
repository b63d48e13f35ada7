// Package events keeps the append-only cluster event log. Every controller
// action worth surfacing lands here: creations, scaling, scheduling failures,
// rollout progress, evictions, PDB blocks.
package events

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lunstb/learn-k8s-sub003/models"
)

type Recorder struct {
	log    *logrus.Logger
	events []models.Event
	tick   int
}

func NewRecorder(log *logrus.Logger) *Recorder {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel) // silent by default, e.g. in tests
	}
	return &Recorder{log: log}
}

// SetTick stamps subsequent events with the current tick.
func (r *Recorder) SetTick(tick int) { r.tick = tick }

// Normal records an informational event.
func (r *Recorder) Normal(kind models.Kind, name, reason, format string, args ...any) {
	r.record(models.EventNormal, kind, name, reason, format, args...)
}

// Warning records a convergence stall or refused operation. Warnings are not
// errors: the condition is re-evaluated next tick.
func (r *Recorder) Warning(kind models.Kind, name, reason, format string, args ...any) {
	r.record(models.EventWarning, kind, name, reason, format, args...)
}

func (r *Recorder) record(sev models.EventSeverity, kind models.Kind, name, reason, format string, args ...any) {
	ev := models.Event{
		Tick:     r.tick,
		Severity: sev,
		Reason:   reason,
		Kind:     kind,
		Name:     name,
		Message:  fmt.Sprintf(format, args...),
	}
	r.events = append(r.events, ev)

	entry := r.log.WithFields(logrus.Fields{
		"tick":   ev.Tick,
		"kind":   ev.Kind,
		"name":   ev.Name,
		"reason": ev.Reason,
	})
	if sev == models.EventWarning {
		entry.Warn(ev.Message)
	} else {
		entry.Info(ev.Message)
	}
}

// Events returns the full log in append order.
func (r *Recorder) Events() []models.Event {
	out := make([]models.Event, len(r.events))
	copy(out, r.events)
	return out
}
