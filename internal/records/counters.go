package records

import "sync/atomic"

// Counters tracks what the reconciler has been doing, for the metrics
// endpoint. All fields are updated atomically
type Counters struct {
	Polls           atomic.Int64
	Failures        atomic.Int64
	EventsProcessed atomic.Int64
	RecordsUpdated  atomic.Int64
	MilestonesFired atomic.Int64
	LastPollUnix    atomic.Int64
}

// CountersSnapshot is a plain copy safe to hand across packages
type CountersSnapshot struct {
	Polls           int64
	Failures        int64
	EventsProcessed int64
	RecordsUpdated  int64
	MilestonesFired int64
	LastPollUnix    int64
}

func (c *Counters) Snapshot() CountersSnapshot {
	return CountersSnapshot{
		Polls:           c.Polls.Load(),
		Failures:        c.Failures.Load(),
		EventsProcessed: c.EventsProcessed.Load(),
		RecordsUpdated:  c.RecordsUpdated.Load(),
		MilestonesFired: c.MilestonesFired.Load(),
		LastPollUnix:    c.LastPollUnix.Load(),
	}
}
