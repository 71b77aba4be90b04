package common

import (
	"time"
)

// TimedExecutor runs a task at most once per timeout window. Execute
// is cheap to call from a fast loop: the task only fires when the
// window has elapsed, so a frequent poll ticker can carry a much
// slower periodic job. The zero-value stopwatch counts as elapsed,
// which makes the first Execute fire immediately
type TimedExecutor struct {
	stopwatch Stopwatch
	task      func()
}

func NewTimedExecutor(timeout time.Duration, task func()) TimedExecutor {
	return TimedExecutor{NewStopwatch(timeout), task}
}

// Execute runs the task if the window has elapsed, else does nothing
func (te *TimedExecutor) Execute() {
	if stopped, _ := te.stopwatch.Stopped(); stopped {
		te.stopwatch.Start()
		te.task()
	}
}
