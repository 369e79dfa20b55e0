package sim

import (
	"fmt"
	"io"
)

type scheduledTask struct {
	name     string
	interval float64
	count    int
	callback func(count int) error
}

// nextFireTime is the sim time at which the task fires again.
func (t *scheduledTask) nextFireTime() float64 {
	return float64(t.count) * t.interval
}

// Scheduler dispatches named periodic tasks keyed on simulation time.
// Tasks run on the calling goroutine, between update sub-steps.
type Scheduler struct {
	startTime float64
	tasks     []*scheduledTask
}

func NewScheduler(startTime float64) *Scheduler {
	return &Scheduler{startTime: startTime}
}

// Repeat registers a task with an interval and a running count. An
// interval <= 0 disables the task. The callback receives the count at
// which it fires.
func (s *Scheduler) Repeat(name string, interval float64, count int, callback func(int) error) {
	s.tasks = append(s.tasks, &scheduledTask{
		name:     name,
		interval: interval,
		count:    count,
		callback: callback,
	})
}

// Dispatch fires every task whose next fire time is <= t, catching up if
// more than one interval has elapsed.
func (s *Scheduler) Dispatch(t float64) error {
	for _, task := range s.tasks {
		if task.interval <= 0 {
			continue
		}
		for task.nextFireTime() <= t {
			if err := task.callback(task.count); err != nil {
				return fmt.Errorf("%s: %w", task.name, err)
			}
			task.count++
		}
	}
	return nil
}

func (s *Scheduler) Print(w io.Writer) {
	fmt.Fprintf(w, "Scheduler:\n")
	for _, task := range s.tasks {
		printDotted(w, task.name, fmt.Sprintf("interval=%v count=%d", task.interval, task.count))
	}
	fmt.Fprintf(w, "\n")
}
