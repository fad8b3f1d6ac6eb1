package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alareon123/spina-bot/internal/domain"
)

// DailyReminder is the logical name of the single broadcast job.
const DailyReminder = "daily_reminder"

// Task is the work a job performs when it fires.
type Task func(ctx context.Context)

// JobInfo describes an installed job.
type JobInfo struct {
	Name   string
	Hour   int
	Minute int
	Next   time.Time // UTC
}

type job struct {
	info   JobInfo
	cancel context.CancelFunc
	done   chan struct{}
}

// Scheduler keeps at most one recurring daily job per name. Reconfiguring
// always removes the old job before a new one is installed.
type Scheduler struct {
	log  *zap.Logger
	loc  *time.Location
	task Task

	// Overridable in tests.
	now   func() time.Time
	after func(d time.Duration) <-chan time.Time

	base context.Context
	stop context.CancelFunc
	mu   sync.Mutex
	jobs map[string]*job
}

// New creates a scheduler that runs task at the configured wall-clock time in loc.
func New(log *zap.Logger, loc *time.Location, task Task) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	base, stop := context.WithCancel(context.Background())
	return &Scheduler{
		log:   log,
		loc:   loc,
		task:  task,
		now:   time.Now,
		after: time.After,
		base:  base,
		stop:  stop,
		jobs:  make(map[string]*job),
	}
}

// Configure removes the daily reminder job if present and, when enabled,
// installs a new one firing every day at hour:minute.
func (s *Scheduler) Configure(hour, minute int, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(DailyReminder)
	if !enabled {
		s.log.Info("daily reminders disabled")
		return
	}

	ctx, cancel := context.WithCancel(s.base)
	j := &job{
		info: JobInfo{
			Name:   DailyReminder,
			Hour:   hour,
			Minute: minute,
			Next:   domain.NextDaily(s.now(), hour, minute, s.loc),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.jobs[DailyReminder] = j
	go s.loop(ctx, j)

	s.log.Info("daily reminder scheduled",
		zap.String("time", domain.FormatClock(hour, minute)),
		zap.String("tz", s.loc.String()),
		zap.Time("next", j.info.Next),
	)
}

// Jobs returns a snapshot of installed jobs.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		res = append(res, j.info)
	}
	return res
}

// Run blocks until ctx is canceled, then removes all jobs.
func (s *Scheduler) Run(ctx context.Context) {
	<-ctx.Done()
	s.log.Info("scheduler stopping")
	s.Stop()
}

// Stop removes all jobs and waits for their goroutines to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	removed := make([]*job, 0, len(s.jobs))
	for name, j := range s.jobs {
		removed = append(removed, j)
		s.removeLocked(name)
	}
	s.mu.Unlock()

	s.stop()
	for _, j := range removed {
		<-j.done
	}
}

// removeLocked stops the named job; removing a missing job is a no-op.
// A job whose task is currently running is only signalled, not awaited,
// so the task may call Configure itself without deadlocking.
func (s *Scheduler) removeLocked(name string) {
	j, ok := s.jobs[name]
	if !ok {
		return
	}
	delete(s.jobs, name)
	j.cancel()
}

func (s *Scheduler) loop(ctx context.Context, j *job) {
	defer close(j.done)

	next := j.info.Next
	for {
		wait := next.Sub(s.now())
		if wait < 0 {
			wait = 0
		}
		select {
		case <-ctx.Done():
			return
		case <-s.after(wait):
		}
		// A removal racing with the timer wins.
		if ctx.Err() != nil {
			return
		}

		s.log.Info("daily reminder firing", zap.Time("scheduled", next))
		// Tasks run on the scheduler context; removing a job leaves a running broadcast alone.
		s.task(s.base)

		next = domain.NextDaily(s.now(), j.info.Hour, j.info.Minute, s.loc)
		s.mu.Lock()
		if cur, ok := s.jobs[j.info.Name]; ok && cur == j {
			j.info.Next = next
		}
		s.mu.Unlock()
	}
}
