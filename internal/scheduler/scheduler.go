// Package scheduler runs named background tasks on cron specs.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type Task func(ctx context.Context) error

// Scheduler wraps robfig/cron. Tasks get the context passed to Start and a
// failing run is logged, never retried early.
type Scheduler struct {
	cron  *cron.Cron
	ctx   context.Context
	tasks []entry
}

type entry struct {
	spec string
	name string
	task Task
}

func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		ctx:  context.Background(),
	}
}

// Add registers task under spec ("@every 15m", "0 * * * *").
func (s *Scheduler) Add(spec, name string, task Task) error {
	_, err := s.cron.AddFunc(spec, func() { s.run(name, task) })
	if err != nil {
		return fmt.Errorf("cron.AddFunc(%q): %w", spec, err)
	}
	s.tasks = append(s.tasks, entry{spec: spec, name: name, task: task})
	return nil
}

func (s *Scheduler) run(name string, task Task) {
	start := time.Now()
	if err := task(s.ctx); err != nil {
		log.Printf("[%s] error: %v", name, err)
		return
	}
	log.Printf("[%s] done in %s", name, time.Since(start).Round(time.Millisecond))
}

// Start begins firing tasks. Cancel ctx or call Stop to end.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
	for _, e := range s.tasks {
		log.Printf("[scheduler] %s every %q", e.name, e.spec)
	}
	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// Stop waits for running tasks to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Len reports how many tasks are registered.
func (s *Scheduler) Len() int {
	return len(s.tasks)
}
