package core

import (
	"fmt"
	"time"
)

// GoroutinePoolProvider is the default WorkerPoolProvider: plain goroutines
// for submitted work and timer-backed one-shot scheduling.
type GoroutinePoolProvider struct{}

func (GoroutinePoolProvider) Pools(*App) WorkerPools {
	return WorkerPools{
		Executor:  goroutineExecutor{},
		Scheduler: timerScheduler{},
	}
}

type goroutineExecutor struct{}

func (goroutineExecutor) Submit(task func()) {
	if task == nil {
		return
	}
	go task()
}

type timerScheduler struct{}

func (timerScheduler) Schedule(task func(), delay time.Duration) (func(), error) {
	if task == nil {
		return nil, fmt.Errorf("core: scheduled task is required")
	}
	if delay < 0 {
		delay = 0
	}
	timer := time.AfterFunc(delay, task)
	return func() { timer.Stop() }, nil
}
