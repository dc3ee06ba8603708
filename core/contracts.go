package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// CredentialProvider produces fresh access tokens. Implementations typically
// call out to an identity provider; failures surface to the caller that
// triggered the refresh, wrapped as a refresh failure.
type CredentialProvider interface {
	FetchAccessToken(ctx context.Context) (Token, error)
}

// NameStore persists registered app names for cross-process visibility and
// lookup diagnostics. Best effort only: it never participates in registry
// correctness, and its failures are logged rather than propagated.
type NameStore interface {
	Persist(ctx context.Context, name string) error
	Remove(ctx context.Context, name string) error
	ListNames(ctx context.Context) ([]string, error)
}

// Service is a unit of functionality attached to an App. Teardown is invoked
// exactly once, when the owning App is deleted.
type Service interface {
	ID() string
	Teardown() error
}

// AuthListener observes successful token refreshes on an App.
type AuthListener interface {
	OnTokenRefreshed(result TokenResult)
}

// AuthListenerFunc adapts a plain function to AuthListener.
type AuthListenerFunc func(result TokenResult)

func (f AuthListenerFunc) OnTokenRefreshed(result TokenResult) {
	if f != nil {
		f(result)
	}
}

// Executor runs fire-and-forget work off the caller's goroutine.
type Executor interface {
	Submit(task func())
}

// Scheduler runs a task once after a delay. The returned cancel function
// stops the task if it has not fired yet.
type Scheduler interface {
	Schedule(task func(), delay time.Duration) (cancel func(), err error)
}

// WorkerPools bundles the executors an App runs background work on. A nil
// Scheduler means the runtime cannot support delayed scheduling; proactive
// refresh degrades to a no-op and reactive refresh remains correct.
type WorkerPools struct {
	Executor  Executor
	Scheduler Scheduler
}

// WorkerPoolProvider provisions the pools for an App. Called at most once
// per App; the result is cached for the App's lifetime.
type WorkerPoolProvider interface {
	Pools(app *App) WorkerPools
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}
