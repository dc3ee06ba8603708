package core

import (
	"context"
	"sync"
	"time"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock(start time.Time) *manualClock {
	if start.IsZero() {
		start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return &manualClock{now: start}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type countingProvider struct {
	mu    sync.Mutex
	calls int
	token Token
	err   error
	delay time.Duration
}

func (p *countingProvider) FetchAccessToken(context.Context) (Token, error) {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return Token{}, p.err
	}
	return p.token, nil
}

func (p *countingProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *countingProvider) setToken(token Token) {
	p.mu.Lock()
	p.token = token
	p.mu.Unlock()
}

type scheduledTask struct {
	task  func()
	delay time.Duration
}

type manualScheduler struct {
	mu        sync.Mutex
	scheduled []scheduledTask
	cancelled int
}

func (s *manualScheduler) Schedule(task func(), delay time.Duration) (func(), error) {
	s.mu.Lock()
	s.scheduled = append(s.scheduled, scheduledTask{task: task, delay: delay})
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.cancelled++
		s.mu.Unlock()
	}, nil
}

func (s *manualScheduler) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scheduled) - s.cancelled
}

func (s *manualScheduler) scheduledCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scheduled)
}

func (s *manualScheduler) lastDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.scheduled) == 0 {
		return 0
	}
	return s.scheduled[len(s.scheduled)-1].delay
}

// fireLast runs the most recently scheduled task on the caller's goroutine.
func (s *manualScheduler) fireLast() {
	s.mu.Lock()
	var task func()
	if len(s.scheduled) > 0 {
		task = s.scheduled[len(s.scheduled)-1].task
	}
	s.mu.Unlock()
	if task != nil {
		task()
	}
}

type inlineExecutor struct{}

func (inlineExecutor) Submit(task func()) {
	if task != nil {
		task()
	}
}

type manualPoolProvider struct {
	mu          sync.Mutex
	scheduler   *manualScheduler
	noScheduler bool
	calls       int
}

func (p *manualPoolProvider) Pools(*App) WorkerPools {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	pools := WorkerPools{Executor: inlineExecutor{}}
	if !p.noScheduler {
		pools.Scheduler = p.scheduler
	}
	return pools
}

func (p *manualPoolProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type recordingListener struct {
	mu      sync.Mutex
	results []TokenResult
}

func (l *recordingListener) OnTokenRefreshed(result TokenResult) {
	l.mu.Lock()
	l.results = append(l.results, result)
	l.mu.Unlock()
}

func (l *recordingListener) snapshot() []TokenResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]TokenResult(nil), l.results...)
}

type testService struct {
	mu        sync.Mutex
	id        string
	teardowns int
	fail      error
}

func (s *testService) ID() string {
	return s.id
}

func (s *testService) Teardown() error {
	s.mu.Lock()
	s.teardowns++
	s.mu.Unlock()
	return s.fail
}

func (s *testService) teardownCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teardowns
}

func newTestRegistry(t interface{ Fatalf(string, ...any) }, options ...Option) *Registry {
	registry, err := NewRegistry(DefaultConfig(), options...)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return registry
}
