package core

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// App is a named, independently configured application context. It owns a
// credential provider, the cached access token, attached services, auth
// listeners, and the proactive token refresher.
//
// Two-level locking: the registry lock guards the name->App map, the per-App
// mutex guards everything below. The two are never held at the same time.
type App struct {
	name       string
	options    AppOptions
	registry   *Registry
	clock      Clock
	logger     Logger
	metrics    MetricsRecorder
	leadWindow time.Duration

	current atomic.Pointer[Token]
	deleted atomic.Bool

	// mu guards listeners, services, and the refresh critical section.
	mu        sync.Mutex
	listeners []listenerEntry
	services  map[string]Service
	refresher *tokenRefresher

	// Worker pools are provisioned lazily, at most once. Lazy-init uses its
	// own mutex because mu may already be held when pools are first needed.
	pools        atomic.Pointer[WorkerPools]
	poolsMu      sync.Mutex
	poolProvider WorkerPoolProvider
}

type listenerEntry struct {
	id       string
	listener AuthListener
}

// ListenerRegistration identifies a registered auth listener so it can be
// removed later. Listener values are plain funcs and not comparable, so
// removal goes through the registration handle.
type ListenerRegistration struct {
	id string
}

func newApp(name string, options AppOptions, registry *Registry, clock Clock, logger Logger, metrics MetricsRecorder, leadWindow time.Duration, poolProvider WorkerPoolProvider) *App {
	app := &App{
		name:         name,
		options:      options,
		registry:     registry,
		clock:        clock,
		logger:       logger,
		metrics:      metrics,
		leadWindow:   leadWindow,
		services:     map[string]Service{},
		poolProvider: poolProvider,
	}
	app.refresher = newTokenRefresher(app)
	return app
}

// Name returns the unique, trimmed app name.
func (a *App) Name() string {
	if a == nil {
		return ""
	}
	return a.name
}

// Options returns the collaborators the app was registered with.
func (a *App) Options() AppOptions {
	if a == nil {
		return AppOptions{}
	}
	return a.options
}

// Deleted reports whether Delete has completed its first call.
func (a *App) Deleted() bool {
	return a != nil && a.deleted.Load()
}

// PersistenceKey returns the stable storage key for this app's name.
func (a *App) PersistenceKey() string {
	return PersistenceKey(a.Name())
}

func (a *App) refreshRequired(token *Token, forceRefresh bool) bool {
	return token == nil || forceRefresh || token.ExpiredAt(nowMillis(a.clock))
}

// Token returns a valid access token, refreshing it first when the cached
// value is missing, expired, or forceRefresh is set.
//
// Double-checked locking: the fast path is a lock-free atomic read. The slow
// path re-checks under the instance lock, calls the credential provider
// synchronously while still holding it (this is what guarantees at most one
// in-flight fetch per refresh window), snapshots the listener list, and
// schedules the proactive follow-up refresh. Listeners are notified after
// the lock is released so a re-entrant listener cannot deadlock.
func (a *App) Token(ctx context.Context, forceRefresh bool) (TokenResult, error) {
	if a == nil {
		return TokenResult{}, errBadInput("core: app is required")
	}
	if a.deleted.Load() {
		return TokenResult{}, errDeleted(a.name)
	}

	current := a.current.Load()
	var notify []listenerEntry
	if a.refreshRequired(current, forceRefresh) {
		a.mu.Lock()
		current = a.current.Load()
		if a.refreshRequired(current, forceRefresh) {
			startedAt := a.clock.Now()
			fetched, err := a.options.CredentialProvider.FetchAccessToken(ctx)
			if err != nil {
				a.mu.Unlock()
				a.observeRefresh(ctx, startedAt, err)
				return TokenResult{}, errRefreshFailed(err)
			}
			token := fetched
			current = &token
			a.current.Store(current)
			notify = append([]listenerEntry(nil), a.listeners...)

			refreshDelay := time.Duration(token.ExpiresAt-nowMillis(a.clock))*time.Millisecond - a.leadWindow
			if refreshDelay > 0 {
				a.refresher.scheduleRefresh(refreshDelay)
			} else {
				a.logWarn("token expiry is inside the refresh lead window, skipping proactive refresh", map[string]any{
					"app":        a.name,
					"expires_at": token.ExpiresAt,
				})
			}
			a.observeRefresh(ctx, startedAt, nil)
		}
		a.mu.Unlock()
	}

	result := TokenResult{AccessToken: current.AccessToken}
	for _, entry := range notify {
		entry.listener.OnTokenRefreshed(result)
	}
	return result, nil
}

// AddAuthListener registers a listener for future refreshes. When a token is
// already cached the listener is invoked once immediately, outside the lock,
// with that token.
func (a *App) AddAuthListener(listener AuthListener) (ListenerRegistration, error) {
	if a == nil {
		return ListenerRegistration{}, errBadInput("core: app is required")
	}
	if listener == nil {
		return ListenerRegistration{}, errBadInput("core: auth listener is required")
	}

	registration := ListenerRegistration{id: uuid.NewString()}
	a.mu.Lock()
	if a.deleted.Load() {
		a.mu.Unlock()
		return ListenerRegistration{}, errDeleted(a.name)
	}
	a.listeners = append(a.listeners, listenerEntry{id: registration.id, listener: listener})
	current := a.current.Load()
	a.mu.Unlock()

	if current != nil {
		// Refreshes that completed before this registration copied the
		// listener list without this entry; notify it explicitly.
		listener.OnTokenRefreshed(TokenResult{AccessToken: current.AccessToken})
	}
	return registration, nil
}

// RemoveAuthListener drops a previously registered listener. Removing an
// unknown registration is a no-op.
func (a *App) RemoveAuthListener(registration ListenerRegistration) error {
	if a == nil {
		return errBadInput("core: app is required")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.deleted.Load() {
		return errDeleted(a.name)
	}
	for i, entry := range a.listeners {
		if entry.id == registration.id {
			a.listeners = append(a.listeners[:i], a.listeners[i+1:]...)
			break
		}
	}
	return nil
}

// AddService attaches a service under its id. Service ids are unique per
// app; the service is torn down exactly once when the app is deleted.
func (a *App) AddService(service Service) error {
	if a == nil {
		return errBadInput("core: app is required")
	}
	if service == nil {
		return errBadInput("core: service is required")
	}
	id := strings.TrimSpace(service.ID())
	if id == "" {
		return errBadInput("core: service id is required")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.deleted.Load() {
		return errDeleted(a.name)
	}
	if _, exists := a.services[id]; exists {
		return errDuplicateService(id)
	}
	a.services[id] = service
	return nil
}

// Service returns the attached service for id, if any.
func (a *App) Service(id string) (Service, bool) {
	if a == nil {
		return nil, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	service, ok := a.services[id]
	return service, ok
}

// Delete tears the app down: every attached service exactly once, listeners
// cleared, pending proactive refresh cancelled, then removal from the
// registry and the name store. Idempotent; only the first caller performs
// teardown, later calls return immediately.
func (a *App) Delete(ctx context.Context) error {
	if a == nil {
		return errBadInput("core: app is required")
	}
	if !a.deleted.CompareAndSwap(false, true) {
		return nil
	}

	a.mu.Lock()
	for id, service := range a.services {
		if err := service.Teardown(); err != nil {
			a.logError("service teardown failed", map[string]any{
				"app":     a.name,
				"service": id,
				"error":   err.Error(),
			})
		}
	}
	a.services = map[string]Service{}
	a.listeners = nil
	a.refresher.cleanup()
	a.mu.Unlock()

	if a.registry != nil {
		a.registry.removeApp(ctx, a.name)
	}
	return nil
}

// ensurePools provisions worker pools at most once: atomic read, lock,
// re-read, provision. A dedicated mutex is used because Go locks are not
// reentrant and the instance lock may already be held.
func (a *App) ensurePools() WorkerPools {
	if pools := a.pools.Load(); pools != nil {
		return *pools
	}
	a.poolsMu.Lock()
	defer a.poolsMu.Unlock()
	if pools := a.pools.Load(); pools != nil {
		return *pools
	}
	provider := a.poolProvider
	if provider == nil {
		provider = GoroutinePoolProvider{}
	}
	pools := provider.Pools(a)
	a.pools.Store(&pools)
	return pools
}

func (a *App) submit(task func()) {
	if task == nil {
		return
	}
	executor := a.ensurePools().Executor
	if executor == nil {
		go task()
		return
	}
	executor.Submit(task)
}

func (a *App) schedule(task func(), delay time.Duration) (func(), error) {
	scheduler := a.ensurePools().Scheduler
	if scheduler == nil {
		return nil, errBadInput("core: delayed scheduling is not supported by the worker pools")
	}
	return scheduler.Schedule(task, delay)
}

func (a *App) observeRefresh(ctx context.Context, startedAt time.Time, err error) {
	if a == nil || a.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	tags := map[string]string{
		"app":    a.name,
		"status": status,
	}
	elapsed := a.clock.Now().Sub(startedAt)
	a.metrics.IncCounter(ctx, "apps.token_refresh.total", 1, cloneTags(tags))
	a.metrics.ObserveHistogram(ctx, "apps.token_refresh.duration_ms", float64(elapsed.Milliseconds()), cloneTags(tags))
}

func (a *App) logWarn(message string, fields map[string]any) {
	a.logWithLevel("warn", message, fields)
}

func (a *App) logError(message string, fields map[string]any) {
	a.logWithLevel("error", message, fields)
}

func (a *App) logWithLevel(level string, message string, fields map[string]any) {
	if a == nil || a.logger == nil {
		return
	}
	logger := a.logger
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch level {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	default:
		logger.Info(message, args...)
	}
}
