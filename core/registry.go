package core

import (
	"context"
	"sort"
	"strings"
	"sync"

	glog "github.com/goliatone/go-logger/glog"
)

// Registry is the process-wide directory of named Apps. One lock serializes
// map mutations; registry work that needs an App's own state holds the
// registry lock only long enough to grab the reference.
type Registry struct {
	config    Config
	logger    Logger
	metrics   MetricsRecorder
	errMapper ErrorMapper
	clock     Clock
	nameStore NameStore
	pools     WorkerPoolProvider

	mu   sync.Mutex
	apps map[string]*App
}

// NewRegistry resolves configuration through the defaults < config provider
// < runtime layering and builds an empty registry.
func NewRegistry(cfg Config, options ...Option) (*Registry, error) {
	builder := defaultRegistryBuilder(cfg)
	for _, option := range options {
		if option == nil {
			continue
		}
		option(&builder)
	}

	provider, logger := glog.Resolve("apps", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("apps"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.clock == nil {
		builder.clock = SystemClock{}
	}
	if builder.poolProvider == nil {
		builder.poolProvider = GoroutinePoolProvider{}
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	return &Registry{
		config:    finalConfig,
		logger:    logger,
		metrics:   builder.metricsRecorder,
		errMapper: builder.errorMapper,
		clock:     builder.clock,
		nameStore: builder.nameStore,
		pools:     builder.poolProvider,
		apps:      map[string]*App{},
	}, nil
}

// Config returns the resolved registry configuration.
func (r *Registry) Config() Config {
	if r == nil {
		return Config{}
	}
	return r.config
}

// Register creates an App under the normalized (trimmed) name. Two names
// differing only by surrounding whitespace collide. The name is published to
// the name store best effort, after the registry lock is released.
func (r *Registry) Register(ctx context.Context, name string, options AppOptions) (*App, error) {
	if r == nil {
		return nil, errBadInput("core: registry is required")
	}
	startedAt := r.clock.Now()
	app, err := r.register(ctx, name, options)
	err = r.mapError(err)
	r.observeOperation(ctx, startedAt, "register", err, map[string]any{"app": strings.TrimSpace(name)})
	return app, err
}

func (r *Registry) register(ctx context.Context, name string, options AppOptions) (*App, error) {
	if r == nil {
		return nil, errBadInput("core: registry is required")
	}
	normalized := strings.TrimSpace(name)
	if normalized == "" {
		return nil, errBadInput("core: app name is required")
	}
	if options.CredentialProvider == nil {
		return nil, errBadInput("core: credential provider is required")
	}

	poolProvider := options.WorkerPoolProvider
	if poolProvider == nil {
		poolProvider = r.pools
	}
	app := newApp(
		normalized,
		options,
		r,
		r.clock,
		r.logger,
		r.metrics,
		r.config.refreshLeadWindow(),
		poolProvider,
	)

	r.mu.Lock()
	if _, exists := r.apps[normalized]; exists {
		r.mu.Unlock()
		return nil, errAlreadyExists(normalized)
	}
	r.apps[normalized] = app
	r.mu.Unlock()

	if r.nameStore != nil {
		if err := r.nameStore.Persist(ctx, normalized); err != nil {
			r.logWarn("persisting app name failed", map[string]any{
				"app":   normalized,
				"error": err.Error(),
			})
		}
	}
	return app, nil
}

// RegisterDefault registers under the configured default app name.
func (r *Registry) RegisterDefault(ctx context.Context, options AppOptions) (*App, error) {
	if r == nil {
		return nil, errBadInput("core: registry is required")
	}
	return r.Register(ctx, r.config.DefaultAppName, options)
}

// Lookup returns the live App for the normalized name. The not-found error
// lists every known name, live entries plus whatever the name store reports,
// sorted ascending for diagnostics.
func (r *Registry) Lookup(ctx context.Context, name string) (*App, error) {
	if r == nil {
		return nil, errBadInput("core: registry is required")
	}
	normalized := strings.TrimSpace(name)

	r.mu.Lock()
	app, ok := r.apps[normalized]
	r.mu.Unlock()
	if ok {
		return app, nil
	}
	return nil, r.mapError(errNotFound(name, r.knownNames(ctx)))
}

// Default looks up the configured default app name.
func (r *Registry) Default(ctx context.Context) (*App, error) {
	if r == nil {
		return nil, errBadInput("core: registry is required")
	}
	return r.Lookup(ctx, r.config.DefaultAppName)
}

// Apps returns a snapshot of the live apps. Later registry mutation does not
// affect a returned snapshot. Ordering follows the sorted app names.
func (r *Registry) Apps() []*App {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	names := make([]string, 0, len(r.apps))
	for name := range r.apps {
		names = append(names, name)
	}
	sort.Strings(names)
	apps := make([]*App, 0, len(names))
	for _, name := range names {
		apps = append(apps, r.apps[name])
	}
	r.mu.Unlock()
	return apps
}

// Reset deletes every live app and empties the registry. Test/admin support.
// Entries are snapshotted first because Delete removes them from the map.
func (r *Registry) Reset(ctx context.Context) error {
	if r == nil {
		return errBadInput("core: registry is required")
	}
	startedAt := r.clock.Now()
	for _, app := range r.Apps() {
		if err := app.Delete(ctx); err != nil {
			r.observeOperation(ctx, startedAt, "reset", err, map[string]any{"app": app.Name()})
			return err
		}
	}
	r.mu.Lock()
	r.apps = map[string]*App{}
	r.mu.Unlock()
	r.observeOperation(ctx, startedAt, "reset", nil, nil)
	return nil
}

// removeApp drops the registry entry and the persisted name. Called by
// App.Delete after the instance lock has been released.
func (r *Registry) removeApp(ctx context.Context, name string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	delete(r.apps, name)
	r.mu.Unlock()

	if r.nameStore != nil {
		if err := r.nameStore.Remove(ctx, name); err != nil {
			r.logWarn("removing persisted app name failed", map[string]any{
				"app":   name,
				"error": err.Error(),
			})
		}
	}
}

// knownNames merges live registrations with the names the store reports.
// Store failures degrade to live-only diagnostics.
func (r *Registry) knownNames(ctx context.Context) []string {
	seen := map[string]struct{}{}
	r.mu.Lock()
	for name := range r.apps {
		seen[name] = struct{}{}
	}
	r.mu.Unlock()

	if r.nameStore != nil {
		persisted, err := r.nameStore.ListNames(ctx)
		if err != nil {
			r.logWarn("listing persisted app names failed", map[string]any{"error": err.Error()})
		} else {
			for _, name := range persisted {
				trimmed := strings.TrimSpace(name)
				if trimmed != "" {
					seen[trimmed] = struct{}{}
				}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) mapError(err error) error {
	if err == nil {
		return nil
	}
	mapper := r.errMapper
	if mapper == nil {
		mapper = defaultErrorMapper
	}
	if mapped := mapper(err); mapped != nil {
		return mapped
	}
	return err
}
