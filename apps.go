package apps

import "github.com/goliatone/go-apps/core"

type Config = core.Config

type RefreshConfig = core.RefreshConfig

type Option = core.Option

type Registry = core.Registry

type App = core.App

type AppOptions = core.AppOptions

type Token = core.Token
type TokenResult = core.TokenResult

type CredentialProvider = core.CredentialProvider
type NameStore = core.NameStore
type Service = core.Service
type AuthListener = core.AuthListener
type AuthListenerFunc = core.AuthListenerFunc
type ListenerRegistration = core.ListenerRegistration
type WorkerPools = core.WorkerPools
type WorkerPoolProvider = core.WorkerPoolProvider
type MetricsRecorder = core.MetricsRecorder
type Clock = core.Clock

const DefaultAppName = core.DefaultAppName

var (
	WithLogger             = core.WithLogger
	WithLoggerProvider     = core.WithLoggerProvider
	WithMetricsRecorder    = core.WithMetricsRecorder
	WithErrorMapper        = core.WithErrorMapper
	WithClock              = core.WithClock
	WithNameStore          = core.WithNameStore
	WithWorkerPoolProvider = core.WithWorkerPoolProvider
	WithConfigProvider     = core.WithConfigProvider
	WithOptionsResolver    = core.WithOptionsResolver
)

var (
	IsAlreadyExists    = core.IsAlreadyExists
	IsNotFound         = core.IsNotFound
	IsDeleted          = core.IsDeleted
	IsDuplicateService = core.IsDuplicateService
	IsRefreshFailure   = core.IsRefreshFailure
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func New(cfg Config, opts ...Option) (*Registry, error) {
	return core.NewRegistry(cfg, opts...)
}
