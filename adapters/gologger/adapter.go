package gologger

import (
	"strings"

	job "github.com/goliatone/go-job"
	glog "github.com/goliatone/go-logger/glog"
)

// Channel names used across the app registry. Per-app loggers hang off the
// root channel so log routing can target one app without touching the rest.
const (
	RootChannel    = "apps"
	RefreshChannel = "apps.refresh"
)

// Resolve applies the provider > logger > nop precedence for the registry's
// root channel.
func Resolve(provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return glog.Resolve(RootChannel, provider, logger)
}

// ForApp returns a channel logger scoped to one registered app. Falls back to
// a nop logger when the provider is nil so call sites never branch.
func ForApp(provider glog.LoggerProvider, appName string) glog.Logger {
	if provider == nil {
		return glog.Nop()
	}
	channel := RootChannel
	if trimmed := strings.TrimSpace(appName); trimmed != "" {
		channel = RootChannel + "." + trimmed
	}
	return glog.Ensure(provider.GetLogger(channel))
}

// ToJobProvider bridges a glog provider into the go-job logger provider
// contract so queue workers log through the same stack.
func ToJobProvider(provider glog.LoggerProvider) job.LoggerProvider {
	if provider == nil {
		return nil
	}
	return job.GoLoggerProvider(provider)
}

// ToJobLogger bridges a single glog logger into the go-job logger contract.
func ToJobLogger(logger glog.Logger) job.Logger {
	if logger == nil {
		return nil
	}
	return job.GoLogger(logger)
}

// ForRefreshJobs resolves the logging stack for the durable token-refresh
// workers: the refresh channel logger plus its go-job bridges.
func ForRefreshJobs(
	provider glog.LoggerProvider,
	logger glog.Logger,
) (glog.Logger, job.LoggerProvider, job.Logger) {
	resolvedProvider, resolvedLogger := glog.Resolve(RefreshChannel, provider, logger)
	return resolvedLogger, ToJobProvider(resolvedProvider), ToJobLogger(resolvedLogger)
}
