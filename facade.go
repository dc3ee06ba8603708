package apps

import (
	"fmt"

	appscommand "github.com/goliatone/go-apps/command"
	"github.com/goliatone/go-apps/core"
)

// Commands bundles the mutating handlers built over one registry.
type Commands struct {
	Register   *appscommand.RegisterAppCommand
	Delete     *appscommand.DeleteAppCommand
	Refresh    *appscommand.RefreshTokenCommand
	AddService *appscommand.AddServiceCommand
	Reset      *appscommand.ResetAppsCommand
}

type Facade struct {
	registry *core.Registry
	commands Commands
}

func NewFacade(registry *core.Registry) (*Facade, error) {
	if registry == nil {
		return nil, fmt.Errorf("apps: registry is required")
	}
	return &Facade{
		registry: registry,
		commands: Commands{
			Register:   appscommand.NewRegisterAppCommand(registry),
			Delete:     appscommand.NewDeleteAppCommand(registry),
			Refresh:    appscommand.NewRefreshTokenCommand(registry),
			AddService: appscommand.NewAddServiceCommand(registry),
			Reset:      appscommand.NewResetAppsCommand(registry),
		},
	}, nil
}

// Setup builds a registry from the given config and options and wraps it in
// a facade.
func Setup(cfg Config, opts ...Option) (*Facade, error) {
	registry, err := core.NewRegistry(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return NewFacade(registry)
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Registry() *core.Registry {
	if f == nil {
		return nil
	}
	return f.registry
}
