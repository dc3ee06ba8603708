package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-apps/core"
)

// MutatingRegistry is the slice of the app registry the command handlers
// drive. Deletion and refresh resolve the named app first, so a stale name
// surfaces the registry's not-found diagnostics.
type MutatingRegistry interface {
	Register(ctx context.Context, name string, options core.AppOptions) (*core.App, error)
	Lookup(ctx context.Context, name string) (*core.App, error)
	Reset(ctx context.Context) error
}

type RegisterAppCommand struct {
	registry MutatingRegistry
}

func NewRegisterAppCommand(registry MutatingRegistry) *RegisterAppCommand {
	return &RegisterAppCommand{registry: registry}
}

func (c *RegisterAppCommand) Execute(ctx context.Context, msg RegisterAppMessage) error {
	if c == nil || c.registry == nil {
		return commandDependencyError("command: app registry is required")
	}
	app, err := c.registry.Register(ctx, msg.Name, msg.Options)
	if err != nil {
		return err
	}
	storeResult(ctx, app)
	return nil
}

type DeleteAppCommand struct {
	registry MutatingRegistry
}

func NewDeleteAppCommand(registry MutatingRegistry) *DeleteAppCommand {
	return &DeleteAppCommand{registry: registry}
}

func (c *DeleteAppCommand) Execute(ctx context.Context, msg DeleteAppMessage) error {
	if c == nil || c.registry == nil {
		return commandDependencyError("command: app registry is required")
	}
	app, err := c.registry.Lookup(ctx, msg.Name)
	if err != nil {
		return err
	}
	return app.Delete(ctx)
}

type RefreshTokenCommand struct {
	registry MutatingRegistry
}

func NewRefreshTokenCommand(registry MutatingRegistry) *RefreshTokenCommand {
	return &RefreshTokenCommand{registry: registry}
}

func (c *RefreshTokenCommand) Execute(ctx context.Context, msg RefreshTokenMessage) error {
	if c == nil || c.registry == nil {
		return commandDependencyError("command: app registry is required")
	}
	app, err := c.registry.Lookup(ctx, msg.Name)
	if err != nil {
		return err
	}
	result, err := app.Token(ctx, msg.Force)
	if err != nil {
		return err
	}
	storeResult(ctx, result)
	return nil
}

type AddServiceCommand struct {
	registry MutatingRegistry
}

func NewAddServiceCommand(registry MutatingRegistry) *AddServiceCommand {
	return &AddServiceCommand{registry: registry}
}

func (c *AddServiceCommand) Execute(ctx context.Context, msg AddServiceMessage) error {
	if c == nil || c.registry == nil {
		return commandDependencyError("command: app registry is required")
	}
	app, err := c.registry.Lookup(ctx, msg.AppName)
	if err != nil {
		return err
	}
	return app.AddService(msg.Service)
}

type ResetAppsCommand struct {
	registry MutatingRegistry
}

func NewResetAppsCommand(registry MutatingRegistry) *ResetAppsCommand {
	return &ResetAppsCommand{registry: registry}
}

func (c *ResetAppsCommand) Execute(ctx context.Context, msg ResetAppsMessage) error {
	if c == nil || c.registry == nil {
		return commandDependencyError("command: app registry is required")
	}
	return c.registry.Reset(ctx)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
