package apps

import (
	"context"
	"testing"
	"time"

	appscommand "github.com/goliatone/go-apps/command"
	"github.com/goliatone/go-apps/core"
)

type facadeProvider struct {
	calls int
}

func (p *facadeProvider) FetchAccessToken(ctx context.Context) (core.Token, error) {
	p.calls++
	return core.Token{
		AccessToken: "facade-tok",
		ExpiresAt:   time.Now().Add(time.Minute).UnixMilli(),
	}, nil
}

func TestNewFacade_WiresCommands(t *testing.T) {
	facade, err := Setup(DefaultConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	commands := facade.Commands()
	if commands.Register == nil || commands.Delete == nil || commands.Refresh == nil {
		t.Fatalf("expected command handlers to be wired")
	}
	if commands.AddService == nil || commands.Reset == nil {
		t.Fatalf("expected service and reset handlers to be wired")
	}
	if facade.Registry() == nil {
		t.Fatalf("expected facade to expose its registry")
	}
}

func TestFacade_CommandDelegation(t *testing.T) {
	ctx := context.Background()
	facade, err := Setup(DefaultConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	provider := &facadeProvider{}
	if err := facade.Commands().Register.Execute(ctx, appscommand.RegisterAppMessage{
		Name:    "billing",
		Options: AppOptions{CredentialProvider: provider},
	}); err != nil {
		t.Fatalf("execute register command: %v", err)
	}

	app, err := facade.Registry().Lookup(ctx, "billing")
	if err != nil {
		t.Fatalf("lookup registered app: %v", err)
	}
	if app.Name() != "billing" {
		t.Fatalf("unexpected app name %q", app.Name())
	}

	if err := facade.Commands().Delete.Execute(ctx, appscommand.DeleteAppMessage{Name: "billing"}); err != nil {
		t.Fatalf("execute delete command: %v", err)
	}
	if _, err := facade.Registry().Lookup(ctx, "billing"); !IsNotFound(err) {
		t.Fatalf("expected not-found after delete, got %v", err)
	}
}

func TestNewFacade_RequiresRegistry(t *testing.T) {
	facade, err := NewFacade(nil)
	if err == nil {
		t.Fatalf("expected nil registry error")
	}
	if facade != nil {
		t.Fatalf("expected nil facade on error")
	}
}
