package command

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-apps/core"
)

const (
	TypeRegisterApp  = "apps.command.register"
	TypeDeleteApp    = "apps.command.delete"
	TypeRefreshToken = "apps.command.refresh"
	TypeAddService   = "apps.command.service.add"
	TypeResetApps    = "apps.command.reset"
)

type RegisterAppMessage struct {
	Name    string
	Options core.AppOptions
}

func (RegisterAppMessage) Type() string { return TypeRegisterApp }

func (m RegisterAppMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("command: app name is required")
	}
	if m.Options.CredentialProvider == nil {
		return fmt.Errorf("command: credential provider is required")
	}
	return nil
}

type DeleteAppMessage struct {
	Name string
}

func (DeleteAppMessage) Type() string { return TypeDeleteApp }

func (m DeleteAppMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("command: app name is required")
	}
	return nil
}

type RefreshTokenMessage struct {
	Name  string
	Force bool
}

func (RefreshTokenMessage) Type() string { return TypeRefreshToken }

func (m RefreshTokenMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("command: app name is required")
	}
	return nil
}

type AddServiceMessage struct {
	AppName string
	Service core.Service
}

func (AddServiceMessage) Type() string { return TypeAddService }

func (m AddServiceMessage) Validate() error {
	if strings.TrimSpace(m.AppName) == "" {
		return fmt.Errorf("command: app name is required")
	}
	if m.Service == nil {
		return fmt.Errorf("command: service is required")
	}
	if strings.TrimSpace(m.Service.ID()) == "" {
		return fmt.Errorf("command: service id is required")
	}
	return nil
}

type ResetAppsMessage struct{}

func (ResetAppsMessage) Type() string { return TypeResetApps }

func (ResetAppsMessage) Validate() error { return nil }
