package docstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-apps/core"
	"github.com/uptrace/bun"
)

// ServiceID is the fixed service slot a Client occupies on its App.
const ServiceID = "docstore"

// Client is a document-store handle attached to one App. It is created at
// most once per App: repeated For calls return the cached instance from the
// App's service registry.
type Client struct {
	app *core.App
	db  *bun.DB
}

// For resolves the named app and returns its document-store client,
// creating and attaching one on first use.
func For(ctx context.Context, registry *core.Registry, appName string, db *bun.DB) (*Client, error) {
	if registry == nil {
		return nil, fmt.Errorf("docstore: app registry is required")
	}
	app, err := registry.Lookup(ctx, appName)
	if err != nil {
		return nil, err
	}
	return ForApp(app, db)
}

// ForApp returns the app's document-store client, creating one if the slot
// is empty. Losing an attach race falls back to the winner's instance.
func ForApp(app *core.App, db *bun.DB) (*Client, error) {
	if app == nil {
		return nil, fmt.Errorf("docstore: app is required")
	}
	if db == nil {
		return nil, fmt.Errorf("docstore: bun db is required")
	}

	if existing, ok := app.Service(ServiceID); ok {
		return asClient(existing)
	}

	client := &Client{app: app, db: db}
	if err := app.AddService(client); err != nil {
		if core.IsDuplicateService(err) {
			if existing, ok := app.Service(ServiceID); ok {
				return asClient(existing)
			}
		}
		return nil, err
	}
	return client, nil
}

func asClient(service core.Service) (*Client, error) {
	client, ok := service.(*Client)
	if !ok {
		return nil, fmt.Errorf("docstore: service slot %q holds a %T", ServiceID, service)
	}
	return client, nil
}

func (c *Client) ID() string { return ServiceID }

// Teardown is a no-op: once the owning App is deleted every call through
// the client fails at the App's deleted check.
func (c *Client) Teardown() error { return nil }

func (c *Client) App() *core.App {
	if c == nil {
		return nil
	}
	return c.app
}

func (c *Client) DB() *bun.DB {
	if c == nil {
		return nil
	}
	return c.db
}

// AuthorizedHeader returns the bearer header for a store request, going
// through the app's cached token (refreshing it when stale).
func (c *Client) AuthorizedHeader(ctx context.Context) (string, error) {
	if c == nil || c.app == nil {
		return "", fmt.Errorf("docstore: client is not configured")
	}
	result, err := c.app.Token(ctx, false)
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(result.AccessToken)
	if token == "" {
		return "", fmt.Errorf("docstore: empty access token for app %q", c.app.Name())
	}
	return "Bearer " + token, nil
}

// Healthy pings the backing database.
func (c *Client) Healthy(ctx context.Context) error {
	if c == nil || c.db == nil {
		return fmt.Errorf("docstore: client is not configured")
	}
	return c.db.PingContext(ctx)
}

var _ core.Service = (*Client)(nil)
