package sqlstore

import "github.com/goliatone/go-apps/core"

var (
	_ core.NameStore = (*AppNameStore)(nil)
	_ core.NameStore = (*CachedAppNameStore)(nil)
)
