package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type appNameRecord struct {
	bun.BaseModel `bun:"table:app_names,alias:an"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name,notnull"`
	NameKey   string    `bun:"name_key,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
