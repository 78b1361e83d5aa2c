package di

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"auth_backend/internal/platform/db"
	platformhandler "auth_backend/internal/platform/http/handler"
)

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// NewReadinessPingers returns the dependencies checked by /readyz.
func NewReadinessPingers(gdb *gorm.DB, rdb *redis.Client) map[string]platformhandler.Pinger {
	pingers := map[string]platformhandler.Pinger{"database": db.Pinger{DB: gdb}}
	if rdb != nil {
		pingers["redis"] = redisPinger{client: rdb}
	}
	return pingers
}
