package redis

import (
	"github.com/go-redsync/redsync/v4"
	redsync_redis "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredis "github.com/redis/go-redis/v9"
)

// Client bundles the shared connection with a redsync factory for the
// per-applicant callback locks.
type Client struct {
	Client *goredis.Client
	Lock   *redsync.Redsync
}

func NewClient(addr string) *Client {
	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		PoolSize:     20,
		MinIdleConns: 5,
	})

	pool := redsync_redis.NewPool(client)

	return &Client{
		Client: client,
		Lock:   redsync.New(pool),
	}
}
