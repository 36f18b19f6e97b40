package redisx

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

const shapePrefix = "shape:"

type Client struct{ Rdb *redis.Client }

func New(addr string, password string, db int) *Client {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	return &Client{Rdb: rdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.Rdb.Ping(ctx).Err()
}

func (c *Client) Close() error { return c.Rdb.Close() }

// ShapeField is the hash field for one decode variant and matched path.
// An unmatched extraction uses "-" as the path.
func ShapeField(variant, path string) string {
	if path == "" {
		path = "-"
	}
	return variant + "|" + path
}

// IncrShape bumps the counter for one observed upstream shape.
func (c *Client) IncrShape(ctx context.Context, domain, variant, path string) error {
	err := c.Rdb.HIncrBy(ctx, shapePrefix+domain, ShapeField(variant, path), 1).Err()
	return eris.Wrapf(err, "redisx: incr shape %s", domain)
}

// ShapeCounts returns every counter recorded for domain.
func (c *Client) ShapeCounts(ctx context.Context, domain string) (map[string]int64, error) {
	raw, err := c.Rdb.HGetAll(ctx, shapePrefix+domain).Result()
	if err != nil {
		return nil, eris.Wrapf(err, "redisx: shape counts %s", domain)
	}
	out := make(map[string]int64, len(raw))
	for k, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		out[k] = n
	}
	return out, nil
}
