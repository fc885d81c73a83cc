// Package redis provides helpers for connecting to the Redis instance that
// backs checkout intent persistence.
//
// Connect retries the initial connection using the supplied configuration,
// which is populated from environment variables via github.com/caarlos0/env.
// Healthcheck integrates the connection into liveness and readiness probes.
//
//	cfg := redis.Config{ConnectionURL: "redis://localhost:6379/0"}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		// terminate: intents cannot survive reloads without Redis
//	}
//	defer client.Close()
//	store := checkout.NewRedisStore(client)
package redis
