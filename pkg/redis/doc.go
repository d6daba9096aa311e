// Package redis connects to Redis for formkit's draft store.
//
// Connect parses a redis:// URL, pings the server and retries according to
// Config, whose fields load from REDIS_* environment variables through the
// config package. Healthcheck adapts a client to a readiness probe.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store := formstore.NewRedisStore(client, time.Hour)
package redis
