// Package config loads typed configuration from environment variables.
//
// Structs describe their variables with caarlos0/env tags. Load parses them
// once per type and caches the result; LoadWithPrefix does the same under a
// variable prefix. A .env file in the working directory is read on first use,
// and LoadEnv reads additional dotenv files explicitly.
//
//	type Config struct {
//		Addr     string `env:"HTTP_ADDR" envDefault:":8080"`
//		RedisURL string `env:"REDIS_URL"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Errors wrap ErrParsingConfig or ErrLoadingEnvFile and can be checked with
// errors.Is.
package config
