// Package httpserver runs an http.Handler with sane timeouts and graceful
// shutdown.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// Run returns when ctx is cancelled, SIGINT or SIGTERM arrives, or Shutdown is
// called; in-flight requests get ShutdownTimeout to finish. HealthHandler
// serves liveness and readiness probes.
package httpserver
