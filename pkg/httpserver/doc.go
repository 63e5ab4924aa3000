// Package httpserver runs a small HTTP server exposing liveness and
// readiness probes for long running searchkit processes.
//
//	checks := map[string]httpserver.Check{
//		"opensearch": opensearch.Healthcheck(client),
//		"redis":      redis.Healthcheck(rdb),
//	}
//	srv := httpserver.New(httpserver.WithAddr(":8081"), httpserver.WithLogger(log))
//	err := srv.Run(ctx, httpserver.Router(log, checks))
//
// Run blocks until ctx is done and then shuts down within the configured
// timeout. Listen failures join ErrStart, shutdown failures ErrShutdown.
package httpserver
