// Package logger builds the *slog.Logger shared by the searchkit packages and
// the searchctl command, plus attribute helpers that keep key names stable.
//
// New takes functional options:
//
//   - WithEnvironment – development (text, debug) or production (json, info).
//   - WithLevel / WithLevelName / WithFormat / WithOutput – explicit overrides.
//   - WithAttr – static attributes on every record.
//   - WithContextExtractors / WithContextValue – attributes pulled from the
//     context each time a record is handled, e.g. the id of the queue event
//     a worker is processing.
//
// Output goes to stderr by default so command results on stdout stay clean.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "searchctl"),
//	    logger.WithLevelName(cfg.LogLevel),
//	    logger.WithContextValue("event_id", eventIDKey{}),
//	)
//
//	log.DebugContext(ctx, "opensearch request",
//	    logger.Bundle("default"),
//	    logger.Method(http.MethodPut),
//	    logger.Path("/twitter/_doc/1"),
//	    logger.Status(200),
//	)
//
// Error and Errors return an empty attribute for nil errors, so they can be
// passed unconditionally.
package logger
