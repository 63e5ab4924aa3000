package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/searchkit/pkg/logger"
)

// Check reports whether a dependency is usable.
type Check func(context.Context) error

// Router returns the probe routes:
//
//   - GET /livez always answers 200 "ALIVE".
//   - GET /readyz runs every check and answers 200 when all pass, 503
//     otherwise, with a JSON body mapping check names to "ok" or the error.
func Router(log *slog.Logger, checks map[string]Check) chi.Router {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ALIVE"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for _, name := range slices.Sorted(maps.Keys(checks)) {
			if err := checks[name](ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed", logger.Component(name), logger.Error(err))
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(results)
	})
	return r
}
