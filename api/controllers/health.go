package controllers

import (
	"context"
	"net/http"

	"github.com/jezzlucena/slatefolio/api/responses"
	"github.com/jezzlucena/slatefolio/pkg/config"
	pkgerrors "github.com/jezzlucena/slatefolio/pkg/errors"
	"github.com/jezzlucena/slatefolio/pkg/logger"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Slatefolio-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Slatefolio-Env", cfg.App.Env)

		status := make(map[string]string, len(deps))
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				healthy = false
				status[name] = "unreachable"
				if logg != nil {
					logg.Error(logg.WithField(r.Context(), "dependency", name), "readiness probe failed", err)
				}
				continue
			}
			status[name] = "ok"
		}

		if !healthy {
			responses.WriteError(r.Context(), nil, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(status))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "dependencies": status})
	}
}
