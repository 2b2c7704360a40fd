package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/stockkeeper/api/responses"
	"github.com/angelmondragon/stockkeeper/pkg/config"
	pkgerrors "github.com/angelmondragon/stockkeeper/pkg/errors"
	"github.com/angelmondragon/stockkeeper/pkg/logger"
)

const envHeader = "X-Stockkeeper-Env"

// Pinger is any dependency readiness can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and, when configured, redis.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbPinger Pinger, redisPinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		if dbPinger == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
			return
		}
		if err := dbPinger.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}

		checks := map[string]string{"database": "ok"}
		if redisPinger != nil {
			if err := redisPinger.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
			checks["redis"] = "ok"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
