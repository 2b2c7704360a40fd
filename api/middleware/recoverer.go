package middleware

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/stockkeeper/api/responses"
	pkgerrors "github.com/angelmondragon/stockkeeper/pkg/errors"
	"github.com/angelmondragon/stockkeeper/pkg/logger"
)

// ErrorRenderer writes err to the client in the route's own format.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, err error)

// Recoverer turns a handler panic into a 500. A nil renderer writes the JSON
// error envelope.
func Recoverer(logg *logger.Logger, render ErrorRenderer) func(http.Handler) http.Handler {
	if render == nil {
		render = func(w http.ResponseWriter, r *http.Request, err error) {
			responses.WriteError(r.Context(), nil, w, err)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					err := fmt.Errorf("panic: %v", rec)
					ctx := r.Context()
					if logg != nil {
						ctx = logg.WithFields(ctx, map[string]any{"panic": fmt.Sprint(rec)})
						logg.Error(ctx, "panic.recovered", err)
					}
					render(w, r.WithContext(ctx), pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
