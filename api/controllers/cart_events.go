package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/angelmondragon/brandcorner-backend/api/middleware"
	"github.com/angelmondragon/brandcorner-backend/api/responses"
	"github.com/angelmondragon/brandcorner-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/brandcorner-backend/pkg/errors"
	"github.com/angelmondragon/brandcorner-backend/pkg/logger"
)

const (
	cartUpdatedEvent  = "cartUpdated"
	keepAliveInterval = 25 * time.Second
)

// CartEvents streams a server-sent cartUpdated event whenever the session cart
// changes. The stream ends when the client disconnects or shutdown is closed.
func CartEvents(svc cart.Service, shutdown <-chan struct{}, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		ctx := r.Context()
		updates, err := svc.Subscribe(ctx, middleware.SessionIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rc := http.NewResponseController(w)
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
			return
		}
		if err := rc.Flush(); err != nil {
			if logg != nil {
				logg.Warn(logg.WithField(ctx, "error", err.Error()), "cart.events.flush_unsupported")
			}
			return
		}

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-shutdown:
				return
			case _, ok := <-updates:
				if !ok {
					return
				}
				if _, err := fmt.Fprintf(w, "event: %s\ndata: {}\n\n", cartUpdatedEvent); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
