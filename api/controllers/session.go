package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/brandcorner-backend/api/middleware"
	"github.com/angelmondragon/brandcorner-backend/api/responses"
	pkgAuth "github.com/angelmondragon/brandcorner-backend/pkg/auth"
	"github.com/angelmondragon/brandcorner-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/brandcorner-backend/pkg/errors"
	"github.com/angelmondragon/brandcorner-backend/pkg/logger"
)

type sessionResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionCreate mints a guest cart token. A still valid token presented with
// the request is renewed for the same session so the cart survives.
func SessionCreate(cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if raw := middleware.SessionToken(r); raw != "" {
			if claims, err := pkgAuth.ParseSessionToken(cfg, raw); err == nil {
				sessionID = claims.SessionID()
			}
		}

		token, claims, err := pkgAuth.MintSessionToken(cfg, time.Now(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token"))
			return
		}

		w.Header().Set(middleware.SessionTokenHeader, token)
		responses.WriteSuccessStatus(w, http.StatusCreated, sessionResponse{
			Token:     token,
			SessionID: claims.SessionID(),
			ExpiresAt: claims.ExpiresAt.Time,
		})
	}
}
