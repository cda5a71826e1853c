package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/angelmondragon/brandcorner-backend/api/responses"
	"github.com/angelmondragon/brandcorner-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/brandcorner-backend/pkg/errors"
	"github.com/angelmondragon/brandcorner-backend/pkg/logger"
	"github.com/angelmondragon/brandcorner-backend/pkg/security"
)

const adminKeyHeader = "X-Admin-Key"

// AdminKey guards the admin surface with a static API key. A configured
// argon2id hash takes precedence over the plain key. With neither configured
// every request is rejected.
func AdminKey(cfg config.AdminConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	hash := strings.TrimSpace(cfg.APIKeyHash)
	plain := strings.TrimSpace(cfg.APIKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin api disabled"))
				return
			}

			presented := strings.TrimSpace(r.Header.Get(adminKeyHeader))
			if presented == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing admin key"))
				return
			}

			var ok bool
			if hash != "" {
				matched, err := security.VerifySecret(presented, hash)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify admin key"))
					return
				}
				ok = matched
			} else {
				ok = subtle.ConstantTimeCompare([]byte(presented), []byte(plain)) == 1
			}

			if !ok {
				if logg != nil {
					logg.Warn(r.Context(), "admin.key.rejected")
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid admin key"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxAdmin, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
