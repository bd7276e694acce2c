package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shopdeskhq/shopdesk-backend/api/responses"
	pkgauth "github.com/shopdeskhq/shopdesk-backend/pkg/auth"
	"github.com/shopdeskhq/shopdesk-backend/pkg/config"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
	"github.com/shopdeskhq/shopdesk-backend/pkg/logger"
)

// RevocationChecker reports whether a token id has been denylisted.
type RevocationChecker interface {
	TokenRevoked(ctx context.Context, jti string) (bool, error)
}

// Auth validates a bearer token and seeds the request context with the
// caller's user, shop, and role. A nil revocations checker skips the
// denylist lookup.
func Auth(cfg config.JWTConfig, revocations RevocationChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if revocations != nil && claims.ID != "" {
				revoked, err := revocations.TokenRevoked(r.Context(), claims.ID)
				if err != nil {
					// denylist outage fails open
					if logg != nil {
						logg.Warn(r.Context(), "token revocation check unavailable")
					}
				} else if revoked {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "token revoked"))
					return
				}
			}

			ctx := WithUserID(r.Context(), claims.UserID.String())
			ctx = WithShopID(ctx, claims.ShopID.String())
			ctx = WithRole(ctx, string(claims.Role))

			var expiresAt time.Time
			if claims.ExpiresAt != nil {
				expiresAt = claims.ExpiresAt.Time
			}
			ctx = WithTokenInfo(ctx, TokenInfo{JTI: claims.ID, ExpiresAt: expiresAt})

			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
				ctx = logg.WithShopID(ctx, claims.ShopID.String())
				ctx = logg.WithActorRole(ctx, string(claims.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
