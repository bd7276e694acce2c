// Package auth authenticates shop users and mints the JWT every other
// endpoint requires. Login attempts are rate limited per email and per
// caller address through Redis fixed windows.
package auth

import (
	"context"
	"fmt"
	"time"

	pkgauth "github.com/shopdeskhq/shopdesk-backend/pkg/auth"
	"github.com/shopdeskhq/shopdesk-backend/pkg/config"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
	"github.com/shopdeskhq/shopdesk-backend/pkg/logger"
	"github.com/shopdeskhq/shopdesk-backend/pkg/security"

	"github.com/shopdeskhq/shopdesk-backend/internal/shops"
	"github.com/shopdeskhq/shopdesk-backend/internal/users"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type tokenRevoker interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

// Service handles login and logout.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type service struct {
	users   users.Service
	shops   shops.Service
	limiter rateLimiter
	revoker tokenRevoker
	jwtCfg  config.JWTConfig
	rlCfg   config.AuthRateLimitConfig
	logg    *logger.Logger
}

// NewService wires the auth service.
func NewService(userSvc users.Service, shopSvc shops.Service, limiter rateLimiter, revoker tokenRevoker, jwtCfg config.JWTConfig, rlCfg config.AuthRateLimitConfig, logg *logger.Logger) (Service, error) {
	if userSvc == nil {
		return nil, fmt.Errorf("users service required")
	}
	if shopSvc == nil {
		return nil, fmt.Errorf("shops service required")
	}
	if limiter == nil {
		return nil, fmt.Errorf("rate limiter required")
	}
	if revoker == nil {
		return nil, fmt.Errorf("token revoker required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{users: userSvc, shops: shopSvc, limiter: limiter, revoker: revoker, jwtCfg: jwtCfg, rlCfg: rlCfg, logg: logg}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	if err := s.allow(ctx, "login:email:"+input.Email, int64(s.rlCfg.LoginEmailLimit)); err != nil {
		return nil, err
	}
	if input.RemoteAddr != "" {
		if err := s.allow(ctx, "login:ip:"+input.RemoteAddr, int64(s.rlCfg.LoginIPLimit)); err != nil {
			return nil, err
		}
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, err
	}
	if !user.Active {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		s.logg.Warn(s.logg.WithField(ctx, "email", input.Email), "failed login attempt")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	// a deleted shop reads the same as bad credentials, an inactive one is a 403
	if _, err := s.shops.GetByID(ctx, user.ShopID); err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, err
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		ShopID: user.ShopID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	return &LoginResult{
		AccessToken: token,
		UserID:      user.ID,
		ShopID:      user.ShopID,
		Role:        user.Role.String(),
	}, nil
}

// Logout denylists the token id until the token would expire anyway.
func (s *service) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token id required")
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.RevokeToken(ctx, jti, ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking token")
	}

	s.logg.Info(ctx, "user logged out")
	return nil
}

func (s *service) allow(ctx context.Context, scope string, limit int64) error {
	if limit <= 0 {
		return nil
	}
	allowed, _, err := s.limiter.FixedWindowAllow(ctx, scope, limit, s.rlCfg.LoginWindow)
	if err != nil {
		// limiter outage fails open
		s.logg.Warn(ctx, "login rate limiter unavailable")
		return nil
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts")
	}
	return nil
}
