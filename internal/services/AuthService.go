package services

import (
	"context"
	"errors"
	"fmt"
	"surveyd/internal/models"
	"surveyd/internal/providers"
	"surveyd/internal/store"
	"surveyd/internal/structures"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a wrong admin password. The caller
// must not distinguish it further.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthServiceInterface interface {
	Login(ctx context.Context, password, ip string) (providers.Session, error)
	Logout(ctx context.Context, token, ip string)
	Authorized(token string) bool
}

type AuthService struct {
	passwordHash []byte
	sessions     providers.SessionProviderInterface
	limiter      providers.RateLimiterInterface
	audit        store.AuditStoreInterface
	logger       providers.Logger
}

// NewAuthService hashes the configured admin password once at startup so
// the plaintext never sits in memory longer than it has to.
func NewAuthService(
	conf *structures.Config,
	sessions providers.SessionProviderInterface,
	limiter providers.RateLimiterInterface,
	audit store.AuditStoreInterface,
	logger providers.Logger,
) (AuthServiceInterface, error) {
	cost := conf.Auth.BcryptCost
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(conf.Auth.AdminPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &AuthService{
		passwordHash: hash,
		sessions:     sessions,
		limiter:      limiter,
		audit:        audit,
		logger:       logger,
	}, nil
}

// Login verifies the admin password and issues a session token. A
// successful login forgives the caller's auth rate slot so legitimate
// admins are not locked out by their own earlier typos.
func (as *AuthService) Login(ctx context.Context, password, ip string) (providers.Session, error) {
	if err := bcrypt.CompareHashAndPassword(as.passwordHash, []byte(password)); err != nil {
		as.appendLogin(ctx, ip, false)
		as.logger.Warnf(providers.TypeApp, "Failed admin login from %s", ip)
		return providers.Session{}, ErrInvalidCredentials
	}

	as.limiter.Forgive(providers.TierAuth, ip)
	session := as.sessions.Issue(ip)

	as.appendLogin(ctx, ip, true)
	as.logger.Infof(providers.TypeApp, "Admin login from %s", ip)
	return session, nil
}

func (as *AuthService) Logout(ctx context.Context, token, ip string) {
	as.sessions.Revoke(token)
	if err := as.audit.Append(ctx, models.EventLogout, ip, nil); err != nil {
		as.logger.Errorf(providers.TypeApp, "Failed to append logout audit entry: %s", err)
	}
}

func (as *AuthService) Authorized(token string) bool {
	return as.sessions.Validate(token)
}

// Both outcomes are logged so lockout investigations can see the failed
// attempts that preceded a successful login.
func (as *AuthService) appendLogin(ctx context.Context, ip string, success bool) {
	if err := as.audit.Append(ctx, models.EventLogin, ip, map[string]interface{}{
		"success": success,
	}); err != nil {
		as.logger.Errorf(providers.TypeApp, "Failed to append login audit entry: %s", err)
	}
}
