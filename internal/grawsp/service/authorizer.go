package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/domain"
	"github.com/aussiebroadwan/grawsp/internal/grawsp/gateway"
	"github.com/aussiebroadwan/grawsp/internal/grawsp/store"
	"github.com/aussiebroadwan/grawsp/pkg/idx"
	"github.com/aussiebroadwan/grawsp/pkg/slogx"
)

// AuthorizerService owns the device-authorization state machine. It produces
// a usable SSO access token for a (realm, region) pair, re-running only the
// legs whose expiry has lapsed: client registration, device grant, token
// polling. The updated session row is persisted once, on success.
type AuthorizerService struct {
	Store   store.Store
	Gateway gateway.IdentityGateway

	// OpenURL is handed the verification URL when a new device grant is
	// started. Nil means nothing is opened; the URL is still logged.
	OpenURL func(url string) error

	// Overridable in tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

type AuthorizeParams struct {
	Realm      string
	StartURL   string
	Region     string
	ClientName string
	RetryAfter time.Duration // pause between token polls
	Timeout    time.Duration // wall-clock budget for the poll loop
}

// Authorize returns a session with a currently-valid access token, running
// whichever parts of the device flow are needed to get there.
func (s *AuthorizerService) Authorize(
	ctx context.Context,
	p AuthorizeParams,
) (domain.Authorization, error) {
	l := slogx.FromContext(ctx)
	now := s.clock()

	realm, err := s.Store.Realms().UpsertRealm(ctx, p.Realm, p.StartURL)
	if err != nil {
		return domain.Authorization{}, fmt.Errorf("upsert realm %q: %w", p.Realm, err)
	}

	auth, err := s.Store.Authorizations().GetAuthorization(ctx, realm.ID, p.Region)
	if errors.Is(err, store.ErrNotFound) {
		auth = domain.Authorization{
			ID:         idx.New().String(),
			RealmID:    realm.ID,
			Region:     p.Region,
			ClientName: p.ClientName,
		}
	} else if err != nil {
		return domain.Authorization{}, err
	}

	if auth.ClientSecretExpired(now) {
		registration, err := s.Gateway.RegisterClient(ctx, p.ClientName, p.Region)
		if err != nil {
			return domain.Authorization{}, err
		}

		auth.ClientID = registration.ClientID
		auth.ClientSecret = registration.ClientSecret
		auth.ClientSecretExpiresAt = registration.SecretExpiresAt

		l.Debug("registered oauth client", "realm", p.Realm, "region", p.Region)
	}

	// A fresh device grant is only needed when the old one lapsed AND there
	// is no token left to reuse; an expired device code with a live token is
	// harmless.
	if auth.DeviceExpired(now) && auth.AccessTokenExpired(now) {
		device, err := s.Gateway.AuthorizeDevice(
			ctx, auth.ClientID, auth.ClientSecret, p.Region, realm.StartURL)
		if err != nil {
			return domain.Authorization{}, err
		}

		auth.DeviceCode = device.DeviceCode
		auth.DeviceExpiresAt = device.ExpiresAt

		l.Info("waiting for device approval",
			"realm", p.Realm, "verification_url", device.VerificationURL)

		if s.OpenURL != nil {
			if err := s.OpenURL(device.VerificationURL); err != nil {
				l.Warn("could not open verification url", "error", err)
			}
		}
	}

	if auth.AccessTokenExpired(now) {
		token, err := s.pollAccessToken(ctx, auth, p)
		if err != nil {
			return domain.Authorization{}, err
		}

		auth.AccessToken = token.AccessToken
		auth.AccessTokenExpiresAt = token.ExpiresAt
	}

	if err := s.Store.Authorizations().UpsertAuthorization(ctx, auth); err != nil {
		return domain.Authorization{}, fmt.Errorf("persist authorization: %w", err)
	}

	l.Info("authorized", "realm", p.Realm, "region", p.Region,
		"token_expires_at", auth.AccessTokenExpiresAt)
	return auth, nil
}

// pollAccessToken drives the outer retry loop of the device flow. Pending
// results sleep RetryAfter and re-check the elapsed wall-clock time against
// Timeout; any other gateway failure propagates immediately.
func (s *AuthorizerService) pollAccessToken(
	ctx context.Context,
	auth domain.Authorization,
	p AuthorizeParams,
) (gateway.TokenResult, error) {
	start := s.clock()

	for {
		token, err := s.Gateway.CreateAccessToken(
			ctx, auth.ClientID, auth.ClientSecret, auth.DeviceCode, p.Region)
		if err != nil {
			return gateway.TokenResult{}, err
		}

		if !token.Pending {
			return token, nil
		}

		if err := s.pause(ctx, p.RetryAfter); err != nil {
			return gateway.TokenResult{}, err
		}

		if s.clock().Sub(start) >= p.Timeout {
			return gateway.TokenResult{}, fmt.Errorf(
				"%w: realm %q region %q", ErrAuthorizationTimeout, p.Realm, p.Region)
		}
	}
}

func (s *AuthorizerService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

func (s *AuthorizerService) pause(ctx context.Context, d time.Duration) error {
	if s.sleep != nil {
		return s.sleep(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
