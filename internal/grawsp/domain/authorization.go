package domain

import "time"

// Authorization is a cached SSO session for one (realm, region) pair. It
// accumulates state across the device-authorization flow: the registered
// OAuth client, the device grant and finally the usable access token. Each
// leg carries its own expiry and is refreshed independently.
type Authorization struct {
	ID      string
	RealmID string
	Region  string

	ClientName            string
	ClientID              string
	ClientSecret          string
	ClientSecretExpiresAt time.Time

	DeviceCode      string
	DeviceExpiresAt time.Time

	AccessToken          string
	AccessTokenExpiresAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClientSecretExpired reports whether the registered OAuth client needs to be
// re-registered. A zero expiry counts as expired.
func (a Authorization) ClientSecretExpired(now time.Time) bool {
	return a.ClientSecretExpiresAt.IsZero() || !now.Before(a.ClientSecretExpiresAt)
}

// DeviceExpired reports whether the device grant can no longer be polled.
func (a Authorization) DeviceExpired(now time.Time) bool {
	return a.DeviceExpiresAt.IsZero() || !now.Before(a.DeviceExpiresAt)
}

// AccessTokenExpired reports whether the SSO session token is unusable.
func (a Authorization) AccessTokenExpired(now time.Time) bool {
	return a.AccessTokenExpiresAt.IsZero() || !now.Before(a.AccessTokenExpiresAt)
}
