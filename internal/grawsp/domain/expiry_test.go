package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAuthorizationExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var auth Authorization
	require.True(t, auth.ClientSecretExpired(now), "zero expiry counts as expired")
	require.True(t, auth.DeviceExpired(now))
	require.True(t, auth.AccessTokenExpired(now))

	auth.ClientSecretExpiresAt = now.Add(time.Hour)
	auth.DeviceExpiresAt = now // exactly at expiry is expired
	auth.AccessTokenExpiresAt = now.Add(-time.Second)

	require.False(t, auth.ClientSecretExpired(now))
	require.True(t, auth.DeviceExpired(now))
	require.True(t, auth.AccessTokenExpired(now))
}

func TestCredentialExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var credential Credential
	require.True(t, credential.Expired(now))

	credential.ExpiresAt = now.Add(time.Minute)
	require.False(t, credential.Expired(now))

	credential.ExpiresAt = now
	require.True(t, credential.Expired(now))
}
