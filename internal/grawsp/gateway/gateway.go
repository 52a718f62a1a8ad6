// Package gateway defines the network boundary to the identity provider and
// the token-exchange service. The engine only ever talks to this interface;
// the AWS implementation lives in the aws subpackage.
package gateway

import (
	"context"
	"errors"
	"time"
)

// ErrRoleNotFound reports that FindRoleArn could not locate the role under
// the supplied credentials.
var ErrRoleNotFound = errors.New("gateway: role not found")

// ClientRegistration is the result of registering a public OAuth client.
type ClientRegistration struct {
	ClientID        string
	ClientSecret    string
	SecretExpiresAt time.Time
}

// DeviceAuthorization is the result of starting a device grant. The
// verification URL is handed to the user; the device code is polled until
// they approve.
type DeviceAuthorization struct {
	DeviceCode      string
	ExpiresAt       time.Time
	VerificationURL string
}

// TokenResult is the outcome of one access-token poll. Pending means the
// user has not approved the device yet and the caller should retry; it is a
// distinct result, not an error.
type TokenResult struct {
	Pending     bool
	AccessToken string
	ExpiresAt   time.Time
}

// AccountSummary is one account listed from the identity provider.
type AccountSummary struct {
	ID    string
	Name  string
	Email string
}

// Credentials is a short-lived access key triple as returned by the provider.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	ExpiresAt       time.Time
}

// IdentityGateway is everything the engine needs from the identity provider
// (client registration, device grants, token issuance, account listing, SSO
// role assumption) and the token-exchange service (role chaining, console
// sign-in). All timestamps are converted to time.Time at this boundary.
type IdentityGateway interface {
	RegisterClient(ctx context.Context, name, region string) (ClientRegistration, error)

	AuthorizeDevice(ctx context.Context, clientID, clientSecret, region, startURL string) (DeviceAuthorization, error)

	CreateAccessToken(ctx context.Context, clientID, clientSecret, deviceCode, region string) (TokenResult, error)

	ListAccounts(ctx context.Context, accessToken, region string) ([]AccountSummary, error)

	ListAccountRoles(ctx context.Context, accessToken, accountID, region string) ([]string, error)

	AssumeSsoRole(ctx context.Context, accessToken, accountID, region, roleName string) (Credentials, error)

	// FindRoleArn looks the role up by name under the supplied credentials.
	// Returns ErrRoleNotFound when the role does not exist.
	FindRoleArn(ctx context.Context, creds Credentials, region, roleName string) (string, error)

	AssumeRole(ctx context.Context, creds Credentials, region, roleArn, sessionName string, duration time.Duration) (Credentials, error)

	// GetConsoleSigninURL exchanges credentials for a federated console
	// sign-in URL. One HTTPS round trip; the result is never cached.
	GetConsoleSigninURL(ctx context.Context, creds Credentials, region string) (string, error)
}
