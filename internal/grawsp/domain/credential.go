package domain

import "time"

// Credential is a resolved short-lived credential cached per (account, role).
// Expired rows are deleted and replaced, never updated in place.
type Credential struct {
	ID              string
	AccountID       string
	RoleName        string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	ExpiresAt       time.Time
	CreatedAt       time.Time
}

// Expired reports whether the credential can no longer be handed out. A zero
// expiry counts as expired.
func (c Credential) Expired(now time.Time) bool {
	return c.ExpiresAt.IsZero() || !now.Before(c.ExpiresAt)
}
