package domain

import "time"

// Account is a cloud account discovered through synchronisation. It belongs
// to a Realm and to the Authorization that listed it; deleting either
// cascades to the account and its roles and credentials.
type Account struct {
	ID              string
	RealmID         string
	AuthorizationID string
	Number          string // 12-digit account identifier
	Name            string
	Email           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SsoRole is a role directly assumable from the SSO session for one account,
// with no intermediary hop.
type SsoRole struct {
	ID        string
	AccountID string
	Name      string
	CreatedAt time.Time
}
