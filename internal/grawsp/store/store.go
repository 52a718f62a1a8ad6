package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and to stop callers from accidentally nesting transactions.
type Store interface {
	Realms() Realms
	Authorizations() Authorizations
	Accounts() Accounts
	Credentials() Credentials

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run multi-step writes (e.g. account replacement).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Realms interface {
	// UpsertRealm inserts a realm by name or, when the name already exists,
	// updates its start URL in place. Returns the stored row either way.
	UpsertRealm(ctx context.Context, name, startURL string) (domain.Realm, error)

	// GetRealmByName fetches a realm by its unique name.
	GetRealmByName(ctx context.Context, name string) (domain.Realm, error)

	// ListRealms returns all realms ordered by name.
	ListRealms(ctx context.Context) ([]domain.Realm, error)

	// DeleteRealm removes a realm, cascading to authorizations and accounts.
	DeleteRealm(ctx context.Context, realmID string) error
}

type Authorizations interface {
	// GetAuthorization fetches the single session row for (realm, region).
	GetAuthorization(ctx context.Context, realmID, region string) (domain.Authorization, error)

	// UpsertAuthorization inserts or replaces the session row for the
	// authorization's (realm, region) pair. At most one row exists per pair.
	UpsertAuthorization(ctx context.Context, a domain.Authorization) error

	// DeleteAuthorization cascades to accounts, sso roles and credentials.
	DeleteAuthorization(ctx context.Context, authorizationID string) error
}

type Accounts interface {
	// CreateAccount inserts a discovered account (id is provided via ULID).
	CreateAccount(ctx context.Context, a domain.Account) error

	// GetAccountByName fetches an account by exact name within a realm.
	GetAccountByName(ctx context.Context, realmID, name string) (domain.Account, error)

	// GetAccountByNumber fetches an account by its 12-digit number within a realm.
	GetAccountByNumber(ctx context.Context, realmID, number string) (domain.Account, error)

	// ListAccountsByRealm returns all accounts in a realm ordered by name.
	ListAccountsByRealm(ctx context.Context, realmID string) ([]domain.Account, error)

	// SearchAccounts matches pattern (a Go regular expression, anchored at the
	// start) against both the number and the name of every account in the realm.
	SearchAccounts(ctx context.Context, realmID, pattern string) ([]domain.Account, error)

	// DeleteAccountsByAuthorization removes every account discovered by an
	// authorization, cascading to sso roles and credentials.
	DeleteAccountsByAuthorization(ctx context.Context, authorizationID string) error

	// CreateSsoRole records a role as directly assumable for an account.
	CreateSsoRole(ctx context.Context, r domain.SsoRole) error

	// ListSsoRoles returns the directly assumable roles for an account.
	ListSsoRoles(ctx context.Context, accountID string) ([]domain.SsoRole, error)

	// HasSsoRole reports whether roleName is directly assumable for an account.
	HasSsoRole(ctx context.Context, accountID, roleName string) (bool, error)
}

type Credentials interface {
	// GetCredential fetches the cached credential for (account, role).
	GetCredential(ctx context.Context, accountID, roleName string) (domain.Credential, error)

	// CreateCredential inserts a freshly resolved credential. Expired rows for
	// the same (account, role) must be deleted first; rows are never updated.
	CreateCredential(ctx context.Context, c domain.Credential) error

	// DeleteCredential removes a single credential row.
	DeleteCredential(ctx context.Context, credentialID string) error

	// ListCredentialsByRealm returns all cached credentials for a realm's
	// accounts, newest first.
	ListCredentialsByRealm(ctx context.Context, realmID string) ([]domain.Credential, error)

	// DeleteExpiredCredentials is housekeeping; returns the number removed.
	DeleteExpiredCredentials(ctx context.Context, now time.Time) (int64, error)
}
