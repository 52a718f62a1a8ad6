package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/domain"
	"github.com/aussiebroadwan/grawsp/internal/grawsp/store"
	"github.com/aussiebroadwan/grawsp/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedRealm(t *testing.T, st *Store) domain.Realm {
	t.Helper()

	realm, err := st.Realms().UpsertRealm(
		context.Background(), "test-realm", "https://test.awsapps.com/start")
	require.NoError(t, err)
	return realm
}

func seedAuthorization(t *testing.T, st *Store, realmID string) domain.Authorization {
	t.Helper()
	ctx := context.Background()

	auth := domain.Authorization{
		ID:         idx.New().String(),
		RealmID:    realmID,
		Region:     "us-east-1",
		ClientName: "grawsp",
	}
	require.NoError(t, st.Authorizations().UpsertAuthorization(ctx, auth))

	auth, err := st.Authorizations().GetAuthorization(ctx, realmID, "us-east-1")
	require.NoError(t, err)
	return auth
}

func seedAccountRow(t *testing.T, st *Store, realmID, authID, number, name string) domain.Account {
	t.Helper()

	account := domain.Account{
		ID:              idx.New().String(),
		RealmID:         realmID,
		AuthorizationID: authID,
		Number:          number,
		Name:            name,
		Email:           name + "@acme.example",
	}
	require.NoError(t, st.Accounts().CreateAccount(context.Background(), account))
	return account
}

func TestUpsertRealmIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	first, err := st.Realms().UpsertRealm(ctx, "test-realm", "https://old.awsapps.com/start")
	require.NoError(t, err)

	second, err := st.Realms().UpsertRealm(ctx, "test-realm", "https://new.awsapps.com/start")
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID, "re-registering must keep the row")
	require.Equal(t, "https://new.awsapps.com/start", second.StartURL)

	realms, err := st.Realms().ListRealms(ctx)
	require.NoError(t, err)
	require.Len(t, realms, 1)
}

func TestUpsertAuthorizationPreservesID(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	realm := seedRealm(t, st)
	auth := seedAuthorization(t, st, realm.ID)

	renewed := auth
	renewed.ID = idx.New().String() // candidate id, ignored on conflict
	renewed.AccessToken = "renewed-token"
	renewed.AccessTokenExpiresAt = time.Now().Add(8 * time.Hour)
	require.NoError(t, st.Authorizations().UpsertAuthorization(ctx, renewed))

	stored, err := st.Authorizations().GetAuthorization(ctx, realm.ID, "us-east-1")
	require.NoError(t, err)
	require.Equal(t, auth.ID, stored.ID)
	require.Equal(t, "renewed-token", stored.AccessToken)
}

func TestAuthorizationExpiryRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	realm := seedRealm(t, st)

	expiry := time.Now().Add(time.Hour).Truncate(time.Second).UTC()
	auth := domain.Authorization{
		ID:                   idx.New().String(),
		RealmID:              realm.ID,
		Region:               "us-east-1",
		ClientName:           "grawsp",
		AccessToken:          "token",
		AccessTokenExpiresAt: expiry,
	}
	require.NoError(t, st.Authorizations().UpsertAuthorization(ctx, auth))

	stored, err := st.Authorizations().GetAuthorization(ctx, realm.ID, "us-east-1")
	require.NoError(t, err)
	require.True(t, stored.AccessTokenExpiresAt.Equal(expiry))

	// Unset expiries come back zero and count as expired.
	require.True(t, stored.ClientSecretExpired(time.Now()))
	require.True(t, stored.DeviceExpired(time.Now()))
	require.False(t, stored.AccessTokenExpired(time.Now()))
}

func TestGetAuthorizationNotFound(t *testing.T) {
	st := newTestStore(t)
	realm := seedRealm(t, st)

	_, err := st.Authorizations().GetAuthorization(context.Background(), realm.ID, "eu-west-1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteRealmCascades(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	realm := seedRealm(t, st)
	auth := seedAuthorization(t, st, realm.ID)
	account := seedAccountRow(t, st, realm.ID, auth.ID, "123456789012", "acme-prod")

	require.NoError(t, st.Accounts().CreateSsoRole(ctx, domain.SsoRole{
		ID:        idx.New().String(),
		AccountID: account.ID,
		Name:      "ReadOnly",
	}))
	require.NoError(t, st.Credentials().CreateCredential(ctx, domain.Credential{
		ID:              idx.New().String(),
		AccountID:       account.ID,
		RoleName:        "ReadOnly",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "s",
		SessionToken:    "t",
		ExpiresAt:       time.Now().Add(time.Hour),
	}))

	require.NoError(t, st.Realms().DeleteRealm(ctx, realm.ID))

	_, err := st.Authorizations().GetAuthorization(ctx, realm.ID, "us-east-1")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Accounts().GetAccountByName(ctx, realm.ID, "acme-prod")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Credentials().GetCredential(ctx, account.ID, "ReadOnly")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteAccountsByAuthorization(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	realm := seedRealm(t, st)
	auth := seedAuthorization(t, st, realm.ID)
	seedAccountRow(t, st, realm.ID, auth.ID, "123456789012", "acme-prod")
	seedAccountRow(t, st, realm.ID, auth.ID, "210987654321", "acme-staging")

	require.NoError(t, st.Accounts().DeleteAccountsByAuthorization(ctx, auth.ID))

	accounts, err := st.Accounts().ListAccountsByRealm(ctx, realm.ID)
	require.NoError(t, err)
	require.Empty(t, accounts)
}

func TestSearchAccountsAnchorsAtFieldStart(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	realm := seedRealm(t, st)
	auth := seedAuthorization(t, st, realm.ID)
	seedAccountRow(t, st, realm.ID, auth.ID, "123456789012", "acme-prod")
	seedAccountRow(t, st, realm.ID, auth.ID, "210987654321", "acme-staging")

	// "prod" appears inside acme-prod but not at the start of either field.
	matches, err := st.Accounts().SearchAccounts(ctx, realm.ID, "prod")
	require.NoError(t, err)
	require.Empty(t, matches)

	matches, err = st.Accounts().SearchAccounts(ctx, realm.ID, "acme-.*")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	matches, err = st.Accounts().SearchAccounts(ctx, realm.ID, "1234")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "acme-prod", matches[0].Name)
}

func TestSearchAccountsRejectsBadPattern(t *testing.T) {
	st := newTestStore(t)
	realm := seedRealm(t, st)

	_, err := st.Accounts().SearchAccounts(context.Background(), realm.ID, "(unclosed")
	require.Error(t, err)
}

func TestCredentialLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	realm := seedRealm(t, st)
	auth := seedAuthorization(t, st, realm.ID)
	account := seedAccountRow(t, st, realm.ID, auth.ID, "123456789012", "acme-prod")

	expiry := time.Now().Add(time.Hour).Truncate(time.Second).UTC()
	credential := domain.Credential{
		ID:              idx.New().String(),
		AccountID:       account.ID,
		RoleName:        "ReadOnly",
		AccessKeyID:     "AKIATEST",
		SecretAccessKey: "secret",
		SessionToken:    "token",
		ExpiresAt:       expiry,
	}
	require.NoError(t, st.Credentials().CreateCredential(ctx, credential))

	stored, err := st.Credentials().GetCredential(ctx, account.ID, "ReadOnly")
	require.NoError(t, err)
	require.Equal(t, credential.ID, stored.ID)
	require.Equal(t, "AKIATEST", stored.AccessKeyID)
	require.True(t, stored.ExpiresAt.Equal(expiry))

	byRealm, err := st.Credentials().ListCredentialsByRealm(ctx, realm.ID)
	require.NoError(t, err)
	require.Len(t, byRealm, 1)

	require.NoError(t, st.Credentials().DeleteCredential(ctx, credential.ID))

	_, err = st.Credentials().GetCredential(ctx, account.ID, "ReadOnly")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteExpiredCredentials(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	realm := seedRealm(t, st)
	auth := seedAuthorization(t, st, realm.ID)
	account := seedAccountRow(t, st, realm.ID, auth.ID, "123456789012", "acme-prod")

	now := time.Now().UTC()
	fresh := domain.Credential{
		ID:              idx.New().String(),
		AccountID:       account.ID,
		RoleName:        "ReadOnly",
		AccessKeyID:     "AKIAFRESH",
		SecretAccessKey: "s",
		SessionToken:    "t",
		ExpiresAt:       now.Add(time.Hour),
	}
	stale := domain.Credential{
		ID:              idx.New().String(),
		AccountID:       account.ID,
		RoleName:        "Admin",
		AccessKeyID:     "AKIASTALE",
		SecretAccessKey: "s",
		SessionToken:    "t",
		ExpiresAt:       now.Add(-time.Hour),
	}
	require.NoError(t, st.Credentials().CreateCredential(ctx, fresh))
	require.NoError(t, st.Credentials().CreateCredential(ctx, stale))

	deleted, err := st.Credentials().DeleteExpiredCredentials(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	remaining, err := st.Credentials().ListCredentialsByRealm(ctx, realm.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, "AKIAFRESH", remaining[0].AccessKeyID)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	realm := seedRealm(t, st)
	auth := seedAuthorization(t, st, realm.ID)

	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().CreateAccount(ctx, domain.Account{
			ID:              idx.New().String(),
			RealmID:         realm.ID,
			AuthorizationID: auth.ID,
			Number:          "123456789012",
			Name:            "acme-prod",
		}); err != nil {
			return err
		}
		// Duplicate number violates the unique constraint and aborts the tx.
		return tx.Accounts().CreateAccount(ctx, domain.Account{
			ID:              idx.New().String(),
			RealmID:         realm.ID,
			AuthorizationID: auth.ID,
			Number:          "123456789012",
			Name:            "acme-copy",
		})
	})
	require.Error(t, err)

	accounts, err := st.Accounts().ListAccountsByRealm(ctx, realm.ID)
	require.NoError(t, err)
	require.Empty(t, accounts, "nothing from the failed transaction may remain")
}

func TestWithTxCommits(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	realm := seedRealm(t, st)
	auth := seedAuthorization(t, st, realm.ID)

	err := st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Accounts().CreateAccount(ctx, domain.Account{
			ID:              idx.New().String(),
			RealmID:         realm.ID,
			AuthorizationID: auth.ID,
			Number:          "123456789012",
			Name:            "acme-prod",
		})
	})
	require.NoError(t, err)

	accounts, err := st.Accounts().ListAccountsByRealm(ctx, realm.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
}
