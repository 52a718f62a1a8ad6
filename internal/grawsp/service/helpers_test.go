package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/domain"
	"github.com/aussiebroadwan/grawsp/internal/grawsp/store"
	"github.com/aussiebroadwan/grawsp/internal/grawsp/store/drivers/sqlite"
	"github.com/aussiebroadwan/grawsp/pkg/idx"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

type fixture struct {
	store   store.Store
	realm   domain.Realm
	auth    domain.Authorization
	account domain.Account
}

// seedAccount creates a realm, a live authorization and one account with the
// given directly assumable roles, mirroring the state left behind by a
// successful auth + sync.
func seedAccount(t *testing.T, st store.Store, ssoRoles ...string) fixture {
	t.Helper()
	ctx := context.Background()

	realm, err := st.Realms().UpsertRealm(ctx, "test-realm", "https://test.awsapps.com/start")
	require.NoError(t, err)

	auth := domain.Authorization{
		ID:                    idx.New().String(),
		RealmID:               realm.ID,
		Region:                "us-east-1",
		ClientName:            "grawsp",
		ClientID:              "client-id",
		ClientSecret:          "client-secret",
		ClientSecretExpiresAt: time.Now().Add(24 * time.Hour),
		DeviceCode:            "device-code",
		DeviceExpiresAt:       time.Now().Add(time.Hour),
		AccessToken:           "sso-access-token",
		AccessTokenExpiresAt:  time.Now().Add(time.Hour),
	}
	require.NoError(t, st.Authorizations().UpsertAuthorization(ctx, auth))

	auth, err = st.Authorizations().GetAuthorization(ctx, realm.ID, "us-east-1")
	require.NoError(t, err)

	account := domain.Account{
		ID:              idx.New().String(),
		RealmID:         realm.ID,
		AuthorizationID: auth.ID,
		Number:          "123456789012",
		Name:            "acme-prod",
		Email:           "cloud@acme.example",
	}
	require.NoError(t, st.Accounts().CreateAccount(ctx, account))

	for _, roleName := range ssoRoles {
		require.NoError(t, st.Accounts().CreateSsoRole(ctx, domain.SsoRole{
			ID:        idx.New().String(),
			AccountID: account.ID,
			Name:      roleName,
		}))
	}

	return fixture{store: st, realm: realm, auth: auth, account: account}
}
