package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/gateway"
)

func TestSynchronizeReplacesAccountSet(t *testing.T) {
	ctx := context.Background()
	fx := seedAccount(t, newTestStore(t), "ReadOnly")

	gw := &fakeGateway{
		listAccountsFn: func() ([]gateway.AccountSummary, error) {
			return []gateway.AccountSummary{
				{ID: "111111111111", Name: "acme-dev", Email: "dev@acme.example"},
				{ID: "222222222222", Name: "acme-prod", Email: "prod@acme.example"},
			}, nil
		},
		listRolesFn: func(accountID string) ([]string, error) {
			if accountID == "222222222222" {
				return []string{"ReadOnly", "Billing"}, nil
			}
			return []string{"ReadOnly"}, nil
		},
	}

	svc := &SyncService{Store: fx.store, Gateway: gw}

	count, err := svc.Synchronize(ctx, "test-realm", "us-east-1")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	// The previously seeded account is gone; the fresh listing replaced it.
	accounts, err := fx.store.Accounts().ListAccountsByRealm(ctx, fx.realm.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	for _, account := range accounts {
		require.NotEqual(t, fx.account.ID, account.ID)
	}

	prod, err := fx.store.Accounts().GetAccountByNumber(ctx, fx.realm.ID, "222222222222")
	require.NoError(t, err)
	roles, err := fx.store.Accounts().ListSsoRoles(ctx, prod.ID)
	require.NoError(t, err)
	require.Len(t, roles, 2)

	require.Equal(t, 2, gw.listRolesCalls, "one role listing per account")
}

func TestSynchronizeKeepsOldSetOnListingFailure(t *testing.T) {
	ctx := context.Background()
	fx := seedAccount(t, newTestStore(t), "ReadOnly")

	boom := errors.New("throttled")
	gw := &fakeGateway{
		listAccountsFn: func() ([]gateway.AccountSummary, error) {
			return []gateway.AccountSummary{
				{ID: "111111111111", Name: "acme-dev", Email: "dev@acme.example"},
			}, nil
		},
		listRolesFn: func(accountID string) ([]string, error) {
			return nil, boom
		},
	}

	svc := &SyncService{Store: fx.store, Gateway: gw}

	_, err := svc.Synchronize(ctx, "test-realm", "us-east-1")
	require.ErrorIs(t, err, boom)

	// A failed listing must not wipe what we had.
	accounts, err := fx.store.Accounts().ListAccountsByRealm(ctx, fx.realm.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, fx.account.ID, accounts[0].ID)
}

func TestSynchronizeUnknownRealm(t *testing.T) {
	svc := &SyncService{Store: newTestStore(t), Gateway: &fakeGateway{}}

	_, err := svc.Synchronize(context.Background(), "missing", "us-east-1")
	require.ErrorIs(t, err, ErrRealmNotFound)
}

func TestSynchronizeWithoutAuthorization(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	_, err := st.Realms().UpsertRealm(ctx, "test-realm", "https://test.awsapps.com/start")
	require.NoError(t, err)

	svc := &SyncService{Store: st, Gateway: &fakeGateway{}}

	_, err = svc.Synchronize(ctx, "test-realm", "us-east-1")
	require.ErrorIs(t, err, ErrAuthorizationNotFound)
}
