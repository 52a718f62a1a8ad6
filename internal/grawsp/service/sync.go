package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/domain"
	"github.com/aussiebroadwan/grawsp/internal/grawsp/gateway"
	"github.com/aussiebroadwan/grawsp/internal/grawsp/store"
	"github.com/aussiebroadwan/grawsp/pkg/idx"
	"github.com/aussiebroadwan/grawsp/pkg/slogx"
)

// SyncService replaces the accounts and SSO roles discovered under a realm's
// current authorization with a fresh listing from the identity provider.
type SyncService struct {
	Store   store.Store
	Gateway gateway.IdentityGateway
}

// Synchronize lists every account and its directly assumable roles, then
// swaps the stored set in one transaction. Returns the number of accounts.
func (s *SyncService) Synchronize(ctx context.Context, realmName, region string) (int, error) {
	l := slogx.FromContext(ctx)

	realm, err := s.Store.Realms().GetRealmByName(ctx, realmName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, fmt.Errorf("%w: %q", ErrRealmNotFound, realmName)
		}
		return 0, err
	}

	auth, err := s.Store.Authorizations().GetAuthorization(ctx, realm.ID, region)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, fmt.Errorf("%w: realm %q region %q",
				ErrAuthorizationNotFound, realmName, region)
		}
		return 0, err
	}

	summaries, err := s.Gateway.ListAccounts(ctx, auth.AccessToken, region)
	if err != nil {
		return 0, fmt.Errorf("list accounts: %w", err)
	}

	// Collect all the roles before touching the store, so a network failure
	// mid-listing never leaves a half-replaced account set behind.
	type listing struct {
		summary gateway.AccountSummary
		roles   []string
	}

	listings := make([]listing, 0, len(summaries))
	for _, summary := range summaries {
		roles, err := s.Gateway.ListAccountRoles(ctx, auth.AccessToken, summary.ID, region)
		if err != nil {
			return 0, fmt.Errorf("list roles for account %s: %w", summary.ID, err)
		}
		listings = append(listings, listing{summary: summary, roles: roles})
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().DeleteAccountsByAuthorization(ctx, auth.ID); err != nil {
			return err
		}

		for _, item := range listings {
			account := domain.Account{
				ID:              idx.New().String(),
				RealmID:         realm.ID,
				AuthorizationID: auth.ID,
				Number:          item.summary.ID,
				Name:            item.summary.Name,
				Email:           item.summary.Email,
			}
			if err := tx.Accounts().CreateAccount(ctx, account); err != nil {
				return err
			}

			for _, roleName := range item.roles {
				role := domain.SsoRole{
					ID:        idx.New().String(),
					AccountID: account.ID,
					Name:      roleName,
				}
				if err := tx.Accounts().CreateSsoRole(ctx, role); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("replace accounts: %w", err)
	}

	l.Info("accounts synchronized", "realm", realmName, "region", region,
		"accounts", len(listings))
	return len(listings), nil
}
