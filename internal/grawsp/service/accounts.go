package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/domain"
	"github.com/aussiebroadwan/grawsp/internal/grawsp/store"
)

var (
	numberIdentifier = regexp.MustCompile(`^[0-9]+$`)
	nameIdentifier   = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// AccountService answers account lookups for callers. Identifier resolution
// precedence is a stable contract: purely numeric identifiers match the
// account number, lowercase alphanumeric-and-hyphen identifiers match the
// exact name, and anything else is treated as a regular expression matched
// against both fields.
type AccountService struct {
	Store store.Store
}

// Find resolves a single account from an identifier. Pattern identifiers
// must match exactly one account.
func (s *AccountService) Find(
	ctx context.Context,
	realmName, identifier string,
) (domain.Account, error) {
	realm, err := s.Store.Realms().GetRealmByName(ctx, realmName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, fmt.Errorf("%w: %q", ErrRealmNotFound, realmName)
		}
		return domain.Account{}, err
	}

	switch {
	case numberIdentifier.MatchString(identifier):
		account, err := s.Store.Accounts().GetAccountByNumber(ctx, realm.ID, identifier)
		return account, mapAccountErr(err, identifier, realmName)

	case nameIdentifier.MatchString(identifier):
		account, err := s.Store.Accounts().GetAccountByName(ctx, realm.ID, identifier)
		return account, mapAccountErr(err, identifier, realmName)

	default:
		matches, err := s.Store.Accounts().SearchAccounts(ctx, realm.ID, identifier)
		if err != nil {
			return domain.Account{}, err
		}
		switch len(matches) {
		case 0:
			return domain.Account{}, fmt.Errorf("%w: %q in realm %q",
				ErrAccountNotFound, identifier, realmName)
		case 1:
			return matches[0], nil
		default:
			return domain.Account{}, fmt.Errorf("%w: %q", ErrAmbiguousAccount, identifier)
		}
	}
}

// Search lists the realm's accounts matching pattern; an empty pattern lists
// everything.
func (s *AccountService) Search(
	ctx context.Context,
	realmName, pattern string,
) ([]domain.Account, error) {
	realm, err := s.Store.Realms().GetRealmByName(ctx, realmName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrRealmNotFound, realmName)
		}
		return nil, err
	}

	if pattern == "" {
		return s.Store.Accounts().ListAccountsByRealm(ctx, realm.ID)
	}
	return s.Store.Accounts().SearchAccounts(ctx, realm.ID, pattern)
}

// Roles returns the directly assumable roles recorded for an account.
func (s *AccountService) Roles(ctx context.Context, accountID string) ([]domain.SsoRole, error) {
	return s.Store.Accounts().ListSsoRoles(ctx, accountID)
}

func mapAccountErr(err error, identifier, realmName string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %q in realm %q", ErrAccountNotFound, identifier, realmName)
	}
	return err
}
