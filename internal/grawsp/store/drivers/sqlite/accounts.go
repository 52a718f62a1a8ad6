package sqlite

import (
	"context"
	"regexp"
	"time"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/domain"
)

type accountsRepo struct {
	q dbtx
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	now := time.Now().UTC()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO account (id, realm_id, authorization_id, number, name, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.RealmID, a.AuthorizationID, a.Number, a.Name, a.Email, now.Unix(), now.Unix())
	return err
}

func (r *accountsRepo) GetAccountByName(
	ctx context.Context,
	realmID, name string,
) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, realm_id, authorization_id, number, name, email, created_at, updated_at
		FROM account
		WHERE realm_id = ? AND name = ?
	`, realmID, name)

	return scanAccount(row)
}

func (r *accountsRepo) GetAccountByNumber(
	ctx context.Context,
	realmID, number string,
) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, realm_id, authorization_id, number, name, email, created_at, updated_at
		FROM account
		WHERE realm_id = ? AND number = ?
	`, realmID, number)

	return scanAccount(row)
}

func (r *accountsRepo) ListAccountsByRealm(
	ctx context.Context,
	realmID string,
) ([]domain.Account, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, realm_id, authorization_id, number, name, email, created_at, updated_at
		FROM account
		WHERE realm_id = ?
		ORDER BY name
	`, realmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// SearchAccounts matches pattern against both the number and the name of
// every account in the realm. The match is anchored at the start of the
// field, which keeps plain prefixes working as expected.
func (r *accountsRepo) SearchAccounts(
	ctx context.Context,
	realmID, pattern string,
) ([]domain.Account, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return nil, err
	}

	all, err := r.ListAccountsByRealm(ctx, realmID)
	if err != nil {
		return nil, err
	}

	var accounts []domain.Account
	for _, account := range all {
		if re.MatchString(account.Number) || re.MatchString(account.Name) {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (r *accountsRepo) DeleteAccountsByAuthorization(
	ctx context.Context,
	authorizationID string,
) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM account WHERE authorization_id = ?`, authorizationID)
	return err
}

func (r *accountsRepo) CreateSsoRole(ctx context.Context, role domain.SsoRole) error {
	now := time.Now().UTC()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO sso_role (id, account_id, name, created_at)
		VALUES (?, ?, ?, ?)
	`, role.ID, role.AccountID, role.Name, now.Unix())
	return err
}

func (r *accountsRepo) ListSsoRoles(ctx context.Context, accountID string) ([]domain.SsoRole, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, account_id, name, created_at
		FROM sso_role
		WHERE account_id = ?
		ORDER BY name
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.SsoRole
	for rows.Next() {
		var (
			role      domain.SsoRole
			createdAt int64
		)
		if err := rows.Scan(&role.ID, &role.AccountID, &role.Name, &createdAt); err != nil {
			return nil, err
		}
		role.CreatedAt = mapUnix(createdAt)
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *accountsRepo) HasSsoRole(ctx context.Context, accountID, roleName string) (bool, error) {
	var count int64
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sso_role WHERE account_id = ? AND name = ?
	`, accountID, roleName).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		account              domain.Account
		createdAt, updatedAt int64
	)

	err := row.Scan(
		&account.ID, &account.RealmID, &account.AuthorizationID,
		&account.Number, &account.Name, &account.Email, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}

	account.CreatedAt = mapUnix(createdAt)
	account.UpdatedAt = mapUnix(updatedAt)
	return account, nil
}
