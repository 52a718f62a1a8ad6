package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/domain"
)

type credentialsRepo struct {
	q dbtx
}

func (r *credentialsRepo) GetCredential(
	ctx context.Context,
	accountID, roleName string,
) (domain.Credential, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, account_id, role_name, access_key_id, secret_access_key,
		       session_token, expires_at, created_at
		FROM credential
		WHERE account_id = ? AND role_name = ?
	`, accountID, roleName)

	return scanCredential(row)
}

func (r *credentialsRepo) CreateCredential(ctx context.Context, c domain.Credential) error {
	now := time.Now().UTC()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO credential (
			id, account_id, role_name, access_key_id, secret_access_key,
			session_token, expires_at, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID, c.AccountID, c.RoleName, c.AccessKeyID, c.SecretAccessKey,
		c.SessionToken, mapTime(c.ExpiresAt), now.Unix(),
	)
	return err
}

func (r *credentialsRepo) DeleteCredential(ctx context.Context, credentialID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM credential WHERE id = ?`, credentialID)
	return err
}

func (r *credentialsRepo) ListCredentialsByRealm(
	ctx context.Context,
	realmID string,
) ([]domain.Credential, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT c.id, c.account_id, c.role_name, c.access_key_id, c.secret_access_key,
		       c.session_token, c.expires_at, c.created_at
		FROM credential c
		JOIN account a ON a.id = c.account_id
		WHERE a.realm_id = ?
		ORDER BY c.created_at DESC
	`, realmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var credentials []domain.Credential
	for rows.Next() {
		credential, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		credentials = append(credentials, credential)
	}
	return credentials, rows.Err()
}

func (r *credentialsRepo) DeleteExpiredCredentials(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM credential WHERE expires_at <= ?
	`, now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanCredential(row rowScanner) (domain.Credential, error) {
	var (
		credential           domain.Credential
		expiresAt, createdAt int64
	)

	err := row.Scan(
		&credential.ID, &credential.AccountID, &credential.RoleName,
		&credential.AccessKeyID, &credential.SecretAccessKey,
		&credential.SessionToken, &expiresAt, &createdAt,
	)
	if err != nil {
		return domain.Credential{}, mapNotFound(err)
	}

	credential.ExpiresAt = mapUnix(expiresAt)
	credential.CreatedAt = mapUnix(createdAt)
	return credential, nil
}
