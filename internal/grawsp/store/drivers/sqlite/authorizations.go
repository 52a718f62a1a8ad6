package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/domain"
)

type authorizationsRepo struct {
	q dbtx
}

func (r *authorizationsRepo) GetAuthorization(
	ctx context.Context,
	realmID, region string,
) (domain.Authorization, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, realm_id, region, client_name, client_id, client_secret,
		       client_secret_expires_at, device_code, device_expires_at,
		       access_token, access_token_expires_at, created_at, updated_at
		FROM authorization
		WHERE realm_id = ? AND region = ?
	`, realmID, region)

	return scanAuthorization(row)
}

func (r *authorizationsRepo) UpsertAuthorization(ctx context.Context, a domain.Authorization) error {
	now := time.Now().UTC()

	// One row per (realm, region); the id of an existing row is preserved so
	// accounts discovered under it keep their back-reference.
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO authorization (
			id, realm_id, region, client_name, client_id, client_secret,
			client_secret_expires_at, device_code, device_expires_at,
			access_token, access_token_expires_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (realm_id, region) DO UPDATE SET
			client_name = excluded.client_name,
			client_id = excluded.client_id,
			client_secret = excluded.client_secret,
			client_secret_expires_at = excluded.client_secret_expires_at,
			device_code = excluded.device_code,
			device_expires_at = excluded.device_expires_at,
			access_token = excluded.access_token,
			access_token_expires_at = excluded.access_token_expires_at,
			updated_at = excluded.updated_at
	`,
		a.ID, a.RealmID, a.Region, a.ClientName, a.ClientID, a.ClientSecret,
		mapTime(a.ClientSecretExpiresAt), a.DeviceCode, mapTime(a.DeviceExpiresAt),
		a.AccessToken, mapTime(a.AccessTokenExpiresAt), now.Unix(), now.Unix(),
	)
	return err
}

func (r *authorizationsRepo) DeleteAuthorization(ctx context.Context, authorizationID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM authorization WHERE id = ?`, authorizationID)
	return err
}

func scanAuthorization(row rowScanner) (domain.Authorization, error) {
	var (
		a                                       domain.Authorization
		secretExpiry, deviceExpiry, tokenExpiry int64
		createdAt, updatedAt                    int64
	)

	err := row.Scan(
		&a.ID, &a.RealmID, &a.Region, &a.ClientName, &a.ClientID, &a.ClientSecret,
		&secretExpiry, &a.DeviceCode, &deviceExpiry,
		&a.AccessToken, &tokenExpiry, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Authorization{}, mapNotFound(err)
	}

	a.ClientSecretExpiresAt = mapUnix(secretExpiry)
	a.DeviceExpiresAt = mapUnix(deviceExpiry)
	a.AccessTokenExpiresAt = mapUnix(tokenExpiry)
	a.CreatedAt = mapUnix(createdAt)
	a.UpdatedAt = mapUnix(updatedAt)
	return a, nil
}
