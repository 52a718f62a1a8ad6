package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/domain"
	"github.com/aussiebroadwan/grawsp/pkg/idx"
)

type realmsRepo struct {
	q dbtx
}

func (r *realmsRepo) UpsertRealm(ctx context.Context, name, startURL string) (domain.Realm, error) {
	now := time.Now().UTC()

	// The conflict target keeps the original row (and id); only the start URL
	// moves. Re-registering a realm must never produce a second row.
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO realm (id, name, start_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			start_url = excluded.start_url,
			updated_at = excluded.updated_at
	`, idx.New().String(), name, startURL, now.Unix(), now.Unix())
	if err != nil {
		return domain.Realm{}, err
	}

	return r.GetRealmByName(ctx, name)
}

func (r *realmsRepo) GetRealmByName(ctx context.Context, name string) (domain.Realm, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, name, start_url, created_at, updated_at
		FROM realm
		WHERE name = ?
	`, name)

	return scanRealm(row)
}

func (r *realmsRepo) ListRealms(ctx context.Context) ([]domain.Realm, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, start_url, created_at, updated_at
		FROM realm
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var realms []domain.Realm
	for rows.Next() {
		realm, err := scanRealm(rows)
		if err != nil {
			return nil, err
		}
		realms = append(realms, realm)
	}
	return realms, rows.Err()
}

func (r *realmsRepo) DeleteRealm(ctx context.Context, realmID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM realm WHERE id = ?`, realmID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRealm(row rowScanner) (domain.Realm, error) {
	var (
		realm                domain.Realm
		createdAt, updatedAt int64
	)

	err := row.Scan(&realm.ID, &realm.Name, &realm.StartURL, &createdAt, &updatedAt)
	if err != nil {
		return domain.Realm{}, mapNotFound(err)
	}

	realm.CreatedAt = mapUnix(createdAt)
	realm.UpdatedAt = mapUnix(updatedAt)
	return realm, nil
}
