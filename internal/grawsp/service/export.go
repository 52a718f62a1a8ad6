package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/ini.v1"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/domain"
	"github.com/aussiebroadwan/grawsp/internal/grawsp/store"
	"github.com/aussiebroadwan/grawsp/pkg/slogx"
)

// ExportService writes the realm's valid cached credentials to an AWS CLI
// credentials file, one profile per (account, role).
type ExportService struct {
	Store store.Store

	// Overridable in tests.
	now func() time.Time
}

type ExportParams struct {
	Realm          string
	Path           string // credentials file location, e.g. ~/.aws/credentials
	DefaultAccount string // optional: account name to mirror into [default]
	DefaultRole    string // optional: role name to mirror into [default]
}

// Configure rewrites the credentials file from the cache. Returns the number
// of profiles written (not counting [default]).
func (s *ExportService) Configure(ctx context.Context, p ExportParams) (int, error) {
	l := slogx.FromContext(ctx)

	realm, err := s.Store.Realms().GetRealmByName(ctx, p.Realm)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, fmt.Errorf("%w: %q", ErrRealmNotFound, p.Realm)
		}
		return 0, err
	}

	credentials, err := s.Store.Credentials().ListCredentialsByRealm(ctx, realm.ID)
	if err != nil {
		return 0, err
	}

	accounts, err := s.Store.Accounts().ListAccountsByRealm(ctx, realm.ID)
	if err != nil {
		return 0, err
	}
	accountsByID := make(map[string]domain.Account, len(accounts))
	for _, account := range accounts {
		accountsByID[account.ID] = account
	}

	file := ini.Empty()
	now := s.clock()
	written := 0

	for _, credential := range credentials {
		if credential.Expired(now) {
			continue
		}

		account, ok := accountsByID[credential.AccountID]
		if !ok {
			continue
		}

		profile := profileName(account.Name, credential.RoleName)
		if err := writeProfile(file, profile, credential); err != nil {
			return 0, err
		}
		written++

		if account.Name == p.DefaultAccount && credential.RoleName == p.DefaultRole {
			if err := writeProfile(file, "default", credential); err != nil {
				return 0, err
			}
			l.Debug("default profile set", "account", account.Name, "role", credential.RoleName)
		}
	}

	if written == 0 {
		l.Warn("no valid credentials to export", "realm", p.Realm)
		return 0, nil
	}

	if err := os.MkdirAll(filepath.Dir(p.Path), 0o700); err != nil {
		return 0, err
	}
	if err := file.SaveTo(p.Path); err != nil {
		return 0, fmt.Errorf("write credentials file: %w", err)
	}

	l.Info("credentials file configured", "path", p.Path, "profiles", written)
	return written, nil
}

func writeProfile(file *ini.File, name string, credential domain.Credential) error {
	section, err := file.NewSection(name)
	if err != nil {
		return err
	}

	section.Key("aws_access_key_id").SetValue(credential.AccessKeyID)
	section.Key("aws_secret_access_key").SetValue(credential.SecretAccessKey)
	section.Key("aws_session_token").SetValue(credential.SessionToken)
	return nil
}

// profileName joins account and role the way the AWS CLI expects profiles to
// look: lowercase with hyphens.
func profileName(accountName, roleName string) string {
	name := accountName + "-" + roleName
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "_", "-")
	return strings.ToLower(name)
}

func (s *ExportService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}
