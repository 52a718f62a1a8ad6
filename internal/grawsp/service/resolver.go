package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/domain"
	"github.com/aussiebroadwan/grawsp/internal/grawsp/gateway"
	"github.com/aussiebroadwan/grawsp/internal/grawsp/store"
	"github.com/aussiebroadwan/grawsp/pkg/idx"
	"github.com/aussiebroadwan/grawsp/pkg/slogx"
)

// DefaultSessionDuration is handed to the token-exchange service when a role
// is reached through an intermediary.
const DefaultSessionDuration = 1 * time.Hour

// maxChainDepth bounds the intermediary recursion. A role that needs more
// than this many hops is misconfigured.
const maxChainDepth = 4

// CredentialService resolves short-lived credentials for (account, role),
// consulting the cache first and chaining through an intermediary role when
// the target is not directly assumable from the SSO session.
type CredentialService struct {
	Store   store.Store
	Gateway gateway.IdentityGateway

	// SessionDuration overrides DefaultSessionDuration when positive.
	SessionDuration time.Duration

	// Overridable in tests.
	now func() time.Time
}

type ResolveParams struct {
	Realm            string
	Region           string
	Account          string // exact account name within the realm
	Role             string
	SessionName      string // only used on the chained path
	IntermediaryRole string // optional; required when Role is not an SSO role
}

// Resolve returns a valid credential for the requested role, from cache when
// possible and from the identity provider otherwise.
func (s *CredentialService) Resolve(
	ctx context.Context,
	p ResolveParams,
) (domain.Credential, error) {
	return s.resolve(ctx, p, 0)
}

func (s *CredentialService) resolve(
	ctx context.Context,
	p ResolveParams,
	depth int,
) (domain.Credential, error) {
	if depth >= maxChainDepth {
		return domain.Credential{}, fmt.Errorf(
			"%w: role %q in account %q", ErrChainTooDeep, p.Role, p.Account)
	}

	l := slogx.FromContext(ctx)
	now := s.clock()

	realm, err := s.Store.Realms().GetRealmByName(ctx, p.Realm)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Credential{}, fmt.Errorf("%w: %q", ErrRealmNotFound, p.Realm)
		}
		return domain.Credential{}, err
	}

	account, err := s.Store.Accounts().GetAccountByName(ctx, realm.ID, p.Account)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Credential{}, fmt.Errorf("%w: %q in realm %q",
				ErrAccountNotFound, p.Account, p.Realm)
		}
		return domain.Credential{}, err
	}

	// Cache first. A live credential is returned untouched; an expired one is
	// deleted here so no stale row survives past this point.
	cached, err := s.Store.Credentials().GetCredential(ctx, account.ID, p.Role)
	switch {
	case err == nil && !cached.Expired(now):
		l.Debug("credential cache hit", "account", p.Account, "role", p.Role)
		return cached, nil
	case err == nil:
		if err := s.Store.Credentials().DeleteCredential(ctx, cached.ID); err != nil {
			return domain.Credential{}, fmt.Errorf("drop expired credential: %w", err)
		}
	case !errors.Is(err, store.ErrNotFound):
		return domain.Credential{}, err
	}

	auth, err := s.Store.Authorizations().GetAuthorization(ctx, realm.ID, p.Region)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Credential{}, fmt.Errorf("%w: realm %q region %q",
				ErrAuthorizationNotFound, p.Realm, p.Region)
		}
		return domain.Credential{}, err
	}

	directlyAssumable, err := s.Store.Accounts().HasSsoRole(ctx, account.ID, p.Role)
	if err != nil {
		return domain.Credential{}, err
	}

	var creds gateway.Credentials
	if directlyAssumable {
		// Direct SSO assumption wins whenever the role is eligible, even if an
		// intermediary was also supplied.
		creds, err = s.Gateway.AssumeSsoRole(
			ctx, auth.AccessToken, account.Number, p.Region, p.Role)
		if err != nil {
			return domain.Credential{}, err
		}
	} else {
		creds, err = s.resolveChained(ctx, p, depth)
		if err != nil {
			return domain.Credential{}, err
		}
	}

	credential := domain.Credential{
		ID:              idx.New().String(),
		AccountID:       account.ID,
		RoleName:        p.Role,
		AccessKeyID:     creds.AccessKeyID,
		SecretAccessKey: creds.SecretAccessKey,
		SessionToken:    creds.SessionToken,
		ExpiresAt:       creds.ExpiresAt,
	}

	if err := s.Store.Credentials().CreateCredential(ctx, credential); err != nil {
		return domain.Credential{}, fmt.Errorf("persist credential: %w", err)
	}

	l.Info("credential resolved", "account", p.Account, "role", p.Role,
		"chained", !directlyAssumable, "expires_at", credential.ExpiresAt)
	return credential, nil
}

// resolveChained obtains the target role by first resolving the intermediary
// role on the same account, then exchanging those credentials for the target
// through the token-exchange service.
func (s *CredentialService) resolveChained(
	ctx context.Context,
	p ResolveParams,
	depth int,
) (gateway.Credentials, error) {
	if p.IntermediaryRole == "" {
		return gateway.Credentials{}, fmt.Errorf(
			"%w: role %q in account %q", ErrIntermediaryRequired, p.Role, p.Account)
	}
	if p.IntermediaryRole == p.Role {
		return gateway.Credentials{}, fmt.Errorf(
			"%w: %q", ErrSelfIntermediary, p.Role)
	}

	intermediary, err := s.resolve(ctx, ResolveParams{
		Realm:   p.Realm,
		Region:  p.Region,
		Account: p.Account,
		Role:    p.IntermediaryRole,
	}, depth+1)
	if err != nil {
		return gateway.Credentials{}, err
	}

	borrowed := gateway.Credentials{
		AccessKeyID:     intermediary.AccessKeyID,
		SecretAccessKey: intermediary.SecretAccessKey,
		SessionToken:    intermediary.SessionToken,
	}

	roleArn, err := s.Gateway.FindRoleArn(ctx, borrowed, p.Region, p.Role)
	if err != nil {
		return gateway.Credentials{}, fmt.Errorf(
			"locate role %q in account %q: %w", p.Role, p.Account, err)
	}

	return s.Gateway.AssumeRole(
		ctx, borrowed, p.Region, roleArn, p.SessionName, s.sessionDuration())
}

// List returns the realm's cached credentials, optionally including expired
// ones (for display only; expired rows are never handed out by Resolve).
func (s *CredentialService) List(
	ctx context.Context,
	realmName string,
	includeExpired bool,
) ([]domain.Credential, error) {
	realm, err := s.Store.Realms().GetRealmByName(ctx, realmName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrRealmNotFound, realmName)
		}
		return nil, err
	}

	all, err := s.Store.Credentials().ListCredentialsByRealm(ctx, realm.ID)
	if err != nil {
		return nil, err
	}
	if includeExpired {
		return all, nil
	}

	now := s.clock()
	valid := make([]domain.Credential, 0, len(all))
	for _, credential := range all {
		if !credential.Expired(now) {
			valid = append(valid, credential)
		}
	}
	return valid, nil
}

func (s *CredentialService) sessionDuration() time.Duration {
	if s.SessionDuration > 0 {
		return s.SessionDuration
	}
	return DefaultSessionDuration
}

func (s *CredentialService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}
