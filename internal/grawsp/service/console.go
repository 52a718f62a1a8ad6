package service

import (
	"context"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/gateway"
	"github.com/aussiebroadwan/grawsp/pkg/slogx"
)

// ConsoleService turns a resolved credential into a federated console
// sign-in URL and hands it to the browser collaborator.
type ConsoleService struct {
	Credentials *CredentialService
	Gateway     gateway.IdentityGateway

	// OpenURL opens the sign-in URL. Nil means the URL is only returned.
	OpenURL func(url string) error
}

// Open resolves credentials for the requested role and fetches a one-shot
// sign-in URL. The URL is returned even when opening the browser fails.
func (s *ConsoleService) Open(ctx context.Context, p ResolveParams) (string, error) {
	l := slogx.FromContext(ctx)

	credential, err := s.Credentials.Resolve(ctx, p)
	if err != nil {
		return "", err
	}

	signinURL, err := s.Gateway.GetConsoleSigninURL(ctx, gateway.Credentials{
		AccessKeyID:     credential.AccessKeyID,
		SecretAccessKey: credential.SecretAccessKey,
		SessionToken:    credential.SessionToken,
	}, p.Region)
	if err != nil {
		return "", err
	}

	if s.OpenURL != nil {
		if err := s.OpenURL(signinURL); err != nil {
			l.Warn("could not open console url", "error", err)
		}
	}

	return signinURL, nil
}
