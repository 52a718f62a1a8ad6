package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssooidc"
	"github.com/aws/aws-sdk-go-v2/service/ssooidc/types"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/gateway"
)

const deviceGrantType = "urn:ietf:params:oauth:grant-type:device_code"

func (g *Gateway) RegisterClient(
	ctx context.Context,
	name, region string,
) (gateway.ClientRegistration, error) {
	resp, err := g.oidcClient(region).RegisterClient(ctx, &ssooidc.RegisterClientInput{
		ClientName: aws.String(name),
		ClientType: aws.String("public"),
	})
	if err != nil {
		return gateway.ClientRegistration{}, fmt.Errorf("register client %q: %w", name, err)
	}

	return gateway.ClientRegistration{
		ClientID:     aws.ToString(resp.ClientId),
		ClientSecret: aws.ToString(resp.ClientSecret),
		// ClientSecretExpiresAt is epoch seconds
		SecretExpiresAt: time.Unix(resp.ClientSecretExpiresAt, 0).UTC(),
	}, nil
}

func (g *Gateway) AuthorizeDevice(
	ctx context.Context,
	clientID, clientSecret, region, startURL string,
) (gateway.DeviceAuthorization, error) {
	resp, err := g.oidcClient(region).StartDeviceAuthorization(ctx, &ssooidc.StartDeviceAuthorizationInput{
		ClientId:     aws.String(clientID),
		ClientSecret: aws.String(clientSecret),
		StartUrl:     aws.String(startURL),
	})
	if err != nil {
		return gateway.DeviceAuthorization{}, fmt.Errorf("start device authorization: %w", err)
	}

	return gateway.DeviceAuthorization{
		DeviceCode:      aws.ToString(resp.DeviceCode),
		ExpiresAt:       time.Now().UTC().Add(time.Duration(resp.ExpiresIn) * time.Second),
		VerificationURL: aws.ToString(resp.VerificationUriComplete),
	}, nil
}

func (g *Gateway) CreateAccessToken(
	ctx context.Context,
	clientID, clientSecret, deviceCode, region string,
) (gateway.TokenResult, error) {
	resp, err := g.oidcClient(region).CreateToken(ctx, &ssooidc.CreateTokenInput{
		ClientId:     aws.String(clientID),
		ClientSecret: aws.String(clientSecret),
		DeviceCode:   aws.String(deviceCode),
		GrantType:    aws.String(deviceGrantType),
	})
	if err != nil {
		// "Not approved yet" and "slow down" both mean keep polling; they are
		// results, not failures.
		var pendingErr *types.AuthorizationPendingException
		var slowDownErr *types.SlowDownException
		if errors.As(err, &pendingErr) || errors.As(err, &slowDownErr) {
			return gateway.TokenResult{Pending: true}, nil
		}
		return gateway.TokenResult{}, fmt.Errorf("create access token: %w", err)
	}

	return gateway.TokenResult{
		AccessToken: aws.ToString(resp.AccessToken),
		ExpiresAt:   time.Now().UTC().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}, nil
}
