// Package aws implements the identity gateway on top of the AWS SDK v2:
// IAM Identity Center (sso-oidc, sso) for the device flow and direct role
// assumption, STS for chained assumption and IAM for role lookup.
package aws

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/sso"
	"github.com/aws/aws-sdk-go-v2/service/ssooidc"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/gateway"
)

type Gateway struct {
	httpClient *http.Client
}

func New() *Gateway {
	return &Gateway{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// The OIDC and SSO calls are either unauthenticated or token-authenticated,
// so a bare regional config is all they need.
func (g *Gateway) oidcClient(region string) *ssooidc.Client {
	return ssooidc.NewFromConfig(aws.Config{Region: region})
}

func (g *Gateway) ssoClient(region string) *sso.Client {
	return sso.NewFromConfig(aws.Config{Region: region})
}

// STS and IAM act under borrowed credentials (the intermediary leg of a
// chained assumption), supplied as a static provider.
func (g *Gateway) stsClient(region string, creds gateway.Credentials) *sts.Client {
	return sts.NewFromConfig(staticConfig(region, creds))
}

func (g *Gateway) iamClient(region string, creds gateway.Credentials) *iam.Client {
	return iam.NewFromConfig(staticConfig(region, creds))
}

func staticConfig(region string, creds gateway.Credentials) aws.Config {
	return aws.Config{
		Region: region,
		Credentials: credentials.NewStaticCredentialsProvider(
			creds.AccessKeyID,
			creds.SecretAccessKey,
			creds.SessionToken,
		),
	}
}
