package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sso"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/gateway"
)

func (g *Gateway) ListAccounts(
	ctx context.Context,
	accessToken, region string,
) ([]gateway.AccountSummary, error) {
	paginator := sso.NewListAccountsPaginator(g.ssoClient(region), &sso.ListAccountsInput{
		AccessToken: aws.String(accessToken),
	})

	var accounts []gateway.AccountSummary
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list accounts: %w", err)
		}
		for _, account := range page.AccountList {
			accounts = append(accounts, gateway.AccountSummary{
				ID:    aws.ToString(account.AccountId),
				Name:  aws.ToString(account.AccountName),
				Email: aws.ToString(account.EmailAddress),
			})
		}
	}
	return accounts, nil
}

func (g *Gateway) ListAccountRoles(
	ctx context.Context,
	accessToken, accountID, region string,
) ([]string, error) {
	paginator := sso.NewListAccountRolesPaginator(g.ssoClient(region), &sso.ListAccountRolesInput{
		AccessToken: aws.String(accessToken),
		AccountId:   aws.String(accountID),
	})

	var roles []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list roles for account %s: %w", accountID, err)
		}
		for _, role := range page.RoleList {
			roles = append(roles, aws.ToString(role.RoleName))
		}
	}
	return roles, nil
}

func (g *Gateway) AssumeSsoRole(
	ctx context.Context,
	accessToken, accountID, region, roleName string,
) (gateway.Credentials, error) {
	resp, err := g.ssoClient(region).GetRoleCredentials(ctx, &sso.GetRoleCredentialsInput{
		AccessToken: aws.String(accessToken),
		AccountId:   aws.String(accountID),
		RoleName:    aws.String(roleName),
	})
	if err != nil {
		return gateway.Credentials{}, fmt.Errorf(
			"assume sso role %q in account %s: %w", roleName, accountID, err)
	}

	creds := resp.RoleCredentials
	return gateway.Credentials{
		AccessKeyID:     aws.ToString(creds.AccessKeyId),
		SecretAccessKey: aws.ToString(creds.SecretAccessKey),
		SessionToken:    aws.ToString(creds.SessionToken),
		// Expiration is epoch milliseconds
		ExpiresAt: time.UnixMilli(creds.Expiration).UTC(),
	}, nil
}
