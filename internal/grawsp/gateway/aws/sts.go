package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/gateway"
)

func (g *Gateway) FindRoleArn(
	ctx context.Context,
	creds gateway.Credentials,
	region, roleName string,
) (string, error) {
	resp, err := g.iamClient(region, creds).GetRole(ctx, &iam.GetRoleInput{
		RoleName: aws.String(roleName),
	})
	if err != nil {
		var notFound *iamtypes.NoSuchEntityException
		if errors.As(err, &notFound) {
			return "", gateway.ErrRoleNotFound
		}
		return "", fmt.Errorf("find role %q: %w", roleName, err)
	}

	return aws.ToString(resp.Role.Arn), nil
}

func (g *Gateway) AssumeRole(
	ctx context.Context,
	creds gateway.Credentials,
	region, roleArn, sessionName string,
	duration time.Duration,
) (gateway.Credentials, error) {
	resp, err := g.stsClient(region, creds).AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(roleArn),
		RoleSessionName: aws.String(sessionName),
		DurationSeconds: aws.Int32(int32(duration.Seconds())),
	})
	if err != nil {
		return gateway.Credentials{}, fmt.Errorf("assume role %q: %w", roleArn, err)
	}

	out := resp.Credentials
	return gateway.Credentials{
		AccessKeyID:     aws.ToString(out.AccessKeyId),
		SecretAccessKey: aws.ToString(out.SecretAccessKey),
		SessionToken:    aws.ToString(out.SessionToken),
		ExpiresAt:       aws.ToTime(out.Expiration).UTC(),
	}, nil
}
