package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/gateway"
)

// fakeGateway implements gateway.IdentityGateway with per-operation call
// counters. Operations without a configured func fail loudly so tests catch
// calls they did not expect.
type fakeGateway struct {
	registerCalls     int
	deviceCalls       int
	tokenCalls        int
	listAccountsCalls int
	listRolesCalls    int
	assumeSsoCalls    int
	findRoleCalls     int
	assumeRoleCalls   int
	consoleCalls      int

	registerFn     func() (gateway.ClientRegistration, error)
	deviceFn       func() (gateway.DeviceAuthorization, error)
	tokenFn        func(call int) (gateway.TokenResult, error)
	listAccountsFn func() ([]gateway.AccountSummary, error)
	listRolesFn    func(accountID string) ([]string, error)
	assumeSsoFn    func(accountID, roleName string) (gateway.Credentials, error)
	findRoleFn     func(roleName string) (string, error)
	assumeRoleFn   func(roleArn, sessionName string) (gateway.Credentials, error)
	consoleFn      func() (string, error)
}

var errUnexpectedCall = errors.New("unexpected gateway call")

func (f *fakeGateway) totalCalls() int {
	return f.registerCalls + f.deviceCalls + f.tokenCalls +
		f.listAccountsCalls + f.listRolesCalls + f.assumeSsoCalls +
		f.findRoleCalls + f.assumeRoleCalls + f.consoleCalls
}

func (f *fakeGateway) RegisterClient(
	ctx context.Context,
	name, region string,
) (gateway.ClientRegistration, error) {
	f.registerCalls++
	if f.registerFn == nil {
		return gateway.ClientRegistration{}, errUnexpectedCall
	}
	return f.registerFn()
}

func (f *fakeGateway) AuthorizeDevice(
	ctx context.Context,
	clientID, clientSecret, region, startURL string,
) (gateway.DeviceAuthorization, error) {
	f.deviceCalls++
	if f.deviceFn == nil {
		return gateway.DeviceAuthorization{}, errUnexpectedCall
	}
	return f.deviceFn()
}

func (f *fakeGateway) CreateAccessToken(
	ctx context.Context,
	clientID, clientSecret, deviceCode, region string,
) (gateway.TokenResult, error) {
	f.tokenCalls++
	if f.tokenFn == nil {
		return gateway.TokenResult{}, errUnexpectedCall
	}
	return f.tokenFn(f.tokenCalls)
}

func (f *fakeGateway) ListAccounts(
	ctx context.Context,
	accessToken, region string,
) ([]gateway.AccountSummary, error) {
	f.listAccountsCalls++
	if f.listAccountsFn == nil {
		return nil, errUnexpectedCall
	}
	return f.listAccountsFn()
}

func (f *fakeGateway) ListAccountRoles(
	ctx context.Context,
	accessToken, accountID, region string,
) ([]string, error) {
	f.listRolesCalls++
	if f.listRolesFn == nil {
		return nil, errUnexpectedCall
	}
	return f.listRolesFn(accountID)
}

func (f *fakeGateway) AssumeSsoRole(
	ctx context.Context,
	accessToken, accountID, region, roleName string,
) (gateway.Credentials, error) {
	f.assumeSsoCalls++
	if f.assumeSsoFn == nil {
		return gateway.Credentials{}, errUnexpectedCall
	}
	return f.assumeSsoFn(accountID, roleName)
}

func (f *fakeGateway) FindRoleArn(
	ctx context.Context,
	creds gateway.Credentials,
	region, roleName string,
) (string, error) {
	f.findRoleCalls++
	if f.findRoleFn == nil {
		return "", errUnexpectedCall
	}
	return f.findRoleFn(roleName)
}

func (f *fakeGateway) AssumeRole(
	ctx context.Context,
	creds gateway.Credentials,
	region, roleArn, sessionName string,
	duration time.Duration,
) (gateway.Credentials, error) {
	f.assumeRoleCalls++
	if f.assumeRoleFn == nil {
		return gateway.Credentials{}, errUnexpectedCall
	}
	return f.assumeRoleFn(roleArn, sessionName)
}

func (f *fakeGateway) GetConsoleSigninURL(
	ctx context.Context,
	creds gateway.Credentials,
	region string,
) (string, error) {
	f.consoleCalls++
	if f.consoleFn == nil {
		return "", errUnexpectedCall
	}
	return f.consoleFn()
}
