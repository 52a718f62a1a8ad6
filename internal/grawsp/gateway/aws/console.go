package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/gateway"
)

const (
	federationEndpoint = "https://signin.aws.amazon.com/federation"
	consoleURL         = "https://console.aws.amazon.com/"
)

// GetConsoleSigninURL exchanges the credentials for a federation sign-in
// token, then assembles the login URL the browser can open directly.
func (g *Gateway) GetConsoleSigninURL(
	ctx context.Context,
	creds gateway.Credentials,
	region string,
) (string, error) {
	session, err := json.Marshal(map[string]string{
		"sessionId":    creds.AccessKeyID,
		"sessionKey":   creds.SecretAccessKey,
		"sessionToken": creds.SessionToken,
	})
	if err != nil {
		return "", err
	}

	tokenURL := federationEndpoint + "?" + url.Values{
		"Action":  {"getSigninToken"},
		"Session": {string(session)},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tokenURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch signin token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch signin token: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var token struct {
		SigninToken string `json:"SigninToken"`
	}
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("decode signin token: %w", err)
	}

	destination := consoleURL
	if region != "" {
		destination = consoleURL + "?region=" + region + "#"
	}

	return federationEndpoint + "?" + url.Values{
		"Action":      {"login"},
		"Issuer":      {"amazon.com"},
		"Destination": {destination},
		"SigninToken": {token.SigninToken},
	}.Encode(), nil
}
