package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/viant/scy"
	"github.com/viant/toolbox"

	"github.com/wavetune/wavetune/internal/clock"
)

// TokenSource supplies a bearer token for Web API calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns a fixed token. Used in tests and for short-lived
// tokens supplied out of band.
type StaticTokenSource struct {
	Value string
}

func (s *StaticTokenSource) Token(_ context.Context) (string, error) {
	if s.Value == "" {
		return "", fmt.Errorf("static token was empty")
	}
	return s.Value, nil
}

// expiryMargin renews the token slightly before the reported expiry so that
// in-flight requests never race the cutoff.
const expiryMargin = 30 * time.Second

// CredentialTokenSource exchanges a stored refresh token for access tokens.
// The client id, client secret and refresh token live in a scy-encrypted
// credential resource.
type CredentialTokenSource struct {
	secrets     *scy.Service
	resourceURL string
	key         string
	tokenURL    string
	client      *http.Client

	mux     sync.Mutex
	token   string
	expires time.Time
}

// NewCredentialTokenSource creates a token source over the supplied scy
// credential resource URL.
func NewCredentialTokenSource(resourceURL, key string) *CredentialTokenSource {
	return &CredentialTokenSource{
		secrets:     scy.New(),
		resourceURL: resourceURL,
		key:         key,
		tokenURL:    "https://accounts.spotify.com/api/token",
		client:      http.DefaultClient,
	}
}

// Token returns a cached access token, refreshing it when absent or expired.
func (s *CredentialTokenSource) Token(ctx context.Context) (string, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.token != "" && clock.Now().Before(s.expires) {
		return s.token, nil
	}
	if err := s.refresh(ctx); err != nil {
		return "", err
	}
	return s.token, nil
}

func (s *CredentialTokenSource) refresh(ctx context.Context) error {
	credential, err := s.credential(ctx)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", credential["refreshToken"])

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.SetBasicAuth(credential["clientID"], credential["clientSecret"])

	response, err := s.client.Do(request)
	if err != nil {
		return fmt.Errorf("token refresh failed: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("token refresh failed: status %v", response.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("token response carried no access token")
	}
	s.token = payload.AccessToken
	s.expires = clock.Now().Add(time.Duration(payload.ExpiresIn)*time.Second - expiryMargin)
	return nil
}

// credential loads and normalizes the scy credential into a flat string map
// with clientID, clientSecret and refreshToken keys.
func (s *CredentialTokenSource) credential(ctx context.Context) (map[string]string, error) {
	resource := scy.NewResource(nil, s.resourceURL, s.key)
	secret, err := s.secrets.Load(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential from %s: %w", s.resourceURL, err)
	}

	aMap := map[string]interface{}{}
	if !secret.IsPlain && secret.Target != nil {
		if err := toolbox.DefaultConverter.AssignConverted(&aMap, secret.Target); err != nil {
			return nil, fmt.Errorf("failed to convert credential data: %w", err)
		}
		aMap = toolbox.DeleteEmptyKeys(aMap)
	} else if err := json.Unmarshal([]byte(secret.String()), &aMap); err != nil {
		return nil, fmt.Errorf("failed to decode credential payload: %w", err)
	}

	out := map[string]string{}
	for key, value := range aMap {
		text, ok := value.(string)
		if !ok {
			continue
		}
		switch strings.ToLower(key) {
		case "clientid", "client_id", "username":
			out["clientID"] = text
		case "clientsecret", "client_secret", "password":
			out["clientSecret"] = text
		case "refreshtoken", "refresh_token":
			out["refreshToken"] = text
		}
	}
	for _, required := range []string{"clientID", "clientSecret", "refreshToken"} {
		if out[required] == "" {
			return nil, fmt.Errorf("credential %s is missing %v", s.resourceURL, required)
		}
	}
	return out, nil
}
