package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/yourname/habittracker/internal"
)

// RemoteProvider delegates token validation to the external auth service,
// which responds with the user record for a valid token.
type RemoteProvider struct {
	authServiceURL string
	httpClient     *http.Client
	logger         internal.Logger
}

func NewRemoteProvider(url string, logger internal.Logger) *RemoteProvider {
	return &RemoteProvider{
		authServiceURL: url,
		httpClient:     &http.Client{Timeout: 5 * time.Second},
		logger:         logger,
	}
}

func (p *RemoteProvider) ValidateToken(ctx context.Context, token string) (*internal.User, error) {
	payload, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.authServiceURL, strings.NewReader(string(payload)))
	if err != nil {
		p.logger.Errorf("auth: failed to create request: %v", err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Errorf("auth: failed to call auth service: %v", err)
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		p.logger.Errorf("auth: auth service returned %d", resp.StatusCode)
		return nil, errors.New("auth service returned non-200")
	}

	var user internal.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		p.logger.Errorf("auth: failed to decode auth response: %v", err)
		return nil, err
	}
	return &user, nil
}
