package collab

import (
	"context"
	"fmt"
	"time"

	"github.com/heavymart/bidgate/internal/bidding/domain"
)

// SessionClient implements domain.SessionSource against the session service.
type SessionClient struct {
	api *apiClient
}

func NewSessionClient(baseURL string, timeout time.Duration) *SessionClient {
	return &SessionClient{api: newAPIClient(baseURL, timeout)}
}

// CheckSession asks the session service whether the token is still valid.
// Errors surface to the gate, which fails open to "not logged in".
func (c *SessionClient) CheckSession(ctx context.Context, token string) (domain.SessionStatus, error) {
	var status domain.SessionStatus
	if err := c.api.getJSON(ctx, "/api/v1/session/check", token, &status); err != nil {
		return domain.SessionStatus{}, fmt.Errorf("session client: %w", err)
	}
	return status, nil
}

var _ domain.SessionSource = (*SessionClient)(nil)
