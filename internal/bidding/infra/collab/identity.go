package collab

import (
	"context"
	"fmt"
	"time"

	"github.com/heavymart/bidgate/internal/bidding/domain"
)

// IdentityClient implements domain.IdentitySource against the
// identity-verification service. The upload workflow itself lives there,
// this client only reads its terminal status flags.
type IdentityClient struct {
	api *apiClient
}

func NewIdentityClient(baseURL string, timeout time.Duration) *IdentityClient {
	return &IdentityClient{api: newAPIClient(baseURL, timeout)}
}

func (c *IdentityClient) CheckStatus(ctx context.Context, token string) (domain.IdentityStatus, error) {
	var status domain.IdentityStatus
	if err := c.api.getJSON(ctx, "/api/v1/identity/status", token, &status); err != nil {
		return domain.IdentityStatus{}, fmt.Errorf("identity client: %w", err)
	}
	return status, nil
}

var _ domain.IdentitySource = (*IdentityClient)(nil)
