package titleapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// ErrAuth indicates the session credential was rejected (401/403).
var ErrAuth = errors.New("session key rejected")

// ErrNoOrganizations indicates the account has no organizations, so no
// conversation operations are possible.
var ErrNoOrganizations = errors.New("organization list is empty")

// Session is a validated credential bound to one organization. Created once
// by Bootstrap; read-only afterward.
type Session struct {
	OrgUUID string
}

// organization is one entry of the /api/organizations response.
type organization struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// Bootstrap validates the session key and resolves the organization scope.
// It performs two reads and no writes, so retrying after a failure is safe.
// On failure no Session exists and the caller must not proceed to any
// conversation operation.
func (c *Client) Bootstrap(ctx context.Context) (*Session, error) {
	path := "/login_token?session_key=" + url.QueryEscape(c.sessionKey)
	if _, err := c.do(ctx, http.MethodGet, path, nil); err != nil {
		return nil, classifyBootstrapErr("validating session", err)
	}

	body, err := c.do(ctx, http.MethodGet, "/api/organizations", nil)
	if err != nil {
		return nil, classifyBootstrapErr("listing organizations", err)
	}

	var orgs []organization
	if err := json.Unmarshal(body, &orgs); err != nil {
		return nil, fmt.Errorf("parsing organization list: %w", err)
	}
	if len(orgs) == 0 {
		return nil, ErrNoOrganizations
	}

	// Single-tenant assumption: the first organization is the active one.
	return &Session{OrgUUID: orgs[0].UUID}, nil
}

// classifyBootstrapErr maps forbidden/unauthorized statuses to ErrAuth and
// leaves everything else as a generic connection failure.
func classifyBootstrapErr(op string, err error) error {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%s: %w: %v", op, ErrAuth, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
