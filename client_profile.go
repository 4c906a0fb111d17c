package recagent

import (
	"context"
	"net/http"
)

// FetchProfile reads the authoritative profile from /api/userinfo and
// merges it into the cached identity.
func (c *Client) FetchProfile(ctx context.Context) (*UserRecord, error) {
	payload, err := c.fetchProfile(ctx)
	if err != nil {
		return nil, err
	}

	record, err := c.commitProfile(ctx, payload)
	if err != nil {
		return nil, err
	}

	c.emit(ctx, EventProfileRefetched, record.UserID, true, "")
	return record, nil
}

// fetchProfile reads the profile without touching the cache. The delayed
// reconciliation in [ProfileSync] uses this so the commit can be guarded
// against cancellation.
func (c *Client) fetchProfile(ctx context.Context) (profilePayload, error) {
	var payload profilePayload
	err := c.doAuthed(ctx, apiRequest{method: http.MethodGet, path: "/api/userinfo"}, &payload)
	return payload, err
}

// InitProfile lazily creates the server-side profile record when it is
// missing and caches whatever the server returns.
func (c *Client) InitProfile(ctx context.Context) (*UserRecord, error) {
	var payload profilePayload
	err := c.doAuthed(ctx, apiRequest{method: http.MethodPost, path: "/api/init-profile"}, &payload)
	if err != nil {
		return nil, err
	}
	return c.commitProfile(ctx, payload)
}

// UpdateResearch mutates institution and research interests. The request
// is normalized before sending; the server's response is normalized again
// and merged optimistically into the cached identity. A failed mutation
// leaves the cache untouched.
func (c *Client) UpdateResearch(ctx context.Context, req UpdateResearchRequest) (*UserRecord, error) {
	req.ResearchInterests = NormalizeStringSet(req.ResearchInterests)

	var payload profilePayload
	err := c.doAuthed(ctx, apiRequest{
		method: http.MethodPut,
		path:   "/api/update-research",
		body:   req,
	}, &payload)
	if err != nil {
		return nil, err
	}

	record, err := c.commitProfile(ctx, payload)
	if err != nil {
		return nil, err
	}

	c.emit(ctx, EventProfileUpdated, record.UserID, true, "")
	return record, nil
}

// UpdatePassword changes the account password. It requires the current
// password and neither reads nor writes the cached identity.
func (c *Client) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	return c.doAuthed(ctx, apiRequest{
		method: http.MethodPut,
		path:   "/api/update-password",
		body:   updatePasswordRequest{CurrentPassword: currentPassword, NewPassword: newPassword},
	}, nil)
}

// commitProfile merges a profile payload into the cached identity under
// the credential that fetched it. When the session was cleared or replaced
// mid-flight, the merged record is still returned but the dead session is
// not resurrected.
func (c *Client) commitProfile(ctx context.Context, payload profilePayload) (*UserRecord, error) {
	current := c.sessions.Current()
	if !current.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	merged := mergeIdentity(*current.Identity, payload)
	if _, err := c.sessions.UpdateIdentity(ctx, current.Credential, &merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// mergeIdentity overlays a profile payload onto the cached record. Account
// fields (id, name, email, join date) only overwrite when the payload
// carries them; profile fields (institution, interests) are authoritative
// in every profile-bearing response and overwrite unconditionally.
func mergeIdentity(base UserRecord, payload profilePayload) UserRecord {
	out := *base.Clone()

	if payload.UserID != "" {
		out.UserID = payload.UserID
	}
	if payload.Name != "" {
		out.Name = payload.Name
	}
	if payload.Email != "" {
		out.Email = payload.Email
	}
	if !payload.JoinedAt.IsZero() {
		out.JoinedAt = payload.JoinedAt
	}

	out.Institution = payload.Institution
	out.ResearchInterests = NormalizeInterests(payload.ResearchInterests)

	return out
}
