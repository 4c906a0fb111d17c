package recagent

import (
	"context"
	"net/http"
	"net/url"

	"github.com/zhaxinji/recagent-client/internal/audit"
	"github.com/zhaxinji/recagent-client/session"
)

// Client talks to the RecAgent API on behalf of exactly one session. It is
// the only component that dispatches requests; page code calls its methods
// and never touches the credential directly.
type Client struct {
	config   Config
	http     *http.Client
	baseURL  *url.URL
	sessions *session.Store
	nav      *NavigationController
	audit    *audit.Dispatcher
}

// Sessions exposes the session store for read access and explicit
// lifecycle calls. All writes still go through Set/Clear.
func (c *Client) Sessions() *session.Store {
	return c.sessions
}

// Navigation exposes the navigation controller so views can trigger
// logout and post-registration transitions.
func (c *Client) Navigation() *NavigationController {
	return c.nav
}

// Bootstrap loads the persisted session at process start. Corrupt or
// partial persisted state has already been repaired to empty by the time
// this returns; the caller only ever sees a complete pair or none.
func (c *Client) Bootstrap(ctx context.Context) (Session, error) {
	sess, err := c.sessions.Load(ctx)
	if err != nil {
		return Session{}, err
	}

	userID := ""
	if sess.Identity != nil {
		userID = sess.Identity.UserID
	}
	c.emit(ctx, EventSessionLoaded, userID, true, "")

	return sess, nil
}

// Close flushes and stops the audit dispatcher. The client must not be
// used afterwards.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.audit != nil {
		c.audit.Close()
	}
}

// AuditDropped reports how many session events were discarded because the
// audit buffer was full.
func (c *Client) AuditDropped() uint64 {
	if c == nil {
		return 0
	}
	return c.audit.Dropped()
}
