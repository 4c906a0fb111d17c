package recagent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Responses larger than this are truncated before decoding. Profile and
// auth payloads are tiny; anything bigger is not ours to parse.
const maxResponseBytes = 1 << 20

type apiRequest struct {
	method string
	path   string
	body   any
}

// do dispatches an unauthenticated request. A 401 here means bad
// credentials on a login-style endpoint and surfaces as a [RequestError];
// it never touches the session.
func (c *Client) do(ctx context.Context, req apiRequest, out any) error {
	return c.dispatch(ctx, req, "", out)
}

// doAuthed dispatches a request that requires authorization. Without a
// credential it fails immediately with [ErrNotAuthenticated] and no network
// call. On 401 it clears the session and redirects to the login route —
// once per rejection episode, no matter how many in-flight requests receive
// the same rejection.
func (c *Client) doAuthed(ctx context.Context, req apiRequest, out any) error {
	credential, ok := c.sessions.Credential()
	if !ok {
		return fmt.Errorf("%s %s: %w", req.method, req.path, ErrNotAuthenticated)
	}

	err := c.dispatch(ctx, req, credential, out)
	if err == nil {
		return nil
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Status == http.StatusUnauthorized {
		c.rejectCredential(ctx, credential)
		return fmt.Errorf("%s %s: %w", req.method, req.path, ErrCredentialRejected)
	}

	return err
}

// rejectCredential implements the idempotent 401 path. ClearIfCredential
// empties the in-memory pair for the first rejection of a given credential;
// later concurrent rejections find the session already empty and skip both
// the clear and the redirect. A failing durable delete never keeps the
// session alive: the clear and redirect still happen, and the persistence
// failure rides on the audit event.
func (c *Client) rejectCredential(ctx context.Context, credential string) {
	cleared, err := c.sessions.ClearIfCredential(ctx, credential)
	if !cleared {
		return
	}

	errText := ""
	if err != nil {
		errText = err.Error()
	}
	c.emit(ctx, EventCredentialRejected, "", false, errText)
	c.nav.OnAuthRejected()
}

func (c *Client) dispatch(ctx context.Context, req apiRequest, credential string, out any) error {
	endpoint := c.baseURL.JoinPath(req.path)

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return &TransportError{Cause: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint.String(), body)
	if err != nil {
		return &TransportError{Cause: err}
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.config.API.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.API.UserAgent)
	}

	requestID := requestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	httpReq.Header.Set("X-Request-ID", requestID)

	if credential != "" {
		httpReq.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return &TransportError{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Cause: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil || len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return &TransportError{Cause: fmt.Errorf("decode response: %w", err)}
		}
		return nil

	case resp.StatusCode >= 500:
		return &ServerError{Status: resp.StatusCode}

	case resp.StatusCode >= 400:
		return &RequestError{Status: resp.StatusCode, Message: serverMessage(data)}

	default:
		return &TransportError{Cause: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
}

// serverMessage extracts a human-readable message from an error body. The
// server is inconsistent about the field name, so all known spellings are
// tried before falling back to the raw body.
func serverMessage(data []byte) string {
	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		for _, candidate := range []string{payload.Message, payload.Detail, payload.Error} {
			if candidate != "" {
				return candidate
			}
		}
	}

	text := strings.TrimSpace(string(data))
	if len(text) > 200 || strings.HasPrefix(text, "{") {
		return ""
	}
	return text
}
