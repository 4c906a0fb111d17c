package recagent

import (
	"context"
	"fmt"
	"net/http"
)

// Login exchanges a username and password for a credential, commits the
// session, and navigates home. Invalid credentials surface as a
// [RequestError]; the session is untouched on any failure.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	return c.login(ctx, "/api/login", loginRequest{
		Username: username,
		Password: password,
	})
}

// LoginWithEmail is [Client.Login] keyed by email address.
func (c *Client) LoginWithEmail(ctx context.Context, email, password string) (*LoginResult, error) {
	return c.login(ctx, "/api/login-email", emailLoginRequest{
		Email:    email,
		Password: password,
	})
}

func (c *Client) login(ctx context.Context, path string, body any) (*LoginResult, error) {
	var result LoginResult
	if err := c.do(ctx, apiRequest{method: http.MethodPost, path: path, body: body}, &result); err != nil {
		c.emit(ctx, EventLoginFailure, "", false, err.Error())
		return nil, err
	}

	if err := c.commitLogin(ctx, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) commitLogin(ctx context.Context, result *LoginResult) error {
	if result.Token == "" {
		err := &TransportError{Cause: fmt.Errorf("login response missing token")}
		c.emit(ctx, EventLoginFailure, "", false, err.Error())
		return err
	}

	user := result.User
	user.ResearchInterests = NormalizeStringSet(user.ResearchInterests)
	result.User = user

	if err := c.nav.OnLoginSuccess(ctx, result.Token, &user); err != nil {
		c.emit(ctx, EventLoginFailure, user.UserID, false, err.Error())
		return err
	}

	c.emit(ctx, EventLoginSuccess, user.UserID, true, "")
	return nil
}

// Logout clears the session and navigates home. There is no server-side
// call: the credential simply stops being presented.
func (c *Client) Logout(ctx context.Context) error {
	userID := ""
	if current := c.sessions.Current(); current.Identity != nil {
		userID = current.Identity.UserID
	}

	if err := c.nav.OnLogout(ctx); err != nil {
		return err
	}

	c.emit(ctx, EventLogout, userID, true, "")
	return nil
}

// Register creates a pending account and triggers the verification email,
// then navigates to the pending-verification view. No session is created;
// that happens only when the verification token is consumed.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	err := c.do(ctx, apiRequest{method: http.MethodPost, path: "/api/register", body: req}, nil)
	if err != nil {
		return err
	}

	c.nav.OnRegistrationSubmitted()
	c.emit(ctx, EventRegistrationSubmitted, "", true, "")
	return nil
}

// ForgotPassword requests a reset link for the given address.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, apiRequest{
		method: http.MethodPost,
		path:   "/api/forgot-password",
		body:   forgotPasswordRequest{Email: email},
	}, nil)
}

// ResetPassword consumes a reset token and sets a new password. The user
// still has to log in afterwards.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	return c.do(ctx, apiRequest{
		method: http.MethodPost,
		path:   "/api/reset-password",
		body:   resetPasswordRequest{Token: token, NewPassword: newPassword},
	}, nil)
}

// VerifyEmail consumes a verification token. When the server issues a
// credential with the confirmation, the session is committed exactly as
// after a login; otherwise the account is verified and the user logs in
// normally.
func (c *Client) VerifyEmail(ctx context.Context, token string) (*LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, apiRequest{
		method: http.MethodPost,
		path:   "/api/verify-email",
		body:   verifyEmailRequest{Token: token},
	}, &result)
	if err != nil {
		return nil, err
	}

	if result.Token == "" {
		return nil, nil
	}

	if err := c.commitLogin(ctx, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
