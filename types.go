package recagent

import (
	"encoding/json"
	"time"

	"github.com/zhaxinji/recagent-client/session"
)

// UserRecord is the cached identity half of the session pair: account
// fields (id, display name, email) plus profile fields (institution,
// ordered set of research-interest tags, join date). The authoritative copy
// lives server-side and is fetched via [Client.FetchProfile].
type UserRecord = session.Identity

// Session pairs the opaque credential with its cached [UserRecord]. Both
// are present together or absent together.
type Session = session.Session

// LoginResult is returned by [Client.Login], [Client.LoginWithEmail], and
// [Client.VerifyEmail] when the server issues a credential.
type LoginResult struct {
	Token string     `json:"token"`
	User  UserRecord `json:"user"`
}

// RegisterRequest is the input for [Client.Register]. Registration creates
// a pending account and triggers a verification email; no session exists
// until the verification token is consumed.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateResearchRequest is the input for [Client.UpdateResearch].
// ResearchInterests are normalized (trimmed, blank entries dropped,
// duplicates removed) before the request is sent.
type UpdateResearchRequest struct {
	Institution       string   `json:"institution"`
	ResearchInterests []string `json:"research_interests"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type emailLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// profilePayload is the wire shape of profile-bearing responses
// (/api/userinfo, /api/init-profile, /api/update-research). The server
// returns research_interests as a single string, an array, or not at all;
// decoding defers that field to the normalizer.
type profilePayload struct {
	UserID            string          `json:"user_id"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	Institution       string          `json:"institution"`
	ResearchInterests json.RawMessage `json:"research_interests"`
	JoinedAt          time.Time       `json:"joined_at"`
}
