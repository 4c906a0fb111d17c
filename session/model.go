package session

import (
	"encoding/json"
	"fmt"
	"time"
)

// CurrentSchemaVersion is the version written into persisted identity blobs.
// Older versions decode as long as the envelope parses; unknown future
// versions are treated as corrupt.
const CurrentSchemaVersion = 1

// Identity is the cached user record associated with a credential. The
// authoritative copy lives server-side; this copy is refreshed through
// profile fetches and is discarded whenever the session ends.
type Identity struct {
	UserID            string    `json:"user_id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Institution       string    `json:"institution,omitempty"`
	ResearchInterests []string  `json:"research_interests,omitempty"`
	JoinedAt          time.Time `json:"joined_at,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate the stored record.
func (id *Identity) Clone() *Identity {
	if id == nil {
		return nil
	}
	out := *id
	if id.ResearchInterests != nil {
		out.ResearchInterests = append([]string(nil), id.ResearchInterests...)
	}
	return &out
}

// Session pairs an opaque bearer credential with its cached identity.
// Both fields are set together or empty together.
type Session struct {
	Credential string
	Identity   *Identity
}

// Authenticated reports whether the session holds a complete pair.
func (s Session) Authenticated() bool {
	return s.Credential != "" && s.Identity != nil
}

func (s Session) clone() Session {
	return Session{
		Credential: s.Credential,
		Identity:   s.Identity.Clone(),
	}
}

type identityEnvelope struct {
	SchemaVersion int      `json:"v"`
	Identity      Identity `json:"identity"`
}

// EncodeIdentity serializes an identity for durable storage, wrapped in a
// versioned envelope.
func EncodeIdentity(id *Identity) ([]byte, error) {
	if id == nil {
		return nil, fmt.Errorf("encode identity: nil identity")
	}
	return json.Marshal(identityEnvelope{
		SchemaVersion: CurrentSchemaVersion,
		Identity:      *id,
	})
}

// DecodeIdentity parses a persisted identity blob. A malformed envelope or
// an unknown schema version yields an error; callers treat that as corrupt
// state and repair by clearing the pair.
func DecodeIdentity(data []byte) (*Identity, error) {
	var env identityEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	if env.SchemaVersion < 1 || env.SchemaVersion > CurrentSchemaVersion {
		return nil, fmt.Errorf("decode identity: unsupported schema version %d", env.SchemaVersion)
	}
	id := env.Identity
	return &id, nil
}
