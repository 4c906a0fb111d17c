package session

import (
	"context"
	"errors"
	"sync"
)

// ErrPartialSession is returned by [Store.Set] when either half of the pair
// is missing. Partial writes are rejected outright to preserve the pairing
// invariant.
var ErrPartialSession = errors.New("partial session rejected: credential and identity are required together")

// Default durable keys. One key per half of the pair; [Store.Load] repairs
// any state where only one of them survives.
const (
	DefaultCredentialKey = "auth:credential"
	DefaultIdentityKey   = "auth:identity"
)

// Store owns the session pair. It serializes Set/Clear against each other,
// keeps the in-memory copy and the durable copy in step, and never exposes
// a partial pair.
type Store struct {
	kv            KV
	credentialKey string
	identityKey   string

	mu      sync.Mutex
	current Session
}

// NewStore creates a [Store] over the given backend. Empty key names fall
// back to [DefaultCredentialKey] and [DefaultIdentityKey].
func NewStore(kv KV, credentialKey, identityKey string) *Store {
	if credentialKey == "" {
		credentialKey = DefaultCredentialKey
	}
	if identityKey == "" {
		identityKey = DefaultIdentityKey
	}
	return &Store{
		kv:            kv,
		credentialKey: credentialKey,
		identityKey:   identityKey,
	}
}

// Load reads the persisted pair into memory. Called once at process start.
//
// State with only one half present, or an identity blob that fails to
// decode, is corrupt: both keys are deleted and the empty session is
// returned. An unreachable backend is reported as an error and leaves the
// in-memory session untouched.
func (s *Store) Load(ctx context.Context) (Session, error) {
	credential, credErr := s.kv.Get(ctx, s.credentialKey)
	if credErr != nil && !errors.Is(credErr, ErrNotFound) {
		return Session{}, credErr
	}

	identityBlob, idErr := s.kv.Get(ctx, s.identityKey)
	if idErr != nil && !errors.Is(idErr, ErrNotFound) {
		return Session{}, idErr
	}

	hasCredential := credErr == nil && len(credential) > 0
	hasIdentity := idErr == nil && len(identityBlob) > 0

	if !hasCredential && !hasIdentity {
		s.setCurrent(Session{})
		return Session{}, nil
	}

	if hasCredential != hasIdentity {
		return s.repair(ctx)
	}

	identity, err := DecodeIdentity(identityBlob)
	if err != nil {
		return s.repair(ctx)
	}

	loaded := Session{Credential: string(credential), Identity: identity}
	s.setCurrent(loaded)
	return loaded.clone(), nil
}

// repair removes both halves after corruption was detected at load time.
// The reset is silent: corrupt state is an implementation detail, not a
// user-facing condition.
func (s *Store) repair(ctx context.Context) (Session, error) {
	if err := s.kv.Delete(ctx, s.credentialKey, s.identityKey); err != nil {
		return Session{}, err
	}
	s.setCurrent(Session{})
	return Session{}, nil
}

// Set atomically replaces both halves of the pair in memory and in durable
// storage. Both arguments are required; a missing half returns
// [ErrPartialSession] without touching any state.
func (s *Store) Set(ctx context.Context, credential string, identity *Identity) error {
	if credential == "" || identity == nil {
		return ErrPartialSession
	}

	blob, err := EncodeIdentity(identity)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Put(ctx, map[string][]byte{
		s.credentialKey: []byte(credential),
		s.identityKey:   blob,
	}); err != nil {
		return err
	}

	s.current = Session{Credential: credential, Identity: identity.Clone()}
	return nil
}

// Clear removes both halves from memory, then from durable storage. The
// in-memory pair is always emptied; a failing durable delete is reported so
// the caller knows stale state may survive a restart, but it never keeps
// the live session alive. Clearing an already-empty store is a no-op, not
// an error.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Session{}
	return s.kv.Delete(ctx, s.credentialKey, s.identityKey)
}

// ClearIfCredential clears the store only while it still holds the given
// credential. It returns true when this call emptied the in-memory pair,
// false when the session was already empty or replaced. The durable delete
// is best-effort: its failure comes back alongside cleared=true rather than
// preserving a rejected session. Concurrent authorization rejections use
// this so that only the first one clears and redirects.
func (s *Store) ClearIfCredential(ctx context.Context, credential string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if credential == "" || s.current.Credential != credential {
		return false, nil
	}

	s.current = Session{}
	return true, s.kv.Delete(ctx, s.credentialKey, s.identityKey)
}

// UpdateIdentity replaces the cached identity while the store still holds
// the given credential. It is the merge path for profile reads and
// mutations: when a concurrent rejection or logout has already emptied the
// store, the write is skipped (false, nil) instead of resurrecting a dead
// session.
func (s *Store) UpdateIdentity(ctx context.Context, credential string, identity *Identity) (bool, error) {
	if credential == "" || identity == nil {
		return false, ErrPartialSession
	}

	blob, err := EncodeIdentity(identity)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Credential != credential {
		return false, nil
	}

	if err := s.kv.Put(ctx, map[string][]byte{
		s.credentialKey: []byte(credential),
		s.identityKey:   blob,
	}); err != nil {
		return false, err
	}

	s.current = Session{Credential: credential, Identity: identity.Clone()}
	return true, nil
}

// Current returns a copy of the in-memory pair for synchronous consumption.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.clone()
}

// Credential returns the active credential, if any.
func (s *Store) Credential() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current.Authenticated() {
		return "", false
	}
	return s.current.Credential, true
}

func (s *Store) setCurrent(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sess
}
