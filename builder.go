package recagent

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/redis/go-redis/v9"

	"github.com/zhaxinji/recagent-client/internal/audit"
	"github.com/zhaxinji/recagent-client/session"
)

// Builder assembles a [Client]. Collaborators default sensibly: an
// in-memory session backend, a stock http.Client with the configured
// timeout, and a no-op navigator.
type Builder struct {
	config     Config
	httpClient *http.Client
	kv         session.KV
	redis      redis.UniversalClient
	navigator  Navigator
	auditSink  AuditSink

	built bool
}

// New returns a Builder with default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithBaseURL sets the server origin.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithHTTPClient replaces the transport. The caller keeps ownership of
// timeout and TLS settings on it.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithKeyValue sets the durable session backend ([session.MemoryKV],
// [session.FileKV], or a caller implementation).
func (b *Builder) WithKeyValue(kv session.KV) *Builder {
	b.kv = kv
	return b
}

// WithRedis persists the session in Redis under Session.RedisPrefix.
// Ignored when WithKeyValue was also called.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithNavigator sets the redirect mechanism used on login, logout, and
// authorization rejection.
func (b *Builder) WithNavigator(nav Navigator) *Builder {
	b.navigator = nav
	return b
}

// WithAuditSink enables session-lifecycle event dispatch to sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = true
	return b
}

// Build validates the configuration and wires the client together. The
// builder is single-use.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.API.Timeout}
	}

	kv := b.kv
	if kv == nil && b.redis != nil {
		kv = session.NewRedisKV(b.redis, cfg.Session.RedisPrefix)
	}
	if kv == nil {
		kv = session.NewMemoryKV()
	}

	navigator := b.navigator
	if navigator == nil {
		navigator = NoOpNavigator{}
	}

	store := session.NewStore(kv, cfg.Session.CredentialKey, cfg.Session.IdentityKey)

	client := &Client{
		config:   cfg,
		http:     httpClient,
		baseURL:  baseURL,
		sessions: store,
	}
	client.nav = NewNavigationController(store, navigator)
	client.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)

	b.built = true

	return client, nil
}
