// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package hdbconnect

import (
	"context"
	"crypto/tls"
	"database/sql/driver"
	"sync"
	"time"

	p "github.com/hdbconnect-go/hdbconnect/internal/protocol"
)

// Data format version levels this driver negotiates (spec §6 product/protocol
// version constants live in internal/protocol; these select the client's
// requested row-encoding generation).
const (
	DfvLevel6 = 6 // BINTEXT - default
	DfvLevel4 = 4 // generic date/time types
	DfvLevel1 = 1 // eval types
)

var supportedDfvs = map[int]bool{DfvLevel1: true, DfvLevel4: true, DfvLevel6: true}

// Connector default and floor values, mirroring the teacher's constants.
const (
	DefaultDfv          = DfvLevel6
	DefaultTimeout      = 300 // seconds
	DefaultFetchSize    = 128
	DefaultBulkSize     = 1000
	DefaultLobChunkSize = 4096
	DefaultLegacy       = true

	minTimeout   = 0
	minFetchSize = 1
	minBulkSize  = 1
)

// Connector implements both protocol.SessionConfig and database/sql/driver.Connector.
// It can be passed to sql.OpenDB directly, or built from a DSN via ParseDSN.
type Connector struct {
	mu sync.RWMutex

	host, username, password string
	locale                   string
	bufferSize               int
	fetchSize                int
	bulkSize                 int
	lobChunkSize             int32
	timeout                  int
	dfv                      int
	legacy                   bool
	tlsConfig                *tls.Config
	applicationName          string
	databaseName             string
	sessionVariables         map[string]string
}

var _ p.SessionConfig = (*Connector)(nil)
var _ driver.Connector = (*Connector)(nil)

func newConnector() *Connector {
	return &Connector{
		fetchSize:    DefaultFetchSize,
		bulkSize:     DefaultBulkSize,
		lobChunkSize: DefaultLobChunkSize,
		timeout:      DefaultTimeout,
		dfv:          DefaultDfv,
		legacy:       DefaultLegacy,
	}
}

// Option configures a Connector built with NewConnector.
type Option func(*Connector)

// WithTLSConfig sets the TLS configuration used for the hdbsqls scheme.
func WithTLSConfig(cfg *tls.Config) Option { return func(c *Connector) { c.tlsConfig = cfg } }

// WithApplicationName sets the client application name reported to the server.
func WithApplicationName(name string) Option {
	return func(c *Connector) { c.applicationName = name }
}

// WithFetchSize overrides the number of rows fetched per FetchNext round trip.
func WithFetchSize(n int) Option {
	return func(c *Connector) {
		if n < minFetchSize {
			n = minFetchSize
		}
		c.fetchSize = n
	}
}

// WithBulkSize overrides the maximum number of rows batched into one bulk Exec.
func WithBulkSize(n int) Option {
	return func(c *Connector) {
		if n < minBulkSize {
			n = minBulkSize
		}
		c.bulkSize = n
	}
}

// WithLobChunkSize overrides the chunk size used to stream LOB content.
func WithLobChunkSize(n int32) Option { return func(c *Connector) { c.lobChunkSize = n } }

// WithTimeout overrides the read timeout (seconds) applied while awaiting a reply.
// Per spec §5 "Cancellation & timeouts", a timeout marks the connection broken.
func WithTimeout(seconds int) Option {
	return func(c *Connector) {
		if seconds < minTimeout {
			seconds = minTimeout
		}
		c.timeout = seconds
	}
}

// WithLocale overrides the client locale sent during connect.
func WithLocale(locale string) Option { return func(c *Connector) { c.locale = locale } }

// WithDfv overrides the negotiated data format version.
func WithDfv(dfv int) Option {
	return func(c *Connector) {
		if supportedDfvs[dfv] {
			c.dfv = dfv
		}
	}
}

// WithLegacy toggles legacy (pre-DaydateTime) type encoding.
func WithLegacy(legacy bool) Option { return func(c *Connector) { c.legacy = legacy } }

// WithDatabaseName sets the tenant database name (spec §6 DSN "db" parameter).
func WithDatabaseName(name string) Option { return func(c *Connector) { c.databaseName = name } }

// WithSessionVariables stores session variables on the Connector, where
// SessionVariables returns them. No request sends them to the server.
func WithSessionVariables(vars map[string]string) Option {
	return func(c *Connector) {
		m := make(map[string]string, len(vars))
		for k, v := range vars {
			m[k] = v
		}
		c.sessionVariables = m
	}
}

// NewBasicAuthConnector creates a Connector for username/password authentication.
func NewBasicAuthConnector(host, username, password string, opts ...Option) *Connector {
	c := newConnector()
	c.host = host
	c.username = username
	c.password = password
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect implements database/sql/driver.Connector.
func (c *Connector) Connect(ctx context.Context) (driver.Conn, error) {
	return newConn(ctx, c)
}

// Driver implements database/sql/driver.Connector.
func (c *Connector) Driver() driver.Driver { return drv }

// SessionConfig accessors (protocol.SessionConfig).

// Host returns "host:port".
func (c *Connector) Host() string { return c.host }

// Username returns the basic-auth username.
func (c *Connector) Username() string { return c.username }

// Password returns the basic-auth password.
func (c *Connector) Password() string { return c.password }

// Locale returns the client locale sent at connect time.
func (c *Connector) Locale() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locale
}

// BufferSize returns the read/write buffer size.
func (c *Connector) BufferSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bufferSize
}

// FetchSize returns the configured row fetch size.
func (c *Connector) FetchSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchSize
}

// BulkSize returns the configured bulk batch size.
func (c *Connector) BulkSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bulkSize
}

// LobChunkSize returns the configured LOB streaming chunk size.
func (c *Connector) LobChunkSize() int32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lobChunkSize
}

// Timeout returns the read timeout in seconds.
func (c *Connector) Timeout() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timeout
}

// Dfv returns the negotiated data format version.
func (c *Connector) Dfv() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dfv
}

// TLSConfig returns the TLS configuration, or nil for a plain connection.
func (c *Connector) TLSConfig() *tls.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tlsConfig
}

// Legacy reports whether legacy type encoding is requested.
func (c *Connector) Legacy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.legacy
}

// ApplicationName returns the client application name, if set.
func (c *Connector) ApplicationName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.applicationName
}

// DatabaseName returns the tenant database name requested via the DSN's
// "db" query parameter, or "" for the system database. Tenant routing
// happens at the network load balancer the host:port resolves through;
// this driver does not itself rewrite the connect target.
func (c *Connector) DatabaseName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.databaseName
}

// SessionVariables returns a copy of the configured session variables.
func (c *Connector) SessionVariables() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m := make(map[string]string, len(c.sessionVariables))
	for k, v := range c.sessionVariables {
		m[k] = v
	}
	return m
}

// pingTimeout is not applied by Conn.Ping: its DUMMY round trip is bounded
// only by the connection's read/write timeout (WithTimeout).
const pingTimeout = 30 * time.Second
