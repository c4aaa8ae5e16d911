package updater

import (
	"time"

	"go.uber.org/zap"
)

// ProgressFunc is called after each acknowledged chunk with the number
// of payload bytes sent so far and the total image size. Implementations
// should return quickly; a slow callback stalls the transfer.
type ProgressFunc func(bytesSent, totalBytes int)

// Config holds the session configuration.
//
// Timeouts are per-operation, not global: the expected latencies of a
// handshake reply and a flash erase differ by orders of magnitude.
type Config struct {
	// Logger receives session lifecycle and exchange logging
	Logger *zap.Logger

	// Progress is called after each acknowledged chunk (optional)
	Progress ProgressFunc

	// HandshakeAttempts bounds identification attempts
	HandshakeAttempts int

	// EraseAttempts bounds erase attempts; only timeouts are retried
	EraseAttempts int

	// ChunkAttempts bounds attempts per chunk
	ChunkAttempts int

	// Backoff is the delay between retry attempts
	Backoff time.Duration

	// HandshakeTimeout bounds the wait for an Identify response
	HandshakeTimeout time.Duration

	// EraseTimeout bounds the wait for the erase acknowledgment
	EraseTimeout time.Duration

	// WriteTimeout bounds the wait for a per-chunk acknowledgment
	WriteTimeout time.Duration

	// VerifyTimeout bounds the wait for the device checksum
	VerifyTimeout time.Duration

	// BootSettle is how long the device takes to reset from application
	// mode into the bootloader before it answers again
	BootSettle time.Duration
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Logger:            zap.NewNop(),
		HandshakeAttempts: 3,
		EraseAttempts:     2,
		ChunkAttempts:     3,
		Backoff:           100 * time.Millisecond,
		HandshakeTimeout:  500 * time.Millisecond,
		EraseTimeout:      10 * time.Second,
		WriteTimeout:      time.Second,
		VerifyTimeout:     5 * time.Second,
		BootSettle:        3 * time.Second,
	}
}

// Option is a functional option for configuring a Session.
type Option func(*Config)

// WithLogger sets the session logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Config) {
		c.Progress = fn
	}
}

// WithHandshakeAttempts bounds identification attempts.
func WithHandshakeAttempts(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.HandshakeAttempts = n
		}
	}
}

// WithChunkAttempts bounds attempts per chunk.
func WithChunkAttempts(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.ChunkAttempts = n
		}
	}
}

// WithBackoff sets the delay between retry attempts.
func WithBackoff(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.Backoff = d
		}
	}
}

// WithHandshakeTimeout sets the Identify response timeout.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.HandshakeTimeout = d
		}
	}
}

// WithEraseTimeout sets the erase acknowledgment timeout.
func WithEraseTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.EraseTimeout = d
		}
	}
}

// WithWriteTimeout sets the per-chunk acknowledgment timeout.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.WriteTimeout = d
		}
	}
}

// WithVerifyTimeout sets the device checksum timeout.
func WithVerifyTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.VerifyTimeout = d
		}
	}
}

// WithBootSettle sets the wait for an application-mode device to reset
// into the bootloader.
func WithBootSettle(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.BootSettle = d
		}
	}
}
