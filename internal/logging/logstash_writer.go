package logging

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

const (
	defaultDialTimeout  = 2 * time.Second
	defaultWriteTimeout = time.Second
	defaultRetryBackoff = 5 * time.Second
)

// LogstashWriter mirrors log lines to a Logstash TCP input. Request logging
// must never stall on the log pipeline, so writes always report success to
// the caller: while Logstash is unreachable, entries are dropped and the
// writer backs off before redialing.
type LogstashWriter struct {
	addr string

	dialTimeout  time.Duration
	writeTimeout time.Duration
	retryBackoff time.Duration

	mu      sync.Mutex
	conn    net.Conn
	retryAt time.Time
	closed  bool
}

// Option configures a LogstashWriter.
type Option func(*LogstashWriter)

// WithDialTimeout overrides the TCP dial timeout.
func WithDialTimeout(d time.Duration) Option {
	return func(w *LogstashWriter) { w.dialTimeout = d }
}

// WithWriteTimeout overrides the per-write deadline.
func WithWriteTimeout(d time.Duration) Option {
	return func(w *LogstashWriter) { w.writeTimeout = d }
}

// WithRetryBackoff overrides how long the writer waits after a failed dial or
// write before trying the connection again.
func WithRetryBackoff(d time.Duration) Option {
	return func(w *LogstashWriter) { w.retryBackoff = d }
}

// NewLogstashWriter returns a writer for the given "host:port" address. It is
// safe for concurrent use; the connection is established lazily on the first
// write.
func NewLogstashWriter(addr string, opts ...Option) (*LogstashWriter, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, errors.New("logstash: empty address")
	}

	w := &LogstashWriter{
		addr:         addr,
		dialTimeout:  defaultDialTimeout,
		writeTimeout: defaultWriteTimeout,
		retryBackoff: defaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Write implements io.Writer. Each payload is framed as one newline-terminated
// event. A failed write drops the entry rather than surfacing an error into
// the logging path.
func (w *LogstashWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	event := make([]byte, len(p), len(p)+1)
	copy(event, p)
	if event[len(event)-1] != '\n' {
		event = append(event, '\n')
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, io.ErrClosedPipe
	}
	if !w.redialLocked() {
		return len(p), nil
	}

	if w.writeTimeout > 0 {
		_ = w.conn.SetWriteDeadline(time.Now().Add(w.writeTimeout))
	}
	if _, err := w.conn.Write(event); err != nil {
		w.dropConnLocked()
	}
	return len(p), nil
}

// Close tears down the TCP connection. Subsequent writes fail with
// io.ErrClosedPipe.
func (w *LogstashWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}

// redialLocked reports whether a usable connection is available, dialing if
// the backoff window has passed.
func (w *LogstashWriter) redialLocked() bool {
	if w.conn != nil {
		return true
	}
	if time.Now().Before(w.retryAt) {
		return false
	}

	conn, err := net.DialTimeout("tcp", w.addr, w.dialTimeout)
	if err != nil {
		w.retryAt = time.Now().Add(w.retryBackoff)
		return false
	}
	w.conn = conn
	w.retryAt = time.Time{}
	return true
}

func (w *LogstashWriter) dropConnLocked() {
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
	w.retryAt = time.Now().Add(w.retryBackoff)
}
