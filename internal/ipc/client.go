// Package ipc implements the one-shot request/reply exchange with the
// regmsgd unix socket.
package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"
	"unicode/utf8"
)

var (
	// ErrTimeout marks a receive deadline expiry while waiting for the
	// daemon's reply.
	ErrTimeout = errors.New("timed out waiting for daemon reply")

	// ErrNotText marks a reply whose first frame is not valid UTF-8.
	ErrNotText = errors.New("daemon reply is not valid UTF-8")
)

// Session owns one connection to the daemon and performs exactly one
// request/reply exchange. It is not reused across invocations.
type Session struct {
	conn    net.Conn
	timeout time.Duration
}

// Dial connects to the daemon socket at path. Connect failures surface
// here immediately rather than at the first read.
func Dial(ctx context.Context, path string, timeout time.Duration) (*Session, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon at %s: %w", path, err)
	}
	return &Session{conn: conn, timeout: timeout}, nil
}

// Close releases the underlying connection.
func (s *Session) Close() error {
	return s.conn.Close()
}

// Roundtrip sends the request line as a one-frame envelope and blocks until
// the reply envelope arrives or the receive deadline expires. The reply's
// first frame is returned as text; a zero-frame reply is the empty string.
func (s *Session) Roundtrip(line string) (string, error) {
	if err := WriteEnvelope(s.conn, [][]byte{[]byte(line)}); err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}

	if err := s.conn.SetReadDeadline(time.Now().Add(s.timeout)); err != nil {
		return "", fmt.Errorf("set receive deadline: %w", err)
	}

	frames, err := ReadEnvelope(bufio.NewReader(s.conn))
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w after %s", ErrTimeout, s.timeout)
		}
		return "", fmt.Errorf("receive reply: %w", err)
	}

	return decodeReply(frames)
}

// decodeReply extracts frame 0 as UTF-8 text. Frames past the first are
// ignored: the daemon contract only defines the leading frame.
func decodeReply(frames [][]byte) (string, error) {
	if len(frames) == 0 {
		return "", nil
	}
	if !utf8.Valid(frames[0]) {
		return "", fmt.Errorf("%w (%d bytes)", ErrNotText, len(frames[0]))
	}
	return string(frames[0]), nil
}

// DaemonUnavailable reports connect failures that mean no daemon is
// listening at the socket path.
func DaemonUnavailable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ECONNREFUSED)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
