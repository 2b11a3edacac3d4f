package listen

import (
	"context"
	"io"
	log "log/slog"
	"strings"
	"sync"
	"time"

	"murmur/internal/ipc"
)

// Socket takes utterances sent with murmur-ctl.
type Socket struct {
	// Timeout bounds each Listen; zero waits for the next message.
	Timeout time.Duration

	status Status
	srv    *ipc.Server
	lines  chan string

	closeOnce sync.Once
	done      chan struct{}
}

func NewSocket(path string, status Status) (*Socket, error) {
	s := &Socket{
		status: status,
		lines:  make(chan string, 16),
		done:   make(chan struct{}),
	}

	srv, err := ipc.StartServer(path, s.handle)
	if err != nil {
		return nil, err
	}
	s.srv = srv

	return s, nil
}

func (s *Socket) handle(msg ipc.ControlMessage) {
	if msg.Cmd != ipc.CmdUtter {
		log.Warn("Unknown command", "cmd", msg.Cmd)
		return
	}

	select {
	case s.lines <- msg.Text:
	case <-s.done:
	default:
		log.Warn("Dropping utterance, assistant busy", "text", msg.Text)
	}
}

func (s *Socket) Listen(ctx context.Context) (string, error) {
	var timeout <-chan time.Time
	if s.Timeout > 0 {
		t := time.NewTimer(s.Timeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case line := <-s.lines:
		line = strings.TrimSpace(line)
		s.status.Heard(line)
		return line, nil
	case <-timeout:
		s.status.Status("Timeout - No input received")
		return "", nil
	case <-s.done:
		return "", io.EOF
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *Socket) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return s.srv.Close()
}
