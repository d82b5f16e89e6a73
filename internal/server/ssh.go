package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/gliderlabs/ssh"
	"github.com/google/uuid"

	"pixlet/internal/config"
	"pixlet/internal/render"
)

// SSHServer serves one independent editing session per SSH connection.
type SSHServer struct {
	cfg    config.Config
	log    *slog.Logger
	srv    *ssh.Server
	active atomic.Int64
}

// NewSSHServer creates a server from cfg. A nil logger uses slog.Default.
func NewSSHServer(cfg config.Config, log *slog.Logger) *SSHServer {
	if log == nil {
		log = slog.Default()
	}
	return &SSHServer{cfg: cfg, log: log}
}

// Start begins listening for SSH connections and blocks until the server
// stops.
func (s *SSHServer) Start() error {
	s.srv = &ssh.Server{
		Addr: s.cfg.ListenAddr,
		Handler: func(sess ssh.Session) {
			s.handleSession(sess)
		},
	}

	if err := s.srv.SetOption(ssh.HostKeyFile(s.cfg.HostKeyPath)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}

	s.log.Info("ssh server listening", "addr", s.cfg.ListenAddr)
	err := s.srv.ListenAndServe()
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for sessions to end or
// ctx to expire.
func (s *SSHServer) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	username := sess.User()
	if username == "" {
		username = "anonymous"
	}
	id := uuid.NewString()[:8]
	log := s.log.With("session", id, "user", username, "remote", sess.RemoteAddr().String())

	conn, err := newEditorConn(id, username, s.cfg.ExportDir, s.cfg.SessionOptions(),
		ptyReq.Window.Width, ptyReq.Window.Height, log)
	if err != nil {
		log.Error("create session", "err", err)
		return
	}
	defer conn.Close()

	log.Info("session started", "active", s.active.Add(1))
	defer func() {
		log.Info("session ended", "active", s.active.Add(-1))
	}()

	io.WriteString(sess, render.EnableAltScreen())
	io.WriteString(sess, render.HideCursor())
	io.WriteString(sess, render.ClearScreen())
	io.WriteString(sess, render.EnableMouse())
	defer func() {
		io.WriteString(sess, render.DisableMouse())
		io.WriteString(sess, render.ShowCursor())
		io.WriteString(sess, render.DisableAltScreen())
	}()

	events := make(chan Event, 256)

	// Goroutine: read input. Events are forwarded in arrival order and
	// consumed by the loop below, which is the only code touching conn.
	go func() {
		defer close(events)
		var dec inputDecoder
		buf := make([]byte, 256)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				return
			}
			for _, ev := range dec.Feed(buf[:n], n == len(buf)) {
				select {
				case events <- ev:
				case <-sess.Context().Done():
					return
				}
			}
		}
	}()

	io.WriteString(sess, conn.frame())

	for {
		select {
		case <-sess.Context().Done():
			return
		case win, ok := <-winCh:
			if !ok {
				winCh = nil
				continue
			}
			conn.resize(win.Width, win.Height)
		case ev, ok := <-events:
			if !ok {
				return
			}
			if s.apply(conn, ev, log) {
				return
			}
			// Drain whatever else arrived so a burst of drag reports
			// produces one frame.
		drain:
			for {
				select {
				case ev, ok := <-events:
					if !ok {
						return
					}
					if s.apply(conn, ev, log) {
						return
					}
				default:
					break drain
				}
			}
		}

		if out := conn.frame(); len(out) > 0 {
			io.WriteString(sess, out)
		}
	}
}

// apply runs one event and reports whether the session should end.
func (s *SSHServer) apply(conn *editorConn, ev Event, log *slog.Logger) bool {
	quit, err := conn.handle(ev)
	if err != nil {
		log.Error("handle input", "err", err)
	}
	return quit
}
