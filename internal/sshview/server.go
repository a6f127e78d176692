// Package sshview serves the raycaster to SSH clients as truecolor
// half-block frames.
package sshview

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gliderlabs/ssh"

	"raycaster/internal/config"
	"raycaster/internal/scene"
	"raycaster/internal/terminal"
)

// Server wraps the SSH listener. All sessions share one read-only scene.
type Server struct {
	cfg   *config.Config
	scene *scene.Scene
	srv   *ssh.Server
	tick  time.Duration
}

// NewServer creates a server for cfg.SSH. An empty host key path uses an
// ephemeral key; a missing key file is generated.
func NewServer(cfg *config.Config, sc *scene.Scene) (*Server, error) {
	s := &Server{
		cfg:   cfg,
		scene: sc,
		tick:  tickInterval(cfg),
	}
	s.srv = &ssh.Server{
		Addr:    cfg.SSH.Addr,
		Handler: s.handleSession,
	}

	if path := cfg.SSH.HostKey; path != "" {
		if err := ensureHostKey(path); err != nil {
			return nil, fmt.Errorf("host key: %w", err)
		}
		if err := s.srv.SetOption(ssh.HostKeyFile(path)); err != nil {
			return nil, fmt.Errorf("set host key: %w", err)
		}
	}
	return s, nil
}

// ListenAndServe blocks until the server fails or is shut down.
func (s *Server) ListenAndServe() error {
	log.Printf("[SSH] Listening on %s", s.cfg.SSH.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting sessions and waits for open ones until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleSession(sess ssh.Session) {
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	username := sess.User()
	if username == "" {
		username = "Anonymous"
	}
	log.Printf("[SSH] %s connected from %s", username, sess.RemoteAddr())
	defer log.Printf("[SSH] %s disconnected", username)

	v := newView(s.cfg, s.scene)
	if _, err := v.resize(ptyReq.Window.Width, ptyReq.Window.Height); err != nil {
		fmt.Fprintln(sess, "Error:", err)
		return
	}

	io.WriteString(sess, terminal.EnableAltScreen()+terminal.HideCursor()+terminal.ClearScreen())
	defer io.WriteString(sess, terminal.Reset+terminal.ShowCursor()+terminal.DisableAltScreen())

	ctx := sess.Context()
	inputCh := make(chan []terminal.Action, 16)
	quitCh := make(chan struct{})
	go readInput(ctx, sess, inputCh, quitCh)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	var pending []terminal.Action
	dirty := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-quitCh:
			return
		case actions := <-inputCh:
			pending = append(pending, actions...)
		case win, ok := <-winCh:
			if !ok {
				winCh = nil
				continue
			}
			changed, err := v.resize(win.Width, win.Height)
			if err != nil {
				log.Printf("[SSH] %s: %v", username, err)
				return
			}
			if changed {
				io.WriteString(sess, terminal.ClearScreen())
				dirty = true
			}
		case <-ticker.C:
			if len(pending) > 0 {
				if v.apply(pending) {
					return
				}
				pending = pending[:0]
				dirty = true
			}
			if dirty {
				if _, err := io.WriteString(sess, v.frame()); err != nil {
					return
				}
				dirty = false
			}
		}
	}
}

// readInput forwards parsed key presses until r fails or ctx ends, then
// closes quit.
func readInput(ctx context.Context, r io.Reader, out chan<- []terminal.Action, quit chan<- struct{}) {
	defer close(quit)
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if actions := terminal.ParseInput(buf[:n]); len(actions) > 0 {
				select {
				case out <- actions:
				case <-ctx.Done():
					return
				}
			}
		}
		if err != nil {
			return
		}
	}
}

func ensureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	log.Printf("[SSH] Generating new host key at %s", path)
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, &pem.Block{Type: "PRIVATE KEY", Bytes: keyBytes})
}
