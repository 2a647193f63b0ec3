// Package server streams a live terminal view of the noise field over SSH.
package server

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/gliderlabs/ssh"

	"github.com/pthm-cable/earthnoise/config"
	"github.com/pthm-cable/earthnoise/noise"
	"github.com/pthm-cable/earthnoise/renderer"
	"github.com/pthm-cable/earthnoise/terrain"
)

// SSHServer wraps the SSH listener and per-session rendering.
type SSHServer struct {
	addr    string
	hostKey string
	grid    config.GridConfig
	sampler terrain.Sampler
	palette renderer.Palette
}

// New creates a server for cfg that renders src.
func New(cfg *config.Config, src noise.Source) *SSHServer {
	return &SSHServer{
		addr:    cfg.Server.Addr,
		hostKey: cfg.Server.HostKey,
		grid:    cfg.Grid,
		sampler: terrain.Sampler{
			Source:  src,
			Fractal: cfg.FractalParams(),
			Compat:  cfg.Fractal.Compat,
		},
		palette: renderer.DefaultPalette(cfg.Terrain),
	}
}

// Start begins listening for SSH connections.
func (s *SSHServer) Start() error {
	server := &ssh.Server{
		Addr: s.addr,
		Handler: func(sess ssh.Session) {
			s.handleSession(sess)
		},
	}

	if err := server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}

	slog.Info("ssh server listening", "addr", s.addr)
	return server.ListenAndServe()
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	user := sess.User()
	slog.Info("session opened", "user", user, "remote", sess.RemoteAddr().String())
	defer slog.Info("session closed", "user", user)

	termW := ptyReq.Window.Width
	termH := ptyReq.Window.Height
	var termMu sync.Mutex

	io.WriteString(sess, renderer.EnableAltScreen())
	io.WriteString(sess, renderer.HideCursor())
	io.WriteString(sess, renderer.ClearScreen())
	defer func() {
		io.WriteString(sess, renderer.ShowCursor())
		io.WriteString(sess, renderer.DisableAltScreen())
	}()

	actionCh := make(chan Action, 16)
	redrawCh := make(chan struct{}, 1)
	quitCh := make(chan struct{})

	go func() {
		defer close(quitCh)
		buf := make([]byte, 64)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				return
			}
			for _, action := range parseInput(buf[:n]) {
				if action == ActionQuit {
					return
				}
				select {
				case actionCh <- action:
				default:
				}
			}
		}
	}()

	go func() {
		for win := range winCh {
			termMu.Lock()
			termW = win.Width
			termH = win.Height
			termMu.Unlock()
			select {
			case redrawCh <- struct{}{}:
			default:
			}
		}
	}()

	view := NewView(s.grid)
	draw := func() bool {
		termMu.Lock()
		w, h := termW, termH
		termMu.Unlock()

		frame, err := view.Frame(s.sampler, s.palette, w, h)
		if err != nil {
			slog.Error("render failed", "user", user, "error", err)
			fmt.Fprintf(sess, "%s%s\r\n", renderer.Reset, err)
			return false
		}
		io.WriteString(sess, frame)
		return true
	}

	if !draw() {
		return
	}
	for {
		select {
		case <-quitCh:
			return
		case <-sess.Context().Done():
			return
		case a := <-actionCh:
			view.Apply(a)
		case <-redrawCh:
			io.WriteString(sess, renderer.ClearScreen())
		}
		if !draw() {
			return
		}
	}
}

// parseInput converts raw bytes into view actions.
// Handles WASD, arrow key escape sequences, +/-, Q, and Ctrl-C.
func parseInput(data []byte) []Action {
	var actions []Action
	i := 0
	for i < len(data) {
		if i+2 < len(data) && data[i] == 0x1b && data[i+1] == '[' {
			switch data[i+2] {
			case 'A':
				actions = append(actions, ActionUp)
			case 'B':
				actions = append(actions, ActionDown)
			case 'C':
				actions = append(actions, ActionRight)
			case 'D':
				actions = append(actions, ActionLeft)
			}
			i += 3
			continue
		}

		r, size := utf8.DecodeRune(data[i:])
		switch r {
		case 'w', 'W':
			actions = append(actions, ActionUp)
		case 's', 'S':
			actions = append(actions, ActionDown)
		case 'a', 'A':
			actions = append(actions, ActionLeft)
		case 'd', 'D':
			actions = append(actions, ActionRight)
		case '+', '=':
			actions = append(actions, ActionDeeper)
		case '-', '_':
			actions = append(actions, ActionShallower)
		case 'q', 'Q':
			actions = append(actions, ActionQuit)
		case 3: // Ctrl-C
			actions = append(actions, ActionQuit)
		}
		i += size
	}
	return actions
}
