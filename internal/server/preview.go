// Package server implements the markdown preview server: it renders a
// watched markdown file through the markup engine, serves the result in
// a minimal HTML shell, and pushes reload events to connected browsers
// over a WebSocket when the file changes.
package server

import (
	"context"
	"fmt"
	"html"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/fsnotify/fsnotify"

	"github.com/Supernova3339/changerawr-sub000/internal/config"
	apperrors "github.com/Supernova3339/changerawr-sub000/internal/errors"
	"github.com/Supernova3339/changerawr-sub000/internal/logging"
	"github.com/Supernova3339/changerawr-sub000/internal/markup"
)

// debounce window for file change bursts; editors often fire several
// write events per save.
const reloadDebounce = 100 * time.Millisecond

// PreviewServer serves one markdown file with live reload.
type PreviewServer struct {
	cfg    *config.Config
	engine *markup.Engine
	logger logging.Logger
	file   string

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// New constructs a preview server for the given file.
func New(cfg *config.Config, engine *markup.Engine, logger logging.Logger, file string) *PreviewServer {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &PreviewServer{
		cfg:     cfg,
		engine:  engine,
		logger:  logger.WithComponent("preview"),
		file:    file,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Run serves until ctx is canceled.
func (s *PreviewServer) Run(ctx context.Context) error {
	if _, err := os.Stat(s.file); err != nil {
		return apperrors.NewIOError("previewed file not readable", s.file, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return apperrors.NewServerError("creating file watcher", err)
	}
	defer watcher.Close()
	if err := watcher.Add(s.file); err != nil {
		return apperrors.NewIOError("watching file", s.file, err)
	}
	go s.watchLoop(ctx, watcher)

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWebSocket)

	addr := net.JoinHostPort(s.cfg.Server.Host, fmt.Sprintf("%d", s.cfg.Server.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "preview server listening", "addr", addr, "file", s.file)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return apperrors.NewServerError("preview server failed", err)
		}
		return nil
	}
}

// watchLoop forwards debounced file changes to connected clients.
func (s *PreviewServer) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// some editors replace the file on save; re-add the path
			if event.Op&fsnotify.Rename != 0 {
				_ = watcher.Add(s.file)
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				s.logger.Debug(ctx, "file changed, broadcasting reload", "path", event.Name)
				s.broadcastReload(ctx)
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn(ctx, err, "file watcher error")
		}
	}
}

func (s *PreviewServer) broadcastReload(ctx context.Context) {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := c.Write(writeCtx, websocket.MessageText, []byte("reload")); err != nil {
			s.removeClient(c)
		}
		cancel()
	}
}

func (s *PreviewServer) removeClient(c *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	_ = c.CloseNow()
}

// handleIndex renders the watched file and wraps it in the preview
// shell. A read failure renders an inline notice instead of failing the
// request; the next save usually fixes it.
func (s *PreviewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	source, err := os.ReadFile(s.file)
	var body string
	if err != nil {
		s.logger.Warn(r.Context(), err, "reading previewed file", "path", s.file)
		body = `<p class="cum-alert">could not read ` + html.EscapeString(s.file) + `</p>`
	} else {
		body = s.engine.Render(string(source))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, previewShell, html.EscapeString(s.file), body)
}

func (s *PreviewServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()
	s.logger.Debug(r.Context(), "preview client connected")

	// the client never sends application data; CloseRead surfaces
	// disconnects
	ctx := conn.CloseRead(r.Context())
	<-ctx.Done()
	s.removeClient(conn)
}

const previewShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s — changerawr preview</title>
<style>
body { max-width: 48rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.6; }
pre { background: #f4f4f5; padding: 1rem; overflow-x: auto; border-radius: 6px; }
code { font-family: ui-monospace, monospace; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d4d4d8; padding: .35rem .75rem; }
blockquote { border-left: 3px solid #d4d4d8; margin-left: 0; padding-left: 1rem; color: #52525b; }
.cum-subtext { color: #71717a; }
.cum-alert { border: 1px solid #d4d4d8; border-radius: 6px; padding: .75rem 1rem; }
.cum-alert-warning { border-color: #f59e0b; background: #fffbeb; }
.cum-alert-error { border-color: #ef4444; background: #fef2f2; }
.cum-alert-success { border-color: #22c55e; background: #f0fdf4; }
.cum-alert-info { border-color: #3b82f6; background: #eff6ff; }
.cum-button { display: inline-block; padding: .4rem .9rem; border-radius: 6px; background: #18181b; color: #fafafa; text-decoration: none; }
.cum-button[aria-disabled="true"] { opacity: .5; }
.cum-embed { border: 1px solid #d4d4d8; border-radius: 6px; padding: .75rem 1rem; }
</style>
</head>
<body>
%s
<script>
(function connect() {
  var ws = new WebSocket("ws://" + location.host + "/ws");
  ws.onmessage = function (ev) { if (ev.data === "reload") location.reload(); };
  ws.onclose = function () { setTimeout(connect, 1000); };
})();
</script>
</body>
</html>
`
