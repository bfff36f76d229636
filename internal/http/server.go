package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"

	applog "flazz/internal/log"
	"flazz/internal/middleware/security"
	"flazz/internal/services"
	appweb "flazz/web"
)

// Server serves the card page and its form endpoints on a local address.
type Server struct {
	http.Server
	templates *template.Template
	svc       *services.CardService
	inbox     *services.Inbox
	logger    *applog.Logger

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
// Every request from a non-loopback peer is refused.
func NewServer(addr string, svc *services.CardService, inbox *services.Inbox, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	mux := http.NewServeMux()

	s := &Server{
		svc:    svc,
		inbox:  inbox,
		logger: logger.WithComponent(applog.ComponentHTTP),
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/ui/card", s.handleCardPartial)
	mux.HandleFunc("/deposit", s.handleDeposit)
	mux.HandleFunc("/withdraw", s.handleWithdraw)
	mux.HandleFunc("/transfer", s.handleTransfer)
	mux.HandleFunc("/export", s.handleExport)
	mux.HandleFunc("/api/account", s.handleAccountJSON)
	mux.HandleFunc("/api/charts", s.handleChartsJSON)

	var handler http.Handler = mux
	handler = security.Headers(security.DefaultHeadersConfig())(handler)
	handler = security.SameOrigin(handler)
	handler = applog.Middleware(s.logger)(handler)
	handler = security.LoopbackOnly(handler)

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}
	return s
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
