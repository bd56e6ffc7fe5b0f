package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/thinkscotty/ideagen/internal/auth"
	"github.com/thinkscotty/ideagen/internal/config"
	"github.com/thinkscotty/ideagen/internal/database"
	"github.com/thinkscotty/ideagen/internal/events"
	"github.com/thinkscotty/ideagen/internal/export"
	"github.com/thinkscotty/ideagen/internal/favorites"
	"github.com/thinkscotty/ideagen/internal/ideas"
	"github.com/thinkscotty/ideagen/internal/metrics"
)

const sessionCookie = "ideagen_session"

// IdeaSource is the generation pipeline. *ideas.Generator satisfies it.
type IdeaSource interface {
	Generate(ctx context.Context, niche, targetAudience string) (ideas.Batch, error)
	Model() string
}

// Deps wires the server to its collaborators. Events and Notifier may be
// nil; a no-op publisher and a private notifier are used instead.
type Deps struct {
	Config    config.Config
	DB        *database.DB
	Ideas     IdeaSource
	Favorites *favorites.Service
	Export    export.Gateway
	Events    events.Publisher
	Notifier  *auth.Notifier
	Version   string
}

type Server struct {
	cfg      config.Config
	db       *database.DB
	ideas    IdeaSource
	favs     *favorites.Service
	docs     export.Gateway
	events   events.Publisher
	notifier *auth.Notifier
	version  string
	now      func() time.Time
	httpSrv  *http.Server
}

func New(deps Deps) *Server {
	s := &Server{
		cfg:      deps.Config,
		db:       deps.DB,
		ideas:    deps.Ideas,
		favs:     deps.Favorites,
		docs:     deps.Export,
		events:   deps.Events,
		notifier: deps.Notifier,
		version:  deps.Version,
		now:      time.Now,
	}
	if s.events == nil {
		s.events = events.Noop{}
	}
	if s.notifier == nil {
		s.notifier = auth.NewNotifier()
	}
	if s.docs == nil {
		s.docs = export.NewDocumentGateway(deps.DB, deps.Config.Export.PublicBaseURL)
	}
	if s.favs == nil {
		s.favs = favorites.NewService(deps.DB.Favorites())
	}

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSeconds) * time.Second,
	}
	return s
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.routes(mux)

	// metrics must see the same *http.Request the mux fills Pattern on,
	// so it sits inside identify, which replaces the request.
	var h http.Handler = mux
	if s.cfg.Metrics.Enabled {
		h = metrics.Middleware(h)
	}
	return recoveryMiddleware(loggingMiddleware(s.identify(h)))
}

// Start blocks serving HTTP until Shutdown. It returns http.ErrServerClosed
// after a shutdown, even one that happened before Start was called.
func (s *Server) Start() error {
	slog.Info("Starting server", "addr", s.httpSrv.Addr, "model", s.ideas.Model())
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.cfg.Metrics.Enabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// Accounts
	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.Handle("POST /api/auth/logout", s.requireUser(http.HandlerFunc(s.handleLogout)))
	mux.Handle("GET /api/auth/me", s.requireUser(http.HandlerFunc(s.handleMe)))

	// Generation; identity is optional
	mux.HandleFunc("GET /api/models", s.handleModels)
	mux.HandleFunc("POST /api/ideas", s.handleGenerate)

	// Favorites; listing is open and empty for anonymous callers
	mux.HandleFunc("GET /api/favorites", s.handleFavoritesList)
	mux.Handle("POST /api/favorites", s.requireUser(http.HandlerFunc(s.handleFavoriteSave)))
	mux.Handle("DELETE /api/favorites/{id}", s.requireUser(http.HandlerFunc(s.handleFavoriteDelete)))
	mux.Handle("POST /api/favorites/toggle", s.requireUser(http.HandlerFunc(s.handleFavoriteToggle)))

	// Export
	mux.HandleFunc("POST /api/export/ideas", s.handleExportIdeas)
	mux.Handle("POST /api/export/favorites", s.requireUser(http.HandlerFunc(s.handleExportFavorites)))
	mux.HandleFunc("GET /documents/{id}", s.handleDocument)

	mux.Handle("GET /api/stats", s.requireUser(http.HandlerFunc(s.handleStats)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{
		"status":  "ok",
		"model":   s.ideas.Model(),
		"version": s.version,
	})
}
