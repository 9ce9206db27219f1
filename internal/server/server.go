// Package server is the page shell: it renders the portfolio sections and
// hosts the chat assistant and the particle background over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/chat"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/mail"
	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/store"
	"github.com/Zachkp/portfolio/web"
)

// Deps are the collaborators the server needs.
type Deps struct {
	Content  *content.Store
	Store    *store.Store
	Notifier mail.Notifier
	Logger   *zap.Logger
	// ChatOptions are applied to every new chat engine, after the server's own.
	ChatOptions []chat.Option
}

// Server wires the routes to their collaborators.
type Server struct {
	cfg       *config.Config
	logger    *zap.Logger
	content   *content.Store
	store     *store.Store
	notifier  mail.Notifier
	sessions  *chat.Sessions
	metrics   *metrics.Collector
	templates *template.Template
	admin     *adminAuth
	salt      string
	engine    *gin.Engine

	// background work started by requests (visitor tracking)
	tasks sync.WaitGroup
}

// New builds the server and its routes.
func New(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Content == nil {
		deps.Content = content.NewStore(content.Default())
	}
	if deps.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if deps.Notifier == nil {
		deps.Notifier = mail.NewSMTPNotifier(cfg.SMTP)
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	admin, err := newAdminAuth(cfg.Admin, cfg.Release(), deps.Logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		logger:    deps.Logger,
		content:   deps.Content,
		store:     deps.Store,
		notifier:  deps.Notifier,
		templates: tmpl,
		admin:     admin,
		salt:      randomToken(),
	}
	s.metrics = metrics.New("portfolio", func() int { return s.sessions.Len() })
	s.sessions = chat.NewSessions(cfg.ChatSessionTTL, cfg.ChatMaxSessions, func() *chat.Engine {
		opts := []chat.Option{
			chat.WithLogger(s.logger),
			chat.OnReply(func(rule string) { s.metrics.ChatReplies.WithLabelValues(rule).Inc() }),
		}
		return chat.NewEngine(append(opts, deps.ChatOptions...)...)
	}, s.logger)

	s.engine = s.routes()
	return s, nil
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler { return s.engine }

// Sessions exposes the chat sessions.
func (s *Server) Sessions() *chat.Sessions { return s.sessions }

// Run serves on cfg.Port until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go s.sessions.Run(ctx)
	go s.cleanupVisitorsPeriodically(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("mode", gin.Mode()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.tasks.Wait()
	return err
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.requestMetrics(), s.visitorTracking())
	r.SetHTMLTemplate(s.templates)
	r.StaticFS("/static", http.FS(web.Static()))

	r.GET("/", s.handleHome)
	r.GET("/section/:name", s.handleSection)
	r.POST("/theme", s.handleTheme)
	r.GET("/privacy", s.handlePrivacy)
	r.POST("/contact", s.handleContact)

	r.GET("/chat", s.handleChatState)
	r.POST("/chat", s.handleChatSubmit)
	r.GET("/chat/wait", s.handleChatWait)

	r.GET("/background.png", s.handleBackgroundPNG)
	r.GET("/background/stream", s.handleBackgroundStream)

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.setupAdminRoutes(r)
	return r
}

// visitorRetention is how long page views are kept.
const visitorRetention = 365 * 24 * time.Hour

func (s *Server) cleanupVisitorsPeriodically(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		s.cleanupVisitors(ctx, visitorRetention)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) cleanupVisitors(ctx context.Context, retention time.Duration) {
	n, err := s.store.CleanupVisitors(ctx, retention)
	if err != nil {
		s.logger.Error("visitor cleanup failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("privacy cleanup removed old visitor records", zap.Int64("count", n))
	}
}
