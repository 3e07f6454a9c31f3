// Package web serves the application's views over HTTP on a fixed local port.
//
// Routes come from the router table; protected views and their form posts
// sit behind the navigation guard. The server is meant for a single local
// user: it shares one session with the terminal client's storage.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/finmate/internal/client/articles"
	"github.com/dmitrijs2005/finmate/internal/client/catalog"
	"github.com/dmitrijs2005/finmate/internal/client/notify"
	"github.com/dmitrijs2005/finmate/internal/client/render"
	"github.com/dmitrijs2005/finmate/internal/client/router"
	"github.com/dmitrijs2005/finmate/internal/client/session"
	"github.com/dmitrijs2005/finmate/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// Deps are the stores and collaborators behind the views. Flash must be the
// notifier the stores and the router were built with.
type Deps struct {
	Session  *session.Session
	Catalog  *catalog.Store
	Articles *articles.Store
	Router   *router.Router
	Flash    *notify.Queue
	Metrics  http.Handler
	Logger   logging.Logger
}

type Server struct {
	deps  Deps
	log   logging.Logger
	pages map[string]*template.Template
	md    *render.HTMLRenderer
}

// NewHandler builds the HTTP handler serving every view.
func NewHandler(d Deps) (http.Handler, error) {
	s := &Server{deps: d, log: d.Logger, md: render.NewHTMLRenderer()}
	if s.log == nil {
		s.log = logging.Discard()
	}
	if err := s.parseTemplates(); err != nil {
		return nil, err
	}
	return s.routes(), nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(newRecoveryMiddleware(s.log))
	r.Use(newLoggingMiddleware(s.log))
	r.Use(securityHeaders)
	r.Use(middleware.StripSlashes)
	r.Use(newCSRFMiddleware(s.log))

	views := map[string]http.HandlerFunc{
		router.Home:        s.home,
		router.Login:       s.loginForm,
		router.Signup:      s.signupForm,
		router.Products:    s.products,
		router.Commodities: s.static,
		router.Youtube:     s.static,
		router.Map:         s.static,
		router.Community:   s.community,
		router.Profile:     s.profile,
		router.Recommend:   s.recommendPage,
	}
	for _, rt := range router.Routes {
		h, ok := views[rt.Name]
		if !ok {
			continue
		}
		if rt.RequiresAuth {
			r.With(newGuardMiddleware(s.deps.Router, rt.Path)).Get(rt.Path, h)
		} else {
			r.Get(rt.Path, h)
		}
	}

	r.Post("/login", s.login)
	r.Post("/signup", s.signup)
	r.Post("/logout", s.logout)
	r.Post("/products/{code}/join", s.join)

	r.Post("/community", s.createArticle)
	r.Post("/community/{id}/edit", s.updateArticle)
	r.Post("/community/{id}/delete", s.deleteArticle)

	r.Group(func(r chi.Router) {
		r.Use(newGuardMiddleware(s.deps.Router, "/profile"))
		r.Post("/profile", s.updateProfile)
		r.Post("/profile/joined/{id}", s.updateJoined)
		r.Post("/profile/joined/{id}/delete", s.terminate)
	})

	r.With(newGuardMiddleware(s.deps.Router, "/recommend")).Post("/recommend", s.recommend)

	if s.deps.Metrics != nil {
		r.Handle("/metrics", s.deps.Metrics)
	}
	return r
}

// Serve listens on addr and serves h until ctx is done. It fails when addr
// is taken instead of picking another port.
func Serve(ctx context.Context, addr string, h http.Handler, log logging.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	srv := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	log.Info(ctx, "view server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
