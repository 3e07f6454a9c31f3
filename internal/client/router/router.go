// Package router maps paths to views and guards the protected ones.
//
// The guard is a synchronous read of the session's authentication state; it
// never waits on the network. Navigating to a protected route while anonymous
// shows the login-required notification and lands on the login route instead,
// so the protected view is never reached.
package router

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/dmitrijs2005/finmate/internal/client/notify"
	"github.com/dmitrijs2005/finmate/internal/logging"
)

// ErrNoRoute is returned for paths missing from the table.
var ErrNoRoute = errors.New("no route")

// Authenticator reports the session state the guard consults.
type Authenticator interface {
	IsAuthenticated() bool
}

// GuardObserver is told about every blocked navigation.
type GuardObserver interface {
	GuardRedirect(route string)
}

type Option func(*Router)

func WithObserver(o GuardObserver) Option {
	return func(r *Router) { r.observer = o }
}

func WithLogger(l logging.Logger) Option {
	return func(r *Router) { r.log = l }
}

// Decision is the outcome of the guard for one target.
type Decision struct {
	Route Route
	// Redirected is set when the target was protected and the session
	// anonymous; Route is then the login route and Target the original one.
	Redirected bool
	Target     Route
}

type Router struct {
	auth     Authenticator
	notify   notify.Notifier
	observer GuardObserver
	log      logging.Logger

	byPath map[string]Route
	login  Route

	mu      sync.Mutex
	current Route
	history []Route
}

func New(auth Authenticator, n notify.Notifier, opts ...Option) *Router {
	r := &Router{auth: auth, notify: n, byPath: make(map[string]Route, len(Routes))}
	for _, rt := range Routes {
		r.byPath[rt.Path] = rt
		if rt.Name == Login {
			r.login = rt
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.notify == nil {
		r.notify = notify.Func(func(context.Context, string) {})
	}
	if r.log == nil {
		r.log = logging.Discard()
	}
	r.current = r.byPath["/"]
	return r
}

// Lookup finds the route for path. Query, fragment and a trailing slash
// are ignored.
func (r *Router) Lookup(path string) (Route, bool) {
	rt, ok := r.byPath[normalize(path)]
	return rt, ok
}

func normalize(path string) string {
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	}
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// Guard runs the pre-navigation check for path without changing the
// current route. A redirect is notified and observed.
func (r *Router) Guard(ctx context.Context, path string) (Decision, error) {
	target, ok := r.Lookup(path)
	if !ok {
		return Decision{}, fmt.Errorf("%w: %s", ErrNoRoute, path)
	}
	if target.RequiresAuth && !r.auth.IsAuthenticated() {
		r.notify.Notify(ctx, notify.LoginRequiredService)
		if r.observer != nil {
			r.observer.GuardRedirect(target.Name)
		}
		r.log.Info(ctx, "navigation blocked", "route", target.Name)
		return Decision{Route: r.login, Redirected: true, Target: target}, nil
	}
	return Decision{Route: target, Target: target}, nil
}

// Navigate moves to path, or to the login route if the guard blocks it, and
// records the previous route in the history.
func (r *Router) Navigate(ctx context.Context, path string) (Decision, error) {
	d, err := r.Guard(ctx, path)
	if err != nil {
		return d, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, r.current)
	r.current = d.Route
	return d, nil
}

// Reset performs a full navigation to path that drops the history.
// Unknown paths reset to the root.
func (r *Router) Reset(path string) {
	d, err := r.Guard(context.Background(), path)
	if err != nil {
		d.Route = r.byPath["/"]
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = nil
	r.current = d.Route
}

// Back returns to the previous route. The guard runs again, so going back
// into a protected view after logout lands on login.
func (r *Router) Back(ctx context.Context) (Decision, bool) {
	r.mu.Lock()
	if len(r.history) == 0 {
		r.mu.Unlock()
		return Decision{}, false
	}
	prev := r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	r.mu.Unlock()

	d, _ := r.Guard(ctx, prev.Path)
	r.mu.Lock()
	r.current = d.Route
	r.mu.Unlock()
	return d, true
}

// Current returns the active route.
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}
