package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/finmate/internal/client/articles"
	"github.com/dmitrijs2005/finmate/internal/client/catalog"
	"github.com/dmitrijs2005/finmate/internal/client/router"
	"github.com/dmitrijs2005/finmate/internal/client/session"
	"github.com/dmitrijs2005/finmate/internal/logging"
)

// errRedirected is returned by view commands the guard sent to login.
var errRedirected = errors.New("redirected to login")

// Deps are the stores and terminal streams the App works with. In and Out
// default to the process's stdin and stdout.
type Deps struct {
	Session  *session.Session
	Catalog  *catalog.Store
	Articles *articles.Store
	Router   *router.Router
	Logger   logging.Logger

	In  io.Reader
	Out io.Writer

	// Style is a glamour standard style ("auto", "dark", "light", "notty").
	Style string
	// Width wraps rendered markdown; 0 means 80 columns.
	Width int
}

type App struct {
	session  *session.Session
	catalog  *catalog.Store
	articles *articles.Store
	router   *router.Router
	log      logging.Logger

	reader *bufio.Reader
	out    io.Writer
	style  string
	width  int
}

func NewApp(d Deps) *App {
	a := &App{
		session:  d.Session,
		catalog:  d.Catalog,
		articles: d.Articles,
		router:   d.Router,
		log:      d.Logger,
		out:      d.Out,
		style:    d.Style,
		width:    d.Width,
	}
	in := d.In
	if in == nil {
		in = os.Stdin
	}
	a.reader = bufio.NewReader(in)
	if a.out == nil {
		a.out = os.Stdout
	}
	if a.log == nil {
		a.log = logging.Discard()
	}
	if a.style == "" {
		a.style = "auto"
	}
	if a.width <= 0 {
		a.width = 80
	}
	return a
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to finmate (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) getStatus() string {
	u, ok := a.session.User()
	if !ok || u.Username == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", u.Username)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// navigate moves the router to path and reports whether the view may be
// shown. A guard redirect has already been notified by the router.
func (a *App) navigate(ctx context.Context, path string) error {
	d, err := a.router.Navigate(ctx, path)
	if err != nil {
		return err
	}
	if d.Redirected {
		a.printf("-> %s (%s)\n", d.Route.Title, d.Route.Path)
		return errRedirected
	}
	return nil
}
