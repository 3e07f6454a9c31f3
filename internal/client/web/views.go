package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dmitrijs2005/finmate/internal/client/models"
	"github.com/dmitrijs2005/finmate/internal/client/render"
	"github.com/dmitrijs2005/finmate/internal/client/router"
)

var pageNames = []string{
	router.Home, router.Login, router.Signup, router.Products, "static",
	router.Community, router.Profile, router.Recommend,
}

type page struct {
	Title         string
	Routes        []router.Route
	Current       string
	Authenticated bool
	User          *models.UserProfile
	Flash         []string
	CSRF          string
	Data          any
}

func (s *Server) parseTemplates() error {
	funcs := template.FuncMap{
		"krw":      render.KRW,
		"won":      render.Won,
		"optkrw":   render.OptionalKRW,
		"optwon":   render.OptionalWon,
		"percent":  render.Percent,
		"bestRate": func(p models.Product) string {
			if rate, ok := p.BestRate(); ok {
				return render.Percent(rate)
			}
			return "-"
		},
	}

	s.pages = make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return fmt.Errorf("parse %s template: %w", name, err)
		}
		s.pages[name] = t
	}
	return nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, tmpl string, rt router.Route, data any) {
	p := page{
		Title:         rt.Title,
		Routes:        router.Routes,
		Current:       rt.Name,
		Authenticated: s.deps.Session.IsAuthenticated(),
		Flash:         s.deps.Flash.Drain(),
		CSRF:          csrfToken(r),
		Data:          data,
	}
	if u, ok := s.deps.Session.User(); ok {
		p.User = &u
	}

	var buf bytes.Buffer
	if err := s.pages[tmpl].Execute(&buf, p); err != nil {
		s.log.Error(r.Context(), "render page", "page", tmpl, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
