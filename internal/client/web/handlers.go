package web

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/finmate/internal/client/catalog"
	"github.com/dmitrijs2005/finmate/internal/client/models"
	"github.com/dmitrijs2005/finmate/internal/client/router"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const invalidInput = "입력값을 확인해주세요."

func (s *Server) view(r *http.Request) router.Route {
	rt, _ := s.deps.Router.Lookup(r.URL.Path)
	return rt
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, router.Home, s.view(r), nil)
}

// static serves the views that only embed third-party content.
func (s *Server) static(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "static", s.view(r), nil)
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, router.Login, s.view(r), struct{ Next string }{localPath(r.URL.Query().Get("next"), "")})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	next := localPath(r.PostForm.Get("next"), "/profile")
	creds := models.Credentials{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Password: r.PostForm.Get("password"),
	}
	if err := s.deps.Session.Login(r.Context(), creds); err != nil {
		back := "/login"
		if n := r.PostForm.Get("next"); n != "" {
			back += "?next=" + url.QueryEscape(localPath(n, "/profile"))
		}
		s.redirect(w, r, back)
		return
	}
	s.redirect(w, r, next)
}

func (s *Server) signupForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, router.Signup, s.view(r), nil)
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	age, err1 := optionalInt(r.PostForm.Get("age"))
	salary, err2 := optionalInt(r.PostForm.Get("salary"))
	assets, err3 := optionalInt(r.PostForm.Get("assets"))
	if err1 != nil || err2 != nil || err3 != nil {
		s.deps.Flash.Notify(r.Context(), invalidInput)
		s.redirect(w, r, "/signup")
		return
	}

	req := models.SignupRequest{
		Username:  strings.TrimSpace(r.PostForm.Get("username")),
		Email:     strings.TrimSpace(r.PostForm.Get("email")),
		Password1: r.PostForm.Get("password1"),
		Password2: r.PostForm.Get("password2"),
		Nickname:  strings.TrimSpace(r.PostForm.Get("nickname")),
		Age:       age,
		Salary:    salary,
		Assets:    assets,
	}
	if err := s.deps.Session.Signup(r.Context(), req); err != nil {
		s.redirect(w, r, "/signup")
		return
	}
	s.redirect(w, r, "/login")
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.deps.Session.Logout(r.Context())
	s.redirect(w, r, "/")
}

type productSection struct {
	Title    string
	Products []models.Product
	Joinable bool
}

type productsData struct {
	Sections []productSection
	Joined   map[string]bool
}

func (s *Server) products(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.deps.Catalog.FetchDeposits(ctx)
	s.deps.Catalog.FetchSavings(ctx)
	s.deps.Catalog.FetchLoans(ctx)

	data := productsData{
		Sections: []productSection{
			{Title: "정기예금", Products: s.deps.Catalog.Deposits(), Joinable: true},
			{Title: "적금", Products: s.deps.Catalog.Savings(), Joinable: true},
			{Title: "전세자금대출", Products: s.deps.Catalog.Loans()},
		},
		Joined: map[string]bool{},
	}
	if u, ok := s.deps.Session.User(); ok {
		for _, jp := range u.JoinedProducts {
			data.Joined[jp.ProductCode] = true
		}
	}
	s.render(w, r, router.Products, s.view(r), data)
}

func (s *Server) join(w http.ResponseWriter, r *http.Request) {
	_ = s.deps.Session.JoinProduct(r.Context(), chi.URLParam(r, "code"))
	s.redirect(w, r, "/products")
}

type articleView struct {
	models.Article
	Body template.HTML
	Mine bool
}

func (s *Server) community(w http.ResponseWriter, r *http.Request) {
	s.deps.Articles.Fetch(r.Context())

	u, hasUser := s.deps.Session.User()
	list := s.deps.Articles.Articles()
	views := make([]articleView, 0, len(list))
	for _, a := range list {
		body, err := s.md.Render(a.Content)
		if err != nil {
			s.log.Warn(r.Context(), "render article", "id", a.ID, "err", err)
			body = template.HTML(template.HTMLEscapeString(a.Content))
		}
		views = append(views, articleView{Article: a, Body: body, Mine: hasUser && a.Author != "" && a.Author == u.ID})
	}
	s.render(w, r, router.Community, s.view(r), views)
}

func articleForm(r *http.Request) (models.ArticlePayload, bool) {
	if err := r.ParseForm(); err != nil {
		return models.ArticlePayload{}, false
	}
	return models.ArticlePayload{
		Title:   strings.TrimSpace(r.PostForm.Get("title")),
		Content: r.PostForm.Get("content"),
	}, true
}

func (s *Server) createArticle(w http.ResponseWriter, r *http.Request) {
	payload, ok := articleForm(r)
	if !ok {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	_ = s.deps.Articles.Create(r.Context(), payload)
	s.redirect(w, r, "/community")
}

func (s *Server) updateArticle(w http.ResponseWriter, r *http.Request) {
	payload, ok := articleForm(r)
	if !ok {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	_ = s.deps.Articles.Update(r.Context(), models.ID(chi.URLParam(r, "id")), payload)
	s.redirect(w, r, "/community")
}

func (s *Server) deleteArticle(w http.ResponseWriter, r *http.Request) {
	_ = s.deps.Articles.Delete(r.Context(), models.ID(chi.URLParam(r, "id")))
	s.redirect(w, r, "/community")
}

type profileData struct {
	Expires time.Time
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	s.deps.Session.FetchProfile(r.Context())

	var data profileData
	if exp, ok := s.deps.Session.TokenExpiry(); ok {
		data.Expires = exp
	}
	s.render(w, r, router.Profile, s.view(r), data)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	age, err1 := optionalInt(r.PostForm.Get("age"))
	salary, err2 := optionalInt(r.PostForm.Get("salary"))
	assets, err3 := optionalInt(r.PostForm.Get("assets"))
	if err1 != nil || err2 != nil || err3 != nil {
		s.deps.Flash.Notify(r.Context(), invalidInput)
		s.redirect(w, r, "/profile")
		return
	}

	s.deps.Session.UpdateProfile(r.Context(), models.ProfileUpdate{Age: age, Salary: salary, Assets: assets})
	s.redirect(w, r, "/profile")
}

func (s *Server) updateJoined(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	var upd models.JoinedProductUpdate
	if v := strings.TrimSpace(r.PostForm.Get("save_trm")); v != "" {
		term, err := strconv.Atoi(v)
		if err != nil {
			s.deps.Flash.Notify(r.Context(), invalidInput)
			s.redirect(w, r, "/profile")
			return
		}
		upd.Term = &term
	}
	if v := strings.TrimSpace(r.PostForm.Get("amount")); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			s.deps.Flash.Notify(r.Context(), invalidInput)
			s.redirect(w, r, "/profile")
			return
		}
		upd.Amount = &amount
	}

	_ = s.deps.Session.UpdateJoinedProduct(r.Context(), models.ID(chi.URLParam(r, "id")), upd)
	s.redirect(w, r, "/profile")
}

func (s *Server) terminate(w http.ResponseWriter, r *http.Request) {
	_ = s.deps.Session.TerminateProduct(r.Context(), models.ID(chi.URLParam(r, "id")))
	s.redirect(w, r, "/profile")
}

type recommendData struct {
	Ready   bool
	Body    template.HTML
	Raw     string
	Applied []string
}

func (s *Server) recommendPage(w http.ResponseWriter, r *http.Request) {
	var data recommendData
	if rec, ok := s.deps.Catalog.Recommendation(); ok && s.deps.Catalog.ResultReady() {
		data.Ready = true
		data.Raw = string(rec.Raw)
		data.Applied = s.deps.Catalog.AppliedDefaults()
		if text := rec.Text(); text != "" {
			body, err := s.md.Render(text)
			if err != nil {
				s.log.Warn(r.Context(), "render recommendation", "err", err)
			}
			data.Body = body
		}
	}
	s.render(w, r, router.Recommend, s.view(r), data)
}

func (s *Server) recommend(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	s.deps.Catalog.RecommendProducts(r.Context(), strings.TrimSpace(r.PostForm.Get("purpose")), catalog.StandardDefaults)
	s.redirect(w, r, "/recommend")
}

func optionalInt(v string) (*int64, error) {
	v = strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
