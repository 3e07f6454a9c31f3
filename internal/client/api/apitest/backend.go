// Package apitest provides an in-memory fake of the finance backend for tests.
//
// The fake speaks the same REST dialect as the real server (dj-rest-auth
// token auth, trailing-slash paths, field-error bodies) and records every
// request so tests can assert on what was, or was not, sent.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/finmate/internal/client/api"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Request is a recorded call.
type Request struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   []byte
}

// Account is a registered user.
type Account struct {
	ID       int
	Username string
	Email    string
	Password string
	Token    string
	Age      *int64
	Salary   *int64
	Assets   *int64
	Joined   []Joined
}

// Joined is a user's enrolment as the backend stores it.
type Joined struct {
	ID     int
	Code   string
	Name   string
	Rate   decimal.Decimal
	Term   int
	Amount decimal.Decimal
}

// Product is a catalog entry.
type Product struct {
	Code    string
	Name    string
	Company string
	Rate    decimal.Decimal
	Term    int
}

// Post is a community article. CreatedAt is sent verbatim; Django emits
// naive timestamps when USE_TZ is off.
type Post struct {
	ID        int
	Title     string
	Content   string
	Author    int
	CreatedAt string
}

type failure struct {
	status int
	body   string
}

// Backend is the fake server. It is safe for concurrent use.
type Backend struct {
	srv *httptest.Server

	mu       sync.Mutex
	accounts map[string]*Account
	deposits []Product
	savings  []Product
	loans    []Product
	posts    []Post
	reqs     []Request
	failures map[string]failure
	nextID   int

	tokenField     string
	recommendation string
}

// New starts a Backend that is closed when t finishes.
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		accounts:       map[string]*Account{},
		failures:       map[string]failure{},
		nextID:         100,
		tokenField:     "key",
		recommendation: `{"recommendation":"## 추천\n정기예금 A를 추천합니다."}`,
	}
	b.srv = httptest.NewServer(b.routes())
	t.Cleanup(b.srv.Close)
	return b
}

// URL is the backend base URL.
func (b *Backend) URL() string { return b.srv.URL }

// Close stops the server; later calls fail as unreachable.
func (b *Backend) Close() { b.srv.Close() }

// Client returns an api.HTTPClient pointed at the backend.
func (b *Backend) Client(t testing.TB, opts ...api.Option) *api.HTTPClient {
	t.Helper()
	c, err := api.NewHTTPClient(b.srv.URL, opts...)
	require.NoError(t, err)
	return c
}

// SetTokenField selects the login response field, "key" (default) or "token".
func (b *Backend) SetTokenField(field string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokenField = field
}

// SetRecommendation sets the body returned by the recommend endpoint.
func (b *Backend) SetRecommendation(body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recommendation = body
}

// AddAccount registers a user directly.
func (b *Backend) AddAccount(a Account) *Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a.ID == 0 {
		a.ID = b.id()
	}
	acc := a
	b.accounts[a.Username] = &acc
	return &acc
}

// Account returns a copy of the named account.
func (b *Backend) Account(username string) (Account, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accounts[username]
	if !ok {
		return Account{}, false
	}
	cp := *a
	cp.Joined = append([]Joined(nil), a.Joined...)
	return cp, true
}

// SetProducts replaces a catalog list; kind is deposit, saving or loan.
func (b *Backend) SetProducts(kind string, ps ...Product) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch kind {
	case "deposit":
		b.deposits = ps
	case "saving":
		b.savings = ps
	case "loan":
		b.loans = ps
	}
}

// AddPost stores an article and returns its id.
func (b *Backend) AddPost(p Post) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.ID == 0 {
		p.ID = b.id()
	}
	b.posts = append(b.posts, p)
	return p.ID
}

// Posts returns the stored articles.
func (b *Backend) Posts() []Post {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Post(nil), b.posts...)
}

// Fail makes every request to "METHOD /path/" answer status with body.
func (b *Backend) Fail(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, body: body}
}

// Requests returns the recorded requests in arrival order.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.reqs...)
}

// Count returns how many requests hit method and path.
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Last returns the latest request to method and path.
func (b *Backend) Last(method, path string) (Request, bool) {
	reqs := b.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return Request{}, false
}

// ResetRequests forgets the recorded requests.
func (b *Backend) ResetRequests() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reqs = nil
}

func (b *Backend) id() int {
	b.nextID++
	return b.nextID
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)

	r.Route("/dj-rest-auth", func(r chi.Router) {
		r.Post("/login/", b.login)
		r.Post("/logout/", b.logout)
		r.Post("/registration/", b.register)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/profile/", b.authed(b.profile))
		r.Put("/profile/", b.authed(b.updateProfile))
		r.Put("/profile/update/", b.authed(b.updateProfile))

		r.Get("/products/deposit/", b.listDeposits)
		r.Get("/products/loan/rent/", b.listLoans)
		r.Post("/products/deposit/{code}/join/", b.authed(b.join))
		r.Put("/products/joined/{id}/", b.authed(b.updateJoined))
		r.Delete("/products/joined/{id}/", b.authed(b.deleteJoined))
		r.Post("/products/recommend/", b.authed(b.recommend))

		r.Get("/articles/", b.listPosts)
		r.Post("/articles/", b.authed(b.createPost))
		r.Put("/articles/{id}/", b.authed(b.updatePost))
		r.Delete("/articles/{id}/", b.authed(b.deletePost))
	})
	return r
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		b.mu.Lock()
		b.reqs = append(b.reqs, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			Body:   body,
		})
		f, failing := b.failures[r.Method+" "+r.URL.Path]
		b.mu.Unlock()

		if failing {
			writeRaw(w, f.status, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type authedHandler func(w http.ResponseWriter, r *http.Request, acc *Account)

func (b *Backend) authed(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), api.TokenScheme+" ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Authentication credentials were not provided."})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		acc := b.byToken(token)
		if acc == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid token."})
			return
		}
		h(w, r, acc)
	}
}

func (b *Backend) byToken(token string) *Account {
	for _, a := range b.accounts {
		if a.Token == token {
			return a
		}
	}
	return nil
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	acc, ok := b.accounts[in.Username]
	field := b.tokenField
	b.mu.Unlock()

	if !ok || acc.Password != in.Password {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"non_field_errors": []string{"Unable to log in with provided credentials."},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{field: acc.Token})
}

func (b *Backend) logout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"detail": "Successfully logged out."})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password1 string `json:"password1"`
		Password2 string `json:"password2"`
		Age       *int64 `json:"age"`
		Salary    *int64 `json:"salary"`
		Assets    *int64 `json:"assets"`
	}
	if !decode(w, r, &in) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	errs := map[string][]string{}
	if in.Username == "" {
		errs["username"] = append(errs["username"], "This field is required.")
	} else if _, taken := b.accounts[in.Username]; taken {
		errs["username"] = append(errs["username"], "A user with that username already exists.")
	}
	if len(in.Password1) < 8 {
		errs["password1"] = append(errs["password1"], "This password is too short. It must contain at least 8 characters.")
	}
	if in.Password1 != in.Password2 {
		errs["non_field_errors"] = append(errs["non_field_errors"], "The two password fields didn't match.")
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	acc := &Account{
		ID: b.id(), Username: in.Username, Email: in.Email, Password: in.Password1,
		Token: "tok-" + in.Username, Age: in.Age, Salary: in.Salary, Assets: in.Assets,
	}
	b.accounts[acc.Username] = acc
	writeJSON(w, http.StatusCreated, map[string]any{"key": acc.Token})
}

func (b *Backend) profile(w http.ResponseWriter, _ *http.Request, acc *Account) {
	writeJSON(w, http.StatusOK, profileDoc(acc))
}

func (b *Backend) updateProfile(w http.ResponseWriter, r *http.Request, acc *Account) {
	var in struct {
		Age    *int64 `json:"age"`
		Salary *int64 `json:"salary"`
		Assets *int64 `json:"assets"`
	}
	if !decode(w, r, &in) {
		return
	}
	for _, v := range []*int64{in.Age, in.Salary, in.Assets} {
		if v != nil && *v < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "음수는 입력할 수 없습니다."})
			return
		}
	}
	if in.Age != nil {
		acc.Age = in.Age
	}
	if in.Salary != nil {
		acc.Salary = in.Salary
	}
	if in.Assets != nil {
		acc.Assets = in.Assets
	}
	writeJSON(w, http.StatusOK, profileDoc(acc))
}

func (b *Backend) listDeposits(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.deposits
	if r.URL.Query().Get("type") == "saving" {
		list = b.savings
	}
	writeJSON(w, http.StatusOK, productDocs(list))
}

func (b *Backend) listLoans(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, productDocs(b.loans))
}

func (b *Backend) join(w http.ResponseWriter, r *http.Request, acc *Account) {
	code := chi.URLParam(r, "code")

	var found *Product
	for _, list := range [][]Product{b.deposits, b.savings} {
		for i := range list {
			if list[i].Code == code {
				found = &list[i]
			}
		}
	}
	if found == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "상품을 찾을 수 없습니다."})
		return
	}
	for _, j := range acc.Joined {
		if j.Code == code {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "이미 가입한 상품입니다."})
			return
		}
	}

	acc.Joined = append(acc.Joined, Joined{
		ID: b.id(), Code: found.Code, Name: found.Name, Rate: found.Rate, Term: found.Term,
		Amount: decimal.NewFromInt(1000000),
	})
	writeJSON(w, http.StatusCreated, map[string]any{"message": found.Name + " 가입이 완료되었습니다."})
}

func (b *Backend) joinedIndex(w http.ResponseWriter, r *http.Request, acc *Account) (int, bool) {
	id := chi.URLParam(r, "id")
	for i, j := range acc.Joined {
		if fmt.Sprint(j.ID) == id {
			return i, true
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not found."})
	return 0, false
}

func (b *Backend) updateJoined(w http.ResponseWriter, r *http.Request, acc *Account) {
	i, ok := b.joinedIndex(w, r, acc)
	if !ok {
		return
	}
	var in struct {
		Term   *int             `json:"save_trm"`
		Amount *decimal.Decimal `json:"amount"`
	}
	if !decode(w, r, &in) {
		return
	}
	if in.Term != nil {
		acc.Joined[i].Term = *in.Term
	}
	if in.Amount != nil {
		acc.Joined[i].Amount = *in.Amount
	}
	writeJSON(w, http.StatusOK, joinedDoc(acc.Joined[i]))
}

func (b *Backend) deleteJoined(w http.ResponseWriter, r *http.Request, acc *Account) {
	i, ok := b.joinedIndex(w, r, acc)
	if !ok {
		return
	}
	acc.Joined = append(acc.Joined[:i], acc.Joined[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) recommend(w http.ResponseWriter, _ *http.Request, _ *Account) {
	writeRaw(w, http.StatusOK, b.recommendation)
}

func (b *Backend) listPosts(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]map[string]any, 0, len(b.posts))
	for _, p := range b.posts {
		out = append(out, postDoc(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createPost(w http.ResponseWriter, r *http.Request, acc *Account) {
	var in struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if !decode(w, r, &in) {
		return
	}
	if in.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"title": []string{"This field may not be blank."}})
		return
	}
	p := Post{ID: b.id(), Title: in.Title, Content: in.Content, Author: acc.ID}
	b.posts = append(b.posts, p)
	writeJSON(w, http.StatusCreated, postDoc(p))
}

func (b *Backend) postIndex(w http.ResponseWriter, r *http.Request, acc *Account) (int, bool) {
	id := chi.URLParam(r, "id")
	for i, p := range b.posts {
		if fmt.Sprint(p.ID) != id {
			continue
		}
		if p.Author != acc.ID {
			writeJSON(w, http.StatusForbidden, map[string]any{"detail": "You do not have permission to perform this action."})
			return 0, false
		}
		return i, true
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not found."})
	return 0, false
}

func (b *Backend) updatePost(w http.ResponseWriter, r *http.Request, acc *Account) {
	i, ok := b.postIndex(w, r, acc)
	if !ok {
		return
	}
	var in struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if !decode(w, r, &in) {
		return
	}
	b.posts[i].Title, b.posts[i].Content = in.Title, in.Content
	writeJSON(w, http.StatusOK, postDoc(b.posts[i]))
}

func (b *Backend) deletePost(w http.ResponseWriter, r *http.Request, acc *Account) {
	i, ok := b.postIndex(w, r, acc)
	if !ok {
		return
	}
	b.posts = append(b.posts[:i], b.posts[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func profileDoc(a *Account) map[string]any {
	joined := make([]map[string]any, 0, len(a.Joined))
	for _, j := range a.Joined {
		joined = append(joined, joinedDoc(j))
	}
	doc := map[string]any{
		"id":              a.ID,
		"username":        a.Username,
		"email":           a.Email,
		"joined_products": joined,
	}
	if a.Age != nil {
		doc["age"] = *a.Age
	}
	if a.Salary != nil {
		doc["salary"] = *a.Salary
	}
	if a.Assets != nil {
		doc["assets"] = *a.Assets
	}
	return doc
}

// joinedDoc renders a joined product with the simple-interest maturity
// amount the real backend computes. Terms go out as strings, the way the
// product API delivers them.
func joinedDoc(j Joined) map[string]any {
	years := decimal.NewFromInt(int64(j.Term)).Div(decimal.NewFromInt(12))
	interest := j.Amount.Mul(j.Rate).Div(decimal.NewFromInt(100)).Mul(years)
	return map[string]any{
		"id":              j.ID,
		"fin_prdt_cd":     j.Code,
		"fin_prdt_nm":     j.Name,
		"intr_rate":       j.Rate,
		"save_trm":        strconv.Itoa(j.Term),
		"amount":          j.Amount,
		"maturity_amount": j.Amount.Add(interest).Round(0),
	}
}

func productDocs(ps []Product) []map[string]any {
	out := make([]map[string]any, 0, len(ps))
	for _, p := range ps {
		out = append(out, map[string]any{
			"fin_prdt_cd": p.Code,
			"fin_prdt_nm": p.Name,
			"kor_co_nm":   p.Company,
			"options": []map[string]any{
				{"save_trm": strconv.Itoa(p.Term), "intr_rate_type_nm": "단리", "intr_rate": p.Rate},
			},
		})
	}
	return out
}

func postDoc(p Post) map[string]any {
	doc := map[string]any{"id": p.ID, "title": p.Title, "content": p.Content, "user": p.Author}
	if p.CreatedAt != "" {
		doc["created_at"] = p.CreatedAt
	}
	return doc
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "JSON parse error - " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
