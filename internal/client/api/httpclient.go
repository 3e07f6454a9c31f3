package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/finmate/internal/client/models"
	"github.com/google/uuid"
)

const (
	apiPrefix  = "/api/v1"
	authPrefix = "/dj-rest-auth"

	// RequestIDHeader carries a per-request uuid for backend log correlation.
	RequestIDHeader = "X-Request-ID"
	// TokenScheme is the Authorization scheme of the backend's token auth.
	TokenScheme = "Token"

	maxBodyBytes = 8 << 20
)

type HTTPClient struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	observer Observer
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout bounds every request; zero keeps requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

// WithObserver reports every request to o.
func WithObserver(o Observer) Option {
	return func(c *HTTPClient) { c.observer = o }
}

// NewHTTPClient builds a client for the backend at baseURL
// (scheme://host[:port], no API prefix).
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be http(s)://host[:port]", baseURL)
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend base URL without trailing slash.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

type call struct {
	endpoint string
	method   string
	path     string
	query    url.Values
	token    string
	body     any
	out      any
}

func (c *HTTPClient) do(ctx context.Context, cl call) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", cl.endpoint, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", cl.endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", TokenScheme+" "+cl.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(cl.endpoint, 0, start)
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%s: %w: %w", cl.endpoint, ErrUnavailable, err)
	}
	defer resp.Body.Close()
	c.observe(cl.endpoint, resp.StatusCode, start)

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: read body: %w: %w", cl.endpoint, ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s: %w", cl.endpoint, newResponseError(resp.StatusCode, payload))
	}

	if cl.out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, cl.out); err != nil {
		return fmt.Errorf("decode %s response: %w", cl.endpoint, err)
	}
	return nil
}

func (c *HTTPClient) observe(endpoint string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(endpoint, status, time.Since(start).Seconds())
	}
}

func joinedPath(id models.ID) string {
	return apiPrefix + "/products/joined/" + url.PathEscape(id.String()) + "/"
}

func articlePath(id models.ID) string {
	return apiPrefix + "/articles/" + url.PathEscape(id.String()) + "/"
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (string, error) {
	var raw json.RawMessage
	err := c.do(ctx, call{endpoint: "auth.login", method: http.MethodPost, path: authPrefix + "/login/", body: creds, out: &raw})
	if err != nil {
		return "", err
	}
	token, err := models.DecodeLoginResponse(raw)
	if err != nil {
		return "", fmt.Errorf("auth.login: %w", err)
	}
	return token, nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	return c.do(ctx, call{endpoint: "auth.logout", method: http.MethodPost, path: authPrefix + "/logout/", token: token, body: struct{}{}})
}

func (c *HTTPClient) Register(ctx context.Context, req models.SignupRequest) error {
	return c.do(ctx, call{endpoint: "auth.registration", method: http.MethodPost, path: authPrefix + "/registration/", body: req})
}

func (c *HTTPClient) GetProfile(ctx context.Context, token string) (*models.UserProfile, error) {
	var u models.UserProfile
	if err := c.do(ctx, call{endpoint: "profile.get", method: http.MethodGet, path: apiPrefix + "/profile/", token: token, out: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}

// ReplaceProfile is PUT profile/, the older profile write endpoint.
func (c *HTTPClient) ReplaceProfile(ctx context.Context, token string, fields models.ProfileUpdate) (*models.UserProfile, error) {
	var u models.UserProfile
	if err := c.do(ctx, call{endpoint: "profile.put", method: http.MethodPut, path: apiPrefix + "/profile/", token: token, body: fields, out: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, fields models.ProfileUpdate) (*models.UserProfile, error) {
	var u models.UserProfile
	if err := c.do(ctx, call{endpoint: "profile.update", method: http.MethodPut, path: apiPrefix + "/profile/update/", token: token, body: fields, out: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) ListDeposits(ctx context.Context, kind models.ProductKind) ([]models.Product, error) {
	var out []models.Product
	q := url.Values{"type": []string{string(kind)}}
	if err := c.do(ctx, call{endpoint: "products.deposit", method: http.MethodGet, path: apiPrefix + "/products/deposit/", query: q, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListRentLoans(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, call{endpoint: "products.loan", method: http.MethodGet, path: apiPrefix + "/products/loan/rent/", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// JoinProduct enrols the user and returns the server's message.
func (c *HTTPClient) JoinProduct(ctx context.Context, token, productCode string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	path := apiPrefix + "/products/deposit/" + url.PathEscape(productCode) + "/join/"
	if err := c.do(ctx, call{endpoint: "products.join", method: http.MethodPost, path: path, token: token, body: struct{}{}, out: &out}); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *HTTPClient) UpdateJoinedProduct(ctx context.Context, token string, joinedID models.ID, upd models.JoinedProductUpdate) error {
	return c.do(ctx, call{endpoint: "products.joined.update", method: http.MethodPut, path: joinedPath(joinedID), token: token, body: upd})
}

func (c *HTTPClient) DeleteJoinedProduct(ctx context.Context, token string, joinedID models.ID) error {
	return c.do(ctx, call{endpoint: "products.joined.delete", method: http.MethodDelete, path: joinedPath(joinedID), token: token})
}

func (c *HTTPClient) Recommend(ctx context.Context, token string, req models.RecommendRequest) (*models.Recommendation, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{endpoint: "products.recommend", method: http.MethodPost, path: apiPrefix + "/products/recommend/", token: token, body: req, out: &raw}); err != nil {
		return nil, err
	}
	return &models.Recommendation{Raw: raw}, nil
}

func (c *HTTPClient) ListArticles(ctx context.Context) ([]models.Article, error) {
	var out []models.Article
	if err := c.do(ctx, call{endpoint: "articles.list", method: http.MethodGet, path: apiPrefix + "/articles/", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateArticle(ctx context.Context, token string, payload models.ArticlePayload) error {
	return c.do(ctx, call{endpoint: "articles.create", method: http.MethodPost, path: apiPrefix + "/articles/", token: token, body: payload})
}

func (c *HTTPClient) UpdateArticle(ctx context.Context, token string, id models.ID, payload models.ArticlePayload) error {
	return c.do(ctx, call{endpoint: "articles.update", method: http.MethodPut, path: articlePath(id), token: token, body: payload})
}

func (c *HTTPClient) DeleteArticle(ctx context.Context, token string, id models.ID) error {
	return c.do(ctx, call{endpoint: "articles.delete", method: http.MethodDelete, path: articlePath(id), token: token})
}
