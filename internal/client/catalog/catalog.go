// Package catalog caches the product lists and the latest recommendation.
package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/finmate/internal/client/api"
	"github.com/dmitrijs2005/finmate/internal/client/models"
	"github.com/dmitrijs2005/finmate/internal/client/notify"
	"github.com/dmitrijs2005/finmate/internal/logging"
)

// ErrNotAuthenticated is returned by operations that need a session token.
var ErrNotAuthenticated = errors.New("not authenticated")

// Session is the read side of the session the catalog needs.
type Session interface {
	IsAuthenticated() bool
	Token() string
	User() (models.UserProfile, bool)
}

// Defaults are substituted for profile fields that are absent or zero when
// building a recommendation request.
type Defaults struct {
	Age    int64
	Salary int64
	Assets int64
}

// StandardDefaults are the figures the recommendation service was tuned with.
var StandardDefaults = Defaults{Age: 30, Salary: 40000000, Assets: 10000000}

type Store struct {
	client  api.Client
	session Session
	notify  notify.Notifier
	log     logging.Logger

	mu             sync.RWMutex
	deposits       []models.Product
	savings        []models.Product
	loans          []models.Product
	recommendation *models.Recommendation
	ready          bool
	applied        []string
}

// New builds a Store. n and log may be nil.
func New(c api.Client, s Session, n notify.Notifier, log logging.Logger) *Store {
	if n == nil {
		n = notify.Func(func(context.Context, string) {})
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Store{client: c, session: s, notify: n, log: log.With("component", "catalog")}
}

// FetchDeposits replaces the deposit list. On failure the previous list is kept.
func (s *Store) FetchDeposits(ctx context.Context) {
	s.fetch(ctx, models.KindDeposit, func() ([]models.Product, error) {
		return s.client.ListDeposits(ctx, models.KindDeposit)
	})
}

// FetchSavings replaces the savings list.
func (s *Store) FetchSavings(ctx context.Context) {
	s.fetch(ctx, models.KindSaving, func() ([]models.Product, error) {
		return s.client.ListDeposits(ctx, models.KindSaving)
	})
}

// FetchLoans replaces the rent-loan list.
func (s *Store) FetchLoans(ctx context.Context) {
	s.fetch(ctx, models.KindLoan, func() ([]models.Product, error) {
		return s.client.ListRentLoans(ctx)
	})
}

func (s *Store) fetch(ctx context.Context, kind models.ProductKind, list func() ([]models.Product, error)) {
	products, err := list()
	if err != nil {
		s.log.Error(ctx, "product list fetch failed", "kind", kind, "err", err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case models.KindDeposit:
		s.deposits = products
	case models.KindSaving:
		s.savings = products
	case models.KindLoan:
		s.loans = products
	}
}

// Deposits returns a copy of the cached deposit list. Empty means either no
// data yet or a failed fetch.
func (s *Store) Deposits() []models.Product { return s.list(models.KindDeposit) }

func (s *Store) Savings() []models.Product { return s.list(models.KindSaving) }

func (s *Store) Loans() []models.Product { return s.list(models.KindLoan) }

func (s *Store) list(kind models.ProductKind) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var src []models.Product
	switch kind {
	case models.KindDeposit:
		src = s.deposits
	case models.KindSaving:
		src = s.savings
	case models.KindLoan:
		src = s.loans
	}
	return append([]models.Product(nil), src...)
}

// Find looks a product up by code across all cached lists.
func (s *Store) Find(code string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, list := range [][]models.Product{s.deposits, s.savings, s.loans} {
		for _, p := range list {
			if p.Code == code {
				return p, true
			}
		}
	}
	return models.Product{}, false
}

// BuildRequest assembles the recommendation payload from the session
// profile, substituting d for absent or zero fields. It also returns the
// names of the substituted fields.
func BuildRequest(u models.UserProfile, purpose string, d Defaults) (models.RecommendRequest, []string) {
	var applied []string
	pick := func(name string, v *int64, def int64) int64 {
		if v == nil || *v == 0 {
			applied = append(applied, name)
			return def
		}
		return *v
	}
	req := models.RecommendRequest{
		Age:     pick("age", u.Age, d.Age),
		Salary:  pick("salary", u.Salary, d.Salary),
		Money:   pick("assets", u.Assets, d.Assets),
		Purpose: purpose,
	}
	return req, applied
}

// RecommendProducts asks the backend for a recommendation. It reports
// success instead of returning an error; without a session it sends nothing.
func (s *Store) RecommendProducts(ctx context.Context, purpose string, d Defaults) bool {
	if !s.session.IsAuthenticated() {
		s.notify.Notify(ctx, notify.LoginRequiredService)
		return false
	}

	u, _ := s.session.User()
	req, applied := BuildRequest(u, purpose, d)
	if len(applied) > 0 {
		s.log.Warn(ctx, "recommendation uses default profile figures", "fields", applied)
	}

	rec, err := s.client.Recommend(ctx, s.session.Token(), req)
	if err != nil {
		s.log.Error(ctx, "recommendation failed", "err", err)
		s.notify.Notify(ctx, notify.RecommendFailed)
		return false
	}

	s.mu.Lock()
	s.recommendation = rec
	s.ready = true
	s.applied = applied
	s.mu.Unlock()
	return true
}

// Recommendation returns the latest result.
func (s *Store) Recommendation() (models.Recommendation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.recommendation == nil {
		return models.Recommendation{}, false
	}
	return *s.recommendation, true
}

// ResultReady reports whether a result is available for display.
func (s *Store) ResultReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// AppliedDefaults lists the fields that were defaulted in the latest
// successful request.
func (s *Store) AppliedDefaults() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.applied...)
}

// ClearRecommendation drops the latest result.
func (s *Store) ClearRecommendation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recommendation = nil
	s.ready = false
	s.applied = nil
}
