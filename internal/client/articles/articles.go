// Package articles caches the community board and performs its mutations.
// Every successful mutation re-fetches the whole list.
package articles

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/finmate/internal/client/api"
	"github.com/dmitrijs2005/finmate/internal/client/models"
	"github.com/dmitrijs2005/finmate/internal/client/notify"
	"github.com/dmitrijs2005/finmate/internal/logging"
)

// TokenSource supplies the session token used to authorize mutations.
type TokenSource interface {
	Token() string
}

type Store struct {
	client api.Client
	tokens TokenSource
	notify notify.Notifier
	log    logging.Logger

	mu       sync.RWMutex
	articles []models.Article
}

// New builds a Store. n and log may be nil.
func New(c api.Client, tokens TokenSource, n notify.Notifier, log logging.Logger) *Store {
	if n == nil {
		n = notify.Func(func(context.Context, string) {})
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Store{client: c, tokens: tokens, notify: n, log: log.With("component", "articles")}
}

// Fetch replaces the cached list. Failures are logged; the old list stays.
func (s *Store) Fetch(ctx context.Context) {
	list, err := s.client.ListArticles(ctx)
	if err != nil {
		s.log.Error(ctx, "article list fetch failed", "err", err)
		return
	}
	if list == nil {
		list = []models.Article{}
	}
	s.mu.Lock()
	s.articles = list
	s.mu.Unlock()
}

// Articles returns a copy of the cached list.
func (s *Store) Articles() []models.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Article(nil), s.articles...)
}

// Get looks an article up in the cached list.
func (s *Store) Get(id models.ID) (models.Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.articles {
		if a.ID == id {
			return a, true
		}
	}
	return models.Article{}, false
}

// Create posts a new article. A failure is notified as a missing login and
// returned so the caller can stay on the form; callers are not expected to
// surface it further.
func (s *Store) Create(ctx context.Context, payload models.ArticlePayload) error {
	if err := s.client.CreateArticle(ctx, s.tokens.Token(), payload); err != nil {
		s.log.Error(ctx, "article create failed", "err", err)
		s.notify.Notify(ctx, notify.LoginRequired)
		return err
	}
	s.Fetch(ctx)
	return nil
}

// Update replaces title and content of article id.
func (s *Store) Update(ctx context.Context, id models.ID, payload models.ArticlePayload) error {
	if err := s.client.UpdateArticle(ctx, s.tokens.Token(), id, payload); err != nil {
		s.log.Error(ctx, "article update failed", "id", id, "err", err)
		s.notify.Notify(ctx, notify.UpdateDenied)
		return err
	}
	s.Fetch(ctx)
	return nil
}

// Delete removes article id.
func (s *Store) Delete(ctx context.Context, id models.ID) error {
	if err := s.client.DeleteArticle(ctx, s.tokens.Token(), id); err != nil {
		s.log.Error(ctx, "article delete failed", "id", id, "err", err)
		s.notify.Notify(ctx, notify.DeleteDenied)
		return err
	}
	s.Fetch(ctx)
	return nil
}
