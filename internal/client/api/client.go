package api

import (
	"context"

	"github.com/dmitrijs2005/finmate/internal/client/models"
)

// Client is the backend contract used by the stores. Methods taking a token
// send it as "Authorization: Token <token>".
type Client interface {
	Login(ctx context.Context, creds models.Credentials) (string, error)
	Logout(ctx context.Context, token string) error
	Register(ctx context.Context, req models.SignupRequest) error

	GetProfile(ctx context.Context, token string) (*models.UserProfile, error)
	ReplaceProfile(ctx context.Context, token string, fields models.ProfileUpdate) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, token string, fields models.ProfileUpdate) (*models.UserProfile, error)

	ListDeposits(ctx context.Context, kind models.ProductKind) ([]models.Product, error)
	ListRentLoans(ctx context.Context) ([]models.Product, error)
	JoinProduct(ctx context.Context, token, productCode string) (string, error)
	UpdateJoinedProduct(ctx context.Context, token string, joinedID models.ID, upd models.JoinedProductUpdate) error
	DeleteJoinedProduct(ctx context.Context, token string, joinedID models.ID) error
	Recommend(ctx context.Context, token string, req models.RecommendRequest) (*models.Recommendation, error)

	ListArticles(ctx context.Context) ([]models.Article, error)
	CreateArticle(ctx context.Context, token string, payload models.ArticlePayload) error
	UpdateArticle(ctx context.Context, token string, id models.ID, payload models.ArticlePayload) error
	DeleteArticle(ctx context.Context, token string, id models.ID) error
}

// Observer receives one call per backend request. status is 0 when no
// response arrived.
type Observer interface {
	ObserveRequest(endpoint string, status int, seconds float64)
}
