package domain

import "context"

type UserRepository interface {
	CreateUser(ctx context.Context, u *User) error // ErrConflict on duplicate email
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id int64) (Product, error)
	ListProducts(ctx context.Context, q ProductsQuery) (ProductsPage, error)
	Recommendations(ctx context.Context, q RecommendationsQuery) ([]Product, error)
	SearchProducts(ctx context.Context, intent SearchIntent, limit int) ([]Product, error)
	ListUserProducts(ctx context.Context, userID int64, limit int) ([]Product, error)
	UpdateProduct(ctx context.Context, p Product) error
	DeleteProduct(ctx context.Context, id int64) error // reviews cascade with the product
}

// ReviewRepository owns the review set and the product aggregate fields.
// Every write recomputes rating/reviewCount inside the same transaction;
// nothing else in the system is allowed to touch those two columns.
type ReviewRepository interface {
	CreateReview(ctx context.Context, r *Review) error // ErrConflict when (product,user) already reviewed
	GetReview(ctx context.Context, id int64) (Review, error)
	ListProductReviews(ctx context.Context, productID int64, pg PageQuery) (ReviewsPage, error)
	ListUserReviews(ctx context.Context, userID int64, limit int) ([]Review, error)
	UpdateReview(ctx context.Context, r Review, ratingChanged bool) error
	DeleteReview(ctx context.Context, id int64) error
	ToggleHelpful(ctx context.Context, reviewID, userID int64) (int, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type TokenIssuer interface {
	Issue(id Identity) (string, error)
	Verify(token string) (Identity, error)
}
