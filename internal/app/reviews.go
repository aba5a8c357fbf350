package app

import (
	"context"
	"fmt"
	"time"

	"techmart/internal/domain"
)

// ReviewService owns the review lifecycle: one review per (product, user),
// author-gated edits, and the synchronous product aggregate recompute that
// the repository performs inside every review write.
type ReviewService struct {
	reviews  domain.ReviewRepository
	products domain.ProductRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewReviewService(rr domain.ReviewRepository, pr domain.ProductRepository, c domain.Cache, ttl time.Duration) *ReviewService {
	return &ReviewService{reviews: rr, products: pr, cache: c, cacheTTL: ttl}
}

type CreateReviewInput struct {
	Rating   int
	Title    string
	Comment  string
	Pros     []string
	Cons     []string
	UserType string
	Role     string
	UseCase  string
	Images   []string
	Verified bool
}

func (s *ReviewService) Create(ctx context.Context, actor domain.Identity, productID int64, in CreateReviewInput) (domain.Review, error) {
	// Product must exist before we accept a review for it. The FK would also
	// catch a vanished product, but this gives the 404 the API promises.
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return domain.Review{}, err
	}

	rv := domain.Review{
		ProductID: productID,
		UserID:    actor.ID,
		Rating:    in.Rating,
		Title:     in.Title,
		Comment:   in.Comment,
		Pros:      in.Pros,
		Cons:      in.Cons,
		UserType:  in.UserType,
		Role:      in.Role,
		UseCase:   in.UseCase,
		Images:    in.Images,
		Verified:  in.Verified,
	}
	if err := s.reviews.CreateReview(ctx, &rv); err != nil {
		return domain.Review{}, err
	}
	s.invalidateProduct(ctx, productID)

	return s.reviews.GetReview(ctx, rv.ID)
}

func (s *ReviewService) Update(ctx context.Context, actor domain.Identity, id int64, patch domain.ReviewPatch) (domain.Review, error) {
	rv, err := s.reviews.GetReview(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	if rv.UserID != actor.ID {
		return domain.Review{}, domain.ErrForbidden
	}

	ratingChanged := false
	if patch.Rating != nil && *patch.Rating != rv.Rating {
		rv.Rating = *patch.Rating
		ratingChanged = true
	}
	if patch.Title != nil {
		rv.Title = *patch.Title
	}
	if patch.Comment != nil {
		rv.Comment = *patch.Comment
	}
	if patch.Pros != nil {
		rv.Pros = patch.Pros
	}
	if patch.Cons != nil {
		rv.Cons = patch.Cons
	}
	if patch.UserType != nil {
		rv.UserType = *patch.UserType
	}
	if patch.Role != nil {
		rv.Role = *patch.Role
	}
	if patch.UseCase != nil {
		rv.UseCase = *patch.UseCase
	}
	if patch.Images != nil {
		rv.Images = patch.Images
	}

	if err := s.reviews.UpdateReview(ctx, rv, ratingChanged); err != nil {
		return domain.Review{}, err
	}
	s.invalidateProduct(ctx, rv.ProductID)

	return s.reviews.GetReview(ctx, id)
}

func (s *ReviewService) Delete(ctx context.Context, actor domain.Identity, id int64) error {
	rv, err := s.reviews.GetReview(ctx, id)
	if err != nil {
		return err
	}
	if rv.UserID != actor.ID && !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := s.reviews.DeleteReview(ctx, id); err != nil {
		return err
	}
	s.invalidateProduct(ctx, rv.ProductID)
	return nil
}

// ToggleHelpful flips the caller's helpful vote and returns the new count.
// Product aggregates are untouched.
func (s *ReviewService) ToggleHelpful(ctx context.Context, actor domain.Identity, reviewID int64) (int, error) {
	count, err := s.reviews.ToggleHelpful(ctx, reviewID, actor.ID)
	if err != nil {
		return 0, err
	}
	if rv, gerr := s.reviews.GetReview(ctx, reviewID); gerr == nil {
		s.invalidateProduct(ctx, rv.ProductID)
	}
	return count, nil
}

func (s *ReviewService) ListForProduct(ctx context.Context, productID int64, pg domain.PageQuery) (domain.ReviewsPage, error) {
	key := reviewsKey(productID, pg.Page, pg.Limit)
	var out domain.ReviewsPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	page, err := s.reviews.ListProductReviews(ctx, productID, pg)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	_ = s.cache.Set(ctx, key, page, int(s.cacheTTL.Seconds()))
	return page, nil
}

func (s *ReviewService) ListForUser(ctx context.Context, actor domain.Identity, limit int) ([]domain.Review, error) {
	return s.reviews.ListUserReviews(ctx, actor.ID, limit)
}

// invalidateProduct drops the cached product detail and the first pages of
// its review list. Deeper pages age out via TTL.
func (s *ReviewService) invalidateProduct(ctx context.Context, productID int64) {
	_ = s.cache.Del(ctx, productKey(productID))
	for _, lim := range []int{10, 20, 50} {
		_ = s.cache.Del(ctx, reviewsKey(productID, 1, lim))
	}
}

func productKey(id int64) string           { return fmt.Sprintf("product:%d", id) }
func reviewsKey(id int64, p, l int) string { return fmt.Sprintf("reviews:%d:%d:%d", id, p, l) }
