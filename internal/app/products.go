package app

import (
	"context"
	"time"

	"techmart/internal/domain"
)

type ProductService struct {
	products domain.ProductRepository
	reviews  domain.ReviewRepository
	users    domain.UserRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewProductService(pr domain.ProductRepository, rr domain.ReviewRepository, ur domain.UserRepository, c domain.Cache, ttl time.Duration) *ProductService {
	return &ProductService{products: pr, reviews: rr, users: ur, cache: c, cacheTTL: ttl}
}

// ProductDetail is the single-product read model: the product plus its
// reviews in the shape the storefront consumes.
type ProductDetail struct {
	domain.Product
	Recommendations []ReviewSummary `json:"recommendations"`
}

type ReviewSummary struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"userId"`
	UserName string    `json:"userName"`
	UserType string    `json:"userType"`
	Role     string    `json:"role"`
	Rating   int       `json:"rating"`
	Title    string    `json:"title"`
	Comment  string    `json:"comment"`
	Helpful  int       `json:"helpful"`
	Date     time.Time `json:"date"`
	IsSystem bool      `json:"isSystem"`
}

func (s *ProductService) List(ctx context.Context, q domain.ProductsQuery) (domain.ProductsPage, error) {
	return s.products.ListProducts(ctx, q)
}

func (s *ProductService) Get(ctx context.Context, id int64) (ProductDetail, error) {
	key := productKey(id)
	var detail ProductDetail
	if ok, _ := s.cache.Get(ctx, key, &detail); ok {
		return detail, nil
	}

	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return ProductDetail{}, err
	}
	page, err := s.reviews.ListProductReviews(ctx, id, domain.PageQuery{Page: 1, Limit: 50})
	if err != nil {
		return ProductDetail{}, err
	}

	detail = ProductDetail{Product: p, Recommendations: make([]ReviewSummary, 0, len(page.Items))}
	for _, rv := range page.Items {
		name := rv.Username
		if name == "" {
			name = "Anonymous"
		}
		detail.Recommendations = append(detail.Recommendations, ReviewSummary{
			ID:       rv.ID,
			UserID:   rv.UserID,
			UserName: name,
			UserType: rv.UserType,
			Role:     rv.Role,
			Rating:   rv.Rating,
			Title:    rv.Title,
			Comment:  rv.Comment,
			Helpful:  rv.Helpful,
			Date:     rv.CreatedAt,
		})
	}
	_ = s.cache.Set(ctx, key, detail, int(s.cacheTTL.Seconds()))
	return detail, nil
}

type CreateProductInput struct {
	Name           string
	Category       string
	Description    string
	Price          float64
	Brand          string
	Image          string
	Features       []string
	Specifications map[string]string
	Badges         []string
	TargetAudience []string
	EducationalUse []string
	Accessibility  []string
	UseCase        []string
	InitialReview  *InitialReviewInput
}

type InitialReviewInput struct {
	Rating   int
	Title    string
	Comment  string
	UserType string
	Role     string
}

func (s *ProductService) Create(ctx context.Context, actor domain.Identity, in CreateProductInput) (domain.Product, error) {
	user, err := s.users.GetUser(ctx, actor.ID)
	if err != nil {
		return domain.Product{}, err
	}

	p := domain.Product{
		Name:           in.Name,
		Category:       in.Category,
		Description:    in.Description,
		Price:          in.Price,
		Brand:          in.Brand,
		Image:          in.Image,
		Features:       in.Features,
		Specifications: in.Specifications,
		Badges:         in.Badges,
		TargetAudience: in.TargetAudience,
		EducationalUse: in.EducationalUse,
		Accessibility:  in.Accessibility,
		UseCase:        in.UseCase,
		AddedBy:        actor.ID,
		// Every submission goes live immediately; moderation gating never
		// shipped and the public listing depends on this.
		Approved:          true,
		SystemRecommended: user.IsSystem,
		IsSystemCreated:   user.IsSystem,
	}
	if err := s.products.CreateProduct(ctx, &p); err != nil {
		return domain.Product{}, err
	}

	// An initial review rides along with the creation; it flows through the
	// normal review path so the aggregate fields come out of the aggregator.
	if ir := in.InitialReview; ir != nil && ir.Title != "" && ir.Comment != "" {
		rating := ir.Rating
		if rating == 0 {
			rating = 5
		}
		userType := ir.UserType
		role := ir.Role
		if user.IsSystem {
			userType = "administrator"
			role = "Expert Reviewer"
		} else if userType == "" {
			userType = user.UserType
			if userType == "" {
				userType = "other"
			}
		}
		rv := domain.Review{
			ProductID: p.ID,
			UserID:    actor.ID,
			Rating:    rating,
			Title:     ir.Title,
			Comment:   ir.Comment,
			UserType:  userType,
			Role:      role,
			Verified:  true,
		}
		if err := s.reviews.CreateReview(ctx, &rv); err != nil {
			return domain.Product{}, err
		}
		return s.products.GetProduct(ctx, p.ID) // pick up the recomputed aggregate
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, actor domain.Identity, id int64, patch domain.ProductPatch) (domain.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if p.AddedBy != actor.ID && !actor.IsAdmin() {
		return domain.Product{}, domain.ErrForbidden
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Brand != nil {
		p.Brand = *patch.Brand
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Features != nil {
		p.Features = patch.Features
	}
	if patch.Specifications != nil {
		p.Specifications = patch.Specifications
	}
	if patch.Badges != nil {
		p.Badges = patch.Badges
	}
	if patch.TargetAudience != nil {
		p.TargetAudience = patch.TargetAudience
	}
	if patch.EducationalUse != nil {
		p.EducationalUse = patch.EducationalUse
	}
	if patch.Accessibility != nil {
		p.Accessibility = patch.Accessibility
	}
	if patch.UseCase != nil {
		p.UseCase = patch.UseCase
	}

	if err := s.products.UpdateProduct(ctx, p); err != nil {
		return domain.Product{}, err
	}
	_ = s.cache.Del(ctx, productKey(id))
	return s.products.GetProduct(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, actor domain.Identity, id int64) error {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if p.AddedBy != actor.ID && !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Del(ctx, productKey(id))
	for _, lim := range []int{10, 20, 50} {
		_ = s.cache.Del(ctx, reviewsKey(id, 1, lim))
	}
	return nil
}

func (s *ProductService) Recommendations(ctx context.Context, q domain.RecommendationsQuery) ([]domain.Product, error) {
	if q.Limit <= 0 || q.Limit > 6 {
		q.Limit = 6
	}
	return s.products.Recommendations(ctx, q)
}

// Search answers a natural-language query ("I need a laptop for programming")
// by extracting a category and a use case and running the regular filter.
func (s *ProductService) Search(ctx context.Context, q string) ([]domain.Product, error) {
	if q == "" {
		return nil, domain.ErrInvalid
	}
	return s.products.SearchProducts(ctx, ParseSearchIntent(q), 20)
}

func (s *ProductService) ListForUser(ctx context.Context, actor domain.Identity, limit int) ([]domain.Product, error) {
	return s.products.ListUserProducts(ctx, actor.ID, limit)
}
