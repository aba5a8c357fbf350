package httpserver

import (
	"net/http"

	"techmart/internal/app"
	"techmart/internal/domain"
)

func (h *Handlers) listProducts(w http.ResponseWriter, r *http.Request) {
	q := domain.ProductsQuery{
		Category: r.URL.Query().Get("category"),
		MinPrice: queryFloat(r, "minPrice"),
		MaxPrice: queryFloat(r, "maxPrice"),
		Search:   r.URL.Query().Get("search"),
		Sort:     r.URL.Query().Get("sort"),
		Page:     queryInt(r, "page", 1),
		Limit:    queryInt(r, "limit", 12),
	}
	if v := r.URL.Query().Get("badges"); v != "" {
		q.Badges = splitCSV(v)
	}
	if v := r.URL.Query().Get("targetAudience"); v != "" {
		q.TargetAudience = splitCSV(v)
	}
	if v := r.URL.Query().Get("useCase"); v != "" {
		q.UseCase = splitCSV(v)
	}

	page, err := h.Products.List(r.Context(), q)
	if err != nil {
		writeError(w, err, "Products not found")
		return
	}
	totalPages := (page.Total + q.Limit - 1) / q.Limit
	writeJSON(w, http.StatusOK, map[string]any{
		"products":    page.Items,
		"totalPages":  totalPages,
		"currentPage": q.Page,
		"total":       page.Total,
	})
}

func (h *Handlers) searchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeMessage(w, http.StatusBadRequest, "Search query required")
		return
	}
	products, err := h.Products.Search(r.Context(), q)
	if err != nil {
		writeError(w, err, "Products not found")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handlers) recommendations(w http.ResponseWriter, r *http.Request) {
	q := domain.RecommendationsQuery{
		UserType: r.URL.Query().Get("userType"),
		UseCase:  r.URL.Query().Get("useCase"),
		MaxPrice: queryFloat(r, "budget"),
	}
	products, err := h.Products.Recommendations(r.Context(), q)
	if err != nil {
		writeError(w, err, "Products not found")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handlers) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	detail, err := h.Products.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type initialReviewRequest struct {
	Rating   int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Title    string `json:"title" validate:"max=100"`
	Comment  string `json:"comment" validate:"max=1000"`
	UserType string `json:"userType" validate:"omitempty,oneof=student teacher director administrator parent other"`
	Role     string `json:"role" validate:"max=100"`
}

type createProductRequest struct {
	Name           string                `json:"name" validate:"required,max=255"`
	Category       string                `json:"category" validate:"required,oneof=laptop desktop tablet tablets printer software monitor webcam headset projector other"`
	Description    string                `json:"description" validate:"required"`
	Price          float64               `json:"price" validate:"gte=0"`
	Brand          string                `json:"brand" validate:"max=100"`
	Image          string                `json:"image" validate:"max=512"`
	Features       []string              `json:"features"`
	Specifications map[string]string     `json:"specifications"`
	Badges         []string              `json:"badges" validate:"dive,oneof=eco-friendly best-value top-rated new-arrival on-sale sustainable durable accessible energy-efficient student-discount bulk-pricing warranty local-support cloud-enabled portable"`
	TargetAudience []string              `json:"targetAudience" validate:"dive,oneof=student teacher director administrator parent"`
	EducationalUse []string              `json:"educationalUse"`
	Accessibility  []string              `json:"accessibility"`
	UseCase        []string              `json:"useCase" validate:"dive,oneof=teaching-online presentations programming graphic-design video-editing research writing meetings printing homework note-taking"`
	InitialReview  *initialReviewRequest `json:"initialReview"`
}

func (h *Handlers) createProduct(w http.ResponseWriter, r *http.Request) {
	actor, _ := IdentityFrom(r.Context())
	var req createProductRequest
	if !decodeBody(w, r, &req) || !checkValid(w, req) {
		return
	}

	in := app.CreateProductInput{
		Name:           req.Name,
		Category:       req.Category,
		Description:    req.Description,
		Price:          req.Price,
		Brand:          req.Brand,
		Image:          req.Image,
		Features:       req.Features,
		Specifications: req.Specifications,
		Badges:         req.Badges,
		TargetAudience: req.TargetAudience,
		EducationalUse: req.EducationalUse,
		Accessibility:  req.Accessibility,
		UseCase:        req.UseCase,
	}
	if req.InitialReview != nil {
		in.InitialReview = &app.InitialReviewInput{
			Rating:   req.InitialReview.Rating,
			Title:    req.InitialReview.Title,
			Comment:  req.InitialReview.Comment,
			UserType: req.InitialReview.UserType,
			Role:     req.InitialReview.Role,
		}
	}

	product, err := h.Products.Create(r.Context(), actor, in)
	if err != nil {
		writeError(w, err, "User not found")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Product created successfully",
		"product": product,
	})
}

type updateProductRequest struct {
	Name           *string           `json:"name" validate:"omitempty,max=255"`
	Category       *string           `json:"category" validate:"omitempty,oneof=laptop desktop tablet tablets printer software monitor webcam headset projector other"`
	Description    *string           `json:"description"`
	Price          *float64          `json:"price" validate:"omitempty,gte=0"`
	Brand          *string           `json:"brand" validate:"omitempty,max=100"`
	Image          *string           `json:"image" validate:"omitempty,max=512"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
	Badges         []string          `json:"badges" validate:"omitempty,dive,oneof=eco-friendly best-value top-rated new-arrival on-sale sustainable durable accessible energy-efficient student-discount bulk-pricing warranty local-support cloud-enabled portable"`
	TargetAudience []string          `json:"targetAudience" validate:"omitempty,dive,oneof=student teacher director administrator parent"`
	EducationalUse []string          `json:"educationalUse"`
	Accessibility  []string          `json:"accessibility"`
	UseCase        []string          `json:"useCase" validate:"omitempty,dive,oneof=teaching-online presentations programming graphic-design video-editing research writing meetings printing homework note-taking"`
}

func (h *Handlers) updateProduct(w http.ResponseWriter, r *http.Request) {
	actor, _ := IdentityFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	var req updateProductRequest
	if !decodeBody(w, r, &req) || !checkValid(w, req) {
		return
	}

	patch := domain.ProductPatch{
		Name:           req.Name,
		Category:       req.Category,
		Description:    req.Description,
		Price:          req.Price,
		Brand:          req.Brand,
		Image:          req.Image,
		Features:       req.Features,
		Specifications: req.Specifications,
		Badges:         req.Badges,
		TargetAudience: req.TargetAudience,
		EducationalUse: req.EducationalUse,
		Accessibility:  req.Accessibility,
		UseCase:        req.UseCase,
	}
	product, err := h.Products.Update(r.Context(), actor, id, patch)
	if err != nil {
		writeError(w, err, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Product updated successfully",
		"product": product,
	})
}

func (h *Handlers) deleteProduct(w http.ResponseWriter, r *http.Request) {
	actor, _ := IdentityFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	if err := h.Products.Delete(r.Context(), actor, id); err != nil {
		writeError(w, err, "Product not found")
		return
	}
	writeMessage(w, http.StatusOK, "Product deleted successfully")
}

func (h *Handlers) myProducts(w http.ResponseWriter, r *http.Request) {
	actor, _ := IdentityFrom(r.Context())
	products, err := h.Products.ListForUser(r.Context(), actor, 10)
	if err != nil {
		writeError(w, err, "Products not found")
		return
	}
	writeJSON(w, http.StatusOK, products)
}
