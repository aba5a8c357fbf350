package httpserver

import (
	"errors"
	"net/http"

	"techmart/internal/adapters/observability"
	"techmart/internal/app"
	"techmart/internal/domain"
)

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	pg := domain.PageQuery{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 10),
	}
	page, err := h.Reviews.ListForProduct(r.Context(), id, pg)
	if err != nil {
		writeError(w, err, "Reviews not found")
		return
	}
	totalPages := (page.Total + pg.Limit - 1) / pg.Limit
	writeJSON(w, http.StatusOK, map[string]any{
		"reviews":     page.Items,
		"totalPages":  totalPages,
		"currentPage": pg.Page,
		"total":       page.Total,
	})
}

type createReviewRequest struct {
	Rating   int      `json:"rating" validate:"required,min=1,max=5"`
	Title    string   `json:"title" validate:"required,max=100"`
	Comment  string   `json:"comment" validate:"required,max=1000"`
	Pros     []string `json:"pros"`
	Cons     []string `json:"cons"`
	UserType string   `json:"userType" validate:"omitempty,oneof=student teacher director administrator parent other"`
	Role     string   `json:"role" validate:"max=100"`
	UseCase  string   `json:"useCase" validate:"omitempty,oneof=teaching-online presentations programming graphic-design video-editing research writing meetings printing homework note-taking"`
	Images   []string `json:"images"`
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	actor, _ := IdentityFrom(r.Context())
	productID, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	var req createReviewRequest
	if !decodeBody(w, r, &req) || !checkValid(w, req) {
		return
	}

	review, err := h.Reviews.Create(r.Context(), actor, productID, app.CreateReviewInput{
		Rating:   req.Rating,
		Title:    req.Title,
		Comment:  req.Comment,
		Pros:     req.Pros,
		Cons:     req.Cons,
		UserType: req.UserType,
		Role:     req.Role,
		UseCase:  req.UseCase,
		Images:   req.Images,
	})
	if err != nil {
		observability.ObserveReviewWrite("create", outcomeLabel(err))
		if errors.Is(err, domain.ErrConflict) {
			writeMessage(w, http.StatusConflict, "You have already reviewed this product")
			return
		}
		writeError(w, err, "Product not found")
		return
	}
	observability.ObserveReviewWrite("create", "ok")
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Review added successfully",
		"review":  review,
	})
}

type updateReviewRequest struct {
	Rating   *int     `json:"rating" validate:"omitempty,min=1,max=5"`
	Title    *string  `json:"title" validate:"omitempty,max=100"`
	Comment  *string  `json:"comment" validate:"omitempty,max=1000"`
	Pros     []string `json:"pros"`
	Cons     []string `json:"cons"`
	UserType *string  `json:"userType" validate:"omitempty,oneof=student teacher director administrator parent other"`
	Role     *string  `json:"role"`
	UseCase  *string  `json:"useCase" validate:"omitempty,oneof=teaching-online presentations programming graphic-design video-editing research writing meetings printing homework note-taking"`
	Images   []string `json:"images"`
}

func (h *Handlers) updateReview(w http.ResponseWriter, r *http.Request) {
	actor, _ := IdentityFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid review ID")
		return
	}
	var req updateReviewRequest
	if !decodeBody(w, r, &req) || !checkValid(w, req) {
		return
	}

	review, err := h.Reviews.Update(r.Context(), actor, id, domain.ReviewPatch{
		Rating:   req.Rating,
		Title:    req.Title,
		Comment:  req.Comment,
		Pros:     req.Pros,
		Cons:     req.Cons,
		UserType: req.UserType,
		Role:     req.Role,
		UseCase:  req.UseCase,
		Images:   req.Images,
	})
	if err != nil {
		observability.ObserveReviewWrite("update", outcomeLabel(err))
		writeError(w, err, "Review not found")
		return
	}
	observability.ObserveReviewWrite("update", "ok")
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Review updated successfully",
		"review":  review,
	})
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	actor, _ := IdentityFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid review ID")
		return
	}
	if err := h.Reviews.Delete(r.Context(), actor, id); err != nil {
		observability.ObserveReviewWrite("delete", outcomeLabel(err))
		writeError(w, err, "Review not found")
		return
	}
	observability.ObserveReviewWrite("delete", "ok")
	writeMessage(w, http.StatusOK, "Review deleted successfully")
}

func (h *Handlers) toggleHelpful(w http.ResponseWriter, r *http.Request) {
	actor, _ := IdentityFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid review ID")
		return
	}
	count, err := h.Reviews.ToggleHelpful(r.Context(), actor, id)
	if err != nil {
		writeError(w, err, "Review not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Review helpful status updated",
		"helpfulCount": count,
	})
}

func (h *Handlers) myReviews(w http.ResponseWriter, r *http.Request) {
	actor, _ := IdentityFrom(r.Context())
	reviews, err := h.Reviews.ListForUser(r.Context(), actor, 10)
	if err != nil {
		writeError(w, err, "Reviews not found")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
