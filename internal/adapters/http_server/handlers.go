package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"techmart/internal/app"
	"techmart/internal/domain"
)

type Handlers struct {
	Auth     *app.AuthService
	Products *app.ProductService
	Reviews  *app.ReviewService
	Tokens   domain.TokenIssuer
	AuthRPS  int
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api/auth", func(r chi.Router) {
		r.Use(RateLimit(h.AuthRPS))
		r.Post("/register", h.register)
		r.Post("/login", h.login)
	})

	s.mux.Route("/api/products", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(OptionalAuth(h.Tokens))
			r.Get("/", h.listProducts)
			r.Get("/search", h.searchProducts)
			r.Get("/recommendations", h.recommendations)
			r.Get("/{id}", h.getProduct)
		})

		r.Get("/{id}/reviews", h.listReviews)

		r.Group(func(r chi.Router) {
			r.Use(Auth(h.Tokens))
			r.Get("/user/my-products", h.myProducts)
			r.Get("/user/my-reviews", h.myReviews)
			r.Post("/", h.createProduct)
			r.Put("/{id}", h.updateProduct)
			r.Delete("/{id}", h.deleteProduct)
			r.Post("/{id}/reviews", h.createReview)
			r.Put("/reviews/{id}", h.updateReview)
			r.Delete("/reviews/{id}", h.deleteReview)
			r.Post("/reviews/{id}/helpful", h.toggleHelpful)
		})
	})
}

// ---- small parsing helpers ----

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func queryFloat(r *http.Request, key string) *float64 {
	if v := r.URL.Query().Get(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &f
		}
	}
	return nil
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
