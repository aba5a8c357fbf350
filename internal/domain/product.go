package domain

import "time"

type Product struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Category          string            `json:"category"`
	Description       string            `json:"description"`
	Price             float64           `json:"price"`
	Brand             string            `json:"brand"`
	Image             string            `json:"image"`
	Features          []string          `json:"features"`
	Specifications    map[string]string `json:"specifications,omitempty"`
	Badges            []string          `json:"badges"`
	Rating            float64           `json:"rating"`      // derived, mean of review ratings
	ReviewCount       int               `json:"reviewCount"` // derived, size of review set
	SystemRecommended bool              `json:"systemRecommended"`
	IsSystemCreated   bool              `json:"isSystemCreated"`
	TargetAudience    []string          `json:"targetAudience"`
	EducationalUse    []string          `json:"educationalUse"`
	Accessibility     []string          `json:"accessibility"`
	UseCase           []string          `json:"useCase"`
	AddedBy           int64             `json:"addedBy"`
	Approved          bool              `json:"approved"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

var Categories = []string{
	"laptop", "desktop", "tablet", "tablets", "printer", "software",
	"monitor", "webcam", "headset", "projector", "other",
}

var Badges = []string{
	"eco-friendly", "best-value", "top-rated", "new-arrival", "on-sale",
	"sustainable", "durable", "accessible", "energy-efficient", "student-discount",
	"bulk-pricing", "warranty", "local-support", "cloud-enabled", "portable",
}

var Audiences = []string{"student", "teacher", "director", "administrator", "parent"}

var UseCases = []string{
	"teaching-online", "presentations", "programming", "graphic-design", "video-editing",
	"research", "writing", "meetings", "printing", "homework", "note-taking",
}

// ProductPatch is the whitelist of fields a product update may change.
// Derived fields (rating, reviewCount), ownership and moderation flags are
// deliberately absent so a request body can never overwrite them.
type ProductPatch struct {
	Name           *string
	Category       *string
	Description    *string
	Price          *float64
	Brand          *string
	Image          *string
	Features       []string
	Specifications map[string]string
	Badges         []string
	TargetAudience []string
	EducationalUse []string
	Accessibility  []string
	UseCase        []string
}

// ProductsQuery carries the public listing filters. Zero values mean
// "no constraint"; Approved is always forced on by the builder.
type ProductsQuery struct {
	Category       string
	MinPrice       *float64
	MaxPrice       *float64
	Badges         []string
	TargetAudience []string
	UseCase        []string
	Search         string
	Sort           string // price-asc | price-desc | rating | newest | "" (default)
	Page           int
	Limit          int
}

type ProductsPage struct {
	Items []Product
	Total int
}

// RecommendationsQuery narrows the approved+systemRecommended set.
type RecommendationsQuery struct {
	UserType string
	UseCase  string
	MaxPrice *float64
	Limit    int
}

// SearchIntent is the result of parsing a natural-language query.
type SearchIntent struct {
	Category string
	UseCase  string
}
