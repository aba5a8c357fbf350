package domain

import "time"

type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	UserID    int64     `json:"userId"`
	Rating    int       `json:"rating"` // 1..5
	Title     string    `json:"title"`
	Comment   string    `json:"comment"`
	Pros      []string  `json:"pros"`
	Cons      []string  `json:"cons"`
	UserType  string    `json:"userType,omitempty"`
	Role      string    `json:"role,omitempty"`
	UseCase   string    `json:"useCase,omitempty"`
	Verified  bool      `json:"verified"`
	Helpful   int       `json:"helpful"` // size of the helpful-voter set
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Joined on reads, never written back.
	Username     string `json:"userName,omitempty"`
	ProductName  string `json:"productName,omitempty"`
	ProductImage string `json:"productImage,omitempty"`
}

// ReviewPatch is the whitelist of author-editable fields.
type ReviewPatch struct {
	Rating   *int
	Title    *string
	Comment  *string
	Pros     []string
	Cons     []string
	UserType *string
	Role     *string
	UseCase  *string
	Images   []string
}

type PageQuery struct {
	Page  int
	Limit int
}

type ReviewsPage struct {
	Items []Review
	Total int
}
