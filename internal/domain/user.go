package domain

import "time"

type User struct {
	ID           int64       `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         string      `json:"role"`     // user | admin | moderator
	UserType     string      `json:"userType"` // student | teacher | director | administrator | parent | other
	Preferences  Preferences `json:"preferences"`
	IsSystem     bool        `json:"isSystem"`
	IsActive     bool        `json:"isActive"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

type Preferences struct {
	Language      string `json:"language"` // en | fr
	Theme         string `json:"theme"`    // light | dark
	Notifications bool   `json:"notifications"`
}

// Identity is what the auth middleware extracts from a bearer token.
type Identity struct {
	ID   int64
	Role string
}

func (i Identity) IsAdmin() bool { return i.Role == "admin" }
