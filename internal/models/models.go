package models

import "time"

// Product is a read-only catalog record. The catalog is supplied externally
// as JSON and never mutated by the stores.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice,omitempty"`
	Image         string   `json:"image,omitempty"`
	Images        []string `json:"images,omitempty"`
	Category      string   `json:"category"`
	Brand         string   `json:"brand"`
	Type          string   `json:"type,omitempty"`
	Rating        float64  `json:"rating"`
	Reviews       int      `json:"reviews"`
	Badge         string   `json:"badge,omitempty"`
	Colors        []string `json:"colors,omitempty"`
	Sizes         []string `json:"sizes,omitempty"`
	Thickness     []string `json:"thickness,omitempty"`
	Description   string   `json:"description,omitempty"`
	InStock       bool     `json:"inStock"`
}

// Product badges recognized by filtering and the "newest" sort.
const (
	BadgeNew     = "new"
	BadgeSale    = "sale"
	BadgeSoldOut = "soldout"
)

// Profile is the public view of an account. The password hash never leaves
// the auth store.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	LastName  string    `json:"lastName,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Account is the persisted record shape: the public profile plus the session
// token and the password hash. The JSON field names are part of the stored
// blob format and must not change without a migration.
type Account struct {
	Profile      Profile `json:"user"`
	Token        string  `json:"token"`
	PasswordHash string  `json:"password"`
}
