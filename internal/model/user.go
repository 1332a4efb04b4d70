package model

import (
	"database/sql/driver"
	"time"
)

// Roles stored in users.role. Admin and user accounts are structurally
// identical; the role only gates admin-side routes.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// RefList is a JSON column holding product ids (favorite and compare
// lists). Membership is unique per list; the toggle engine in lists.go is
// the only writer.
type RefList []uint64

// WishlistEntry pairs a product with the price the owner is waiting for.
// Notified is reserved for a price-alert scheduler that does not exist yet;
// nothing in this codebase ever sets it.
type WishlistEntry struct {
	ProductID     uint64  `json:"product"`
	ExpectedPrice float64 `json:"expectedPrice"`
	Notified      bool    `json:"notified"`
}

// Wishlist is a JSON column; at most one entry per product.
type Wishlist []WishlistEntry

// User mirrors a row of the `users` table.
type User struct {
	ID           uint64    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	FavoriteList RefList   `json:"favoriteList"`
	WishlistSet  Wishlist  `json:"wishlist"`
	Compares     RefList   `json:"compares"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (l RefList) Value() (driver.Value, error) {
	if l == nil {
		l = RefList{}
	}
	return jsonValue(l)
}
func (l *RefList) Scan(src any) error { return jsonScan(src, l) }

func (w Wishlist) Value() (driver.Value, error) {
	if w == nil {
		w = Wishlist{}
	}
	return jsonValue(w)
}
func (w *Wishlist) Scan(src any) error { return jsonScan(src, w) }
