// lists.go implements the toggle engine behind the favorite, wishlist and
// compare endpoints. A toggle is a presence-XOR: if the product is already
// a member it is removed, otherwise it is added. The functions are pure so
// the membership rules can be tested without a database; handlers load the
// owning user, apply a toggle and persist the returned slice.
package model

import "errors"

// CompareLimit caps the compare list. Comparing is pairwise in the UI.
const CompareLimit = 2

var (
	// ErrCompareFull is returned when a toggle would grow the compare
	// list past CompareLimit.
	ErrCompareFull = errors.New("compare list is full")
	// ErrExpectedPrice rejects wishlist additions without a positive
	// target price.
	ErrExpectedPrice = errors.New("expected price must be greater than zero")
)

// ToggleFavorite flips membership of productID in the favorite list and
// reports whether the product ended up added (true) or removed (false).
func ToggleFavorite(list RefList, productID uint64) (RefList, bool) {
	if i := indexOf(list, productID); i >= 0 {
		return removeAt(list, i), false
	}
	return append(list, productID), true
}

// FavoriteDelta maps a favorite toggle outcome onto the counter movement
// on the product row: +1 when the product was added, -1 when removed.
// Toggling twice therefore nets the counter to zero.
func FavoriteDelta(added bool) int64 {
	if added {
		return 1
	}
	return -1
}

// ToggleCompare behaves like ToggleFavorite but refuses to add a third
// member. Removal is always allowed.
func ToggleCompare(list RefList, productID uint64) (RefList, bool, error) {
	if i := indexOf(list, productID); i >= 0 {
		return removeAt(list, i), false, nil
	}
	if len(list) >= CompareLimit {
		return list, false, ErrCompareFull
	}
	return append(list, productID), true, nil
}

// ToggleWishlist flips wishlist membership keyed by product id only. A
// second toggle for an already-wishlisted product removes the entry even
// when the caller supplies a different expected price; it does not update
// the stored price. The expected price is validated only on the add branch.
func ToggleWishlist(list Wishlist, productID uint64, expectedPrice float64) (Wishlist, bool, error) {
	for i, e := range list {
		if e.ProductID == productID {
			out := make(Wishlist, 0, len(list)-1)
			out = append(out, list[:i]...)
			out = append(out, list[i+1:]...)
			return out, false, nil
		}
	}
	if expectedPrice <= 0 {
		return list, false, ErrExpectedPrice
	}
	return append(list, WishlistEntry{ProductID: productID, ExpectedPrice: expectedPrice}), true, nil
}

func indexOf(list RefList, id uint64) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

func removeAt(list RefList, i int) RefList {
	out := make(RefList, 0, len(list)-1)
	out = append(out, list[:i]...)
	out = append(out, list[i+1:]...)
	return out
}
