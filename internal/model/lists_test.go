package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleFavorite(t *testing.T) {
	list, added := ToggleFavorite(nil, 7)
	require.True(t, added)
	assert.Equal(t, RefList{7}, list)

	list, added = ToggleFavorite(list, 9)
	require.True(t, added)
	assert.Equal(t, RefList{7, 9}, list)

	// Second toggle of the same product removes it, leaving the rest.
	list, added = ToggleFavorite(list, 7)
	assert.False(t, added)
	assert.Equal(t, RefList{9}, list)
}

func TestToggleFavoriteDoubleToggleRoundTrips(t *testing.T) {
	start := RefList{1, 2, 3}
	mid, added := ToggleFavorite(start, 4)
	require.True(t, added)
	end, added := ToggleFavorite(mid, 4)
	require.False(t, added)
	assert.Equal(t, start, end)
}

func TestFavoriteDeltaNetsToZeroOverDoubleToggle(t *testing.T) {
	assert.Equal(t, int64(1), FavoriteDelta(true))
	assert.Equal(t, int64(-1), FavoriteDelta(false))

	// Add then remove moves the product counter by a net zero.
	list, added := ToggleFavorite(nil, 4)
	delta := FavoriteDelta(added)
	_, added = ToggleFavorite(list, 4)
	delta += FavoriteDelta(added)
	assert.Zero(t, delta)
}

func TestToggleCompareCap(t *testing.T) {
	list, added, err := ToggleCompare(nil, 1)
	require.NoError(t, err)
	require.True(t, added)

	list, added, err = ToggleCompare(list, 2)
	require.NoError(t, err)
	require.True(t, added)

	// Third distinct product is refused and the list is untouched.
	got, added, err := ToggleCompare(list, 3)
	assert.ErrorIs(t, err, ErrCompareFull)
	assert.False(t, added)
	assert.Equal(t, RefList{1, 2}, got)

	// Removal still works at the cap.
	got, added, err = ToggleCompare(list, 1)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, RefList{2}, got)
}

func TestToggleWishlistAddRequiresPositivePrice(t *testing.T) {
	for _, price := range []float64{0, -10} {
		got, added, err := ToggleWishlist(nil, 5, price)
		assert.ErrorIs(t, err, ErrExpectedPrice)
		assert.False(t, added)
		assert.Empty(t, got)
	}

	got, added, err := ToggleWishlist(nil, 5, 1200)
	require.NoError(t, err)
	require.True(t, added)
	require.Len(t, got, 1)
	assert.Equal(t, WishlistEntry{ProductID: 5, ExpectedPrice: 1200}, got[0])
}

func TestToggleWishlistSecondToggleRemovesIgnoringPrice(t *testing.T) {
	list := Wishlist{
		{ProductID: 5, ExpectedPrice: 1200},
		{ProductID: 8, ExpectedPrice: 300},
	}

	// The new price is neither validated nor stored on the remove branch.
	got, added, err := ToggleWishlist(list, 5, -999)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, Wishlist{{ProductID: 8, ExpectedPrice: 300}}, got)
}
