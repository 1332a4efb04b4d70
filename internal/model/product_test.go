package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProduct() Product {
	return Product{
		URL:         "https://shop.example.com/p/laptop-123",
		Name:        "Laptop 123",
		Price:       999,
		StockStatus: "In Stock",
		Brand:       "Acme",
		Model:       "L123",
		Warranty:    "1 year",
		Category:    "Computers",
		Subcategory: "Laptops",
		Images:      StringList{"https://cdn.example.com/1.jpg"},
		Shop:        "example",
	}
}

func TestValidate(t *testing.T) {
	p := validProduct()
	require.NoError(t, p.Validate())

	cases := []struct {
		name   string
		mutate func(*Product)
		msg    string
	}{
		{"missing url", func(p *Product) { p.URL = "" }, "product URL is required"},
		{"bad url", func(p *Product) { p.URL = "not-a-url" }, "not-a-url is not a valid URL"},
		{"no scheme", func(p *Product) { p.URL = "shop.example.com/p/1" }, "shop.example.com/p/1 is not a valid URL"},
		{"missing name", func(p *Product) { p.Name = "" }, "product name is required"},
		{"negative price", func(p *Product) { p.Price = -1 }, "price cannot be negative"},
		{"missing brand", func(p *Product) { p.Brand = "" }, "brand is required"},
		{"missing images", func(p *Product) { p.Images = nil }, "at least one image is required"},
		{"missing shop", func(p *Product) { p.Shop = "" }, "shop name is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validProduct()
			tc.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Equal(t, tc.msg, err.Error())
		})
	}
}

func TestValidateAllowsFreeAndDiscountedPrices(t *testing.T) {
	p := validProduct()
	p.Price = 0
	assert.NoError(t, p.Validate())
}

func TestApplyUpsertAppendsSupersededPrice(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	stored := validProduct()
	stored.ID = 42
	stored.Price = 999

	in := validProduct()
	in.Price = 899
	in.StockStatus = "Out of Stock"

	stored.ApplyUpsert(in, now)

	require.Len(t, stored.PriceTimeline, 1)
	assert.Equal(t, PricePoint{Date: now, Price: 999}, stored.PriceTimeline[0])
	assert.Equal(t, 899.0, stored.Price)
	assert.Equal(t, "Out of Stock", stored.StockStatus)
	assert.Equal(t, uint64(42), stored.ID)
}

func TestApplyUpsertRecordsUnchangedPrice(t *testing.T) {
	// A repeated upsert at the same price still lands on the timeline;
	// the timeline records every refresh, not only changes.
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(24 * time.Hour)

	stored := validProduct()
	stored.ApplyUpsert(validProduct(), now)
	stored.ApplyUpsert(validProduct(), later)

	require.Len(t, stored.PriceTimeline, 2)
	assert.Equal(t, stored.PriceTimeline[0].Price, stored.PriceTimeline[1].Price)
	assert.Equal(t, later, stored.PriceTimeline[1].Date)
}

func TestApplyUpsertKeepsExistingTimeline(t *testing.T) {
	old := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	now := old.Add(30 * 24 * time.Hour)

	stored := validProduct()
	stored.Price = 1100
	stored.PriceTimeline = PriceTimeline{{Date: old, Price: 1200}}

	in := validProduct()
	in.Price = 999
	stored.ApplyUpsert(in, now)

	require.Len(t, stored.PriceTimeline, 2)
	assert.Equal(t, 1200.0, stored.PriceTimeline[0].Price)
	assert.Equal(t, PricePoint{Date: now, Price: 1100}, stored.PriceTimeline[1])
}

func TestJSONColumnRoundTrip(t *testing.T) {
	tl := PriceTimeline{{Date: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), Price: 10}}
	v, err := tl.Value()
	require.NoError(t, err)

	var got PriceTimeline
	require.NoError(t, got.Scan(v))
	assert.Equal(t, tl, got)

	// NULL column stays a nil slice.
	var empty PriceTimeline
	require.NoError(t, empty.Scan(nil))
	assert.Nil(t, empty)
}
