package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// urlPattern accepts http(s) URLs with at least one dot in the host.
var urlPattern = regexp.MustCompile(`^https?://[\w\-]+(\.[\w\-]+)+[/#?]?.*$`)

// PricePoint is one entry of a product's price timeline. The timeline is
// append-only and records superseded prices: an entry means "this price was
// replaced at this moment", never the price currently in effect.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// PriceTimeline is stored as a JSON column on the products table.
type PriceTimeline []PricePoint

// StringList is a JSON-encoded list column (product image URLs).
type StringList []string

// FeatureMap is a JSON-encoded string-to-string column (spec sheet rows).
type FeatureMap map[string]string

// Product mirrors a row of the `products` table. Nested fields (images,
// features, price_timeline) live in JSON columns; everything the filter
// engine touches is a plain scalar column.
type Product struct {
	ID             uint64        `json:"id"`
	URL            string        `json:"url"`
	Name           string        `json:"name"`
	Price          float64       `json:"price"`
	RegularPrice   float64       `json:"regularPrice,omitempty"`
	StockStatus    string        `json:"stockStatus"`
	Brand          string        `json:"brand"`
	Model          string        `json:"model"`
	Warranty       string        `json:"warranty"`
	Category       string        `json:"category"`
	Subcategory    string        `json:"subcategory"`
	Images         StringList    `json:"images"`
	Shop           string        `json:"shop"`
	Features       FeatureMap    `json:"features,omitempty"`
	PriceTimeline  PriceTimeline `json:"priceTimeline"`
	TotalClicks    int64         `json:"totalClicks"`
	TotalFavorites int64         `json:"totalFavorites"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// Validate checks the fields a product must carry before it is persisted.
// Messages follow the catalog import contract, so scrapers can show them
// verbatim.
func (p *Product) Validate() error {
	if p.URL == "" {
		return errors.New("product URL is required")
	}
	if !urlPattern.MatchString(p.URL) {
		return fmt.Errorf("%s is not a valid URL", p.URL)
	}
	if p.Name == "" {
		return errors.New("product name is required")
	}
	if p.Price < 0 {
		return errors.New("price cannot be negative")
	}
	if p.RegularPrice < 0 {
		return errors.New("regular price cannot be negative")
	}
	if p.Brand == "" {
		return errors.New("brand is required")
	}
	if p.Model == "" {
		return errors.New("model is required")
	}
	if p.Warranty == "" {
		return errors.New("warranty information is required")
	}
	if p.Category == "" {
		return errors.New("category is required")
	}
	if p.Subcategory == "" {
		return errors.New("subcategory is required")
	}
	if len(p.Images) == 0 {
		return errors.New("at least one image is required")
	}
	if p.Shop == "" {
		return errors.New("shop name is required")
	}
	return nil
}

// ApplyUpsert folds an incoming record into the stored one. The price that
// is about to be replaced is appended to the timeline first, so the
// timeline only ever holds superseded prices. Equal prices are recorded
// too: a repeated upsert confirms the price at that moment, it does not
// only track changes.
func (p *Product) ApplyUpsert(in Product, now time.Time) {
	p.PriceTimeline = append(p.PriceTimeline, PricePoint{Date: now, Price: p.Price})
	p.URL = in.URL
	p.Name = in.Name
	p.Price = in.Price
	p.RegularPrice = in.RegularPrice
	p.StockStatus = in.StockStatus
	p.Brand = in.Brand
	p.Model = in.Model
	p.Warranty = in.Warranty
	p.Category = in.Category
	p.Subcategory = in.Subcategory
	p.Images = in.Images
	p.Shop = in.Shop
	p.Features = in.Features
}

// --- JSON column plumbing (database/sql Scanner/Valuer) ---

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(src, dst any) error {
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(s) == 0 {
			return nil
		}
		return json.Unmarshal(s, dst)
	case string:
		if s == "" {
			return nil
		}
		return json.Unmarshal([]byte(s), dst)
	default:
		return fmt.Errorf("cannot scan %T into JSON column", src)
	}
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return jsonValue(l)
}
func (l *StringList) Scan(src any) error { return jsonScan(src, l) }

func (m FeatureMap) Value() (driver.Value, error) {
	if m == nil {
		m = FeatureMap{}
	}
	return jsonValue(m)
}
func (m *FeatureMap) Scan(src any) error { return jsonScan(src, m) }

func (t PriceTimeline) Value() (driver.Value, error) {
	if t == nil {
		t = PriceTimeline{}
	}
	return jsonValue(t)
}
func (t *PriceTimeline) Scan(src any) error { return jsonScan(src, t) }
