package repository

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/mahirlabib/pricescope/internal/model"
)

const productColumns = "id,url,name,price,regular_price,stock_status,brand,model,warranty," +
	"category,subcategory,images,shop,features,price_timeline,total_clicks,total_favorites," +
	"created_at,updated_at"

type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

func scanProduct(row interface{ Scan(...any) error }) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.URL, &p.Name, &p.Price, &p.RegularPrice, &p.StockStatus,
		&p.Brand, &p.Model, &p.Warranty, &p.Category, &p.Subcategory, &p.Images,
		&p.Shop, &p.Features, &p.PriceTimeline, &p.TotalClicks, &p.TotalFavorites,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// GetByID fetches a product by primary key.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
	return scanProduct(r.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id=? LIMIT 1", id))
}

// GetByURL fetches a product by its unique url, the natural key of the
// upsert path.
func (r *ProductRepo) GetByURL(ctx context.Context, url string) (model.Product, error) {
	return scanProduct(r.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE url=? LIMIT 1", url))
}

// Create inserts a new product and returns its id. The price timeline
// starts empty; it only ever gains entries through UpsertByURL.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO products
		 (url,name,price,regular_price,stock_status,brand,model,warranty,
		  category,subcategory,images,shop,features,price_timeline)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.URL, p.Name, p.Price, p.RegularPrice, p.StockStatus, p.Brand, p.Model,
		p.Warranty, p.Category, p.Subcategory, p.Images, p.Shop, p.Features, p.PriceTimeline)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrURLExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	p.ID = uint64(id)
	return p.ID, nil
}

// Update overwrites all mutable fields of a product row, counters
// excluded. Counters move only through the atomic increments below.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE products SET url=?,name=?,price=?,regular_price=?,stock_status=?,brand=?,
		 model=?,warranty=?,category=?,subcategory=?,images=?,shop=?,features=?,price_timeline=?
		 WHERE id=?`,
		p.URL, p.Name, p.Price, p.RegularPrice, p.StockStatus, p.Brand, p.Model,
		p.Warranty, p.Category, p.Subcategory, p.Images, p.Shop, p.Features, p.PriceTimeline, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports 0 affected rows for a no-op update too; confirm
		// the row is really gone before calling it missing.
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// UpsertByURL creates the product when the url is unseen and otherwise
// replays the incoming fields over the stored row after pushing the
// superseded price onto the timeline. It returns the saved product, the
// price that was in effect before the call and whether a row was created.
func (r *ProductRepo) UpsertByURL(ctx context.Context, in model.Product, now time.Time) (model.Product, float64, bool, error) {
	existing, err := r.GetByURL(ctx, in.URL)
	if errors.Is(err, ErrNotFound) {
		if _, err := r.Create(ctx, &in); err != nil {
			return model.Product{}, 0, false, err
		}
		saved, err := r.GetByID(ctx, in.ID)
		return saved, in.Price, true, err
	}
	if err != nil {
		return model.Product{}, 0, false, err
	}

	oldPrice := existing.Price
	existing.ApplyUpsert(in, now)
	if err := r.Update(ctx, &existing); err != nil {
		return model.Product{}, 0, false, err
	}
	saved, err := r.GetByID(ctx, existing.ID)
	return saved, oldPrice, false, err
}

// Delete removes a product row by id.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementClicks bumps the view counter in a single atomic update.
func (r *ProductRepo) IncrementClicks(ctx context.Context, id uint64) error {
	return r.adjustCounter(ctx, "total_clicks", id, 1)
}

// AdjustFavorites moves the denormalized favorite counter by delta (+1 on
// add, -1 on remove). The update is atomic per row, but it is a separate
// write from the list membership change, so the two can drift on partial
// failure; callers surface the error instead of rolling back.
func (r *ProductRepo) AdjustFavorites(ctx context.Context, id uint64, delta int64) error {
	return r.adjustCounter(ctx, "total_favorites", id, delta)
}

func (r *ProductRepo) adjustCounter(ctx context.Context, column string, id uint64, delta int64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE products SET "+column+" = "+column+" + ? WHERE id=?", delta, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetManyByIDs loads the products referenced by a user's lists. Missing
// ids are silently skipped; a dangling reference is not an error when
// rendering a list.
func (r *ProductRepo) GetManyByIDs(ctx context.Context, ids []uint64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[uint64]model.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Preserve list order.
	out := make([]model.Product, 0, len(byID))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Brands returns the distinct brand names in the catalog.
func (r *ProductRepo) Brands(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT DISTINCT brand FROM products ORDER BY brand")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CategoryTree maps every category to its distinct subcategories.
func (r *ProductRepo) CategoryTree(ctx context.Context) (map[string][]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT DISTINCT category, subcategory FROM products ORDER BY category, subcategory")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tree := map[string][]string{}
	for rows.Next() {
		var cat, sub string
		if err := rows.Scan(&cat, &sub); err != nil {
			return nil, err
		}
		tree[cat] = append(tree[cat], sub)
	}
	return tree, rows.Err()
}

// ShopStockReport aggregates product counts per shop with a per-status
// breakdown. Status strings are lower-cased before grouping so "In Stock"
// and "in stock" count together.
type ShopStockReport struct {
	Shop         string           `json:"shop"`
	Count        int64            `json:"count"`
	StatusCounts map[string]int64 `json:"stockStatusCounts"`
}

// StockStatusByShop builds the admin stock report: one row per shop,
// ordered by total product count descending.
func (r *ProductRepo) StockStatusByShop(ctx context.Context) ([]ShopStockReport, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT shop, LOWER(stock_status), COUNT(*)
		 FROM products GROUP BY shop, LOWER(stock_status)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byShop := map[string]*ShopStockReport{}
	for rows.Next() {
		var shop, status string
		var n int64
		if err := rows.Scan(&shop, &status, &n); err != nil {
			return nil, err
		}
		rep, ok := byShop[shop]
		if !ok {
			rep = &ShopStockReport{Shop: shop, StatusCounts: map[string]int64{}}
			byShop[shop] = rep
		}
		rep.Count += n
		rep.StatusCounts[status] += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]ShopStockReport, 0, len(byShop))
	for _, rep := range byShop {
		out = append(out, *rep)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Shop < out[j].Shop
	})
	return out, nil
}

// DistinctStockStatuses lists the raw status strings seen in the catalog.
func (r *ProductRepo) DistinctStockStatuses(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT DISTINCT stock_status FROM products")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
