package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"farmbasket_back_end/internal/database"
	"farmbasket_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found in catalog")

const productCacheTTL = 10 * time.Minute

// Filter narrows a product listing. Zero value lists everything.
type Filter struct {
	Category     string
	OrganicOnly  bool
	SeasonalOnly bool
	FarmerID     string
}

// Source is the read-only catalog the storefront browses. The cart and
// request flows resolve products through it and never write to it.
type Source interface {
	ListProducts(ctx context.Context, f Filter) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	ListFarmers(ctx context.Context) ([]models.Farmer, error)
	GetFarmer(ctx context.Context, id string) (models.Farmer, error)
	ListCombos(ctx context.Context) ([]models.Combo, error)
	GetCombo(ctx context.Context, id string) (models.Combo, error)
}

// ScyllaSource reads the catalog keyspace with a Redis read-through cache on
// single-product lookups (the cart add path hits those hardest).
type ScyllaSource struct{}

func NewScyllaSource() *ScyllaSource {
	return &ScyllaSource{}
}

const productColumns = `product_id, name, description, category, unit, price, image_urls, tags, is_organic, is_seasonal, farmer_id, created_at, updated_at`

func scanProduct(scan func(...interface{}) error) (models.Product, error) {
	var p models.Product
	err := scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Unit, &p.Price,
		&p.ImageURLs, &p.Tags, &p.IsOrganic, &p.IsSeasonal, &p.FarmerID,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// iterScan adapts gocql's bool-returning Iter.Scan to the error shape
// scanProduct expects. Exhaustion surfaces as gocql.ErrNotFound.
func iterScan(iter *gocql.Iter) func(...interface{}) error {
	return func(dest ...interface{}) error {
		if !iter.Scan(dest...) {
			return gocql.ErrNotFound
		}
		return nil
	}
}

// matchesFilter applies the parts of the filter not pushed into CQL. Category
// goes into the query itself.
func matchesFilter(f Filter, p models.Product) bool {
	if f.OrganicOnly && !p.IsOrganic {
		return false
	}
	if f.SeasonalOnly && !p.IsSeasonal {
		return false
	}
	if f.FarmerID != "" && p.FarmerID.String() != f.FarmerID {
		return false
	}
	return true
}

func (s *ScyllaSource) ListProducts(ctx context.Context, f Filter) ([]models.Product, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, err
	}

	var iter *gocql.Iter
	if f.Category != "" {
		iter = session.Query(
			`SELECT `+productColumns+` FROM products WHERE category = ? ALLOW FILTERING`,
			f.Category,
		).WithContext(ctx).Iter()
	} else {
		iter = session.Query(`SELECT ` + productColumns + ` FROM products`).WithContext(ctx).Iter()
	}

	var products []models.Product
	scan := iterScan(iter)
	for {
		p, err := scanProduct(scan)
		if err != nil {
			break
		}
		if !matchesFilter(f, p) {
			continue
		}
		products = append(products, p)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ScyllaSource) GetProduct(ctx context.Context, id string) (models.Product, error) {
	// Cache first
	key := "product:" + id
	if data, err := database.Redis.Get(ctx, key).Result(); err == nil && data != "" {
		var p models.Product
		if json.Unmarshal([]byte(data), &p) == nil {
			return p, nil
		}
	}

	pid, err := uuid.Parse(id)
	if err != nil {
		return models.Product{}, ErrNotFound
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		return models.Product{}, err
	}

	p, err := scanProduct(session.Query(
		`SELECT `+productColumns+` FROM products WHERE product_id = ?`, gocql.UUID(pid),
	).WithContext(ctx).Scan)
	if err == gocql.ErrNotFound {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}

	if data, err := json.Marshal(p); err == nil {
		database.Redis.Set(ctx, key, data, productCacheTTL)
	}
	return p, nil
}

// InvalidateProduct drops the cached copy after a catalog write.
func InvalidateProduct(ctx context.Context, id string) {
	database.Redis.Del(ctx, "product:"+id)
}

func (s *ScyllaSource) ListFarmers(ctx context.Context) ([]models.Farmer, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(
		`SELECT farmer_id, name, village, district, story, photo_urls, practices FROM farmers`,
	).WithContext(ctx).Iter()

	var farmers []models.Farmer
	var fm models.Farmer
	for iter.Scan(&fm.ID, &fm.Name, &fm.Village, &fm.District, &fm.Story, &fm.PhotoURLs, &fm.Practices) {
		farmers = append(farmers, fm)
		fm = models.Farmer{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return farmers, nil
}

func (s *ScyllaSource) GetFarmer(ctx context.Context, id string) (models.Farmer, error) {
	fid, err := uuid.Parse(id)
	if err != nil {
		return models.Farmer{}, ErrNotFound
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		return models.Farmer{}, err
	}

	var fm models.Farmer
	err = session.Query(
		`SELECT farmer_id, name, village, district, story, photo_urls, practices FROM farmers WHERE farmer_id = ?`,
		gocql.UUID(fid),
	).WithContext(ctx).Scan(&fm.ID, &fm.Name, &fm.Village, &fm.District, &fm.Story, &fm.PhotoURLs, &fm.Practices)
	if err == gocql.ErrNotFound {
		return models.Farmer{}, ErrNotFound
	}
	if err != nil {
		return models.Farmer{}, err
	}
	return fm, nil
}

func (s *ScyllaSource) ListCombos(ctx context.Context) ([]models.Combo, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(
		`SELECT combo_id, name, description, image_url, items FROM combos`,
	).WithContext(ctx).Iter()

	var combos []models.Combo
	var cb models.Combo
	var itemsJSON string
	for iter.Scan(&cb.ID, &cb.Name, &cb.Description, &cb.ImageURL, &itemsJSON) {
		if err := json.Unmarshal([]byte(itemsJSON), &cb.Items); err != nil {
			log.Printf("⚠️ Skipping combo %s: bad items payload: %v", cb.ID, err)
			cb = models.Combo{}
			continue
		}
		combos = append(combos, cb)
		cb = models.Combo{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return combos, nil
}

func (s *ScyllaSource) GetCombo(ctx context.Context, id string) (models.Combo, error) {
	cid, err := uuid.Parse(id)
	if err != nil {
		return models.Combo{}, ErrNotFound
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		return models.Combo{}, err
	}

	var cb models.Combo
	var itemsJSON string
	err = session.Query(
		`SELECT combo_id, name, description, image_url, items FROM combos WHERE combo_id = ?`,
		gocql.UUID(cid),
	).WithContext(ctx).Scan(&cb.ID, &cb.Name, &cb.Description, &cb.ImageURL, &itemsJSON)
	if err == gocql.ErrNotFound {
		return models.Combo{}, ErrNotFound
	}
	if err != nil {
		return models.Combo{}, err
	}
	if err := json.Unmarshal([]byte(itemsJSON), &cb.Items); err != nil {
		return models.Combo{}, fmt.Errorf("decoding combo items: %w", err)
	}
	return cb, nil
}
