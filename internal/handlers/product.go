package handlers

import (
	"log"
	"net/http"
	"time"

	"farmbasket_back_end/internal/catalog"
	"farmbasket_back_end/internal/database"
	"farmbasket_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// ProductHandler serves the browsing surface of the catalog plus the
// farmer-facing write path that keeps the search index in step.
type ProductHandler struct {
	source catalog.Source
}

func NewProductHandler(source catalog.Source) *ProductHandler {
	return &ProductHandler{source: source}
}

// 🟢 GET /api/products?category=&organic=&seasonal=&farmerId=
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := catalog.Filter{
		Category:     c.Query("category"),
		OrganicOnly:  c.Query("organic") == "true",
		SeasonalOnly: c.Query("seasonal") == "true",
		FarmerID:     c.Query("farmerId"),
	}

	products, err := h.source.ListProducts(c.Request.Context(), filter)
	if err != nil {
		log.Println("❌ Product listing error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// 🟢 GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.source.GetProduct(c.Request.Context(), c.Param("id"))
	if err == catalog.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// 🟢 GET /api/products/search?q=
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query"})
		return
	}

	products, err := catalog.SearchProducts(c.Request.Context(), query)
	if err != nil {
		log.Println("❌ Product search error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

type productInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Unit        string   `json:"unit"`
	Price       float64  `json:"price"`
	ImageURLs   []string `json:"image_urls"`
	Tags        []string `json:"tags"`
	IsOrganic   bool     `json:"is_organic"`
	IsSeasonal  bool     `json:"is_seasonal"`
	FarmerID    string   `json:"farmer_id"`
}

func (in *productInput) validate() string {
	if in.Name == "" {
		return "Name is required"
	}
	if in.Price <= 0 {
		return "Price must be positive"
	}
	if !models.ValidUnit(in.Unit) {
		return "Invalid unit"
	}
	return ""
}

// 🟠 POST /api/products (farmer key)
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if msg := input.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	farmerID, err := uuid.Parse(input.FarmerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid farmer id"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	now := time.Now().UTC()
	product := models.Product{
		ID:          gocql.UUID(uuid.New()),
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Unit:        input.Unit,
		Price:       input.Price,
		ImageURLs:   input.ImageURLs,
		Tags:        input.Tags,
		IsOrganic:   input.IsOrganic,
		IsSeasonal:  input.IsSeasonal,
		FarmerID:    gocql.UUID(farmerID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = session.Query(
		`INSERT INTO products (product_id, name, description, category, unit, price, image_urls, tags, is_organic, is_seasonal, farmer_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID, product.Name, product.Description, product.Category, product.Unit, product.Price,
		product.ImageURLs, product.Tags, product.IsOrganic, product.IsSeasonal, product.FarmerID,
		product.CreatedAt, product.UpdatedAt,
	).WithContext(c.Request.Context()).Exec()
	if err != nil {
		log.Println("❌ Product creation error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create product"})
		return
	}

	catalog.IndexProduct(product)

	c.JSON(http.StatusCreated, product)
}

// 🟠 PUT /api/products/:id (farmer key)
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	ctx := c.Request.Context()

	existing, err := h.source.GetProduct(ctx, c.Param("id"))
	if err == catalog.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load product"})
		return
	}

	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if msg := input.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.Category = input.Category
	existing.Unit = input.Unit
	existing.Price = input.Price
	existing.ImageURLs = input.ImageURLs
	existing.Tags = input.Tags
	existing.IsOrganic = input.IsOrganic
	existing.IsSeasonal = input.IsSeasonal
	existing.UpdatedAt = time.Now().UTC()

	err = session.Query(
		`UPDATE products SET name = ?, description = ?, category = ?, unit = ?, price = ?, image_urls = ?, tags = ?, is_organic = ?, is_seasonal = ?, updated_at = ?
		 WHERE product_id = ?`,
		existing.Name, existing.Description, existing.Category, existing.Unit, existing.Price,
		existing.ImageURLs, existing.Tags, existing.IsOrganic, existing.IsSeasonal, existing.UpdatedAt,
		existing.ID,
	).WithContext(ctx).Exec()
	if err != nil {
		log.Println("❌ Product update error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update product"})
		return
	}

	catalog.InvalidateProduct(ctx, existing.ID.String())
	catalog.IndexProduct(existing)

	c.JSON(http.StatusOK, existing)
}
