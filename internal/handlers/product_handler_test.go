package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/gemnoir/jewelry-api/internal/auth"
	"github.com/gemnoir/jewelry-api/internal/handlers"
	"github.com/gemnoir/jewelry-api/internal/models"
)

func setupProductTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	testDB := newTestDB(t)

	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/products", handlers.ListProducts)
		api.GET("/products/:id", handlers.GetProduct)
		api.POST("/products", auth.RequireAuth(), auth.RequireAdmin(), handlers.CreateProduct)
		api.PATCH("/products/:id", auth.RequireAuth(), auth.RequireAdmin(), handlers.UpdateProduct)
		api.DELETE("/products/:id", auth.RequireAuth(), auth.RequireAdmin(), handlers.DeleteProduct)
	}

	return r, testDB
}

func TestCreateProductWithImagesAndCategories(t *testing.T) {
	router, testDB := setupProductTestRouter(t)
	admin := seedCustomer(t, testDB, "admin@example.com", models.RoleAdmin)

	category := models.Category{Name: "Rings"}
	assert.NoError(t, testDB.Create(&category).Error)

	reqBody := handlers.CreateProductRequest{
		Name:          "Solitaire Ring",
		Description:   "18k white gold",
		SKU:           "RING-SOL-01",
		Price:         decimal.NewFromInt(450),
		StockQuantity: 5,
		Featured:      true,
		Images: []handlers.ProductImageInput{
			{URL: "https://cdn.example.com/sol-1.jpg", SortOrder: 0},
			{URL: "https://cdn.example.com/sol-2.jpg", SortOrder: 1},
		},
		CategoryIDs: []uint{category.ID},
	}

	recorder := performJSON(router, http.MethodPost, "/api/products", reqBody, bearerToken(t, admin))
	assert.Equal(t, http.StatusCreated, recorder.Code)

	var product models.Product
	decodeBody(t, recorder, &product)
	assert.Equal(t, "RING-SOL-01", product.SKU)
	assert.Len(t, product.Images, 2)
	assert.Len(t, product.Categories, 1)
	assert.Equal(t, "Rings", product.Categories[0].Name)
}

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	router, testDB := setupProductTestRouter(t)
	admin := seedCustomer(t, testDB, "admin@example.com", models.RoleAdmin)

	seedProduct(t, testDB, "RING-DUP", 100, 3)

	reqBody := handlers.CreateProductRequest{
		Name:  "Another Ring",
		SKU:   "RING-DUP",
		Price: decimal.NewFromInt(120),
	}

	recorder := performJSON(router, http.MethodPost, "/api/products", reqBody, bearerToken(t, admin))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var response map[string]string
	decodeBody(t, recorder, &response)
	assert.Equal(t, "SKU already exists", response["error"])
}

func TestCreateProductRejectsNonPositivePrice(t *testing.T) {
	router, testDB := setupProductTestRouter(t)
	admin := seedCustomer(t, testDB, "admin@example.com", models.RoleAdmin)

	reqBody := handlers.CreateProductRequest{
		Name:  "Freebie",
		SKU:   "FREE-01",
		Price: decimal.Zero,
	}

	recorder := performJSON(router, http.MethodPost, "/api/products", reqBody, bearerToken(t, admin))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCreateProductForbiddenForCustomer(t *testing.T) {
	router, testDB := setupProductTestRouter(t)
	customer := seedCustomer(t, testDB, "buyer@example.com", models.RoleCustomer)

	reqBody := handlers.CreateProductRequest{
		Name:  "Sneaky",
		SKU:   "SNK-01",
		Price: decimal.NewFromInt(10),
	}

	recorder := performJSON(router, http.MethodPost, "/api/products", reqBody, bearerToken(t, customer))
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestListProductsFilters(t *testing.T) {
	router, testDB := setupProductTestRouter(t)

	rings := models.Category{Name: "Rings"}
	necklaces := models.Category{Name: "Necklaces"}
	assert.NoError(t, testDB.Create(&rings).Error)
	assert.NoError(t, testDB.Create(&necklaces).Error)

	p1 := models.Product{Name: "Gold Band", SKU: "GB-01", Price: decimal.NewFromInt(150), Featured: true, Categories: []models.Category{rings}}
	p2 := models.Product{Name: "Silver Chain", SKU: "SC-01", Price: decimal.NewFromInt(80), Categories: []models.Category{necklaces}}
	p3 := models.Product{Name: "Diamond Band", SKU: "DB-01", Price: decimal.NewFromInt(900), Categories: []models.Category{rings}}
	for _, p := range []*models.Product{&p1, &p2, &p3} {
		assert.NoError(t, testDB.Create(p).Error)
	}

	var response struct {
		Data  []models.Product `json:"data"`
		Total int64            `json:"total"`
		Page  int              `json:"page"`
		Limit int              `json:"limit"`
	}

	recorder := performJSON(router, http.MethodGet, "/api/products?search=Band", nil, "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	decodeBody(t, recorder, &response)
	assert.Equal(t, int64(2), response.Total)

	recorder = performJSON(router, http.MethodGet, "/api/products?category="+itoa(necklaces.ID), nil, "")
	decodeBody(t, recorder, &response)
	assert.Equal(t, int64(1), response.Total)
	assert.Equal(t, "SC-01", response.Data[0].SKU)

	recorder = performJSON(router, http.MethodGet, "/api/products?featured=true", nil, "")
	decodeBody(t, recorder, &response)
	assert.Equal(t, int64(1), response.Total)
	assert.Equal(t, "GB-01", response.Data[0].SKU)

	recorder = performJSON(router, http.MethodGet, "/api/products?min_price=100&max_price=500", nil, "")
	decodeBody(t, recorder, &response)
	assert.Equal(t, int64(1), response.Total)
	assert.Equal(t, "GB-01", response.Data[0].SKU)

	recorder = performJSON(router, http.MethodGet, "/api/products?page=1&limit=2", nil, "")
	decodeBody(t, recorder, &response)
	assert.Equal(t, int64(3), response.Total)
	assert.Len(t, response.Data, 2)
	assert.Equal(t, 2, response.Limit)
}

func TestSoftDeletedProductsAreHidden(t *testing.T) {
	router, testDB := setupProductTestRouter(t)
	admin := seedCustomer(t, testDB, "admin@example.com", models.RoleAdmin)

	product := seedProduct(t, testDB, "GONE-01", 50, 2)

	recorder := performJSON(router, http.MethodDelete, "/api/products/"+itoa(product.ID), nil, bearerToken(t, admin))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = performJSON(router, http.MethodGet, "/api/products/"+itoa(product.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	var response struct {
		Total int64 `json:"total"`
	}
	recorder = performJSON(router, http.MethodGet, "/api/products", nil, "")
	decodeBody(t, recorder, &response)
	assert.Equal(t, int64(0), response.Total)

	// The row itself survives, only marked.
	var count int64
	testDB.Unscoped().Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpdateProductImageReplacement(t *testing.T) {
	router, testDB := setupProductTestRouter(t)
	admin := seedCustomer(t, testDB, "admin@example.com", models.RoleAdmin)

	product := models.Product{
		Name:  "Pearl Earrings",
		SKU:   "PE-01",
		Price: decimal.NewFromInt(220),
		Images: []models.ProductImage{
			{URL: "https://cdn.example.com/pe-old-1.jpg"},
			{URL: "https://cdn.example.com/pe-old-2.jpg"},
		},
	}
	assert.NoError(t, testDB.Create(&product).Error)

	// Omitting images preserves them.
	name := "Pearl Earrings v2"
	recorder := performJSON(router, http.MethodPatch, "/api/products/"+itoa(product.ID),
		handlers.UpdateProductRequest{Name: &name}, bearerToken(t, admin))
	assert.Equal(t, http.StatusOK, recorder.Code)

	var updated models.Product
	decodeBody(t, recorder, &updated)
	assert.Equal(t, "Pearl Earrings v2", updated.Name)
	assert.Len(t, updated.Images, 2)

	// Supplying a new set replaces every image.
	newImages := []handlers.ProductImageInput{{URL: "https://cdn.example.com/pe-new.jpg"}}
	recorder = performJSON(router, http.MethodPatch, "/api/products/"+itoa(product.ID),
		handlers.UpdateProductRequest{Images: &newImages}, bearerToken(t, admin))
	assert.Equal(t, http.StatusOK, recorder.Code)
	decodeBody(t, recorder, &updated)
	assert.Len(t, updated.Images, 1)
	assert.Equal(t, "https://cdn.example.com/pe-new.jpg", updated.Images[0].URL)

	// Supplying an empty set clears them.
	empty := []handlers.ProductImageInput{}
	recorder = performJSON(router, http.MethodPatch, "/api/products/"+itoa(product.ID),
		handlers.UpdateProductRequest{Images: &empty}, bearerToken(t, admin))
	assert.Equal(t, http.StatusOK, recorder.Code)
	decodeBody(t, recorder, &updated)
	assert.Len(t, updated.Images, 0)
}

func TestUpdateProductReplacesCategoryLinks(t *testing.T) {
	router, testDB := setupProductTestRouter(t)
	admin := seedCustomer(t, testDB, "admin@example.com", models.RoleAdmin)

	rings := models.Category{Name: "Rings"}
	bridal := models.Category{Name: "Bridal"}
	assert.NoError(t, testDB.Create(&rings).Error)
	assert.NoError(t, testDB.Create(&bridal).Error)

	product := models.Product{Name: "Halo Ring", SKU: "HR-01", Price: decimal.NewFromInt(500), Categories: []models.Category{rings}}
	assert.NoError(t, testDB.Create(&product).Error)

	ids := []uint{bridal.ID}
	recorder := performJSON(router, http.MethodPatch, "/api/products/"+itoa(product.ID),
		handlers.UpdateProductRequest{CategoryIDs: &ids}, bearerToken(t, admin))
	assert.Equal(t, http.StatusOK, recorder.Code)

	var updated models.Product
	decodeBody(t, recorder, &updated)
	assert.Len(t, updated.Categories, 1)
	assert.Equal(t, "Bridal", updated.Categories[0].Name)

	missing := []uint{99999}
	recorder = performJSON(router, http.MethodPatch, "/api/products/"+itoa(product.ID),
		handlers.UpdateProductRequest{CategoryIDs: &missing}, bearerToken(t, admin))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
