package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gemnoir/jewelry-api/internal/db"
	"github.com/gemnoir/jewelry-api/internal/models"
)

type ProductImageInput struct {
	URL       string `json:"url" binding:"required"`
	AltText   string `json:"alt_text"`
	SortOrder int    `json:"sort_order"`
}

type CreateProductRequest struct {
	Name          string              `json:"name" binding:"required"`
	Description   string              `json:"description"`
	SKU           string              `json:"sku" binding:"required"`
	Price         decimal.Decimal     `json:"price"`
	SalePrice     *decimal.Decimal    `json:"sale_price"`
	StockQuantity int                 `json:"stock_quantity"`
	Featured      bool                `json:"featured"`
	Images        []ProductImageInput `json:"images"`
	CategoryIDs   []uint              `json:"category_ids"`
}

func CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	if !req.Price.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be greater than zero"})
		return
	}
	if req.SalePrice != nil && !req.SalePrice.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sale_price must be greater than zero"})
		return
	}
	if req.StockQuantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stock_quantity must not be negative"})
		return
	}

	if skuTaken(req.SKU, 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "SKU already exists"})
		return
	}

	categories, ok := resolveCategories(c, req.CategoryIDs)
	if !ok {
		return
	}

	product := models.Product{
		Name:          req.Name,
		Description:   req.Description,
		SKU:           req.SKU,
		Price:         req.Price,
		SalePrice:     req.SalePrice,
		StockQuantity: req.StockQuantity,
		Featured:      req.Featured,
		Images:        imagesFromInput(req.Images),
		Categories:    categories,
	}

	if err := db.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := db.DB.Preload("Images").Preload("Categories").First(&product, product.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

func ListProducts(c *gin.Context) {
	page, limit, offset := pagination(c)

	query := db.DB.Model(&models.Product{})

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ? OR sku LIKE ?", like, like, like)
	}
	if categoryID := c.Query("category"); categoryID != "" {
		query = query.
			Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Where("pc.category_id = ?", categoryID)
	}
	if featured := c.Query("featured"); featured != "" {
		if v, err := strconv.ParseBool(featured); err == nil {
			query = query.Where("featured = ?", v)
		}
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		if v, err := decimal.NewFromString(minPrice); err == nil {
			query = query.Where("price >= ?", v)
		}
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if v, err := decimal.NewFromString(maxPrice); err == nil {
			query = query.Where("price <= ?", v)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var products []models.Product
	err := query.
		Preload("Images").
		Preload("Categories").
		Order("products.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  products,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var product models.Product
	err := db.DB.Preload("Images").Preload("Categories").First(&product, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProductRequest uses pointers to tell "omitted" apart from "empty":
// a present images field (even []) replaces every image, an omitted one
// preserves them; same for category_ids.
type UpdateProductRequest struct {
	Name          *string              `json:"name"`
	Description   *string              `json:"description"`
	SKU           *string              `json:"sku"`
	Price         *decimal.Decimal     `json:"price"`
	SalePrice     *decimal.Decimal     `json:"sale_price"`
	StockQuantity *int                 `json:"stock_quantity"`
	Featured      *bool                `json:"featured"`
	Images        *[]ProductImageInput `json:"images"`
	CategoryIDs   *[]uint              `json:"category_ids"`
}

func UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := db.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	var req UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.SKU != nil {
		if skuTaken(*req.SKU, product.ID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "SKU already exists"})
			return
		}
		product.SKU = *req.SKU
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be greater than zero"})
			return
		}
		product.Price = *req.Price
	}
	if req.SalePrice != nil {
		if !req.SalePrice.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sale_price must be greater than zero"})
			return
		}
		product.SalePrice = req.SalePrice
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock_quantity must not be negative"})
			return
		}
		product.StockQuantity = *req.StockQuantity
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}

	var categories []models.Category
	if req.CategoryIDs != nil {
		var resolved bool
		categories, resolved = resolveCategories(c, *req.CategoryIDs)
		if !resolved {
			return
		}
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&product).Error; err != nil {
			return err
		}

		if req.Images != nil {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
				return err
			}
			images := imagesFromInput(*req.Images)
			for i := range images {
				images[i].ProductID = product.ID
			}
			if len(images) > 0 {
				if err := tx.Create(&images).Error; err != nil {
					return err
				}
			}
		}

		if req.CategoryIDs != nil {
			if err := tx.Model(&product).Association("Categories").Replace(categories); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := db.DB.Preload("Images").Preload("Categories").First(&product, product.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

func DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := db.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	if err := db.DB.Delete(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

func skuTaken(sku string, excludeID uint) bool {
	var existing models.Product
	err := db.DB.Unscoped().Where("sku = ? AND id <> ?", sku, excludeID).First(&existing).Error
	return !errors.Is(err, gorm.ErrRecordNotFound)
}

func resolveCategories(c *gin.Context, ids []uint) ([]models.Category, bool) {
	if len(ids) == 0 {
		return []models.Category{}, true
	}

	var categories []models.Category
	if err := db.DB.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	if len(categories) != len(ids) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "one or more categories do not exist"})
		return nil, false
	}
	return categories, true
}

func imagesFromInput(inputs []ProductImageInput) []models.ProductImage {
	images := make([]models.ProductImage, 0, len(inputs))
	for _, in := range inputs {
		images = append(images, models.ProductImage{
			URL:       in.URL,
			AltText:   in.AltText,
			SortOrder: in.SortOrder,
		})
	}
	return images
}
