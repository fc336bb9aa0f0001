package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gemnoir/jewelry-api/internal/auth"
	"github.com/gemnoir/jewelry-api/internal/db"
	"github.com/gemnoir/jewelry-api/internal/models"
)

type CreateReviewRequest struct {
	ProductID  uint   `json:"product_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Comment    string `json:"comment"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
}

// CreateReview accepts both authenticated and guest reviews. A guest
// review must carry the reviewer's name and email.
func CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	var product models.Product
	if err := db.DB.First(&product, req.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	review := models.Review{
		ProductID: product.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	if customer := auth.CurrentCustomer(c); customer != nil {
		review.CustomerID = &customer.ID
	} else {
		if req.GuestName == "" || req.GuestEmail == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guest reviews require guest_name and guest_email"})
			return
		}
		review.GuestName = req.GuestName
		review.GuestEmail = req.GuestEmail
	}

	if err := db.DB.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, review)
}

func ListReviews(c *gin.Context) {
	page, limit, offset := pagination(c)

	query := db.DB.Model(&models.Review{})

	productID := c.Query("product_id")
	if productID != "" {
		query = query.Where("product_id = ?", productID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var reviews []models.Review
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"data":  reviews,
		"total": total,
		"page":  page,
		"limit": limit,
	}

	if productID != "" {
		var avg float64
		err := db.DB.Model(&models.Review{}).
			Where("product_id = ?", productID).
			Select("COALESCE(AVG(rating), 0)").
			Scan(&avg).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		resp["average_rating"] = avg
	}

	c.JSON(http.StatusOK, resp)
}

func DeleteReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var review models.Review
	if err := db.DB.First(&review, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}

	if err := db.DB.Delete(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}
