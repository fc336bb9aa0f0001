package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/gemnoir/jewelry-api/internal/auth"
	"github.com/gemnoir/jewelry-api/internal/handlers"
	"github.com/gemnoir/jewelry-api/internal/models"
)

func setupCategoryTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	testDB := newTestDB(t)

	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/categories", handlers.ListCategories)
		api.GET("/categories/:id", handlers.GetCategory)
		api.POST("/categories", auth.RequireAuth(), auth.RequireAdmin(), handlers.CreateCategory)
		api.PATCH("/categories/:id", auth.RequireAuth(), auth.RequireAdmin(), handlers.UpdateCategory)
		api.DELETE("/categories/:id", auth.RequireAuth(), auth.RequireAdmin(), handlers.DeleteCategory)
	}

	return r, testDB
}

func TestCreateCategory(t *testing.T) {
	router, testDB := setupCategoryTestRouter(t)
	admin := seedCustomer(t, testDB, "admin@example.com", models.RoleAdmin)

	recorder := performJSON(router, http.MethodPost, "/api/categories",
		handlers.CreateCategoryRequest{Name: "Bracelets", Description: "Wrist pieces"}, bearerToken(t, admin))
	assert.Equal(t, http.StatusCreated, recorder.Code)

	var category models.Category
	decodeBody(t, recorder, &category)
	assert.Equal(t, "Bracelets", category.Name)
	assert.Greater(t, category.ID, uint(0))

	// Duplicate name is a business-rule violation.
	recorder = performJSON(router, http.MethodPost, "/api/categories",
		handlers.CreateCategoryRequest{Name: "Bracelets"}, bearerToken(t, admin))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCategoryWritesAreAdminGuarded(t *testing.T) {
	router, testDB := setupCategoryTestRouter(t)
	customer := seedCustomer(t, testDB, "buyer@example.com", models.RoleCustomer)

	recorder := performJSON(router, http.MethodPost, "/api/categories",
		handlers.CreateCategoryRequest{Name: "Nope"}, bearerToken(t, customer))
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = performJSON(router, http.MethodPost, "/api/categories",
		handlers.CreateCategoryRequest{Name: "Nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestUpdateAndDeleteCategory(t *testing.T) {
	router, testDB := setupCategoryTestRouter(t)
	admin := seedCustomer(t, testDB, "admin@example.com", models.RoleAdmin)

	category := models.Category{Name: "Anklets"}
	assert.NoError(t, testDB.Create(&category).Error)

	name := "Ankle Chains"
	recorder := performJSON(router, http.MethodPatch, "/api/categories/"+itoa(category.ID),
		handlers.UpdateCategoryRequest{Name: &name}, bearerToken(t, admin))
	assert.Equal(t, http.StatusOK, recorder.Code)

	var updated models.Category
	decodeBody(t, recorder, &updated)
	assert.Equal(t, "Ankle Chains", updated.Name)

	recorder = performJSON(router, http.MethodDelete, "/api/categories/"+itoa(category.ID), nil, bearerToken(t, admin))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = performJSON(router, http.MethodGet, "/api/categories/"+itoa(category.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = performJSON(router, http.MethodDelete, "/api/categories/99999", nil, bearerToken(t, admin))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestListCategoriesSorted(t *testing.T) {
	router, testDB := setupCategoryTestRouter(t)

	for _, name := range []string{"Rings", "Anklets", "Necklaces"} {
		assert.NoError(t, testDB.Create(&models.Category{Name: name}).Error)
	}

	recorder := performJSON(router, http.MethodGet, "/api/categories", nil, "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	var categories []models.Category
	decodeBody(t, recorder, &categories)
	assert.Len(t, categories, 3)
	assert.Equal(t, "Anklets", categories[0].Name)
	assert.Equal(t, "Rings", categories[2].Name)
}
