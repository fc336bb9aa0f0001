package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	config "github.com/gemnoir/jewelry-api/configs"
	"github.com/gemnoir/jewelry-api/internal/auth"
	"github.com/gemnoir/jewelry-api/internal/db"
	"github.com/gemnoir/jewelry-api/internal/models"
)

// newTestDB opens a named in-memory sqlite database (one per test, shared
// across the pooled connections), migrates it and installs it as the
// global handle for the duration of the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect test database: %v", err)
	}

	if err := db.Migrate(testDB); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	originalDB := db.DB
	db.SetTestDB(testDB)
	t.Cleanup(func() {
		db.SetTestDB(originalDB)
	})

	auth.Init(config.JWTConfig{Secret: "test-secret-key", TokenTTL: time.Hour})

	return testDB
}

func bearerToken(t *testing.T, cust *models.Customer) string {
	t.Helper()
	token, err := auth.GenerateToken(cust)
	if err != nil {
		t.Fatalf("failed to issue test token: %v", err)
	}
	return "Bearer " + token
}

// performJSON sends a JSON request through the router; authorization is
// the Authorization header value, empty for anonymous requests.
func performJSON(router *gin.Engine, method, path string, body interface{}, authorization string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response body %q: %v", recorder.Body.String(), err)
	}
}

func seedCustomer(t *testing.T, testDB *gorm.DB, email, role string) *models.Customer {
	t.Helper()
	cust := models.Customer{
		Name:         "Test Customer",
		Email:        email,
		PasswordHash: "x",
		Phone:        "0900000000",
		Role:         role,
	}
	if err := testDB.Create(&cust).Error; err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}
	return &cust
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
