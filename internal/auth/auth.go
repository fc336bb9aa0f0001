package auth

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	config "github.com/gemnoir/jewelry-api/configs"
	"github.com/gemnoir/jewelry-api/internal/db"
	"github.com/gemnoir/jewelry-api/internal/models"
)

var (
	jwtSecret []byte
	tokenTTL  time.Duration
)

const customerKey = "customer"

func Init(cfg config.JWTConfig) {
	jwtSecret = []byte(cfg.Secret)
	tokenTTL = cfg.TokenTTL
}

// Claims carries a single normalized role string, stamped at issuance.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(cust *models.Customer) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: cust.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(cust.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func parseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Middleware: ensures the request carries a valid Bearer token and injects
// the *models.Customer into the gin context.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		cust, ok := customerFromHeader(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(customerKey, cust)
		c.Next()
	}
}

// OptionalAuth injects the customer when a valid token is present but lets
// anonymous requests through. Used by the review store.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cust, ok := customerFromHeader(c); ok {
			c.Set(customerKey, cust)
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		cust := CurrentCustomer(c)
		if cust == nil || !cust.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func CurrentCustomer(c *gin.Context) *models.Customer {
	if v, exists := c.Get(customerKey); exists {
		if cust, ok := v.(*models.Customer); ok {
			return cust
		}
	}
	return nil
}

func customerFromHeader(c *gin.Context) (*models.Customer, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}

	claims, err := parseToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, false
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil {
		return nil, false
	}

	var cust models.Customer
	if err := db.DB.First(&cust, uint(id)).Error; err != nil {
		return nil, false
	}

	return &cust, true
}
