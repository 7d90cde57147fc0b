package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Jumaa-K/dukani-api/initializers"
	"github.com/Jumaa-K/dukani-api/models"
	"github.com/Jumaa-K/dukani-api/routes"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

// setupTest wires an isolated in-memory database into the package-level DB
// handle and returns a router with all routes registered.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", testJWTSecret)

	// A named shared-cache DSN so every pooled connection sees the same
	// in-memory database; the test name keeps databases isolated per test.
	dsn := "file:" + strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&models.Wishlist{},
		&models.WishlistItem{},
	))

	initializers.DB = db

	gin.SetMode(gin.TestMode)
	server := gin.New()
	routes.AuthRoutes(server)
	routes.ProductRoutes(server)
	routes.CartRoutes(server)
	routes.OrderRoutes(server)
	routes.ReviewRoutes(server)
	routes.WishlistRoutes(server)
	return server
}

func createUser(t *testing.T, name string, admin bool) models.User {
	t.Helper()
	user := models.User{
		Name:    name,
		Email:   strings.ToLower(name) + "@example.com",
		IsAdmin: admin,
	}
	require.NoError(t, initializers.DB.Create(&user).Error)
	return user
}

func createProduct(t *testing.T, name string, price float64, stock int) models.Product {
	t.Helper()
	product := models.Product{
		Name:        name,
		Description: "test product",
		Price:       price,
		Category:    "Test",
		Stock:       stock,
	}
	require.NoError(t, initializers.DB.Create(&product).Error)
	return product
}

func signToken(t *testing.T, user models.User) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  float64(user.ID),
		"email":    user.Email,
		"name":     user.Name,
		"is_admin": user.IsAdmin,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func shippingAddress() gin.H {
	return gin.H{
		"address":    "123 Mombasa Rd",
		"city":       "Nairobi",
		"postalCode": "00100",
		"country":    "Kenya",
	}
}

func addToCart(t *testing.T, router *gin.Engine, token string, productID uint, quantity int) {
	t.Helper()
	rec := doRequest(t, router, "POST", "/cart/items", token, gin.H{
		"productId": productID,
		"quantity":  quantity,
	})
	require.Contains(t, []int{200, 201}, rec.Code, rec.Body.String())
}
