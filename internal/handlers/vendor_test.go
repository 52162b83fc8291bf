package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/models"
)

const testJWTSecret = "test-secret"

func newVendorAuthRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.POST("/api/vendor/login", VendorLogin(db, testJWTSecret, time.Hour))
	return r
}

func seedVendor(t *testing.T, db *gorm.DB, approved, active bool) models.User {
	t.Helper()
	user := models.User{Email: "vendor@example.com", Role: models.RoleVendor, IsVerified: true}
	if err := user.SetPassword("secret123"); err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	vendor := models.Vendor{
		UserID:       user.ID,
		BusinessName: "Valley Organics",
		IsApproved:   approved,
		IsActive:     active,
	}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatal(err)
	}
	return user
}

func TestVendorLoginPendingApproval(t *testing.T) {
	db := newTestDB(t)
	seedVendor(t, db, false, true)

	r := newVendorAuthRouter(db)
	w := doJSON(t, r, http.MethodPost, "/api/vendor/login", map[string]interface{}{
		"email":    "vendor@example.com",
		"password": "secret123",
	})
	wantStatus(t, w, http.StatusForbidden)

	body := decodeBody(t, w)
	if body["error"] != "Vendor account pending approval" {
		t.Fatalf("error = %v, want pending approval message", body["error"])
	}
}

func TestVendorLoginDeactivated(t *testing.T) {
	db := newTestDB(t)
	seedVendor(t, db, true, false)

	r := newVendorAuthRouter(db)
	w := doJSON(t, r, http.MethodPost, "/api/vendor/login", map[string]interface{}{
		"email":    "vendor@example.com",
		"password": "secret123",
	})
	wantStatus(t, w, http.StatusForbidden)

	body := decodeBody(t, w)
	if body["error"] != "Vendor account is deactivated" {
		t.Fatalf("error = %v, want deactivated message", body["error"])
	}
}

func TestVendorLoginRejectsCustomerAccount(t *testing.T) {
	db := newTestDB(t)

	user := models.User{Email: "plain@example.com", Role: models.RoleCustomer, IsVerified: true}
	user.SetPassword("secret123")
	db.Create(&user)

	r := newVendorAuthRouter(db)
	w := doJSON(t, r, http.MethodPost, "/api/vendor/login", map[string]interface{}{
		"email":    "plain@example.com",
		"password": "secret123",
	})
	wantStatus(t, w, http.StatusForbidden)

	body := decodeBody(t, w)
	if body["error"] != "Access denied. Vendor account required." {
		t.Fatalf("error = %v, want vendor-required message", body["error"])
	}
}

func TestVendorLoginSuccess(t *testing.T) {
	db := newTestDB(t)
	seedVendor(t, db, true, true)

	r := newVendorAuthRouter(db)
	w := doJSON(t, r, http.MethodPost, "/api/vendor/login", map[string]interface{}{
		"email":    "vendor@example.com",
		"password": "secret123",
	})
	wantStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	if body["access_token"] == nil || body["access_token"] == "" {
		t.Fatal("no access token in response")
	}
	if body["vendor"] == nil {
		t.Fatal("no vendor summary in response")
	}
}

func TestVendorCreateProductStartsUnapproved(t *testing.T) {
	db := newTestDB(t)
	user := seedVendor(t, db, true, true)

	category := models.Category{Name: "Dry Fruits", IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.POST("/api/vendor/products", asUser(user.ID), VendorCreateProduct(db))
	r.GET("/api/products", GetProducts(db))

	w := doJSON(t, r, http.MethodPost, "/api/vendor/products", map[string]interface{}{
		"name":        "Saffron 1g",
		"price":       450.0,
		"stock":       20,
		"category_id": category.ID,
	})
	wantStatus(t, w, http.StatusCreated)

	var product models.Product
	if err := db.Where("name = ?", "Saffron 1g").First(&product).Error; err != nil {
		t.Fatal(err)
	}
	if product.IsApproved {
		t.Fatal("vendor product stored approved, must wait for admin review")
	}
	if !product.IsActive {
		t.Fatal("vendor product stored inactive")
	}

	list := doJSON(t, r, http.MethodGet, "/api/products", nil)
	wantStatus(t, list, http.StatusOK)
	body := decodeBody(t, list)
	if total, ok := body["total"].(float64); !ok || total != 0 {
		t.Fatalf("public catalog total = %v, want 0 before approval", body["total"])
	}
}

func TestVendorStatusMapCoversLifecycle(t *testing.T) {
	want := map[string]string{
		"pending":   models.StatusPending,
		"confirmed": models.StatusConfirmed,
		"shipped":   models.StatusShipped,
		"delivered": models.StatusDelivered,
		"cancelled": models.StatusCancelled,
	}
	for lower, mapped := range want {
		if vendorStatusMap[lower] != mapped {
			t.Fatalf("vendorStatusMap[%q] = %q, want %q", lower, vendorStatusMap[lower], mapped)
		}
	}
	if _, ok := vendorStatusMap["completed"]; ok {
		t.Fatal("vendors must not reach the bookkeeping Completed state")
	}
}
