package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/models"
)

func newAddressRouter(db *gorm.DB, userID uint) *gin.Engine {
	r := gin.New()
	grp := r.Group("/api/addresses", asUser(userID))
	grp.GET("", ListAddresses(db))
	grp.POST("", CreateAddress(db))
	grp.PUT("/:id/default", SetDefaultAddress(db))
	grp.DELETE("/:id", DeleteAddress(db))
	return r
}

func seedAddressUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Email: "addr@example.com", IsVerified: true}
	if err := user.SetPassword("secret123"); err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestSetDefaultAddressExactlyOne(t *testing.T) {
	db := newTestDB(t)
	user := seedAddressUser(t, db)

	first := models.Address{UserID: user.ID, AddressLine1: "Lane 1", City: "Srinagar", State: "JK", PostalCode: "190001", IsDefault: true}
	second := models.Address{UserID: user.ID, AddressLine1: "Lane 2", City: "Srinagar", State: "JK", PostalCode: "190002"}
	db.Create(&first)
	db.Create(&second)

	r := newAddressRouter(db, user.ID)
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/addresses/%d/default", second.ID), nil)
	wantStatus(t, w, http.StatusOK)

	var defaults []models.Address
	db.Where("user_id = ? AND is_default = ?", user.ID, true).Find(&defaults)
	if len(defaults) != 1 {
		t.Fatalf("default count = %d, want exactly 1", len(defaults))
	}
	if defaults[0].ID != second.ID {
		t.Fatalf("default = address %d, want %d", defaults[0].ID, second.ID)
	}
}

func TestCreateDefaultAddressClearsPrior(t *testing.T) {
	db := newTestDB(t)
	user := seedAddressUser(t, db)

	existing := models.Address{UserID: user.ID, AddressLine1: "Old Lane", City: "Srinagar", State: "JK", PostalCode: "190001", IsDefault: true}
	db.Create(&existing)

	r := newAddressRouter(db, user.ID)
	w := doJSON(t, r, http.MethodPost, "/api/addresses", map[string]interface{}{
		"address_line1": "New Lane",
		"city":          "Srinagar",
		"state":         "JK",
		"postal_code":   "190011",
		"is_default":    true,
	})
	wantStatus(t, w, http.StatusCreated)

	var defaults []models.Address
	db.Where("user_id = ? AND is_default = ?", user.ID, true).Find(&defaults)
	if len(defaults) != 1 {
		t.Fatalf("default count = %d, want exactly 1", len(defaults))
	}
	if defaults[0].AddressLine1 != "New Lane" {
		t.Fatalf("default address = %q, want the newly created one", defaults[0].AddressLine1)
	}
}

func TestDeleteAddressScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	user := seedAddressUser(t, db)

	other := models.User{Email: "other-addr@example.com", IsVerified: true}
	other.SetPassword("secret123")
	db.Create(&other)
	foreign := models.Address{UserID: other.ID, AddressLine1: "Not yours", City: "Jammu", State: "JK", PostalCode: "180001"}
	db.Create(&foreign)

	r := newAddressRouter(db, user.ID)
	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/addresses/%d", foreign.ID), nil)
	wantStatus(t, w, http.StatusNotFound)

	var count int64
	db.Model(&models.Address{}).Count(&count)
	if count != 1 {
		t.Fatalf("address count = %d, want the foreign address untouched", count)
	}
}
