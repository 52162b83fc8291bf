package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"backend/internal/models"
)

func TestDeleteAccountPurgesOwnedRows(t *testing.T) {
	db := newTestDB(t)

	user := models.User{Email: "leaving@example.com", FullName: "Leaving User", IsVerified: true, Role: models.RoleCustomer}
	if err := user.SetPassword("secret123"); err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}

	order := models.Order{UserID: user.ID, TotalAmount: 400, FinalAmount: 400, Status: models.StatusDelivered}
	if err := db.Create(&order).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&models.OrderItem{OrderID: order.ID, ProductID: 1, Quantity: 1, Price: 400}).Error; err != nil {
		t.Fatal(err)
	}
	device := models.IoTDevice{UserID: user.ID, DeviceName: "Cold Room", DeviceID: "cr-9", IsActive: true}
	if err := db.Create(&device).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&models.SensorData{DeviceID: device.ID, SensorType: "temperature", Value: 3.1}).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&models.Address{UserID: user.ID, AddressLine1: "1 Lane", City: "Srinagar", State: "JK", PostalCode: "190001"}).Error; err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.DELETE("/api/auth/account", asUser(user.ID), DeleteAccount(db))

	w := doJSON(t, r, http.MethodDelete, "/api/auth/account", nil)
	wantStatus(t, w, http.StatusOK)

	counts := map[string]interface{}{
		"users":       &models.User{},
		"orders":      &models.Order{},
		"order_items": &models.OrderItem{},
		"iot_devices": &models.IoTDevice{},
		"sensor_data": &models.SensorData{},
		"addresses":   &models.Address{},
		"cart_items":  &models.CartItem{},
	}
	for table, model := range counts {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			t.Fatal(err)
		}
		if n != 0 {
			t.Fatalf("%s left %d rows after account delete", table, n)
		}
	}
}
