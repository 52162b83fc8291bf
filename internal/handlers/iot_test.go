package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/models"
)

func newIoTRouter(db *gorm.DB, userID uint) *gin.Engine {
	r := gin.New()
	r.POST("/api/iot/sensor-data", ReceiveSensorData(db))
	r.POST("/api/iot/devices", asUser(userID), RegisterDevice(db))
	return r
}

func seedIoTUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Email: "iot@example.com", IsVerified: true}
	if err := user.SetPassword("secret123"); err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	return user
}

func TestReceiveSensorDataUnknownDevice(t *testing.T) {
	db := newTestDB(t)
	user := seedIoTUser(t, db)

	r := newIoTRouter(db, user.ID)
	w := doJSON(t, r, http.MethodPost, "/api/iot/sensor-data", map[string]interface{}{
		"device_id":   "ghost-device",
		"sensor_type": "temperature",
		"value":       21.5,
	})
	wantStatus(t, w, http.StatusNotFound)
}

func TestReceiveSensorDataInactiveDevice(t *testing.T) {
	db := newTestDB(t)
	user := seedIoTUser(t, db)

	device := models.IoTDevice{UserID: user.ID, DeviceName: "Cold Store", DeviceID: "cs-01", IsActive: false}
	db.Create(&device)

	r := newIoTRouter(db, user.ID)
	w := doJSON(t, r, http.MethodPost, "/api/iot/sensor-data", map[string]interface{}{
		"device_id":   "cs-01",
		"sensor_type": "temperature",
		"value":       4.2,
	})
	wantStatus(t, w, http.StatusNotFound)
}

func TestReceiveSensorDataAppendsAndBumpsLastActive(t *testing.T) {
	db := newTestDB(t)
	user := seedIoTUser(t, db)

	device := models.IoTDevice{UserID: user.ID, DeviceName: "Cold Store", DeviceID: "cs-02", IsActive: true}
	db.Create(&device)

	r := newIoTRouter(db, user.ID)
	w := doJSON(t, r, http.MethodPost, "/api/iot/sensor-data", map[string]interface{}{
		"device_id":   "cs-02",
		"sensor_type": "humidity",
		"value":       61.0,
		"unit":        "%",
	})
	wantStatus(t, w, http.StatusCreated)

	var readings []models.SensorData
	db.Where("device_id = ?", device.ID).Find(&readings)
	if len(readings) != 1 {
		t.Fatalf("readings = %d, want 1", len(readings))
	}
	if readings[0].SensorType != "humidity" || readings[0].Value != 61.0 {
		t.Fatalf("reading = %+v, want the posted humidity value", readings[0])
	}

	var reloaded models.IoTDevice
	db.First(&reloaded, device.ID)
	if reloaded.LastActive == nil {
		t.Fatal("last_active not set after ingest")
	}
}

func TestRegisterDeviceDuplicateID(t *testing.T) {
	db := newTestDB(t)
	user := seedIoTUser(t, db)

	r := newIoTRouter(db, user.ID)
	w := doJSON(t, r, http.MethodPost, "/api/iot/devices", map[string]interface{}{
		"device_name": "Greenhouse",
		"device_id":   "gh-01",
	})
	wantStatus(t, w, http.StatusCreated)

	w = doJSON(t, r, http.MethodPost, "/api/iot/devices", map[string]interface{}{
		"device_name": "Greenhouse Twin",
		"device_id":   "gh-01",
	})
	wantStatus(t, w, http.StatusBadRequest)
}
