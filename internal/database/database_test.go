package database

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"backend/internal/models"
)

func TestMigrateResolvesDeviceReadings(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:TestMigrateResolvesDeviceReadings?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	device := models.IoTDevice{UserID: 1, DeviceName: "Cold Room 1", DeviceID: "cr-001", IsActive: true}
	if err := db.Create(&device).Error; err != nil {
		t.Fatal(err)
	}
	reading := models.SensorData{DeviceID: device.ID, SensorType: "temperature", Value: 4.5, Unit: "C", Timestamp: time.Now()}
	if err := db.Create(&reading).Error; err != nil {
		t.Fatal(err)
	}

	var loaded models.IoTDevice
	if err := db.Preload("SensorData").First(&loaded, device.ID).Error; err != nil {
		t.Fatalf("preload failed: %v", err)
	}
	if len(loaded.SensorData) != 1 {
		t.Fatalf("readings = %d, want 1", len(loaded.SensorData))
	}
}
