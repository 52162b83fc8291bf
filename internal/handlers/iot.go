package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/models"
)

/* =========================
   DTOs
========================= */

type RegisterDeviceRequest struct {
	DeviceName string `json:"device_name" binding:"required"`
	DeviceType string `json:"device_type"`
	DeviceID   string `json:"device_id" binding:"required"`
}

type SensorDataRequest struct {
	DeviceID   string  `json:"device_id" binding:"required"`
	SensorType string  `json:"sensor_type" binding:"required"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
}

/* =========================
   DEVICE MANAGEMENT
========================= */

func GetDevices(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/iot/devices"

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var devices []models.IoTDevice
		if err := db.Where("user_id = ?", userID).Order("created_at desc").Find(&devices).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"devices": devices})
	}
}

func RegisterDevice(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/iot/devices"

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req RegisterDeviceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var existing models.IoTDevice
		if err := db.Where("device_id = ?", req.DeviceID).First(&existing).Error; err == nil {
			respondWithError(c, http.StatusBadRequest, route, "Device ID already registered")
			return
		}

		now := time.Now()
		device := models.IoTDevice{
			UserID:     userID,
			DeviceName: req.DeviceName,
			DeviceType: req.DeviceType,
			DeviceID:   req.DeviceID,
			IsActive:   true,
			LastActive: &now,
		}
		if err := db.Create(&device).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Device registered successfully",
			"device":  device,
		})
	}
}

func UpdateDevice(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/iot/devices/:id"

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		deviceID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid device id")
			return
		}

		var device models.IoTDevice
		if err := db.Where("id = ? AND user_id = ?", deviceID, userID).First(&device).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Device not found")
			return
		}

		var req struct {
			DeviceName *string `json:"device_name"`
			DeviceType *string `json:"device_type"`
			IsActive   *bool   `json:"is_active"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.DeviceName != nil {
			device.DeviceName = *req.DeviceName
		}
		if req.DeviceType != nil {
			device.DeviceType = *req.DeviceType
		}
		if req.IsActive != nil {
			device.IsActive = *req.IsActive
		}

		if err := db.Save(&device).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Device updated successfully"})
	}
}

func DeleteDevice(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/iot/devices/:id"

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		deviceID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid device id")
			return
		}

		var device models.IoTDevice
		if err := db.Where("id = ? AND user_id = ?", deviceID, userID).First(&device).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Device not found")
			return
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("device_id = ?", device.ID).Delete(&models.SensorData{}).Error; err != nil {
				return err
			}
			return tx.Delete(&device).Error
		})
		if txErr != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Device deleted successfully"})
	}
}

/* =========================
   TELEMETRY
========================= */

// ReceiveSensorData is the unauthenticated ingest endpoint devices post
// to. Unknown or inactive device IDs get a 404; valid readings are
// appended and bump the device's last_active.
func ReceiveSensorData(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/iot/sensor-data"
		defer handlePanic(c, route)

		var req SensorDataRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var device models.IoTDevice
		if err := db.Where("device_id = ? AND is_active = ?", req.DeviceID, true).First(&device).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Device not found")
			return
		}

		reading := models.SensorData{
			DeviceID:   device.ID,
			SensorType: req.SensorType,
			Value:      req.Value,
			Unit:       req.Unit,
		}
		if err := db.Create(&reading).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		now := time.Now()
		db.Model(&device).Update("last_active", &now)

		c.JSON(http.StatusCreated, gin.H{"message": "Sensor data recorded"})
	}
}

func GetSensorData(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/iot/devices/:id/data"

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		deviceID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid device id")
			return
		}

		var device models.IoTDevice
		if err := db.Where("id = ? AND user_id = ?", deviceID, userID).First(&device).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Device not found")
			return
		}

		limit := 100
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				respondWithError(c, http.StatusBadRequest, route, "invalid limit")
				return
			}
			if parsed > 1000 {
				parsed = 1000
			}
			limit = parsed
		}

		query := db.Where("device_id = ?", device.ID)
		if sensorType := c.Query("sensor_type"); sensorType != "" {
			query = query.Where("sensor_type = ?", sensorType)
		}

		var readings []models.SensorData
		if err := query.Order("timestamp desc").Limit(limit).Find(&readings).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"device_id": device.DeviceID,
			"readings":  readings,
		})
	}
}
