package models

import "time"

type IoTDevice struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"index;not null" json:"user_id"`
	DeviceName string     `gorm:"size:100;not null" json:"device_name"`
	DeviceType string     `gorm:"size:50" json:"device_type"`
	DeviceID   string     `gorm:"size:100;uniqueIndex;not null" json:"device_id"`
	IsActive   bool       `gorm:"not null" json:"is_active"`
	LastActive *time.Time `json:"last_active,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	SensorData []SensorData `gorm:"foreignKey:DeviceID;constraint:OnDelete:CASCADE" json:"-"`
}

func (IoTDevice) TableName() string { return "iot_devices" }

// SensorData rows are append-only; readings are never updated.
type SensorData struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DeviceID   uint      `gorm:"index;not null" json:"device_id"`
	SensorType string    `gorm:"size:50;not null" json:"sensor_type"`
	Value      float64   `gorm:"not null" json:"value"`
	Unit       string    `gorm:"size:20" json:"unit"`
	Timestamp  time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

func (SensorData) TableName() string { return "sensor_data" }
