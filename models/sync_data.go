package models

import (
	"time"

	"gorm.io/datatypes"
)

// SyncData is one aggregate payload received from a local server. Rows are
// append-only; they are never updated after insert.
type SyncData struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	ServerID uint `json:"server_id" gorm:"not null;index"`
	UserID   uint `json:"user_id" gorm:"not null;index"`

	DataTimestamp time.Time `json:"data_timestamp" gorm:"not null;index"`

	AvgTemperature    float64 `json:"avg_temperature"`
	MinTemperature    float64 `json:"min_temperature"`
	MaxTemperature    float64 `json:"max_temperature"`
	AvgHumidity       float64 `json:"avg_humidity"`
	MinHumidity       float64 `json:"min_humidity"`
	MaxHumidity       float64 `json:"max_humidity"`
	AvgLightIntensity float64 `json:"avg_light_intensity"`
	AvgPressure       float64 `json:"avg_pressure"`

	ClientsTotal  int `json:"clients_total" gorm:"default:0"`
	ClientsOnline int `json:"clients_online" gorm:"default:0"`
	ReadingsCount int `json:"readings_count" gorm:"default:0"`

	ReceivedAt time.Time `json:"received_at" gorm:"autoCreateTime"`
}

func (SyncData) TableName() string {
	return "sync_data"
}

// RegisterRequest is the body of POST /sync/register.
type RegisterRequest struct {
	ServerID    string `json:"server_id" binding:"required"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SyncPayload is the body of POST /sync/data. Every field except server_id is
// optional; absent numerics decode as zero and are stored as zero.
type SyncPayload struct {
	ServerID string `json:"server_id" binding:"required"`

	ClientsTotal  int    `json:"clients_total"`
	ClientsOnline int    `json:"clients_online"`
	Version       string `json:"version"`
	IPAddress     string `json:"ip_address"`

	AvgTemperature    float64 `json:"avg_temperature"`
	MinTemperature    float64 `json:"min_temperature"`
	MaxTemperature    float64 `json:"max_temperature"`
	AvgHumidity       float64 `json:"avg_humidity"`
	MinHumidity       float64 `json:"min_humidity"`
	MaxHumidity       float64 `json:"max_humidity"`
	AvgLightIntensity float64 `json:"avg_light_intensity"`
	AvgPressure       float64 `json:"avg_pressure"`
	ReadingsCount     int     `json:"readings_count"`
}

// SyncEvent audit log entry types.
const (
	EventSyncSuccess   = "sync_success"
	EventSyncFailed    = "sync_failed"
	EventServerOnline  = "server_online"
	EventServerOffline = "server_offline"
)

// SyncEvent is an append-only audit entry for a server.
type SyncEvent struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	ServerID  uint           `json:"server_id" gorm:"not null;index"`
	EventType string         `json:"event_type" gorm:"not null"`
	Message   string         `json:"message"`
	Metadata  datatypes.JSON `json:"metadata"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
}
