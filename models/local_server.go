package models

import "time"

// Server status values. Nothing assigns StatusError yet but it is a valid
// stored value reserved for future use.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
	StatusError   = "error"
)

// DefaultVersion is stored when a sync payload omits the version field.
const DefaultVersion = "1.0.0"

// LocalServer is one registered on-premise server instance reporting
// aggregated sensor data for a user.
type LocalServer struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"not null;index"`

	ServerID    string `json:"server_id" gorm:"uniqueIndex;not null"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`

	Status     string     `json:"status" gorm:"default:offline;not null"`
	LastSeen   *time.Time `json:"last_seen"`
	LastSyncAt *time.Time `json:"last_sync_at"`

	Version   string `json:"version"`
	IPAddress string `json:"ip_address"`

	ClientsCount  int `json:"clients_count" gorm:"default:0"`
	ClientsOnline int `json:"clients_online" gorm:"default:0"`

	AlertsEnabled bool   `json:"alerts_enabled" gorm:"default:true"`
	AlertEmail    string `json:"alert_email"`

	RegisteredAt time.Time `json:"registered_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Sync rows and events go away with the server.
	SyncData   []SyncData  `json:"-" gorm:"foreignKey:ServerID;constraint:OnDelete:CASCADE"`
	SyncEvents []SyncEvent `json:"-" gorm:"foreignKey:ServerID;constraint:OnDelete:CASCADE"`
}

// IsOnline reports whether the server looked alive at the given instant:
// status online and heard from within the freshness window. Advisory only —
// it never mutates Status; transitions happen on ingestion or monitor sweeps.
func (s *LocalServer) IsOnline(now time.Time, window time.Duration) bool {
	if s.LastSeen == nil {
		return false
	}
	return s.Status == StatusOnline && now.Sub(*s.LastSeen) <= window
}
