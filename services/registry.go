package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Danidiaz0799/fungicloud/models"

	"gorm.io/gorm"
)

// ErrNotRegistered is returned when a sync references a server id that does
// not exist or is owned by another user. Callers must register first.
var ErrNotRegistered = errors.New("server not registered")

// Registry owns all reads and writes of local server records.
type Registry struct {
	db *gorm.DB
}

func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// UpsertOnRegister creates the record on first registration, or refreshes
// liveness on re-registration. Registration is idempotent: the same server id
// never produces a second row, and ownership never changes after creation.
func (r *Registry) UpsertOnRegister(serverID string, ownerID uint, name, description string) (*models.LocalServer, error) {
	now := time.Now()
	var server models.LocalServer

	err := r.db.Where("server_id = ?", serverID).First(&server).Error
	if err == nil {
		server.LastSeen = &now
		server.Status = models.StatusOnline
		if err := r.db.Save(&server).Error; err != nil {
			return nil, err
		}
		return &server, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	server = models.LocalServer{
		UserID:        ownerID,
		ServerID:      serverID,
		Name:          name,
		Description:   description,
		Status:        models.StatusOnline,
		LastSeen:      &now,
		AlertsEnabled: true,
	}
	if err := r.db.Create(&server).Error; err != nil {
		return nil, err
	}
	return &server, nil
}

// FindForOwner resolves a server id scoped to its owner. Lookups from other
// users miss, so all mutation stays within the authenticated tenant.
func (r *Registry) FindForOwner(serverID string, ownerID uint) (*models.LocalServer, error) {
	var server models.LocalServer
	err := r.db.Where("server_id = ? AND user_id = ?", serverID, ownerID).First(&server).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotRegistered
	}
	if err != nil {
		return nil, err
	}
	return &server, nil
}

// ListByOwner returns every server registered by the user.
func (r *Registry) ListByOwner(ownerID uint) ([]models.LocalServer, error) {
	var servers []models.LocalServer
	if err := r.db.Where("user_id = ?", ownerID).Order("registered_at asc").Find(&servers).Error; err != nil {
		return nil, err
	}
	return servers, nil
}

// applySyncUpdate refreshes liveness and telemetry from a payload. remoteAddr
// is the caller's observed network address, used when the payload carries no
// ip_address of its own.
func applySyncUpdate(server *models.LocalServer, payload *models.SyncPayload, remoteAddr string, now time.Time) {
	server.LastSeen = &now
	server.LastSyncAt = &now
	server.Status = models.StatusOnline
	server.ClientsCount = payload.ClientsTotal
	server.ClientsOnline = payload.ClientsOnline

	server.Version = payload.Version
	if server.Version == "" {
		server.Version = models.DefaultVersion
	}
	server.IPAddress = payload.IPAddress
	if server.IPAddress == "" {
		server.IPAddress = remoteAddr
	}
}

// Ingest records one aggregate sync from a local server: liveness update, one
// SyncData row and one sync_success event, committed as a single transaction.
// Either everything lands or nothing does.
func (r *Registry) Ingest(ownerID uint, payload *models.SyncPayload, remoteAddr string) (*models.SyncData, error) {
	server, err := r.FindForOwner(payload.ServerID, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	applySyncUpdate(server, payload, remoteAddr, now)

	data := models.SyncData{
		ServerID:          server.ID,
		UserID:            ownerID,
		DataTimestamp:     now,
		AvgTemperature:    payload.AvgTemperature,
		MinTemperature:    payload.MinTemperature,
		MaxTemperature:    payload.MaxTemperature,
		AvgHumidity:       payload.AvgHumidity,
		MinHumidity:       payload.MinHumidity,
		MaxHumidity:       payload.MaxHumidity,
		AvgLightIntensity: payload.AvgLightIntensity,
		AvgPressure:       payload.AvgPressure,
		ClientsTotal:      payload.ClientsTotal,
		ClientsOnline:     payload.ClientsOnline,
		ReadingsCount:     payload.ReadingsCount,
	}

	event := models.SyncEvent{
		ServerID:  server.ID,
		EventType: models.EventSyncSuccess,
		Message:   fmt.Sprintf("Sync completed - %d readings", payload.ReadingsCount),
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(server).Error; err != nil {
			return err
		}
		if err := tx.Create(&data).Error; err != nil {
			return err
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, err
	}
	return &data, nil
}
