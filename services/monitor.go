package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/Danidiaz0799/fungicloud/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// stopTimeout bounds how long Stop waits for an in-flight sweep.
const stopTimeout = 10 * time.Second

// AlertMonitor is the background loop that detects stale servers, flips them
// offline and notifies their owners. Exactly one instance runs per process;
// it is constructed and started from main, never lazily.
type AlertMonitor struct {
	db       *gorm.DB
	notifier Notifier

	checkInterval time.Duration
	staleWindow   time.Duration

	// OnOffline, when set, is invoked for every server the sweep transitions
	// offline. Used to push live updates to connected dashboards.
	OnOffline func(server models.LocalServer)

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

func NewAlertMonitor(db *gorm.DB, notifier Notifier, checkInterval, staleWindow time.Duration) *AlertMonitor {
	return &AlertMonitor{
		db:            db,
		notifier:      notifier,
		checkInterval: checkInterval,
		staleWindow:   staleWindow,
	}
}

// Start spawns the monitor loop. Calling Start on a running monitor is a
// no-op with a warning.
func (m *AlertMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		log.Println("alert monitor already running")
		return
	}
	m.running = true
	m.stop = make(chan struct{})
	m.done = make(chan struct{})

	go m.loop(m.stop, m.done)
	log.Printf("alert monitor started (interval %s, stale window %s)", m.checkInterval, m.staleWindow)
}

// Stop signals the loop to exit and waits up to stopTimeout for it to finish.
// A sweep in progress is allowed to complete its current iteration.
func (m *AlertMonitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stop, done := m.stop, m.done
	m.mu.Unlock()

	close(stop)
	select {
	case <-done:
		log.Println("alert monitor stopped")
	case <-time.After(stopTimeout):
		log.Println("alert monitor stop timed out, abandoning sweep")
	}
}

func (m *AlertMonitor) loop(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		m.runSweep()
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// runSweep executes one sweep and absorbs any failure so a bad iteration
// never terminates the loop.
func (m *AlertMonitor) runSweep() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("alert monitor sweep panic: %v", r)
		}
	}()
	if err := m.CheckOfflineServers(); err != nil {
		log.Printf("alert monitor sweep error: %v", err)
	}
}

// CheckOfflineServers is one monitor sweep: every server silent beyond the
// stale window with alerting enabled is flipped offline, an audit event is
// appended, and the owner is mailed. All status transitions commit as one
// batch; a failed notification is logged and never rolls anything back.
func (m *AlertMonitor) CheckOfflineServers() error {
	threshold := time.Now().Add(-m.staleWindow)
	var transitioned []models.LocalServer

	err := m.db.Transaction(func(tx *gorm.DB) error {
		var stale []models.LocalServer
		err := tx.Where("last_seen < ? AND status != ? AND alerts_enabled = ?",
			threshold, models.StatusOffline, true).Find(&stale).Error
		if err != nil {
			return err
		}

		for i := range stale {
			server := &stale[i]
			server.Status = models.StatusOffline
			if err := tx.Save(server).Error; err != nil {
				return err
			}

			meta, _ := json.Marshal(map[string]interface{}{
				"last_seen": server.LastSeen,
			})
			event := models.SyncEvent{
				ServerID:  server.ID,
				EventType: models.EventServerOffline,
				Message:   "Server marked offline after " + m.staleWindow.String() + " of silence",
				Metadata:  datatypes.JSON(meta),
			}
			if err := tx.Create(&event).Error; err != nil {
				return err
			}

			m.notifyOwner(tx, server)
			transitioned = append(transitioned, *server)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if m.OnOffline != nil {
		for _, server := range transitioned {
			m.OnOffline(server)
		}
	}
	return nil
}

// notifyOwner mails the alert for one transition. Best-effort only.
func (m *AlertMonitor) notifyOwner(tx *gorm.DB, server *models.LocalServer) {
	var user models.User
	if err := tx.First(&user, server.UserID).Error; err != nil {
		log.Printf("offline alert for %s: owner %d not found", server.ServerID, server.UserID)
		return
	}
	if !user.IsActive {
		return
	}

	to := server.AlertEmail
	if to == "" {
		to = user.Email
	}
	lastSeen := time.Now()
	if server.LastSeen != nil {
		lastSeen = *server.LastSeen
	}
	if err := m.notifier.SendOfflineAlert(to, server.Name, lastSeen); err != nil {
		log.Printf("offline alert for %s to %s failed: %v", server.ServerID, to, err)
		return
	}
	log.Printf("offline alert sent: server %s, owner %s", server.ServerID, to)
}
