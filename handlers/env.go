package handlers

import (
	"log"

	"buildflow-api/config"
	"buildflow-api/models"
	"buildflow-api/notify"
	"buildflow-api/realtime"

	"github.com/gin-gonic/gin"
)

// Env carries the injected collaborators (hub, outbound notifier, config)
// into the handlers that need them. Constructed once in main.
type Env struct {
	Cfg    *config.Config
	Hub    *realtime.Hub
	Notify *notify.Notifier
}

// logEvent appends to the event log. Best-effort: failures are logged and
// never fail the request that triggered them.
func logEvent(c *gin.Context, userID *uint, eventType string, metadata map[string]any) {
	entry := models.EventLog{
		UserID:    userID,
		EventType: eventType,
		Metadata:  metadata,
	}
	if c != nil {
		entry.IPAddress = c.ClientIP()
		entry.UserAgent = c.GetHeader("User-Agent")
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		log.Printf("event log append failed (%s): %v", eventType, err)
	}
}

func uintPtr(v uint) *uint { return &v }
