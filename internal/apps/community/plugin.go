package community

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/notify"
)

// CommunityPlugin serves the events, notices and advertisements feeds.
type CommunityPlugin struct {
	notifier notify.Notifier
}

func New(notifier notify.Notifier) *CommunityPlugin {
	return &CommunityPlugin{notifier: notifier}
}

func (p *CommunityPlugin) ID() string { return "community" }

func (p *CommunityPlugin) Models() []interface{} {
	return models.ContentModels()
}

func (p *CommunityPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewContentHandler(NewContentService(db, p.notifier, cfg))

	router.Get("/events", handler.ListEvents)
	router.Get("/notices", handler.ListNotices)
	router.Get("/advertisements", handler.ListAdvertisements)
}

func (p *CommunityPlugin) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewContentHandler(NewContentService(db, p.notifier, cfg))

	router.Post("/events", handler.CreateEvent)
	router.Post("/notices", handler.CreateNotice)
	router.Post("/advertisements", handler.CreateAdvertisement)
}
