package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentBase holds the columns shared by events, notices and ads.
type ContentBase struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Image       string    `gorm:"size:500" json:"image"`
	Location    string    `gorm:"size:255" json:"location"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Event struct {
	ContentBase
	EventDate *time.Time `gorm:"type:date;index" json:"event_date"`
}

func (Event) TableName() string { return "events" }

type Notice struct {
	ContentBase
	NoticeDate *time.Time `gorm:"type:date" json:"notice_date"`
}

func (Notice) TableName() string { return "notices" }

type Advertisement struct {
	ContentBase
	AdDate *time.Time `gorm:"type:date" json:"ad_date"`
	Price  *float64   `gorm:"type:numeric(10,2)" json:"price"`
}

func (Advertisement) TableName() string { return "advertisements" }

// ContentModels lists the community feed tables.
func ContentModels() []interface{} {
	return []interface{}{&Event{}, &Notice{}, &Advertisement{}}
}
