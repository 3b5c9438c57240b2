package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// App is a purchasable catalog entry (a streaming platform).
type App struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	LogoURL     string    `gorm:"size:1024" json:"logo_url"`
	Active      bool      `gorm:"default:true" json:"active"`
	Recommended bool      `gorm:"default:false" json:"recommended"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Plans       []Plan    `gorm:"foreignKey:AppID" json:"plans,omitempty"`
}

func (App) TableName() string { return "ott_apps" }

func (a *App) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Plan is a priced tier of an App. Price is whole currency units (INR);
// orders never copy it, price is always read through this row.
type Plan struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AppID     uuid.UUID `gorm:"type:uuid;not null;index" json:"app_id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Price     int       `gorm:"not null" json:"price"`
	Details   string    `gorm:"type:text" json:"details"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	App       *App      `gorm:"foreignKey:AppID" json:"app,omitempty"`
}

func (Plan) TableName() string { return "ott_plans" }

func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
