package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Platforms is the fixed set of hardware variants an asset collection can
// be scoped to.
var Platforms = []string{"aplite", "basalt", "chalk", "diorite"}

type App struct {
	// ID is generated by the id generator, UUID comes out of the pbw's
	// appinfo.json and is unique store-wide.
	ID   string `gorm:"primaryKey" json:"id"`
	UUID string `gorm:"uniqueIndex;column:uuid" json:"uuid"`

	Title      string `json:"title"`
	Type       string `json:"type"`
	CategoryId string `json:"category_id"`
	Visible    bool   `json:"visible"`
	Website    string `json:"website"`
	Source     string `json:"source"`

	IconLarge string `json:"icon_large"`
	IconSmall string `json:"icon_small"`

	Hearts          int  `json:"hearts"`
	TimelineEnabled bool `json:"timeline_enabled"`

	CreatedAt time.Time `json:"created_at"`

	DeveloperID string `json:"developer_id"`
	Developer   Developer

	AssetCollections []AssetCollection `json:"asset_collections"`
	Releases         []Release         `json:"releases"`
}

// AssetCollection holds the visual assets for one hardware platform. The
// asset reference lists are stored comma-joined; references are hex ids so
// the separator is safe.
type AssetCollection struct {
	gorm.Model

	AppID    string `json:"app_id"`
	Platform string `json:"platform"`

	Description string `json:"description"`
	Screenshots string `json:"screenshots"`
	Headers     string `json:"headers"`
	Banner      string `json:"banner"`
}

func (ac *AssetCollection) ScreenshotRefs() []string {
	return splitRefs(ac.Screenshots)
}

func (ac *AssetCollection) SetScreenshotRefs(refs []string) {
	ac.Screenshots = strings.Join(refs, ",")
}

func (ac *AssetCollection) HeaderRefs() []string {
	return splitRefs(ac.Headers)
}

func (ac *AssetCollection) SetHeaderRefs(refs []string) {
	ac.Headers = strings.Join(refs, ",")
}

func splitRefs(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}
