package types

import "time"

// VideoCluster is a "bundle": an ordered, localized-named grouping of videos
// under one trigger. Bundles are cascade-deleted with their trigger.
type VideoCluster struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	Code      string   `gorm:"column:code;size:80;not null;uniqueIndex" json:"code"`
	TriggerID uint     `gorm:"column:trigger_id;not null;index" json:"trigger_id"`
	Trigger   *Trigger `gorm:"constraint:OnDelete:CASCADE;foreignKey:TriggerID;references:ID" json:"trigger,omitempty"`

	Description    string `gorm:"column:description" json:"description"`
	SortOrder      int    `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	IsPublished    bool   `gorm:"column:is_published;not null" json:"is_published"`
	IsActive       bool   `gorm:"column:is_active;not null" json:"is_active"`
	SearchKeywords string `gorm:"column:search_keywords" json:"search_keywords"`

	Languages []VideoClusterLanguage `gorm:"foreignKey:VideoClusterID;references:ID" json:"languages,omitempty"`
	Members   []VideoClusterVideo    `gorm:"foreignKey:VideoClusterID;references:ID" json:"members,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (VideoCluster) TableName() string { return "video_cluster" }
