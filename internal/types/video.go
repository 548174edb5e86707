package types

import "time"

// Video is one piece of patient-education content. Localized titles and
// URLs live in VideoLanguage rows; extra trigger associations beyond the
// primary one live in VideoTriggerMap.
type Video struct {
	ID               uint         `gorm:"primaryKey" json:"id"`
	Code             string       `gorm:"column:code;size:80;not null;uniqueIndex" json:"code"`
	Description      string       `gorm:"column:description" json:"description"`
	PrimaryTriggerID *uint        `gorm:"column:primary_trigger_id;index" json:"primary_trigger_id,omitempty"`
	PrimaryTrigger   *Trigger     `gorm:"constraint:OnDelete:SET NULL;foreignKey:PrimaryTriggerID;references:ID" json:"primary_trigger,omitempty"`
	PrimaryTherapyID *uint        `gorm:"column:primary_therapy_id;index" json:"primary_therapy_id,omitempty"`
	PrimaryTherapy   *TherapyArea `gorm:"constraint:OnDelete:SET NULL;foreignKey:PrimaryTherapyID;references:ID" json:"primary_therapy,omitempty"`

	DurationSeconds *int   `gorm:"column:duration_seconds" json:"duration_seconds,omitempty"`
	ThumbnailURL    string `gorm:"column:thumbnail_url;size:255" json:"thumbnail_url"`
	SortOrder       int    `gorm:"column:sort_order;not null;default:0" json:"sort_order"`

	IsPublished    bool   `gorm:"column:is_published;not null" json:"is_published"`
	IsActive       bool   `gorm:"column:is_active;not null" json:"is_active"`
	SearchKeywords string `gorm:"column:search_keywords" json:"search_keywords"`

	Languages []VideoLanguage `gorm:"foreignKey:VideoID;references:ID" json:"languages,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Video) TableName() string { return "video" }
