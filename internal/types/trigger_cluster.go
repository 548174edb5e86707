package types

import "time"

// TriggerCluster is the secondary classification axis ("topic").
// LanguageCode is optional; it survives from the legacy topic-per-language
// shape and is still part of the served payload.
type TriggerCluster struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Code         string    `gorm:"column:code;size:50;not null;uniqueIndex" json:"code"`
	DisplayName  string    `gorm:"column:display_name;size:100;not null" json:"display_name"`
	Description  string    `gorm:"column:description" json:"description"`
	LanguageCode string    `gorm:"column:language_code;size:10" json:"language_code"`
	SortOrder    int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	IsActive     bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (TriggerCluster) TableName() string { return "trigger_cluster" }
